package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"brook/internal/diag"
	"brook/internal/diagfmt"
	"brook/internal/observ"
	"brook/internal/source"
)

type globalFlags struct {
	quiet          bool
	timings        bool
	maxDiagnostics int
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var g globalFlags
	var err error
	if g.quiet, err = pf.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = pf.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return g, nil
}

// colorFor follows --color for a specific stream.
func colorFor(cmd *cobra.Command, f *os.File) bool {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f) && os.Getenv("NO_COLOR") == ""
	}
}

func prettyOpts(cmd *cobra.Command) diagfmt.PrettyOpts {
	wd, _ := os.Getwd()
	return diagfmt.PrettyOpts{Color: colorFor(cmd, os.Stderr), BaseDir: wd, ShowNotes: true}
}

// reportCompileError renders err and turns it into exit status 1.
// Errors that are not compiler diagnostics are returned unchanged.
func reportCompileError(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	de, ok := diag.AsError(err)
	if !ok {
		return err
	}
	diagfmt.Error(cmd.ErrOrStderr(), de, prettyOpts(cmd))
	return exitError{code: 1}
}

// reportBag prints every diagnostic of bag; it returns exit status 1 when any is an error.
func reportBag(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if mode, _ := cmd.Root().PersistentFlags().GetString("diag-format"); mode == "short" {
		fmt.Fprintln(cmd.ErrOrStderr(), diag.FormatShort(bag.Items()))
		if bag.HasErrors() {
			return exitError{code: 1}
		}
		return nil
	}
	opts := prettyOpts(cmd)
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, opts)
	if !bag.HasErrors() {
		return nil
	}
	errs := 0
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevError {
			errs++
		}
	}
	diagfmt.Summary(cmd.ErrOrStderr(), errs, opts)
	return exitError{code: 1}
}

func printTimings(w io.Writer, g globalFlags, timer *observ.Timer) {
	if g.timings && timer != nil {
		fmt.Fprint(w, timer.Summary())
	}
}
