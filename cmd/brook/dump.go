package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"brook/internal/diag"
	"brook/internal/driver"
	"brook/internal/ir"
	"brook/internal/observ"
	"brook/internal/source"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] file.bk|file.bkc",
	Short: "Print the IR of a source file or of a compiled container",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	path := args[0]

	if filepath.Ext(path) == driver.ObjectExt {
		bag := diag.NewBag(g.maxDiagnostics)
		obj, err := driver.LoadObject(path, diag.BagReporter{Bag: bag})
		if err != nil {
			return reportBag(cmd, bag, nil)
		}
		return ir.Dump(cmd.OutOrStdout(), obj)
	}

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	timer := observ.NewTimer()
	unit, err := driver.Compile(cmd.Context(), fs.Get(id), driver.Options{Timer: timer})
	if err != nil {
		return reportCompileError(cmd, err)
	}
	if err := ir.Dump(cmd.OutOrStdout(), unit.Object); err != nil {
		return err
	}
	printTimings(cmd.ErrOrStderr(), g, timer)
	return nil
}
