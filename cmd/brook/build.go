package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"brook/internal/driver"
	"brook/internal/observ"
	"brook/internal/project"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [file.bk|dir ...]",
	Short: "Compile sources into .bkc containers",
	Long: `Build compiles every source independently and in parallel.
Without arguments the sources, output directory and job count come from brook.toml.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("out-dir", "o", "", "output directory (default: next to each source)")
	buildCmd.Flags().IntP("jobs", "j", 0, "parallel jobs (0 = GOMAXPROCS)")
	buildCmd.Flags().Bool("no-cache", false, "ignore and do not update the build cache")
	buildCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	req, err := buildRequest(cmd, args)
	if err != nil {
		return err
	}
	req.MaxDiagnostics = g.maxDiagnostics
	if len(req.Files) == 0 {
		return fmt.Errorf("no %s sources found", driver.SourceExt)
	}
	if req.OutDir != "" {
		if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
			return err
		}
	}

	timer := observ.NewTimer()
	if g.timings {
		req.Timer = timer
	}

	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	var res *driver.BuildResult
	if !g.quiet && shouldUseTUI(mode) {
		res, err = runBuildWithUI(cmd.Context(), "brook build", req)
	} else {
		res, err = driver.Build(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	if rerr := reportBag(cmd, res.Bag, res.FileSet); rerr != nil {
		return rerr
	}
	if !g.quiet {
		built, cached := 0, 0
		for _, fr := range res.Files {
			switch {
			case fr.Cached:
				cached++
			case fr.Err == nil:
				built++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "built %d file(s), %d up to date\n", built, cached)
	}
	printTimings(cmd.ErrOrStderr(), g, timer)
	return nil
}

// buildRequest combines command-line arguments with brook.toml.
// Explicit flags win over the manifest.
func buildRequest(cmd *cobra.Command, args []string) (driver.BuildRequest, error) {
	var req driver.BuildRequest
	flags := cmd.Flags()

	manifest, found, err := project.Load(".")
	if err != nil {
		return req, err
	}

	noCache, _ := flags.GetBool("no-cache")
	switch {
	case len(args) > 0:
		files, err := driver.ExpandSources("", args)
		if err != nil {
			return req, err
		}
		req.Files = files
		req.BaseDir = commonDir(files)
	case found:
		files, err := driver.ExpandSources(manifest.Root, manifest.Config.Build.Sources)
		if err != nil {
			return req, fmt.Errorf("%s: %w", manifest.Path, err)
		}
		req.Files = files
		req.BaseDir = manifest.Root
		req.OutDir = manifest.OutDir()
		req.Jobs = manifest.Config.Build.Jobs
	default:
		return req, fmt.Errorf("no %s found\nplease specify the sources explicitly, e.g.:\n  brook build path/to/main.bk", project.ManifestName)
	}

	if flags.Changed("out-dir") {
		req.OutDir, _ = flags.GetString("out-dir")
	}
	if flags.Changed("jobs") {
		req.Jobs, _ = flags.GetInt("jobs")
	}
	if found && !noCache && manifest.Config.Build.CacheEnabled() {
		cache, err := driver.OpenCache(manifest.CacheDir())
		if err != nil {
			return req, fmt.Errorf("failed to open build cache: %w", err)
		}
		req.Cache = cache
	}
	return req, nil
}

// commonDir is the deepest directory containing every file.
func commonDir(files []string) string {
	if len(files) == 0 {
		return ""
	}
	dir := filepath.Dir(files[0])
	for _, f := range files[1:] {
		for dir != "." && dir != string(filepath.Separator) && !strings.HasPrefix(f, dir+string(filepath.Separator)) {
			dir = filepath.Dir(dir)
		}
	}
	return dir
}
