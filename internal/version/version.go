// Package version holds build metadata of the brook CLI.
// The variables are overridden at build time via -ldflags.
package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"brook/internal/irfile"
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored paints the major, minor and patch parts of Version.
// Colouring follows color.NoColor.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Format renders the `brook version` output.
func Format(colored bool) string {
	v := Version
	if colored {
		v = Colored()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "brook %s\n", v)
	fmt.Fprintf(&sb, "container format %d.%d.%d\n", irfile.Version[0], irfile.Version[1], irfile.Version[2])
	if GitCommit != "" {
		fmt.Fprintf(&sb, "commit %s\n", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "built %s\n", BuildDate)
	}
	return sb.String()
}
