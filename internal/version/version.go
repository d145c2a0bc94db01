// Package version holds build metadata for the rxc CLI. The variables can be
// overridden at build time via -ldflags "-X rxc/internal/version.Version=...".
package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	// Version is the semantic version, major.minor.patch[-suffix].
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit subject.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric component highlighted. Anything
// that is not major.minor.patch is returned unchanged.
func Colored() string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Banner is the text printed by `rxc version`. verbose adds commit and build
// date lines when they are known.
func Banner(verbose bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "rxc %s\n", Colored())
	if !verbose {
		return sb.String()
	}
	if GitCommit != "" {
		short := GitCommit
		if len(short) > 12 {
			short = short[:12]
		}
		fmt.Fprintf(&sb, "commit: %s", short)
		if GitMessage != "" {
			fmt.Fprintf(&sb, " (%s)", GitMessage)
		}
		sb.WriteByte('\n')
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, "built:  %s\n", BuildDate)
	}
	return sb.String()
}
