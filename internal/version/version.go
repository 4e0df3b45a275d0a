package version

import (
	"strings"

	"github.com/fatih/color"
)

// Version information for the bracecheck CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = []color.Attribute{color.FgYellow, color.Bold}
	versionMinorColor = []color.Attribute{color.FgGreen, color.Bold}
	versionPatchColor = []color.Attribute{color.FgBlue, color.Bold}

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is a trimmed snapshot of the build metadata.
type Info struct {
	Version    string
	GitCommit  string
	GitMessage string
	BuildDate  string
}

// Collect returns the current build metadata; an empty Version becomes "dev".
func Collect() Info {
	v := strings.TrimSpace(Version)
	if v == "" {
		v = "dev"
	}
	return Info{
		Version:    v,
		GitCommit:  strings.TrimSpace(GitCommit),
		GitMessage: strings.TrimSpace(GitMessage),
		BuildDate:  strings.TrimSpace(BuildDate),
	}
}

// Colored renders v with major, minor and patch in distinct colours.
// Anything that is not MAJOR.MINOR.PATCH[-suffix] is returned unchanged.
func Colored(v string, enabled bool) string {
	core, suffix, hasSuffix := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if !enabled || len(parts) != 3 {
		return v
	}
	out := sprint(versionMajorColor, parts[0]) + "." + sprint(versionMinorColor, parts[1]) + "." + sprint(versionPatchColor, parts[2])
	if hasSuffix {
		out += "-" + suffix
	}
	return out
}

// sprint красит s независимо от того, куда смотрит stdout
func sprint(attrs []color.Attribute, s string) string {
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}
