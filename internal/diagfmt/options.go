package diagfmt

import (
	"fmt"
	"strings"
)

// Format selects a renderer.
type Format string

const (
	FormatPlain  Format = "plain"
	FormatPretty Format = "pretty"
	FormatShort  Format = "short"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatSarif  Format = "sarif"
)

// Formats lists every supported format.
var Formats = []Format{FormatPlain, FormatPretty, FormatShort, FormatJSON, FormatYAML, FormatSarif}

// ParseFormat resolves a --format value.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatPlain, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (want plain|pretty|short|json|yaml|sarif)", s)
}

// MachineReadable reports whether the format is meant for tools rather than people.
func (f Format) MachineReadable() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatSarif:
		return true
	}
	return false
}

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color       bool
	Context     int8 // строк контекста до и после, <0 — без исходника
	PathMode    PathMode
	Width       uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

// JSONOpts configures JSON and YAML output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
	RunGUID        string // пусто — сгенерировать
	PathMode       PathMode
}
