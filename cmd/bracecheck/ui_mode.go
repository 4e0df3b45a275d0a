package main

import (
	"fmt"
	"io"
	"strings"

	"bracecheck/internal/diagfmt"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

// shouldUseTUI decides whether a directory run shows the progress view.
// auto keeps machine-readable and quiet output free of terminal noise.
func shouldUseTUI(mode uiMode, out io.Writer, format diagfmt.Format, quiet bool) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return !quiet && !format.MachineReadable() && isTerminal(out)
	}
}
