package main

import (
	"bytes"
	"testing"

	"bracecheck/internal/diagfmt"
)

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Errorf("expected error")
	}
}

func TestShouldUseTUI(t *testing.T) {
	var buf bytes.Buffer
	if !shouldUseTUI(uiModeOn, &buf, diagfmt.FormatJSON, true) {
		t.Errorf("on must force the UI")
	}
	if shouldUseTUI(uiModeOff, &buf, diagfmt.FormatPlain, false) {
		t.Errorf("off must disable the UI")
	}
	if shouldUseTUI(uiModeAuto, &buf, diagfmt.FormatPlain, false) {
		t.Errorf("auto must stay off when stdout is not a terminal")
	}
}
