package version

import (
	"strings"
	"testing"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b[") {
		t.Error("Version must stay free of escape codes")
	}
}

func TestCollect_Overrides(t *testing.T) {
	origVersion, origCommit, origMessage, origDate := Version, GitCommit, GitMessage, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, GitMessage, BuildDate = origVersion, origCommit, origMessage, origDate
	})

	// как при сборке с -ldflags
	Version = " 1.2.3 "
	GitCommit = "abc123def456\n"
	GitMessage = "fix things"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Collect()
	want := Info{Version: "1.2.3", GitCommit: "abc123def456", GitMessage: "fix things", BuildDate: "2024-01-15T10:30:00Z"}
	if info != want {
		t.Errorf("Collect() = %+v, want %+v", info, want)
	}
}

func TestCollect_EmptyVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "  "
	if got := Collect().Version; got != "dev" {
		t.Errorf("Collect().Version = %q, want dev", got)
	}
}

func TestColored(t *testing.T) {
	if got := Colored("1.2.3-rc1", false); got != "1.2.3-rc1" {
		t.Errorf("disabled colour changed the string: %q", got)
	}
	if got := Colored("nightly", true); got != "nightly" {
		t.Errorf("non-semver should pass through, got %q", got)
	}

	got := Colored("1.2.3-rc1", true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected escape codes, got %q", got)
	}
	if !strings.HasSuffix(got, "-rc1") {
		t.Errorf("suffix lost: %q", got)
	}
	for _, part := range []string{"1", "2", "3"} {
		if !strings.Contains(got, part) {
			t.Errorf("part %s missing from %q", part, got)
		}
	}
}
