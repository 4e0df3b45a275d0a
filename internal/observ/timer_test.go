package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	return func() time.Time {
		n++
		return base.Add(time.Duration(n) * step)
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	load := tm.Begin("load")
	tm.End(load, "12 bytes")
	tm.Track("scan", func() string { return "1 finding" })

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "load" || report.Phases[0].DurationMS != 2 {
		t.Errorf("unexpected load phase %+v", report.Phases[0])
	}
	if report.TotalMS != 4 {
		t.Errorf("TotalMS = %v, want 4", report.TotalMS)
	}
	if tm.Duration("scan") != 2*time.Millisecond {
		t.Errorf("Duration(scan) = %v", tm.Duration("scan"))
	}

	summary := tm.Summary()
	for _, want := range []string{"timings:", "load", "// 12 bytes", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestTimerIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(5, "nope")
	tm.End(-1, "nope")
	if len(tm.Report().Phases) != 0 {
		t.Fatal("End with a bad index must not record phases")
	}
}

func TestTimerMerge(t *testing.T) {
	a, b := NewTimer(), NewTimer()
	a.now = fakeClock(time.Millisecond)
	b.now = fakeClock(time.Millisecond)
	a.Track("scan", func() string { return "" })
	b.Track("scan", func() string { return "" })
	a.Merge(b)
	if a.Duration("scan") != 2*time.Millisecond {
		t.Fatalf("merged scan duration = %v", a.Duration("scan"))
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	if idx := tm.Begin("x"); idx != -1 {
		t.Errorf("Begin on nil timer = %d", idx)
	}
	tm.End(0, "")
	if tm.Report().TotalMS != 0 {
		t.Error("nil timer must report nothing")
	}
}
