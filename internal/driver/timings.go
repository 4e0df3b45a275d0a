package driver

import (
	"encoding/json"
	"fmt"

	"bracecheck/internal/diag"
	"bracecheck/internal/observ"
	"bracecheck/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// AppendTimingDiagnostic adds an OBS6001 info diagnostic carrying report as JSON.
// Machine-readable outputs use it so timings travel with the findings.
// The bag limit is raised when full: timings are never dropped.
func AppendTimingDiagnostic(bag *diag.Bag, file source.FileID, kind, path string, report observ.Report) {
	if bag == nil {
		return
	}
	payload := timingPayload{Kind: kind, Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	if payload.Kind == "" {
		payload.Kind = "check"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	target := bag
	if bag.Cap() != 0 && bag.Len() >= bag.Cap() {
		// через Merge, чтобы запись не считалась отброшенной
		target = diag.NewBag(0)
		defer bag.Merge(target)
	}
	primary := source.At(file, 0, 0)
	diag.ReportInfo(diag.BagReporter{Bag: target}, diag.ObsTimings, primary, msg).
		WithNote(primary, string(data)).
		Emit()
}
