package diagfmt

import (
	"encoding/json"
	"io"
	"slices"

	"github.com/google/uuid"

	"bracecheck/internal/diag"
	"bracecheck/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Invocations       []sarifInvocation      `json:"invocations,omitempty"`
	Results           []sarifResult          `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string                 `json:"ruleId"`
	RuleIndex        int                    `json:"ruleIndex"`
	Level            string                 `json:"level"`
	Message          sarifMessage           `json:"message"`
	Locations        []sarifLocation        `json:"locations"`
	RelatedLocations []sarifRelatedLocation `json:"relatedLocations,omitempty"`
	Fixes            []sarifFix             `json:"fixes,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifRelatedLocation struct {
	ID               int                   `json:"id"`
	Message          sarifMessage          `json:"message"`
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifMessage `json:"insertedContent,omitempty"`
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifPhysical(fs *source.FileSet, span source.Span, mode PathMode) sarifPhysicalLocation {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	return sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: formatPath(fs, f, mode)},
		Region: sarifRegion{
			StartLine:   start.Line,
			StartColumn: start.Col,
			EndLine:     end.Line,
			EndColumn:   end.Col,
			ByteOffset:  span.Start,
			ByteLength:  span.Len(),
		},
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	items := bag.Items()

	// правила: только встреченные коды, по возрастанию
	var codes []diag.Code
	for _, d := range items {
		if !slices.Contains(codes, d.Code) {
			codes = append(codes, d.Code)
		}
	}
	slices.Sort(codes)
	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		rules[i] = sarifRule{ID: c.ID(), ShortDescription: sarifMessage{Text: c.Title()}}
	}

	results := make([]sarifResult, 0, len(items))
	for _, d := range items {
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: slices.Index(codes, d.Code),
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifPhysical(fs, d.Primary, meta.PathMode)}},
		}
		for i, n := range d.Notes {
			res.RelatedLocations = append(res.RelatedLocations, sarifRelatedLocation{
				ID:               i + 1,
				Message:          sarifMessage{Text: n.Msg},
				PhysicalLocation: sarifPhysical(fs, n.Span, meta.PathMode),
			})
		}
		for _, fix := range d.Fixes {
			sf := sarifFix{Description: sarifMessage{Text: fix.Title}}
			for _, edit := range fix.Edits {
				loc := sarifPhysical(fs, edit.Span, meta.PathMode)
				repl := sarifReplacement{DeletedRegion: loc.Region}
				if edit.NewText != "" {
					repl.InsertedContent = &sarifMessage{Text: edit.NewText}
				}
				sf.ArtifactChanges = append(sf.ArtifactChanges, sarifArtifactChange{
					ArtifactLocation: loc.ArtifactLocation,
					Replacements:     []sarifReplacement{repl},
				})
			}
			res.Fixes = append(res.Fixes, sf)
		}
		results = append(results, res)
	}

	guid := meta.RunGUID
	if guid == "" {
		guid = uuid.NewString()
	}
	name := meta.ToolName
	if name == "" {
		name = "bracecheck"
	}

	run := sarifRun{
		Tool:              sarifTool{Driver: sarifDriver{Name: name, Version: meta.ToolVersion, Rules: rules}},
		AutomationDetails: sarifAutomationDetails{GUID: guid},
		Results:           results,
	}
	if len(meta.InvocationArgs) > 0 {
		run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: true}}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Schema: sarifSchema, Version: sarifVersion, Runs: []sarifRun{run}})
}
