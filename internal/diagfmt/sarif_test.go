package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestSarif(t *testing.T) {
	fs, bag := reportFile(t, "s.txt", "}\n{{}")

	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "bracecheck", ToolVersion: "1.2.3", InvocationArgs: []string{"bracecheck", "s.txt"}, PathMode: PathModeBasename}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
					Rules   []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			AutomationDetails struct {
				GUID string `json:"guid"`
			} `json:"automationDetails"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Message   struct {
					Text string `json:"text"`
				} `json:"message"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
				RelatedLocations []json.RawMessage `json:"relatedLocations"`
				Fixes            []json.RawMessage `json:"fixes"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}

	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("version=%q runs=%d", log.Version, len(log.Runs))
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "bracecheck" || run.Tool.Driver.Version != "1.2.3" {
		t.Fatalf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "BRC1001" || run.Tool.Driver.Rules[1].ID != "BRC1002" {
		t.Fatalf("rules = %+v", run.Tool.Driver.Rules)
	}
	if _, err := uuid.Parse(run.AutomationDetails.GUID); err != nil {
		t.Fatalf("run guid %q: %v", run.AutomationDetails.GUID, err)
	}

	if len(run.Results) != 2 {
		t.Fatalf("results = %d", len(run.Results))
	}
	closeRes, openRes := run.Results[0], run.Results[1]
	if closeRes.RuleID != "BRC1001" || closeRes.RuleIndex != 0 || closeRes.Level != "error" {
		t.Fatalf("close result = %+v", closeRes)
	}
	loc := closeRes.Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "s.txt" || loc.Region.StartLine != 1 || loc.Region.StartColumn != 1 {
		t.Fatalf("close location = %+v", loc)
	}
	if openRes.RuleIndex != 1 || openRes.Message.Text != "Unmatched '{' at line 2, col 2" {
		t.Fatalf("open result = %+v", openRes)
	}
	if len(openRes.RelatedLocations) != 1 || len(openRes.Fixes) != 1 {
		t.Fatalf("open result should carry a note and a fix: %+v", openRes)
	}
}

func TestSarifFixedGUID(t *testing.T) {
	fs, bag := reportFile(t, "g.txt", "")

	var buf bytes.Buffer
	if err := Sarif(&buf, bag, fs, SarifRunMeta{RunGUID: "00000000-0000-0000-0000-000000000001"}); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"guid": "00000000-0000-0000-0000-000000000001"`)) {
		t.Fatalf("guid not propagated:\n%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"results": []`)) {
		t.Fatalf("empty run must still list results:\n%s", buf.String())
	}
}
