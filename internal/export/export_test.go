package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/kajander/scrollspring/internal/store"
	"github.com/kajander/scrollspring/internal/trace"
)

func testRun() (*store.RunMetadata, []trace.Sample) {
	meta := &store.RunMetadata{
		ID: "run_test", K: 0.5, C: 0.7, From: 0, To: 1, Dt: 1.0 / 60.0,
	}
	samples := trace.StepResponse(trace.StepOpts{
		K: 0.5, C: 0.7, From: 0, To: 1, Dt: 1.0 / 60.0, Duration: 2,
	})
	return meta, samples
}

func TestSVG(t *testing.T) {
	meta, samples := testRun()
	var sb strings.Builder
	if err := SVG(&sb, meta, samples, SVGOpts{}); err != nil {
		t.Fatalf("SVG() = %v", err)
	}
	out := sb.String()
	for _, want := range []string{"<svg", "<path", "k=0.500 c=0.700", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("SVG output missing %q", want)
		}
	}
	// The k=0.5/c=0.7 step settles within 2 s, so the settle marker must
	// be present.
	if !strings.Contains(out, "<circle") {
		t.Error("SVG output missing the settle marker")
	}
}

func TestSVGNeedsSamples(t *testing.T) {
	meta, _ := testRun()
	var sb strings.Builder
	if err := SVG(&sb, meta, nil, SVGOpts{}); err == nil {
		t.Error("SVG() accepted an empty trace")
	}
}

func TestCSV(t *testing.T) {
	_, samples := testRun()
	var sb strings.Builder
	if err := CSV(&sb, samples); err != nil {
		t.Fatalf("CSV() = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if lines[0] != "frame,t,value,velocity,settled" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != len(samples)+1 {
		t.Errorf("got %d rows, want %d", len(lines)-1, len(samples))
	}
}

func TestJSON(t *testing.T) {
	meta, samples := testRun()
	var sb strings.Builder
	if err := JSON(&sb, meta, samples); err != nil {
		t.Fatalf("JSON() = %v", err)
	}
	var doc struct {
		Meta    store.RunMetadata `json:"meta"`
		Samples []trace.Sample    `json:"samples"`
	}
	if err := json.Unmarshal([]byte(sb.String()), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc.Meta.ID != "run_test" {
		t.Errorf("meta.id = %q, want %q", doc.Meta.ID, "run_test")
	}
	if len(doc.Samples) != len(samples) {
		t.Errorf("got %d samples, want %d", len(doc.Samples), len(samples))
	}
}
