// Package export renders saved runs into portable formats: an SVG plot of
// the trace, or raw CSV/JSON for external tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kajander/scrollspring/internal/store"
	"github.com/kajander/scrollspring/internal/trace"
)

// SVGOpts controls plot dimensions and color. Zero fields select the
// defaults.
type SVGOpts struct {
	Width  int
	Height int
	Stroke string
}

// SVG writes a step-response plot: the value curve over time, a dashed
// line at the target, and a marker at the settling point.
func SVG(w io.Writer, meta *store.RunMetadata, samples []trace.Sample, opts SVGOpts) error {
	if len(samples) < 2 {
		return fmt.Errorf("export: need at least 2 samples, got %d", len(samples))
	}
	if opts.Width <= 0 {
		opts.Width = 640
	}
	if opts.Height <= 0 {
		opts.Height = 320
	}
	if opts.Stroke == "" {
		opts.Stroke = "#00ff00"
	}

	minY, maxY := meta.To, meta.To
	for _, s := range samples {
		minY = min(minY, s.Value)
		maxY = max(maxY, s.Value)
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	maxT := samples[len(samples)-1].T

	fw := float64(opts.Width)
	fh := float64(opts.Height)
	toX := func(t float64) float64 { return t / maxT * fw }
	toY := func(v float64) float64 { return fh - (v-minY)/rangeY*fh }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height))

	sb.WriteString(fmt.Sprintf(
		"<line x1=\"0\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"#555555\" stroke-dasharray=\"4 4\"/>\n",
		toY(meta.To), fw, toY(meta.To)))

	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, opts.Stroke))
	for i, s := range samples {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", toX(s.T), toY(s.Value)))
			continue
		}
		sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", toX(s.T), toY(s.Value)))
	}
	sb.WriteString("\"/>\n")

	for _, s := range samples {
		if s.Settled {
			sb.WriteString(fmt.Sprintf(
				"<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"#ffffff\"/>\n",
				toX(s.T), toY(s.Value)))
			break
		}
	}

	sb.WriteString(fmt.Sprintf(
		"<text x=\"8\" y=\"16\" fill=\"#cccccc\" font-family=\"monospace\" font-size=\"12\">k=%.3f c=%.3f</text>\n",
		meta.K, meta.C))
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// CSV writes the trace in the same column layout the store uses on disk.
func CSV(w io.Writer, samples []trace.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "t", "value", "velocity", "settled"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Frame),
			strconv.FormatFloat(s.T, 'f', 6, 64),
			strconv.FormatFloat(s.Value, 'f', 6, 64),
			strconv.FormatFloat(s.Velocity, 'f', 6, 64),
			strconv.FormatBool(s.Settled),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSON writes metadata and samples as one indented document.
func JSON(w io.Writer, meta *store.RunMetadata, samples []trace.Sample) error {
	doc := struct {
		Meta    *store.RunMetadata `json:"meta"`
		Samples []trace.Sample     `json:"samples"`
	}{meta, samples}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
