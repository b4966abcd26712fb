package tui

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DocSection is one logical content block of a demo document.
type DocSection struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Document is the sectioned content the demo renders and scrolls.
type Document struct {
	Title    string       `yaml:"title"`
	Sections []DocSection `yaml:"sections"`
}

// SectionIDs returns the section ids in document order.
func (d *Document) SectionIDs() []string {
	ids := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		ids[i] = s.ID
	}
	return ids
}

func (d *Document) validate() error {
	if len(d.Sections) == 0 {
		return fmt.Errorf("tui: document has no sections")
	}
	seen := make(map[string]bool, len(d.Sections))
	for i, s := range d.Sections {
		if s.ID == "" {
			return fmt.Errorf("tui: section %d has no id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("tui: duplicate section id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// LoadDocument reads a YAML document file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("tui: parse document: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SampleDocument is the built-in demo content. The middle chapter is
// deliberately long so the snap classifier's free-scroll path is easy to
// reach.
func SampleDocument() *Document {
	para := func(ss ...string) string { return strings.Join(ss, " ") }
	long := strings.Repeat(para(
		"The long chapter keeps going past a single screen, so the wheel",
		"scrolls it natively instead of snapping away. Only at its edges",
		"does a further push hand the gesture back to navigation.",
	)+"\n\n", 14)
	return &Document{
		Title: "scrollspring",
		Sections: []DocSection{
			{
				ID:    "intro",
				Title: "Springs, not timelines",
				Body: para(
					"Every value on this screen is a damped oscillator chasing a",
					"target. Scroll retargets the springs; the engine integrates",
					"them each frame and the presentation reads the smoothed",
					"values back. Nothing animates on a fixed clock."),
			},
			{
				ID:    "labels",
				Title: "Proximity labels",
				Body: para(
					"The rail on the left fades each chapter label by its distance",
					"from the viewport center, measured in viewport heights. The",
					"centered chapter reads full opacity and carries the marker."),
			},
			{
				ID:    "long",
				Title: "A long chapter",
				Body:  long,
			},
			{
				ID:    "minimode",
				Title: "Minimode",
				Body: para(
					"Press m to shrink the content pane. The zoom is itself a",
					"spring pair, one for scale and one for the vertical shift,",
					"so entering and leaving minimode glides instead of jumping."),
			},
			{
				ID:    "outro",
				Title: "Settling",
				Body: para(
					"When every spring is within the sleep window it snaps exactly",
					"onto its target and the frame loop stops itself. The debug",
					"overlay (press d) shows the loop waking and sleeping."),
			},
		},
	}
}

// wrap breaks text into lines at most width runes wide, preserving blank
// lines as paragraph breaks. Words longer than width are left unbroken.
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return out
}
