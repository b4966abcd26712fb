package tui

import (
	"math"
	"strings"
	"sync"

	"github.com/charmbracelet/harmonica"

	"github.com/kajander/scrollspring/internal/view"
)

// Glide tuning for the viewport's native smooth scroll. The glide is
// presentation-side polish: the animation springs track the scroll
// position independently of it.
const (
	glideFPS       = 60
	glideFrequency = 6.0
	glideDamping   = 1.0
	glideEpsilon   = 0.05
)

// DocViewport renders a Document at a fixed width and exposes the result
// as a scrollable surface. It implements view.Viewport with rows as the
// content unit: scrollTop is a fractional row index, section rects are row
// spans. Smooth scrolls glide on a harmonica spring advanced by Tick.
type DocViewport struct {
	mu     sync.Mutex
	doc    *Document
	width  int
	height int

	lines []string
	rects map[string]view.Rect

	top    float64
	spring harmonica.Spring
	vel    float64
	target float64
	glide  bool
}

var _ view.Viewport = (*DocViewport)(nil)

// NewDocViewport lays doc out at the given content width and height in
// character cells.
func NewDocViewport(doc *Document, width, height int) *DocViewport {
	v := &DocViewport{
		doc:    doc,
		spring: harmonica.NewSpring(harmonica.FPS(glideFPS), glideFrequency, glideDamping),
	}
	v.Layout(width, height)
	return v
}

// Layout re-renders the document for a new pane size. The scroll position
// is carried over, clamped to the new range, and any glide in flight is
// dropped since its target row no longer means the same place.
func (v *DocViewport) Layout(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width < 8 {
		width = 8
	}
	if height < 1 {
		height = 1
	}
	v.width = width
	v.height = height

	v.lines = v.lines[:0]
	v.rects = make(map[string]view.Rect, len(v.doc.Sections))
	for _, s := range v.doc.Sections {
		top := len(v.lines)
		v.lines = append(v.lines, s.Title)
		v.lines = append(v.lines, strings.Repeat("─", min(len(s.Title), width)))
		v.lines = append(v.lines, wrap(s.Body, width)...)
		v.lines = append(v.lines, "")
		v.rects[s.ID] = view.Rect{Top: float64(top), Height: float64(len(v.lines) - top)}
	}

	v.glide = false
	v.vel = 0
	v.top = v.clampLocked(v.top)
}

func (v *DocViewport) clampLocked(top float64) float64 {
	max := float64(len(v.lines) - v.height)
	if max < 0 {
		max = 0
	}
	return math.Max(0, math.Min(top, max))
}

// ScrollTop implements view.Viewport.
func (v *DocViewport) ScrollTop() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.top
}

// ViewportHeight implements view.Viewport.
func (v *DocViewport) ViewportHeight() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return float64(v.height)
}

// ContentHeight implements view.Viewport.
func (v *DocViewport) ContentHeight() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return float64(len(v.lines))
}

// SectionRect implements view.Viewport.
func (v *DocViewport) SectionRect(id string) (view.Rect, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r, ok := v.rects[id]
	return r, ok
}

// ScrollTo implements view.Viewport. A smooth scroll starts the glide
// toward top; an instant one jumps and cancels any glide in flight.
func (v *DocViewport) ScrollTo(top float64, smooth bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	top = v.clampLocked(top)
	if smooth {
		v.target = top
		v.glide = true
		return
	}
	v.top = top
	v.vel = 0
	v.glide = false
}

// ScrollBy scrolls freely by delta rows, interrupting any glide. It
// reports whether the position changed.
func (v *DocViewport) ScrollBy(delta float64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.glide = false
	v.vel = 0
	prev := v.top
	v.top = v.clampLocked(v.top + delta)
	return v.top != prev
}

// Gliding reports whether a smooth scroll is in flight.
func (v *DocViewport) Gliding() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.glide
}

// Tick advances the glide by one frame and reports whether the scroll
// position moved. Within glideEpsilon of the target the position snaps and
// the glide ends.
func (v *DocViewport) Tick() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.glide {
		return false
	}
	pos, vel := v.spring.Update(v.top, v.vel, v.target)
	if math.Abs(pos-v.target) < glideEpsilon && math.Abs(vel) < glideEpsilon {
		v.top = v.target
		v.vel = 0
		v.glide = false
		return true
	}
	v.top = v.clampLocked(pos)
	v.vel = vel
	return true
}

// VisibleLines returns the rows currently in the pane, padded with blanks
// past the content end so the slice is always exactly pane-height long.
func (v *DocViewport) VisibleLines() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	start := int(v.top)
	out := make([]string, v.height)
	for i := range out {
		if j := start + i; j >= 0 && j < len(v.lines) {
			out[i] = v.lines[j]
		}
	}
	return out
}

// Width returns the content width the document is laid out at.
func (v *DocViewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}
