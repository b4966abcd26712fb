// Package view defines the host surface the animation layers drive. A host
// is anything that can report scroll geometry and perform scrolls: the
// bundled terminal demo, a headless double in tests, or a real rendering
// surface embedding the engine.
package view

// Rect is a vertical slice of the content, in pixels from the content top.
type Rect struct {
	Top    float64
	Height float64
}

// Center returns the rect's vertical midpoint.
func (r Rect) Center() float64 { return r.Top + r.Height/2 }

// Bottom returns the coordinate just past the rect's end.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Viewport is the geometry and scrolling interface of a host. It is
// queried every animation frame, so implementations should answer from
// cached state rather than remeasuring.
type Viewport interface {
	// ScrollTop is the current scroll offset in pixels.
	ScrollTop() float64

	// ViewportHeight is the visible height in pixels.
	ViewportHeight() float64

	// ContentHeight is the full scrollable content height in pixels.
	ContentHeight() float64

	// ScrollTo moves the viewport. With smooth set the host applies its
	// native glide toward top; otherwise it jumps immediately.
	ScrollTo(top float64, smooth bool)

	// SectionRect reports the measured rect of a section id.
	SectionRect(id string) (Rect, bool)
}

// MaxScroll returns the scrollable range of v, never negative. A content
// shorter than the viewport yields zero.
func MaxScroll(v Viewport) float64 {
	m := v.ContentHeight() - v.ViewportHeight()
	if m < 0 {
		return 0
	}
	return m
}
