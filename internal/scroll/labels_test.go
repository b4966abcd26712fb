package scroll

import (
	"math"
	"testing"

	"github.com/kajander/scrollspring/internal/config"
	"github.com/kajander/scrollspring/internal/view"
)

// uniformLayout stacks n sections of equal height h.
func uniformLayout(n int, h float64) ([]string, []view.Rect) {
	ids := make([]string, n)
	rects := make([]view.Rect, n)
	for i := 0; i < n; i++ {
		ids[i] = string(rune('a' + i))
		rects[i] = view.Rect{Top: float64(i) * h, Height: h}
	}
	return ids, rects
}

func TestDeriveLabelsCentered(t *testing.T) {
	ids, rects := uniformLayout(4, 800)
	lc := config.DefaultConfig().Labels
	const (
		vpH       = 800.0
		maxScroll = 2400.0 // 4*800 content minus viewport
	)

	// Progress that puts section 1's center on the viewport center.
	p := (rects[1].Center() - vpH/2) / maxScroll
	labels := deriveLabels(ids, rects, p, vpH, maxScroll, lc)

	if len(labels) != 4 {
		t.Fatalf("len(labels) = %d, want 4", len(labels))
	}
	center := labels[1]
	if math.Abs(center.Opacity-1) > 1e-9 {
		t.Errorf("centered opacity = %v, want 1", center.Opacity)
	}
	if !center.Active {
		t.Error("centered section should be active")
	}
	if math.Abs(center.Scale-lc.ScaleMax) > 1e-9 {
		t.Errorf("centered scale = %v, want %v", center.Scale, lc.ScaleMax)
	}
	if math.Abs(center.YOffset+lc.YOffsetMax) > 1e-9 {
		t.Errorf("centered yOffset = %v, want %v", center.YOffset, -lc.YOffsetMax)
	}
	if math.Abs(center.LabelProgress-p) > 1e-9 {
		t.Errorf("labelProgress = %v, want %v", center.LabelProgress, p)
	}
}

func TestDeriveLabelsSymmetry(t *testing.T) {
	ids, rects := uniformLayout(4, 800)
	lc := config.DefaultConfig().Labels
	p := (rects[1].Center() - 400) / 2400
	labels := deriveLabels(ids, rects, p, 800, 2400, lc)

	// Neighbors sit one viewport height away on either side.
	if math.Abs(labels[0].Opacity-labels[2].Opacity) > 1e-9 {
		t.Errorf("equidistant opacities differ: %v vs %v", labels[0].Opacity, labels[2].Opacity)
	}
	if labels[0].Active || labels[2].Active {
		t.Error("neighbors a full viewport away should not be active")
	}
	want := clamp01(1 - 1/lc.FadeRange)
	if math.Abs(labels[0].Opacity-want) > 1e-9 {
		t.Errorf("neighbor opacity = %v, want %v", labels[0].Opacity, want)
	}
}

func TestDeriveLabelsBeyondFadeRange(t *testing.T) {
	ids, rects := uniformLayout(4, 800)
	lc := config.DefaultConfig().Labels
	p := (rects[0].Center() - 400) / 2400
	labels := deriveLabels(ids, rects, p, 800, 2400, lc)

	// Section 3 is three viewport heights away, far past fade_range.
	if labels[3].Opacity != 0 {
		t.Errorf("distant opacity = %v, want 0", labels[3].Opacity)
	}
	if labels[3].Scale != lc.ScaleMin {
		t.Errorf("distant scale = %v, want %v", labels[3].Scale, lc.ScaleMin)
	}
	if labels[3].YOffset != 0 {
		t.Errorf("distant yOffset = %v, want 0", labels[3].YOffset)
	}
}

func TestDeriveLabelsUnscrollable(t *testing.T) {
	ids, rects := uniformLayout(1, 500)
	lc := config.DefaultConfig().Labels
	labels := deriveLabels(ids, rects, 0, 800, 0, lc)

	if labels[0].LabelProgress != 0 {
		t.Errorf("labelProgress = %v, want 0 when unscrollable", labels[0].LabelProgress)
	}
	// Content is shorter than the viewport; the single section sits near
	// the viewport center and stays visible.
	if labels[0].Opacity <= 0 {
		t.Errorf("opacity = %v, want positive", labels[0].Opacity)
	}
}

func TestDeriveLabelsEmpty(t *testing.T) {
	lc := config.DefaultConfig().Labels
	if got := deriveLabels(nil, nil, 0.5, 800, 2400, lc); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
