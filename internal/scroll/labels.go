package scroll

import (
	"math"

	"github.com/kajander/scrollspring/internal/config"
	"github.com/kajander/scrollspring/internal/view"
)

// LabelAnimation is the per-section presentation state derived from the
// smoothed scroll progress. Values are ready to apply: opacity and scale
// are absolute, YOffset is an upward shift in content units.
type LabelAnimation struct {
	Index         int
	ID            string
	LabelProgress float64
	Opacity       float64
	Scale         float64
	YOffset       float64
	Active        bool
}

// ContentTransform is the minimode presentation state.
type ContentTransform struct {
	Scale float64
	Y     float64
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// deriveLabels maps smoothed progress p onto one LabelAnimation per
// section. Distance is measured between the viewport center and each
// section center in viewport heights: a centered section reads opacity 1
// and active, fading linearly to zero at FadeRange. LabelProgress is the
// progress value at which the section would be centered, used by hosts to
// place labels along a rail.
func deriveLabels(ids []string, rects []view.Rect, p, viewportH, maxScroll float64, lc config.LabelConfig) []LabelAnimation {
	labels := make([]LabelAnimation, len(ids))
	viewCenter := p*maxScroll + viewportH/2
	for i, id := range ids {
		center := rects[i].Center()
		distance := 0.0
		if viewportH > 0 {
			distance = math.Abs(viewCenter-center) / viewportH
		}
		opacity := clamp01(1 - distance/lc.FadeRange)
		lp := 0.0
		if maxScroll > 0 {
			lp = clamp01((center - viewportH/2) / maxScroll)
		}
		labels[i] = LabelAnimation{
			Index:         i,
			ID:            id,
			LabelProgress: lp,
			Opacity:       opacity,
			Scale:         lc.ScaleMin + opacity*(lc.ScaleMax-lc.ScaleMin),
			YOffset:       -opacity * lc.YOffsetMax,
			Active:        distance < 0.5,
		}
	}
	return labels
}
