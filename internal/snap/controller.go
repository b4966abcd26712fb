// Package snap classifies wheel and keyboard input into section jumps. A
// short section hands the whole gesture to navigation; a long one scrolls
// natively until the viewport reaches its edge. A cooldown window after
// each jump swallows the rest of a continuous gesture so one flick cannot
// skip through multiple sections.
//
// The controller shares only the viewport with the rest of the system: it
// never touches the spring engine, so snap and scroll animation stay
// decoupled.
package snap

import (
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/kajander/scrollspring/internal/config"
	"github.com/kajander/scrollspring/internal/view"
)

// record is one section's measured geometry plus its short/long
// classification against the viewport.
type record struct {
	id     string
	top    float64
	height float64
	long   bool
}

// Controller is the wheel/keyboard classifier for one viewport.
type Controller struct {
	mu   sync.Mutex
	vp   view.Viewport
	cfg  config.SnapConfig
	log  *slog.Logger
	ids  []string
	recs []record
	vpH  float64

	// until marks the cooldown expiry after a jump.
	until time.Time
	now   func() time.Time
}

// New builds a controller over the given section ids and measures them
// once. Nil logger discards diagnostics.
func New(vp view.Viewport, sections []string, cfg config.SnapConfig, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{
		vp:  vp,
		cfg: cfg,
		log: logger,
		ids: append([]string(nil), sections...),
		now: time.Now,
	}
	c.Measure()
	return c
}

// Measure refreshes the geometry records. A section the viewport cannot
// measure degrades to a zero record.
func (c *Controller) Measure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vpH = c.vp.ViewportHeight()
	c.recs = make([]record, len(c.ids))
	for i, id := range c.ids {
		r, ok := c.vp.SectionRect(id)
		if !ok {
			c.log.Warn("section not measurable", "id", id)
		}
		c.recs[i] = record{
			id:     id,
			top:    r.Top,
			height: r.Height,
			long:   r.Height > c.cfg.LongSectionRatio*c.vpH,
		}
	}
}

// HandleResize remeasures immediately. Measurement is cheap, so unlike the
// orchestrator's resize path there is no debounce here.
func (c *Controller) HandleResize() {
	c.Measure()
}

// InCooldown reports whether the controller is inside the post-jump
// refractory window.
func (c *Controller) InCooldown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now().Before(c.until)
}

// HandleWheel classifies one wheel delta (positive scrolls down) and
// reports whether the event was consumed. Unconsumed events should scroll
// natively.
func (c *Controller) HandleWheel(delta float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.recs) == 0 {
		return false
	}
	if math.Abs(delta) < c.cfg.WheelThreshold {
		return false
	}
	if c.now().Before(c.until) {
		return true
	}

	top := c.vp.ScrollTop()
	i := c.indexAt(top)
	dir := 1
	if delta < 0 {
		dir = -1
	}
	if c.recs[i].long && !c.atEdge(c.recs[i], top, dir) {
		return false
	}
	return c.jumpLocked(i + dir)
}

// HandleKey classifies one navigation key and reports whether it was
// consumed.
func (c *Controller) HandleKey(k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.recs) == 0 {
		return false
	}
	if c.now().Before(c.until) {
		return true
	}

	i := c.indexAt(c.vp.ScrollTop())
	switch k {
	case KeyArrowDown, KeyPageDown, KeySpace:
		return c.jumpLocked(i + 1)
	case KeyArrowUp, KeyPageUp:
		return c.jumpLocked(i - 1)
	case KeyHome:
		return c.jumpLocked(0)
	case KeyEnd:
		return c.jumpLocked(len(c.recs) - 1)
	}
	return false
}

// indexAt returns the record containing top, clamped to the ends.
func (c *Controller) indexAt(top float64) int {
	for i, r := range c.recs {
		if top < r.top+r.height {
			return i
		}
	}
	return len(c.recs) - 1
}

// atEdge reports whether the viewport has reached the boundary of a long
// section in the push direction: its top going up, its bottom going down.
func (c *Controller) atEdge(r record, top float64, dir int) bool {
	if dir < 0 {
		return top <= r.top+c.cfg.EdgeThreshold
	}
	return top+c.vpH >= r.top+r.height-c.cfg.EdgeThreshold
}

// jumpLocked snaps to records[target] and opens the cooldown window. An
// out-of-bounds target is a consumed no-op, so pushes past either end
// stay put without error.
func (c *Controller) jumpLocked(target int) bool {
	if target < 0 || target >= len(c.recs) {
		return true
	}
	rec := c.recs[target]
	c.vp.ScrollTo(rec.top, true)
	c.until = c.now().Add(time.Duration(c.cfg.Cooldown * float64(time.Second)))
	c.log.Debug("section snap", "section", rec.id, "top", rec.top)
	return true
}
