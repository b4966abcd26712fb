// Package scroll implements the animation orchestrator between a host
// viewport and the spring engine. It owns four springs (overall progress,
// scrubber fill, minimode scale and shift), maps host scroll events onto
// spring targets, and derives per-section label animation from the
// smoothed progress each frame.
package scroll

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/kajander/scrollspring/internal/config"
	"github.com/kajander/scrollspring/internal/motion"
	"github.com/kajander/scrollspring/internal/view"
)

// Spring ids owned by the orchestrator.
const (
	SpringProgress      = "scroll.progress"
	SpringScrubber      = "scroll.scrubber"
	SpringMinimodeScale = "minimode.scale"
	SpringMinimodeY     = "minimode.y"
)

// Callbacks receive derived animation state once per engine frame. Nil
// entries are skipped. They run on the engine's frame goroutine and may
// call back into the orchestrator.
type Callbacks struct {
	OnProgress func(p float64)
	OnScrubber func(p float64)
	OnLabels   func(labels []LabelAnimation)
	OnMinimode func(t ContentTransform)
}

// State is a point-in-time orchestrator summary.
type State struct {
	Initialized bool
	Active      bool
	Progress    float64
	Minimode    bool
	Sections    int
	Engine      motion.EngineState
}

// Orchestrator coordinates scroll-driven animation for one viewport.
type Orchestrator struct {
	mu     sync.Mutex
	engine *motion.Engine
	vp     view.Viewport
	cfg    *config.Config
	log    *slog.Logger

	sections  []string
	rects     []view.Rect
	viewportH float64
	maxScroll float64

	cb       Callbacks
	unsub    func()
	inited   bool
	active   bool
	minimode bool
	resize   *time.Timer
}

// New wires an orchestrator to an engine and a viewport. Nil cfg selects
// the defaults, nil logger discards diagnostics.
func New(engine *motion.Engine, vp view.Viewport, cfg *config.Config, logger *slog.Logger) *Orchestrator {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Orchestrator{engine: engine, vp: vp, cfg: cfg, log: logger}
}

// Init measures section geometry, creates the four springs seeded from the
// current scroll position, and subscribes to engine frames. Re-entry
// without an intervening Destroy fails.
func (o *Orchestrator) Init(sections []string, cb Callbacks) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inited {
		return ErrAlreadyInitialized
	}
	o.sections = append([]string(nil), sections...)
	o.measureLocked()
	p0 := o.progressLocked()

	defs := []struct {
		id    string
		value float64
		pair  config.SpringConfig
		meta  string
	}{
		{SpringProgress, p0, o.cfg.ScrollSpring, "overall scroll progress"},
		{SpringScrubber, p0, o.cfg.ScrubberSpring, "scrubber fill"},
		{SpringMinimodeScale, 1, o.cfg.Minimode.Spring, "minimode content scale"},
		{SpringMinimodeY, 0, o.cfg.Minimode.Spring, "minimode content y shift"},
	}
	for i, d := range defs {
		if err := o.engine.Create(d.id, d.value, d.value, d.pair.K, d.pair.C, d.meta); err != nil {
			for _, done := range defs[:i] {
				_ = o.engine.Remove(done.id)
			}
			return fmt.Errorf("scroll: create %s: %w", d.id, err)
		}
	}
	o.cb = cb
	o.unsub = o.engine.OnUpdate(o.onFrame)
	o.inited = true
	o.log.Debug("orchestrator initialized", "sections", len(o.sections))
	return nil
}

// measureLocked caches viewport dimensions and section rects. A section
// the viewport cannot measure degrades to a zero rect.
func (o *Orchestrator) measureLocked() {
	o.viewportH = o.vp.ViewportHeight()
	o.maxScroll = view.MaxScroll(o.vp)
	o.rects = make([]view.Rect, len(o.sections))
	for i, id := range o.sections {
		r, ok := o.vp.SectionRect(id)
		if !ok {
			o.log.Warn("section not measurable", "id", id)
			continue
		}
		o.rects[i] = r
	}
}

func (o *Orchestrator) progressLocked() float64 {
	if o.maxScroll <= 0 {
		return 0
	}
	return clamp01(o.vp.ScrollTop() / o.maxScroll)
}

// Start activates event handling, starts the engine loop, and performs one
// scroll sync so the springs pick up the current position.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	if !o.inited {
		o.mu.Unlock()
		o.log.Warn("start before init")
		return
	}
	if o.active {
		o.mu.Unlock()
		return
	}
	o.active = true
	o.mu.Unlock()
	o.engine.StartLoop()
	o.HandleScroll()
	o.log.Debug("orchestrator started")
}

// Stop deactivates event handling, drops any pending resize debounce, and
// stops the engine loop. Spring state is kept for a later Start.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.inited || !o.active {
		o.mu.Unlock()
		return
	}
	o.active = false
	if o.resize != nil {
		o.resize.Stop()
		o.resize = nil
	}
	o.mu.Unlock()
	o.engine.StopLoop()
	o.log.Debug("orchestrator stopped")
}

// HandleScroll ingests a host scroll event: the current position maps to
// progress = scrollTop/maxScroll (0 when the content cannot scroll) and
// both progress springs are retargeted. Events while inactive are dropped.
func (o *Orchestrator) HandleScroll() {
	o.mu.Lock()
	if !o.inited || !o.active {
		o.mu.Unlock()
		return
	}
	p := o.progressLocked()
	o.mu.Unlock()
	o.retargetProgress(p)
}

func (o *Orchestrator) retargetProgress(p float64) {
	_ = o.engine.SetTarget(SpringProgress, p)
	_ = o.engine.SetTarget(SpringScrubber, p)
}

// HandleResize schedules a debounced remeasure. Bursts of resize events
// collapse into one measurement pass after the configured quiet period,
// followed by a scroll sync against the new geometry.
func (o *Orchestrator) HandleResize() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.inited || !o.active {
		return
	}
	if o.resize != nil {
		o.resize.Stop()
	}
	d := time.Duration(o.cfg.Performance.ResizeDebounce * float64(time.Second))
	o.resize = time.AfterFunc(d, o.remeasure)
}

// remeasure runs on the debounce timer goroutine.
func (o *Orchestrator) remeasure() {
	o.mu.Lock()
	if !o.inited {
		o.mu.Unlock()
		return
	}
	o.resize = nil
	o.measureLocked()
	o.mu.Unlock()
	o.HandleScroll()
	o.log.Debug("geometry remeasured")
}

// ScrollToProgress navigates to the normalized position p, clamped to
// [0,1]. Smooth asks the host for its native glide and retargets the
// progress springs to animate alongside it; instant jumps host and springs
// together with no animation.
func (o *Orchestrator) ScrollToProgress(p float64, smooth bool) {
	o.mu.Lock()
	if !o.inited {
		o.mu.Unlock()
		o.log.Warn("scroll to progress before init")
		return
	}
	p = clamp01(p)
	top := p * o.maxScroll
	o.mu.Unlock()

	o.vp.ScrollTo(top, smooth)
	o.retargetProgress(p)
	if smooth {
		return
	}
	// Instant: collapse the animation by jumping the values onto the fresh
	// targets, which re-settles both springs.
	_ = o.engine.SetValue(SpringProgress, p)
	_ = o.engine.SetValue(SpringScrubber, p)
}

// ScrollToSection smooth-scrolls so section i's top aligns with the
// viewport top.
func (o *Orchestrator) ScrollToSection(i int) error {
	o.mu.Lock()
	if !o.inited {
		o.mu.Unlock()
		return ErrNotInitialized
	}
	if i < 0 || i >= len(o.rects) {
		o.mu.Unlock()
		o.log.Warn("section index out of range", "index", i, "sections", len(o.sections))
		return ErrSectionIndex
	}
	p := 0.0
	if o.maxScroll > 0 {
		p = clamp01(o.rects[i].Top / o.maxScroll)
	}
	o.mu.Unlock()
	o.ScrollToProgress(p, true)
	return nil
}

// SetMinimode animates the content presentation between full size and the
// configured shrunken transform.
func (o *Orchestrator) SetMinimode(on bool) {
	o.mu.Lock()
	if !o.inited {
		o.mu.Unlock()
		o.log.Warn("minimode before init")
		return
	}
	o.minimode = on
	scale, y := 1.0, 0.0
	if on {
		scale, y = o.cfg.Minimode.Scale, o.cfg.Minimode.Y
	}
	o.mu.Unlock()
	_ = o.engine.SetTarget(SpringMinimodeScale, scale)
	_ = o.engine.SetTarget(SpringMinimodeY, y)
	o.log.Debug("minimode", "on", on)
}

// UpdateConfig merges a partial config over the current one and propagates
// new spring coefficients to the engine immediately. A failed merge leaves
// the running config untouched.
func (o *Orchestrator) UpdateConfig(p config.Patch) error {
	o.mu.Lock()
	merged, err := o.cfg.Apply(p)
	if err != nil {
		o.mu.Unlock()
		return err
	}
	o.cfg = merged
	inited := o.inited
	mini := o.minimode
	o.mu.Unlock()
	if !inited {
		return nil
	}

	_ = o.engine.Configure(SpringProgress, merged.ScrollSpring.K, merged.ScrollSpring.C)
	_ = o.engine.Configure(SpringScrubber, merged.ScrubberSpring.K, merged.ScrubberSpring.C)
	_ = o.engine.Configure(SpringMinimodeScale, merged.Minimode.Spring.K, merged.Minimode.Spring.C)
	_ = o.engine.Configure(SpringMinimodeY, merged.Minimode.Spring.K, merged.Minimode.Spring.C)
	if mini {
		_ = o.engine.SetTarget(SpringMinimodeScale, merged.Minimode.Scale)
		_ = o.engine.SetTarget(SpringMinimodeY, merged.Minimode.Y)
	}
	return nil
}

// State reports lifecycle flags, the smoothed progress, and engine counts.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	st := State{
		Initialized: o.inited,
		Active:      o.active,
		Minimode:    o.minimode,
		Sections:    len(o.sections),
	}
	o.mu.Unlock()
	st.Progress = o.engine.Value(SpringProgress)
	st.Engine = o.engine.State()
	return st
}

// Destroy stops the orchestrator and releases everything it owns: the
// frame subscription, the four springs, callbacks, and cached geometry. A
// destroyed orchestrator may be initialized again.
func (o *Orchestrator) Destroy() {
	o.Stop()
	o.mu.Lock()
	if !o.inited {
		o.mu.Unlock()
		return
	}
	unsub := o.unsub
	o.unsub = nil
	o.cb = Callbacks{}
	o.sections = nil
	o.rects = nil
	o.inited = false
	o.minimode = false
	o.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	for _, id := range []string{SpringProgress, SpringScrubber, SpringMinimodeScale, SpringMinimodeY} {
		_ = o.engine.Remove(id)
	}
	o.log.Debug("orchestrator destroyed")
}

// onFrame derives presentation state from the smoothed spring values and
// fires the registered callbacks. It runs on the engine's frame goroutine
// with no orchestrator lock held during user code.
func (o *Orchestrator) onFrame(f motion.Frame) {
	o.mu.Lock()
	if !o.inited {
		o.mu.Unlock()
		return
	}
	cb := o.cb
	ids := o.sections
	rects := o.rects
	vpH := o.viewportH
	maxScroll := o.maxScroll
	lc := o.cfg.Labels
	o.mu.Unlock()

	p := f[SpringProgress]
	if cb.OnProgress != nil {
		cb.OnProgress(p)
	}
	if cb.OnScrubber != nil {
		cb.OnScrubber(f[SpringScrubber])
	}
	if cb.OnLabels != nil {
		cb.OnLabels(deriveLabels(ids, rects, p, vpH, maxScroll, lc))
	}
	if cb.OnMinimode != nil {
		cb.OnMinimode(ContentTransform{Scale: f[SpringMinimodeScale], Y: f[SpringMinimodeY]})
	}
}
