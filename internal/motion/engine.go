package motion

import (
	"io"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Frame is the consolidated value set delivered to every subscriber after
// an integration step, keyed by spring id. The same map instance is shared
// across subscribers and must not be mutated or retained.
type Frame map[string]float64

// Config tunes engine-wide behavior.
type Config struct {
	// AutoSleep stops the frame loop once every spring has settled. The
	// loop restarts on the next SetTarget.
	AutoSleep bool

	// SleepThreshold bounds the window in which a spring is considered at
	// rest: both |velocity| and |value-target| must fall below it.
	SleepThreshold float64

	// MaxDeltaTime caps the seconds a single step may integrate.
	MaxDeltaTime float64

	// FrameInterval is the default scheduler's tick period and the nominal
	// dt assumed for the first frame after a loop start.
	FrameInterval time.Duration

	// Logger receives engine diagnostics. Nil discards them.
	Logger *slog.Logger

	// Scheduler overrides the frame source. Nil selects a TickerScheduler
	// running at FrameInterval.
	Scheduler Scheduler
}

// DefaultConfig returns the engine defaults: auto-sleep on, a 1e-3 sleep
// window, steps capped at 100 ms, and a 60 Hz loop.
func DefaultConfig() Config {
	return Config{
		AutoSleep:      true,
		SleepThreshold: 1e-3,
		MaxDeltaTime:   0.1,
		FrameInterval:  time.Second / 60,
	}
}

type subscriber struct {
	id int
	fn func(Frame)
}

// Engine owns every spring and is the single writer of their state. Springs
// are integrated in creation order so a frame's values are reproducible.
type Engine struct {
	mu       sync.Mutex
	cfg      Config
	log      *slog.Logger
	sched    Scheduler
	springs  map[string]*springState
	order    []string
	subs     []subscriber
	nextSub  int
	looping  bool
	lastTick time.Time
}

// NewEngine creates an empty engine. Zero fields of cfg fall back to
// DefaultConfig, except AutoSleep which is taken as given.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.SleepThreshold <= 0 {
		cfg.SleepThreshold = def.SleepThreshold
	}
	if cfg.MaxDeltaTime <= 0 {
		cfg.MaxDeltaTime = def.MaxDeltaTime
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = def.FrameInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewTickerScheduler(cfg.FrameInterval)
	}
	return &Engine{
		cfg:     cfg,
		log:     cfg.Logger,
		sched:   cfg.Scheduler,
		springs: make(map[string]*springState),
	}
}

// Create registers a new spring under id with the given initial value,
// target, and stiffness/damping pair. A spring created on its target starts
// settled. Meta is a free-form description carried in snapshots.
func (e *Engine) Create(id string, value, target, k, c float64, meta string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.springs[id]; ok {
		e.log.Warn("spring already exists", "id", id)
		return ErrSpringExists
	}
	s := &springState{id: id, value: value, target: target, k: k, c: c, meta: meta}
	s.settleCheck(e.cfg.SleepThreshold)
	e.springs[id] = s
	e.order = append(e.order, id)
	e.log.Debug("spring created", "id", id, "k", k, "c", c)
	return nil
}

// SetTarget retargets a spring, clears its settled flag, and wakes the
// frame loop.
func (e *Engine) SetTarget(id string, target float64) error {
	e.mu.Lock()
	s, ok := e.springs[id]
	if !ok {
		e.mu.Unlock()
		e.log.Warn("set target on unknown spring", "id", id)
		return ErrUnknownSpring
	}
	s.target = target
	s.settled = false
	e.mu.Unlock()
	e.StartLoop()
	return nil
}

// SetValue jumps a spring instantaneously: velocity is zeroed and the
// settled flag recomputed against the sleep threshold. The loop is not
// woken; a jump onto the target needs no animation and a jump away from it
// stays put until the next SetTarget.
func (e *Engine) SetValue(id string, value float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.springs[id]
	if !ok {
		e.log.Warn("set value on unknown spring", "id", id)
		return ErrUnknownSpring
	}
	s.value = value
	s.velocity = 0
	s.settleCheck(e.cfg.SleepThreshold)
	return nil
}

// Configure retunes a spring's stiffness and damping. The new pair takes
// effect on the next integration step; value, velocity, and target are
// untouched.
func (e *Engine) Configure(id string, k, c float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.springs[id]
	if !ok {
		e.log.Warn("configure unknown spring", "id", id)
		return ErrUnknownSpring
	}
	s.k, s.c = k, c
	return nil
}

// Value returns the current value of id, or 0 for an unknown spring.
func (e *Engine) Value(id string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.springs[id]; ok {
		return s.value
	}
	return 0
}

// Lookup returns a snapshot of id.
func (e *Engine) Lookup(id string) (Spring, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.springs[id]; ok {
		return s.snapshot(), true
	}
	return Spring{}, false
}

// Snapshot returns every spring in creation order.
func (e *Engine) Snapshot() []Spring {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Spring, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.springs[id].snapshot())
	}
	return out
}

// Remove deletes a spring. Its id becomes free for reuse.
func (e *Engine) Remove(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.springs[id]; !ok {
		e.log.Warn("remove unknown spring", "id", id)
		return ErrUnknownSpring
	}
	delete(e.springs, id)
	for i, sid := range e.order {
		if sid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return nil
}

// RemoveAll deletes every spring. Subscribers stay registered.
func (e *Engine) RemoveAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.springs = make(map[string]*springState)
	e.order = nil
}

// OnUpdate registers fn to receive the consolidated frame after every
// integration step. The returned function unsubscribes and is safe to call
// more than once.
func (e *Engine) OnUpdate(fn func(Frame)) func() {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs = append(e.subs, subscriber{id: id, fn: fn})
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		for i, sub := range e.subs {
			if sub.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

// Advance integrates every spring by dt seconds and delivers one
// consolidated frame. dt is clamped to [0, MaxDeltaTime] before being
// rescaled to reference frame units. Subscribers run outside the engine
// lock, so they may call back into the engine freely.
func (e *Engine) Advance(dt float64) {
	e.mu.Lock()
	dt = math.Max(0, math.Min(dt, e.cfg.MaxDeltaTime))
	h := dt * refFPS
	frame := make(Frame, len(e.order))
	for _, id := range e.order {
		s := e.springs[id]
		s.step(h, e.cfg.SleepThreshold)
		frame[id] = s.value
	}
	subs := make([]subscriber, len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, sub := range subs {
		e.notify(sub, frame)
	}
}

// notify isolates subscriber panics so one faulty observer cannot take
// down frame delivery for the rest.
func (e *Engine) notify(sub subscriber, f Frame) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("spring subscriber panicked", "error", r)
		}
	}()
	sub.fn(f)
}

// StartLoop starts the free-running frame loop. Calling it while the loop
// runs is a no-op; SetTarget calls it implicitly.
func (e *Engine) StartLoop() {
	e.mu.Lock()
	if e.looping {
		e.mu.Unlock()
		return
	}
	e.looping = true
	e.lastTick = time.Time{}
	sched := e.sched
	e.mu.Unlock()
	e.log.Debug("frame loop started")
	sched.Start(e.tick)
}

// StopLoop stops requesting frames. Spring state is kept as is, so a later
// StartLoop resumes mid-flight animations.
func (e *Engine) StopLoop() {
	e.mu.Lock()
	if !e.looping {
		e.mu.Unlock()
		return
	}
	e.looping = false
	sched := e.sched
	e.mu.Unlock()
	e.log.Debug("frame loop stopped")
	sched.Stop()
}

// tick is the scheduler callback: it derives dt from wall-clock spacing
// between frames and sleeps the loop when auto-sleep finds every spring
// settled.
func (e *Engine) tick(now time.Time) {
	e.mu.Lock()
	if !e.looping {
		e.mu.Unlock()
		return
	}
	dt := e.cfg.FrameInterval.Seconds()
	if !e.lastTick.IsZero() {
		dt = now.Sub(e.lastTick).Seconds()
	}
	e.lastTick = now
	auto := e.cfg.AutoSleep
	e.mu.Unlock()

	e.Advance(dt)

	if auto && e.allSettled() {
		e.StopLoop()
	}
}

func (e *Engine) allSettled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.springs {
		if !s.settled {
			return false
		}
	}
	return true
}

// EngineState is a point-in-time summary for diagnostics.
type EngineState struct {
	LoopRunning  bool
	SpringCount  int
	SettledCount int
}

// State reports loop and spring counts under a single lock acquisition.
func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := EngineState{LoopRunning: e.looping, SpringCount: len(e.springs)}
	for _, s := range e.springs {
		if s.settled {
			st.SettledCount++
		}
	}
	return st
}
