// Package trace records spring step responses and reduces them to
// response metrics. It drives the engine through its public API only, so
// a recorded trace is exactly what a subscriber would have observed.
package trace

import (
	"math"
	"sync"

	"github.com/kajander/scrollspring/internal/motion"
)

// Sample is one recorded engine frame for a single spring. T is nominal
// time assuming a fixed dt per frame.
type Sample struct {
	Frame    int     `json:"frame"`
	T        float64 `json:"t"`
	Value    float64 `json:"value"`
	Velocity float64 `json:"velocity"`
	Settled  bool    `json:"settled"`
}

// Recorder captures samples of one spring from live engine frames until
// closed.
type Recorder struct {
	mu      sync.Mutex
	eng     *motion.Engine
	id      string
	dt      float64
	frame   int
	samples []Sample
	unsub   func()
}

// NewRecorder subscribes to the engine and records spring id on every
// frame. dt is the nominal per-frame interval used to stamp T.
func NewRecorder(eng *motion.Engine, id string, dt float64) *Recorder {
	r := &Recorder{eng: eng, id: id, dt: dt}
	r.unsub = eng.OnUpdate(r.observe)
	return r
}

func (r *Recorder) observe(motion.Frame) {
	s, ok := r.eng.Lookup(r.id)
	if !ok {
		return
	}
	r.mu.Lock()
	r.samples = append(r.samples, Sample{
		Frame:    r.frame,
		T:        float64(r.frame+1) * r.dt,
		Value:    s.Value,
		Velocity: s.Velocity,
		Settled:  s.Settled,
	})
	r.frame++
	r.mu.Unlock()
}

// Samples returns a copy of everything recorded so far.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Sample(nil), r.samples...)
}

// Close unsubscribes the recorder from the engine.
func (r *Recorder) Close() {
	r.unsub()
}

// Record advances the engine frame by frame, capturing spring id each
// step. The engine should not be loop-driven concurrently.
func Record(eng *motion.Engine, id string, dt float64, frames int) ([]Sample, error) {
	if _, ok := eng.Lookup(id); !ok {
		return nil, motion.ErrUnknownSpring
	}
	r := NewRecorder(eng, id, dt)
	defer r.Close()
	for i := 0; i < frames; i++ {
		eng.Advance(dt)
	}
	return r.Samples(), nil
}

// StepOpts describes a step-response experiment for one coefficient pair.
type StepOpts struct {
	K, C     float64
	From, To float64
	Dt       float64 // seconds per frame
	Duration float64 // seconds simulated
}

// StepResponse simulates a single spring stepping From to To and returns
// its trace. The engine is private to the call; nothing runs after return.
func StepResponse(o StepOpts) []Sample {
	cfg := motion.DefaultConfig()
	cfg.Scheduler = &motion.ManualScheduler{}
	eng := motion.NewEngine(cfg)
	_ = eng.Create("step", o.From, o.From, o.K, o.C, "step response")
	_ = eng.SetTarget("step", o.To)
	frames := int(math.Round(o.Duration / o.Dt))
	samples, _ := Record(eng, "step", o.Dt, frames)
	return samples
}

// Measure runs the standard response metrics over a recorded trace.
func Measure(samples []Sample, from, to float64) map[string]float64 {
	ms := []Metric{NewSettlingFrames(), NewOvershoot(from, to), NewPeak(from, to)}
	for _, s := range samples {
		for _, m := range ms {
			m.Observe(s)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
