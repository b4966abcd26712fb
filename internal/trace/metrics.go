package trace

import "math"

// Metric consumes samples one at a time and reduces them to one number.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// SettlingFrames reports the frame index at which the spring first
// settled, or -1 if it never did.
type SettlingFrames struct {
	frame   int
	settled bool
}

func NewSettlingFrames() *SettlingFrames {
	return &SettlingFrames{frame: -1}
}

func (m *SettlingFrames) Name() string { return "settling_frames" }

func (m *SettlingFrames) Observe(s Sample) {
	if m.settled {
		return
	}
	if s.Settled {
		m.settled = true
		m.frame = s.Frame
	}
}

func (m *SettlingFrames) Value() float64 {
	if !m.settled {
		return -1
	}
	return float64(m.frame)
}

func (m *SettlingFrames) Reset() {
	m.frame = -1
	m.settled = false
}

// Overshoot reports the largest excursion past the target in the step
// direction, as a fraction of the step magnitude. A response that never
// crosses its target reads 0.
type Overshoot struct {
	from, to float64
	peak     float64
}

func NewOvershoot(from, to float64) *Overshoot {
	return &Overshoot{from: from, to: to}
}

func (m *Overshoot) Name() string { return "overshoot" }

func (m *Overshoot) Observe(s Sample) {
	dir := 1.0
	if m.to < m.from {
		dir = -1
	}
	if exc := (s.Value - m.to) * dir; exc > m.peak {
		m.peak = exc
	}
}

func (m *Overshoot) Value() float64 {
	step := math.Abs(m.to - m.from)
	if step == 0 {
		return 0
	}
	return m.peak / step
}

func (m *Overshoot) Reset() { m.peak = 0 }

// Peak reports the extreme value reached in the step direction.
type Peak struct {
	down bool
	set  bool
	v    float64
}

func NewPeak(from, to float64) *Peak {
	return &Peak{down: to < from}
}

func (m *Peak) Name() string { return "peak" }

func (m *Peak) Observe(s Sample) {
	if !m.set {
		m.v = s.Value
		m.set = true
		return
	}
	if m.down {
		if s.Value < m.v {
			m.v = s.Value
		}
		return
	}
	if s.Value > m.v {
		m.v = s.Value
	}
}

func (m *Peak) Value() float64 { return m.v }

func (m *Peak) Reset() {
	m.set = false
	m.v = 0
}
