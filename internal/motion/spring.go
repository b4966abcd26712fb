package motion

import "math"

// refFPS is the frame rate the stiffness and damping coefficients are
// normalized against. A step of exactly 1/refFPS seconds applies the
// coefficients once, so tunings made at 60 Hz behave identically under
// variable frame timing.
const refFPS = 60.0

// Spring is a read-only snapshot of one damped oscillator.
type Spring struct {
	ID        string
	Value     float64
	Target    float64
	Velocity  float64
	Stiffness float64
	Damping   float64
	Settled   bool
	Meta      string
}

// springState is the mutable oscillator behind a Spring snapshot. All
// access is serialized by the owning engine's mutex.
type springState struct {
	id       string
	value    float64
	target   float64
	velocity float64
	k        float64
	c        float64
	settled  bool
	meta     string
}

func (s *springState) snapshot() Spring {
	return Spring{
		ID:        s.id,
		Value:     s.value,
		Target:    s.target,
		Velocity:  s.velocity,
		Stiffness: s.k,
		Damping:   s.c,
		Settled:   s.settled,
		Meta:      s.meta,
	}
}

// step advances the oscillator by h frame units using semi-implicit Euler:
// the acceleration for this step updates velocity first, and the updated
// velocity moves the value. Settled springs are left untouched. A spring
// whose displacement and velocity both sit inside the sleep window is
// snapped exactly onto its target so downstream consumers see the final
// value with no residual drift.
func (s *springState) step(h, sleep float64) {
	if s.settled {
		return
	}
	disp := s.value - s.target
	if math.Abs(s.velocity) < sleep && math.Abs(disp) < sleep {
		s.value = s.target
		s.velocity = 0
		s.settled = true
		return
	}
	force := -s.k*disp - s.c*s.velocity
	s.velocity += force * h
	s.value += s.velocity * h
}

// settleCheck re-evaluates the settled flag after an instantaneous jump.
// Settled always implies value == target exactly, so a within-threshold
// jump snaps.
func (s *springState) settleCheck(sleep float64) {
	if math.Abs(s.value-s.target) < sleep {
		s.value = s.target
		s.settled = true
		return
	}
	s.settled = false
}
