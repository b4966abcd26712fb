// Package motion provides the spring engine: a keyed collection of
// independently tuned damped oscillators advanced together by explicit
// numerical integration and published to subscribers once per frame.
//
// The package defines the primitives every animated surface builds on:
//
//   - [Spring]: read-only snapshot of one oscillator
//   - [Engine]: owns all springs, integrates them, runs the frame loop
//   - [Frame]: the consolidated per-frame value set
//   - [Scheduler]: pluggable frame source for the free-running loop
//
// # Example
//
//	eng := motion.NewEngine(motion.DefaultConfig())
//	eng.Create("progress", 0, 0, 0.1, 0.8, "overall progress")
//	eng.SetTarget("progress", 1)
//	for range 120 {
//		eng.Advance(1.0 / 60.0)
//	}
//
// # Coefficients
//
// Stiffness and damping are unitless coefficients in (0,1], normalized to a
// 60 Hz frame: a step of 1/60 s applies them once. Variable frame timing is
// rescaled against that reference, and a single step is clamped to
// [Config].MaxDeltaTime so a long stall (a backgrounded host, a paused
// debugger) cannot destabilize the integration. Values at or above 1 are a
// caller error and are not defended against.
//
// # Thread Safety
//
// Engine methods are safe for concurrent use. Integration and subscriber
// notification run on whichever goroutine drives the frame: the scheduler's
// goroutine while the loop runs, the caller's under [Engine.Advance].
// Subscribers must treat the delivered Frame as read-only.
package motion
