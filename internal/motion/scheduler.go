package motion

import (
	"sync"
	"time"
)

// Scheduler is the frame source driving an engine's free-running loop.
// Start begins delivering frames to step until Stop is called. Both must
// be idempotent, and Stop must be safe to call from inside the step
// callback itself, which is how auto-sleep shuts the loop down.
type Scheduler interface {
	Start(step func(now time.Time))
	Stop()
}

// TickerScheduler delivers frames from a time.Ticker on a dedicated
// goroutine. It is the default scheduler.
type TickerScheduler struct {
	// Interval between frames. Zero or negative selects 60 Hz.
	Interval time.Duration

	mu      sync.Mutex
	stopc   chan struct{}
	running bool
}

// NewTickerScheduler returns a scheduler firing every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	return &TickerScheduler{Interval: interval}
}

func (s *TickerScheduler) Start(step func(now time.Time)) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	interval := s.Interval
	if interval <= 0 {
		interval = time.Second / 60
	}
	stopc := make(chan struct{})
	s.stopc = stopc
	s.running = true
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopc:
				return
			case now := <-ticker.C:
				step(now)
			}
		}
	}()
}

func (s *TickerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopc)
}

// ManualScheduler hands frame timing to the host: each Fire call delivers
// exactly one frame. It suits tests and hosts that already own a render
// loop and want the engine stepped inside it.
type ManualScheduler struct {
	mu   sync.Mutex
	step func(now time.Time)
}

func (s *ManualScheduler) Start(step func(now time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.step == nil {
		s.step = step
	}
}

func (s *ManualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step = nil
}

// Fire delivers one frame stamped now. It is a no-op while stopped.
func (s *ManualScheduler) Fire(now time.Time) {
	s.mu.Lock()
	step := s.step
	s.mu.Unlock()
	if step != nil {
		step(now)
	}
}

// Running reports whether a step callback is installed.
func (s *ManualScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step != nil
}
