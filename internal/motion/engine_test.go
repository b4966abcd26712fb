package motion_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kajander/scrollspring/internal/motion"
)

const frameDT = 1.0 / 60.0

func advance(e *motion.Engine, frames int) {
	for i := 0; i < frames; i++ {
		e.Advance(frameDT)
	}
}

var _ = Describe("Engine", func() {
	var (
		eng   *motion.Engine
		sched *motion.ManualScheduler
	)

	BeforeEach(func() {
		sched = &motion.ManualScheduler{}
		cfg := motion.DefaultConfig()
		cfg.Scheduler = sched
		eng = motion.NewEngine(cfg)
	})

	Describe("integration", func() {
		It("converges onto a retargeted value and settles", func() {
			Expect(eng.Create("x", 0, 0, 0.5, 0.7, "")).To(Succeed())
			Expect(eng.SetTarget("x", 1)).To(Succeed())

			advance(eng, 120)

			s, ok := eng.Lookup("x")
			Expect(ok).To(BeTrue())
			Expect(s.Value).To(BeNumerically("~", 1, 1e-3))
			Expect(s.Settled).To(BeTrue())
		})

		It("snaps exactly onto the target when it sleeps", func() {
			Expect(eng.Create("x", 0, 0, 0.5, 0.7, "")).To(Succeed())
			Expect(eng.SetTarget("x", 1)).To(Succeed())

			advance(eng, 300)

			s, _ := eng.Lookup("x")
			Expect(s.Value).To(Equal(1.0))
			Expect(s.Velocity).To(BeZero())
		})

		It("leaves settled springs untouched", func() {
			Expect(eng.Create("x", 0, 0, 0.5, 0.7, "")).To(Succeed())
			Expect(eng.SetTarget("x", 1)).To(Succeed())
			advance(eng, 300)

			before, _ := eng.Lookup("x")
			advance(eng, 50)
			after, _ := eng.Lookup("x")
			Expect(after).To(Equal(before))
		})

		It("overshoots an underdamped target before converging", func() {
			Expect(eng.Create("x", 0, 0, 0.5, 0.1, "")).To(Succeed())
			Expect(eng.SetTarget("x", 1)).To(Succeed())

			peak := 0.0
			for n := 0; n < 600; n++ {
				eng.Advance(frameDT)
				if v := eng.Value("x"); v > peak {
					peak = v
				}
			}
			Expect(peak).To(BeNumerically(">", 1))

			s, _ := eng.Lookup("x")
			Expect(s.Settled).To(BeTrue())
			Expect(s.Value).To(Equal(1.0))
		})

		It("clamps oversized steps to the configured maximum", func() {
			big := motion.NewEngine(motion.DefaultConfig())
			Expect(big.Create("x", 0, 1, 0.2, 0.8, "")).To(Succeed())
			big.Advance(10)

			capped := motion.NewEngine(motion.DefaultConfig())
			Expect(capped.Create("x", 0, 1, 0.2, 0.8, "")).To(Succeed())
			capped.Advance(0.1)

			a, _ := big.Lookup("x")
			b, _ := capped.Lookup("x")
			Expect(a.Value).To(Equal(b.Value))
			Expect(a.Velocity).To(Equal(b.Velocity))
		})

		It("ignores negative deltas", func() {
			Expect(eng.Create("x", 0, 1, 0.2, 0.8, "")).To(Succeed())
			eng.Advance(-1)
			Expect(eng.Value("x")).To(BeZero())
		})
	})

	Describe("spring registry", func() {
		It("rejects duplicate ids", func() {
			Expect(eng.Create("x", 0, 0, 0.1, 0.8, "")).To(Succeed())
			Expect(eng.Create("x", 0, 0, 0.1, 0.8, "")).To(MatchError(motion.ErrSpringExists))
		})

		It("frees an id on removal", func() {
			Expect(eng.Create("x", 0, 0, 0.1, 0.8, "")).To(Succeed())
			Expect(eng.Remove("x")).To(Succeed())
			Expect(eng.Create("x", 0, 0, 0.1, 0.8, "")).To(Succeed())
		})

		It("returns ErrUnknownSpring for operations on missing ids", func() {
			Expect(eng.SetTarget("ghost", 1)).To(MatchError(motion.ErrUnknownSpring))
			Expect(eng.SetValue("ghost", 1)).To(MatchError(motion.ErrUnknownSpring))
			Expect(eng.Configure("ghost", 0.1, 0.8)).To(MatchError(motion.ErrUnknownSpring))
			Expect(eng.Remove("ghost")).To(MatchError(motion.ErrUnknownSpring))
		})

		It("reads unknown springs as zero", func() {
			Expect(eng.Value("ghost")).To(BeZero())
			_, ok := eng.Lookup("ghost")
			Expect(ok).To(BeFalse())
		})

		It("starts settled when created on target", func() {
			Expect(eng.Create("x", 0.5, 0.5, 0.1, 0.8, "")).To(Succeed())
			s, _ := eng.Lookup("x")
			Expect(s.Settled).To(BeTrue())
		})

		It("snapshots springs in creation order", func() {
			Expect(eng.Create("b", 0, 0, 0.1, 0.8, "")).To(Succeed())
			Expect(eng.Create("a", 0, 0, 0.1, 0.8, "")).To(Succeed())
			snap := eng.Snapshot()
			Expect(snap).To(HaveLen(2))
			Expect(snap[0].ID).To(Equal("b"))
			Expect(snap[1].ID).To(Equal("a"))
		})

		It("clears everything on RemoveAll", func() {
			Expect(eng.Create("a", 0, 0, 0.1, 0.8, "")).To(Succeed())
			Expect(eng.Create("b", 0, 0, 0.1, 0.8, "")).To(Succeed())
			eng.RemoveAll()
			Expect(eng.State().SpringCount).To(BeZero())
		})
	})

	Describe("SetValue", func() {
		It("jumps without animating and re-evaluates settlement", func() {
			Expect(eng.Create("x", 0, 1, 0.1, 0.8, "")).To(Succeed())
			Expect(eng.SetValue("x", 1)).To(Succeed())
			s, _ := eng.Lookup("x")
			Expect(s.Value).To(Equal(1.0))
			Expect(s.Velocity).To(BeZero())
			Expect(s.Settled).To(BeTrue())
		})

		It("wakes a settled spring when jumped off target", func() {
			Expect(eng.Create("x", 1, 1, 0.1, 0.8, "")).To(Succeed())
			Expect(eng.SetValue("x", 0)).To(Succeed())
			s, _ := eng.Lookup("x")
			Expect(s.Settled).To(BeFalse())
		})
	})

	Describe("Configure", func() {
		It("changes convergence speed mid-flight", func() {
			Expect(eng.Create("slow", 0, 1, 0.05, 0.9, "")).To(Succeed())
			Expect(eng.Create("fast", 0, 1, 0.05, 0.9, "")).To(Succeed())
			Expect(eng.Configure("fast", 0.4, 0.9)).To(Succeed())

			advance(eng, 30)
			Expect(eng.Value("fast")).To(BeNumerically(">", eng.Value("slow")))
		})
	})

	Describe("subscribers", func() {
		It("delivers one consolidated frame per step", func() {
			Expect(eng.Create("a", 0, 1, 0.1, 0.8, "")).To(Succeed())
			Expect(eng.Create("b", 2, 2, 0.1, 0.8, "")).To(Succeed())

			var calls int
			var last motion.Frame
			eng.OnUpdate(func(f motion.Frame) {
				calls++
				last = f
			})

			advance(eng, 3)
			Expect(calls).To(Equal(3))
			Expect(last).To(HaveKey("a"))
			Expect(last).To(HaveKey("b"))
			Expect(last["b"]).To(Equal(2.0))
		})

		It("stops delivery after unsubscribe", func() {
			var calls int
			cancel := eng.OnUpdate(func(motion.Frame) { calls++ })
			advance(eng, 2)
			cancel()
			cancel()
			advance(eng, 2)
			Expect(calls).To(Equal(2))
		})

		It("keeps notifying the rest when one subscriber panics", func() {
			Expect(eng.Create("x", 0, 1, 0.1, 0.8, "")).To(Succeed())
			eng.OnUpdate(func(motion.Frame) { panic("bad observer") })
			var calls int
			eng.OnUpdate(func(motion.Frame) { calls++ })

			advance(eng, 4)
			Expect(calls).To(Equal(4))
		})

		It("allows a subscriber to call back into the engine", func() {
			Expect(eng.Create("x", 0, 1, 0.1, 0.8, "")).To(Succeed())
			eng.OnUpdate(func(f motion.Frame) {
				_ = eng.Value("x")
				_, _ = eng.Lookup("x")
			})
			advance(eng, 2)
		})
	})

	Describe("frame loop", func() {
		fire := func(frames int) {
			base := time.Now()
			for i := 0; i < frames; i++ {
				sched.Fire(base.Add(time.Duration(i) * time.Second / 60))
			}
		}

		It("wakes on SetTarget and sleeps once everything settles", func() {
			Expect(eng.Create("x", 0, 0, 0.5, 0.7, "")).To(Succeed())
			Expect(eng.State().LoopRunning).To(BeFalse())

			Expect(eng.SetTarget("x", 1)).To(Succeed())
			Expect(eng.State().LoopRunning).To(BeTrue())

			fire(120)
			Expect(eng.State().LoopRunning).To(BeFalse())
			Expect(eng.Value("x")).To(Equal(1.0))
		})

		It("restarts after auto-sleep on the next retarget", func() {
			Expect(eng.Create("x", 0, 0, 0.5, 0.7, "")).To(Succeed())
			Expect(eng.SetTarget("x", 1)).To(Succeed())
			fire(120)
			Expect(eng.State().LoopRunning).To(BeFalse())

			Expect(eng.SetTarget("x", 0)).To(Succeed())
			Expect(eng.State().LoopRunning).To(BeTrue())
			fire(120)
			Expect(eng.Value("x")).To(BeZero())
		})

		It("treats repeated starts and stops as no-ops", func() {
			eng.StartLoop()
			eng.StartLoop()
			Expect(eng.State().LoopRunning).To(BeTrue())
			eng.StopLoop()
			eng.StopLoop()
			Expect(eng.State().LoopRunning).To(BeFalse())
		})

		It("keeps running while any spring is unsettled", func() {
			Expect(eng.Create("fast", 0, 0, 0.5, 0.7, "")).To(Succeed())
			Expect(eng.Create("slow", 0, 0, 0.01, 0.99, "")).To(Succeed())
			Expect(eng.SetTarget("fast", 1)).To(Succeed())
			Expect(eng.SetTarget("slow", 1)).To(Succeed())

			fire(30)
			fastState, _ := eng.Lookup("fast")
			Expect(fastState.Settled).To(BeTrue())
			Expect(eng.State().LoopRunning).To(BeTrue())
		})

		It("counts settled springs in State", func() {
			Expect(eng.Create("a", 0, 0, 0.5, 0.7, "")).To(Succeed())
			Expect(eng.Create("b", 0, 0, 0.5, 0.7, "")).To(Succeed())
			Expect(eng.SetTarget("a", 1)).To(Succeed())

			st := eng.State()
			Expect(st.SpringCount).To(Equal(2))
			Expect(st.SettledCount).To(Equal(1))
		})
	})

	Describe("with a ticker scheduler", func() {
		It("animates in real time and auto-sleeps", func() {
			cfg := motion.DefaultConfig()
			cfg.FrameInterval = 2 * time.Millisecond
			live := motion.NewEngine(cfg)
			Expect(live.Create("x", 0, 0, 0.5, 0.7, "")).To(Succeed())
			Expect(live.SetTarget("x", 1)).To(Succeed())

			Eventually(func() float64 {
				return live.Value("x")
			}, "2s", "10ms").Should(BeNumerically("~", 1, 1e-3))

			Eventually(func() bool {
				return live.State().LoopRunning
			}, "1s", "10ms").Should(BeFalse())
		})
	})
})
