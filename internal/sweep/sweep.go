// Package sweep maps spring behavior over a coefficient grid: every (k,c)
// cell simulates one step response and reports how fast it settles and how
// far it overshoots. Cells are independent, so the grid is split across
// workers.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/kajander/scrollspring/internal/motion"
	"github.com/kajander/scrollspring/internal/trace"
)

// Grid spans inclusive coefficient ranges with Steps cells per axis.
type Grid struct {
	KMin, KMax float64
	CMin, CMax float64
	Steps      int
}

// Cell is one simulated coefficient pair. SettlingFrames is -1 when the
// frame budget ran out before the spring settled.
type Cell struct {
	K, C           float64
	SettlingFrames int
	Overshoot      float64
}

// Opts tunes the per-cell simulation.
type Opts struct {
	From, To float64
	Dt       float64 // seconds per frame; 0 selects 1/60
	Budget   int     // max frames per cell; 0 selects 600
	Workers  int     // 0 selects NumCPU
}

// Result holds the grid with Cells indexed [damping][stiffness], rows
// ordered CMin to CMax and columns KMin to KMax.
type Result struct {
	Grid  Grid
	Cells [][]Cell
}

func (g Grid) validate() error {
	if g.Steps < 2 {
		return fmt.Errorf("sweep: steps must be at least 2, got %d", g.Steps)
	}
	if g.KMin <= 0 || g.KMax > 1 || g.KMin > g.KMax {
		return fmt.Errorf("sweep: stiffness range (%v,%v) outside (0,1]", g.KMin, g.KMax)
	}
	if g.CMin <= 0 || g.CMax > 1 || g.CMin > g.CMax {
		return fmt.Errorf("sweep: damping range (%v,%v) outside (0,1]", g.CMin, g.CMax)
	}
	return nil
}

// Run simulates the whole grid. Cell placement is deterministic for a
// given grid regardless of worker count.
func Run(ctx context.Context, g Grid, o Opts) (*Result, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if o.Dt <= 0 {
		o.Dt = 1.0 / 60.0
	}
	if o.Budget <= 0 {
		o.Budget = 600
	}
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	cells := make([][]Cell, g.Steps)
	for i := range cells {
		cells[i] = make([]Cell, g.Steps)
	}

	n := g.Steps * g.Steps
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, n)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for idx := start; idx < end; idx++ {
				if ctx.Err() != nil {
					return
				}
				ci, ki := idx/g.Steps, idx%g.Steps
				k := axis(g.KMin, g.KMax, ki, g.Steps)
				c := axis(g.CMin, g.CMax, ci, g.Steps)
				cells[ci][ki] = simulate(k, c, o)
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Result{Grid: g, Cells: cells}, nil
}

func axis(lo, hi float64, i, steps int) float64 {
	return lo + (hi-lo)*float64(i)/float64(steps-1)
}

// simulate runs one cell on a private engine, stopping early at
// settlement.
func simulate(k, c float64, o Opts) Cell {
	cfg := motion.DefaultConfig()
	cfg.Scheduler = &motion.ManualScheduler{}
	eng := motion.NewEngine(cfg)
	_ = eng.Create("cell", o.From, o.From, k, c, "")
	_ = eng.SetTarget("cell", o.To)

	over := trace.NewOvershoot(o.From, o.To)
	settling := -1
	for f := 0; f < o.Budget; f++ {
		eng.Advance(o.Dt)
		s, _ := eng.Lookup("cell")
		over.Observe(trace.Sample{Value: s.Value})
		if s.Settled {
			settling = f
			break
		}
	}
	return Cell{K: k, C: c, SettlingFrames: settling, Overshoot: over.Value()}
}
