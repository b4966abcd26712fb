package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/kajander/scrollspring/internal/config"
	"github.com/kajander/scrollspring/internal/export"
	"github.com/kajander/scrollspring/internal/store"
	"github.com/kajander/scrollspring/internal/sweep"
	"github.com/kajander/scrollspring/internal/trace"
	"github.com/kajander/scrollspring/internal/tui"
)

var (
	dataDir    string
	configFile string
	preset     string
	minimode   bool
	debug      bool
	// Step response parameters
	stiffness float64
	damping   float64
	from      float64
	to        float64
	dt        float64
	duration  float64
	plotW     int
	plotH     int
	saveRun   bool
	// Sweep grid
	kMin    float64
	kMax    float64
	cMin    float64
	cMax    float64
	steps   int
	budget  int
	workers int
	// Export
	format  string
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scrollspring",
		Short: "spring-driven scroll animation lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the demo when no subcommand is given.
			return runDemo(cmd, nil)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".scrollspring", "data directory")

	demoCmd := &cobra.Command{
		Use:   "demo [document.yaml]",
		Short: "interactive scrolling demo",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDemo,
	}
	demoCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	demoCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	demoCmd.Flags().BoolVar(&minimode, "minimode", false, "start in minimode")
	demoCmd.Flags().BoolVar(&debug, "debug", false, "start with the debug overlay")
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.Flags().BoolVar(&minimode, "minimode", false, "start in minimode")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "start with the debug overlay")

	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "simulate one spring step response",
		RunE:  runStep,
	}
	stepCmd.Flags().Float64Var(&stiffness, "k", config.DefaultScrollK, "stiffness")
	stepCmd.Flags().Float64Var(&damping, "c", config.DefaultScrollC, "damping")
	stepCmd.Flags().Float64Var(&from, "from", 0.0, "initial value")
	stepCmd.Flags().Float64Var(&to, "to", 1.0, "target value")
	stepCmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "seconds per frame")
	stepCmd.Flags().Float64Var(&duration, "time", 4.0, "seconds simulated")
	stepCmd.Flags().IntVar(&plotW, "width", 80, "plot width")
	stepCmd.Flags().IntVar(&plotH, "height", 12, "plot height")
	stepCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run")

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [preset] ...",
		Short: "compare preset scroll springs",
		RunE:  comparePresets,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "seconds per frame")
	compareCmd.Flags().Float64Var(&duration, "time", 4.0, "seconds simulated")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "settling map over a coefficient grid",
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&kMin, "kmin", 0.02, "minimum stiffness")
	sweepCmd.Flags().Float64Var(&kMax, "kmax", 0.40, "maximum stiffness")
	sweepCmd.Flags().Float64Var(&cMin, "cmin", 0.50, "minimum damping")
	sweepCmd.Flags().Float64Var(&cMax, "cmax", 0.98, "maximum damping")
	sweepCmd.Flags().IntVar(&steps, "steps", 16, "cells per axis")
	sweepCmd.Flags().IntVar(&budget, "budget", 600, "frame budget per cell")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "worker count (0 = all cpus)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset configurations",
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotW, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotH, "height", 12, "plot height")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "value/velocity phase portrait of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "output format: csv, json, or svg")
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	rootCmd.AddCommand(demoCmd, stepCmd, compareCmd, sweepCmd, presetsCmd, runsCmd, plotCmd, phaseCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// demoConfig resolves the demo's configuration: preset first, then a
// config file on top of the defaults, then the debug flag.
func demoConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if debug {
		cfg.Debug = true
	}
	return cfg, nil
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := demoConfig()
	if err != nil {
		return err
	}

	doc := tui.SampleDocument()
	if len(args) > 0 {
		doc, err = tui.LoadDocument(args[0])
		if err != nil {
			return err
		}
	}

	return tui.Run(doc, cfg, tui.Options{Minimode: minimode, Debug: cfg.Debug})
}

func runStep(cmd *cobra.Command, args []string) error {
	opts := trace.StepOpts{K: stiffness, C: damping, From: from, To: to, Dt: dt, Duration: duration}
	samples := trace.StepResponse(opts)
	if len(samples) == 0 {
		return fmt.Errorf("no frames simulated (time=%.3f dt=%.4f)", duration, dt)
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(plotH),
		asciigraph.Width(plotW),
		asciigraph.Caption(fmt.Sprintf("step %.2f -> %.2f (k=%.3f c=%.3f)", from, to, stiffness, damping)),
	)
	fmt.Println(graph)
	fmt.Println()

	metrics := trace.Measure(samples, from, to)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	fmt.Fprintf(w, "settling_frames\t%.0f\n", metrics["settling_frames"])
	if metrics["settling_frames"] >= 0 {
		fmt.Fprintf(w, "settling_time\t%.3fs\n", metrics["settling_frames"]*dt)
	}
	fmt.Fprintf(w, "overshoot\t%.2f%%\n", metrics["overshoot"]*100)
	fmt.Fprintf(w, "peak\t%.6f\n", metrics["peak"])
	if err := w.Flush(); err != nil {
		return err
	}

	if !saveRun {
		return nil
	}
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(store.RunMetadata{
		K: stiffness, C: damping, From: from, To: to, Dt: dt, Duration: duration,
		Metrics: metrics,
	}, samples)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func comparePresets(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	fmt.Printf("scroll spring step 0 -> 1 (dt=%.4f, time=%.1fs)\n\n", dt, duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tK\tC\tSETTLE_FRAMES\tSETTLE_TIME\tOVERSHOOT")

	for _, name := range names {
		cfg := config.GetPreset(name)
		if cfg == nil {
			fmt.Fprintf(w, "%s\tunknown preset\n", name)
			continue
		}
		samples := trace.StepResponse(trace.StepOpts{
			K: cfg.ScrollSpring.K, C: cfg.ScrollSpring.C,
			From: 0, To: 1, Dt: dt, Duration: duration,
		})
		metrics := trace.Measure(samples, 0, 1)
		settle := "never"
		if metrics["settling_frames"] >= 0 {
			settle = fmt.Sprintf("%.3fs", metrics["settling_frames"]*dt)
		}
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.0f\t%s\t%.2f%%\n",
			name, cfg.ScrollSpring.K, cfg.ScrollSpring.C,
			metrics["settling_frames"], settle, metrics["overshoot"]*100)
	}
	return w.Flush()
}

// settleRamp maps normalized settling time onto heatmap characters, fast
// to slow.
const settleRamp = " .:-=+*#%@"

func runSweep(cmd *cobra.Command, args []string) error {
	if budget <= 0 {
		budget = 600
	}
	grid := sweep.Grid{KMin: kMin, KMax: kMax, CMin: cMin, CMax: cMax, Steps: steps}
	result, err := sweep.Run(context.Background(), grid, sweep.Opts{
		From: 0, To: 1, Budget: budget, Workers: workers,
	})
	if err != nil {
		return err
	}

	fmt.Printf("settling frames over k=[%.2f,%.2f] c=[%.2f,%.2f] (budget %d)\n", kMin, kMax, cMin, cMax, budget)
	fmt.Println("rows: damping (low to high), cols: stiffness (low to high), x = never settled")
	fmt.Println()

	for ci := len(result.Cells) - 1; ci >= 0; ci-- {
		row := result.Cells[ci]
		var sb strings.Builder
		fmt.Fprintf(&sb, "  c=%.2f  ", row[0].C)
		for _, cell := range row {
			if cell.SettlingFrames < 0 {
				sb.WriteByte('x')
				continue
			}
			i := cell.SettlingFrames * (len(settleRamp) - 1) / budget
			sb.WriteByte(settleRamp[i])
		}
		fmt.Println(sb.String())
	}
	fmt.Printf("          k=%.2f%sk=%.2f\n", kMin, strings.Repeat(" ", max(steps-10, 1)), kMax)

	// Best cell: fastest settle with overshoot under 5%.
	best := sweep.Cell{SettlingFrames: -1}
	for _, row := range result.Cells {
		for _, cell := range row {
			if cell.SettlingFrames < 0 || cell.Overshoot > 0.05 {
				continue
			}
			if best.SettlingFrames < 0 || cell.SettlingFrames < best.SettlingFrames {
				best = cell
			}
		}
	}
	if best.SettlingFrames >= 0 {
		fmt.Printf("\nfastest low-overshoot cell: k=%.3f c=%.3f (%d frames, %.1f%% overshoot)\n",
			best.K, best.C, best.SettlingFrames, best.Overshoot*100)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSCROLL_K\tSCROLL_C\tSCRUBBER_K\tSCRUBBER_C\tCOOLDOWN")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.2fs\n",
			name, cfg.ScrollSpring.K, cfg.ScrollSpring.C,
			cfg.ScrubberSpring.K, cfg.ScrubberSpring.C, cfg.Snap.Cooldown)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tK\tC\tSTEP\tFRAMES\tSETTLE_FRAMES")
	for _, run := range runs {
		settle := "-"
		if v, ok := run.Metrics["settling_frames"]; ok && v >= 0 {
			settle = fmt.Sprintf("%.0f", v)
		}
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\t%.2f->%.2f\t%d\t%s\n",
			run.ID, run.Timestamp.Format("2006-01-02 15:04:05"),
			run.K, run.C, run.From, run.To, run.Frames, settle)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("spring: k=%.3f c=%.3f, step %.2f -> %.2f\n", meta.K, meta.C, meta.From, meta.To)
	fmt.Printf("samples: %d\n\n", len(samples))

	values := make([]float64, len(samples))
	velocities := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
		velocities[i] = s.Velocity
	}

	fmt.Println(asciigraph.Plot(values,
		asciigraph.Height(plotH), asciigraph.Width(plotW), asciigraph.Caption("value")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(velocities,
		asciigraph.Height(plotH), asciigraph.Width(plotW), asciigraph.Caption("velocity")))

	if len(meta.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		for name, val := range meta.Metrics {
			fmt.Printf("  %s: %.6f\n", name, val)
		}
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("phase portrait: %s (k=%.3f c=%.3f)\n", meta.ID, meta.K, meta.C)
	fmt.Println("x: value, y: velocity")
	fmt.Println()

	xMin, xMax := samples[0].Value, samples[0].Value
	yMin, yMax := samples[0].Velocity, samples[0].Velocity
	for _, s := range samples {
		xMin, xMax = min(xMin, s.Value), max(xMax, s.Value)
		yMin, yMax = min(yMin, s.Velocity), max(yMax, s.Velocity)
	}
	xRange := xMax - xMin
	yRange := yMax - yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	const width, height = 70, 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}
	for i, s := range samples {
		px := int(float64(width-1) * (s.Value - xMin) / xRange)
		py := int(float64(height-1) * (s.Velocity - yMin) / yRange)
		py = height - 1 - py
		if px < 0 || px >= width || py < 0 || py >= height {
			continue
		}
		switch {
		case i < len(samples)/3:
			canvas[py][px] = '.'
		case i < 2*len(samples)/3:
			canvas[py][px] = 'o'
		default:
			canvas[py][px] = '●'
		}
	}

	fmt.Printf("  %7.3f ┌%s┐\n", yMax, strings.Repeat("─", width))
	for i, row := range canvas {
		if i == height/2 {
			fmt.Printf("  %7.3f │%s│\n", (yMax+yMin)/2, string(row))
			continue
		}
		fmt.Printf("          │%s│\n", string(row))
	}
	fmt.Printf("  %7.3f └%s┘\n", yMin, strings.Repeat("─", width))
	fmt.Printf("           %.3f%s%.3f\n", xMin, strings.Repeat(" ", width-12), xMax)
	fmt.Println("\nlegend: . = early, o = middle, ● = late")
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "csv":
		return export.CSV(out, samples)
	case "json":
		return export.JSON(out, meta, samples)
	case "svg":
		return export.SVG(out, meta, samples, export.SVGOpts{})
	default:
		return fmt.Errorf("unknown format: %s (want csv, json, or svg)", format)
	}
}
