// Package tui is the demo presentation layer: a Bubble Tea app that
// renders a sectioned document with a navigation rail, scrubber, minimode,
// and debug overlay, all driven by the spring engine through the scroll
// orchestrator and snap controller.
package tui

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/kajander/scrollspring/internal/config"
	"github.com/kajander/scrollspring/internal/motion"
	"github.com/kajander/scrollspring/internal/scroll"
	"github.com/kajander/scrollspring/internal/snap"
)

// Layout constants, in character cells.
const (
	railWidth  = 20
	headerRows = 2
	footerRows = 2
	debugRows  = 9

	// pxPerRow converts pixel-tuned config values (label lift, minimode
	// shift) into terminal rows.
	pxPerRow = 6.0

	// wheelDelta is the magnitude reported to the snap classifier per
	// wheel event; terminal wheels have no analog delta of their own.
	wheelDelta = 6.0

	// wheelStep is the free-scroll distance in rows for an unconsumed
	// wheel event.
	wheelStep = 3.0

	historyCap = 120
)

type tickMsg time.Time

// frameMsg signals that the orchestrator delivered at least one new frame
// since the last redraw. Frames coalesce: the UI always renders the
// latest one.
type frameMsg struct{}

// uiFrame is the per-frame presentation state assembled from the
// orchestrator callbacks.
type uiFrame struct {
	progress  float64
	scrubber  float64
	labels    []scroll.LabelAnimation
	transform scroll.ContentTransform
}

// Options select the demo's starting state.
type Options struct {
	Minimode bool
	Debug    bool
}

// App is the Bubble Tea model wiring the engine, orchestrator, snap
// controller, and document viewport together.
type App struct {
	doc    *Document
	titles map[string]string
	cfg    *config.Config

	eng   *motion.Engine
	orch  *scroll.Orchestrator
	snapc *snap.Controller
	vp    *DocViewport

	mu      sync.Mutex
	frame   uiFrame
	framec  chan struct{}
	history []float64

	keys     keyMap
	help     help.Model
	width    int
	height   int
	minimode bool
	debug    bool
	quitting bool
}

// NewApp builds the demo over doc. Nil cfg selects the defaults.
func NewApp(doc *Document, cfg *config.Config, opts Options) (*App, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	titles := make(map[string]string, len(doc.Sections))
	for _, s := range doc.Sections {
		titles[s.ID] = s.Title
	}

	eng := motion.NewEngine(motion.Config{
		AutoSleep:      cfg.Performance.AutoSleep,
		SleepThreshold: cfg.Performance.SleepThreshold,
		MaxDeltaTime:   cfg.Performance.MaxDeltaTime,
	})
	vp := NewDocViewport(doc, 64, 20)

	a := &App{
		doc:      doc,
		titles:   titles,
		cfg:      cfg,
		eng:      eng,
		vp:       vp,
		framec:   make(chan struct{}, 1),
		keys:     defaultKeyMap(),
		help:     help.New(),
		minimode: opts.Minimode,
		debug:    opts.Debug,
	}
	a.orch = scroll.New(eng, vp, cfg, nil)
	a.snapc = snap.New(vp, doc.SectionIDs(), cfg.Snap, nil)

	if err := a.orch.Init(doc.SectionIDs(), scroll.Callbacks{
		OnProgress: func(p float64) { a.withFrame(func(f *uiFrame) { f.progress = p }) },
		OnScrubber: func(p float64) { a.withFrame(func(f *uiFrame) { f.scrubber = p }) },
		OnLabels:   func(ls []scroll.LabelAnimation) { a.withFrame(func(f *uiFrame) { f.labels = ls }) },
		OnMinimode: func(t scroll.ContentTransform) {
			a.withFrame(func(f *uiFrame) { f.transform = t })
			// Last callback of the orchestrator's frame: publish it.
			select {
			case a.framec <- struct{}{}:
			default:
			}
		},
	}); err != nil {
		return nil, err
	}
	a.orch.Start()
	if opts.Minimode {
		a.orch.SetMinimode(true)
	}
	return a, nil
}

func (a *App) withFrame(fn func(*uiFrame)) {
	a.mu.Lock()
	fn(&a.frame)
	a.mu.Unlock()
}

// Close tears the animation stack down. Safe to call more than once.
func (a *App) Close() {
	a.orch.Destroy()
	a.eng.StopLoop()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) waitForFrame() tea.Cmd {
	return func() tea.Msg {
		<-a.framec
		return frameMsg{}
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tick(), a.waitForFrame(), tea.SetWindowTitle(a.doc.Title))
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.relayout()
		return a, nil

	case tickMsg:
		if a.vp.Tick() {
			a.orch.HandleScroll()
		}
		return a, tick()

	case frameMsg:
		a.mu.Lock()
		a.history = append(a.history, a.frame.progress)
		if len(a.history) > historyCap {
			a.history = a.history[len(a.history)-historyCap:]
		}
		a.mu.Unlock()
		return a, a.waitForFrame()

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			a.wheel(wheelDelta)
		case tea.MouseButtonWheelUp:
			a.wheel(-wheelDelta)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a *App) wheel(delta float64) {
	if a.snapc.HandleWheel(delta) {
		return
	}
	if a.vp.ScrollBy(math.Copysign(wheelStep, delta)) {
		a.orch.HandleScroll()
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		a.Close()
		return a, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case key.Matches(msg, a.keys.Jump):
		i := int(msg.String()[0] - '1')
		_ = a.orch.ScrollToSection(i)
		return a, nil

	case key.Matches(msg, a.keys.Minimode):
		a.minimode = !a.minimode
		a.orch.SetMinimode(a.minimode)
		return a, nil

	case key.Matches(msg, a.keys.Debug):
		a.debug = !a.debug
		a.relayout()
		return a, nil
	}

	if k, ok := snapKeyFor(msg.String()); ok {
		a.snapc.HandleKey(k)
	}
	return a, nil
}

// snapKeyFor maps a Bubble Tea key string onto the snap classifier's key
// set.
func snapKeyFor(s string) (snap.Key, bool) {
	switch s {
	case "down", "j":
		return snap.KeyArrowDown, true
	case "up", "k":
		return snap.KeyArrowUp, true
	case "pgdown":
		return snap.KeyPageDown, true
	case "pgup":
		return snap.KeyPageUp, true
	case " ":
		return snap.KeySpace, true
	case "home", "g":
		return snap.KeyHome, true
	case "end", "G":
		return snap.KeyEnd, true
	}
	return 0, false
}

func (a *App) contentSize() (w, h int) {
	w = a.width - railWidth - 3
	h = a.height - headerRows - footerRows
	if a.debug {
		h -= debugRows
	}
	return w, h
}

// relayout re-renders the document for the current terminal size and
// tells the animation layers that geometry changed.
func (a *App) relayout() {
	w, h := a.contentSize()
	a.vp.Layout(w, h)
	a.orch.HandleResize()
	a.snapc.HandleResize()
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}
	if a.width == 0 {
		return "measuring..."
	}

	a.mu.Lock()
	f := a.frame
	history := append([]float64(nil), a.history...)
	a.mu.Unlock()

	var b strings.Builder
	b.WriteString(a.viewHeader(f.progress))
	b.WriteString("\n")

	_, contentH := a.contentSize()
	rail := a.viewRail(f, contentH)
	content := a.viewContent(f.transform, contentH)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rail, " ", content))
	b.WriteString("\n")

	if a.debug {
		b.WriteString(a.viewDebug(history))
	}
	b.WriteString(a.viewFooter(f))
	return b.String()
}

func (a *App) viewHeader(progress float64) string {
	title := titleStyle.Render(a.doc.Title)
	barW := a.width - lipgloss.Width(title) - 3
	if barW < 0 {
		barW = 0
	}
	fill := int(math.Round(progress * float64(barW)))
	bar := barFillStyle.Render(strings.Repeat("█", fill)) +
		barEmptyStyle.Render(strings.Repeat("░", barW-fill))
	return title + "  " + bar + "\n"
}

// viewRail draws the navigation rail: a vertical track filled to the
// scrubber spring's value, with chapter labels placed by their
// labelProgress and styled by opacity, scale, and lift.
func (a *App) viewRail(f uiFrame, h int) string {
	if h < 1 {
		h = 1
	}
	rows := make([]string, h)
	fillTo := int(math.Round(f.scrubber * float64(h-1)))
	for r := range rows {
		track := "│"
		style := railStyle
		if r <= fillTo {
			track = "┃"
			style = railFillStyle
		}
		rows[r] = style.Render(track)
	}

	for _, l := range f.labels {
		row := int(math.Round(l.LabelProgress * float64(h-1)))
		row += int(math.Round(l.YOffset / pxPerRow))
		if row < 0 || row >= h {
			continue
		}
		mark := "  "
		if l.Active {
			mark = activeMarkStyle.Render("● ")
		}
		name := a.titles[l.ID]
		if len(name) > railWidth-4 {
			name = name[:railWidth-4]
		}
		// Scale has no glyph-size analogue in a terminal; the upper half
		// of its range renders bold instead.
		bold := l.Scale > (a.cfg.Labels.ScaleMin+a.cfg.Labels.ScaleMax)/2
		rows[row] = rows[row] + " " + mark + labelStyle(l.Opacity, bold).Render(name)
	}

	for r := range rows {
		rows[r] = lipgloss.PlaceHorizontal(railWidth, lipgloss.Left, rows[r])
	}
	return strings.Join(rows, "\n")
}

// viewContent slices the document at the scroll position and applies the
// minimode transform: width scales in, and the y shift pushes the pane
// down or up by whole rows.
func (a *App) viewContent(t scroll.ContentTransform, h int) string {
	lines := a.vp.VisibleLines()
	w := a.vp.Width()

	scale := t.Scale
	if scale <= 0 || scale > 1 {
		scale = 1
	}
	sw := int(float64(w) * scale)
	indent := (w - sw) / 2
	shift := int(math.Round(t.Y / pxPerRow))

	out := make([]string, 0, h)
	for i := 0; i < h; i++ {
		j := i - shift
		if j < 0 || j >= len(lines) {
			out = append(out, "")
			continue
		}
		line := lines[j]
		if len(line) > sw {
			line = line[:sw]
		}
		out = append(out, strings.Repeat(" ", indent)+line)
	}
	return contentStyle.Render(strings.Join(out, "\n"))
}

func (a *App) viewDebug(history []float64) string {
	if len(history) < 2 {
		history = []float64{0, 0}
	}
	graph := asciigraph.Plot(history,
		asciigraph.Height(debugRows-3),
		asciigraph.Width(a.width-10),
		asciigraph.Caption("smoothed progress"),
	)
	st := a.orch.State()
	line := fmt.Sprintf("loop=%v springs=%d settled=%d",
		st.Engine.LoopRunning, st.Engine.SpringCount, st.Engine.SettledCount)
	return debugStyle.Render(graph) + "\n" + statusStyle.Render(line) + "\n"
}

func (a *App) viewFooter(f uiFrame) string {
	st := a.orch.State()
	mode := ""
	if a.minimode {
		mode = "  minimode"
	}
	status := fmt.Sprintf("%3.0f%%  %d sections%s", f.progress*100, st.Sections, mode)
	return statusStyle.Render(status) + "\n" + helpStyle.Render(a.help.View(a.keys))
}

// Run starts the demo and blocks until the user quits.
func Run(doc *Document, cfg *config.Config, opts Options) error {
	app, err := NewApp(doc, cfg, opts)
	if err != nil {
		return err
	}
	defer app.Close()
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
