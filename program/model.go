package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/keilerkonzept/topk/heap"
	"go.uber.org/zap"

	"github.com/keilerkonzept/sticky-sidebar-tui-demo/sticky"
)

// panelView hosts one sticky.Panel: it measures the panel against the
// current page and remembers the last directive for rendering.
type panelView struct {
	host    *model
	spec    SidebarSpec
	toggled bool
	panel   *sticky.Panel

	directive sticky.StyleDirective
	applied   bool
}

func (v *panelView) height() int { return v.spec.height(v.toggled) }

func (v *panelView) Measure() (sticky.Geometry, bool) {
	m := v.host
	if m.viewportRows <= 0 {
		return sticky.Geometry{}, false
	}
	return sticky.Geometry{
		ViewportHeight:  float64(m.viewportRows),
		DocumentHeight:  float64(m.layout.documentHeight()),
		ContainerTop:    float64(m.layout.containerTop()),
		ContainerHeight: float64(m.layout.containerHeight),
		PanelHeight:     float64(v.height()),
	}, true
}

func (v *panelView) Apply(d sticky.StyleDirective) {
	if v.applied && v.directive.State != d.State {
		v.host.transitions.record(v.spec.Name, v.directive.State.String(), d.State.String())
	}
	v.directive = d
	v.applied = true
}

type model struct {
	width, height  int
	viewportRows   int
	pageWidth      int
	rightPaneWidth int

	offset  int
	started bool
	page    Page
	layout  pageLayout
	panels  []*panelView
	bus     *sticky.Bus
	log     *zap.Logger

	traced    int
	paused    bool
	showStats bool
	err       error

	metrics     *scrollMetrics
	transitions *transitionLog

	list  list.Model
	help  help.Model
	plot  *plot.Canvas
	trace [][]float64
}

func newModel(page Page, log *zap.Logger) *model {
	const (
		defaultWidth  = 80
		defaultHeight = 20
	)
	if log == nil {
		log = zap.NewNop()
	}

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = styles.NewStyle().
		Border(styles.NormalBorder(), false, false, false, true).
		BorderForeground(borderColor).
		Foreground(selectedColor).
		Padding(0, 0, 0, 1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle
	d.ShowDescription = true

	l := list.New(make([]list.Item, 0), d, defaultWidth/2-2, defaultHeight)
	l.Styles.NoItems = l.Styles.NoItems.Padding(0, 2)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)

	p := plot.NewCanvas(defaultWidth, defaultHeight)
	p.NumDataPoints = config.TracePoints
	p.ShowAxis = false

	m := &model{
		bus:         sticky.NewBus(),
		log:         log,
		showStats:   config.StatsEnabled,
		metrics:     newScrollMetrics(config.StatsWindow, config.StatsEnabled),
		transitions: newTransitionLog(config.K, config.WindowSize, config.TickSize, config.FullRefresh),
		list:        l,
		help:        help.New(),
		plot:        &p,
		trace:       [][]float64{make([]float64, config.TracePoints), make([]float64, config.TracePoints)},
	}
	m.pageWidth, m.rightPaneWidth = computePaneWidths(defaultWidth, config.ViewSplit)
	m.setPage(page)
	return m
}

// setPage mounts a panel per sidebar, keeping the panels (and their toggle
// state) of sidebars that survive a reload.
func (m *model) setPage(page Page) {
	old := make(map[string]*panelView, len(m.panels))
	for _, v := range m.panels {
		old[v.spec.Name] = v
	}
	m.page = page
	m.panels = m.panels[:0]
	for _, spec := range page.Sidebars {
		if v, ok := old[spec.Name]; ok {
			delete(old, spec.Name)
			v.spec = spec
			v.toggled = v.toggled && spec.ToggleRows > 0
			m.panels = append(m.panels, v)
			continue
		}
		v := &panelView{host: m, spec: spec}
		v.panel = sticky.NewPanel(v, v,
			sticky.WithName(spec.Name),
			sticky.WithLogger(m.log))
		m.panels = append(m.panels, v)
	}
	for _, v := range old {
		v.panel.Unmount()
		m.log.Debug("sidebar removed", zap.String("panel", v.spec.Name))
	}
	m.traced = min(m.traced, max(0, len(m.panels)-1))
	m.relayout()
	for _, v := range m.panels {
		v.panel.Mount(m.bus)
	}
}

// relayout recomputes the page and reports every panel's height to its
// probe. If the document changed size, all panels get a resize.
func (m *model) relayout() {
	before := m.layout.documentHeight()
	heights := make([]int, len(m.panels))
	for i, v := range m.panels {
		heights[i] = v.height()
	}
	m.layout = m.page.layout(heights)
	for i, v := range m.panels {
		v.panel.Probe().Observe(float64(heights[i]))
	}
	if m.layout.documentHeight() != before {
		m.dispatchResize()
	}
}

func (m *model) close() {
	for _, v := range m.panels {
		v.panel.Unmount()
	}
}

func (m *model) maxScroll() int {
	return max(0, m.layout.documentHeight()-m.viewportRows)
}

func (m *model) dispatchResize() {
	start := time.Now()
	m.bus.Resize()
	m.metrics.observeResize(time.Since(start))
}

// scrollTo moves the page and hands the new offset to every panel. Nothing
// scrolls before the first window size is known.
func (m *model) scrollTo(v int) {
	if !m.started {
		return
	}
	v = max(0, min(v, m.maxScroll()))
	if v == m.offset {
		return
	}
	m.offset = v
	m.dispatchScroll()
}

func (m *model) dispatchScroll() {
	start := time.Now()
	m.bus.Scroll(float64(m.offset))
	m.metrics.observeScroll(time.Since(start))
}

// toggle flips the block of the traced panel, or of the first panel that
// has one.
func (m *model) toggle() {
	target := -1
	for i, v := range m.panels {
		if v.spec.ToggleRows == 0 {
			continue
		}
		if i == m.traced || target < 0 {
			target = i
		}
	}
	if target < 0 {
		return
	}
	m.panels[target].toggled = !m.panels[target].toggled
	m.afterLayoutChange()
}

func (m *model) afterLayoutChange() {
	m.relayout()
	if m.offset > m.maxScroll() {
		m.scrollTo(m.maxScroll())
	}
}

type traceTickMsg time.Time

func doTraceTick() tui.Cmd {
	return tui.Every(time.Second/time.Duration(config.TraceFPS), func(t time.Time) tui.Msg {
		return traceTickMsg(t)
	})
}

type transitionsTickMsg time.Time

func doTransitionsTick() tui.Cmd {
	return tui.Every(config.TickSize, func(t time.Time) tui.Msg {
		return transitionsTickMsg(t)
	})
}

type pageReloadedMsg struct{ page Page }

type errMsg struct{ err error }

func (m *model) Init() tui.Cmd {
	return tui.Batch(doTraceTick(), doTransitionsTick())
}

func (m *model) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.err = msg.err
		return m, nil
	case pageReloadedMsg:
		m.err = nil
		m.setPage(msg.page)
		m.afterLayoutChange()
		// Panels mounted by the reload have not seen the offset yet.
		m.dispatchScroll()
		return m, nil
	case traceTickMsg:
		if !m.paused {
			m.sampleTrace()
		}
		return m, doTraceTick()
	case transitionsTickMsg:
		m.transitions.tick()
		return m, tui.Batch(m.updateList(time.Time(msg), msg), doTransitionsTick())
	case tui.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil
	case tui.MouseMsg:
		switch msg.Button {
		case tui.MouseButtonWheelUp:
			m.scrollTo(m.offset - config.WheelStep)
		case tui.MouseButtonWheelDown:
			m.scrollTo(m.offset + config.WheelStep)
		}
		return m, nil
	case tui.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tui.Quit
		case key.Matches(msg, keys.Up):
			m.scrollTo(m.offset - 1)
		case key.Matches(msg, keys.Down):
			m.scrollTo(m.offset + 1)
		case key.Matches(msg, keys.PageUp):
			m.scrollTo(m.offset - max(1, m.viewportRows/2))
		case key.Matches(msg, keys.PageDown):
			m.scrollTo(m.offset + max(1, m.viewportRows/2))
		case key.Matches(msg, keys.Home):
			m.scrollTo(0)
		case key.Matches(msg, keys.End):
			m.scrollTo(m.maxScroll())
		case key.Matches(msg, keys.Toggle):
			m.toggle()
		case key.Matches(msg, keys.Trace):
			if len(m.panels) > 0 {
				m.traced = (m.traced + 1) % len(m.panels)
			}
		case key.Matches(msg, keys.Stats):
			m.showStats = !m.showStats
			m.resize()
		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
		}
		return m, nil
	}
	return m, nil
}

func (m *model) chromeRows() int {
	rows := 1 // help
	if m.showStats {
		rows += statsRows(len(m.panels))
	}
	return rows
}

// resize lays out the screen and tells the panels about the new viewport.
// The bounds are updated before the offset is re-applied.
func (m *model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.pageWidth, m.rightPaneWidth = computePaneWidths(m.width, config.ViewSplit)
	m.viewportRows = max(1, m.height-m.chromeRows())

	listRows := max(1, m.viewportRows/2)
	m.list.SetSize(max(1, m.rightPaneWidth), listRows)
	// Plot border takes two rows and two columns, its label one row.
	m.resizePlot(max(1, m.rightPaneWidth-2), max(1, m.viewportRows-listRows-3))

	m.dispatchResize()
	if !m.started {
		m.started = true
		m.offset = -1
		m.scrollTo(config.StartOffset)
		return
	}
	if m.offset > m.maxScroll() {
		m.scrollTo(m.maxScroll())
	}
}

func (m *model) resizePlot(w, h int) {
	p := plot.NewCanvas(w, h)
	p.NumDataPoints = m.plot.NumDataPoints
	p.ShowAxis = m.plot.ShowAxis
	p.LineColors = m.plot.LineColors
	m.plot = &p
}

// sampleTrace appends the page offset and the traced panel's document top
// to the trace.
func (m *model) sampleTrace() {
	if len(m.panels) == 0 {
		return
	}
	v := m.panels[m.traced]
	top := float64(m.offset) + v.panel.ViewportTop(float64(m.offset))
	for i, value := range []float64{float64(m.offset), top} {
		series := m.trace[i]
		copy(series, series[1:])
		series[len(series)-1] = value
	}

	var highlight, dim plot.Color
	if styles.DefaultRenderer().HasDarkBackground() {
		highlight, dim = plot.Red, plot.DimGray
	} else {
		highlight, dim = plot.Black, plot.LightGray
	}
	m.plot.LineColors = []plot.Color{dim, highlight}
	m.plot.Fill(m.trace)
}

func (m *model) updateList(now time.Time, msg tui.Msg) tui.Cmd {
	top := m.transitions.top(now)
	items := make([]list.Item, len(top))
	for i, item := range top {
		items[i] = listItem{Rank: i + 1, Item: item}
	}
	set := m.list.SetItems(items)
	var cmd tui.Cmd
	m.list, cmd = m.list.Update(msg)
	return tui.Batch(set, cmd)
}

type listItem struct {
	Rank int
	heap.Item
}

func (i listItem) Title() string       { return fmt.Sprintf("#%-2d %s", i.Rank, i.Item.Item) }
func (i listItem) Description() string { return fmt.Sprintf("    %d in window", i.Count) }
func (i listItem) FilterValue() string { return i.Item.Item }

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Toggle   key.Binding
	Trace    key.Binding
	Stats    key.Binding
	Pause    key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.PageDown, k.Toggle, k.Trace, k.Stats, k.Pause, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Toggle, k.Trace, k.Stats, k.Pause, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "b"),
		key.WithHelp("pgup/b", "half page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "f"),
		key.WithHelp("pgdn/f", "half page"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("G", "bottom"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("t", " "),
		key.WithHelp("t/space", "toggle block"),
	),
	Trace: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "trace next"),
	),
	Stats: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stats"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause trace"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
