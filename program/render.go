package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	styles "github.com/charmbracelet/lipgloss"

	"github.com/keilerkonzept/sticky-sidebar-tui-demo/sticky"
)

var (
	selectedColor = styles.AdaptiveColor{Light: "0", Dark: "9"}
	borderColor   = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	selectedFg    = styles.NewStyle().Foreground(selectedColor)
	borderFg      = styles.NewStyle().Foreground(borderColor)
	plotStyle     = styles.NewStyle().
			BorderStyle(styles.NormalBorder()).
			Foreground(borderColor).
			BorderForeground(borderColor)

	stateStyles = map[sticky.AttachState]styles.Style{
		sticky.Top:          styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "2", Dark: "10"}),
		sticky.Bottom:       styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "4", Dark: "12"}),
		sticky.Flowing:      styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "3", Dark: "11"}),
		sticky.StaticSticky: styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "8", Dark: "7"}),
	}
)

const columnGap = 1

// column is one vertical strip of the page: a sidebar or the main column.
type column struct {
	width int
	panel *panelView
}

func (m *model) columns() []column {
	var left, right *panelView
	for _, v := range m.panels {
		switch v.spec.Side {
		case sideLeft:
			left = v
		case sideRight:
			right = v
		}
	}
	mainWidth := m.pageWidth
	var cols []column
	if left != nil {
		cols = append(cols, column{width: left.spec.Width, panel: left})
		mainWidth -= left.spec.Width + columnGap
	}
	cols = append(cols, column{})
	if right != nil {
		cols = append(cols, column{width: right.spec.Width, panel: right})
		mainWidth -= right.spec.Width + columnGap
	}
	for i := range cols {
		if cols[i].panel == nil {
			cols[i].width = max(1, mainWidth)
		}
	}
	return cols
}

// renderPage draws the visible slice of the page. Each panel is placed where
// its last applied directive puts it.
func (m *model) renderPage() []string {
	cols := m.columns()
	type placed struct {
		top   int
		lines []string
		style styles.Style
	}
	panels := make([]placed, len(cols))
	for i, c := range cols {
		if c.panel == nil {
			continue
		}
		v := c.panel
		lines := v.spec.lines(v.toggled)
		lines[0] = lines[0] + " · " + v.directive.State.String()
		panels[i] = placed{
			top:   int(math.Round(v.panel.ViewportTop(float64(m.offset)))),
			lines: lines,
			style: stateStyles[v.directive.State],
		}
	}

	rows := make([]string, 0, m.viewportRows)
	for y := 0; y < m.viewportRows; y++ {
		r := m.offset + y
		var sb strings.Builder
		for i, c := range cols {
			if i > 0 {
				sb.WriteString(strings.Repeat(" ", columnGap))
			}
			if c.panel == nil {
				sb.WriteString(m.mainCell(r, c.width))
				continue
			}
			p := panels[i]
			if j := y - p.top; j >= 0 && j < len(p.lines) {
				sb.WriteString(p.style.Render(fit(p.lines[j], c.width)))
				continue
			}
			sb.WriteString(m.backgroundCell(r, c.width))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func (m *model) mainCell(r, w int) string {
	l := m.layout
	switch {
	case r < l.headerRows:
		if r == 0 {
			return selectedFg.Render(fit(" HEADER", w))
		}
		return m.backgroundCell(r, w)
	case r >= l.headerRows+l.containerHeight:
		if r == l.headerRows+l.containerHeight {
			return selectedFg.Render(fit(" FOOTER", w))
		}
		return m.backgroundCell(r, w)
	}
	if i := r - l.headerRows; i < l.mainRows {
		return fit(fmt.Sprintf("%4d  Main content", i+1), w)
	}
	return fit("", w)
}

func (m *model) backgroundCell(r, w int) string {
	l := m.layout
	switch {
	case r < l.headerRows:
		return borderFg.Render(strings.Repeat("═", w))
	case r >= l.headerRows+l.containerHeight:
		return borderFg.Render(strings.Repeat("─", w))
	}
	return strings.Repeat(" ", w)
}

// fit truncates or pads s to exactly w cells. Page text is single-width.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) > w {
		return string(rs[:w])
	}
	return s + strings.Repeat(" ", w-len(rs))
}

func statsRows(panels int) int { return 4 + panels }

func (m *model) statsBlock() []string {
	snap := m.metrics.snapshot(m.panels)
	title := "STICKY STATS (TRACING)"
	if m.paused {
		title = "STICKY STATS (TRACE PAUSED)"
	}
	lines := []string{
		title,
		fmt.Sprintf("offset: %d/%d  viewport: %d rows", m.offset, m.maxScroll(), m.viewportRows),
	}
	for i, v := range m.panels {
		marker := " "
		if i == m.traced {
			marker = "*"
		}
		b, ok := v.panel.Bounds()
		bounds := "unmeasured"
		if ok {
			bounds = fmt.Sprintf("[%g, %g]", b.TopMax, b.BottomMax)
		}
		lines = append(lines, fmt.Sprintf("%s%s: %s %s  h=%d  bounds=%s  dir=%s",
			marker, v.spec.Name, v.directive.State, v.directive.Position,
			v.height(), bounds, v.panel.Direction()))
	}
	lines = append(lines,
		fmt.Sprintf("dispatch: scroll %s avg / %s max, resize %s avg",
			formatMetricDuration(snap.scrollLatency.avg),
			formatMetricDuration(snap.scrollLatency.max),
			formatMetricDuration(snap.resizeLatency.avg)),
		fmt.Sprintf("samples: %d  no-ops: %d  transitions: %d  writes: %d",
			snap.panels.Samples, snap.panels.NoOps, snap.panels.Transitions, snap.panels.Writes),
	)
	return lines
}

func (m *model) View() string {
	left := styles.NewStyle().Width(m.pageWidth).Render(strings.Join(m.renderPage(), "\n"))

	plotView := m.plot.String()
	if plotView == "" {
		plotView = emptyPlot(m.rightPaneWidth-2, m.viewportRows-m.list.Height()-3)
	}
	label := "offset"
	if len(m.panels) > 0 {
		label = borderFg.Render("offset") + " " + selectedFg.Render(m.panels[m.traced].spec.Name+" top")
	}
	right := styles.JoinVertical(styles.Left,
		plotStyle.Render(styles.JoinVertical(styles.Left, plotView, label)),
		m.list.View(),
	)
	view := styles.JoinHorizontal(styles.Top, left, right)

	if m.err != nil {
		errStyle := styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "1", Dark: "9"})
		return styles.JoinVertical(styles.Left, view, errStyle.Render("ERROR: "+m.err.Error()), m.help.View(keys))
	}
	if m.showStats {
		statsStyle := styles.NewStyle().Foreground(styles.AdaptiveColor{Light: "1", Dark: "9"})
		return styles.JoinVertical(styles.Left, view, statsStyle.Render(strings.Join(m.statsBlock(), "\n")), m.help.View(keys))
	}
	return styles.JoinVertical(styles.Left, view, m.help.View(keys))
}

func emptyPlot(w, h int) string {
	if w < 1 || h < 1 {
		return ""
	}
	rows := make([]string, h)
	for i := range rows {
		rows[i] = strings.Repeat(" ", w)
	}
	return strings.Join(rows, "\n")
}

func formatMetricDuration(d time.Duration) string {
	if d <= 0 {
		return "0.000ms"
	}
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}

func computePaneWidths(totalWidth int, splitPercent int) (left, right int) {
	if totalWidth <= 1 {
		return 1, 1
	}
	left = totalWidth * splitPercent / 100
	left = max(1, min(left, totalWidth-1))
	right = totalWidth - left

	// Keep panes readable when the terminal is wide enough.
	const minPane = 18
	if totalWidth >= minPane*2 {
		if left < minPane {
			left = minPane
			right = totalWidth - left
		}
		if right < minPane {
			right = minPane
			left = totalWidth - right
		}
	}
	return max(1, left), max(1, right)
}
