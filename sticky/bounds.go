package sticky

import "go.uber.org/zap"

// ComputeBounds derives the pin range from one measurement. disabled is true
// when the panel fits in the viewport or the container is too short to scroll
// through, in which case no pinning is needed.
func ComputeBounds(g Geometry) (b Bounds, disabled bool) {
	b = Bounds{
		TopMax:    g.ContainerTop,
		BottomMax: g.ContainerTop + g.ContainerHeight - g.ViewportHeight,
	}
	return b, g.PanelHeight < g.ViewportHeight || b.Degenerate()
}

// Track re-measures the panel and recomputes its bounds. It runs on mount,
// on every resize and on every height change. Nothing happens while the
// panel cannot be measured.
//
// Track never moves a panel between Top, Flowing and Bottom. A panel pinned
// to the bottom is re-pinned so its bottom edge stays on the viewport's
// bottom edge, a panel that fits the viewport falls back to StaticSticky, and
// a panel that outgrows the viewport again is pinned to the top.
func (p *Panel) Track() {
	if p.measure == nil {
		return
	}
	g, ok := p.measure.Measure()
	if !ok {
		return
	}
	p.geometry = g
	p.tracker.SetMaxScroll(g.MaxScroll())

	b, disabled := ComputeBounds(g)
	p.bounds = &b

	switch {
	case p.pinnedBottom():
		p.apply(StyleDirective{
			Position: Fixed,
			Top:      Px(g.ViewportHeight - g.PanelHeight),
			Bottom:   Px(0),
			State:    Bottom,
		})
	case disabled:
		if !p.disabled {
			p.log.Debug("pinning disabled",
				zap.Float64("height", g.PanelHeight),
				zap.Float64("viewport", g.ViewportHeight))
		}
		p.disabled = true
		p.apply(staticSticky)
	case p.disabled:
		p.disabled = false
		p.log.Debug("pinning enabled", zap.Float64("height", g.PanelHeight))
		p.apply(pinnedTop)
	}
}

func (p *Panel) pinnedBottom() bool {
	return p.state == Bottom && p.directive.Position == Fixed
}
