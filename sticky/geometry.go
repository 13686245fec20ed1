package sticky

// ScrollSample is one observation of the two scroll signals.
type ScrollSample struct {
	GlobalOffset float64
	// ContainerProgress is 0 when the panel's end meets the viewport's end
	// and 1 when the panel's start meets the viewport's start.
	ContainerProgress float64
}

// Bounds delimit the global scroll range in which a panel may be pinned.
type Bounds struct {
	TopMax    float64
	BottomMax float64
}

// Degenerate reports whether the container is shorter than the viewport.
func (b Bounds) Degenerate() bool { return b.BottomMax < b.TopMax }

// Direction of the last non-empty scroll movement.
type Direction int

const (
	Unset Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unset"
	}
}

// AttachState is the positioning mode of a panel.
type AttachState int

const (
	// Top is pinned (or resting) at the top edge.
	Top AttachState = iota
	// Bottom is pinned (or resting) at the bottom edge.
	Bottom
	// Flowing scrolls with the page at an absolute offset inside its container.
	Flowing
	// StaticSticky applies when the panel fits in the viewport.
	StaticSticky
)

func (s AttachState) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Flowing:
		return "flowing"
	case StaticSticky:
		return "static-sticky"
	default:
		return "unknown"
	}
}

// Geometry is a single measurement of the panel and its surroundings.
// All values share one unit (pixels in a browser, rows in a terminal).
type Geometry struct {
	ViewportHeight  float64
	DocumentHeight  float64
	ContainerTop    float64
	ContainerHeight float64
	PanelHeight     float64
}

// MaxScroll is the total scrollable range of the document.
func (g Geometry) MaxScroll() float64 {
	return max(0, g.DocumentHeight-g.ViewportHeight)
}

// Measurer measures the panel. ok is false while the panel is not mounted.
type Measurer interface {
	Measure() (g Geometry, ok bool)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func() (Geometry, bool)

func (f MeasurerFunc) Measure() (Geometry, bool) { return f() }

// ViewportTop returns where the top edge of a panel laid out with d sits,
// relative to the top of the viewport, at the given global scroll offset.
func ViewportTop(d StyleDirective, g Geometry, offset float64) float64 {
	switch d.Position {
	case Fixed:
		if !d.Top.Auto {
			return d.Top.Value
		}
		if !d.Bottom.Auto {
			return g.ViewportHeight - d.Bottom.Value - g.PanelHeight
		}
		return 0
	case Absolute:
		if !d.Top.Auto {
			return g.ContainerTop + d.Top.Value - offset
		}
		if !d.Bottom.Auto {
			return g.ContainerTop + g.ContainerHeight - d.Bottom.Value - g.PanelHeight - offset
		}
		return g.ContainerTop - offset
	case Sticky:
		top := g.ContainerTop - offset
		if !d.Top.Auto {
			top = max(top, d.Top.Value)
		}
		return min(top, g.ContainerTop+g.ContainerHeight-g.PanelHeight-offset)
	default:
		return g.ContainerTop - offset
	}
}

// Progress converts a panel's viewport top into container progress.
func Progress(top, panelHeight, viewportHeight float64) float64 {
	span := panelHeight - viewportHeight
	if span <= 0 {
		if top >= 0 {
			return 1
		}
		return 0
	}
	p := (top + panelHeight - viewportHeight) / span
	return min(1, max(0, p))
}
