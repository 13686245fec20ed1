package sticky

import "fmt"

// Position is the layout mode of a directive.
type Position int

const (
	Static Position = iota
	Sticky
	Fixed
	Absolute
)

func (p Position) String() string {
	switch p {
	case Sticky:
		return "sticky"
	case Fixed:
		return "fixed"
	case Absolute:
		return "absolute"
	default:
		return "static"
	}
}

// Length is an edge offset, or auto.
type Length struct {
	Value float64
	Auto  bool
}

// Auto leaves an edge to the layout.
var Auto = Length{Auto: true}

// Px returns a fixed edge offset.
func Px(v float64) Length { return Length{Value: v} }

func (l Length) String() string {
	if l.Auto {
		return "auto"
	}
	return fmt.Sprintf("%gpx", l.Value)
}

// StyleDirective is what the state machine asks the host to apply.
// Directives are comparable; equal directives never need a second write.
type StyleDirective struct {
	Position Position
	Top      Length
	Bottom   Length
	State    AttachState
}

func (d StyleDirective) String() string {
	return fmt.Sprintf("position:%s top:%s bottom:%s [%s]", d.Position, d.Top, d.Bottom, d.State)
}

// Applicator materializes directives on screen.
type Applicator interface {
	Apply(d StyleDirective)
}

// ApplicatorFunc adapts a function to Applicator.
type ApplicatorFunc func(StyleDirective)

func (f ApplicatorFunc) Apply(d StyleDirective) { f(d) }

var (
	restingTop = StyleDirective{Position: Static, Top: Px(0), Bottom: Auto, State: Top}
	pinnedTop  = StyleDirective{Position: Fixed, Top: Px(0), Bottom: Auto, State: Top}
	// restingBottom anchors the panel to the bottom of its container.
	restingBottom = StyleDirective{Position: Absolute, Top: Auto, Bottom: Px(0), State: Bottom}
	pinnedBottom  = StyleDirective{Position: Fixed, Top: Auto, Bottom: Px(0), State: Bottom}
	staticSticky  = StyleDirective{Position: Sticky, Top: Px(0), Bottom: Auto, State: StaticSticky}
)

func flowingAt(top float64) StyleDirective {
	return StyleDirective{Position: Absolute, Top: Px(top), Bottom: Auto, State: Flowing}
}
