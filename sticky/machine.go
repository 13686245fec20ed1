package sticky

// Input is everything one evaluation of the state machine reads.
type Input struct {
	State     AttachState
	Current   StyleDirective
	Sample    ScrollSample
	Direction Direction
	Bounds    Bounds
	Geometry  Geometry
}

// Transition evaluates the transition rules in precedence order and returns
// the directive of the first rule that matches. matched is false when no
// rule applies and the panel should stay as it is.
//
// The bound checks come first since they are the container's edges. Inside
// the bounds, a panel pinned to the edge it is moving away from is released
// into Flowing. Any other panel is pinned to the opposite edge once its own
// content has fully scrolled past in that direction. A panel resting at the
// edge it is leaving, and not yet fully scrolled past, starts flowing.
func Transition(in Input) (next StyleDirective, matched bool) {
	if in.State == StaticSticky {
		return in.Current, false
	}
	v := in.Sample.GlobalOffset
	b := in.Bounds

	if v >= b.BottomMax {
		return restingBottom, true
	}
	if v <= b.TopMax {
		return restingTop, true
	}

	switch in.Direction {
	case Up:
		if pinned(in, Bottom) {
			return flowingAt(v + ViewportTop(in.Current, in.Geometry, v) - b.TopMax), true
		}
		if !pinned(in, Top) && in.Sample.ContainerProgress >= 1 {
			return pinnedTop, true
		}
		if in.State == Bottom {
			return flowingAt(v + ViewportTop(in.Current, in.Geometry, v) - b.TopMax), true
		}
	case Down:
		if pinned(in, Top) {
			return flowingAt(v + ViewportTop(in.Current, in.Geometry, v) - b.TopMax), true
		}
		if !pinned(in, Bottom) && in.Sample.ContainerProgress <= 0 {
			return pinnedBottom, true
		}
		if in.State == Top {
			return flowingAt(v + ViewportTop(in.Current, in.Geometry, v) - b.TopMax), true
		}
	}
	return in.Current, false
}

// pinned reports whether the panel is fixed to the viewport at edge s, as
// opposed to resting at that edge of its container.
func pinned(in Input, s AttachState) bool {
	return in.State == s && in.Current.Position == Fixed
}
