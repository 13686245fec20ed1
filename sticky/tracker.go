package sticky

// Tracker turns raw scroll signals into samples with a direction.
// The zero value is ready to use but emits nothing until SetMaxScroll
// is called with a positive range.
type Tracker struct {
	maxScroll float64
	last      float64
	direction Direction
}

// SetMaxScroll sets the document scroll range used for clamping.
func (t *Tracker) SetMaxScroll(v float64) { t.maxScroll = max(0, v) }

// MaxScroll returns the current clamping range.
func (t *Tracker) MaxScroll() float64 { return t.maxScroll }

// Last returns the last recorded offset.
func (t *Tracker) Last() float64 { return t.last }

// Direction returns the direction of the last recorded movement. Sample
// returns Unset for a no-op but does not clear it.
func (t *Tracker) Direction() Direction { return t.direction }

// Sample clamps offset into [0, MaxScroll] and records it.
// ok is false when nothing moved, in which case no state is touched.
func (t *Tracker) Sample(offset, progress float64) (s ScrollSample, dir Direction, ok bool) {
	if t.maxScroll <= 0 {
		return ScrollSample{}, Unset, false
	}
	v := max(0, min(offset, t.maxScroll))
	if v == t.last {
		return ScrollSample{}, Unset, false
	}
	if v < t.last {
		t.direction = Up
	} else {
		t.direction = Down
	}
	t.last = v
	return ScrollSample{GlobalOffset: v, ContainerProgress: progress}, t.direction, true
}
