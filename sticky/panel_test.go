package sticky

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakePage struct {
	g       Geometry
	mounted bool
}

func (f *fakePage) Measure() (Geometry, bool) { return f.g, f.mounted }

type recorder struct {
	got []StyleDirective
}

func (r *recorder) Apply(d StyleDirective) { r.got = append(r.got, d) }

// tallGeometry gives topMax=100, bottomMax=500 and maxScroll=800.
func tallGeometry() Geometry {
	return Geometry{
		ViewportHeight:  400,
		DocumentHeight:  1200,
		ContainerTop:    100,
		ContainerHeight: 800,
		PanelHeight:     600,
	}
}

func mountPanel(t *testing.T, g Geometry) (*Panel, *fakePage, *recorder, *Bus) {
	t.Helper()
	page := &fakePage{g: g, mounted: true}
	rec := &recorder{}
	bus := NewBus()
	p := NewPanel(page, rec, WithName("left"), WithLogger(zaptest.NewLogger(t)))
	p.Mount(bus)
	t.Cleanup(p.Unmount)
	return p, page, rec, bus
}

func TestPanel_MountMeasures(t *testing.T) {
	p, _, rec, _ := mountPanel(t, tallGeometry())

	b, ok := p.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{TopMax: 100, BottomMax: 500}, b)
	assert.Equal(t, 800.0, p.MaxScroll())
	assert.Equal(t, Top, p.State())
	assert.False(t, p.Disabled())
	require.Equal(t, []StyleDirective{restingTop}, rec.got)
}

func TestPanel_ScrollDownScenario(t *testing.T) {
	p, _, rec, _ := mountPanel(t, tallGeometry())

	steps := []struct {
		offset, progress float64
	}{
		{0, 1},
		{100, 1},
		{300, 0.5},
		{500, 1},
		{700, 1},
	}
	var states []AttachState
	for _, s := range steps {
		p.Update(s.offset, s.progress)
		states = append(states, p.State())
		if s.offset > 0 {
			assert.Equal(t, Down, p.Direction())
		}
	}

	want := []AttachState{Top, Top, Flowing, Bottom, Bottom}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]StyleDirective{restingTop, flowingAt(0), restingBottom}, rec.got); diff != "" {
		t.Fatalf("directives mismatch (-want +got):\n%s", diff)
	}
}

func TestPanel_RoundTrip(t *testing.T) {
	p, _, rec, _ := mountPanel(t, tallGeometry())

	for _, s := range []struct{ offset, progress float64 }{
		{300, 0.5}, // top -> flowing at 0
		{700, 1},   // resting bottom
	} {
		p.Update(s.offset, s.progress)
	}
	rec.got = nil

	steps := []struct {
		name             string
		offset, progress float64
		want             StyleDirective
	}{
		{"leave container bottom", 450, 0.2, flowingAt(200)},
		{"flow while content remains", 300, 0.6, flowingAt(200)},
		{"pin top once fully scrolled", 250, 1, pinnedTop},
		{"release top pin", 260, 0.9, flowingAt(160)},
		{"pin bottom once fully scrolled", 400, 0, pinnedBottom},
		{"release bottom pin", 350, 0, flowingAt(50)},
	}
	for _, s := range steps {
		p.Update(s.offset, s.progress)
		require.Equal(t, s.want, p.Directive(), s.name)
		require.Equal(t, s.want.State, p.State(), s.name)
	}
	// "flow while content remains" did not write.
	assert.Len(t, rec.got, len(steps)-1)
}

func TestPanel_ConvergesAtBounds(t *testing.T) {
	p, _, _, bus := mountPanel(t, tallGeometry())
	b, _ := p.Bounds()

	check := func(v float64) {
		t.Helper()
		bus.Scroll(v)
		switch {
		case v >= b.BottomMax:
			require.Equal(t, Bottom, p.State(), "offset %v", v)
		case v <= b.TopMax:
			require.Equal(t, Top, p.State(), "offset %v", v)
		}
	}
	for v := 0.0; v <= 800; v += 10 {
		check(v)
	}
	for v := 800.0; v >= 0; v -= 10 {
		check(v)
	}
}

func TestPanel_ContinuousScrollPinsInTransit(t *testing.T) {
	p, _, _, bus := mountPanel(t, tallGeometry())

	for v := 10.0; v <= 300; v += 10 {
		bus.Scroll(v)
	}
	// The panel's end reached the viewport's end at 300.
	assert.Equal(t, pinnedBottom, p.Directive())
	assert.Equal(t, 400.0, p.ViewportTop(300)+p.Geometry().PanelHeight)

	bus.Scroll(290)
	require.Equal(t, flowingAt(-10), p.Directive())
	// Released exactly where the pin held it.
	assert.Equal(t, -200.0, p.ViewportTop(290))

	bus.Scroll(280)
	assert.Equal(t, Flowing, p.State())
}

func TestPanel_JumpFromRestingTopPinsBottom(t *testing.T) {
	p, _, rec, bus := mountPanel(t, tallGeometry())

	bus.Scroll(450)
	assert.Equal(t, pinnedBottom, p.Directive())
	assert.Equal(t, Bottom, p.State())
	// The panel's end is on the viewport's end, no gap below it.
	assert.Equal(t, 400.0, p.ViewportTop(450)+p.Geometry().PanelHeight)
	assert.Equal(t, []StyleDirective{restingTop, pinnedBottom}, rec.got)
}

func TestPanel_JumpFromRestingBottomPinsTop(t *testing.T) {
	p, _, rec, bus := mountPanel(t, tallGeometry())

	bus.Scroll(800)
	require.Equal(t, restingBottom, p.Directive())
	bus.Scroll(150)
	assert.Equal(t, pinnedTop, p.Directive())
	assert.Equal(t, Top, p.State())
	assert.Equal(t, 0.0, p.ViewportTop(150))
	assert.Equal(t, []StyleDirective{restingTop, restingBottom, pinnedTop}, rec.got)
}

func TestPanel_DirectionSurvivesNoOp(t *testing.T) {
	p, _, _, _ := mountPanel(t, tallGeometry())

	require.True(t, p.Update(300, 0.5))
	require.Equal(t, Down, p.Direction())
	require.False(t, p.Update(300, 0.5))
	assert.Equal(t, Down, p.Direction(), "last movement, not the no-op")
}

func TestPanel_DuplicateSampleIsNoOp(t *testing.T) {
	p, _, rec, _ := mountPanel(t, tallGeometry())

	require.True(t, p.Update(300, 0.5))
	writes := len(rec.got)
	require.False(t, p.Update(300, 0.5))
	require.False(t, p.Update(300, 0))

	assert.Len(t, rec.got, writes)
	assert.Equal(t, uint64(2), p.Stats().NoOps)
}

func TestPanel_ClampsOffset(t *testing.T) {
	a, _, _, _ := mountPanel(t, tallGeometry())
	b, _, _, _ := mountPanel(t, tallGeometry())

	a.Update(a.MaxScroll(), 1)
	b.Update(b.MaxScroll()+1000, 1)

	assert.Equal(t, a.Directive(), b.Directive())
	assert.Equal(t, a.LastOffset(), b.LastOffset())
	assert.Equal(t, 800.0, b.LastOffset())
	// Already clamped to the same value.
	assert.False(t, b.Update(a.MaxScroll()+5, 1))

	b.Update(-50, 1)
	assert.Equal(t, 0.0, b.LastOffset())
	assert.Equal(t, Up, b.Direction())
}

func TestPanel_ResizeWhilePinnedBottom(t *testing.T) {
	p, page, _, bus := mountPanel(t, tallGeometry())
	p.Update(300, 0.5)
	p.Update(400, 0)
	require.Equal(t, pinnedBottom, p.Directive())

	page.g.ViewportHeight = 300
	bus.Resize()

	assert.Equal(t, Bottom, p.State())
	assert.Equal(t, StyleDirective{Position: Fixed, Top: Px(-300), Bottom: Px(0), State: Bottom}, p.Directive())
	assert.Equal(t, page.g.ViewportHeight, p.ViewportTop(400)+page.g.PanelHeight)
	b, _ := p.Bounds()
	assert.Equal(t, Bounds{TopMax: 100, BottomMax: 600}, b)
}

func TestPanel_ShortPanelIsStaticSticky(t *testing.T) {
	g := Geometry{
		ViewportHeight:  800,
		DocumentHeight:  3000,
		ContainerTop:    100,
		ContainerHeight: 2000,
		PanelHeight:     200,
	}
	p, _, rec, _ := mountPanel(t, g)

	require.True(t, p.Disabled())
	require.Equal(t, StaticSticky, p.State())
	for _, v := range []float64{0, 100, 900, 1300, 2200, 10, 5000} {
		assert.False(t, p.Update(v, 0.5))
		assert.Equal(t, StaticSticky, p.State())
	}
	assert.Equal(t, []StyleDirective{staticSticky}, rec.got)
	assert.Equal(t, uint64(0), p.Stats().Samples)
}

func TestPanel_DegenerateBoundsDisable(t *testing.T) {
	g := tallGeometry()
	g.ContainerHeight = 300 // shorter than the viewport
	p, _, _, _ := mountPanel(t, g)

	b, ok := p.Bounds()
	require.True(t, ok)
	assert.True(t, b.Degenerate())
	assert.True(t, p.Disabled())
	assert.Equal(t, StaticSticky, p.State())
}

func TestPanel_GrowingPanelReenablesPinning(t *testing.T) {
	g := tallGeometry()
	g.PanelHeight = 200
	p, page, _, _ := mountPanel(t, g)
	require.True(t, p.Disabled())

	page.g.PanelHeight = 600
	require.True(t, p.Probe().Observe(600))

	assert.False(t, p.Disabled())
	assert.Equal(t, pinnedTop, p.Directive())
	assert.True(t, p.Update(300, 0.5))
	assert.Equal(t, flowingAt(200), p.Directive())
}

func TestPanel_TrackIsIdempotent(t *testing.T) {
	p, _, rec, bus := mountPanel(t, tallGeometry())
	p.Update(300, 0.5)
	p.Update(400, 0)
	bus.Resize()
	writes := len(rec.got)
	before, _ := p.Bounds()

	bus.Resize()
	bus.Resize()

	after, _ := p.Bounds()
	assert.Equal(t, before, after)
	assert.Len(t, rec.got, writes)
	assert.Equal(t, Bottom, p.State())
}

func TestPanel_UnmountedTargetIsSkipped(t *testing.T) {
	page := &fakePage{g: tallGeometry()}
	rec := &recorder{}
	bus := NewBus()
	p := NewPanel(page, rec)
	p.Mount(bus)
	defer p.Unmount()

	_, ok := p.Bounds()
	assert.False(t, ok)
	assert.False(t, p.Update(300, 0.5))
	bus.Scroll(450)
	assert.Equal(t, Top, p.State())
	assert.Equal(t, 0.0, p.LastOffset())

	page.mounted = true
	bus.Resize()
	_, ok = p.Bounds()
	assert.True(t, ok)
	assert.True(t, p.Update(300, 0.5))
}

func TestPanel_NilMeasurer(t *testing.T) {
	p := NewPanel(nil, nil)
	p.Track()
	_, ok := p.Bounds()
	assert.False(t, ok)
	assert.False(t, p.Update(10, 0))
}

func TestPanel_UnmountReleasesListeners(t *testing.T) {
	page := &fakePage{g: tallGeometry(), mounted: true}
	bus := NewBus()
	p := NewPanel(page, nil)
	p.Mount(bus)
	require.Equal(t, 2, bus.Listeners())

	p.Unmount()
	p.Unmount()
	assert.Equal(t, 0, bus.Listeners())

	bus.Scroll(300)
	assert.Equal(t, Top, p.State())
	page.g.PanelHeight = 100
	p.Probe().Observe(100)
	assert.False(t, p.Disabled())
}

func TestPanel_RemountDoesNotLeak(t *testing.T) {
	page := &fakePage{g: tallGeometry(), mounted: true}
	bus := NewBus()
	p := NewPanel(page, nil)
	p.Mount(bus)
	p.Mount(bus)
	defer p.Unmount()
	assert.Equal(t, 2, bus.Listeners())
}

func TestPanels_AreIndependent(t *testing.T) {
	bus := NewBus()
	tall := NewPanel(&fakePage{g: tallGeometry(), mounted: true}, nil, WithName("tall"))
	short := NewPanel(&fakePage{g: Geometry{
		ViewportHeight:  400,
		DocumentHeight:  1200,
		ContainerTop:    100,
		ContainerHeight: 800,
		PanelHeight:     150,
	}, mounted: true}, nil, WithName("short"))
	tall.Mount(bus)
	short.Mount(bus)
	defer tall.Unmount()
	defer short.Unmount()

	bus.Scroll(700)
	assert.Equal(t, Bottom, tall.State())
	assert.Equal(t, StaticSticky, short.State())
	assert.Equal(t, 700.0, tall.LastOffset())
	assert.Equal(t, 0.0, short.LastOffset())
}
