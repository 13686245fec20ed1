// Package sticky pins a panel that is taller than the viewport to the top of
// the viewport while scrolling down and to the bottom while scrolling up,
// releasing it to scroll with the page in between.
//
// A Panel is driven by two host signals: resize (Track) and scroll (Update).
// It never renders; every positioning decision is handed to an Applicator as
// a StyleDirective.
package sticky

import (
	"go.uber.org/zap"
)

// Panel is one sticky panel. Panels share nothing; a page with several
// panels constructs one Panel each. A Panel is not safe for concurrent use:
// the host calls it from its event loop.
type Panel struct {
	name    string
	measure Measurer
	applier Applicator
	log     *zap.Logger

	state     AttachState
	directive StyleDirective
	applied   bool
	bounds    *Bounds
	geometry  Geometry
	tracker   Tracker
	disabled  bool

	probe  *Probe
	remove []func()
	stats  Stats
}

// Stats counts what a panel did with the samples it was given.
type Stats struct {
	Samples     uint64
	NoOps       uint64
	Transitions uint64
	Writes      uint64
}

// Option configures a Panel.
type Option func(*Panel)

// WithName labels the panel in logs.
func WithName(name string) Option {
	return func(p *Panel) { p.name = name }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Panel) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPanel returns an unmeasured panel resting at the top of its container.
func NewPanel(m Measurer, a Applicator, opts ...Option) *Panel {
	p := &Panel{
		measure:   m,
		applier:   a,
		log:       zap.NewNop(),
		state:     Top,
		directive: restingTop,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.name != "" {
		p.log = p.log.With(zap.String("panel", p.name))
	}
	p.probe = NewProbe(nil, p.log)
	return p
}

func (p *Panel) Name() string { return p.name }
func (p *Panel) State() AttachState { return p.state }
func (p *Panel) Directive() StyleDirective { return p.directive }
func (p *Panel) Disabled() bool { return p.disabled }
func (p *Panel) Stats() Stats { return p.stats }
func (p *Panel) Probe() *Probe { return p.probe }
func (p *Panel) Geometry() Geometry { return p.geometry }
func (p *Panel) LastOffset() float64 { return p.tracker.Last() }
func (p *Panel) MaxScroll() float64 { return p.tracker.MaxScroll() }

// Direction is the direction of the last offset change. A no-op sample
// leaves it as it was; such samples never reach the state machine.
func (p *Panel) Direction() Direction { return p.tracker.Direction() }

// Bounds returns the cached bounds; ok is false until the first measurement.
func (p *Panel) Bounds() (b Bounds, ok bool) {
	if p.bounds == nil {
		return Bounds{}, false
	}
	return *p.bounds, true
}

// ViewportTop returns the panel's top edge relative to the viewport at offset.
func (p *Panel) ViewportTop(offset float64) float64 {
	return ViewportTop(p.directive, p.geometry, offset)
}

// ContainerProgress derives the container progress signal from the panel's
// current layout, for hosts that do not measure it themselves.
func (p *Panel) ContainerProgress(offset float64) float64 {
	return Progress(p.ViewportTop(offset), p.geometry.PanelHeight, p.geometry.ViewportHeight)
}

// Update feeds one scroll observation to the panel. It is the only path that
// moves the panel between Top, Flowing and Bottom. It reports whether a new
// directive was applied.
func (p *Panel) Update(offset, progress float64) bool {
	if p.bounds == nil || p.disabled {
		return false
	}
	p.stats.Samples++
	sample, dir, ok := p.tracker.Sample(offset, progress)
	if !ok {
		p.stats.NoOps++
		return false
	}
	next, matched := Transition(Input{
		State:     p.state,
		Current:   p.directive,
		Sample:    sample,
		Direction: dir,
		Bounds:    *p.bounds,
		Geometry:  p.geometry,
	})
	if !matched {
		return false
	}
	from := p.state
	if !p.apply(next) {
		return false
	}
	if from != next.State {
		p.stats.Transitions++
		p.log.Debug("transition",
			zap.Stringer("from", from),
			zap.Stringer("to", next.State),
			zap.Stringer("direction", dir),
			zap.Float64("offset", sample.GlobalOffset),
			zap.Float64("progress", sample.ContainerProgress))
	}
	return true
}

// Mount subscribes the panel to the bus and measures it once. Call Unmount
// when the panel goes away; it is safe to defer.
func (p *Panel) Mount(bus *Bus) {
	p.Unmount()
	p.remove = append(p.remove,
		bus.OnResize(p.Track),
		bus.OnScroll(func(offset float64) {
			p.Update(offset, p.ContainerProgress(offset))
		}),
	)
	p.probe.SetOnChange(p.Track)
	p.Track()
	if !p.applied {
		p.apply(p.directive)
	}
}

// Unmount releases every subscription taken by Mount, including the probe's
// forwarding to Track.
func (p *Panel) Unmount() {
	p.probe.SetOnChange(nil)
	for _, remove := range p.remove {
		remove()
	}
	p.remove = nil
}

func (p *Panel) apply(d StyleDirective) bool {
	if p.applied && d == p.directive {
		return false
	}
	p.directive = d
	p.state = d.State
	p.applied = true
	p.stats.Writes++
	if p.applier != nil {
		p.applier.Apply(d)
	}
	return true
}
