package sticky

import "go.uber.org/zap"

// Probe watches a panel's rendered height. It only reports changes; the
// re-layout itself is done by whoever it forwards to.
type Probe struct {
	last     float64
	onChange func()
	log      *zap.Logger
}

// NewProbe returns a probe forwarding height changes to onChange.
func NewProbe(onChange func(), log *zap.Logger) *Probe {
	if log == nil {
		log = zap.NewNop()
	}
	return &Probe{onChange: onChange, log: log}
}

// SetOnChange replaces the forwarding target. nil stops forwarding.
func (p *Probe) SetOnChange(fn func()) { p.onChange = fn }

// Height returns the last observed height.
func (p *Probe) Height() float64 { return p.last }

// Observe records a measured height and reports whether it changed.
// Heights <= 0 mean nothing is rendered yet and are ignored.
func (p *Probe) Observe(height float64) bool {
	if height <= 0 || height == p.last {
		return false
	}
	prev := p.last
	p.last = height
	p.log.Info("height changed",
		zap.Float64("from", prev),
		zap.Float64("height", height))
	if p.onChange != nil {
		p.onChange()
	}
	return true
}
