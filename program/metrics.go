package main

import (
	"time"

	"github.com/keilerkonzept/sticky-sidebar-tui-demo/sticky"
)

type durationRing struct {
	buf   []time.Duration
	idx   int
	count int
}

func newDurationRing(n int) *durationRing {
	if n < 1 {
		n = 1
	}
	return &durationRing{buf: make([]time.Duration, n)}
}

func (r *durationRing) add(d time.Duration) {
	r.buf[r.idx] = d
	r.idx = (r.idx + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

type durationStats struct {
	last time.Duration
	max  time.Duration
	avg  time.Duration
	n    int
}

func (r *durationRing) snapshot() durationStats {
	if r.count == 0 {
		return durationStats{}
	}
	var sum, longest time.Duration
	for _, d := range r.buf[:r.count] {
		sum += d
		longest = max(longest, d)
	}
	lastIdx := r.idx - 1
	if lastIdx < 0 {
		lastIdx = len(r.buf) - 1
	}
	return durationStats{
		last: r.buf[lastIdx],
		max:  longest,
		avg:  sum / time.Duration(r.count),
		n:    r.count,
	}
}

// scrollMetrics measures how long the panels take to handle one scroll or
// resize dispatch. Everything runs on the Bubble Tea update loop.
type scrollMetrics struct {
	enabled bool

	scrolls    uint64
	resizes    uint64
	evalScroll *durationRing
	evalResize *durationRing
}

func newScrollMetrics(window int, enabled bool) *scrollMetrics {
	return &scrollMetrics{
		enabled:    enabled,
		evalScroll: newDurationRing(window),
		evalResize: newDurationRing(window),
	}
}

func (m *scrollMetrics) observeScroll(d time.Duration) {
	if !m.enabled {
		return
	}
	m.scrolls++
	m.evalScroll.add(d)
}

func (m *scrollMetrics) observeResize(d time.Duration) {
	if !m.enabled {
		return
	}
	m.resizes++
	m.evalResize.add(d)
}

type metricsSnapshot struct {
	scrolls       uint64
	resizes       uint64
	scrollLatency durationStats
	resizeLatency durationStats
	panels        sticky.Stats
}

// snapshot sums the per-panel counters into the dispatch statistics.
func (m *scrollMetrics) snapshot(panels []*panelView) metricsSnapshot {
	if !m.enabled {
		return metricsSnapshot{}
	}
	s := metricsSnapshot{
		scrolls:       m.scrolls,
		resizes:       m.resizes,
		scrollLatency: m.evalScroll.snapshot(),
		resizeLatency: m.evalResize.snapshot(),
	}
	for _, p := range panels {
		ps := p.panel.Stats()
		s.panels.Samples += ps.Samples
		s.panels.NoOps += ps.NoOps
		s.panels.Transitions += ps.Transitions
		s.panels.Writes += ps.Writes
	}
	return s
}
