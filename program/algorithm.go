package main

import (
	"sort"
	"time"

	"github.com/keilerkonzept/topk/heap"
	"github.com/keilerkonzept/topk/sliding"
)

// transitionLog counts panel transitions ("sidebar: top→flowing") over a
// sliding window of ticks, so the side pane shows which hand-offs are hot
// right now rather than since startup.
type transitionLog struct {
	sketch *sliding.Sketch
	ranker *transitionRanker
}

func newTransitionLog(k int, window, tick time.Duration, fullRefresh time.Duration) *transitionLog {
	return &transitionLog{
		sketch: sliding.New(k, int(window/tick),
			sliding.WithWidth(1024),
			sliding.WithDepth(3),
		),
		ranker: newTransitionRanker(k, fullRefresh),
	}
}

func (l *transitionLog) record(panel string, from, to string) {
	l.sketch.Incr(panel + ": " + from + "→" + to)
}

// tick advances the window by one bucket.
func (l *transitionLog) tick() { l.sketch.Ticks(1) }

func (l *transitionLog) top(now time.Time) []heap.Item {
	items, _ := l.ranker.refresh(now, l.sketch.SortedSlice, func(items []heap.Item) {
		for i := range items {
			items[i].Count = l.sketch.Count(items[i].Item)
		}
	})
	return items
}

// transitionRanker re-reads the full top-K only every fullRefresh and in
// between just refreshes the counts of the entries it already has.
type transitionRanker struct {
	k           int
	fullRefresh time.Duration

	lastFull time.Time
	items    []heap.Item
}

func newTransitionRanker(k int, fullRefresh time.Duration) *transitionRanker {
	return &transitionRanker{k: max(1, k), fullRefresh: max(0, fullRefresh)}
}

func (r *transitionRanker) refresh(now time.Time, sortedFn func() []heap.Item, countFn func([]heap.Item)) (items []heap.Item, didFull bool) {
	if len(r.items) == 0 || r.fullRefresh == 0 || now.Sub(r.lastFull) >= r.fullRefresh {
		r.items = sortedFn()
		if len(r.items) > r.k {
			r.items = r.items[:r.k]
		}
		r.lastFull = now
		return cloneItems(r.items), true
	}

	countFn(r.items)
	sort.SliceStable(r.items, func(i, j int) bool {
		if r.items[i].Count != r.items[j].Count {
			return r.items[i].Count > r.items[j].Count
		}
		return r.items[i].Item < r.items[j].Item
	})
	return cloneItems(r.items), false
}

func cloneItems(in []heap.Item) []heap.Item {
	out := make([]heap.Item, len(in))
	copy(out, in)
	return out
}
