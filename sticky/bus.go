package sticky

// Bus fans the host's scroll and resize events out to mounted panels.
// Handlers run synchronously in registration order, so a resize has been
// fully handled before the next scroll is dispatched. A Bus is used from a
// single goroutine.
type Bus struct {
	nextID int
	scroll []scrollHandler
	resize []resizeHandler
}

type scrollHandler struct {
	id int
	fn func(offset float64)
}

type resizeHandler struct {
	id int
	fn func()
}

// NewBus returns an empty bus.
func NewBus() *Bus { return &Bus{} }

// OnScroll registers fn for scroll events and returns its remover.
func (b *Bus) OnScroll(fn func(offset float64)) (remove func()) {
	b.nextID++
	id := b.nextID
	b.scroll = append(b.scroll, scrollHandler{id: id, fn: fn})
	return func() {
		for i, h := range b.scroll {
			if h.id == id {
				b.scroll = append(b.scroll[:i:i], b.scroll[i+1:]...)
				return
			}
		}
	}
}

// OnResize registers fn for resize events and returns its remover.
func (b *Bus) OnResize(fn func()) (remove func()) {
	b.nextID++
	id := b.nextID
	b.resize = append(b.resize, resizeHandler{id: id, fn: fn})
	return func() {
		for i, h := range b.resize {
			if h.id == id {
				b.resize = append(b.resize[:i:i], b.resize[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of registered handlers.
func (b *Bus) Listeners() int { return len(b.scroll) + len(b.resize) }

// Scroll dispatches a global scroll offset.
func (b *Bus) Scroll(offset float64) {
	for _, h := range b.scroll {
		h.fn(offset)
	}
}

// Resize dispatches a viewport size change.
func (b *Bus) Resize() {
	for _, h := range b.resize {
		h.fn()
	}
}
