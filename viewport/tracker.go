// Package viewport tracks the visible bounds and scroll offsets the
// positioning solver resolves against.
package viewport

import (
	"sync"

	"github.com/timjonaswechler/ui/geometry"
)

// Tracker holds the current viewport state. Changing bounds or scroll
// fires a change callback so the engine can reposition open overlays
// within the same tick.
type Tracker struct {
	mu      sync.RWMutex
	bounds  geometry.Rect
	scrollX float64
	scrollY float64

	onChange func()
}

// NewTracker creates a tracker with the given initial bounds.
func NewTracker(bounds geometry.Rect) *Tracker {
	return &Tracker{bounds: bounds}
}

// SetChangeCallback sets the callback invoked synchronously after every
// bounds or scroll change.
func (t *Tracker) SetChangeCallback(cb func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = cb
}

// Bounds returns the current visible rectangle.
func (t *Tracker) Bounds() geometry.Rect {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bounds
}

// Scroll returns the current scroll offsets.
func (t *Tracker) Scroll() (x, y float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrollX, t.scrollY
}

// SetBounds updates the visible rectangle, e.g. on window resize.
func (t *Tracker) SetBounds(bounds geometry.Rect) {
	t.mu.Lock()
	changed := bounds != t.bounds
	t.bounds = bounds
	cb := t.onChange
	t.mu.Unlock()

	if changed && cb != nil {
		cb()
	}
}

// SetScroll updates the scroll offsets.
func (t *Tracker) SetScroll(x, y float64) {
	t.mu.Lock()
	changed := x != t.scrollX || y != t.scrollY
	t.scrollX = x
	t.scrollY = y
	cb := t.onChange
	t.mu.Unlock()

	if changed && cb != nil {
		cb()
	}
}
