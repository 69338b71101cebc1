// Package dismiss closes overlays on outside pointer-down events. One
// global listener serves every open overlay; it is attached only while
// the overlay stack is non-empty and detached again when it drains.
package dismiss

import (
	"log/slog"

	"github.com/timjonaswechler/ui/event"
	"github.com/timjonaswechler/ui/geometry"
)

// PointerEvent is a pointer-down dispatch. Generation increases by one
// per dispatch; an overlay opened during generation N never treats the
// same event N as an outside click.
type PointerEvent struct {
	Point      geometry.Point
	Generation uint64
}

// Target is one open overlay as seen by the dismissal controller.
type Target interface {
	// Bounds returns the rendered rectangle; ok is false while the
	// overlay has not been positioned yet.
	Bounds() (r geometry.Rect, ok bool)
	// CloseOnOutsideClick reports the per-overlay configuration.
	CloseOnOutsideClick() bool
	// OpenedGeneration returns the pointer generation during which the
	// overlay entered Open.
	OpenedGeneration() uint64
	// RequestClose asks the engine to close this overlay. Dismissal is a
	// direct user action, so the close bypasses the close delay.
	RequestClose()
}

// Source supplies the current overlay stack, bottom first.
type Source interface {
	Targets() []Target
}

// Controller is the global outside-click listener.
type Controller struct {
	logger *slog.Logger
	source Source
	unsub  event.Unsubscribe
}

// NewController creates a detached controller reading targets from the
// given source.
func NewController(source Source, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{logger: logger, source: source}
}

// Attach subscribes the controller to the pointer bus. Attaching twice
// is a no-op; the engine calls this when the first overlay opens.
func (c *Controller) Attach(bus *event.Bus[PointerEvent]) {
	if c.unsub != nil {
		return
	}
	c.unsub = bus.Subscribe(c.handle)
	c.logger.Debug("dismissal listener attached")
}

// Detach removes the controller from the pointer bus. The engine calls
// this when the last overlay closes.
func (c *Controller) Detach() {
	if c.unsub == nil {
		return
	}
	c.unsub()
	c.unsub = nil
	c.logger.Debug("dismissal listener detached")
}

// Attached reports whether the global listener is currently registered.
func (c *Controller) Attached() bool {
	return c.unsub != nil
}

// handle processes one pointer-down dispatch. Instances are tested from
// the top of the stack down: a click counts as inside an overlay when it
// lands within that overlay's bounds or within any overlay nested above
// it, so dismissing a child never dismisses the parent under the cursor.
func (c *Controller) handle(ev PointerEvent) {
	targets := c.source.Targets()

	for i := len(targets) - 1; i >= 0; i-- {
		t := targets[i]
		if !t.CloseOnOutsideClick() {
			continue
		}
		// The event that opened this overlay is not an outside click.
		if t.OpenedGeneration() == ev.Generation {
			continue
		}
		if containsFrom(targets, i, ev.Point) {
			continue
		}
		t.RequestClose()
	}
}

// containsFrom reports whether the point lies inside the target at index
// i or any target stacked above it.
func containsFrom(targets []Target, i int, p geometry.Point) bool {
	for j := i; j < len(targets); j++ {
		if r, ok := targets[j].Bounds(); ok && r.Contains(p) {
			return true
		}
	}
	return false
}
