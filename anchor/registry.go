// Package anchor tracks the trigger elements overlays position themselves
// against. Widgets register an anchor with a rect callback on mount and
// unregister it on unmount; the engine resolves rects at solve time so
// positions follow the live layout.
package anchor

import (
	"log/slog"
	"sync"

	"github.com/timjonaswechler/ui/geometry"
)

// ID identifies a registered anchor.
type ID string

// RectFunc reports the anchor's current screen-space rectangle.
type RectFunc func() geometry.Rect

// Registry is the set of currently mounted anchors.
type Registry struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	anchors map[ID]RectFunc

	// Called after an anchor is removed, outside the registry lock.
	// The engine uses this to force-close overlays whose anchor died.
	onRemove func(ID)
}

// NewRegistry creates an empty anchor registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:  logger,
		anchors: make(map[ID]RectFunc),
	}
}

// SetRemoveCallback sets the callback invoked when an anchor is
// unregistered.
func (r *Registry) SetRemoveCallback(cb func(ID)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRemove = cb
}

// Register adds or replaces an anchor. A nil rect callback is ignored.
func (r *Registry) Register(id ID, getRect RectFunc) {
	if getRect == nil {
		r.logger.Warn("anchor registered without rect callback", "anchor_id", id)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.anchors[id] = getRect
}

// Unregister removes an anchor. Removing an unknown anchor is a no-op.
func (r *Registry) Unregister(id ID) {
	r.mu.Lock()
	_, exists := r.anchors[id]
	if exists {
		delete(r.anchors, id)
	}
	cb := r.onRemove
	r.mu.Unlock()

	if exists && cb != nil {
		cb(id)
	}
}

// Rect resolves the current rectangle of an anchor.
func (r *Registry) Rect(id ID) (geometry.Rect, bool) {
	r.mu.RLock()
	getRect, exists := r.anchors[id]
	r.mu.RUnlock()

	if !exists {
		return geometry.Rect{}, false
	}
	return getRect(), true
}

// Exists reports whether the anchor is currently registered.
func (r *Registry) Exists(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.anchors[id]
	return exists
}

// Count returns the number of registered anchors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.anchors)
}
