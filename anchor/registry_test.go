package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timjonaswechler/ui/geometry"
)

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry(nil)

	rect := geometry.Rect{X: 10, Y: 20, W: 30, H: 40}
	r.Register("button", func() geometry.Rect { return rect })

	got, ok := r.Rect("button")
	require.True(t, ok)
	assert.Equal(t, rect, got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_RectFollowsLayout(t *testing.T) {
	r := NewRegistry(nil)

	rect := geometry.Rect{X: 10, Y: 20, W: 30, H: 40}
	r.Register("button", func() geometry.Rect { return rect })

	// The callback resolves lazily, so layout changes are visible.
	rect.X = 500
	got, ok := r.Rect("button")
	require.True(t, ok)
	assert.Equal(t, 500.0, got.X)
}

func TestRegistry_UnknownAnchor(t *testing.T) {
	r := NewRegistry(nil)

	_, ok := r.Rect("missing")
	assert.False(t, ok)
	assert.False(t, r.Exists("missing"))

	// Unregistering an unknown anchor is a no-op.
	r.Unregister("missing")
}

func TestRegistry_NilRectCallbackIgnored(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("broken", nil)
	assert.False(t, r.Exists("broken"))
}

func TestRegistry_RemoveCallback(t *testing.T) {
	r := NewRegistry(nil)

	var removed []ID
	r.SetRemoveCallback(func(id ID) { removed = append(removed, id) })

	r.Register("a", func() geometry.Rect { return geometry.Rect{} })
	r.Unregister("a")
	r.Unregister("a") // second removal must not fire again

	assert.Equal(t, []ID{"a"}, removed)
	assert.Equal(t, 0, r.Count())
}
