package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_OrderedByDepth(t *testing.T) {
	m := NewManager(nil)

	m.Mount("", Mount{InstanceID: "dialog", OwnerID: "page", Depth: 0})
	m.Mount("", Mount{InstanceID: "select", OwnerID: "dialog", Depth: 1})
	m.Mount("", Mount{InstanceID: "tooltip", OwnerID: "select", Depth: 2})

	ordered := m.Ordered("")
	require.Len(t, ordered, 3)
	assert.Equal(t, "dialog", ordered[0].InstanceID)
	assert.Equal(t, "select", ordered[1].InstanceID)
	assert.Equal(t, "tooltip", ordered[2].InstanceID)
}

func TestManager_SetDepthReorders(t *testing.T) {
	m := NewManager(nil)

	m.Mount("", Mount{InstanceID: "a", OwnerID: "x", Depth: 0})
	m.Mount("", Mount{InstanceID: "b", OwnerID: "y", Depth: 1})

	m.SetDepth("a", 5)
	ordered := m.Ordered("")
	assert.Equal(t, "b", ordered[0].InstanceID)
	assert.Equal(t, "a", ordered[1].InstanceID)
}

func TestManager_UnmountKeepsLayer(t *testing.T) {
	m := NewManager(nil)

	m.Mount("", Mount{InstanceID: "only", OwnerID: "x", Depth: 0})
	m.Unmount("only")

	// The layer drains empty but survives for reuse.
	assert.Equal(t, 0, m.MountCount(""))
	assert.True(t, m.HasLayer(DefaultLayer))

	m.Mount("", Mount{InstanceID: "again", OwnerID: "x", Depth: 0})
	assert.Equal(t, 1, m.MountCount(""))
}

func TestManager_RemountMovesInstance(t *testing.T) {
	m := NewManager(nil)

	m.Mount("", Mount{InstanceID: "a", OwnerID: "x", Depth: 0})
	m.Mount("modal", Mount{InstanceID: "a", OwnerID: "x", Depth: 3})

	assert.Equal(t, 0, m.MountCount(""))
	assert.Equal(t, 1, m.MountCount("modal"))
	assert.Equal(t, 3, m.Ordered("modal")[0].Depth)
}

func TestManager_DestroyOwner(t *testing.T) {
	m := NewManager(nil)

	m.Mount("", Mount{InstanceID: "menu", OwnerID: "trigger-1", Depth: 0})
	m.Mount("", Mount{InstanceID: "submenu", OwnerID: "trigger-1", Depth: 1})
	m.Mount("", Mount{InstanceID: "other", OwnerID: "trigger-2", Depth: 2})

	removed := m.DestroyOwner("trigger-1")
	assert.Equal(t, []string{"menu", "submenu"}, removed)
	assert.Equal(t, 1, m.MountCount(""))

	owner, ok := m.Owner("other")
	require.True(t, ok)
	assert.Equal(t, "trigger-2", owner)

	assert.Nil(t, m.DestroyOwner("trigger-1"))
}

func TestManager_UnknownOperationsAreNoOps(t *testing.T) {
	m := NewManager(nil)

	m.Unmount("ghost")
	m.SetDepth("ghost", 4)
	_, ok := m.Owner("ghost")
	assert.False(t, ok)
	assert.Nil(t, m.Ordered("nonexistent"))
}
