// Package portal re-parents overlay content into shared top-level render
// layers. Physical placement (which layer, at which render priority) is
// tracked separately from logical ownership (which trigger the content
// belongs to), so destroying the logical owner always tears down its
// portal-rendered content.
package portal

import (
	"log/slog"
	"sort"
	"sync"
)

// DefaultLayer is the layer used when no layer name is given.
const DefaultLayer = "overlay"

// Mount is one piece of overlay content placed in a layer.
type Mount struct {
	// InstanceID identifies the overlay instance being rendered.
	InstanceID string
	// OwnerID is the logical owner, normally the trigger widget. Event
	// routing and cleanup follow this, not the render placement.
	OwnerID string
	// Depth is the instance's position in the overlay stack. Deeper
	// entries render later and therefore above their parents.
	Depth int
	// Content is the opaque render payload supplied by the widget.
	Content any
}

type layer struct {
	name   string
	mounts map[string]*Mount // keyed by instance ID
}

// Manager owns the overlay layers. Layers are created on first use and
// kept when they drain empty, ready for reuse.
type Manager struct {
	mu     sync.RWMutex
	logger *slog.Logger
	layers map[string]*layer
	// owner ID -> instance IDs, for logical teardown
	owned map[string]map[string]string // owner -> instance -> layer name
}

// NewManager creates a portal manager with the default layer prepared.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		logger: logger,
		layers: make(map[string]*layer),
		owned:  make(map[string]map[string]string),
	}
	m.layers[DefaultLayer] = &layer{name: DefaultLayer, mounts: make(map[string]*Mount)}
	return m
}

// Mount places content in the named layer (empty name means the default
// layer). Re-mounting an instance replaces its previous mount.
func (m *Manager) Mount(layerName string, mnt Mount) {
	if layerName == "" {
		layerName = DefaultLayer
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	l, exists := m.layers[layerName]
	if !exists {
		l = &layer{name: layerName, mounts: make(map[string]*Mount)}
		m.layers[layerName] = l
	}

	// An instance lives in at most one layer.
	m.unmountLocked(mnt.InstanceID)

	stored := mnt
	l.mounts[mnt.InstanceID] = &stored

	byOwner := m.owned[mnt.OwnerID]
	if byOwner == nil {
		byOwner = make(map[string]string)
		m.owned[mnt.OwnerID] = byOwner
	}
	byOwner[mnt.InstanceID] = layerName

	m.logger.Debug("mounted overlay content",
		"instance_id", mnt.InstanceID,
		"owner_id", mnt.OwnerID,
		"layer", layerName,
		"depth", mnt.Depth,
	)
}

// Unmount removes an instance's content from its layer. The layer itself
// is kept even when it drains empty. Unknown instances are a no-op.
func (m *Manager) Unmount(instanceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unmountLocked(instanceID)
}

func (m *Manager) unmountLocked(instanceID string) {
	for _, l := range m.layers {
		mnt, exists := l.mounts[instanceID]
		if !exists {
			continue
		}
		delete(l.mounts, instanceID)

		if byOwner := m.owned[mnt.OwnerID]; byOwner != nil {
			delete(byOwner, instanceID)
			if len(byOwner) == 0 {
				delete(m.owned, mnt.OwnerID)
			}
		}

		m.logger.Debug("unmounted overlay content",
			"instance_id", instanceID,
			"layer", l.name,
		)
		return
	}
}

// SetDepth updates an instance's render priority after stack changes.
func (m *Manager) SetDepth(instanceID string, depth int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, l := range m.layers {
		if mnt, exists := l.mounts[instanceID]; exists {
			mnt.Depth = depth
			return
		}
	}
}

// DestroyOwner removes every mount logically owned by the given owner and
// returns the affected instance IDs. This is the cleanup path for a
// trigger being unmounted while its content is portal-rendered elsewhere.
func (m *Manager) DestroyOwner(ownerID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	byOwner := m.owned[ownerID]
	if len(byOwner) == 0 {
		return nil
	}

	instances := make([]string, 0, len(byOwner))
	for instanceID := range byOwner {
		instances = append(instances, instanceID)
	}
	sort.Strings(instances)

	for _, instanceID := range instances {
		m.unmountLocked(instanceID)
	}
	return instances
}

// Ordered returns the named layer's mounts in render order: ascending
// depth, so deeper stack entries draw above their parents.
func (m *Manager) Ordered(layerName string) []Mount {
	if layerName == "" {
		layerName = DefaultLayer
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	l, exists := m.layers[layerName]
	if !exists {
		return nil
	}

	out := make([]Mount, 0, len(l.mounts))
	for _, mnt := range l.mounts {
		out = append(out, *mnt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].InstanceID < out[j].InstanceID
	})
	return out
}

// Owner returns the logical owner of a mounted instance.
func (m *Manager) Owner(instanceID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, l := range m.layers {
		if mnt, exists := l.mounts[instanceID]; exists {
			return mnt.OwnerID, true
		}
	}
	return "", false
}

// MountCount returns the number of mounts in the named layer.
func (m *Manager) MountCount(layerName string) int {
	if layerName == "" {
		layerName = DefaultLayer
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	l, exists := m.layers[layerName]
	if !exists {
		return 0
	}
	return len(l.mounts)
}

// HasLayer reports whether the named layer exists. Layers persist after
// draining empty.
func (m *Manager) HasLayer(layerName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.layers[layerName]
	return exists
}
