// Package focus implements focusable-element discovery and the keyboard
// focus trap for open overlays. Discovery is an explicit tree walk over
// the overlay's content subtree, cached until the subtree mutates.
package focus

import (
	"fmt"
	"sync"
)

// Element is a focus candidate inside an overlay's content subtree.
type Element struct {
	ID       string
	TabIndex int
	Disabled bool
}

// Focusable reports whether the element participates in the tab order.
func (e Element) Focusable() bool {
	return e.TabIndex >= 0 && !e.Disabled
}

type node struct {
	elem     Element
	children []*node
}

// Tree models an overlay's content subtree. The flattened tab-order list
// is computed on demand and cached; any structural mutation invalidates
// the cache.
type Tree struct {
	mu    sync.Mutex
	root  *node
	index map[string]*node

	cache      []Element
	cacheValid bool
}

// NewTree creates a content tree whose root is the overlay container
// itself. The container is not part of the tab order; it is only the
// fallback focus target when the order is empty.
func NewTree(containerID string) *Tree {
	root := &node{elem: Element{ID: containerID, TabIndex: -1}}
	return &Tree{
		root:  root,
		index: map[string]*node{containerID: root},
	}
}

// ContainerID returns the ID of the tree's root container.
func (t *Tree) ContainerID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root.elem.ID
}

// Append adds an element under the given parent. Elements appear in the
// tab order in the order they were appended, depth first, matching
// document order.
func (t *Tree) Append(parentID string, elem Element) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	parent, exists := t.index[parentID]
	if !exists {
		return fmt.Errorf("focus: unknown parent %q", parentID)
	}
	if _, dup := t.index[elem.ID]; dup {
		return fmt.Errorf("focus: duplicate element %q", elem.ID)
	}

	n := &node{elem: elem}
	parent.children = append(parent.children, n)
	t.index[elem.ID] = n
	t.cacheValid = false
	return nil
}

// Remove detaches an element and its descendants. Removing the container
// or an unknown element is a no-op.
func (t *Tree) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id == t.root.elem.ID {
		return
	}
	if _, exists := t.index[id]; !exists {
		return
	}

	t.removeFrom(t.root, id)
	t.cacheValid = false
}

func (t *Tree) removeFrom(parent *node, id string) bool {
	for i, child := range parent.children {
		if child.elem.ID == id {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			t.dropIndex(child)
			return true
		}
		if t.removeFrom(child, id) {
			return true
		}
	}
	return false
}

func (t *Tree) dropIndex(n *node) {
	delete(t.index, n.elem.ID)
	for _, child := range n.children {
		t.dropIndex(child)
	}
}

// SetDisabled toggles an element's disabled flag.
func (t *Tree) SetDisabled(id string, disabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, exists := t.index[id]
	if !exists || n.elem.Disabled == disabled {
		return
	}
	n.elem.Disabled = disabled
	t.cacheValid = false
}

// Focusables returns the focusable elements in document order. The walk
// result is cached until the next mutation.
func (t *Tree) Focusables() []Element {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.cacheValid {
		t.cache = t.cache[:0]
		t.collect(t.root)
		t.cacheValid = true
	}

	out := make([]Element, len(t.cache))
	copy(out, t.cache)
	return out
}

func (t *Tree) collect(n *node) {
	if n != t.root && n.elem.Focusable() {
		t.cache = append(t.cache, n.elem)
	}
	for _, child := range n.children {
		t.collect(child)
	}
}
