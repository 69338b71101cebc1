package focus

import (
	"github.com/timjonaswechler/ui/anchor"
)

// Trap is the cyclic tab order confined to one open overlay. Its lifetime
// is bounded to a single Open period: it is built when the overlay enters
// Open and discarded when the overlay closes.
type Trap struct {
	elements    []Element
	containerID string
	activeIndex int // -1 when the order is empty
	returnTo    anchor.ID
}

// NewTrap builds a trap from the overlay's content tree. The initially
// active element is the first focusable one; with none, the overlay
// container itself is the fallback focus target.
func NewTrap(tree *Tree, returnTo anchor.ID) *Trap {
	elements := tree.Focusables()
	active := -1
	if len(elements) > 0 {
		active = 0
	}
	return &Trap{
		elements:    elements,
		containerID: tree.ContainerID(),
		activeIndex: active,
		returnTo:    returnTo,
	}
}

// Active returns the currently focused element. With an empty order it
// returns the overlay container and ok=false so callers can style the
// fallback differently.
func (t *Trap) Active() (id string, ok bool) {
	if t.activeIndex < 0 {
		return t.containerID, false
	}
	return t.elements[t.activeIndex].ID, true
}

// Next advances focus, wrapping from the last element to the first.
func (t *Trap) Next() {
	if len(t.elements) == 0 {
		return
	}
	t.activeIndex = (t.activeIndex + 1) % len(t.elements)
}

// Prev retreats focus, wrapping from the first element to the last.
func (t *Trap) Prev() {
	if len(t.elements) == 0 {
		return
	}
	t.activeIndex = (t.activeIndex - 1 + len(t.elements)) % len(t.elements)
}

// Len returns the number of elements in the tab order.
func (t *Trap) Len() int {
	return len(t.elements)
}

// ReturnTarget returns the anchor that receives focus when the overlay
// closes.
func (t *Trap) ReturnTarget() anchor.ID {
	return t.returnTo
}
