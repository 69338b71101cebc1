package position

import (
	"fmt"
	"strings"

	"github.com/timjonaswechler/ui/geometry"
)

// Side is the edge of the anchor an overlay prefers to open on.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// String returns the string representation of Side.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Opposite returns the flipped side (top<->bottom, left<->right).
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideBottom:
		return SideTop
	case SideLeft:
		return SideRight
	default:
		return SideLeft
	}
}

// Vertical reports whether the side lies on the vertical axis, i.e. the
// overlay opens above or below the anchor.
func (s Side) Vertical() bool {
	return s == SideTop || s == SideBottom
}

// Valid reports whether s is a known side value.
func (s Side) Valid() bool {
	return s >= SideTop && s <= SideLeft
}

// ParseSide converts a config string to a Side.
func ParseSide(v string) (Side, error) {
	switch strings.ToLower(v) {
	case "top":
		return SideTop, nil
	case "right":
		return SideRight, nil
	case "bottom":
		return SideBottom, nil
	case "left":
		return SideLeft, nil
	default:
		return 0, fmt.Errorf("unknown side %q", v)
	}
}

// Align is the overlay's alignment along the anchor's secondary axis.
type Align int

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
)

// String returns the string representation of Align.
func (a Align) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Valid reports whether a is a known alignment value.
func (a Align) Valid() bool {
	return a >= AlignStart && a <= AlignEnd
}

// ParseAlign converts a config string to an Align.
func ParseAlign(v string) (Align, error) {
	switch strings.ToLower(v) {
	case "start":
		return AlignStart, nil
	case "center":
		return AlignCenter, nil
	case "end":
		return AlignEnd, nil
	default:
		return 0, fmt.Errorf("unknown align %q", v)
	}
}

// Sticky controls how aggressively the solver clamps the overlay into the
// boundary versus preserving anchor alignment.
//
// StickyPartial keeps the overlay inside the boundary only while that does
// not detach it from the anchor; once containment would lose contact with
// the anchor's extent, alignment wins and the overlay may leave the
// boundary. StickyAlways keeps the whole overlay inside the boundary
// regardless of alignment fidelity.
type Sticky int

const (
	StickyPartial Sticky = iota
	StickyAlways
)

// String returns the string representation of Sticky.
func (s Sticky) String() string {
	switch s {
	case StickyPartial:
		return "partial"
	case StickyAlways:
		return "always"
	default:
		return "unknown"
	}
}

// Valid reports whether s is a known sticky value.
func (s Sticky) Valid() bool {
	return s == StickyPartial || s == StickyAlways
}

// ParseSticky converts a config string to a Sticky mode.
func ParseSticky(v string) (Sticky, error) {
	switch strings.ToLower(v) {
	case "partial":
		return StickyPartial, nil
	case "always":
		return StickyAlways, nil
	default:
		return 0, fmt.Errorf("unknown sticky mode %q", v)
	}
}

// Placement is the immutable positioning half of an overlay's
// configuration.
type Placement struct {
	Side        Side
	Align       Align
	SideOffset  float64
	AlignOffset float64

	// AvoidCollisions enables the flip/clamp algorithm. When false the
	// naive placement is returned untouched.
	AvoidCollisions  bool
	CollisionPadding geometry.Insets

	// Boundary overrides the viewport as the collision rectangle.
	// Nil means the viewport passed to Solve.
	Boundary *geometry.Rect

	Sticky Sticky
}

// Validate reports whether the placement uses only known enum values.
func (p Placement) Validate() error {
	if !p.Side.Valid() {
		return fmt.Errorf("invalid side %d", int(p.Side))
	}
	if !p.Align.Valid() {
		return fmt.Errorf("invalid align %d", int(p.Align))
	}
	if !p.Sticky.Valid() {
		return fmt.Errorf("invalid sticky mode %d", int(p.Sticky))
	}
	return nil
}
