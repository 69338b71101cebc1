package overlay

import (
	"fmt"
	"time"

	"github.com/timjonaswechler/ui/focus"
	"github.com/timjonaswechler/ui/geometry"
	"github.com/timjonaswechler/ui/position"
)

// Spec is the immutable per-overlay configuration supplied to Open.
type Spec struct {
	// Placement is handed to the positioning solver unchanged.
	Placement position.Placement

	// Size is the overlay content's rendered size, needed by the solver.
	Size geometry.Size

	// OpenDelay and CloseDelay gate the Opening and Closing states. A
	// zero delay transitions directly Closed<->Open.
	OpenDelay  time.Duration
	CloseDelay time.Duration

	// Dismissal behavior.
	CloseOnOutsideClick bool
	CloseOnEscape       bool

	// HideWhenDetached marks position updates as detached when the
	// anchor rect degenerates to zero area, so callers can suppress
	// rendering while the instance stays open.
	HideWhenDetached bool

	// Layer names the portal layer the content mounts into. Empty means
	// the shared default layer.
	Layer string

	// Content is the overlay's focusable content subtree, walked when
	// the instance enters Open to build the focus trap. Nil means no
	// focusable content; the overlay container becomes the fallback
	// focus target.
	Content *focus.Tree

	// Payload is the opaque render handle passed through to the portal
	// mount. The engine never inspects it.
	Payload any
}

// Validate checks the spec for malformed enum values and negative delays.
func (s Spec) Validate() error {
	if err := s.Placement.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlacement, err)
	}
	if s.OpenDelay < 0 || s.CloseDelay < 0 {
		return fmt.Errorf("%w: negative delay", ErrInvalidPlacement)
	}
	return nil
}

// equivalent reports whether two specs resolve identically, ignoring the
// content and payload handles.
func (s Spec) equivalent(other Spec) bool {
	return s.Placement == other.Placement &&
		s.Size == other.Size &&
		s.OpenDelay == other.OpenDelay &&
		s.CloseDelay == other.CloseDelay &&
		s.CloseOnOutsideClick == other.CloseOnOutsideClick &&
		s.CloseOnEscape == other.CloseOnEscape &&
		s.HideWhenDetached == other.HideWhenDetached &&
		s.Layer == other.Layer
}
