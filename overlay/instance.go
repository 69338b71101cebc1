package overlay

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"

	"github.com/timjonaswechler/ui/anchor"
	"github.com/timjonaswechler/ui/focus"
	"github.com/timjonaswechler/ui/geometry"
	"github.com/timjonaswechler/ui/position"
)

// InstanceID identifies one overlay instance for the duration of a single
// open period. An instance exists iff its state is not Closed.
type InstanceID string

// PositionUpdate is delivered to position subscribers whenever an open
// instance is (re)positioned.
type PositionUpdate struct {
	Position geometry.Point
	Side     position.Side
	// Detached is set when HideWhenDetached is configured and the anchor
	// rect has degenerated to a point; callers may suppress rendering.
	Detached bool
}

// instance is the engine-private state of one overlay. It is owned
// exclusively by the state machine; all other components read it through
// the engine.
type instance struct {
	id       InstanceID
	anchorID anchor.ID
	spec     Spec
	state    State

	// Position is only meaningful in Opening/Open/Closing.
	resolvedSide position.Side
	pos          geometry.Point
	detached     bool
	positioned   bool

	stackDepth int

	// The seq counters invalidate timer callbacks that were scheduled
	// before a retrigger or cancellation.
	openTimer  Timer
	openSeq    uint64
	closeTimer Timer
	closeSeq   uint64

	// trap lives for exactly one Open period.
	trap *focus.Trap

	// openedGen is the pointer-event generation during which the
	// instance entered Open; the dismissal controller ignores the very
	// event that opened it.
	openedGen uint64
}

func newInstance(clk Clock, anchorID anchor.ID, spec Spec) *instance {
	id := ulid.MustNew(ulid.Timestamp(clk.Now()), rand.Reader)
	return &instance{
		id:       InstanceID(id.String()),
		anchorID: anchorID,
		spec:     spec,
		state:    StateClosed,
	}
}

// bounds returns the instance's rendered rectangle, valid once the
// instance has been positioned.
func (in *instance) bounds() (geometry.Rect, bool) {
	if !in.positioned {
		return geometry.Rect{}, false
	}
	return geometry.RectAt(in.pos, in.spec.Size), true
}

func (in *instance) stopOpenTimer() {
	in.openSeq++
	if in.openTimer != nil {
		in.openTimer.Stop()
		in.openTimer = nil
	}
}

func (in *instance) stopCloseTimer() {
	in.closeSeq++
	if in.closeTimer != nil {
		in.closeTimer.Stop()
		in.closeTimer = nil
	}
}
