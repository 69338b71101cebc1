package dismiss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timjonaswechler/ui/event"
	"github.com/timjonaswechler/ui/geometry"
)

type fakeTarget struct {
	bounds       geometry.Rect
	positioned   bool
	closeOutside bool
	openedGen    uint64
	closed       int
}

func (t *fakeTarget) Bounds() (geometry.Rect, bool) { return t.bounds, t.positioned }
func (t *fakeTarget) CloseOnOutsideClick() bool     { return t.closeOutside }
func (t *fakeTarget) OpenedGeneration() uint64      { return t.openedGen }
func (t *fakeTarget) RequestClose()                 { t.closed++ }

type fakeSource struct {
	targets []Target
}

func (s *fakeSource) Targets() []Target { return s.targets }

func newTarget(x, y, w, h float64) *fakeTarget {
	return &fakeTarget{
		bounds:       geometry.RectAt(geometry.Point{X: x, Y: y}, geometry.Size{W: w, H: h}),
		positioned:   true,
		closeOutside: true,
	}
}

func TestOutsideClickClosesOverlay(t *testing.T) {
	target := newTarget(100, 100, 50, 50)
	src := &fakeSource{targets: []Target{target}}
	bus := event.NewBus[PointerEvent]()

	ctrl := NewController(src, nil)
	ctrl.Attach(bus)

	bus.Publish(PointerEvent{Point: geometry.Point{X: 10, Y: 10}, Generation: 1})
	assert.Equal(t, 1, target.closed)
}

func TestInsideClickKeepsOverlayOpen(t *testing.T) {
	target := newTarget(100, 100, 50, 50)
	src := &fakeSource{targets: []Target{target}}
	bus := event.NewBus[PointerEvent]()

	ctrl := NewController(src, nil)
	ctrl.Attach(bus)

	bus.Publish(PointerEvent{Point: geometry.Point{X: 120, Y: 120}, Generation: 1})
	assert.Zero(t, target.closed)
}

func TestOpeningClickDoesNotSelfDismiss(t *testing.T) {
	target := newTarget(100, 100, 50, 50)
	target.openedGen = 7
	src := &fakeSource{targets: []Target{target}}
	bus := event.NewBus[PointerEvent]()

	ctrl := NewController(src, nil)
	ctrl.Attach(bus)

	// The very dispatch that opened the overlay lands outside its bounds
	// (on the trigger) but must not dismiss it.
	bus.Publish(PointerEvent{Point: geometry.Point{X: 10, Y: 10}, Generation: 7})
	assert.Zero(t, target.closed)

	// The next dispatch at the same point does dismiss.
	bus.Publish(PointerEvent{Point: geometry.Point{X: 10, Y: 10}, Generation: 8})
	assert.Equal(t, 1, target.closed)
}

func TestCloseOnOutsideClickDisabled(t *testing.T) {
	target := newTarget(100, 100, 50, 50)
	target.closeOutside = false
	src := &fakeSource{targets: []Target{target}}
	bus := event.NewBus[PointerEvent]()

	ctrl := NewController(src, nil)
	ctrl.Attach(bus)

	bus.Publish(PointerEvent{Point: geometry.Point{X: 10, Y: 10}, Generation: 1})
	assert.Zero(t, target.closed)
}

// A click inside a nested overlay is an inside click for every overlay
// below it: only overlays whose own subtree excludes the point close.
func TestNestedOverlayClickInsideChild(t *testing.T) {
	parent := newTarget(100, 100, 200, 200)
	child := newTarget(400, 400, 50, 50)
	src := &fakeSource{targets: []Target{parent, child}}
	bus := event.NewBus[PointerEvent]()

	ctrl := NewController(src, nil)
	ctrl.Attach(bus)

	// Inside the child, outside the parent: nothing closes. The child
	// overlay is logically nested content of the parent.
	bus.Publish(PointerEvent{Point: geometry.Point{X: 410, Y: 410}, Generation: 1})
	assert.Zero(t, parent.closed)
	assert.Zero(t, child.closed)

	// Inside the parent, outside the child: only the child closes.
	bus.Publish(PointerEvent{Point: geometry.Point{X: 150, Y: 150}, Generation: 2})
	assert.Zero(t, parent.closed)
	assert.Equal(t, 1, child.closed)

	// Outside both: both close.
	bus.Publish(PointerEvent{Point: geometry.Point{X: 10, Y: 10}, Generation: 3})
	assert.Equal(t, 1, parent.closed)
	assert.Equal(t, 2, child.closed)
}

func TestUnpositionedTargetTreatedAsOutside(t *testing.T) {
	target := newTarget(100, 100, 50, 50)
	target.positioned = false
	src := &fakeSource{targets: []Target{target}}
	bus := event.NewBus[PointerEvent]()

	ctrl := NewController(src, nil)
	ctrl.Attach(bus)

	bus.Publish(PointerEvent{Point: geometry.Point{X: 120, Y: 120}, Generation: 1})
	assert.Equal(t, 1, target.closed)
}

func TestAttachDetachLifecycle(t *testing.T) {
	target := newTarget(100, 100, 50, 50)
	src := &fakeSource{targets: []Target{target}}
	bus := event.NewBus[PointerEvent]()

	ctrl := NewController(src, nil)
	require.False(t, ctrl.Attached())

	ctrl.Attach(bus)
	ctrl.Attach(bus) // idempotent
	require.True(t, ctrl.Attached())

	bus.Publish(PointerEvent{Point: geometry.Point{X: 10, Y: 10}, Generation: 1})
	assert.Equal(t, 1, target.closed)

	ctrl.Detach()
	ctrl.Detach() // idempotent
	require.False(t, ctrl.Attached())

	bus.Publish(PointerEvent{Point: geometry.Point{X: 10, Y: 10}, Generation: 2})
	assert.Equal(t, 1, target.closed)
}
