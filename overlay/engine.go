// Package overlay implements the timed open/close state machine tying
// the anchor registry, positioning solver, portal manager, focus trap
// and dismissal controller together behind one facade.
package overlay

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/timjonaswechler/ui/anchor"
	"github.com/timjonaswechler/ui/dismiss"
	"github.com/timjonaswechler/ui/event"
	"github.com/timjonaswechler/ui/focus"
	"github.com/timjonaswechler/ui/geometry"
	"github.com/timjonaswechler/ui/portal"
	"github.com/timjonaswechler/ui/position"
	"github.com/timjonaswechler/ui/viewport"
)

// StateChange is delivered to state subscribers on every transition.
type StateChange struct {
	Anchor   anchor.ID
	Instance InstanceID
	State    State
}

// PositionChange is delivered to position subscribers whenever an open
// instance is (re)positioned.
type PositionChange struct {
	Anchor   anchor.ID
	Instance InstanceID
	PositionUpdate
}

// Options configures a new engine. Zero values fall back to the default
// logger, the system clock and an empty viewport.
type Options struct {
	Logger   *slog.Logger
	Clock    Clock
	Viewport geometry.Rect
}

// Engine is the overlay engine facade. All methods are safe for
// concurrent use; event delivery happens outside the engine lock, so
// subscribers may call back into the engine.
type Engine struct {
	mu     sync.Mutex
	logger *slog.Logger
	clock  Clock

	anchors  *anchor.Registry
	viewport *viewport.Tracker
	portals  *portal.Manager

	stack    stack
	byAnchor map[anchor.ID]*instance

	pointerBus *event.Bus[dismiss.PointerEvent]
	dismissal  *dismiss.Controller
	pointerGen uint64

	stateBus *event.Bus[StateChange]
	posBus   *event.Bus[PositionChange]

	// focusReturn is the anchor that holds focus after the stack drained,
	// set when the last overlay closes.
	focusReturn anchor.ID
}

// NewEngine creates an engine with no anchors and no open overlays.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := opts.Clock
	if clk == nil {
		clk = SystemClock()
	}

	e := &Engine{
		logger:     logger,
		clock:      clk,
		anchors:    anchor.NewRegistry(logger),
		viewport:   viewport.NewTracker(opts.Viewport),
		portals:    portal.NewManager(logger),
		byAnchor:   make(map[anchor.ID]*instance),
		pointerBus: event.NewBus[dismiss.PointerEvent](),
		stateBus:   event.NewBus[StateChange](),
		posBus:     event.NewBus[PositionChange](),
	}
	e.dismissal = dismiss.NewController(e, logger)
	e.anchors.SetRemoveCallback(e.onAnchorRemoved)
	e.viewport.SetChangeCallback(e.repositionAll)
	return e
}

// RegisterAnchor adds or replaces an anchor rect callback.
func (e *Engine) RegisterAnchor(id anchor.ID, getRect anchor.RectFunc) {
	e.anchors.Register(id, getRect)
}

// UnregisterAnchor removes an anchor. An overlay open against it is
// force-closed, bypassing its close delay.
func (e *Engine) UnregisterAnchor(id anchor.ID) {
	e.anchors.Unregister(id)
}

// Open requests the overlay anchored at the given anchor to open. The
// returned instance ID identifies the resulting open period.
//
// An already-opening instance restarts its open delay; an already-open
// instance with an equivalent spec is a no-op; a differing spec replaces
// the stored one and repositions immediately. A closing instance returns
// to Open without passing through Closed.
func (e *Engine) Open(anchorID anchor.ID, spec Spec) (InstanceID, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	if !e.anchors.Exists(anchorID) {
		return "", fmt.Errorf("%w: %q", ErrAnchorNotFound, anchorID)
	}

	e.mu.Lock()
	var emits []func()

	if in, exists := e.byAnchor[anchorID]; exists {
		id := in.id
		switch in.state {
		case StateOpening:
			// Retrigger while waiting: adopt the new spec and restart
			// the delay from now.
			in.spec = spec
			e.scheduleOpen(in)
		case StateOpen:
			if !in.spec.equivalent(spec) {
				in.spec = spec
				e.solve(in, &emits, true)
			}
		case StateClosing:
			in.stopCloseTimer()
			in.spec = spec
			in.state = StateOpen
			emits = append(emits, e.emitState(in))
			e.solve(in, &emits, true)
			e.logger.Debug("overlay reopened during close delay",
				"anchor_id", anchorID, "instance_id", id)
		}
		e.mu.Unlock()
		run(emits)
		return id, nil
	}

	in := newInstance(e.clock, anchorID, spec)
	e.byAnchor[anchorID] = in

	if spec.OpenDelay == 0 {
		e.finishOpen(in, &emits)
	} else {
		in.state = StateOpening
		emits = append(emits, e.emitState(in))
		e.scheduleOpen(in)
	}
	id := in.id
	e.mu.Unlock()
	run(emits)
	return id, nil
}

// Close requests the overlay anchored at the given anchor to close,
// honoring its close delay. Closing an anchor with no instance is a
// no-op.
func (e *Engine) Close(anchorID anchor.ID) {
	e.closeAnchor(anchorID, false)
}

// CloseNow closes the overlay immediately, bypassing the close delay.
// Dismissal paths (outside click, Escape, anchor teardown) use this.
func (e *Engine) CloseNow(anchorID anchor.ID) {
	e.closeAnchor(anchorID, true)
}

// CloseAll force-closes every open overlay, topmost first.
func (e *Engine) CloseAll() {
	e.mu.Lock()
	var emits []func()
	for {
		in, ok := e.stack.top()
		if !ok {
			break
		}
		e.closeInstance(in, true, &emits)
	}
	// Instances still waiting in Opening are not on the stack yet.
	for _, in := range e.byAnchor {
		e.closeInstance(in, true, &emits)
	}
	e.mu.Unlock()
	run(emits)
}

// CloseInstance closes the given open period. IDs from periods that
// already ended are stale and ignored.
func (e *Engine) CloseInstance(id InstanceID, immediate bool) {
	e.mu.Lock()
	var emits []func()
	for _, in := range e.byAnchor {
		if in.id == id {
			e.closeInstance(in, immediate, &emits)
			break
		}
	}
	e.mu.Unlock()
	run(emits)
}

func (e *Engine) closeAnchor(anchorID anchor.ID, immediate bool) {
	e.mu.Lock()
	var emits []func()
	if in, exists := e.byAnchor[anchorID]; exists {
		e.closeInstance(in, immediate, &emits)
	}
	e.mu.Unlock()
	run(emits)
}

// Escape closes the topmost overlay that opts into Escape dismissal and
// reports whether the key was consumed.
func (e *Engine) Escape() bool {
	e.mu.Lock()
	var emits []func()
	handled := false
	entries := e.stack.bottomUp()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].spec.CloseOnEscape {
			e.closeInstance(entries[i], true, &emits)
			handled = true
			break
		}
	}
	e.mu.Unlock()
	run(emits)
	return handled
}

// PointerDown dispatches a pointer-down event at the given point. While
// overlays are open the dismissal controller receives it and closes the
// ones the point lies outside of.
func (e *Engine) PointerDown(p geometry.Point) {
	e.mu.Lock()
	e.pointerGen++
	ev := dismiss.PointerEvent{Point: p, Generation: e.pointerGen}
	e.mu.Unlock()
	e.pointerBus.Publish(ev)
}

// FocusNext advances focus inside the topmost overlay's trap, wrapping
// at the end of the tab order.
func (e *Engine) FocusNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if in, ok := e.stack.top(); ok && in.trap != nil {
		in.trap.Next()
	}
}

// FocusPrev retreats focus inside the topmost overlay's trap, wrapping
// at the start of the tab order.
func (e *Engine) FocusPrev() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if in, ok := e.stack.top(); ok && in.trap != nil {
		in.trap.Prev()
	}
}

// Focused returns the currently focused element. With an open overlay
// that is the trap's active element (or its container as fallback, with
// ok=false); with none it is the anchor focus returned to on close.
func (e *Engine) Focused() (id string, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if in, topOK := e.stack.top(); topOK && in.trap != nil {
		return in.trap.Active()
	}
	if e.focusReturn != "" {
		return string(e.focusReturn), true
	}
	return "", false
}

// SetViewportBounds updates the viewport rectangle; open overlays are
// repositioned synchronously.
func (e *Engine) SetViewportBounds(bounds geometry.Rect) {
	e.viewport.SetBounds(bounds)
}

// SetScroll updates the scroll offsets; open overlays are repositioned
// synchronously since their anchor rects follow the scrolled layout.
func (e *Engine) SetScroll(x, y float64) {
	e.viewport.SetScroll(x, y)
}

// Reposition re-solves every open overlay against the current anchor
// rects. Callers invoke this after layout changes that move anchors
// without touching the viewport.
func (e *Engine) Reposition() {
	e.repositionAll()
}

// State returns the current state of the overlay anchored at the given
// anchor; anchors without an instance report Closed.
func (e *Engine) State(anchorID anchor.ID) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	if in, exists := e.byAnchor[anchorID]; exists {
		return in.state
	}
	return StateClosed
}

// InstanceOf returns the live instance ID for an anchor.
func (e *Engine) InstanceOf(anchorID anchor.ID) (InstanceID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if in, exists := e.byAnchor[anchorID]; exists {
		return in.id, true
	}
	return "", false
}

// Position returns the last solved position of an anchor's overlay.
func (e *Engine) Position(anchorID anchor.ID) (PositionUpdate, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	in, exists := e.byAnchor[anchorID]
	if !exists || !in.positioned {
		return PositionUpdate{}, false
	}
	return PositionUpdate{Position: in.pos, Side: in.resolvedSide, Detached: in.detached}, true
}

// OpenCount returns the number of overlays currently on the stack.
func (e *Engine) OpenCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stack.len()
}

// Mounts returns the named portal layer's content in render order.
func (e *Engine) Mounts(layerName string) []portal.Mount {
	return e.portals.Ordered(layerName)
}

// AnchorCount returns the number of registered anchors.
func (e *Engine) AnchorCount() int {
	return e.anchors.Count()
}

// OnStateChange subscribes to state transitions across all overlays.
func (e *Engine) OnStateChange(fn func(StateChange)) event.Unsubscribe {
	return e.stateBus.Subscribe(fn)
}

// OnPositionChange subscribes to position updates across all overlays.
func (e *Engine) OnPositionChange(fn func(PositionChange)) event.Unsubscribe {
	return e.posBus.Subscribe(fn)
}

// Targets implements dismiss.Source: the open stack bottom first,
// snapshotted under the engine lock.
func (e *Engine) Targets() []dismiss.Target {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]dismiss.Target, 0, e.stack.len())
	for _, in := range e.stack.bottomUp() {
		t := dismissTarget{
			engine:       e,
			anchorID:     in.anchorID,
			closeOutside: in.spec.CloseOnOutsideClick,
			openedGen:    in.openedGen,
			positioned:   in.positioned,
		}
		t.rect, _ = in.bounds()
		out = append(out, t)
	}
	return out
}

// dismissTarget is an immutable snapshot of one stack entry handed to
// the dismissal controller, so hit testing runs without the engine lock.
type dismissTarget struct {
	engine       *Engine
	anchorID     anchor.ID
	rect         geometry.Rect
	positioned   bool
	closeOutside bool
	openedGen    uint64
}

func (t dismissTarget) Bounds() (geometry.Rect, bool) { return t.rect, t.positioned }
func (t dismissTarget) CloseOnOutsideClick() bool     { return t.closeOutside }
func (t dismissTarget) OpenedGeneration() uint64      { return t.openedGen }
func (t dismissTarget) RequestClose()                 { t.engine.CloseNow(t.anchorID) }

// --- internal state machine, all methods below require e.mu held ---

// scheduleOpen (re)starts the open delay timer.
func (e *Engine) scheduleOpen(in *instance) {
	in.stopOpenTimer()
	seq := in.openSeq
	in.openTimer = e.clock.AfterFunc(in.spec.OpenDelay, func() {
		e.onOpenTimer(in, seq)
	})
}

func (e *Engine) onOpenTimer(in *instance, seq uint64) {
	e.mu.Lock()
	var emits []func()
	if in.state == StateOpening && seq == in.openSeq {
		in.openTimer = nil
		e.finishOpen(in, &emits)
	}
	e.mu.Unlock()
	run(emits)
}

// finishOpen completes the Closed/Opening -> Open transition: the
// instance joins the stack, mounts into its portal layer, gets solved
// and grows its focus trap.
func (e *Engine) finishOpen(in *instance, emits *[]func()) {
	// The anchor can vanish while the open delay runs.
	if !e.anchors.Exists(in.anchorID) {
		in.state = StateClosed
		delete(e.byAnchor, in.anchorID)
		*emits = append(*emits, e.emitState(in))
		return
	}

	in.state = StateOpen
	e.stack.push(in)

	tree := in.spec.Content
	if tree == nil {
		tree = focus.NewTree(string(in.id))
	}
	in.trap = focus.NewTrap(tree, in.anchorID)
	in.openedGen = e.pointerGen
	e.focusReturn = ""

	e.portals.Mount(in.spec.Layer, portal.Mount{
		InstanceID: string(in.id),
		OwnerID:    string(in.anchorID),
		Depth:      in.stackDepth,
		Content:    in.spec.Payload,
	})

	if e.stack.len() == 1 {
		e.dismissal.Attach(e.pointerBus)
	}
	*emits = append(*emits, e.emitState(in))
	e.solve(in, emits, true)
	e.logger.Debug("overlay opened",
		"anchor_id", in.anchorID,
		"instance_id", in.id,
		"side", in.resolvedSide,
		"depth", in.stackDepth,
	)
}

func (e *Engine) closeInstance(in *instance, immediate bool, emits *[]func()) {
	switch in.state {
	case StateOpening:
		// Never became visible: straight to Closed, Open is never
		// reported for this instance.
		in.stopOpenTimer()
		in.state = StateClosed
		delete(e.byAnchor, in.anchorID)
		*emits = append(*emits, e.emitState(in))
	case StateOpen:
		if immediate || in.spec.CloseDelay == 0 {
			e.finishClose(in, emits)
		} else {
			in.state = StateClosing
			*emits = append(*emits, e.emitState(in))
			e.scheduleClose(in)
		}
	case StateClosing:
		if immediate {
			in.stopCloseTimer()
			e.finishClose(in, emits)
		}
	}
}

func (e *Engine) scheduleClose(in *instance) {
	in.stopCloseTimer()
	seq := in.closeSeq
	in.closeTimer = e.clock.AfterFunc(in.spec.CloseDelay, func() {
		e.onCloseTimer(in, seq)
	})
}

func (e *Engine) onCloseTimer(in *instance, seq uint64) {
	e.mu.Lock()
	var emits []func()
	if in.state == StateClosing && seq == in.closeSeq {
		in.closeTimer = nil
		e.finishClose(in, &emits)
	}
	e.mu.Unlock()
	run(emits)
}

// finishClose completes the transition to Closed. Stack entries nested
// above the instance are closed first, topmost down, so a parent never
// outlives its children's teardown.
func (e *Engine) finishClose(in *instance, emits *[]func()) {
	above := e.stack.above(in.id)
	for i := len(above) - 1; i >= 0; i-- {
		e.closeSingle(above[i], emits)
	}
	e.closeSingle(in, emits)

	// Render priorities of the survivors follow their new stack depths.
	for _, rem := range e.stack.bottomUp() {
		e.portals.SetDepth(string(rem.id), rem.stackDepth)
	}
}

func (e *Engine) closeSingle(in *instance, emits *[]func()) {
	in.stopOpenTimer()
	in.stopCloseTimer()
	e.stack.remove(in.id)
	e.portals.Unmount(string(in.id))

	if in.trap != nil {
		target := in.trap.ReturnTarget()
		if e.anchors.Exists(target) {
			e.focusReturn = target
		} else {
			e.focusReturn = ""
		}
		in.trap = nil
	}

	in.state = StateClosed
	in.positioned = false
	delete(e.byAnchor, in.anchorID)
	*emits = append(*emits, e.emitState(in))

	if e.stack.len() == 0 {
		e.dismissal.Detach()
	}
	e.logger.Debug("overlay closed",
		"anchor_id", in.anchorID,
		"instance_id", in.id,
	)
}

// solve recomputes the instance's position from the live anchor rect and
// queues a position event when the result changed (or force is set).
func (e *Engine) solve(in *instance, emits *[]func(), force bool) {
	rect, ok := e.anchors.Rect(in.anchorID)
	if !ok {
		return
	}

	res := position.Solve(rect, in.spec.Size, in.spec.Placement, e.viewport.Bounds())
	detached := in.spec.HideWhenDetached && rect.IsZero()

	changed := !in.positioned ||
		res.Position != in.pos ||
		res.Side != in.resolvedSide ||
		detached != in.detached

	in.pos = res.Position
	in.resolvedSide = res.Side
	in.detached = detached
	in.positioned = true

	if changed || force {
		change := PositionChange{
			Anchor:   in.anchorID,
			Instance: in.id,
			PositionUpdate: PositionUpdate{
				Position: res.Position,
				Side:     res.Side,
				Detached: detached,
			},
		}
		*emits = append(*emits, func() { e.posBus.Publish(change) })
	}
}

func (e *Engine) emitState(in *instance) func() {
	change := StateChange{Anchor: in.anchorID, Instance: in.id, State: in.state}
	return func() { e.stateBus.Publish(change) }
}

// repositionAll re-solves every stacked instance, bottom first.
func (e *Engine) repositionAll() {
	e.mu.Lock()
	var emits []func()
	for _, in := range e.stack.bottomUp() {
		e.solve(in, &emits, false)
	}
	e.mu.Unlock()
	run(emits)
}

// onAnchorRemoved force-closes the overlay whose anchor died, then
// sweeps any portal content still owned by it.
func (e *Engine) onAnchorRemoved(id anchor.ID) {
	e.mu.Lock()
	var emits []func()
	if in, exists := e.byAnchor[id]; exists {
		e.closeInstance(in, true, &emits)
	}
	e.mu.Unlock()
	run(emits)
	e.portals.DestroyOwner(string(id))
}

func run(emits []func()) {
	for _, f := range emits {
		f()
	}
}
