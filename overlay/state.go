package overlay

// State is the lifecycle state of an overlay instance.
type State int

const (
	// StateClosed means no instance exists. It is only ever observed as
	// the final notification before an instance is destroyed.
	StateClosed State = iota
	// StateOpening means the open timer is pending. Skipped entirely
	// when the open delay is zero.
	StateOpening
	// StateOpen means the overlay is mounted, positioned and trapping
	// focus.
	StateOpen
	// StateClosing means the close timer is pending. Skipped entirely
	// when the close delay is zero or the close is immediate.
	StateClosing
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}
