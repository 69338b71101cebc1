package overlay

import "errors"

var (
	// ErrAnchorNotFound is returned by Open when the anchor ID is not
	// registered. No instance is created.
	ErrAnchorNotFound = errors.New("anchor not found")

	// ErrInvalidPlacement is returned by Open for a malformed spec, e.g.
	// an unknown side or align value. The check is synchronous; callers
	// should validate before calling.
	ErrInvalidPlacement = errors.New("invalid placement")
)
