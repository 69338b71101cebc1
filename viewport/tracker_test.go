package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/timjonaswechler/ui/geometry"
)

func TestTracker_ChangeCallback(t *testing.T) {
	tr := NewTracker(geometry.Rect{W: 800, H: 600})

	fired := 0
	tr.SetChangeCallback(func() { fired++ })

	tr.SetBounds(geometry.Rect{W: 1024, H: 768})
	assert.Equal(t, 1, fired)
	assert.Equal(t, geometry.Rect{W: 1024, H: 768}, tr.Bounds())

	// Unchanged bounds do not fire.
	tr.SetBounds(geometry.Rect{W: 1024, H: 768})
	assert.Equal(t, 1, fired)

	tr.SetScroll(0, 120)
	assert.Equal(t, 2, fired)
	x, y := tr.Scroll()
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 120.0, y)

	tr.SetScroll(0, 120)
	assert.Equal(t, 2, fired)
}
