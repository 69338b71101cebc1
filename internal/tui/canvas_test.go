package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timjonaswechler/ui/geometry"
	"github.com/timjonaswechler/ui/position"
)

func TestCanvasDrawBox(t *testing.T) {
	c := newCanvas(12, 5)
	c.drawBox(geometry.Rect{X: 1, Y: 1, W: 8, H: 3}, "hi", boxOutline)

	lines := strings.Split(c.String(), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, " ┌──────┐", lines[1])
	assert.Equal(t, " │  hi  │", lines[2])
	assert.Equal(t, " └──────┘", lines[3])
}

func TestCanvasBoxOcclusion(t *testing.T) {
	c := newCanvas(10, 5)
	c.drawBox(geometry.Rect{X: 0, Y: 0, W: 10, H: 5}, "under", boxOutline)
	c.drawBox(geometry.Rect{X: 2, Y: 1, W: 6, H: 3}, "top", boxSoft)

	lines := strings.Split(c.String(), "\n")
	assert.Contains(t, lines[2], "top")
	assert.NotContains(t, c.String(), "under")
}

func TestCanvasLabelTruncated(t *testing.T) {
	c := newCanvas(8, 3)
	c.drawBox(geometry.Rect{X: 0, Y: 0, W: 6, H: 3}, "overlong", boxOutline)

	lines := strings.Split(c.String(), "\n")
	assert.Equal(t, "│over│", lines[1])
}

func TestCanvasOutOfBoundsIgnored(t *testing.T) {
	c := newCanvas(4, 2)
	c.set(-1, 0, 'x')
	c.set(0, 5, 'x')
	c.drawBox(geometry.Rect{X: 2, Y: 1, W: 10, H: 10}, "clip", boxSolid)
	assert.NotPanics(t, func() { _ = c.String() })
}

func TestCanvasDegenerateBoxSkipped(t *testing.T) {
	c := newCanvas(6, 3)
	c.drawBox(geometry.Rect{X: 1, Y: 1, W: 1, H: 1}, "x", boxOutline)
	assert.Equal(t, "\n\n", c.String())
}

func TestBoxVariantBorders(t *testing.T) {
	c := newCanvas(6, 3)
	c.drawBox(geometry.Rect{W: 4, H: 3}, "", boxSolid)
	assert.Equal(t, "┏━━┓", strings.Split(c.String(), "\n")[0])

	c = newCanvas(6, 3)
	c.drawBox(geometry.Rect{W: 4, H: 3}, "", boxSoft)
	assert.Equal(t, "╭──╮", strings.Split(c.String(), "\n")[0])
}

func TestCanvasDrawArrow(t *testing.T) {
	c := newCanvas(20, 10)
	overlaySz := geometry.Size{W: 10, H: 4}
	anchorRect := geometry.Rect{X: 8, Y: 6, W: 4, H: 2}

	// Overlay above the anchor: arrow on the bottom edge, under the
	// anchor's center.
	res := position.Result{Position: geometry.Point{X: 5, Y: 1}, Side: position.SideTop}
	c.drawArrow(res, anchorRect, overlaySz)

	lines := strings.Split(c.String(), "\n")
	// anchor center x=10, offset = int(10-5-0.5) = 4; edge row = 1+4-1 = 4
	assert.Equal(t, '▼', []rune(lines[4])[9])
}

func TestAnchorLayout(t *testing.T) {
	m := New(testConfig())
	m.width = 80
	m.height = 24
	m.layoutAnchors()

	canvasRect := geometry.Rect{W: 80, H: float64(m.canvasHeight())}
	for _, spot := range m.anchors {
		assert.True(t, canvasRect.ContainsRect(spot.rect),
			"anchor %s outside canvas: %+v", spot.id, spot.rect)
	}
}
