package tui

import (
	"strings"

	"github.com/timjonaswechler/ui/geometry"
	"github.com/timjonaswechler/ui/position"
)

// canvas is a character-cell drawing surface. Engine coordinates map
// 1:1 onto terminal cells.
type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	cells := make([][]rune, h)
	for y := range cells {
		row := make([]rune, w)
		for x := range row {
			row[x] = ' '
		}
		cells[y] = row
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) set(x, y int, r rune) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = r
}

// boxVariant selects the border styling of a drawn box. Variants are a
// closed set dispatched by one switch, not an extension point.
type boxVariant int

const (
	boxOutline boxVariant = iota
	boxSolid
	boxSoft
)

// borders returns the h, v, tl, tr, bl, br border runes for the variant.
func (v boxVariant) borders() [6]rune {
	switch v {
	case boxSolid:
		return [6]rune{'━', '┃', '┏', '┓', '┗', '┛'}
	case boxSoft:
		return [6]rune{'─', '│', '╭', '╮', '╰', '╯'}
	default:
		return [6]rune{'─', '│', '┌', '┐', '└', '┘'}
	}
}

// drawBox renders a bordered rectangle with the label centered on its
// middle row. Boxes smaller than the border are skipped.
func (c *canvas) drawBox(r geometry.Rect, label string, variant boxVariant) {
	x0, y0 := int(r.X), int(r.Y)
	w, h := int(r.W), int(r.H)
	if w < 2 || h < 2 {
		return
	}

	b := variant.borders()
	for x := x0 + 1; x < x0+w-1; x++ {
		c.set(x, y0, b[0])
		c.set(x, y0+h-1, b[0])
	}
	for y := y0 + 1; y < y0+h-1; y++ {
		c.set(x0, y, b[1])
		c.set(x0+w-1, y, b[1])
	}
	c.set(x0, y0, b[2])
	c.set(x0+w-1, y0, b[3])
	c.set(x0, y0+h-1, b[4])
	c.set(x0+w-1, y0+h-1, b[5])

	// Clear the interior so boxes occlude whatever is below them.
	for y := y0 + 1; y < y0+h-1; y++ {
		for x := x0 + 1; x < x0+w-1; x++ {
			c.set(x, y, ' ')
		}
	}

	inner := w - 2
	if inner <= 0 || label == "" {
		return
	}
	runes := []rune(label)
	if len(runes) > inner {
		runes = runes[:inner]
	}
	start := x0 + 1 + (inner-len(runes))/2
	row := y0 + h/2
	for i, lr := range runes {
		c.set(start+i, row, lr)
	}
}

// drawArrow marks the overlay edge facing the anchor with a directional
// arrow pointing at the anchor's center.
func (c *canvas) drawArrow(res position.Result, anchorRect geometry.Rect, overlay geometry.Size) {
	arrow := geometry.Size{W: 1, H: 1}
	off := int(position.ArrowOffset(res, anchorRect, overlay, arrow))
	x, y := int(res.Position.X), int(res.Position.Y)

	switch res.Side {
	case position.SideTop:
		c.set(x+off, y+int(overlay.H)-1, '▼')
	case position.SideBottom:
		c.set(x+off, y, '▲')
	case position.SideLeft:
		c.set(x+int(overlay.W)-1, y+off, '▶')
	case position.SideRight:
		c.set(x, y+off, '◀')
	}
}

func (c *canvas) String() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(string(row), " "))
	}
	return b.String()
}
