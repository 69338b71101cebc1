package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect_Contains(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 100, H: 50}

	assert.True(t, r.Contains(Point{X: 10, Y: 10}))
	assert.True(t, r.Contains(Point{X: 110, Y: 60}))
	assert.True(t, r.Contains(Point{X: 50, Y: 30}))
	assert.False(t, r.Contains(Point{X: 9, Y: 30}))
	assert.False(t, r.Contains(Point{X: 50, Y: 61}))
}

func TestRect_ContainsRect(t *testing.T) {
	outer := Rect{X: 0, Y: 0, W: 800, H: 600}

	assert.True(t, outer.ContainsRect(Rect{X: 10, Y: 10, W: 100, H: 100}))
	assert.True(t, outer.ContainsRect(outer))
	assert.False(t, outer.ContainsRect(Rect{X: 750, Y: 10, W: 100, H: 100}))
	assert.False(t, outer.ContainsRect(Rect{X: -1, Y: 0, W: 10, H: 10}))
}

func TestRect_Shrink(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}

	shrunk := r.Shrink(UniformInsets(10))
	assert.Equal(t, Rect{X: 10, Y: 10, W: 80, H: 80}, shrunk)

	// Insets larger than the rect collapse to a zero-area rect, not a
	// negative one.
	collapsed := r.Shrink(UniformInsets(80))
	assert.Equal(t, 0.0, collapsed.W)
	assert.Equal(t, 0.0, collapsed.H)
}

func TestRect_Intersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 100, H: 100}
	b := Rect{X: 50, Y: 50, W: 100, H: 100}

	assert.Equal(t, Rect{X: 50, Y: 50, W: 50, H: 50}, a.Intersect(b))
	assert.Equal(t, 2500.0, a.Intersect(b).Area())

	disjoint := Rect{X: 200, Y: 200, W: 10, H: 10}
	assert.Equal(t, 0.0, a.Intersect(disjoint).Area())
}

func TestRect_IsZero(t *testing.T) {
	assert.True(t, Rect{X: 5, Y: 5}.IsZero())
	assert.True(t, Rect{W: 10}.IsZero())
	assert.False(t, Rect{W: 1, H: 1}.IsZero())
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(42, 0, 10))
	// Inverted range: lower bound wins.
	assert.Equal(t, 7.0, Clamp(3, 7, 2))
}
