// Package geometry provides the screen-space primitives shared by the
// overlay engine: points, sizes, rectangles and edge insets.
package geometry

// Point is a position in screen space. The origin is the top-left corner
// of the viewport; Y grows downward.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair.
type Size struct {
	W float64
	H float64
}

// Rect is an axis-aligned rectangle identified by its top-left corner.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// Insets describes per-edge padding, e.g. the collision padding that
// shrinks the viewport before overflow testing.
type Insets struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformInsets returns insets with the same value on all four edges.
func UniformInsets(v float64) Insets {
	return Insets{Top: v, Right: v, Bottom: v, Left: v}
}

// RectAt returns the rectangle spanned by a top-left point and a size.
func RectAt(p Point, s Size) Rect {
	return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}
}

// Origin returns the rectangle's top-left corner.
func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size {
	return Size{W: r.W, H: r.H}
}

// MaxX returns the rectangle's right edge.
func (r Rect) MaxX() float64 {
	return r.X + r.W
}

// MaxY returns the rectangle's bottom edge.
func (r Rect) MaxY() float64 {
	return r.Y + r.H
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// IsZero reports whether the rectangle has zero area. A zero-area anchor
// is treated as a point by the positioning solver.
func (r Rect) IsZero() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the point lies inside the rectangle.
// Edges count as inside.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// ContainsRect reports whether other lies fully inside r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.MaxX() <= r.MaxX() && other.MaxY() <= r.MaxY()
}

// Shrink returns the rectangle reduced by the given insets. A degenerate
// result collapses onto the rectangle's center rather than inverting.
func (r Rect) Shrink(in Insets) Rect {
	out := Rect{
		X: r.X + in.Left,
		Y: r.Y + in.Top,
		W: r.W - in.Left - in.Right,
		H: r.H - in.Top - in.Bottom,
	}
	if out.W < 0 {
		out.X = r.X + r.W/2
		out.W = 0
	}
	if out.H < 0 {
		out.Y = r.Y + r.H/2
		out.H = 0
	}
	return out
}

// Translate returns the rectangle moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// Intersect returns the overlap of two rectangles. A disjoint pair yields
// a zero-area rectangle.
func (r Rect) Intersect(other Rect) Rect {
	x0 := max(r.X, other.X)
	y0 := max(r.Y, other.Y)
	x1 := min(r.MaxX(), other.MaxX())
	y1 := min(r.MaxY(), other.MaxY())
	if x1 < x0 || y1 < y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Clamp limits v to the range [lo, hi]. When the range is inverted the
// lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
