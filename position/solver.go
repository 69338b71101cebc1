// Package position computes collision-aware overlay placement. Solve is a
// pure function of its inputs; it performs no lookups and keeps no state,
// so repeated calls with identical inputs return identical results.
package position

import (
	"github.com/timjonaswechler/ui/geometry"
)

// Result is the outcome of a solve: where to put the overlay's top-left
// corner and which side was actually used after collision handling.
// Callers drawing a directional arrow need Side, not the requested one.
type Result struct {
	Position geometry.Point
	Side     Side
}

// Rect returns the overlay rectangle implied by the result.
func (r Result) Rect(overlay geometry.Size) geometry.Rect {
	return geometry.RectAt(r.Position, overlay)
}

// Solve resolves the placement of an overlay of the given size against an
// anchor rectangle inside a viewport.
//
// The algorithm follows three steps: naive side/align placement with
// offsets, a primary-axis flip when the preferred side overflows the
// collision boundary, and a secondary-axis clamp governed by the sticky
// mode. A zero-area anchor is treated as a point; a solution is still
// produced and callers may choose to suppress rendering.
func Solve(anchor geometry.Rect, overlay geometry.Size, p Placement, viewport geometry.Rect) Result {
	pos := naivePosition(anchor, overlay, p, p.Side)
	if !p.AvoidCollisions {
		return Result{Position: pos, Side: p.Side}
	}

	boundary := viewport
	if p.Boundary != nil {
		boundary = *p.Boundary
	}
	boundary = boundary.Shrink(p.CollisionPadding)

	side := p.Side
	switch {
	case primaryOversized(side, overlay, boundary):
		// Overlay larger than the boundary on the primary axis: clamp
		// to the boundary origin, no flip attempted.
		pos = clampPrimaryToOrigin(pos, side, boundary)

	case primaryOverflow(pos, overlay, side, boundary):
		flipped := side.Opposite()
		flippedPos := naivePosition(anchor, overlay, p, flipped)
		switch {
		case !primaryOverflow(flippedPos, overlay, flipped, boundary):
			pos, side = flippedPos, flipped
		default:
			// Both placements overflow: keep whichever exposes the
			// larger unobstructed area. Ties keep the requested side.
			origArea := geometry.RectAt(pos, overlay).Intersect(boundary).Area()
			flipArea := geometry.RectAt(flippedPos, overlay).Intersect(boundary).Area()
			if flipArea > origArea {
				pos, side = flippedPos, flipped
			}
			pos = clampPrimary(pos, overlay, side, boundary)
		}
	}

	pos = clampSecondary(pos, anchor, overlay, side, p.Sticky, boundary)
	return Result{Position: pos, Side: side}
}

// naivePosition computes the uncorrected placement for the given side.
func naivePosition(anchor geometry.Rect, overlay geometry.Size, p Placement, side Side) geometry.Point {
	var pos geometry.Point

	switch side {
	case SideTop:
		pos.Y = anchor.Y - overlay.H - p.SideOffset
	case SideBottom:
		pos.Y = anchor.Y + anchor.H + p.SideOffset
	case SideLeft:
		pos.X = anchor.X - overlay.W - p.SideOffset
	case SideRight:
		pos.X = anchor.X + anchor.W + p.SideOffset
	}

	if side.Vertical() {
		switch p.Align {
		case AlignStart:
			pos.X = anchor.X + p.AlignOffset
		case AlignCenter:
			pos.X = anchor.X + anchor.W/2 - overlay.W/2 + p.AlignOffset
		case AlignEnd:
			pos.X = anchor.MaxX() - overlay.W + p.AlignOffset
		}
	} else {
		switch p.Align {
		case AlignStart:
			pos.Y = anchor.Y + p.AlignOffset
		case AlignCenter:
			pos.Y = anchor.Y + anchor.H/2 - overlay.H/2 + p.AlignOffset
		case AlignEnd:
			pos.Y = anchor.MaxY() - overlay.H + p.AlignOffset
		}
	}

	return pos
}

// primaryOversized reports whether the overlay cannot fit the boundary on
// the side's axis at all.
func primaryOversized(side Side, overlay geometry.Size, boundary geometry.Rect) bool {
	if side.Vertical() {
		return overlay.H > boundary.H
	}
	return overlay.W > boundary.W
}

// primaryOverflow reports whether the overlay leaves the boundary on the
// primary axis in the direction the side opens toward.
func primaryOverflow(pos geometry.Point, overlay geometry.Size, side Side, boundary geometry.Rect) bool {
	switch side {
	case SideTop:
		return pos.Y < boundary.Y
	case SideBottom:
		return pos.Y+overlay.H > boundary.MaxY()
	case SideLeft:
		return pos.X < boundary.X
	default:
		return pos.X+overlay.W > boundary.MaxX()
	}
}

// clampPrimaryToOrigin pins an oversized overlay to the boundary origin on
// the primary axis.
func clampPrimaryToOrigin(pos geometry.Point, side Side, boundary geometry.Rect) geometry.Point {
	if side.Vertical() {
		pos.Y = boundary.Y
	} else {
		pos.X = boundary.X
	}
	return pos
}

// clampPrimary forces the primary coordinate into the boundary after a
// failed flip, possibly overlapping the anchor. This is the graceful
// degradation for a viewport too small on the primary axis.
func clampPrimary(pos geometry.Point, overlay geometry.Size, side Side, boundary geometry.Rect) geometry.Point {
	if side.Vertical() {
		pos.Y = geometry.Clamp(pos.Y, boundary.Y, boundary.MaxY()-overlay.H)
	} else {
		pos.X = geometry.Clamp(pos.X, boundary.X, boundary.MaxX()-overlay.W)
	}
	return pos
}

// clampSecondary applies the sticky policy on the axis perpendicular to
// the resolved side.
//
// StickyAlways clamps the overlay fully inside the boundary. StickyPartial
// does the same until containment would detach the overlay from the
// anchor's extent on that axis; at that point it backs off to the nearest
// position still in contact with the anchor, letting the overlay leave the
// boundary rather than the anchor.
func clampSecondary(pos geometry.Point, anchor geometry.Rect, overlay geometry.Size, side Side, sticky Sticky, boundary geometry.Rect) geometry.Point {
	if side.Vertical() {
		clamped := geometry.Clamp(pos.X, boundary.X, boundary.MaxX()-overlay.W)
		if sticky == StickyPartial {
			clamped = keepContact(clamped, pos.X, overlay.W, anchor.X, anchor.MaxX())
		}
		pos.X = clamped
	} else {
		clamped := geometry.Clamp(pos.Y, boundary.Y, boundary.MaxY()-overlay.H)
		if sticky == StickyPartial {
			clamped = keepContact(clamped, pos.Y, overlay.H, anchor.Y, anchor.MaxY())
		}
		pos.Y = clamped
	}
	return pos
}

// keepContact limits a containment clamp so the overlay interval
// [v, v+span] keeps touching the anchor interval [lo, hi]. The unclamped
// coordinate is the fallback direction: the result never moves past the
// last position in contact with the anchor.
func keepContact(clamped, unclamped, span, lo, hi float64) float64 {
	if clamped > hi {
		// Pushed past the anchor's far edge: back off to touch it.
		return max(hi, unclamped)
	}
	if clamped+span < lo {
		// Pushed before the anchor's near edge: back off to touch it.
		return min(lo-span, unclamped)
	}
	return clamped
}

// ArrowOffset returns the distance from the overlay's origin, along the
// edge facing the anchor, at which a directional arrow of the given size
// should be drawn so it points at the anchor's center. The offset is
// clamped so the arrow stays on the overlay's edge.
func ArrowOffset(res Result, anchor geometry.Rect, overlay geometry.Size, arrow geometry.Size) float64 {
	if res.Side.Vertical() {
		center := anchor.X + anchor.W/2
		return geometry.Clamp(center-res.Position.X-arrow.W/2, 0, max(overlay.W-arrow.W, 0))
	}
	center := anchor.Y + anchor.H/2
	return geometry.Clamp(center-res.Position.Y-arrow.H/2, 0, max(overlay.H-arrow.H, 0))
}
