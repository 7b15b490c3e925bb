package geometry

import "math"

// Rect is an axis-aligned rectangle described by two opposite corners.
// A rectangle built from a drag gesture may arrive with Min/Max swapped on
// either axis; Normalize puts it in canonical order.
type Rect struct {
	Min Point
	Max Point
}

// RectFromCorners builds a rectangle from two opposite corners in any
// order.
func RectFromCorners(a, b Point) Rect {
	return Rect{Min: a, Max: b}.Normalize()
}

// Normalize returns r with Min holding the smaller coordinate on each axis.
func (r Rect) Normalize() Rect {
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Width returns the horizontal extent of the normalized rectangle.
func (r Rect) Width() float64 {
	return math.Abs(r.Max.X - r.Min.X)
}

// Height returns the vertical extent of the normalized rectangle.
func (r Rect) Height() float64 {
	return math.Abs(r.Max.Y - r.Min.Y)
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Expand returns r grown by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	r = r.Normalize()
	r.Min.X -= margin
	r.Min.Y -= margin
	r.Max.X += margin
	r.Max.Y += margin
	return r
}

// PointInRect reports whether p lies inside r, boundary inclusive. The
// rectangle is normalized first, so rectangles with negative width or
// height test the same as their canonical form.
func PointInRect(p Point, r Rect) bool {
	r = r.Normalize()
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// RectsIntersect reports whether r1 and r2 overlap. Rectangles touching
// along an edge count as intersecting.
func RectsIntersect(r1, r2 Rect) bool {
	r1 = r1.Normalize()
	r2 = r2.Normalize()
	if r1.Max.X < r2.Min.X || r2.Max.X < r1.Min.X {
		return false
	}
	if r1.Max.Y < r2.Min.Y || r2.Max.Y < r1.Min.Y {
		return false
	}
	return true
}

// SegmentsIntersect reports whether segment p1-p2 crosses segment p3-p4.
// Parallel segments are handled by falling back to a perpendicular-distance
// colinearity check plus 1D interval overlap on the axis with more spread;
// parallel but offset segments do not intersect.
func SegmentsIntersect(p1, p2, p3, p4 Point) bool {
	d1 := p2.Sub(p1)
	d2 := p4.Sub(p3)
	denom := d1.X*d2.Y - d1.Y*d2.X

	if math.Abs(denom) < Epsilon {
		// Parallel. Intersect only if colinear and overlapping.
		if !colinear(p1, p2, p3) {
			return false
		}
		if math.Abs(d1.X) >= math.Abs(d1.Y) {
			return intervalsOverlap(p1.X, p2.X, p3.X, p4.X)
		}
		return intervalsOverlap(p1.Y, p2.Y, p3.Y, p4.Y)
	}

	// Parametric intersection: p1 + t*d1 == p3 + u*d2.
	t := ((p3.X-p1.X)*d2.Y - (p3.Y-p1.Y)*d2.X) / denom
	u := ((p3.X-p1.X)*d1.Y - (p3.Y-p1.Y)*d1.X) / denom
	return t >= 0 && t <= 1 && u >= 0 && u <= 1
}

// SegmentIntersectsRect reports whether segment a-b touches r: either
// endpoint inside, the segment running along an edge within tolerance
// (a colinear overlap the general intersection formula misses), or a
// crossing of any of the four edges.
func SegmentIntersectsRect(a, b Point, r Rect) bool {
	r = r.Normalize()
	if PointInRect(a, r) || PointInRect(b, r) {
		return true
	}

	tl := r.Min
	tr := Point{X: r.Max.X, Y: r.Min.Y}
	br := r.Max
	bl := Point{X: r.Min.X, Y: r.Max.Y}

	edges := [4][2]Point{{tl, tr}, {tr, br}, {br, bl}, {bl, tl}}
	for _, e := range edges {
		if SegmentsIntersect(a, b, e[0], e[1]) {
			return true
		}
	}
	return false
}

// colinear reports whether p lies on the infinite line through a and b,
// within Epsilon of perpendicular distance.
func colinear(a, b, p Point) bool {
	d := b.Sub(a)
	length := math.Hypot(d.X, d.Y)
	if length < Epsilon {
		return Distance(a, p) < Epsilon
	}
	cross := d.X*(p.Y-a.Y) - d.Y*(p.X-a.X)
	return math.Abs(cross)/length < Epsilon
}

// intervalsOverlap reports whether [a1,a2] and [b1,b2] overlap once each
// pair is put in order.
func intervalsOverlap(a1, a2, b1, b2 float64) bool {
	if a1 > a2 {
		a1, a2 = a2, a1
	}
	if b1 > b2 {
		b1, b2 = b2, b1
	}
	return a1 <= b2+Epsilon && b1 <= a2+Epsilon
}
