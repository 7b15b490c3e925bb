// Package geometry provides the pure 2D primitives the measurement engine
// is built on: points, rectangles, segment intersection, polygon area and
// polyline length. All functions are side-effect free and operate in
// whatever coordinate space the caller chooses; the canvas engine always
// supplies document space.
package geometry

import "math"

// Epsilon is the tolerance used for colinearity and parallelism checks.
// Callers comparing computed values should allow error at this granularity
// rather than testing exact equality.
const Epsilon = 1e-4

// Point is a position in a single 2D coordinate space.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p translated by -q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p with both coordinates multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Size is a width/height pair in one coordinate space.
type Size struct {
	Width  float64
	Height float64
}

// IsZero reports whether either dimension is non-positive.
func (s Size) IsZero() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Distance returns the Euclidean distance between p1 and p2.
func Distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// IsNear reports whether p lies within threshold of target.
func IsNear(p, target Point, threshold float64) bool {
	return Distance(p, target) <= threshold
}

// PolylineLength returns the sum of consecutive segment lengths.
// Fewer than two points measure zero.
func PolylineLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// PolygonArea returns the enclosed area of the polygon described by points
// using the shoelace formula. The closing edge from the last point back to
// the first is implicit. Fewer than three points enclose zero area.
func PolygonArea(points []Point) float64 {
	return math.Abs(SignedPolygonArea(points))
}

// SignedPolygonArea returns the shoelace area with its winding sign:
// positive for one winding order, negative for the other.
func SignedPolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	for i := range points {
		j := (i + 1) % len(points)
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// BoundingBox returns the axis-aligned bounding rectangle of points.
// An empty input yields a degenerate zero-size rectangle at the origin.
func BoundingBox(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}
