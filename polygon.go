package pattern

import (
	"iter"
	"math"
	"slices"

	"honnef.co/go/curve"
)

// Polygon is a closed polyline. A well-formed polygon has at least four
// points and its last point equals its first.
type Polygon []curve.Point

var _ curve.ClosedShape = Polygon(nil)

// ClosePolygon returns ring as a closed polygon, appending the first point if
// the ring doesn't already end on it.
func ClosePolygon(ring []curve.Point) Polygon {
	if len(ring) == 0 {
		return nil
	}
	poly := Polygon(slices.Clone(ring))
	if poly[0] != poly[len(poly)-1] {
		poly = append(poly, poly[0])
	}
	return poly
}

// IsClosed reports whether p has at least three distinct vertices and ends on
// its first point.
func (p Polygon) IsClosed() bool {
	return len(p) >= 4 && p[0] == p[len(p)-1]
}

// Gap returns the distance between the first and last point.
func (p Polygon) Gap() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[0].Distance(p[len(p)-1])
}

// Ring returns the vertices of p without the closing point.
func (p Polygon) Ring() []curve.Point {
	if len(p) > 1 && p[0] == p[len(p)-1] {
		return p[:len(p)-1]
	}
	return p
}

// PathElements implements [curve.Shape].
func (p Polygon) PathElements(tolerance float64) iter.Seq[curve.PathElement] {
	return func(yield func(curve.PathElement) bool) {
		ring := p.Ring()
		if len(ring) == 0 {
			return
		}
		if !yield(curve.MoveTo(ring[0])) {
			return
		}
		for _, pt := range ring[1:] {
			if !yield(curve.LineTo(pt)) {
				return
			}
		}
		yield(curve.ClosePath())
	}
}

// Path implements [curve.Shape].
func (p Polygon) Path(tolerance float64) curve.BezPath {
	return slices.Collect(p.PathElements(tolerance))
}

// Area implements [curve.ClosedShape]. Area is positive for polygons that are
// clockwise in a y-down coordinate system.
func (p Polygon) Area() float64 {
	ring := p.Ring()
	var sum float64
	for i, a := range ring {
		b := ring[(i+1)%len(ring)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Winding implements [curve.ClosedShape].
func (p Polygon) Winding(pt curve.Point) int {
	return p.Path(0).Winding(pt)
}

// Contains implements [curve.ClosedShape].
func (p Polygon) Contains(pt curve.Point) bool {
	return p.Winding(pt) != 0
}

// Perimeter implements [curve.Shape].
func (p Polygon) Perimeter(accuracy float64) float64 {
	ring := p.Ring()
	var l float64
	for i, a := range ring {
		l += a.Distance(ring[(i+1)%len(ring)])
	}
	return l
}

// BoundingBox implements [curve.Shape].
func (p Polygon) BoundingBox() curve.Rect {
	if len(p) == 0 {
		return curve.Rect{}
	}
	bbox := curve.Rect{X0: p[0].X, Y0: p[0].Y, X1: p[0].X, Y1: p[0].Y}
	for _, pt := range p[1:] {
		bbox = bbox.UnionPoint(pt)
	}
	return bbox
}

// Translate returns p moved by v.
func (p Polygon) Translate(v curve.Vec2) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Translate(v)
	}
	return out
}

// Reverse returns p traversed in the opposite direction, starting at the same
// point.
func (p Polygon) Reverse() Polygon {
	out := slices.Clone(p)
	slices.Reverse(out)
	return out
}

// IsSimple reports whether no two edges of p intersect other than adjacent
// edges at their shared vertex.
func (p Polygon) IsSimple() bool {
	ring := p.Ring()
	n := len(ring)
	if n < 3 {
		return false
	}
	for i := range n {
		a0, a1 := ring[i], ring[(i+1)%n]
		if a0 == a1 {
			return false
		}
		for j := i + 1; j < n; j++ {
			b0, b1 := ring[j], ring[(j+1)%n]
			switch {
			case j == i+1:
				// Adjacent edges only share a0-a1's end. They must not fold
				// back onto each other.
				if collinearOverlap(a0, a1, b1) {
					return false
				}
			case i == 0 && j == n-1:
				if collinearOverlap(a1, a0, b0) {
					return false
				}
			default:
				if segmentsIntersect(a0, a1, b0, b1) {
					return false
				}
			}
		}
	}
	return true
}

func orient(a, b, c curve.Point) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// collinearOverlap reports whether the segments shared-a and shared-b, which
// share the vertex shared, point in the same direction and thus overlap.
func collinearOverlap(a, shared, b curve.Point) bool {
	u := a.Sub(shared)
	v := b.Sub(shared)
	return math.Abs(u.Cross(v)) <= 1e-12*u.Hypot()*v.Hypot() && u.Dot(v) > 0
}

func onSegment(a, b, p curve.Point) bool {
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// segmentsIntersect reports whether the closed segments a0-a1 and b0-b1 have a
// point in common.
func segmentsIntersect(a0, a1, b0, b1 curve.Point) bool {
	d1 := orient(b0, b1, a0)
	d2 := orient(b0, b1, a1)
	d3 := orient(a0, a1, b0)
	d4 := orient(a0, a1, b1)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(b0, b1, a0):
		return true
	case d2 == 0 && onSegment(b0, b1, a1):
		return true
	case d3 == 0 && onSegment(a0, a1, b0):
		return true
	case d4 == 0 && onSegment(a0, a1, b1):
		return true
	}
	return false
}

// horizontalCrossings returns the x coordinates at which the horizontal line
// at height y crosses the edges of ring, sorted in ascending order. An edge
// p-q crosses if y lies in the half-open interval between p.Y and q.Y, which
// counts every vertex exactly once.
func horizontalCrossings(ring []curve.Point, y float64) []float64 {
	var xs []float64
	n := len(ring)
	for i := range n {
		p, q := ring[i], ring[(i+1)%n]
		if (p.Y <= y && y < q.Y) || (q.Y <= y && y < p.Y) {
			t := (y - p.Y) / (q.Y - p.Y)
			xs = append(xs, p.X+t*(q.X-p.X))
		}
	}
	slices.Sort(xs)
	return xs
}

// verticalHit is an intersection of a vertical line with an edge of a ring.
type verticalHit struct {
	// Edge is the index of the edge's first vertex.
	Edge int
	Pt   curve.Point
}

// verticalCrossings returns where the vertical line at x crosses the edges of
// ring, using the same half-open rule as horizontalCrossings.
func verticalCrossings(ring []curve.Point, x float64) []verticalHit {
	var hits []verticalHit
	n := len(ring)
	for i := range n {
		p, q := ring[i], ring[(i+1)%n]
		if (p.X <= x && x < q.X) || (q.X <= x && x < p.X) {
			t := (x - p.X) / (q.X - p.X)
			hits = append(hits, verticalHit{Edge: i, Pt: curve.Pt(x, p.Y+t*(q.Y-p.Y))})
		}
	}
	return hits
}
