package pattern

import (
	"slices"

	"honnef.co/go/curve"
)

// DefaultTolerance is the maximum distance, in cm, between a curved edge and
// the polyline it is sampled to for polygon operations.
const DefaultTolerance = 0.01

// MinTolerance is the smallest sampling tolerance honored, in cm. The number
// of samples grows without bound as the tolerance approaches zero.
const MinTolerance = 1e-6

// Edge is one run of a piece's boundary: either a straight polyline through
// Points, or a smooth curve interpolating them.
type Edge struct {
	Points []curve.Point
	// Curve is the spline through Points, or nil for straight edges.
	Curve *Spline
}

// LineEdge returns a straight edge through pts.
func LineEdge(pts ...curve.Point) Edge {
	return Edge{Points: slices.Clone(pts)}
}

// CurveEdge returns a smooth edge interpolating pts.
func CurveEdge(pts ...curve.Point) (Edge, error) {
	s, err := NewSpline(pts)
	if err != nil {
		return Edge{}, err
	}
	return Edge{Points: s.Knots(), Curve: s}, nil
}

// IsCurve reports whether e is a smooth curve.
func (e Edge) IsCurve() bool { return e.Curve != nil }

// Start returns the edge's first point.
func (e Edge) Start() curve.Point { return e.Points[0] }

// End returns the edge's last point.
func (e Edge) End() curve.Point { return e.Points[len(e.Points)-1] }

// Flatten returns the edge as a polyline, sampling curves to within tolerance.
func (e Edge) Flatten(tolerance float64) []curve.Point {
	if e.Curve != nil {
		return e.Curve.Flatten(tolerance)
	}
	return slices.Clone(e.Points)
}

// Translate returns e moved by v.
func (e Edge) Translate(v curve.Vec2) Edge {
	out := Edge{Points: make([]curve.Point, len(e.Points))}
	for i, pt := range e.Points {
		out.Points[i] = pt.Translate(v)
	}
	if e.Curve != nil {
		out.Curve = e.Curve.Translate(v)
	}
	return out
}

// Piece is a pattern piece: a closed boundary made of edges, plus the markings
// a cutter needs.
type Piece struct {
	// Name identifies the piece, e.g. "front" or "sleeve-upper".
	Name string
	// Label is the human-readable title printed on the piece.
	Label string
	// Cutting is the cutting instruction, e.g. "Cut 2".
	Cutting string
	// Edges form the boundary in traversal order. Each edge starts where the
	// previous one ends, and the last ends where the first starts.
	Edges     []Edge
	Grainline curve.Line
	// Notches are alignment points on the boundary.
	Notches []curve.Point
}

// NewPolygonPiece returns a piece whose boundary is the closed polygon ring,
// such as an outline produced by another drafting program. The ring must end
// on its first point and must not intersect itself. The grainline is placed
// vertically through the center of the bounding box.
func NewPolygonPiece(name, label string, ring []curve.Point) (Piece, error) {
	poly := Polygon(slices.Clone(ring))
	if len(poly) < 4 {
		return Piece{}, &UnsupportedGeometryError{Piece: name, Reason: "outline needs at least 3 vertices"}
	}
	if gap := poly.Gap(); gap > coincidenceEpsilon {
		return Piece{}, &OpenContourError{Piece: name, Gap: gap}
	}
	poly[len(poly)-1] = poly[0]
	if !poly.IsSimple() {
		return Piece{}, &UnsupportedGeometryError{Piece: name, Reason: "outline intersects itself"}
	}
	return Piece{
		Name:      name,
		Label:     label,
		Edges:     []Edge{{Points: poly}},
		Grainline: verticalGrainline(poly.BoundingBox()),
	}, nil
}

// verticalGrainline returns a grainline centered horizontally in bbox,
// running from 20% to 80% of its height.
func verticalGrainline(bbox curve.Rect) curve.Line {
	x := (bbox.X0 + bbox.X1) / 2
	h := bbox.Height()
	return curve.Line{
		P0: curve.Pt(x, bbox.Y0+0.2*h),
		P1: curve.Pt(x, bbox.Y0+0.8*h),
	}
}

// Outline returns the boundary as a closed polygon, with curved edges sampled
// to within tolerance. Points shared by consecutive edges appear once.
// Tolerances are clamped as by [Spline.Flatten].
func (p Piece) Outline(tolerance float64) Polygon {
	var out Polygon
	for _, e := range p.Edges {
		pts := e.Flatten(tolerance)
		if len(out) > 0 && len(pts) > 0 && out[len(out)-1] == pts[0] {
			pts = pts[1:]
		}
		out = append(out, pts...)
	}
	return out
}

// Path returns the boundary as a closed Bézier path. Curved edges are
// represented exactly.
func (p Piece) Path() curve.BezPath {
	var path curve.BezPath
	var cur curve.Point
	for i, e := range p.Edges {
		if i == 0 {
			path.MoveTo(e.Start())
		} else if e.Start() != cur {
			path.LineTo(e.Start())
		}
		if e.Curve != nil {
			for _, c := range e.Curve.Segments() {
				path.CubicTo(c.P1, c.P2, c.P3)
			}
		} else {
			for _, pt := range e.Points[1:] {
				path.LineTo(pt)
			}
		}
		cur = e.End()
	}
	if len(path) > 0 {
		path.ClosePath()
	}
	return path
}

// BoundingBox returns the smallest rectangle enclosing the boundary.
func (p Piece) BoundingBox() curve.Rect {
	if len(p.Edges) == 0 {
		return curve.Rect{}
	}
	return p.Path().BoundingBox()
}

// Area returns the unsigned area enclosed by the boundary, sampled at
// [DefaultTolerance].
func (p Piece) Area() float64 {
	a := p.Outline(DefaultTolerance).Area()
	if a < 0 {
		return -a
	}
	return a
}

// Translate returns a copy of p moved by v.
func (p Piece) Translate(v curve.Vec2) Piece {
	out := p
	out.Edges = make([]Edge, len(p.Edges))
	for i, e := range p.Edges {
		out.Edges[i] = e.Translate(v)
	}
	out.Grainline = p.Grainline.Translate(v)
	out.Notches = slices.Clone(p.Notches)
	for i, n := range out.Notches {
		out.Notches[i] = n.Translate(v)
	}
	return out
}

// Validate checks that the boundary, sampled at tolerance, is closed and
// simple. It returns an [*OpenContourError] or an [*UnsupportedGeometryError].
func (p Piece) Validate(tolerance float64) error {
	if len(p.Edges) == 0 {
		return &OpenContourError{Piece: p.Name}
	}
	for i, e := range p.Edges {
		next := p.Edges[(i+1)%len(p.Edges)]
		if gap := e.End().Distance(next.Start()); gap > coincidenceEpsilon {
			return &OpenContourError{Piece: p.Name, Gap: gap}
		}
	}
	outline := p.Outline(tolerance)
	if !outline.IsClosed() {
		return &OpenContourError{Piece: p.Name, Gap: outline.Gap()}
	}
	if !outline.IsSimple() {
		return &UnsupportedGeometryError{Piece: p.Name, Reason: "outline intersects itself"}
	}
	return nil
}
