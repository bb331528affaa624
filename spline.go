package pattern

import (
	"iter"
	"slices"
	"sort"

	"honnef.co/go/curve"
)

// coincidenceEpsilon is the distance below which two points are considered
// the same, in cm.
const coincidenceEpsilon = 1e-9

// Spline is a natural cubic spline that interpolates a sequence of points,
// parameterized by cumulative chord length.
//
// The spline is stored as one cubic Bézier per interval between consecutive
// knots. The conversion from polynomial to Bézier form is exact, so the curve
// has continuous second derivatives inside the knot range and its tangent is
// continuous at every knot. Its second derivative vanishes at both ends.
type Spline struct {
	knots  []curve.Point
	params []float64
	segs   []curve.CubicBez
}

var _ curve.Shape = (*Spline)(nil)

// NewSpline returns the natural cubic spline through pts, in order. It returns
// a [*DegenerateCurveError] if pts contains fewer than three distinct points,
// two consecutive points that coincide, or points that aren't finite.
func NewSpline(pts []curve.Point) (*Spline, error) {
	if len(pts) < 3 {
		return nil, &DegenerateCurveError{Index: -1, Reason: "need at least 3 points"}
	}
	for i, pt := range pts {
		if pt.IsNaN() || pt.IsInf() {
			return nil, &DegenerateCurveError{Index: i, Reason: "point is not finite"}
		}
		if i > 0 && pt.Distance(pts[i-1]) <= coincidenceEpsilon {
			return nil, &DegenerateCurveError{Index: i, Reason: "point coincides with its predecessor"}
		}
	}
	if countDistinct(pts) < 3 {
		return nil, &DegenerateCurveError{Index: -1, Reason: "need at least 3 distinct points"}
	}

	n := len(pts)
	params := make([]float64, n)
	for i := 1; i < n; i++ {
		params[i] = params[i-1] + pts[i].Distance(pts[i-1])
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, pt := range pts {
		xs[i], ys[i] = pt.X, pt.Y
	}
	mx := naturalSecondDerivatives(params, xs)
	my := naturalSecondDerivatives(params, ys)

	segs := make([]curve.CubicBez, n-1)
	for i := range segs {
		h := params[i+1] - params[i]
		d0 := curve.Vec(
			(xs[i+1]-xs[i])/h-h*(2*mx[i]+mx[i+1])/6,
			(ys[i+1]-ys[i])/h-h*(2*my[i]+my[i+1])/6,
		)
		d1 := curve.Vec(
			(xs[i+1]-xs[i])/h+h*(2*mx[i+1]+mx[i])/6,
			(ys[i+1]-ys[i])/h+h*(2*my[i+1]+my[i])/6,
		)
		segs[i] = curve.CubicBez{
			P0: pts[i],
			P1: pts[i].Translate(d0.Mul(h / 3)),
			P2: pts[i+1].Translate(d1.Mul(-h / 3)),
			P3: pts[i+1],
		}
	}

	return &Spline{
		knots:  slices.Clone(pts),
		params: params,
		segs:   segs,
	}, nil
}

func countDistinct(pts []curve.Point) int {
	var distinct []curve.Point
outer:
	for _, pt := range pts {
		for _, d := range distinct {
			if pt.Distance(d) <= coincidenceEpsilon {
				continue outer
			}
		}
		distinct = append(distinct, pt)
		if len(distinct) >= 3 {
			break
		}
	}
	return len(distinct)
}

// naturalSecondDerivatives solves the tridiagonal system for the second
// derivatives of the natural cubic spline through (t[i], y[i]), using the
// Thomas algorithm. The first and last entries are zero.
func naturalSecondDerivatives(t, y []float64) []float64 {
	n := len(t)
	m := make([]float64, n)
	if n < 3 {
		return m
	}

	// Unknowns are m[1] through m[n-2].
	k := n - 2
	sub := make([]float64, k)
	diag := make([]float64, k)
	sup := make([]float64, k)
	rhs := make([]float64, k)
	for j := range k {
		i := j + 1
		h0 := t[i] - t[i-1]
		h1 := t[i+1] - t[i]
		sub[j] = h0
		diag[j] = 2 * (h0 + h1)
		sup[j] = h1
		rhs[j] = 6 * ((y[i+1]-y[i])/h1 - (y[i]-y[i-1])/h0)
	}

	for j := 1; j < k; j++ {
		w := sub[j] / diag[j-1]
		diag[j] -= w * sup[j-1]
		rhs[j] -= w * rhs[j-1]
	}
	m[k] = rhs[k-1] / diag[k-1]
	for j := k - 2; j >= 0; j-- {
		m[j+1] = (rhs[j] - sup[j]*m[j+2]) / diag[j]
	}
	return m
}

// Knots returns the interpolated points.
func (s *Spline) Knots() []curve.Point { return slices.Clone(s.knots) }

// Params returns the curve parameter of each knot. The first is 0 and the last
// is [Spline.Length].
func (s *Spline) Params() []float64 { return slices.Clone(s.params) }

// Length returns the total chord length of the knots, which is the parameter
// range of the spline. It is not the arc length of the curve.
func (s *Spline) Length() float64 { return s.params[len(s.params)-1] }

// Segments returns one cubic Bézier per pair of consecutive knots.
func (s *Spline) Segments() []curve.CubicBez { return slices.Clone(s.segs) }

// Start returns the first knot.
func (s *Spline) Start() curve.Point { return s.knots[0] }

// End returns the last knot.
func (s *Spline) End() curve.Point { return s.knots[len(s.knots)-1] }

// Eval evaluates the spline at parameter t. Parameters outside [0, Length]
// are clamped; the spline never extrapolates. At the parameter of a knot, Eval
// returns that knot exactly.
func (s *Spline) Eval(t float64) curve.Point {
	if t <= 0 {
		return s.knots[0]
	}
	if t >= s.Length() {
		return s.knots[len(s.knots)-1]
	}
	i := sort.SearchFloat64s(s.params, t)
	if s.params[i] == t {
		return s.knots[i]
	}
	// params[i-1] < t < params[i]
	i--
	u := (t - s.params[i]) / (s.params[i+1] - s.params[i])
	return s.segs[i].Eval(u)
}

// Sample returns n points evenly spaced in parameter, including both ends. n
// is raised to 2 if smaller.
func (s *Spline) Sample(n int) []curve.Point {
	n = max(n, 2)
	out := make([]curve.Point, n)
	l := s.Length()
	for i := range n {
		out[i] = s.Eval(l * float64(i) / float64(n-1))
	}
	out[n-1] = s.End()
	return out
}

// PathElements implements [curve.Shape]. The tolerance is ignored; the spline
// is represented exactly.
func (s *Spline) PathElements(tolerance float64) iter.Seq[curve.PathElement] {
	return func(yield func(curve.PathElement) bool) {
		if !yield(curve.MoveTo(s.knots[0])) {
			return
		}
		for _, c := range s.segs {
			if !yield(curve.CubicTo(c.P1, c.P2, c.P3)) {
				return
			}
		}
	}
}

// Path implements [curve.Shape].
func (s *Spline) Path(tolerance float64) curve.BezPath {
	return slices.Collect(s.PathElements(0))
}

// Flatten approximates the spline by a polyline whose distance from the curve
// doesn't exceed tolerance. The polyline starts and ends at the end knots.
// Tolerances that aren't positive select [DefaultTolerance], and tolerances
// below [MinTolerance] are raised to it.
func (s *Spline) Flatten(tolerance float64) []curve.Point {
	var out []curve.Point
	for el := range curve.Flatten(s.PathElements(0), clampTolerance(tolerance)) {
		switch el.Kind {
		case curve.MoveToKind, curve.LineToKind:
			if len(out) == 0 || out[len(out)-1] != el.P0 {
				out = append(out, el.P0)
			}
		}
	}
	if len(out) == 0 || out[len(out)-1] != s.End() {
		out = append(out, s.End())
	}
	return out
}

// BoundingBox implements [curve.Shape].
func (s *Spline) BoundingBox() curve.Rect {
	bbox := s.segs[0].BoundingBox()
	for _, c := range s.segs[1:] {
		bbox = bbox.Union(c.BoundingBox())
	}
	return bbox
}

// Perimeter implements [curve.Shape]. It returns the arc length of the curve.
func (s *Spline) Perimeter(accuracy float64) float64 {
	var l float64
	for _, c := range s.segs {
		l += c.Arclen(accuracy / float64(len(s.segs)))
	}
	return l
}

// Translate returns the spline moved by v.
func (s *Spline) Translate(v curve.Vec2) *Spline {
	out := &Spline{
		knots:  make([]curve.Point, len(s.knots)),
		params: slices.Clone(s.params),
		segs:   make([]curve.CubicBez, len(s.segs)),
	}
	for i, pt := range s.knots {
		out.knots[i] = pt.Translate(v)
	}
	for i, c := range s.segs {
		out.segs[i] = c.Transform(curve.Translate(v))
	}
	return out
}

// Reverse returns the spline traversed from its last knot to its first.
func (s *Spline) Reverse() *Spline {
	n := len(s.knots)
	out := &Spline{
		knots:  make([]curve.Point, n),
		params: make([]float64, n),
		segs:   make([]curve.CubicBez, len(s.segs)),
	}
	l := s.Length()
	for i := range n {
		out.knots[i] = s.knots[n-1-i]
		out.params[i] = l - s.params[n-1-i]
	}
	for i, c := range s.segs {
		out.segs[len(s.segs)-1-i] = curve.CubicBez{P0: c.P3, P1: c.P2, P2: c.P1, P3: c.P0}
	}
	return out
}

// clampTolerance maps tolerance into [MinTolerance, +Inf), replacing values
// that aren't positive, NaN included, with DefaultTolerance.
func clampTolerance(tolerance float64) float64 {
	if !(tolerance > 0) {
		return DefaultTolerance
	}
	return max(tolerance, MinTolerance)
}
