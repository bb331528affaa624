package pattern

import (
	"fmt"
	"math"
	"slices"

	"honnef.co/go/curve"
)

// Side is a horizontal side of a piece.
type Side int

const (
	Left Side = iota + 1
	Right
)

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Labels of the sub-pieces produced by [DecomposePiece].
const (
	UpperSleeveLabel = "Upper Sleeve (oversleeve)"
	UnderSleeveLabel = "Under Sleeve (undersleeve)"
	CuffLabel        = "Cuff"
)

const (
	// minSleeveAspect is the smallest height to width ratio accepted as a
	// sleeve.
	minSleeveAspect = 1.2
	// capRegion, elbowRegion are the relative heights at which the cap and
	// elbow regions end.
	capRegion   = 0.3
	elbowRegion = 0.7
	// cuffCut is the relative height of the cut that separates the cuff band
	// in a three-piece decomposition.
	cuffCut = 0.78
)

// biasFraction returns the share of the sleeve's width, at relative height
// rel, that is given to the back piece.
func biasFraction(rel float64) float64 {
	switch {
	case rel <= capRegion:
		return 0.6
	case rel <= elbowRegion:
		return 0.55
	default:
		return 0.5
	}
}

// Seam is a line shared by two sub-pieces. Both pieces contain Points
// verbatim as consecutive boundary vertices, in opposite directions.
type Seam struct {
	Pieces [2]string
	Points []curve.Point
}

// Decomposition is the result of [DecomposePiece].
type Decomposition struct {
	// Source is the decomposed piece. It is not modified.
	Source Piece
	// Back is the side of the source piece found to be the back of the
	// sleeve.
	Back Side
	// Pieces are the sub-pieces: the upper sleeve, the under sleeve, and for
	// three-piece decompositions, the cuff.
	Pieces []Piece
	// SplitLine runs from the cap to the cuff and separates the upper and
	// under sleeve.
	SplitLine []curve.Point
	Seams     []Seam
}

type decomposeConfig struct {
	tolerance float64
	samples   int
}

// A DecomposeOption configures [DecomposePiece].
type DecomposeOption func(*decomposeConfig)

// WithTolerance sets the tolerance used to sample curved edges of the source
// piece. The default is [DefaultTolerance], which also replaces tolerances
// that aren't positive.
func WithTolerance(tol float64) DecomposeOption {
	return func(cfg *decomposeConfig) { cfg.tolerance = clampTolerance(tol) }
}

// WithSplitSamples sets the number of height bands the split line is
// computed for. The split line has samples-1 interior points. The default
// is 40.
func WithSplitSamples(n int) DecomposeOption {
	return func(cfg *decomposeConfig) { cfg.samples = max(n, 2) }
}

// DecomposePiece splits a fitted sleeve into n sub-pieces, where n is 2 or 3.
//
// The split line runs from cap to cuff, biased towards the back of the sleeve,
// which is the side on which the cap extends further from its apex. At every
// height the back piece receives 60% of the sleeve's width in the top 30% of
// its height, 55% down to 70% of its height, and half below. The piece on the
// back side becomes the upper sleeve, the other the under sleeve. With n = 3,
// both are additionally cut horizontally at 78% of the height, and the two
// lower parts are merged into a cuff.
//
// Sub-pieces have polygonal boundaries that share the split line and cut lines
// exactly. Their areas add up to the area of the source's outline, sampled at
// the configured tolerance.
//
// DecomposePiece returns an [*InvalidSubPieceCountError] for other values of
// n, and an [*UnsupportedGeometryError] if the piece isn't shaped like a
// sleeve: if it is less than 1.2 times as high as wide, if its topmost point
// isn't in the middle half of its width, or if some horizontal cross-section
// isn't a single interval.
func DecomposePiece(p Piece, n int, opts ...DecomposeOption) (Decomposition, error) {
	if n != 2 && n != 3 {
		return Decomposition{}, &InvalidSubPieceCountError{N: n}
	}
	cfg := decomposeConfig{tolerance: DefaultTolerance, samples: 40}
	for _, opt := range opts {
		opt(&cfg)
	}
	unsupported := func(format string, args ...any) error {
		return &UnsupportedGeometryError{Piece: p.Name, Reason: fmt.Sprintf(format, args...)}
	}

	ring := slices.Clone(p.Outline(cfg.tolerance).Ring())
	if len(ring) < 3 {
		return Decomposition{}, unsupported("outline has fewer than 3 vertices")
	}
	bbox := Polygon(ring).BoundingBox()
	w, h := bbox.Width(), bbox.Height()
	if w <= 0 || h <= 0 {
		return Decomposition{}, unsupported("outline has no area")
	}
	if h/w < minSleeveAspect {
		return Decomposition{}, unsupported("height %.4g cm is less than %g times the width %.4g cm", h, minSleeveAspect, w)
	}

	apex := ring[0]
	for _, pt := range ring[1:] {
		if pt.Y < apex.Y {
			apex = pt
		}
	}
	if rel := (apex.X - bbox.X0) / w; rel < 0.25 || rel > 0.75 {
		return Decomposition{}, unsupported("no tapering cap: topmost point at %.0f%% of the width", rel*100)
	}

	back := capBackSide(ring, apex, bbox.Y0+capRegion*h)

	heights := make([]float64, 0, cfg.samples)
	for k := 1; k < cfg.samples; k++ {
		heights = append(heights, bbox.Y0+h*float64(k)/float64(cfg.samples))
	}
	cutY := bbox.Y0 + cuffCut*h
	if n == 3 && !slices.Contains(heights, cutY) {
		heights = append(heights, cutY)
		slices.Sort(heights)
	}

	interior := make([]curve.Point, len(heights))
	for i, y := range heights {
		xs := horizontalCrossings(ring, y)
		if len(xs) != 2 {
			return Decomposition{}, unsupported("cross-section at y = %.4g is not a single interval", y)
		}
		lo, hi := xs[0], xs[1]
		f := biasFraction((y - bbox.Y0) / h)
		x := lo + f*(hi-lo)
		if back == Right {
			x = hi - f*(hi-lo)
		}
		interior[i] = curve.Pt(x, y)
	}

	top, ok := nearestVertical(ring, interior[0], true)
	if !ok {
		return Decomposition{}, unsupported("split line doesn't meet the cap")
	}
	ring, _ = insertVertex(ring, top.Pt, top.Edge)
	bottom, ok := nearestVertical(ring, interior[len(interior)-1], false)
	if !ok {
		return Decomposition{}, unsupported("split line doesn't meet the cuff")
	}
	ring, _ = insertVertex(ring, bottom.Pt, bottom.Edge)

	splitLine := make([]curve.Point, 0, len(interior)+2)
	splitLine = append(splitLine, top.Pt)
	splitLine = append(splitLine, interior...)
	splitLine = append(splitLine, bottom.Pt)

	first, second, err := splitRing(ring, splitLine)
	if err != nil {
		return Decomposition{}, unsupported("%s", err)
	}
	upper, under := first, second
	if classifySide(first, splitLine) != back {
		upper, under = second, first
	}

	d := Decomposition{
		Source:    p,
		Back:      back,
		SplitLine: splitLine,
	}
	upperName, underName, cuffName := p.Name+"-upper", p.Name+"-under", p.Name+"-cuff"

	if n == 2 {
		d.Pieces = []Piece{
			subPiece(upperName, UpperSleeveLabel, p.Cutting, upper, top.Pt, bottom.Pt),
			subPiece(underName, UnderSleeveLabel, p.Cutting, under, top.Pt, bottom.Pt),
		}
		d.Seams = []Seam{{Pieces: [2]string{upperName, underName}, Points: splitLine}}
		return d, nil
	}

	cutIdx := slices.Index(heights, cutY) + 1
	cut := splitLine[cutIdx]

	upperTop, upperBottom, upperCut, err := cutRing(upper, cut)
	if err != nil {
		return Decomposition{}, unsupported("%s", err)
	}
	underTop, underBottom, underCut, err := cutRing(under, cut)
	if err != nil {
		return Decomposition{}, unsupported("%s", err)
	}
	cuff, err := mergeAlong(upperBottom, underBottom, splitLine[cutIdx:])
	if err != nil {
		return Decomposition{}, unsupported("%s", err)
	}
	if (cuff.Area() > 0) != (upperTop.Area() > 0) {
		cuff = cuff.Reverse()
	}

	d.Pieces = []Piece{
		subPiece(upperName, UpperSleeveLabel, p.Cutting, upperTop, top.Pt, cut),
		subPiece(underName, UnderSleeveLabel, p.Cutting, underTop, top.Pt, cut),
		subPiece(cuffName, CuffLabel, p.Cutting, cuff, cut, bottom.Pt),
	}
	d.Seams = []Seam{
		{Pieces: [2]string{upperName, underName}, Points: splitLine[:cutIdx+1]},
		{Pieces: [2]string{upperName, cuffName}, Points: upperCut},
		{Pieces: [2]string{underName, cuffName}, Points: underCut},
	}
	return d, nil
}

// capBackSide returns the side on which the cap, the part of ring above
// capBottom, extends further from the apex. Ties go to the left.
func capBackSide(ring []curve.Point, apex curve.Point, capBottom float64) Side {
	minX, maxX := apex.X, apex.X
	for _, pt := range ring {
		if pt.Y <= capBottom {
			minX = min(minX, pt.X)
			maxX = max(maxX, pt.X)
		}
	}
	for _, x := range horizontalCrossings(ring, capBottom) {
		minX = min(minX, x)
		maxX = max(maxX, x)
	}
	if apex.X-minX >= maxX-apex.X {
		return Left
	}
	return Right
}

// nearestVertical returns the boundary point closest to from directly above
// (or below) it.
func nearestVertical(ring []curve.Point, from curve.Point, above bool) (verticalHit, bool) {
	var best verticalHit
	found := false
	for _, hit := range verticalCrossings(ring, from.X) {
		if above && hit.Pt.Y < from.Y && (!found || hit.Pt.Y > best.Pt.Y) {
			best, found = hit, true
		}
		if !above && hit.Pt.Y > from.Y && (!found || hit.Pt.Y < best.Pt.Y) {
			best, found = hit, true
		}
	}
	return best, found
}

// insertVertex inserts pt, which lies on the edge starting at vertex edge,
// into ring. If pt is one of the edge's end points, ring is returned
// unchanged. It returns the index of pt in the resulting ring.
func insertVertex(ring []curve.Point, pt curve.Point, edge int) ([]curve.Point, int) {
	next := (edge + 1) % len(ring)
	switch pt {
	case ring[edge]:
		return ring, edge
	case ring[next]:
		return ring, next
	}
	return slices.Insert(ring, edge+1, pt), edge + 1
}

// chain returns the vertices of ring from index i forward to index j,
// inclusive, wrapping around.
func chain(ring []curve.Point, i, j int) []curve.Point {
	var out []curve.Point
	for k := i; ; k = (k + 1) % len(ring) {
		out = append(out, ring[k])
		if k == j {
			return out
		}
	}
}

// splitRing splits ring along line, whose first and last points must be
// vertices of ring and whose other points must lie inside it. Both returned
// polygons are closed; the first traverses line backwards, the second
// forwards.
func splitRing(ring []curve.Point, line []curve.Point) (Polygon, Polygon, error) {
	a, b := line[0], line[len(line)-1]
	ia, ib := slices.Index(ring, a), slices.Index(ring, b)
	if ia < 0 || ib < 0 || ia == ib {
		return nil, nil, fmt.Errorf("split line end points are not distinct boundary vertices")
	}
	inner := line[1 : len(line)-1]

	p1 := chain(ring, ia, ib)
	for i := len(inner) - 1; i >= 0; i-- {
		p1 = append(p1, inner[i])
	}
	p2 := chain(ring, ib, ia)
	p2 = append(p2, inner...)
	return ClosePolygon(p1), ClosePolygon(p2), nil
}

// classifySide returns the side of line on which the vertices of poly lie,
// by majority. Each vertex not on line is compared to the point of line
// nearest to it in height.
func classifySide(poly Polygon, line []curve.Point) Side {
	count := 0
	for _, pt := range poly.Ring() {
		if slices.Contains(line, pt) {
			continue
		}
		nearest := line[0]
		for _, s := range line[1:] {
			if math.Abs(s.Y-pt.Y) < math.Abs(nearest.Y-pt.Y) {
				nearest = s
			}
		}
		if pt.X < nearest.X {
			count++
		} else {
			count--
		}
	}
	if count > 0 {
		return Left
	}
	return Right
}

// levelHit is a point where a horizontal line meets a ring.
type levelHit struct {
	Edge int
	Pt   curve.Point
}

// levelCrossings returns where the horizontal line at y meets ring. A vertex
// lying on the line is reported once, as the start of its outgoing edge.
func levelCrossings(ring []curve.Point, y float64) []levelHit {
	var hits []levelHit
	n := len(ring)
	for i := range n {
		p, q := ring[i], ring[(i+1)%n]
		switch {
		case p.Y == y:
			hits = append(hits, levelHit{Edge: i, Pt: p})
		case (p.Y-y)*(q.Y-y) < 0:
			t := (y - p.Y) / (q.Y - p.Y)
			hits = append(hits, levelHit{Edge: i, Pt: curve.Pt(p.X+t*(q.X-p.X), y)})
		}
	}
	return hits
}

// cutRing cuts poly horizontally through through, which must be one of its
// vertices. It returns the parts above and below the cut, and the cut line,
// which starts at through.
func cutRing(poly Polygon, through curve.Point) (top, bottom Polygon, cut []curve.Point, err error) {
	ring := slices.Clone(poly.Ring())
	hits := levelCrossings(ring, through.Y)
	if len(hits) != 2 {
		return nil, nil, nil, fmt.Errorf("cut at y = %.4g crosses the boundary %d times", through.Y, len(hits))
	}
	other := hits[0]
	if other.Pt == through {
		other = hits[1]
	}
	if other.Pt == through {
		return nil, nil, nil, fmt.Errorf("cut at y = %.4g is degenerate", through.Y)
	}
	ring, _ = insertVertex(ring, other.Pt, other.Edge)
	cut = []curve.Point{through, other.Pt}
	p1, p2, err := splitRing(ring, cut)
	if err != nil {
		return nil, nil, nil, err
	}
	top, bottom = p1, p2
	if p2.BoundingBox().Y0 < p1.BoundingBox().Y0 {
		top, bottom = p2, p1
	}
	return top, bottom, cut, nil
}

// rotateTo returns ring rotated to start at pt, traversed such that its
// second vertex is next. It reports false if that isn't possible.
func rotateTo(ring []curve.Point, pt, next curve.Point) ([]curve.Point, bool) {
	i := slices.Index(ring, pt)
	if i < 0 {
		return nil, false
	}
	out := append(slices.Clone(ring[i:]), ring[:i]...)
	if len(out) > 1 && out[1] == next {
		return out, true
	}
	slices.Reverse(out[1:])
	if len(out) > 1 && out[1] == next {
		return out, true
	}
	return nil, false
}

// mergeAlong merges two polygons that share seam as a run of consecutive
// vertices, removing the seam's interior.
func mergeAlong(a, b Polygon, seam []curve.Point) (Polygon, error) {
	m := len(seam)
	ra, ok1 := rotateTo(a.Ring(), seam[0], seam[1])
	rb, ok2 := rotateTo(b.Ring(), seam[m-1], seam[m-2])
	if !ok1 || !ok2 || len(ra) < m || len(rb) < m {
		return nil, fmt.Errorf("pieces to merge don't share the seam")
	}
	for i := range m {
		if ra[i] != seam[i] || rb[i] != seam[m-1-i] {
			return nil, fmt.Errorf("pieces to merge don't share the seam")
		}
	}
	out := []curve.Point{seam[m-1]}
	out = append(out, ra[m:]...)
	out = append(out, seam[0])
	out = append(out, rb[m:]...)
	return ClosePolygon(out), nil
}

func subPiece(name, label, cutting string, outline Polygon, notches ...curve.Point) Piece {
	return Piece{
		Name:      name,
		Label:     label,
		Cutting:   cutting,
		Edges:     []Edge{{Points: outline}},
		Grainline: verticalGrainline(outline.BoundingBox()),
		Notches:   notches,
	}
}
