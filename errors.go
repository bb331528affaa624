package pattern

import (
	"fmt"
	"strings"
)

// DegenerateCurveError is returned by [NewSpline] when the input points cannot
// describe a curve: fewer than three distinct points, or two equal consecutive
// points.
type DegenerateCurveError struct {
	// Index of the offending point, or -1 if the input as a whole is too short.
	Index  int
	Reason string
}

func (err *DegenerateCurveError) Error() string {
	if err.Index < 0 {
		return fmt.Sprintf("degenerate curve: %s", err.Reason)
	}
	return fmt.Sprintf("degenerate curve at point %d: %s", err.Index, err.Reason)
}

// RecipeCycleError reports a drafting recipe whose point formulas depend on
// each other cyclically. It always indicates a bug in the recipe.
type RecipeCycleError struct {
	Garment string
	// Points lists the rules that could not be ordered, in declaration order.
	Points []string
}

func (err *RecipeCycleError) Error() string {
	return fmt.Sprintf("recipe %q: dependency cycle among points %s",
		err.Garment, strings.Join(err.Points, ", "))
}

// UndefinedPointError reports a recipe that references a construction point
// no rule defines.
type UndefinedPointError struct {
	Garment string
	// Referrer is the rule or piece that holds the reference.
	Referrer string
	Point    string
}

func (err *UndefinedPointError) Error() string {
	return fmt.Sprintf("recipe %q: %s references undefined point %q", err.Garment, err.Referrer, err.Point)
}

// UnknownMeasurementError reports a measurement name that neither the
// measurement set nor its profile defines.
type UnknownMeasurementError struct {
	Name string
}

func (err *UnknownMeasurementError) Error() string {
	return fmt.Sprintf("unknown measurement %q", err.Name)
}

// InvalidMeasurementError reports a measurement override, or a measurement
// with ease applied, that isn't a positive, finite number of centimeters.
type InvalidMeasurementError struct {
	Name  string
	Value float64
}

func (err *InvalidMeasurementError) Error() string {
	return fmt.Sprintf("invalid measurement %s = %g: must be positive and finite", err.Name, err.Value)
}

// OpenContourError is returned when a built piece's boundary doesn't end where
// it starts. Shipped recipes never produce it.
type OpenContourError struct {
	Piece string
	// Gap is the distance between the first and last boundary point, in cm.
	Gap float64
}

func (err *OpenContourError) Error() string {
	return fmt.Sprintf("piece %q: open contour, gap of %g cm between first and last point", err.Piece, err.Gap)
}

// UnsupportedGeometryError is returned by [DecomposePiece] when a piece
// doesn't have the shape of a sleeve. Callers are expected to fall back to
// the undivided piece and tell the user about it.
type UnsupportedGeometryError struct {
	Piece  string
	Reason string
}

func (err *UnsupportedGeometryError) Error() string {
	return fmt.Sprintf("piece %q: cannot decompose: %s", err.Piece, err.Reason)
}

// InvalidSubPieceCountError is returned by [DecomposePiece] for counts other
// than 2 and 3.
type InvalidSubPieceCountError struct {
	N int
}

func (err *InvalidSubPieceCountError) Error() string {
	return fmt.Sprintf("cannot decompose into %d pieces, only 2 and 3 are supported", err.N)
}

// InvalidTilingParametersError is returned when a page leaves no positive area
// per tile once margins and overlap are taken away.
type InvalidTilingParametersError struct {
	Page   Page
	Reason string
}

func (err *InvalidTilingParametersError) Error() string {
	return fmt.Sprintf("invalid page %gx%g (margin %g, overlap %g): %s",
		err.Page.Width, err.Page.Height, err.Page.Margin, err.Page.Overlap, err.Reason)
}

// RecipeError reports a drafting recipe that is malformed in a way other than
// a cycle or an undefined point, such as a duplicate point name or an outline
// whose runs don't connect.
type RecipeError struct {
	Garment string
	Reason  string
}

func (err *RecipeError) Error() string {
	return fmt.Sprintf("recipe %q: %s", err.Garment, err.Reason)
}

// UnknownGarmentError is returned by [BuildPieces] for a garment without a
// registered recipe.
type UnknownGarmentError struct {
	Garment string
}

func (err *UnknownGarmentError) Error() string {
	return fmt.Sprintf("unknown garment %q", err.Garment)
}

// UnknownFeatureError reports a style feature that the garment's recipe
// doesn't offer.
type UnknownFeatureError struct {
	Garment string
	Feature string
}

func (err *UnknownFeatureError) Error() string {
	return fmt.Sprintf("garment %q has no feature %q", err.Garment, err.Feature)
}
