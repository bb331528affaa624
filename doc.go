// Package pattern drafts full-scale garment sewing patterns from body
// measurements.
//
// All lengths are in centimeters. Coordinates follow the usual drawing
// convention: x grows to the right and y grows downwards.
//
// # Drafting
//
// A [Recipe] describes a garment declaratively: named construction points,
// each computed from measurements and previously computed points, and pieces
// whose outlines run through those points along straight lines or smooth
// curves. [BuildPieces] evaluates a built-in recipe against a set of
// [Measurements] and returns the resulting [Piece] values. Curves are
// natural cubic splines (see [NewSpline]) that pass exactly through their
// construction points and are stored as cubic Béziers, so drawings keep
// their exact shape at any scale.
//
// # Sleeves
//
// [DecomposePiece] splits a fitted sleeve into an upper and an under sleeve,
// and optionally a separate cuff. The split line is biased towards the back
// of the arm, following tailoring practice, and is shared verbatim by the
// pieces on either side of it.
//
// # Layout and printing
//
// A [Canvas] places pieces next to each other for printing. [TileDrawing]
// partitions any drawing larger than a page into a grid of overlapping
// [Tile] values, each with alignment marks shared with its neighbours, so
// that the printed pages can be taped back together.
//
// [Generate] runs the whole pipeline for one request and returns its
// artifacts in a fixed order.
//
// Geometry primitives are those of [honnef.co/go/curve].
package pattern
