package pattern

import (
	"fmt"
	"math"

	"honnef.co/go/curve"
)

// Page describes the paper tiles are printed on. All lengths are in cm.
type Page struct {
	Width, Height float64
	// Margin is left unprinted on every side of the page.
	Margin float64
	// Overlap is the width of the strip shared by neighbouring tiles.
	Overlap float64
}

// A4 is an A4 page in portrait orientation, with a 2 cm margin and 1 cm of
// overlap.
var A4 = Page{Width: 21, Height: 29.7, Margin: 2, Overlap: 1}

// Letter is a US Letter page in portrait orientation, with the same margin
// and overlap as [A4].
var Letter = Page{Width: 21.59, Height: 27.94, Margin: 2, Overlap: 1}

// Printable returns the size of the printable area of the page.
func (pg Page) Printable() (w, h float64) {
	return pg.Width - 2*pg.Margin, pg.Height - 2*pg.Margin
}

// Step returns how far apart the origins of neighbouring tiles are.
func (pg Page) Step() (x, y float64) {
	w, h := pg.Printable()
	return w - pg.Overlap, h - pg.Overlap
}

// Validate checks that every tile has a positive area left once margins and
// overlap are taken away. It returns an [*InvalidTilingParametersError]
// otherwise.
func (pg Page) Validate() error {
	invalid := func(reason string) error {
		return &InvalidTilingParametersError{Page: pg, Reason: reason}
	}
	for _, v := range []float64{pg.Width, pg.Height, pg.Margin, pg.Overlap} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("dimensions must be finite")
		}
	}
	if pg.Margin < 0 || pg.Overlap < 0 {
		return invalid("margin and overlap must not be negative")
	}
	if w, h := pg.Printable(); w <= 0 || h <= 0 {
		return invalid("margins leave no printable area")
	}
	if x, y := pg.Step(); x <= 0 || y <= 0 {
		return invalid("overlap leaves no area per tile")
	}
	return nil
}

// Bounded is implemented by drawings that can be tiled, such as [*Canvas],
// [Piece] and [Polygon].
type Bounded interface {
	BoundingBox() curve.Rect
}

// Tile is one page of a tiled drawing. Rectangles and points are in the
// coordinates of the drawing.
type Tile struct {
	// Row and Col locate the tile in the grid, starting at 0. Index is the
	// tile's position in row-major order.
	Row, Col, Index int
	// Rows and Cols are the dimensions of the grid.
	Rows, Cols int
	Page       Page
	// Origin is the top-left corner of the printable area.
	Origin curve.Point
	// Printable is the part of the drawing printed on the tile.
	Printable curve.Rect
	// Interior is the part of Printable not shared with a neighbouring tile.
	Interior curve.Rect
	// Cell is the part of the drawing's bounding box this tile is
	// responsible for. The cells of all tiles partition the bounding box.
	Cell curve.Rect
	// Marks are the centers of alignment crosses. Every mark lies in an
	// overlap strip and is shared with the neighbour on the other side of
	// the strip.
	Marks []curve.Point
}

// Transform maps drawing coordinates to page coordinates, with the origin at
// the page's top-left corner.
func (t Tile) Transform() curve.Affine {
	return curve.Translate(curve.Vec(t.Page.Margin-t.Origin.X, t.Page.Margin-t.Origin.Y))
}

// PageNumber returns the 1-based number of the tile's page.
func (t Tile) PageNumber() int { return t.Index + 1 }

// Label returns the text printed on the tile to identify it.
func (t Tile) Label() string {
	return fmt.Sprintf("Page %d of %d, tile (%d, %d) of (%d, %d)",
		t.PageNumber(), t.Rows*t.Cols, t.Row+1, t.Col+1, t.Rows, t.Cols)
}

// MaxTiles is the largest number of pages [TileDrawing] produces for one
// drawing.
const MaxTiles = 10000

// gridCount returns how many tiles with the given step are needed to cover
// length, and at least one.
func gridCount(length, step float64) float64 {
	return max(1, math.Ceil(length/step))
}

// TileDrawing partitions the bounding box of drawing into a grid of
// page-sized tiles, in row-major order.
//
// Each tile prints an area of page.Width - 2*page.Margin by page.Height -
// 2*page.Margin. Neighbouring tiles overlap by page.Overlap, so the grid has
// ceil(W / (page.Width - 2*page.Margin - page.Overlap)) columns, and
// analogously for rows. Every point of the bounding box lies in the interior of
// exactly one tile or in the overlap of two or four tiles. Two alignment marks
// are placed in each overlap strip, at a third and two thirds along it.
//
// The page is validated before any other work is done. Grids of more than
// [MaxTiles] pages are rejected with an [*InvalidTilingParametersError].
func TileDrawing(drawing Bounded, page Page) ([]Tile, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	bbox := drawing.BoundingBox()
	pw, ph := page.Printable()
	sx, sy := page.Step()
	fcols, frows := gridCount(bbox.Width(), sx), gridCount(bbox.Height(), sy)
	if n := fcols * frows; !(n <= MaxTiles) {
		return nil, &InvalidTilingParametersError{
			Page:   page,
			Reason: fmt.Sprintf("a %.4g x %.4g cm drawing needs %.4g pages, more than %d", bbox.Width(), bbox.Height(), n, MaxTiles),
		}
	}
	cols, rows := int(fcols), int(frows)

	// colX returns the left edge of column c's printable area.
	colX := func(c int) float64 { return bbox.X0 + float64(c)*sx }
	rowY := func(r int) float64 { return bbox.Y0 + float64(r)*sy }

	tiles := make([]Tile, 0, rows*cols)
	for r := range rows {
		for c := range cols {
			x0, y0 := colX(c), rowY(r)
			t := Tile{
				Row:       r,
				Col:       c,
				Index:     r*cols + c,
				Rows:      rows,
				Cols:      cols,
				Page:      page,
				Origin:    curve.Pt(x0, y0),
				Printable: curve.Rect{X0: x0, Y0: y0, X1: x0 + pw, Y1: y0 + ph},
			}

			t.Interior = t.Printable
			if c > 0 {
				t.Interior.X0 += page.Overlap
			}
			if c < cols-1 {
				t.Interior.X1 = colX(c + 1)
			}
			if r > 0 {
				t.Interior.Y0 += page.Overlap
			}
			if r < rows-1 {
				t.Interior.Y1 = rowY(r + 1)
			}

			t.Cell = curve.Rect{
				X0: x0,
				Y0: y0,
				X1: min(colX(c+1), bbox.X1),
				Y1: min(rowY(r+1), bbox.Y1),
			}
			if c == cols-1 {
				t.Cell.X1 = bbox.X1
			}
			if r == rows-1 {
				t.Cell.Y1 = bbox.Y1
			}

			// Strips shared with the neighbours to the left, right, top and
			// bottom.
			if c > 0 {
				t.Marks = append(t.Marks, verticalStripMarks(colX(c), page.Overlap, y0, ph)...)
			}
			if c < cols-1 {
				t.Marks = append(t.Marks, verticalStripMarks(colX(c+1), page.Overlap, y0, ph)...)
			}
			if r > 0 {
				t.Marks = append(t.Marks, horizontalStripMarks(rowY(r), page.Overlap, x0, pw)...)
			}
			if r < rows-1 {
				t.Marks = append(t.Marks, horizontalStripMarks(rowY(r+1), page.Overlap, x0, pw)...)
			}
			tiles = append(tiles, t)
		}
	}
	return tiles, nil
}

// verticalStripMarks returns the marks in the vertical overlap strip starting
// at x, for a row of tiles starting at y with printable height h.
func verticalStripMarks(x, overlap, y, h float64) []curve.Point {
	cx := x + overlap/2
	return []curve.Point{
		curve.Pt(cx, y+h/3),
		curve.Pt(cx, y+2*h/3),
	}
}

// horizontalStripMarks is like verticalStripMarks, for the horizontal strip
// starting at y.
func horizontalStripMarks(y, overlap, x, w float64) []curve.Point {
	cy := y + overlap/2
	return []curve.Point{
		curve.Pt(x+w/3, cy),
		curve.Pt(x+2*w/3, cy),
	}
}
