package pattern

import (
	"slices"

	"honnef.co/go/curve"
)

// DefaultSpacing is the gap, in cm, that [Layout] leaves between pieces.
const DefaultSpacing = 5.0

// Placement is a piece placed on a canvas.
type Placement struct {
	// Piece is the piece in its own coordinates.
	Piece Piece
	// Offset moves the piece to its place on the canvas.
	Offset curve.Vec2
}

// BoundingBox returns the placed piece's bounding box in canvas coordinates.
func (pl Placement) BoundingBox() curve.Rect {
	return pl.Piece.BoundingBox().Translate(pl.Offset)
}

// Placed returns a copy of the piece moved to its place on the canvas.
func (pl Placement) Placed() Piece {
	return pl.Piece.Translate(pl.Offset)
}

// Canvas arranges pieces in a single row, left to right in the order they are
// added, with their top edges on y = 0 and a fixed gap between neighbouring
// bounding boxes. Pieces can only be appended.
type Canvas struct {
	spacing    float64
	placements []Placement
	// right is the right edge of the last placed piece.
	right float64
}

// NewCanvas returns an empty canvas that keeps spacing cm between pieces.
// Negative spacing is treated as zero.
func NewCanvas(spacing float64) *Canvas {
	return &Canvas{spacing: max(spacing, 0)}
}

// Layout returns a canvas with [DefaultSpacing] holding pieces, in order.
func Layout(pieces ...Piece) *Canvas {
	c := NewCanvas(DefaultSpacing)
	for _, p := range pieces {
		c.Add(p)
	}
	return c
}

// Spacing returns the gap kept between pieces.
func (c *Canvas) Spacing() float64 { return c.spacing }

// Add places p to the right of all previously placed pieces.
func (c *Canvas) Add(p Piece) Placement {
	bbox := p.BoundingBox()
	x := 0.0
	if len(c.placements) > 0 {
		x = c.right + c.spacing
	}
	pl := Placement{
		Piece:  p,
		Offset: curve.Vec(x-bbox.X0, -bbox.Y0),
	}
	c.placements = append(c.placements, pl)
	c.right = x + bbox.Width()
	return pl
}

// Placements returns the placements in insertion order.
func (c *Canvas) Placements() []Placement {
	return slices.Clone(c.placements)
}

// Pieces returns copies of the placed pieces, translated to canvas
// coordinates.
func (c *Canvas) Pieces() []Piece {
	out := make([]Piece, len(c.placements))
	for i, pl := range c.placements {
		out[i] = pl.Placed()
	}
	return out
}

// Len returns the number of placed pieces.
func (c *Canvas) Len() int { return len(c.placements) }

// BoundingBox returns the smallest rectangle enclosing all placed pieces. An
// empty canvas has an empty bounding box at the origin.
func (c *Canvas) BoundingBox() curve.Rect {
	if len(c.placements) == 0 {
		return curve.Rect{}
	}
	bbox := c.placements[0].BoundingBox()
	for _, pl := range c.placements[1:] {
		bbox = bbox.Union(pl.BoundingBox())
	}
	return bbox
}
