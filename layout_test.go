package pattern

import (
	"testing"

	"honnef.co/go/curve"
)

func TestLayout(t *testing.T) {
	pieces := []Piece{
		rectPiece(t, "a", 0, 0, 10, 20),
		rectPiece(t, "b", 100, 100, 5, 5),
		rectPiece(t, "c", -50, -8, 7, 3),
	}
	c := Layout(pieces...)
	if c.Len() != 3 {
		t.Fatalf("got %d placements, want 3", c.Len())
	}
	want := []curve.Rect{
		{X0: 0, Y0: 0, X1: 10, Y1: 20},
		{X0: 15, Y0: 0, X1: 20, Y1: 5},
		{X0: 25, Y0: 0, X1: 32, Y1: 3},
	}
	for i, pl := range c.Placements() {
		diff(t, want[i], pl.BoundingBox())
		diff(t, want[i], pl.Placed().BoundingBox())
		if pl.Piece.Name != pieces[i].Name {
			t.Errorf("placement %d holds %q, want %q", i, pl.Piece.Name, pieces[i].Name)
		}
	}
	diff(t, curve.Rect{X0: 0, Y0: 0, X1: 32, Y1: 20}, c.BoundingBox())

	// Placed pieces are copies.
	if got := pieces[1].BoundingBox(); got.X0 != 100 {
		t.Errorf("original piece moved to %v", got)
	}
	placed := c.Pieces()
	diff(t, want[2], placed[2].BoundingBox())
}

func TestCanvasSpacing(t *testing.T) {
	c := NewCanvas(0)
	c.Add(rectPiece(t, "a", 0, 0, 10, 10))
	pl := c.Add(rectPiece(t, "b", 3, 3, 10, 10))
	diff(t, curve.Rect{X0: 10, Y0: 0, X1: 20, Y1: 10}, pl.BoundingBox())
	diff(t, curve.Vec(7, -3), pl.Offset)

	if s := NewCanvas(-4).Spacing(); s != 0 {
		t.Errorf("got spacing %g for negative input, want 0", s)
	}
}

func TestCanvasGarment(t *testing.T) {
	m, _ := NewMeasurements(WomensMedium, nil)
	pieces, err := BuildPieces(m, "coat", Style{})
	if err != nil {
		t.Fatal(err)
	}
	c := Layout(pieces...)
	var prev curve.Rect
	for i, pl := range c.Placements() {
		bbox := pl.BoundingBox()
		if bbox.Y0 > 1e-9 || bbox.Y0 < -1e-9 {
			t.Errorf("piece %d has its top at %g", i, bbox.Y0)
		}
		if i > 0 && bbox.X0-prev.X1 < DefaultSpacing-1e-9 {
			t.Errorf("pieces %d and %d are %g apart", i-1, i, bbox.X0-prev.X1)
		}
		prev = bbox
	}
}

func TestCanvasEmpty(t *testing.T) {
	c := NewCanvas(DefaultSpacing)
	diff(t, curve.Rect{}, c.BoundingBox())
	if len(c.Pieces()) != 0 {
		t.Error("empty canvas has pieces")
	}
}
