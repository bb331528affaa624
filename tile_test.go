package pattern

import (
	"errors"
	"math"
	"testing"

	"honnef.co/go/curve"
)

type box curve.Rect

func (b box) BoundingBox() curve.Rect { return curve.Rect(b) }

type panicking struct{}

func (panicking) BoundingBox() curve.Rect { panic("bounding box computed before validation") }

func TestTileGrid(t *testing.T) {
	tiles, err := TileDrawing(box{X0: 0, Y0: 0, X1: 100, Y1: 150}, A4)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 49 {
		t.Fatalf("got %d tiles, want 49", len(tiles))
	}
	for i, tile := range tiles {
		if tile.Index != i || tile.Row != i/7 || tile.Col != i%7 {
			t.Errorf("tile %d is at index %d, row %d, col %d", i, tile.Index, tile.Row, tile.Col)
		}
		if tile.Rows != 7 || tile.Cols != 7 {
			t.Errorf("tile %d reports a %d x %d grid", i, tile.Rows, tile.Cols)
		}
		if w, h := tile.Printable.Width(), tile.Printable.Height(); math.Abs(w-17) > 1e-9 || math.Abs(h-25.7) > 1e-9 {
			t.Errorf("tile %d prints %g x %g", i, w, h)
		}
	}

	last := tiles[len(tiles)-1].Printable
	if last.X1 < 100 || last.Y1 < 150 {
		t.Errorf("tiles only reach %g x %g", last.X1, last.Y1)
	}

	if l := tiles[0].Label(); l != "Page 1 of 49, tile (1, 1) of (7, 7)" {
		t.Errorf("got label %q", l)
	}
	if l := tiles[9].Label(); l != "Page 10 of 49, tile (2, 3) of (7, 7)" {
		t.Errorf("got label %q", l)
	}
}

func TestTileCoverage(t *testing.T) {
	bbox := curve.Rect{X0: -12.5, Y0: 3, X1: 71.25, Y1: 96}
	tiles, err := TileDrawing(box(bbox), Letter)
	if err != nil {
		t.Fatal(err)
	}
	for x := bbox.X0 + 0.037; x < bbox.X1; x += 0.613 {
		for y := bbox.Y0 + 0.041; y < bbox.Y1; y += 0.587 {
			pt := curve.Pt(x, y)
			var printable, interior, cells int
			for _, tile := range tiles {
				if tile.Printable.Contains(pt) {
					printable++
				}
				if tile.Interior.Contains(pt) {
					interior++
				}
				if tile.Cell.Contains(pt) {
					cells++
				}
			}
			switch {
			case cells != 1:
				t.Fatalf("%v lies in %d cells", pt, cells)
			case interior > 1:
				t.Fatalf("%v lies in the interior of %d tiles", pt, interior)
			case interior == 1 && printable != 1:
				t.Fatalf("%v lies in the interior of a tile and is printed on %d", pt, printable)
			case interior == 0 && printable != 2 && printable != 4:
				t.Fatalf("%v lies in an overlap shared by %d tiles", pt, printable)
			}
		}
	}

	var area float64
	for _, tile := range tiles {
		area += tile.Cell.Width() * tile.Cell.Height()
	}
	if want := bbox.Width() * bbox.Height(); math.Abs(area-want) > 1e-9*want {
		t.Errorf("cells cover %g, want %g", area, want)
	}
}

func TestTileMarks(t *testing.T) {
	tiles, err := TileDrawing(box{X0: 0, Y0: 0, X1: 50, Y1: 60}, A4)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[curve.Point]int{}
	for _, tile := range tiles {
		want := 0
		for _, inner := range []bool{tile.Col > 0, tile.Col < tile.Cols-1, tile.Row > 0, tile.Row < tile.Rows-1} {
			if inner {
				want += 2
			}
		}
		if len(tile.Marks) != want {
			t.Errorf("tile %d has %d marks, want %d", tile.Index, len(tile.Marks), want)
		}
		for _, m := range tile.Marks {
			if !tile.Printable.Contains(m) {
				t.Errorf("tile %d: mark %v isn't printed", tile.Index, m)
			}
			if tile.Interior.Contains(m) {
				t.Errorf("tile %d: mark %v isn't in an overlap", tile.Index, m)
			}
			seen[m]++
		}
	}
	for m, n := range seen {
		if n != 2 {
			t.Errorf("mark %v appears on %d tiles, want 2", m, n)
		}
	}
}

func TestTileTransform(t *testing.T) {
	tiles, err := TileDrawing(box{X0: 10, Y0: 20, X1: 60, Y1: 90}, A4)
	if err != nil {
		t.Fatal(err)
	}
	for _, tile := range tiles {
		aff := tile.Transform()
		p0 := curve.Pt(tile.Printable.X0, tile.Printable.Y0).Transform(aff)
		p1 := curve.Pt(tile.Printable.X1, tile.Printable.Y1).Transform(aff)
		diff(t, curve.Pt(A4.Margin, A4.Margin), p0, approx)
		diff(t, curve.Pt(A4.Width-A4.Margin, A4.Height-A4.Margin), p1, approx)
	}
}

func TestTileSingle(t *testing.T) {
	tiles, err := TileDrawing(box{X0: 0, Y0: 0, X1: 5, Y1: 5}, A4)
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 1 {
		t.Fatalf("got %d tiles, want 1", len(tiles))
	}
	tile := tiles[0]
	diff(t, tile.Printable, tile.Interior)
	diff(t, curve.Rect{X0: 0, Y0: 0, X1: 5, Y1: 5}, tile.Cell)
	if len(tile.Marks) != 0 {
		t.Errorf("single tile has marks %v", tile.Marks)
	}

	// An empty drawing still gets a page.
	tiles, err = TileDrawing(NewCanvas(0), A4)
	if err != nil || len(tiles) != 1 {
		t.Errorf("got %d tiles and error %v for an empty canvas", len(tiles), err)
	}
}

func TestTileInvalidPage(t *testing.T) {
	tests := []struct {
		name string
		page Page
	}{
		{"no width", Page{Width: 0, Height: 29.7, Margin: 2, Overlap: 1}},
		{"margins too wide", Page{Width: 4, Height: 29.7, Margin: 2, Overlap: 1}},
		{"overlap too wide", Page{Width: 21, Height: 29.7, Margin: 2, Overlap: 17}},
		{"negative margin", Page{Width: 21, Height: 29.7, Margin: -1, Overlap: 1}},
		{"negative overlap", Page{Width: 21, Height: 29.7, Margin: 2, Overlap: -1}},
		{"not a number", Page{Width: math.NaN(), Height: 29.7, Margin: 2, Overlap: 1}},
		{"infinite", Page{Width: 21, Height: math.Inf(1), Margin: 2, Overlap: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TileDrawing(panicking{}, tt.page)
			var perr *InvalidTilingParametersError
			if !errors.As(err, &perr) {
				t.Fatalf("got error %v, want InvalidTilingParametersError", err)
			}
		})
	}

	for _, pg := range []Page{A4, Letter} {
		if err := pg.Validate(); err != nil {
			t.Errorf("%+v: %s", pg, err)
		}
	}
}

func TestTileTooManyPages(t *testing.T) {
	drawing := box{X0: 0, Y0: 0, X1: 200, Y1: 200}
	tests := []struct {
		name string
		page Page
	}{
		{"vanishing page", Page{Width: 1e-20, Height: 1e-20}},
		{"tiny page", Page{Width: 1e-6, Height: 1e-6}},
		{"just over the limit", Page{Width: 1.99, Height: 1.99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tiles, err := TileDrawing(drawing, tt.page)
			var perr *InvalidTilingParametersError
			if !errors.As(err, &perr) {
				t.Fatalf("got %d tiles and error %v, want InvalidTilingParametersError", len(tiles), err)
			}
		})
	}

	tiles, err := TileDrawing(drawing, Page{Width: 2, Height: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != MaxTiles {
		t.Errorf("got %d tiles, want %d", len(tiles), MaxTiles)
	}
}
