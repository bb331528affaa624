package pattern_test

import (
	"fmt"

	"honnef.co/go/curve"
	"honnef.co/go/pattern"
)

func ExampleBuildPieces() {
	m, err := pattern.NewMeasurements(pattern.MensMedium, map[string]float64{"chest": 104})
	if err != nil {
		panic(err)
	}
	pieces, err := pattern.BuildPieces(m, "shirt", pattern.Style{})
	if err != nil {
		panic(err)
	}
	for _, p := range pieces {
		fmt.Printf("%s: %s, %s\n", p.Name, p.Label, p.Cutting)
	}
	// Output:
	// front: Shirt Front, Cut 1 on fold
	// back: Shirt Back, Cut 1 on fold
	// sleeve: Sleeve, Cut 2
}

func ExampleTileDrawing() {
	p, err := pattern.NewPolygonPiece("panel", "Panel", []curve.Point{
		curve.Pt(0, 0), curve.Pt(100, 0), curve.Pt(100, 150), curve.Pt(0, 150), curve.Pt(0, 0),
	})
	if err != nil {
		panic(err)
	}
	tiles, err := pattern.TileDrawing(p, pattern.A4)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%d x %d\n", tiles[0].Rows, tiles[0].Cols)
	fmt.Println(tiles[0].Label())
	// Output:
	// 7 x 7
	// Page 1 of 49, tile (1, 1) of (7, 7)
}

func ExampleDecomposePiece() {
	m, err := pattern.NewMeasurements(pattern.WomensMedium, nil)
	if err != nil {
		panic(err)
	}
	pieces, err := pattern.BuildPieces(m, "coat", pattern.Style{})
	if err != nil {
		panic(err)
	}
	d, err := pattern.DecomposePiece(pieces[len(pieces)-1], 3)
	if err != nil {
		panic(err)
	}
	for _, p := range d.Pieces {
		fmt.Println(p.Name, "-", p.Label)
	}
	// Output:
	// sleeve-upper - Upper Sleeve (oversleeve)
	// sleeve-under - Under Sleeve (undersleeve)
	// sleeve-cuff - Cuff
}
