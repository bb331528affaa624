package pattern

import (
	"errors"
	"strings"
	"testing"

	"honnef.co/go/curve"
)

func TestGenerateShirt(t *testing.T) {
	m, _ := NewMeasurements(MensMedium, nil)
	page := A4
	res, err := Generate(Request{
		Garment:      "shirt",
		Measurements: m,
		SleevePieces: 2,
		Page:         &page,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Notices) != 0 {
		t.Errorf("unexpected notices %v", res.Notices)
	}
	var names []string
	for _, p := range res.Pieces {
		names = append(names, p.Name)
	}
	diff(t, []string{"front", "back", "sleeve-upper", "sleeve-under"}, names)
	if len(res.Decompositions) != 1 || res.Decompositions[0].Source.Name != "sleeve" {
		t.Errorf("got decompositions %v", res.Decompositions)
	}
	if res.Canvas.Len() != 4 {
		t.Errorf("canvas holds %d pieces, want 4", res.Canvas.Len())
	}
	if len(res.Tiles) == 0 {
		t.Fatal("no tiles")
	}

	var artifacts []string
	for _, a := range res.Artifacts {
		artifacts = append(artifacts, a.Kind.String()+":"+a.Name)
	}
	want := []string{"piece:front", "piece:back", "piece:sleeve-upper", "piece:sleeve-under", "canvas:layout"}
	if len(artifacts) != len(want)+len(res.Tiles) {
		t.Fatalf("got artifacts %v", artifacts)
	}
	diff(t, want, artifacts[:len(want)])
	if artifacts[len(want)] != "tile:tile-01" {
		t.Errorf("first tile artifact is %q", artifacts[len(want)])
	}
	for i, a := range res.Artifacts[len(want):] {
		if a.Tile != &res.Tiles[i] {
			t.Errorf("artifact %s doesn't refer to tile %d", a.Name, i)
		}
	}
}

func TestGenerateNoPage(t *testing.T) {
	m, _ := NewMeasurements(WomensMedium, nil)
	res, err := Generate(Request{Garment: "skirt", Measurements: m, Spacing: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Tiles) != 0 {
		t.Errorf("got %d tiles without a page", len(res.Tiles))
	}
	if res.Canvas.Spacing() != 2 {
		t.Errorf("got spacing %g, want 2", res.Canvas.Spacing())
	}
	if n := len(res.Artifacts); n != 3 {
		t.Errorf("got %d artifacts, want 3", n)
	}
}

func TestGenerateNoSleeve(t *testing.T) {
	m, _ := NewMeasurements(MensMedium, nil)
	res, err := Generate(Request{Garment: "trousers", Measurements: m, SleevePieces: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Notices) != 1 || !strings.Contains(res.Notices[0].Message, "no \"sleeve\" piece") {
		t.Errorf("got notices %v", res.Notices)
	}
	if len(res.Pieces) != 2 {
		t.Errorf("got %d pieces, want 2", len(res.Pieces))
	}
}

func TestGenerateFallback(t *testing.T) {
	// A square sleeve has no cap and can't be split.
	sleeve, err := NewPolygonPiece(SleevePieceName, "Sleeve", []curve.Point{
		curve.Pt(0, 0), curve.Pt(20, 0), curve.Pt(20, 20), curve.Pt(0, 20), curve.Pt(0, 0),
	})
	if err != nil {
		t.Fatal(err)
	}
	req := Request{Pieces: []Piece{sleeve}, SleevePieces: 3}

	var uerr *UnsupportedGeometryError
	if _, err := Generate(req); !errors.As(err, &uerr) {
		t.Errorf("got error %v, want UnsupportedGeometryError", err)
	}

	req.FallbackToSinglePiece = true
	res, err := Generate(req)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Pieces) != 1 || res.Pieces[0].Name != SleevePieceName {
		t.Errorf("got pieces %v", res.Pieces)
	}
	if len(res.Notices) != 1 || res.Notices[0].Piece != SleevePieceName || !errors.As(res.Notices[0].Err, &uerr) {
		t.Errorf("got notices %v", res.Notices)
	}
	if s := res.Notices[0].String(); !strings.HasPrefix(s, "sleeve: kept as a single piece instead of 3") {
		t.Errorf("got notice %q", s)
	}
}

func TestGenerateValidatesFirst(t *testing.T) {
	bad := Page{Width: 21, Height: 29.7, Margin: 12, Overlap: 1}
	var perr *InvalidTilingParametersError
	if _, err := Generate(Request{Garment: "no such garment", Page: &bad}); !errors.As(err, &perr) {
		t.Errorf("got error %v, want InvalidTilingParametersError", err)
	}

	var cerr *InvalidSubPieceCountError
	if _, err := Generate(Request{Garment: "no such garment", SleevePieces: 5}); !errors.As(err, &cerr) {
		t.Errorf("got error %v, want InvalidSubPieceCountError", err)
	}

	var gerr *UnknownGarmentError
	if _, err := Generate(Request{Garment: "no such garment"}); !errors.As(err, &gerr) {
		t.Errorf("got error %v, want UnknownGarmentError", err)
	}
}
