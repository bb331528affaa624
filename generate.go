package pattern

import (
	"errors"
	"fmt"
)

// SleevePieceName is the name of the piece [Generate] decomposes when a
// request asks for a multi-piece sleeve.
const SleevePieceName = "sleeve"

// Request describes one pattern generation.
type Request struct {
	// Garment names the recipe to draft. It is ignored if Pieces is set.
	Garment      string
	Measurements Measurements
	Style        Style
	// Pieces, if set, are used instead of drafting a garment, for example
	// pieces produced by another drafting program.
	Pieces []Piece
	// SleevePieces is the number of pieces to split the sleeve into. 0 and 1
	// keep the sleeve whole.
	SleevePieces int
	// FallbackToSinglePiece keeps the sleeve whole, and reports a [Notice],
	// if it can't be split. Without it, Generate fails instead.
	FallbackToSinglePiece bool
	// Spacing is the gap between pieces on the canvas. Zero selects
	// [DefaultSpacing].
	Spacing float64
	// Page, if set, tiles the canvas onto pages of this size.
	Page *Page
}

// Notice reports a deviation from the request that Generate made instead of
// failing.
type Notice struct {
	Piece   string
	Message string
	// Err is the error that caused the deviation.
	Err error
}

func (n Notice) String() string {
	if n.Piece == "" {
		return n.Message
	}
	return fmt.Sprintf("%s: %s", n.Piece, n.Message)
}

// ArtifactKind identifies what an [Artifact] holds.
type ArtifactKind int

const (
	PieceArtifact ArtifactKind = iota + 1
	CanvasArtifact
	TileArtifact
)

func (k ArtifactKind) String() string {
	switch k {
	case PieceArtifact:
		return "piece"
	case CanvasArtifact:
		return "canvas"
	case TileArtifact:
		return "tile"
	default:
		return fmt.Sprintf("ArtifactKind(%d)", int(k))
	}
}

// Artifact is one renderable output of a generation. Exactly one of Piece,
// Canvas and Tile is set, according to Kind.
type Artifact struct {
	Kind   ArtifactKind
	Name   string
	Piece  *Piece
	Canvas *Canvas
	Tile   *Tile
}

// Result is the outcome of [Generate].
type Result struct {
	Garment string
	// Pieces are the final pieces, in their own coordinates.
	Pieces []Piece
	// Decompositions lists the pieces that were split.
	Decompositions []Decomposition
	Canvas         *Canvas
	Tiles          []Tile
	// Artifacts lists everything to render, in order: every piece, then the
	// canvas, then the tiles in row-major order.
	Artifacts []Artifact
	Notices   []Notice
}

// Generate runs a full generation: drafting, optional sleeve decomposition,
// layout, and optional tiling.
//
// Request parameters are validated before any geometry is computed. Drafting
// errors are returned as is. An [*UnsupportedGeometryError] from decomposing
// the sleeve is turned into a [Notice] if req.FallbackToSinglePiece is set.
func Generate(req Request) (*Result, error) {
	if req.Page != nil {
		if err := req.Page.Validate(); err != nil {
			return nil, err
		}
	}
	if req.SleevePieces < 0 || req.SleevePieces > 3 {
		return nil, &InvalidSubPieceCountError{N: req.SleevePieces}
	}

	res := &Result{Garment: req.Garment}
	pieces := req.Pieces
	if len(pieces) == 0 {
		var err error
		pieces, err = BuildPieces(req.Measurements, req.Garment, req.Style)
		if err != nil {
			return nil, err
		}
	}

	split := false
	for _, p := range pieces {
		if req.SleevePieces < 2 || p.Name != SleevePieceName {
			res.Pieces = append(res.Pieces, p)
			continue
		}
		split = true
		d, err := DecomposePiece(p, req.SleevePieces)
		if err != nil {
			var uerr *UnsupportedGeometryError
			if !req.FallbackToSinglePiece || !errors.As(err, &uerr) {
				return nil, err
			}
			res.Notices = append(res.Notices, Notice{
				Piece:   p.Name,
				Message: fmt.Sprintf("kept as a single piece instead of %d: %s", req.SleevePieces, uerr.Reason),
				Err:     err,
			})
			res.Pieces = append(res.Pieces, p)
			continue
		}
		res.Decompositions = append(res.Decompositions, d)
		res.Pieces = append(res.Pieces, d.Pieces...)
	}
	if req.SleevePieces >= 2 && !split {
		res.Notices = append(res.Notices, Notice{
			Message: fmt.Sprintf("no %q piece to split into %d pieces", SleevePieceName, req.SleevePieces),
		})
	}

	spacing := req.Spacing
	if spacing == 0 {
		spacing = DefaultSpacing
	}
	res.Canvas = NewCanvas(spacing)
	for _, p := range res.Pieces {
		res.Canvas.Add(p)
	}

	if req.Page != nil {
		tiles, err := TileDrawing(res.Canvas, *req.Page)
		if err != nil {
			return nil, err
		}
		res.Tiles = tiles
	}

	for i := range res.Pieces {
		res.Artifacts = append(res.Artifacts, Artifact{
			Kind:  PieceArtifact,
			Name:  res.Pieces[i].Name,
			Piece: &res.Pieces[i],
		})
	}
	res.Artifacts = append(res.Artifacts, Artifact{Kind: CanvasArtifact, Name: "layout", Canvas: res.Canvas})
	for i := range res.Tiles {
		res.Artifacts = append(res.Artifacts, Artifact{
			Kind: TileArtifact,
			Name: fmt.Sprintf("tile-%02d", res.Tiles[i].PageNumber()),
			Tile: &res.Tiles[i],
		})
	}
	return res, nil
}
