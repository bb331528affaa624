// Package server serves pattern generation over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"honnef.co/go/pattern"
	"honnef.co/go/pattern/internal/export"
)

// MaxBatch is the largest number of requests accepted by one batch.
const MaxBatch = 32

// Server is the HTTP API.
type Server struct {
	engine *gin.Engine
	log    *slog.Logger
	opts   export.Options
}

// New returns a server that logs to logger.
func New(logger *slog.Logger) *Server {
	s := &Server{
		engine: gin.New(),
		log:    logger,
		opts:   export.DefaultOptions,
	}
	s.engine.Use(gin.Logger(), gin.Recovery())

	v1 := s.engine.Group("/v1")
	v1.GET("/garments", s.handleGarments)
	v1.GET("/measurements", s.handleMeasurements)
	v1.POST("/pieces", s.handlePieces)
	v1.POST("/tiles", s.handleTiles)
	v1.POST("/batch", s.handleBatch)
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

// GenerateRequest is the body of generation requests.
type GenerateRequest struct {
	Garment string `json:"garment" binding:"required"`
	// Profile names the built-in measurement profile. It defaults to mens.
	Profile      string             `json:"profile"`
	Measurements map[string]float64 `json:"measurements"`
	Eases        map[string]float64 `json:"eases"`
	Features     []string           `json:"features"`
	SleevePieces int                `json:"sleeve_pieces" binding:"min=0,max=3"`
	Fallback     bool               `json:"fallback"`
	// Paper is "a4" or "letter". Page, if set, takes precedence.
	Paper string        `json:"paper"`
	Page  *pattern.Page `json:"page"`
}

func (req *GenerateRequest) measurements() (pattern.Measurements, error) {
	profile := pattern.MensMedium
	if req.Profile != "" {
		p, ok := pattern.ProfileByName(req.Profile)
		if !ok {
			return pattern.Measurements{}, &badRequestError{fmt.Sprintf("unknown profile %q", req.Profile)}
		}
		profile = p
	}
	return pattern.NewMeasurements(profile, req.Measurements)
}

func (req *GenerateRequest) page(tiled bool) (*pattern.Page, error) {
	if req.Page != nil {
		pg := *req.Page
		return &pg, nil
	}
	switch strings.ToLower(req.Paper) {
	case "":
		if !tiled {
			return nil, nil
		}
		pg := pattern.A4
		return &pg, nil
	case "a4":
		pg := pattern.A4
		return &pg, nil
	case "letter":
		pg := pattern.Letter
		return &pg, nil
	default:
		return nil, &badRequestError{fmt.Sprintf("unknown paper %q", req.Paper)}
	}
}

// generate runs req. Tiled requests always get a page.
func (req *GenerateRequest) generate(tiled bool) (*pattern.Result, error) {
	m, err := req.measurements()
	if err != nil {
		return nil, err
	}
	page, err := req.page(tiled)
	if err != nil {
		return nil, err
	}
	return pattern.Generate(pattern.Request{
		Garment:               req.Garment,
		Measurements:          m,
		Style:                 pattern.Style{Eases: req.Eases, Features: req.Features},
		SleevePieces:          req.SleevePieces,
		FallbackToSinglePiece: req.Fallback,
		Page:                  page,
	})
}

type badRequestError struct{ msg string }

func (err *badRequestError) Error() string { return err.msg }

// status maps generation errors to HTTP status codes. Problems with the
// request are the client's fault; broken recipes are ours.
func status(err error) int {
	var (
		badRequest  *badRequestError
		garment     *pattern.UnknownGarmentError
		feature     *pattern.UnknownFeatureError
		measurement *pattern.UnknownMeasurementError
		invalid     *pattern.InvalidMeasurementError
		count       *pattern.InvalidSubPieceCountError
		tiling      *pattern.InvalidTilingParametersError
		geometry    *pattern.UnsupportedGeometryError
	)
	switch {
	case errors.As(err, &garment):
		return http.StatusNotFound
	case errors.As(err, &badRequest),
		errors.As(err, &feature),
		errors.As(err, &measurement),
		errors.As(err, &invalid),
		errors.As(err, &count),
		errors.As(err, &tiling):
		return http.StatusBadRequest
	case errors.As(err, &geometry):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, req *GenerateRequest, err error) {
	code := status(err)
	if code >= 500 {
		s.log.Error("generation failed", "garment", req.Garment, "err", err)
	} else {
		s.log.Debug("rejected request", "garment", req.Garment, "err", err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

type garmentJSON struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Pieces      []string `json:"pieces"`
	Features    []string `json:"features"`
}

func (s *Server) handleGarments(c *gin.Context) {
	var out []garmentJSON
	for _, r := range pattern.Recipes() {
		g := garmentJSON{
			Name:        r.Garment,
			Description: r.Description,
			Features:    r.Features,
		}
		for _, pr := range r.Pieces {
			g.Pieces = append(g.Pieces, pr.Name)
		}
		out = append(out, g)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleMeasurements(c *gin.Context) {
	profiles := map[string]map[string]float64{}
	for _, p := range pattern.Profiles {
		profiles[p.Name] = p.Values
	}
	c.JSON(http.StatusOK, gin.H{
		"profiles":     profiles,
		"measurements": pattern.KnownMeasurements,
	})
}

type pieceJSON struct {
	Name      string       `json:"name"`
	Label     string       `json:"label"`
	Cutting   string       `json:"cutting"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Area      float64      `json:"area"`
	Path      string       `json:"path"`
	Grainline [2][]float64 `json:"grainline"`
	Notches   [][]float64  `json:"notches"`
}

type noticeJSON struct {
	Piece   string `json:"piece,omitempty"`
	Message string `json:"message"`
}

type piecesResponse struct {
	Garment string       `json:"garment"`
	Pieces  []pieceJSON  `json:"pieces"`
	Notices []noticeJSON `json:"notices"`
	Layout  string       `json:"layout,omitempty"`
}

func (s *Server) pieces(res *pattern.Result) piecesResponse {
	out := piecesResponse{Garment: res.Garment, Pieces: []pieceJSON{}, Notices: []noticeJSON{}}
	for _, p := range res.Pieces {
		bbox := p.BoundingBox()
		pj := pieceJSON{
			Name:    p.Name,
			Label:   p.Label,
			Cutting: p.Cutting,
			Width:   bbox.Width(),
			Height:  bbox.Height(),
			Area:    p.Area(),
			Path:    export.PathData(p, s.opts),
			Grainline: [2][]float64{
				{p.Grainline.P0.X, p.Grainline.P0.Y},
				{p.Grainline.P1.X, p.Grainline.P1.Y},
			},
			Notches: [][]float64{},
		}
		for _, n := range p.Notches {
			pj.Notches = append(pj.Notches, []float64{n.X, n.Y})
		}
		out.Pieces = append(out.Pieces, pj)
	}
	for _, n := range res.Notices {
		out.Notices = append(out.Notices, noticeJSON{Piece: n.Piece, Message: n.Message})
	}
	return out
}

func (s *Server) handlePieces(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := req.generate(false)
	if err != nil {
		s.fail(c, &req, err)
		return
	}
	out := s.pieces(res)
	if c.Query("layout") == "svg" {
		var buf bytes.Buffer
		if err := export.WriteCanvasSVG(&buf, res.Canvas, res.Garment, s.opts); err != nil {
			s.fail(c, &req, err)
			return
		}
		out.Layout = buf.String()
	}
	c.JSON(http.StatusOK, out)
}

type tileJSON struct {
	Page  int    `json:"page"`
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Label string `json:"label"`
	SVG   string `json:"svg"`
}

func (s *Server) handleTiles(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := req.generate(true)
	if err != nil {
		s.fail(c, &req, err)
		return
	}
	tiles := make([]tileJSON, 0, len(res.Tiles))
	for _, t := range res.Tiles {
		var buf bytes.Buffer
		if err := export.WriteTileSVG(&buf, res.Canvas, t, s.opts); err != nil {
			s.fail(c, &req, err)
			return
		}
		tiles = append(tiles, tileJSON{
			Page:  t.PageNumber(),
			Row:   t.Row + 1,
			Col:   t.Col + 1,
			Label: t.Label(),
			SVG:   buf.String(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"garment": res.Garment,
		"rows":    res.Tiles[0].Rows,
		"cols":    res.Tiles[0].Cols,
		"tiles":   tiles,
		"notices": s.pieces(res).Notices,
	})
}

type batchRequest struct {
	Requests []GenerateRequest `json:"requests" binding:"required,min=1,dive"`
}

type batchResult struct {
	Index  int             `json:"index"`
	Status int             `json:"status"`
	Error  string          `json:"error,omitempty"`
	Result *piecesResponse `json:"result,omitempty"`
}

// handleBatch runs every request of the batch concurrently. Results are
// reported in request order, each with its own status.
func (s *Server) handleBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Requests) > MaxBatch {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("batch of %d requests exceeds the limit of %d", len(req.Requests), MaxBatch)})
		return
	}
	results := s.runBatch(c.Request.Context(), req.Requests)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) runBatch(ctx context.Context, reqs []GenerateRequest) []batchResult {
	results := make([]batchResult, len(reqs))
	var wg sync.WaitGroup
	for i := range reqs {
		results[i].Index = i
		if err := ctx.Err(); err != nil {
			results[i].Status = http.StatusServiceUnavailable
			results[i].Error = err.Error()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := reqs[i].generate(false)
			if err != nil {
				results[i].Status = status(err)
				results[i].Error = err.Error()
				if results[i].Status >= 500 {
					s.log.Error("batch generation failed", "index", i, "garment", reqs[i].Garment, "err", err)
				}
				return
			}
			out := s.pieces(res)
			results[i].Status = http.StatusOK
			results[i].Result = &out
		}()
	}
	wg.Wait()
	return results
}
