package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"

	"honnef.co/go/curve"
	"honnef.co/go/pattern"
)

const (
	// ScaleBarLength is the length of the printed scale bar, in cm. Measuring
	// it on paper verifies that a page was printed at 100%.
	ScaleBarLength = 10.0

	// canvasPadding surrounds the pieces of a canvas drawing.
	canvasPadding = 2.0
	notchRadius   = 0.25
	markSize      = 0.6
)

const stylesheet = `.outline { fill: none; stroke: black; stroke-width: 0.05; }
.grain { stroke: black; stroke-width: 0.03; marker-start: url(#arrow); marker-end: url(#arrow); }
.notch { fill: none; stroke: black; stroke-width: 0.03; }
.mark { stroke: black; stroke-width: 0.02; fill: none; }
.label { font-family: sans-serif; font-size: 1px; text-anchor: middle; }
.page { font-family: sans-serif; font-size: 0.5px; }`

// Options configures the SVG output.
type Options struct {
	// Precision is the number of decimal places of coordinates. Values below
	// one select the precision of DefaultOptions.
	Precision int
}

// DefaultOptions rounds coordinates to a hundredth of a millimeter.
var DefaultOptions = Options{Precision: 3}

func (opts Options) decimals() int {
	if opts.Precision < 1 {
		return DefaultOptions.Precision
	}
	return opts.Precision
}

// errWriter remembers the first write error; the SVG canvas discards them.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(b []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(b)
	ew.err = err
	return n, err
}

type drawing struct {
	*svg.SVG
	out *errWriter
}

// newDrawing starts a document of w by h cm, using cm as user units.
func newDrawing(w io.Writer, width, height float64, title string, opts Options) *drawing {
	out := &errWriter{w: w}
	d := &drawing{SVG: svg.New(out), out: out}
	d.Decimals = opts.decimals()
	d.StartviewUnit(width, height, "cm", 0, 0, width, height)
	d.Title(title)
	d.Def()
	d.Marker("arrow", 10, 5, 6, 6, `viewBox="0 0 10 10"`, `orient="auto-start-reverse"`)
	d.Path("M0,0 L10,5 L0,10 Z")
	d.MarkerEnd()
	d.DefEnd()
	d.Style("text/css", stylesheet)
	return d
}

func (d *drawing) end() error {
	d.End()
	return d.out.err
}

func (d *drawing) path(p curve.BezPath, class string) {
	d.Path(p.SVG(curve.SVGOptions{MaxPrecision: d.Decimals}), `class="`+class+`"`)
}

// piece draws p, mapped through aff: its outline, grainline, notches and
// labels.
func (d *drawing) piece(p pattern.Piece, aff curve.Affine) {
	d.Gid(p.Name)
	d.path(p.Path().Transform(aff), "outline")

	g0, g1 := p.Grainline.P0.Transform(aff), p.Grainline.P1.Transform(aff)
	d.Line(g0.X, g0.Y, g1.X, g1.Y, `class="grain"`)

	for _, n := range p.Notches {
		n = n.Transform(aff)
		d.Circle(n.X, n.Y, notchRadius, `class="notch"`)
	}

	c := p.BoundingBox().Center().Transform(aff)
	for i, text := range []string{p.Label, p.Cutting} {
		if text == "" {
			continue
		}
		// Offset the labels from the grainline, which runs through the
		// center.
		d.Text(c.X, c.Y+1.5*float64(i)-2, text, `class="label"`)
	}
	d.Gend()
}

// scaleBar draws a ScaleBarLength cm bar starting at origin.
func (d *drawing) scaleBar(origin curve.Point) {
	bar := curve.Rect{X0: origin.X, Y0: origin.Y, X1: origin.X + ScaleBarLength, Y1: origin.Y + 0.3}
	d.path(bar.Path(0), "outline")
	for cm := 1.0; cm < ScaleBarLength; cm++ {
		x := origin.X + cm
		d.Line(x, bar.Y0, x, bar.Y1, `class="mark"`)
	}
	d.Text(bar.X1+0.3, bar.Y1, fmt.Sprintf("%g cm", ScaleBarLength), `class="page"`)
}

// cross draws an alignment cross centered on pt.
func (d *drawing) cross(pt curve.Point) {
	h := markSize / 2
	d.path(curve.BezPath{
		curve.MoveTo(curve.Pt(pt.X-h, pt.Y)),
		curve.LineTo(curve.Pt(pt.X+h, pt.Y)),
		curve.MoveTo(curve.Pt(pt.X, pt.Y-h)),
		curve.LineTo(curve.Pt(pt.X, pt.Y+h)),
	}, "mark")
	d.Circle(pt.X, pt.Y, h/2, `class="mark"`)
}

// PathData returns the SVG path data of p's boundary, in the piece's own
// coordinates.
func PathData(p pattern.Piece, opts Options) string {
	return p.Path().SVG(curve.SVGOptions{MaxPrecision: opts.decimals()})
}

// WritePieceSVG writes p as a standalone full-scale drawing.
func WritePieceSVG(w io.Writer, p pattern.Piece, opts Options) error {
	bbox := p.BoundingBox()
	aff := curve.Translate(curve.Vec(canvasPadding-bbox.X0, canvasPadding-bbox.Y0))
	d := newDrawing(w, bbox.Width()+2*canvasPadding, bbox.Height()+2*canvasPadding, p.Label, opts)
	d.piece(p, aff)
	return d.end()
}

// WriteCanvasSVG writes every piece of c at full scale, followed by a scale
// bar below the pieces.
func WriteCanvasSVG(w io.Writer, c *pattern.Canvas, title string, opts Options) error {
	bbox := c.BoundingBox()
	aff := curve.Translate(curve.Vec(canvasPadding-bbox.X0, canvasPadding-bbox.Y0))
	width := max(bbox.Width(), ScaleBarLength+2) + 2*canvasPadding
	height := bbox.Height() + 3*canvasPadding

	d := newDrawing(w, width, height, title, opts)
	for _, p := range c.Pieces() {
		d.piece(p, aff)
	}
	d.scaleBar(curve.Pt(canvasPadding, height-1.5*canvasPadding+0.5))
	return d.end()
}

// WriteTileSVG writes one page of a tiled canvas. Pieces are clipped to the
// tile's printable area. The page carries its label, the alignment marks it
// shares with its neighbours, and a scale bar in the bottom margin.
func WriteTileSVG(w io.Writer, c *pattern.Canvas, t pattern.Tile, opts Options) error {
	pg := t.Page
	aff := t.Transform()
	printable := curve.Rect{X0: pg.Margin, Y0: pg.Margin, X1: pg.Width - pg.Margin, Y1: pg.Height - pg.Margin}

	d := newDrawing(w, pg.Width, pg.Height, t.Label(), opts)
	d.ClipPath(`id="printable"`)
	d.Rect(printable.X0, printable.Y0, printable.Width(), printable.Height())
	d.ClipEnd()
	d.Group(`clip-path="url(#printable)"`)
	for _, pl := range c.Placements() {
		if !overlaps(pl.BoundingBox(), t.Printable) {
			continue
		}
		d.piece(pl.Placed(), aff)
	}
	d.Gend()

	d.path(printable.Path(0), "mark")
	for _, m := range t.Marks {
		d.cross(m.Transform(aff))
	}
	d.Text(pg.Margin, pg.Margin/2, t.Label(), `class="page"`)
	if pg.Width-2*pg.Margin >= ScaleBarLength+2 {
		d.scaleBar(curve.Pt(pg.Margin, pg.Height-pg.Margin/2-0.3))
	}
	return d.end()
}

func overlaps(a, b curve.Rect) bool {
	return a.X0 < b.X1 && b.X0 < a.X1 && a.Y0 < b.Y1 && b.Y0 < a.Y1
}
