package export

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"honnef.co/go/pattern"
)

func generate(t *testing.T) (*pattern.Result, pattern.Measurements) {
	t.Helper()
	m, err := pattern.NewMeasurements(pattern.MensMedium, map[string]float64{"chest": 102})
	if err != nil {
		t.Fatal(err)
	}
	page := pattern.A4
	res, err := pattern.Generate(pattern.Request{
		Garment:      "shirt",
		Measurements: m,
		SleevePieces: 3,
		Page:         &page,
	})
	if err != nil {
		t.Fatal(err)
	}
	return res, m
}

// checkXML fails if b isn't well-formed XML.
func checkXML(t *testing.T, name string, b []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(b))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
	}
}

func TestFilesOrder(t *testing.T) {
	res, m := generate(t)
	files := Files(res, m, DefaultOptions)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
	}
	want := []string{"front.svg", "back.svg", "sleeve-upper.svg", "sleeve-under.svg", "sleeve-cuff.svg", "layout.svg"}
	for _, tile := range res.Tiles {
		want = append(want, fmt.Sprintf("tile-%02d.svg", tile.PageNumber()))
	}
	want = append(want, "cutlist.xlsx", "preview.html")
	if d := cmp.Diff(want, names); d != "" {
		t.Error(d)
	}
}

func TestSVGFiles(t *testing.T) {
	res, m := generate(t)
	for _, f := range Files(res, m, DefaultOptions) {
		if !strings.HasSuffix(f.Name, ".svg") {
			continue
		}
		b, err := f.Bytes()
		if err != nil {
			t.Fatalf("%s: %s", f.Name, err)
		}
		checkXML(t, f.Name, b)
		s := string(b)
		if !strings.Contains(s, `class="outline"`) {
			t.Errorf("%s has no outlines", f.Name)
		}
		switch f.Kind {
		case pattern.CanvasArtifact:
			if strings.Count(s, `class="grain"`) != len(res.Pieces) {
				t.Errorf("%s: got %d grainlines, want %d", f.Name, strings.Count(s, `class="grain"`), len(res.Pieces))
			}
			if !strings.Contains(s, ">10 cm</text>") {
				t.Errorf("%s has no scale bar", f.Name)
			}
		case pattern.TileArtifact:
			if !strings.Contains(s, `width="21.000cm" height="29.700cm"`) {
				t.Errorf("%s isn't A4 sized", f.Name)
			}
			if !strings.Contains(s, "Page ") || !strings.Contains(s, "clip-path") {
				t.Errorf("%s lacks its label or clipping", f.Name)
			}
		}
	}
}

func TestTileMarksDrawn(t *testing.T) {
	res, _ := generate(t)
	var buf bytes.Buffer
	tile := res.Tiles[0]
	if err := WriteTileSVG(&buf, res.Canvas, tile, DefaultOptions); err != nil {
		t.Fatal(err)
	}
	// Every mark is drawn as a cross and a circle.
	circles := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "<circle") && strings.Contains(line, `class="mark"`) {
			circles++
		}
	}
	if got, want := circles, len(tile.Marks); got != want {
		t.Errorf("got %d alignment marks, want %d", got, want)
	}
}

func TestPrecision(t *testing.T) {
	res, _ := generate(t)
	tests := []struct {
		prec int
		want string
	}{
		{0, `width="21.000cm" height="29.700cm"`},
		{1, `width="21.0cm" height="29.7cm"`},
		{3, `width="21.000cm" height="29.700cm"`},
		{4, `width="21.0000cm" height="29.7000cm"`},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := WriteTileSVG(&buf, res.Canvas, res.Tiles[0], Options{Precision: tt.prec}); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("precision %d: output lacks %s", tt.prec, tt.want)
		}
	}

	d := PathData(res.Pieces[0], Options{Precision: 1})
	for _, field := range strings.FieldsFunc(d, func(r rune) bool { return r == ' ' || r == ',' || (r >= 'A' && r <= 'Z') }) {
		if i := strings.IndexByte(field, '.'); i >= 0 && len(field)-i-1 > 1 {
			t.Errorf("coordinate %s has more than one decimal place", field)
		}
	}
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(b []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(b), nil
}

func TestWriteError(t *testing.T) {
	res, _ := generate(t)
	for _, n := range []int{0, 5, 50} {
		if err := WriteCanvasSVG(&failingWriter{n: n}, res.Canvas, "shirt", DefaultOptions); err == nil || err.Error() != "disk full" {
			t.Errorf("failing after %d writes: got error %v", n, err)
		}
	}
}

func TestWorkbook(t *testing.T) {
	res, m := generate(t)
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, res, m); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if d := cmp.Diff([]string{PiecesSheet, TilesSheet, MeasurementsSheet}, f.GetSheetList()); d != "" {
		t.Error(d)
	}

	rows, err := f.GetRows(PiecesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(res.Pieces)+1 {
		t.Fatalf("got %d rows on %s, want %d", len(rows), PiecesSheet, len(res.Pieces)+1)
	}
	if rows[0][0] != "Name" || rows[1][0] != "front" || rows[1][2] != "Cut 1 on fold" {
		t.Errorf("unexpected rows %v", rows[:2])
	}

	rows, err = f.GetRows(TilesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(res.Tiles)+1 {
		t.Errorf("got %d rows on %s, want %d", len(rows), TilesSheet, len(res.Tiles)+1)
	}

	rows, err = f.GetRows(MeasurementsSheet)
	if err != nil {
		t.Fatal(err)
	}
	var chest []string
	for _, row := range rows {
		if row[0] == "chest" {
			chest = row
		}
	}
	if len(chest) < 3 || chest[1] != "102" || chest[2] != "override" {
		t.Errorf("got chest row %v", chest)
	}
}

func TestWorkbookNotices(t *testing.T) {
	m, _ := pattern.NewMeasurements(pattern.MensMedium, nil)
	res, err := pattern.Generate(pattern.Request{Garment: "vest", Measurements: m, SleevePieces: 2})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteWorkbook(&buf, res, m); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows(NoticesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows of notices, want 2", len(rows))
	}
}

func TestPreview(t *testing.T) {
	res, _ := generate(t)
	var buf bytes.Buffer
	if err := WritePreview(&buf, res.Canvas, "shirt"); err != nil {
		t.Fatal(err)
	}
	s := buf.String()
	for _, p := range res.Pieces {
		if !strings.Contains(s, p.Name) {
			t.Errorf("preview lacks piece %s", p.Name)
		}
	}
	if !strings.Contains(s, "echarts") {
		t.Error("preview doesn't load echarts")
	}
}

func TestWriteDir(t *testing.T) {
	res, m := generate(t)
	dir := filepath.Join(t.TempDir(), "out")
	files := Files(res, m, DefaultOptions)
	paths, err := WriteDir(dir, files)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != len(files) {
		t.Fatalf("wrote %d files, want %d", len(paths), len(files))
	}
	for _, path := range paths {
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
}
