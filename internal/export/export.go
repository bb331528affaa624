// Package export renders the results of pattern generation: full-scale SVG
// drawings of pieces, the layout canvas and printable tiles, an xlsx cut list,
// and an HTML preview.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"honnef.co/go/pattern"
)

// File is one output file.
type File struct {
	// Name is the file name, without a directory.
	Name string
	// Kind is the kind of artifact the file renders. It is zero for files
	// summarizing the whole result.
	Kind  pattern.ArtifactKind
	write func(w io.Writer) error
}

// WriteTo writes the file's contents to w.
func (f File) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := f.write(cw)
	return cw.n, err
}

// Bytes returns the file's contents.
func (f File) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	return buf.Bytes(), err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	n, err := cw.w.Write(b)
	cw.n += int64(n)
	return n, err
}

// Files returns the files rendering res, in the order of res.Artifacts,
// followed by the workbook and the preview. m are the measurements the
// pattern was drafted from.
func Files(res *pattern.Result, m pattern.Measurements, opts Options) []File {
	var files []File
	for _, a := range res.Artifacts {
		switch a.Kind {
		case pattern.PieceArtifact:
			p := *a.Piece
			files = append(files, File{
				Name:  a.Name + ".svg",
				Kind:  a.Kind,
				write: func(w io.Writer) error { return WritePieceSVG(w, p, opts) },
			})
		case pattern.CanvasArtifact:
			c := a.Canvas
			files = append(files, File{
				Name:  a.Name + ".svg",
				Kind:  a.Kind,
				write: func(w io.Writer) error { return WriteCanvasSVG(w, c, title(res), opts) },
			})
		case pattern.TileArtifact:
			t := *a.Tile
			files = append(files, File{
				Name:  a.Name + ".svg",
				Kind:  a.Kind,
				write: func(w io.Writer) error { return WriteTileSVG(w, res.Canvas, t, opts) },
			})
		default:
			panic(fmt.Sprintf("unhandled artifact kind %v", a.Kind))
		}
	}
	files = append(files,
		File{Name: "cutlist.xlsx", write: func(w io.Writer) error { return WriteWorkbook(w, res, m) }},
		File{Name: "preview.html", write: func(w io.Writer) error { return WritePreview(w, res.Canvas, title(res)) }},
	)
	return files
}

func title(res *pattern.Result) string {
	if res.Garment == "" {
		return "Pattern"
	}
	return "Pattern: " + res.Garment
}

// WriteDir writes files to dir, creating it if necessary, and returns the
// paths of the written files.
func WriteDir(dir string, files []File) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, file := range files {
		path := filepath.Join(dir, file.Name)
		if err := writeFile(path, file); err != nil {
			return paths, fmt.Errorf("writing %s: %w", file.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, file File) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := file.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
