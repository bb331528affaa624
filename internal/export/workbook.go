package export

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"honnef.co/go/pattern"
)

// Sheet names of the workbook written by WriteWorkbook.
const (
	PiecesSheet       = "Pieces"
	TilesSheet        = "Tiles"
	MeasurementsSheet = "Measurements"
	NoticesSheet      = "Notices"
)

var (
	pieceHeader       = []any{"Name", "Label", "Cutting", "Width (cm)", "Height (cm)", "Area (cm²)", "Canvas X (cm)", "Canvas Y (cm)", "Notches"}
	tileHeader        = []any{"Page", "Row", "Column", "X0 (cm)", "Y0 (cm)", "X1 (cm)", "Y1 (cm)", "Label"}
	measurementHeader = []any{"Name", "Value (cm)", "Source", "Description"}
)

// WriteWorkbook writes a cut list of res as an xlsx workbook: one row per
// piece with its size and place on the canvas, one row per tile to help with
// assembling the printed pages, and the measurements the pattern was drafted
// from. Notices, if any, get their own sheet.
func WriteWorkbook(w io.Writer, res *pattern.Result, m pattern.Measurements) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PiecesSheet); err != nil {
		return err
	}
	for _, name := range []string{TilesSheet, MeasurementsSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	var rows [][]any
	if res.Canvas != nil {
		for _, pl := range res.Canvas.Placements() {
			p := pl.Piece
			bbox := pl.BoundingBox()
			rows = append(rows, []any{
				p.Name,
				p.Label,
				p.Cutting,
				round(bbox.Width()),
				round(bbox.Height()),
				round(p.Area()),
				round(bbox.X0),
				round(bbox.Y0),
				len(p.Notches),
			})
		}
	}
	if err := writeSheet(f, PiecesSheet, bold, pieceHeader, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, t := range res.Tiles {
		rows = append(rows, []any{
			t.PageNumber(),
			t.Row + 1,
			t.Col + 1,
			round(t.Printable.X0),
			round(t.Printable.Y0),
			round(t.Printable.X1),
			round(t.Printable.Y1),
			t.Label(),
		})
	}
	if err := writeSheet(f, TilesSheet, bold, tileHeader, rows); err != nil {
		return err
	}

	descriptions := map[string]string{}
	for _, info := range pattern.KnownMeasurements {
		descriptions[info.Name] = info.Description
	}
	rows = rows[:0]
	for _, name := range m.Names() {
		v, _ := m.Get(name)
		source := "profile " + m.Profile().Name
		if m.IsOverridden(name) {
			source = "override"
		}
		rows = append(rows, []any{name, v, source, descriptions[name]})
	}
	if err := writeSheet(f, MeasurementsSheet, bold, measurementHeader, rows); err != nil {
		return err
	}

	if len(res.Notices) > 0 {
		if _, err := f.NewSheet(NoticesSheet); err != nil {
			return err
		}
		rows = rows[:0]
		for _, n := range res.Notices {
			rows = append(rows, []any{n.Piece, n.Message})
		}
		if err := writeSheet(f, NoticesSheet, bold, []any{"Piece", "Notice"}, rows); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 14)
}

// round rounds v to a hundredth of a millimeter.
func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
