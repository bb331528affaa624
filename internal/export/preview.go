package export

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"honnef.co/go/pattern"
)

// previewTolerance is coarser than the drafting tolerance; the preview is
// only looked at on screen.
const previewTolerance = 0.1

// WritePreview writes an interactive HTML preview of the canvas, with one
// series per piece. The y axis points up in the chart, so the pieces are
// mirrored to keep them upright.
func WritePreview(w io.Writer, c *pattern.Canvas, title string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1200px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "All dimensions in cm"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "y"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	for _, p := range c.Pieces() {
		outline := p.Outline(previewTolerance)
		data := make([]opts.LineData, len(outline))
		for i, pt := range outline {
			data[i] = opts.LineData{Value: []any{round(pt.X), round(-pt.Y)}}
		}
		line.AddSeries(p.Name, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		)
	}
	return line.Render(w)
}
