package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

// RenderHTML writes a self-contained page with a zoomable line chart. Zoom
// and pan happen in the browser.
func RenderHTML(w io.Writer, table, original *powertable.Table, title string) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d cadence lines, max resistance %d", table.LineCount(), table.Config.MaxResistance),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "Power (W)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "value",
			Name: "Resistance",
			Min:  0,
			Max:  table.Config.MaxResistance,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			XAxisIndex: []int{0},
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "slider",
			XAxisIndex: []int{0},
		}),
	)

	if original != nil {
		for _, cadence := range original.Cadences() {
			line.AddSeries(fmt.Sprintf("%d RPM (original)", cadence), lineData(original.Points(cadence)),
				charts.WithLineStyleOpts(opts.LineStyle{
					Color: "rgba(128,128,128,0.4)",
					Type:  "dashed",
				}),
			)
		}
	}
	for _, cadence := range table.Cadences() {
		line.AddSeries(fmt.Sprintf("%d RPM", cadence), lineData(table.Points(cadence)))
	}

	return line.Render(w)
}

func lineData(points []powertable.Point) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Value: []int{p.Power, p.Resistance}}
	}
	return data
}
