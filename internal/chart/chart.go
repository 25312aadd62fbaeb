// Package chart draws a power table as one resistance-over-power curve per
// cadence line, optionally with the table as it was loaded drawn faded
// underneath.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/lowaak/smart-trainer/powertable-app/internal/powertable"
)

var ErrUnsupportedFormat = errors.New("unsupported chart format")

// Options sizes and labels a static chart
type Options struct {
	WidthInches  float64
	HeightInches float64
	Title        string
}

func DefaultOptions() Options {
	return Options{WidthInches: 10, HeightInches: 6, Title: "Power table"}
}

// FormatOf returns the chart format for path: png, svg, pdf or html
func FormatOf(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "png", "svg", "pdf", "html":
		return ext, nil
	case "htm":
		return "html", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ExportFile writes the chart to path in the format its extension names.
// original may be nil.
func ExportFile(path string, table, original *powertable.Table, opts Options) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	if format == "html" {
		err = RenderHTML(f, table, original, opts.Title)
	} else {
		err = RenderImage(f, format, table, original, opts)
	}
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close chart file: %w", cerr)
	}
	return err
}

// RenderImage draws a static chart in format (png, svg or pdf). The Y axis
// runs from 0 to the table's maximum resistance.
func RenderImage(w io.Writer, format string, table, original *powertable.Table, opts Options) error {
	switch format {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if opts.WidthInches <= 0 || opts.HeightInches <= 0 {
		def := DefaultOptions()
		opts.WidthInches, opts.HeightInches = def.WidthInches, def.HeightInches
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Power (W)"
	p.Y.Label.Text = "Resistance"
	p.Y.Min = 0
	p.Y.Max = float64(table.Config.MaxResistance)
	p.Add(plotter.NewGrid())

	if original != nil {
		for _, cadence := range original.Cadences() {
			line, err := plotter.NewLine(pointsXY(original.Points(cadence)))
			if err != nil {
				return fmt.Errorf("original %d RPM: %w", cadence, err)
			}
			line.Color = color.NRGBA{R: 128, G: 128, B: 128, A: 90}
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
			p.Add(line)
		}
	}

	for i, cadence := range table.Cadences() {
		xys := pointsXY(table.Points(cadence))
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("%d RPM: %w", cadence, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("%d RPM", cadence), line, points)
	}
	p.Legend.Top = true

	wt, err := p.WriterTo(vg.Length(opts.WidthInches)*vg.Inch, vg.Length(opts.HeightInches)*vg.Inch, format)
	if err != nil {
		return fmt.Errorf("failed to render %s chart: %w", format, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s chart: %w", format, err)
	}
	return nil
}

func pointsXY(points []powertable.Point) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, p := range points {
		xys[i].X = float64(p.Power)
		xys[i].Y = float64(p.Resistance)
	}
	return xys
}
