// Package radar renders radar (spider) charts of labelled matrices: one
// spoke per column, one closed translucent polygon per row subset. The
// canonical use is showing how a population of neurons distributes cable
// or end nodes across glomeruli.
//
// Values are proportions: each series is the column sums of its rows
// divided by the grand sum, so every polygon is scale-free and series of
// different sizes overlay meaningfully.
//
// Errors:
//
//	ErrNilMatrix   - no matrix given.
//	ErrTooFewAxes  - fewer than three columns.
//	ErrUnknownRow  - a subset references a missing row label.
//	ErrAllZero     - a series sums to zero, so proportions are undefined.
package radar

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/NikDrummond/pntools/cable"
)

// Sentinel errors for radar plotting.
var (
	// ErrNilMatrix indicates no matrix was given.
	ErrNilMatrix = errors.New("radar: matrix is nil")

	// ErrTooFewAxes indicates fewer than three columns.
	ErrTooFewAxes = errors.New("radar: need at least three columns")

	// ErrUnknownRow indicates a subset references a missing row label.
	ErrUnknownRow = errors.New("radar: unknown row label")

	// ErrAllZero indicates a series sums to zero.
	ErrAllZero = errors.New("radar: series sums to zero")
)

// fillAlpha is the translucency of the series fill.
const fillAlpha = 0x20

// labelOffset pushes spoke labels just beyond the outer ring.
const labelOffset = 1.08

// Option configures a radar plot.
type Option func(*Options)

// Options holds radar configuration.
type Options struct {
	// Title is drawn above the chart when non-empty.
	Title string

	// Size is the edge length used by Save. Radar charts crowd quickly,
	// so the default is generous.
	Size vg.Length
}

// DefaultOptions returns an untitled 10-inch chart.
func DefaultOptions() Options {
	return Options{Size: 10 * vg.Inch}
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(o *Options) { o.Title = title }
}

// WithSize sets the edge length used by Save.
func WithSize(size vg.Length) Option {
	return func(o *Options) { o.Size = size }
}

// Chart couples the assembled plot with its save size.
type Chart struct {
	// Plot is the assembled gonum plot, open for further styling.
	Plot *plot.Plot

	size vg.Length
}

// Save renders the chart to path; the format follows the extension
// (.png, .svg, .pdf).
func (c *Chart) Save(path string) error {
	if err := c.Plot.Save(c.size, c.size, path); err != nil {
		return fmt.Errorf("radar: save %q: %w", path, err)
	}

	return nil
}

// New builds a radar chart from m.
//
// Each entry of subsets names the matrix rows of one overlaid series; a
// nil subsets plots every row as a single series. Column labels become
// spoke labels; series values are column-sum proportions.
func New(m *cable.Matrix, subsets [][]string, opts ...Option) (*Chart, error) {
	// 1. Validate input
	if m == nil {
		return nil, ErrNilMatrix
	}
	if len(m.Cols) < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewAxes, len(m.Cols))
	}
	if subsets == nil {
		subsets = [][]string{m.Rows}
	}

	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	// 2. Base plot: hidden cartesian axes, fixed [-1.1, 1.1] square.
	p := plot.New()
	p.Title.Text = o.Title
	p.HideAxes()
	pad := labelOffset + 0.1
	p.X.Min, p.X.Max = -pad, pad
	p.Y.Min, p.Y.Max = -pad, pad

	// 3. Spokes and labels.
	n := len(m.Cols)
	if err := addSpokes(p, m.Cols); err != nil {
		return nil, err
	}

	// 4. One polygon per subset.
	for si, subset := range subsets {
		props, err := proportions(m, subset)
		if err != nil {
			return nil, err
		}
		xys := make(plotter.XYs, n+1)
		for j, v := range props {
			xys[j].X, xys[j].Y = project(j, n, v)
		}
		xys[n] = xys[0] // close the ring

		poly, err := plotter.NewPolygon(xys)
		if err != nil {
			return nil, fmt.Errorf("radar: polygon: %w", err)
		}
		base := plotutil.Color(si)
		poly.Color = withAlpha(base, fillAlpha)
		poly.LineStyle.Color = base
		poly.LineStyle.Width = vg.Points(1.5)
		p.Add(poly)
	}

	return &Chart{Plot: p, size: o.Size}, nil
}

// proportions returns the column sums of the subset rows over the subset
// grand sum.
func proportions(m *cable.Matrix, subset []string) ([]float64, error) {
	out := make([]float64, len(m.Cols))
	var grand float64
	for _, label := range subset {
		row, err := m.Row(label)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownRow, label)
		}
		for j, v := range row {
			out[j] += v
			grand += v
		}
	}
	if grand == 0 {
		return nil, ErrAllZero
	}
	for j := range out {
		out[j] /= grand
	}

	return out, nil
}

// project maps spoke j of n at radius v onto chart coordinates, starting
// at twelve o'clock and walking clockwise.
func project(j, n int, v float64) (x, y float64) {
	theta := 2 * math.Pi * float64(j) / float64(n)

	return v * math.Sin(theta), v * math.Cos(theta)
}

// addSpokes draws one unit spoke and one label per column.
func addSpokes(p *plot.Plot, cols []string) error {
	n := len(cols)
	labelXYs := plotter.XYLabels{
		XYs:    make(plotter.XYs, n),
		Labels: make([]string, n),
	}
	for j, name := range cols {
		x, y := project(j, n, 1)
		spoke := plotter.XYs{{X: 0, Y: 0}, {X: x, Y: y}}
		line, err := plotter.NewLine(spoke)
		if err != nil {
			return fmt.Errorf("radar: spoke: %w", err)
		}
		line.LineStyle.Color = color.Gray{Y: 0xcc}
		line.LineStyle.Width = vg.Points(0.5)
		p.Add(line)

		lx, ly := project(j, n, labelOffset)
		labelXYs.XYs[j] = plotter.XY{X: lx, Y: ly}
		labelXYs.Labels[j] = name
	}

	labels, err := plotter.NewLabels(labelXYs)
	if err != nil {
		return fmt.Errorf("radar: labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(labels)

	return nil
}

// withAlpha returns base with the given alpha.
func withAlpha(base color.Color, alpha uint8) color.Color {
	r, g, b, _ := base.RGBA()

	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
