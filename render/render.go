// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package render draws plots
// of the change of taxonomic labels
// between two timepoints.
package render

import (
	"errors"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when there are no values to plot.
var ErrNoData = errors.New("no data to plot")

// Figure is a plot with its size.
type Figure struct {
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
}

// Save saves the figure in a file.
// The format is taken from the file extension.
func (f Figure) Save(name string) error {
	return f.Plot.Save(f.Width, f.Height, name)
}

// Encode writes the figure
// in the given format
// (for example "png" or "svg").
func (f Figure) Encode(w io.Writer, format string) (int64, error) {
	wt, err := f.Plot.WriterTo(f.Width, f.Height, format)
	if err != nil {
		return 0, err
	}
	return wt.WriteTo(w)
}

// Options are the options of a plot.
type Options struct {
	Title string

	// Color gradient.
	// If nil,
	// Iridescent is used.
	Gradient Gradienter
}

func (o Options) gradient() Gradienter {
	if o.Gradient == nil {
		return Iridescent{}
	}
	return o.Gradient
}

// figureWidth returns the width of a figure
// with n categories in the X axis.
func figureWidth(n int) vg.Length {
	w := vg.Length(n) * vg.Inch / 2
	if w < 4*vg.Inch {
		return 4 * vg.Inch
	}
	return w + vg.Inch
}

// A swatch is a legend thumbnail
// filled with a color.
type swatch struct {
	c color.Color
}

// Thumbnail implements the plot.Thumbnailer interface.
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.c, pts)
}

// groupColors returns a color
// for each group.
func groupColors(groups []string, g Gradienter) map[string]color.Color {
	cs := make(map[string]color.Color, len(groups))
	for i, gr := range groups {
		v := 0.5
		if len(groups) > 1 {
			v = 0.1 + 0.8*float64(i)/float64(len(groups)-1)
		}
		cs[gr] = g.Gradient(v)
	}
	return cs
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// nominalTicks returns ticks
// at the integer positions
// with the given names.
func nominalTicks(names []string) plot.ConstantTicks {
	ticks := make([]plot.Tick, len(names))
	for i, n := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: n}
	}
	return plot.ConstantTicks(ticks)
}
