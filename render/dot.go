// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"math"

	"github.com/js-arias/mbchange/change"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Maximum and minimum radius of a dot.
const (
	maxRadius = 10
	minRadius = 2
)

// A dot is a summary
// located in the plot.
type dot struct {
	x, y   float64
	mean   float64
	weight float64
}

// A dotPlot is a plot of the mean change
// of each label and group.
// The color of the dot is the mean change,
// and its size is the absolute change in prevalence.
type dotPlot struct {
	dots     []dot
	min, max float64
	nx, ny   int
	gradient Gradienter
}

// DataRange implements the plot.DataRanger interface.
func (dp *dotPlot) DataRange() (xMin, xMax, yMin, yMax float64) {
	return -0.5, float64(dp.nx) - 0.5, -0.5, float64(dp.ny) - 0.5
}

// Plot implements the plot.Plotter interface.
func (dp *dotPlot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for _, d := range dp.dots {
		sty := draw.GlyphStyle{
			Color:  dp.gradient.Gradient(dp.scale(d.mean)),
			Radius: vg.Points(minRadius + (maxRadius-minRadius)*d.weight),
			Shape:  draw.CircleGlyph{},
		}
		c.DrawGlyph(sty, vg.Point{X: trX(d.x), Y: trY(d.y)})
	}
}

func (dp *dotPlot) scale(v float64) float64 {
	if dp.max == dp.min {
		return 0.5
	}
	return (v - dp.min) / (dp.max - dp.min)
}

// Dotplot returns a dot plot
// of the mean change of each label
// (in the X axis)
// and group
// (in the Y axis).
// The dot color is the mean change,
// and the dot size is the absolute change in prevalence
// (if prevalence is not defined,
// all dots have the same size).
func Dotplot(level string, sum []change.Summary, opt Options) (Figure, error) {
	var labels, groups []string
	lbIdx := make(map[string]int)
	grIdx := make(map[string]int)
	for _, s := range sum {
		if _, ok := lbIdx[s.Label]; !ok {
			lbIdx[s.Label] = len(labels)
			labels = append(labels, s.Label)
		}
		if _, ok := grIdx[s.Group]; !ok {
			grIdx[s.Group] = len(groups)
			groups = append(groups, s.Group)
		}
	}

	dp := &dotPlot{
		nx:       len(labels),
		ny:       len(groups),
		min:      math.Inf(1),
		max:      math.Inf(-1),
		gradient: opt.gradient(),
	}
	var maxPrev float64
	for _, s := range sum {
		if !isFinite(s.Mean) {
			continue
		}
		w := math.Abs(s.PrevChange)
		if !isFinite(w) {
			w = 0
		}
		dp.dots = append(dp.dots, dot{
			x:      float64(lbIdx[s.Label]),
			y:      float64(grIdx[s.Group]),
			mean:   s.Mean,
			weight: w,
		})
		dp.min = math.Min(dp.min, s.Mean)
		dp.max = math.Max(dp.max, s.Mean)
		maxPrev = math.Max(maxPrev, w)
	}
	if len(dp.dots) == 0 {
		return Figure{}, ErrNoData
	}
	for i := range dp.dots {
		if maxPrev == 0 {
			dp.dots[i].weight = 0.5
			continue
		}
		dp.dots[i].weight /= maxPrev
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = level
	p.Y.Label.Text = "group"
	p.Add(dp)
	p.NominalX(labels...)
	p.Y.Tick.Marker = nominalTicks(groups)
	p.Legend.Top = true
	p.Legend.Add(fmt.Sprintf("min %.3g", dp.min), swatch{c: dp.gradient.Gradient(0)})
	p.Legend.Add(fmt.Sprintf("max %.3g", dp.max), swatch{c: dp.gradient.Gradient(1)})

	return Figure{
		Plot:   p,
		Width:  figureWidth(len(labels)),
		Height: 2*vg.Inch + vg.Length(len(groups))*vg.Inch/2,
	}, nil
}
