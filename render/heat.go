// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/js-arias/mbchange/change"
	"golang.org/x/exp/slices"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Number of colors in a heatmap palette.
const paletteSize = 64

// A changeGrid is a grid of change values
// with labels as columns
// and subjects as rows.
type changeGrid struct {
	z        [][]float64
	min, max float64
}

// Dims implements the plotter.GridXYZ interface.
func (g *changeGrid) Dims() (c, r int) {
	if len(g.z) == 0 {
		return 0, 0
	}
	return len(g.z[0]), len(g.z)
}

// Z implements the plotter.GridXYZ interface.
func (g *changeGrid) Z(c, r int) float64 { return g.z[r][c] }

// X implements the plotter.GridXYZ interface.
func (g *changeGrid) X(c int) float64 { return float64(c) }

// Y implements the plotter.GridXYZ interface.
func (g *changeGrid) Y(r int) float64 { return float64(r) }

func (g *changeGrid) Min() float64 { return g.min }
func (g *changeGrid) Max() float64 { return g.max }

// Heatmap returns a heatmap
// of the change of each label
// (in the X axis)
// in each subject
// (in the Y axis).
// Subjects are sorted by group
// and then by name.
// Missing or non-finite values are drawn in gray.
func Heatmap(res *change.Result, opt Options) (Figure, error) {
	labels, _ := labelsAndGroups(res)
	lbIdx := make(map[string]int, len(labels))
	for i, lb := range labels {
		lbIdx[lb] = i
	}

	type subject struct {
		name, group string
	}
	var subjects []subject
	sIdx := make(map[string]int)
	for _, r := range res.Records {
		if _, ok := sIdx[r.Subject]; ok {
			continue
		}
		sIdx[r.Subject] = len(subjects)
		subjects = append(subjects, subject{name: r.Subject, group: r.Group})
	}
	slices.SortStableFunc(subjects, func(a, b subject) int {
		if a.group != b.group {
			if a.group < b.group {
				return -1
			}
			return 1
		}
		if a.name < b.name {
			return -1
		}
		if a.name > b.name {
			return 1
		}
		return 0
	})
	names := make([]string, len(subjects))
	for i, s := range subjects {
		sIdx[s.name] = i
		names[i] = s.name
		if s.group != "" {
			names[i] = s.group + ": " + s.name
		}
	}

	g := &changeGrid{
		z:   make([][]float64, len(subjects)),
		min: math.Inf(1),
		max: math.Inf(-1),
	}
	for i := range g.z {
		g.z[i] = make([]float64, len(labels))
		for j := range g.z[i] {
			g.z[i][j] = math.NaN()
		}
	}
	for _, r := range res.Records {
		if !isFinite(r.Change) {
			continue
		}
		g.z[sIdx[r.Subject]][lbIdx[r.Label]] = r.Change
		g.min = math.Min(g.min, r.Change)
		g.max = math.Max(g.max, r.Change)
	}
	if math.IsInf(g.min, 1) {
		return Figure{}, ErrNoData
	}
	if g.min == g.max {
		g.min -= 0.5
		g.max += 0.5
	}

	grad := opt.gradient()
	h := plotter.NewHeatMap(g, palette{g: grad, n: paletteSize})
	h.Min = g.min
	h.Max = g.max
	h.NaN = color.RGBA{211, 211, 211, 255}

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = res.Level
	p.Add(h)
	p.NominalX(labels...)
	p.Y.Tick.Marker = nominalTicks(names)
	p.Legend.Top = true
	p.Legend.Add(fmt.Sprintf("%s %.3g", res.Metric, g.min), swatch{c: grad.Gradient(0)})
	p.Legend.Add(fmt.Sprintf("%s %.3g", res.Metric, g.max), swatch{c: grad.Gradient(1)})

	return Figure{
		Plot:   p,
		Width:  figureWidth(len(labels)),
		Height: 2*vg.Inch + vg.Length(len(subjects))*vg.Inch/4,
	}, nil
}
