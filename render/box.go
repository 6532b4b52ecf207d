// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"fmt"

	"github.com/js-arias/mbchange/change"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Boxplot returns a boxplot
// of the change of each label.
// If subjects are grouped,
// each label has a box per group.
// Non-finite change values are ignored.
func Boxplot(res *change.Result, opt Options) (Figure, error) {
	labels, groups := labelsAndGroups(res)
	vals := make(map[string]map[string]plotter.Values, len(labels))
	for _, r := range res.Records {
		if !isFinite(r.Change) {
			continue
		}
		g, ok := vals[r.Label]
		if !ok {
			g = make(map[string]plotter.Values)
			vals[r.Label] = g
		}
		g[r.Group] = append(g[r.Group], r.Change)
	}
	if len(vals) == 0 {
		return Figure{}, ErrNoData
	}

	p := plot.New()
	p.Title.Text = opt.Title
	p.X.Label.Text = res.Level
	p.Y.Label.Text = fmt.Sprintf("%s change (%s vs %s)", res.Metric, res.FollowUp, res.Baseline)

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(zero)

	colors := groupColors(groups, opt.gradient())
	w := vg.Points(30) / vg.Length(len(groups))
	for j, gr := range groups {
		off := -0.4 + 0.8*(float64(j)+0.5)/float64(len(groups))
		for i, lb := range labels {
			v := vals[lb][gr]
			if len(v) == 0 {
				continue
			}
			b, err := plotter.NewBoxPlot(w, float64(i)+off, v)
			if err != nil {
				return Figure{}, fmt.Errorf("label %q: %v", lb, err)
			}
			b.FillColor = colors[gr]
			p.Add(b)
		}
		if len(groups) > 1 {
			p.Legend.Add(gr, swatch{c: colors[gr]})
		}
	}
	p.NominalX(labels...)
	p.X.Min = -0.5
	p.X.Max = float64(len(labels)) - 0.5
	p.Legend.Top = true

	return Figure{
		Plot:   p,
		Width:  figureWidth(len(labels)),
		Height: 4 * vg.Inch,
	}, nil
}

// labelsAndGroups returns the labels
// and the groups of a change result
// in the order in which they are found.
func labelsAndGroups(res *change.Result) (labels, groups []string) {
	lbSet := make(map[string]bool)
	grSet := make(map[string]bool)
	for _, r := range res.Records {
		if !lbSet[r.Label] {
			lbSet[r.Label] = true
			labels = append(labels, r.Label)
		}
		if !grSet[r.Group] {
			grSet[r.Group] = true
			groups = append(groups, r.Group)
		}
	}
	return labels, groups
}
