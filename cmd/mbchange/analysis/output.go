// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package analysis

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/js-arias/mbchange/change"
	"github.com/js-arias/mbchange/pipeline"
	"github.com/js-arias/mbchange/render"
)

// PlotHelp is the description of the plot types.
const PlotHelp = `
Valid plot types are:

	box   a boxplot of the change of each label (and group).
	dot   a dot plot of the mean change of each label and group, the dot
	      size is the change in prevalence (requires --prev to be
	      meaningful).
	heat  a heatmap of the change of each label in each subject.
	all   all of the above.

With a log2 fold change metric, each plot type imputes zeros in its own way:
boxplots use half of the minimum non-zero value of the label (as in
"log2fc-halfmin"), dot plots add the --epsilon value (as in "log2fc"), and
heatmaps use the requested metric. The metric is part of the file name.
`

// PlotTypes returns the plot types
// from a flag value.
func PlotTypes(v string) ([]string, error) {
	var types []string
	for _, t := range splitList(strings.ToLower(v)) {
		switch t {
		case "box", "dot", "heat":
			types = append(types, t)
		case "all":
			types = append(types, "box", "dot", "heat")
		default:
			return nil, fmt.Errorf("unknown plot type %q", t)
		}
	}
	return types, nil
}

var plotOps = map[string]string{
	"box":  "boxplot",
	"dot":  "dotplot",
	"heat": "heatmap",
}

// PlotMetric returns the change metric
// used by a plot type.
// If m is a log2 fold change,
// each plot uses its own imputation of zeros:
// a boxplot of individual changes uses the half minimum of each label,
// and a dot plot of mean changes uses a fixed epsilon
// (eps, or the default epsilon if eps is not positive).
// Any other metric is returned unchanged.
func PlotMetric(kind string, m change.Metric, eps float64) change.Metric {
	if _, ok := m.(change.Log2FoldChange); !ok {
		return m
	}
	switch kind {
	case "box":
		return change.Log2FoldChange{Imputation: change.HalfMinimum{}}
	case "dot":
		return change.Log2FoldChange{Imputation: change.FixedEpsilon{Epsilon: eps}}
	}
	return m
}

// Plotter draws plots of level results
// and saves them in a directory.
type Plotter struct {
	// Output directory and image format.
	Dir    string
	Format string

	Gradient render.Gradienter

	// Epsilon used by the log2 fold change
	// of the dot plots.
	Epsilon float64

	// Data and request of the analysis,
	// used when a plot requires
	// a different change metric.
	Data    pipeline.Data
	Request pipeline.Request
}

// Plot draws a plot of a level result
// and returns the name of the file.
func (p Plotter) Plot(kind string, res pipeline.Result) (string, error) {
	if _, ok := plotOps[kind]; !ok {
		return "", fmt.Errorf("unknown plot type %q", kind)
	}

	req := p.Request
	if m := PlotMetric(kind, req.Metric, p.Epsilon); m != nil && req.Metric != nil && m.Name() != req.Metric.Name() {
		r, err := pipeline.WithMetric(p.Data, req, res, m)
		if err != nil {
			return "", err
		}
		res = r
		req.Metric = m
	}

	name := filepath.Join(p.Dir, pipeline.OutputName(plotOps[kind], req, res.Level, res.Thresholds, "", p.Format))
	opt := render.Options{
		Title:    fmt.Sprintf("%s: %s vs %s", res.Level, res.Change.FollowUp, res.Change.Baseline),
		Gradient: p.Gradient,
	}

	var f render.Figure
	var err error
	switch kind {
	case "box":
		f, err = render.Boxplot(res.Change, opt)
	case "dot":
		f, err = render.Dotplot(res.Level, change.Summarize(res.Change), opt)
	case "heat":
		f, err = render.Heatmap(res.Change, opt)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %v", name, err)
	}

	if err := mkDir(p.Dir); err != nil {
		return "", err
	}
	if err := f.Save(name); err != nil {
		return "", fmt.Errorf("while writing %q: %v", name, err)
	}
	return name, nil
}

// WriteFile creates a file
// and writes on it using the given function.
func WriteFile(name string, fn func(w io.Writer) error) (err error) {
	if err := mkDir(filepath.Dir(name)); err != nil {
		return err
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	if err := fn(bw); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}

func mkDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
