// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render_test

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/js-arias/mbchange/change"
	"github.com/js-arias/mbchange/render"
)

func TestBoxplot(t *testing.T) {
	res := newResult()
	f, err := render.Boxplot(res, render.Options{Title: "boxplot"})
	if err != nil {
		t.Fatalf("boxplot: unexpected error: %v", err)
	}
	testSave(t, "boxplot", f)
}

func TestDotplot(t *testing.T) {
	res := newResult()
	f, err := render.Dotplot(res.Level, change.Summarize(res), render.Options{Gradient: render.Incandescent{}})
	if err != nil {
		t.Fatalf("dotplot: unexpected error: %v", err)
	}
	testSave(t, "dotplot", f)
}

func TestHeatmap(t *testing.T) {
	res := newResult()
	f, err := render.Heatmap(res, render.Options{Gradient: render.RainbowPurpleToRed{}})
	if err != nil {
		t.Fatalf("heatmap: unexpected error: %v", err)
	}
	testSave(t, "heatmap", f)

	var buf bytes.Buffer
	if _, err := f.Encode(&buf, "svg"); err != nil {
		t.Fatalf("heatmap: svg: unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Errorf("heatmap: svg: output is not an SVG document")
	}
}

func TestNoData(t *testing.T) {
	res := &change.Result{
		Level:  "Genus",
		Metric: "difference",
		Records: []change.Record{
			{Label: "A", Subject: "p1", Change: math.NaN()},
		},
	}
	if _, err := render.Boxplot(res, render.Options{}); !errors.Is(err, render.ErrNoData) {
		t.Errorf("boxplot: got error %v, want %v", err, render.ErrNoData)
	}
	if _, err := render.Heatmap(res, render.Options{}); !errors.Is(err, render.ErrNoData) {
		t.Errorf("heatmap: got error %v, want %v", err, render.ErrNoData)
	}
	if _, err := render.Dotplot(res.Level, nil, render.Options{}); !errors.Is(err, render.ErrNoData) {
		t.Errorf("dotplot: got error %v, want %v", err, render.ErrNoData)
	}
}

func TestGradient(t *testing.T) {
	g, err := render.ParseGradient("Gray")
	if err != nil {
		t.Fatalf("parse gradient: unexpected error: %v", err)
	}
	tests := map[float64]color.RGBA{
		-1:  {200, 200, 200, 255},
		0:   {200, 200, 200, 255},
		0.5: {100, 100, 100, 255},
		1:   {0, 0, 0, 255},
		2:   {0, 0, 0, 255},
	}
	for v, want := range tests {
		if got := g.Gradient(v); got != want {
			t.Errorf("gray %.2f: got %v, want %v", v, got, want)
		}
	}

	if _, err := render.ParseGradient("sunset"); err == nil {
		t.Errorf("parse gradient: expecting error for unknown gradient")
	}
}

func testSave(t testing.TB, name string, f render.Figure) {
	t.Helper()

	file := filepath.Join(t.TempDir(), name+".png")
	if err := f.Save(file); err != nil {
		t.Fatalf("%s: save: unexpected error: %v", name, err)
	}
	st, err := os.Stat(file)
	if err != nil {
		t.Fatalf("%s: stat: unexpected error: %v", name, err)
	}
	if st.Size() == 0 {
		t.Errorf("%s: empty image file", name)
	}
}

func newResult() *change.Result {
	return &change.Result{
		Level:      "Genus",
		Baseline:   "1",
		FollowUp:   "2",
		Metric:     "difference",
		Prevalence: true,
		Records: []change.Record{
			{Label: "A", Subject: "p1", Group: "control", Baseline: 0.5, FollowUp: 0.4, Change: -0.1, PrevChange: 0},
			{Label: "A", Subject: "p2", Group: "control", Baseline: 0.4, FollowUp: 0.6, Change: 0.2, PrevChange: 0},
			{Label: "A", Subject: "p3", Group: "treatment", Baseline: 0.3, FollowUp: 0.2, Change: -0.1, PrevChange: -0.5},
			{Label: "A", Subject: "p4", Group: "treatment", Baseline: 0.1, FollowUp: 0, Change: -0.1, PrevChange: -0.5},
			{Label: "B", Subject: "p1", Group: "control", Baseline: 0.5, FollowUp: 0.6, Change: 0.1, PrevChange: 0},
			{Label: "B", Subject: "p2", Group: "control", Baseline: 0.6, FollowUp: 0.4, Change: -0.2, PrevChange: 0},
			{Label: "B", Subject: "p3", Group: "treatment", Baseline: 0.7, FollowUp: 0.8, Change: 0.1, PrevChange: 0},
			{Label: "B", Subject: "p4", Group: "treatment", Baseline: 0.9, FollowUp: 1, Change: 0.1, PrevChange: 0},
		},
	}
}
