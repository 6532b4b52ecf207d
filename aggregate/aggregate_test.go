// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package aggregate_test

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/js-arias/mbchange/abundance"
	"github.com/js-arias/mbchange/aggregate"
	"github.com/js-arias/mbchange/taxonomy"
)

func TestAggregate(t *testing.T) {
	m, tax := newData(t)

	tb, err := aggregate.Aggregate(m, tax, "genus", aggregate.Thresholds{})
	if err != nil {
		t.Fatalf("aggregate: unexpected error: %v", err)
	}

	labels := []string{"A", "B"}
	if g := tb.Labels(); !reflect.DeepEqual(g, labels) {
		t.Errorf("labels: got %v, want %v", g, labels)
	}
	samples := []string{"s1", "s2", "s3", "s4"}
	if g := tb.Samples(); !reflect.DeepEqual(g, samples) {
		t.Errorf("samples: got %v, want %v", g, samples)
	}
	if tb.Level() != "Genus" {
		t.Errorf("level: got %q, want %q", tb.Level(), "Genus")
	}

	rows := map[string][]float64{
		"A": {0.5, 0.4, 0.3, 0.2},
		"B": {0.5, 0.6, 0.7, 0.8},
	}
	for lb, w := range rows {
		g := tb.Row(lb)
		for i := range w {
			if !approx(g[i], w[i]) {
				t.Errorf("row %q: got %v, want %v", lb, g, w)
				break
			}
		}
	}

	var buf bytes.Buffer
	if err := tb.TSV(&buf); err != nil {
		t.Errorf("unable to write table: %v", err)
	}
	t.Logf("output:\n%s\n", buf.String())
}

func TestPooledPrevalence(t *testing.T) {
	m, err := abundance.New([]string{"f1", "f2", "f3"}, []string{"s1", "s2"})
	if err != nil {
		t.Fatalf("unable to build matrix: %v", err)
	}
	// label X is present in every sample,
	// but half of its pooled observations are zero.
	m.Set("f1", "s1", 0.4)
	m.Set("f1", "s2", 0.2)
	m.Set("f3", "s1", 0.6)
	m.Set("f3", "s2", 0.8)

	tax := taxonomy.New()
	tax.Add("f1", "genus", "X")
	tax.Add("f2", "genus", "X")
	tax.Add("f3", "genus", "Y")

	tb, err := aggregate.Aggregate(m, tax, "genus", aggregate.Thresholds{Prevalence: 0.6})
	if err != nil {
		t.Fatalf("aggregate: unexpected error: %v", err)
	}
	want := []string{"Y"}
	if g := tb.Labels(); !reflect.DeepEqual(g, want) {
		t.Errorf("labels: got %v, want %v", g, want)
	}

	// mean of X is (0.4+0.2)/4 = 0.15
	tb, err = aggregate.Aggregate(m, tax, "genus", aggregate.Thresholds{Abundance: 0.16})
	if err != nil {
		t.Fatalf("aggregate: unexpected error: %v", err)
	}
	if g := tb.Labels(); !reflect.DeepEqual(g, want) {
		t.Errorf("labels: got %v, want %v", g, want)
	}
}

func TestThresholdProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 17))
	for run := range 50 {
		m, tax := randData(t, rng)
		th := aggregate.Thresholds{
			Prevalence: rng.Float64(),
			Abundance:  rng.Float64() * 0.3,
		}
		tb, err := aggregate.Aggregate(m, tax, "genus", th)
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}

		// pooled statistics
		sum := make(map[string]float64)
		n := make(map[string]int)
		present := make(map[string]int)
		for _, o := range m.Long() {
			lb, _ := tax.Label(o.Feature, "genus")
			sum[lb] += o.Value
			n[lb]++
			if o.Value > 0 {
				present[lb]++
			}
		}

		retained := make(map[string]bool)
		for _, lb := range tb.Labels() {
			retained[lb] = true
			mean := sum[lb] / float64(n[lb])
			prev := float64(present[lb]) / float64(n[lb])
			if mean < th.Abundance || prev < th.Prevalence {
				t.Errorf("run %d: label %q retained with mean %.6f, prevalence %.6f (thresholds %+v)", run, lb, mean, prev, th)
			}
		}
		for lb := range n {
			if retained[lb] {
				continue
			}
			mean := sum[lb] / float64(n[lb])
			prev := float64(present[lb]) / float64(n[lb])
			if mean >= th.Abundance && prev >= th.Prevalence {
				t.Errorf("run %d: label %q removed with mean %.6f, prevalence %.6f (thresholds %+v)", run, lb, mean, prev, th)
			}
		}
	}
}

func TestIdempotent(t *testing.T) {
	m, tax := newData(t)
	tb, err := aggregate.Aggregate(m, tax, "genus", aggregate.Thresholds{})
	if err != nil {
		t.Fatalf("aggregate: unexpected error: %v", err)
	}

	again, err := aggregate.Aggregate(tb.Matrix(), taxonomy.New(), taxonomy.Original, aggregate.Thresholds{})
	if err != nil {
		t.Fatalf("second aggregate: unexpected error: %v", err)
	}
	if !reflect.DeepEqual(again.Labels(), tb.Labels()) {
		t.Errorf("labels: got %v, want %v", again.Labels(), tb.Labels())
	}
	if !reflect.DeepEqual(again.Long(), tb.Long()) {
		t.Errorf("values: got %v, want %v", again.Long(), tb.Long())
	}
}

func TestRestrict(t *testing.T) {
	m, tax := newData(t)
	tb, _ := aggregate.Aggregate(m, tax, "genus", aggregate.Thresholds{})

	r := tb.Restrict([]string{"B", "Z", "B"})
	if g := r.Labels(); !reflect.DeepEqual(g, []string{"B"}) {
		t.Errorf("restrict: got %v, want %v", g, []string{"B"})
	}
	if g, w := r.Row("B"), tb.Row("B"); !reflect.DeepEqual(g, w) {
		t.Errorf("restrict row: got %v, want %v", g, w)
	}
	if p := tb.Prevalence("A", []string{"s1", "s2", "unknown"}); p != 1 {
		t.Errorf("prevalence: got %.6f, want %.6f", p, 1.0)
	}
}

func TestErrors(t *testing.T) {
	m, tax := newData(t)
	for _, th := range []aggregate.Thresholds{
		{Prevalence: -0.1},
		{Prevalence: 1.1},
		{Abundance: -1},
	} {
		if _, err := aggregate.Aggregate(m, tax, "genus", th); !errors.Is(err, aggregate.ErrThreshold) {
			t.Errorf("thresholds %+v: got error %v, want %v", th, err, aggregate.ErrThreshold)
		}
	}
	if _, err := aggregate.Aggregate(m, tax, "order", aggregate.Thresholds{}); err == nil {
		t.Errorf("undefined level: expecting error")
	}
}

func TestResolveThresholds(t *testing.T) {
	req := aggregate.Thresholds{Prevalence: 0.1, Abundance: 0.001}
	tests := []struct {
		name     string
		tp       abundance.Type
		features bool
		topK     bool
		want     aggregate.Thresholds
	}{
		{"proportion", abundance.Proportion, false, false, req},
		{"count", abundance.Count, false, false, req},
		{"other", abundance.Other, false, false, aggregate.Thresholds{}},
		{"features", abundance.Proportion, true, false, aggregate.Thresholds{}},
		{"top-k", abundance.Count, false, true, aggregate.Thresholds{}},
	}
	for _, tt := range tests {
		if g := aggregate.ResolveThresholds(tt.tp, tt.features, tt.topK, req); g != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, g, tt.want)
		}
	}
}

// newData returns three features,
// collapsed into two labels,
// in four samples.
func newData(t testing.TB) (*abundance.Matrix, *taxonomy.Map) {
	t.Helper()

	m, err := abundance.New([]string{"otu1", "otu2", "otu3"}, []string{"s1", "s2", "s3", "s4"})
	if err != nil {
		t.Fatalf("unable to build matrix: %v", err)
	}
	vals := map[string][]float64{
		"otu1": {0.3, 0.2, 0.1, 0.2},
		"otu2": {0.5, 0.6, 0.7, 0.8},
		"otu3": {0.2, 0.2, 0.2, 0.0},
	}
	for f, vs := range vals {
		for i, v := range vs {
			m.Set(f, fmt.Sprintf("s%d", i+1), v)
		}
	}

	tax := taxonomy.New()
	tax.Add("otu1", "genus", "A")
	tax.Add("otu2", "genus", "B")
	tax.Add("otu3", "genus", "A")
	return m, tax
}

func randData(t testing.TB, rng *rand.Rand) (*abundance.Matrix, *taxonomy.Map) {
	t.Helper()

	nf := 3 + rng.IntN(10)
	ns := 2 + rng.IntN(6)
	features := make([]string, nf)
	for i := range features {
		features[i] = fmt.Sprintf("f%d", i)
	}
	samples := make([]string, ns)
	for i := range samples {
		samples[i] = fmt.Sprintf("s%d", i)
	}
	m, err := abundance.New(features, samples)
	if err != nil {
		t.Fatalf("unable to build matrix: %v", err)
	}
	tax := taxonomy.New()
	for _, f := range features {
		tax.Add(f, "genus", fmt.Sprintf("g%d", rng.IntN(4)))
		for _, s := range samples {
			if rng.Float64() < 0.4 {
				continue
			}
			m.Set(f, s, rng.Float64())
		}
	}
	return m, tax
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
