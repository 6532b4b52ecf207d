// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package topk_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/mbchange/abundance"
	"github.com/js-arias/mbchange/aggregate"
	"github.com/js-arias/mbchange/taxonomy"
	"github.com/js-arias/mbchange/topk"
)

func TestSelect(t *testing.T) {
	tb := newTable(t)

	tests := []struct {
		name string
		rank topk.Rank
		k    int
		want []string
	}{
		{"mean top 2", topk.Mean{}, 2, []string{"d", "a"}},
		// a, b and c share the mean 0.25
		{"mean ties", topk.Mean{}, 4, []string{"d", "a", "b", "c"}},
		{"k larger than rows", topk.Mean{}, 10, []string{"d", "a", "b", "c"}},
		{"zero k", topk.Mean{}, 0, nil},
		{"sd", topk.StdDev{}, 2, []string{"b", "c"}},
		{"custom max", topk.Custom{Name: "max", Fn: maxRow}, 1, []string{"b"}},
	}
	for _, tt := range tests {
		got := topk.Select(tb, tt.rank, tt.k)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
		if w := min(max(tt.k, 0), tb.Len()); len(got) != w {
			t.Errorf("%s: got %d labels, want %d", tt.name, len(got), w)
		}
	}
}

func TestParseRank(t *testing.T) {
	for _, n := range []string{"mean", "SD", "stddev"} {
		if _, err := topk.ParseRank(n); err != nil {
			t.Errorf("rank %q: unexpected error: %v", n, err)
		}
	}
	if _, err := topk.ParseRank("median"); err == nil {
		t.Errorf("rank %q: expecting error", "median")
	}
}

func newTable(t testing.TB) *aggregate.Table {
	t.Helper()

	rows := map[string][]float64{
		"a": {0.25, 0.25, 0.25, 0.25},
		"b": {0, 1, 0, 0},
		"c": {0.125, 0.375, 0.125, 0.375},
		"d": {0.75, 0.5, 0.625, 0.5},
	}
	samples := []string{"s1", "s2", "s3", "s4"}
	m, err := abundance.New([]string{"a", "b", "c", "d"}, samples)
	if err != nil {
		t.Fatalf("unable to build matrix: %v", err)
	}
	for f, r := range rows {
		for i, v := range r {
			m.Set(f, samples[i], v)
		}
	}
	tb, err := aggregate.Aggregate(m, taxonomy.New(), taxonomy.Original, aggregate.Thresholds{})
	if err != nil {
		t.Fatalf("unable to aggregate: %v", err)
	}
	return tb
}

func maxRow(row []float64) float64 {
	mx := math.Inf(-1)
	for _, v := range row {
		mx = max(mx, v)
	}
	return mx
}
