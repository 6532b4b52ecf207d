// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package topk selects the most important labels
// of an aggregated table,
// using a ranking statistic.
package topk

import (
	"fmt"
	"strings"

	"github.com/js-arias/mbchange/aggregate"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
)

// Rank is a statistic used to rank
// the rows of a table.
type Rank interface {
	// Rank returns the ranking value
	// of the abundances of a label.
	Rank(row []float64) float64

	// String returns the name of the statistic.
	String() string
}

// Mean ranks a label
// by its arithmetic mean abundance
// across samples.
type Mean struct{}

func (Mean) Rank(row []float64) float64 {
	if len(row) == 0 {
		return 0
	}
	return stat.Mean(row, nil)
}

func (Mean) String() string { return "mean" }

// StdDev ranks a label
// by the sample standard deviation
// of its abundances.
type StdDev struct{}

func (StdDev) Rank(row []float64) float64 {
	if len(row) < 2 {
		return 0
	}
	return stat.StdDev(row, nil)
}

func (StdDev) String() string { return "sd" }

// Custom is a user-defined ranking function.
type Custom struct {
	Name string
	Fn   func(row []float64) float64
}

func (c Custom) Rank(row []float64) float64 {
	return c.Fn(row)
}

func (c Custom) String() string {
	if c.Name == "" {
		return "custom"
	}
	return c.Name
}

// ParseRank returns a ranking statistic
// from its name.
// Valid names are "mean" and "sd".
func ParseRank(name string) (Rank, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mean":
		return Mean{}, nil
	case "sd", "stddev":
		return StdDev{}, nil
	}
	return nil, fmt.Errorf("unknown ranking statistic %q", name)
}

// Select returns the k labels of a table
// with the largest ranking value,
// in descending order.
// Ties keep the row order of the table.
// If k is larger than the number of labels,
// all labels are returned.
func Select(t *aggregate.Table, r Rank, k int) []string {
	if k <= 0 {
		return nil
	}

	type ranked struct {
		label string
		v     float64
	}
	labels := t.Labels()
	rs := make([]ranked, 0, len(labels))
	for _, lb := range labels {
		rs = append(rs, ranked{
			label: lb,
			v:     r.Rank(t.Row(lb)),
		})
	}
	slices.SortStableFunc(rs, func(a, b ranked) int {
		if a.v > b.v {
			return -1
		}
		if a.v < b.v {
			return 1
		}
		return 0
	})

	k = min(k, len(rs))
	sel := make([]string, 0, k)
	for _, x := range rs[:k] {
		sel = append(sel, x.label)
	}
	return sel
}
