// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package aggregate collapses the raw features of an abundance matrix
// into taxonomic labels,
// after removing the labels with low prevalence
// or low abundance.
package aggregate

import (
	"errors"
	"fmt"
	"math"

	"github.com/js-arias/mbchange/abundance"
	"github.com/js-arias/mbchange/taxonomy"
)

// ErrThreshold is returned when a filtering threshold
// is outside its valid range.
var ErrThreshold = errors.New("invalid filter threshold")

// Thresholds are the filters used to retain a label.
type Thresholds struct {
	// Minimum fraction of observations
	// with a non-zero abundance,
	// in [0, 1].
	Prevalence float64

	// Minimum mean abundance,
	// it should be non-negative.
	Abundance float64
}

// Validate returns an error
// if a threshold is out of range.
func (th Thresholds) Validate() error {
	if math.IsNaN(th.Prevalence) || th.Prevalence < 0 || th.Prevalence > 1 {
		return fmt.Errorf("prevalence %v: %w", th.Prevalence, ErrThreshold)
	}
	if math.IsNaN(th.Abundance) || math.IsInf(th.Abundance, 0) || th.Abundance < 0 {
		return fmt.Errorf("abundance %v: %w", th.Abundance, ErrThreshold)
	}
	return nil
}

// ResolveThresholds returns the thresholds
// that will be used in an analysis.
// If the data type is user-defined,
// or the features are explicitly selected
// (either as an explicit list,
// or by a top-k ranking),
// the filters are redundant,
// so both thresholds are set to 0.
// Otherwise the requested thresholds are returned.
func ResolveThresholds(t abundance.Type, hasFeatures, hasTopK bool, req Thresholds) Thresholds {
	if t == abundance.Other || hasFeatures || hasTopK {
		return Thresholds{}
	}
	return req
}

// A labelStat accumulates the observations
// pooled under a label.
type labelStat struct {
	sum     float64
	n       int
	present int
}

func (ls labelStat) mean() float64 {
	if ls.n == 0 {
		return 0
	}
	return ls.sum / float64(ls.n)
}

func (ls labelStat) prevalence() float64 {
	if ls.n == 0 {
		return 0
	}
	return float64(ls.present) / float64(ls.n)
}

// Aggregate collapses the features of an abundance matrix
// into the labels of the given taxonomic level.
//
// Prevalence and mean abundance of a label
// are calculated pooling all the observations
// of all the features
// in all the samples
// that share the label.
// Only labels with a mean abundance
// and a prevalence
// at least equal to the thresholds
// are retained.
// The abundance of a retained label in a sample
// is the sum of the abundances
// of its features.
//
// Labels are ordered by the first feature
// (in matrix order)
// with the label.
func Aggregate(m *abundance.Matrix, tax *taxonomy.Map, level string, th Thresholds) (*Table, error) {
	if err := th.Validate(); err != nil {
		return nil, err
	}
	if !tax.HasLevel(level) {
		return nil, fmt.Errorf("taxonomic level %q not defined", level)
	}
	level = taxonomy.CanonLevel(level)

	features := m.Features()
	fLabel := make(map[string]string, len(features))
	var order []string
	stats := make(map[string]*labelStat)
	for _, f := range features {
		lb, _ := tax.Label(f, level)
		fLabel[f] = lb
		if _, ok := stats[lb]; !ok {
			stats[lb] = &labelStat{}
			order = append(order, lb)
		}
	}

	for _, o := range m.Long() {
		ls := stats[fLabel[o.Feature]]
		ls.sum += o.Value
		ls.n++
		if o.Value > 0 {
			ls.present++
		}
	}

	var labels []string
	for _, lb := range order {
		ls := stats[lb]
		if ls.mean() < th.Abundance {
			continue
		}
		if ls.prevalence() < th.Prevalence {
			continue
		}
		labels = append(labels, lb)
	}

	t := newTable(level, labels, m.Samples())
	for _, o := range m.Long() {
		i, ok := t.idx[fLabel[o.Feature]]
		if !ok {
			continue
		}
		t.m[i][t.sIdx[o.Sample]] += o.Value
	}
	return t, nil
}
