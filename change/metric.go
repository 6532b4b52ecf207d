// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package change

import (
	"fmt"
	"math"
	"strings"
)

// Metric is a change metric
// between a baseline and a follow-up value.
//
// The set of metrics is closed:
// Difference,
// RelativeChange,
// Log2FoldChange,
// and Custom,
// which wraps any user function.
type Metric interface {
	// Name returns the name of the metric.
	Name() string

	// apply returns the change of each pair
	// of baseline and follow-up values
	// of a single label,
	// and the number of values that were imputed.
	apply(baseline, followUp []float64) ([]float64, int)
}

// Difference is the follow-up value
// minus the baseline value.
type Difference struct{}

func (Difference) Name() string { return "difference" }

func (Difference) apply(baseline, followUp []float64) ([]float64, int) {
	c := make([]float64, len(baseline))
	for i := range c {
		c[i] = followUp[i] - baseline[i]
	}
	return c, 0
}

// RelativeChange is the difference
// divided by the sum of both values.
// If both values are 0,
// the change is 0.
type RelativeChange struct{}

func (RelativeChange) Name() string { return "relative" }

func (RelativeChange) apply(baseline, followUp []float64) ([]float64, int) {
	c := make([]float64, len(baseline))
	for i := range c {
		c[i] = relative(baseline[i], followUp[i])
	}
	return c, 0
}

func relative(t0, t1 float64) float64 {
	if t0 == 0 && t1 == 0 {
		return 0
	}
	return (t1 - t0) / (t1 + t0)
}

// Log2FoldChange is the log2 of the follow-up value
// minus the log2 of the baseline value.
// Zeros are imputed
// using the given imputation.
// If no imputation is given,
// FixedEpsilon with the default epsilon is used.
type Log2FoldChange struct {
	Imputation Imputation
}

func (l Log2FoldChange) Name() string {
	return "log2fc-" + l.imputation().String()
}

func (l Log2FoldChange) imputation() Imputation {
	if l.Imputation == nil {
		return FixedEpsilon{}
	}
	return l.Imputation
}

func (l Log2FoldChange) apply(baseline, followUp []float64) ([]float64, int) {
	b, f, n := l.imputation().Impute(baseline, followUp)
	c := make([]float64, len(b))
	for i := range c {
		c[i] = math.Log2(f[i]) - math.Log2(b[i])
	}
	return c, n
}

// Custom is a user-defined change metric.
// The function is called with the follow-up
// and baseline values
// (in that order)
// and no imputation is done.
type Custom struct {
	// Name of the metric
	Label string

	Fn func(followUp, baseline float64) float64
}

func (c Custom) Name() string {
	if c.Label == "" {
		return "custom"
	}
	return c.Label
}

func (c Custom) apply(baseline, followUp []float64) ([]float64, int) {
	ch := make([]float64, len(baseline))
	for i := range ch {
		ch[i] = c.Fn(followUp[i], baseline[i])
	}
	return ch, 0
}

// Apply returns the change of each pair
// of baseline and follow-up values
// using the given metric.
// The values are assumed to belong to a single label,
// as some imputations use all the values of a label.
func Apply(m Metric, baseline, followUp []float64) []float64 {
	if len(baseline) != len(followUp) {
		panic("change: baseline and follow-up values of different length")
	}
	c, _ := m.apply(baseline, followUp)
	return c
}

// ParseMetric returns a metric from its name.
// Valid names are:
//
//   - "difference" (or "diff")
//   - "relative"
//   - "log2fc" (or "log2fc-epsilon"), log2 fold change with epsilon imputation
//   - "log2fc-halfmin", log2 fold change with half minimum imputation
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "difference", "diff":
		return Difference{}, nil
	case "relative":
		return RelativeChange{}, nil
	case "log2fc", "log2fc-epsilon":
		return Log2FoldChange{Imputation: FixedEpsilon{}}, nil
	case "log2fc-halfmin":
		return Log2FoldChange{Imputation: HalfMinimum{}}, nil
	}
	return nil, fmt.Errorf("unknown change metric %q", name)
}
