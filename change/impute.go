// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package change

import "math"

// DefaultEpsilon is the value added
// by FixedEpsilon
// when no epsilon is defined.
const DefaultEpsilon = 1e-5

// Imputation is a strategy to replace zeros
// before taking logarithms.
type Imputation interface {
	// Impute returns the imputed baseline
	// and follow-up values
	// of a single label,
	// and the number of zeros that were replaced.
	// Input slices are not modified.
	Impute(baseline, followUp []float64) (b, f []float64, n int)

	// String returns the name of the imputation.
	String() string
}

// FixedEpsilon adds a small fixed value
// to every value,
// zero or not.
type FixedEpsilon struct {
	// Epsilon is the added value.
	// If zero,
	// DefaultEpsilon is used.
	Epsilon float64
}

func (fe FixedEpsilon) epsilon() float64 {
	if fe.Epsilon <= 0 {
		return DefaultEpsilon
	}
	return fe.Epsilon
}

func (fe FixedEpsilon) Impute(baseline, followUp []float64) (b, f []float64, n int) {
	eps := fe.epsilon()
	b = make([]float64, len(baseline))
	f = make([]float64, len(followUp))
	for i, v := range baseline {
		if v == 0 {
			n++
		}
		b[i] = v + eps
	}
	for i, v := range followUp {
		if v == 0 {
			n++
		}
		f[i] = v + eps
	}
	return b, f, n
}

func (fe FixedEpsilon) String() string { return "epsilon" }

// HalfMinimum replaces each zero
// with half of the minimum non-zero value
// of the label at the same timepoint.
// Baseline and follow-up are imputed independently.
//
// If a timepoint does not have any non-zero value,
// the minimum non-zero value of the other timepoint is used.
// If all values are zero,
// they are set to 1,
// so the fold change is 0.
type HalfMinimum struct{}

func (HalfMinimum) Impute(baseline, followUp []float64) (b, f []float64, n int) {
	mb := minNonZero(baseline)
	mf := minNonZero(followUp)
	switch {
	case math.IsInf(mb, 1) && math.IsInf(mf, 1):
		mb, mf = 2, 2
	case math.IsInf(mb, 1):
		mb = mf
	case math.IsInf(mf, 1):
		mf = mb
	}

	b, nb := replaceZero(baseline, mb/2)
	f, nf := replaceZero(followUp, mf/2)
	return b, f, nb + nf
}

func (HalfMinimum) String() string { return "halfmin" }

func minNonZero(v []float64) float64 {
	m := math.Inf(1)
	for _, x := range v {
		if x > 0 && x < m {
			m = x
		}
	}
	return m
}

func replaceZero(v []float64, r float64) ([]float64, int) {
	n := 0
	c := make([]float64, len(v))
	for i, x := range v {
		if x == 0 {
			x = r
			n++
		}
		c[i] = x
	}
	return c, n
}
