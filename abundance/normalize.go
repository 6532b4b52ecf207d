// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package abundance

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Type is the declared unit
// of the abundances in a matrix.
type Type string

// Valid data types.
const (
	// Raw read counts.
	// They must be rarefied and normalized
	// before any analysis.
	Count Type = "count"

	// Relative abundances
	// (each sample sums to 1).
	Proportion Type = "proportion"

	// Any other, user-defined, scale.
	Other Type = "other"
)

// ParseType returns the data type
// from a string.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case Count, Proportion, Other:
		return t, nil
	case "":
		return "", fmt.Errorf("empty data type")
	}
	return "", fmt.Errorf("unknown data type %q", s)
}

// ErrNotNormalized is returned when a count matrix
// is used without being normalized.
var ErrNotNormalized = errors.New("count data is not normalized")

// Tolerance used when checking the total of a normalized sample.
const sumTolerance = 1e-6

// CheckNormalized checks that a matrix can be used
// under the given data type.
// Count data must be already rarefied and normalized,
// so each sample should sum to 1
// (or be empty).
// Other data types are always accepted.
func CheckNormalized(t Type, m *Matrix) error {
	if t != Count {
		return nil
	}
	for j, s := range m.samples {
		col := make([]float64, len(m.features))
		for i := range m.m {
			col[i] = m.m[i][j]
		}
		sum := floats.Sum(col)
		if sum == 0 {
			continue
		}
		if math.Abs(sum-1) > sumTolerance {
			return fmt.Errorf("sample %q: total %.6f: %w", s, sum, ErrNotNormalized)
		}
	}
	return nil
}

// TSS returns a new matrix
// normalized by the total sum scaling,
// so the abundances of each sample sum to 1.
// Samples without any observation are kept as zeros.
func TSS(m *Matrix) *Matrix {
	nm, _ := New(m.features, m.samples)
	for j := range m.samples {
		col := make([]float64, len(m.features))
		for i := range m.m {
			col[i] = m.m[i][j]
		}
		sum := floats.Sum(col)
		if sum == 0 {
			continue
		}
		for i := range nm.m {
			nm.m[i][j] = col[i] / sum
		}
	}
	return nm
}

// Rarefy returns a new matrix
// in which each sample is subsampled without replacement
// to the given depth.
// Samples with fewer counts than depth are removed.
// Abundances must be integer counts.
func Rarefy(m *Matrix, depth int, rng *rand.Rand) (*Matrix, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("invalid rarefaction depth %d", depth)
	}

	var keep []string
	var cols [][]int
	for j, s := range m.samples {
		col := make([]int, len(m.features))
		total := 0
		for i := range m.m {
			v := m.m[i][j]
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("sample %q, feature %q: non-integer count %v", s, m.features[i], v)
			}
			col[i] = int(v)
			total += col[i]
		}
		if total < depth {
			continue
		}
		keep = append(keep, s)
		cols = append(cols, subsample(col, total, depth, rng))
	}

	nm, err := New(m.features, keep)
	if err != nil {
		return nil, err
	}
	for j, col := range cols {
		for i, v := range col {
			nm.m[i][j] = float64(v)
		}
	}
	return nm, nil
}

func subsample(counts []int, total, depth int, rng *rand.Rand) []int {
	left := make([]int, len(counts))
	copy(left, counts)
	got := make([]int, len(counts))
	for range depth {
		r := rng.IntN(total)
		for i, c := range left {
			if r < c {
				left[i]--
				got[i]++
				break
			}
			r -= c
		}
		total--
	}
	return got
}
