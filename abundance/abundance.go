// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package abundance implements a feature abundance matrix,
// i.e., the abundance of each raw feature
// (for example an OTU or ASV)
// in each sample.
package abundance

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a feature by sample table of abundances.
// Rows (features) and columns (samples)
// keep the order in which they were defined.
type Matrix struct {
	features []string
	samples  []string
	fIdx     map[string]int
	sIdx     map[string]int
	m        [][]float64
}

// New creates a new matrix
// with the given features and samples.
// All abundances are set to 0.
// Repeated or empty IDs are an error.
func New(features, samples []string) (*Matrix, error) {
	fIdx := make(map[string]int, len(features))
	fs := make([]string, 0, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, fmt.Errorf("empty feature ID")
		}
		if _, dup := fIdx[f]; dup {
			return nil, fmt.Errorf("repeated feature %q", f)
		}
		fIdx[f] = len(fs)
		fs = append(fs, f)
	}

	sIdx := make(map[string]int, len(samples))
	ss := make([]string, 0, len(samples))
	for _, s := range samples {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("empty sample ID")
		}
		if _, dup := sIdx[s]; dup {
			return nil, fmt.Errorf("repeated sample %q", s)
		}
		sIdx[s] = len(ss)
		ss = append(ss, s)
	}

	m := make([][]float64, len(fs))
	for i := range m {
		m[i] = make([]float64, len(ss))
	}

	return &Matrix{
		features: fs,
		samples:  ss,
		fIdx:     fIdx,
		sIdx:     sIdx,
		m:        m,
	}, nil
}

// Set sets the abundance of a feature in a sample.
// Abundances must be finite and non-negative.
func (m *Matrix) Set(feature, sample string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("feature %q, sample %q: invalid abundance %v", feature, sample, v)
	}
	f, ok := m.fIdx[strings.TrimSpace(feature)]
	if !ok {
		return fmt.Errorf("unknown feature %q", feature)
	}
	s, ok := m.sIdx[strings.TrimSpace(sample)]
	if !ok {
		return fmt.Errorf("unknown sample %q", sample)
	}
	m.m[f][s] = v
	return nil
}

// Value returns the abundance of a feature in a sample.
// Undefined features or samples return 0.
func (m *Matrix) Value(feature, sample string) float64 {
	f, ok := m.fIdx[strings.TrimSpace(feature)]
	if !ok {
		return 0
	}
	s, ok := m.sIdx[strings.TrimSpace(sample)]
	if !ok {
		return 0
	}
	return m.m[f][s]
}

// Features returns the feature IDs
// in row order.
func (m *Matrix) Features() []string {
	fs := make([]string, len(m.features))
	copy(fs, m.features)
	return fs
}

// Samples returns the sample IDs
// in column order.
func (m *Matrix) Samples() []string {
	ss := make([]string, len(m.samples))
	copy(ss, m.samples)
	return ss
}

// Row returns a copy of the abundances of a feature,
// in column order.
func (m *Matrix) Row(feature string) []float64 {
	f, ok := m.fIdx[strings.TrimSpace(feature)]
	if !ok {
		return nil
	}
	r := make([]float64, len(m.samples))
	copy(r, m.m[f])
	return r
}

// Column returns a copy of the abundances of a sample,
// in row order.
func (m *Matrix) Column(sample string) []float64 {
	s, ok := m.sIdx[strings.TrimSpace(sample)]
	if !ok {
		return nil
	}
	c := make([]float64, len(m.features))
	for i, r := range m.m {
		c[i] = r[s]
	}
	return c
}

// Obs is a single abundance observation
// in the long form of a matrix.
type Obs struct {
	Feature string
	Sample  string
	Value   float64
}

// Long returns the matrix in long form,
// ordered by feature and then by sample.
func (m *Matrix) Long() []Obs {
	obs := make([]Obs, 0, len(m.features)*len(m.samples))
	for i, f := range m.features {
		for j, s := range m.samples {
			obs = append(obs, Obs{
				Feature: f,
				Sample:  s,
				Value:   m.m[i][j],
			})
		}
	}
	return obs
}

// Subset returns a new matrix with the given samples,
// in the indicated order.
// Unknown samples are ignored.
func (m *Matrix) Subset(samples []string) *Matrix {
	var keep []string
	for _, s := range samples {
		if _, ok := m.sIdx[strings.TrimSpace(s)]; ok {
			keep = append(keep, strings.TrimSpace(s))
		}
	}
	nm, _ := New(m.features, uniq(keep))
	for i := range m.features {
		for j, s := range nm.samples {
			nm.m[i][j] = m.m[i][m.sIdx[s]]
		}
	}
	return nm
}

func uniq(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	u := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		u = append(u, id)
	}
	return u
}
