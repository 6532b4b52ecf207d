// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/js-arias/mbchange/abundance"
)

// Table is a label by sample table
// of aggregated abundances.
type Table struct {
	level   string
	labels  []string
	samples []string
	idx     map[string]int
	sIdx    map[string]int
	m       [][]float64
}

func newTable(level string, labels, samples []string) *Table {
	idx := make(map[string]int, len(labels))
	for i, lb := range labels {
		idx[lb] = i
	}
	sIdx := make(map[string]int, len(samples))
	for i, s := range samples {
		sIdx[s] = i
	}
	m := make([][]float64, len(labels))
	for i := range m {
		m[i] = make([]float64, len(samples))
	}
	return &Table{
		level:   level,
		labels:  labels,
		samples: samples,
		idx:     idx,
		sIdx:    sIdx,
		m:       m,
	}
}

// Level returns the taxonomic level of the table.
func (t *Table) Level() string {
	return t.level
}

// Labels returns the labels of the table
// in row order.
func (t *Table) Labels() []string {
	lb := make([]string, len(t.labels))
	copy(lb, t.labels)
	return lb
}

// Samples returns the samples of the table
// in column order.
func (t *Table) Samples() []string {
	s := make([]string, len(t.samples))
	copy(s, t.samples)
	return s
}

// Len returns the number of labels in the table.
func (t *Table) Len() int {
	return len(t.labels)
}

// Value returns the abundance of a label in a sample.
func (t *Table) Value(label, sample string) float64 {
	i, ok := t.idx[label]
	if !ok {
		return 0
	}
	j, ok := t.sIdx[sample]
	if !ok {
		return 0
	}
	return t.m[i][j]
}

// Row returns a copy of the abundances of a label
// in column order.
func (t *Table) Row(label string) []float64 {
	i, ok := t.idx[label]
	if !ok {
		return nil
	}
	r := make([]float64, len(t.samples))
	copy(r, t.m[i])
	return r
}

// Prevalence returns the fraction of the given samples
// in which a label has a non-zero abundance.
// Unknown samples are ignored.
func (t *Table) Prevalence(label string, samples []string) float64 {
	i, ok := t.idx[label]
	if !ok {
		return 0
	}
	var n, present int
	for _, s := range samples {
		j, ok := t.sIdx[s]
		if !ok {
			continue
		}
		n++
		if t.m[i][j] > 0 {
			present++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(present) / float64(n)
}

// Restrict returns a new table
// with only the given labels,
// in the given order.
// Unknown labels are ignored.
func (t *Table) Restrict(labels []string) *Table {
	var keep []string
	seen := make(map[string]bool, len(labels))
	for _, lb := range labels {
		if _, ok := t.idx[lb]; !ok || seen[lb] {
			continue
		}
		seen[lb] = true
		keep = append(keep, lb)
	}

	nt := newTable(t.level, keep, t.Samples())
	for i, lb := range keep {
		copy(nt.m[i], t.m[t.idx[lb]])
	}
	return nt
}

// Obs is a single abundance observation
// in the long form of a table.
type Obs struct {
	Label  string
	Sample string
	Value  float64
}

// Long returns the table in long form,
// ordered by label and then by sample.
func (t *Table) Long() []Obs {
	obs := make([]Obs, 0, len(t.labels)*len(t.samples))
	for i, lb := range t.labels {
		for j, s := range t.samples {
			obs = append(obs, Obs{
				Label:  lb,
				Sample: s,
				Value:  t.m[i][j],
			})
		}
	}
	return obs
}

// Matrix returns the table as an abundance matrix
// in which each label is a feature.
func (t *Table) Matrix() *abundance.Matrix {
	m, _ := abundance.New(t.labels, t.samples)
	for i, lb := range t.labels {
		for j, s := range t.samples {
			m.Set(lb, s, t.m[i][j])
		}
	}
	return m
}

// TSV writes a table as a TSV file.
func (t *Table) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := append([]string{t.level}, t.samples...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for i, lb := range t.labels {
		row := make([]string, 0, len(t.samples)+1)
		row = append(row, lb)
		for _, v := range t.m[i] {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
