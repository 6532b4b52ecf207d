// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package abundance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadTSV reads an abundance matrix from a TSV file.
//
// The first column of the file must be the field "feature",
// with the ID of each raw feature.
// Any other column is taken as a sample,
// using the header as the sample ID.
//
// Here is an example file:
//
//	# feature abundances
//	feature	s1	s2	s3	s4
//	otu1	10	0	3	7
//	otu2	0	0	12	1
//	otu3	5	2	0	0
func ReadTSV(r io.Reader) (*Matrix, error) {
	return Read(r, '\t')
}

// Read reads an abundance matrix
// from a delimited file
// using the given field delimiter.
// See ReadTSV for the file format.
func Read(r io.Reader, comma rune) (*Matrix, error) {
	tab := csv.NewReader(r)
	tab.Comma = comma
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	if len(head) < 1 || strings.ToLower(strings.TrimSpace(head[0])) != "feature" {
		return nil, fmt.Errorf("expecting field %q", "feature")
	}
	samples := head[1:]

	var features []string
	var rows [][]float64
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := strings.TrimSpace(row[0])
		if f == "" {
			continue
		}
		vals := make([]float64, len(samples))
		for i, s := range samples {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d: sample %q: %q: %v", ln, s, row[i+1], err)
			}
			vals[i] = v
		}
		features = append(features, f)
		rows = append(rows, vals)
	}

	m, err := New(features, samples)
	if err != nil {
		return nil, err
	}
	for i, f := range m.features {
		for j, s := range m.samples {
			if err := m.Set(f, s, rows[i][j]); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// TSV writes a matrix as a TSV file.
func (m *Matrix) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := append([]string{"feature"}, m.samples...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for i, f := range m.features {
		row := make([]string, 0, len(m.samples)+1)
		row = append(row, f)
		for _, v := range m.m[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
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
