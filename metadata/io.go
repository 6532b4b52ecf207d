// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadTSV reads sample metadata from a TSV file.
//
// The TSV file must contain the field "sample",
// with the sample ID.
// Any other column is a metadata variable.
//
// Here is an example file:
//
//	sample	subject	time	group
//	s1	p1	1	control
//	s2	p1	2	control
//	s3	p2	1	treatment
//	s4	p2	2	treatment
func ReadTSV(r io.Reader) (*Data, error) {
	return Read(r, '\t')
}

// Read reads sample metadata from a delimited file
// using the given field delimiter.
// See ReadTSV for the file format.
func Read(r io.Reader, comma rune) (*Data, error) {
	tab := csv.NewReader(r)
	tab.Comma = comma
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	sc := -1
	for i, h := range head {
		if canonColumn(h) == "sample" {
			sc = i
			break
		}
	}
	if sc < 0 {
		return nil, fmt.Errorf("expecting field %q", "sample")
	}

	d := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		s := strings.TrimSpace(row[sc])
		if s == "" {
			continue
		}
		if d.HasSample(s) {
			return nil, fmt.Errorf("on row %d: repeated sample %q", ln, s)
		}
		for i, h := range head {
			if i == sc {
				continue
			}
			d.Set(s, h, row[i])
		}
	}
	return d, nil
}

// TSV writes the metadata as a TSV file.
func (d *Data) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := append([]string{"sample"}, d.columns...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, s := range d.samples {
		row := []string{s}
		for _, c := range d.columns {
			row = append(row, d.values[s][c])
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
