// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package taxonomy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadTSV reads the taxonomic labels of a set of features
// from a TSV file.
//
// The TSV file must contain the field "feature",
// with the feature ID.
// Any other column is a taxonomic level,
// using the header as the name of the level.
//
// Here is an example file:
//
//	feature	phylum	family	genus
//	otu1	Firmicutes	Lachnospiraceae	Blautia
//	otu2	Firmicutes	Lachnospiraceae	Roseburia
//	otu3	Bacteroidetes	Bacteroidaceae	Bacteroides
func ReadTSV(r io.Reader) (*Map, error) {
	return Read(r, '\t')
}

// Read reads a taxonomy from a delimited file
// using the given field delimiter.
// See ReadTSV for the file format.
func Read(r io.Reader, comma rune) (*Map, error) {
	tab := csv.NewReader(r)
	tab.Comma = comma
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fc := -1
	for i, h := range head {
		if strings.ToLower(strings.TrimSpace(h)) == "feature" {
			fc = i
			break
		}
	}
	if fc < 0 {
		return nil, fmt.Errorf("expecting field %q", "feature")
	}

	m := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := strings.TrimSpace(row[fc])
		if f == "" {
			continue
		}
		if _, dup := m.feature[f]; dup {
			return nil, fmt.Errorf("on row %d: repeated feature %q", ln, f)
		}
		for i, h := range head {
			if i == fc {
				continue
			}
			m.Add(f, h, row[i])
		}
	}
	return m, nil
}

// TSV writes a taxonomy as a TSV file.
func (m *Map) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := append([]string{"feature"}, m.levels...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, f := range m.Features() {
		row := []string{f}
		for _, lv := range m.levels {
			lb, _ := m.Label(f, lv)
			row = append(row, lb)
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
