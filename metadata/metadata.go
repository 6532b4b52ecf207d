// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package metadata implements a table of sample metadata,
// for example the subject,
// the time of sampling,
// or the treatment group
// of each sample.
package metadata

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrMissingColumn is returned when a required column
// is not defined in the metadata.
var ErrMissingColumn = errors.New("missing metadata column")

// Data is a collection of metadata values
// for a set of samples.
type Data struct {
	columns []string
	samples []string
	values  map[string]map[string]string
}

// New creates a new empty metadata table.
func New() *Data {
	return &Data{
		values: make(map[string]map[string]string),
	}
}

// Set sets the value of a column
// for a sample.
// Column names are case insensitive.
func (d *Data) Set(sample, column, value string) {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return
	}
	column = canonColumn(column)
	if column == "" {
		return
	}
	value = strings.TrimSpace(value)

	if !slices.Contains(d.columns, column) {
		d.columns = append(d.columns, column)
	}
	v, ok := d.values[sample]
	if !ok {
		v = make(map[string]string)
		d.values[sample] = v
		d.samples = append(d.samples, sample)
	}
	v[column] = value
}

// Value returns the value of a column
// for a sample.
func (d *Data) Value(sample, column string) string {
	return d.values[strings.TrimSpace(sample)][canonColumn(column)]
}

// HasSample returns true
// if the sample is defined in the metadata.
func (d *Data) HasSample(sample string) bool {
	_, ok := d.values[strings.TrimSpace(sample)]
	return ok
}

// Columns returns the columns of the metadata,
// in the order they were defined.
func (d *Data) Columns() []string {
	c := make([]string, len(d.columns))
	copy(c, d.columns)
	return c
}

// Samples returns the samples of the metadata,
// in the order they were defined.
func (d *Data) Samples() []string {
	s := make([]string, len(d.samples))
	copy(s, d.samples)
	return s
}

// Require checks that all the given columns
// are defined in the metadata.
// Empty column names are an error.
func (d *Data) Require(columns ...string) error {
	for _, c := range columns {
		cc := canonColumn(c)
		if cc == "" {
			return fmt.Errorf("empty column name: %w", ErrMissingColumn)
		}
		if !slices.Contains(d.columns, cc) {
			return fmt.Errorf("column %q: %w", c, ErrMissingColumn)
		}
	}
	return nil
}

// Record is the metadata of a sample
// under a paired design.
type Record struct {
	Sample  string
	Subject string
	Time    string
	Group   string
	Strata  string
}

// Records returns the records
// for the indicated subject and time columns,
// and optionally,
// the group and strata columns.
// Samples without a subject or a time value are ignored.
func (d *Data) Records(subject, time, group, strata string) ([]Record, error) {
	req := []string{subject, time}
	if group != "" {
		req = append(req, group)
	}
	if strata != "" {
		req = append(req, strata)
	}
	if err := d.Require(req...); err != nil {
		return nil, err
	}

	recs := make([]Record, 0, len(d.samples))
	for _, s := range d.samples {
		r := Record{
			Sample:  s,
			Subject: d.Value(s, subject),
			Time:    d.Value(s, time),
		}
		if r.Subject == "" || r.Time == "" {
			continue
		}
		if group != "" {
			r.Group = d.Value(s, group)
		}
		if strata != "" {
			r.Strata = d.Value(s, strata)
		}
		recs = append(recs, r)
	}
	return recs, nil
}

func canonColumn(c string) string {
	return strings.ToLower(strings.Join(strings.Fields(c), " "))
}
