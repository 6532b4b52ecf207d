// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package timepoint implements a set of sampling time values
// used to pair a baseline
// with a follow-up timepoint.
package timepoint

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrTimepoints is returned when a paired design
// does not have exactly two timepoints.
var ErrTimepoints = errors.New("paired design requires exactly two timepoints")

// Set is a set of time values.
type Set map[string]bool

// New returns an empty set of time values.
func New() Set {
	return Set(make(map[string]bool))
}

// Add adds one or more time values to the set.
// Empty values are ignored.
func (s Set) Add(values ...string) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		s[v] = true
	}
}

// Values returns the time values of the set.
// If all values are numbers
// they are sorted by its numeric value,
// otherwise,
// they are sorted as strings.
func (s Set) Values() []string {
	vs := make([]string, 0, len(s))
	numeric := true
	for v := range s {
		vs = append(vs, v)
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
		}
	}
	if !numeric {
		slices.Sort(vs)
		return vs
	}
	slices.SortFunc(vs, func(a, b string) int {
		x, _ := strconv.ParseFloat(a, 64)
		y, _ := strconv.ParseFloat(b, 64)
		if x < y {
			return -1
		}
		if x > y {
			return 1
		}
		return strings.Compare(a, b)
	})
	return vs
}

// FollowUp returns the follow-up time value
// for a given baseline.
// The set must have exactly two values,
// and one of them must be the baseline.
func (s Set) FollowUp(baseline string) (string, error) {
	baseline = strings.TrimSpace(baseline)
	if !s[baseline] {
		return "", fmt.Errorf("baseline %q not found in time values %v: %w", baseline, s.Values(), ErrTimepoints)
	}
	if len(s) != 2 {
		return "", fmt.Errorf("found %d time values %v: %w", len(s), s.Values(), ErrTimepoints)
	}
	for v := range s {
		if v != baseline {
			return v, nil
		}
	}
	return "", fmt.Errorf("time values %v: %w", s.Values(), ErrTimepoints)
}

// Pair checks that an explicit pair of baseline and follow-up values
// are both present in the set.
// Other values in the set are allowed,
// as the pair is explicit.
func (s Set) Pair(baseline, followUp string) error {
	baseline = strings.TrimSpace(baseline)
	followUp = strings.TrimSpace(followUp)
	if baseline == followUp {
		return fmt.Errorf("baseline and follow-up are the same value %q: %w", baseline, ErrTimepoints)
	}
	for _, v := range []string{baseline, followUp} {
		if !s[v] {
			return fmt.Errorf("time value %q not found in %v: %w", v, s.Values(), ErrTimepoints)
		}
	}
	return nil
}
