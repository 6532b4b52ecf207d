// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package taxonomy provides the taxonomic labels
// of a set of raw features
// at one or more taxonomic levels.
package taxonomy

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Original is the pass-through level,
// in which each feature is its own label.
const Original = "original"

// Unassigned is the label used for features
// without a label at a given level.
const Unassigned = "unassigned"

// Map is a collection of taxonomic labels
// assigned to a set of features.
type Map struct {
	levels  []string
	feature map[string]map[string]string
}

// New creates a new empty taxonomy.
func New() *Map {
	return &Map{
		feature: make(map[string]map[string]string),
	}
}

// Add assigns a label
// for a feature
// at a taxonomic level.
// An empty label is stored as Unassigned.
func (m *Map) Add(feature, level, label string) {
	feature = strings.TrimSpace(feature)
	if feature == "" {
		return
	}
	level = canonLevel(level)
	if level == "" || level == Original {
		return
	}
	label = strings.Join(strings.Fields(label), " ")
	if label == "" {
		label = Unassigned
	}

	if !slices.Contains(m.levels, level) {
		m.levels = append(m.levels, level)
	}
	lv, ok := m.feature[feature]
	if !ok {
		lv = make(map[string]string)
		m.feature[feature] = lv
	}
	lv[level] = label
}

// Label returns the label of a feature
// at a given level.
// At the Original level,
// the label is the feature itself.
// If the level is defined,
// but the feature does not have a label,
// it returns Unassigned.
func (m *Map) Label(feature, level string) (string, bool) {
	feature = strings.TrimSpace(feature)
	level = canonLevel(level)
	if level == Original {
		return feature, feature != ""
	}
	if !slices.Contains(m.levels, level) {
		return "", false
	}
	if lb, ok := m.feature[feature][level]; ok {
		return lb, true
	}
	return Unassigned, true
}

// HasLevel returns true
// if the level is defined in the taxonomy.
func (m *Map) HasLevel(level string) bool {
	level = canonLevel(level)
	if level == Original {
		return true
	}
	return slices.Contains(m.levels, level)
}

// Levels returns the defined levels,
// in the order they were added.
// The Original level is not included.
func (m *Map) Levels() []string {
	lv := make([]string, len(m.levels))
	copy(lv, m.levels)
	return lv
}

// Features returns the features with a label
// in the taxonomy.
func (m *Map) Features() []string {
	fs := make([]string, 0, len(m.feature))
	for f := range m.feature {
		fs = append(fs, f)
	}
	slices.Sort(fs)
	return fs
}

// CanonLevel returns a level name
// in its canonical form,
// i.e., first letter in uppercase
// and the rest in lowercase,
// except for the Original level.
func CanonLevel(level string) string {
	return canonLevel(level)
}

func canonLevel(level string) string {
	level = strings.Join(strings.Fields(level), " ")
	if level == "" {
		return ""
	}
	level = strings.ToLower(level)
	if level == Original {
		return Original
	}
	r, n := utf8.DecodeRuneInString(level)
	return string(unicode.ToUpper(r)) + level[n:]
}
