// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pipeline

import (
	"strconv"
	"strings"

	"github.com/js-arias/mbchange/aggregate"
)

// OutputName returns a deterministic file name
// for an output of an analysis.
// The name is composed by the operation,
// the subject and time variables,
// the baseline value,
// the taxonomic level,
// the filter thresholds,
// and if defined,
// the change metric,
// the group and strata variables,
// and a suffix.
//
// For example:
//
//	boxplot_subject_time_1_Genus_prev0.1_abund0.001_log2fc-halfmin_group-arm.png
func OutputName(op string, req Request, level string, th aggregate.Thresholds, suffix, ext string) string {
	parts := []string{
		op,
		req.SubjectCol,
		req.TimeCol,
		req.Baseline,
		level,
		"prev" + strconv.FormatFloat(th.Prevalence, 'g', -1, 64),
		"abund" + strconv.FormatFloat(th.Abundance, 'g', -1, 64),
	}
	if req.Metric != nil {
		parts = append(parts, req.Metric.Name())
	}
	if req.GroupCol != "" {
		parts = append(parts, "group-"+req.GroupCol)
	}
	if req.StrataCol != "" {
		parts = append(parts, "strata-"+req.StrataCol)
	}
	if suffix != "" {
		parts = append(parts, suffix)
	}

	for i, p := range parts {
		parts[i] = clean(p)
	}
	name := strings.Join(parts, "_")
	if ext != "" {
		name += "." + strings.TrimPrefix(ext, ".")
	}
	return name
}

func clean(s string) string {
	s = strings.Join(strings.Fields(s), "-")
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, s)
}
