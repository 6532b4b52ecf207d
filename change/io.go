// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package change

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// TSV writes the records of a change result
// as a TSV file.
//
// The file has the following columns:
//
//   - level, the taxonomic level
//   - label, the taxonomic label
//   - subject, the subject ID
//   - group, the group of the subject
//   - strata, the strata of the subject
//   - baseline, the abundance at the baseline
//   - follow-up, the abundance at the follow-up
//   - change, the change value
//
// If prevalence was calculated,
// the columns "prev-baseline",
// "prev-follow-up",
// and "prev-change",
// are also included.
func (res *Result) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := []string{"level", "label", "subject", "group", "strata", "baseline", "follow-up", "change"}
	if res.Prevalence {
		header = append(header, "prev-baseline", "prev-follow-up", "prev-change")
	}
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, r := range res.Records {
		row := []string{
			res.Level,
			r.Label,
			r.Subject,
			r.Group,
			r.Strata,
			strconv.FormatFloat(r.Baseline, 'f', 6, 64),
			strconv.FormatFloat(r.FollowUp, 'f', 6, 64),
			strconv.FormatFloat(r.Change, 'f', 6, 64),
		}
		if res.Prevalence {
			row = append(row,
				strconv.FormatFloat(r.BaselinePrev, 'f', 6, 64),
				strconv.FormatFloat(r.FollowUpPrev, 'f', 6, 64),
				strconv.FormatFloat(r.PrevChange, 'f', 6, 64),
			)
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

// WriteSummary writes the summaries of a taxonomic level
// as a TSV file.
func WriteSummary(w io.Writer, level string, sum []Summary) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	// header
	header := []string{"level", "label", "group", "n", "mean", "sd", "median", "q1", "q3", "p-value", "prev-change"}
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, s := range sum {
		row := []string{
			level,
			s.Label,
			s.Group,
			strconv.Itoa(s.N),
			strconv.FormatFloat(s.Mean, 'f', 6, 64),
			strconv.FormatFloat(s.SD, 'f', 6, 64),
			strconv.FormatFloat(s.Median, 'f', 6, 64),
			strconv.FormatFloat(s.Q1, 'f', 6, 64),
			strconv.FormatFloat(s.Q3, 'f', 6, 64),
			strconv.FormatFloat(s.P, 'g', 6, 64),
			strconv.FormatFloat(s.PrevChange, 'f', 6, 64),
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
