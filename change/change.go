// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package change computes the change
// of the abundance of taxonomic labels
// between a baseline and a follow-up timepoint
// for each subject in a paired design.
package change

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/js-arias/mbchange/aggregate"
	"github.com/js-arias/mbchange/metadata"
	"github.com/js-arias/mbchange/timepoint"
)

// ErrOptions is returned when the options of a change
// computation are incomplete.
var ErrOptions = errors.New("invalid change options")

// Options are the parameters
// of a change computation.
type Options struct {
	// Metadata columns
	// for the subject
	// and the sampling time.
	SubjectCol string
	TimeCol    string

	// Optional metadata columns
	// for the group
	// and the strata.
	GroupCol  string
	StrataCol string

	// Time value of the baseline.
	Baseline string

	// Time value of the follow-up.
	// If empty,
	// the data must have exactly two time values
	// and the follow-up is the one that is not the baseline.
	FollowUp string

	// Change metric.
	Metric Metric

	// If set,
	// the change in prevalence
	// will be also calculated.
	Prevalence bool

	// Logger for informational notices.
	// If nil,
	// notices are discarded.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

func (o Options) validate() error {
	if strings.TrimSpace(o.SubjectCol) == "" {
		return fmt.Errorf("undefined subject column: %w", ErrOptions)
	}
	if strings.TrimSpace(o.TimeCol) == "" {
		return fmt.Errorf("undefined time column: %w", ErrOptions)
	}
	if strings.TrimSpace(o.Baseline) == "" {
		return fmt.Errorf("undefined baseline time value: %w", ErrOptions)
	}
	if o.Metric == nil {
		return fmt.Errorf("undefined change metric: %w", ErrOptions)
	}
	if c, ok := o.Metric.(Custom); ok && c.Fn == nil {
		return fmt.Errorf("custom metric %q without function: %w", c.Name(), ErrOptions)
	}
	return nil
}

// Record is the change of a label
// in a subject.
type Record struct {
	Label   string
	Subject string
	Group   string
	Strata  string

	// Abundances at each timepoint.
	Baseline float64
	FollowUp float64
	Change   float64

	// Prevalence of the label
	// at each timepoint
	// (within the subject group)
	// and its change.
	// Only defined if prevalence was requested.
	BaselinePrev float64
	FollowUpPrev float64
	PrevChange   float64
}

// Result is the output of a change computation.
type Result struct {
	Level    string
	Baseline string
	FollowUp string
	Metric   string

	// Prevalence is true
	// if prevalence values were calculated.
	Prevalence bool

	Records []Record
}

// subjectObs are the samples of a subject
// at a timepoint.
type subjectObs struct {
	samples []string
	group   string
	strata  string
}

// Compute calculates the change between a baseline
// and a follow-up timepoint
// for each label and subject
// in an aggregated table.
//
// Only the labels and subjects
// observed at both timepoints are reported;
// unmatched subjects are silently dropped.
// If a subject has more than one sample
// at a timepoint,
// the abundances of the samples are averaged.
//
// Records are sorted by label
// (in table order)
// and then by subject.
func Compute(t *aggregate.Table, md *metadata.Data, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := opts.logger()

	recs, err := md.Records(opts.SubjectCol, opts.TimeCol, opts.GroupCol, opts.StrataCol)
	if err != nil {
		return nil, err
	}

	inTable := make(map[string]bool)
	for _, s := range t.Samples() {
		inTable[s] = true
	}
	times := timepoint.New()
	for _, r := range recs {
		if !inTable[r.Sample] {
			continue
		}
		times.Add(r.Time)
	}

	baseline := strings.TrimSpace(opts.Baseline)
	followUp := strings.TrimSpace(opts.FollowUp)
	if followUp == "" {
		followUp, err = times.FollowUp(baseline)
		if err != nil {
			return nil, err
		}
	} else if err := times.Pair(baseline, followUp); err != nil {
		return nil, err
	}

	t0 := make(map[string]*subjectObs)
	t1 := make(map[string]*subjectObs)
	for _, r := range recs {
		if !inTable[r.Sample] {
			continue
		}
		var obs map[string]*subjectObs
		switch r.Time {
		case baseline:
			obs = t0
		case followUp:
			obs = t1
		default:
			continue
		}
		so, ok := obs[r.Subject]
		if !ok {
			so = &subjectObs{
				group:  r.Group,
				strata: r.Strata,
			}
			obs[r.Subject] = so
		}
		so.samples = append(so.samples, r.Sample)
	}

	var subjects []string
	replicated := 0
	for s, so := range t0 {
		f, ok := t1[s]
		if !ok {
			continue
		}
		if len(so.samples) > 1 {
			replicated++
		}
		if len(f.samples) > 1 {
			replicated++
		}
		subjects = append(subjects, s)
	}
	slices.Sort(subjects)
	if replicated > 0 {
		logger.Info("averaging replicated samples", "level", t.Level(), "subject-timepoints", replicated)
	}

	res := &Result{
		Level:      t.Level(),
		Baseline:   baseline,
		FollowUp:   followUp,
		Metric:     opts.Metric.Name(),
		Prevalence: opts.Prevalence,
	}

	for _, lb := range t.Labels() {
		b := make([]float64, len(subjects))
		f := make([]float64, len(subjects))
		for i, s := range subjects {
			b[i] = meanAbundance(t, lb, t0[s].samples)
			f[i] = meanAbundance(t, lb, t1[s].samples)
		}
		c, imputed := opts.Metric.apply(b, f)
		if imputed > 0 {
			logger.Info("zero imputation", "level", t.Level(), "label", lb, "metric", opts.Metric.Name(), "imputed", imputed)
		}

		var prev map[string][3]float64
		if opts.Prevalence {
			prev = prevalenceChange(t, lb, subjects, t0, t1, opts.Metric)
		}

		for i, s := range subjects {
			r := Record{
				Label:    lb,
				Subject:  s,
				Group:    t0[s].group,
				Strata:   t0[s].strata,
				Baseline: b[i],
				FollowUp: f[i],
				Change:   c[i],
			}
			if p, ok := prev[r.Group]; ok {
				r.BaselinePrev = p[0]
				r.FollowUpPrev = p[1]
				r.PrevChange = p[2]
			}
			res.Records = append(res.Records, r)
		}
	}
	return res, nil
}

func meanAbundance(t *aggregate.Table, label string, samples []string) float64 {
	var sum float64
	for _, s := range samples {
		sum += t.Value(label, s)
	}
	return sum / float64(len(samples))
}

// prevalenceChange returns the prevalence of a label
// at baseline and follow-up,
// and its change,
// for each group of the paired subjects.
func prevalenceChange(t *aggregate.Table, label string, subjects []string, t0, t1 map[string]*subjectObs, m Metric) map[string][3]float64 {
	bs := make(map[string][]string)
	fs := make(map[string][]string)
	var groups []string
	for _, s := range subjects {
		g := t0[s].group
		if _, ok := bs[g]; !ok {
			groups = append(groups, g)
		}
		bs[g] = append(bs[g], t0[s].samples...)
		fs[g] = append(fs[g], t1[s].samples...)
	}

	prev := make(map[string][3]float64, len(groups))
	for _, g := range groups {
		pb := t.Prevalence(label, bs[g])
		pf := t.Prevalence(label, fs[g])
		c, _ := m.apply([]float64{pb}, []float64{pf})
		prev[g] = [3]float64{pb, pf, c[0]}
	}
	return prev
}
