// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pipeline runs a paired change analysis
// at one or more taxonomic levels:
// it aggregates the features at each level,
// optionally selects the top labels,
// and computes the change between timepoints.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/js-arias/mbchange/abundance"
	"github.com/js-arias/mbchange/aggregate"
	"github.com/js-arias/mbchange/change"
	"github.com/js-arias/mbchange/metadata"
	"github.com/js-arias/mbchange/taxonomy"
	"github.com/js-arias/mbchange/topk"
)

// ErrRequest is returned when a request is invalid.
var ErrRequest = errors.New("invalid request")

// Data is the input data of an analysis.
type Data struct {
	// Declared type of the abundances.
	Type abundance.Type

	Matrix   *abundance.Matrix
	Taxonomy *taxonomy.Map
	Metadata *metadata.Data
}

// Request is the set of parameters
// of an analysis.
type Request struct {
	// Taxonomic levels to analyze.
	Levels []string

	// Requested filter thresholds.
	// They might be overridden,
	// see aggregate.ResolveThresholds.
	Thresholds aggregate.Thresholds

	// An explicit list of labels to analyze.
	Features []string

	// Number of labels selected by Rank.
	// Ignored if Features is defined.
	TopK int
	Rank topk.Rank

	// Metadata columns.
	SubjectCol string
	TimeCol    string
	GroupCol   string
	StrataCol  string

	// Time values.
	Baseline string
	FollowUp string

	Metric     change.Metric
	Prevalence bool

	// Number of levels processed in parallel.
	// If 0,
	// all CPUs are used.
	CPU int

	Logger *slog.Logger
}

func (req Request) logger() *slog.Logger {
	if req.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return req.Logger
}

// HasTopK returns true
// if the request defines a top-k selection.
func (req Request) HasTopK() bool {
	return req.TopK > 0 && req.Rank != nil
}

// Resolved returns the filter thresholds
// used by the request
// under the given data type.
func (req Request) Resolved(t abundance.Type) aggregate.Thresholds {
	return aggregate.ResolveThresholds(t, len(req.Features) > 0, req.HasTopK(), req.Thresholds)
}

// Result is the result of the analysis
// of a taxonomic level.
type Result struct {
	Level      string
	Thresholds aggregate.Thresholds

	// Aggregated table,
	// after label selection.
	Table *aggregate.Table

	Change *change.Result
}

// Check validates the input data
// for the aggregation step.
func Check(d Data, req Request) error {
	if d.Matrix == nil || d.Taxonomy == nil {
		return fmt.Errorf("undefined abundance or taxonomy data: %w", ErrRequest)
	}
	if _, err := abundance.ParseType(string(d.Type)); err != nil {
		return fmt.Errorf("%v: %w", err, ErrRequest)
	}
	if len(req.Levels) == 0 {
		return fmt.Errorf("undefined taxonomic levels: %w", ErrRequest)
	}
	for _, lv := range req.Levels {
		if !d.Taxonomy.HasLevel(lv) {
			return fmt.Errorf("taxonomic level %q not defined: %w", lv, ErrRequest)
		}
	}
	if err := req.Resolved(d.Type).Validate(); err != nil {
		return err
	}
	return abundance.CheckNormalized(d.Type, d.Matrix)
}

// Aggregate returns the aggregated table
// of a taxonomic level,
// after the selection of labels,
// and the used thresholds.
func Aggregate(d Data, req Request, level string) (*aggregate.Table, aggregate.Thresholds, error) {
	th := req.Resolved(d.Type)
	t, err := aggregate.Aggregate(d.Matrix, d.Taxonomy, level, th)
	if err != nil {
		return nil, th, err
	}

	if len(req.Features) > 0 {
		return t.Restrict(req.Features), th, nil
	}
	if req.HasTopK() {
		return t.Restrict(topk.Select(t, req.Rank, req.TopK)), th, nil
	}
	return t, th, nil
}

// Run runs the analysis
// for each requested taxonomic level.
// Levels are processed in parallel,
// and results are returned in the requested order.
// The first error cancels the analysis.
func Run(ctx context.Context, d Data, req Request) ([]Result, error) {
	if err := Check(d, req); err != nil {
		return nil, err
	}
	if d.Metadata == nil {
		return nil, fmt.Errorf("undefined metadata: %w", ErrRequest)
	}
	cols := []string{req.SubjectCol, req.TimeCol}
	if req.GroupCol != "" {
		cols = append(cols, req.GroupCol)
	}
	if req.StrataCol != "" {
		cols = append(cols, req.StrataCol)
	}
	if err := d.Metadata.Require(cols...); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cpu := req.CPU
	if cpu <= 0 {
		cpu = runtime.NumCPU()
	}
	cpu = min(cpu, len(req.Levels))

	results := make([]Result, len(req.Levels))
	errs := make([]error, len(req.Levels))
	jobs := make(chan int, len(req.Levels))
	for i := range req.Levels {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for range cpu {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				r, err := runLevel(d, req, req.Levels[i])
				if err != nil {
					errs[i] = fmt.Errorf("level %q: %w", req.Levels[i], err)
					cancel()
					continue
				}
				results[i] = r
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return nil, err
		}
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func runLevel(d Data, req Request, level string) (Result, error) {
	logger := req.logger().With("level", taxonomy.CanonLevel(level))

	t, th, err := Aggregate(d, req, level)
	if err != nil {
		return Result{}, err
	}
	logger.Info("aggregated", "labels", t.Len(), "prevalence", th.Prevalence, "abundance", th.Abundance)

	res, err := change.Compute(t, d.Metadata, req.changeOptions(req.Metric, logger))
	if err != nil {
		return Result{}, err
	}

	return Result{
		Level:      t.Level(),
		Thresholds: th,
		Table:      t,
		Change:     res,
	}, nil
}

func (req Request) changeOptions(m change.Metric, logger *slog.Logger) change.Options {
	return change.Options{
		SubjectCol: req.SubjectCol,
		TimeCol:    req.TimeCol,
		GroupCol:   req.GroupCol,
		StrataCol:  req.StrataCol,
		Baseline:   req.Baseline,
		FollowUp:   req.FollowUp,
		Metric:     m,
		Prevalence: req.Prevalence,
		Logger:     logger,
	}
}

// WithMetric returns a copy of a level result
// with the change calculated using the metric m.
// The aggregated table of the result is reused.
func WithMetric(d Data, req Request, r Result, m change.Metric) (Result, error) {
	if r.Table == nil || d.Metadata == nil {
		return Result{}, fmt.Errorf("undefined table or metadata: %w", ErrRequest)
	}
	if m == nil {
		return Result{}, fmt.Errorf("undefined change metric: %w", ErrRequest)
	}
	logger := req.logger().With("level", r.Level)
	res, err := change.Compute(r.Table, d.Metadata, req.changeOptions(m, logger))
	if err != nil {
		return Result{}, fmt.Errorf("level %q: %w", r.Level, err)
	}
	r.Change = res
	return r, nil
}
