// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package analysis implements the flags
// shared by the analysis commands.
package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/aggregate"
	"github.com/js-arias/mbchange/change"
	"github.com/js-arias/mbchange/pipeline"
	"github.com/js-arias/mbchange/project"
	"github.com/js-arias/mbchange/taxonomy"
	"github.com/js-arias/mbchange/topk"
)

// FilterUsage is the usage of the filter flags.
const FilterUsage = `[--level <level>[,<level>...]]
	[--prevalence <value>] [--abundance <value>]
	[--features <label>[,<label>...]] [--top <number>] [--rank <stat>]`

// ChangeUsage is the usage of the change flags.
const ChangeUsage = `--subject <column> --time <column> --baseline <value>
	[--followup <value>] [--group <column>] [--strata <column>]
	[--metric <metric>] [--epsilon <value>] [--prev]`

// FilterHelp is the description of the filter flags.
const FilterHelp = `
The flag --level defines the taxonomic levels to be analyzed, as a comma
separated list (for example "genus,phylum"). The level "original" uses the
features without aggregation. By default, the "original" level is used.

The flags --prevalence and --abundance define the minimum prevalence (the
fraction of observations with a non-zero value) and the minimum mean
abundance of a taxonomic label to be kept. Default values are 0.1 and 0.001.
These thresholds are ignored if the data type of the project is "other", or
if an explicit list of labels is given with the flag --features, or if the
flag --top is defined.

The flag --features defines a comma separated list of labels to be analyzed,
in the given order.

The flag --top selects the given number of labels with the largest value of
a ranking statistic. The statistic is defined with the flag --rank. Valid
values are "mean" (the default) and "sd" (standard deviation).
`

// ChangeHelp is the description of the change flags.
const ChangeHelp = `
The flags --subject and --time are required, and define the columns of the
sample metadata with the subject identifier and the timepoint. The flag
--baseline defines the value of the baseline timepoint. If the flag
--followup is not defined, the data must have exactly two timepoints. The
flags --group and --strata define optional columns used to group subjects.
If a subject has several samples at a given timepoint, their values are
averaged.

The flag --metric defines the change metric. Valid values are:

	difference      follow-up minus baseline.
	relative        (follow-up - baseline) / (follow-up + baseline).
	log2fc          log2 fold change, zeros are replaced by a small value
	                (see --epsilon).
	log2fc-halfmin  log2 fold change, zeros are replaced by half of the
	                minimum non-zero value at the timepoint.

By default, "difference" is used. The flag --epsilon defines the value added
to each abundance with the log2fc metric. The default value is 1e-5.

If the flag --prev is defined, the change in prevalence of each label within
each group is also calculated.

Notices (for example, when zero values were imputed) are printed in the
standard error. Use the flag --quiet to suppress them.
`

// Flags contains the values
// of the analysis flags.
type Flags struct {
	levels   string
	prev     float64
	abund    float64
	features string
	top      int
	rank     string

	subject   string
	time      string
	group     string
	strata    string
	baseline  string
	followUp  string
	metric    string
	epsilon   float64
	prevCheck bool

	cpu   int
	quiet bool

	withChange bool
}

// SetFilter sets the filter flags
// in a command.
func (f *Flags) SetFilter(c *command.Command) {
	c.Flags().StringVar(&f.levels, "level", taxonomy.Original, "")
	c.Flags().Float64Var(&f.prev, "prevalence", 0.1, "")
	c.Flags().Float64Var(&f.abund, "abundance", 0.001, "")
	c.Flags().StringVar(&f.features, "features", "", "")
	c.Flags().IntVar(&f.top, "top", 0, "")
	c.Flags().StringVar(&f.rank, "rank", "mean", "")
	c.Flags().IntVar(&f.cpu, "cpu", 0, "")
	c.Flags().BoolVar(&f.quiet, "quiet", false, "")
}

// SetChange sets the filter and change flags
// in a command.
func (f *Flags) SetChange(c *command.Command) {
	f.SetFilter(c)
	f.withChange = true
	c.Flags().StringVar(&f.subject, "subject", "", "")
	c.Flags().StringVar(&f.time, "time", "", "")
	c.Flags().StringVar(&f.group, "group", "", "")
	c.Flags().StringVar(&f.strata, "strata", "", "")
	c.Flags().StringVar(&f.baseline, "baseline", "", "")
	c.Flags().StringVar(&f.followUp, "followup", "", "")
	c.Flags().StringVar(&f.metric, "metric", "difference", "")
	c.Flags().Float64Var(&f.epsilon, "epsilon", change.DefaultEpsilon, "")
	c.Flags().BoolVar(&f.prevCheck, "prev", false, "")
}

// Epsilon returns the epsilon
// of the log2 fold change.
func (f *Flags) Epsilon() float64 {
	return f.epsilon
}

// Logger returns the logger
// used by the command.
func (f *Flags) Logger(c *command.Command) *slog.Logger {
	return NewLogger(c.Stderr(), f.quiet)
}

// NewLogger returns a text logger
// that writes into w.
// If quiet is true,
// only warnings and errors are reported.
func NewLogger(w io.Writer, quiet bool) *slog.Logger {
	lv := slog.LevelInfo
	if quiet {
		lv = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv}))
}

// Request returns the analysis request
// defined by the flags.
func (f *Flags) Request(c *command.Command) (pipeline.Request, error) {
	req := pipeline.Request{
		Levels: splitList(f.levels),
		Thresholds: aggregate.Thresholds{
			Prevalence: f.prev,
			Abundance:  f.abund,
		},
		Features: splitList(f.features),
		TopK:     f.top,
		CPU:      f.cpu,
		Logger:   f.Logger(c),
	}
	if len(req.Levels) == 0 {
		return req, c.UsageError("flag --level: expecting a taxonomic level")
	}
	if f.top < 0 {
		return req, c.UsageError(fmt.Sprintf("flag --top: invalid value %d", f.top))
	}
	if f.top > 0 {
		r, err := topk.ParseRank(f.rank)
		if err != nil {
			return req, c.UsageError(fmt.Sprintf("flag --rank: %v", err))
		}
		req.Rank = r
	}
	if !f.withChange {
		return req, nil
	}

	if f.subject == "" {
		return req, c.UsageError("flag --subject must be defined")
	}
	if f.time == "" {
		return req, c.UsageError("flag --time must be defined")
	}
	if f.baseline == "" {
		return req, c.UsageError("flag --baseline must be defined")
	}
	m, err := change.ParseMetric(f.metric)
	if err != nil {
		return req, c.UsageError(fmt.Sprintf("flag --metric: %v", err))
	}
	if l, ok := m.(change.Log2FoldChange); ok {
		if fe, ok := l.Imputation.(change.FixedEpsilon); ok {
			fe.Epsilon = f.epsilon
			m = change.Log2FoldChange{Imputation: fe}
		}
	}

	req.SubjectCol = f.subject
	req.TimeCol = f.time
	req.GroupCol = f.group
	req.StrataCol = f.strata
	req.Baseline = f.baseline
	req.FollowUp = f.followUp
	req.Metric = m
	req.Prevalence = f.prevCheck
	return req, nil
}

// Run reads a project
// and runs the analysis defined by the flags.
func (f *Flags) Run(ctx context.Context, c *command.Command, prjFile string) (pipeline.Data, pipeline.Request, []pipeline.Result, error) {
	req, err := f.Request(c)
	if err != nil {
		return pipeline.Data{}, req, nil, err
	}
	p, err := project.Read(prjFile)
	if err != nil {
		return pipeline.Data{}, req, nil, err
	}
	d, err := p.Data()
	if err != nil {
		return d, req, nil, err
	}
	res, err := pipeline.Run(ctx, d, req)
	if err != nil {
		return d, req, nil, err
	}
	return d, req, res, nil
}

func splitList(s string) []string {
	var ls []string
	for _, v := range strings.Split(s, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		ls = append(ls, v)
	}
	return ls
}
