// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package change_test

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/js-arias/mbchange/abundance"
	"github.com/js-arias/mbchange/aggregate"
	"github.com/js-arias/mbchange/change"
	"github.com/js-arias/mbchange/metadata"
	"github.com/js-arias/mbchange/taxonomy"
	"github.com/js-arias/mbchange/timepoint"
)

func TestCompute(t *testing.T) {
	tb, md := newPaired(t, nil)

	res, err := change.Compute(tb, md, change.Options{
		SubjectCol: "subject",
		TimeCol:    "time",
		GroupCol:   "group",
		Baseline:   "1",
		Metric:     change.RelativeChange{},
	})
	if err != nil {
		t.Fatalf("compute: unexpected error: %v", err)
	}
	if res.FollowUp != "2" {
		t.Errorf("follow-up: got %q, want %q", res.FollowUp, "2")
	}

	want := []change.Record{
		{Label: "A", Subject: "p1", Group: "control", Baseline: 0.5, FollowUp: 0.4},
		{Label: "A", Subject: "p2", Group: "treatment", Baseline: 0.3, FollowUp: 0.2},
		{Label: "B", Subject: "p1", Group: "control", Baseline: 0.5, FollowUp: 0.6},
		{Label: "B", Subject: "p2", Group: "treatment", Baseline: 0.7, FollowUp: 0.8},
	}
	testRecords(t, "relative", res.Records, want, func(b, f float64) float64 {
		return (f - b) / (f + b)
	})

	var buf bytes.Buffer
	if err := res.TSV(&buf); err != nil {
		t.Errorf("unable to write TSV: %v", err)
	}
	t.Logf("output:\n%s\n", buf.String())
}

func TestUnpairedSubject(t *testing.T) {
	tb, md := newPaired(t, map[string][]string{
		// p3 only observed at baseline
		"s5": {"p3", "1", "control"},
	})

	res, err := change.Compute(tb, md, change.Options{
		SubjectCol: "subject",
		TimeCol:    "time",
		Baseline:   "1",
		Metric:     change.Difference{},
	})
	if err != nil {
		t.Fatalf("compute: unexpected error: %v", err)
	}
	if len(res.Records) != 4 {
		t.Errorf("records: got %d, want %d", len(res.Records), 4)
	}
	for _, r := range res.Records {
		if r.Subject == "p3" {
			t.Errorf("unpaired subject %q reported for label %q", r.Subject, r.Label)
		}
	}
}

func TestTimepoints(t *testing.T) {
	tb, md := newPaired(t, map[string][]string{
		"s5": {"p1", "3", "control"},
		"s6": {"p2", "3", "treatment"},
	})

	opts := change.Options{
		SubjectCol: "subject",
		TimeCol:    "time",
		Baseline:   "1",
		Metric:     change.Difference{},
	}
	if _, err := change.Compute(tb, md, opts); !errors.Is(err, timepoint.ErrTimepoints) {
		t.Errorf("three timepoints: got error %v, want %v", err, timepoint.ErrTimepoints)
	}

	opts.FollowUp = "3"
	res, err := change.Compute(tb, md, opts)
	if err != nil {
		t.Fatalf("explicit follow-up: unexpected error: %v", err)
	}
	for _, r := range res.Records {
		if r.Change != r.FollowUp-r.Baseline {
			t.Errorf("explicit follow-up: label %q, subject %q: got change %.6f, want %.6f", r.Label, r.Subject, r.Change, r.FollowUp-r.Baseline)
		}
	}

	opts.FollowUp = ""
	opts.Baseline = "0"
	if _, err := change.Compute(tb, md, opts); !errors.Is(err, timepoint.ErrTimepoints) {
		t.Errorf("unknown baseline: got error %v, want %v", err, timepoint.ErrTimepoints)
	}
}

func TestPreconditions(t *testing.T) {
	tb, md := newPaired(t, nil)

	tests := map[string]change.Options{
		"no subject":  {TimeCol: "time", Baseline: "1", Metric: change.Difference{}},
		"no time":     {SubjectCol: "subject", Baseline: "1", Metric: change.Difference{}},
		"no baseline": {SubjectCol: "subject", TimeCol: "time", Metric: change.Difference{}},
		"no metric":   {SubjectCol: "subject", TimeCol: "time", Baseline: "1"},
		"no function": {SubjectCol: "subject", TimeCol: "time", Baseline: "1", Metric: change.Custom{}},
	}
	for name, opts := range tests {
		if _, err := change.Compute(tb, md, opts); !errors.Is(err, change.ErrOptions) {
			t.Errorf("%s: got error %v, want %v", name, err, change.ErrOptions)
		}
	}

	opts := change.Options{SubjectCol: "patient", TimeCol: "time", Baseline: "1", Metric: change.Difference{}}
	if _, err := change.Compute(tb, md, opts); !errors.Is(err, metadata.ErrMissingColumn) {
		t.Errorf("missing column: got error %v, want %v", err, metadata.ErrMissingColumn)
	}
}

func TestCustom(t *testing.T) {
	tb, md := newPaired(t, nil)

	var calls int
	res, err := change.Compute(tb, md, change.Options{
		SubjectCol: "subject",
		TimeCol:    "time",
		Baseline:   "1",
		Metric: change.Custom{
			Label: "follow-up",
			Fn: func(t1, t0 float64) float64 {
				calls++
				return t1
			},
		},
	})
	if err != nil {
		t.Fatalf("compute: unexpected error: %v", err)
	}
	if calls != len(res.Records) {
		t.Errorf("custom calls: got %d, want %d", calls, len(res.Records))
	}
	for _, r := range res.Records {
		if r.Change != r.FollowUp {
			t.Errorf("custom: label %q, subject %q: got %.6f, want %.6f", r.Label, r.Subject, r.Change, r.FollowUp)
		}
	}
}

func TestImputationNotice(t *testing.T) {
	tb, md := newPaired(t, map[string][]string{
		"s5": {"p3", "1", "control"},
		"s6": {"p3", "2", "control"},
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	res, err := change.Compute(tb, md, change.Options{
		SubjectCol: "subject",
		TimeCol:    "time",
		Baseline:   "1",
		Metric:     change.Log2FoldChange{Imputation: change.HalfMinimum{}},
		Logger:     logger,
	})
	if err != nil {
		t.Fatalf("compute: unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "zero imputation") {
		t.Errorf("expecting imputation notice, got log %q", buf.String())
	}
	for _, r := range res.Records {
		if math.IsInf(r.Change, 0) || math.IsNaN(r.Change) {
			t.Errorf("label %q, subject %q: invalid change %v", r.Label, r.Subject, r.Change)
		}
	}
}

func TestPrevalence(t *testing.T) {
	tb, md := newPaired(t, map[string][]string{
		"s5": {"p3", "1", "control"},
		"s6": {"p3", "2", "control"},
	})

	res, err := change.Compute(tb, md, change.Options{
		SubjectCol: "subject",
		TimeCol:    "time",
		GroupCol:   "group",
		Baseline:   "1",
		Metric:     change.Difference{},
		Prevalence: true,
	})
	if err != nil {
		t.Fatalf("compute: unexpected error: %v", err)
	}

	// in the control group,
	// A is present in p1 at both times,
	// and in p3 only at follow-up.
	for _, r := range res.Records {
		if r.Label != "A" || r.Group != "control" {
			continue
		}
		if r.BaselinePrev != 0.5 || r.FollowUpPrev != 1 || r.PrevChange != 0.5 {
			t.Errorf("prevalence of A in %q: got %.3f %.3f %.3f, want 0.5 1 0.5", r.Subject, r.BaselinePrev, r.FollowUpPrev, r.PrevChange)
		}
	}
}

func TestReplicates(t *testing.T) {
	tb, md := newPaired(t, map[string][]string{
		"s5": {"p1", "1", "control"},
	})
	res, err := change.Compute(tb, md, change.Options{
		SubjectCol: "subject",
		TimeCol:    "time",
		Baseline:   "1",
		Metric:     change.Difference{},
	})
	if err != nil {
		t.Fatalf("compute: unexpected error: %v", err)
	}
	for _, r := range res.Records {
		if r.Label == "A" && r.Subject == "p1" {
			// mean of 0.5 (s1) and 0 (s5)
			if r.Baseline != 0.25 {
				t.Errorf("replicated baseline: got %.6f, want %.6f", r.Baseline, 0.25)
			}
		}
	}
}

func TestReplicatesNotice(t *testing.T) {
	tests := map[string]struct {
		extra map[string][]string
		want  string
	}{
		"paired": {
			extra: map[string][]string{
				"s5": {"p1", "1", "control"},
			},
			want: "subject-timepoints=1",
		},
		"unpaired": {
			extra: map[string][]string{
				"s5": {"p3", "1", "control"},
				"s7": {"p3", "1", "control"},
			},
		},
		"both": {
			extra: map[string][]string{
				"s5": {"p1", "1", "control"},
				"s7": {"p1", "2", "control"},
				"s8": {"p3", "1", "control"},
				"s9": {"p3", "1", "control"},
			},
			want: "subject-timepoints=2",
		},
	}

	for name, test := range tests {
		tb, md := newPaired(t, test.extra)
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		if _, err := change.Compute(tb, md, change.Options{
			SubjectCol: "subject",
			TimeCol:    "time",
			Baseline:   "1",
			Metric:     change.Difference{},
			Logger:     logger,
		}); err != nil {
			t.Fatalf("%s: compute: unexpected error: %v", name, err)
		}

		log := buf.String()
		if test.want == "" {
			if strings.Contains(log, "averaging replicated samples") {
				t.Errorf("%s: unexpected replicate notice: %q", name, log)
			}
			continue
		}
		if !strings.Contains(log, test.want) {
			t.Errorf("%s: replicate notice: got %q, want %q", name, log, test.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	res := &change.Result{
		Records: []change.Record{
			{Label: "A", Change: 1},
			{Label: "A", Change: 2},
			{Label: "A", Change: 3},
			{Label: "A", Change: 4},
			{Label: "B", Change: 0.5},
		},
	}
	sum := change.Summarize(res)
	if len(sum) != 2 {
		t.Fatalf("summaries: got %d, want %d", len(sum), 2)
	}

	a := sum[0]
	if a.Label != "A" || a.N != 4 || a.Mean != 2.5 || a.Median != 2.5 {
		t.Errorf("summary A: got %+v", a)
	}
	if a.Q1 != 1.5 || a.Q3 != 3.5 {
		t.Errorf("summary A quartiles: got %.3f %.3f, want 1.5 3.5", a.Q1, a.Q3)
	}
	if math.Abs(a.SD-math.Sqrt(5.0/3)) > 1e-9 {
		t.Errorf("summary A sd: got %.6f, want %.6f", a.SD, math.Sqrt(5.0/3))
	}
	// t = 2.5/(sd/2) = 3.873 with 3 df
	if a.P < 0.02 || a.P > 0.04 {
		t.Errorf("summary A p-value: got %.6f, want about 0.03", a.P)
	}

	b := sum[1]
	if b.N != 1 || b.Mean != 0.5 || b.Median != 0.5 || !math.IsNaN(b.P) {
		t.Errorf("summary B: got %+v", b)
	}
}

// newPaired returns a table of two labels
// (A and B)
// aggregated from three features,
// in four samples
// of two subjects
// at timepoints "1" and "2".
// Extra samples can be added
// as sample: {subject, time, group};
// A is absent and B has an abundance of 1
// in all extra samples,
// except the "s6" sample,
// in which A is 0.2.
func newPaired(t testing.TB, extra map[string][]string) (*aggregate.Table, *metadata.Data) {
	t.Helper()

	samples := []string{"s1", "s2", "s3", "s4"}
	for s := range extra {
		samples = append(samples, s)
	}
	m, err := abundance.New([]string{"otu1", "otu2", "otu3"}, samples)
	if err != nil {
		t.Fatalf("unable to build matrix: %v", err)
	}
	vals := map[string][]float64{
		"otu1": {0.3, 0.2, 0.1, 0.2},
		"otu2": {0.5, 0.6, 0.7, 0.8},
		"otu3": {0.2, 0.2, 0.2, 0.0},
	}
	for f, vs := range vals {
		for i, v := range vs {
			m.Set(f, samples[i], v)
		}
	}
	for s := range extra {
		m.Set("otu2", s, 1)
		if s == "s6" {
			m.Set("otu1", s, 0.2)
		}
	}

	tax := taxonomy.New()
	tax.Add("otu1", "genus", "A")
	tax.Add("otu2", "genus", "B")
	tax.Add("otu3", "genus", "A")

	tb, err := aggregate.Aggregate(m, tax, "genus", aggregate.Thresholds{})
	if err != nil {
		t.Fatalf("unable to aggregate: %v", err)
	}

	md := metadata.New()
	rows := map[string][]string{
		"s1": {"p1", "1", "control"},
		"s2": {"p1", "2", "control"},
		"s3": {"p2", "1", "treatment"},
		"s4": {"p2", "2", "treatment"},
	}
	for s, r := range extra {
		rows[s] = r
	}
	for s, r := range rows {
		md.Set(s, "subject", r[0])
		md.Set(s, "time", r[1])
		md.Set(s, "group", r[2])
	}
	return tb, md
}

func testRecords(t testing.TB, name string, got, want []change.Record, fn func(b, f float64) float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("%s: got %d records, want %d", name, len(got), len(want))
	}
	for i, w := range want {
		g := got[i]
		if g.Label != w.Label || g.Subject != w.Subject || g.Group != w.Group {
			t.Errorf("%s: record %d: got %s-%s-%s, want %s-%s-%s", name, i, g.Label, g.Subject, g.Group, w.Label, w.Subject, w.Group)
			continue
		}
		if math.Abs(g.Baseline-w.Baseline) > 1e-9 || math.Abs(g.FollowUp-w.FollowUp) > 1e-9 {
			t.Errorf("%s: record %d: got values %.6f %.6f, want %.6f %.6f", name, i, g.Baseline, g.FollowUp, w.Baseline, w.FollowUp)
		}
		if c := fn(g.Baseline, g.FollowUp); math.Abs(g.Change-c) > 1e-9 {
			t.Errorf("%s: record %d: got change %.6f, want %.6f", name, i, g.Change, c)
		}
	}
}
