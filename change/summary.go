// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package change

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary is a statistical summary
// of the change of a label
// in a group of subjects.
type Summary struct {
	Label string
	Group string

	// Number of subjects.
	N int

	Mean   float64
	SD     float64
	Median float64
	Q1     float64
	Q3     float64

	// Two-sided P-value of a one-sample t-test
	// of the change against 0.
	// It is NaN if it can not be calculated.
	P float64

	// Change in prevalence of the label
	// in the group.
	PrevChange float64
}

type summaryKey struct {
	label string
	group string
}

// Summarize returns the summary of the change
// of each label and group
// in a change result.
// Summaries are in the order
// in which labels and groups are found
// in the records.
func Summarize(res *Result) []Summary {
	var keys []summaryKey
	vals := make(map[summaryKey][]float64)
	prev := make(map[summaryKey]float64)
	for _, r := range res.Records {
		k := summaryKey{label: r.Label, group: r.Group}
		if _, ok := vals[k]; !ok {
			keys = append(keys, k)
			prev[k] = r.PrevChange
		}
		vals[k] = append(vals[k], r.Change)
	}

	sum := make([]Summary, 0, len(keys))
	for _, k := range keys {
		s := summarize(vals[k])
		s.Label = k.label
		s.Group = k.group
		s.PrevChange = prev[k]
		sum = append(sum, s)
	}
	return sum
}

func summarize(v []float64) Summary {
	s := Summary{
		N:  len(v),
		SD: math.NaN(),
		P:  math.NaN(),
	}
	if len(v) == 0 {
		return s
	}

	data := stats.Float64Data(v)
	s.Median, _ = stats.Median(data)
	s.Q1, s.Q3 = s.Median, s.Median
	if len(v) > 1 {
		if q, err := stats.Quartile(data); err == nil {
			s.Q1, s.Q3 = q.Q1, q.Q3
		}
	}

	if len(v) < 2 {
		s.Mean = v[0]
		return s
	}
	s.Mean, s.SD = stat.MeanStdDev(v, nil)
	s.P = tTest(s.Mean, s.SD, len(v))
	return s
}

// tTest returns the two-sided P-value
// of a one-sample t-test against 0.
func tTest(mean, sd float64, n int) float64 {
	if sd == 0 {
		if mean == 0 {
			return math.NaN()
		}
		return 0
	}
	t := mean / (sd / math.Sqrt(float64(n)))
	st := distuv.StudentsT{
		Mu:    0,
		Sigma: 1,
		Nu:    float64(n - 1),
	}
	return 2 * st.Survival(math.Abs(t))
}
