// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package top implements a command to print
// the taxonomic labels with the largest value
// of a ranking statistic.
package top

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/cmd/mbchange/analysis"
	"github.com/js-arias/mbchange/pipeline"
	"github.com/js-arias/mbchange/project"
)

var Command = &command.Command{
	Usage: `top --top <number> ` + analysis.FilterUsage + `
	<project-file>`,
	Short: "print the top ranked taxonomic labels",
	Long: `
Command top reads the abundance matrix and the taxonomy of a project, and
prints the taxonomic labels with the largest value of a ranking statistic
over the samples.

The argument of the command is the name of the project file.
` + analysis.FilterHelp + `
The flag --top is required.

The output is a tab-delimited table printed in the standard output, with the
following columns:

	- level, the taxonomic level
	- rank, the position of the label
	- label, the taxonomic label
	- <stat>, the value of the ranking statistic
	`,
	SetFlags: setFlags,
	Run:      run,
}

var flags analysis.Flags

func setFlags(c *command.Command) {
	flags.SetFilter(c)
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	req, err := flags.Request(c)
	if err != nil {
		return err
	}
	if !req.HasTopK() {
		return c.UsageError("flag --top must be defined")
	}
	req.Features = nil

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	d, err := p.FeatureData()
	if err != nil {
		return err
	}
	if err := pipeline.Check(d, req); err != nil {
		return err
	}

	tsv := csv.NewWriter(c.Stdout())
	tsv.Comma = '\t'
	tsv.UseCRLF = true
	if err := tsv.Write([]string{"level", "rank", "label", req.Rank.String()}); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}

	for _, lv := range req.Levels {
		t, _, err := pipeline.Aggregate(d, req, lv)
		if err != nil {
			return err
		}
		for i, lb := range t.Labels() {
			row := []string{
				t.Level(),
				strconv.Itoa(i + 1),
				lb,
				strconv.FormatFloat(req.Rank.Rank(t.Row(lb)), 'g', -1, 64),
			}
			if err := tsv.Write(row); err != nil {
				return err
			}
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}
