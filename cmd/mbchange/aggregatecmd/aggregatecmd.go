// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package aggregatecmd implements a command to aggregate
// the features of a project
// into taxonomic labels.
package aggregatecmd

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/cmd/mbchange/analysis"
	"github.com/js-arias/mbchange/pipeline"
	"github.com/js-arias/mbchange/project"
)

var Command = &command.Command{
	Usage: `aggregate ` + analysis.FilterUsage + `
	[-o|--output <prefix>] <project-file>`,
	Short: "aggregate features into taxonomic labels",
	Long: `
Command aggregate reads the abundance matrix and the taxonomy of a project,
and sums the abundances of the features that share a taxonomic label, after
removing the labels with low prevalence or abundance.

The argument of the command is the name of the project file.
` + analysis.FilterHelp + `
The aggregated table of each level will be written in a file called
"<prefix>-<level>.tab". By default the prefix is "aggregate", use the flag
--output, or -o, to set a different prefix. The table has a column called
"label" with the taxonomic label, and a column per sample.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var flags analysis.Flags
var output string

func setFlags(c *command.Command) {
	flags.SetFilter(c)
	c.Flags().StringVar(&output, "output", "aggregate", "")
	c.Flags().StringVar(&output, "o", "aggregate", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	req, err := flags.Request(c)
	if err != nil {
		return err
	}
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

	logger := req.Logger
	for _, lv := range req.Levels {
		t, th, err := pipeline.Aggregate(d, req, lv)
		if err != nil {
			return err
		}
		logger.Info("aggregated", "level", t.Level(), "labels", t.Len(), "prevalence", th.Prevalence, "abundance", th.Abundance)

		name := fmt.Sprintf("%s-%s.tab", output, t.Level())
		if err := analysis.WriteFile(name, t.TSV); err != nil {
			return err
		}
	}
	return nil
}
