// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package summary implements a command to print
// a statistical summary of the change
// of taxonomic labels.
package summary

import (
	"context"
	"io"
	"path/filepath"

	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/change"
	"github.com/js-arias/mbchange/cmd/mbchange/analysis"
	"github.com/js-arias/mbchange/pipeline"
)

var Command = &command.Command{
	Usage: `summary ` + analysis.ChangeUsage + `
	` + analysis.FilterUsage + `
	[--dir <directory>] [--stdout] [--cpu <number>] [--quiet]
	<project-file>`,
	Short: "summarize the change between two timepoints",
	Long: `
Command summary reads a project, calculates the change of each taxonomic label
between two timepoints (as in the command 'change'), and reports a statistical
summary of the change of each label in each group of subjects.

The argument of the command is the name of the project file.
` + analysis.ChangeHelp + analysis.FilterHelp + `
The summary of each level is written as a tab-delimited file in the current
directory, or in the directory defined with the flag --dir, using a file
name built from the analysis parameters, for example:

	summary_subject_time_1_Genus_prev0.1_abund0.001_difference.tab

If the flag --stdout is defined, the summaries will be printed in the
standard output.

The summary contains the following columns:

	- level, the taxonomic level
	- label, the taxonomic label
	- group, the group of subjects (if defined)
	- n, the number of subjects
	- mean, sd, median, q1, q3, the statistics of the change
	- p-value, the two-sided p-value of a one-sample t-test of the change
	  against 0
	- prev-change, the change in prevalence (0 without --prev)
	`,
	SetFlags: setFlags,
	Run:      run,
}

var flags analysis.Flags
var dirFlag string
var stdoutFlag bool

func setFlags(c *command.Command) {
	flags.SetChange(c)
	c.Flags().StringVar(&dirFlag, "dir", ".", "")
	c.Flags().BoolVar(&stdoutFlag, "stdout", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	_, req, res, err := flags.Run(context.Background(), c, args[0])
	if err != nil {
		return err
	}

	for _, r := range res {
		sum := change.Summarize(r.Change)
		write := func(w io.Writer) error {
			return change.WriteSummary(w, r.Level, sum)
		}
		if stdoutFlag {
			if err := write(c.Stdout()); err != nil {
				return err
			}
			continue
		}
		name := filepath.Join(dirFlag, pipeline.OutputName("summary", req, r.Level, r.Thresholds, "", "tab"))
		if err := analysis.WriteFile(name, write); err != nil {
			return err
		}
		req.Logger.Info("summary", "level", r.Level, "labels", r.Table.Len(), "file", name)
	}
	return nil
}
