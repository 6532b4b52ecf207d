// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package changecmd implements a command to calculate
// the change of taxonomic labels
// between two timepoints.
package changecmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/cmd/mbchange/analysis"
	"github.com/js-arias/mbchange/pipeline"
	"github.com/js-arias/mbchange/render"
)

var Command = &command.Command{
	Usage: `change ` + analysis.ChangeUsage + `
	` + analysis.FilterUsage + `
	[--dir <directory>] [--plot <type>[,<type>...]] [--format <format>]
	[--cpu <number>] [--quiet] <project-file>`,
	Short: "calculate the change between two timepoints",
	Long: `
Command change reads a project, aggregates the features at the indicated
taxonomic levels, pairs the samples of each subject at the baseline and
follow-up timepoints, and calculates the change of each taxonomic label in
each subject.

The argument of the command is the name of the project file.
` + analysis.ChangeHelp + analysis.FilterHelp + `
The results of each level are written as a tab-delimited file in the current
directory, or in the directory defined with the flag --dir. The file name
is built from the analysis parameters, for example:

	change_subject_time_1_Genus_prev0.1_abund0.001_difference.tab

The file contains the following columns:

	- level, the taxonomic level
	- label, the taxonomic label
	- subject, the subject identifier
	- group, the group of the subject (if defined)
	- strata, the strata of the subject (if defined)
	- baseline, the abundance at the baseline
	- follow-up, the abundance at the follow-up
	- change, the value of the change metric
	- prev-baseline, prev-follow-up, prev-change, the prevalence of the
	  label at each timepoint, and its change (only with --prev)

If the flag --plot is defined, plots of the results will be also produced. The
flag --format defines the image format, by default "png".
` + analysis.PlotHelp + `
Levels are analyzed in parallel. By default all available CPUs are used, set
the --cpu flag to use a different number of CPUs.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var flags analysis.Flags
var dirFlag string
var plotFlag string
var formatFlag string

func setFlags(c *command.Command) {
	flags.SetChange(c)
	c.Flags().StringVar(&dirFlag, "dir", ".", "")
	c.Flags().StringVar(&plotFlag, "plot", "", "")
	c.Flags().StringVar(&formatFlag, "format", "png", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	plots, err := analysis.PlotTypes(plotFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --plot: %v", err))
	}

	d, req, res, err := flags.Run(context.Background(), c, args[0])
	if err != nil {
		return err
	}

	logger := req.Logger
	pl := analysis.Plotter{
		Dir:      dirFlag,
		Format:   formatFlag,
		Gradient: render.Iridescent{},
		Epsilon:  flags.Epsilon(),
		Data:     d,
		Request:  req,
	}
	for _, r := range res {
		name := filepath.Join(dirFlag, pipeline.OutputName("change", req, r.Level, r.Thresholds, "", "tab"))
		if err := analysis.WriteFile(name, r.Change.TSV); err != nil {
			return err
		}
		logger.Info("change", "level", r.Level, "labels", r.Table.Len(), "records", len(r.Change.Records), "file", name)

		for _, pt := range plots {
			pf, err := pl.Plot(pt, r)
			if err != nil {
				return err
			}
			logger.Info("plot", "level", r.Level, "file", pf)
		}
	}
	return nil
}
