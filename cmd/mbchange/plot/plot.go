// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package plot implements a command to draw plots
// of the change of taxonomic labels.
package plot

import (
	"context"
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/cmd/mbchange/analysis"
	"github.com/js-arias/mbchange/render"
)

var Command = &command.Command{
	Usage: `plot [--type <type>[,<type>...]] [--format <format>]
	[--gradient <name>] [--dir <directory>]
	` + analysis.ChangeUsage + `
	` + analysis.FilterUsage + `
	[--cpu <number>] [--quiet] <project-file>`,
	Short: "draw plots of the change between two timepoints",
	Long: `
Command plot reads a project, calculates the change of each taxonomic label
between two timepoints (as in the command 'change'), and draws plots of the
results.

The argument of the command is the name of the project file.

The flag --type defines the plots to be drawn, by default, "box".
` + analysis.PlotHelp + `
The flag --format defines the image format. By default "png" is used, other
valid formats are "svg", "pdf", "eps", "jpg", and "tif".

The flag --gradient defines the color gradient. Valid values are
"iridescent" (the default), "incandescent", "rainbow", and "gray".

The plots are saved in the current directory, or in the directory defined with
the flag --dir, using a file name built from the analysis parameters (for
example "boxplot_subject_time_1_Genus_prev0.1_abund0.001_difference.png").
` + analysis.ChangeHelp + analysis.FilterHelp,
	SetFlags: setFlags,
	Run:      run,
}

var flags analysis.Flags
var typeFlag string
var formatFlag string
var gradientFlag string
var dirFlag string

func setFlags(c *command.Command) {
	flags.SetChange(c)
	c.Flags().StringVar(&typeFlag, "type", "box", "")
	c.Flags().StringVar(&formatFlag, "format", "png", "")
	c.Flags().StringVar(&gradientFlag, "gradient", "", "")
	c.Flags().StringVar(&dirFlag, "dir", ".", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	types, err := analysis.PlotTypes(typeFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --type: %v", err))
	}
	if len(types) == 0 {
		return c.UsageError("flag --type: expecting a plot type")
	}
	g, err := render.ParseGradient(gradientFlag)
	if err != nil {
		return c.UsageError(fmt.Sprintf("flag --gradient: %v", err))
	}

	d, req, res, err := flags.Run(context.Background(), c, args[0])
	if err != nil {
		return err
	}

	pl := analysis.Plotter{
		Dir:      dirFlag,
		Format:   formatFlag,
		Gradient: g,
		Epsilon:  flags.Epsilon(),
		Data:     d,
		Request:  req,
	}
	for _, r := range res {
		for _, pt := range types {
			name, err := pl.Plot(pt, r)
			if err != nil {
				return err
			}
			req.Logger.Info("plot", "level", r.Level, "file", name)
		}
	}
	return nil
}
