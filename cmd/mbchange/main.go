// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Mbchange is a tool for the analysis of the change
// of microbial taxa between two timepoints
// in paired longitudinal designs.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/cmd/mbchange/aggregatecmd"
	"github.com/js-arias/mbchange/cmd/mbchange/changecmd"
	"github.com/js-arias/mbchange/cmd/mbchange/data"
	"github.com/js-arias/mbchange/cmd/mbchange/plot"
	"github.com/js-arias/mbchange/cmd/mbchange/prj"
	"github.com/js-arias/mbchange/cmd/mbchange/summary"
	"github.com/js-arias/mbchange/cmd/mbchange/top"
)

var app = &command.Command{
	Usage: "mbchange <command> [<argument>...]",
	Short: "a tool for paired microbiome change analysis",
}

func init() {
	app.Add(aggregatecmd.Command)
	app.Add(changecmd.Command)
	app.Add(data.Command)
	app.Add(plot.Command)
	app.Add(prj.Command)
	app.Add(summary.Command)
	app.Add(top.Command)
}

func main() {
	app.Main()
}
