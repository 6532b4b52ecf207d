// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package data is a metapackage for commands
// that dealt with the input data of a project.
package data

import (
	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/cmd/mbchange/data/add"
	"github.com/js-arias/mbchange/cmd/mbchange/data/normalize"
)

var Command = &command.Command{
	Usage: "data <command> [<argument>...]",
	Short: "commands for abundance, taxonomy, and sample data",
}

func init() {
	Command.Add(add.Command)
	Command.Add(normalize.Command)
}
