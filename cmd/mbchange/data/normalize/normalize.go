// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package normalize implements a command to normalize
// the count data of a project.
package normalize

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/abundance"
	"github.com/js-arias/mbchange/cmd/mbchange/analysis"
	"github.com/js-arias/mbchange/project"
)

var Command = &command.Command{
	Usage: `normalize [--depth <number>] [--seed <number>]
	[-o|--output <file>] [--quiet] <project-file>`,
	Short: "normalize the count data of a project",
	Long: `
Command normalize reads the abundance matrix of a project with count data, and
normalizes each sample by its total sum, so the abundances of each sample sum
to 1. The normalized matrix replaces the abundance matrix of the project.

The argument of the command is the name of the project file.

If the flag --depth is defined, samples are rarefied to the indicated number
of reads before the normalization, by sampling the reads without replacement.
Samples with fewer reads than the depth are removed. The flag --seed defines
the seed of the random number generator, by default the current time is used.

By default, the normalized matrix is written in a file called
"normalized-abundance.tab". Use the flag --output, or -o, to define a
different file name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var depthFlag int
var seedFlag uint64
var output string
var quietFlag bool

func setFlags(c *command.Command) {
	c.Flags().IntVar(&depthFlag, "depth", 0, "")
	c.Flags().Uint64Var(&seedFlag, "seed", 0, "")
	c.Flags().StringVar(&output, "output", "normalized-abundance.tab", "")
	c.Flags().StringVar(&output, "o", "normalized-abundance.tab", "")
	c.Flags().BoolVar(&quietFlag, "quiet", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if depthFlag < 0 {
		return c.UsageError(fmt.Sprintf("flag --depth: invalid value %d", depthFlag))
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	t, err := p.Type()
	if err != nil {
		return err
	}
	if t != abundance.Count {
		return fmt.Errorf("project %q: data type is %q, expecting %q", args[0], t, abundance.Count)
	}
	m, err := p.Abundance()
	if err != nil {
		return err
	}

	logger := analysis.NewLogger(c.Stderr(), quietFlag)
	if depthFlag > 0 {
		seed := seedFlag
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng := rand.New(rand.NewPCG(seed, seed>>1|1))
		rm, err := abundance.Rarefy(m, depthFlag, rng)
		if err != nil {
			return err
		}
		if d := len(m.Samples()) - len(rm.Samples()); d > 0 {
			logger.Info("rarefaction", "depth", depthFlag, "removed", d, "seed", seed)
		}
		m = rm
	}
	m = abundance.TSS(m)

	if err := analysis.WriteFile(output, m.TSV); err != nil {
		return err
	}
	p.Add(project.Abundance, output)
	return p.Write()
}
