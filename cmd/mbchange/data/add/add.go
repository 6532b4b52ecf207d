// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add
// data files to a project.
package add

import (
	"errors"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/cmd/mbchange/analysis"
	"github.com/js-arias/mbchange/project"
)

var Command = &command.Command{
	Usage: `add [--type <data-type>] [--abundance <file>]
	[--taxonomy <file>] [--metadata <file>] [--quiet] <project-file>`,
	Short: "add data files to a project",
	Long: `
Command add reads one or more data files, checks that they are valid, and adds
them to a project. If the project file does not exist, a new project will be
created.

The argument of the command is the name of the project file.

The flag --abundance defines the feature abundance matrix. The flag
--taxonomy defines the taxonomic assignments of the features. The flag
--metadata defines the sample metadata. Files can be tab or comma delimited,
and can be compressed (gzip, bzip2, xz, or zip). See 'mbchange help
abundance', 'mbchange help taxonomy', and 'mbchange help metadata' for a
description of the file formats.

The flag --type defines the type of the abundance values. Valid values are:

	count       raw read counts, they must be normalized before any
	            analysis (see 'mbchange data normalize').
	proportion  relative abundances, each sample sums to 1.
	other       any other scale, no filtering will be applied.

If the project does not have a data type, the flag --type is required.

When more than one dataset is defined, the command reports (in the standard
error) the features without a taxonomic assignment, and the samples without
metadata. Use the flag --quiet to suppress these notices.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var typeFlag string
var abundFile string
var taxFile string
var mdFile string
var quietFlag bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&typeFlag, "type", "", "")
	c.Flags().StringVar(&abundFile, "abundance", "", "")
	c.Flags().StringVar(&taxFile, "taxonomy", "", "")
	c.Flags().StringVar(&mdFile, "metadata", "", "")
	c.Flags().BoolVar(&quietFlag, "quiet", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	if typeFlag != "" {
		if _, err := p.Add(project.DataType, typeFlag); err != nil {
			return c.UsageError(fmt.Sprintf("flag --type: %v", err))
		}
	}
	if p.Path(project.DataType) == "" {
		return c.UsageError("flag --type must be defined")
	}

	if abundFile != "" {
		if _, err := project.ReadAbundance(abundFile); err != nil {
			return err
		}
		p.Add(project.Abundance, abundFile)
	}
	if taxFile != "" {
		if _, err := project.ReadTaxonomy(taxFile); err != nil {
			return err
		}
		p.Add(project.Taxonomy, taxFile)
	}
	if mdFile != "" {
		if _, err := project.ReadMetadata(mdFile); err != nil {
			return err
		}
		p.Add(project.Metadata, mdFile)
	}

	if err := crossCheck(c, p); err != nil {
		return err
	}

	return p.Write()
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}

// crossCheck reports the features without taxonomy
// and the samples without metadata.
func crossCheck(c *command.Command, p *project.Project) error {
	if p.Path(project.Abundance) == "" {
		return nil
	}
	logger := analysis.NewLogger(c.Stderr(), quietFlag)

	m, err := p.Abundance()
	if err != nil {
		return err
	}

	if p.Path(project.Taxonomy) != "" {
		tax, err := p.Taxonomy()
		if err != nil {
			return err
		}
		known := make(map[string]bool)
		for _, f := range tax.Features() {
			known[f] = true
		}
		var missing int
		for _, f := range m.Features() {
			if !known[f] {
				missing++
			}
		}
		if missing > 0 {
			logger.Info("features without taxonomy", "features", missing, "total", len(m.Features()))
		}
	}

	if p.Path(project.Metadata) != "" {
		md, err := p.Metadata()
		if err != nil {
			return err
		}
		var missing int
		for _, s := range m.Samples() {
			if !md.HasSample(s) {
				missing++
			}
		}
		if missing > 0 {
			logger.Info("samples without metadata", "samples", missing, "total", len(m.Samples()))
		}
	}
	return nil
}
