// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"io"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/mbchange/abundance"
	"github.com/js-arias/mbchange/project"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads a mbchange project and prints the information of the
different project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	w := c.Stdout()

	var t abundance.Type
	if p.Path(project.DataType) != "" {
		t, err = p.Type()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Data type: %s\n\n", t)
	}

	if name := p.Path(project.Abundance); name != "" {
		if err := printAbundance(w, p, name, t); err != nil {
			return err
		}
	}
	if name := p.Path(project.Taxonomy); name != "" {
		if err := printTaxonomy(w, p, name); err != nil {
			return err
		}
	}
	if name := p.Path(project.Metadata); name != "" {
		if err := printMetadata(w, p, name); err != nil {
			return err
		}
	}
	return nil
}

func printAbundance(w io.Writer, p *project.Project, name string, t abundance.Type) error {
	m, err := p.Abundance()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Abundance matrix:\n")
	fmt.Fprintf(w, "\tfile: %s\n", name)
	fmt.Fprintf(w, "\tfeatures: %d\n", len(m.Features()))
	fmt.Fprintf(w, "\tsamples: %d\n", len(m.Samples()))
	if t != "" {
		status := "yes"
		if err := abundance.CheckNormalized(t, m); err != nil {
			status = "no"
		}
		fmt.Fprintf(w, "\tready for analysis: %s\n", status)
	}
	fmt.Fprintf(w, "\n")
	return nil
}

func printTaxonomy(w io.Writer, p *project.Project, name string) error {
	tax, err := p.Taxonomy()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Taxonomy:\n")
	fmt.Fprintf(w, "\tfile: %s\n", name)
	fmt.Fprintf(w, "\tfeatures: %d\n", len(tax.Features()))
	fmt.Fprintf(w, "\tlevels: %s\n", strings.Join(tax.Levels(), ", "))
	fmt.Fprintf(w, "\n")
	return nil
}

func printMetadata(w io.Writer, p *project.Project, name string) error {
	md, err := p.Metadata()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Sample metadata:\n")
	fmt.Fprintf(w, "\tfile: %s\n", name)
	fmt.Fprintf(w, "\tsamples: %d\n", len(md.Samples()))
	fmt.Fprintf(w, "\tcolumns: %s\n", strings.Join(md.Columns(), ", "))
	fmt.Fprintf(w, "\n")
	return nil
}
