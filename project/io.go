// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"

	"github.com/js-arias/mbchange/abundance"
	"github.com/js-arias/mbchange/metadata"
	"github.com/js-arias/mbchange/pipeline"
	"github.com/js-arias/mbchange/tabfile"
	"github.com/js-arias/mbchange/taxonomy"
)

// Type returns the declared data type
// of the abundance values
// defined in a project.
func (p *Project) Type() (abundance.Type, error) {
	v := p.Path(DataType)
	if v == "" {
		return "", fmt.Errorf("data type not defined in project %q", p.name)
	}
	t, err := abundance.ParseType(v)
	if err != nil {
		return "", fmt.Errorf("on project %q: %v", p.name, err)
	}
	return t, nil
}

// Abundance reads an abundance matrix file
// as defined in a project.
func (p *Project) Abundance() (*abundance.Matrix, error) {
	name := p.Path(Abundance)
	if name == "" {
		return nil, fmt.Errorf("abundance matrix not defined in project %q", p.name)
	}
	return ReadAbundance(name)
}

// Taxonomy reads a taxonomy file
// as defined in a project.
func (p *Project) Taxonomy() (*taxonomy.Map, error) {
	name := p.Path(Taxonomy)
	if name == "" {
		return nil, fmt.Errorf("taxonomy not defined in project %q", p.name)
	}
	return ReadTaxonomy(name)
}

// Metadata reads a sample metadata file
// as defined in a project.
func (p *Project) Metadata() (*metadata.Data, error) {
	name := p.Path(Metadata)
	if name == "" {
		return nil, fmt.Errorf("sample metadata not defined in project %q", p.name)
	}
	return ReadMetadata(name)
}

// FeatureData reads the data type,
// the abundance matrix,
// and the taxonomy of a project.
// The sample metadata is not read.
func (p *Project) FeatureData() (pipeline.Data, error) {
	t, err := p.Type()
	if err != nil {
		return pipeline.Data{}, err
	}
	m, err := p.Abundance()
	if err != nil {
		return pipeline.Data{}, err
	}
	tax, err := p.Taxonomy()
	if err != nil {
		return pipeline.Data{}, err
	}
	return pipeline.Data{
		Type:     t,
		Matrix:   m,
		Taxonomy: tax,
	}, nil
}

// Data reads all the datasets of a project.
func (p *Project) Data() (pipeline.Data, error) {
	d, err := p.FeatureData()
	if err != nil {
		return pipeline.Data{}, err
	}
	md, err := p.Metadata()
	if err != nil {
		return pipeline.Data{}, err
	}
	d.Metadata = md
	return d, nil
}

// ReadAbundance reads an abundance matrix file.
// The file can be compressed,
// and delimited by tabs or commas.
func ReadAbundance(name string) (*abundance.Matrix, error) {
	f, err := tabfile.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := abundance.Read(f, f.Comma)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return m, nil
}

// ReadTaxonomy reads a taxonomy file.
// The file can be compressed,
// and delimited by tabs or commas.
func ReadTaxonomy(name string) (*taxonomy.Map, error) {
	f, err := tabfile.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tax, err := taxonomy.Read(f, f.Comma)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return tax, nil
}

// ReadMetadata reads a sample metadata file.
// The file can be compressed,
// and delimited by tabs or commas.
func ReadMetadata(name string) (*metadata.Data, error) {
	f, err := tabfile.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	md, err := metadata.Read(f, f.Comma)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return md, nil
}
