// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"os"
	"path/filepath"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/js-arias/mbchange/abundance"
	"github.com/js-arias/mbchange/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.Abundance, "otu-table.tab"},
		{project.Taxonomy, "taxonomy.tab"},
		{project.Metadata, "samples.tab"},
		{project.DataType, "proportion"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	name := filepath.Join(t.TempDir(), "project.tab")
	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, sets)

	tp, err := np.Type()
	if err != nil {
		t.Fatalf("type: unexpected error: %v", err)
	}
	if tp != abundance.Proportion {
		t.Errorf("type: got %q, want %q", tp, abundance.Proportion)
	}

	prev, err := np.Add(project.Metadata, "")
	if err != nil {
		t.Fatalf("remove: unexpected error: %v", err)
	}
	if prev != "samples.tab" {
		t.Errorf("remove: got previous %q, want %q", prev, "samples.tab")
	}
	if _, err := np.Metadata(); err == nil {
		t.Errorf("metadata: expecting error for undefined dataset")
	}
}

func TestData(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"otu.csv": "feature,s1,s2\notu1,0.4,0.5\notu2,0.6,0.5\n",
		"tax.tab": "feature\tgenus\notu1\tA\notu2\tB\n",
		"md.tab":  "sample\tsubject\ttime\ns1\tp1\t1\ns2\tp1\t2\n",
	}
	for n, d := range files {
		if err := os.WriteFile(filepath.Join(dir, n), []byte(d), 0o644); err != nil {
			t.Fatalf("unable to write %q: %v", n, err)
		}
	}

	p := project.New()
	p.Add(project.Abundance, filepath.Join(dir, "otu.csv"))
	p.Add(project.Taxonomy, filepath.Join(dir, "tax.tab"))
	p.Add(project.Metadata, filepath.Join(dir, "md.tab"))
	p.Add(project.DataType, "proportion")

	d, err := p.Data()
	if err != nil {
		t.Fatalf("data: unexpected error: %v", err)
	}
	if got := d.Matrix.Samples(); !reflect.DeepEqual(got, []string{"s1", "s2"}) {
		t.Errorf("samples: got %v, want %v", got, []string{"s1", "s2"})
	}
	if got := d.Matrix.Value("otu2", "s1"); got != 0.6 {
		t.Errorf("value: got %.3f, want %.3f", got, 0.6)
	}
	if lb, _ := d.Taxonomy.Label("otu1", "genus"); lb != "A" {
		t.Errorf("label: got %q, want %q", lb, "A")
	}
	if got := d.Metadata.Value("s2", "time"); got != "2" {
		t.Errorf("metadata: got %q, want %q", got, "2")
	}
}

func TestDataType(t *testing.T) {
	p := project.New()
	if _, err := p.Add(project.DataType, " Count "); err != nil {
		t.Fatalf("data type: unexpected error: %v", err)
	}
	if got := p.Path(project.DataType); got != "count" {
		t.Errorf("data type: got %q, want %q", got, "count")
	}

	prev, err := p.Add(project.DataType, "reads")
	if err == nil {
		t.Errorf("data type: expecting error for unknown type")
	}
	if prev != "count" || p.Path(project.DataType) != "count" {
		t.Errorf("data type: invalid type replaced the previous value: got %q", p.Path(project.DataType))
	}

	if _, err := p.Add("tree", "tree.tab"); !errors.Is(err, project.ErrDataset) {
		t.Errorf("dataset: got error %v, want %v", err, project.ErrDataset)
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"bad type":    "dataset\tpath\ndatatype\treads\n",
		"bad dataset": "dataset\tpath\ntree\ttree.tab\n",
		"no path":     "dataset\nabundance\n",
	}
	dir := t.TempDir()
	for name, data := range tests {
		f := filepath.Join(dir, strings.ReplaceAll(name, " ", "-")+".tab")
		if err := os.WriteFile(f, []byte(data), 0o644); err != nil {
			t.Fatalf("unable to write %q: %v", f, err)
		}
		if _, err := project.Read(f); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}

	f := filepath.Join(dir, "canon.tab")
	if err := os.WriteFile(f, []byte("dataset\tpath\nDataType\tProportion\n"), 0o644); err != nil {
		t.Fatalf("unable to write %q: %v", f, err)
	}
	p, err := project.Read(f)
	if err != nil {
		t.Fatalf("canon: unexpected error: %v", err)
	}
	if tp, err := p.Type(); err != nil || tp != abundance.Proportion {
		t.Errorf("canon: got type %q (error %v), want %q", tp, err, abundance.Proportion)
	}
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}
