// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(abundanceGuide)
	app.Add(metadataGuide)
	app.Add(projectsGuide)
	app.Add(taxonomyGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
Mbchange requires several files to read and process microbiome data. To reduce
the burden of keeping track of many files, a single project file is used to
hold the reference of all files required in the analysis, as well as the
type of the abundance data. This guide explains the structure of the file,
but most of the time, the best and most secure way to edit or view this file
is by using mbchange commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# mbchange project files
	dataset	path
	abundance	otu-table.tab.gz
	datatype	count
	metadata	samples.tab
	taxonomy	taxonomy.tab

The valid dataset keywords are:

- Abundance matrix. Defined by the dataset keyword "abundance". The
  recommended way to add an abundance matrix is by using the command
  'mbchange data add'.
- Data type. Defined by the dataset keyword "datatype". It is not a file,
  but the type of the abundance values: "count", "proportion", or "other".
- Sample metadata. Defined by the dataset keyword "metadata". The
  recommended way to add a metadata file is by using the command
  'mbchange data add'.
- Taxonomy. Defined by the dataset keyword "taxonomy". The recommended way
  to add a taxonomy file is by using the command 'mbchange data add'.
	`,
}

var abundanceGuide = &command.Command{
	Usage: "abundance",
	Short: "about abundance matrix files",
	Long: `
An abundance matrix stores the abundance of each feature (an OTU, an ASV, or
any other observational unit) in each sample. It is a tab or comma delimited
file, that can be compressed with gzip, bzip2, xz, or zip.

The first column must be called "feature", and contains the feature
identifiers. Each additional column is a sample, and the header contains the
sample identifier. Values must be non-negative numbers.

Here is an example file:

	# read counts
	feature	s1	s2	s3	s4
	otu1	120	0	35	12
	otu2	4	230	0	18
	otu3	0	15	80	0

If the abundances are read counts (data type "count"), the matrix must be
normalized before any analysis, using the command 'mbchange data normalize'.

In a mbchange project, the file that contains the abundance matrix is
indicated with the "abundance" keyword.
	`,
}

var taxonomyGuide = &command.Command{
	Usage: "taxonomy",
	Short: "about taxonomy files",
	Long: `
A taxonomy file stores the taxonomic assignment of each feature. It is a tab
or comma delimited file, that can be compressed with gzip, bzip2, xz, or
zip.

The first column must be called "feature", and contains the feature
identifiers. Each additional column is a taxonomic level (for example
"phylum" or "genus"), and contains the label of the feature at that level.
Empty labels, or features without assignment, are "unassigned". Level names
are case insensitive.

Here is an example file:

	feature	phylum	genus
	otu1	Firmicutes	Faecalibacterium
	otu2	Bacteroidota	Bacteroides
	otu3	Bacteroidota	Prevotella

The level "original" is always defined, and uses each feature as its own
label.

In a mbchange project, the file that contains the taxonomy is indicated with
the "taxonomy" keyword.
	`,
}

var metadataGuide = &command.Command{
	Usage: "metadata",
	Short: "about sample metadata files",
	Long: `
A sample metadata file stores the attributes of each sample. It is a tab or
comma delimited file, that can be compressed with gzip, bzip2, xz, or zip.

The first column must be called "sample", and contains the sample
identifiers (as used in the abundance matrix). Any other column is an
attribute of the sample. For a change analysis, a column with the subject
identifier, and a column with the timepoint, are required. Column names are
case insensitive.

Here is an example file:

	sample	subject	week	arm
	s1	p1	0	placebo
	s2	p1	12	placebo
	s3	p2	0	treatment
	s4	p2	12	treatment

Samples without a subject or a timepoint are ignored in the analysis.

In a mbchange project, the file that contains the sample metadata is
indicated with the "metadata" keyword.
	`,
}
