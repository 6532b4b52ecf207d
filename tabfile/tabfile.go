// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tabfile opens delimited data tables,
// transparently decompressing them,
// and detecting its field delimiter.
package tabfile

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/csimplestring/go-csv/detector"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

// Compression is a compression format
// of a file.
type Compression byte

// Valid compression formats.
const (
	None Compression = iota
	Gzip
	Zip
	XZ
	BZip2
)

var signatures = []struct {
	c   Compression
	sig []byte
}{
	{Gzip, []byte{0x1f, 0x8b, 0x08}},
	{Zip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{XZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{BZip2, []byte{0x42, 0x5a, 0x68}},
}

// Size of the sample used to detect the delimiter.
const sampleSize = 64 * 1024

// Reader is a data table reader.
type Reader struct {
	io.Reader

	// Compression format of the input.
	Compression Compression

	// Comma is the field delimiter.
	Comma rune

	// closers in closing order,
	// decompressors first
	closers []io.Closer
}

// Close closes the decompressor
// and the underlying file,
// if any.
// The first error found is returned.
func (r *Reader) Close() error {
	var err error
	for _, c := range r.closers {
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	r.closers = nil
	return err
}

// Open opens a data table file.
func Open(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	r.closers = append(r.closers, f)
	return r, nil
}

// NewReader returns a new data table reader
// from r.
// The delimiter will be either a tab
// or a comma;
// if it can not be detected,
// a tab is used.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(6)
	c := detect(head)

	var dr io.Reader
	var closers []io.Closer
	switch c {
	case Gzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		dr = gz
		closers = append(closers, gz)
	case Zip:
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, fmt.Errorf("zip: %v", err)
		}
		dr = zr
	case XZ:
		xr, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, err
		}
		dr = xr
	case BZip2:
		dr = bzip2.NewReader(br)
	default:
		dr = br
	}

	sr := bufio.NewReaderSize(dr, sampleSize)
	sample, _ := sr.Peek(sampleSize)
	return &Reader{
		Reader:      sr,
		Compression: c,
		Comma:       delimiter(sample),
		closers:     closers,
	}, nil
}

func detect(head []byte) Compression {
	for _, s := range signatures {
		if bytes.HasPrefix(head, s.sig) {
			return s.c
		}
	}
	return None
}

func delimiter(sample []byte) rune {
	d := detector.New()
	for _, c := range d.DetectDelimiter(bytes.NewReader(sample), '"') {
		switch c {
		case "\t":
			return '\t'
		case ",":
			return ','
		}
	}

	// use the first non-comment line
	for _, ln := range bytes.Split(sample, []byte("\n")) {
		if len(ln) == 0 || ln[0] == '#' {
			continue
		}
		if bytes.Count(ln, []byte(",")) > bytes.Count(ln, []byte("\t")) {
			return ','
		}
		break
	}
	return '\t'
}
