/*******************************************************************************
 * Copyright (c) 2025 Genome Research Ltd.
 *
 * Authors:
 *	- Sendu Bala <sb10@sanger.ac.uk>
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// Package output provides Data, the text document an analysis produces,
// together with the files it depends on (images, tables and the like), which
// are only written to disk when first needed.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wtsi-hgi/motiflab-data/formats"
	"github.com/wtsi-hgi/motiflab-data/types"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrBinary      = Error("dependency is binary")
	ErrNoProducer  = Error("dependency has no content producer")
	ErrInvalidName = Error("invalid dependency file name")

	DefaultFormat = "txt"

	filePerms = 0644
	dirPerms  = 0755
)

// Data is a named output document in some format (eg. "txt" or "html"), and
// the dependencies it refers to.
type Data struct {
	name         string
	format       string
	document     strings.Builder
	dependencies []*Dependency
}

// New returns an empty Data. A blank format is taken as DefaultFormat.
func New(name, format string) (*Data, error) {
	if err := types.ValidateName(name); err != nil {
		return nil, err
	}

	if format == "" {
		format = DefaultFormat
	}

	return &Data{name: name, format: format}, nil
}

// Name returns the name given to New.
func (d *Data) Name() string { return d.name }

// Format returns the document format.
func (d *Data) Format() string { return d.format }

// Append adds text to the end of the document.
func (d *Data) Append(text string) {
	d.document.WriteString(text)
}

// Appendf adds formatted text to the end of the document.
func (d *Data) Appendf(format string, args ...any) {
	fmt.Fprintf(&d.document, format, args...)
}

// Contents returns the document text.
func (d *Data) Contents() string {
	return d.document.String()
}

// Len returns the length of the document text in bytes.
func (d *Data) Len() int {
	return d.document.Len()
}

// Clear empties the document and forgets all dependencies.
func (d *Data) Clear() {
	d.document.Reset()
	d.dependencies = nil
}

// AddDependency records that the document refers to the given dependency. If
// it was already added, or it is shared and a dependency with the same shared
// ID was already added, that earlier one is kept and returned instead.
func (d *Data) AddDependency(dep *Dependency) *Dependency {
	for _, existing := range d.dependencies {
		if existing == dep || (dep.sharedID != "" && existing.sharedID == dep.sharedID) {
			return existing
		}
	}

	d.dependencies = append(d.dependencies, dep)

	return dep
}

// Dependencies returns the dependencies in the order they were added.
func (d *Data) Dependencies() []*Dependency {
	return append([]*Dependency(nil), d.dependencies...)
}

// Equal returns true if other has the same name, format and document text,
// and refers to dependencies with the same file names and shared IDs.
func (d *Data) Equal(other *Data) bool {
	if other == nil || d.name != other.name || d.format != other.format ||
		d.Contents() != other.Contents() || len(d.dependencies) != len(other.dependencies) {
		return false
	}

	for i, dep := range d.dependencies {
		o := other.dependencies[i]
		if dep.name != o.name || dep.sharedID != o.sharedID || dep.binary != o.binary {
			return false
		}
	}

	return true
}

// WriteTo writes the document text to w.
func (d *Data) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.Contents())

	return int64(n), err
}

// Save writes the document to <dir>/<name>.<format>, and every dependency to
// a file in dir named after the dependency. dir is created if necessary. It
// returns the path of the document file.
func (d *Data) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, dirPerms); err != nil {
		return "", err
	}

	path := filepath.Join(dir, d.name+"."+d.format)

	if err := os.WriteFile(path, []byte(d.Contents()), filePerms); err != nil {
		return "", err
	}

	for _, dep := range d.dependencies {
		if err := dep.writeFile(filepath.Join(dir, dep.name)); err != nil {
			return "", fmt.Errorf("dependency %s: %w", dep.name, err)
		}
	}

	return path, nil
}

// AppendRegions appends the regions of the track to the document in GFF
// format, with sequences in the given order (or sorted by name if none are
// given).
func (d *Data) AppendRegions(track *types.RegionTrack, sequences ...string) error {
	return formats.WriteTrack(&d.document, track, sequences...)
}
