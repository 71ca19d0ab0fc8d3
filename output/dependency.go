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

package output

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Producer writes the content of a Dependency.
type Producer func(w io.Writer) error

// Dependency is a file an output document refers to. Its content is produced
// on demand; the temporary file holding it is only written the first time
// File() is called.
type Dependency struct {
	name     string
	sharedID string
	binary   bool
	produce  Producer

	mu   sync.Mutex
	path string
	err  error
}

// NewDependency returns a Dependency that will be saved with the given file
// name. Give a non-blank sharedID for dependencies that several outputs may
// refer to, such as a common stylesheet.
func NewDependency(name, sharedID string, binary bool, produce Producer) (*Dependency, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, ErrInvalidName
	}

	if produce == nil {
		return nil, ErrNoProducer
	}

	return &Dependency{
		name:     name,
		sharedID: sharedID,
		binary:   binary,
		produce:  produce,
	}, nil
}

// Name returns the file name of the dependency.
func (d *Dependency) Name() string { return d.name }

// SharedID returns the shared ID, which is blank for unshared dependencies.
func (d *Dependency) SharedID() string { return d.sharedID }

// IsShared returns true if the dependency has a shared ID.
func (d *Dependency) IsShared() bool { return d.sharedID != "" }

// IsBinary returns true if the content is not text.
func (d *Dependency) IsBinary() bool { return d.binary }

// File returns the path to a temporary file in tempDir holding the content,
// writing it if this is the first call. Later calls return the same path (or
// the same error) without producing the content again.
func (d *Dependency) File(tempDir string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.path != "" || d.err != nil {
		return d.path, d.err
	}

	d.path, d.err = d.writeTemp(tempDir)

	return d.path, d.err
}

func (d *Dependency) writeTemp(tempDir string) (string, error) {
	f, err := os.CreateTemp(tempDir, "*-"+d.name)
	if err != nil {
		return "", err
	}

	if err = d.produce(f); err != nil {
		f.Close()
		os.Remove(f.Name())

		return "", err
	}

	if err = f.Close(); err != nil {
		os.Remove(f.Name())

		return "", err
	}

	return f.Name(), nil
}

// Written returns true if File() has successfully written the temporary file.
func (d *Dependency) Written() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.path != ""
}

// Text returns the content of a text dependency. It returns ErrBinary for
// binary dependencies.
func (d *Dependency) Text() (string, error) {
	if d.binary {
		return "", ErrBinary
	}

	var buf bytes.Buffer

	if err := d.produce(&buf); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// writeFile writes the content to path, copying the temporary file if it was
// already written.
func (d *Dependency) writeFile(path string) error {
	d.mu.Lock()
	temp := d.path
	d.mu.Unlock()

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if temp != "" {
		err = copyFile(out, temp)
	} else {
		err = d.produce(out)
	}

	if err != nil {
		out.Close()

		return err
	}

	return out.Close()
}

func copyFile(w io.Writer, path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	_, err = io.Copy(w, in)

	return err
}

// removeTemp deletes the temporary file, if it was written.
func (d *Dependency) removeTemp() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.path == "" {
		return nil
	}

	err := os.Remove(d.path)
	d.path = ""

	return err
}
