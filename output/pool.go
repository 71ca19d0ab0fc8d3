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
	"errors"
	"sort"
	"sync"
)

// Pool holds shared dependencies by their shared ID, so that every output
// referring to, say, the same stylesheet gets the same Dependency and hence
// the same temporary file.
type Pool struct {
	mu   sync.Mutex
	deps map[string]*Dependency
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{deps: make(map[string]*Dependency)}
}

// Shared returns the dependency with the given shared ID, creating it with
// the other arguments if the pool doesn't have one yet.
func (p *Pool) Shared(sharedID, name string, binary bool, produce Producer) (*Dependency, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if dep, ok := p.deps[sharedID]; ok {
		return dep, nil
	}

	if sharedID == "" {
		return nil, ErrInvalidName
	}

	dep, err := NewDependency(name, sharedID, binary, produce)
	if err != nil {
		return nil, err
	}

	p.deps[sharedID] = dep

	return dep, nil
}

// Get returns the dependency with the given shared ID, if any.
func (p *Pool) Get(sharedID string) (*Dependency, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dep, ok := p.deps[sharedID]

	return dep, ok
}

// IDs returns the sorted shared IDs in the pool.
func (p *Pool) IDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]string, 0, len(p.deps))
	for id := range p.deps {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

// Close deletes any temporary files written by the pool's dependencies and
// empties the pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error

	for id, dep := range p.deps {
		if err := dep.removeTemp(); err != nil {
			errs = append(errs, err)
		}

		delete(p.deps, id)
	}

	return errors.Join(errs...)
}
