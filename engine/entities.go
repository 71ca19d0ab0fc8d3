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

package engine

import (
	"sort"

	"github.com/wtsi-hgi/motiflab-data/types"
)

// Entity returns the named motif, module or sequence, depending on kind.
func (r *Registry) Entity(kind types.Kind, name string) (types.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		e  types.Entity
		ok bool
	)

	switch kind {
	case types.KindMotif:
		e, ok = lookup(r.motifs, name)
	case types.KindModule:
		e, ok = lookup(r.modules, name)
	case types.KindSequence:
		e, ok = lookup(r.sequences, name)
	}

	return e, ok
}

// lookup avoids returning a non-nil Entity holding a nil pointer.
func lookup[E types.Entity](m map[string]E, name string) (types.Entity, bool) {
	e, ok := m[name]
	if !ok {
		return nil, false
	}

	return e, true
}

// EntityNames returns the names of all entities of the given kind. Motifs and
// modules are sorted by name; sequences are in the order they were added.
func (r *Registry) EntityNames(kind types.Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string

	switch kind {
	case types.KindMotif:
		names = sortedKeys(r.motifs)
	case types.KindModule:
		names = sortedKeys(r.modules)
	case types.KindSequence:
		names = append(names, r.seqOrder...)
	}

	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// Entities returns all entities of the given kind, in EntityNames() order.
func (r *Registry) Entities(kind types.Kind) []types.Entity {
	names := r.EntityNames(kind)
	entities := make([]types.Entity, 0, len(names))

	for _, name := range names {
		if e, ok := r.Entity(kind, name); ok {
			entities = append(entities, e)
		}
	}

	return entities
}

// CollectionOfKind returns the named collection, checking it holds entities of
// the given kind.
func (r *Registry) CollectionOfKind(name string, kind types.Kind) (NamedList, error) {
	c, ok := r.Collection(name)
	if !ok {
		return nil, ErrNotFound
	}

	if c.Kind() != kind {
		return nil, ErrWrongKind
	}

	return c, nil
}

// PartitionOfKind returns the named partition, checking it holds entities of
// the given kind.
func (r *Registry) PartitionOfKind(name string, kind types.Kind) (Clustering, error) {
	p, ok := r.Partition(name)
	if !ok {
		return nil, ErrNotFound
	}

	if p.Kind() != kind {
		return nil, ErrWrongKind
	}

	return p, nil
}
