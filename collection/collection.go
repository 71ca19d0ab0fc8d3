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

// Package collection provides Collection, a named and ordered set of motif,
// module or sequence names. Collections do not own entities: they are
// resolved against an engine.Registry when needed.
package collection

import (
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/types"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrKindMismatch = Error("collections hold different kinds of entity")
	ErrEmptySource  = Error("nothing to sample from")
	ErrNoTrack      = Error("no region track specified and more than one registered")
	ErrBadMeasure   = Error("track measure not applicable to this kind of entity")
)

// Collection is a named, ordered list of unique entity names of one Kind.
type Collection struct {
	name   string
	kind   types.Kind
	names  []string
	index  map[string]int
	origin string
}

// New returns an empty Collection after validating the name.
func New(name string, kind types.Kind) (*Collection, error) {
	if err := types.ValidateName(name); err != nil {
		return nil, err
	}

	if _, err := types.StringToKind(string(kind)); err != nil {
		return nil, err
	}

	return &Collection{
		name:  name,
		kind:  kind,
		index: make(map[string]int),
	}, nil
}

// Name returns the name of the collection.
func (c *Collection) Name() string { return c.name }

// Rename changes the name of the collection.
func (c *Collection) Rename(name string) error {
	if err := types.ValidateName(name); err != nil {
		return err
	}

	c.name = name

	return nil
}

// Kind returns what kind of entity the collection holds names of.
func (c *Collection) Kind() types.Kind { return c.kind }

// Origin returns the construction string the collection was built from, if
// any.
func (c *Collection) Origin() string { return c.origin }

// SetOrigin records the construction string the collection was built from.
func (c *Collection) SetOrigin(origin string) { c.origin = origin }

// Add appends names not already in the collection.
func (c *Collection) Add(names ...string) {
	for _, name := range names {
		if _, exists := c.index[name]; exists {
			continue
		}

		c.index[name] = len(c.names)
		c.names = append(c.names, name)
	}
}

// Remove deletes the given names from the collection, returning how many
// were present.
func (c *Collection) Remove(names ...string) int {
	remove := make(map[string]bool, len(names))

	for _, name := range names {
		if _, exists := c.index[name]; exists {
			remove[name] = true
		}
	}

	if len(remove) == 0 {
		return 0
	}

	kept := make([]string, 0, len(c.names)-len(remove))

	for _, name := range c.names {
		if !remove[name] {
			kept = append(kept, name)
		}
	}

	c.setNames(kept)

	return len(remove)
}

func (c *Collection) setNames(names []string) {
	c.names = names
	c.index = make(map[string]int, len(names))

	for i, name := range names {
		c.index[name] = i
	}
}

// Contains returns true if the name is in the collection.
func (c *Collection) Contains(name string) bool {
	_, ok := c.index[name]

	return ok
}

// Names returns a copy of the names in the collection, in order.
func (c *Collection) Names() []string {
	return append([]string(nil), c.names...)
}

// Size returns the number of names in the collection.
func (c *Collection) Size() int { return len(c.names) }

// Clear removes all names.
func (c *Collection) Clear() {
	c.setNames(nil)
}

// Clone returns an independent copy of the collection.
func (c *Collection) Clone() *Collection {
	clone := &Collection{
		name:   c.name,
		kind:   c.kind,
		origin: c.origin,
	}

	clone.setNames(c.Names())

	return clone
}

// ImportData replaces the contents of this collection with those of other,
// keeping this collection's name.
func (c *Collection) ImportData(other *Collection) error {
	if other.kind != c.kind {
		return ErrKindMismatch
	}

	c.setNames(other.Names())
	c.origin = other.origin

	return nil
}

// Equal returns true if the other collection holds the same kind of entity and
// the same names in the same order. Names of the collections are not
// compared.
func (c *Collection) Equal(other *Collection) bool {
	if other == nil || c.kind != other.kind || len(c.names) != len(other.names) {
		return false
	}

	for i, name := range c.names {
		if other.names[i] != name {
			return false
		}
	}

	return true
}

// Union returns a new collection with the given name holding the names in c
// followed by those in other that are not in c.
func (c *Collection) Union(name string, other *Collection) (*Collection, error) {
	result, err := c.derive(name, other)
	if err != nil {
		return nil, err
	}

	result.Add(c.names...)
	result.Add(other.names...)

	return result, nil
}

// Intersect returns a new collection with the given name holding the names in
// c that are also in other, in c's order.
func (c *Collection) Intersect(name string, other *Collection) (*Collection, error) {
	result, err := c.derive(name, other)
	if err != nil {
		return nil, err
	}

	for _, n := range c.names {
		if other.Contains(n) {
			result.Add(n)
		}
	}

	return result, nil
}

// Subtract returns a new collection with the given name holding the names in
// c that are not in other.
func (c *Collection) Subtract(name string, other *Collection) (*Collection, error) {
	result, err := c.derive(name, other)
	if err != nil {
		return nil, err
	}

	for _, n := range c.names {
		if !other.Contains(n) {
			result.Add(n)
		}
	}

	return result, nil
}

func (c *Collection) derive(name string, other *Collection) (*Collection, error) {
	if other.kind != c.kind {
		return nil, ErrKindMismatch
	}

	return New(name, c.kind)
}

// Resolve returns the registered entities named in the collection, in order.
// Names with no registered entity are skipped.
func (c *Collection) Resolve(r *engine.Registry) []types.Entity {
	entities := make([]types.Entity, 0, len(c.names))

	for _, name := range c.names {
		if e, ok := r.Entity(c.kind, name); ok {
			entities = append(entities, e)
		}
	}

	return entities
}

// Missing returns the names in the collection that have no registered entity.
func (c *Collection) Missing(r *engine.Registry) []string {
	var missing []string

	for _, name := range c.names {
		if _, ok := r.Entity(c.kind, name); !ok {
			missing = append(missing, name)
		}
	}

	return missing
}
