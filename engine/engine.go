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

// Package engine holds the registry that owns every named data item: the
// motifs, modules and sequences themselves, plus the numeric maps, region
// tracks, collections, partitions and outputs that refer to them by name.
//
// All data items share a single namespace.
package engine

import (
	"sort"
	"sync"

	"github.com/inconshreveable/log15"
	"github.com/wtsi-hgi/motiflab-data/types"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNameInUse = Error("name already in use by a different type of data")
	ErrNotFound  = Error("data item not found")
	ErrWrongKind = Error("data item is of the wrong kind")
)

// ItemType is the type of a registered data item.
type ItemType string

const (
	TypeMotif      ItemType = "Motif"
	TypeModule     ItemType = "Module"
	TypeSequence   ItemType = "Sequence"
	TypeNumericMap ItemType = "Numeric Map"
	TypeTrack      ItemType = "Region Track"
	TypeCollection ItemType = "Collection"
	TypePartition  ItemType = "Partition"
	TypeOutput     ItemType = "Output"
)

// NamedList is a named, ordered list of entity names of one kind; see the
// collection package.
type NamedList interface {
	Name() string
	Kind() types.Kind
	Names() []string
}

// Clustering is a named assignment of entity names to clusters; see the
// partition package.
type Clustering interface {
	Name() string
	Kind() types.Kind
	Cluster(entity string) (string, bool)
	Clusters() []string
	Members(cluster string) []string
}

// Output is a named output document; see the output package.
type Output interface {
	Name() string
}

// Registry stores data items by name. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	itemTypes   map[string]ItemType
	motifs      map[string]*types.Motif
	modules     map[string]*types.ModuleCRM
	sequences   map[string]*types.Sequence
	seqOrder    []string
	maps        map[string]*types.NumericMap
	tracks      map[string]*types.RegionTrack
	collections map[string]NamedList
	partitions  map[string]Clustering
	outputs     map[string]Output
	logger      log15.Logger
}

// New returns an empty Registry. Supply a logger to have registrations logged;
// by default nothing is logged.
func New(logger ...log15.Logger) *Registry {
	var l log15.Logger

	if len(logger) == 1 && logger[0] != nil {
		l = logger[0]
	} else {
		l = log15.New()
		l.SetHandler(log15.DiscardHandler())
	}

	return &Registry{
		itemTypes:   make(map[string]ItemType),
		motifs:      make(map[string]*types.Motif),
		modules:     make(map[string]*types.ModuleCRM),
		sequences:   make(map[string]*types.Sequence),
		maps:        make(map[string]*types.NumericMap),
		tracks:      make(map[string]*types.RegionTrack),
		collections: make(map[string]NamedList),
		partitions:  make(map[string]Clustering),
		outputs:     make(map[string]Output),
		logger:      l,
	}
}

// claim must be called with the write lock held. It checks the name is valid
// and not in use by a different type of item, and records it as being of the
// given type. It returns true if an item of the same type was replaced.
func (r *Registry) claim(name string, t ItemType) (bool, error) {
	if err := types.ValidateName(name); err != nil {
		return false, err
	}

	existing, ok := r.itemTypes[name]
	if ok && existing != t {
		return false, ErrNameInUse
	}

	r.itemTypes[name] = t

	if ok {
		r.logger.Debug("replaced data item", "name", name, "type", t)
	} else {
		r.logger.Debug("registered data item", "name", name, "type", t)
	}

	return ok, nil
}

// AddMotif registers a motif, replacing any motif with the same name.
func (r *Registry) AddMotif(m *types.Motif) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.claim(m.Name, TypeMotif); err != nil {
		return err
	}

	r.motifs[m.Name] = m

	return nil
}

// AddModule registers a module, replacing any module with the same name.
func (r *Registry) AddModule(m *types.ModuleCRM) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.claim(m.Name, TypeModule); err != nil {
		return err
	}

	r.modules[m.Name] = m

	return nil
}

// AddSequence registers a sequence, replacing any sequence with the same name.
// Sequences remember the order they were first added in.
func (r *Registry) AddSequence(s *types.Sequence) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced, err := r.claim(s.Name, TypeSequence)
	if err != nil {
		return err
	}

	if !replaced {
		r.seqOrder = append(r.seqOrder, s.Name)
	}

	r.sequences[s.Name] = s

	return nil
}

// AddNumericMap registers a numeric map.
func (r *Registry) AddNumericMap(m *types.NumericMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.claim(m.Name, TypeNumericMap); err != nil {
		return err
	}

	r.maps[m.Name] = m

	return nil
}

// AddTrack registers a region track.
func (r *Registry) AddTrack(t *types.RegionTrack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.claim(t.Name, TypeTrack); err != nil {
		return err
	}

	r.tracks[t.Name] = t

	return nil
}

// AddCollection registers a collection.
func (r *Registry) AddCollection(c NamedList) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.claim(c.Name(), TypeCollection); err != nil {
		return err
	}

	r.collections[c.Name()] = c

	return nil
}

// AddPartition registers a partition.
func (r *Registry) AddPartition(p Clustering) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.claim(p.Name(), TypePartition); err != nil {
		return err
	}

	r.partitions[p.Name()] = p

	return nil
}

// AddOutput registers an output document.
func (r *Registry) AddOutput(o Output) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.claim(o.Name(), TypeOutput); err != nil {
		return err
	}

	r.outputs[o.Name()] = o

	return nil
}

// Remove deletes the named data item of any type. It returns ErrNotFound if
// there is no such item.
func (r *Registry) Remove(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.itemTypes[name]
	if !ok {
		return ErrNotFound
	}

	delete(r.itemTypes, name)

	switch t {
	case TypeMotif:
		delete(r.motifs, name)
	case TypeModule:
		delete(r.modules, name)
	case TypeSequence:
		delete(r.sequences, name)
		r.seqOrder = removeName(r.seqOrder, name)
	case TypeNumericMap:
		delete(r.maps, name)
	case TypeTrack:
		delete(r.tracks, name)
	case TypeCollection:
		delete(r.collections, name)
	case TypePartition:
		delete(r.partitions, name)
	case TypeOutput:
		delete(r.outputs, name)
	}

	r.logger.Debug("removed data item", "name", name, "type", t)

	return nil
}

func removeName(names []string, name string) []string {
	for i, n := range names {
		if n == name {
			return append(names[:i], names[i+1:]...)
		}
	}

	return names
}

// Has returns true if a data item of any type has the given name.
func (r *Registry) Has(name string) bool {
	_, ok := r.TypeOf(name)

	return ok
}

// TypeOf returns the type of the named data item.
func (r *Registry) TypeOf(name string) (ItemType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.itemTypes[name]

	return t, ok
}

// Names returns the sorted names of all data items of the given types, or of
// all data items if no types are given.
func (r *Registry) Names(itemTypes ...ItemType) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[ItemType]bool, len(itemTypes))
	for _, t := range itemTypes {
		want[t] = true
	}

	names := make([]string, 0, len(r.itemTypes))

	for name, t := range r.itemTypes {
		if len(want) == 0 || want[t] {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// Motif returns the named motif.
func (r *Registry) Motif(name string) (*types.Motif, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.motifs[name]

	return m, ok
}

// Module returns the named module.
func (r *Registry) Module(name string) (*types.ModuleCRM, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]

	return m, ok
}

// Sequence returns the named sequence.
func (r *Registry) Sequence(name string) (*types.Sequence, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sequences[name]

	return s, ok
}

// NumericMap returns the named numeric map.
func (r *Registry) NumericMap(name string) (*types.NumericMap, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.maps[name]

	return m, ok
}

// Track returns the named region track.
func (r *Registry) Track(name string) (*types.RegionTrack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tracks[name]

	return t, ok
}

// Collection returns the named collection.
func (r *Registry) Collection(name string) (NamedList, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.collections[name]

	return c, ok
}

// Partition returns the named partition.
func (r *Registry) Partition(name string) (Clustering, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.partitions[name]

	return p, ok
}

// Output returns the named output.
func (r *Registry) Output(name string) (Output, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.outputs[name]

	return o, ok
}
