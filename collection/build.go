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

package collection

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/query"
	"github.com/wtsi-hgi/motiflab-data/types"
	"gonum.org/v1/gonum/stat/sampleuv"
)

const percent = 100

// Build parses the construction string and builds a new collection from the
// data in r. src is used for random samples and may be nil otherwise.
func Build(r *engine.Registry, name string, kind types.Kind, text string, src rand.Source) (*Collection, error) {
	q, err := query.Parse(text)
	if err != nil {
		return nil, err
	}

	c, err := FromQuery(r, name, kind, q, src)
	if err != nil {
		return nil, err
	}

	c.SetOrigin(q.Text)

	return c, nil
}

// FromQuery builds a new collection from an already parsed Query.
func FromQuery(r *engine.Registry, name string, kind types.Kind, q *query.Query,
	src rand.Source) (*Collection, error) {
	switch q.Form {
	case query.FormPredefined:
		return FromPredefined(r, name, kind, q.Name)
	case query.FormRandom:
		return Random(r, name, kind, q.Count, q.Percent, q.From, src)
	case query.FormList:
		return FromList(r, name, kind, q.Entries)
	case query.FormMap:
		if !q.HasCondition {
			return nil, fmt.Errorf("%w: map query for a collection needs a condition", query.ErrBadQuery)
		}

		return FromMap(r, name, kind, q.Name, q.Condition)
	case query.FormProperty:
		if !q.HasCondition {
			return nil, fmt.Errorf("%w: property query for a collection needs a condition", query.ErrBadQuery)
		}

		return FromProperty(r, name, kind, q.Name, q.Condition)
	case query.FormTrack:
		return FromTrack(r, name, kind, q.Name, q.Measure, q.Condition, q.From)
	default:
		return nil, fmt.Errorf("%w: %s can not be used for a collection", query.ErrUnknownForm, q.Form)
	}
}

// FromPredefined returns a copy of a registered collection, such as one of the
// predefined collections loaded from the motif catalogue, under a new name.
func FromPredefined(r *engine.Registry, name string, kind types.Kind, predefined string) (*Collection, error) {
	source, err := r.CollectionOfKind(predefined, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: collection %q: %w", query.ErrMissingSource, predefined, err)
	}

	c, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	c.Add(source.Names()...)

	return c, nil
}

// Random returns a collection holding a random sample of count entities (or
// count percent of them) taken from the named collection, or from all
// registered entities of the kind if from is blank. The sample keeps the order
// of the source.
func Random(r *engine.Registry, name string, kind types.Kind, count float64, isPercent bool,
	from string, src rand.Source) (*Collection, error) {
	c, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	population, err := population(r, kind, from)
	if err != nil {
		return nil, err
	}

	n := sampleSize(len(population), count, isPercent)
	if n == 0 {
		return c, nil
	}

	if len(population) == 0 {
		return nil, ErrEmptySource
	}

	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	idxs := make([]int, n)
	sampleuv.WithoutReplacement(idxs, len(population), src)
	sort.Ints(idxs)

	for _, i := range idxs {
		c.Add(population[i])
	}

	return c, nil
}

func population(r *engine.Registry, kind types.Kind, from string) ([]string, error) {
	if from == "" {
		return r.EntityNames(kind), nil
	}

	source, err := r.CollectionOfKind(from, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: collection %q: %w", query.ErrMissingSource, from, err)
	}

	return source.Names(), nil
}

// sampleSize converts a count or percentage to a number of items, capped at
// the population size.
func sampleSize(size int, count float64, isPercent bool) int {
	if isPercent {
		count = math.Round(float64(size) * count / percent)
	}

	n := int(count)
	if n > size {
		n = size
	}

	if n < 0 {
		n = 0
	}

	return n
}

// FromList returns a collection of the entities given by the entries, each of
// which is expanded with query.Expand.
func FromList(r *engine.Registry, name string, kind types.Kind, entries []string) (*Collection, error) {
	c, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	names, err := query.ExpandAll(r, kind, entries)
	if err != nil {
		return nil, err
	}

	c.Add(names...)

	return c, nil
}

// mapResolver lets conditions compare against the value another numeric map
// has for the entity being tested.
func mapResolver(r *engine.Registry, entity string) query.Resolver {
	return func(ref string) (float64, error) {
		m, ok := r.NumericMap(ref)
		if !ok {
			return 0, fmt.Errorf("%w: numeric map %q", query.ErrMissingSource, ref)
		}

		return m.Value(entity), nil
	}
}

// FromMap returns a collection of the entities whose value in the named numeric
// map satisfies the condition.
func FromMap(r *engine.Registry, name string, kind types.Kind, mapName string,
	cond query.Condition) (*Collection, error) {
	m, ok := r.NumericMap(mapName)
	if !ok {
		return nil, fmt.Errorf("%w: numeric map %q", query.ErrMissingSource, mapName)
	}

	if m.Kind != "" && m.Kind != kind {
		return nil, fmt.Errorf("%w: %q is a %s map", engine.ErrWrongKind, mapName, m.Kind)
	}

	c, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	for _, entity := range r.EntityNames(kind) {
		match, err := cond.MatchNumber(m.Value(entity), mapResolver(r, entity))
		if err != nil {
			return nil, err
		}

		if match {
			c.Add(entity)
		}
	}

	return c, nil
}

// FromProperty returns a collection of the entities whose property value
// satisfies the condition. Entities lacking the property are skipped, but it
// is an error if none of them have it.
func FromProperty(r *engine.Registry, name string, kind types.Kind, property string,
	cond query.Condition) (*Collection, error) {
	c, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	entities := r.Entities(kind)
	known := false

	for _, e := range entities {
		v, err := e.Property(property)
		if errors.Is(err, types.ErrUnknownProperty) {
			continue
		} else if err != nil {
			return nil, err
		}

		known = true

		match, err := cond.MatchValue(v, mapResolver(r, e.EntityName()))
		if err != nil {
			return nil, err
		}

		if match {
			c.Add(e.EntityName())
		}
	}

	if !known && len(entities) > 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownProperty, property)
	}

	return c, nil
}
