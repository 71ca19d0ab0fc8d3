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

package partition

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/query"
	"github.com/wtsi-hgi/motiflab-data/types"
)

const (
	optCollection = "collection"
	optLevel      = "level"
	optBins       = "bins"
	optQuantiles  = "quantiles"
	optBreaks     = "breaks"
)

// Build parses the construction string and builds a new partition from the
// data in r. src is used for random partitions and may be nil otherwise.
func Build(r *engine.Registry, name string, kind types.Kind, text string, src rand.Source) (*Partition, error) {
	q, err := query.Parse(text)
	if err != nil {
		return nil, err
	}

	p, err := FromQuery(r, name, kind, q, src)
	if err != nil {
		return nil, err
	}

	p.SetOrigin(q.Text)

	return p, nil
}

// FromQuery builds a new partition from an already parsed Query.
func FromQuery(r *engine.Registry, name string, kind types.Kind, q *query.Query, //nolint:gocyclo
	src rand.Source) (*Partition, error) {
	candidates, err := candidateNames(r, kind, q.Options[optCollection])
	if err != nil {
		return nil, err
	}

	switch q.Form {
	case query.FormPredefined:
		return FromPredefined(r, name, kind, q.Name)
	case query.FormList:
		return FromList(r, name, kind, q.Entries)
	case query.FormMap:
		if q.HasCondition {
			return nil, fmt.Errorf("%w: use bins=, quantiles= or breaks= instead of a condition", ErrNoBinning)
		}

		binning, err := binningFromOptions(q.Options)
		if err != nil {
			return nil, err
		}

		return FromMap(r, name, kind, q.Name, candidates, binning)
	case query.FormProperty:
		if q.HasCondition {
			return nil, fmt.Errorf("%w: property partitions group by value and take no condition", query.ErrBadQuery)
		}

		level, err := intOption(q.Options, optLevel)
		if err != nil {
			return nil, err
		}

		return FromProperty(r, name, kind, q.Name, candidates, level)
	case query.FormAlternatives:
		if kind != types.KindMotif {
			return nil, ErrNotMotifs
		}

		if q.Name != "" {
			if candidates, err = candidateNames(r, kind, q.Name); err != nil {
				return nil, err
			}
		}

		return FromAlternatives(r, name, candidates)
	case query.FormRandom:
		if q.From != "" {
			if candidates, err = candidateNames(r, kind, q.From); err != nil {
				return nil, err
			}
		}

		return Random(name, kind, candidates, int(q.Count), src)
	default:
		return nil, fmt.Errorf("%w: %s can not be used for a partition", query.ErrUnknownForm, q.Form)
	}
}

// candidateNames returns the members of the named collection, or all entities
// of the kind if the name is blank.
func candidateNames(r *engine.Registry, kind types.Kind, collectionName string) ([]string, error) {
	if collectionName == "" {
		return r.EntityNames(kind), nil
	}

	c, err := r.CollectionOfKind(collectionName, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: collection %q: %w", query.ErrMissingSource, collectionName, err)
	}

	return c.Names(), nil
}

func intOption(opts map[string]string, key string) (int, error) {
	v, ok := opts[key]
	if !ok {
		return 0, nil
	}

	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: %s=%s", ErrBadOption, key, v)
	}

	return i, nil
}

// FromPredefined returns a copy of a registered partition under a new name.
func FromPredefined(r *engine.Registry, name string, kind types.Kind, predefined string) (*Partition, error) {
	source, err := r.PartitionOfKind(predefined, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: partition %q: %w", query.ErrMissingSource, predefined, err)
	}

	p, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	for _, cluster := range source.Clusters() {
		for _, entity := range source.Members(cluster) {
			if err := p.Add(entity, cluster); err != nil {
				return nil, err
			}
		}
	}

	return p, nil
}

// FromList returns a partition from entries of the form "entry=cluster", where
// each entry is expanded with query.Expand so that a whole collection or
// wildcard pattern can be assigned to a cluster at once. Later assignments
// override earlier ones.
func FromList(r *engine.Registry, name string, kind types.Kind, entries []string) (*Partition, error) {
	p, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		lhs, cluster, ok := cutCluster(entry)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingCluster, entry)
		}

		names, err := query.Expand(r, kind, lhs)
		if err != nil {
			return nil, err
		}

		for _, n := range names {
			if err := p.Add(n, cluster); err != nil {
				return nil, fmt.Errorf("cluster %q: %w", cluster, err)
			}
		}
	}

	return p, nil
}

// cutCluster splits "entry=cluster" on the last "=", so that entries can not
// contain "=" but "Partition->Cluster" entries remain usable.
func cutCluster(entry string) (string, string, bool) {
	i := strings.LastIndex(entry, "=")
	if i <= 0 || i == len(entry)-1 {
		return "", "", false
	}

	return strings.TrimSpace(entry[:i]), strings.TrimSpace(entry[i+1:]), true
}

// FromProperty returns a partition of the candidate entities clustered by the
// value of the given property. List values use their first element. If level
// is greater than 0, dot-separated values (such as motif classifications) are
// truncated to that many levels. Characters not allowed in cluster names are
// replaced with underscores. Entities lacking the property, or with an empty
// value, are left out; it is an error if no candidate has the property.
func FromProperty(r *engine.Registry, name string, kind types.Kind, property string,
	candidates []string, level int) (*Partition, error) {
	p, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	known := false

	for _, entity := range candidates {
		e, ok := r.Entity(kind, entity)
		if !ok {
			continue
		}

		v, err := e.Property(property)
		if errors.Is(err, types.ErrUnknownProperty) {
			continue
		} else if err != nil {
			return nil, err
		}

		known = true

		label := clusterLabel(v, level)
		if label == "" {
			continue
		}

		if err := p.Add(entity, label); err != nil {
			return nil, err
		}
	}

	if !known && len(candidates) > 0 {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownProperty, property)
	}

	return p, nil
}

func clusterLabel(v any, level int) string {
	var s string

	switch val := v.(type) {
	case nil:
		return ""
	case string:
		s = val
	case []string:
		if len(val) == 0 {
			return ""
		}

		s = val[0]
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		s = strconv.Itoa(val)
	case bool:
		s = strconv.FormatBool(val)
	default:
		s = fmt.Sprint(val)
	}

	s = strings.TrimSpace(s)

	if level > 0 {
		if parts := strings.Split(s, "."); len(parts) > level {
			s = strings.Join(parts[:level], ".")
		}
	}

	return sanitiseClusterName(s)
}

func sanitiseClusterName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '_', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}

// Random returns a partition assigning each candidate to one of n clusters,
// named Cluster1 to Cluster<n>, chosen uniformly at random.
func Random(name string, kind types.Kind, candidates []string, n int, src rand.Source) (*Partition, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: need at least one cluster", ErrBadOption)
	}

	p, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}

	rng := rand.New(src)

	for _, entity := range candidates {
		if err := p.Add(entity, clusterName(rng.IntN(n)+1)); err != nil {
			return nil, err
		}
	}

	return p, nil
}
