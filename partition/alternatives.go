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
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/types"
)

// disjointSet is a union-find structure over indexes, with path halving and
// union by size.
type disjointSet struct {
	parent []int
	size   []int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{
		parent: make([]int, n),
		size:   make([]int, n),
	}

	for i := range ds.parent {
		ds.parent[i] = i
		ds.size[i] = 1
	}

	return ds
}

func (ds *disjointSet) find(i int) int {
	for ds.parent[i] != i {
		ds.parent[i] = ds.parent[ds.parent[i]]
		i = ds.parent[i]
	}

	return i
}

func (ds *disjointSet) union(a, b int) {
	ra, rb := ds.find(a), ds.find(b)
	if ra == rb {
		return
	}

	if ds.size[ra] < ds.size[rb] {
		ra, rb = rb, ra
	}

	ds.parent[rb] = ra
	ds.size[ra] += ds.size[rb]
}

// FromAlternatives returns a partition of the given motifs into equivalence
// classes of known alternatives: two motifs end up in the same cluster if
// either lists the other as an alternative, directly or through a chain of
// other given motifs. Alternatives that are not amongst the given motifs are
// ignored. Motifs with no alternatives get a cluster of their own. Clusters
// are named Cluster1, Cluster2 etc. in order of their first member in motifs.
// Names with no registered motif are skipped.
func FromAlternatives(r *engine.Registry, name string, motifs []string) (*Partition, error) {
	p, err := New(name, types.KindMotif)
	if err != nil {
		return nil, err
	}

	registered := make([]*types.Motif, 0, len(motifs))
	index := make(map[string]int, len(motifs))

	for _, n := range motifs {
		m, ok := r.Motif(n)
		if !ok {
			continue
		}

		if _, dup := index[n]; dup {
			continue
		}

		index[n] = len(registered)
		registered = append(registered, m)
	}

	ds := newDisjointSet(len(registered))

	for i, m := range registered {
		for _, alt := range m.Alternatives {
			if j, ok := index[alt]; ok {
				ds.union(i, j)
			}
		}
	}

	clusterOfRoot := make(map[int]string)

	for i, m := range registered {
		root := ds.find(i)

		c, ok := clusterOfRoot[root]
		if !ok {
			c = clusterName(len(clusterOfRoot) + 1)
			clusterOfRoot[root] = c
		}

		if err := p.Add(m.Name, c); err != nil {
			return nil, err
		}
	}

	return p, nil
}
