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

// Package partition provides Partition, a named assignment of motif, module or
// sequence names to disjoint clusters.
package partition

import (
	"sort"
	"strconv"
	"unicode"

	"github.com/wtsi-hgi/motiflab-data/collection"
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/types"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrKindMismatch   = Error("partitions hold different kinds of entity")
	ErrClusterExists  = Error("cluster already exists")
	ErrNoSuchCluster  = Error("no such cluster")
	ErrMissingCluster = Error("list entry has no cluster assignment")
	ErrNoBinning      = Error("map partition needs one of bins, quantiles or breaks")
	ErrBadOption      = Error("invalid option value")
	ErrNotMotifs      = Error("only motifs can be partitioned by known alternatives")

	clusterPrefix = "Cluster"
	clusterJoin   = "_"
)

// Partition assigns entity names of one Kind to clusters. Each entity is in at
// most one cluster, and a cluster exists only while it has members.
type Partition struct {
	name     string
	kind     types.Kind
	clusters map[string]string
	order    []string
	origin   string
}

// New returns an empty Partition after validating the name.
func New(name string, kind types.Kind) (*Partition, error) {
	if err := types.ValidateName(name); err != nil {
		return nil, err
	}

	if _, err := types.StringToKind(string(kind)); err != nil {
		return nil, err
	}

	return &Partition{
		name:     name,
		kind:     kind,
		clusters: make(map[string]string),
	}, nil
}

// Name returns the name of the partition.
func (p *Partition) Name() string { return p.name }

// Rename changes the name of the partition.
func (p *Partition) Rename(name string) error {
	if err := types.ValidateName(name); err != nil {
		return err
	}

	p.name = name

	return nil
}

// Kind returns what kind of entity the partition holds names of.
func (p *Partition) Kind() types.Kind { return p.kind }

// Origin returns the construction string the partition was built from, if any.
func (p *Partition) Origin() string { return p.origin }

// SetOrigin records the construction string the partition was built from.
func (p *Partition) SetOrigin(origin string) { p.origin = origin }

// Add assigns the entity to the cluster, moving it if it was already in a
// different cluster. The cluster name must be a valid name.
func (p *Partition) Add(entity, cluster string) error {
	if err := types.ValidateName(cluster); err != nil {
		return err
	}

	if _, exists := p.clusters[entity]; !exists {
		p.order = append(p.order, entity)
	}

	p.clusters[entity] = cluster

	return nil
}

// Remove takes the entity out of the partition, returning true if it was
// present.
func (p *Partition) Remove(entity string) bool {
	if _, exists := p.clusters[entity]; !exists {
		return false
	}

	delete(p.clusters, entity)

	for i, name := range p.order {
		if name == entity {
			p.order = append(p.order[:i], p.order[i+1:]...)

			break
		}
	}

	return true
}

// Cluster returns the cluster the entity is assigned to.
func (p *Partition) Cluster(entity string) (string, bool) {
	c, ok := p.clusters[entity]

	return c, ok
}

// Contains returns true if the entity is assigned to a cluster.
func (p *Partition) Contains(entity string) bool {
	_, ok := p.clusters[entity]

	return ok
}

// Entities returns the names of all assigned entities in the order they were
// first added.
func (p *Partition) Entities() []string {
	return append([]string(nil), p.order...)
}

// Size returns the number of assigned entities.
func (p *Partition) Size() int { return len(p.clusters) }

// Clusters returns the names of the clusters in natural order, so that
// "Cluster2" sorts before "Cluster10".
func (p *Partition) Clusters() []string {
	seen := make(map[string]bool)

	var names []string

	for _, c := range p.clusters {
		if !seen[c] {
			seen[c] = true
			names = append(names, c)
		}
	}

	sort.Slice(names, func(i, j int) bool { return naturalLess(names[i], names[j]) })

	return names
}

// NumberOfClusters returns how many clusters have members.
func (p *Partition) NumberOfClusters() int {
	return len(p.Clusters())
}

// HasCluster returns true if the cluster has at least one member.
func (p *Partition) HasCluster(cluster string) bool {
	for _, c := range p.clusters {
		if c == cluster {
			return true
		}
	}

	return false
}

// Members returns the entities in the cluster, in the order they were added.
func (p *Partition) Members(cluster string) []string {
	var members []string

	for _, entity := range p.order {
		if p.clusters[entity] == cluster {
			members = append(members, entity)
		}
	}

	return members
}

// ClusterSizes returns the number of members of each cluster.
func (p *Partition) ClusterSizes() map[string]int {
	sizes := make(map[string]int)
	for _, c := range p.clusters {
		sizes[c]++
	}

	return sizes
}

// RenameCluster moves all members of cluster from to cluster to. It is an error
// if to already has members, or from has none.
func (p *Partition) RenameCluster(from, to string) error {
	if err := types.ValidateName(to); err != nil {
		return err
	}

	if !p.HasCluster(from) {
		return ErrNoSuchCluster
	}

	if from != to && p.HasCluster(to) {
		return ErrClusterExists
	}

	for entity, c := range p.clusters {
		if c == from {
			p.clusters[entity] = to
		}
	}

	return nil
}

// RemoveCluster takes all members of the cluster out of the partition,
// returning how many there were.
func (p *Partition) RemoveCluster(cluster string) int {
	members := p.Members(cluster)
	for _, entity := range members {
		p.Remove(entity)
	}

	return len(members)
}

// Entries returns a copy of the entity to cluster assignments.
func (p *Partition) Entries() map[string]string {
	entries := make(map[string]string, len(p.clusters))
	for entity, c := range p.clusters {
		entries[entity] = c
	}

	return entries
}

// Clone returns an independent copy of the partition.
func (p *Partition) Clone() *Partition {
	return &Partition{
		name:     p.name,
		kind:     p.kind,
		clusters: p.Entries(),
		order:    p.Entities(),
		origin:   p.origin,
	}
}

// ImportData replaces the contents of this partition with those of other,
// keeping this partition's name.
func (p *Partition) ImportData(other *Partition) error {
	if other.kind != p.kind {
		return ErrKindMismatch
	}

	p.clusters = other.Entries()
	p.order = other.Entities()
	p.origin = other.origin

	return nil
}

// Equal returns true if the other partition holds the same kind of entity with
// identical cluster assignments. Names and insertion order are not compared.
func (p *Partition) Equal(other *Partition) bool {
	if other == nil || p.kind != other.kind || len(p.clusters) != len(other.clusters) {
		return false
	}

	for entity, c := range p.clusters {
		if oc, ok := other.clusters[entity]; !ok || oc != c {
			return false
		}
	}

	return true
}

// ClusterCollection returns a new collection of the members of the cluster,
// named "<partition>_<cluster>".
func (p *Partition) ClusterCollection(cluster string) (*collection.Collection, error) {
	members := p.Members(cluster)
	if len(members) == 0 {
		return nil, ErrNoSuchCluster
	}

	c, err := collection.New(p.name+clusterJoin+cluster, p.kind)
	if err != nil {
		return nil, err
	}

	c.Add(members...)
	c.SetOrigin("From list: " + p.name + "->" + cluster)

	return c, nil
}

// Resolve returns the registered entities in the cluster, skipping names with
// no registered entity.
func (p *Partition) Resolve(r *engine.Registry, cluster string) []types.Entity {
	members := p.Members(cluster)
	entities := make([]types.Entity, 0, len(members))

	for _, name := range members {
		if e, ok := r.Entity(p.kind, name); ok {
			entities = append(entities, e)
		}
	}

	return entities
}

// Missing returns the assigned names that have no registered entity.
func (p *Partition) Missing(r *engine.Registry) []string {
	var missing []string

	for _, name := range p.order {
		if _, ok := r.Entity(p.kind, name); !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

// naturalLess compares strings so that runs of digits compare numerically.
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		da, restA := leadingDigits(a)
		db, restB := leadingDigits(b)

		if da != "" && db != "" {
			na, _ := strconv.Atoi(da) //nolint:errcheck
			nb, _ := strconv.Atoi(db) //nolint:errcheck

			if na != nb {
				return na < nb
			}

			a, b = restA, restB

			continue
		}

		if a[0] != b[0] {
			return a[0] < b[0]
		}

		a, b = a[1:], b[1:]
	}

	return len(a) < len(b)
}

func leadingDigits(s string) (string, string) {
	i := 0
	for i < len(s) && unicode.IsDigit(rune(s[i])) {
		i++
	}

	return s[:i], s[i:]
}

func clusterName(i int) string {
	return clusterPrefix + strconv.Itoa(i)
}
