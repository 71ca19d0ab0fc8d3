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

// Package modules builds cis-regulatory modules from the pairwise interactions
// recorded on motifs: every maximal set of mutually interacting motifs becomes
// a candidate module.
package modules

import (
	"sort"
	"strconv"
	"strings"

	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/types"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrBadSize    = Error("minimum module size must be at least 2 and not above the maximum")
	ErrNoMotifs   = Error("no registered motifs given")
	DefaultPrefix = "MOD"

	defaultMinSize = 2
)

// Options control FromInteractions.
type Options struct {
	// MinSize is the smallest number of motifs a module may have; defaults to
	// 2.
	MinSize int

	// MaxSize is the largest number of motifs a module may have; 0 means no
	// limit. Larger cliques are not split, only discarded.
	MaxSize int

	// Prefix is prepended to the module number to name modules; defaults to
	// DefaultPrefix.
	Prefix string

	// MaxLength is set as the MaxLength of each module.
	MaxLength int

	// IncludeAlternatives adds each motif's known alternatives (that are
	// registered) as alternatives for its constituent.
	IncludeAlternatives bool
}

func (o *Options) setDefaults() error {
	if o.MinSize == 0 {
		o.MinSize = defaultMinSize
	}

	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}

	if o.MinSize < defaultMinSize || (o.MaxSize > 0 && o.MaxSize < o.MinSize) {
		return ErrBadSize
	}

	return types.ValidateName(o.Prefix)
}

// FromInteractions finds the maximal cliques of the interaction graph of the
// given motifs (two motifs are connected if either lists the other amongst its
// Interactions) using the Bron–Kerbosch algorithm, and returns a module for
// each clique of an acceptable size. Modules are ordered by decreasing size,
// then by their sorted motif names, and named <Prefix>1, <Prefix>2, etc.
// Constituents are named after their motif and the modules are unordered.
func FromInteractions(r *engine.Registry, motifs []string, opts Options) ([]*types.ModuleCRM, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}

	g, nodes := interactionGraph(r, motifs)
	if len(nodes) == 0 {
		return nil, ErrNoMotifs
	}

	cliques := acceptableCliques(topo.BronKerbosch(g), nodes, opts)

	modules := make([]*types.ModuleCRM, len(cliques))
	for i, clique := range cliques {
		modules[i] = newModule(r, opts.Prefix+strconv.Itoa(i+1), clique, opts)
	}

	return modules, nil
}

// interactionGraph returns the undirected interaction graph and the motif
// names indexed by node ID.
func interactionGraph(r *engine.Registry, motifs []string) (*simple.UndirectedGraph, []string) {
	g := simple.NewUndirectedGraph()

	var nodes []string

	ids := make(map[string]int64)

	for _, name := range motifs {
		if _, seen := ids[name]; seen {
			continue
		}

		if _, ok := r.Motif(name); !ok {
			continue
		}

		id := int64(len(nodes))
		ids[name] = id
		nodes = append(nodes, name)
		g.AddNode(simple.Node(id))
	}

	for _, name := range nodes {
		m, _ := r.Motif(name) //nolint:errcheck

		for _, partner := range m.Interactions {
			pid, ok := ids[partner]
			if !ok || partner == name {
				continue
			}

			g.SetEdge(simple.Edge{F: simple.Node(ids[name]), T: simple.Node(pid)})
		}
	}

	return g, nodes
}

func acceptableCliques(found [][]graph.Node, nodes []string, opts Options) [][]string {
	var cliques [][]string

	for _, clique := range found {
		if len(clique) < opts.MinSize || (opts.MaxSize > 0 && len(clique) > opts.MaxSize) {
			continue
		}

		names := make([]string, len(clique))
		for i, n := range clique {
			names[i] = nodes[n.ID()]
		}

		sort.Strings(names)
		cliques = append(cliques, names)
	}

	sort.Slice(cliques, func(i, j int) bool {
		if len(cliques[i]) != len(cliques[j]) {
			return len(cliques[i]) > len(cliques[j])
		}

		return strings.Join(cliques[i], "\x00") < strings.Join(cliques[j], "\x00")
	})

	return cliques
}

func newModule(r *engine.Registry, name string, clique []string, opts Options) *types.ModuleCRM {
	module := &types.ModuleCRM{
		Name:      name,
		MaxLength: opts.MaxLength,
	}

	for _, motif := range clique {
		mm := types.ModuleMotif{
			Name:        motif,
			Motifs:      []string{motif},
			Orientation: types.Indeterminate,
		}

		if opts.IncludeAlternatives {
			mm.Motifs = append(mm.Motifs, registeredAlternatives(r, motif)...)
		}

		module.Constituents = append(module.Constituents, mm)
	}

	return module
}

func registeredAlternatives(r *engine.Registry, motif string) []string {
	m, ok := r.Motif(motif)
	if !ok {
		return nil
	}

	var alts []string

	for _, alt := range m.Alternatives {
		if _, ok := r.Motif(alt); ok && alt != motif {
			alts = append(alts, alt)
		}
	}

	return alts
}

// Register adds the modules to the registry.
func Register(r *engine.Registry, modules []*types.ModuleCRM) error {
	for _, m := range modules {
		if err := r.AddModule(m); err != nil {
			return err
		}
	}

	return nil
}
