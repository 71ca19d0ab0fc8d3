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

package query

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/types"
)

const clusterSeparator = "->"

var rangeRe = regexp.MustCompile(`^(.*?)(\d+)\s*-\s*(.*?)(\d+)$`)

// Expand resolves a list entry to the names of entities of the given kind
// registered in r. An entry can be:
//
//   - the name of an entity
//   - the name of a collection of that kind, giving all its members
//   - "Partition->Cluster", giving the members of that cluster
//   - a pattern using * and ? wildcards, matched against all entity names
//   - a numbered range such as "seq1-seq10", giving the registered entities
//     in that range
//
// Returns an error wrapping ErrUnknownEntry if the entry can't be resolved.
func Expand(r *engine.Registry, kind types.Kind, entry string) ([]string, error) {
	entry = unquote(entry)

	if _, ok := r.Entity(kind, entry); ok {
		return []string{entry}, nil
	}

	if c, err := r.CollectionOfKind(entry, kind); err == nil {
		return c.Names(), nil
	}

	if partName, cluster, ok := strings.Cut(entry, clusterSeparator); ok {
		return expandCluster(r, kind, strings.TrimSpace(partName), strings.TrimSpace(cluster))
	}

	if strings.ContainsAny(entry, "*?") {
		return expandPattern(r, kind, entry)
	}

	if names, ok := expandRange(r, kind, entry); ok {
		return names, nil
	}

	return nil, fmt.Errorf("%w: %q is not a known %s, %s collection or pattern",
		ErrUnknownEntry, entry, kind, kind)
}

// ExpandAll expands every entry, returning the combined names in order without
// duplicates.
func ExpandAll(r *engine.Registry, kind types.Kind, entries []string) ([]string, error) {
	seen := make(map[string]bool)

	var names []string

	for _, entry := range entries {
		expanded, err := Expand(r, kind, entry)
		if err != nil {
			return nil, err
		}

		for _, name := range expanded {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	return names, nil
}

func expandCluster(r *engine.Registry, kind types.Kind, partName, cluster string) ([]string, error) {
	p, err := r.PartitionOfKind(partName, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: partition %q: %w", ErrUnknownEntry, partName, err)
	}

	members := p.Members(cluster)
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %q in %q", ErrNotACluster, cluster, partName)
	}

	return members, nil
}

func expandPattern(r *engine.Registry, kind types.Kind, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("%w: bad pattern %q: %w", ErrUnknownEntry, pattern, err)
	}

	var names []string

	for _, name := range r.EntityNames(kind) {
		if ok, _ := path.Match(pattern, name); ok { //nolint:errcheck
			names = append(names, name)
		}
	}

	return names, nil
}

// expandRange handles "prefix1-prefix10"; the prefixes must be identical. The
// numbers are compared as integers, so zero-padding need not match.
func expandRange(r *engine.Registry, kind types.Kind, entry string) ([]string, bool) {
	m := rangeRe.FindStringSubmatch(entry)
	if m == nil || m[1] != m[3] {
		return nil, false
	}

	lo, errLo := strconv.Atoi(m[2])
	hi, errHi := strconv.Atoi(m[4])

	if errLo != nil || errHi != nil {
		return nil, false
	}

	if lo > hi {
		lo, hi = hi, lo
	}

	var names []string

	for _, name := range r.EntityNames(kind) {
		if !strings.HasPrefix(name, m[1]) {
			continue
		}

		n, err := strconv.Atoi(name[len(m[1]):])
		if err != nil {
			continue
		}

		if n >= lo && n <= hi {
			names = append(names, name)
		}
	}

	return names, true
}
