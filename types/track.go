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

package types

import "sort"

// RegionTrack holds the Regions annotated on each Sequence, for example the
// predicted binding sites of a set of motifs. Regions are kept sorted by
// Start, then End.
type RegionTrack struct {
	Name    string
	regions map[string][]*Region
}

// NewRegionTrack returns an empty RegionTrack.
func NewRegionTrack(name string) (*RegionTrack, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	return &RegionTrack{
		Name:    name,
		regions: make(map[string][]*Region),
	}, nil
}

// Add inserts the region on the named sequence, keeping the sequence's regions
// sorted.
func (t *RegionTrack) Add(sequence string, r *Region) {
	if t.regions == nil {
		t.regions = make(map[string][]*Region)
	}

	list := t.regions[sequence]
	i := sort.Search(len(list), func(i int) bool {
		return list[i].Start > r.Start || (list[i].Start == r.Start && list[i].End > r.End)
	})

	list = append(list, nil)
	copy(list[i+1:], list[i:])
	list[i] = r

	t.regions[sequence] = list
}

// Regions returns the regions on the named sequence.
func (t *RegionTrack) Regions(sequence string) []*Region {
	return t.regions[sequence]
}

// SequenceNames returns the sorted names of sequences with at least one
// region.
func (t *RegionTrack) SequenceNames() []string {
	names := make([]string, 0, len(t.regions))

	for name, list := range t.regions {
		if len(list) > 0 {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// Types returns the sorted set of region types in the track.
func (t *RegionTrack) Types() []string {
	seen := make(map[string]bool)

	for _, list := range t.regions {
		for _, r := range list {
			seen[r.Type] = true
		}
	}

	types := make([]string, 0, len(seen))
	for typ := range seen {
		types = append(types, typ)
	}

	sort.Strings(types)

	return types
}

// Count returns the total number of regions in the track.
func (t *RegionTrack) Count() int {
	n := 0
	for _, list := range t.regions {
		n += len(list)
	}

	return n
}

// HasType returns true if the named sequence has at least one region of the
// given type.
func (t *RegionTrack) HasType(sequence, regionType string) bool {
	for _, r := range t.regions[sequence] {
		if r.Type == regionType {
			return true
		}
	}

	return false
}

// Coverage returns the number of positions of a sequence of the given length
// that are covered by at least one region.
func (t *RegionTrack) Coverage(sequence string, length int) int {
	covered := 0
	end := -1

	for _, r := range t.regions[sequence] {
		start := max(r.Start, end+1, 0)
		stop := min(r.End, length-1)

		if stop >= start {
			covered += stop - start + 1
		}

		end = max(end, r.End)
	}

	return covered
}
