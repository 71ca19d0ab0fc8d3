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

import (
	"reflect"
	"sort"
	"strings"
)

const (
	PropType        = "Type"
	PropScore       = "Score"
	PropOrientation = "Orientation"
	PropSequence    = "Sequence"
)

var regionStandardProperties = []string{
	PropType, PropScore, PropOrientation, PropStart, PropEnd, PropLength, PropSequence,
	"strand", "size",
}

// Region is an annotated interval on a Sequence. Start and End are 0-based
// inclusive offsets relative to the start of the parent sequence.
//
// Regions for modules hold the sites of their constituent motifs as nested
// regions, keyed on the constituent name.
type Region struct {
	Type        string
	Start       int
	End         int
	Score       float64
	Orientation Orientation
	Sequence    string
	Properties  map[string]any
	nested      map[string][]*Region
}

// NewRegion returns a Region of the given type and relative coordinates.
func NewRegion(regionType string, start, end int, score float64, orientation Orientation) (*Region, error) {
	if start > end {
		return nil, ErrInvalidCoordinate
	}

	return &Region{
		Type:        regionType,
		Start:       start,
		End:         end,
		Score:       score,
		Orientation: orientation,
	}, nil
}

// Length is the number of bases covered by the region.
func (r *Region) Length() int {
	return r.End - r.Start + 1
}

// Overlaps returns true if the two regions share at least one position.
func (r *Region) Overlaps(other *Region) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// GenomicStart returns the smallest genomic coordinate covered by the region
// when it lies on the given sequence.
func (r *Region) GenomicStart(seq *Sequence) int {
	if seq.Strand == Reverse {
		return seq.End - r.End
	}

	return seq.Start + r.Start
}

// GenomicEnd returns the largest genomic coordinate covered by the region when
// it lies on the given sequence.
func (r *Region) GenomicEnd(seq *Sequence) int {
	if seq.Strand == Reverse {
		return seq.End - r.Start
	}

	return seq.Start + r.End
}

// GenomicOrientation returns the orientation of the region relative to the
// genome, rather than to its sequence.
func (r *Region) GenomicOrientation(seq *Sequence) Orientation {
	if seq.Strand == Reverse {
		return -r.Orientation
	}

	return r.Orientation
}

// AddNested adds a child region under the given label.
func (r *Region) AddNested(label string, child *Region) {
	if r.nested == nil {
		r.nested = make(map[string][]*Region)
	}

	r.nested[label] = append(r.nested[label], child)
}

// Nested returns the child regions under the given label.
func (r *Region) Nested(label string) []*Region {
	return r.nested[label]
}

// NestedLabels returns the sorted labels that have nested regions.
func (r *Region) NestedLabels() []string {
	labels := make([]string, 0, len(r.nested))
	for label := range r.nested {
		labels = append(labels, label)
	}

	sort.Strings(labels)

	return labels
}

// Property returns the value of a standard or user-defined property.
func (r *Region) Property(name string) (any, error) {
	switch strings.ToLower(name) {
	case "type":
		return r.Type, nil
	case "score":
		return r.Score, nil
	case "orientation", "strand":
		return r.Orientation.String(), nil
	case "start":
		return r.Start, nil
	case "end":
		return r.End, nil
	case "length", "size":
		return r.Length(), nil
	case "sequence":
		return r.Sequence, nil
	}

	if v, ok := lookupProperty(r.Properties, name); ok {
		return v, nil
	}

	return nil, ErrUnknownProperty
}

// SetProperty sets a user-defined property. The names of standard properties
// can not be used.
func (r *Region) SetProperty(name string, value any) error {
	if isReserved(name, regionStandardProperties) {
		return ErrReservedProperty
	}

	r.Properties = storeProperty(r.Properties, name, value)

	return nil
}

// Clone returns a deep copy of the region, including nested regions.
func (r *Region) Clone() *Region {
	c := *r
	c.Properties = cloneProperties(r.Properties)
	c.nested = nil

	for label, children := range r.nested {
		for _, child := range children {
			c.AddNested(label, child.Clone())
		}
	}

	return &c
}

// HasSameValues returns true if the other region has the same coordinates,
// type, score, orientation, sequence, user properties and nested regions.
func (r *Region) HasSameValues(other *Region) bool {
	if r.Type != other.Type || r.Start != other.Start || r.End != other.End ||
		r.Score != other.Score || r.Orientation != other.Orientation ||
		r.Sequence != other.Sequence {
		return false
	}

	if !sameProperties(r.Properties, other.Properties) {
		return false
	}

	return sameNested(r.nested, other.nested)
}

func sameProperties(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}

	for k, v := range a {
		ov, ok := b[k]
		if !ok || !sameValue(v, ov) {
			return false
		}
	}

	return true
}

func sameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func sameNested(a, b map[string][]*Region) bool {
	if len(a) != len(b) {
		return false
	}

	for label, children := range a {
		others := b[label]
		if len(children) != len(others) {
			return false
		}

		for i, child := range children {
			if !child.HasSameValues(others[i]) {
				return false
			}
		}
	}

	return true
}
