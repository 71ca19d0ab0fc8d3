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

// Package formats reads and writes the file formats data is exchanged in:
// region tracks as GFF, and motifs, sequences and numeric maps as
// tab-separated tables.
package formats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"
	"github.com/wtsi-hgi/motiflab-data/types"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingColumn = Error("required column missing")
	ErrNoRows        = Error("table has no rows")

	gffSource    = "MotifLab"
	gffWidth     = 60
	attrSequence = "Sequence"
)

// ReadTrack reads GFF features into a new RegionTrack with the given name. The
// GFF seqname is taken as the name of the sequence each region lies on, and
// the feature positions as 1-based coordinates relative to that sequence.
// Attributes become region properties, except for a "Sequence" attribute,
// which becomes the region's DNA sequence.
func ReadTrack(r io.Reader, name string) (*types.RegionTrack, error) {
	track, err := types.NewRegionTrack(name)
	if err != nil {
		return nil, err
	}

	sc := featio.NewScanner(gff.NewReader(r))

	for sc.Next() {
		f, ok := sc.Feat().(*gff.Feature)
		if !ok {
			continue
		}

		track.Add(f.SeqName, featureToRegion(f))
	}

	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("error during gff read: %w", err)
	}

	return track, nil
}

func featureToRegion(f *gff.Feature) *types.Region {
	r := &types.Region{
		Type:        f.Feature,
		Start:       f.FeatStart,
		End:         f.FeatEnd - 1,
		Orientation: types.Orientation(f.FeatStrand),
	}

	if f.FeatScore != nil {
		r.Score = *f.FeatScore
	}

	c := &Converter{}

	for _, attr := range f.FeatAttributes {
		if strings.EqualFold(attr.Tag, attrSequence) {
			r.Sequence = attr.Value

			continue
		}

		r.SetProperty(attr.Tag, c.ToProperty(attr.Value)) //nolint:errcheck
	}

	return r
}

// WriteTrack writes the regions of the track as GFF, with sequences in the
// given order (or sorted by name if none are given).
func WriteTrack(w io.Writer, track *types.RegionTrack, sequences ...string) error {
	if len(sequences) == 0 {
		sequences = track.SequenceNames()
	}

	gw := gff.NewWriter(w, gffWidth, true)

	for _, seqName := range sequences {
		for _, r := range track.Regions(seqName) {
			if _, err := gw.Write(regionToFeature(seqName, r)); err != nil {
				return err
			}
		}
	}

	return nil
}

func regionToFeature(seqName string, r *types.Region) *gff.Feature {
	score := r.Score

	f := &gff.Feature{
		SeqName:    seqName,
		Source:     gffSource,
		Feature:    r.Type,
		FeatStart:  r.Start,
		FeatEnd:    r.End + 1,
		FeatScore:  &score,
		FeatStrand: seq.Strand(r.Orientation),
		FeatFrame:  gff.NoFrame,
	}

	if r.Sequence != "" {
		f.FeatAttributes = append(f.FeatAttributes, gff.Attribute{Tag: attrSequence, Value: r.Sequence})
	}

	keys := make([]string, 0, len(r.Properties))
	for k := range r.Properties {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		f.FeatAttributes = append(f.FeatAttributes, gff.Attribute{Tag: k, Value: propertyString(r.Properties[k])})
	}

	return f
}

func propertyString(v any) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ",")
	}

	return fmt.Sprint(v)
}
