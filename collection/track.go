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
	"fmt"

	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/query"
	"github.com/wtsi-hgi/motiflab-data/types"
)

// FromTrack returns a collection of the entities whose measure in the named
// region track satisfies the condition.
//
// For motifs and modules the measure is "support": the number of sequences
// with at least one region of the entity's type, or, if the condition uses a
// percentage, that number as a percentage of the sequences considered.
//
// For sequences the measure is "regions", the number of regions on the
// sequence, or "coverage", the percentage of the sequence's bases covered by
// the union of its regions. A trailing % on a coverage operand is optional.
//
// The sequences considered are those in the named sequence collection, or all
// registered sequences if seqCollection is blank. If trackName is blank and
// exactly one track is registered, that track is used.
func FromTrack(r *engine.Registry, name string, kind types.Kind, trackName, measure string,
	cond query.Condition, seqCollection string) (*Collection, error) {
	track, err := resolveTrack(r, trackName)
	if err != nil {
		return nil, err
	}

	sequences, err := trackSequences(r, track, seqCollection)
	if err != nil {
		return nil, err
	}

	c, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	switch kind {
	case types.KindMotif, types.KindModule:
		if measure != "" && measure != query.MeasureSupport {
			return nil, fmt.Errorf("%w: %q", ErrBadMeasure, measure)
		}

		err = addSupported(r, c, track, sequences, cond)
	case types.KindSequence:
		err = addMeasuredSequences(r, c, track, sequences, measure, cond)
	default:
		err = types.ErrInvalidKind
	}

	if err != nil {
		return nil, err
	}

	return c, nil
}

func resolveTrack(r *engine.Registry, trackName string) (*types.RegionTrack, error) {
	if trackName == "" {
		names := r.Names(engine.TypeTrack)
		if len(names) != 1 {
			return nil, ErrNoTrack
		}

		trackName = names[0]
	}

	track, ok := r.Track(trackName)
	if !ok {
		return nil, fmt.Errorf("%w: region track %q", query.ErrMissingSource, trackName)
	}

	return track, nil
}

func trackSequences(r *engine.Registry, track *types.RegionTrack, seqCollection string) ([]string, error) {
	if seqCollection != "" {
		c, err := r.CollectionOfKind(seqCollection, types.KindSequence)
		if err != nil {
			return nil, fmt.Errorf("%w: sequence collection %q: %w", query.ErrMissingSource, seqCollection, err)
		}

		return c.Names(), nil
	}

	if names := r.EntityNames(types.KindSequence); len(names) > 0 {
		return names, nil
	}

	return track.SequenceNames(), nil
}

func addSupported(r *engine.Registry, c *Collection, track *types.RegionTrack, sequences []string,
	cond query.Condition) error {
	for _, entity := range r.EntityNames(c.kind) {
		support := 0

		for _, seq := range sequences {
			if track.HasType(seq, entity) {
				support++
			}
		}

		value := float64(support)
		if cond.Percent && len(sequences) > 0 {
			value = value / float64(len(sequences)) * percent
		}

		match, err := cond.MatchNumber(value, nil)
		if err != nil {
			return err
		}

		if match {
			c.Add(entity)
		}
	}

	return nil
}

func addMeasuredSequences(r *engine.Registry, c *Collection, track *types.RegionTrack, sequences []string,
	measure string, cond query.Condition) error {
	for _, seqName := range sequences {
		var value float64

		switch measure {
		case query.MeasureRegions, "":
			value = float64(len(track.Regions(seqName)))
		case query.MeasureCoverage:
			seq, ok := r.Sequence(seqName)
			if !ok || seq.Length() <= 0 {
				continue
			}

			value = float64(track.Coverage(seqName, seq.Length())) * percent / float64(seq.Length())
		default:
			return fmt.Errorf("%w: %q", ErrBadMeasure, measure)
		}

		match, err := cond.MatchNumber(value, nil)
		if err != nil {
			return err
		}

		if match {
			c.Add(seqName)
		}
	}

	return nil
}
