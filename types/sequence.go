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

import "strings"

const (
	PropChromosome  = "Chromosome"
	PropStart       = "Start"
	PropEnd         = "End"
	PropLength      = "Length"
	PropStrand      = "Strand"
	PropGeneName    = "Gene name"
	PropTSS         = "TSS"
	PropTES         = "TES"
	PropGenomeBuild = "Genome build"
	PropOrganism    = "Organism"
)

var sequenceStandardProperties = []string{
	PropID, PropChromosome, PropStart, PropEnd, PropLength, PropStrand,
	PropGeneName, PropTSS, PropTES, PropGenomeBuild, PropOrganism,
	"name", "chr", "size", "orientation", "gene", "build",
}

// Sequence is a genomic segment that regions are annotated against. Start and
// End are 1-based inclusive genomic coordinates.
type Sequence struct {
	Name        string
	GenomeBuild string
	Chromosome  string
	Start       int
	End         int
	Strand      Orientation
	GeneName    string
	TSS         int
	TES         int
	Organism    int
	Properties  map[string]any
}

// NewSequence returns a Sequence on the direct strand, after checking the name
// and coordinates are valid.
func NewSequence(name, chromosome string, start, end int) (*Sequence, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if start > end {
		return nil, ErrInvalidCoordinate
	}

	return &Sequence{
		Name:       name,
		Chromosome: chromosome,
		Start:      start,
		End:        end,
		Strand:     Direct,
	}, nil
}

// EntityName returns the sequence's Name.
func (s *Sequence) EntityName() string { return s.Name }

// EntityKind returns KindSequence.
func (s *Sequence) EntityKind() Kind { return KindSequence }

// Length is the number of bases in the sequence.
func (s *Sequence) Length() int {
	return s.End - s.Start + 1
}

// GenomicPosition converts a 0-based offset relative to the start of the
// sequence (in the sequence's own orientation) to a genomic coordinate.
func (s *Sequence) GenomicPosition(relative int) int {
	if s.Strand == Reverse {
		return s.End - relative
	}

	return s.Start + relative
}

// RelativePosition is the inverse of GenomicPosition.
func (s *Sequence) RelativePosition(genomic int) int {
	if s.Strand == Reverse {
		return s.End - genomic
	}

	return genomic - s.Start
}

// Property returns the value of a standard or user-defined property.
func (s *Sequence) Property(name string) (any, error) {
	switch strings.ToLower(name) {
	case "id", "name":
		return s.Name, nil
	case "chromosome", "chr":
		return s.Chromosome, nil
	case "start":
		return s.Start, nil
	case "end":
		return s.End, nil
	case "length", "size":
		return s.Length(), nil
	case "strand", "orientation":
		return s.Strand.String(), nil
	case "gene name", "gene":
		return s.GeneName, nil
	case "tss":
		return s.TSS, nil
	case "tes":
		return s.TES, nil
	case "genome build", "build":
		return s.GenomeBuild, nil
	case "organism":
		return s.Organism, nil
	}

	if v, ok := lookupProperty(s.Properties, name); ok {
		return v, nil
	}

	return nil, ErrUnknownProperty
}

// SetProperty sets a user-defined property. The names of standard properties
// can not be used.
func (s *Sequence) SetProperty(name string, value any) error {
	if isReserved(name, sequenceStandardProperties) {
		return ErrReservedProperty
	}

	s.Properties = storeProperty(s.Properties, name, value)

	return nil
}

// Clone returns a deep copy of the Sequence.
func (s *Sequence) Clone() *Sequence {
	c := *s
	c.Properties = cloneProperties(s.Properties)

	return &c
}
