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
	"math"
	"sort"
	"strings"
)

// MotifPart describes what part of a binding site a Motif models.
type MotifPart string

const (
	PartFull     MotifPart = "FULL"
	PartHalfSite MotifPart = "HALFSITE"
	PartDimer    MotifPart = "DIMER"

	ErrInvalidMotifPart = Error("invalid motif part")

	bases = 4
)

// StringToMotifPart converts a string to a MotifPart. Blank strings are
// treated as PartFull.
func StringToMotifPart(s string) (MotifPart, error) {
	switch MotifPart(strings.ToUpper(strings.TrimSpace(s))) {
	case PartFull, MotifPart(""):
		return PartFull, nil
	case PartHalfSite, MotifPart("HALF-SITE"):
		return PartHalfSite, nil
	case PartDimer:
		return PartDimer, nil
	default:
		return "", ErrInvalidMotifPart
	}
}

// Standard Motif property names.
const (
	PropID             = "ID"
	PropShortName      = "Short name"
	PropLongName       = "Long name"
	PropConsensus      = "Consensus"
	PropSize           = "Size"
	PropICContent      = "IC-content"
	PropGCContent      = "GC-content"
	PropClassification = "Classification"
	PropFactors        = "Factors"
	PropOrganisms      = "Organisms"
	PropAlternatives   = "Alternatives"
	PropInteractions   = "Interactions"
	PropPart           = "Part"
	PropGO             = "GO"
	PropQuality        = "Quality"
)

var motifStandardProperties = []string{
	PropID, PropShortName, PropLongName, PropConsensus, PropSize, PropICContent,
	PropGCContent, PropClassification, PropFactors, PropOrganisms,
	PropAlternatives, PropInteractions, PropPart, PropGO, PropQuality,
	"name", "length", "class",
}

// Motif is a transcription factor binding pattern, modelled as a position
// frequency matrix with A, C, G and T columns.
type Motif struct {
	Name           string
	ShortName      string
	LongName       string
	Consensus      string
	Matrix         [][bases]float64
	Classification string
	Factors        []string
	Organisms      []string
	Alternatives   []string
	Interactions   []string
	Part           MotifPart
	GOTerms        []string
	Quality        int
	Properties     map[string]any
}

// EntityName returns the motif's Name.
func (m *Motif) EntityName() string { return m.Name }

// EntityKind returns KindMotif.
func (m *Motif) EntityKind() Kind { return KindMotif }

// Length is the number of positions in the matrix, or the length of the
// consensus if there is no matrix.
func (m *Motif) Length() int {
	if len(m.Matrix) > 0 {
		return len(m.Matrix)
	}

	return len(m.Consensus)
}

// ICContent returns the total information content of the matrix in bits.
func (m *Motif) ICContent() float64 {
	var ic float64

	for _, row := range m.Matrix {
		ic += rowIC(row)
	}

	return ic
}

func rowIC(row [bases]float64) float64 {
	freqs, ok := normalise(row)
	if !ok {
		return 0
	}

	ic := 2.0

	for _, p := range freqs {
		if p > 0 {
			ic += p * math.Log2(p)
		}
	}

	return ic
}

func normalise(row [bases]float64) ([bases]float64, bool) {
	var total float64
	for _, v := range row {
		total += v
	}

	if total <= 0 {
		return row, false
	}

	for i := range row {
		row[i] /= total
	}

	return row, true
}

// GCContent returns the expected fraction of G and C in sites matching this
// motif. Without a matrix it is estimated from the IUPAC consensus.
func (m *Motif) GCContent() float64 {
	if len(m.Matrix) == 0 {
		return consensusGC(m.Consensus)
	}

	var gc float64

	for _, row := range m.Matrix {
		freqs, ok := normalise(row)
		if !ok {
			continue
		}

		gc += freqs[1] + freqs[2]
	}

	return gc / float64(len(m.Matrix))
}

func consensusGC(consensus string) float64 {
	if consensus == "" {
		return 0
	}

	var gc float64

	for _, c := range strings.ToUpper(consensus) {
		switch c {
		case 'G', 'C', 'S':
			gc++
		case 'A', 'T', 'W':
		default:
			gc += 0.5
		}
	}

	return gc / float64(len(consensus))
}

var iupacPairs = map[[2]byte]byte{
	{'A', 'C'}: 'M', {'A', 'G'}: 'R', {'A', 'T'}: 'W',
	{'C', 'G'}: 'S', {'C', 'T'}: 'Y', {'G', 'T'}: 'K',
}

// ConsensusFromMatrix derives an IUPAC consensus string from the matrix using
// the Cavener rules: a single base if its frequency is at least 0.5 and at
// least twice that of the next base, a two-base code if the top two together
// are at least 0.75, and N otherwise.
func (m *Motif) ConsensusFromMatrix() string {
	var sb strings.Builder

	for _, row := range m.Matrix {
		sb.WriteByte(consensusBase(row))
	}

	return sb.String()
}

func consensusBase(row [bases]float64) byte {
	const letters = "ACGT"

	freqs, ok := normalise(row)
	if !ok {
		return 'N'
	}

	order := []int{0, 1, 2, 3}
	sort.SliceStable(order, func(i, j int) bool { return freqs[order[i]] > freqs[order[j]] })

	first, second := order[0], order[1]

	if freqs[first] >= 0.5 && freqs[first] >= 2*freqs[second] {
		return letters[first]
	}

	if freqs[first]+freqs[second] >= 0.75 {
		a, b := letters[first], letters[second]
		if a > b {
			a, b = b, a
		}

		return iupacPairs[[2]byte{a, b}]
	}

	return 'N'
}

// ClassificationAt returns the classification truncated to the given number of
// dot-separated levels. A level less than 1, or greater than the depth of the
// classification, returns the full classification.
func (m *Motif) ClassificationAt(level int) string {
	if level < 1 || m.Classification == "" {
		return m.Classification
	}

	parts := strings.Split(m.Classification, ".")
	if level >= len(parts) {
		return m.Classification
	}

	return strings.Join(parts[:level], ".")
}

// IsKnownAlternative returns true if the given motif name is listed amongst
// this motif's known alternatives.
func (m *Motif) IsKnownAlternative(name string) bool {
	for _, alt := range m.Alternatives {
		if alt == name {
			return true
		}
	}

	return false
}

// InteractsWith returns true if the given motif name is listed amongst this
// motif's interaction partners.
func (m *Motif) InteractsWith(name string) bool {
	for _, partner := range m.Interactions {
		if partner == name {
			return true
		}
	}

	return false
}

// Property returns the value of a standard or user-defined property.
func (m *Motif) Property(name string) (any, error) {
	switch strings.ToLower(name) {
	case "id", "name":
		return m.Name, nil
	case "short name":
		return m.ShortName, nil
	case "long name":
		return m.LongName, nil
	case "consensus":
		return m.Consensus, nil
	case "size", "length":
		return m.Length(), nil
	case "ic-content":
		return m.ICContent(), nil
	case "gc-content":
		return m.GCContent(), nil
	case "classification", "class":
		return m.Classification, nil
	case "factors":
		return m.Factors, nil
	case "organisms":
		return m.Organisms, nil
	case "alternatives":
		return m.Alternatives, nil
	case "interactions":
		return m.Interactions, nil
	case "part":
		return string(m.Part), nil
	case "go":
		return m.GOTerms, nil
	case "quality":
		return m.Quality, nil
	}

	if v, ok := lookupProperty(m.Properties, name); ok {
		return v, nil
	}

	return nil, ErrUnknownProperty
}

// SetProperty sets a user-defined property. The names of standard properties
// can not be used.
func (m *Motif) SetProperty(name string, value any) error {
	if isReserved(name, motifStandardProperties) {
		return ErrReservedProperty
	}

	m.Properties = storeProperty(m.Properties, name, value)

	return nil
}

// Clone returns a deep copy of the Motif.
func (m *Motif) Clone() *Motif {
	c := *m
	c.Matrix = append([][bases]float64(nil), m.Matrix...)
	c.Factors = append([]string(nil), m.Factors...)
	c.Organisms = append([]string(nil), m.Organisms...)
	c.Alternatives = append([]string(nil), m.Alternatives...)
	c.Interactions = append([]string(nil), m.Interactions...)
	c.GOTerms = append([]string(nil), m.GOTerms...)
	c.Properties = cloneProperties(m.Properties)

	return &c
}
