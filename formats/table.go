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

package formats

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/wtsi-hgi/motiflab-data/types"
)

// Column headers recognised in motif and sequence tables. Headers are matched
// case-insensitively; any other column becomes a user-defined property.
const (
	ColName           = "name"
	ColShortName      = "short_name"
	ColLongName       = "long_name"
	ColConsensus      = "consensus"
	ColMatrix         = "matrix"
	ColClassification = "classification"
	ColFactors        = "factors"
	ColOrganisms      = "organisms"
	ColAlternatives   = "alternatives"
	ColInteractions   = "interactions"
	ColPart           = "part"
	ColGO             = "go"
	ColQuality        = "quality"

	ColChromosome  = "chromosome"
	ColStart       = "start"
	ColEnd         = "end"
	ColStrand      = "strand"
	ColGeneName    = "gene_name"
	ColTSS         = "tss"
	ColTES         = "tes"
	ColGenomeBuild = "genome_build"
	ColOrganism    = "organism"

	ColValue = "value"

	// DefaultEntry is the name of the row in a numeric map table that holds
	// the map's default value.
	DefaultEntry = "_DEFAULT_"

	matrixRowSep = ";"
	gotaNaN      = "NaN"
)

var (
	motifColumns = []string{
		ColName, ColShortName, ColLongName, ColConsensus, ColMatrix, ColClassification,
		ColFactors, ColOrganisms, ColAlternatives, ColInteractions, ColPart, ColGO, ColQuality,
	}

	sequenceColumns = []string{
		ColName, ColChromosome, ColStart, ColEnd, ColStrand, ColGeneName, ColTSS,
		ColTES, ColGenomeBuild, ColOrganism,
	}
)

// table is a tab-separated table read with a header, with each row keyed on
// lower-cased column name.
type table struct {
	headers []string
	rows    []map[string]string
}

func readTable(r io.Reader) (*table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter('\t'),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithComments('#'),
	)
	if df.Err != nil {
		return nil, df.Err
	}

	records := df.Records()
	if len(records) < 2 { //nolint:mnd
		return nil, ErrNoRows
	}

	t := &table{headers: make([]string, len(records[0]))}

	for i, h := range records[0] {
		t.headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, record := range records[1:] {
		row := make(map[string]string, len(record))

		for i, v := range record {
			if v == gotaNaN {
				v = ""
			}

			row[t.headers[i]] = strings.TrimSpace(v)
		}

		t.rows = append(t.rows, row)
	}

	return t, nil
}

func (t *table) require(cols ...string) error {
	for _, col := range cols {
		if !t.has(col) {
			return fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	return nil
}

func (t *table) has(col string) bool {
	for _, h := range t.headers {
		if h == col {
			return true
		}
	}

	return false
}

// extra returns the headers that are not amongst the given known ones.
func (t *table) extra(known []string) []string {
	var extra []string

	for _, h := range t.headers {
		if !containsString(known, h) {
			extra = append(extra, h)
		}
	}

	return extra
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}

	return false
}

// ReadMotifs reads a tab-separated table of motifs. The name column is
// required. A matrix column holds rows of A,C,G,T frequencies separated by
// semicolons. List columns are comma separated. Columns other than the
// standard ones become user-defined properties.
func ReadMotifs(r io.Reader) ([]*types.Motif, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	if err = t.require(ColName); err != nil {
		return nil, err
	}

	extra := t.extra(motifColumns)
	motifs := make([]*types.Motif, 0, len(t.rows))

	for i, row := range t.rows {
		m, err := rowToMotif(row, extra)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		motifs = append(motifs, m)
	}

	return motifs, nil
}

func rowToMotif(row map[string]string, extra []string) (*types.Motif, error) {
	if err := types.ValidateName(row[ColName]); err != nil {
		return nil, fmt.Errorf("%w: %q", err, row[ColName])
	}

	c := &Converter{}

	m := &types.Motif{
		Name:           row[ColName],
		ShortName:      row[ColShortName],
		LongName:       row[ColLongName],
		Consensus:      row[ColConsensus],
		Matrix:         c.ToMatrix(row[ColMatrix]),
		Classification: row[ColClassification],
		Factors:        c.ToList(row[ColFactors]),
		Organisms:      c.ToList(row[ColOrganisms]),
		Alternatives:   c.ToList(row[ColAlternatives]),
		Interactions:   c.ToList(row[ColInteractions]),
		Part:           c.ToMotifPart(row[ColPart]),
		GOTerms:        c.ToList(row[ColGO]),
		Quality:        c.ToInt(row[ColQuality]),
	}

	if c.Err != nil {
		return nil, c.Err
	}

	if m.Consensus == "" && len(m.Matrix) > 0 {
		m.Consensus = m.ConsensusFromMatrix()
	}

	return m, setExtraProperties(m, row, extra, c)
}

// ToMatrix converts rows of comma-separated A, C, G and T frequencies,
// separated by semicolons, to a matrix. If the conversion fails, the error
// field is set, and nil is returned.
func (c *Converter) ToMatrix(s string) [][4]float64 {
	if c.Err != nil || strings.TrimSpace(s) == "" {
		return nil
	}

	var matrix [][4]float64

	for _, line := range strings.Split(s, matrixRowSep) {
		if strings.TrimSpace(line) == "" {
			continue
		}

		cells := strings.Split(line, ",")
		if len(cells) != len([4]float64{}) {
			c.Err = fmt.Errorf("matrix row %q does not have 4 columns", line)

			return nil
		}

		var row [4]float64
		for i, cell := range cells {
			row[i] = c.ToFloat(cell)
		}

		matrix = append(matrix, row)
	}

	return matrix
}

type propertySetter interface {
	SetProperty(name string, value any) error
}

func setExtraProperties(e propertySetter, row map[string]string, extra []string, c *Converter) error {
	for _, col := range extra {
		if row[col] == "" {
			continue
		}

		if err := e.SetProperty(col, c.ToProperty(row[col])); err != nil {
			return fmt.Errorf("%w: %s", err, col)
		}
	}

	return nil
}

// ReadSequences reads a tab-separated table of sequences. The name,
// chromosome, start and end columns are required; start and end are 1-based
// inclusive genomic coordinates. Strand defaults to direct. Columns other than
// the standard ones become user-defined properties.
func ReadSequences(r io.Reader) ([]*types.Sequence, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	if err = t.require(ColName, ColChromosome, ColStart, ColEnd); err != nil {
		return nil, err
	}

	extra := t.extra(sequenceColumns)
	sequences := make([]*types.Sequence, 0, len(t.rows))

	for i, row := range t.rows {
		s, err := rowToSequence(row, extra)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		sequences = append(sequences, s)
	}

	return sequences, nil
}

func rowToSequence(row map[string]string, extra []string) (*types.Sequence, error) {
	c := &Converter{}

	start := c.ToInt(row[ColStart])
	end := c.ToInt(row[ColEnd])

	if c.Err != nil {
		return nil, c.Err
	}

	s, err := types.NewSequence(row[ColName], row[ColChromosome], start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, row[ColName])
	}

	if row[ColStrand] != "" {
		s.Strand = c.ToOrientation(row[ColStrand])
	}

	s.GeneName = row[ColGeneName]
	s.TSS = c.ToInt(row[ColTSS])
	s.TES = c.ToInt(row[ColTES])
	s.GenomeBuild = row[ColGenomeBuild]
	s.Organism = c.ToInt(row[ColOrganism])

	if c.Err != nil {
		return nil, c.Err
	}

	return s, setExtraProperties(s, row, extra, c)
}

// ReadNumericMap reads a tab-separated table with name and value columns into
// a new NumericMap of the given kind. A row named _DEFAULT_ sets the map's
// default value, which is otherwise 0.
func ReadNumericMap(r io.Reader, name string, kind types.Kind) (*types.NumericMap, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}

	if err = t.require(ColName, ColValue); err != nil {
		return nil, err
	}

	m, err := types.NewNumericMap(name, kind, 0)
	if err != nil {
		return nil, err
	}

	c := &Converter{}

	for _, row := range t.rows {
		v := c.ToFloat(row[ColValue])

		if row[ColName] == DefaultEntry {
			m.Default = v

			continue
		}

		m.Set(row[ColName], v)
	}

	if c.Err != nil {
		return nil, c.Err
	}

	return m, nil
}
