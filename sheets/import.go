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

package sheets

import (
	"fmt"
	"strings"

	"github.com/wtsi-hgi/motiflab-data/collection"
	"github.com/wtsi-hgi/motiflab-data/formats"
	"github.com/wtsi-hgi/motiflab-data/partition"
	"github.com/wtsi-hgi/motiflab-data/types"
)

// Column headers of the sheets that data items are imported from.
const (
	ColName    = "name"
	ColCluster = "cluster"
	ColValue   = "value"
)

// ToCollection returns a collection of the entity names in the sheet's name
// column, in row order. Blank names are skipped.
func (s *Sheet) ToCollection(name string, kind types.Kind) (*collection.Collection, error) {
	rows, err := s.Columns(ColName)
	if err != nil {
		return nil, err
	}

	c, err := collection.New(name, kind)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row[0] != "" {
			c.Add(row[0])
		}
	}

	return c, nil
}

// ToPartition returns a partition assigning the entity in each row's name
// column to the cluster in its cluster column. Rows with a blank name or
// cluster are skipped.
func (s *Sheet) ToPartition(name string, kind types.Kind) (*partition.Partition, error) {
	rows, err := s.Columns(ColName, ColCluster)
	if err != nil {
		return nil, err
	}

	p, err := partition.New(name, kind)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if row[0] == "" || row[1] == "" {
			continue
		}

		if err := p.Add(row[0], row[1]); err != nil {
			return nil, fmt.Errorf("%w: %s", err, row[1])
		}
	}

	return p, nil
}

// ToNumericMap returns a numeric map from the sheet's name and value columns.
// A row named formats.DefaultEntry sets the map's default.
func (s *Sheet) ToNumericMap(name string, kind types.Kind) (*types.NumericMap, error) {
	rows, err := s.Columns(ColName, ColValue)
	if err != nil {
		return nil, err
	}

	m, err := types.NewNumericMap(name, kind, 0)
	if err != nil {
		return nil, err
	}

	c := formats.Converter{}

	for _, row := range rows {
		if row[0] == "" {
			continue
		}

		v := c.ToFloat(row[1])

		if row[0] == formats.DefaultEntry {
			m.Default = v
		} else {
			m.Set(row[0], v)
		}
	}

	return m, c.Err
}

// ToProperties returns, for each name in the sheet's name column, the
// non-blank values of every other column, keyed on column header. Values are
// converted to numbers or lists where they look like them.
func (s *Sheet) ToProperties() (map[string]map[string]any, error) {
	nameIdx := s.columnIndex(ColName)
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ColName)
	}

	c := formats.Converter{}
	props := make(map[string]map[string]any, len(s.Rows))

	for _, row := range s.Rows {
		if nameIdx >= len(row) || row[nameIdx] == "" {
			continue
		}

		p := make(map[string]any)

		for i, header := range s.ColumnHeaders {
			header = strings.TrimSpace(header)

			if i == nameIdx || i >= len(row) || row[i] == "" || header == "" {
				continue
			}

			p[header] = c.ToProperty(row[i])
		}

		props[row[nameIdx]] = p
	}

	return props, nil
}

// Collection reads the named sheet and returns ToCollection() of it, with the
// given name.
func (s *Sheets) Collection(docID, sheetName, name string, kind types.Kind) (*collection.Collection, error) {
	sheet, err := s.Read(docID, sheetName)
	if err != nil {
		return nil, err
	}

	return sheet.ToCollection(name, kind)
}

// Partition reads the named sheet and returns ToPartition() of it, with the
// given name.
func (s *Sheets) Partition(docID, sheetName, name string, kind types.Kind) (*partition.Partition, error) {
	sheet, err := s.Read(docID, sheetName)
	if err != nil {
		return nil, err
	}

	return sheet.ToPartition(name, kind)
}

// NumericMap reads the named sheet and returns ToNumericMap() of it, with the
// given name.
func (s *Sheets) NumericMap(docID, sheetName, name string, kind types.Kind) (*types.NumericMap, error) {
	sheet, err := s.Read(docID, sheetName)
	if err != nil {
		return nil, err
	}

	return sheet.ToNumericMap(name, kind)
}

// MotifProperties reads the "motifs" sheet and returns ToProperties() of it:
// extra properties to attach to catalogue motifs, keyed on motif name.
func (s *Sheets) MotifProperties(docID string) (map[string]map[string]any, error) {
	sheet, err := s.Read(docID, MotifsSheet)
	if err != nil {
		return nil, err
	}

	return sheet.ToProperties()
}

// MotifsSheet is the name of the sheet MotifProperties() reads.
const MotifsSheet = "motifs"
