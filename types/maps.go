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

// NumericMap assigns a number to entities of one Kind. Entities without an
// explicit value get the Default.
type NumericMap struct {
	Name    string
	Kind    Kind
	Default float64
	Values  map[string]float64
}

// NewNumericMap returns an empty NumericMap.
func NewNumericMap(name string, kind Kind, def float64) (*NumericMap, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	return &NumericMap{
		Name:    name,
		Kind:    kind,
		Default: def,
		Values:  make(map[string]float64),
	}, nil
}

// Set assigns a value to the named entity.
func (m *NumericMap) Set(name string, value float64) {
	if m.Values == nil {
		m.Values = make(map[string]float64)
	}

	m.Values[name] = value
}

// Value returns the value for the named entity, or the Default.
func (m *NumericMap) Value(name string) float64 {
	if v, ok := m.Values[name]; ok {
		return v
	}

	return m.Default
}

// HasValue returns true if the named entity has an explicit value.
func (m *NumericMap) HasValue(name string) bool {
	_, ok := m.Values[name]

	return ok
}

// Names returns the sorted names of entities with explicit values.
func (m *NumericMap) Names() []string {
	names := make([]string, 0, len(m.Values))
	for name := range m.Values {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
