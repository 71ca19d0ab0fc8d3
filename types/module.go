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
	PropMotifs    = "Motifs"
	PropOrdered   = "Ordered"
	PropMaxLength = "Max length"
)

var moduleStandardProperties = []string{PropID, PropSize, PropMotifs, PropOrdered, PropMaxLength, "name"}

// ModuleMotif is one constituent of a ModuleCRM. Any of the motifs in Motifs
// can fill the constituent's role.
type ModuleMotif struct {
	Name        string
	Motifs      []string
	Orientation Orientation
}

// DistanceConstraint limits the spacing between two constituents of an ordered
// ModuleCRM.
type DistanceConstraint struct {
	From string
	To   string
	Min  int
	Max  int
}

// ModuleCRM is a cis-regulatory module: a combination of motifs, optionally
// with order and spacing constraints.
type ModuleCRM struct {
	Name         string
	Constituents []ModuleMotif
	Ordered      bool
	MaxLength    int
	Distances    []DistanceConstraint
	Properties   map[string]any
}

// EntityName returns the module's Name.
func (m *ModuleCRM) EntityName() string { return m.Name }

// EntityKind returns KindModule.
func (m *ModuleCRM) EntityKind() Kind { return KindModule }

// Size is the number of constituents.
func (m *ModuleCRM) Size() int { return len(m.Constituents) }

// MotifNames returns the names of all motifs used by any constituent, in
// constituent order and without duplicates.
func (m *ModuleCRM) MotifNames() []string {
	seen := make(map[string]bool)

	var names []string

	for _, c := range m.Constituents {
		for _, motif := range c.Motifs {
			if seen[motif] {
				continue
			}

			seen[motif] = true
			names = append(names, motif)
		}
	}

	return names
}

// Constituent returns the constituent with the given name.
func (m *ModuleCRM) Constituent(name string) (ModuleMotif, bool) {
	for _, c := range m.Constituents {
		if c.Name == name {
			return c, true
		}
	}

	return ModuleMotif{}, false
}

// UsesMotif returns true if any constituent can be filled by the given motif.
func (m *ModuleCRM) UsesMotif(name string) bool {
	for _, c := range m.Constituents {
		if containsFold(c.Motifs, name) {
			return true
		}
	}

	return false
}

// Property returns the value of a standard or user-defined property.
func (m *ModuleCRM) Property(name string) (any, error) {
	switch strings.ToLower(name) {
	case "id", "name":
		return m.Name, nil
	case "size":
		return m.Size(), nil
	case "motifs":
		return m.MotifNames(), nil
	case "ordered":
		return m.Ordered, nil
	case "max length":
		return m.MaxLength, nil
	}

	if v, ok := lookupProperty(m.Properties, name); ok {
		return v, nil
	}

	return nil, ErrUnknownProperty
}

// SetProperty sets a user-defined property. The names of standard properties
// can not be used.
func (m *ModuleCRM) SetProperty(name string, value any) error {
	if isReserved(name, moduleStandardProperties) {
		return ErrReservedProperty
	}

	m.Properties = storeProperty(m.Properties, name, value)

	return nil
}

// Clone returns a deep copy of the ModuleCRM.
func (m *ModuleCRM) Clone() *ModuleCRM {
	c := *m
	c.Constituents = make([]ModuleMotif, len(m.Constituents))

	for i, mm := range m.Constituents {
		mm.Motifs = append([]string(nil), mm.Motifs...)
		c.Constituents[i] = mm
	}

	c.Distances = append([]DistanceConstraint(nil), m.Distances...)
	c.Properties = cloneProperties(m.Properties)

	return &c
}
