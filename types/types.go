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
	"regexp"
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidName       = Error("invalid name")
	ErrUnknownProperty   = Error("unknown property")
	ErrReservedProperty  = Error("property name is reserved")
	ErrInvalidKind       = Error("invalid entity kind")
	ErrInvalidCoordinate = Error("start must not be after end")
)

// Kind is the type of entity a Collection or Partition refers to.
type Kind string

const (
	KindMotif    Kind = "motif"
	KindModule   Kind = "module"
	KindSequence Kind = "sequence"
)

// StringToKind converts a string to a Kind. Plural forms and the names used
// by MotifLab for the collection types ("Motif Collection" etc.) are also
// accepted.
func StringToKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, " collection")
	s = strings.TrimSuffix(s, " partition")
	s = strings.TrimSuffix(s, "s")

	switch Kind(s) {
	case KindMotif:
		return KindMotif, nil
	case KindModule, Kind("modulecrm"):
		return KindModule, nil
	case KindSequence:
		return KindSequence, nil
	default:
		return "", ErrInvalidKind
	}
}

// Entity is implemented by Motif, ModuleCRM and Sequence: things that can be
// referred to by name from a Collection or Partition.
type Entity interface {
	// EntityName returns the unique name of the entity.
	EntityName() string

	// EntityKind returns which Kind of entity this is.
	EntityKind() Kind

	// Property returns the value of the standard or user-defined property
	// with the given (case-insensitive) name.
	Property(name string) (any, error)
}

var validName = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// ValidateName returns ErrInvalidName if the given name is not suitable for a
// data item or cluster: it must be non-empty and only contain letters, digits,
// underscores, periods and hyphens.
func ValidateName(name string) error {
	if !validName.MatchString(name) {
		return ErrInvalidName
	}

	return nil
}

// lookupProperty finds a user-defined property by case-insensitive name.
func lookupProperty(p map[string]any, name string) (any, bool) {
	if v, ok := p[name]; ok {
		return v, true
	}

	for k, v := range p {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}

	return nil, false
}

// storeProperty sets a user-defined property, replacing any existing property
// whose name differs only in case. The map is created if nil, so callers must
// use the returned map.
func storeProperty(p map[string]any, name string, value any) map[string]any {
	if p == nil {
		p = make(map[string]any)
	}

	for k := range p {
		if strings.EqualFold(k, name) && k != name {
			delete(p, k)
		}
	}

	p[name] = value

	return p
}

func cloneProperties(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}

	c := make(map[string]any, len(p))

	for k, v := range p {
		if list, ok := v.([]string); ok {
			v = append(list[:0:0], list...)
		}

		c[k] = v
	}

	return c
}

func isReserved(name string, standard []string) bool {
	for _, s := range standard {
		if strings.EqualFold(s, name) {
			return true
		}
	}

	return false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}

	return false
}
