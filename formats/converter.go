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
	"strconv"
	"strings"

	"github.com/wtsi-hgi/motiflab-data/types"
)

// Converter converts strings to other types. The conversions do not return
// errors, but instead set the Err field. Check that field after doing all
// your conversions.
type Converter struct {
	Err error
}

// ToInt converts a string to an int. If the conversion fails, the error
// field is set, and 0 is returned.
//
// If the error field is already set, this function does nothing and returns 0.
func (c *Converter) ToInt(s string) int {
	if c.Err != nil {
		return 0
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		c.Err = err

		return 0
	}

	return i
}

// ToFloat converts a string to a float64. If the conversion fails, the error
// field is set, and 0 is returned.
//
// If the error field is already set, this function does nothing and returns 0.
func (c *Converter) ToFloat(s string) float64 {
	if c.Err != nil {
		return 0
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		c.Err = err

		return 0
	}

	return f
}

// ToList splits a comma-separated string into its trimmed, non-empty items.
func (c *Converter) ToList(s string) []string {
	if c.Err != nil {
		return nil
	}

	var items []string

	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items
}

// ToOrientation converts a string to an Orientation. If the conversion fails,
// the error field is set, and Indeterminate is returned.
//
// If the error field is already set, this function does nothing and returns
// Indeterminate.
func (c *Converter) ToOrientation(s string) types.Orientation {
	if c.Err != nil {
		return types.Indeterminate
	}

	o, err := types.StringToOrientation(s)
	c.Err = err

	return o
}

// ToMotifPart converts a string to a MotifPart. If the conversion fails, the
// error field is set, and PartFull is returned.
//
// If the error field is already set, this function does nothing and returns
// PartFull.
func (c *Converter) ToMotifPart(s string) types.MotifPart {
	if c.Err != nil {
		return types.PartFull
	}

	p, err := types.StringToMotifPart(s)
	if err != nil {
		c.Err = err

		return types.PartFull
	}

	return p
}

// ToProperty converts a user-defined property value to a number if it looks
// like one, a list if it contains commas, or leaves it as a string. It never
// sets the error field.
func (c *Converter) ToProperty(s string) any {
	s = strings.TrimSpace(s)

	if i, err := strconv.Atoi(s); err == nil {
		return i
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	if strings.Contains(s, ",") {
		return c.ToList(s)
	}

	return s
}
