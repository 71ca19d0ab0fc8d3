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

const ErrInvalidOrientation = Error("invalid orientation")

// Orientation is the strand of a Sequence or Region.
type Orientation int

const (
	Reverse       Orientation = -1
	Indeterminate Orientation = 0
	Direct        Orientation = 1
)

// StringToOrientation converts a string to an Orientation. It understands
// "+", "-", ".", "1", "-1", "0" and the words direct, reverse and
// indeterminate.
func StringToOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "1", "+1", "direct":
		return Direct, nil
	case "-", "-1", "reverse":
		return Reverse, nil
	case ".", "0", "", "indeterminate", "undetermined":
		return Indeterminate, nil
	default:
		return Indeterminate, ErrInvalidOrientation
	}
}

// String returns "+", "-" or ".".
func (o Orientation) String() string {
	switch o {
	case Direct:
		return "+"
	case Reverse:
		return "-"
	default:
		return "."
	}
}
