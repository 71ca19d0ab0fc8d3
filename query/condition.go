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

package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Operator compares a value against the operands of a Condition.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "<>"
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpIn           Operator = "in"
	OpNotIn        Operator = "not in"
	OpMatches      Operator = "matches"
	OpNotMatches   Operator = "not matches"
	OpContains     Operator = "contains"
	OpNotContains  Operator = "not contains"
)

var negations = map[Operator]Operator{
	OpNotEqual:    OpEqual,
	OpNotIn:       OpIn,
	OpNotMatches:  OpMatches,
	OpNotContains: OpContains,
}

// Operand is one value on the right-hand side of a Condition. Operands that
// are not numbers may name a numeric map, to compare against the map's value
// for the entity being tested.
type Operand struct {
	Text     string
	Number   float64
	IsNumber bool
}

// Condition is an operator with its operands, eg. ">= 20" or "in [0, 5]".
type Condition struct {
	Op       Operator
	Operands []Operand
	Percent  bool
}

// Resolver returns the number a non-numeric operand stands for, typically the
// value of a numeric map for the entity being tested.
type Resolver func(ref string) (float64, error)

// NewNumericCondition is a convenience for building a Condition on numbers
// without parsing.
func NewNumericCondition(op Operator, numbers ...float64) Condition {
	c := Condition{Op: op}

	for _, n := range numbers {
		c.Operands = append(c.Operands, Operand{
			Text:     strconv.FormatFloat(n, 'f', -1, 64),
			Number:   n,
			IsNumber: true,
		})
	}

	return c
}

// NewTextCondition is a convenience for building a Condition on strings
// without parsing.
func NewTextCondition(op Operator, values ...string) Condition {
	c := Condition{Op: op}

	for _, v := range values {
		c.Operands = append(c.Operands, Operand{Text: v})
	}

	return c
}

// String returns a parsable representation of the condition.
func (c Condition) String() string {
	texts := make([]string, len(c.Operands))

	for i, o := range c.Operands {
		texts[i] = o.Text
		if c.Percent && o.IsNumber {
			texts[i] += "%"
		}
	}

	if c.Op == OpIn || c.Op == OpNotIn {
		return fmt.Sprintf("%s [%s]", c.Op, strings.Join(texts, ","))
	}

	return fmt.Sprintf("%s %s", c.Op, strings.Join(texts, ","))
}

// Validate checks the condition has the right number of operands for its
// operator.
func (c Condition) Validate() error {
	switch c.Op {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpMatches, OpNotMatches:
		if len(c.Operands) != 1 {
			return fmt.Errorf("%w: %q needs exactly one operand", ErrBadCondition, c.Op)
		}
	case OpIn, OpNotIn:
		if len(c.Operands) != 2 { //nolint:mnd
			return fmt.Errorf("%w: %q needs a [min,max] range", ErrBadCondition, c.Op)
		}
	case OpEqual, OpNotEqual, OpContains, OpNotContains:
		if len(c.Operands) == 0 {
			return fmt.Errorf("%w: %q needs at least one operand", ErrBadCondition, c.Op)
		}
	default:
		return fmt.Errorf("%w: unknown operator %q", ErrBadCondition, c.Op)
	}

	return nil
}

// MatchNumber tests a number against the condition. Non-numeric operands are
// converted to numbers with the resolver, which may be nil if all operands
// are numbers.
func (c Condition) MatchNumber(v float64, resolve Resolver) (bool, error) {
	if positive, negated := negations[c.Op]; negated {
		c.Op = positive
		match, err := c.MatchNumber(v, resolve)

		return !match, err
	}

	if c.Op == OpMatches || c.Op == OpContains {
		return c.matchText(strconv.FormatFloat(v, 'f', -1, 64))
	}

	nums, err := c.numbers(resolve)
	if err != nil {
		return false, err
	}

	return compareNumber(c.Op, v, nums), nil
}

func (c Condition) numbers(resolve Resolver) ([]float64, error) {
	nums := make([]float64, len(c.Operands))

	for i, o := range c.Operands {
		if o.IsNumber {
			nums[i] = o.Number

			continue
		}

		if resolve == nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrBadCondition, o.Text)
		}

		n, err := resolve(o.Text)
		if err != nil {
			return nil, err
		}

		nums[i] = n
	}

	return nums, nil
}

func compareNumber(op Operator, v float64, nums []float64) bool {
	switch op {
	case OpEqual:
		for _, n := range nums {
			if v == n {
				return true
			}
		}

		return false
	case OpLess:
		return v < nums[0]
	case OpLessEqual:
		return v <= nums[0]
	case OpGreater:
		return v > nums[0]
	case OpGreaterEqual:
		return v >= nums[0]
	case OpIn:
		lo, hi := nums[0], nums[1]
		if lo > hi {
			lo, hi = hi, lo
		}

		return v >= lo && v <= hi
	default:
		return false
	}
}

// MatchValue tests a property value against the condition. Numbers (ints and
// floats) are compared numerically; strings and bools are compared
// case-insensitively; for lists of strings the condition holds if any element
// matches (or, for negated operators, if no element matches the positive
// form).
func (c Condition) MatchValue(v any, resolve Resolver) (bool, error) {
	if positive, negated := negations[c.Op]; negated {
		c.Op = positive
		match, err := c.MatchValue(v, resolve)

		return !match, err
	}

	switch val := v.(type) {
	case nil:
		return false, nil
	case int:
		return c.MatchNumber(float64(val), resolve)
	case int64:
		return c.MatchNumber(float64(val), resolve)
	case float32:
		return c.MatchNumber(float64(val), resolve)
	case float64:
		return c.MatchNumber(val, resolve)
	case bool:
		return c.matchString(strconv.FormatBool(val), resolve)
	case string:
		return c.matchString(val, resolve)
	case []string:
		for _, s := range val {
			match, err := c.matchString(s, resolve)
			if err != nil || match {
				return match, err
			}
		}

		return false, nil
	default:
		return c.matchString(fmt.Sprint(val), resolve)
	}
}

// matchString handles the positive operators for a single string value.
func (c Condition) matchString(s string, resolve Resolver) (bool, error) {
	switch c.Op {
	case OpEqual:
		for _, o := range c.Operands {
			if strings.EqualFold(s, o.Text) {
				return true, nil
			}
		}

		return false, nil
	case OpMatches, OpContains:
		return c.matchText(s)
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return false, nil //nolint:nilerr
		}

		return c.MatchNumber(f, resolve)
	}
}

func (c Condition) matchText(s string) (bool, error) {
	for _, o := range c.Operands {
		if c.Op == OpContains {
			if strings.Contains(strings.ToLower(s), strings.ToLower(o.Text)) {
				return true, nil
			}

			continue
		}

		re, err := regexp.Compile("(?i)^(?:" + o.Text + ")$")
		if err != nil {
			return false, fmt.Errorf("%w: %s", ErrBadCondition, err.Error())
		}

		if re.MatchString(s) {
			return true, nil
		}
	}

	return false, nil
}
