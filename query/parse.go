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

// Package query parses the textual forms used to construct collections and
// partitions, such as "From property: IC-content >= 12" or
// "From track: TFBS, support >= 20%, collection=Upregulated", and provides
// the typed Conditions they contain.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrEmptyQuery    = Error("empty construction string")
	ErrUnknownForm   = Error("unrecognised construction form")
	ErrBadQuery      = Error("malformed construction string")
	ErrBadCondition  = Error("malformed condition")
	ErrUnknownEntry  = Error("unknown entry")
	ErrNotACluster   = Error("cluster not found in partition")
	ErrMissingSource = Error("referenced data item not found")
)

// Form is the kind of construction a Query describes.
type Form string

const (
	FormPredefined   Form = "predefined"
	FormRandom       Form = "random"
	FormList         Form = "list"
	FormMap          Form = "map"
	FormProperty     Form = "property"
	FormTrack        Form = "track"
	FormAlternatives Form = "alternatives"
)

// Track measures.
const (
	MeasureSupport  = "support"
	MeasureRegions  = "regions"
	MeasureCoverage = "coverage"
)

// Query is a parsed construction string.
type Query struct {
	Form Form

	// Text is the original construction string.
	Text string

	// Name is the predefined collection, map, property or track the query is
	// based on, or the collection alternatives are restricted to.
	Name string

	// Entries are the comma-separated items of a list.
	Entries []string

	// Condition applies to map values, property values or track measures.
	Condition Condition

	// HasCondition is false for partition forms that group rather than filter.
	HasCondition bool

	// Count and Percent are the sample size of a random query (or number of
	// clusters for partitions).
	Count   float64
	Percent bool

	// From is the collection a random sample is taken from, or the sequence
	// collection a track query is restricted to.
	From string

	// Measure is what a track query measures: support, regions or coverage.
	Measure string

	// Options are key=value settings such as bins=5 or level=2.
	Options map[string]string
}

var (
	prefixes = []struct {
		re   *regexp.Regexp
		form Form
	}{
		{regexp.MustCompile(`(?i)^predefined\s*:\s*`), FormPredefined},
		{regexp.MustCompile(`(?i)^random\s+`), FormRandom},
		{regexp.MustCompile(`(?i)^(?:from\s+)?list\s*:\s*`), FormList},
		{regexp.MustCompile(`(?i)^(?:from\s+)?map\s*:\s*`), FormMap},
		{regexp.MustCompile(`(?i)^(?:from\s+)?property\s*:\s*`), FormProperty},
		{regexp.MustCompile(`(?i)^(?:from\s+)?track\s*:\s*`), FormTrack},
		{regexp.MustCompile(`(?i)^(?:from\s+)?alternatives\s*(?::\s*|$)`), FormAlternatives},
	}

	randomRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(%)?(?:\s+clusters?)?(?:\s+from\s+(\S+))?\s*$`)
)

// Parse parses a construction string. A string starting with a track measure,
// eg. "supportMotif >= 20, collection=MySeqs", is taken to be a track query.
func Parse(text string) (*Query, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyQuery
	}

	for _, p := range prefixes {
		loc := p.re.FindStringIndex(trimmed)
		if loc == nil {
			continue
		}

		q := &Query{Form: p.form, Text: trimmed}
		rest := strings.TrimSpace(trimmed[loc[1]:])

		if err := q.parseRest(rest); err != nil {
			return nil, err
		}

		return q, nil
	}

	if measureRe.MatchString(trimmed) {
		q := &Query{Form: FormTrack, Text: trimmed}
		if err := q.parseTrack(trimmed); err != nil {
			return nil, err
		}

		return q, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownForm, trimmed)
}

func (q *Query) parseRest(rest string) error {
	switch q.Form {
	case FormPredefined:
		return q.parseName(rest)
	case FormRandom:
		return q.parseRandom(rest)
	case FormList:
		q.Entries = splitList(rest)
		if len(q.Entries) == 0 {
			return fmt.Errorf("%w: empty list", ErrBadQuery)
		}

		return nil
	case FormMap:
		return q.parseMap(rest)
	case FormProperty:
		return q.parseProperty(rest)
	case FormTrack:
		return q.parseTrack(rest)
	case FormAlternatives:
		q.Name = unquote(rest)

		return nil
	}

	return ErrUnknownForm
}

func (q *Query) parseName(rest string) error {
	q.Name = unquote(rest)
	if q.Name == "" {
		return fmt.Errorf("%w: missing name", ErrBadQuery)
	}

	return nil
}

func (q *Query) parseRandom(rest string) error {
	m := randomRe.FindStringSubmatch(rest)
	if m == nil {
		return fmt.Errorf("%w: expected \"Random <n>[%%] [from <collection>]\"", ErrBadQuery)
	}

	count, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadQuery, err.Error())
	}

	q.Count = count
	q.Percent = m[2] == "%"
	q.From = m[3]

	if q.Percent && count > 100 { //nolint:mnd
		return fmt.Errorf("%w: percentage above 100", ErrBadQuery)
	}

	return nil
}

// parseMap handles "<map> <op> <operands>" and "<map>, key=value, ...".
func (q *Query) parseMap(rest string) error {
	name, remainder := splitFirstToken(rest)
	if name == "" {
		return fmt.Errorf("%w: missing map name", ErrBadQuery)
	}

	q.Name = name

	remainder = strings.TrimSpace(remainder)

	if remainder == "" {
		return nil
	}

	if strings.HasPrefix(remainder, ",") {
		q.Options = parseOptions(remainder[1:])

		return nil
	}

	c, err := ParseCondition(remainder)
	if err != nil {
		return err
	}

	q.Condition = c
	q.HasCondition = true

	return nil
}

// parseProperty handles "<property> <op> <operands>" and
// "<property>[, key=value, ...]". Property names may contain spaces.
func (q *Query) parseProperty(rest string) error {
	parts := splitTopLevel(rest, ',')
	head := strings.TrimSpace(parts[0])

	loc := findOperator(head)
	if loc == nil {
		q.Name = unquote(head)
		if q.Name == "" {
			return fmt.Errorf("%w: missing property name", ErrBadQuery)
		}

		q.Options = parseOptions(strings.Join(parts[1:], ","))

		return nil
	}

	q.Name = unquote(strings.TrimSpace(rest[:loc[0]]))
	if q.Name == "" {
		return fmt.Errorf("%w: missing property name", ErrBadQuery)
	}

	c, err := ParseCondition(rest[loc[0]:])
	if err != nil {
		return err
	}

	q.Condition = c
	q.HasCondition = true

	return nil
}

var measureRe = regexp.MustCompile(`(?i)^(support(?:motifs?|modules?)?|regions|coverage)\b\s*`)

// parseTrack handles "<track>, <measure> <op> <operand>[, collection=<seqs>]".
// The track name may be left out, eg. "supportMotif >= 20, collection=MySeqs",
// in which case the Name is blank and the sole registered track is implied.
func (q *Query) parseTrack(rest string) error {
	parts := splitTopLevel(rest, ',')

	if !measureRe.MatchString(strings.TrimSpace(parts[0])) {
		q.Name = unquote(strings.TrimSpace(parts[0]))
		parts = parts[1:]
	}

	for _, part := range parts {
		part = strings.TrimSpace(part)

		if key, value, ok := option(part); ok && (key == "collection" || key == "sequences") {
			q.From = value

			continue
		}

		m := measureRe.FindStringSubmatch(part)
		if m == nil {
			return fmt.Errorf("%w: unexpected %q", ErrBadQuery, part)
		}

		q.Measure = strings.ToLower(m[1])
		if strings.HasPrefix(q.Measure, MeasureSupport) {
			q.Measure = MeasureSupport
		}

		c, err := ParseCondition(part[len(m[0]):])
		if err != nil {
			return err
		}

		q.Condition = c
		q.HasCondition = true
	}

	if !q.HasCondition {
		return fmt.Errorf("%w: track query needs a condition", ErrBadQuery)
	}

	return nil
}

var operatorRe = regexp.MustCompile(
	`(?i)(<=|>=|<>|!=|==|=|<|>|\bnot\s+matches\b|\bnot\s+contains\b|\bnot\s+in\b|\bmatches\b|\bcontains\b|\bin\b)`)

// findOperator returns the location of the first operator in s.
func findOperator(s string) []int {
	return operatorRe.FindStringIndex(s)
}

// ParseCondition parses text such as ">= 20", "in [1,5]", "= FULL,DIMER" or
// "matches M0.*".
func ParseCondition(text string) (Condition, error) {
	text = strings.TrimSpace(text)

	loc := findOperator(text)
	if loc == nil || loc[0] != 0 {
		return Condition{}, fmt.Errorf("%w: no operator in %q", ErrBadCondition, text)
	}

	op := normaliseOperator(text[:loc[1]])
	operandText := strings.TrimSpace(text[loc[1]:])

	c := Condition{Op: op}

	var raw []string

	switch op {
	case OpMatches, OpNotMatches:
		raw = []string{operandText}
	case OpIn, OpNotIn:
		raw = splitRange(operandText)
	default:
		raw = splitList(operandText)
	}

	for _, r := range raw {
		o, percent := parseOperand(r, op)
		c.Operands = append(c.Operands, o)
		c.Percent = c.Percent || percent
	}

	return c, c.Validate()
}

func normaliseOperator(s string) Operator {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")

	switch s {
	case "==":
		return OpEqual
	case "!=":
		return OpNotEqual
	default:
		return Operator(s)
	}
}

func parseOperand(s string, op Operator) (Operand, bool) {
	s = strings.TrimSpace(s)

	if isQuoted(s) || op == OpMatches || op == OpNotMatches {
		return Operand{Text: unquote(s)}, false
	}

	percent := strings.HasSuffix(s, "%")
	numText := strings.TrimSpace(strings.TrimSuffix(s, "%"))

	if f, err := strconv.ParseFloat(numText, 64); err == nil {
		return Operand{Text: numText, Number: f, IsNumber: true}, percent
	}

	return Operand{Text: s}, false
}

// splitRange splits "[a,b]", "a,b" or "a to b".
func splitRange(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	if parts := splitList(s); len(parts) > 1 {
		return parts
	}

	return strings.Fields(strings.Replace(strings.ToLower(s), " to ", " ", 1))
}

// splitList splits on commas, semicolons and newlines that are not inside
// quotes or brackets, trimming and dropping empty items.
func splitList(s string) []string {
	s = strings.NewReplacer(";", ",", "\n", ",").Replace(s)

	var items []string

	for _, item := range splitTopLevel(s, ',') {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

// splitTopLevel splits s on sep where sep is not inside quotes or brackets.
func splitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)

	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[' || r == '(':
			depth++
		case r == ']' || r == ')':
			depth--
		case r == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + len(string(r))
		}
	}

	return append(parts, s[start:])
}

// splitFirstToken splits off the first whitespace- or comma-delimited token.
func splitFirstToken(s string) (string, string) {
	s = strings.TrimSpace(s)

	i := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ',' || r == '<' || r == '>' || r == '=' || r == '!'
	})
	if i < 0 {
		return unquote(s), ""
	}

	return unquote(s[:i]), s[i:]
}

// parseOptions parses "key=value, key=value". A value may itself contain
// commas, eg. "breaks=1,5,10", since items without an = are appended to the
// previous value.
func parseOptions(s string) map[string]string {
	opts := make(map[string]string)

	var last string

	for _, item := range splitList(s) {
		key, value, ok := option(item)
		if !ok {
			if last != "" {
				opts[last] += "," + item
			}

			continue
		}

		opts[key] = value
		last = key
	}

	return opts
}

func option(item string) (string, string, bool) {
	key, value, ok := strings.Cut(item, "=")
	if !ok {
		return "", "", false
	}

	return strings.ToLower(strings.TrimSpace(key)), unquote(strings.TrimSpace(value)), true
}

func isQuoted(s string) bool {
	return len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] //nolint:mnd
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}

	return s
}
