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

package partition

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/query"
	"github.com/wtsi-hgi/motiflab-data/types"
	"gonum.org/v1/gonum/stat"
)

const binPrefix = "Bin"

// Binning says how FromMap groups numeric values. Set at most one of Bins
// (equal-width bins between the smallest and largest value), Quantiles
// (bins holding roughly equal numbers of entities) or Breaks (explicit bin
// boundaries; a value equal to a boundary goes in the higher bin). With none
// set, each distinct value gets its own cluster.
type Binning struct {
	Bins      int
	Quantiles int
	Breaks    []float64
}

func binningFromOptions(opts map[string]string) (Binning, error) {
	var (
		b   Binning
		set int
		err error
	)

	if _, ok := opts[optBins]; ok {
		set++

		if b.Bins, err = intOption(opts, optBins); err != nil {
			return b, err
		}
	}

	if _, ok := opts[optQuantiles]; ok {
		set++

		if b.Quantiles, err = intOption(opts, optQuantiles); err != nil {
			return b, err
		}
	}

	if v, ok := opts[optBreaks]; ok {
		set++

		if b.Breaks, err = parseBreaks(v); err != nil {
			return b, err
		}
	}

	if set > 1 {
		return b, fmt.Errorf("%w: give only one of bins, quantiles or breaks", ErrBadOption)
	}

	return b, nil
}

func parseBreaks(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	breaks := make([]float64, 0, len(parts))

	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: breaks=%s", ErrBadOption, s)
		}

		breaks = append(breaks, f)
	}

	sort.Float64s(breaks)

	return slices.Compact(breaks), nil
}

// FromMap returns a partition of the candidate entities grouped by their value
// in the named numeric map. Clusters are named Bin1, Bin2 etc. in ascending
// value order, except when grouping by distinct value, where the value itself
// is the cluster name.
func FromMap(r *engine.Registry, name string, kind types.Kind, mapName string,
	candidates []string, binning Binning) (*Partition, error) {
	m, ok := r.NumericMap(mapName)
	if !ok {
		return nil, fmt.Errorf("%w: numeric map %q", query.ErrMissingSource, mapName)
	}

	if m.Kind != "" && m.Kind != kind {
		return nil, fmt.Errorf("%w: %q is a %s map", engine.ErrWrongKind, mapName, m.Kind)
	}

	p, err := New(name, kind)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(candidates))
	for i, entity := range candidates {
		values[i] = m.Value(entity)
	}

	label, err := labeller(values, binning)
	if err != nil {
		return nil, err
	}

	for i, entity := range candidates {
		if err := p.Add(entity, label(values[i])); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func labeller(values []float64, b Binning) (func(float64) string, error) {
	switch {
	case len(b.Breaks) > 0:
		return breaksLabeller(b.Breaks), nil
	case b.Bins > 0:
		return equalWidthLabeller(values, b.Bins), nil
	case b.Quantiles > 0:
		return breaksLabeller(quantileBreaks(values, b.Quantiles)), nil
	case b.Bins < 0 || b.Quantiles < 0:
		return nil, ErrBadOption
	default:
		return func(v float64) string {
			return sanitiseClusterName(strconv.FormatFloat(v, 'f', -1, 64))
		}, nil
	}
}

func binName(i int) string {
	return binPrefix + strconv.Itoa(i+1)
}

// breaksLabeller puts values below breaks[0] in Bin1, values in
// [breaks[0], breaks[1]) in Bin2, and so on.
func breaksLabeller(breaks []float64) func(float64) string {
	return func(v float64) string {
		return binName(sort.Search(len(breaks), func(i int) bool { return breaks[i] > v }))
	}
}

func equalWidthLabeller(values []float64, n int) func(float64) string {
	lo, hi := minMax(values)
	width := (hi - lo) / float64(n)

	return func(v float64) string {
		if width == 0 {
			return binName(0)
		}

		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}

		return binName(i)
	}
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	lo, hi := values[0], values[0]

	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	return lo, hi
}

// quantileBreaks returns the n-1 empirical quantiles dividing values into n
// groups. A value equal to a quantile goes in the higher group, so breaks are
// nudged to the next distinct value where needed to keep the quantile value
// itself in the lower group. Repeated breaks are dropped, so heavily tied
// values can give fewer than n groups.
func quantileBreaks(values []float64, n int) []float64 {
	if len(values) == 0 || n < 2 { //nolint:mnd
		return nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	breaks := make([]float64, 0, n-1)

	for i := 1; i < n; i++ {
		q := stat.Quantile(float64(i)/float64(n), stat.Empirical, sorted, nil)

		j := sort.Search(len(sorted), func(k int) bool { return sorted[k] > q })
		if j == len(sorted) {
			break
		}

		if len(breaks) == 0 || breaks[len(breaks)-1] != sorted[j] {
			breaks = append(breaks, sorted[j])
		}
	}

	return breaks
}
