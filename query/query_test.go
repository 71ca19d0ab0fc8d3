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
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/types"
)

func TestParse(t *testing.T) {
	Convey("Empty and unknown strings can't be parsed", t, func() {
		_, err := Parse("  ")
		So(err, ShouldEqual, ErrEmptyQuery)

		_, err = Parse("Everything please")
		So(errors.Is(err, ErrUnknownForm), ShouldBeTrue)
	})

	Convey("You can parse predefined and random forms", t, func() {
		q, err := Parse("Predefined: JASPAR")
		So(err, ShouldBeNil)
		So(q.Form, ShouldEqual, FormPredefined)
		So(q.Name, ShouldEqual, "JASPAR")

		q, err = Parse("Random 10 from Motifs")
		So(err, ShouldBeNil)
		So(q.Form, ShouldEqual, FormRandom)
		So(q.Count, ShouldEqual, 10)
		So(q.Percent, ShouldBeFalse)
		So(q.From, ShouldEqual, "Motifs")

		q, err = Parse("random 25%")
		So(err, ShouldBeNil)
		So(q.Count, ShouldEqual, 25)
		So(q.Percent, ShouldBeTrue)
		So(q.From, ShouldEqual, "")

		q, err = Parse("Random 3 clusters")
		So(err, ShouldBeNil)
		So(q.Count, ShouldEqual, 3)

		_, err = Parse("Random 200%")
		So(errors.Is(err, ErrBadQuery), ShouldBeTrue)

		_, err = Parse("Random lots")
		So(errors.Is(err, ErrBadQuery), ShouldBeTrue)
	})

	Convey("You can parse list forms", t, func() {
		q, err := Parse("List: MA1, MA2; seq*")
		So(err, ShouldBeNil)
		So(q.Form, ShouldEqual, FormList)
		So(q.Entries, ShouldResemble, []string{"MA1", "MA2", "seq*"})

		_, err = Parse("From list: ,")
		So(errors.Is(err, ErrBadQuery), ShouldBeTrue)
	})

	Convey("You can parse map forms with conditions or options", t, func() {
		q, err := Parse("From map: expr >= 2.5")
		So(err, ShouldBeNil)
		So(q.Form, ShouldEqual, FormMap)
		So(q.Name, ShouldEqual, "expr")
		So(q.HasCondition, ShouldBeTrue)
		So(q.Condition.Op, ShouldEqual, OpGreaterEqual)
		So(q.Condition.Operands[0].Number, ShouldEqual, 2.5)

		q, err = Parse("Map: expr, bins=5")
		So(err, ShouldBeNil)
		So(q.HasCondition, ShouldBeFalse)
		So(q.Options, ShouldResemble, map[string]string{"bins": "5"})

		q, err = Parse("Map: expr, breaks=1,5,10")
		So(err, ShouldBeNil)
		So(q.Options["breaks"], ShouldEqual, "1,5,10")

		q, err = Parse("Map: expr")
		So(err, ShouldBeNil)
		So(q.Name, ShouldEqual, "expr")
		So(q.HasCondition, ShouldBeFalse)
	})

	Convey("You can parse property forms", t, func() {
		q, err := Parse("From property: IC-content >= 12")
		So(err, ShouldBeNil)
		So(q.Form, ShouldEqual, FormProperty)
		So(q.Name, ShouldEqual, "IC-content")
		So(q.Condition.Op, ShouldEqual, OpGreaterEqual)
		So(q.Condition.Operands[0].Number, ShouldEqual, 12)

		q, err = Parse("Property: Quality in [3,5]")
		So(err, ShouldBeNil)
		So(q.Name, ShouldEqual, "Quality")
		So(q.Condition.Op, ShouldEqual, OpIn)
		So(len(q.Condition.Operands), ShouldEqual, 2)

		q, err = Parse("Property: Short name matches AGL.*")
		So(err, ShouldBeNil)
		So(q.Name, ShouldEqual, "Short name")
		So(q.Condition.Op, ShouldEqual, OpMatches)
		So(q.Condition.Operands[0].Text, ShouldEqual, "AGL.*")

		q, err = Parse("Property: Classification, level=2")
		So(err, ShouldBeNil)
		So(q.Name, ShouldEqual, "Classification")
		So(q.HasCondition, ShouldBeFalse)
		So(q.Options["level"], ShouldEqual, "2")
	})

	Convey("You can parse track forms", t, func() {
		q, err := Parse("From track: TFBS, support >= 20%, collection=Upregulated")
		So(err, ShouldBeNil)
		So(q.Form, ShouldEqual, FormTrack)
		So(q.Name, ShouldEqual, "TFBS")
		So(q.Measure, ShouldEqual, MeasureSupport)
		So(q.Condition.Op, ShouldEqual, OpGreaterEqual)
		So(q.Condition.Percent, ShouldBeTrue)
		So(q.Condition.Operands[0].Number, ShouldEqual, 20)
		So(q.From, ShouldEqual, "Upregulated")

		q, err = Parse("supportMotif >= 20, collection=MySeqs")
		So(err, ShouldBeNil)
		So(q.Form, ShouldEqual, FormTrack)
		So(q.Name, ShouldEqual, "")
		So(q.Measure, ShouldEqual, MeasureSupport)
		So(q.From, ShouldEqual, "MySeqs")

		q, err = Parse("Track: TFBS, regions > 2")
		So(err, ShouldBeNil)
		So(q.Measure, ShouldEqual, MeasureRegions)
		So(q.Condition.Op, ShouldEqual, OpGreater)

		_, err = Parse("From track: TFBS")
		So(errors.Is(err, ErrBadQuery), ShouldBeTrue)

		_, err = Parse("Track: TFBS, popularity > 2")
		So(errors.Is(err, ErrBadQuery), ShouldBeTrue)
	})

	Convey("You can parse alternatives forms", t, func() {
		q, err := Parse("Alternatives")
		So(err, ShouldBeNil)
		So(q.Form, ShouldEqual, FormAlternatives)
		So(q.Name, ShouldEqual, "")

		q, err = Parse("from alternatives: MyMotifs")
		So(err, ShouldBeNil)
		So(q.Name, ShouldEqual, "MyMotifs")
	})
}

func TestCondition(t *testing.T) {
	Convey("You can parse conditions", t, func() {
		c, err := ParseCondition("in [1,5]")
		So(err, ShouldBeNil)
		So(c.Op, ShouldEqual, OpIn)
		So(c.Operands[0].Number, ShouldEqual, 1)
		So(c.Operands[1].Number, ShouldEqual, 5)

		c, err = ParseCondition("in 1 to 5")
		So(err, ShouldBeNil)
		So(len(c.Operands), ShouldEqual, 2)
		So(c.Operands[1].Number, ShouldEqual, 5)

		c, err = ParseCondition("not in [0,1]")
		So(err, ShouldBeNil)
		So(c.Op, ShouldEqual, OpNotIn)

		c, err = ParseCondition("!= 3")
		So(err, ShouldBeNil)
		So(c.Op, ShouldEqual, OpNotEqual)

		c, err = ParseCondition("= FULL,DIMER")
		So(err, ShouldBeNil)
		So(c.Op, ShouldEqual, OpEqual)
		So(len(c.Operands), ShouldEqual, 2)
		So(c.Operands[1].IsNumber, ShouldBeFalse)
		So(c.Operands[1].Text, ShouldEqual, "DIMER")

		c, err = ParseCondition("= '12'")
		So(err, ShouldBeNil)
		So(c.Operands[0].IsNumber, ShouldBeFalse)
		So(c.Operands[0].Text, ShouldEqual, "12")

		_, err = ParseCondition("20")
		So(errors.Is(err, ErrBadCondition), ShouldBeTrue)

		_, err = ParseCondition(">= 1, 2")
		So(errors.Is(err, ErrBadCondition), ShouldBeTrue)

		_, err = ParseCondition("in [1]")
		So(errors.Is(err, ErrBadCondition), ShouldBeTrue)
	})

	Convey("Conditions print in parsable form", t, func() {
		So(NewNumericCondition(OpIn, 1, 5).String(), ShouldEqual, "in [1,5]")
		So(NewTextCondition(OpEqual, "a", "b").String(), ShouldEqual, "= a,b")

		c, err := ParseCondition(">= 20%")
		So(err, ShouldBeNil)
		So(c.String(), ShouldEqual, ">= 20%")
	})

	Convey("You can match numbers", t, func() {
		c := NewNumericCondition(OpGreaterEqual, 10)

		match, err := c.MatchValue(12, nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = c.MatchValue(5.5, nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeFalse)

		match, err = c.MatchValue("15", nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = c.MatchValue("abc", nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeFalse)

		match, err = NewNumericCondition(OpIn, 5, 1).MatchNumber(3, nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = NewNumericCondition(OpNotIn, 1, 5).MatchNumber(3, nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeFalse)
	})

	Convey("Non-numeric operands are resolved", t, func() {
		c, err := ParseCondition(">= expr")
		So(err, ShouldBeNil)

		resolve := func(ref string) (float64, error) {
			if ref == "expr" {
				return 3, nil
			}

			return 0, ErrMissingSource
		}

		match, err := c.MatchNumber(5, resolve)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = c.MatchNumber(2, resolve)
		So(err, ShouldBeNil)
		So(match, ShouldBeFalse)

		_, err = c.MatchNumber(5, nil)
		So(errors.Is(err, ErrBadCondition), ShouldBeTrue)

		c, err = ParseCondition("< other")
		So(err, ShouldBeNil)

		_, err = c.MatchNumber(5, resolve)
		So(err, ShouldEqual, ErrMissingSource)
	})

	Convey("You can match text and lists", t, func() {
		c := NewTextCondition(OpEqual, "FULL", "DIMER")

		match, err := c.MatchValue("dimer", nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = c.MatchValue("HALFSITE", nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeFalse)

		match, err = NewTextCondition(OpEqual, "mads").MatchValue([]string{"bZIP", "MADS"}, nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = NewTextCondition(OpNotEqual, "mads").MatchValue([]string{"bZIP", "MADS"}, nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeFalse)

		match, err = NewTextCondition(OpMatches, "MA0.*").MatchValue("ma0001", nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = NewTextCondition(OpNotMatches, "MA0.*").MatchValue("M1", nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = NewTextCondition(OpContains, "box").MatchValue("MADS-Box", nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = NewTextCondition(OpEqual, "true").MatchValue(true, nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeTrue)

		match, err = c.MatchValue(nil, nil)
		So(err, ShouldBeNil)
		So(match, ShouldBeFalse)

		_, err = NewTextCondition(OpMatches, "(").MatchValue("x", nil)
		So(errors.Is(err, ErrBadCondition), ShouldBeTrue)
	})
}

type mockList struct {
	name  string
	kind  types.Kind
	names []string
}

func (m *mockList) Name() string { return m.name }
func (m *mockList) Kind() types.Kind { return m.kind }
func (m *mockList) Names() []string { return m.names }

type mockPartition struct {
	name     string
	clusters map[string][]string
}

func (m *mockPartition) Name() string { return m.name }
func (m *mockPartition) Kind() types.Kind { return types.KindSequence }
func (m *mockPartition) Members(cluster string) []string { return m.clusters[cluster] }

func (m *mockPartition) Cluster(entity string) (string, bool) {
	for cluster, members := range m.clusters {
		for _, member := range members {
			if member == entity {
				return cluster, true
			}
		}
	}

	return "", false
}

func (m *mockPartition) Clusters() []string {
	clusters := make([]string, 0, len(m.clusters))
	for cluster := range m.clusters {
		clusters = append(clusters, cluster)
	}

	return clusters
}

func TestExpand(t *testing.T) {
	Convey("Given a registry of sequences, a collection and a partition", t, func() {
		r := engine.New()

		for _, name := range []string{"seq1", "seq2", "seq3", "seq10", "other"} {
			s, err := types.NewSequence(name, "chr1", 1, 100)
			So(err, ShouldBeNil)
			So(r.AddSequence(s), ShouldBeNil)
		}

		So(r.AddCollection(&mockList{name: "favs", kind: types.KindSequence,
			names: []string{"seq3", "other"}}), ShouldBeNil)
		So(r.AddPartition(&mockPartition{name: "parts",
			clusters: map[string][]string{"A": {"seq1", "seq2"}}}), ShouldBeNil)

		Convey("You can expand names, collections and clusters", func() {
			names, err := Expand(r, types.KindSequence, "seq1")
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"seq1"})

			names, err = Expand(r, types.KindSequence, "favs")
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"seq3", "other"})

			names, err = Expand(r, types.KindSequence, "parts->A")
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"seq1", "seq2"})

			_, err = Expand(r, types.KindSequence, "parts->Z")
			So(errors.Is(err, ErrNotACluster), ShouldBeTrue)

			_, err = Expand(r, types.KindSequence, "nopart->A")
			So(errors.Is(err, ErrUnknownEntry), ShouldBeTrue)
			So(errors.Is(err, engine.ErrNotFound), ShouldBeTrue)
		})

		Convey("You can expand wildcards and numbered ranges", func() {
			names, err := Expand(r, types.KindSequence, "seq1*")
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"seq1", "seq10"})

			names, err = Expand(r, types.KindSequence, "seq?")
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"seq1", "seq2", "seq3"})

			names, err = Expand(r, types.KindSequence, "seq2-seq10")
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"seq2", "seq3", "seq10"})
		})

		Convey("Unknown entries and entries of the wrong kind are errors", func() {
			_, err := Expand(r, types.KindSequence, "unknown")
			So(errors.Is(err, ErrUnknownEntry), ShouldBeTrue)

			_, err = Expand(r, types.KindMotif, "seq1")
			So(errors.Is(err, ErrUnknownEntry), ShouldBeTrue)
		})

		Convey("ExpandAll combines entries without duplicates", func() {
			names, err := ExpandAll(r, types.KindSequence, []string{"seq1", "seq1*", "favs"})
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"seq1", "seq10", "seq3", "other"})

			_, err = ExpandAll(r, types.KindSequence, []string{"seq1", "nothing"})
			So(errors.Is(err, ErrUnknownEntry), ShouldBeTrue)
		})
	})
}
