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
	"errors"
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/motiflab-data/collection"
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/query"
	"github.com/wtsi-hgi/motiflab-data/types"
)

func TestPartition(t *testing.T) {
	Convey("Partitions need a valid name and kind", t, func() {
		_, err := New("", types.KindMotif)
		So(err, ShouldEqual, types.ErrInvalidName)

		_, err = New("p", types.Kind("gene"))
		So(err, ShouldEqual, types.ErrInvalidKind)
	})

	Convey("Given a Partition", t, func() {
		p, err := New("p", types.KindSequence)
		So(err, ShouldBeNil)

		So(p.Add("s1", "Cluster10"), ShouldBeNil)
		So(p.Add("s2", "Cluster2"), ShouldBeNil)
		So(p.Add("s3", "Cluster10"), ShouldBeNil)
		So(p.Add("s4", "A"), ShouldBeNil)

		So(p.Add("s5", "bad cluster"), ShouldEqual, types.ErrInvalidName)

		Convey("You can query its clusters", func() {
			So(p.Size(), ShouldEqual, 4)
			So(p.Clusters(), ShouldResemble, []string{"A", "Cluster2", "Cluster10"})
			So(p.NumberOfClusters(), ShouldEqual, 3)
			So(p.Members("Cluster10"), ShouldResemble, []string{"s1", "s3"})
			So(p.ClusterSizes(), ShouldResemble, map[string]int{"A": 1, "Cluster2": 1, "Cluster10": 2})
			So(p.Entities(), ShouldResemble, []string{"s1", "s2", "s3", "s4"})

			c, ok := p.Cluster("s2")
			So(ok, ShouldBeTrue)
			So(c, ShouldEqual, "Cluster2")

			_, ok = p.Cluster("s9")
			So(ok, ShouldBeFalse)
			So(p.HasCluster("B"), ShouldBeFalse)
		})

		Convey("Entities are moved between clusters, and empty clusters vanish", func() {
			So(p.Add("s2", "A"), ShouldBeNil)
			So(p.Clusters(), ShouldResemble, []string{"A", "Cluster10"})
			So(p.Members("A"), ShouldResemble, []string{"s2", "s4"})
			So(p.Entities(), ShouldResemble, []string{"s1", "s2", "s3", "s4"})

			So(p.Remove("s4"), ShouldBeTrue)
			So(p.Remove("s4"), ShouldBeFalse)
			So(p.Contains("s4"), ShouldBeFalse)

			So(p.RemoveCluster("Cluster10"), ShouldEqual, 2)
			So(p.Clusters(), ShouldResemble, []string{"A"})
		})

		Convey("You can rename clusters", func() {
			So(p.RenameCluster("Cluster10", "Big"), ShouldBeNil)
			So(p.Members("Big"), ShouldResemble, []string{"s1", "s3"})

			So(p.RenameCluster("Big", "A"), ShouldEqual, ErrClusterExists)
			So(p.RenameCluster("Nope", "B"), ShouldEqual, ErrNoSuchCluster)
			So(p.RenameCluster("A", "no good"), ShouldEqual, types.ErrInvalidName)
		})

		Convey("Clones are independent and equal", func() {
			clone := p.Clone()
			So(clone.Equal(p), ShouldBeTrue)

			So(clone.Add("s1", "A"), ShouldBeNil)
			So(clone.Equal(p), ShouldBeFalse)
			So(clone.Equal(nil), ShouldBeFalse)

			c, _ := p.Cluster("s1")
			So(c, ShouldEqual, "Cluster10")

			other, err := New("other", types.KindSequence)
			So(err, ShouldBeNil)
			So(other.ImportData(clone), ShouldBeNil)
			So(other.Name(), ShouldEqual, "other")
			So(other.Equal(clone), ShouldBeTrue)

			motifs, err := New("motifs", types.KindMotif)
			So(err, ShouldBeNil)
			So(motifs.ImportData(p), ShouldEqual, ErrKindMismatch)
		})

		Convey("You can get a cluster as a collection", func() {
			c, err := p.ClusterCollection("Cluster10")
			So(err, ShouldBeNil)
			So(c.Name(), ShouldEqual, "p_Cluster10")
			So(c.Kind(), ShouldEqual, types.KindSequence)
			So(c.Names(), ShouldResemble, []string{"s1", "s3"})
			So(c.Origin(), ShouldEqual, "From list: p->Cluster10")

			_, err = p.ClusterCollection("Nope")
			So(err, ShouldEqual, ErrNoSuchCluster)
		})

		Convey("You can resolve it against a registry", func() {
			r := engine.New()
			s1, err := types.NewSequence("s1", "chr1", 1, 10)
			So(err, ShouldBeNil)
			So(r.AddSequence(s1), ShouldBeNil)

			So(len(p.Resolve(r, "Cluster10")), ShouldEqual, 1)
			So(p.Missing(r), ShouldResemble, []string{"s2", "s3", "s4"})
		})
	})
}

func testRegistry() *engine.Registry {
	r := engine.New()

	for _, m := range []*types.Motif{
		{Name: "MA1", Classification: "1.2.3", Alternatives: []string{"MA2"}},
		{Name: "MA2", Classification: "1.2.4"},
		{Name: "MA3", Classification: "2.1.1", Alternatives: []string{"MA2"}},
		{Name: "MA4"},
		{Name: "MA5", Classification: "1.3", Alternatives: []string{"MA9"}},
	} {
		So(r.AddMotif(m), ShouldBeNil)
	}

	expr, err := types.NewNumericMap("expr", types.KindSequence, 0)
	So(err, ShouldBeNil)

	for i, name := range []string{"s1", "s2", "s3", "s4", "s5"} {
		s, err := types.NewSequence(name, "chr1", 1, 100)
		So(err, ShouldBeNil)
		So(r.AddSequence(s), ShouldBeNil)

		expr.Set(name, float64(i+1))
	}

	expr.Set("s5", 10)
	So(r.AddNumericMap(expr), ShouldBeNil)

	four, err := collection.New("four", types.KindSequence)
	So(err, ShouldBeNil)
	four.Add("s1", "s2", "s3", "s4")
	So(r.AddCollection(four), ShouldBeNil)

	sub, err := collection.New("sub", types.KindMotif)
	So(err, ShouldBeNil)
	sub.Add("MA3", "MA1")
	So(r.AddCollection(sub), ShouldBeNil)

	return r
}

func TestBuild(t *testing.T) {
	Convey("Given a registry of motifs, sequences and a numeric map", t, func() {
		r := testRegistry()

		build := func(kind types.Kind, text string) *Partition {
			p, err := Build(r, "result", kind, text, nil)
			So(err, ShouldBeNil)
			So(p.Origin(), ShouldEqual, text)

			return p
		}

		buildErr := func(kind types.Kind, text string) error {
			_, err := Build(r, "result", kind, text, nil)

			return err
		}

		Convey("You can build from a list of assignments", func() {
			p := build(types.KindMotif, "List: MA1=A, MA2=A, MA3=B")
			So(p.Clusters(), ShouldResemble, []string{"A", "B"})
			So(p.Members("A"), ShouldResemble, []string{"MA1", "MA2"})

			p = build(types.KindMotif, "List: MA*=X, MA4=Y")
			So(p.Members("X"), ShouldResemble, []string{"MA1", "MA2", "MA3", "MA5"})
			So(p.Members("Y"), ShouldResemble, []string{"MA4"})

			p = build(types.KindMotif, "List: sub=S")
			So(p.Members("S"), ShouldResemble, []string{"MA3", "MA1"})

			So(errors.Is(buildErr(types.KindMotif, "List: MA1"), ErrMissingCluster), ShouldBeTrue)
			So(errors.Is(buildErr(types.KindMotif, "List: MA8=A"), query.ErrUnknownEntry), ShouldBeTrue)
		})

		Convey("You can copy a predefined partition", func() {
			p := build(types.KindMotif, "List: MA1=A, MA2=B")
			So(r.AddPartition(p), ShouldBeNil)

			copied := build(types.KindMotif, "Predefined: result")
			So(copied.Equal(p), ShouldBeTrue)

			err := buildErr(types.KindSequence, "Predefined: result")
			So(errors.Is(err, query.ErrMissingSource), ShouldBeTrue)

			Convey("Whose clusters can then be used in list entries", func() {
				p := build(types.KindMotif, "List: result->A=First")
				So(p.Members("First"), ShouldResemble, []string{"MA1"})
			})
		})

		Convey("You can build from a numeric map", func() {
			p := build(types.KindSequence, "Map: expr, bins=3")
			So(p.Clusters(), ShouldResemble, []string{"Bin1", "Bin2", "Bin3"})
			So(p.Members("Bin1"), ShouldResemble, []string{"s1", "s2", "s3"})
			So(p.Members("Bin2"), ShouldResemble, []string{"s4"})
			So(p.Members("Bin3"), ShouldResemble, []string{"s5"})

			p = build(types.KindSequence, "Map: expr, breaks=2,5")
			So(p.Members("Bin1"), ShouldResemble, []string{"s1"})
			So(p.Members("Bin2"), ShouldResemble, []string{"s2", "s3", "s4"})
			So(p.Members("Bin3"), ShouldResemble, []string{"s5"})

			p = build(types.KindSequence, "Map: expr, quantiles=2, collection=four")
			So(p.Size(), ShouldEqual, 4)
			So(p.Members("Bin1"), ShouldResemble, []string{"s1", "s2"})
			So(p.Members("Bin2"), ShouldResemble, []string{"s3", "s4"})

			p = build(types.KindSequence, "Map: expr")
			So(p.Clusters(), ShouldResemble, []string{"1", "2", "3", "4", "10"})

			err := buildErr(types.KindSequence, "Map: expr >= 2")
			So(errors.Is(err, ErrNoBinning), ShouldBeTrue)

			err = buildErr(types.KindSequence, "Map: expr, bins=2, breaks=3")
			So(errors.Is(err, ErrBadOption), ShouldBeTrue)

			err = buildErr(types.KindSequence, "Map: expr, bins=-1")
			So(errors.Is(err, ErrBadOption), ShouldBeTrue)

			err = buildErr(types.KindSequence, "Map: expr, breaks=a,b")
			So(errors.Is(err, ErrBadOption), ShouldBeTrue)

			err = buildErr(types.KindMotif, "Map: expr, bins=2")
			So(errors.Is(err, engine.ErrWrongKind), ShouldBeTrue)

			err = buildErr(types.KindSequence, "Map: expr, bins=2, collection=nosuch")
			So(errors.Is(err, query.ErrMissingSource), ShouldBeTrue)
		})

		Convey("You can build from property values", func() {
			p := build(types.KindMotif, "Property: Classification, level=1")
			So(p.Clusters(), ShouldResemble, []string{"1", "2"})
			So(p.Members("1"), ShouldResemble, []string{"MA1", "MA2", "MA5"})
			So(p.Contains("MA4"), ShouldBeFalse)

			p = build(types.KindMotif, "Property: Classification, level=2")
			So(p.Clusters(), ShouldResemble, []string{"1.2", "1.3", "2.1"})

			p = build(types.KindSequence, "Property: Strand")
			So(p.Clusters(), ShouldResemble, []string{"_"})

			err := buildErr(types.KindMotif, "Property: Classification = 1")
			So(errors.Is(err, query.ErrBadQuery), ShouldBeTrue)

			err = buildErr(types.KindMotif, "Property: nonsense")
			So(errors.Is(err, types.ErrUnknownProperty), ShouldBeTrue)

			err = buildErr(types.KindMotif, "Property: Classification, level=x")
			So(errors.Is(err, ErrBadOption), ShouldBeTrue)
		})

		Convey("You can cluster motifs by known alternatives", func() {
			p := build(types.KindMotif, "Alternatives")
			So(p.Clusters(), ShouldResemble, []string{"Cluster1", "Cluster2", "Cluster3"})
			So(p.Members("Cluster1"), ShouldResemble, []string{"MA1", "MA2", "MA3"})
			So(p.Members("Cluster2"), ShouldResemble, []string{"MA4"})
			So(p.Members("Cluster3"), ShouldResemble, []string{"MA5"})

			p = build(types.KindMotif, "Alternatives: sub")
			So(p.Members("Cluster1"), ShouldResemble, []string{"MA3"})
			So(p.Members("Cluster2"), ShouldResemble, []string{"MA1"})

			So(buildErr(types.KindSequence, "Alternatives"), ShouldEqual, ErrNotMotifs)
		})

		Convey("You can build a random partition", func() {
			p, err := Build(r, "result", types.KindSequence, "Random 3", rand.NewPCG(5, 6))
			So(err, ShouldBeNil)
			So(p.Size(), ShouldEqual, 5)

			for _, c := range p.Clusters() {
				So(c, ShouldBeIn, []string{"Cluster1", "Cluster2", "Cluster3"})
			}

			again, err := Build(r, "result", types.KindSequence, "Random 3", rand.NewPCG(5, 6))
			So(err, ShouldBeNil)
			So(again.Equal(p), ShouldBeTrue)

			p = build(types.KindMotif, "Random 2 from sub")
			So(p.Entities(), ShouldResemble, []string{"MA3", "MA1"})

			So(errors.Is(buildErr(types.KindMotif, "Random 0"), ErrBadOption), ShouldBeTrue)
		})
	})

	Convey("The disjoint set merges transitively", t, func() {
		ds := newDisjointSet(5)
		ds.union(0, 1)
		ds.union(3, 4)
		ds.union(1, 4)

		So(ds.find(0), ShouldEqual, ds.find(3))
		So(ds.find(2), ShouldNotEqual, ds.find(0))
	})

	Convey("Tied values do not give repeated bin breaks", t, func() {
		breaks := quantileBreaks([]float64{2, 1, 2, 3, 2, 2}, 4)
		So(breaks, ShouldResemble, []float64{3})

		label := breaksLabeller(breaks)
		So(label(1), ShouldEqual, "Bin1")
		So(label(2), ShouldEqual, "Bin1")
		So(label(3), ShouldEqual, "Bin2")

		So(quantileBreaks([]float64{2, 2, 2}, 3), ShouldBeEmpty)

		userBreaks, err := parseBreaks("5,2,5")
		So(err, ShouldBeNil)
		So(userBreaks, ShouldResemble, []float64{2, 5})
	})
}
