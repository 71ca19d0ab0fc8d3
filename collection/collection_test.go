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

package collection

import (
	"errors"
	"math/rand/v2"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/query"
	"github.com/wtsi-hgi/motiflab-data/types"
)

func TestCollection(t *testing.T) {
	Convey("Collections need a valid name and kind", t, func() {
		_, err := New("bad name", types.KindMotif)
		So(err, ShouldEqual, types.ErrInvalidName)

		_, err = New("genes", types.Kind("gene"))
		So(err, ShouldEqual, types.ErrInvalidKind)
	})

	Convey("Given a Collection", t, func() {
		c, err := New("favs", types.KindMotif)
		So(err, ShouldBeNil)

		c.Add("MA3", "MA1", "MA3", "MA2")

		Convey("Names are unique and keep their order", func() {
			So(c.Names(), ShouldResemble, []string{"MA3", "MA1", "MA2"})
			So(c.Size(), ShouldEqual, 3)
			So(c.Contains("MA1"), ShouldBeTrue)
			So(c.Contains("MA4"), ShouldBeFalse)
		})

		Convey("You can remove names", func() {
			So(c.Remove("MA1", "MA4"), ShouldEqual, 1)
			So(c.Names(), ShouldResemble, []string{"MA3", "MA2"})
			So(c.Remove("MA4"), ShouldEqual, 0)

			c.Add("MA1")
			So(c.Names(), ShouldResemble, []string{"MA3", "MA2", "MA1"})

			c.Clear()
			So(c.Size(), ShouldEqual, 0)
		})

		Convey("Clones are independent and equal", func() {
			clone := c.Clone()
			So(clone.Equal(c), ShouldBeTrue)

			clone.Add("MA4")
			So(clone.Equal(c), ShouldBeFalse)
			So(clone.Equal(nil), ShouldBeFalse)
			So(c.Size(), ShouldEqual, 3)

			names := c.Names()
			names[0] = "changed"
			So(c.Names()[0], ShouldEqual, "MA3")
		})

		Convey("You can rename it", func() {
			So(c.Rename("best"), ShouldBeNil)
			So(c.Name(), ShouldEqual, "best")
			So(c.Rename(""), ShouldEqual, types.ErrInvalidName)
		})

		Convey("You can combine it with another collection of the same kind", func() {
			other, err := New("other", types.KindMotif)
			So(err, ShouldBeNil)
			other.Add("MA2", "MA4")

			u, err := c.Union("u", other)
			So(err, ShouldBeNil)
			So(u.Names(), ShouldResemble, []string{"MA3", "MA1", "MA2", "MA4"})

			i, err := c.Intersect("i", other)
			So(err, ShouldBeNil)
			So(i.Names(), ShouldResemble, []string{"MA2"})

			s, err := c.Subtract("s", other)
			So(err, ShouldBeNil)
			So(s.Names(), ShouldResemble, []string{"MA3", "MA1"})

			So(c.ImportData(other), ShouldBeNil)
			So(c.Name(), ShouldEqual, "favs")
			So(c.Names(), ShouldResemble, []string{"MA2", "MA4"})

			seqs, err := New("seqs", types.KindSequence)
			So(err, ShouldBeNil)

			_, err = c.Union("u", seqs)
			So(err, ShouldEqual, ErrKindMismatch)
			So(c.ImportData(seqs), ShouldEqual, ErrKindMismatch)
			So(c.Equal(seqs), ShouldBeFalse)
		})

		Convey("You can resolve it against a registry", func() {
			r := engine.New()
			So(r.AddMotif(&types.Motif{Name: "MA1"}), ShouldBeNil)
			So(r.AddMotif(&types.Motif{Name: "MA2"}), ShouldBeNil)

			entities := c.Resolve(r)
			So(len(entities), ShouldEqual, 2)
			So(entities[0].EntityName(), ShouldEqual, "MA1")
			So(c.Missing(r), ShouldResemble, []string{"MA3"})
		})
	})
}

func testRegistry() *engine.Registry {
	r := engine.New()

	for i, name := range []string{"MA1", "MA2", "MA3"} {
		m := &types.Motif{Name: name, Quality: 5 - 2*i, Factors: []string{"TF" + name}}
		So(r.AddMotif(m), ShouldBeNil)
	}

	for _, name := range []string{"s1", "s2", "s3", "s4"} {
		s, err := types.NewSequence(name, "chr1", 1, 100)
		So(err, ShouldBeNil)
		So(r.AddSequence(s), ShouldBeNil)
	}

	expr, err := types.NewNumericMap("expr", types.KindSequence, 0)
	So(err, ShouldBeNil)
	expr.Set("s1", 1)
	expr.Set("s2", 5)
	expr.Set("s3", 10)
	So(r.AddNumericMap(expr), ShouldBeNil)

	thresh, err := types.NewNumericMap("thresh", types.KindSequence, 4)
	So(err, ShouldBeNil)
	So(r.AddNumericMap(thresh), ShouldBeNil)

	track, err := types.NewRegionTrack("sites")
	So(err, ShouldBeNil)

	for _, site := range []struct {
		seq, motif string
		start, end int
	}{
		{"s1", "MA1", 0, 9},
		{"s1", "MA2", 5, 14},
		{"s2", "MA1", 20, 24},
	} {
		region, err := types.NewRegion(site.motif, site.start, site.end, 1, types.Direct)
		So(err, ShouldBeNil)
		track.Add(site.seq, region)
	}

	So(r.AddTrack(track), ShouldBeNil)

	favs, err := New("favs", types.KindMotif)
	So(err, ShouldBeNil)
	favs.Add("MA3", "MA1", "MA2")
	So(r.AddCollection(favs), ShouldBeNil)

	first, err := New("first", types.KindSequence)
	So(err, ShouldBeNil)
	first.Add("s1")
	So(r.AddCollection(first), ShouldBeNil)

	return r
}

func TestBuild(t *testing.T) {
	Convey("Given a registry of motifs, sequences, maps and a track", t, func() {
		r := testRegistry()

		build := func(kind types.Kind, text string) []string {
			c, err := Build(r, "result", kind, text, nil)
			So(err, ShouldBeNil)
			So(c.Origin(), ShouldEqual, text)

			return c.Names()
		}

		buildErr := func(kind types.Kind, text string) error {
			_, err := Build(r, "result", kind, text, nil)

			return err
		}

		Convey("You can copy a predefined collection", func() {
			So(build(types.KindMotif, "Predefined: favs"), ShouldResemble, []string{"MA3", "MA1", "MA2"})

			err := buildErr(types.KindSequence, "Predefined: favs")
			So(errors.Is(err, query.ErrMissingSource), ShouldBeTrue)
			So(errors.Is(err, engine.ErrWrongKind), ShouldBeTrue)
		})

		Convey("You can build from a list", func() {
			So(build(types.KindMotif, "List: MA2, MA1, favs"), ShouldResemble, []string{"MA2", "MA1", "MA3"})
			So(build(types.KindSequence, "List: s3-s4"), ShouldResemble, []string{"s3", "s4"})

			err := buildErr(types.KindMotif, "List: MA1, MA9")
			So(errors.Is(err, query.ErrUnknownEntry), ShouldBeTrue)
		})

		Convey("You can build from a numeric map condition", func() {
			So(build(types.KindSequence, "From map: expr >= 5"), ShouldResemble, []string{"s2", "s3"})
			So(build(types.KindSequence, "From map: expr in [0,1]"), ShouldResemble, []string{"s1", "s4"})
			So(build(types.KindSequence, "From map: expr > thresh"), ShouldResemble, []string{"s2", "s3"})

			err := buildErr(types.KindMotif, "From map: expr >= 5")
			So(errors.Is(err, engine.ErrWrongKind), ShouldBeTrue)

			err = buildErr(types.KindSequence, "From map: nomap >= 5")
			So(errors.Is(err, query.ErrMissingSource), ShouldBeTrue)

			err = buildErr(types.KindSequence, "From map: expr > nomap")
			So(errors.Is(err, query.ErrMissingSource), ShouldBeTrue)

			err = buildErr(types.KindSequence, "From map: expr, bins=2")
			So(errors.Is(err, query.ErrBadQuery), ShouldBeTrue)
		})

		Convey("You can build from a property condition", func() {
			So(build(types.KindMotif, "From property: Quality >= 3"), ShouldResemble, []string{"MA1", "MA2"})
			So(build(types.KindMotif, "Property: Factors = TFMA3"), ShouldResemble, []string{"MA3"})
			So(build(types.KindSequence, "Property: Length = 100"), ShouldResemble, []string{"s1", "s2", "s3", "s4"})

			err := buildErr(types.KindMotif, "Property: nonsense = 1")
			So(errors.Is(err, types.ErrUnknownProperty), ShouldBeTrue)

			err = buildErr(types.KindMotif, "Property: Quality")
			So(errors.Is(err, query.ErrBadQuery), ShouldBeTrue)
		})

		Convey("You can build motif collections from track support", func() {
			So(build(types.KindMotif, "From track: sites, support >= 2"), ShouldResemble, []string{"MA1"})
			So(build(types.KindMotif, "From track: sites, support >= 25%"), ShouldResemble, []string{"MA1", "MA2"})
			So(build(types.KindMotif, "supportMotif >= 1, collection=first"), ShouldResemble, []string{"MA1", "MA2"})
			So(build(types.KindMotif, "Track: sites, support < 1"), ShouldResemble, []string{"MA3"})

			err := buildErr(types.KindMotif, "Track: sites, regions > 1")
			So(errors.Is(err, ErrBadMeasure), ShouldBeTrue)

			err = buildErr(types.KindMotif, "Track: nosuch, support > 1")
			So(errors.Is(err, query.ErrMissingSource), ShouldBeTrue)

			err = buildErr(types.KindMotif, "support > 1, collection=nosuch")
			So(errors.Is(err, query.ErrMissingSource), ShouldBeTrue)
		})

		Convey("You can build sequence collections from track regions and coverage", func() {
			So(build(types.KindSequence, "Track: sites, regions >= 2"), ShouldResemble, []string{"s1"})
			So(build(types.KindSequence, "Track: sites, regions = 0"), ShouldResemble, []string{"s3", "s4"})
			So(build(types.KindSequence, "Track: sites, coverage >= 10%"), ShouldResemble, []string{"s1"})
			So(build(types.KindSequence, "Track: sites, coverage >= 5"), ShouldResemble, []string{"s1", "s2"})

			Convey("Coverage is a percentage of sequence length with or without a %", func() {
				long, err := types.NewSequence("s5", "chr2", 1, 1000)
				So(err, ShouldBeNil)
				So(r.AddSequence(long), ShouldBeNil)

				track, ok := r.Track("sites")
				So(ok, ShouldBeTrue)

				region, err := types.NewRegion("MA3", 0, 99, 1, types.Direct)
				So(err, ShouldBeNil)
				track.Add("s5", region)

				So(build(types.KindSequence, "Track: sites, coverage >= 12"), ShouldResemble, []string{"s1"})
				So(build(types.KindSequence, "Track: sites, coverage >= 12%"), ShouldResemble, []string{"s1"})
				So(build(types.KindSequence, "Track: sites, coverage >= 50"), ShouldBeEmpty)
				So(build(types.KindSequence, "Track: sites, coverage > 8"), ShouldResemble, []string{"s1", "s5"})
			})
		})

		Convey("A track must be named if more than one is registered", func() {
			other, err := types.NewRegionTrack("other")
			So(err, ShouldBeNil)
			So(r.AddTrack(other), ShouldBeNil)

			err = buildErr(types.KindMotif, "support >= 1")
			So(err, ShouldEqual, ErrNoTrack)
		})

		Convey("You can build a random sample", func() {
			c, err := Build(r, "sample", types.KindMotif, "Random 2 from favs", rand.NewPCG(1, 2))
			So(err, ShouldBeNil)
			So(c.Size(), ShouldEqual, 2)

			favs, ok := r.Collection("favs")
			So(ok, ShouldBeTrue)

			lastIndex := -1

			for _, name := range c.Names() {
				idx := -1

				for i, fav := range favs.Names() {
					if fav == name {
						idx = i
					}
				}

				So(idx, ShouldBeGreaterThan, lastIndex)
				lastIndex = idx
			}

			again, err := Build(r, "sample", types.KindMotif, "Random 2 from favs", rand.NewPCG(1, 2))
			So(err, ShouldBeNil)
			So(again.Names(), ShouldResemble, c.Names())

			c, err = Build(r, "sample", types.KindSequence, "Random 50%", rand.NewPCG(3, 4))
			So(err, ShouldBeNil)
			So(c.Size(), ShouldEqual, 2)

			c, err = Build(r, "sample", types.KindSequence, "Random 10", nil)
			So(err, ShouldBeNil)
			So(c.Names(), ShouldResemble, []string{"s1", "s2", "s3", "s4"})

			c, err = Build(r, "sample", types.KindModule, "Random 3", nil)
			So(err, ShouldBeNil)
			So(c.Size(), ShouldEqual, 0)

			err = buildErr(types.KindMotif, "Random 2 from nosuch")
			So(errors.Is(err, query.ErrMissingSource), ShouldBeTrue)
		})

		Convey("Alternatives can not be used to build a collection", func() {
			err := buildErr(types.KindMotif, "Alternatives")
			So(errors.Is(err, query.ErrUnknownForm), ShouldBeTrue)
		})
	})
}
