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

package catalog

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-hgi/motiflab-data/collection"
	"github.com/wtsi-hgi/motiflab-data/config"
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/sheets"
	"github.com/wtsi-hgi/motiflab-data/store"
	"github.com/wtsi-hgi/motiflab-data/types"
)

const errMock = Error("mock error")

type Error string

func (e Error) Error() string { return string(e) }

type mockStore struct {
	motifs      []*types.Motif
	collections []*collection.Collection
	queries     int
	closed      bool
	err         error
	mu          sync.RWMutex
}

func (m *mockStore) Motifs() ([]*types.Motif, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.queries++

	motifs := make([]*types.Motif, len(m.motifs))
	for i, motif := range m.motifs {
		motifs[i] = motif.Clone()
	}

	return motifs, m.err
}

func (m *mockStore) PredefinedCollections() ([]*collection.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.collections, nil
}

func (m *mockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true

	return nil
}

func (m *mockStore) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.err = err
}

func (m *mockStore) numQueries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.queries
}

type mockSheets struct {
	props   map[string]map[string]any
	sheetID string
}

func (m *mockSheets) MotifProperties(sheetID string) (map[string]map[string]any, error) {
	m.sheetID = sheetID

	return m.props, nil
}

func TestCatalogMock(t *testing.T) {
	Convey("Given mock catalogue and sheets connections", t, func() {
		liver, err := collection.New("liver", types.KindMotif)
		So(err, ShouldBeNil)
		liver.Add("MA0001", "MA0003")

		mstore := &mockStore{
			motifs: []*types.Motif{
				{Name: "MA0001", Consensus: "CACGTG"},
				{Name: "MA0002", Consensus: "TGACTCA"},
				{Name: "MA0003", Consensus: "GATA"},
			},
			collections: []*collection.Collection{liver},
		}

		msheets := &mockSheets{props: map[string]map[string]any{
			"MA0001": {"family": "bHLH", "score": 1.5},
			"MA0003": {"Consensus": "AAAA"},
		}}

		lifetime := 100 * time.Millisecond

		Convey("Without prefetching, queries are made on demand and cached", func() {
			c := New(mstore, msheets, ClientOptions{SheetID: "sheetID", CacheLifetime: lifetime})
			defer c.Close()

			So(mstore.numQueries(), ShouldEqual, 0)
			So(c.LastPrefetchSuccess().IsZero(), ShouldBeTrue)

			motifs, err := c.Motifs()
			So(err, ShouldBeNil)
			So(len(motifs), ShouldEqual, 3)
			So(mstore.numQueries(), ShouldEqual, 1)
			So(msheets.sheetID, ShouldEqual, "sheetID")

			family, err := motifs[0].Property("family")
			So(err, ShouldBeNil)
			So(family, ShouldEqual, "bHLH")
			So(motifs[2].Consensus, ShouldEqual, "GATA")

			motifs[0].Consensus = "NNNN"

			again, err := c.Motifs()
			So(err, ShouldBeNil)
			So(again[0].Consensus, ShouldEqual, "CACGTG")
			So(mstore.numQueries(), ShouldEqual, 1)

			Convey("And the cache expires", func() {
				time.Sleep(lifetime * 2)

				_, err = c.Motifs()
				So(err, ShouldBeNil)
				So(mstore.numQueries(), ShouldEqual, 2)
			})

			Convey("Errors are returned directly", func() {
				time.Sleep(lifetime * 2)
				mstore.setError(errMock)

				_, err = c.Motifs()
				So(err, ShouldEqual, errMock)
			})

			Convey("You can load everything in to a registry", func() {
				r := engine.New()

				err = c.Load(r)
				So(err, ShouldBeNil)
				So(r.EntityNames(types.KindMotif), ShouldResemble, []string{"MA0001", "MA0002", "MA0003"})

				col, ok := r.Collection("liver")
				So(ok, ShouldBeTrue)
				So(col.Names(), ShouldResemble, []string{"MA0001", "MA0003"})
				So(col, ShouldNotPointTo, liver)
			})
		})

		Convey("The sheet source is optional", func() {
			c := New(mstore, nil, ClientOptions{CacheLifetime: lifetime})
			defer c.Close()

			motifs, err := c.Motifs()
			So(err, ShouldBeNil)
			So(motifs[0].Properties, ShouldBeEmpty)
		})

		Convey("With prefetching, results are always immediate", func() {
			c := New(mstore, msheets, ClientOptions{CacheLifetime: lifetime, Prefetch: true})
			createTime := time.Now()

			So(mstore.numQueries(), ShouldEqual, 1)
			So(c.LastPrefetchSuccess(), ShouldHappenOnOrBefore, createTime)

			motifs, err := c.Motifs()
			So(err, ShouldBeNil)
			So(len(motifs), ShouldEqual, 3)
			So(mstore.numQueries(), ShouldEqual, 1)

			Convey("And refreshed in the background", func() {
				time.Sleep(lifetime*2 + lifetime/2)

				So(mstore.numQueries(), ShouldBeGreaterThanOrEqualTo, 2)
				So(c.LastPrefetchSuccess(), ShouldHappenAfter, createTime)
				So(c.Close(), ShouldBeNil)
				So(mstore.closed, ShouldBeTrue)
			})

			Convey("Prefetch errors are captured", func() {
				mstore.setError(errMock)
				So(c.Err(), ShouldBeNil)

				time.Sleep(lifetime * 2)

				So(c.Err(), ShouldEqual, errMock)

				motifs, err := c.Motifs()
				So(err, ShouldBeNil)
				So(len(motifs), ShouldEqual, 3)
				So(c.LastPrefetchSuccess(), ShouldHappenOnOrBefore, createTime)
				So(c.Close(), ShouldBeNil)
			})
		})
	})
}

func TestCatalogReal(t *testing.T) {
	c, err := config.FromEnv("..")
	if err != nil || !c.HasDB() {
		SkipConvey("skipping real catalogue tests without MOTIFLAB_SQL_* set", t, func() {})

		return
	}

	Convey("Given catalogue and sheets connections", t, func() {
		s, err := store.New(store.MySQLConfigFromConfig(c))
		So(err, ShouldBeNil)

		var ps PropertySource

		if c.HasSheets() {
			sc, errc := sheets.ServiceCredentialsFromConfig(c)
			So(errc, ShouldBeNil)

			sh, errs := sheets.New(sc)
			So(errs, ShouldBeNil)

			ps = sh
		}

		client := New(s, ps, ClientOptions{SheetID: c.SheetID, CacheLifetime: time.Minute})
		defer client.Close()

		Convey("You can load the catalogue in to a registry", func() {
			r := engine.New()
			So(client.Load(r), ShouldBeNil)
			So(len(r.EntityNames(types.KindMotif)), ShouldBeGreaterThan, 0)
		})
	})
}
