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

// Package catalog provides a Client that combines the motifs and predefined
// collections of the MySQL catalogue with extra motif properties kept in a
// Google sheet, caching the result.
package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/wtsi-hgi/motiflab-data/collection"
	"github.com/wtsi-hgi/motiflab-data/engine"
	"github.com/wtsi-hgi/motiflab-data/types"
)

type MotifSource interface {
	// Motifs returns all motifs in the catalogue.
	Motifs() ([]*types.Motif, error)

	// PredefinedCollections returns the named collections stored with the
	// catalogue.
	PredefinedCollections() ([]*collection.Collection, error)

	// Close closes the connection to the catalogue database.
	Close() error
}

type PropertySource interface {
	// MotifProperties reads extra motif properties from the sheet with the
	// given id, returning a map where keys are motif names.
	MotifProperties(sheetID string) (map[string]map[string]any, error)
}

// snapshot is one fetch of the catalogue.
type snapshot struct {
	motifs      []*types.Motif
	collections []*collection.Collection
}

type cache struct {
	data       *snapshot
	lastUpdate time.Time
	lifetime   time.Duration
	mu         sync.RWMutex
}

func newCache(lifetime time.Duration) *cache {
	return &cache{lifetime: lifetime}
}

func (c *cache) getData() (bool, *snapshot) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached := c.data != nil && c.lastUpdate.Add(c.lifetime).After(time.Now())

	return cached, c.data
}

func (c *cache) storeData(data *snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = data
	c.lastUpdate = time.Now()
}

func (c *cache) lastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastUpdate
}

// Client can connect to the motif catalogue and Google Sheets to get motifs.
type Client struct {
	ms      MotifSource
	ps      PropertySource
	sheetID string
	cache   *cache
	logger  log15.Logger

	stopCh chan struct{}
	stopMu sync.RWMutex

	err   error
	errMu sync.RWMutex
}

// ClientOptions are options for creating a new Client.
type ClientOptions struct {
	// SheetID is the id of the google sheet to get motif properties from. It
	// is ignored if the PropertySource is nil.
	SheetID string

	// CacheLifetime is the maximum age of cached results.
	CacheLifetime time.Duration

	// Prefetch fetches the catalogue every CacheLifetime so that you never
	// have to wait for a query and results are as fresh as possible. Errors
	// are not returned, but can be checked with Err().
	Prefetch bool

	// Logger receives a message for each fetch; by default nothing is
	// logged.
	Logger log15.Logger
}

// New returns a new Client that gets motifs from the given MotifSource, with
// extra properties from the given PropertySource, which may be nil.
func New(ms MotifSource, ps PropertySource, opts ClientOptions) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = log15.New()
		logger.SetHandler(log15.DiscardHandler())
	}

	c := &Client{
		ms:      ms,
		ps:      ps,
		sheetID: opts.SheetID,
		cache:   newCache(opts.CacheLifetime),
		logger:  logger,
	}

	if opts.Prefetch && opts.CacheLifetime > 0 {
		c.asyncFetch()

		stopCh := make(chan struct{})
		c.stopCh = stopCh

		go c.prefetch(opts.CacheLifetime, stopCh)
	}

	return c
}

func (c *Client) asyncFetch() {
	result, err := c.freshQuery()

	c.errMu.Lock()
	c.err = err
	c.errMu.Unlock()

	if err != nil {
		c.logger.Warn("catalogue prefetch failed", "err", err)

		return
	}

	c.cache.storeData(result)
}

func (c *Client) prefetch(sleepTime time.Duration, stopCh chan struct{}) {
	ticker := time.NewTicker(sleepTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.asyncFetch()
		case <-stopCh:
			return
		}
	}
}

// Err returns the last error that occurred during prefetching. Successful
// prefetches clear the error.
func (c *Client) Err() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.err
}

// LastPrefetchSuccess returns the time of the last successful fetch. If no
// fetch has succeeded yet, the zero time is returned.
func (c *Client) LastPrefetchSuccess() time.Time {
	return c.cache.lastUpdated()
}

func (c *Client) get() (*snapshot, error) {
	cached, result := c.cache.getData()

	c.stopMu.RLock()
	prefetching := c.stopCh != nil
	c.stopMu.RUnlock()

	if cached || (prefetching && result != nil) {
		return result, nil
	}

	result, err := c.freshQuery()
	if err != nil {
		return nil, err
	}

	c.cache.storeData(result)

	return result, nil
}

func (c *Client) freshQuery() (*snapshot, error) {
	motifs, err := c.ms.Motifs()
	if err != nil {
		return nil, err
	}

	collections, err := c.ms.PredefinedCollections()
	if err != nil {
		return nil, err
	}

	if c.ps != nil {
		props, err := c.ps.MotifProperties(c.sheetID)
		if err != nil {
			return nil, err
		}

		c.mergeProperties(motifs, props)
	}

	c.logger.Info("fetched catalogue", "motifs", len(motifs), "collections", len(collections))

	return &snapshot{motifs: motifs, collections: collections}, nil
}

// mergeProperties sets sheet properties as user-defined properties of the
// motifs. Properties that clash with standard motif properties are skipped.
func (c *Client) mergeProperties(motifs []*types.Motif, props map[string]map[string]any) {
	for _, m := range motifs {
		for key, value := range props[m.Name] {
			if err := m.SetProperty(key, value); err != nil {
				c.logger.Warn("skipped sheet property", "motif", m.Name, "property", key, "err", err)
			}
		}
	}
}

// Motifs returns copies of all catalogue motifs, with any sheet properties
// merged in. It caches queries, so results can be up to CacheLifetime old.
//
// If you have prefetching enabled, this always returns immediately with the
// result of the last successful prefetch, which might have been longer than
// CacheLifetime ago, if the last actual prefetch failed (see Err()).
func (c *Client) Motifs() ([]*types.Motif, error) {
	data, err := c.get()
	if err != nil {
		return nil, err
	}

	motifs := make([]*types.Motif, len(data.motifs))
	for i, m := range data.motifs {
		motifs[i] = m.Clone()
	}

	return motifs, nil
}

// Collections returns copies of the catalogue's predefined collections,
// cached like Motifs().
func (c *Client) Collections() ([]*collection.Collection, error) {
	data, err := c.get()
	if err != nil {
		return nil, err
	}

	collections := make([]*collection.Collection, len(data.collections))
	for i, col := range data.collections {
		collections[i] = col.Clone()
	}

	return collections, nil
}

// Load registers copies of all catalogue motifs and predefined collections in
// the given registry.
func (c *Client) Load(r *engine.Registry) error {
	motifs, err := c.Motifs()
	if err != nil {
		return err
	}

	collections, err := c.Collections()
	if err != nil {
		return err
	}

	for _, m := range motifs {
		if err := r.AddMotif(m); err != nil {
			return fmt.Errorf("motif %s: %w", m.Name, err)
		}
	}

	for _, col := range collections {
		if err := r.AddCollection(col); err != nil {
			return fmt.Errorf("collection %s: %w", col.Name(), err)
		}
	}

	return nil
}

// Close closes database connections and stops prefetching.
func (c *Client) Close() error {
	err := c.ms.Close()

	c.stopMu.Lock()
	defer c.stopMu.Unlock()

	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}

	return err
}
