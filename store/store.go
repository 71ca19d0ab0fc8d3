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

// Package store reads the motif catalogue held in a MySQL database: motif
// records and the predefined collections of them.
package store

import (
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/wtsi-hgi/motiflab-data/collection"
	"github.com/wtsi-hgi/motiflab-data/config"
	"github.com/wtsi-hgi/motiflab-data/formats"
	"github.com/wtsi-hgi/motiflab-data/types"
)

const (
	sqlDriverName   = "mysql"
	sqlNetwork      = "tcp"
	connMaxLifetime = time.Minute * 3
	maxOpenConns    = 10
	maxIdleConns    = 10
)

// Store is a connection to the motif catalogue database.
type Store struct {
	pool *sql.DB
}

// New returns a new Store connection using mysql.Config that you can get from
// MySQLConfigFromConfig(config.FromEnv()).
func New(c *mysql.Config) (*Store, error) {
	pool, err := sql.Open(sqlDriverName, c.FormatDSN())
	if err != nil {
		return nil, err
	}

	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)

	return &Store{pool: pool}, pool.Ping()
}

// MySQLConfigFromConfig returns a mysql.Config for the database described by
// the SQL_* settings of the given Config.
func MySQLConfigFromConfig(c *config.Config) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = sqlNetwork
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.DBName

	return mc
}

// MotifRecord is a row of the motifs table. List columns are comma separated
// and the matrix is semicolon separated rows of A,C,G,T frequencies.
type MotifRecord struct {
	Name           string
	ShortName      sql.NullString
	LongName       sql.NullString
	Consensus      sql.NullString
	Matrix         sql.NullString
	Classification sql.NullString
	Factors        sql.NullString
	Organisms      sql.NullString
	Alternatives   sql.NullString
	Interactions   sql.NullString
	Part           sql.NullString
	GOTerms        sql.NullString
	Quality        sql.NullInt64
}

const getMotifs = `
SELECT m.name, m.short_name, m.long_name, m.consensus, m.matrix,
m.classification, m.factors, m.organisms, m.alternatives, m.interactions,
m.part, m.go_terms, m.quality
FROM motifs m
ORDER BY m.name
`

// Motifs returns all the motifs in the catalogue, sorted by name.
func (s *Store) Motifs() ([]*types.Motif, error) {
	rows, err := s.pool.Query(getMotifs)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var motifs []*types.Motif

	for rows.Next() {
		var rec MotifRecord

		if err := rows.Scan(
			&rec.Name,
			&rec.ShortName,
			&rec.LongName,
			&rec.Consensus,
			&rec.Matrix,
			&rec.Classification,
			&rec.Factors,
			&rec.Organisms,
			&rec.Alternatives,
			&rec.Interactions,
			&rec.Part,
			&rec.GOTerms,
			&rec.Quality,
		); err != nil {
			return nil, err
		}

		m, err := rec.Motif()
		if err != nil {
			return nil, err
		}

		motifs = append(motifs, m)
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return motifs, nil
}

// Motif converts the record to a Motif, deriving the consensus from the
// matrix if the record has none.
func (rec MotifRecord) Motif() (*types.Motif, error) {
	if err := types.ValidateName(rec.Name); err != nil {
		return nil, fmt.Errorf("%w: %q", err, rec.Name)
	}

	c := &formats.Converter{}

	m := &types.Motif{
		Name:           rec.Name,
		ShortName:      rec.ShortName.String,
		LongName:       rec.LongName.String,
		Consensus:      rec.Consensus.String,
		Matrix:         c.ToMatrix(rec.Matrix.String),
		Classification: rec.Classification.String,
		Factors:        c.ToList(rec.Factors.String),
		Organisms:      c.ToList(rec.Organisms.String),
		Alternatives:   c.ToList(rec.Alternatives.String),
		Interactions:   c.ToList(rec.Interactions.String),
		Part:           c.ToMotifPart(rec.Part.String),
		GOTerms:        c.ToList(rec.GOTerms.String),
		Quality:        int(rec.Quality.Int64),
	}

	if c.Err != nil {
		return nil, fmt.Errorf("motif %s: %w", rec.Name, c.Err)
	}

	if m.Consensus == "" && len(m.Matrix) > 0 {
		m.Consensus = m.ConsensusFromMatrix()
	}

	return m, nil
}

const getCollections = `
SELECT c.name, c.kind, cm.member
FROM collections c
JOIN collection_members cm on cm.collection_id = c.id
ORDER BY c.name, cm.position
`

// PredefinedCollections returns the named collections stored in the
// catalogue, sorted by name, with members in their stored order.
func (s *Store) PredefinedCollections() ([]*collection.Collection, error) {
	rows, err := s.pool.Query(getCollections)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var (
		collections []*collection.Collection
		current     *collection.Collection
	)

	for rows.Next() {
		var name, kind, member string

		if err := rows.Scan(&name, &kind, &member); err != nil {
			return nil, err
		}

		if current == nil || current.Name() != name {
			current, err = newCollection(name, kind)
			if err != nil {
				return nil, err
			}

			collections = append(collections, current)
		}

		current.Add(member)
	}

	if err := rows.Close(); err != nil {
		return nil, err
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return collections, nil
}

func newCollection(name, kind string) (*collection.Collection, error) {
	k, err := types.StringToKind(kind)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", name, err)
	}

	c, err := collection.New(name, k)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", name, err)
	}

	c.SetOrigin("catalogue")

	return c, nil
}

// Close closes the connection to the database.
func (s *Store) Close() error {
	return s.pool.Close()
}
