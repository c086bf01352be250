/*
Package sqlitestore persists glyph data and character metadata in a SQLite
database. It implements the glyph store of a session.

Geometry and metadata are stored as JSON documents keyed by codepoint. A
commit batch is written in a single transaction.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/npillmayer/glyphlink/core"
	"github.com/npillmayer/glyphlink/core/glyph"
	"github.com/npillmayer/glyphlink/engine/session"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'glyphlink.sqlitestore'.
func tracer() tracing.Trace {
	return tracing.Select("glyphlink.sqlitestore")
}

// Store is a SQLite-backed glyph store.
type Store struct {
	db *sql.DB
}

var _ session.GlyphStore = (*Store)(nil)

// Open creates or opens a database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, core.WrapError(err, core.EINTERNAL, "cannot open glyph database %s", path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, core.WrapError(err, core.EINTERNAL, "cannot open glyph database %s", path)
	}
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	tracer().Debugf("opened glyph database %s", path)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS glyphs (
			code INTEGER PRIMARY KEY,
			data JSON
		);`,
		`CREATE TABLE IF NOT EXISTS characters (
			code INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			meta JSON
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// Glyph implements glyph.Source. Read errors are traced and reported as
// absent glyphs.
func (s *Store) Glyph(code rune) (glyph.GlyphData, bool) {
	var raw []byte
	err := s.db.QueryRow(`SELECT data FROM glyphs WHERE code = ?`, int64(code)).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		tracer().Errorf("cannot read glyph U+%04X: %v", code, err)
		return nil, false
	}
	var g glyph.GlyphData
	if err := json.Unmarshal(raw, &g); err != nil {
		tracer().Errorf("corrupt glyph U+%04X: %v", code, err)
		return nil, false
	}
	return g, true
}

// snapshot memoizes reads. The session does not commit while a cascade
// reads from a snapshot, so the database content is stable meanwhile.
type snapshot struct {
	store *Store
	cache map[rune]glyph.GlyphData
	seen  map[rune]bool
}

func (sn *snapshot) Glyph(code rune) (glyph.GlyphData, bool) {
	if sn.seen[code] {
		g, ok := sn.cache[code]
		return g, ok
	}
	g, ok := sn.store.Glyph(code)
	sn.seen[code] = true
	if ok {
		sn.cache[code] = g
	}
	return g, ok
}

// Snapshot implements session.GlyphStore.
func (s *Store) Snapshot() glyph.Source {
	return &snapshot{
		store: s,
		cache: make(map[rune]glyph.GlyphData),
		seen:  make(map[rune]bool),
	}
}

// Commit implements session.GlyphStore. All writes of b happen in one
// transaction.
func (s *Store) Commit(ctx context.Context, b session.Batch) error {
	if b.Empty() {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for code, g := range b.Glyphs {
		data, err := json.Marshal(g)
		if err != nil {
			return core.WrapError(err, core.EINTERNAL, "cannot encode glyph U+%04X", code)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO glyphs (code, data) VALUES (?, ?)
			ON CONFLICT(code) DO UPDATE SET data=excluded.data
		`, int64(code), data); err != nil {
			return err
		}
	}
	for _, ch := range b.Characters {
		meta, err := json.Marshal(ch)
		if err != nil {
			return core.WrapError(err, core.EINTERNAL, "cannot encode character %s", ch.Name)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO characters (code, name, meta) VALUES (?, ?, ?)
			ON CONFLICT(code) DO UPDATE SET name=excluded.name, meta=excluded.meta
		`, int64(ch.Code), ch.Name, meta); err != nil {
			return err
		}
	}
	for _, code := range b.Deletes {
		if _, err := tx.ExecContext(ctx, `DELETE FROM glyphs WHERE code = ?`, int64(code)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM characters WHERE code = ?`, int64(code)); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	tracer().Debugf("committed %d glyphs, %d characters, %d deletions",
		len(b.Glyphs), len(b.Characters), len(b.Deletes))
	return nil
}

// Characters loads all character metadata, ordered by codepoint.
func (s *Store) Characters(ctx context.Context) ([]*glyph.Character, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT meta FROM characters ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var chars []*glyph.Character
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		ch := &glyph.Character{}
		if err := json.Unmarshal(raw, ch); err != nil {
			return nil, core.WrapError(err, core.EINVALID, "corrupt character record")
		}
		chars = append(chars, ch)
	}
	return chars, rows.Err()
}
