// Package lexstore persists lexicons in SQLite.
//
// A store holds exactly one lexicon. Import replaces it atomically and
// Load reads it back in the original entry order, so a lexicon loaded from
// a store analyzes words exactly like the YAML it was imported from.
package lexstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dkoosis/morphd/pkg/lexicon"

	_ "modernc.org/sqlite"
)

// ErrNotOpen is returned by operations on a store without a database.
var ErrNotOpen = errors.New("lexicon store not open")

const (
	kindRoot   = "root"
	kindSuffix = "suffix"

	metaSource     = "source"
	metaImportedAt = "imported_at"
)

// Meta describes where the stored lexicon came from.
type Meta struct {
	Source     string
	ImportedAt time.Time
}

// Store is a SQLite-backed lexicon.
type Store struct {
	db   *sql.DB
	path string
	log  *slog.Logger
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for migration progress.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Open opens the database at path. The schema is not touched; call Migrate
// before Import on a new file.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("lexicon store path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging sqlite database: %w", err)
	}
	s := New(db, opts...)
	s.path = path
	return s, nil
}

// New wraps an existing database handle.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, log: slog.New(slog.DiscardHandler), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file the store was opened from, if any.
func (s *Store) Path() string { return s.path }

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Import replaces the stored lexicon with lex in a single transaction and
// records source as its origin.
func (s *Store) Import(lex *lexicon.Lexicon, source string) (err error) {
	if s.db == nil {
		return ErrNotOpen
	}
	if err := lex.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM morphemes`); err != nil {
		return fmt.Errorf("clearing morphemes: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO morphemes
		(id, kind, position, lexical, type, labels, alternates, follows)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	if err = insertEntries(stmt, kindRoot, lex.Roots); err != nil {
		return err
	}
	if err = insertEntries(stmt, kindSuffix, lex.Suffixes); err != nil {
		return err
	}
	if _, err = tx.Exec(`DELETE FROM lexicon_meta`); err != nil {
		return fmt.Errorf("clearing lexicon meta: %w", err)
	}
	if _, err = tx.Exec(`INSERT INTO lexicon_meta (key, value) VALUES (?, ?), (?, ?)`,
		metaSource, source, metaImportedAt, s.now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("writing lexicon meta: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	s.log.Debug("lexicon imported", "source", source, "roots", len(lex.Roots), "suffixes", len(lex.Suffixes))
	return nil
}

// Meta returns the origin recorded by the last Import. A store that has
// never been imported into returns a zero Meta.
func (s *Store) Meta() (Meta, error) {
	if s.db == nil {
		return Meta{}, ErrNotOpen
	}
	rows, err := s.db.Query(`SELECT key, value FROM lexicon_meta`)
	if err != nil {
		return Meta{}, fmt.Errorf("querying lexicon meta: %w", err)
	}
	defer rows.Close()

	var m Meta
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Meta{}, fmt.Errorf("scanning lexicon meta: %w", err)
		}
		switch key {
		case metaSource:
			m.Source = value
		case metaImportedAt:
			if m.ImportedAt, err = time.Parse(time.RFC3339, value); err != nil {
				return Meta{}, fmt.Errorf("lexicon meta %s: %w", key, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return Meta{}, fmt.Errorf("reading lexicon meta: %w", err)
	}
	return m, nil
}

func insertEntries(stmt *sql.Stmt, kind string, entries []lexicon.Entry) error {
	for i, e := range entries {
		labels, err := encodeList(e.Labels)
		if err != nil {
			return err
		}
		alternates, err := encodeList(e.Alternates)
		if err != nil {
			return err
		}
		follows, err := encodeList(e.Follows)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(e.ID, kind, i, e.Lexical, e.Type, labels, alternates, follows); err != nil {
			return fmt.Errorf("inserting %s %q: %w", kind, e.ID, err)
		}
	}
	return nil
}

// Load reads the stored lexicon and validates it.
func (s *Store) Load() (*lexicon.Lexicon, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.Query(`SELECT id, kind, lexical, type, labels, alternates, follows
		FROM morphemes ORDER BY kind = 'suffix', position`)
	if err != nil {
		return nil, fmt.Errorf("querying morphemes: %w", err)
	}
	defer rows.Close()

	var lex lexicon.Lexicon
	for rows.Next() {
		var (
			e                          lexicon.Entry
			kind                       string
			labels, alternates, follow string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Lexical, &e.Type, &labels, &alternates, &follow); err != nil {
			return nil, fmt.Errorf("scanning morpheme: %w", err)
		}
		if e.Labels, err = decodeList(labels); err != nil {
			return nil, fmt.Errorf("morpheme %q labels: %w", e.ID, err)
		}
		if e.Alternates, err = decodeList(alternates); err != nil {
			return nil, fmt.Errorf("morpheme %q alternates: %w", e.ID, err)
		}
		if e.Follows, err = decodeList(follow); err != nil {
			return nil, fmt.Errorf("morpheme %q follows: %w", e.ID, err)
		}
		switch kind {
		case kindRoot:
			lex.Roots = append(lex.Roots, e)
		case kindSuffix:
			lex.Suffixes = append(lex.Suffixes, e)
		default:
			return nil, fmt.Errorf("morpheme %q has unknown kind %q", e.ID, kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading morphemes: %w", err)
	}
	if err := lex.Validate(); err != nil {
		if s.path != "" {
			return nil, fmt.Errorf("%s: %w", s.path, err)
		}
		return nil, err
	}
	return &lex, nil
}

// LoadFile opens path, loads its lexicon and closes it again.
func LoadFile(path string, opts ...Option) (*lexicon.Lexicon, error) {
	s, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Load()
}

func encodeList(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}
