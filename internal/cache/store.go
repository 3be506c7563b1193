// Package cache persists check verdicts in a SQLite database so unchanged
// files are not re-checked. The key covers the source bytes and the initial
// typing environment, so changing either invalidates the entry.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/funvibe/tinyts/internal/typesystem"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	key        TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	run_id     TEXT NOT NULL,
	type_yaml  TEXT,
	code       TEXT,
	message    TEXT,
	line       INTEGER NOT NULL DEFAULT 0,
	col        INTEGER NOT NULL DEFAULT 0,
	name       TEXT,
	arg_index  INTEGER NOT NULL DEFAULT -1,
	checked_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS results_run ON results(run_id);
`

// Entry is one cached verdict: either TypeYAML or Code is set.
type Entry struct {
	Key       string
	Path      string
	RunID     string
	TypeYAML  string
	Code      string
	Message   string
	Line      int
	Column    int
	Name      string
	Index     int
	CheckedAt time.Time
}

// Failed reports whether the entry records a diagnostic.
func (e Entry) Failed() bool {
	return e.Code != ""
}

// Stats summarises the cache contents.
type Stats struct {
	Entries  int
	Failures int
	Runs     int
}

// Store is a SQLite-backed result cache. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	// A single connection serialises writers; SQLite would otherwise report SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising cache %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key derives the cache key for source checked under env.
func Key(source []byte, env *typesystem.Env) string {
	h := sha256.New()
	h.Write([]byte(env.Fingerprint()))
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the entry for key, if present.
func (s *Store) Lookup(ctx context.Context, key string) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT key, path, run_id, type_yaml, code, message, line, col, name, arg_index, checked_at
		FROM results WHERE key = ?`, key)

	var (
		e                         Entry
		typeYAML, code, msg, name sql.NullString
		checkedAt                 int64
	)
	err := row.Scan(&e.Key, &e.Path, &e.RunID, &typeYAML, &code, &msg, &e.Line, &e.Column, &name, &e.Index, &checkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("looking up %s: %w", key, err)
	}
	e.TypeYAML = typeYAML.String
	e.Code = code.String
	e.Message = msg.String
	e.Name = name.String
	e.CheckedAt = time.Unix(0, checkedAt)
	return e, true, nil
}

// Put inserts or replaces an entry.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.CheckedAt.IsZero() {
		e.CheckedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO results
			(key, path, run_id, type_yaml, code, message, line, col, name, arg_index, checked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Key, e.Path, e.RunID,
		nullable(e.TypeYAML), nullable(e.Code), nullable(e.Message),
		e.Line, e.Column, nullable(e.Name), e.Index,
		e.CheckedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("storing %s: %w", e.Path, err)
	}
	return nil
}

// Clean removes every entry.
func (s *Store) Clean(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM results`); err != nil {
		return fmt.Errorf("cleaning cache: %w", err)
	}
	return nil
}

// Stats counts entries, failed entries and distinct runs.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN code IS NOT NULL THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT run_id)
		FROM results`).Scan(&st.Entries, &st.Failures, &st.Runs)
	if err != nil {
		return Stats{}, fmt.Errorf("reading cache stats: %w", err)
	}
	return st, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
