// Package buildcache remembers which page sources were rendered with which
// template, so unchanged pages can be skipped on the next build.
package buildcache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/inful/mdfp"
	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Entry is the cached state of one page.
type Entry struct {
	Page        string
	Fingerprint string // content fingerprint, see Fingerprint
	Template    string // template fingerprint
	UpdatedAt   time.Time
}

// Fingerprint hashes a page's raw frontmatter and body.
func Fingerprint(frontmatter, body string) string {
	return mdfp.CalculateFingerprintFromParts(frontmatter, body)
}

// Store is a SQLite backed page cache. It is safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the cache database at path. Use ":memory:" for a
// throwaway cache.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, cacheError(err, "create cache directory", path)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, cacheError(err, "open cache database", path)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, cacheError(err, "initialize cache schema", path)
	}
	return s, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS pages (
		page TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		template TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`)
	return err
}

// Lookup returns the entry for page, if any.
func (s *Store) Lookup(ctx context.Context, page string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		e       = Entry{Page: page}
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT fingerprint, template, updated_at FROM pages WHERE page = ?", page,
	).Scan(&e.Fingerprint, &e.Template, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, cacheError(err, "query cache entry", page)
	}
	e.UpdatedAt = time.Unix(updated, 0)
	return e, true, nil
}

// Put inserts or replaces the entry for e.Page. A zero UpdatedAt is set to now.
func (s *Store) Put(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO pages (page, fingerprint, template, updated_at) VALUES (?, ?, ?, ?)
	ON CONFLICT(page) DO UPDATE SET
		fingerprint = excluded.fingerprint,
		template = excluded.template,
		updated_at = excluded.updated_at`,
		e.Page, e.Fingerprint, e.Template, e.UpdatedAt.Unix(),
	)
	if err != nil {
		return cacheError(err, "store cache entry", e.Page)
	}
	return nil
}

// Delete removes the entry for page. Missing entries are not an error.
func (s *Store) Delete(ctx context.Context, page string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE page = ?", page); err != nil {
		return cacheError(err, "delete cache entry", page)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func cacheError(err error, op, target string) error {
	return ferrors.WrapError(err, ferrors.CategoryCache, "failed to "+op).
		WithContext("target", target).
		Build()
}
