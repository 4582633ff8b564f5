package source

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// CachingReader wraps a SourceReader with a SQLite-backed content
// cache keyed by canonical URI, so a workflow whose imports fan out
// across a shared struct library only fetches each file once per
// process even when the caller re-resolves the same graph repeatedly
// (e.g. a server handling many `parse` requests against the same
// pinned commit of a workflow repository).
type CachingReader struct {
	inner  SourceReader
	db     *sql.DB
	logger *slog.Logger
}

// NewCachingReader opens (or creates) a SQLite cache at dbPath —
// ":memory:" is valid, and useful in tests — wrapping inner.
func NewCachingReader(inner SourceReader, dbPath string, logger *slog.Logger) (*CachingReader, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open source cache %s: %w", dbPath, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS source_cache (
		uri TEXT PRIMARY KEY,
		content_hash TEXT NOT NULL,
		content BLOB NOT NULL,
		fetched_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate source cache: %w", err)
	}
	return &CachingReader{inner: inner, db: db, logger: logger.With("component", "source_cache")}, nil
}

func (c *CachingReader) Scheme() string { return c.inner.Scheme() }

// Close releases the underlying database handle.
func (c *CachingReader) Close() error { return c.db.Close() }

func (c *CachingReader) Read(ctx context.Context, uri string) ([]byte, error) {
	var content []byte
	err := c.db.QueryRowContext(ctx, `SELECT content FROM source_cache WHERE uri = ?`, uri).Scan(&content)
	if err == nil {
		c.logger.Debug("source cache hit", "uri", uri)
		return content, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("query source cache: %w", err)
	}

	data, err := c.inner.Read(ctx, uri)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	_, execErr := c.db.ExecContext(ctx,
		`INSERT INTO source_cache (uri, content_hash, content, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(uri) DO UPDATE SET content_hash = excluded.content_hash, content = excluded.content, fetched_at = excluded.fetched_at`,
		uri, hex.EncodeToString(sum[:]), data, time.Now().UTC().Format(time.RFC3339Nano))
	if execErr != nil {
		c.logger.Warn("failed to populate source cache", "uri", uri, "error", execErr)
	}
	return data, nil
}
