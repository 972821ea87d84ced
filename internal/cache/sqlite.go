package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLiteCache persists results on local disk so CLI runs can reuse them.
type SQLiteCache struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the cache database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteCache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteCache{db: db, now: time.Now}, nil
}

func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	var expiresAt int64
	err := c.db.QueryRowContext(ctx,
		"SELECT payload, expires_at_ns FROM results WHERE cache_key = ?", key,
	).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if expiresAt > 0 && c.now().UnixNano() >= expiresAt {
		if _, err := c.db.ExecContext(ctx,
			"DELETE FROM results WHERE cache_key = ? AND expires_at_ns = ?", key, expiresAt,
		); err != nil {
			return nil, false, err
		}
		return nil, false, nil
	}
	return payload, true, nil
}

// Set stores value. A non-positive ttl never expires.
func (c *SQLiteCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := c.now()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixNano()
	}

	_, err := c.db.ExecContext(ctx, `INSERT OR REPLACE INTO results
		(cache_key, payload, expires_at_ns, stored_at)
		VALUES (?, ?, ?, ?)`,
		key, value, expiresAt, now.UTC().Format(time.RFC3339),
	)
	return err
}

// Prune deletes expired entries and reports how many were removed.
func (c *SQLiteCache) Prune(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		"DELETE FROM results WHERE expires_at_ns > 0 AND expires_at_ns <= ?", c.now().UnixNano(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the cache database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
