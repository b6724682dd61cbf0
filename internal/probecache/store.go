package probecache

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"playlisttool/internal/media"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly. Older
// databases must be cleared (playlisttool cache clear) or deleted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version.
var ErrSchemaMismatch = errors.New("probe cache schema version mismatch")

// Store is the SQLite-backed probe cache.
type Store struct {
	db   *sql.DB
	path string
}

// Stats summarizes cache contents.
type Stats struct {
	Path      string    `json:"path"`
	Entries   int       `json:"entries"`
	FileBytes int64     `json:"file_bytes"`
	Oldest    time.Time `json:"oldest,omitzero"`
	Newest    time.Time `json:"newest,omitzero"`
}

// Open creates or opens the cache database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("probe cache: empty database path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Collect probes concurrently; one connection keeps sqlite writes serial.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Lookup returns the cached probe for path when size and modTime match the
// recorded values.
func (s *Store) Lookup(ctx context.Context, path string, size int64, modTime time.Time) (media.Probe, bool, error) {
	var probe media.Probe
	err := s.db.QueryRowContext(ctx,
		`SELECT duration_ms, bit_rate FROM probes
         WHERE path = ? AND size_bytes = ? AND mod_time_ns = ?`,
		path, size, modTime.UnixNano(),
	).Scan(&probe.DurationMS, &probe.BitRate)
	if errors.Is(err, sql.ErrNoRows) {
		return media.Probe{}, false, nil
	}
	if err != nil {
		return media.Probe{}, false, fmt.Errorf("lookup probe %s: %w", path, err)
	}
	return probe, true, nil
}

// Save records probe for path, replacing any previous entry.
func (s *Store) Save(ctx context.Context, path string, size int64, modTime time.Time, probe media.Probe) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO probes (path, size_bytes, mod_time_ns, duration_ms, bit_rate, probed_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
            size_bytes = excluded.size_bytes,
            mod_time_ns = excluded.mod_time_ns,
            duration_ms = excluded.duration_ms,
            bit_rate = excluded.bit_rate,
            probed_at = excluded.probed_at`,
		path, size, modTime.UnixNano(), probe.DurationMS, probe.BitRate,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save probe %s: %w", path, err)
	}
	return nil
}

// Stats returns entry count, on-disk size including the WAL file, and the
// probe time range.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), MIN(probed_at), MAX(probed_at) FROM probes`,
	).Scan(&stats.Entries, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("probe cache stats: %w", err)
	}
	stats.Oldest = parseTimestamp(oldest)
	stats.Newest = parseTimestamp(newest)
	for _, file := range []string{s.path, s.path + "-wal"} {
		if info, err := os.Stat(file); err == nil {
			stats.FileBytes += info.Size()
		}
	}
	return stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM probes`)
	if err != nil {
		return 0, fmt.Errorf("clear probe cache: %w", err)
	}
	return res.RowsAffected()
}

// Prune removes entries whose file no longer exists and returns how many
// were deleted.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM probes`)
	if err != nil {
		return 0, fmt.Errorf("list probe cache: %w", err)
	}
	var stale []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			_ = rows.Close()
			return 0, err
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			stale = append(stale, path)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, err
	}
	_ = rows.Close()

	var removed int64
	for _, path := range stale {
		res, err := s.db.ExecContext(ctx, `DELETE FROM probes WHERE path = ?`, path)
		if err != nil {
			return removed, fmt.Errorf("prune %s: %w", path, err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}
	return removed, nil
}

func parseTimestamp(value sql.NullString) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return time.Time{}
	}
	return ts
}
