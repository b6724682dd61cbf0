package playlist

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"playlisttool/internal/fileutil"
)

const lockRetryDelay = 100 * time.Millisecond

// WriteOptions controls WriteFile.
type WriteOptions struct {
	// Backup copies an existing file at the target to <path>.bak first.
	Backup bool
}

// WriteResult describes what WriteFile did.
type WriteResult struct {
	Path       string
	BackupPath string
	Entries    int
	Bytes      int
}

// WriteFile renders pl with entries and atomically replaces path. A lock
// file beside the target serializes concurrent writers; WriteFile waits for
// it until ctx is done.
func WriteFile(ctx context.Context, path string, pl *Playlist, entries []Entry, opts WriteOptions) (WriteResult, error) {
	var buf bytes.Buffer
	if err := Render(&buf, pl, entries); err != nil {
		return WriteResult{}, fmt.Errorf("render playlist: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return WriteResult{}, fmt.Errorf("ensure playlist directory: %w", err)
	}

	lock := flock.New(lockPath(path))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return WriteResult{}, fmt.Errorf("acquire playlist lock: %w", err)
	}
	if !ok {
		return WriteResult{}, fmt.Errorf("acquire playlist lock: %s is held by another process", lock.Path())
	}
	defer func() { _ = lock.Unlock() }()

	result := WriteResult{Path: path, Entries: len(entries), Bytes: buf.Len()}
	if opts.Backup {
		backup, err := fileutil.Backup(path)
		if err != nil {
			return WriteResult{}, err
		}
		result.BackupPath = backup
	}
	if err := fileutil.WriteAtomic(path, buf.Bytes(), 0o644); err != nil {
		return WriteResult{}, fmt.Errorf("write playlist %s: %w", path, err)
	}
	return result, nil
}

func lockPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".lock")
}
