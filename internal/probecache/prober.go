package probecache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"playlisttool/internal/logging"
	"playlisttool/internal/media"
)

// CachedProber answers from the store when the file is unchanged and
// otherwise delegates to Next, recording the result.
type CachedProber struct {
	Store  *Store
	Next   media.Prober
	Logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// Probe implements media.Prober.
func (p *CachedProber) Probe(ctx context.Context, path string) (media.Probe, error) {
	info, err := os.Stat(path)
	if err != nil {
		return media.Probe{}, fmt.Errorf("stat %s: %w", path, err)
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(p.Logger, "probecache"))

	if probe, ok, err := p.Store.Lookup(ctx, path, info.Size(), info.ModTime()); err != nil {
		logging.WarnWithContext(logger, "probe cache lookup failed",
			"probecache_lookup_failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file probed again"),
		)
	} else if ok {
		p.hits.Add(1)
		return probe, nil
	}

	p.misses.Add(1)
	probe, err := p.Next.Probe(ctx, path)
	if err != nil {
		return media.Probe{}, err
	}
	if err := p.Store.Save(ctx, path, info.Size(), info.ModTime(), probe); err != nil {
		logging.WarnWithContext(logger, "probe cache save failed",
			"probecache_save_failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file will be probed again next run"),
		)
	}
	return probe, nil
}

// Counts returns cache hits and misses since construction.
func (p *CachedProber) Counts() (hits, misses int64) {
	return p.hits.Load(), p.misses.Load()
}
