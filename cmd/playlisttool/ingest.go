package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"playlisttool/internal/config"
	"playlisttool/internal/logging"
	"playlisttool/internal/media"
	"playlisttool/internal/playlist"
)

type ingestOptions struct {
	playlistPath string
	removeBad    bool
}

// ingestResult is a parsed playlist plus its working file list, sorted
// longest first.
type ingestResult struct {
	Source      string
	Playlist    *playlist.Playlist
	Files       []*media.File
	Bad         []*media.File
	CacheHits   int64
	CacheMisses int64
}

func (c *commandContext) ingest(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ingestOptions) (*ingestResult, error) {
	raw := strings.TrimSpace(opts.playlistPath)
	if raw == "" {
		return nil, errors.New("playlist file is required (use --playlist-file)")
	}
	source, err := config.ExpandPath(raw)
	if err != nil {
		return nil, fmt.Errorf("resolve playlist path: %w", err)
	}

	pl, err := playlist.ParseFile(source)
	if err != nil {
		return nil, err
	}
	logger.Debug("playlist parsed",
		logging.String(logging.FieldPath, source),
		logging.Int("entry_count", len(pl.Entries)),
		logging.Int("item_count", pl.ItemCount),
	)

	prober, cached, closeProber, err := c.openProber(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer closeProber()

	collector := &media.Collector{
		Prober:             prober,
		Concurrency:        cfg.Probe.Concurrency,
		SizeDurationFactor: cfg.Probe.SizeDurationFactor,
		Logger:             logger,
	}
	files, err := collector.Collect(ctx, pl.Entries)
	if err != nil {
		return nil, err
	}

	kept, bad := media.FilterBad(files, opts.removeBad)
	media.SortByDuration(kept)

	result := &ingestResult{Source: source, Playlist: pl, Files: kept, Bad: bad}
	if cached != nil {
		result.CacheHits, result.CacheMisses = cached.Counts()
	}

	attrs := []logging.Attr{
		logging.String(logging.FieldPath, source),
		logging.Int("file_count", len(kept)),
		logging.Int("bad_count", len(bad)),
		logging.Bool("bad_removed", opts.removeBad),
	}
	if cached != nil {
		attrs = append(attrs,
			logging.Int64("cache_hits", result.CacheHits),
			logging.Int64("cache_misses", result.CacheMisses),
		)
	}
	logger.Info("playlist loaded", logging.Args(attrs...)...)
	return result, nil
}
