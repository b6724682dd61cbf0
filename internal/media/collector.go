package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"playlisttool/internal/logging"
	"playlisttool/internal/media/ffprobe"
	"playlisttool/internal/playlist"
)

// DefaultSizeDurationFactor estimates milliseconds per byte for files that
// report no duration. It was measured on a 113,815,552 byte file playing for
// 1h58m33s.
const DefaultSizeDurationFactor = 0.062495

// Probe is the metadata a Prober reports for one file.
type Probe struct {
	DurationMS int64
	BitRate    int64
}

// Prober reads duration and bitrate from a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (Probe, error)
}

// FFprobe probes files by running the ffprobe binary.
type FFprobe struct {
	Binary  string
	Timeout time.Duration
}

// Probe implements Prober.
func (p FFprobe) Probe(ctx context.Context, path string) (Probe, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		return Probe{}, err
	}
	return Probe{DurationMS: result.DurationMS(), BitRate: result.BitRate()}, nil
}

// Collector gathers File records for playlist entries.
type Collector struct {
	Prober Prober
	// Concurrency bounds simultaneous probes; values below 1 mean 1.
	Concurrency int
	// SizeDurationFactor is applied when a file reports no duration. Zero
	// leaves such files at 0 ms.
	SizeDurationFactor float64
	Logger             *slog.Logger
}

// Collect builds one File per entry in entry order. OriginalOrder is the
// entry index. Missing files are kept with SizeBytes set to MissingSize.
// Probe failures are logged and fall back to the size estimate; only context
// cancellation aborts the collection.
func (c *Collector) Collect(ctx context.Context, entries []playlist.Entry) ([]*File, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(c.Logger, "media"))

	files := make([]*File, len(entries))
	for i, entry := range entries {
		files[i] = newFile(i, entry)
	}

	limit := max(c.Concurrency, 1)
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(limit)
	for _, f := range files {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c.fill(gctx, logger, f)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("collect media: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("collect media: %w", err)
	}

	logger.Debug("media collected",
		logging.Int("file_count", len(files)),
		logging.Int("concurrency", limit),
	)
	return files, nil
}

func newFile(index int, entry playlist.Entry) *File {
	return &File{
		OriginalOrder: index,
		Path:          entry.Src,
		CID:           entry.Attr("cid"),
		TID:           entry.Attr("tid"),
		SizeBytes:     MissingSize,
		Attrs:         entry.Attrs,
	}
}

func (c *Collector) fill(ctx context.Context, logger *slog.Logger, f *File) {
	info, err := os.Stat(f.Path)
	switch {
	case err == nil && info.Mode().IsRegular():
		f.SizeBytes = info.Size()
	case err == nil || errors.Is(err, fs.ErrNotExist):
		logging.WarnWithContext(logger, "bad file found",
			"media_missing",
			logging.String(logging.FieldPath, f.Path),
			logging.String(logging.FieldErrorHint, "fix the playlist entry or rerun with --remove-bad-files"),
			logging.String(logging.FieldImpact, "entry kept without size or duration"),
		)
		return
	default:
		logging.WarnWithContext(logger, "stat media file failed",
			"media_stat_failed",
			logging.String(logging.FieldPath, f.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "entry treated as a bad file"),
		)
		return
	}

	if c.Prober != nil {
		probe, err := c.Prober.Probe(ctx, f.Path)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.WarnWithContext(logger, "probe media file failed",
				"media_probe_failed",
				logging.String(logging.FieldPath, f.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that ffprobe is installed and can read the file"),
				logging.String(logging.FieldImpact, "duration estimated from file size"),
			)
		} else {
			f.DurationMS = probe.DurationMS
			f.BitRate = FormatBitRate(probe.BitRate)
		}
	}
	f.Length = FormatLength(f.DurationMS)

	if f.DurationMS <= 0 && c.SizeDurationFactor > 0 {
		f.DurationMS = int64(c.SizeDurationFactor * float64(f.SizeBytes))
		logger.Debug("duration estimated from size",
			logging.String(logging.FieldPath, f.Path),
			logging.Int64("size_bytes", f.SizeBytes),
			logging.Int64("duration_ms", f.DurationMS),
		)
	}
	if strings.TrimSpace(f.BitRate) == "" {
		logger.Debug("no bit rate reported", logging.String(logging.FieldPath, f.Path))
	}
}
