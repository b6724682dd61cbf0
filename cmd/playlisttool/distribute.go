package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"playlisttool/internal/bucket"
	"playlisttool/internal/config"
	"playlisttool/internal/logging"
	"playlisttool/internal/media"
	"playlisttool/internal/playlist"
	"playlisttool/internal/report"
)

type distributeOptions struct {
	playlistFile string
	wplFile      string
	threshold    int64
	bucketLength string
	removeBad    bool
	title        string
	seed         int64
	csv          bool
	outputFile   string
	json         bool
	dryRun       bool
	backup       bool
}

// distributeOutput is the --json document.
type distributeOutput struct {
	Playlist    string                 `json:"playlist"`
	ThresholdMS int64                  `json:"threshold_ms"`
	Seed        int64                  `json:"seed"`
	Entries     int                    `json:"entries"`
	BadFiles    []string               `json:"bad_files,omitempty"`
	Buckets     []report.BucketSummary `json:"buckets"`
	Written     string                 `json:"written,omitempty"`
	Backup      string                 `json:"backup,omitempty"`
	Title       string                 `json:"title,omitempty"`
	DryRun      bool                   `json:"dry_run"`
}

func newDistributeCommand(ctx *commandContext) *cobra.Command {
	var opts distributeOptions

	cmd := &cobra.Command{
		Use:   "distribute",
		Short: "Spread long entries evenly through a playlist",
		Long: "Reads a WPL playlist, groups entries into buckets anchored by tracks at or\n" +
			"above the bucket threshold, shuffles each bucket, and optionally writes the\n" +
			"result as a new WPL playlist (-w).",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			switch {
			case flags.Changed("bucket-length"):
				ms, err := media.ParseLength(opts.bucketLength)
				if err != nil {
					return fmt.Errorf("invalid --bucket-length: %w", err)
				}
				if ms <= 0 {
					return fmt.Errorf("invalid --bucket-length %q: must be longer than zero", opts.bucketLength)
				}
				opts.threshold = ms
			case !flags.Changed("bucket-threshold"):
				opts.threshold = cfg.Playlist.BucketThresholdMS
			}
			if !flags.Changed("seed") {
				opts.seed = cfg.Random.Seed
			}
			opts.removeBad = opts.removeBad || cfg.Playlist.RemoveBadFiles
			if strings.TrimSpace(opts.title) == "" {
				opts.title = cfg.Playlist.Title
			}
			return runDistribute(cmd, ctx, cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.playlistFile, "playlist-file", "p", "", "Playlist file to process")
	f.StringVarP(&opts.wplFile, "wpl-file", "w", "", "New WPL file to create")
	f.Int64VarP(&opts.threshold, "bucket-threshold", "b", 0, "Bucket threshold in ms; smaller values produce more buckets (default from config)")
	f.StringVar(&opts.bucketLength, "bucket-length", "", "Bucket threshold as HH:MM:SS, MM:SS or seconds")
	f.BoolVarP(&opts.removeBad, "remove-bad-files", "r", false, "Drop entries whose file is missing (files on disk are never touched)")
	f.StringVarP(&opts.title, "title", "t", "", "Title for the new playlist (default: source title plus timestamp)")
	f.Int64Var(&opts.seed, "seed", 0, "Random seed; 0 picks one from the clock (default from config)")
	f.BoolVar(&opts.csv, "csv", false, "Emit the reordered list as CSV")
	f.StringVarP(&opts.outputFile, "output-file", "o", "", "Write the reordered list report to this file instead of stdout")
	f.BoolVar(&opts.json, "json", false, "Emit a JSON summary instead of tables")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Do not write the new playlist")
	f.BoolVar(&opts.backup, "backup", false, "Copy an existing WPL file to <file>.bak before replacing it")
	_ = cmd.MarkFlagRequired("playlist-file")
	cmd.MarkFlagsMutuallyExclusive("csv", "json")
	cmd.MarkFlagsMutuallyExclusive("bucket-threshold", "bucket-length")

	return cmd
}

func runDistribute(cmd *cobra.Command, cmdCtx *commandContext, cfg *config.Config, opts distributeOptions) error {
	started := time.Now()
	ctx := runContext(cmd)
	baseLogger, err := cmdCtx.ensureLogger()
	if err != nil {
		return err
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(baseLogger, "distribute"))

	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if !opts.json {
		writeLines(out, distributeBanner(opts, colorize)...)
	}

	ingest, err := cmdCtx.ingest(ctx, cfg, logger, ingestOptions{
		playlistPath: opts.playlistFile,
		removeBad:    opts.removeBad,
	})
	if err != nil {
		return err
	}
	if !opts.json {
		writeLines(out, playlistDetails(ingest, opts.removeBad, colorize)...)
	}

	result, err := bucket.Reorder(media.ToItems(ingest.Files), opts.threshold, bucket.NewSource(opts.seed))
	if err != nil {
		if errors.Is(err, bucket.ErrEmptyBucketSet) {
			return fmt.Errorf("%w (lower --bucket-threshold)", err)
		}
		return fmt.Errorf("distribute playlist: %w", err)
	}
	files, err := media.FromItems(result.Items)
	if err != nil {
		return err
	}
	for _, b := range result.Buckets() {
		logger.Debug("bucket assembled",
			logging.String(logging.FieldBucket, b.Tag),
			logging.Int("position", b.Start),
			logging.Int("fillers", b.Fillers),
			logging.Int64("total_ms", b.TotalMS),
		)
	}
	summary := report.Summarize(files)
	bad := badPaths(ingest.Bad)
	logger.Info("playlist distributed",
		logging.Int("bucket_count", len(summary)),
		logging.Int("file_count", len(files)),
		logging.Int64("threshold_ms", opts.threshold),
		logging.Int64("seed", opts.seed),
		logging.Any("bad_files", bad),
		logging.Duration("elapsed", time.Since(started)),
	)

	if err := writeListReport(out, files, opts.csv, opts.outputFile); err != nil {
		return err
	}

	doc := distributeOutput{
		Playlist:    ingest.Source,
		ThresholdMS: opts.threshold,
		Seed:        opts.seed,
		Entries:     len(files),
		BadFiles:    bad,
		Buckets:     summary,
		DryRun:      opts.dryRun,
	}

	if !opts.json && !opts.csv {
		fmt.Fprintln(out, renderBucketTable(summary))
	}

	if target := strings.TrimSpace(opts.wplFile); target != "" {
		written, err := writeDistributed(ctx, ingest, files, target, opts)
		if err != nil {
			logging.ErrorWithContext(logger, "write playlist failed",
				"playlist_write_failed",
				logging.String(logging.FieldPath, target),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that the target directory is writable"),
			)
			return err
		}
		doc.Title = written.title
		if !opts.dryRun {
			doc.Written = written.result.Path
			doc.Backup = written.result.BackupPath
			logger.Info("playlist written",
				logging.String(logging.FieldPath, written.result.Path),
				logging.Int("entry_count", written.result.Entries),
				logging.String("backup", written.result.BackupPath),
			)
		}
		if !opts.json {
			writeLines(out, writtenLines(written, opts.dryRun, colorize)...)
		}
	}

	if opts.json {
		return writeJSON(cmd, doc)
	}
	writeLines(out, renderRunTimes(started, time.Now())...)
	return nil
}

func distributeBanner(opts distributeOptions, colorize bool) []string {
	lines := renderSectionHeader("Playlist Tool", colorize)
	wpl := opts.wplFile
	if wpl == "" {
		wpl = "(none)"
	}
	output := opts.outputFile
	if output == "" {
		output = "(stdout)"
	}
	return append(lines,
		renderField("Playlist file", opts.playlistFile),
		renderField("New playlist file", wpl),
		renderLengthField("Bucket threshold", opts.threshold),
		renderField("Seed", opts.seed),
		renderField("Output file", output),
		renderField("Output as CSV", yesNo(opts.csv)),
		renderField("Remove bad files", yesNo(opts.removeBad)),
		renderField("Dry run", yesNo(opts.dryRun)),
	)
}

func playlistDetails(ingest *ingestResult, removed bool, colorize bool) []string {
	pl := ingest.Playlist
	lines := renderSectionHeader("Playlist", colorize)
	itemCount := "(not set)"
	if pl.ItemCount >= 0 {
		itemCount = strconv.Itoa(pl.ItemCount)
	}
	author := pl.Author
	if author == "" {
		author = "(none)"
	}
	lines = append(lines,
		renderField("Title", pl.Title),
		renderField("Author", author),
		renderField("Item count", itemCount),
		renderField("Entries", len(pl.Entries)),
	)
	if ingest.CacheHits+ingest.CacheMisses > 0 {
		lines = append(lines, renderField("Probe cache", fmt.Sprintf("%d hits, %d misses", ingest.CacheHits, ingest.CacheMisses)))
	}
	return append(lines, renderBadFiles(ingest.Bad, removed, colorize)...)
}

func renderBucketTable(summary []report.BucketSummary) string {
	rows := make([][]string, 0, len(summary))
	var files int
	var total int64
	for i, b := range summary {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			b.Tag,
			b.Boundary,
			strconv.Itoa(b.Fillers),
			media.FormatLength(b.TotalMS),
		})
		files += b.Files
		total += b.TotalMS
	}
	return renderTable(tableData{
		Headers: []string{"#", "Bucket", "Boundary", "Fillers", "Length"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignRight},
		Footer:  []string{"", "", fmt.Sprintf("%d files", files), "", media.FormatLength(total)},
	})
}

// writeListReport writes files as CSV or as descriptive text lines. Without
// an output file only CSV is printed; the text form goes to files only.
func writeListReport(out io.Writer, files []*media.File, asCSV bool, outputFile string) error {
	target := strings.TrimSpace(outputFile)
	if target == "" {
		if asCSV {
			return report.WriteCSV(out, files)
		}
		return nil
	}
	path, err := config.ExpandPath(target)
	if err != nil {
		return fmt.Errorf("resolve output file: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	write := report.WriteText
	if asCSV {
		write = report.WriteCSV
	}
	if err := write(f, files); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

type writtenPlaylist struct {
	title  string
	result playlist.WriteResult
}

func writeDistributed(ctx context.Context, ingest *ingestResult, files []*media.File, target string, opts distributeOptions) (writtenPlaylist, error) {
	path, err := config.ExpandPath(target)
	if err != nil {
		return writtenPlaylist{}, fmt.Errorf("resolve wpl file: %w", err)
	}
	pl := *ingest.Playlist
	pl.Title = playlist.ResolveTitle(ingest.Playlist, opts.title, time.Now(), ingest.Source)

	entries := make([]playlist.Entry, len(files))
	for i, f := range files {
		entries[i] = f.Entry()
	}
	written := writtenPlaylist{
		title:  pl.Title,
		result: playlist.WriteResult{Path: path, Entries: len(entries)},
	}
	if opts.dryRun {
		return written, nil
	}
	result, err := playlist.WriteFile(ctx, path, &pl, entries, playlist.WriteOptions{Backup: opts.backup})
	if err != nil {
		return writtenPlaylist{}, err
	}
	written.result = result
	return written, nil
}

func writtenLines(written writtenPlaylist, dryRun bool, colorize bool) []string {
	lines := renderSectionHeader("New playlist", colorize)
	lines = append(lines, renderField("Title", written.title))
	if dryRun {
		return append(lines, renderStatusLine("File", statusInfo,
			fmt.Sprintf("dry run, %d entries not written to %s", written.result.Entries, written.result.Path), colorize))
	}
	lines = append(lines, renderStatusLine("File", statusOK,
		fmt.Sprintf("%d entries written to %s", written.result.Entries, written.result.Path), colorize))
	if written.result.BackupPath != "" {
		lines = append(lines, renderField("Backup", written.result.BackupPath))
	}
	return lines
}

func badPaths(files []*media.File) []string {
	if len(files) == 0 {
		return nil
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}
