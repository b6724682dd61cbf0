// Package report renders the working file list as CSV, plain text, and
// per-bucket summaries.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"playlisttool/internal/media"
)

// CSVHeader is the first record written by WriteCSV.
var CSVHeader = []string{"Index", "filename", "size", "lengthMS", "BucketNumber"}

// WriteCSV writes one record per file in slice order. Index is the file's
// position in the source playlist; BucketNumber is -1 for unassigned files.
func WriteCSV(w io.Writer, files []*media.File) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, f := range files {
		record := []string{
			strconv.Itoa(f.OriginalOrder),
			f.Path,
			strconv.FormatInt(f.SizeBytes, 10),
			strconv.FormatInt(f.DurationMS, 10),
			strconv.Itoa(f.BucketNumber()),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteText writes one descriptive line per file.
func WriteText(w io.Writer, files []*media.File) error {
	for _, f := range files {
		if _, err := fmt.Fprintln(w, f.String()); err != nil {
			return err
		}
	}
	return nil
}

// BucketSummary describes one bucket of a distributed list.
type BucketSummary struct {
	Tag      string `json:"tag"`
	Boundary string `json:"boundary"`
	Files    int    `json:"files"`
	Fillers  int    `json:"fillers"`
	TotalMS  int64  `json:"total_ms"`
}

// Summarize groups consecutive files sharing a bucket tag, in list order.
// The first file of each group is reported as its boundary. Files without a
// tag are skipped.
func Summarize(files []*media.File) []BucketSummary {
	var out []BucketSummary
	for _, f := range files {
		if f.BucketTag == "" {
			continue
		}
		if n := len(out); n == 0 || out[n-1].Tag != f.BucketTag {
			out = append(out, BucketSummary{Tag: f.BucketTag, Boundary: f.Path})
		} else {
			out[n-1].Fillers++
		}
		last := &out[len(out)-1]
		last.Files++
		last.TotalMS += f.DurationMS
	}
	return out
}

// Totals sums file count and play time across files.
func Totals(files []*media.File) (count int, totalMS int64) {
	for _, f := range files {
		totalMS += f.DurationMS
	}
	return len(files), totalMS
}
