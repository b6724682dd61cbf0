package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"playlisttool/internal/logging"
	"playlisttool/internal/media"
	"playlisttool/internal/report"
)

// fileView is the --json form of one working-list entry.
type fileView struct {
	Index      int    `json:"index"`
	Path       string `json:"path"`
	SizeBytes  int64  `json:"size_bytes"`
	Length     string `json:"length,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	BitRate    string `json:"bit_rate,omitempty"`
	CID        string `json:"cid,omitempty"`
	TID        string `json:"tid,omitempty"`
	Bad        bool   `json:"bad,omitempty"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var playlistFile string
	var outputFile string
	var removeBad bool
	var asCSV bool
	var asJSON bool
	var originalOrder bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show playlist entries with their durations, longest first",
		Long: "Reads a WPL playlist, measures every entry and lists them longest first.\n" +
			"Use --original-order to keep the playlist's own order instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx := runContext(cmd)
			baseLogger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			logger := logging.WithContext(runCtx, logging.NewComponentLogger(baseLogger, "list"))

			ingest, err := ctx.ingest(runCtx, cfg, logger, ingestOptions{
				playlistPath: playlistFile,
				removeBad:    removeBad || cfg.Playlist.RemoveBadFiles,
			})
			if err != nil {
				return err
			}
			files := ingest.Files
			if originalOrder {
				media.SortByOriginalOrder(files)
			}

			switch {
			case asJSON:
				return writeJSONReport(cmd, outputFile, fileViews(files))
			case asCSV || outputFile != "":
				return writeListReport(cmd.OutOrStdout(), files, asCSV, outputFile)
			default:
				fmt.Fprintln(cmd.OutOrStdout(), renderFileTable(files))
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&playlistFile, "playlist-file", "p", "", "Playlist file to read")
	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "Write the list to this file instead of stdout")
	cmd.Flags().BoolVarP(&removeBad, "remove-bad-files", "r", false, "Leave out entries whose file is missing")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Emit CSV")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	cmd.Flags().BoolVar(&originalOrder, "original-order", false, "List entries in playlist order instead of longest first")
	_ = cmd.MarkFlagRequired("playlist-file")
	cmd.MarkFlagsMutuallyExclusive("csv", "json")
	return cmd
}

func renderFileTable(files []*media.File) string {
	rows := make([][]string, 0, len(files))
	for i, f := range files {
		size := strconv.FormatInt(f.SizeBytes, 10)
		if f.Bad() {
			size = "missing"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(f.OriginalOrder),
			f.Path,
			size,
			f.Length,
			strconv.FormatInt(f.DurationMS, 10),
			f.BitRate,
		})
	}
	count, total := report.Totals(files)
	return renderTable(tableData{
		Headers: []string{"#", "Index", "File", "Size", "Length", "ms", "Bitrate"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		Footer:  []string{"", "", fmt.Sprintf("%d files", count), "", media.FormatLength(total), strconv.FormatInt(total, 10), ""},
	})
}

func fileViews(files []*media.File) []fileView {
	views := make([]fileView, len(files))
	for i, f := range files {
		views[i] = fileView{
			Index:      f.OriginalOrder,
			Path:       f.Path,
			SizeBytes:  f.SizeBytes,
			Length:     f.Length,
			DurationMS: f.DurationMS,
			BitRate:    f.BitRate,
			CID:        f.CID,
			TID:        f.TID,
			Bad:        f.Bad(),
		}
	}
	return views
}
