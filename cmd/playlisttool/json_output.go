package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"playlisttool/internal/config"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	return encodeJSON(cmd.OutOrStdout(), v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeJSONReport encodes v to outputFile, or to stdout when it is empty.
func writeJSONReport(cmd *cobra.Command, outputFile string, v any) error {
	target := strings.TrimSpace(outputFile)
	if target == "" {
		return writeJSON(cmd, v)
	}
	path, err := config.ExpandPath(target)
	if err != nil {
		return fmt.Errorf("resolve output file: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := encodeJSON(f, v); err != nil {
		_ = f.Close()
		return fmt.Errorf("write output file: %w", err)
	}
	return f.Close()
}
