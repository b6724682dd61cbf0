package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"playlisttool/internal/bucket"
	"playlisttool/internal/playlist"
	"playlisttool/internal/testsupport"
)

func TestDistributeWritesPlaylist(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "out", "mixed.wpl")

	out, _, err := runCLI(t, []string{"distribute", "-p", env.playlist, "-w", target, "--seed", "7", "-r"}, env.configPath)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	requireContains(t, out, "== Playlist Tool ==")
	requireContains(t, out, "1 removed")
	requireContains(t, out, "BOUNDARY")
	requireContains(t, out, "5 entries written to "+target)
	requireContains(t, out, "Elapsed:")

	pl, err := playlist.ParseFile(target)
	if err != nil {
		t.Fatalf("parse written playlist: %v", err)
	}
	if pl.ItemCount != 5 || len(pl.Entries) != 5 {
		t.Fatalf("expected 5 entries, got ItemCount=%d entries=%d", pl.ItemCount, len(pl.Entries))
	}
	if !strings.HasPrefix(pl.Title, "Road Mix (") {
		t.Fatalf("unexpected title %q", pl.Title)
	}

	var names []string
	for _, entry := range pl.Entries {
		names = append(names, filepath.Base(entry.Src))
	}
	if first := names[0]; first != "a.mp3" && first != "b.mp3" {
		t.Fatalf("expected a boundary track first, got %v", names)
	}
	slices.Sort(names)
	if want := []string{"a.mp3", "b.mp3", "c.mp3", "d.mp3", "e.mp3"}; !slices.Equal(names, want) {
		t.Fatalf("written entries = %v, want %v", names, want)
	}
}

func TestDistributeJSONDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "dry.wpl")

	out, _, err := runCLI(t, []string{"distribute", "-p", env.playlist, "-w", target, "--seed", "7", "--json", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	var doc distributeOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if !doc.DryRun || doc.Written != "" {
		t.Fatalf("expected dry run without write, got %+v", doc)
	}
	if doc.Seed != 7 || doc.ThresholdMS != 1765000 {
		t.Fatalf("unexpected seed/threshold %+v", doc)
	}
	if doc.Entries != 6 || len(doc.BadFiles) != 1 || len(doc.Buckets) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	files := 0
	for _, b := range doc.Buckets {
		files += b.Files
	}
	if files != 6 {
		t.Fatalf("buckets hold %d files, want 6", files)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Fatalf("dry run must not create %s (err=%v)", target, err)
	}
}

func TestDistributeUsesConfiguredThresholdAndSeed(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithThreshold(100_000), testsupport.WithSeed(9))

	out, _, err := runCLI(t, []string{"distribute", "-p", env.playlist, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	var doc distributeOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if doc.ThresholdMS != 100_000 || doc.Seed != 9 {
		t.Fatalf("expected config threshold and seed, got %+v", doc)
	}
	// a, b and d reach 100s.
	if len(doc.Buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(doc.Buckets))
	}
}

func TestDistributeBucketLength(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithThreshold(100_000))

	out, _, err := runCLI(t, []string{"distribute", "-p", env.playlist, "--json", "--seed", "3", "--bucket-length", "00:33:00"}, env.configPath)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	var doc distributeOutput
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if doc.ThresholdMS != 1_980_000 {
		t.Fatalf("expected --bucket-length to override config, got %d", doc.ThresholdMS)
	}
	// Only a reaches 33 minutes.
	if len(doc.Buckets) != 1 || doc.Buckets[0].Files != 6 {
		t.Fatalf("expected a single bucket holding every entry, got %+v", doc.Buckets)
	}
}

func TestDistributeCSVToFile(t *testing.T) {
	env := setupCLITestEnv(t)
	reportPath := filepath.Join(env.baseDir, "report.csv")

	if _, _, err := runCLI(t, []string{"distribute", "-p", env.playlist, "--csv", "-o", reportPath}, env.configPath); err != nil {
		t.Fatalf("distribute: %v", err)
	}
	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected header plus 6 rows, got %d:\n%s", len(lines), data)
	}
	if lines[0] != "Index,filename,size,lengthMS,BucketNumber" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], ",2000000,0") && !strings.HasSuffix(lines[1], ",1900000,1") {
		t.Fatalf("expected a boundary row first, got %q", lines[1])
	}
}

func TestDistributeSameSeedSameOrder(t *testing.T) {
	env := setupCLITestEnv(t)
	first := filepath.Join(env.baseDir, "first.wpl")
	second := filepath.Join(env.baseDir, "second.wpl")

	for _, target := range []string{first, second} {
		args := []string{"distribute", "-p", env.playlist, "-w", target, "--seed", "42", "-t", "Fixed"}
		if _, _, err := runCLI(t, args, env.configPath); err != nil {
			t.Fatalf("distribute %s: %v", target, err)
		}
	}
	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Fatalf("same seed produced different playlists:\n%s\n---\n%s", a, b)
	}
	requireContains(t, string(a), "<title>Fixed</title>")
}

func TestDistributeBackupExistingTarget(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "mixed.wpl")
	if err := os.WriteFile(target, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"distribute", "-p", env.playlist, "-w", target, "--backup"}, env.configPath)
	if err != nil {
		t.Fatalf("distribute: %v", err)
	}
	requireContains(t, out, "Backup:")
	data, err := os.ReadFile(target + ".bak")
	if err != nil || string(data) != "previous" {
		t.Fatalf("expected backup with previous content, got %q (err=%v)", data, err)
	}
}

func TestDistributeErrors(t *testing.T) {
	env := setupCLITestEnv(t)

	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{
			name:  "threshold above every track",
			args:  []string{"distribute", "-p", env.playlist, "-b", "999999999"},
			check: func(err error) bool { return errors.Is(err, bucket.ErrEmptyBucketSet) },
		},
		{
			name:  "missing playlist flag",
			args:  []string{"distribute"},
			check: func(err error) bool { return strings.Contains(err.Error(), "playlist-file") },
		},
		{
			name:  "playlist not found",
			args:  []string{"distribute", "-p", filepath.Join(env.baseDir, "nope.wpl")},
			check: func(err error) bool { return errors.Is(err, os.ErrNotExist) },
		},
		{
			name:  "csv and json together",
			args:  []string{"distribute", "-p", env.playlist, "--csv", "--json"},
			check: func(err error) bool { return strings.Contains(err.Error(), "csv") },
		},
		{
			name:  "malformed bucket length",
			args:  []string{"distribute", "-p", env.playlist, "--bucket-length", "1:2:3:4"},
			check: func(err error) bool { return strings.Contains(err.Error(), "--bucket-length") },
		},
		{
			name:  "zero bucket length",
			args:  []string{"distribute", "-p", env.playlist, "--bucket-length", "00:00"},
			check: func(err error) bool { return strings.Contains(err.Error(), "longer than zero") },
		},
		{
			name:  "bucket length and threshold together",
			args:  []string{"distribute", "-p", env.playlist, "-b", "1000", "--bucket-length", "10"},
			check: func(err error) bool { return strings.Contains(err.Error(), "bucket-length") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args, env.configPath)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
