package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"playlisttool/internal/media"
)

func TestListJSONSortedLongestFirst(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"list", "-p", env.playlist, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var views []fileView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(views) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(views))
	}
	wantOrder := []string{"a.mp3", "b.mp3", "d.mp3", "c.mp3", "e.mp3", "missing.mp3"}
	for i, want := range wantOrder {
		if got := filepath.Base(views[i].Path); got != want {
			t.Fatalf("entry %d = %s, want %s", i, got, want)
		}
	}
	first := views[0]
	if first.DurationMS != 2_000_000 || first.Length != "00:33:20" || first.Index != 1 || first.BitRate != "128kbps" {
		t.Fatalf("unexpected first entry %+v", first)
	}
	last := views[5]
	if !last.Bad || last.SizeBytes != media.MissingSize || last.Index != 2 {
		t.Fatalf("expected missing entry last, got %+v", last)
	}
}

func TestListTableAndRemoveBad(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"list", "-p", env.playlist, "-r"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "a.mp3")
	requireContains(t, out, "5 FILES")
	if strings.Contains(out, "missing.mp3") {
		t.Fatalf("expected missing file to be removed:\n%s", out)
	}
}

func TestListTextToFile(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.baseDir, "list.txt")

	if _, _, err := runCLI(t, []string{"list", "-p", env.playlist, "-o", target}, env.configPath); err != nil {
		t.Fatalf("list: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 lines, got %d", len(lines))
	}
	want := "\"" + filepath.Join(env.musicDir, "a.mp3") + "\" [64] Length:00:33:20 (2000000ms) [128kbps]"
	if lines[0] != want {
		t.Fatalf("first line = %q, want %q", lines[0], want)
	}
}

func TestListOriginalOrder(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"list", "-p", env.playlist, "--json", "--original-order"}, env.configPath)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var views []fileView
	if err := json.Unmarshal([]byte(out), &views); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	wantOrder := []string{"c.mp3", "a.mp3", "missing.mp3", "d.mp3", "b.mp3", "e.mp3"}
	if len(views) != len(wantOrder) {
		t.Fatalf("expected %d entries, got %d", len(wantOrder), len(views))
	}
	for i, want := range wantOrder {
		if got := filepath.Base(views[i].Path); got != want || views[i].Index != i {
			t.Fatalf("entry %d = %s (index %d), want %s", i, got, views[i].Index, want)
		}
	}
	if views[1].DurationMS != 2_000_000 {
		t.Fatalf("expected durations to survive reordering, got %+v", views[1])
	}
}
