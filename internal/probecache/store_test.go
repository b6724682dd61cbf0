package probecache_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"playlisttool/internal/media"
	"playlisttool/internal/probecache"
)

func openStore(t *testing.T) *probecache.Store {
	t.Helper()
	store, err := probecache.Open(context.Background(), filepath.Join(t.TempDir(), "cache", "probe.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveAndLookup(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	mod := time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)
	probe := media.Probe{DurationMS: 183_000, BitRate: 320_000}

	if _, ok, err := store.Lookup(ctx, "/music/a.mp3", 100, mod); err != nil || ok {
		t.Fatalf("expected miss on empty cache, got ok=%v err=%v", ok, err)
	}
	if err := store.Save(ctx, "/music/a.mp3", 100, mod, probe); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, ok, err := store.Lookup(ctx, "/music/a.mp3", 100, mod)
	if err != nil || !ok || got != probe {
		t.Fatalf("Lookup = %+v, %v, %v", got, ok, err)
	}
	if _, ok, _ := store.Lookup(ctx, "/music/a.mp3", 101, mod); ok {
		t.Fatal("expected miss when size changed")
	}
	if _, ok, _ := store.Lookup(ctx, "/music/a.mp3", 100, mod.Add(time.Second)); ok {
		t.Fatal("expected miss when mod time changed")
	}

	updated := media.Probe{DurationMS: 1, BitRate: 2}
	if err := store.Save(ctx, "/music/a.mp3", 101, mod, updated); err != nil {
		t.Fatalf("Save (update) returned error: %v", err)
	}
	if got, ok, _ := store.Lookup(ctx, "/music/a.mp3", 101, mod); !ok || got != updated {
		t.Fatalf("expected updated entry, got %+v %v", got, ok)
	}
}

func TestStatsClearAndPrune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	existing := filepath.Join(t.TempDir(), "keep.mp3")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	for _, path := range []string{existing, "/nonexistent/one.mp3", "/nonexistent/two.mp3"} {
		if err := store.Save(ctx, path, 1, now, media.Probe{DurationMS: 5}); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Entries != 3 || stats.Path != store.Path() || stats.FileBytes <= 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Oldest.IsZero() || stats.Newest.Before(stats.Oldest) {
		t.Fatalf("unexpected time range %+v", stats)
	}

	removed, err := store.Prune(ctx)
	if err != nil || removed != 2 {
		t.Fatalf("Prune = %d, %v; want 2", removed, err)
	}
	cleared, err := store.Clear(ctx)
	if err != nil || cleared != 1 {
		t.Fatalf("Clear = %d, %v; want 1", cleared, err)
	}
	if stats, _ := store.Stats(ctx); stats.Entries != 0 || !stats.Oldest.IsZero() {
		t.Fatalf("expected empty cache, got %+v", stats)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.db")
	store, err := probecache.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	if _, err := probecache.Open(context.Background(), path); !errors.Is(err, probecache.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := probecache.Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

type countingProber struct {
	calls int
	probe media.Probe
	err   error
}

func (c *countingProber) Probe(context.Context, string) (media.Probe, error) {
	c.calls++
	return c.probe, c.err
}

func TestCachedProberSkipsUnchangedFiles(t *testing.T) {
	store := openStore(t)
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}

	next := &countingProber{probe: media.Probe{DurationMS: 42_000, BitRate: 128_000}}
	prober := &probecache.CachedProber{Store: store, Next: next}
	ctx := context.Background()

	for range 3 {
		got, err := prober.Probe(ctx, path)
		if err != nil {
			t.Fatalf("Probe returned error: %v", err)
		}
		if got != next.probe {
			t.Fatalf("unexpected probe %+v", got)
		}
	}
	if next.calls != 1 {
		t.Fatalf("expected one underlying probe, got %d", next.calls)
	}
	if hits, misses := prober.Counts(); hits != 2 || misses != 1 {
		t.Fatalf("Counts = %d hits, %d misses", hits, misses)
	}

	if err := os.WriteFile(path, []byte("abcdef"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := prober.Probe(ctx, path); err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if next.calls != 2 {
		t.Fatalf("expected re-probe after file changed, got %d calls", next.calls)
	}
}

func TestCachedProberPropagatesErrors(t *testing.T) {
	store := openStore(t)
	path := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	prober := &probecache.CachedProber{Store: store, Next: &countingProber{err: errors.New("boom")}}
	if _, err := prober.Probe(context.Background(), path); err == nil {
		t.Fatal("expected error from underlying prober")
	}
	if stats, _ := store.Stats(context.Background()); stats.Entries != 0 {
		t.Fatal("failed probes must not be cached")
	}
	if _, err := prober.Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
