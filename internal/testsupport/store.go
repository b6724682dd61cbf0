package testsupport

import (
	"context"
	"testing"

	"playlisttool/internal/config"
	"playlisttool/internal/probecache"
)

// MustOpenCache opens the probe cache configured in cfg and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *probecache.Store {
	t.Helper()

	store, err := probecache.Open(context.Background(), cfg.Cache.Path)
	if err != nil {
		t.Fatalf("probecache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
