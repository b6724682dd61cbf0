package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"playlisttool/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("PLAYLISTTOOL_FFPROBE", "")
	t.Setenv("PLAYLISTTOOL_SEED", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "playlisttool", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	wantCache := filepath.Join(tempHome, ".cache", "playlisttool", "probe.db")
	if cfg.Cache.Path != wantCache {
		t.Fatalf("unexpected cache path: got %q want %q", cfg.Cache.Path, wantCache)
	}
	if cfg.Playlist.BucketThresholdMS != 1765000 {
		t.Fatalf("unexpected default threshold: %d", cfg.Playlist.BucketThresholdMS)
	}
	if cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected ffprobe binary: %q", cfg.FFprobeBinary())
	}
	if cfg.Random.Seed != 0 {
		t.Fatalf("expected time-seeded default, got seed %d", cfg.Random.Seed)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Cache.Path)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "playlisttool.toml")

	type payload struct {
		Playlist struct {
			BucketThresholdMS int64  `toml:"bucket_threshold_ms"`
			RemoveBadFiles    bool   `toml:"remove_bad_files"`
			Title             string `toml:"title"`
		} `toml:"playlist"`
		Probe struct {
			FFprobeBinary string `toml:"ffprobe_binary"`
			Concurrency   int    `toml:"concurrency"`
		} `toml:"probe"`
		Random struct {
			Seed int64 `toml:"seed"`
		} `toml:"random"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Playlist.BucketThresholdMS = 2700000
	custom.Playlist.RemoveBadFiles = true
	custom.Playlist.Title = "  Distributed All  "
	custom.Probe.FFprobeBinary = "/opt/ffmpeg/bin/ffprobe"
	custom.Probe.Concurrency = 8
	custom.Random.Seed = 1234
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Playlist.BucketThresholdMS != 2700000 {
		t.Fatalf("expected threshold override, got %d", cfg.Playlist.BucketThresholdMS)
	}
	if !cfg.Playlist.RemoveBadFiles {
		t.Fatal("expected remove_bad_files to be true")
	}
	if cfg.Playlist.Title != "Distributed All" {
		t.Fatalf("expected trimmed title, got %q", cfg.Playlist.Title)
	}
	if cfg.FFprobeBinary() != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("unexpected ffprobe binary: %q", cfg.FFprobeBinary())
	}
	if cfg.Probe.Concurrency != 8 {
		t.Fatalf("expected concurrency 8, got %d", cfg.Probe.Concurrency)
	}
	if cfg.Probe.TimeoutSeconds != config.Default().Probe.TimeoutSeconds {
		t.Fatalf("expected default probe timeout, got %d", cfg.Probe.TimeoutSeconds)
	}
	if cfg.Random.Seed != 1234 {
		t.Fatalf("expected seed 1234, got %d", cfg.Random.Seed)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "playlisttool.toml")
	if err := os.WriteFile(configPath, []byte("[playlist]\nbucket_treshold_ms = 10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PLAYLISTTOOL_FFPROBE", "/usr/local/bin/ffprobe")
	t.Setenv("PLAYLISTTOOL_SEED", "77")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFprobeBinary() != "/usr/local/bin/ffprobe" {
		t.Fatalf("expected ffprobe from env, got %q", cfg.FFprobeBinary())
	}
	if cfg.Random.Seed != 77 {
		t.Fatalf("expected seed from env, got %d", cfg.Random.Seed)
	}

	t.Setenv("PLAYLISTTOOL_SEED", "not-a-number")
	if _, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for invalid seed")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "bucket_threshold_ms") {
		t.Fatalf("sample config missing threshold: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Playlist.BucketThresholdMS != config.Default().Playlist.BucketThresholdMS {
		t.Fatalf("sample threshold %d differs from default", cfg.Playlist.BucketThresholdMS)
	}
	if !strings.Contains(cfg.Cache.Path, "playlisttool") {
		t.Fatalf("expected cache path to contain playlisttool, got %q", cfg.Cache.Path)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Playlist.BucketThresholdMS = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative threshold")
	}

	cfg = config.Default()
	cfg.Probe.Concurrency = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero concurrency")
	}

	cfg = config.Default()
	cfg.Probe.SizeDurationFactor = -0.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative size factor")
	}

	cfg = config.Default()
	cfg.Cache.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when cache enabled without path")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}
