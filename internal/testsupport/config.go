package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"playlisttool/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a per-test temp directory with a
// fixed random seed, so distribution results are repeatable.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Cache.Path = filepath.Join(base, "cache", "probe.db")
	cfgVal.Probe.FFprobeBinary = "ffprobe"
	cfgVal.Random.Seed = 1

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithSeed overrides the random seed.
func WithSeed(seed int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Random.Seed = seed
	}
}

// WithThreshold overrides the bucket threshold in milliseconds.
func WithThreshold(ms int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Playlist.BucketThresholdMS = ms
	}
}

// WithCacheDisabled turns off the probe cache.
func WithCacheDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Enabled = false
	}
}

// WithStubbedFFprobe installs a shell ffprobe on PATH that reports the given
// duration in seconds for each file base name and no duration for anything
// else. The config points at the stub.
func WithStubbedFFprobe(durations map[string]float64) ConfigOption {
	return func(b *configBuilder) {
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		target := filepath.Join(binDir, "ffprobe")
		if err := os.WriteFile(target, []byte(ffprobeScript(durations)), 0o755); err != nil {
			b.t.Fatalf("write ffprobe stub: %v", err)
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
		b.cfg.Probe.FFprobeBinary = target
	}
}

func ffprobeScript(durations map[string]float64) string {
	names := make([]string, 0, len(durations))
	for name := range durations {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("if [ \"$1\" = \"-version\" ]; then echo 'ffprobe version stub'; exit 0; fi\n")
	b.WriteString("for arg; do file=$arg; done\n")
	b.WriteString("case \"$(basename \"$file\")\" in\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  '%s') echo '{\"format\":{\"duration\":\"%g\",\"bit_rate\":\"128000\"}}' ;;\n", name, durations[name])
	}
	b.WriteString("  *) echo '{\"format\":{}}' ;;\n")
	b.WriteString("esac\n")
	return b.String()
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
