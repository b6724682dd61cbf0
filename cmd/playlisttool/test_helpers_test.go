package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"playlisttool/internal/config"
	"playlisttool/internal/testsupport"
)

// Durations reported by the stub ffprobe, in seconds. missing.mp3 is listed
// in the playlist but never created.
var stubDurations = map[string]float64{
	"a.mp3": 2000,
	"b.mp3": 1900,
	"c.mp3": 60,
	"d.mp3": 120,
	"e.mp3": 30,
}

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	musicDir   string
	playlist   string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedFFprobe(stubDurations)}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)

	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	musicDir := filepath.Join(base, "music")
	var srcs []string
	for _, name := range []string{"c.mp3", "a.mp3", "missing.mp3", "d.mp3", "b.mp3", "e.mp3"} {
		path := filepath.Join(musicDir, name)
		if name != "missing.mp3" {
			testsupport.WriteFile(t, path, 64)
		}
		srcs = append(srcs, path)
	}
	playlistPath := testsupport.WritePlaylist(t, filepath.Join(base, "Road Mix.wpl"), "Road Mix", srcs...)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		musicDir:   musicDir,
		playlist:   playlistPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
