package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlaylist()
	c.normalizeProbe()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	if err := c.normalizeRandom(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePlaylist() {
	c.Playlist.Title = strings.TrimSpace(c.Playlist.Title)
}

func (c *Config) normalizeProbe() {
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		if value, ok := os.LookupEnv("PLAYLISTTOOL_FFPROBE"); ok && strings.TrimSpace(value) != "" {
			c.Probe.FFprobeBinary = strings.TrimSpace(value)
		} else {
			c.Probe.FFprobeBinary = defaultFFprobeBinary
		}
	}
	if c.Probe.TimeoutSeconds <= 0 {
		c.Probe.TimeoutSeconds = defaultProbeTimeout
	}
	if c.Probe.Concurrency <= 0 {
		c.Probe.Concurrency = defaultProbeConcurrency
	}
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.Path) == "" {
		c.Cache.Path = defaultCachePath()
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path); err != nil {
		return fmt.Errorf("cache.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeRandom() error {
	if c.Random.Seed != 0 {
		return nil
	}
	value, ok := os.LookupEnv("PLAYLISTTOOL_SEED")
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	seed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("PLAYLISTTOOL_SEED: %w", err)
	}
	c.Random.Seed = seed
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
