package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePlaylist(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePlaylist() error {
	if c.Playlist.BucketThresholdMS < 0 {
		return fmt.Errorf("playlist.bucket_threshold_ms must be >= 0 (got %d)", c.Playlist.BucketThresholdMS)
	}
	return nil
}

func (c *Config) validateProbe() error {
	if err := ensurePositiveMap(map[string]int{
		"probe.timeout_seconds": c.Probe.TimeoutSeconds,
		"probe.concurrency":     c.Probe.Concurrency,
	}); err != nil {
		return err
	}
	if c.Probe.SizeDurationFactor < 0 {
		return errors.New("probe.size_duration_factor must be >= 0")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
