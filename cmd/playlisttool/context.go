package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"playlisttool/internal/config"
	"playlisttool/internal/logging"
	"playlisttool/internal/media"
	"playlisttool/internal/probecache"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) verbose() bool {
	return c.verboseFlag != nil && *c.verboseFlag
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg, c.verbose())
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// runContext tags the command context with a fresh run ID so every log line
// of one invocation can be correlated.
func runContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithRunID(ctx, logging.NewRunID())
}

// openProber builds the ffprobe prober, wrapped by the probe cache when it
// is enabled. The returned cleanup closes the cache.
func (c *commandContext) openProber(ctx context.Context, cfg *config.Config, logger *slog.Logger) (media.Prober, *probecache.CachedProber, func(), error) {
	base := media.FFprobe{
		Binary:  cfg.FFprobeBinary(),
		Timeout: time.Duration(cfg.Probe.TimeoutSeconds) * time.Second,
	}
	if !cfg.Cache.Enabled {
		return base, nil, func() {}, nil
	}
	store, err := probecache.Open(ctx, cfg.Cache.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open probe cache: %w", err)
	}
	cached := &probecache.CachedProber{Store: store, Next: base, Logger: logger}
	return cached, cached, func() { _ = store.Close() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
