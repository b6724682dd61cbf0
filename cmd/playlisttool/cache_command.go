package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"playlisttool/internal/probecache"
)

const cacheStampLayout = "2006-01-02 15:04"

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the probe cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show probe cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(cmd, ctx, func(store *probecache.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, stats)
				}
				printCacheStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func printCacheStats(out io.Writer, stats probecache.Stats) {
	fmt.Fprintf(out, "Path:    %s\n", stats.Path)
	fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
	fmt.Fprintf(out, "Size:    %s\n", humanBytes(stats.FileBytes))
	if stats.Entries == 0 {
		return
	}
	fmt.Fprintf(out, "Oldest:  %s\n", stats.Oldest.Local().Format(cacheStampLayout))
	fmt.Fprintf(out, "Newest:  %s\n", stats.Newest.Local().Format(cacheStampLayout))
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached probe result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(cmd, ctx, func(store *probecache.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d cache entries\n", removed)
				return nil
			})
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove cached results for files that no longer exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCacheStore(cmd, ctx, func(store *probecache.Store) error {
				removed, err := store.Prune(cmd.Context())
				if err != nil {
					return err
				}
				if removed == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No cache entries pruned")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cache entries\n", removed)
				return nil
			})
		},
	}
}

// withCacheStore opens the configured cache for fn. A disabled cache is
// reported on stdout and is not an error.
func withCacheStore(cmd *cobra.Command, ctx *commandContext, fn func(*probecache.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Cache.Enabled {
		fmt.Fprintln(cmd.OutOrStdout(), "Probe cache is disabled (set [cache] enabled = true in config.toml)")
		return nil
	}
	store, err := probecache.Open(cmd.Context(), cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("open probe cache: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div := int64(unit)
	exp := 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(v) / float64(div)
	return fmt.Sprintf("%.1f %ciB", value, "KMGTPEZY"[exp])
}
