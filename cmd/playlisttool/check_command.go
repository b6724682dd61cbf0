package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"playlisttool/internal/config"
	"playlisttool/internal/deps"
	"playlisttool/internal/probecache"
)

const versionTimeout = 5 * time.Second

// checkReport is the --json form of the check command.
type checkReport struct {
	ConfigPath   string            `json:"config_path"`
	Dependencies []deps.Status     `json:"dependencies"`
	Versions     map[string]string `json:"versions,omitempty"`
	CacheEnabled bool              `json:"cache_enabled"`
	CacheEntries int               `json:"cache_entries"`
	CacheError   string            `json:"cache_error,omitempty"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report external dependencies and cache health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := buildCheckReport(cmd.Context(), cfg, ctx.configPath)
			if asJSON {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			writeLines(out, renderSectionHeader("Dependencies", colorize)...)
			writeLines(out, dependencyLines(report.Dependencies, report.Versions, colorize)...)
			writeLines(out, renderSectionHeader("Configuration", colorize)...)
			writeLines(out, renderField("Config file", report.ConfigPath))
			writeLines(out, cacheLine(report, colorize))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON")
	return cmd
}

func buildCheckReport(ctx context.Context, cfg *config.Config, configPath string) checkReport {
	binary := cfg.FFprobeBinary()
	report := checkReport{
		ConfigPath:   configPath,
		Dependencies: deps.CheckBinaries([]deps.Requirement{deps.FFprobeRequirement(binary)}),
		CacheEnabled: cfg.Cache.Enabled,
	}
	for _, status := range report.Dependencies {
		if !status.Available {
			continue
		}
		vctx, cancel := context.WithTimeout(ctx, versionTimeout)
		version, err := deps.Version(vctx, status.Command)
		cancel()
		if err != nil {
			continue
		}
		if report.Versions == nil {
			report.Versions = make(map[string]string)
		}
		report.Versions[status.Name] = version
	}
	if cfg.Cache.Enabled {
		store, err := probecache.Open(ctx, cfg.Cache.Path)
		if err != nil {
			report.CacheError = err.Error()
			return report
		}
		defer store.Close()
		stats, err := store.Stats(ctx)
		if err != nil {
			report.CacheError = err.Error()
			return report
		}
		report.CacheEntries = stats.Entries
	}
	return report
}

func dependencyLines(statuses []deps.Status, versions map[string]string, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+1)
	var missing []string
	for _, dep := range statuses {
		if dep.Available {
			message := fmt.Sprintf("Ready (%s)", dep.Path)
			if version := versions[dep.Name]; version != "" {
				message = fmt.Sprintf("%s, %s", message, version)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
			detail += "; durations fall back to file size estimates"
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
		missing = append(missing, dep.Name)
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, strings.Join(missing, ", "), colorize))
	}
	return lines
}

func cacheLine(report checkReport, colorize bool) string {
	switch {
	case !report.CacheEnabled:
		return renderStatusLine("Probe cache", statusInfo, "disabled", colorize)
	case report.CacheError != "":
		return renderStatusLine("Probe cache", statusError, report.CacheError, colorize)
	default:
		return renderStatusLine("Probe cache", statusOK, fmt.Sprintf("%d entries", report.CacheEntries), colorize)
	}
}
