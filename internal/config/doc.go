// Package config loads, normalizes, and validates playlisttool configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLAYLISTTOOL_FFPROBE and PLAYLISTTOOL_SEED. Command-line flags override the
// loaded values in the CLI layer.
package config
