// Package logging builds the slog loggers used by playlisttool.
//
// It owns the console and JSON handlers, maps configuration onto level and
// output routing, and exposes context helpers so every line written during a
// run carries the same run_id. NewNop returns a logger for tests and for
// wiring code that has no logger of its own.
package logging
