// Package probecache remembers ffprobe results in a SQLite database so that
// repeated runs over the same library skip the expensive probe.
//
// Entries are keyed by path and are only trusted while the file's size and
// modification time still match what was recorded. CachedProber wraps any
// media.Prober with that lookup.
package probecache
