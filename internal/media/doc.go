// Package media turns playlist entries into File records carrying size,
// duration and bitrate.
//
// Collector stats every entry and probes the ones that exist on a bounded
// worker pool. Entries whose file is missing are kept with SizeBytes -1 so
// callers can report or drop them with FilterBad. When a probe yields no
// duration, one is estimated from the file size.
package media
