// Package ffprobe runs ffprobe against a media file and decodes its JSON
// report.
//
// Only the container format block and the stream list are decoded. Result
// helpers turn the string-typed numbers ffprobe emits into milliseconds,
// bytes and bits per second, treating absent or malformed values as zero.
package ffprobe
