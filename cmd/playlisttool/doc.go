// Package main hosts the playlisttool CLI entrypoint and command graph.
//
// The Cobra command tree wires configuration, logging, and the probe cache
// into the internal packages: playlist parses and writes WPL documents, media
// collects durations, bucket reorders the list, and report renders it.
// Commands stay thin; new behavior belongs in the internal packages first.
package main
