// Package bucket reorders a duration-sorted list of playlist entries so long
// entries are spread out and short entries are sprinkled between them.
//
// Entries at or above a threshold become bucket boundaries. Distribute
// shuffles the boundaries and deals the remaining filler entries into the
// buckets round-robin, longest first. RandomizeBuckets then mixes the filler
// entries inside each bucket with a single pass of random in-bucket swaps.
//
// The package is pure and synchronous. All randomness comes from an injected
// Source so callers and tests can pin a seed.
package bucket
