// Package dbs define the per-key version model used by the index.
//
// An Entry holds the current Value for a key and a chain of Delta,
// ordered newest to oldest, from which every older version can be
// reconstructed. Value types implement the Diff contract so that older
// versions are stored as compact deltas, and every type reports an
// approximate memory Footprint.
//
// Cutoff describes which older versions a compaction pass may
// discard, see Mono, Lsm and Tombstone.
package dbs
