// Package llrb implement a self-balancing verions of binary-tree, called,
// LLRB (Left Leaning Red Black), holding versioned entries.
//
//   - Each key shall be unique within the index, along with its current
//     value the entry may carry older versions as deltas.
//   - Writes are serialized and copy-on-write, a write never modifies a
//     node reachable from the published root.
//   - Reads are concurrent, and proceed without blocking each other.
//   - Compact prunes history, and deleted entries, based on a Cutoff.
//
// Keys and values are generic, keys implement dbs.Key and values
// implement dbs.Diff so that older versions can be stored as deltas.
// Package dbs provide ready made types, for example:
//
//	index := llrb.NewLLRB[dbs.Int64, dbs.Bytes, dbs.BytesDelta]("users", nil)
//	index.Insert(10, dbs.Bytes("hello"))
//	entry, err := index.GetWithVersions(10)
package llrb
