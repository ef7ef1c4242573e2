package llrb

import "sync/atomic"

import "github.com/bnclabs/rdms/dbs"

// Compact the index applying cutoff to every entry. Entries that become
// empty are removed from the tree. Return the number of removed entries.
// A no-op cutoff return immediately without blocking readers or writers.
func (t *LLRB[K, V, D]) Compact(cutoff dbs.Cutoff) int64 {
	if cutoff.IsNoop() {
		return 0
	}

	w := t.gate.Lock()
	defer w.Unlock()

	t.gen = nextgeneration()

	removed := []K{}
	root, _ := t.compactwalk(t.root.Load(), cutoff, &removed)
	for _, key := range removed {
		var entry *dbs.Entry[K, V, D]
		if root, entry = t.remove(root, key); entry == nil {
			fatalf("%v compact(): key %v vanished from tree", t.logprefix, key)
		}
		if root != nil {
			root.black = true
		}
		atomic.AddInt64(&t.footprint, -(entry.Footprint() + nodesize))
	}

	n := int64(len(removed))
	t.n_compacts++
	t.n_purged += n
	atomic.AddInt64(&t.n_count, -n)
	t.publish(root, 0)

	infof("%v compact %v removed %v entries\n", t.logprefix, cutoff, n)
	return n
}

// compactwalk replace entries pruned by cutoff, sharing unchanged
// subtrees. Keys of entries that became empty are collected in removed,
// their nodes are left in place for a subsequent remove.
func (t *LLRB[K, V, D]) compactwalk(
	nd *Llrbnode[K, V, D], cutoff dbs.Cutoff,
	removed *[]K) (*Llrbnode[K, V, D], bool) {

	if nd == nil {
		return nil, false
	}

	left, lchanged := t.compactwalk(nd.left, cutoff, removed)
	entry, ok := nd.entry.Compact(cutoff)
	if !ok {
		*removed = append(*removed, nd.key())
		entry = nd.entry
	}
	right, rchanged := t.compactwalk(nd.right, cutoff, removed)

	if !lchanged && !rchanged && entry == nd.entry {
		return nd, false
	}

	nd = t.own(nd)
	nd.left, nd.right = left, right
	if entry != nd.entry {
		atomic.AddInt64(&t.footprint, entry.Footprint()-nd.entry.Footprint())
		nd.entry = entry
	}
	return nd, true
}
