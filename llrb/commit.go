package llrb

import "fmt"
import "iter"
import "sync/atomic"

import "github.com/bnclabs/rdms/api"
import "github.com/bnclabs/rdms/dbs"

// Commit merge a sorted stream of entries into the index, typically
// entries flushed from a newer level or replayed from a snapshot.
// Entries for keys already in the index are combined with
// Entry.Commit, other entries are copied into the tree as is. Items
// must be in strictly ascending key order. Commit is all or nothing,
// the merged tree is published only if every item was committed.
func (t *LLRB[K, V, D]) Commit(items iter.Seq[*dbs.Entry[K, V, D]]) error {
	w := t.gate.Lock()
	defer w.Unlock()

	t.gen = nextgeneration()

	root := t.root.Load()
	seqno := atomic.LoadUint64(&t.seqno)
	var n_inserts, n_updates, footprint int64
	var prev *dbs.Entry[K, V, D]

	// an aborted commit leaves no trace, walk stats included.
	n_nodes, n_clones := t.n_nodes, t.n_clones
	h_upsertdepth := t.h_upsertdepth.Clone()
	abort := func(err error) error {
		t.n_nodes, t.n_clones, t.h_upsertdepth = n_nodes, n_clones, h_upsertdepth
		warnf("%v %v\n", t.logprefix, err)
		return err
	}

	for entry := range items {
		if prev != nil && entry.Key().Compare(prev.Key()) <= 0 {
			err := fmt.Errorf("commit %v after %v: %w", entry.Key(), prev.Key(), api.ErrorUnsortedKeys)
			return abort(err)
		}
		prev = entry

		var newentry *dbs.Entry[K, V, D]
		if nd := getnode(root, entry.Key()); nd != nil {
			var err error
			if newentry, err = nd.entry.Commit(entry); err != nil {
				return abort(err)
			}
			footprint += newentry.Footprint() - nd.entry.Footprint()
			n_updates++

		} else {
			newentry = entry.Clone()
			footprint += newentry.Footprint() + nodesize
			n_inserts++
		}

		root, _ = t.upsertentry(root, 1, newentry)
		root.black = true
		seqno = max(seqno, newentry.Seqno())
	}

	t.n_inserts += n_inserts
	t.n_updates += n_updates
	t.n_commits++
	atomic.AddInt64(&t.n_count, n_inserts)
	atomic.AddInt64(&t.footprint, footprint)
	t.publish(root, seqno)

	fmsg := "%v committed %v new and %v merged entries, seqno %v\n"
	infof(fmsg, t.logprefix, n_inserts, n_updates, seqno)
	return nil
}
