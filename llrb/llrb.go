package llrb

import "fmt"
import "io"
import "strings"
import "sync/atomic"

import "github.com/bnclabs/rdms/api"
import "github.com/bnclabs/rdms/dbs"
import "github.com/bnclabs/rdms/lib"
import "github.com/bnclabs/rdms/spinlock"
import s "github.com/bnclabs/gosettings"

// LLRB manages a single instance of in-memory sorted index using
// left-leaning-red-black tree. All write operations are copy on write
// and serialized by the index gate, a single writer is admitted at a
// time. Any number of concurrent readers are admitted between writes.
//
// Iterators hold a read permit until the iteration is complete or
// stopped. Calling a write method on the same index from within an
// iteration will never return. Reads from within an iteration, like
// Get or a nested Range, can also block forever, if another goroutine
// is waiting for the write permit.
type LLRB[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]] struct {
	seqno     uint64 // atomic, 64-bit aligned
	n_count   int64  // atomic
	footprint int64  // atomic
	n_lookups int64  // atomic
	n_ranges  int64  // atomic

	// writer statistics, updated with write permit.
	n_inserts  int64
	n_updates  int64
	n_deletes  int64
	n_removes  int64
	n_casfails int64
	n_nodes    int64
	n_clones   int64
	n_compacts int64
	n_purged   int64
	n_commits  int64

	h_upsertdepth *lib.Histogram

	root atomic.Pointer[Llrbnode[K, V, D]]
	gate *spinlock.Spinlock
	gen  uint64 // generation of the on-going write

	// settings
	name        string
	spin        bool
	lsm         bool
	memcapacity int64
	setts       s.Settings
	logprefix   string
}

// NewLLRB a new instance of in-memory sorted index.
func NewLLRB[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	name string, setts s.Settings) *LLRB[K, V, D] {

	t := &LLRB[K, V, D]{
		name:      name,
		logprefix: fmt.Sprintf("LLRB [%s]", name),
	}
	setts = make(s.Settings).Mixin(Defaultsettings(), setts)
	t.readsettings(setts)
	t.setts = setts
	t.gate = spinlock.NewSpinlock(t.spin)
	t.h_upsertdepth = lib.NewHistogram(1, 256, 1)

	infof("%v started ...\n", t.logprefix)
	return t
}

// ID is same as the name supplied while creating the LLRB instance.
func (t *LLRB[K, V, D]) ID() string {
	return t.name
}

// Count return the number of entries indexed, including entries
// marked as deleted.
func (t *LLRB[K, V, D]) Count() int64 {
	return atomic.LoadInt64(&t.n_count)
}

// Footprint return the approximate memory consumed by the index.
func (t *LLRB[K, V, D]) Footprint() int64 {
	return atomic.LoadInt64(&t.footprint)
}

// ToSeqno return the latest seqno assigned to a mutation.
func (t *LLRB[K, V, D]) ToSeqno() uint64 {
	return atomic.LoadUint64(&t.seqno)
}

// SetSeqno to seqno, subsequent mutations are numbered from seqno+1.
// Typically used after loading the index from a snapshot. If seqno is
// behind an entry's seqno, writes to that key that are numbered by
// the index continue from the entry's seqno+1.
func (t *LLRB[K, V, D]) SetSeqno(seqno uint64) {
	w := t.gate.Lock()
	defer w.Unlock()
	atomic.StoreUint64(&t.seqno, seqno)
}

// Get entry for key, without its older versions. Entries marked as
// deleted are returned as well. If key is missing return
// api.ErrorKeyMissing.
func (t *LLRB[K, V, D]) Get(key K) (*dbs.Entry[K, V, D], error) {
	entry, err := t.get(key)
	if err != nil {
		return nil, err
	}
	return entry.CloneCurrent(), nil
}

// GetWithVersions entry for key along with all its older versions.
func (t *LLRB[K, V, D]) GetWithVersions(key K) (*dbs.Entry[K, V, D], error) {
	entry, err := t.get(key)
	if err != nil {
		return nil, err
	}
	return entry.Clone(), nil
}

func (t *LLRB[K, V, D]) get(key K) (*dbs.Entry[K, V, D], error) {
	r := t.gate.RLock()
	defer r.Unlock()

	atomic.AddInt64(&t.n_lookups, 1)
	if nd := getnode(t.root.Load(), key); nd != nil {
		return nd.entry, nil
	}
	return nil, api.ErrorKeyMissing
}

// Min return the entry with smallest key, without older versions.
func (t *LLRB[K, V, D]) Min() (*dbs.Entry[K, V, D], error) {
	r := t.gate.RLock()
	defer r.Unlock()

	nd := t.root.Load()
	if nd == nil {
		return nil, api.ErrorKeyMissing
	}
	for nd.left != nil {
		nd = nd.left
	}
	return nd.entry.CloneCurrent(), nil
}

// Max return the entry with largest key, without older versions.
func (t *LLRB[K, V, D]) Max() (*dbs.Entry[K, V, D], error) {
	r := t.gate.RLock()
	defer r.Unlock()

	nd := t.root.Load()
	if nd == nil {
		return nil, api.ErrorKeyMissing
	}
	for nd.right != nil {
		nd = nd.right
	}
	return nd.entry.CloneCurrent(), nil
}

// Clone return a new index sharing the current tree. Subsequent
// writes on either index are not visible to the other.
func (t *LLRB[K, V, D]) Clone(name string) *LLRB[K, V, D] {
	r := t.gate.RLock()
	defer r.Unlock()

	newt := NewLLRB[K, V, D](name, t.setts)
	newt.root.Store(t.root.Load())
	newt.seqno = atomic.LoadUint64(&t.seqno)
	newt.n_count = atomic.LoadInt64(&t.n_count)
	newt.footprint = atomic.LoadInt64(&t.footprint)
	newt.n_inserts, newt.n_updates = t.n_inserts, t.n_updates
	newt.n_deletes, newt.n_removes = t.n_deletes, t.n_removes
	newt.n_purged = t.n_purged
	newt.h_upsertdepth = t.h_upsertdepth.Clone()
	infof("%v cloned from %v\n", newt.logprefix, t.logprefix)
	return newt
}

// Flush index entries, in sort order, to an on-disk table writer. Read
// permit is held until writer return.
func (t *LLRB[K, V, D]) Flush(
	w api.TableWriter[*dbs.Entry[K, V, D]], metadata []byte) error {

	seqno := t.ToSeqno()
	if err := w.Build(t.Iter(), metadata); err != nil {
		warnf("%v flush upto seqno %v: %v\n", t.logprefix, seqno, err)
		return err
	}
	infof("%v flushed %v entries upto seqno %v\n", t.logprefix, t.Count(), seqno)
	return nil
}

// Dotdump to convert whole tree into dot script that can be
// visualized using graphviz. Until dotdump exits concurrent write
// operations will block.
func (t *LLRB[K, V, D]) Dotdump(buffer io.Writer) {
	lines := []string{
		"digraph llrb {",
		"  node[shape=record];\n",
		"}",
	}
	buffer.Write([]byte(strings.Join(lines[:len(lines)-1], "\n")))

	r := t.gate.RLock()
	t.root.Load().dotdump(buffer)
	r.Unlock()

	buffer.Write([]byte(lines[len(lines)-1]))
}

// Pprint the tree, one node per line.
func (t *LLRB[K, V, D]) Pprint(w io.Writer) {
	r := t.gate.RLock()
	defer r.Unlock()
	t.root.Load().pprint(w, "")
}
