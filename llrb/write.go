package llrb

import "errors"
import "fmt"
import "iter"
import "sync/atomic"

import "github.com/bnclabs/rdms/api"
import "github.com/bnclabs/rdms/dbs"

type opkind byte

const (
	opSet opkind = iota + 1
	opInsert
	opDelete
	opRemove
)

func (kind opkind) String() string {
	switch kind {
	case opSet:
		return "set"
	case opInsert:
		return "insert"
	case opDelete:
		return "delete"
	case opRemove:
		return "remove"
	}
	return "unknown"
}

type writeop[V any] struct {
	kind   opkind
	value  V
	hascas bool
	cas    uint64
	seqno  uint64 // zero, index shall assign the next seqno.
}

// CASError returned when the CAS supplied with a write does not match
// the key's current seqno. Entry is the current entry for the key, nil
// if the key is missing.
type CASError[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]] struct {
	Key      K
	Expected uint64
	Current  uint64
	Entry    *dbs.Entry[K, V, D]
}

func (err *CASError[K, V, D]) Error() string {
	fmsg := "%v for %v: expected %v, current %v"
	return fmt.Sprintf(fmsg, api.ErrorInvalidCAS, err.Key, err.Expected, err.Current)
}

// Unwrap return api.ErrorInvalidCAS.
func (err *CASError[K, V, D]) Unwrap() error {
	return api.ErrorInvalidCAS
}

// Set value for key, discarding its older versions. Return the
// previous entry for key, if any.
func (t *LLRB[K, V, D]) Set(key K, value V) *dbs.Entry[K, V, D] {
	old, err := t.write(key, writeop[V]{kind: opSet, value: value})
	if err != nil {
		panic(fmt.Errorf("Set(): unexpected %v", err))
	}
	return old
}

// SetCAS is same as Set, but the write is applied only if cas matches
// the key's current seqno. If cas is ZERO key must be missing.
func (t *LLRB[K, V, D]) SetCAS(key K, value V, cas uint64) (*dbs.Entry[K, V, D], error) {
	return t.write(key, writeop[V]{kind: opSet, value: value, hascas: true, cas: cas})
}

// SetIndex is same as Set, stamping the write with an externally
// supplied seqno, which must be newer than the key's current seqno.
func (t *LLRB[K, V, D]) SetIndex(key K, value V, seqno uint64) (*dbs.Entry[K, V, D], error) {
	return t.write(key, writeop[V]{kind: opSet, value: value, seqno: seqno})
}

// SetCASIndex combine SetCAS and SetIndex.
func (t *LLRB[K, V, D]) SetCASIndex(
	key K, value V, cas, seqno uint64) (*dbs.Entry[K, V, D], error) {

	op := writeop[V]{kind: opSet, value: value, hascas: true, cas: cas, seqno: seqno}
	return t.write(key, op)
}

// Insert value for key, preserving its older versions. Return the
// previous entry for key, if any.
func (t *LLRB[K, V, D]) Insert(key K, value V) *dbs.Entry[K, V, D] {
	old, err := t.write(key, writeop[V]{kind: opInsert, value: value})
	if err != nil {
		panic(fmt.Errorf("Insert(): unexpected %v", err))
	}
	return old
}

// InsertCAS is same as Insert, conditioned on cas.
func (t *LLRB[K, V, D]) InsertCAS(key K, value V, cas uint64) (*dbs.Entry[K, V, D], error) {
	return t.write(key, writeop[V]{kind: opInsert, value: value, hascas: true, cas: cas})
}

// InsertIndex is same as Insert, stamped with seqno.
func (t *LLRB[K, V, D]) InsertIndex(key K, value V, seqno uint64) (*dbs.Entry[K, V, D], error) {
	return t.write(key, writeop[V]{kind: opInsert, value: value, seqno: seqno})
}

// Delete mark key as deleted, preserving its older versions. The key
// remain in the tree until it is compacted away. Return the previous
// entry, or api.ErrorKeyMissing if key is missing.
func (t *LLRB[K, V, D]) Delete(key K) (*dbs.Entry[K, V, D], error) {
	return t.write(key, writeop[V]{kind: opDelete})
}

// DeleteCAS is same as Delete, conditioned on cas.
func (t *LLRB[K, V, D]) DeleteCAS(key K, cas uint64) (*dbs.Entry[K, V, D], error) {
	return t.write(key, writeop[V]{kind: opDelete, hascas: true, cas: cas})
}

// DeleteIndex is same as Delete, stamped with seqno.
func (t *LLRB[K, V, D]) DeleteIndex(key K, seqno uint64) (*dbs.Entry[K, V, D], error) {
	return t.write(key, writeop[V]{kind: opDelete, seqno: seqno})
}

// Remove key and all its versions from the tree. Return the removed
// entry, or api.ErrorKeyMissing if key is missing.
func (t *LLRB[K, V, D]) Remove(key K) (*dbs.Entry[K, V, D], error) {
	return t.write(key, writeop[V]{kind: opRemove})
}

// Apply a single replay record. In lsm mode upserts are applied as
// Insert and deletes as Delete, otherwise as Set and Remove.
func (t *LLRB[K, V, D]) Apply(op api.Op[K, V]) (*dbs.Entry[K, V, D], error) {
	wop := writeop[V]{value: op.Value, hascas: op.HasCAS, cas: op.CAS, seqno: op.Seqno}
	switch {
	case op.Delete && t.lsm:
		wop.kind = opDelete
	case op.Delete:
		wop.kind = opRemove
	case t.lsm:
		wop.kind = opInsert
	default:
		wop.kind = opSet
	}
	return t.write(op.Key, wop)
}

// Replay a stream of write-ahead-log records. Deletes for missing keys
// are skipped. Replay stops at the first failed record and return the
// number of records applied so far.
func (t *LLRB[K, V, D]) Replay(ops iter.Seq[api.Op[K, V]]) (n int64, err error) {
	skipped := 0
	for op := range ops {
		_, err = t.Apply(op)
		if op.Delete && errors.Is(err, api.ErrorKeyMissing) {
			skipped++
			continue
		} else if err != nil {
			warnf("%v replay failed after %v records: %v\n", t.logprefix, n, err)
			return n, err
		}
		n++
	}
	fmsg := "%v replayed %v records, skipped %v, seqno %v\n"
	infof(fmsg, t.logprefix, n, skipped, t.ToSeqno())
	return n, nil
}

func (t *LLRB[K, V, D]) write(key K, op writeop[V]) (*dbs.Entry[K, V, D], error) {
	w := t.gate.Lock()
	defer w.Unlock()

	root := t.root.Load()
	var oldentry *dbs.Entry[K, V, D]
	if nd := getnode(root, key); nd != nil {
		oldentry = nd.entry
	}

	// validate before touching the tree.
	if op.hascas {
		current := uint64(0)
		if oldentry != nil {
			current = oldentry.Seqno()
		}
		if current != op.cas {
			t.n_casfails++
			err := &CASError[K, V, D]{Key: key, Expected: op.cas, Current: current}
			if oldentry != nil {
				err.Entry = oldentry.Clone()
			}
			return nil, err
		}
	}
	if oldentry == nil && (op.kind == opDelete || op.kind == opRemove) {
		return nil, api.ErrorKeyMissing
	}

	seqno := op.seqno
	if seqno == 0 {
		// the counter can trail key's seqno, after SetSeqno.
		seqno = atomic.LoadUint64(&t.seqno) + 1
		if oldentry != nil {
			seqno = max(seqno, oldentry.Seqno()+1)
		}
	}
	if oldentry != nil && seqno <= oldentry.Seqno() {
		return nil, fmt.Errorf("%v %v at %v: %w", op.kind, key, seqno, api.ErrorStaleSeqno)
	}

	t.gen = nextgeneration()

	var newentry *dbs.Entry[K, V, D]
	switch op.kind {
	case opSet:
		if oldentry == nil {
			newentry = dbs.NewEntry[K, V, D](key, op.value, seqno)
		} else {
			newentry = oldentry.CloneCurrent()
			newentry.Set(op.value, seqno)
		}
	case opInsert:
		if oldentry == nil {
			newentry = dbs.NewEntry[K, V, D](key, op.value, seqno)
		} else {
			newentry = oldentry.Clone()
			newentry.Insert(op.value, seqno)
		}
	case opDelete:
		newentry = oldentry.Clone()
		newentry.Delete(seqno)
	}

	if op.kind == opRemove {
		var removed *dbs.Entry[K, V, D]
		root, removed = t.remove(root, key)
		if removed == nil {
			fatalf("%v remove(): key %v vanished from tree", t.logprefix, key)
		}
		t.n_removes++
		atomic.AddInt64(&t.n_count, -1)
		atomic.AddInt64(&t.footprint, -(removed.Footprint() + nodesize))

	} else {
		root, _ = t.upsertentry(root, 1, newentry)
		if oldentry == nil {
			t.n_inserts++
			atomic.AddInt64(&t.n_count, 1)
			atomic.AddInt64(&t.footprint, newentry.Footprint()+nodesize)
		} else {
			if op.kind == opDelete {
				t.n_deletes++
			} else {
				t.n_updates++
			}
			atomic.AddInt64(&t.footprint, newentry.Footprint()-oldentry.Footprint())
		}
	}

	t.publish(root, seqno)
	debugf("%v %v %v at seqno %v\n", t.logprefix, op.kind, key, seqno)

	if oldentry != nil {
		return oldentry.Clone(), nil
	}
	return nil, nil
}

// publish root and raise seqno, shall be called with write permit.
func (t *LLRB[K, V, D]) publish(root *Llrbnode[K, V, D], seqno uint64) {
	if root != nil {
		root.black = true
	}
	t.root.Store(root)
	if seqno > atomic.LoadUint64(&t.seqno) {
		atomic.StoreUint64(&t.seqno, seqno)
	}
}
