package llrb

import "fmt"
import "iter"
import "sync/atomic"

import "github.com/bnclabs/rdms/dbs"

type boundkind byte

const (
	unbounded boundkind = iota
	included
	excluded
)

// Bound on one end of a key range.
type Bound[K dbs.Key[K]] struct {
	kind boundkind
	key  K
}

// Unbounded range end.
func Unbounded[K dbs.Key[K]]() Bound[K] {
	return Bound[K]{kind: unbounded}
}

// Included range end, key is part of the range.
func Included[K dbs.Key[K]](key K) Bound[K] {
	return Bound[K]{kind: included, key: key}
}

// Excluded range end, key is not part of the range.
func Excluded[K dbs.Key[K]](key K) Bound[K] {
	return Bound[K]{kind: excluded, key: key}
}

// key at or above low bound.
func (b Bound[K]) abovelow(key K) bool {
	switch b.kind {
	case included:
		return key.Compare(b.key) >= 0
	case excluded:
		return key.Compare(b.key) > 0
	}
	return true
}

// key at or below high bound.
func (b Bound[K]) belowhigh(key K) bool {
	switch b.kind {
	case included:
		return key.Compare(b.key) <= 0
	case excluded:
		return key.Compare(b.key) < 0
	}
	return true
}

func (b Bound[K]) String() string {
	switch b.kind {
	case included:
		return fmt.Sprintf("Included(%v)", b.key)
	case excluded:
		return fmt.Sprintf("Excluded(%v)", b.key)
	}
	return "Unbounded"
}

// Iter all entries in ascending key order, entries marked as deleted
// are included. Yielded entries are shared with the tree and shall not
// be mutated, Clone them to retain or modify. The read permit is held
// until the loop ends, do not call other LLRB methods from the loop
// body, a waiting writer will block them and deadlock the loop.
func (t *LLRB[K, V, D]) Iter() iter.Seq[*dbs.Entry[K, V, D]] {
	return t.Range(Unbounded[K](), Unbounded[K]())
}

// Range iterate over entries between low and high bounds in ascending
// key order.
func (t *LLRB[K, V, D]) Range(low, high Bound[K]) iter.Seq[*dbs.Entry[K, V, D]] {
	return func(yield func(*dbs.Entry[K, V, D]) bool) {
		r := t.gate.RLock()
		defer r.Unlock()

		atomic.AddInt64(&t.n_ranges, 1)
		rangefwd(t.root.Load(), low, high, yield)
	}
}

// Reverse iterate over entries between low and high bounds in
// descending key order.
func (t *LLRB[K, V, D]) Reverse(low, high Bound[K]) iter.Seq[*dbs.Entry[K, V, D]] {
	return func(yield func(*dbs.Entry[K, V, D]) bool) {
		r := t.gate.RLock()
		defer r.Unlock()

		atomic.AddInt64(&t.n_ranges, 1)
		rangerev(t.root.Load(), low, high, yield)
	}
}

func rangefwd[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	nd *Llrbnode[K, V, D], low, high Bound[K],
	yield func(*dbs.Entry[K, V, D]) bool) bool {

	if nd == nil {
		return true
	}
	key := nd.key()
	above, below := low.abovelow(key), high.belowhigh(key)
	if above && !rangefwd(nd.left, low, high, yield) {
		return false
	}
	if above && below && !yield(nd.entry) {
		return false
	}
	if below {
		return rangefwd(nd.right, low, high, yield)
	}
	return true
}

func rangerev[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	nd *Llrbnode[K, V, D], low, high Bound[K],
	yield func(*dbs.Entry[K, V, D]) bool) bool {

	if nd == nil {
		return true
	}
	key := nd.key()
	above, below := low.abovelow(key), high.belowhigh(key)
	if below && !rangerev(nd.right, low, high, yield) {
		return false
	}
	if above && below && !yield(nd.entry) {
		return false
	}
	if above {
		return rangerev(nd.left, low, high, yield)
	}
	return true
}
