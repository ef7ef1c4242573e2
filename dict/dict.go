// Package dict implement a sorted dictionary of versioned entries based
// on google/btree. Primarily meant as reference for testing more useful
// storage algorithms, it is not safe for concurrent use.
package dict

import "fmt"
import "iter"

import "github.com/google/btree"

import "github.com/bnclabs/rdms/api"
import "github.com/bnclabs/rdms/dbs"

type item[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]] struct {
	key   K
	entry *dbs.Entry[K, V, D]
}

// Dict is a reference data structure, for validation purpose.
type Dict[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]] struct {
	id    string
	tree  *btree.BTreeG[item[K, V, D]]
	seqno uint64
}

// NewDict create a new dictionary for indexing versioned entries.
func NewDict[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](id string) *Dict[K, V, D] {
	less := func(a, b item[K, V, D]) bool { return a.key.Compare(b.key) < 0 }
	return &Dict[K, V, D]{id: id, tree: btree.NewG(8, less)}
}

// ID of this dictionary.
func (d *Dict[K, V, D]) ID() string {
	return d.id
}

// Count number of entries, including entries marked as deleted.
func (d *Dict[K, V, D]) Count() int64 {
	return int64(d.tree.Len())
}

// ToSeqno return the latest seqno.
func (d *Dict[K, V, D]) ToSeqno() uint64 {
	return d.seqno
}

// Clone return a copy of the dictionary, lazily copied on write.
func (d *Dict[K, V, D]) Clone(id string) *Dict[K, V, D] {
	return &Dict[K, V, D]{id: id, tree: d.tree.Clone(), seqno: d.seqno}
}

// Get entry for key with all its versions.
func (d *Dict[K, V, D]) Get(key K) (*dbs.Entry[K, V, D], error) {
	if it, ok := d.tree.Get(item[K, V, D]{key: key}); ok {
		return it.entry, nil
	}
	return nil, api.ErrorKeyMissing
}

// Set value for key, discarding older versions.
func (d *Dict[K, V, D]) Set(key K, value V) *dbs.Entry[K, V, D] {
	d.seqno++
	old, _ := d.Get(key)
	entry := dbs.NewEntry[K, V, D](key, value, d.seqno)
	d.tree.ReplaceOrInsert(item[K, V, D]{key: key, entry: entry})
	return old
}

// Insert value for key, preserving older versions.
func (d *Dict[K, V, D]) Insert(key K, value V) *dbs.Entry[K, V, D] {
	d.seqno++
	old, _ := d.Get(key)
	var entry *dbs.Entry[K, V, D]
	if old == nil {
		entry = dbs.NewEntry[K, V, D](key, value, d.seqno)
	} else {
		entry = old.Clone()
		entry.Insert(value, d.seqno)
	}
	d.tree.ReplaceOrInsert(item[K, V, D]{key: key, entry: entry})
	return old
}

// Delete mark key as deleted, preserving older versions.
func (d *Dict[K, V, D]) Delete(key K) (*dbs.Entry[K, V, D], error) {
	old, err := d.Get(key)
	if err != nil {
		return nil, err
	}
	d.seqno++
	entry := old.Clone()
	entry.Delete(d.seqno)
	d.tree.ReplaceOrInsert(item[K, V, D]{key: key, entry: entry})
	return old, nil
}

// Remove key along with all its versions.
func (d *Dict[K, V, D]) Remove(key K) (*dbs.Entry[K, V, D], error) {
	it, ok := d.tree.Delete(item[K, V, D]{key: key})
	if !ok {
		return nil, api.ErrorKeyMissing
	}
	d.seqno++
	return it.entry, nil
}

// Compact every entry using cutoff, return the number of entries
// removed.
func (d *Dict[K, V, D]) Compact(cutoff dbs.Cutoff) (n int64) {
	if cutoff.IsNoop() {
		return 0
	}
	updates, removes := []item[K, V, D]{}, []item[K, V, D]{}
	d.tree.Ascend(func(it item[K, V, D]) bool {
		if entry, ok := it.entry.Compact(cutoff); !ok {
			removes = append(removes, it)
		} else if entry != it.entry {
			updates = append(updates, item[K, V, D]{key: it.key, entry: entry})
		}
		return true
	})
	for _, it := range updates {
		d.tree.ReplaceOrInsert(it)
	}
	for _, it := range removes {
		d.tree.Delete(it)
	}
	return int64(len(removes))
}

// Iter entries in sort order, descending if reverse is true.
func (d *Dict[K, V, D]) Iter(reverse bool) iter.Seq[*dbs.Entry[K, V, D]] {
	return func(yield func(*dbs.Entry[K, V, D]) bool) {
		fn := func(it item[K, V, D]) bool { return yield(it.entry) }
		if reverse {
			d.tree.Descend(fn)
		} else {
			d.tree.Ascend(fn)
		}
	}
}

// Validate sort order of entries, panics on failure.
func (d *Dict[K, V, D]) Validate() {
	var prev *dbs.Entry[K, V, D]
	for entry := range d.Iter(false) {
		if prev != nil && prev.Key().Compare(entry.Key()) >= 0 {
			panic(fmt.Errorf("dict.Validate(): %v is >= %v", prev.Key(), entry.Key()))
		}
		prev = entry
	}
}
