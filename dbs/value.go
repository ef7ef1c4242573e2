package dbs

import "fmt"

// Value is the state of an entry at a seqno, either an upsert
// carrying a value or a delete.
type Value[V any] struct {
	value   V
	seqno   uint64
	deleted bool
}

// NewUpsert return an upserted value at seqno.
func NewUpsert[V any](value V, seqno uint64) Value[V] {
	return Value[V]{value: value, seqno: seqno}
}

// NewDeleted return a delete marker at seqno.
func NewDeleted[V any](seqno uint64) Value[V] {
	return Value[V]{seqno: seqno, deleted: true}
}

// Seqno at which this value became current.
func (v Value[V]) Seqno() uint64 {
	return v.seqno
}

// IsDeleted return true for delete markers.
func (v Value[V]) IsDeleted() bool {
	return v.deleted
}

// Get return the value, ok is false for delete markers.
func (v Value[V]) Get() (value V, ok bool) {
	if v.deleted {
		return value, false
	}
	return v.value, true
}

func (v Value[V]) String() string {
	if v.deleted {
		return fmt.Sprintf("D<%v>", v.seqno)
	}
	return fmt.Sprintf("U<%v,%v>", v.value, v.seqno)
}

// Delta is an older version of an entry, an upsert is stored as a
// delta that must be merged with the next newer version.
type Delta[D any] struct {
	delta   D
	seqno   uint64
	deleted bool
}

// Seqno at which this version became current.
func (d Delta[D]) Seqno() uint64 {
	return d.seqno
}

// IsDeleted return true if this version was a delete.
func (d Delta[D]) IsDeleted() bool {
	return d.deleted
}

// Get return the raw delta, ok is false for delete markers.
func (d Delta[D]) Get() (delta D, ok bool) {
	if d.deleted {
		return delta, false
	}
	return d.delta, true
}

func (d Delta[D]) String() string {
	if d.deleted {
		return fmt.Sprintf("d<%v>", d.seqno)
	}
	return fmt.Sprintf("u<%v,%v>", d.delta, d.seqno)
}
