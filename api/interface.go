// Package api define types and interfaces shared between the in-memory
// index and the components that feed it or consume it, like on-disk
// table writers and write-ahead-log replay.
package api

import "iter"

// TableWriter is implemented by on-disk sorted-table builders. Build
// shall consume every item from the sorted sequence and persist it
// along with the metadata blob.
type TableWriter[E any] interface {
	Build(items iter.Seq[E], metadata []byte) error
}

// Op is a single write-ahead-log record replayed into an index. If
// Delete is true Value is ignored. CAS is applied only when HasCAS is
// true. A zero Seqno lets the index assign the next sequence number.
type Op[K any, V any] struct {
	Key    K
	Value  V
	Delete bool
	HasCAS bool
	CAS    uint64
	Seqno  uint64
}

// Upsert return a replay record for setting key to value.
func Upsert[K any, V any](key K, value V) Op[K, V] {
	return Op[K, V]{Key: key, Value: value}
}

// Deleted return a replay record for deleting key.
func Deleted[K any, V any](key K) Op[K, V] {
	return Op[K, V]{Key: key, Delete: true}
}

// WithCAS return a copy of the record conditioned on cas.
func (op Op[K, V]) WithCAS(cas uint64) Op[K, V] {
	op.HasCAS, op.CAS = true, cas
	return op
}

// WithSeqno return a copy of the record stamped with seqno.
func (op Op[K, V]) WithSeqno(seqno uint64) Op[K, V] {
	op.Seqno = seqno
	return op
}
