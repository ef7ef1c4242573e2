package dbs

import "fmt"
import "sort"
import "unsafe"

import "github.com/bnclabs/rdms/api"

// Entry is a single logical record in the index, a key along with its
// current value and older versions as deltas, newest first. Deltas are
// strictly decreasing in seqno and the current value carry the highest
// seqno in the entry.
//
// Set, Insert and Delete mutate the entry in place, callers that share
// entries between readers must Clone before mutating.
type Entry[K Key[K], V Diff[V, D], D Restorer[V]] struct {
	key       K
	value     Value[V]
	deltas    []Delta[D] // newest first
	footprint int64
}

// NewEntry return a new entry for key with value upserted at seqno.
func NewEntry[K Key[K], V Diff[V, D], D Restorer[V]](
	key K, value V, seqno uint64) *Entry[K, V, D] {

	e := &Entry[K, V, D]{key: key, value: NewUpsert(value, seqno)}
	e.refootprint()
	return e
}

// NewDeletedEntry return a new entry for key marked deleted at seqno.
func NewDeletedEntry[K Key[K], V Diff[V, D], D Restorer[V]](
	key K, seqno uint64) *Entry[K, V, D] {

	e := &Entry[K, V, D]{key: key, value: NewDeleted[V](seqno)}
	e.refootprint()
	return e
}

// NewEntryFromVersions build an entry from a list of versions ordered
// newest first, with strictly decreasing seqno.
func NewEntryFromVersions[K Key[K], V Diff[V, D], D Restorer[V]](
	key K, versions []Value[V]) *Entry[K, V, D] {

	if len(versions) == 0 {
		panic(fmt.Errorf("NewEntryFromVersions(): no versions for %v", key))
	}
	e := &Entry[K, V, D]{key: key, value: versions[0]}
	if len(versions) > 1 {
		e.deltas = make([]Delta[D], 0, len(versions)-1)
	}
	for i := 1; i < len(versions); i++ {
		newer, older := versions[i-1], versions[i]
		if older.seqno >= newer.seqno {
			fmsg := "NewEntryFromVersions(): seqno %v not older than %v"
			panic(fmt.Errorf(fmsg, older.seqno, newer.seqno))
		}
		e.deltas = append(e.deltas, encodedelta[V, D](newer, older))
	}
	e.refootprint()
	return e
}

// encodedelta older version as a delta against the newer version.
func encodedelta[V Diff[V, D], D Restorer[V]](newer, older Value[V]) Delta[D] {
	ov, ok := older.Get()
	if !ok {
		return Delta[D]{seqno: older.seqno, deleted: true}
	}
	if nv, ok := newer.Get(); ok {
		return Delta[D]{delta: nv.Diff(ov), seqno: older.seqno}
	}
	return Delta[D]{delta: ov.AsDelta(), seqno: older.seqno}
}

// Key return entry's key.
func (e *Entry[K, V, D]) Key() K {
	return e.key
}

// Value return entry's current value.
func (e *Entry[K, V, D]) Value() Value[V] {
	return e.value
}

// Seqno return seqno of the current value.
func (e *Entry[K, V, D]) Seqno() uint64 {
	return e.value.seqno
}

// IsDeleted return true if the current value is a delete marker.
func (e *Entry[K, V, D]) IsDeleted() bool {
	return e.value.deleted
}

// Deltas return older versions as deltas, newest first.
func (e *Entry[K, V, D]) Deltas() []Delta[D] {
	deltas := make([]Delta[D], len(e.deltas))
	copy(deltas, e.deltas)
	return deltas
}

// Versions reconstruct every version of this entry, newest first. The
// first version is the current value.
func (e *Entry[K, V, D]) Versions() []Value[V] {
	versions := make([]Value[V], 0, len(e.deltas)+1)
	versions = append(versions, e.value)

	curr, ok := e.value.Get()
	for _, d := range e.deltas {
		dv, dok := d.Get()
		switch {
		case !dok:
			ok = false
			versions = append(versions, NewDeleted[V](d.seqno))
			continue
		case ok:
			curr = curr.Merge(dv)
		default:
			curr = dv.Restore()
		}
		ok = true
		versions = append(versions, NewUpsert(curr, d.seqno))
	}
	return versions
}

// Clone return a copy of the entry with its full history. Values and
// deltas are shared, they are never mutated once installed.
func (e *Entry[K, V, D]) Clone() *Entry[K, V, D] {
	newe := *e
	if len(e.deltas) > 0 {
		newe.deltas = make([]Delta[D], len(e.deltas))
		copy(newe.deltas, e.deltas)
	}
	return &newe
}

// CloneCurrent return a copy of the entry without older versions.
func (e *Entry[K, V, D]) CloneCurrent() *Entry[K, V, D] {
	newe := &Entry[K, V, D]{key: e.key, value: e.value}
	newe.refootprint()
	return newe
}

// Set value at seqno, discarding older versions.
func (e *Entry[K, V, D]) Set(value V, seqno uint64) {
	e.checkseqno(seqno)
	e.value, e.deltas = NewUpsert(value, seqno), nil
	e.refootprint()
}

// Insert value at seqno, the current value is preserved as a delta.
func (e *Entry[K, V, D]) Insert(value V, seqno uint64) {
	e.checkseqno(seqno)
	newv := NewUpsert(value, seqno)
	e.prepend(encodedelta[V, D](newv, e.value))
	e.footprint -= e.valuefootprint()
	e.value = newv
	e.footprint += e.valuefootprint()
}

// Delete mark the entry deleted at seqno, the current value is
// preserved as a delta.
func (e *Entry[K, V, D]) Delete(seqno uint64) {
	e.checkseqno(seqno)
	newv := NewDeleted[V](seqno)
	e.prepend(encodedelta[V, D](newv, e.value))
	e.footprint -= e.valuefootprint()
	e.value = newv
}

// Commit merge other entry, for the same key, with this entry and
// return the merged entry. Versions from both entries are combined
// in seqno order. Neither the receiver nor other is modified.
func (e *Entry[K, V, D]) Commit(other *Entry[K, V, D]) (*Entry[K, V, D], error) {
	if e.key.Compare(other.key) != 0 {
		err := fmt.Errorf("commit %v with %v: %w", e.key, other.key, api.ErrorKeyMismatch)
		return nil, err
	}

	versions := append(e.Versions(), other.Versions()...)
	sort.SliceStable(versions, func(i, j int) bool {
		return versions[i].seqno > versions[j].seqno
	})
	uniq := versions[:1]
	for _, v := range versions[1:] {
		if v.seqno != uniq[len(uniq)-1].seqno {
			uniq = append(uniq, v)
		}
	}
	return NewEntryFromVersions[K, V, D](e.key, uniq), nil
}

// Compact apply cutoff on this entry. Return the receiver if nothing
// changed, a pruned copy if some versions were dropped, or ok as false
// if the entire entry can be removed.
func (e *Entry[K, V, D]) Compact(cutoff Cutoff) (*Entry[K, V, D], bool) {
	switch cutoff.kind {
	case cutoffMono:
		if e.value.deleted {
			return nil, false
		} else if len(e.deltas) == 0 {
			return e, true
		}
		return e.CloneCurrent(), true

	case cutoffLsm:
		n := len(e.deltas)
		for i, d := range e.deltas {
			if cutoff.Purgeable(d.seqno) {
				n = i
				break
			}
		}
		if n == 0 && e.value.deleted && cutoff.Purgeable(e.value.seqno) {
			return nil, false
		} else if n == len(e.deltas) {
			return e, true
		}
		newe := &Entry[K, V, D]{key: e.key, value: e.value}
		if n > 0 {
			newe.deltas = make([]Delta[D], n)
			copy(newe.deltas, e.deltas[:n])
		}
		newe.refootprint()
		return newe, true

	case cutoffTombstone:
		if e.value.deleted && cutoff.Purgeable(e.value.seqno) {
			return nil, false
		}
		return e, true
	}
	panic(fmt.Errorf("Compact(): invalid cutoff %v", cutoff))
}

// Footprint return approximate memory consumed by this entry, cached
// and updated on every mutation.
func (e *Entry[K, V, D]) Footprint() int64 {
	return e.footprint
}

func (e *Entry[K, V, D]) String() string {
	return fmt.Sprintf("{%v %v %v}", e.key, e.value, e.deltas)
}

func (e *Entry[K, V, D]) checkseqno(seqno uint64) {
	if seqno <= e.value.seqno {
		fmsg := "entry %v: seqno %v not after %v"
		panic(fmt.Errorf(fmsg, e.key, seqno, e.value.seqno))
	}
}

func (e *Entry[K, V, D]) prepend(d Delta[D]) {
	deltas := make([]Delta[D], 0, len(e.deltas)+1)
	deltas = append(deltas, d)
	e.deltas = append(deltas, e.deltas...)
	e.footprint += deltafootprint(d)
}

func (e *Entry[K, V, D]) valuefootprint() int64 {
	if v, ok := e.value.Get(); ok {
		return v.Footprint()
	}
	return 0
}

func (e *Entry[K, V, D]) refootprint() {
	e.footprint = int64(unsafe.Sizeof(*e)) + e.key.Footprint()
	e.footprint += e.valuefootprint()
	for _, d := range e.deltas {
		e.footprint += deltafootprint(d)
	}
}

func deltafootprint[D Footprinter](d Delta[D]) int64 {
	n := int64(unsafe.Sizeof(d))
	if dv, ok := d.Get(); ok {
		n += dv.Footprint()
	}
	return n
}
