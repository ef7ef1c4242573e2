package dbs

import "fmt"

type boundkind byte

const (
	unbounded boundkind = iota
	included
	excluded
)

// Bound is the low end of the seqno window retained by a compaction.
// Versions below the window are purgeable.
type Bound struct {
	kind  boundkind
	seqno uint64
}

// Unbounded retain all versions.
func Unbounded() Bound {
	return Bound{kind: unbounded}
}

// Included retain versions with seqno >= n.
func Included(n uint64) Bound {
	return Bound{kind: included, seqno: n}
}

// Excluded retain versions with seqno > n.
func Excluded(n uint64) Bound {
	return Bound{kind: excluded, seqno: n}
}

// Purgeable return true if a version at seqno falls below the bound.
func (b Bound) Purgeable(seqno uint64) bool {
	switch b.kind {
	case included:
		return seqno < b.seqno
	case excluded:
		return seqno <= b.seqno
	}
	return false
}

// IsEmpty return true if nothing is purgeable under this bound.
func (b Bound) IsEmpty() bool {
	return b.kind == unbounded || b.seqno == 0
}

func (b Bound) String() string {
	switch b.kind {
	case included:
		return fmt.Sprintf("Included(%v)", b.seqno)
	case excluded:
		return fmt.Sprintf("Excluded(%v)", b.seqno)
	}
	return "Unbounded"
}

type cutoffkind byte

const (
	cutoffMono cutoffkind = iota + 1
	cutoffLsm
	cutoffTombstone
)

// Cutoff is a compaction policy.
type Cutoff struct {
	kind  cutoffkind
	bound Bound
}

// Mono drop all older versions and drop deleted entries entirely,
// leaving a single current snapshot of the index.
func Mono() Cutoff {
	return Cutoff{kind: cutoffMono}
}

// Lsm drop older versions below bound. A deleted entry is dropped
// once it has no older version left and its delete falls below bound.
func Lsm(bound Bound) Cutoff {
	return Cutoff{kind: cutoffLsm, bound: bound}
}

// Tombstone drop deleted entries whose delete falls below bound. Live
// entries and their history are left untouched.
func Tombstone(bound Bound) Cutoff {
	return Cutoff{kind: cutoffTombstone, bound: bound}
}

// IsNoop return true if compacting with this cutoff cannot change
// any entry.
func (c Cutoff) IsNoop() bool {
	switch c.kind {
	case cutoffLsm, cutoffTombstone:
		return c.bound.IsEmpty()
	case cutoffMono:
		return false
	}
	return true
}

// Purgeable return true if a version at seqno can be discarded.
func (c Cutoff) Purgeable(seqno uint64) bool {
	if c.kind == cutoffMono {
		return true
	}
	return c.bound.Purgeable(seqno)
}

func (c Cutoff) String() string {
	switch c.kind {
	case cutoffMono:
		return "Mono"
	case cutoffLsm:
		return fmt.Sprintf("Lsm(%v)", c.bound)
	case cutoffTombstone:
		return fmt.Sprintf("Tombstone(%v)", c.bound)
	}
	return "Cutoff(none)"
}
