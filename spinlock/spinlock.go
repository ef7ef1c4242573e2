// Package spinlock implement a non-blocking reader/writer admission
// gate on a single 64-bit word.
//
// Bit layout of the word:
//
//	bit 63     lock, set by the writer once all readers have left.
//	bit 62     latch, set by the writer to repel new readers and writers.
//	bits 0-61  number of admitted readers.
//
// Readers and writers spin until they are admitted, optionally
// yielding the processor on every retry. There is no timeout.
package spinlock

import "fmt"
import "runtime"
import "sync/atomic"

const (
	lockFlag   = uint64(0x8000000000000000)
	latchFlag  = uint64(0x4000000000000000)
	readerMask = latchFlag - 1
)

// Spinlock is the admission gate. Zero value is ready to use in
// busy-spin mode.
type Spinlock struct {
	word uint64 // atomic, must be first for 64-bit alignment.
	// stats
	n_rlocks    uint64
	n_locks     uint64
	n_rconflict uint64
	n_wconflict uint64
	n_wwait     uint64

	yield bool
}

// NewSpinlock return a new gate. If spin is false, waiting readers and
// writers yield the processor on every retry.
func NewSpinlock(spin bool) *Spinlock {
	return &Spinlock{yield: !spin}
}

// RLock admit a reader, spin while the latch or the lock is held by a
// writer. Returned permit must be released exactly once.
func (sl *Spinlock) RLock() *Reader {
	for {
		old := atomic.LoadUint64(&sl.word)
		if (old & (latchFlag | lockFlag)) == 0 {
			if (old & readerMask) == readerMask {
				panic(fmt.Errorf("RLock(): reader count overflow %x", old))
			}
			if atomic.CompareAndSwapUint64(&sl.word, old, old+1) {
				atomic.AddUint64(&sl.n_rlocks, 1)
				return &Reader{sl: sl}
			}
		}
		atomic.AddUint64(&sl.n_rconflict, 1)
		sl.backoff()
	}
}

// Lock admit a writer. First latch the word, so that new readers and
// other writers are repelled, then wait for admitted readers to leave
// and set the lock. Returned permit must be released exactly once.
func (sl *Spinlock) Lock() *Writer {
	for {
		old := atomic.LoadUint64(&sl.word)
		if (old & latchFlag) == 0 {
			if atomic.CompareAndSwapUint64(&sl.word, old, old|latchFlag) {
				break
			}
		}
		atomic.AddUint64(&sl.n_wconflict, 1)
		sl.backoff()
	}

	for {
		old := atomic.LoadUint64(&sl.word)
		if (old & lockFlag) != 0 {
			panic(fmt.Errorf("Lock(): lock bit already set %x", old))
		} else if (old & latchFlag) == 0 {
			panic(fmt.Errorf("Lock(): latch lost %x", old))
		}
		if (old & readerMask) == 0 {
			if atomic.CompareAndSwapUint64(&sl.word, old, old|lockFlag) {
				break
			}
		}
		atomic.AddUint64(&sl.n_wwait, 1)
		sl.backoff()
	}

	if word := atomic.LoadUint64(&sl.word); word != (lockFlag | latchFlag) {
		panic(fmt.Errorf("Lock(): writer admitted with readers %x", word))
	}
	atomic.AddUint64(&sl.n_locks, 1)
	return &Writer{sl: sl}
}

func (sl *Spinlock) backoff() {
	if sl.yield {
		runtime.Gosched()
	}
}

// Readers return the number of readers currently admitted.
func (sl *Spinlock) Readers() int64 {
	return int64(atomic.LoadUint64(&sl.word) & readerMask)
}

// IsLatched return true if a writer holds the latch or the lock.
func (sl *Spinlock) IsLatched() bool {
	return (atomic.LoadUint64(&sl.word) & (latchFlag | lockFlag)) != 0
}

// Stats return gate statistics.
func (sl *Spinlock) Stats() map[string]interface{} {
	m := make(map[string]interface{})
	m["n_rlocks"] = atomic.LoadUint64(&sl.n_rlocks)
	m["n_locks"] = atomic.LoadUint64(&sl.n_locks)
	m["n_rconflict"] = atomic.LoadUint64(&sl.n_rconflict)
	m["n_wconflict"] = atomic.LoadUint64(&sl.n_wconflict)
	m["n_wwait"] = atomic.LoadUint64(&sl.n_wwait)
	m["n_readers"] = sl.Readers()
	return m
}

// Reader permit returned by RLock.
type Reader struct {
	sl       *Spinlock
	released uint32
}

// Unlock release the read permit. Releasing twice is fatal.
func (r *Reader) Unlock() {
	if !atomic.CompareAndSwapUint32(&r.released, 0, 1) {
		panic(fmt.Errorf("Reader.Unlock(): permit released twice"))
	}
	word := atomic.AddUint64(&r.sl.word, ^uint64(0))
	if (word & lockFlag) != 0 {
		panic(fmt.Errorf("Reader.Unlock(): lock bit set with readers %x", word))
	} else if (word & readerMask) == readerMask {
		panic(fmt.Errorf("Reader.Unlock(): reader count underflow %x", word))
	}
}

// Writer permit returned by Lock.
type Writer struct {
	sl       *Spinlock
	released uint32
}

// Unlock release the write permit and reset the gate. Releasing twice
// is fatal.
func (w *Writer) Unlock() {
	if !atomic.CompareAndSwapUint32(&w.released, 0, 1) {
		panic(fmt.Errorf("Writer.Unlock(): permit released twice"))
	}
	old := atomic.SwapUint64(&w.sl.word, 0)
	if old != (lockFlag | latchFlag) {
		panic(fmt.Errorf("Writer.Unlock(): unexpected gate %x", old))
	}
}
