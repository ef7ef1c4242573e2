package dbs

import "bytes"
import "fmt"
import "strings"

// Int64 can be used as key, value and delta. Diff is identity, the
// delta is the older value itself.
type Int64 int64

func (x Int64) Compare(other Int64) int {
	switch {
	case x < other:
		return -1
	case x > other:
		return 1
	}
	return 0
}

func (x Int64) Footprint() int64    { return 8 }
func (x Int64) Diff(old Int64) Int64 { return old }
func (x Int64) Merge(d Int64) Int64  { return d }
func (x Int64) AsDelta() Int64       { return x }
func (x Int64) Restore() Int64       { return x }

// Uint64 can be used as key, value and delta.
type Uint64 uint64

func (x Uint64) Compare(other Uint64) int {
	switch {
	case x < other:
		return -1
	case x > other:
		return 1
	}
	return 0
}

func (x Uint64) Footprint() int64      { return 8 }
func (x Uint64) Diff(old Uint64) Uint64 { return old }
func (x Uint64) Merge(d Uint64) Uint64  { return d }
func (x Uint64) AsDelta() Uint64        { return x }
func (x Uint64) Restore() Uint64        { return x }

// Bool can be used as value and delta.
type Bool bool

func (x Bool) Footprint() int64  { return 1 }
func (x Bool) Diff(old Bool) Bool { return old }
func (x Bool) Merge(d Bool) Bool  { return d }
func (x Bool) AsDelta() Bool      { return x }
func (x Bool) Restore() Bool      { return x }

// String can be used as key, value and delta.
type String string

func (x String) Compare(other String) int {
	return strings.Compare(string(x), string(other))
}

func (x String) Footprint() int64      { return int64(16 + len(x)) }
func (x String) Diff(old String) String { return old }
func (x String) Merge(d String) String  { return d }
func (x String) AsDelta() String        { return x }
func (x String) Restore() String        { return x }

// Bytes can be used as key and value. As value its older versions are
// stored as BytesDelta, only the region that differ from the newer
// version.
type Bytes []byte

func (x Bytes) Compare(other Bytes) int {
	return bytes.Compare(x, other)
}

func (x Bytes) Footprint() int64 {
	return int64(24 + len(x))
}

// Diff compute the common prefix and suffix between x and old, and
// keep the middle part of old.
func (x Bytes) Diff(old Bytes) BytesDelta {
	n := min(len(x), len(old))
	prefix := 0
	for prefix < n && x[prefix] == old[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < (n-prefix) && x[len(x)-1-suffix] == old[len(old)-1-suffix] {
		suffix++
	}
	middle := make([]byte, len(old)-prefix-suffix)
	copy(middle, old[prefix:len(old)-suffix])
	return BytesDelta{prefix: prefix, suffix: suffix, middle: middle}
}

func (x Bytes) Merge(d BytesDelta) Bytes {
	if d.prefix+d.suffix > len(x) {
		fmsg := "merge(): delta prefix:%v suffix:%v on %v bytes"
		panic(fmt.Errorf(fmsg, d.prefix, d.suffix, len(x)))
	}
	old := make([]byte, 0, d.prefix+len(d.middle)+d.suffix)
	old = append(old, x[:d.prefix]...)
	old = append(old, d.middle...)
	old = append(old, x[len(x)-d.suffix:]...)
	return Bytes(old)
}

func (x Bytes) AsDelta() BytesDelta {
	middle := make([]byte, len(x))
	copy(middle, x)
	return BytesDelta{middle: middle}
}

// BytesDelta is the delta type for Bytes values.
type BytesDelta struct {
	prefix int
	suffix int
	middle []byte
}

func (d BytesDelta) Footprint() int64 {
	return int64(16 + 24 + len(d.middle))
}

func (d BytesDelta) Restore() Bytes {
	if d.prefix != 0 || d.suffix != 0 {
		panic(fmt.Errorf("restore(): partial delta %v", d))
	}
	value := make([]byte, len(d.middle))
	copy(value, d.middle)
	return Bytes(value)
}

func (d BytesDelta) String() string {
	return fmt.Sprintf("{%v,%q,%v}", d.prefix, d.middle, d.suffix)
}
