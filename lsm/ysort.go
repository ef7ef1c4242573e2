package lsm

import "fmt"
import "iter"

import "github.com/bnclabs/rdms/dbs"

// YSort merge two sorted streams of entries, a is the older level and
// b the newer level. Entries are yielded in ascending key order, and
// entries with the same key are committed into a single entry.
func YSort[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	a, b iter.Seq[*dbs.Entry[K, V, D]]) iter.Seq[*dbs.Entry[K, V, D]] {

	return func(yield func(*dbs.Entry[K, V, D]) bool) {
		anext, astop := iter.Pull(a)
		defer astop()
		bnext, bstop := iter.Pull(b)
		defer bstop()

		aentry, aok := anext()
		bentry, bok := bnext()
		for aok || bok {
			var entry *dbs.Entry[K, V, D]
			switch {
			case !bok:
				entry, aentry, aok = pick(aentry, anext)
			case !aok:
				entry, bentry, bok = pick(bentry, bnext)
			default:
				cmp := aentry.Key().Compare(bentry.Key())
				if cmp < 0 {
					entry, aentry, aok = pick(aentry, anext)
				} else if cmp > 0 {
					entry, bentry, bok = pick(bentry, bnext)
				} else {
					entry = commit(aentry, bentry)
					aentry, aok = anext()
					bentry, bok = bnext()
				}
			}
			if !yield(entry) {
				return
			}
		}
	}
}

// Merge sorted streams of entries from several levels, oldest level
// first.
func Merge[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	levels ...iter.Seq[*dbs.Entry[K, V, D]]) iter.Seq[*dbs.Entry[K, V, D]] {

	switch len(levels) {
	case 0:
		return func(func(*dbs.Entry[K, V, D]) bool) {}
	case 1:
		return levels[0]
	}
	seq := YSort(levels[0], levels[1])
	for _, level := range levels[2:] {
		seq = YSort(seq, level)
	}
	return seq
}

func pick[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	entry *dbs.Entry[K, V, D],
	next func() (*dbs.Entry[K, V, D], bool)) (*dbs.Entry[K, V, D], *dbs.Entry[K, V, D], bool) {

	nentry, ok := next()
	return entry, nentry, ok
}

func commit[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	older, newer *dbs.Entry[K, V, D]) *dbs.Entry[K, V, D] {

	entry, err := older.Commit(newer)
	if err != nil {
		panic(fmt.Errorf("YSort(): %v", err))
	}
	return entry
}
