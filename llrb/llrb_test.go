package llrb

import "bytes"
import "errors"
import "fmt"
import "iter"
import "math/rand"
import "strings"
import "testing"

import "github.com/stretchr/testify/require"

import "github.com/bnclabs/rdms/api"
import "github.com/bnclabs/rdms/dbs"
import "github.com/bnclabs/rdms/dict"
import s "github.com/bnclabs/gosettings"

type intllrb = LLRB[dbs.Int64, dbs.Int64, dbs.Int64]

func newintllrb(name string) *intllrb {
	return NewLLRB[dbs.Int64, dbs.Int64, dbs.Int64](name, s.Settings{"spin": false})
}

func TestLLRBEmpty(t *testing.T) {
	index := newintllrb("empty")

	if index.ID() != "empty" {
		t.Errorf("unexpected %v", index.ID())
	} else if index.Count() != 0 {
		t.Errorf("unexpected %v", index.Count())
	} else if index.Footprint() != 0 {
		t.Errorf("unexpected %v", index.Footprint())
	} else if index.ToSeqno() != 0 {
		t.Errorf("unexpected %v", index.ToSeqno())
	}

	index.Validate()
	stats := index.Stats()
	for _, key := range []string{"n_count", "n_inserts", "n_updates", "n_deletes", "n_nodes"} {
		if x := stats[key].(int64); x != 0 {
			t.Errorf("unexpected %v %v", key, x)
		}
	}

	_, err := index.Get(10)
	require.True(t, errors.Is(err, api.ErrorKeyMissing))
	_, err = index.Min()
	require.True(t, errors.Is(err, api.ErrorKeyMissing))
	_, err = index.Max()
	require.True(t, errors.Is(err, api.ErrorKeyMissing))
	for entry := range index.Iter() {
		t.Errorf("unexpected %v", entry)
	}
	require.Equal(t, int64(0), index.Compact(dbs.Mono()))
}

func TestLLRBScenario(t *testing.T) {
	index := newintllrb("scenario")
	for i := dbs.Int64(1); i <= 1000; i++ {
		if old := index.Insert(i, i*10); old != nil {
			t.Errorf("unexpected %v", old)
		}
	}
	index.Validate()
	require.Equal(t, int64(1000), index.Count())
	require.Equal(t, uint64(1000), index.ToSeqno())

	old, err := index.Delete(500)
	require.NoError(t, err)
	require.Equal(t, uint64(500), old.Seqno())

	entry, err := index.Get(500)
	require.NoError(t, err)
	require.True(t, entry.IsDeleted())
	require.Equal(t, uint64(1001), entry.Seqno())
	require.Empty(t, entry.Deltas())

	entry, err = index.GetWithVersions(500)
	require.NoError(t, err)
	versions := entry.Versions()
	require.Len(t, versions, 2)
	require.True(t, versions[0].IsDeleted())
	value, ok := versions[1].Get()
	require.True(t, ok)
	require.Equal(t, dbs.Int64(5000), value)
	require.Equal(t, uint64(500), versions[1].Seqno())

	// delete-seqno 1001 is retained by Excluded(1000)
	require.Equal(t, int64(0), index.Compact(dbs.Tombstone(dbs.Excluded(1000))))
	_, err = index.Get(500)
	require.NoError(t, err)

	require.Equal(t, int64(1), index.Compact(dbs.Tombstone(dbs.Excluded(1001))))
	_, err = index.Get(500)
	require.True(t, errors.Is(err, api.ErrorKeyMissing))
	require.Equal(t, int64(999), index.Count())
	index.Validate()
}

func TestLLRBSetInsert(t *testing.T) {
	index := newintllrb("setinsert")

	index.Set(10, 100)
	index.Set(10, 101)
	entry, err := index.GetWithVersions(10)
	require.NoError(t, err)
	require.Len(t, entry.Versions(), 1)

	index.Insert(10, 102)
	index.Insert(10, 103)
	entry, err = index.GetWithVersions(10)
	require.NoError(t, err)
	values := []dbs.Int64{}
	for _, version := range entry.Versions() {
		v, _ := version.Get()
		values = append(values, v)
	}
	require.Equal(t, []dbs.Int64{103, 102, 101}, values)

	// Get strips history
	entry, err = index.Get(10)
	require.NoError(t, err)
	require.Len(t, entry.Versions(), 1)

	// returned entries are copies.
	entry.Set(1000, 1000)
	entry, _ = index.Get(10)
	v, _ := entry.Value().Get()
	require.Equal(t, dbs.Int64(103), v)

	stats := index.Stats()
	require.Equal(t, int64(1), stats["n_inserts"])
	require.Equal(t, int64(3), stats["n_updates"])
	index.Validate()
}

func TestLLRBRemove(t *testing.T) {
	index := newintllrb("remove")
	for i := dbs.Int64(0); i < 100; i++ {
		index.Set(i, i)
	}
	seqno := index.ToSeqno()

	_, err := index.Remove(1000)
	require.True(t, errors.Is(err, api.ErrorKeyMissing))
	_, err = index.Delete(1000)
	require.True(t, errors.Is(err, api.ErrorKeyMissing))
	require.Equal(t, seqno, index.ToSeqno())

	for i := dbs.Int64(0); i < 100; i += 2 {
		old, err := index.Remove(i)
		require.NoError(t, err)
		require.Equal(t, i, old.Key())
		index.Validate()
	}
	require.Equal(t, int64(50), index.Count())
	require.Equal(t, seqno+50, index.ToSeqno())
	for i := dbs.Int64(0); i < 100; i++ {
		_, err := index.Get(i)
		if i%2 == 0 {
			require.True(t, errors.Is(err, api.ErrorKeyMissing))
		} else {
			require.NoError(t, err)
		}
	}
}

func TestLLRBCAS(t *testing.T) {
	index := newintllrb("cas")

	_, err := index.SetCAS(10, 100, 0)
	require.NoError(t, err)
	entry, _ := index.Get(10)
	cas := entry.Seqno()

	before, footprint := index.root.Load(), index.Footprint()
	_, err = index.SetCAS(10, 101, cas+1)
	var caserr *CASError[dbs.Int64, dbs.Int64, dbs.Int64]
	require.True(t, errors.As(err, &caserr))
	require.True(t, errors.Is(err, api.ErrorInvalidCAS))
	require.Equal(t, cas+1, caserr.Expected)
	require.Equal(t, cas, caserr.Current)
	require.Equal(t, dbs.Int64(10), caserr.Entry.Key())
	// failed cas leave the tree untouched.
	require.Same(t, before, index.root.Load())
	require.Equal(t, footprint, index.Footprint())
	require.Equal(t, cas, index.ToSeqno())

	// cas zero require a missing key.
	_, err = index.SetCAS(10, 102, 0)
	require.True(t, errors.Is(err, api.ErrorInvalidCAS))
	_, err = index.InsertCAS(20, 200, 10)
	require.True(t, errors.As(err, &caserr))
	require.Nil(t, caserr.Entry)

	old, err := index.InsertCAS(10, 103, cas)
	require.NoError(t, err)
	require.Equal(t, cas, old.Seqno())

	// deleted entry is present, its cas is the delete seqno.
	entry, _ = index.Get(10)
	_, err = index.DeleteCAS(10, entry.Seqno())
	require.NoError(t, err)
	entry, _ = index.Get(10)
	_, err = index.SetCAS(10, 104, 0)
	require.True(t, errors.Is(err, api.ErrorInvalidCAS))
	_, err = index.SetCAS(10, 104, entry.Seqno())
	require.NoError(t, err)

	stats := index.Stats()
	require.Equal(t, int64(4), stats["n_casfails"])
	index.Validate()
}

func TestLLRBIndexSeqno(t *testing.T) {
	index := newintllrb("seqno")

	_, err := index.SetIndex(10, 100, 50)
	require.NoError(t, err)
	require.Equal(t, uint64(50), index.ToSeqno())

	// lower seqno for another key is allowed, counter does not go back.
	_, err = index.SetIndex(5, 100, 20)
	require.NoError(t, err)
	require.Equal(t, uint64(50), index.ToSeqno())

	_, err = index.InsertIndex(10, 101, 50)
	require.True(t, errors.Is(err, api.ErrorStaleSeqno))
	_, err = index.DeleteIndex(10, 40)
	require.True(t, errors.Is(err, api.ErrorStaleSeqno))

	_, err = index.SetCASIndex(10, 102, 50, 60)
	require.NoError(t, err)
	entry, _ := index.Get(10)
	require.Equal(t, uint64(60), entry.Seqno())

	// next auto seqno for key 5 is 61.
	index.Insert(5, 103)
	entry, _ = index.GetWithVersions(5)
	require.Equal(t, uint64(61), entry.Seqno())
	require.Len(t, entry.Deltas(), 1)

	index.SetSeqno(100)
	index.Set(7, 7)
	entry, _ = index.Get(7)
	require.Equal(t, uint64(101), entry.Seqno())
	index.Validate()

	// rewound counter, writes to existing keys still move forward.
	index.SetSeqno(3)
	require.NotPanics(t, func() { index.Set(7, 70) })
	entry, _ = index.Get(7)
	require.Equal(t, uint64(102), entry.Seqno())
	require.Equal(t, uint64(102), index.ToSeqno())
	require.NotPanics(t, func() { index.Insert(10, 110) })
	entry, _ = index.GetWithVersions(10)
	require.Equal(t, uint64(103), entry.Seqno())
	require.Len(t, entry.Deltas(), 1)
	_, err = index.Delete(5)
	require.NoError(t, err)
	entry, _ = index.Get(5)
	require.Equal(t, uint64(104), entry.Seqno())
	index.Validate()
}

func TestLLRBRange(t *testing.T) {
	index := newintllrb("range")
	for i := dbs.Int64(0); i < 100; i++ {
		index.Set(i, i)
	}

	collect := func(entries iter.Seq[*dbs.Entry[dbs.Int64, dbs.Int64, dbs.Int64]]) []dbs.Int64 {
		keys := []dbs.Int64{}
		for entry := range entries {
			keys = append(keys, entry.Key())
		}
		return keys
	}
	keyrange := func(from, till dbs.Int64, step int) []dbs.Int64 {
		keys := []dbs.Int64{}
		for k := from; k != till; k += dbs.Int64(step) {
			keys = append(keys, k)
		}
		return keys
	}

	testcases := []struct {
		low, high Bound[dbs.Int64]
		ref       []dbs.Int64
	}{
		{Unbounded[dbs.Int64](), Unbounded[dbs.Int64](), keyrange(0, 100, 1)},
		{Included[dbs.Int64](10), Included[dbs.Int64](20), keyrange(10, 21, 1)},
		{Excluded[dbs.Int64](10), Excluded[dbs.Int64](20), keyrange(11, 20, 1)},
		{Included[dbs.Int64](90), Unbounded[dbs.Int64](), keyrange(90, 100, 1)},
		{Unbounded[dbs.Int64](), Excluded[dbs.Int64](5), keyrange(0, 5, 1)},
		{Excluded[dbs.Int64](20), Included[dbs.Int64](10), []dbs.Int64{}},
		{Included[dbs.Int64](200), Unbounded[dbs.Int64](), []dbs.Int64{}},
	}
	for _, tcase := range testcases {
		keys := collect(index.Range(tcase.low, tcase.high))
		require.Equal(t, tcase.ref, keys, "%v %v", tcase.low, tcase.high)

		rev := []dbs.Int64{}
		for i := len(tcase.ref) - 1; i >= 0; i-- {
			rev = append(rev, tcase.ref[i])
		}
		keys = collect(index.Reverse(tcase.low, tcase.high))
		require.Equal(t, rev, keys, "%v %v", tcase.low, tcase.high)
	}

	// stopped iteration release the read permit.
	n := 0
	for range index.Reverse(Unbounded[dbs.Int64](), Unbounded[dbs.Int64]()) {
		if n++; n == 5 {
			break
		}
	}
	require.Equal(t, int64(0), index.gate.Readers())
	index.Set(1000, 1000)

	min, err := index.Min()
	require.NoError(t, err)
	require.Equal(t, dbs.Int64(0), min.Key())
	max, err := index.Max()
	require.NoError(t, err)
	require.Equal(t, dbs.Int64(1000), max.Key())
	require.Equal(t, "Included(10)", Included[dbs.Int64](10).String())
}

func TestLLRBCompact(t *testing.T) {
	index := newintllrb("compact")
	for i := dbs.Int64(0); i < 100; i++ {
		index.Insert(i, i)
		index.Insert(i, i+1)
		index.Insert(i, i+2)
	}
	for i := dbs.Int64(0); i < 100; i += 10 {
		index.Delete(i)
	}
	index.Validate()

	seqno := index.ToSeqno()
	snapshot := index.Clone("snapshot")
	require.Equal(t, int64(0), index.Compact(dbs.Lsm(dbs.Unbounded())))

	// purge the first two versions of every key.
	n := index.Compact(dbs.Lsm(dbs.Included(201)))
	require.Equal(t, int64(0), n)
	index.Validate()
	for entry := range index.Iter() {
		for _, version := range entry.Versions() {
			require.GreaterOrEqual(t, version.Seqno(), uint64(201))
		}
	}
	require.Equal(t, seqno, index.ToSeqno())

	n = index.Compact(dbs.Mono())
	require.Equal(t, int64(10), n)
	require.Equal(t, int64(90), index.Count())
	for entry := range index.Iter() {
		require.Empty(t, entry.Deltas())
		require.False(t, entry.IsDeleted())
	}
	index.Validate()

	// clone still see the full history.
	require.Equal(t, int64(100), snapshot.Count())
	entry, err := snapshot.GetWithVersions(10)
	require.NoError(t, err)
	require.Len(t, entry.Versions(), 4)
	snapshot.Validate()

	stats := index.Stats()
	require.Equal(t, int64(2), stats["n_compacts"])
	require.Equal(t, int64(10), stats["n_purged"])
}

func TestLLRBCompactLsm(t *testing.T) {
	index := newintllrb("compactlsm")
	index.Insert(1, 1)   // 1
	index.Delete(1)      // 2
	index.Insert(2, 2)   // 3
	index.Insert(2, 3)   // 4
	index.Delete(2)      // 5
	index.Insert(3, 100) // 6

	n := index.Compact(dbs.Lsm(dbs.Excluded(2)))
	require.Equal(t, int64(1), n)
	_, err := index.Get(1)
	require.True(t, errors.Is(err, api.ErrorKeyMissing))
	entry, err := index.GetWithVersions(2)
	require.NoError(t, err)
	require.Len(t, entry.Versions(), 3)
	index.Validate()

	n = index.Compact(dbs.Lsm(dbs.Excluded(4)))
	require.Equal(t, int64(0), n)
	entry, _ = index.GetWithVersions(2)
	require.Len(t, entry.Versions(), 1)
	require.True(t, entry.IsDeleted())

	n = index.Compact(dbs.Lsm(dbs.Included(6)))
	require.Equal(t, int64(1), n)
	require.Equal(t, int64(1), index.Count())
	index.Validate()
}

func TestLLRBCommit(t *testing.T) {
	index := newintllrb("commit")
	for i := dbs.Int64(0); i < 10; i++ {
		index.Insert(i, i)
	}

	level := newintllrb("level")
	level.SetSeqno(100)
	for i := dbs.Int64(5); i < 15; i++ {
		level.Insert(i, i*100)
	}
	require.NoError(t, index.Commit(level.Iter()))
	index.Validate()

	require.Equal(t, int64(15), index.Count())
	require.Equal(t, uint64(110), index.ToSeqno())
	entry, err := index.GetWithVersions(7)
	require.NoError(t, err)
	seqnos := []uint64{}
	for _, version := range entry.Versions() {
		seqnos = append(seqnos, version.Seqno())
	}
	require.Equal(t, []uint64{103, 8}, seqnos)

	// committing the same level again is idempotent.
	require.NoError(t, index.Commit(level.Iter()))
	entry, _ = index.GetWithVersions(7)
	require.Len(t, entry.Versions(), 2)

	// unsorted items, nothing is published.
	before := index.root.Load()
	n_nodes, n_clones := index.n_nodes, index.n_clones
	samples := index.h_upsertdepth.Samples()
	var unsorted iter.Seq[*dbs.Entry[dbs.Int64, dbs.Int64, dbs.Int64]]
	unsorted = func(yield func(*dbs.Entry[dbs.Int64, dbs.Int64, dbs.Int64]) bool) {
		for _, k := range []dbs.Int64{100, 101, 50} {
			if !yield(dbs.NewEntry[dbs.Int64, dbs.Int64, dbs.Int64](k, k, 500)) {
				return
			}
		}
	}
	err = index.Commit(unsorted)
	require.True(t, errors.Is(err, api.ErrorUnsortedKeys))
	require.Same(t, before, index.root.Load())
	require.Equal(t, int64(15), index.Count())
	require.Equal(t, uint64(110), index.ToSeqno())
	_, err = index.Get(100)
	require.True(t, errors.Is(err, api.ErrorKeyMissing))
	require.Equal(t, n_nodes, index.n_nodes)
	require.Equal(t, n_clones, index.n_clones)
	require.Equal(t, samples, index.h_upsertdepth.Samples())
	index.Validate()
}

func TestLLRBReplay(t *testing.T) {
	ops := []api.Op[dbs.Int64, dbs.Int64]{
		api.Upsert[dbs.Int64, dbs.Int64](1, 10),
		api.Upsert[dbs.Int64, dbs.Int64](2, 20),
		api.Upsert[dbs.Int64, dbs.Int64](1, 11),
		api.Deleted[dbs.Int64, dbs.Int64](2),
		api.Deleted[dbs.Int64, dbs.Int64](3),
		api.Upsert[dbs.Int64, dbs.Int64](4, 40).WithSeqno(100),
	}
	opseq := func(yield func(api.Op[dbs.Int64, dbs.Int64]) bool) {
		for _, op := range ops {
			if !yield(op) {
				return
			}
		}
	}

	index := newintllrb("replay")
	n, err := index.Replay(opseq)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, int64(2), index.Count())
	require.Equal(t, uint64(100), index.ToSeqno())
	entry, _ := index.GetWithVersions(1)
	require.Len(t, entry.Versions(), 1)

	lsmindex := NewLLRB[dbs.Int64, dbs.Int64, dbs.Int64]("lsm", s.Settings{"lsm": true})
	n, err = lsmindex.Replay(opseq)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, int64(3), lsmindex.Count())
	entry, _ = lsmindex.GetWithVersions(1)
	require.Len(t, entry.Versions(), 2)
	entry, _ = lsmindex.Get(2)
	require.True(t, entry.IsDeleted())

	// replay stop at the first failed record.
	ops = []api.Op[dbs.Int64, dbs.Int64]{
		api.Upsert[dbs.Int64, dbs.Int64](5, 50),
		api.Upsert[dbs.Int64, dbs.Int64](4, 41).WithSeqno(10),
		api.Upsert[dbs.Int64, dbs.Int64](6, 60),
	}
	n, err = index.Replay(opseq)
	require.True(t, errors.Is(err, api.ErrorStaleSeqno))
	require.Equal(t, int64(1), n)

	_, err = index.Apply(api.Upsert[dbs.Int64, dbs.Int64](5, 51).WithCAS(1))
	require.True(t, errors.Is(err, api.ErrorInvalidCAS))
	index.Validate()
	lsmindex.Validate()
}

func TestLLRBBytes(t *testing.T) {
	index := NewLLRB[dbs.Bytes, dbs.Bytes, dbs.BytesDelta]("bytes", nil)
	key := dbs.Bytes("key")
	value := bytes.Repeat([]byte("abcdefgh"), 128)
	index.Insert(key, dbs.Bytes(value))
	footprint := index.Footprint()

	newvalue := append([]byte{}, value...)
	copy(newvalue[512:], "xyz")
	index.Insert(key, dbs.Bytes(newvalue))
	// the older version is stored as a small delta.
	require.Less(t, index.Footprint()-footprint, int64(200))

	entry, err := index.GetWithVersions(key)
	require.NoError(t, err)
	versions := entry.Versions()
	v0, _ := versions[0].Get()
	v1, _ := versions[1].Get()
	require.Equal(t, newvalue, []byte(v0))
	require.Equal(t, value, []byte(v1))
	index.Validate()
}

func TestLLRBRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(100))
	index := newintllrb("random")
	ref := dict.NewDict[dbs.Int64, dbs.Int64, dbs.Int64]("ref")

	for i := 0; i < 20000; i++ {
		key, value := dbs.Int64(rnd.Intn(2000)), dbs.Int64(rnd.Intn(1000000))
		switch op := rnd.Intn(10); {
		case op < 3:
			index.Set(key, value)
			ref.Set(key, value)
		case op < 6:
			index.Insert(key, value)
			ref.Insert(key, value)
		case op < 8:
			_, err1 := index.Delete(key)
			_, err2 := ref.Delete(key)
			require.Equal(t, err2, err1)
		default:
			_, err1 := index.Remove(key)
			_, err2 := ref.Remove(key)
			require.Equal(t, err2, err1)
		}
		if i%5000 == 0 {
			index.Validate()
			n1 := index.Compact(dbs.Lsm(dbs.Excluded(uint64(i / 2))))
			n2 := ref.Compact(dbs.Lsm(dbs.Excluded(uint64(i / 2))))
			require.Equal(t, n2, n1)
		}
	}
	index.Validate()
	verifyagainst(t, index, ref)

	require.Equal(t, ref.Compact(dbs.Mono()), index.Compact(dbs.Mono()))
	index.Validate()
	verifyagainst(t, index, ref)
}

func verifyagainst(t *testing.T, index *intllrb, ref *dict.Dict[dbs.Int64, dbs.Int64, dbs.Int64]) {
	require.Equal(t, ref.Count(), index.Count())
	require.Equal(t, ref.ToSeqno(), index.ToSeqno())

	refentries := []string{}
	for entry := range ref.Iter(false) {
		refentries = append(refentries, fmt.Sprint(entry.Versions()))
	}
	entries := []string{}
	for entry := range index.Iter() {
		entries = append(entries, fmt.Sprint(entry.Versions()))
	}
	require.Equal(t, refentries, entries)

	refentries = refentries[:0]
	for entry := range ref.Iter(true) {
		refentries = append(refentries, fmt.Sprint(entry.Key()))
	}
	entries = entries[:0]
	for entry := range index.Reverse(Unbounded[dbs.Int64](), Unbounded[dbs.Int64]()) {
		entries = append(entries, fmt.Sprint(entry.Key()))
	}
	require.Equal(t, refentries, entries)
}

type collectwriter struct {
	keys     []dbs.Int64
	metadata []byte
}

func (w *collectwriter) Build(
	items iter.Seq[*dbs.Entry[dbs.Int64, dbs.Int64, dbs.Int64]], metadata []byte) error {

	for entry := range items {
		w.keys = append(w.keys, entry.Key())
	}
	w.metadata = metadata
	return nil
}

func TestLLRBFlush(t *testing.T) {
	index := newintllrb("flush")
	for _, k := range []dbs.Int64{3, 1, 2} {
		index.Set(k, k)
	}

	w := &collectwriter{}
	require.NoError(t, index.Flush(w, []byte("metadata")))
	require.Equal(t, []dbs.Int64{1, 2, 3}, w.keys)
	require.Equal(t, []byte("metadata"), w.metadata)

	err := index.Flush(api.NoDisk[*dbs.Entry[dbs.Int64, dbs.Int64, dbs.Int64]]{}, nil)
	require.True(t, errors.Is(err, api.ErrorNotImplemented))
}

func TestLLRBDump(t *testing.T) {
	index := newintllrb("dump")
	for i := dbs.Int64(0); i < 10; i++ {
		index.Set(i, i)
	}

	buf := &bytes.Buffer{}
	index.Dotdump(buf)
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "digraph llrb {"))
	require.True(t, strings.HasSuffix(out, "}"))
	require.Contains(t, out, `"3" [label="3"];`)

	buf.Reset()
	index.Pprint(buf)
	require.Contains(t, buf.String(), "left: ")

	stats := index.Stats()
	h_height := stats["h_height"].(map[string]interface{})
	require.Equal(t, int64(10), h_height["samples"])
	require.Contains(t, stats, "spinlock.n_rlocks")
	index.Log()
}

func TestLLRBClone(t *testing.T) {
	index := newintllrb("orig")
	for i := dbs.Int64(0); i < 100; i++ {
		index.Set(i, i)
	}
	clone := index.Clone("clone")
	require.Equal(t, "clone", clone.ID())

	for i := dbs.Int64(0); i < 100; i += 3 {
		index.Remove(i)
		clone.Insert(i, i+1)
	}
	index.Validate()
	clone.Validate()
	require.Equal(t, int64(66), index.Count())
	require.Equal(t, int64(100), clone.Count())

	entry, err := clone.GetWithVersions(3)
	require.NoError(t, err)
	require.Len(t, entry.Versions(), 2)
	_, err = index.Get(3)
	require.True(t, errors.Is(err, api.ErrorKeyMissing))
}
