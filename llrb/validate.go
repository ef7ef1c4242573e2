package llrb

import "errors"
import "fmt"
import "math"

import "github.com/bnclabs/rdms/dbs"
import "github.com/bnclabs/rdms/lib"

// height of the tree cannot exceed a certain limit. For example if the tree
// holds 1-million entries, a fully balanced tree shall have a height of 20
// levels. maxheight provide some breathing space on top of ideal height.
func maxheight(entries int64) float64 {
	if entries < 5 {
		return (3 * (math.Log2(float64(entries)) + 1)) // 3x breathing space.
	}
	return 2 * math.Log2(float64(entries)) // 2x breathing space
}

// LLRB rule, from sedgewick's paper.
var redafterred = errors.New("consecutive red spotted")

// LLRB rule, from sedgewick's paper.
var rightred = errors.New("right leaning red spotted")

// LLRB rule, from sedgewick's paper.
func unbalancedblacks(lblacks, rblacks int64) error {
	return fmt.Errorf("unbalancedblacks {%v,%v}", lblacks, rblacks)
}

// Validate the published tree for llrb rules, sort order, entry
// invariants and the running count and footprint. Panics on the first
// violation. Writes are blocked until Validate returns.
func (t *LLRB[K, V, D]) Validate() {
	r := t.gate.RLock()
	defer r.Unlock()

	root := t.root.Load()
	if root.isred() {
		panic(fmt.Errorf("validate(): root node is red"))
	}

	h := lib.NewHistogram(1, 256, 1)
	_, count, footprint := t.validatetree(root, false, 0, 1, h)
	if n := t.Count(); count != n {
		panic(fmt.Errorf("validate(): count:%v != actual:%v", n, count))
	} else if fp := t.Footprint(); fp != footprint {
		panic(fmt.Errorf("validate(): footprint:%v != actual:%v", fp, footprint))
	}

	// `h_height`.max should not exceed certain limit
	if h.Samples() > 8 {
		entries := t.Count()
		if float64(h.Max()) > maxheight(entries) {
			fmsg := "validate(): max height %v exceeds log2(%v)"
			panic(fmt.Errorf(fmsg, float64(h.Max()), entries))
		}
	}

	t.validatestats()
}

func (t *LLRB[K, V, D]) validatetree(
	nd *Llrbnode[K, V, D], fromred bool, blacks, depth int64,
	h *lib.Histogram) (nblacks, count, footprint int64) {

	if nd == nil {
		return blacks, 0, 0
	}

	h.Add(depth)
	if fromred && nd.isred() {
		panic(redafterred)
	} else if nd.right.isred() {
		panic(rightred)
	}
	if nd.isblack() {
		blacks++
	}

	lblacks, lcount, lfp := t.validatetree(nd.left, nd.isred(), blacks, depth+1, h)
	rblacks, rcount, rfp := t.validatetree(nd.right, nd.isred(), blacks, depth+1, h)
	if lblacks != rblacks {
		panic(unbalancedblacks(lblacks, rblacks))
	}

	key := nd.key()
	if nd.left != nil && nd.left.key().Compare(key) >= 0 {
		fmsg := "validate(): sort order, left node %v is >= node %v"
		panic(fmt.Errorf(fmsg, nd.left.key(), key))
	}
	if nd.right != nil && nd.right.key().Compare(key) <= 0 {
		fmsg := "validate(): sort order, node %v is >= right node %v"
		panic(fmt.Errorf(fmsg, key, nd.right.key()))
	}
	validateentry(nd.entry)

	footprint = lfp + rfp + nd.entry.Footprint() + nodesize
	return lblacks, lcount + rcount + 1, footprint
}

func validateentry[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	entry *dbs.Entry[K, V, D]) {

	seqno := entry.Seqno()
	for _, d := range entry.Deltas() {
		if d.Seqno() >= seqno {
			fmsg := "validate(): entry %v delta seqno %v not older than %v"
			panic(fmt.Errorf(fmsg, entry.Key(), d.Seqno(), seqno))
		}
		seqno = d.Seqno()
	}
}

func (t *LLRB[K, V, D]) validatestats() {
	// n_count should match (n_inserts - n_removes - n_purged)
	n_count := t.Count()
	n_inserts, n_removes, n_purged := t.n_inserts, t.n_removes, t.n_purged
	if n_count != (n_inserts - n_removes - n_purged) {
		fmsg := "validatestats(): n_count:%v != " +
			"(n_inserts:%v - n_removes:%v - n_purged:%v)"
		panic(fmt.Errorf(fmsg, n_count, n_inserts, n_removes, n_purged))
	}
}
