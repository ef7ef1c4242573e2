package llrb

import "fmt"

import "github.com/bnclabs/rdms/dbs"

// copy-on-write walks, shall be called with the write permit. Nodes
// reachable from the published root are never modified, every node on
// the path is copied once per write, tracked by its generation.

func (t *LLRB[K, V, D]) newnode(entry *dbs.Entry[K, V, D]) *Llrbnode[K, V, D] {
	t.n_nodes++
	return &Llrbnode[K, V, D]{entry: entry, gen: t.gen}
}

// own return nd if it was created by the current write, else a copy.
func (t *LLRB[K, V, D]) own(nd *Llrbnode[K, V, D]) *Llrbnode[K, V, D] {
	if nd.gen == t.gen {
		return nd
	}
	t.n_clones++
	newnd := *nd
	newnd.gen = t.gen
	return &newnd
}

// upsertentry replace the entry for entry's key, or insert a new node
// if key is missing. Return the new subtree and the replaced entry.
func (t *LLRB[K, V, D]) upsertentry(
	nd *Llrbnode[K, V, D], depth int64,
	entry *dbs.Entry[K, V, D]) (*Llrbnode[K, V, D], *dbs.Entry[K, V, D]) {

	var oldentry *dbs.Entry[K, V, D]

	if nd == nil {
		t.h_upsertdepth.Add(depth)
		return t.newnode(entry), nil
	}

	nd = t.own(nd)
	switch cmp := entry.Key().Compare(nd.key()); {
	case cmp < 0:
		nd.left, oldentry = t.upsertentry(nd.left, depth+1, entry)
	case cmp > 0:
		nd.right, oldentry = t.upsertentry(nd.right, depth+1, entry)
	default:
		t.h_upsertdepth.Add(depth)
		oldentry, nd.entry = nd.entry, entry
	}

	return t.walkuprot23(nd), oldentry
}

// remove key from the tree, using 2-3 trees. Return the new subtree
// and the removed entry.
func (t *LLRB[K, V, D]) remove(
	nd *Llrbnode[K, V, D], key K) (*Llrbnode[K, V, D], *dbs.Entry[K, V, D]) {

	var deleted *dbs.Entry[K, V, D]

	if nd == nil {
		return nil, nil
	}

	nd = t.own(nd)
	if key.Compare(nd.key()) < 0 {
		if nd.left == nil { // key not present. Nothing to delete
			return nd, nil
		}
		if !nd.left.isred() && !nd.left.left.isred() {
			nd = t.moveredleft(nd)
		}
		nd.left, deleted = t.remove(nd.left, key)

	} else {
		if nd.left.isred() {
			nd = t.rotateright(nd)
		}

		// If key equals nd.key and no right children at nd
		if key.Compare(nd.key()) == 0 && nd.right == nil {
			return nil, nd.entry
		}
		if nd.right != nil && !nd.right.isred() && !nd.right.left.isred() {
			nd = t.moveredright(nd)
		}
		// If key equals nd.key, and from above nd.right != nil
		if key.Compare(nd.key()) == 0 {
			var subd *Llrbnode[K, V, D]
			nd.right, subd = t.deletemin(nd.right)
			if subd == nil {
				panic("remove(): fatal logic, call the programmer")
			}
			deleted, nd.entry = nd.entry, subd.entry

		} else { // Else, key is bigger than nd.key
			nd.right, deleted = t.remove(nd.right, key)
		}
	}
	return t.fixup(nd), deleted
}

// return new subtree and the deleted node.
func (t *LLRB[K, V, D]) deletemin(
	nd *Llrbnode[K, V, D]) (*Llrbnode[K, V, D], *Llrbnode[K, V, D]) {

	var deleted *Llrbnode[K, V, D]

	if nd == nil {
		return nil, nil
	}
	if nd.left == nil {
		return nil, nd
	}

	nd = t.own(nd)
	if !nd.left.isred() && !nd.left.left.isred() {
		nd = t.moveredleft(nd)
	}

	nd.left, deleted = t.deletemin(nd.left)
	return t.fixup(nd), deleted
}

// llrb rotation routines for 2-3 algorithm, nd shall be owned by the
// current write.

func (t *LLRB[K, V, D]) walkuprot23(nd *Llrbnode[K, V, D]) *Llrbnode[K, V, D] {
	if nd.right.isred() && !nd.left.isred() {
		nd = t.rotateleft(nd)
	}
	if nd.left.isred() && nd.left.left.isred() {
		nd = t.rotateright(nd)
	}
	if nd.left.isred() && nd.right.isred() {
		t.flip(nd)
	}
	return nd
}

func (t *LLRB[K, V, D]) rotateleft(nd *Llrbnode[K, V, D]) *Llrbnode[K, V, D] {
	y := t.own(nd.right)
	if y.isblack() {
		panic(fmt.Errorf("rotateleft(): rotating a black link ? call the programmer"))
	}
	nd.right = y.left
	y.left = nd
	y.black = nd.black
	nd.black = false
	return y
}

func (t *LLRB[K, V, D]) rotateright(nd *Llrbnode[K, V, D]) *Llrbnode[K, V, D] {
	x := t.own(nd.left)
	if x.isblack() {
		panic(fmt.Errorf("rotateright(): rotating a black link ? call the programmer"))
	}
	nd.left = x.right
	x.right = nd
	x.black = nd.black
	nd.black = false
	return x
}

// REQUIRE: Left and Right children must be present
func (t *LLRB[K, V, D]) flip(nd *Llrbnode[K, V, D]) {
	x, y := t.own(nd.left), t.own(nd.right)
	x.togglelink()
	y.togglelink()
	nd.togglelink()
	nd.left, nd.right = x, y
}

// REQUIRE: Left and Right children must be present
func (t *LLRB[K, V, D]) moveredleft(nd *Llrbnode[K, V, D]) *Llrbnode[K, V, D] {
	t.flip(nd)
	if nd.right.left.isred() {
		nd.right = t.rotateright(nd.right)
		nd = t.rotateleft(nd)
		t.flip(nd)
	}
	return nd
}

// REQUIRE: Left and Right children must be present
func (t *LLRB[K, V, D]) moveredright(nd *Llrbnode[K, V, D]) *Llrbnode[K, V, D] {
	t.flip(nd)
	if nd.left.left.isred() {
		nd = t.rotateright(nd)
		t.flip(nd)
	}
	return nd
}

// REQUIRE: Left and Right children must be present
func (t *LLRB[K, V, D]) fixup(nd *Llrbnode[K, V, D]) *Llrbnode[K, V, D] {
	if nd.right.isred() {
		nd = t.rotateleft(nd)
	}
	if nd.left.isred() && nd.left.left.isred() {
		nd = t.rotateright(nd)
	}
	if nd.left.isred() && nd.right.isred() {
		t.flip(nd)
	}
	return nd
}
