package llrb

import "fmt"
import "io"
import "strings"
import "sync/atomic"

import "github.com/bnclabs/rdms/dbs"

// generation is bumped for every write operation on any index. Nodes
// created by a write carry its generation and can be updated in place
// for the remainder of that write, every other node is immutable.
var generation uint64

func nextgeneration() uint64 {
	return atomic.AddUint64(&generation, 1)
}

// Llrbnode is a node in the tree, it owns a single entry.
type Llrbnode[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]] struct {
	entry *dbs.Entry[K, V, D]
	left  *Llrbnode[K, V, D]
	right *Llrbnode[K, V, D]
	gen   uint64
	black bool
}

// Entry held by this node. Shall not be mutated.
func (nd *Llrbnode[K, V, D]) Entry() *dbs.Entry[K, V, D] {
	return nd.entry
}

func (nd *Llrbnode[K, V, D]) key() K {
	return nd.entry.Key()
}

func (nd *Llrbnode[K, V, D]) isred() bool {
	return nd != nil && !nd.black
}

func (nd *Llrbnode[K, V, D]) isblack() bool {
	return !nd.isred()
}

func (nd *Llrbnode[K, V, D]) togglelink() {
	nd.black = !nd.black
}

func (nd *Llrbnode[K, V, D]) repr() string {
	color := "black"
	if nd.isred() {
		color = "red"
	}
	return fmt.Sprintf("%v(%v) gen:%v", nd.entry, color, nd.gen)
}

func (nd *Llrbnode[K, V, D]) pprint(w io.Writer, prefix string) {
	if nd == nil {
		fmt.Fprintf(w, "%v\n", nil)
		return
	}
	fmt.Fprintf(w, "%v%v\n", prefix, nd.repr())
	prefix += "  "
	fmt.Fprintf(w, "%vleft: ", prefix)
	nd.left.pprint(w, prefix)
	fmt.Fprintf(w, "%vright: ", prefix)
	nd.right.pprint(w, prefix)
}

func (nd *Llrbnode[K, V, D]) dotdump(buffer io.Writer) {
	if nd == nil {
		return
	}

	whatcolor := func(childnd *Llrbnode[K, V, D]) string {
		if childnd.isred() {
			return "red"
		}
		return "black"
	}

	key := fmt.Sprintf("%q", fmt.Sprint(nd.key()))
	lines := []string{
		fmt.Sprintf("  %s [label=%s];\n", key, key),
	}
	fmsg := "  %s -> %q [color=%v];\n"
	if nd.left != nil {
		line := fmt.Sprintf(fmsg, key, fmt.Sprint(nd.left.key()), whatcolor(nd.left))
		lines = append(lines, line)
	}
	if nd.right != nil {
		line := fmt.Sprintf(fmsg, key, fmt.Sprint(nd.right.key()), whatcolor(nd.right))
		lines = append(lines, line)
	}
	buffer.Write([]byte(strings.Join(lines, "")))
	nd.left.dotdump(buffer)
	nd.right.dotdump(buffer)
}

func getnode[K dbs.Key[K], V dbs.Diff[V, D], D dbs.Restorer[V]](
	nd *Llrbnode[K, V, D], key K) *Llrbnode[K, V, D] {

	for nd != nil {
		switch cmp := key.Compare(nd.key()); {
		case cmp < 0:
			nd = nd.left
		case cmp > 0:
			nd = nd.right
		default:
			return nd
		}
	}
	return nil
}

// memory consumed by a node, three pointers and a generation with
// the color flag padded out to a word.
const nodesize = int64(40)
