// Package BTree implements a B-tree of minimum degree t that keeps itself
// within bounds on the way down: inserts split full nodes before entering
// them, erases grow minimal nodes before entering them.
package BTree

import (
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/sirupsen/logrus"
	"github.com/tchicherin/tree-visualizer/Trees"
	"golang.org/x/exp/constraints"
)

var log = Trees.Log.WithField("tree", "btree")

// ErrFactor is returned by New for a minimum degree below 2.
var ErrFactor = errors.New("btree: factor must be at least 2")

// DefaultFactor is the minimum degree the host uses when none is given.
const DefaultFactor = 2

// BTree holds between t-1 and 2t-1 keys in every node but the root, which
// holds at least one. All leaves are at the same depth D = O(log_t n).
// Use New to make one; Insert and Erase panic on the zero value.
type BTree[T constraints.Ordered] struct {
	root, sel *node[T]
	t         int
	sz        uint
}

var _ Trees.Tree[int] = (*BTree[int])(nil)

// New returns an empty BTree of minimum degree factor.
func New[T constraints.Ordered](factor int) (*BTree[T], error) {
	if factor < 2 {
		return nil, errors.Wrapf(ErrFactor, "factor %d", factor)
	}
	return &BTree[T]{t: factor}, nil
}

// MustNew is New that panics on a bad factor.
func MustNew[T constraints.Ordered](factor int) *BTree[T] {
	u, err := New[T](factor)
	if err != nil {
		panic(err)
	}
	return u
}

// Factor is the minimum degree t.
func (u *BTree[T]) Factor() int {
	return u.t
}

// mustFactor panics on a BTree that didn't come from New.
func (u *BTree[T]) mustFactor() {
	if u.t < 2 {
		panic(errors.Wrapf(ErrFactor, "factor %d", u.t))
	}
}

func (u *BTree[T]) full(n *node[T]) bool {
	return len(n.keys) == 2*u.t-1
}

// fixOversaturation splits the full child par.kids[i] around its median, which
// moves up into par at i. The upper t-1 keys go to a new sibling at i+1.
// Reports whether a split happened.
// Time: O(t)
func (u *BTree[T]) fixOversaturation(par *node[T], i int) bool {
	c := par.kids[i]
	if !u.full(c) {
		return false
	}
	med := c.keys[u.t-1]
	sib := &node[T]{keys: slices.Clone(c.keys[u.t:])}
	clear(c.keys[u.t-1:])
	c.keys = c.keys[:u.t-1]
	if !c.leaf() {
		sib.kids = slices.Clone(c.kids[u.t:])
		clear(c.kids[u.t:])
		c.kids = c.kids[:u.t]
	}
	par.keys = slices.Insert(par.keys, i, med)
	par.kids = slices.Insert(par.kids, i+1, sib)
	if Trees.Debugging() {
		log.WithFields(logrus.Fields{"op": "split", "median": med}).Debug("split")
	}
	return true
}

// fixUndersaturation makes par.kids[i] hold at least t keys before the erase
// enters it: borrow from the right sibling, else from the left, else merge
// with a sibling through the separating key. The child covering the old range
// of par.kids[i] is returned. A merge that empties the root makes the merged
// node the root.
// Time: O(t)
func (u *BTree[T]) fixUndersaturation(par *node[T], i int) *node[T] {
	c := par.kids[i]
	if len(c.keys) >= u.t {
		return c
	}
	if i+1 < len(par.kids) && len(par.kids[i+1].keys) >= u.t {
		r := par.kids[i+1]
		c.keys = append(c.keys, par.keys[i])
		par.keys[i] = r.keys[0]
		r.keys = slices.Delete(r.keys, 0, 1)
		if !c.leaf() {
			c.kids = append(c.kids, r.kids[0])
			r.kids = slices.Delete(r.kids, 0, 1)
		}
		return c
	}
	if i > 0 && len(par.kids[i-1].keys) >= u.t {
		l := par.kids[i-1]
		last := len(l.keys) - 1
		c.keys = slices.Insert(c.keys, 0, par.keys[i-1])
		par.keys[i-1] = l.keys[last]
		l.keys = slices.Delete(l.keys, last, last+1)
		if !c.leaf() {
			c.kids = slices.Insert(c.kids, 0, l.kids[last+1])
			l.kids = slices.Delete(l.kids, last+1, last+2)
		}
		return c
	}
	if i+1 == len(par.kids) {
		i--
	}
	l, r := par.kids[i], par.kids[i+1]
	l.keys = append(append(l.keys, par.keys[i]), r.keys...)
	if !l.leaf() {
		l.kids = append(l.kids, r.kids...)
	}
	par.keys = slices.Delete(par.keys, i, i+1)
	par.kids = slices.Delete(par.kids, i+1, i+2)
	if Trees.Debugging() {
		log.WithFields(logrus.Fields{"op": "merge", "keys": len(l.keys)}).Debug("merge")
	}
	if len(par.keys) == 0 {
		// only the root may run out of keys.
		u.root = l
	}
	return l
}

func (u *BTree[T]) findNode(v T) *node[T] {
	for cur := u.root; cur != nil; {
		i, ok := cur.follow(v)
		if ok {
			return cur
		}
		if cur.leaf() {
			return nil
		}
		cur = cur.kids[i]
	}
	return nil
}

// Insert [Trees.Tree.Insert]. The node that receives v is selected.
// Time: O(t*D)
func (u *BTree[T]) Insert(v T) {
	u.mustFactor()
	if n := u.findNode(v); n != nil {
		u.sel = n
		return
	}
	if u.root == nil {
		u.root = &node[T]{keys: []T{v}}
		u.sel = u.root
		u.sz++
		return
	}
	if u.full(u.root) {
		u.root = &node[T]{kids: []*node[T]{u.root}}
		u.fixOversaturation(u.root, 0)
	}
	cur := u.root
	for !cur.leaf() {
		i, _ := cur.follow(v)
		if u.fixOversaturation(cur, i) && v > cur.keys[i] {
			i++
		}
		cur = cur.kids[i]
	}
	i, _ := cur.follow(v)
	cur.keys = slices.Insert(cur.keys, i, v)
	u.sel = cur
	u.sz++
}

// Erase [Trees.Tree.Erase]. A key in an internal node is replaced by its
// successor, the leading key of the leftmost leaf of the subtree to its right,
// which is removed from that leaf instead.
// Time: O(t*D)
func (u *BTree[T]) Erase(v T) {
	u.mustFactor()
	u.sel = nil
	if u.findNode(v) == nil {
		return
	}
	cur := u.root
	for {
		i, ok := cur.follow(v)
		if cur.leaf() {
			cur.keys = slices.Delete(cur.keys, i, i+1)
			if len(cur.keys) == 0 {
				u.root = nil
			}
			u.sz--
			return
		}
		if !ok {
			cur = u.fixUndersaturation(cur, i)
			continue
		}
		c := u.fixUndersaturation(cur, i+1)
		if c == u.root || i >= len(cur.keys) || cur.keys[i] != v {
			// v moved down into c with a borrow or merge from the left.
			cur = c
			continue
		}
		m := c
		for !m.leaf() {
			m = u.fixUndersaturation(m, 0)
		}
		cur.keys[i] = m.keys[0]
		m.keys = slices.Delete(m.keys, 0, 1)
		u.sz--
		return
	}
}

// Find [Trees.Tree.Find]. The whole node holding v is selected.
// Time: O(log(t)*D)
func (u *BTree[T]) Find(v T) bool {
	u.sel = u.findNode(v)
	return u.sel != nil
}

// Size [Trees.Tree.Size]
func (u *BTree[T]) Size() uint {
	return u.sz
}

// Height is the number of nodes on a root to leaf path, 0 when empty.
func (u *BTree[T]) Height() int {
	h := 0
	for cur := u.root; cur != nil; h++ {
		if cur.leaf() {
			cur = nil
		} else {
			cur = cur.kids[0]
		}
	}
	return h
}

// InOrder [Trees.Tree.InOrder]
func (u *BTree[T]) InOrder(f func(T) bool) {
	if u.root == nil {
		return
	}
	st := arraystack.New()
	descend := func(n *node[T]) {
		for {
			st.Push(&frame[T]{n: n})
			if n.leaf() {
				return
			}
			n = n.kids[0]
		}
	}
	descend(u.root)
	for !st.Empty() {
		top, _ := st.Peek()
		fr := top.(*frame[T])
		if fr.i == len(fr.n.keys) {
			st.Pop()
			continue
		}
		if !f(fr.n.keys[fr.i]) {
			return
		}
		fr.i++
		if !fr.n.leaf() {
			descend(fr.n.kids[fr.i])
		}
	}
}

// Export [Trees.Tree.Export]. Every node has len(Keys)+1 child slots, all of
// them nil for a leaf.
func (u *BTree[T]) Export() *Trees.Shape {
	var dfs func(*node[T]) *Trees.Shape
	dfs = func(n *node[T]) *Trees.Shape {
		if n == nil {
			return nil
		}
		s := &Trees.Shape{
			Keys:     make([]string, len(n.keys)),
			Selected: n == u.sel,
			Children: make([]*Trees.Shape, len(n.keys)+1),
		}
		for i, k := range n.keys {
			s.Keys[i] = Trees.Label(k)
		}
		for i, k := range n.kids {
			s.Children[i] = dfs(k)
		}
		return s
	}
	s := dfs(u.root)
	u.sel = nil
	return s
}

// check the subtree under n, whose keys must lie strictly between lo and hi,
// and return the depth of its leaves.
func (u *BTree[T]) check(n *node[T], lo, hi *T, cnt *uint) (int, error) {
	*cnt += uint(len(n.keys))
	if len(n.keys) == 0 || len(n.keys) > 2*u.t-1 {
		return 0, errors.AssertionFailedf("node has %d keys", len(n.keys))
	}
	if n != u.root && len(n.keys) < u.t-1 {
		return 0, errors.AssertionFailedf("node %v has fewer than %d keys", n.keys, u.t-1)
	}
	for i, k := range n.keys {
		if (i > 0 && n.keys[i-1] >= k) || (lo != nil && k <= *lo) || (hi != nil && k >= *hi) {
			return 0, errors.AssertionFailedf("key %v of %v is out of order", k, n.keys)
		}
	}
	if n.leaf() {
		return 1, nil
	}
	if len(n.kids) != len(n.keys)+1 {
		return 0, errors.AssertionFailedf("node %v has %d children", n.keys, len(n.kids))
	}
	depth := -1
	for i, k := range n.kids {
		if k == nil {
			return 0, errors.AssertionFailedf("node %v has an empty child %d", n.keys, i)
		}
		l, h := lo, hi
		if i > 0 {
			l = &n.keys[i-1]
		}
		if i < len(n.keys) {
			h = &n.keys[i]
		}
		d, err := u.check(k, l, h, cnt)
		if err != nil {
			return 0, err
		}
		if depth != -1 && d != depth {
			return 0, errors.AssertionFailedf("leaves under %v are at depths %d and %d", n.keys, depth, d)
		}
		depth = d
	}
	return depth + 1, nil
}

// CheckInvariant [Trees.Tree.CheckInvariant]
func (u *BTree[T]) CheckInvariant() error {
	if u.t < 2 {
		return errors.Wrapf(ErrFactor, "factor %d", u.t)
	}
	var cnt uint
	if u.root != nil {
		if _, err := u.check(u.root, nil, nil, &cnt); err != nil {
			return err
		}
	}
	if cnt != u.sz {
		return errors.AssertionFailedf("tree holds %d keys, size is %d", cnt, u.sz)
	}
	return nil
}
