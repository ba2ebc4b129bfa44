// Package Treap implements a randomized binary search tree: keys are in search
// tree order and random priorities are in heap order.
package Treap

import (
	"math/rand"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/tchicherin/tree-visualizer/Trees"
	"golang.org/x/exp/constraints"
)

var log = Trees.Log.WithField("tree", "treap")

// Source supplies node priorities. *rand.Rand is one.
type Source interface {
	Uint64() uint64
}

type globalSource struct{}

func (globalSource) Uint64() uint64 {
	return rand.Uint64()
}

type node[T constraints.Ordered] struct {
	v    T
	l, r *node[T]
	prio uint64
	seq  uint64
}

// above reports whether a ranks over b in the heap. Equal priorities fall
// back to insertion order, the older node ranking higher.
func above[T constraints.Ordered](a, b *node[T]) bool {
	return a.prio > b.prio || (a.prio == b.prio && a.seq < b.seq)
}

// Treap is expected to have depth D = O(log n) whatever the insertion order.
// Each node draws its priority once, when it is inserted. Use New to make one.
type Treap[T constraints.Ordered] struct {
	root, sel *node[T]
	src       Source
	seq       uint64
	sz        uint
}

var _ Trees.Tree[int] = (*Treap[int])(nil)

// New returns an empty Treap drawing priorities from src, or from the process
// wide generator if src is nil.
func New[T constraints.Ordered](src Source) *Treap[T] {
	if src == nil {
		src = globalSource{}
	}
	return &Treap[T]{src: src}
}

// split n into the keys below v and the rest. With inclusive, v itself goes
// to the lower part.
// Time: O(D)
func split[T constraints.Ordered](n *node[T], v T, inclusive bool) (*node[T], *node[T]) {
	if n == nil {
		return nil, nil
	}
	if n.v < v || (inclusive && n.v == v) {
		a, b := split(n.r, v, inclusive)
		n.r = a
		return n, b
	}
	a, b := split(n.l, v, inclusive)
	n.l = b
	return a, n
}

// merge two treaps where every key of a is less than every key of b.
// Time: O(D)
func merge[T constraints.Ordered](a, b *node[T]) *node[T] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if above(a, b) {
		a.r = merge(a.r, b)
		return a
	}
	b.l = merge(a, b.l)
	return b
}

func (u *Treap[T]) findNode(v T) *node[T] {
	cur := u.root
	for cur != nil && cur.v != v {
		if v < cur.v {
			cur = cur.l
		} else {
			cur = cur.r
		}
	}
	return cur
}

// Insert [Trees.Tree.Insert]. A present key is only selected and draws no
// priority.
// Time: O(D)
func (u *Treap[T]) Insert(v T) {
	if n := u.findNode(v); n != nil {
		u.sel = n
		return
	}
	n := &node[T]{v: v, prio: u.src.Uint64(), seq: u.seq}
	u.seq++
	if Trees.Debugging() {
		log.WithFields(logrus.Fields{"op": "insert", "key": v, "priority": n.prio}).Debug("insert")
	}
	l, r := split(u.root, v, false)
	u.root = merge(merge(l, n), r)
	u.sel = n
	u.sz++
}

// Erase [Trees.Tree.Erase]. v is cut out between two splits, one below it and
// one right after it, so keys need no successor.
// Time: O(D)
func (u *Treap[T]) Erase(v T) {
	u.sel = nil
	l, r := split(u.root, v, false)
	m, r := split(r, v, true)
	if m != nil {
		u.sz--
	}
	u.root = merge(l, r)
}

// Find [Trees.Tree.Find]
// Time: O(D)
func (u *Treap[T]) Find(v T) bool {
	u.sel = u.findNode(v)
	return u.sel != nil
}

// Size [Trees.Tree.Size]
func (u *Treap[T]) Size() uint {
	return u.sz
}

func inOrder[T constraints.Ordered](n *node[T], f func(T) bool) bool {
	return n == nil || (inOrder(n.l, f) && f(n.v) && inOrder(n.r, f))
}

// InOrder [Trees.Tree.InOrder]
func (u *Treap[T]) InOrder(f func(T) bool) {
	inOrder(u.root, f)
}

// Export [Trees.Tree.Export]
func (u *Treap[T]) Export() *Trees.Shape {
	var dfs func(*node[T]) *Trees.Shape
	dfs = func(n *node[T]) *Trees.Shape {
		if n == nil {
			return nil
		}
		return &Trees.Shape{
			Keys:     []string{Trees.Label(n.v)},
			Selected: n == u.sel,
			Children: []*Trees.Shape{dfs(n.l), dfs(n.r)},
		}
	}
	s := dfs(u.root)
	u.sel = nil
	return s
}

func (u *Treap[T]) check(n *node[T], lo, hi *T, cnt *uint) error {
	if n == nil {
		return nil
	}
	*cnt++
	if (lo != nil && n.v <= *lo) || (hi != nil && n.v >= *hi) {
		return errors.AssertionFailedf("node %v is out of order", n.v)
	}
	for _, c := range []*node[T]{n.l, n.r} {
		if c != nil && !above(n, c) {
			return errors.AssertionFailedf("child %v (priority %d) ranks over its parent %v (priority %d)", c.v, c.prio, n.v, n.prio)
		}
	}
	if err := u.check(n.l, lo, &n.v, cnt); err != nil {
		return err
	}
	return u.check(n.r, &n.v, hi, cnt)
}

// CheckInvariant [Trees.Tree.CheckInvariant]
func (u *Treap[T]) CheckInvariant() error {
	var cnt uint
	if err := u.check(u.root, nil, nil, &cnt); err != nil {
		return err
	}
	if cnt != u.sz {
		return errors.AssertionFailedf("tree holds %d nodes, size is %d", cnt, u.sz)
	}
	return nil
}
