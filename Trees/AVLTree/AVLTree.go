// Package AVLTree implements a height balanced binary search tree.
package AVLTree

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/tchicherin/tree-visualizer/Trees"
	"golang.org/x/exp/constraints"
)

var log = Trees.Log.WithField("tree", "avl")

// AVLTree keeps the heights of the two subtrees of every node within 1 of
// each other by rotating after every insertion and removal, so the height D
// is at most 1.44*log2(n+2).
// The zero value is an empty tree ready to use.
type AVLTree[T constraints.Ordered] struct {
	root, sel *node[T] // sel marks the node for the next Export, it never owns anything.
	sz        uint
}

var _ Trees.Tree[int] = (*AVLTree[int])(nil)

func New[T constraints.Ordered]() *AVLTree[T] {
	return &AVLTree[T]{}
}

// replace x by y in the parent of x, or at the root. y.p is set, x.p is left alone.
func (u *AVLTree[T]) replace(x, y *node[T]) {
	if x.p == nil {
		u.root = y
	} else if x.p.l == x {
		x.p.l = y
	} else {
		x.p.r = y
	}
	if y != nil {
		y.p = x.p
	}
}

// rotateLeft lifts x.r above x and returns it. beta, the left subtree of x.r,
// moves to the right of x.
// Time: O(1)
func (u *AVLTree[T]) rotateLeft(x *node[T]) *node[T] {
	y := x.r
	beta := y.l
	u.replace(x, y)
	y.l, x.p = x, y
	x.r = beta
	if beta != nil {
		beta.p = x
	}
	x.update()
	y.update()
	if Trees.Debugging() {
		log.WithFields(logrus.Fields{"op": "rotateLeft", "pivot": x.v, "lifted": y.v}).Debug("rotate")
	}
	return y
}

// rotateRight is the mirror of rotateLeft.
// Time: O(1)
func (u *AVLTree[T]) rotateRight(x *node[T]) *node[T] {
	y := x.l
	beta := y.r
	u.replace(x, y)
	y.r, x.p = x, y
	x.l = beta
	if beta != nil {
		beta.p = x
	}
	x.update()
	y.update()
	if Trees.Debugging() {
		log.WithFields(logrus.Fields{"op": "rotateRight", "pivot": x.v, "lifted": y.v}).Debug("rotate")
	}
	return y
}

// fix restores the balance of x, whose subtrees are balanced and differ in
// height by at most 2, and returns the new root of the subtree.
// A heavy inner grandchild takes a double rotation.
func (u *AVLTree[T]) fix(x *node[T]) *node[T] {
	if d := x.balance(); d < -1 {
		if x.r.balance() > 0 {
			u.rotateRight(x.r)
		}
		return u.rotateLeft(x)
	} else if d > 1 {
		if x.l.balance() < 0 {
			u.rotateLeft(x.l)
		}
		return u.rotateRight(x)
	}
	return x
}

// retrace updates heights and fixes every node from n up to the root.
// Time: O(D)
func (u *AVLTree[T]) retrace(n *node[T]) {
	for n != nil {
		n.update()
		n = u.fix(n).p
	}
}

func (u *AVLTree[T]) findNode(v T) *node[T] {
	for cur := u.root; cur != nil; {
		if v < cur.v {
			cur = cur.l
		} else if v == cur.v {
			return cur
		} else {
			cur = cur.r
		}
	}
	return nil
}

// Insert [Trees.Tree.Insert]
// Time: O(D)
func (u *AVLTree[T]) Insert(v T) {
	var par *node[T]
	for cur := u.root; cur != nil; {
		par = cur
		if v < cur.v {
			cur = cur.l
		} else if v == cur.v {
			u.sel = cur
			return
		} else {
			cur = cur.r
		}
	}
	n := &node[T]{v: v, p: par, h: 1}
	if par == nil {
		u.root = n
	} else if v < par.v {
		par.l = n
	} else {
		par.r = n
	}
	u.sz++
	u.sel = n
	u.retrace(par)
}

// Erase [Trees.Tree.Erase]. A node with a right subtree takes the key of its
// successor, which is spliced out instead.
// Time: O(D)
func (u *AVLTree[T]) Erase(v T) {
	n := u.findNode(v)
	if n == nil {
		return
	}
	u.sel = nil
	if n.r == nil {
		u.replace(n, n.l)
	} else {
		m := leftmost(n.r)
		n.v = m.v
		n = m
		u.replace(n, n.r)
	}
	u.sz--
	u.retrace(n.p)
}

// Find [Trees.Tree.Find]
// Time: O(D)
func (u *AVLTree[T]) Find(v T) bool {
	u.sel = u.findNode(v)
	return u.sel != nil
}

// Size [Trees.Tree.Size]
// Time: O(1)
func (u *AVLTree[T]) Size() uint {
	return u.sz
}

// Height of the tree, 0 when empty.
func (u *AVLTree[T]) Height() int {
	return height(u.root)
}

// InOrder [Trees.Tree.InOrder]. Walks the parent links, no extra memory.
func (u *AVLTree[T]) InOrder(f func(T) bool) {
	if u.root == nil {
		return
	}
	for cur := leftmost(u.root); cur != nil && f(cur.v); cur = cur.next() {
	}
}

// Export [Trees.Tree.Export]. Recursive.
func (u *AVLTree[T]) Export() *Trees.Shape {
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

// CheckInvariant [Trees.Tree.CheckInvariant]. Checks key order, parent links,
// stored heights and the balance of every node. Recursive.
func (u *AVLTree[T]) CheckInvariant() error {
	var cnt uint
	var dfs func(n, p *node[T], lo, hi *T) error
	dfs = func(n, p *node[T], lo, hi *T) error {
		if n == nil {
			return nil
		}
		cnt++
		if n.p != p {
			return errors.AssertionFailedf("node %v has a stale parent link", n.v)
		}
		if (lo != nil && n.v <= *lo) || (hi != nil && n.v >= *hi) {
			return errors.AssertionFailedf("node %v is out of order", n.v)
		}
		if err := dfs(n.l, n, lo, &n.v); err != nil {
			return err
		}
		if err := dfs(n.r, n, &n.v, hi); err != nil {
			return err
		}
		if h := max(height(n.l), height(n.r)) + 1; n.h != h {
			return errors.AssertionFailedf("node %v stores height %d, want %d", n.v, n.h, h)
		}
		if d := n.balance(); d < -1 || d > 1 {
			return errors.AssertionFailedf("node %v has balance %d", n.v, d)
		}
		return nil
	}
	if err := dfs(u.root, nil, nil, nil); err != nil {
		return err
	}
	if cnt != u.sz {
		return errors.AssertionFailedf("tree holds %d nodes, size is %d", cnt, u.sz)
	}
	return nil
}
