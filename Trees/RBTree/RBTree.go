// Package RBTree implements a red-black binary search tree.
package RBTree

import (
	"github.com/biogo/store/llrb"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/tchicherin/tree-visualizer/Trees"
	"golang.org/x/exp/constraints"
)

var log = Trees.Log.WithField("tree", "rb")

// RBTree colors every node red or black so that the root is black, no red
// node has a red child, and every path from a node down to a nil child passes
// the same number of black nodes. The height D is at most 2*log2(n+1).
// The zero value is an empty tree ready to use.
type RBTree[T constraints.Ordered] struct {
	root, sel *node[T]
	sz        uint
}

var _ Trees.Tree[int] = (*RBTree[int])(nil)

func New[T constraints.Ordered]() *RBTree[T] {
	return &RBTree[T]{}
}

// replace x by y in the parent of x, or at the root.
func (u *RBTree[T]) replace(x, y *node[T]) {
	if x.p == nil {
		u.root = y
	} else {
		x.p.kid[x.side()] = y
	}
	if y != nil {
		y.p = x.p
	}
}

// rotate x towards d: x.kid[1-d] takes the place of x and x becomes its kid[d].
// rotate(x, left) is the usual left rotation. Returns the lifted node.
// Time: O(1)
func (u *RBTree[T]) rotate(x *node[T], d int) *node[T] {
	y := x.kid[1-d]
	beta := y.kid[d]
	u.replace(x, y)
	y.kid[d], x.p = x, y
	x.kid[1-d] = beta
	if beta != nil {
		beta.p = x
	}
	if Trees.Debugging() {
		log.WithFields(logrus.Fields{"op": "rotate", "pivot": x.v, "lifted": y.v, "left": d == left}).Debug("rotate")
	}
	return y
}

func (u *RBTree[T]) findNode(v T) *node[T] {
	for cur := u.root; cur != nil; {
		if v < cur.v {
			cur = cur.kid[left]
		} else if v == cur.v {
			return cur
		} else {
			cur = cur.kid[right]
		}
	}
	return nil
}

// Insert [Trees.Tree.Insert]
// Time: O(D)
func (u *RBTree[T]) Insert(v T) {
	var par *node[T]
	d := left
	for cur := u.root; cur != nil; cur = cur.kid[d] {
		par = cur
		if v < cur.v {
			d = left
		} else if v == cur.v {
			u.sel = cur
			return
		} else {
			d = right
		}
	}
	n := &node[T]{v: v, p: par}
	if par == nil {
		u.root = n
	} else {
		par.kid[d] = n
	}
	u.sz++
	u.sel = n
	u.rebalanceInsert(n)
}

// rebalanceInsert removes the red-red violation a new red node n might cause.
// A red uncle pushes the violation two levels up by recoloring, a black uncle
// ends it with one single or double rotation at the grandparent.
func (u *RBTree[T]) rebalanceInsert(n *node[T]) {
	for {
		if n.p == nil {
			n.c = llrb.Black
			return
		}
		p := n.p
		if p.c == llrb.Black {
			return
		}
		g := p.p // p is red, so it isn't the root.
		ps := p.side()
		if uncle := g.kid[1-ps]; color(uncle) == llrb.Red {
			p.c, uncle.c, g.c = llrb.Black, llrb.Black, llrb.Red
			if Trees.Debugging() {
				log.WithFields(logrus.Fields{"op": "recolor", "grandparent": g.v}).Debug("red uncle")
			}
			n = g
			continue
		}
		if n.side() != ps {
			u.rotate(p, ps)
			p = n
		}
		u.rotate(g, 1-ps)
		p.c, g.c = llrb.Black, llrb.Red
		return
	}
}

// Erase [Trees.Tree.Erase]. A node with a left subtree swaps keys with its
// predecessor, otherwise one with a right subtree swaps with its successor;
// the swapped node, having at most one child, is removed.
// Time: O(D)
func (u *RBTree[T]) Erase(v T) {
	n := u.findNode(v)
	if n == nil {
		return
	}
	u.sel = nil
	if n.kid[left] != nil {
		m := n.kid[left].extreme(right)
		n.v, m.v = m.v, n.v
		n = m
	} else if n.kid[right] != nil {
		m := n.kid[right].extreme(left)
		n.v, m.v = m.v, n.v
		n = m
	}
	u.rebalanceErase(n)
	u.detach(n)
	u.sz--
}

// detach n from its parent if it is still linked there.
func (u *RBTree[T]) detach(n *node[T]) {
	if n.p == nil {
		if u.root == n {
			u.root = nil
		}
	} else if n.p.kid[left] == n {
		n.p.kid[left] = nil
	} else if n.p.kid[right] == n {
		n.p.kid[right] = nil
	}
	n.p = nil
}

// rebalanceErase prepares n, which has at most one child, for removal.
// A red node or one with a child is spliced out here with its child turning
// black. A black leaf leaves its path one black short; the fix up treats it as
// doubly black and walks up until a rotation or a red node absorbs the debt.
func (u *RBTree[T]) rebalanceErase(n *node[T]) {
	if n.c == llrb.Red || n.kid[left] != nil || n.kid[right] != nil {
		c := n.kid[left]
		if c == nil {
			c = n.kid[right]
		}
		if c != nil {
			u.replace(n, c)
			c.c = llrb.Black
			n.kid = [2]*node[T]{}
		}
		return
	}
	x := n
	for x.p != nil && x.c == llrb.Black {
		p := x.p
		d := x.side()
		w := p.kid[1-d] // x is black, so its sibling exists.
		if w.c == llrb.Red {
			w.c, p.c = llrb.Black, llrb.Red
			u.rotate(p, d)
			w = p.kid[1-d]
		}
		if color(w.kid[left]) == llrb.Black && color(w.kid[right]) == llrb.Black {
			w.c = llrb.Red
			x = p
			continue
		}
		if color(w.kid[1-d]) == llrb.Black {
			w.kid[d].c, w.c = llrb.Black, llrb.Red
			w = u.rotate(w, 1-d)
		}
		w.c, p.c = p.c, llrb.Black
		w.kid[1-d].c = llrb.Black
		u.rotate(p, d)
		if Trees.Debugging() {
			log.WithFields(logrus.Fields{"op": "rebalanceErase", "parent": p.v}).Debug("red nephew")
		}
		x = u.root
	}
	x.c = llrb.Black
}

// Find [Trees.Tree.Find]
// Time: O(D)
func (u *RBTree[T]) Find(v T) bool {
	u.sel = u.findNode(v)
	return u.sel != nil
}

// Size [Trees.Tree.Size]
func (u *RBTree[T]) Size() uint {
	return u.sz
}

// InOrder [Trees.Tree.InOrder]
func (u *RBTree[T]) InOrder(f func(T) bool) {
	if u.root == nil {
		return
	}
	for cur := u.root.extreme(left); cur != nil && f(cur.v); cur = cur.step(right) {
	}
}

// Export [Trees.Tree.Export]. Nodes are tinted with their color.
func (u *RBTree[T]) Export() *Trees.Shape {
	var dfs func(*node[T]) *Trees.Shape
	dfs = func(n *node[T]) *Trees.Shape {
		if n == nil {
			return nil
		}
		s := &Trees.Shape{
			Keys:     []string{Trees.Label(n.v)},
			Selected: n == u.sel,
			Tint:     Trees.Red,
			Children: []*Trees.Shape{dfs(n.kid[left]), dfs(n.kid[right])},
		}
		if n.c == llrb.Black {
			s.Tint = Trees.Black
		}
		return s
	}
	s := dfs(u.root)
	u.sel = nil
	return s
}

// blackHeight returns the number of black nodes on every path from n to a nil
// child, or -1 with the reason if the subtree under n is broken. Recursive.
func (u *RBTree[T]) blackHeight(n *node[T], lo, hi *T, cnt *uint) (int, error) {
	if n == nil {
		return 0, nil
	}
	*cnt++
	if n.p != nil && n.p.kid[n.side()] != n {
		return -1, errors.AssertionFailedf("node %v has a stale parent link", n.v)
	}
	if n.c == llrb.Red && color(n.p) == llrb.Red {
		return -1, errors.AssertionFailedf("red node %v has a red parent %v", n.v, n.p.v)
	}
	if (lo != nil && n.v <= *lo) || (hi != nil && n.v >= *hi) {
		return -1, errors.AssertionFailedf("node %v is out of order", n.v)
	}
	for _, k := range n.kid {
		if k != nil && k.p != n {
			return -1, errors.AssertionFailedf("child %v of %v points to another parent", k.v, n.v)
		}
	}
	l, err := u.blackHeight(n.kid[left], lo, &n.v, cnt)
	if err != nil {
		return -1, err
	}
	r, err := u.blackHeight(n.kid[right], &n.v, hi, cnt)
	if err != nil {
		return -1, err
	}
	if l != r {
		return -1, errors.AssertionFailedf("node %v has black heights %d and %d", n.v, l, r)
	}
	if n.c == llrb.Black {
		l++
	}
	return l, nil
}

// CheckInvariant [Trees.Tree.CheckInvariant]
func (u *RBTree[T]) CheckInvariant() error {
	if u.root != nil && (u.root.c != llrb.Black || u.root.p != nil) {
		return errors.AssertionFailedf("root %v is red or has a parent", u.root.v)
	}
	var cnt uint
	if _, err := u.blackHeight(u.root, nil, nil, &cnt); err != nil {
		return err
	}
	if cnt != u.sz {
		return errors.AssertionFailedf("tree holds %d nodes, size is %d", cnt, u.sz)
	}
	return nil
}

// BlackHeight of the tree, -1 if it is broken.
func (u *RBTree[T]) BlackHeight() int {
	var cnt uint
	h, _ := u.blackHeight(u.root, nil, nil, &cnt)
	return h
}
