// Package SplayTree implements a self adjusting binary search tree.
package SplayTree

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/tchicherin/tree-visualizer/Trees"
	"golang.org/x/exp/constraints"
)

var log = Trees.Log.WithField("tree", "splay")

// A node in the SplayTree. l and r are owned, p points back up.
type node[T constraints.Ordered] struct {
	v    T
	l, r *node[T]
	p    *node[T]
}

// SplayTree moves every node it inserts or finds to the root. It keeps no
// balance information; a single operation can take O(n), a sequence of m
// operations takes O(m log n).
// Find restructures the tree, so even lookups are mutations here.
// The zero value is an empty tree ready to use.
type SplayTree[T constraints.Ordered] struct {
	root, sel *node[T]
	sz        uint
}

var _ Trees.Tree[int] = (*SplayTree[int])(nil)

func New[T constraints.Ordered]() *SplayTree[T] {
	return &SplayTree[T]{}
}

// rotateUp exchanges x with its parent, keeping the key order.
// Time: O(1)
func (u *SplayTree[T]) rotateUp(x *node[T]) {
	p := x.p
	g := p.p
	if p.l == x {
		p.l = x.r
		if x.r != nil {
			x.r.p = p
		}
		x.r = p
	} else {
		p.r = x.l
		if x.l != nil {
			x.l.p = p
		}
		x.l = p
	}
	p.p, x.p = x, g
	if g == nil {
		u.root = x
	} else if g.l == p {
		g.l = x
	} else {
		g.r = x
	}
}

// splay x to the root of the tree it is in: zig when the parent is the root,
// zig-zig (parent first) when x and its parent lean the same way, zig-zag
// (x twice) otherwise.
// Time: amortized O(log n)
func (u *SplayTree[T]) splay(x *node[T]) {
	steps := 0
	for x.p != nil {
		p := x.p
		if g := p.p; g == nil {
			u.rotateUp(x)
		} else if (g.l == p) == (p.l == x) {
			u.rotateUp(p)
			u.rotateUp(x)
		} else {
			u.rotateUp(x)
			u.rotateUp(x)
		}
		steps++
	}
	if Trees.Debugging() && steps > 0 {
		log.WithFields(logrus.Fields{"op": "splay", "node": x.v, "steps": steps}).Debug("splay")
	}
}

// findNode returns the node holding v after splaying it to the root, nil if
// there is no such node. A miss doesn't splay.
func (u *SplayTree[T]) findNode(v T) *node[T] {
	for cur := u.root; cur != nil; {
		if v < cur.v {
			cur = cur.l
		} else if v == cur.v {
			u.splay(cur)
			return cur
		} else {
			cur = cur.r
		}
	}
	return nil
}

// Insert [Trees.Tree.Insert]. The new node is splayed, a present key leaves
// the tree as it is.
// Time: amortized O(log n)
func (u *SplayTree[T]) Insert(v T) {
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
	n := &node[T]{v: v, p: par}
	if par == nil {
		u.root = n
	} else if v < par.v {
		par.l = n
	} else {
		par.r = n
	}
	u.sz++
	u.sel = n
	u.splay(n)
}

// merge two detached trees where every key of a is less than every key of b.
// The maximum of a is splayed to the top of a and takes b as its right subtree.
func (u *SplayTree[T]) merge(a, b *node[T]) *node[T] {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	m := a
	for m.r != nil {
		m = m.r
	}
	u.splay(m)
	m.r, b.p = b, m
	return m
}

// Erase [Trees.Tree.Erase]
// Time: amortized O(log n)
func (u *SplayTree[T]) Erase(v T) {
	n := u.findNode(v)
	if n == nil {
		return
	}
	u.sel = nil
	l, r := n.l, n.r
	if l != nil {
		l.p = nil
	}
	if r != nil {
		r.p = nil
	}
	n.l, n.r = nil, nil
	u.root = u.merge(l, r)
	u.sz--
}

// Find [Trees.Tree.Find]. A hit is splayed to the root.
// Time: amortized O(log n)
func (u *SplayTree[T]) Find(v T) bool {
	u.sel = u.findNode(v)
	return u.sel != nil
}

// Root key of the tree, false if it is empty.
func (u *SplayTree[T]) Root() (T, bool) {
	if u.root == nil {
		return *new(T), false
	}
	return u.root.v, true
}

// Size [Trees.Tree.Size]
func (u *SplayTree[T]) Size() uint {
	return u.sz
}

// InOrder [Trees.Tree.InOrder]. Iterative with an explicit stack since the
// depth of a splay tree isn't bounded by log n.
func (u *SplayTree[T]) InOrder(f func(T) bool) {
	var st []*node[T]
	for cur := u.root; cur != nil; cur = cur.l {
		st = append(st, cur)
	}
	for len(st) > 0 {
		cur := st[len(st)-1]
		st = st[:len(st)-1]
		if !f(cur.v) {
			return
		}
		for cur = cur.r; cur != nil; cur = cur.l {
			st = append(st, cur)
		}
	}
}

// Export [Trees.Tree.Export]
func (u *SplayTree[T]) Export() *Trees.Shape {
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

// CheckInvariant [Trees.Tree.CheckInvariant]. A splay tree only promises key
// order; the parent links are checked too.
func (u *SplayTree[T]) CheckInvariant() error {
	if u.root != nil && u.root.p != nil {
		return errors.AssertionFailedf("root %v has a parent", u.root.v)
	}
	var cnt uint
	var prev *node[T]
	var err error
	var st []*node[T]
	for cur := u.root; cur != nil; cur = cur.l {
		st = append(st, cur)
	}
	for len(st) > 0 && err == nil {
		cur := st[len(st)-1]
		st = st[:len(st)-1]
		cnt++
		if prev != nil && prev.v >= cur.v {
			err = errors.AssertionFailedf("node %v follows %v", cur.v, prev.v)
		}
		for _, k := range []*node[T]{cur.l, cur.r} {
			if k != nil && k.p != cur {
				err = errors.AssertionFailedf("child %v of %v points to another parent", k.v, cur.v)
			}
		}
		prev = cur
		for cur = cur.r; cur != nil; cur = cur.l {
			st = append(st, cur)
		}
	}
	if err != nil {
		return err
	}
	if cnt != u.sz {
		return errors.AssertionFailedf("tree holds %d nodes, size is %d", cnt, u.sz)
	}
	return nil
}
