package AVLTree

import "golang.org/x/exp/constraints"

// A node in the AVLTree. l and r are owned by the node, p only points back up
// and is nil at the root. h is the height of the subtree, 1 for a leaf.
type node[T constraints.Ordered] struct {
	v    T
	l, r *node[T]
	p    *node[T]
	h    int
}

// height of n, 0 for nil.
func height[T constraints.Ordered](n *node[T]) int {
	if n == nil {
		return 0
	}
	return n.h
}

func (n *node[T]) update() {
	n.h = max(height(n.l), height(n.r)) + 1
}

// balance is the height of the left subtree minus the height of the right one.
func (n *node[T]) balance() int {
	return height(n.l) - height(n.r)
}

func leftmost[T constraints.Ordered](n *node[T]) *node[T] {
	for n.l != nil {
		n = n.l
	}
	return n
}

// next is the in-order successor of n through the parent links, nil for the last node.
// Time: amortized O(1)
func (n *node[T]) next() *node[T] {
	if n.r != nil {
		return leftmost(n.r)
	}
	for n.p != nil && n.p.r == n {
		n = n.p
	}
	return n.p
}
