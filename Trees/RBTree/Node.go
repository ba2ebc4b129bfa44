package RBTree

import (
	"github.com/biogo/store/llrb"
	"golang.org/x/exp/constraints"
)

// child indexes, kid[1-d] is the other side of kid[d].
const (
	left = iota
	right
)

// A node in the RBTree. kid is owned by the node, p points back up and is nil
// at the root. The zero llrb.Color is Red, so new nodes start red.
type node[T constraints.Ordered] struct {
	v   T
	kid [2]*node[T]
	p   *node[T]
	c   llrb.Color
}

// color of n, nil reads as Black.
func color[T constraints.Ordered](n *node[T]) llrb.Color {
	if n == nil {
		return llrb.Black
	}
	return n.c
}

// side of n in its parent. n mustn't be the root.
func (n *node[T]) side() int {
	if n.p.kid[left] == n {
		return left
	}
	return right
}

// extreme follows kid[d] as far as it goes.
func (n *node[T]) extreme(d int) *node[T] {
	for n.kid[d] != nil {
		n = n.kid[d]
	}
	return n
}

// step is the in-order neighbour of n towards d, nil at the end.
func (n *node[T]) step(d int) *node[T] {
	if n.kid[d] != nil {
		return n.kid[d].extreme(1 - d)
	}
	for n.p != nil && n.p.kid[d] == n {
		n = n.p
	}
	return n.p
}
