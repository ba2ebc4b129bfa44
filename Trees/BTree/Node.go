package BTree

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// A node in the BTree. keys are sorted; kids is nil for a leaf and holds
// len(keys)+1 subtrees otherwise, kids[i] covering the keys between keys[i-1]
// and keys[i].
type node[T constraints.Ordered] struct {
	keys []T
	kids []*node[T]
}

func (n *node[T]) leaf() bool {
	return n.kids == nil
}

// follow returns the position of v in n, or the child to descend into when n
// doesn't hold v.
// Time: O(log t)
func (n *node[T]) follow(v T) (int, bool) {
	return slices.BinarySearch(n.keys, v)
}

// frame is a node and the next key to visit in it.
type frame[T constraints.Ordered] struct {
	n *node[T]
	i int
}
