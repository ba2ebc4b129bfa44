// Package Trees holds the contract shared by the ordered containers in its
// subpackages (AVLTree, RBTree, SplayTree, BTree, Treap) and the Shape snapshot
// they export for rendering. The containers share no nodes and no balancing
// code, only this interface.
package Trees

// Tree is an ordered set of keys that can export its current shape.
// Insert and Erase never fail: inserting a present key or erasing an absent
// one does nothing. A Tree isn't safe for concurrent use; callers serialize
// access themselves.
type Tree[T any] interface {
	//Insert v to the Tree. The node holding v is marked for the next Export.
	Insert(v T)
	//Erase v from the Tree. Clears the mark.
	Erase(v T)
	//Find reports whether v is in the Tree and marks its node for the next
	//Export. Implementations may restructure the tree (SplayTree does).
	Find(v T) bool
	//Export a snapshot of the tree and clear the mark. The snapshot doesn't
	//alias the tree. An empty tree exports nil.
	Export() *Shape
	//Size of the tree.
	Size() uint
	//InOrder calls f on every key in ascending order until f returns false.
	//The tree mustn't be modified during the walk.
	InOrder(f func(T) bool)
	//CheckInvariant returns nil if the tree satisfies every property of its
	//balancing scheme, otherwise an error naming the first breach found.
	//It is meant for tests; a non-nil result is always a bug in the tree.
	CheckInvariant() error
}
