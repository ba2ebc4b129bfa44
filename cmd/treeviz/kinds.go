package main

import (
	"math/rand"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/tchicherin/tree-visualizer/Trees"
	"github.com/tchicherin/tree-visualizer/Trees/AVLTree"
	"github.com/tchicherin/tree-visualizer/Trees/BTree"
	"github.com/tchicherin/tree-visualizer/Trees/RBTree"
	"github.com/tchicherin/tree-visualizer/Trees/SplayTree"
	"github.com/tchicherin/tree-visualizer/Trees/Treap"
)

// config is what the flags pick: the kind of tree and how to build it.
type config struct {
	kind   string
	factor int
	seed   int64
	seeded bool
	json   bool
}

var kinds = map[string]func(c *config) (Trees.Tree[int], error){
	"avl": func(*config) (Trees.Tree[int], error) { return AVLTree.New[int](), nil },
	"rb":  func(*config) (Trees.Tree[int], error) { return RBTree.New[int](), nil },
	"splay": func(*config) (Trees.Tree[int], error) {
		return SplayTree.New[int](), nil
	},
	"btree": func(c *config) (Trees.Tree[int], error) {
		return BTree.New[int](c.factor)
	},
	"treap": func(c *config) (Trees.Tree[int], error) {
		if !c.seeded {
			return Treap.New[int](nil), nil
		}
		return Treap.New[int](rand.New(rand.NewSource(c.seed))), nil
	},
}

func kindNames() []string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// newTree builds the tree c asks for.
func newTree(c *config) (Trees.Tree[int], error) {
	mk, has := kinds[c.kind]
	if !has {
		return nil, errors.Newf("unknown tree %q, expected one of %v", c.kind, kindNames())
	}
	u, err := mk(c)
	if err != nil {
		return nil, errors.Wrapf(err, "building %v", c.kind)
	}
	return u, nil
}
