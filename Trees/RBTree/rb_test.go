package RBTree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/biogo/store/llrb"
	"github.com/emirpasic/gods/trees/redblacktree"
	gollrb "github.com/petar/GoLLRB/llrb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tchicherin/tree-visualizer/Trees"
	"github.com/tchicherin/tree-visualizer/Trees/treetest"
)

var rg = rand.New(rand.NewSource(0))

func TestRBTree_Properties(t *testing.T) {
	treetest.Run(t, func() Trees.Tree[int] { return New[int]() })
}

func TestRBTree_Corpus(t *testing.T) {
	treetest.RunCorpus(t, func() Trees.Tree[string] { return New[string]() })
}

func TestRBTree_InsertThree(t *testing.T) {
	tree := New[int]()
	for _, v := range []int{1, 2, 3} {
		tree.Insert(v)
	}
	s := tree.Export()
	require.NotNil(t, s)
	assert.Equal(t, []string{"2"}, s.Keys)
	assert.Equal(t, Trees.Black, s.Tint)
	assert.Equal(t, []string{"1"}, s.Children[0].Keys)
	assert.Equal(t, Trees.Red, s.Children[0].Tint)
	assert.Equal(t, []string{"3"}, s.Children[1].Keys)
	assert.Equal(t, Trees.Red, s.Children[1].Tint)
	assert.Equal(t, 1, tree.BlackHeight())
}

func TestRBTree_RedUncle(t *testing.T) {
	tree := New[int]()
	for _, v := range []int{2, 1, 3, 4} {
		tree.Insert(v)
	}
	// 4 recolors 1 and 3 black, 2 goes red and back to black as the root.
	s := tree.Export()
	assert.Equal(t, Trees.Black, s.Tint)
	assert.Equal(t, Trees.Black, s.Children[0].Tint)
	assert.Equal(t, Trees.Black, s.Children[1].Tint)
	assert.Equal(t, Trees.Red, s.Children[1].Children[1].Tint)
	assert.Equal(t, 2, tree.BlackHeight())
}

func TestRBTree_EraseBlackLeaf(t *testing.T) {
	// every shape of sibling and nephews around a doubly black leaf 10.
	for _, c := range []struct {
		name     string
		ins, pre []int
	}{
		{"inner red nephew", []int{20, 10, 30, 25}, nil},
		{"outer red nephew", []int{20, 10, 30, 35}, nil},
		{"both nephews red", []int{20, 10, 30, 25, 35}, nil},
		{"black nephews", []int{20, 10, 30, 25}, []int{25}},
		{"red sibling", []int{20, 10, 40, 30, 50, 60}, nil},
		{"red parent", []int{40, 20, 60, 10, 30, 50, 70, 5}, []int{5}},
	} {
		tree := New[int]()
		for _, v := range c.ins {
			tree.Insert(v)
		}
		for _, v := range c.pre {
			tree.Erase(v)
		}
		require.NoError(t, tree.CheckInvariant(), c.name)
		n := tree.findNode(10)
		require.NotNil(t, n, c.name)
		require.Equal(t, llrb.Black, n.c, c.name)
		tree.Erase(10)
		if err := tree.CheckInvariant(); err != nil {
			t.Fatalf("%s: %+v", c.name, err)
		}
		assert.False(t, tree.Find(10), c.name)
		assert.Equal(t, uint(len(c.ins)-len(c.pre)-1), tree.Size(), c.name)
	}
}

func TestRBTree_EraseRoot(t *testing.T) {
	tree := New[int]()
	tree.Insert(1)
	tree.Erase(1)
	assert.Nil(t, tree.Export())
	tree.Insert(1)
	tree.Insert(2)
	tree.Erase(1)
	s := tree.Export()
	assert.Equal(t, []string{"2"}, s.Keys)
	assert.Equal(t, Trees.Black, s.Tint)
	assert.True(t, s.Leaf())
}

func TestRBTree_Colors(t *testing.T) {
	tree := New[int]()
	for _, j := range rg.Perm(5000) {
		tree.Insert(j)
	}
	var dfs func(*node[int])
	dfs = func(n *node[int]) {
		if n == nil {
			return
		}
		if n.c == llrb.Red {
			assert.Equal(t, llrb.Black, color(n.kid[left]))
			assert.Equal(t, llrb.Black, color(n.kid[right]))
		}
		dfs(n.kid[left])
		dfs(n.kid[right])
	}
	dfs(tree.root)
	assert.Equal(t, llrb.Black, tree.root.c)
	assert.Positive(t, tree.BlackHeight())
}

func TestRBTree_AgainstLLRB(t *testing.T) {
	tree := New[int]()
	ref := gollrb.New()
	gods := redblacktree.NewWithIntComparator()
	for i := range 30000 {
		b := rg.Intn(3000)
		if rg.Intn(2) == 0 {
			tree.Erase(b)
			ref.Delete(gollrb.Int(b))
			gods.Remove(b)
		} else {
			tree.Insert(b)
			ref.ReplaceOrInsert(gollrb.Int(b))
			gods.Put(b, nil)
		}
		if i%1000 == 0 {
			treetest.Check(t, tree)
		}
	}
	require.EqualValues(t, ref.Len(), tree.Size())
	require.Equal(t, ref.Len(), gods.Size())
	got := treetest.Keys[int](tree)
	i := 0
	ref.AscendGreaterOrEqual(gollrb.Int(math.MinInt), func(item gollrb.Item) bool {
		if int(item.(gollrb.Int)) != got[i] {
			t.Errorf("key %d is %d, want %d", i, got[i], item)
		}
		i++
		return true
	})
	assert.Equal(t, len(got), i, "every key was compared")
}

const (
	size = 1 << 15
)

func BenchmarkRBTree_Insert(b *testing.B) {
	for i := 0; i < b.N; i++ {
		t := New[int]()
		for _, j := range rand.Perm(size) {
			t.Insert(j)
		}
	}
}

func BenchmarkRBTree_Erase(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		t := New[int]()
		for _, j := range rand.Perm(size) {
			t.Insert(j)
		}
		b.StartTimer()
		for j := 0; j < size; j++ {
			t.Erase(j)
		}
	}
}
