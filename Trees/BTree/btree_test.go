package BTree

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	godsbtree "github.com/emirpasic/gods/trees/btree"
	"github.com/google/btree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tchicherin/tree-visualizer/Trees"
	"github.com/tchicherin/tree-visualizer/Trees/treetest"
)

var rg = rand.New(rand.NewSource(0))

var factors = []int{2, 3, 5}

func TestBTree_Properties(t *testing.T) {
	for _, f := range factors {
		t.Run(fmt.Sprintf("t=%d", f), func(t *testing.T) {
			treetest.Run(t, func() Trees.Tree[int] { return MustNew[int](f) })
		})
	}
}

func TestBTree_Corpus(t *testing.T) {
	for _, f := range factors {
		t.Run(fmt.Sprintf("t=%d", f), func(t *testing.T) {
			treetest.RunCorpus(t, func() Trees.Tree[string] { return MustNew[string](f) })
		})
	}
}

func TestBTree_Factor(t *testing.T) {
	for _, f := range []int{-1, 0, 1} {
		u, err := New[int](f)
		assert.Nil(t, u)
		assert.True(t, errors.Is(err, ErrFactor), "factor %d", f)
		assert.Panics(t, func() { MustNew[int](f) })
	}
	u, err := New[int](DefaultFactor)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Factor())
	// the zero value has no factor; it refuses to grow.
	var z BTree[int]
	assert.True(t, errors.Is(z.CheckInvariant(), ErrFactor))
	for _, op := range []func(int){z.Insert, z.Erase} {
		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				assert.True(t, errors.Is(err, ErrFactor))
			}()
			op(1)
		}()
	}
	assert.False(t, z.Find(1))
	assert.Nil(t, z.Export())
}

func keys(s *Trees.Shape) []string {
	if s == nil {
		return nil
	}
	return s.Keys
}

func TestBTree_Split(t *testing.T) {
	u := MustNew[int](2)
	for _, v := range []int{1, 2, 3} {
		u.Insert(v)
	}
	s := u.Export()
	assert.Equal(t, []string{"1", "2", "3"}, s.Keys)
	assert.True(t, s.Leaf())
	assert.Len(t, s.Children, 4)

	u.Insert(4)
	s = u.Export()
	assert.Equal(t, []string{"2"}, s.Keys)
	require.Len(t, s.Children, 2)
	assert.Equal(t, []string{"1"}, keys(s.Children[0]))
	assert.Equal(t, []string{"3", "4"}, keys(s.Children[1]))

	u.Insert(5)
	s = u.Export()
	assert.Equal(t, []string{"2"}, s.Keys)
	assert.Equal(t, []string{"1"}, keys(s.Children[0]))
	assert.Equal(t, []string{"3", "4", "5"}, keys(s.Children[1]))
	assert.Equal(t, 2, u.Height())
	treetest.Check(t, u)
}

func TestBTree_Erase(t *testing.T) {
	u := MustNew[int](2)
	for v := 1; v <= 5; v++ {
		u.Insert(v)
	}
	// 2 sits in the root, the successor 3 takes its place.
	u.Erase(2)
	s := u.Export()
	assert.Equal(t, []string{"3"}, s.Keys)
	assert.Equal(t, []string{"1"}, keys(s.Children[0]))
	assert.Equal(t, []string{"4", "5"}, keys(s.Children[1]))

	u.Erase(3)
	s = u.Export()
	assert.Equal(t, []string{"4"}, s.Keys)
	assert.Equal(t, []string{"5"}, keys(s.Children[1]))

	// both leaves are minimal, they merge and the root goes away.
	u.Erase(4)
	s = u.Export()
	assert.Equal(t, []string{"1", "5"}, s.Keys)
	assert.True(t, s.Leaf())
	assert.Equal(t, 1, u.Height())
	treetest.Check(t, u)

	before := u.Export().Sum64()
	u.Erase(3)
	assert.Equal(t, before, u.Export().Sum64())
	assert.EqualValues(t, 2, u.Size())
}

func TestBTree_FindSelectsNode(t *testing.T) {
	u := MustNew[int](3)
	for v := range 40 {
		u.Insert(v)
	}
	for _, v := range []int{0, 17, 39} {
		require.True(t, u.Find(v))
		sel := treetest.Selected(u.Export())
		require.Len(t, sel, 1)
		assert.Contains(t, sel[0], Trees.Label(v))
	}
}

func TestBTree_FillBounds(t *testing.T) {
	for _, f := range factors {
		u := MustNew[int](f)
		for _, j := range rg.Perm(5000) {
			u.Insert(j)
		}
		treetest.Check(t, u)
		for _, level := range u.Export().Levels()[1:] {
			for _, n := range level {
				if len(n.Keys) < f-1 || len(n.Keys) > 2*f-1 {
					t.Fatalf("t=%d: node %v is out of bounds", f, n.Keys)
				}
			}
		}
		for j := 0; j < 5000; j += 3 {
			u.Erase(j)
		}
		treetest.Check(t, u)
	}
}

func TestBTree_AgainstGoogle(t *testing.T) {
	for _, f := range factors {
		u := MustNew[int](f)
		ref := btree.NewOrderedG[int](f)
		for i := range 30000 {
			b := rg.Intn(3000)
			if rg.Intn(2) == 0 {
				u.Erase(b)
				ref.Delete(b)
			} else {
				u.Insert(b)
				ref.ReplaceOrInsert(b)
			}
			if i%1000 == 0 {
				treetest.Check(t, u)
			}
		}
		require.EqualValues(t, ref.Len(), u.Size())
		got := treetest.Keys[int](u)
		i := 0
		ref.Ascend(func(item int) bool {
			if got[i] != item {
				t.Errorf("t=%d: key %d is %d, want %d", f, i, got[i], item)
			}
			i++
			return true
		})
		for b := range 3000 {
			if u.Find(b) != ref.Has(b) {
				t.Errorf("t=%d: Find(%d) disagrees", f, b)
			}
		}
	}
}

func TestBTree_AgainstGods(t *testing.T) {
	u := MustNew[int](3)
	ref := godsbtree.NewWithIntComparator(6)
	for range 20000 {
		b := rg.Intn(2000)
		if rg.Intn(3) == 0 {
			u.Erase(b)
			ref.Remove(b)
		} else {
			u.Insert(b)
			ref.Put(b, struct{}{})
		}
	}
	treetest.Check(t, u)
	require.EqualValues(t, ref.Size(), u.Size())
	got := treetest.Keys[int](u)
	for i, k := range ref.Keys() {
		assert.Equal(t, k, got[i])
	}
}

const (
	size = 1 << 15
)

func BenchmarkBTree_Insert(b *testing.B) {
	for _, f := range factors {
		b.Run(fmt.Sprintf("t=%d", f), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				t := MustNew[int](f)
				for _, j := range rand.Perm(size) {
					t.Insert(j)
				}
			}
		})
	}
}

func BenchmarkBTree_Erase(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		t := MustNew[int](DefaultFactor)
		for _, j := range rand.Perm(size) {
			t.Insert(j)
		}
		b.StartTimer()
		for j := 0; j < size; j++ {
			t.Erase(j)
		}
	}
}
