// Package treetest holds the property checks every Trees.Tree has to pass.
// Each container's tests call Run with its own constructor.
package treetest

import (
	"math/rand"
	"slices"
	"sort"
	"strconv"
	"testing"

	"github.com/alphadose/haxmap"
	"github.com/cornelk/hashmap"
	"github.com/openacid/testkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tchicherin/tree-visualizer/Trees"
)

const (
	tAddN        = 3000
	tAddValRange = 6000
)

// Keys returns the keys of u in InOrder order.
func Keys[T any](u Trees.Tree[T]) []T {
	var s []T
	u.InOrder(func(v T) bool {
		s = append(s, v)
		return true
	})
	return s
}

// Selected returns the labels of every selected node in s.
func Selected(s *Trees.Shape) [][]string {
	var out [][]string
	for _, level := range s.Levels() {
		for _, n := range level {
			if n.Selected {
				out = append(out, n.Keys)
			}
		}
	}
	return out
}

// Check fails t if u breaks its invariant.
func Check[T any](t testing.TB, u Trees.Tree[T]) {
	t.Helper()
	if err := u.CheckInvariant(); err != nil {
		t.Fatalf("invariant broken: %+v", err)
	}
}

func labels(vs []int) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = strconv.Itoa(v)
	}
	return out
}

// Run checks ordering, uniqueness, selection and round trips on trees built by mk.
func Run(t *testing.T, mk func() Trees.Tree[int]) {
	t.Run("Empty", func(t *testing.T) { testEmpty(t, mk()) })
	t.Run("Order", func(t *testing.T) { testOrder(t, mk()) })
	t.Run("Unique", func(t *testing.T) { testUnique(t, mk()) })
	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, mk()) })
	t.Run("Mixed", func(t *testing.T) { testMixed(t, mk()) })
	t.Run("Selection", func(t *testing.T) { testSelection(t, mk()) })
	t.Run("Sequential", func(t *testing.T) { testSequential(t, mk()) })
}

func testEmpty(t *testing.T, u Trees.Tree[int]) {
	assert.Nil(t, u.Export())
	assert.Zero(t, u.Size())
	assert.False(t, u.Find(1))
	u.Erase(1)
	assert.Nil(t, u.Export())
	assert.Empty(t, Keys(u))
	Check(t, u)
	u.Insert(1)
	u.Erase(1)
	assert.Nil(t, u.Export())
	Check(t, u)
}

func testOrder(t *testing.T, u Trees.Tree[int]) {
	rg := rand.New(rand.NewSource(0))
	content := make(map[int]struct{})
	for range tAddN {
		b := rg.Intn(tAddValRange)
		u.Insert(b)
		content[b] = struct{}{}
	}
	Check(t, u)
	want := make([]int, 0, len(content))
	for k := range content {
		want = append(want, k)
	}
	sort.Ints(want)
	got := Keys(u)
	require.Equal(t, want, got)
	require.EqualValues(t, len(want), u.Size())
	assert.Equal(t, labels(want), u.Export().Flatten())
	for _, k := range want {
		if !u.Find(k) {
			t.Errorf("tree does not have key %v", k)
		}
	}
	for range 200 {
		if k := rg.Intn(tAddValRange) + tAddValRange; u.Find(k) {
			t.Errorf("tree has non existent key %v", k)
		}
	}
	// InOrder stops early.
	var prefix []int
	u.InOrder(func(v int) bool {
		prefix = append(prefix, v)
		return len(prefix) < 10
	})
	assert.Equal(t, want[:10], prefix)
}

func testUnique(t *testing.T, u Trees.Tree[int]) {
	rg := rand.New(rand.NewSource(1))
	for range 500 {
		b := rg.Intn(1000)
		if u.Find(b) {
			continue
		}
		u.Insert(b)
		before, sz := u.Export().Sum64(), u.Size()
		u.Insert(b)
		if after := u.Export().Sum64(); after != before || u.Size() != sz {
			t.Fatalf("second insert of %d changed the tree", b)
		}
	}
	Check(t, u)
}

func testRoundTrip(t *testing.T, u Trees.Tree[int]) {
	rg := rand.New(rand.NewSource(2))
	a := rg.Perm(tAddN)
	for _, b := range a {
		u.Insert(b)
	}
	Check(t, u)
	rg.Shuffle(len(a), func(i, j int) { a[i], a[j] = a[j], a[i] })
	for i, b := range a {
		u.Erase(b)
		if u.Find(b) {
			t.Fatalf("erased key %v is still found", b)
		}
		u.Erase(b)
		if i%97 == 0 {
			Check(t, u)
		}
	}
	assert.Zero(t, u.Size())
	assert.Nil(t, u.Export())
	Check(t, u)
}

func testMixed(t *testing.T, u Trees.Tree[int]) {
	rg := rand.New(rand.NewSource(3))
	content := hashmap.New[int, struct{}]()
	for i := range 4000 {
		b := rg.Intn(300)
		switch rg.Intn(3) {
		case 0:
			u.Erase(b)
			content.Del(b)
		case 1:
			_, in := content.Get(b)
			if u.Find(b) != in {
				t.Fatalf("step %d: Find(%d) = %v, want %v", i, b, !in, in)
			}
		default:
			u.Insert(b)
			content.Set(b, struct{}{})
		}
		if uint(content.Len()) != u.Size() {
			t.Fatalf("step %d: size is %d, want %d", i, u.Size(), content.Len())
		}
		Check(t, u)
	}
	for b := range 300 {
		if _, in := content.Get(b); u.Find(b) != in {
			t.Errorf("Find(%d) = %v, want %v", b, !in, in)
		}
	}
	assert.True(t, slices.IsSorted(Keys(u)))
}

func testSelection(t *testing.T, u Trees.Tree[int]) {
	for _, b := range []int{50, 20, 80, 10, 30, 70, 90, 60} {
		u.Insert(b)
	}
	u.Export()
	require.True(t, u.Find(30))
	s := u.Export()
	assert.Equal(t, [][]string{{"30"}}, keysHolding(Selected(s), "30"))
	assert.Empty(t, Selected(u.Export()), "the mark survives an Export")

	require.False(t, u.Find(35))
	assert.Empty(t, Selected(u.Export()))

	u.Insert(35)
	assert.Equal(t, [][]string{{"35"}}, keysHolding(Selected(u.Export()), "35"))

	u.Find(60)
	u.Erase(20)
	assert.Empty(t, Selected(u.Export()))
	Check(t, u)
}

// keysHolding reduces each selected node to the single label k it must hold,
// so multiway nodes compare like binary ones.
func keysHolding(sel [][]string, k string) [][]string {
	out := make([][]string, 0, len(sel))
	for _, ks := range sel {
		if slices.Contains(ks, k) {
			out = append(out, []string{k})
		} else {
			out = append(out, ks)
		}
	}
	return out
}

func testSequential(t *testing.T, u Trees.Tree[int]) {
	for i := range 1024 {
		u.Insert(i)
	}
	Check(t, u)
	for i := 1023; i >= 0; i -= 2 {
		u.Erase(i)
	}
	Check(t, u)
	want := make([]int, 0, 512)
	for i := 0; i < 1024; i += 2 {
		want = append(want, i)
	}
	assert.Equal(t, want, Keys(u))
}

// RunCorpus inserts and erases a word list from testkeys, checking u against
// a plain map.
func RunCorpus(t *testing.T, mk func() Trees.Tree[string]) {
	names := testkeys.AssetNames()
	require.NotEmpty(t, names)
	sort.Strings(names)
	keys := testkeys.Load(names[0])
	if len(keys) > tAddN {
		keys = keys[:tAddN]
	}
	u := mk()
	content := make(map[string]struct{})
	seen := haxmap.New[string, struct{}]()
	for _, k := range keys {
		u.Insert(k)
		content[k] = struct{}{}
		seen.Set(k, struct{}{})
	}
	Check(t, u)
	require.EqualValues(t, len(content), u.Size())
	require.EqualValues(t, seen.Len(), u.Size())
	got := Keys(u)
	assert.True(t, slices.IsSorted(got))
	for i, k := range keys {
		if i%2 == 0 {
			u.Erase(k)
			delete(content, k)
		}
	}
	Check(t, u)
	for k := range content {
		if !u.Find(k) {
			t.Errorf("tree does not have key %q", k)
		}
	}
	require.EqualValues(t, len(content), u.Size())
}
