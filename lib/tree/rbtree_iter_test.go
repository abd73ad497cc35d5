package tree

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestRBIterator_Traverse(t *testing.T) {
	tree := NewRBTree[int, string]()
	require.True(t, tree.Begin().IsEnd())
	require.True(t, tree.Begin().Equal(tree.End()))
	require.True(t, tree.End().Prev().IsEnd())

	for _, key := range lo.Shuffle(lo.Range(16)) {
		tree.Insert(key, lo.RandomString(4, lo.LowerCaseLettersCharset))
	}

	forward := make([]int, 0, 16)
	for it := tree.Begin(); !it.IsEnd(); it = it.Next() {
		require.True(t, it.Valid())
		forward = append(forward, it.Key())
	}
	require.Equal(t, lo.Range(16), forward)

	backward := make([]int, 0, 16)
	for it := tree.End().Prev(); !it.IsEnd(); it = it.Prev() {
		backward = append(backward, it.Key())
	}
	require.Equal(t, lo.Reverse(lo.Range(16)), backward)

	// end stays at end
	require.True(t, tree.End().Next().IsEnd())
	last, err := tree.Max()
	require.NoError(t, err)
	require.Equal(t, 15, last.Key())
	require.True(t, last.Next().Equal(tree.End()))
	first, err := tree.Min()
	require.NoError(t, err)
	require.Equal(t, 0, first.Key())
	require.True(t, first.Prev().IsEnd())
	require.True(t, first.Equal(tree.Begin()))
}

func TestRBIterator_EndPosition(t *testing.T) {
	tree := NewRBTree[int, int]()
	tree.Insert(1, 10)

	end := tree.End()
	require.False(t, end.Valid())
	require.True(t, end.IsEnd())
	require.Equal(t, 0, end.Key())
	require.Equal(t, 0, end.Val())
	require.Equal(t, Black, end.Color())
	require.ErrorIs(t, end.SetVal(1), ErrInvalidIterator)
	require.True(t, tree.Find(2).Equal(end))
	require.False(t, tree.Find(1).Equal(end))

	var zero RBIterator[int, int]
	require.False(t, zero.Valid())
	require.True(t, zero.IsEnd())
	require.True(t, zero.Next().IsEnd())
	require.True(t, zero.Prev().IsEnd())
	require.False(t, zero.Equal(end))
}

func TestRBIterator_Less(t *testing.T) {
	tree := NewRBTree[int, int]()
	for i := 0; i < 10; i++ {
		tree.Insert(i, i)
	}
	three, seven := tree.Find(3), tree.Find(7)
	require.True(t, three.Less(seven))
	require.False(t, seven.Less(three))
	require.False(t, three.Less(three))
	require.True(t, seven.Less(tree.End()))
	require.False(t, tree.End().Less(seven))
	require.False(t, tree.End().Less(tree.End()))

	desc := NewRBTree[int, int](WithRBTreeDesc[int, int]())
	for i := 0; i < 10; i++ {
		desc.Insert(i, i)
	}
	require.True(t, desc.Find(7).Less(desc.Find(3)))
	require.Equal(t, 9, desc.Begin().Key())
}

func TestRBIterator_SetVal(t *testing.T) {
	tree := NewRBTree[string, int]()
	tree.Insert("a", 1)
	tree.Insert("b", 2)

	it := tree.Find("b")
	require.NoError(t, it.SetVal(20))
	require.Equal(t, 20, it.Val())
	val, ok := tree.Get("b")
	require.True(t, ok)
	require.Equal(t, 20, val)

	_, err := tree.Remove("b")
	require.NoError(t, err)
	require.False(t, it.Valid())
	require.ErrorIs(t, it.SetVal(200), ErrInvalidIterator)
	require.Equal(t, 0, it.Val())
	require.True(t, it.Next().IsEnd())
	require.True(t, it.Prev().IsEnd())
}

func TestRBIterator_EraseWhileWalking(t *testing.T) {
	tree := NewRBTree[int, int](WithRBTreeDebugCheck[int, int]())
	for i := 0; i < 64; i++ {
		tree.Insert(i, i)
	}
	// Erase the odd keys, the next position is looked up by key again
	// because the erase may move keys between nodes.
	for it := tree.Begin(); !it.IsEnd(); {
		key := it.Key()
		if key%2 == 1 {
			erased, err := tree.Erase(it)
			require.NoError(t, err)
			require.True(t, erased)
			it = tree.Find(key + 1)
			continue
		}
		it = it.Next()
	}
	require.Equal(t, lo.Filter(lo.Range(64), func(i int, _ int) bool {
		return i%2 == 0
	}), tree.Keys())
}

func TestRbtree_RangeFunc(t *testing.T) {
	tree := NewRBTree[int, string]()
	for _, key := range []int{5, 3, 8, 1, 4} {
		tree.Insert(key, string(rune('a'+key)))
	}

	keys, vals := make([]int, 0, 5), make([]string, 0, 5)
	for k, v := range tree.All() {
		keys = append(keys, k)
		vals = append(vals, v)
	}
	require.Equal(t, []int{1, 3, 4, 5, 8}, keys)
	require.Equal(t, []string{"b", "d", "e", "f", "i"}, vals)

	keys = keys[:0]
	for k := range tree.Backward() {
		keys = append(keys, k)
	}
	require.Equal(t, []int{8, 5, 4, 3, 1}, keys)

	keys = keys[:0]
	for k := range tree.All() {
		if k > 3 {
			break
		}
		keys = append(keys, k)
	}
	require.Equal(t, []int{1, 3}, keys)

	keys = keys[:0]
	for k := range tree.Backward() {
		if k < 5 {
			break
		}
		keys = append(keys, k)
	}
	require.Equal(t, []int{8, 5}, keys)

	empty := NewRBTree[int, int]()
	for range empty.All() {
		require.FailNow(t, "empty tree yields nothing")
	}
	require.Empty(t, empty.Keys())
}

func TestRbtree_ForeachStop(t *testing.T) {
	tree := NewRBTree[int, int]()
	for i := 0; i < 100; i++ {
		tree.Insert(i, i*i)
	}
	visited := int64(0)
	tree.Foreach(func(idx int64, color RBColor, key int, val int) bool {
		require.Equal(t, idx, int64(key))
		require.Equal(t, key*key, val)
		visited++
		return idx < 41
	})
	require.Equal(t, int64(42), visited)

	empty := NewRBTree[int, int]()
	empty.Foreach(func(idx int64, color RBColor, key int, val int) bool {
		require.FailNow(t, "empty tree visits nothing")
		return true
	})
}
