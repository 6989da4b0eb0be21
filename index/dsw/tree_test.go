package dsw

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

func TestTreeInterface(t *testing.T) {
	var _ index.Index[int] = (*Tree[int])(nil)
}

func buildTree(keys ...int) *Tree[int] {
	tr := New[int]()
	for _, k := range keys {
		tr.Insert(k)
	}
	return tr
}

func TestTreeBasic(t *testing.T) {
	tr := buildTree(10, 5, 3, 2, 1, 15, 20)

	nd := tr.Search(15)
	require.NotNil(t, nd)
	require.Equal(t, 15, nd.Key())
	require.Nil(t, tr.Search(99))
	require.False(t, tr.Contains(99))

	require.Equal(t, []int{1, 2, 3, 5, 10, 15, 20}, tr.InOrder())
	require.Equal(t, 7, tr.Size())
	// 10 -> 5 -> 3 -> 2 -> 1 一路往左
	require.Equal(t, 5, tr.Height())
}

func TestTreeEmpty(t *testing.T) {
	tr := New[int]()
	require.Nil(t, tr.Search(1))
	require.False(t, tr.Delete(1))
	require.Empty(t, tr.RangeSearch(0, 10))
	require.Equal(t, 0, tr.Size())
	require.Equal(t, 0, tr.Height())
	require.Empty(t, tr.Graph().Nodes)
}

func TestTreeDuplicatesGoRight(t *testing.T) {
	tr := buildTree(5, 5, 5)
	require.Nil(t, tr.Root().Left())
	require.Equal(t, 5, tr.Root().Right().Key())
	require.Equal(t, 5, tr.Root().Right().Right().Key())
	require.Equal(t, []int{5, 5, 5}, tr.RangeSearch(5, 5))

	require.True(t, tr.Delete(5))
	require.Equal(t, []int{5, 5}, tr.InOrder())
}

func TestTreeDeleteTwoChildren(t *testing.T) {
	tr := buildTree(10, 5, 3, 2, 1, 15, 20)

	require.True(t, tr.Delete(10))
	root := tr.Root()
	require.Equal(t, 15, root.Key())
	// 右子樹原本的 15 節點被移除，20 直接接上
	require.Equal(t, 20, root.Right().Key())
	require.Nil(t, root.Right().Left())
	require.Equal(t, 5, root.Left().Key())
	require.Equal(t, []int{1, 2, 3, 5, 15, 20}, tr.InOrder())
}

func TestTreeDeleteLeafAndOneChild(t *testing.T) {
	tr := buildTree(10, 5, 3, 15)

	require.True(t, tr.Delete(3))
	require.Nil(t, tr.Root().Left().Left())

	tr.Insert(12)
	// 15 只有左子節點 12
	require.True(t, tr.Delete(15))
	require.Equal(t, 12, tr.Root().Right().Key())

	require.False(t, tr.Delete(99))
	require.Equal(t, []int{5, 10, 12}, tr.InOrder())
}

func TestTreeRangeSearch(t *testing.T) {
	tr := buildTree(10, 5, 3, 2, 1, 15, 20)

	got := tr.RangeSearch(3, 15)
	slices.Sort(got)
	require.Equal(t, []int{3, 5, 10, 15}, got)

	require.Empty(t, tr.RangeSearch(11, 14))
	require.Empty(t, tr.RangeSearch(15, 3))
	require.NotNil(t, tr.RangeSearch(15, 3))
}

func TestTreeRoundTrip(t *testing.T) {
	tr := buildTree(8, 4, 12, 2, 6, 10, 14)
	before := tr.InOrder()

	tr.Insert(7)
	require.True(t, tr.Contains(7))
	require.True(t, tr.Delete(7))

	require.Equal(t, before, tr.InOrder())
	require.False(t, tr.Contains(7))
}

func TestTreeRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New[int]()
	var model []int

	for i := 0; i < 3000; i++ {
		k := rng.Intn(200)
		if rng.Intn(3) == 0 {
			idx := slices.Index(model, k)
			require.Equal(t, idx >= 0, tr.Delete(k), "delete %d", k)
			if idx >= 0 {
				model = slices.Delete(model, idx, idx+1)
			}
		} else {
			tr.Insert(k)
			model = append(model, k)
		}
		if i%500 == 0 {
			tr.Balance()
		}
	}

	want := slices.Clone(model)
	slices.Sort(want)
	require.Equal(t, want, tr.InOrder())
	require.Equal(t, len(model), tr.Size())

	for i := 0; i < 100; i++ {
		low, high := rng.Intn(220)-10, rng.Intn(220)-10
		got := tr.RangeSearch(low, high)
		slices.Sort(got)
		require.Equal(t, bruteRange(want, low, high), got, "range [%d, %d]", low, high)
	}
}

func bruteRange(sorted []int, low, high int) []int {
	out := []int{}
	for _, k := range sorted {
		if low <= k && k <= high {
			out = append(out, k)
		}
	}
	return out
}

func TestTreeGraph(t *testing.T) {
	tr := buildTree(10, 5, 15, 3)
	g := tr.Graph()

	require.Len(t, g.Nodes, 4)
	require.Len(t, g.Edges, 3)
	require.Equal(t, "10", g.Nodes[0].Label)
	require.Contains(t, g.Edges, index.Edge{From: 0, To: 1, Label: "L"})
	require.Contains(t, g.Edges, index.Edge{From: 0, To: 3, Label: "R"})
	require.Contains(t, g.Edges, index.Edge{From: 1, To: 2, Label: "L"})

	// 走訪不改變結構
	require.Equal(t, []int{3, 5, 10, 15}, tr.InOrder())
	require.Equal(t, g, tr.Graph())
}
