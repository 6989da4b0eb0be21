package skiplist

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

func TestSkipListInterface(t *testing.T) {
	var _ index.Index[int] = (*SkipList[int])(nil)
	var _ index.Analyable[int] = (*SkipList[int])(nil)
	var _ index.Nodelike[int] = (*Node[int])(nil)
}

// fixedSource 依序回傳 vals，用完後重頭開始
type fixedSource struct {
	vals []float64
	i    int
}

func (s *fixedSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func newList(t *testing.T, maxLevel int, p float64, opts ...Option) *SkipList[int] {
	t.Helper()
	sl, err := New[int](maxLevel, p, opts...)
	require.NoError(t, err)
	return sl
}

// checkLevels 確認每一層都是下一層的子序列，且 level 0 已排序
func checkLevels(t *testing.T, sl *SkipList[int]) {
	t.Helper()
	base := sl.LevelKeys(0)
	require.True(t, slices.IsSorted(base))
	require.Len(t, base, sl.Len())
	for h := 1; h <= sl.Level(); h++ {
		upper := sl.LevelKeys(h)
		require.NotEmpty(t, upper, "level %d is empty but still active", h)
		lower := sl.LevelKeys(h - 1)
		j := 0
		for _, k := range upper {
			for j < len(lower) && lower[j] != k {
				j++
			}
			require.Less(t, j, len(lower), "key %d at level %d missing below", k, h)
			j++
		}
	}
}

func TestSkipListExample(t *testing.T) {
	sl := newList(t, 4, 0.5, WithSeed(42))
	for _, k := range []int{3, 6, 7, 9, 12, 19, 17, 26, 21} {
		sl.Insert(k)
	}
	require.Equal(t, []int{3, 6, 7, 9, 12, 17, 19, 21, 26}, sl.Keys())
	require.LessOrEqual(t, sl.Level(), 4)

	nd := sl.Search(19)
	require.NotNil(t, nd)
	require.Equal(t, 19, nd.Key())

	require.True(t, sl.Delete(19))
	require.Nil(t, sl.Search(19))
	require.Equal(t, []int{6, 7, 9, 12, 17, 21}, sl.RangeSearch(6, 21))
	checkLevels(t, sl)
}

func TestSkipListEmptyRange(t *testing.T) {
	sl := newList(t, 4, 0.5, WithSeed(1))
	for _, k := range []int{1, 5, 9} {
		sl.Insert(k)
	}
	got := sl.RangeSearch(9, 1)
	require.NotNil(t, got)
	require.Empty(t, got)
	require.Empty(t, sl.RangeSearch(6, 8))
	require.Equal(t, []int{1, 5, 9}, sl.RangeSearch(-100, 100))
}

func TestSkipListInvalidConfig(t *testing.T) {
	for _, tc := range []struct {
		maxLevel int
		p        float64
	}{
		{-1, 0.5},
		{4, 0},
		{4, 1},
		{4, -0.2},
		{4, 1.5},
	} {
		sl, err := New[int](tc.maxLevel, tc.p)
		require.Nil(t, sl)
		require.True(t, errors.Is(err, ErrInvalidConfig), "maxLevel=%d p=%v", tc.maxLevel, tc.p)
	}
}

func TestSkipListZeroMaxLevel(t *testing.T) {
	sl := newList(t, 0, 0.5, WithSeed(3))
	for _, k := range []int{4, 2, 8, 6} {
		sl.Insert(k)
	}
	require.Equal(t, 0, sl.Level())
	require.Equal(t, []int{2, 4, 6, 8}, sl.Keys())
	require.True(t, sl.Delete(2))
	require.Equal(t, []int{4, 6}, sl.RangeSearch(3, 7))
}

func TestRandomLevel(t *testing.T) {
	// 永遠小於 p：一路升到 maxLevel 為止
	sl := newList(t, 5, 0.5, WithSource(&fixedSource{vals: []float64{0.1}}))
	require.Equal(t, 5, sl.randomLevel())

	// 永遠大於 p：停在 level 0
	sl = newList(t, 5, 0.5, WithSource(&fixedSource{vals: []float64{0.9}}))
	require.Equal(t, 0, sl.randomLevel())

	sl = newList(t, 5, 0.5, WithSource(&fixedSource{vals: []float64{0.1, 0.2, 0.7}}))
	require.Equal(t, 2, sl.randomLevel())
}

func TestSkipListLevelShrink(t *testing.T) {
	src := &fixedSource{vals: []float64{0.1}}
	sl := newList(t, 3, 0.5, WithSource(src))
	sl.Insert(10)
	require.Equal(t, 3, sl.Level())
	require.Equal(t, 3, sl.Search(10).Level())

	src.vals = []float64{0.9}
	sl.Insert(20)
	require.Equal(t, []int{10}, sl.LevelKeys(3))

	require.True(t, sl.Delete(10))
	require.Equal(t, 0, sl.Level())
	require.Equal(t, []int{20}, sl.Keys())
	require.Empty(t, sl.LevelKeys(1))
}

func TestSkipListDuplicates(t *testing.T) {
	sl := newList(t, 4, 0.5, WithSeed(9))
	for _, k := range []int{5, 3, 5, 7, 5} {
		sl.Insert(k)
	}
	require.Equal(t, []int{5, 5, 5}, sl.RangeSearch(5, 5))
	require.True(t, sl.Delete(5))
	require.Equal(t, []int{3, 5, 5, 7}, sl.Keys())
	require.True(t, sl.Delete(5))
	require.True(t, sl.Delete(5))
	require.False(t, sl.Delete(5))
	require.Equal(t, []int{3, 7}, sl.Keys())
	checkLevels(t, sl)
}

func TestSkipListRoundTrip(t *testing.T) {
	sl := newList(t, 6, 0.5, WithSeed(11))
	for _, k := range []int{8, 4, 12, 2, 6} {
		sl.Insert(k)
	}
	before := sl.Keys()
	sl.Insert(7)
	require.True(t, sl.Contains(7))
	require.True(t, sl.Delete(7))
	require.False(t, sl.Contains(7))
	require.Equal(t, before, sl.Keys())
}

func TestSkipListRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sl := newList(t, 8, 0.5, WithSeed(42))
	var model []int

	for i := 0; i < 5000; i++ {
		k := rng.Intn(300)
		switch rng.Intn(4) {
		case 0:
			idx := slices.Index(model, k)
			require.Equal(t, idx >= 0, sl.Delete(k), "delete %d", k)
			if idx >= 0 {
				model = slices.Delete(model, idx, idx+1)
			}
		case 1:
			require.Equal(t, slices.Contains(model, k), sl.Contains(k), "contains %d", k)
		default:
			sl.Insert(k)
			model = append(model, k)
		}
	}

	slices.Sort(model)
	require.Equal(t, model, sl.Keys())
	require.Equal(t, len(model), sl.Len())
	checkLevels(t, sl)

	for i := 0; i < 100; i++ {
		low, high := rng.Intn(320)-10, rng.Intn(320)-10
		want := []int{}
		for _, k := range model {
			if low <= k && k <= high {
				want = append(want, k)
			}
		}
		require.Equal(t, want, sl.RangeSearch(low, high), "range [%d, %d]", low, high)
	}
}

func TestSkipListGraph(t *testing.T) {
	src := &fixedSource{vals: []float64{0.1, 0.9, 0.9, 0.1, 0.9}}
	sl := newList(t, 1, 0.5, WithSource(src))
	// 1 -> level 1，2 -> level 0，3 -> level 1
	sl.Insert(1)
	sl.Insert(2)
	sl.Insert(3)

	g := sl.Graph()
	require.Equal(t, []index.Vertex{
		{ID: 0, Label: "Header"},
		{ID: 1, Label: "1"},
		{ID: 2, Label: "2"},
		{ID: 3, Label: "3"},
	}, g.Nodes)
	require.Equal(t, []index.Edge{
		{From: 0, To: 1, Label: "Level 0"},
		{From: 1, To: 2, Label: "Level 0"},
		{From: 2, To: 3, Label: "Level 0"},
		{From: 0, To: 1, Label: "Level 1"},
		{From: 1, To: 3, Label: "Level 1"},
	}, g.Edges)
}

func TestNodeAccessors(t *testing.T) {
	sl := newList(t, 2, 0.5, WithSource(&fixedSource{vals: []float64{0.9}}))
	sl.Insert(1)
	sl.Insert(2)

	head := sl.GetHead()
	require.True(t, head.IsHead())
	first := head.GetNextAt(0)
	require.Equal(t, 1, first.GetKey())
	require.False(t, first.IsHead())
	require.Equal(t, int32(0), first.GetLevel())
	require.Nil(t, first.GetNextAt(1))
	require.Nil(t, first.GetNextAt(0).GetNextAt(0))

	nodes, level := sl.GetMaxStats()
	require.Equal(t, 2, nodes)
	require.Equal(t, 0, level)
}

func ExampleSkipList_RangeSearch() {
	sl, err := New[int](4, 0.5, WithSeed(7))
	if err != nil {
		panic(err)
	}
	for _, k := range []int{30, 10, 50, 20, 40} {
		sl.Insert(k)
	}
	sl.Delete(40)
	fmt.Println(sl.RangeSearch(15, 45))
	// Output: [20 30]
}
