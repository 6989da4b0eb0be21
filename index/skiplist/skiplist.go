package skiplist

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/exp/constraints"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// ErrInvalidConfig 表示 maxLevel 或 p 不合法
var ErrInvalidConfig = errors.New("invalid skip list config")

// Source 為 level 抽樣使用的亂數來源，*rand.Rand 即符合
type Source interface {
	Float64() float64
}

type options struct {
	src Source
}

type Option func(*options)

// WithSource 指定亂數來源（測試時可注入固定序列）
func WithSource(src Source) Option {
	return func(o *options) { o.src = src }
}

// WithSeed 以固定 seed 建立 math/rand 來源
func WithSeed(seed int64) Option {
	return func(o *options) { o.src = rand.New(rand.NewSource(seed)) }
}

// Node 為 skip list 節點，外部只能讀取
type Node[K constraints.Ordered] struct {
	key  K
	next []*Node[K]
	head bool
}

// SkipList 為機率式平衡的多層鏈結索引。
//
// 相同 key 可重複插入，新節點會放在既有相同 key 之前；Delete 每次移除最前面的一個。
//
// SkipList is not safe for concurrent use by multiple goroutines. If multiple goroutines
// access a list concurrently, and at least one of them modifies it, it must be
// synchronized externally.
type SkipList[K constraints.Ordered] struct {
	head     *Node[K]
	level    int // 目前使用中的最高層
	maxLevel int
	p        float64
	rand     Source
	size     int
}

func New[K constraints.Ordered](maxLevel int, p float64, opts ...Option) (*SkipList[K], error) {
	if maxLevel < 0 {
		return nil, fmt.Errorf("%w: max level %d < 0", ErrInvalidConfig, maxLevel)
	}
	if !(p > 0 && p < 1) {
		return nil, fmt.Errorf("%w: probability %v not in (0,1)", ErrInvalidConfig, p)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.src == nil {
		o.src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SkipList[K]{
		head:     &Node[K]{next: make([]*Node[K], maxLevel+1), head: true},
		maxLevel: maxLevel,
		p:        p,
		rand:     o.src,
	}, nil
}

func (sl *SkipList[K]) randomLevel() int {
	lvl := 0
	for sl.rand.Float64() < sl.p && lvl < sl.maxLevel {
		lvl++
	}
	return lvl
}

// findPredecessors 由最高層往下走，回傳每層最後一個 key < key 的節點
func (sl *SkipList[K]) findPredecessors(key K, update []*Node[K]) *Node[K] {
	cur := sl.head
	for h := sl.level; h >= 0; h-- {
		for cur.next[h] != nil && cur.next[h].key < key {
			cur = cur.next[h]
		}
		if update != nil {
			update[h] = cur
		}
	}
	return cur
}

func (sl *SkipList[K]) Insert(key K) {
	update := make([]*Node[K], sl.maxLevel+1)
	sl.findPredecessors(key, update)

	lvl := sl.randomLevel()
	if lvl > sl.level {
		for h := sl.level + 1; h <= lvl; h++ {
			update[h] = sl.head
		}
		sl.level = lvl
	}

	nd := &Node[K]{key: key, next: make([]*Node[K], lvl+1)}
	for h := 0; h <= lvl; h++ {
		nd.next[h] = update[h].next[h]
		update[h].next[h] = nd
	}
	sl.size++
}

// Search 回傳第一個 key 相等的節點，找不到回傳 nil
func (sl *SkipList[K]) Search(key K) *Node[K] {
	cur := sl.findPredecessors(key, nil).next[0]
	if cur != nil && cur.key == key {
		return cur
	}
	return nil
}

func (sl *SkipList[K]) Contains(key K) bool {
	return sl.Search(key) != nil
}

// Delete 移除一個 key 相等的節點，key 不存在時回傳 false
func (sl *SkipList[K]) Delete(key K) bool {
	update := make([]*Node[K], sl.maxLevel+1)
	cur := sl.findPredecessors(key, update).next[0]
	if cur == nil || cur.key != key {
		return false
	}

	for h := 0; h <= sl.level; h++ {
		// 前驅已不指向目標，代表目標不在更高層
		if update[h].next[h] != cur {
			break
		}
		update[h].next[h] = cur.next[h]
	}
	for sl.level > 0 && sl.head.next[sl.level] == nil {
		sl.level--
	}
	sl.size--
	return true
}

// RangeSearch 以多層捷徑找到 low 的前驅，再沿 level 0 收集到 high 為止，結果為升冪
func (sl *SkipList[K]) RangeSearch(low, high K) []K {
	out := []K{}
	if low > high {
		return out
	}
	cur := sl.findPredecessors(low, nil).next[0]
	for cur != nil && cur.key <= high {
		out = append(out, cur.key)
		cur = cur.next[0]
	}
	return out
}

func (sl *SkipList[K]) Len() int { return sl.size }

// Level 回傳目前使用中的最高層（空串列為 0）
func (sl *SkipList[K]) Level() int { return sl.level }

func (sl *SkipList[K]) MaxLevel() int { return sl.maxLevel }

func (sl *SkipList[K]) P() float64 { return sl.p }

// Keys 回傳 level 0 上的全部 key（升冪）
func (sl *SkipList[K]) Keys() []K {
	return sl.LevelKeys(0)
}

// LevelKeys 回傳指定層可到達的 key；超出目前層級回傳空切片
func (sl *SkipList[K]) LevelKeys(level int) []K {
	out := []K{}
	if level < 0 || level > sl.level {
		return out
	}
	for cur := sl.head.next[level]; cur != nil; cur = cur.next[level] {
		out = append(out, cur.key)
	}
	return out
}

// Graph 以 header 為節點 0，資料節點依 level 0 位置編號，每個 forward link 一條邊
func (sl *SkipList[K]) Graph() index.Graph {
	var g index.Graph
	ids := map[*Node[K]]int{sl.head: g.AddNode("Header")}
	for cur := sl.head.next[0]; cur != nil; cur = cur.next[0] {
		ids[cur] = g.AddNode(index.KeyLabel(cur.key))
	}
	for h := 0; h <= sl.level; h++ {
		for cur := sl.head; cur.next[h] != nil; cur = cur.next[h] {
			g.AddEdge(ids[cur], ids[cur.next[h]], fmt.Sprintf("Level %d", h))
		}
	}
	return g
}

func (sl *SkipList[K]) GetHead() index.Nodelike[K] {
	return sl.head
}

func (sl *SkipList[K]) GetMaxStats() (int, int) {
	return sl.size, sl.level
}

func (nd *Node[K]) Key() K { return nd.key }

// Level 回傳節點所在的最高層
func (nd *Node[K]) Level() int { return len(nd.next) - 1 }

// Next 回傳指定層的下一個節點
func (nd *Node[K]) Next(level int) *Node[K] {
	if level < 0 || level >= len(nd.next) {
		return nil
	}
	return nd.next[level]
}

func (nd *Node[K]) GetKey() K {
	return nd.key
}

func (nd *Node[K]) GetLevel() int32 {
	return int32(len(nd.next) - 1)
}

func (nd *Node[K]) GetNextAt(level int32) index.Nodelike[K] {
	if level < 0 || level >= int32(len(nd.next)) {
		return nil
	}
	if nd.next[level] == nil {
		return nil
	}
	return nd.next[level]
}

func (nd *Node[K]) IsHead() bool {
	return nd.head
}
