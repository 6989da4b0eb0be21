package index

import "golang.org/x/exp/constraints"

// K 為 harness 與資料流使用的 key 型別
type K = int64

// Index 是兩種有序索引（DSW 樹、skip list）共同的操作集合
type Index[T constraints.Ordered] interface {
	Insert(key T)
	Contains(key T) bool
	Delete(key T) bool
	RangeSearch(low, high T) []T
	Graph() Graph
}

// Analyable 提供分析功能的介面
type Analyable[T constraints.Ordered] interface {
	GetHead() Nodelike[T]
	// GetMaxStats 獲取節點數和目前最高層級
	GetMaxStats() (nodes int, level int)
}

type Nodelike[T constraints.Ordered] interface {
	GetKey() T
	GetLevel() int32
	GetNextAt(level int32) Nodelike[T]
	IsHead() bool
}
