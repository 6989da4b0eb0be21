package dsw

import (
	"golang.org/x/exp/constraints"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// Node 為樹節點，外部只能讀取
type Node[K constraints.Ordered] struct {
	key   K
	left  *Node[K]
	right *Node[K]
}

func (n *Node[K]) Key() K { return n.key }

func (n *Node[K]) Left() *Node[K] { return n.left }

func (n *Node[K]) Right() *Node[K] { return n.right }

// Tree 是不自動平衡的二元搜尋樹，平衡只在呼叫 Balance 時以 DSW 一次完成。
//
// 相同的 key 一律往右子樹放，因此可以存放重複 key。
//
// Tree is not safe for concurrent use by multiple goroutines. If multiple goroutines
// access a tree concurrently, and at least one of them modifies the tree, it must be
// synchronized externally.
type Tree[K constraints.Ordered] struct {
	root *Node[K]
}

func New[K constraints.Ordered]() *Tree[K] {
	return &Tree[K]{}
}

func (t *Tree[K]) Root() *Node[K] {
	return t.root
}

// Insert 小於往左，大於等於往右，直到空位
func (t *Tree[K]) Insert(key K) {
	nd := &Node[K]{key: key}
	if t.root == nil {
		t.root = nd
		return
	}
	cur := t.root
	for {
		if key < cur.key {
			if cur.left == nil {
				cur.left = nd
				return
			}
			cur = cur.left
		} else {
			if cur.right == nil {
				cur.right = nd
				return
			}
			cur = cur.right
		}
	}
}

// Search 回傳第一個 key 相等的節點，找不到回傳 nil
func (t *Tree[K]) Search(key K) *Node[K] {
	cur := t.root
	for cur != nil {
		switch {
		case key == cur.key:
			return cur
		case key < cur.key:
			cur = cur.left
		default:
			cur = cur.right
		}
	}
	return nil
}

func (t *Tree[K]) Contains(key K) bool {
	return t.Search(key) != nil
}

// Delete 刪除一個 key 相等的節點；key 不存在時樹不變並回傳 false
func (t *Tree[K]) Delete(key K) bool {
	var removed bool
	t.root = deleteRec(t.root, key, &removed)
	return removed
}

func deleteRec[K constraints.Ordered](nd *Node[K], key K, removed *bool) *Node[K] {
	if nd == nil {
		return nil
	}
	switch {
	case key < nd.key:
		nd.left = deleteRec(nd.left, key, removed)
		return nd
	case key > nd.key:
		nd.right = deleteRec(nd.right, key, removed)
		return nd
	}

	// 葉節點或單一子節點：直接把子節點接上來
	if nd.left == nil {
		*removed = true
		return nd.right
	}
	if nd.right == nil {
		*removed = true
		return nd.left
	}

	// 兩個子節點：以右子樹最小值（中序後繼）取代，再從右子樹刪掉它
	succ := minNode(nd.right)
	nd.key = succ.key
	nd.right = deleteRec(nd.right, succ.key, removed)
	return nd
}

func minNode[K constraints.Ordered](nd *Node[K]) *Node[K] {
	for nd.left != nil {
		nd = nd.left
	}
	return nd
}

// RangeSearch 回傳 [low, high] 內的 key，順序為前序走訪順序（未排序）。
func (t *Tree[K]) RangeSearch(low, high K) []K {
	out := []K{}
	if low > high {
		return out
	}
	rangeRec(t.root, low, high, &out)
	return out
}

func rangeRec[K constraints.Ordered](nd *Node[K], low, high K, out *[]K) {
	if nd == nil {
		return
	}
	if low <= nd.key && nd.key <= high {
		*out = append(*out, nd.key)
	}
	// 重複 key 往右放，且平衡後可能被旋轉到左子樹，所以邊界相等時兩側都要走
	if nd.key >= low {
		rangeRec(nd.left, low, high, out)
	}
	if nd.key <= high {
		rangeRec(nd.right, low, high, out)
	}
}

// Size 走訪整棵樹計算節點數，O(n)
func (t *Tree[K]) Size() int {
	return countNodes(t.root)
}

func countNodes[K constraints.Ordered](nd *Node[K]) int {
	if nd == nil {
		return 0
	}
	return 1 + countNodes(nd.left) + countNodes(nd.right)
}

// Height 空樹為 0，單一節點為 1
func (t *Tree[K]) Height() int {
	return height(t.root)
}

func height[K constraints.Ordered](nd *Node[K]) int {
	if nd == nil {
		return 0
	}
	return 1 + max(height(nd.left), height(nd.right))
}

// InOrder 中序走訪，結果為非遞減序列
func (t *Tree[K]) InOrder() []K {
	out := make([]K, 0)
	var walk func(nd *Node[K])
	walk = func(nd *Node[K]) {
		if nd == nil {
			return
		}
		walk(nd.left)
		out = append(out, nd.key)
		walk(nd.right)
	}
	walk(t.root)
	return out
}

// Graph 以前序編號輸出節點與 parent -> child 邊，不修改樹
func (t *Tree[K]) Graph() index.Graph {
	var g index.Graph
	var walk func(nd *Node[K]) int
	walk = func(nd *Node[K]) int {
		id := g.AddNode(index.KeyLabel(nd.key))
		if nd.left != nil {
			g.AddEdge(id, walk(nd.left), "L")
		}
		if nd.right != nil {
			g.AddEdge(id, walk(nd.right), "R")
		}
		return id
	}
	if t.root != nil {
		walk(t.root)
	}
	return g
}
