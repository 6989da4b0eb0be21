package dsw

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Balance 以 Day–Stout–Warren 演算法把整棵樹調整為最小高度。
// 兩階段皆為 O(n)，只額外使用一個暫時的 pseudo root。
func (t *Tree[K]) Balance() {
	if t.root == nil {
		return
	}
	t.Backbone()

	n := t.Size()
	// 不超過 n 的最大完全二元樹節點數
	m := 1<<(bits.Len(uint(n+1))-1) - 1
	t.compress(n - m)
	for m > 1 {
		m /= 2
		t.compress(m)
	}
}

// Backbone 只做第一階段：以右旋把樹攤平成沿右指標排序的單鏈（vine）
func (t *Tree[K]) Backbone() {
	pseudo := &Node[K]{right: t.root}
	cur := pseudo
	for cur.right != nil {
		if cur.right.left != nil {
			rotateRight(cur)
		} else {
			cur = cur.right
		}
	}
	t.root = pseudo.right
}

// compress 沿著 backbone 每隔一個節點做一次左旋，共 count 次
func (t *Tree[K]) compress(count int) {
	pseudo := &Node[K]{right: t.root}
	cur := pseudo
	for i := 0; i < count; i++ {
		if cur.right == nil || cur.right.right == nil {
			break
		}
		rotateLeft(cur)
		cur = cur.right
	}
	t.root = pseudo.right
}

// rotateRight 把 parent.right 的左子節點提升到 parent.right 的位置
func rotateRight[K constraints.Ordered](parent *Node[K]) {
	child := parent.right
	parent.right = child.left
	child.left = parent.right.right
	parent.right.right = child
}

// rotateLeft 把 parent.right 的右子節點提升上來，原 parent.right 成為其左子節點
func rotateLeft[K constraints.Ordered](parent *Node[K]) {
	if parent.right == nil || parent.right.right == nil {
		return
	}
	child := parent.right
	parent.right = child.right
	child.right = parent.right.left
	parent.right.left = child
}
