package index

import "fmt"

// Vertex 為視覺化輸出中的一個節點
type Vertex struct {
	ID    int
	Label string
}

// Edge 為 parent -> child（或 skip list 的 forward link）
type Edge struct {
	From  int
	To    int
	Label string
}

// Graph 是唯讀走訪的結果，交給外部 renderer 使用
type Graph struct {
	Nodes []Vertex
	Edges []Edge
}

// AddNode 加入節點並回傳其 ID（依加入順序編號）
func (g *Graph) AddNode(label string) int {
	id := len(g.Nodes)
	g.Nodes = append(g.Nodes, Vertex{ID: id, Label: label})
	return id
}

func (g *Graph) AddEdge(from, to int, label string) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Label: label})
}

// KeyLabel 將 key 轉為節點標籤
func KeyLabel[T any](key T) string {
	return fmt.Sprint(key)
}
