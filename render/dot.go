// Package render 把索引結構的 index.Graph 轉成 Graphviz DOT 文字，
// 交給 dot 指令產生圖片。
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// DOT 以 name 為圖名輸出 digraph；節點 ID 直接當作 DOT 節點名稱
func DOT(g index.Graph, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %s {\n", strconv.Quote(name))
	for _, v := range g.Nodes {
		fmt.Fprintf(&sb, "\tn%d [label=%s];\n", v.ID, strconv.Quote(v.Label))
	}
	for _, e := range g.Edges {
		if e.Label == "" {
			fmt.Fprintf(&sb, "\tn%d -> n%d;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&sb, "\tn%d -> n%d [label=%s];\n", e.From, e.To, strconv.Quote(e.Label))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// WriteDOT 把 DOT 寫到 dir/<name>.dot，回傳檔案路徑
func WriteDOT(dir, name string, g index.Graph) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+".dot")
	if err := os.WriteFile(path, []byte(DOT(g, name)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
