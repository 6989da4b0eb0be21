package analyTool

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/Hakuto4838/OrderedIndex.git/index/dsw"
)

// PrintTree 把樹橫向印出：右子樹在上、左子樹在下，每深一層縮排 4 格
func PrintTree[K constraints.Ordered](w io.Writer, t *dsw.Tree[K]) {
	if t.Root() == nil {
		fmt.Fprintln(w, "Tree 為空")
		return
	}
	var walk func(nd *dsw.Node[K], depth int)
	walk = func(nd *dsw.Node[K], depth int) {
		if nd == nil {
			return
		}
		walk(nd.Right(), depth+1)
		fmt.Fprintf(w, "%s%v\n", strings.Repeat("    ", depth), nd.Key())
		walk(nd.Left(), depth+1)
	}
	walk(t.Root(), 0)
}

// CheckTree 檢查二元搜尋樹性質：左子樹 < 節點 <= 右子樹（平衡後相等 key 可能在左側，故左側允許等於）
func CheckTree[K constraints.Ordered](t *dsw.Tree[K]) error {
	var check func(nd *dsw.Node[K], lo, hi *K) error
	check = func(nd *dsw.Node[K], lo, hi *K) error {
		if nd == nil {
			return nil
		}
		k := nd.Key()
		if lo != nil && k < *lo {
			return fmt.Errorf("node %v below lower bound %v", k, *lo)
		}
		if hi != nil && k > *hi {
			return fmt.Errorf("node %v above upper bound %v", k, *hi)
		}
		if err := check(nd.Left(), lo, &k); err != nil {
			return err
		}
		return check(nd.Right(), &k, hi)
	}
	return check(t.Root(), nil, nil)
}
