package analyTool

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"

	"golang.org/x/exp/constraints"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// StepMap 記錄每個 key 的搜尋步數
type StepMap[K constraints.Ordered] map[K]int

// FindStep 計算找到指定 key 的總步數和各層步數
func FindStep[K constraints.Ordered](sl index.Analyable[K], key K) (step int, level []int) {
	cur := sl.GetHead()
	if cur == nil {
		return 0, []int{}
	}

	_, maxLevel := sl.GetMaxStats()
	stepsPerLevel := make([]int, maxLevel+1)
	total := 0

	for h := maxLevel; h >= 0; h-- {
		levelSteps := 0
		for {
			next := cur.GetNextAt(int32(h))
			if next == nil || next.GetKey() >= key {
				break
			}
			cur = next
			levelSteps++
		}

		// 下一個就是目標，加上最後一步後結束
		if next := cur.GetNextAt(int32(h)); next != nil && next.GetKey() == key {
			levelSteps++
			stepsPerLevel[h] = levelSteps
			return total + levelSteps, stepsPerLevel
		}

		stepsPerLevel[h] = levelSteps
		total += levelSteps + 1 // 往下一層也算一步
	}
	return total, stepsPerLevel
}

// AnalyzeStep 根據 keys 提供的出現機率計算加權平均搜尋步數
func AnalyzeStep[K constraints.Ordered](sl index.Analyable[K], keys map[K]float64) (float64, StepMap[K]) {
	if len(keys) == 0 {
		return 0, nil
	}

	step := StepMap[K]{}
	var expected, prob float64

	var dfs func(nd index.Nodelike[K], level int, steps int)
	dfs = func(nd index.Nodelike[K], level int, steps int) {
		// 第一次抵達節點最高層時就是搜尋它的最短路徑
		if !nd.IsHead() && nd.GetLevel() == int32(level) {
			if w, ok := keys[nd.GetKey()]; ok {
				expected += float64(steps) * w
				prob += w
				step[nd.GetKey()] = steps
			}
		}
		if level > 0 {
			dfs(nd, level-1, steps+1)
		}
		// 比本層高的節點已在上層走訪過
		next := nd.GetNextAt(int32(level))
		if next != nil && next.GetLevel() == int32(level) {
			dfs(next, level, steps+1)
		}
	}

	_, maxLevel := sl.GetMaxStats()
	if head := sl.GetHead(); head != nil {
		dfs(head, maxLevel, 0)
	}

	if prob > 0 {
		return expected / prob, step
	}
	return 0, step
}

// PrintSkipList 逐層印出 skip list，最多 maxLevel 層、maxNodes 個節點
func PrintSkipList[K constraints.Ordered](w io.Writer, sl index.Analyable[K], maxLevel, maxNodes int) {
	head := sl.GetHead()
	if head == nil || head.GetNextAt(0) == nil {
		fmt.Fprintln(w, "Skip list 為空")
		return
	}
	_, actual := sl.GetMaxStats()
	maxLevel = min(maxLevel, actual)

	rows := make([]string, maxLevel+1)
	for i := range rows {
		rows[i] = fmt.Sprintf("level %d : H ", i)
	}

	count := 0
	for nd := head.GetNextAt(0); nd != nil && count < maxNodes; nd = nd.GetNextAt(0) {
		lv := int(nd.GetLevel())
		for i := range rows {
			if i <= lv {
				rows[i] += fmt.Sprintf("->%3v ", nd.GetKey())
			} else {
				rows[i] += "------"
			}
		}
		count++
	}

	for i := maxLevel; i >= 0; i-- {
		fmt.Fprintln(w, rows[i])
	}
}

// PrintSkipListToCSV 每層一列，節點不在該層時留空
func PrintSkipListToCSV[K constraints.Ordered](sl index.Analyable[K], maxLevel, maxNodes int, writer *csv.Writer) error {
	_, actual := sl.GetMaxStats()
	maxLevel = min(maxLevel, actual)

	var nodes []index.Nodelike[K]
	for nd := sl.GetHead().GetNextAt(0); nd != nil && len(nodes) < maxNodes; nd = nd.GetNextAt(0) {
		nodes = append(nodes, nd)
	}

	for i := maxLevel; i >= 0; i-- {
		row := make([]string, 0, len(nodes)+1)
		row = append(row, fmt.Sprintf("level %d", i))
		for _, nd := range nodes {
			if int(nd.GetLevel()) >= i {
				row = append(row, fmt.Sprint(nd.GetKey()))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing level %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// CheckStruct 檢查 skip list 的結構：
// level 0 遞增、節點層級不超過目前層級、每層的 forward pointer 都指向同層下一個節點
func CheckStruct[K constraints.Ordered](sl index.Analyable[K]) error {
	head := sl.GetHead()
	if head == nil {
		return nil
	}
	_, maxLevel := sl.GetMaxStats()

	// last[i] 為第 i 層最近看到的節點
	last := make([]index.Nodelike[K], maxLevel+1)
	for i := range last {
		last[i] = head
	}

	var prev index.Nodelike[K]
	for nd := head.GetNextAt(0); nd != nil; nd = nd.GetNextAt(0) {
		lv := int(nd.GetLevel())
		if lv > maxLevel {
			return fmt.Errorf("node %v has level %d above list level %d", nd.GetKey(), lv, maxLevel)
		}
		if prev != nil && nd.GetKey() < prev.GetKey() {
			return fmt.Errorf("node %v after %v breaks level 0 order", nd.GetKey(), prev.GetKey())
		}
		for i := 1; i <= lv; i++ {
			if got := last[i].GetNextAt(int32(i)); got != nd {
				return fmt.Errorf("level %d: predecessor of %v skips it", i, nd.GetKey())
			}
			last[i] = nd
		}
		prev = nd
	}

	for i := 1; i <= maxLevel; i++ {
		if last[i].GetNextAt(int32(i)) != nil {
			return fmt.Errorf("level %d: tail points past the last node", i)
		}
	}
	return nil
}

// CountLevel 回傳每層的節點數，index 0 為 level 0
func CountLevel[K constraints.Ordered](sl index.Analyable[K]) []int {
	_, maxLevel := sl.GetMaxStats()
	counts := make([]int, maxLevel+1)

	// 略過 head
	for nd := sl.GetHead().GetNextAt(0); nd != nil; nd = nd.GetNextAt(0) {
		for i := 0; i <= int(nd.GetLevel()) && i < len(counts); i++ {
			counts[i]++
		}
	}
	return counts
}

// PrintLevelCount 印出 CountLevel 的結果
func PrintLevelCount[K constraints.Ordered](w io.Writer, sl index.Analyable[K]) {
	nodes, maxLevel := sl.GetMaxStats()
	counts := CountLevel(sl)
	fmt.Fprintf(w, "層級節點統計 (總節點數: %d, 最高層級: %d):\n", nodes, maxLevel)
	for i := maxLevel; i >= 0; i-- {
		fmt.Fprintf(w, "Level %2d: %d 個節點\n", i, counts[i])
	}
}

func (mp StepMap[K]) sortedKeys() []K {
	keys := make([]K, 0, len(mp))
	for k := range mp {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (mp StepMap[K]) Print(w io.Writer) {
	keys := mp.sortedKeys()
	for _, k := range keys {
		fmt.Fprintf(w, "%2v  ", k)
	}
	fmt.Fprintln(w)
	for _, k := range keys {
		fmt.Fprintf(w, "%2d  ", mp[k])
	}
	fmt.Fprintln(w)
}

// PrintToCSV 輸出兩列：key 與對應步數
func (mp StepMap[K]) PrintToCSV(writer *csv.Writer) error {
	keys := mp.sortedKeys()
	keyRow := make([]string, len(keys)+1)
	stepRow := make([]string, len(keys)+1)
	keyRow[0], stepRow[0] = "key", "steps"
	for i, k := range keys {
		keyRow[i+1] = fmt.Sprint(k)
		stepRow[i+1] = fmt.Sprint(mp[k])
	}
	if err := writer.WriteAll([][]string{keyRow, stepRow}); err != nil {
		return fmt.Errorf("writing step map: %w", err)
	}
	return nil
}
