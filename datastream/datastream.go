package datastream

import (
	"encoding/csv"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// DataStream 定義 key 產生器的介面
type DataStream interface {
	Close() error
	DistributeToCSV(writer *csv.Writer) error
	Next() int
	GetKeyMap() map[index.K]float64
	GetCDF() []float64
	GetPDF() []float64
	Entropy() float64
}

// OperationType 是 IDXBENCH 檔案中的操作代碼
type OperationType uint8

const (
	OpQuery OperationType = iota
	OpInsert
	OpDelete
	OpRange
)

func (t OperationType) String() string {
	switch t {
	case OpQuery:
		return "Query"
	case OpInsert:
		return "Insert"
	case OpDelete:
		return "Delete"
	case OpRange:
		return "Range"
	default:
		return "Unknown"
	}
}

// Operation 表示一筆操作；只有 OpRange 使用 High，範圍為 [Key, High]
type Operation struct {
	Type OperationType
	Key  index.K
	High index.K
}

// SequenceModel 是一份唯讀的操作序列加上一個游標，Replay 每次從頭讀到尾
type SequenceModel struct {
	ops    []Operation
	cursor int
}

// NewSequenceModelFromOps 複製 ops，之後修改原 slice 不影響模型
func NewSequenceModelFromOps(ops []Operation) *SequenceModel {
	return &SequenceModel{ops: append([]Operation(nil), ops...)}
}

// Next 讀取游標所在的操作；讀完時 ok 為 false
func (m *SequenceModel) Next() (op Operation, ok bool) {
	if m.Remaining() == 0 {
		return op, false
	}
	op = m.ops[m.cursor]
	m.cursor++
	return op, true
}

// NextN 一次讀取至多 n 筆
func (m *SequenceModel) NextN(n int) []Operation {
	n = min(n, m.Remaining())
	if n <= 0 {
		return nil
	}
	batch := append([]Operation(nil), m.ops[m.cursor:m.cursor+n]...)
	m.cursor += n
	return batch
}

func (m *SequenceModel) Remaining() int { return len(m.ops) - m.cursor }

func (m *SequenceModel) Len() int { return len(m.ops) }

func (m *SequenceModel) Reset() { m.cursor = 0 }
