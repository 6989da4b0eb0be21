package datastream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	randv2 "math/rand/v2"

	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "IDXBENCH"
// uint16   Version: 1
// uint16   Reserved: 0
// uint32   DistCount
// 重複 DistCount 次：
//   int64   Key
//   float64 Weight
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OperationType (0=Query,1=Insert,2=Delete,3=Range)
//   int64   Key
//   int64   High（僅 Range）

var (
	streamMagic   = [8]byte{'I', 'D', 'X', 'B', 'E', 'N', 'C', 'H'}
	streamVersion = uint16(1)
)

// 標頭中的數量不可信，預先配置最多這麼多筆，其餘由 append 成長
const maxPrealloc = 1 << 16

var (
	ErrBadMagic = errors.New("not an IDXBENCH stream")
	ErrVersion  = errors.New("unsupported stream version")
	ErrBadOp    = errors.New("unknown operation type")
)

// StreamFile 是一份操作序列與其 key 分布
type StreamFile struct {
	Dist map[index.K]float64
	Ops  []Operation
}

// WorkloadConfig 描述操作序列的產生方式。
// S = 0 時使用均勻分布，否則為 Zipf(S, V)，需 S > 1 且 V >= 1。
type WorkloadConfig struct {
	N           int     // key 數量
	S, V        float64 // Zipf 參數
	Seed        uint64
	Ops         int     // 操作總數，需 >= N
	Phase1Ratio float64 // 第一階段佔比，第一階段保證每個 key 至少出現一次
	DeleteRatio float64
	RangeRatio  float64
	RangeWidth  index.K // Range 操作為 [key, key+RangeWidth]
	SimpleKey   bool    // true 時 key 為 0..N-1，否則為隨機 uint32
}

func (c WorkloadConfig) validate() error {
	if c.N <= 0 {
		return fmt.Errorf("invalid n: %d", c.N)
	}
	if c.S != 0 && (c.S <= 1.0 || c.V < 1.0) {
		return fmt.Errorf("invalid zipf params: s=%v must >1, v=%v must >=1", c.S, c.V)
	}
	if c.Ops < c.N {
		return fmt.Errorf("ops (%d) must be >= n (%d) to ensure each key appears at least once", c.Ops, c.N)
	}
	phase1 := int(float64(c.Ops) * c.Phase1Ratio)
	if phase1 < c.N || phase1 > c.Ops {
		return fmt.Errorf("phase1Size (%d) must satisfy n <= phase1Size <= ops", phase1)
	}
	if c.DeleteRatio < 0 || c.RangeRatio < 0 || c.DeleteRatio+c.RangeRatio > 1 {
		return fmt.Errorf("deleteRatio (%v) + rangeRatio (%v) must be within [0, 1]", c.DeleteRatio, c.RangeRatio)
	}
	if c.RangeWidth < 0 {
		return fmt.Errorf("invalid range width: %d", c.RangeWidth)
	}
	return nil
}

// GenerateWorkload 依設定產生操作序列。
// 規則：
//   - key 不在表中時一律 Insert
//   - 已在表中時依 DeleteRatio 刪除、依 RangeRatio 做範圍查詢，其餘為 Query
//   - 第一階段先把所有 key 各放一次再補到 phase1 大小後打亂，第二階段直接依分布抽樣
func GenerateWorkload(cfg WorkloadConfig) (*StreamFile, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n := cfg.N
	r := randv2.New(randv2.NewPCG(cfg.Seed, 0))

	// 產生器給出 key 索引 0..n-1 與其機率（Zipf 權重已隨機打亂）
	var gen DataStream
	if cfg.S == 0 {
		gen = NewUniformDataGenerator(n, int64(cfg.Seed))
	} else {
		gen = NewZipfDataGenerator(n, cfg.S, cfg.V-1, int64(cfg.Seed))
	}
	defer gen.Close()

	// 索引 -> key（不重複）
	keys := make([]index.K, n)
	if cfg.SimpleKey {
		for i := range keys {
			keys[i] = index.K(i)
		}
	} else {
		used := make(map[index.K]struct{}, n)
		for i := range keys {
			k := index.K(r.Uint32())
			for _, ok := used[k]; ok; _, ok = used[k] {
				k = index.K(r.Uint32())
			}
			keys[i] = k
			used[k] = struct{}{}
		}
	}

	dist := make(map[index.K]float64, n)
	for i, w := range gen.GetPDF() {
		dist[keys[i]] = w
	}

	phase1Size := int(float64(cfg.Ops) * cfg.Phase1Ratio)
	phase1 := make([]index.K, phase1Size)
	copy(phase1, keys)
	for i := n; i < phase1Size; i++ {
		phase1[i] = keys[gen.Next()]
	}
	r.Shuffle(len(phase1), func(i, j int) { phase1[i], phase1[j] = phase1[j], phase1[i] })

	present := make(map[index.K]bool, n)
	ops := make([]Operation, 0, cfg.Ops)
	emit := func(key index.K) {
		op := Operation{Type: OpInsert, Key: key}
		if !present[key] {
			present[key] = true
			ops = append(ops, op)
			return
		}
		switch p := r.Float64(); {
		case p < cfg.DeleteRatio:
			op.Type = OpDelete
			present[key] = false
		case p < cfg.DeleteRatio+cfg.RangeRatio:
			op.Type = OpRange
			op.High = key + cfg.RangeWidth
		default:
			op.Type = OpQuery
		}
		ops = append(ops, op)
	}

	for _, k := range phase1 {
		emit(k)
	}
	for i := phase1Size; i < cfg.Ops; i++ {
		emit(keys[gen.Next()])
	}
	return &StreamFile{Dist: dist, Ops: ops}, nil
}

// WriteStream 以 IDXBENCH 格式輸出；分布以升冪 key 輸出，確保可重現
func WriteStream(w io.Writer, sf *StreamFile) error {
	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	// Header
	if _, err := bw.Write(streamMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, le, streamVersion); err != nil {
		return err
	}
	if err := binary.Write(bw, le, uint16(0)); err != nil { // reserved
		return err
	}

	keys := make([]index.K, 0, len(sf.Dist))
	for k := range sf.Dist {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	if err := binary.Write(bw, le, uint32(len(keys))); err != nil {
		return err
	}
	for _, k := range keys {
		if err := binary.Write(bw, le, int64(k)); err != nil {
			return err
		}
		if err := binary.Write(bw, le, sf.Dist[k]); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, le, uint64(len(sf.Ops))); err != nil {
		return err
	}
	for i, op := range sf.Ops {
		if op.Type > OpRange {
			return fmt.Errorf("op %d: %w: %d", i, ErrBadOp, op.Type)
		}
		if err := binary.Write(bw, le, uint8(op.Type)); err != nil {
			return err
		}
		if err := binary.Write(bw, le, int64(op.Key)); err != nil {
			return err
		}
		if op.Type == OpRange {
			if err := binary.Write(bw, le, int64(op.High)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ReadStream 讀取 IDXBENCH 格式
func ReadStream(r io.Reader) (*StreamFile, error) {
	br := bufio.NewReader(r)
	le := binary.LittleEndian

	var magic [8]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if magic != streamMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadMagic, magic)
	}
	var ver, reserved uint16
	if err := binary.Read(br, le, &ver); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if ver != streamVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, ver)
	}
	if err := binary.Read(br, le, &reserved); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var distCount uint32
	if err := binary.Read(br, le, &distCount); err != nil {
		return nil, fmt.Errorf("read dist count: %w", err)
	}
	dist := make(map[index.K]float64, min(distCount, maxPrealloc))
	for i := uint32(0); i < distCount; i++ {
		var key int64
		var weight float64
		if err := binary.Read(br, le, &key); err != nil {
			return nil, fmt.Errorf("read dist %d: %w", i, err)
		}
		if err := binary.Read(br, le, &weight); err != nil {
			return nil, fmt.Errorf("read dist %d: %w", i, err)
		}
		dist[index.K(key)] = weight
	}

	var opCount uint64
	if err := binary.Read(br, le, &opCount); err != nil {
		return nil, fmt.Errorf("read op count: %w", err)
	}
	ops := make([]Operation, 0, min(opCount, maxPrealloc))
	for i := uint64(0); i < opCount; i++ {
		var t uint8
		var key int64
		if err := binary.Read(br, le, &t); err != nil {
			return nil, fmt.Errorf("read op %d: %w", i, err)
		}
		if OperationType(t) > OpRange {
			return nil, fmt.Errorf("op %d: %w: %d", i, ErrBadOp, t)
		}
		if err := binary.Read(br, le, &key); err != nil {
			return nil, fmt.Errorf("read op %d: %w", i, err)
		}
		op := Operation{Type: OperationType(t), Key: index.K(key)}
		if op.Type == OpRange {
			var high int64
			if err := binary.Read(br, le, &high); err != nil {
				return nil, fmt.Errorf("read op %d: %w", i, err)
			}
			op.High = index.K(high)
		}
		ops = append(ops, op)
	}
	return &StreamFile{Dist: dist, Ops: ops}, nil
}

func WriteStreamFile(filename string, sf *StreamFile) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := WriteStream(f, sf); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", filename, err)
	}
	return f.Close()
}

func ReadStreamFile(filename string) (*StreamFile, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sf, err := ReadStream(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sf, nil
}

// ToSequenceModel 將 StreamFile 轉為可重播的 SequenceModel
func (sf *StreamFile) ToSequenceModel() *SequenceModel {
	if sf == nil {
		return NewSequenceModelFromOps(nil)
	}
	return NewSequenceModelFromOps(sf.Ops)
}

// Entropy 計算分布的熵（單位：bit）
func (sf *StreamFile) Entropy() float64 {
	return EntropyFromDist(sf.Dist)
}

// EntropyFromDist 計算分布的熵（單位：bit）。
// dist 的 value 應為已正規化的機率；會自動忽略 <= 0 的值。
func EntropyFromDist(dist map[index.K]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
