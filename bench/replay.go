package bench

import (
	"context"
	"math"
	"time"

	"github.com/Hakuto4838/OrderedIndex.git/datastream"
	"github.com/Hakuto4838/OrderedIndex.git/index"
	"github.com/Hakuto4838/OrderedIndex.git/index/analyTool"
)

// ReplayCounts 統計一次重播中各操作的結果
type ReplayCounts struct {
	Hits     int // Query 命中
	Deleted  int // Delete 成功
	RangeHit int // Range 回傳的 key 總數
}

// ReplayStats 是某個實作重播整份操作序列的統計
type ReplayStats struct {
	Impl      string       `yaml:"impl"`
	Runs      int          `yaml:"runs"`
	Ops       int          `yaml:"ops"`
	AvgMs     float64      `yaml:"avg_ms"`
	MinMs     float64      `yaml:"min_ms"`
	MaxMs     float64      `yaml:"max_ms"`
	OpsPerSec float64      `yaml:"ops_per_sec"`
	AvgSteps  float64      `yaml:"avg_steps"` // 只有 skip list 可分析，其餘為 NaN
	Counts    ReplayCounts `yaml:"counts"`
}

// Replay 從頭重播 m 的操作並計時。
// rebalanceEvery > 0 且結構可平衡時，每 rebalanceEvery 次插入呼叫一次 Balance。
func Replay(idx index.Index[index.K], m *datastream.SequenceModel, rebalanceEvery int) (time.Duration, ReplayCounts) {
	var c ReplayCounts
	b, canBalance := idx.(balancer)
	if !canBalance {
		rebalanceEvery = 0
	}
	inserts := 0
	m.Reset()
	start := time.Now()
	for op, ok := m.Next(); ok; op, ok = m.Next() {
		switch op.Type {
		case datastream.OpQuery:
			if idx.Contains(op.Key) {
				c.Hits++
			}
		case datastream.OpInsert:
			idx.Insert(op.Key)
			inserts++
			if rebalanceEvery > 0 && inserts%rebalanceEvery == 0 {
				b.Balance()
			}
		case datastream.OpDelete:
			if idx.Delete(op.Key) {
				c.Deleted++
			}
		case datastream.OpRange:
			c.RangeHit += len(idx.RangeSearch(op.Key, op.High))
		}
	}
	return time.Since(start), c
}

// ReplayStream 以每個實作重播 sf 共 Runs 次；dsw 每插入 len(sf.Dist) 次重新平衡一次
func (r *Runner) ReplayStream(ctx context.Context, sf *datastream.StreamFile) ([]ReplayStats, error) {
	rebalance := max(len(sf.Dist), 1)
	model := sf.ToSequenceModel()

	out := make([]ReplayStats, 0, len(r.cfg.Impls))
	for _, impl := range r.cfg.Impls {
		ms := make([]Measurement, 0, r.cfg.Runs)
		var counts ReplayCounts
		steps := math.NaN()
		for run := 0; run < r.cfg.Runs; run++ {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			idx, err := NewIndex(impl, r.cfg, r.cfg.Seed+int64(run))
			if err != nil {
				return out, err
			}
			every := 0
			if impl == ImplDSW {
				every = rebalance
			}
			var elapsed time.Duration
			m := Measure(func() { elapsed, counts = Replay(idx, model, every) })
			m.Elapsed = elapsed
			ms = append(ms, m)

			if an, ok := idx.(index.Analyable[index.K]); ok && math.IsNaN(steps) {
				steps, _ = analyTool.AnalyzeStep(an, sf.Dist)
			}
		}

		s := Summarize(ms)
		st := ReplayStats{
			Impl:     impl,
			Runs:     s.Runs,
			Ops:      len(sf.Ops),
			AvgMs:    toMs(s.Avg),
			MinMs:    toMs(s.Min),
			MaxMs:    toMs(s.Max),
			AvgSteps: steps,
			Counts:   counts,
		}
		if s.Avg > 0 {
			st.OpsPerSec = float64(len(sf.Ops)) / s.Avg.Seconds()
		}
		r.log.Info().
			Str("impl", impl).
			Int("ops", st.Ops).
			Float64("avg_ms", st.AvgMs).
			Float64("ops_per_sec", st.OpsPerSec).
			Msg("replay done")
		out = append(out, st)
	}
	return out, nil
}
