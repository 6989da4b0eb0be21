package bench

import (
	"runtime"
	"time"
)

// Measurement 是一次操作的耗時與期間累計配置的 heap 位元組數。
// TotalAllocBytes 是 MemStats.TotalAlloc 的差值：包含已被回收的配置，不是記憶體峰值。
type Measurement struct {
	Elapsed         time.Duration
	TotalAllocBytes uint64
}

// Measure 執行 fn，回傳耗時與期間 TotalAlloc 的增量
func Measure(fn func()) Measurement {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)
	return Measurement{Elapsed: elapsed, TotalAllocBytes: after.TotalAlloc - before.TotalAlloc}
}

// Summary 為多次量測的統計
type Summary struct {
	Runs            int
	Avg             time.Duration
	Min             time.Duration
	Max             time.Duration
	TotalAllocBytes uint64 // 平均值
}

func Summarize(ms []Measurement) Summary {
	if len(ms) == 0 {
		return Summary{}
	}
	s := Summary{Runs: len(ms), Min: ms[0].Elapsed, Max: ms[0].Elapsed}
	var total time.Duration
	var alloc uint64
	for _, m := range ms {
		total += m.Elapsed
		alloc += m.TotalAllocBytes
		s.Min = min(s.Min, m.Elapsed)
		s.Max = max(s.Max, m.Elapsed)
	}
	s.Avg = total / time.Duration(len(ms))
	s.TotalAllocBytes = alloc / uint64(len(ms))
	return s
}
