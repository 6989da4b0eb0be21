package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"github.com/Hakuto4838/OrderedIndex.git/datastream"
	"github.com/Hakuto4838/OrderedIndex.git/index"
)

// 四個實驗：插入全部 key、搜尋最後一個 key、刪除最後一個 key、[min, max] 範圍查詢
const (
	ExpInsert = "insert"
	ExpSearch = "search"
	ExpDelete = "delete"
	ExpRange  = "range"
)

func Experiments() []string {
	return []string{ExpInsert, ExpSearch, ExpDelete, ExpRange}
}

// Result 是某個資料集大小、某個實作、某個實驗的統計
type Result struct {
	Size            int     `yaml:"size"`
	Impl            string  `yaml:"impl"`
	Experiment      string  `yaml:"experiment"`
	Runs            int     `yaml:"runs"`
	AvgUs           float64 `yaml:"avg_us"`
	MinUs           float64 `yaml:"min_us"`
	MaxUs           float64 `yaml:"max_us"`
	TotalAllocBytes uint64  `yaml:"total_alloc_bytes"`
	Shape           int     `yaml:"shape"` // 樹高或 skip list 層級
}

type Runner struct {
	cfg Config
	log zerolog.Logger
}

func NewRunner(cfg Config, log zerolog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, log: log}, nil
}

func (r *Runner) Config() Config { return r.cfg }

// LoadKeys 讀取 DatasetDir 下的資料集，檔案不存在時依設定產生並寫回
func (r *Runner) LoadKeys(i, size int) ([]index.K, error) {
	path := datastream.DatasetPath(r.cfg.DatasetDir, size)
	keys, err := datastream.LoadDataset(path)
	if err == nil {
		return keys, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	r.log.Warn().Str("path", path).Msg("dataset not found, generating")
	keys, err = datastream.GenerateDataset(size, r.cfg.KeyMin, r.cfg.KeyMax, r.cfg.Seed+int64(i))
	if err != nil {
		return nil, err
	}
	if r.cfg.DatasetDir != "" {
		if err := os.MkdirAll(r.cfg.DatasetDir, 0o755); err != nil {
			return nil, fmt.Errorf("create dataset dir: %w", err)
		}
		if err := datastream.SaveDataset(path, keys); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

// Run 對每個資料集大小執行全部實驗
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	for i, size := range r.cfg.Sizes {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		keys, err := r.LoadKeys(i, size)
		if err != nil {
			return report, fmt.Errorf("dataset %d: %w", size, err)
		}
		results, err := r.RunKeys(ctx, size, keys)
		report.Results = append(report.Results, results...)
		if err != nil {
			return report, err
		}
	}
	return report, nil
}

// RunKeys 以指定的 keys 執行全部實作與實驗，每次量測都建立新的結構
func (r *Runner) RunKeys(ctx context.Context, size int, keys []index.K) ([]Result, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("dataset %d is empty", size)
	}
	last := keys[len(keys)-1]
	lo, hi := slices.Min(keys), slices.Max(keys)

	var out []Result
	for _, impl := range r.cfg.Impls {
		for _, exp := range Experiments() {
			if err := ctx.Err(); err != nil {
				return out, err
			}
			ms := make([]Measurement, 0, r.cfg.Runs)
			shape := -1
			for run := 0; run < r.cfg.Runs; run++ {
				idx, err := NewIndex(impl, r.cfg, r.cfg.Seed+int64(run))
				if err != nil {
					return out, err
				}
				var m Measurement
				switch exp {
				case ExpInsert:
					m = Measure(func() { Build(impl, idx, keys) })
				case ExpSearch:
					Build(impl, idx, keys)
					m = Measure(func() { idx.Contains(last) })
				case ExpDelete:
					Build(impl, idx, keys)
					m = Measure(func() { idx.Delete(last) })
				case ExpRange:
					Build(impl, idx, keys)
					m = Measure(func() { idx.RangeSearch(lo, hi) })
				}
				ms = append(ms, m)
				if shape < 0 {
					shape = Shape(idx)
				}
			}

			s := Summarize(ms)
			res := Result{
				Size:            size,
				Impl:            impl,
				Experiment:      exp,
				Runs:            s.Runs,
				AvgUs:           toUs(s.Avg),
				MinUs:           toUs(s.Min),
				MaxUs:           toUs(s.Max),
				TotalAllocBytes: s.TotalAllocBytes,
				Shape:           shape,
			}
			r.log.Debug().
				Int("size", size).
				Str("impl", impl).
				Str("experiment", exp).
				Float64("avg_us", res.AvgUs).
				Uint64("total_alloc_bytes", res.TotalAllocBytes).
				Msg("experiment done")
			out = append(out, res)
		}
	}
	r.log.Info().Int("size", size).Int("results", len(out)).Msg("dataset done")
	return out, nil
}
