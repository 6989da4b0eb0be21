package bench

import (
	"context"
	"errors"
	"math"
	"math/bits"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Hakuto4838/OrderedIndex.git/datastream"
	"github.com/Hakuto4838/OrderedIndex.git/index"
)

var sink []byte

func TestMeasure(t *testing.T) {
	m := Measure(func() { sink = make([]byte, 1<<20) })
	require.GreaterOrEqual(t, m.TotalAllocBytes, uint64(1<<20))
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Measurement{
		{Elapsed: 30, TotalAllocBytes: 10},
		{Elapsed: 10, TotalAllocBytes: 20},
		{Elapsed: 20, TotalAllocBytes: 30},
	})
	require.Equal(t, Summary{Runs: 3, Avg: 20, Min: 10, Max: 30, TotalAllocBytes: 20}, s)
	require.Equal(t, Summary{}, Summarize(nil))
}

func TestBuildAndShape(t *testing.T) {
	keys := make([]index.K, 100)
	for i := range keys {
		keys[i] = index.K(i)
	}
	cfg := DefaultConfig()

	bst, err := NewIndex(ImplBST, cfg, 1)
	require.NoError(t, err)
	Build(ImplBST, bst, keys)
	require.Equal(t, 100, Shape(bst))

	tree, err := NewIndex(ImplDSW, cfg, 1)
	require.NoError(t, err)
	Build(ImplDSW, tree, keys)
	require.Equal(t, bits.Len(100), Shape(tree))

	sl, err := NewIndex(ImplSkipList, cfg, 1)
	require.NoError(t, err)
	Build(ImplSkipList, sl, keys)
	require.LessOrEqual(t, Shape(sl), cfg.MaxLevel)
}

func testConfig(t *testing.T) Config {
	cfg := DefaultConfig()
	cfg.Sizes = []int{30, 60}
	cfg.Runs = 2
	cfg.DatasetDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func TestRunnerRun(t *testing.T) {
	cfg := testConfig(t)
	r, err := NewRunner(cfg, zerolog.Nop())
	require.NoError(t, err)

	report, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, len(cfg.Sizes)*len(cfg.Impls)*len(Experiments()))

	for _, res := range report.Results {
		require.Equal(t, cfg.Runs, res.Runs)
		require.LessOrEqual(t, res.MinUs, res.AvgUs)
		require.LessOrEqual(t, res.AvgUs, res.MaxUs)
		if res.Impl == ImplDSW && res.Experiment != ExpDelete {
			require.LessOrEqual(t, res.Shape, bits.Len(uint(res.Size)))
		}
	}

	// 缺少的資料集會被產生並寫回
	for _, n := range cfg.Sizes {
		_, err := os.Stat(datastream.DatasetPath(cfg.DatasetDir, n))
		require.NoError(t, err)
	}
}

func TestRunnerUsesExistingDataset(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sizes = []int{3}
	require.NoError(t, datastream.SaveDataset(datastream.DatasetPath(cfg.DatasetDir, 3), []index.K{7, 8, 9}))

	r, err := NewRunner(cfg, zerolog.Nop())
	require.NoError(t, err)
	keys, err := r.LoadKeys(0, 3)
	require.NoError(t, err)
	require.Equal(t, []index.K{7, 8, 9}, keys)
}

func TestRunnerErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Impls = []string{"avl"}
	_, err := NewRunner(cfg, zerolog.Nop())
	require.True(t, errors.Is(err, ErrUnknownImpl))

	r, err := NewRunner(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	_, err = r.RunKeys(context.Background(), 0, nil)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	require.True(t, errors.Is(err, context.Canceled))
}

func TestReplay(t *testing.T) {
	ops := []datastream.Operation{
		{Type: datastream.OpInsert, Key: 1},
		{Type: datastream.OpInsert, Key: 2},
		{Type: datastream.OpQuery, Key: 1},
		{Type: datastream.OpQuery, Key: 3},
		{Type: datastream.OpDelete, Key: 2},
		{Type: datastream.OpDelete, Key: 2},
		{Type: datastream.OpRange, Key: 0, High: 5},
	}
	m := datastream.NewSequenceModelFromOps(ops)
	for _, impl := range AllImpls() {
		idx, err := NewIndex(impl, DefaultConfig(), 1)
		require.NoError(t, err)
		_, c := Replay(idx, m, 1)
		require.Equal(t, ReplayCounts{Hits: 1, Deleted: 1, RangeHit: 1}, c, impl)
	}
}

func TestReplayStreamConsistent(t *testing.T) {
	sf, err := datastream.GenerateWorkload(datastream.WorkloadConfig{
		N: 50, S: 1.3, V: 1, Seed: 3, Ops: 2000,
		Phase1Ratio: 0.5, DeleteRatio: 0.1, RangeRatio: 0.1, RangeWidth: 1 << 20,
	})
	require.NoError(t, err)

	cfg := testConfig(t)
	r, err := NewRunner(cfg, zerolog.Nop())
	require.NoError(t, err)
	stats, err := r.ReplayStream(context.Background(), sf)
	require.NoError(t, err)
	require.Len(t, stats, 3)

	// 三種結構的語意相同，命中數必須一致
	for _, s := range stats[1:] {
		require.Equal(t, stats[0].Counts, s.Counts, s.Impl)
	}
	for _, s := range stats {
		require.Equal(t, len(sf.Ops), s.Ops)
		if s.Impl == ImplSkipList {
			require.False(t, math.IsNaN(s.AvgSteps))
			require.Positive(t, s.AvgSteps)
		} else {
			require.True(t, math.IsNaN(s.AvgSteps))
		}
	}
}
