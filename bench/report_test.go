package bench

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleReport() *Report {
	return &Report{
		Results: []Result{
			{Size: 100, Impl: ImplBST, Experiment: ExpInsert, Runs: 2, AvgUs: 12.5, MinUs: 10, MaxUs: 15, TotalAllocBytes: 4800, Shape: 14},
			{Size: 100, Impl: ImplSkipList, Experiment: ExpRange, Runs: 2, AvgUs: 3, MinUs: 2.5, MaxUs: 3.5, TotalAllocBytes: 2040, Shape: 4},
		},
	}
}

func TestReportTable(t *testing.T) {
	rp := sampleReport()
	rp.Replays = []ReplayStats{{Impl: ImplDSW, Runs: 1, Ops: 10, AvgSteps: math.NaN()}}

	var buf bytes.Buffer
	rp.RenderTable(&buf)
	out := buf.String()
	require.Contains(t, out, "EXPERIMENT")
	require.Contains(t, out, "skiplist")
	require.Contains(t, out, "12.500")
	require.Contains(t, out, "N/A")

	buf.Reset()
	(&Report{}).RenderTable(&buf)
	require.Empty(t, buf.String())
}

func TestReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Size,Impl,Experiment,Runs,Avg(us),Min(us),Max(us),TotalAlloc(B),Height/Level", lines[0])
	require.Equal(t, "100,bst,insert,2,12.500,10.000,15.000,4800,14", lines[1])

	buf.Reset()
	rp := &Report{Replays: []ReplayStats{{Impl: ImplSkipList, Runs: 1, Ops: 4, AvgMs: 1, MinMs: 1, MaxMs: 1, OpsPerSec: 4000, AvgSteps: 2.5, Counts: ReplayCounts{Hits: 2}}}}
	require.NoError(t, rp.WriteReplayCSV(&buf))
	require.Contains(t, buf.String(), "skiplist,1,1.000,1.000,1.000,4000.00,2.500000,2,0,0")
}

func TestReportYAML(t *testing.T) {
	var buf bytes.Buffer
	rp := sampleReport()
	require.NoError(t, rp.WriteYAML(&buf))
	require.Contains(t, buf.String(), "experiment: insert")
	require.Contains(t, buf.String(), "total_alloc_bytes: 4800")

	var back Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Equal(t, *rp, back)
}

func TestReportSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	files, err := sampleReport().Save(dir)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "results.csv"), filepath.Join(dir, "results.yaml")}, files)

	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		require.Positive(t, info.Size())
	}
}
