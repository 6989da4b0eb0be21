package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Report 收集實驗與重播結果
type Report struct {
	Results []Result      `yaml:"results,omitempty"`
	Replays []ReplayStats `yaml:"replays,omitempty"`
}

func toUs(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1e3 }

func toMs(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1e6 }

var resultHeader = []string{"Size", "Impl", "Experiment", "Runs", "Avg(us)", "Min(us)", "Max(us)", "TotalAlloc(B)", "Height/Level"}

func (r Result) row() []string {
	return []string{
		strconv.Itoa(r.Size),
		r.Impl,
		r.Experiment,
		strconv.Itoa(r.Runs),
		fmt.Sprintf("%.3f", r.AvgUs),
		fmt.Sprintf("%.3f", r.MinUs),
		fmt.Sprintf("%.3f", r.MaxUs),
		strconv.FormatUint(r.TotalAllocBytes, 10),
		strconv.Itoa(r.Shape),
	}
}

var replayHeader = []string{"Impl", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "AvgSteps", "Hits", "Deleted", "RangeKeys"}

func (s ReplayStats) row() []string {
	steps := "N/A"
	if !math.IsNaN(s.AvgSteps) {
		steps = fmt.Sprintf("%.6f", s.AvgSteps)
	}
	return []string{
		s.Impl,
		strconv.Itoa(s.Runs),
		fmt.Sprintf("%.3f", s.AvgMs),
		fmt.Sprintf("%.3f", s.MinMs),
		fmt.Sprintf("%.3f", s.MaxMs),
		fmt.Sprintf("%.2f", s.OpsPerSec),
		steps,
		strconv.Itoa(s.Counts.Hits),
		strconv.Itoa(s.Counts.Deleted),
		strconv.Itoa(s.Counts.RangeHit),
	}
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}

// RenderTable 以表格輸出實驗結果與重播結果（有資料的部分）
func (rp *Report) RenderTable(w io.Writer) {
	if len(rp.Results) > 0 {
		rows := make([][]string, 0, len(rp.Results))
		for _, r := range rp.Results {
			rows = append(rows, r.row())
		}
		renderTable(w, resultHeader, rows)
	}
	if len(rp.Replays) > 0 {
		rows := make([][]string, 0, len(rp.Replays))
		for _, s := range rp.Replays {
			rows = append(rows, s.row())
		}
		renderTable(w, replayHeader, rows)
	}
}

// WriteCSV 只輸出實驗結果；重播結果見 WriteReplayCSV
func (rp *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultHeader); err != nil {
		return err
	}
	for _, r := range rp.Results {
		if err := cw.Write(r.row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (rp *Report) WriteReplayCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(replayHeader); err != nil {
		return err
	}
	for _, s := range rp.Replays {
		if err := cw.Write(s.row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (rp *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rp); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// Save 在 dir 下寫出 results.csv（或 replay.csv）與 results.yaml，回傳寫出的檔案
func (rp *Report) Save(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var written []string
	save := func(name string, write func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := write(f); err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if len(rp.Results) > 0 {
		if err := save("results.csv", rp.WriteCSV); err != nil {
			return written, err
		}
	}
	if len(rp.Replays) > 0 {
		if err := save("replay.csv", rp.WriteReplayCSV); err != nil {
			return written, err
		}
	}
	if err := save("results.yaml", rp.WriteYAML); err != nil {
		return written, err
	}
	return written, nil
}
