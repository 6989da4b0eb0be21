package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Hakuto4838/OrderedIndex.git/datastream"
	"github.com/Hakuto4838/OrderedIndex.git/index"
	"github.com/Hakuto4838/OrderedIndex.git/index/analyTool"
	"github.com/Hakuto4838/OrderedIndex.git/index/skiplist"
	"github.com/Hakuto4838/OrderedIndex.git/saalgo"
)

// TunePoint 是一組 skip list 參數與其成本（加權平均搜尋步數）
type TunePoint struct {
	MaxLevel int     `yaml:"max_level"`
	P        float64 `yaml:"p"`
	Cost     float64 `yaml:"avg_steps"`
}

// TuneBounds 是搜尋範圍；p 以 PStep 為格點
type TuneBounds struct {
	LevelMin, LevelMax int
	PMin, PMax, PStep  float64
}

func DefaultTuneBounds() TuneBounds {
	return TuneBounds{LevelMin: 1, LevelMax: 16, PMin: 0.1, PMax: 0.9, PStep: 0.05}
}

func (b TuneBounds) Validate() error {
	if b.LevelMin < 0 || b.LevelMax < b.LevelMin {
		return fmt.Errorf("invalid level range [%d, %d]", b.LevelMin, b.LevelMax)
	}
	if b.PMin <= 0 || b.PMax >= 1 || b.PMax < b.PMin {
		return fmt.Errorf("invalid p range [%v, %v], must lie in (0, 1)", b.PMin, b.PMax)
	}
	if b.PStep <= 0 {
		return fmt.Errorf("invalid p step: %v", b.PStep)
	}
	return nil
}

// pGrid 以乘法計算格點，避免累加的浮點誤差
func (b TuneBounds) pGrid() []float64 {
	var ps []float64
	for i := 0; ; i++ {
		p := b.PMin + float64(i)*b.PStep
		if p > b.PMax+1e-9 {
			break
		}
		ps = append(ps, math.Round(p*1e9)/1e9)
	}
	return ps
}

// StepCost 以 (maxLevel, p) 建立 skip list 重播每份操作序列，
// 回傳各序列結束時依分布加權的平均搜尋步數的平均值。
func StepCost(streams []*datastream.StreamFile, maxLevel int, p float64, seed int64) (float64, error) {
	if len(streams) == 0 {
		return 0, fmt.Errorf("no streams")
	}
	var total float64
	for _, sf := range streams {
		sl, err := skiplist.New[index.K](maxLevel, p, skiplist.WithSeed(seed))
		if err != nil {
			return 0, err
		}
		Replay(sl, sf.ToSequenceModel(), 0)
		steps, _ := analyTool.AnalyzeStep[index.K](sl, sf.Dist)
		total += steps
	}
	return total / float64(len(streams)), nil
}

// GridSearch 平行評估所有格點，回傳依 (level, p) 順序排列的結果與最佳點（成本相同時取順序較前者）
func GridSearch(ctx context.Context, streams []*datastream.StreamFile, b TuneBounds, seed int64, log zerolog.Logger) ([]TunePoint, TunePoint, error) {
	if err := b.Validate(); err != nil {
		return nil, TunePoint{}, err
	}
	ps := b.pGrid()
	points := make([]TunePoint, 0, (b.LevelMax-b.LevelMin+1)*len(ps))
	for lvl := b.LevelMin; lvl <= b.LevelMax; lvl++ {
		for _, p := range ps {
			points = append(points, TunePoint{MaxLevel: lvl, P: p})
		}
	}

	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range points {
		pt := &points[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cost, err := StepCost(streams, pt.MaxLevel, pt.P, seed)
			if err != nil {
				return err
			}
			pt.Cost = cost
			if n := done.Add(1); n%int64(len(ps)) == 0 {
				log.Info().Msgf("[%6.2f%%] %d/%d points", float64(n)/float64(len(points))*100, n, len(points))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, TunePoint{}, err
	}

	best := TunePoint{Cost: math.Inf(1)}
	for _, pt := range points {
		if pt.Cost < best.Cost {
			best = pt
		}
	}
	log.Debug().Int("max_level", best.MaxLevel).Float64("p", best.P).Float64("avg_steps", best.Cost).Msg("best point")
	return points, best, nil
}

// paramSolution 把一組參數包成可退火的解；成本在建立時計算一次
type paramSolution struct {
	pt      TunePoint
	streams []*datastream.StreamFile
	bounds  TuneBounds
	seed    int64
}

func newParamSolution(streams []*datastream.StreamFile, b TuneBounds, seed int64, lvl int, p float64) *paramSolution {
	s := &paramSolution{streams: streams, bounds: b, seed: seed}
	s.pt = TunePoint{MaxLevel: lvl, P: p}
	cost, err := StepCost(streams, lvl, p, seed)
	if err != nil {
		cost = math.Inf(1)
	}
	s.pt.Cost = cost
	return s
}

func (s *paramSolution) Clone() saalgo.Solution {
	c := *s
	return &c
}

func (s *paramSolution) GetCost() float64 {
	return s.pt.Cost
}

// GenerateNeighbor 隨機調整層級 ±1 或 p ±PStep，超出範圍時夾回邊界
func (s *paramSolution) GenerateNeighbor(r *rand.Rand) saalgo.Solution {
	lvl, p := s.pt.MaxLevel, s.pt.P
	delta := 1
	if r.Intn(2) == 0 {
		delta = -1
	}
	if r.Intn(2) == 0 {
		lvl = min(max(lvl+delta, s.bounds.LevelMin), s.bounds.LevelMax)
	} else {
		p = min(max(p+float64(delta)*s.bounds.PStep, s.bounds.PMin), s.bounds.PMax)
		p = math.Round(p*1e9) / 1e9
	}
	return newParamSolution(s.streams, s.bounds, s.seed, lvl, p)
}

// Anneal 從 start 開始以模擬退火搜尋，回傳最佳點
func Anneal(ctx context.Context, streams []*datastream.StreamFile, b TuneBounds, start TunePoint, cfg *saalgo.SAConfig, seed int64, log zerolog.Logger) (TunePoint, error) {
	if err := b.Validate(); err != nil {
		return TunePoint{}, err
	}
	if len(streams) == 0 {
		return TunePoint{}, fmt.Errorf("no streams")
	}
	if cfg == nil {
		cfg = saalgo.DefaultConfig()
	}
	c := *cfg
	cfg = &c
	if cfg.ProgressCallback == nil && cfg.ProgressInterval > 0 {
		cfg.ProgressCallback = func(it, maxIt int, temp, best, cur float64) {
			log.Info().
				Int("iteration", it).
				Float64("temperature", temp).
				Float64("best", best).
				Float64("current", cur).
				Msgf("[%d/%d] annealing", it, maxIt)
		}
	}
	sa, err := saalgo.NewSimulatedAnnealing(cfg)
	if err != nil {
		return TunePoint{}, err
	}
	lvl := min(max(start.MaxLevel, b.LevelMin), b.LevelMax)
	p := min(max(start.P, b.PMin), b.PMax)
	best, _, err := sa.Run(ctx, newParamSolution(streams, b, seed, lvl, p))
	if best == nil {
		return TunePoint{}, err
	}
	return best.(*paramSolution).pt, err
}

// SortPoints 依成本遞增排序，成本相同時層級小、p 小者在前
func SortPoints(points []TunePoint) {
	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.Cost != b.Cost {
			return a.Cost < b.Cost
		}
		if a.MaxLevel != b.MaxLevel {
			return a.MaxLevel < b.MaxLevel
		}
		return a.P < b.P
	})
}

var tuneHeader = []string{"MaxLevel", "P", "AvgSteps"}

func (pt TunePoint) row() []string {
	return []string{
		strconv.Itoa(pt.MaxLevel),
		strconv.FormatFloat(pt.P, 'f', 4, 64),
		strconv.FormatFloat(pt.Cost, 'f', 4, 64),
	}
}

// RenderTunePoints 以表格輸出前 limit 個點，limit <= 0 表示全部
func RenderTunePoints(w io.Writer, points []TunePoint, limit int) {
	if limit <= 0 || limit > len(points) {
		limit = len(points)
	}
	rows := make([][]string, 0, limit)
	for _, pt := range points[:limit] {
		rows = append(rows, pt.row())
	}
	renderTable(w, tuneHeader, rows)
}

// WriteTuneCSV 輸出所有點，可用來畫熱力圖
func WriteTuneCSV(w io.Writer, points []TunePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tuneHeader); err != nil {
		return err
	}
	for _, pt := range points {
		if err := cw.Write(pt.row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
