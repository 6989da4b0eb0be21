package saalgo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// Solution 表示一個解
type Solution interface {
	// Clone 建立深拷貝
	Clone() Solution

	// GetCost 回傳成本，越小越好
	GetCost() float64

	// GenerateNeighbor 以 r 產生鄰居解
	GenerateNeighbor(r *rand.Rand) Solution
}

// ProgressCallback 進度回報
// 參數: iteration (目前迭代次數), maxIterations, temperature, bestCost, currentCost
type ProgressCallback func(iteration int, maxIterations int, temperature float64, bestCost float64, currentCost float64)

// SAConfig 模擬退火設定
type SAConfig struct {
	InitialTemp      float64          // 初始溫度
	FinalTemp        float64          // 最終溫度
	CoolingRate      float64          // 冷卻率，(0, 1)
	Iterations       int              // 每個溫度的迭代次數
	MaxIterations    int              // 最大總迭代次數
	RandomSeed       int64            // 隨機種子
	ProgressCallback ProgressCallback // 選填
	ProgressInterval int              // 每 N 次迭代回報一次，0 表示不回報
}

// DefaultConfig 回傳預設設定；種子固定，結果可重現
func DefaultConfig() *SAConfig {
	return &SAConfig{
		InitialTemp:   10.0,
		FinalTemp:     0.01,
		CoolingRate:   0.9,
		Iterations:    20,
		MaxIterations: 2000,
		RandomSeed:    1,
	}
}

func (c *SAConfig) Validate() error {
	switch {
	case c.InitialTemp <= 0 || c.FinalTemp <= 0:
		return fmt.Errorf("temperatures must be positive: initial=%v final=%v", c.InitialTemp, c.FinalTemp)
	case c.CoolingRate <= 0 || c.CoolingRate >= 1:
		return fmt.Errorf("cooling rate must be in (0, 1): %v", c.CoolingRate)
	case c.Iterations <= 0 || c.MaxIterations <= 0:
		return fmt.Errorf("iterations must be positive: per-temp=%d max=%d", c.Iterations, c.MaxIterations)
	}
	return nil
}

// SimulatedAnnealing 模擬退火主結構，不可同時在多個 goroutine 使用
type SimulatedAnnealing struct {
	config     *SAConfig
	rand       *rand.Rand
	bestSol    Solution
	bestCost   float64
	iterations int
}

func NewSimulatedAnnealing(config *SAConfig) (*SimulatedAnnealing, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SimulatedAnnealing{
		config: config,
		rand:   rand.New(rand.NewSource(config.RandomSeed)),
	}, nil
}

// Run 從 initial 開始退火，回傳找到的最佳解與其成本。
// ctx 取消時回傳目前最佳解與 ctx.Err()。
func (sa *SimulatedAnnealing) Run(ctx context.Context, initial Solution) (Solution, float64, error) {
	if initial == nil {
		return nil, 0, errors.New("nil initial solution")
	}
	currentSol := initial.Clone()
	currentCost := currentSol.GetCost()

	sa.bestSol = currentSol.Clone()
	sa.bestCost = currentCost

	temperature := sa.config.InitialTemp
	for temperature > sa.config.FinalTemp && sa.iterations < sa.config.MaxIterations {
		if err := ctx.Err(); err != nil {
			return sa.bestSol, sa.bestCost, err
		}
		for i := 0; i < sa.config.Iterations && sa.iterations < sa.config.MaxIterations; i++ {
			neighborSol := currentSol.GenerateNeighbor(sa.rand)
			neighborCost := neighborSol.GetCost()

			if sa.shouldAccept(neighborCost-currentCost, temperature) {
				currentSol = neighborSol
				currentCost = neighborCost
				if currentCost < sa.bestCost {
					sa.bestSol = currentSol.Clone()
					sa.bestCost = currentCost
				}
			}
			sa.iterations++

			if cb := sa.config.ProgressCallback; cb != nil && sa.config.ProgressInterval > 0 &&
				sa.iterations%sa.config.ProgressInterval == 0 {
				cb(sa.iterations, sa.config.MaxIterations, temperature, sa.bestCost, currentCost)
			}
		}
		// 冷卻
		temperature *= sa.config.CoolingRate
	}
	return sa.bestSol, sa.bestCost, nil
}

// shouldAccept 較好的解直接接受，否則依 Metropolis 準則
func (sa *SimulatedAnnealing) shouldAccept(deltaCost, temperature float64) bool {
	if deltaCost < 0 {
		return true
	}
	if math.IsInf(deltaCost, 1) || math.IsNaN(deltaCost) {
		return false
	}
	return sa.rand.Float64() < math.Exp(-deltaCost/temperature)
}

func (sa *SimulatedAnnealing) GetBestSolution() Solution {
	return sa.bestSol
}

func (sa *SimulatedAnnealing) GetBestCost() float64 {
	return sa.bestCost
}

func (sa *SimulatedAnnealing) GetIterations() int {
	return sa.iterations
}

// Reset 清除狀態，亂數來源重新以 RandomSeed 初始化
func (sa *SimulatedAnnealing) Reset() {
	sa.bestSol = nil
	sa.bestCost = 0
	sa.iterations = 0
	sa.rand = rand.New(rand.NewSource(sa.config.RandomSeed))
}
