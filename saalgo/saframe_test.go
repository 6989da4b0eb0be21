package saalgo

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// intSol 在 [0, 20] 上最小化 (x-7)^2
type intSol struct{ x int }

func (s *intSol) Clone() Solution { return &intSol{x: s.x} }

func (s *intSol) GetCost() float64 {
	d := float64(s.x - 7)
	return d * d
}

func (s *intSol) GenerateNeighbor(r *rand.Rand) Solution {
	x := s.x + r.Intn(3) - 1
	return &intSol{x: min(max(x, 0), 20)}
}

func TestRunFindsMinimum(t *testing.T) {
	sa, err := NewSimulatedAnnealing(nil)
	require.NoError(t, err)

	best, cost, err := sa.Run(context.Background(), &intSol{x: 20})
	require.NoError(t, err)
	require.Equal(t, 7, best.(*intSol).x)
	require.Zero(t, cost)
	require.Equal(t, cost, sa.GetBestCost())
	require.LessOrEqual(t, sa.GetIterations(), DefaultConfig().MaxIterations)
}

func TestRunIsReproducible(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 15
	cfg.RandomSeed = 99

	sa, err := NewSimulatedAnnealing(cfg)
	require.NoError(t, err)
	first, _, err := sa.Run(context.Background(), &intSol{x: 0})
	require.NoError(t, err)
	require.Equal(t, 15, sa.GetIterations())

	sa.Reset()
	require.Nil(t, sa.GetBestSolution())
	second, _, err := sa.Run(context.Background(), &intSol{x: 0})
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRunProgressAndCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 100
	cfg.ProgressInterval = 10
	calls := 0
	cfg.ProgressCallback = func(it, maxIt int, temp, best, cur float64) {
		calls++
		require.Equal(t, 100, maxIt)
		require.LessOrEqual(t, best, cur)
	}
	sa, err := NewSimulatedAnnealing(cfg)
	require.NoError(t, err)
	_, _, err = sa.Run(context.Background(), &intSol{x: 3})
	require.NoError(t, err)
	require.Equal(t, 10, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sa.Reset()
	best, cost, err := sa.Run(ctx, &intSol{x: 3})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 3, best.(*intSol).x)
	require.Equal(t, 16.0, cost)
}

func TestInvalidConfig(t *testing.T) {
	for _, mod := range []func(c *SAConfig){
		func(c *SAConfig) { c.CoolingRate = 1 },
		func(c *SAConfig) { c.InitialTemp = 0 },
		func(c *SAConfig) { c.Iterations = 0 },
	} {
		cfg := DefaultConfig()
		mod(cfg)
		_, err := NewSimulatedAnnealing(cfg)
		require.Error(t, err)
	}

	sa, err := NewSimulatedAnnealing(nil)
	require.NoError(t, err)
	_, _, err = sa.Run(context.Background(), nil)
	require.Error(t, err)
}
