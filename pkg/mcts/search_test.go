package mcts

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCycles(t *testing.T) {
	tree := NewDummyMCTS()
	root := DummyState{}
	tree.SetLimits(DefaultLimits().SetCycles(200))

	next, err := tree.Search(root)
	require.NoError(t, err)
	assert.Contains(t, root.Successors(), next)
	assert.Equal(t, 200, tree.Cycles())
	assert.Equal(t, StopCycles, tree.StopReason())
	assert.Equal(t, int32(200), tree.N(root))

	// Statistics are kept between searches, the counters are not
	_, err = tree.Search(root)
	require.NoError(t, err)
	assert.Equal(t, 200, tree.Cycles())
	assert.Equal(t, int32(400), tree.N(root))
}

func TestSearchNodesLimit(t *testing.T) {
	tree := NewDummyMCTS()
	tree.SetLimits(DefaultLimits().SetNodes(20))

	_, err := tree.Search(DummyState{})
	require.NoError(t, err)
	assert.Equal(t, 20, tree.Size())
	assert.Equal(t, StopNodes, tree.StopReason())
}

func TestSearchMovetime(t *testing.T) {
	tree := NewDummyMCTS()
	tree.SetLimits(DefaultLimits().SetMovetime(30 * time.Millisecond))

	start := time.Now()
	_, err := tree.Search(DummyState{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	assert.Equal(t, StopMovetime, tree.StopReason()&StopMovetime)
}

func TestSearchContextCancel(t *testing.T) {
	tree := NewDummyMCTS()
	ctx, cancel := context.WithCancel(context.Background())
	tree.SetContext(ctx)
	tree.SetLimits(DefaultLimits())

	tree.StatsListener().OnCycle(func(stats ListenerTreeStats[DummyState]) {
		if stats.Cycles == 100 {
			cancel()
		}
	})

	_, err := tree.Search(DummyState{})
	require.NoError(t, err)
	assert.Equal(t, 100, tree.Cycles(), "cancellation is checked between rollouts")
	assert.Equal(t, StopInterrupt, tree.StopReason())
}

func TestSearchStop(t *testing.T) {
	tree := NewDummyMCTS()
	tree.SetLimits(DefaultLimits())
	tree.StatsListener().SetCycleInterval(10).OnCycle(func(stats ListenerTreeStats[DummyState]) {
		if stats.Cycles >= 50 {
			tree.Stop()
		}
	})

	_, err := tree.Search(DummyState{})
	require.NoError(t, err)
	assert.Equal(t, 50, tree.Cycles())
	assert.Equal(t, StopInterrupt, tree.StopReason())
}

func TestSearchListener(t *testing.T) {
	tree := NewDummyMCTS()
	tree.SetLimits(DefaultLimits().SetCycles(100))

	var (
		depths    []int
		cycles    int
		stops     int
		lastStats ListenerTreeStats[DummyState]
	)

	listener := NewStatsListener[DummyState]()
	listener.
		OnDepth(func(stats ListenerTreeStats[DummyState]) {
			depths = append(depths, stats.Maxdepth)
		}).
		OnCycle(func(ListenerTreeStats[DummyState]) {
			cycles++
		}).
		SetCycleInterval(25).
		OnStop(func(stats ListenerTreeStats[DummyState]) {
			stops++
			lastStats = stats
		})
	tree.SetListener(listener)

	next, err := tree.Search(DummyState{})
	require.NoError(t, err)

	assert.Equal(t, 4, cycles)
	assert.Equal(t, 1, stops)
	assert.IsIncreasing(t, depths)
	assert.Equal(t, tree.MaxDepth(), depths[len(depths)-1])
	assert.Equal(t, StopCycles, lastStats.StopReason)
	assert.Equal(t, 100, lastStats.Cycles)
	assert.True(t, lastStats.HasBest)
	assert.Equal(t, next, lastStats.Best)

	tree.ResetListener()
	cycles, stops = 0, 0
	_, err = tree.Search(DummyState{})
	require.NoError(t, err)
	assert.Zero(t, cycles)
	assert.Zero(t, stops)
}

func TestSearchPropagatesErrors(t *testing.T) {
	tree := NewMCTS[StepState]()
	tree.SetLimits(DefaultLimits().SetCycles(10))

	_, err := tree.Search(StepState{Payoff: -1})
	assert.ErrorIs(t, err, ErrInvalidReward)
	assert.Zero(t, tree.Size())
}

func TestCyclesPerSecond(t *testing.T) {
	assert.Equal(t, uint32(2000), cyclesPerSecond(2, 1))
	assert.Equal(t, uint32(500), cyclesPerSecond(1000, 2000))
	assert.Equal(t, uint32(1000), cyclesPerSecond(1, 0), "elapsed time is at least 1ms")

	// 5M rollouts would overflow a 32 bit product
	assert.Equal(t, uint32(500_000), cyclesPerSecond(5_000_000, 10_000))
	assert.Equal(t, uint32(math.MaxUint32), cyclesPerSecond(math.MaxInt32, 1))
}
