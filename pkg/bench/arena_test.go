package bench

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/IlikeChooros/statetree/pkg/gridwalk"
	"github.com/IlikeChooros/statetree/pkg/mcts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	steps    []StepInfo[gridwalk.Board]
	episodes []EpisodeResult[gridwalk.Board]
	finished []SummaryInfo
}

func (r *recordingListener) OnStep(info StepInfo[gridwalk.Board]) {
	r.steps = append(r.steps, info)
}

func (r *recordingListener) OnEpisode(result EpisodeResult[gridwalk.Board]) {
	r.episodes = append(r.episodes, result)
}

func (r *recordingListener) OnFinish(summary SummaryInfo) {
	r.finished = append(r.finished, summary)
}

func smallBoard(t *testing.T) gridwalk.Board {
	t.Helper()
	rules := gridwalk.Rules{Width: 4, Height: 4, Step: 1, MaxHits: 6, WinDistance: 1}
	board, err := gridwalk.NewBoard(rules, gridwalk.Point{X: 0, Y: 0}, gridwalk.Point{X: 4, Y: 4})
	require.NoError(t, err)
	return board
}

func farBoard(t *testing.T) gridwalk.Board {
	t.Helper()
	board, err := gridwalk.NewBoard(gridwalk.DefaultRules(), gridwalk.Point{X: 0, Y: 0}, gridwalk.Point{X: 90, Y: 90})
	require.NoError(t, err)
	return board
}

func TestArenaPlaysEpisodes(t *testing.T) {
	tree := mcts.NewMCTS[gridwalk.Board]()
	arena := NewArena(tree, smallBoard(t)).Setup(5, 1000, 0)
	listener := &recordingListener{}

	results, err := arena.Run(listener)
	require.NoError(t, err)
	require.Len(t, results, 5)

	totalSteps := 0
	runIDs := map[uuid.UUID]struct{}{}
	for i, r := range results {
		assert.Equal(t, i, r.Episode)
		assert.Equal(t, DefaultSeeds[i], r.Seed)
		assert.True(t, r.Final.Terminal())
		assert.False(t, r.Truncated)
		assert.LessOrEqual(t, r.Steps, 6, "hit cap bounds the episode")
		totalSteps += r.Steps
		runIDs[r.RunID] = struct{}{}
	}
	assert.Len(t, runIDs, 5, "every episode gets its own run id")

	assert.Len(t, listener.steps, totalSteps)
	assert.Len(t, listener.episodes, 5)
	require.Len(t, listener.finished, 1)
	assert.Equal(t, 5, listener.finished[0].Episodes)

	assert.Equal(t, 5, arena.Total())
	assert.Equal(t, totalSteps, arena.Steps())
	assert.GreaterOrEqual(t, arena.Wins(), 3, "walker should mostly reach the target")
	assert.Positive(t, tree.Size(), "statistics are kept after the arena")
}

func TestArenaStepLimit(t *testing.T) {
	tree := mcts.NewMCTS[gridwalk.Board]()
	arena := NewArena(tree, farBoard(t)).Setup(2, 50, 1)

	results, err := arena.Run(nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Truncated)
		assert.Equal(t, 1, r.Steps)
		assert.False(t, r.Won())
		assert.Zero(t, r.Reward)
		assert.False(t, r.Final.Terminal())
	}
}

func TestArenaExplorations(t *testing.T) {
	tree := mcts.NewMCTS[gridwalk.Board]()
	arena := NewArena(tree, farBoard(t)).Setup(3, 20, 2)
	arena.Explorations = []float64{0.5, 2}
	arena.Seeds = []string{"ONLY"}

	results, err := arena.Run(nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 0.5, results[0].Exploration)
	assert.Equal(t, 2.0, results[1].Exploration)
	assert.Equal(t, 0.5, results[2].Exploration)
	assert.Equal(t, 0.5, tree.ExplorationParam())
	for _, r := range results {
		assert.Equal(t, "ONLY", r.Seed)
	}
}

func TestArenaSameSeedSameEpisode(t *testing.T) {
	play := func() []EpisodeResult[gridwalk.Board] {
		arena := NewArena(mcts.NewMCTS[gridwalk.Board](), smallBoard(t)).Setup(1, 200, 0)
		results, err := arena.Run(nil)
		require.NoError(t, err)
		return results
	}

	first, second := play(), play()
	assert.Equal(t, first[0].Final, second[0].Final)
	assert.Equal(t, first[0].Steps, second[0].Steps)
}

func TestArenaCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	arena := NewArena(mcts.NewMCTS[gridwalk.Board](), farBoard(t)).WithContext(ctx)
	results, err := arena.Run(nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)

	_, err = NewArena(mcts.NewMCTS[gridwalk.Board](), farBoard(t)).Setup(0, 10, 0).Run(nil)
	assert.ErrorIs(t, err, ErrNoEpisodes)
}

func TestRunTrials(t *testing.T) {
	listener := &recordingListener{}
	board := smallBoard(t)
	factory := func(trial int) (*Arena[gridwalk.Board], error) {
		tree := mcts.NewMCTS[gridwalk.Board](mcts.WithSeed(uint64(trial)))
		return NewArena(tree, board).Setup(2, 300, 0), nil
	}

	results, summary, err := RunTrials(context.Background(), 4, 2, factory, listener)
	require.NoError(t, err)
	require.Len(t, results, 8)

	for i, r := range results {
		assert.Equal(t, i/2, r.Trial, "results are ordered by trial")
		assert.Equal(t, i%2, r.Episode)
	}
	assert.Equal(t, 4, summary.Trials)
	assert.Equal(t, 2, summary.Workers)
	assert.Equal(t, 8, summary.Episodes)
	assert.Len(t, listener.episodes, 8)
	require.Len(t, listener.finished, 1, "only the combined summary is reported")
	assert.Equal(t, summary, listener.finished[0])
}

func TestRunTrialsError(t *testing.T) {
	errFactory := errors.New("no arena")
	board := smallBoard(t)
	factory := func(trial int) (*Arena[gridwalk.Board], error) {
		if trial == 1 {
			return nil, errFactory
		}
		return NewArena(mcts.NewMCTS[gridwalk.Board](), board).Setup(1, 50, 0), nil
	}

	_, _, err := RunTrials(context.Background(), 3, 1, factory, nil)
	assert.ErrorIs(t, err, errFactory)

	_, _, err = RunTrials(context.Background(), 0, 1, factory, nil)
	assert.ErrorIs(t, err, ErrNoEpisodes)
}

func TestSummarize(t *testing.T) {
	results := []EpisodeResult[gridwalk.Board]{
		{Trial: 0, Steps: 2, Reward: 1},
		{Trial: 1, Steps: 4, Reward: 0},
		{Trial: 1, Steps: 3, Reward: 1, Truncated: true},
	}

	summary := Summarize(results)
	assert.Equal(t, 3, summary.Episodes)
	assert.Equal(t, 2, summary.Trials)
	assert.Equal(t, 1, summary.Wins, "truncated episodes are never won")
	assert.Equal(t, 1, summary.Truncated)
	assert.InDelta(t, 1.0/3, summary.WinRate, 1e-9)
	assert.InDelta(t, 3.0, summary.MeanSteps, 1e-9)
	assert.InDelta(t, 1.0, summary.StdSteps, 1e-9)
	assert.InDelta(t, 2.0/3, summary.MeanReward, 1e-9)

	single := Summarize(results[:1])
	assert.Equal(t, 2.0, single.MeanSteps)
	assert.Zero(t, single.StdSteps)
	assert.False(t, math.IsNaN(single.StdSteps))

	assert.Equal(t, SummaryInfo{Trials: 1}, Summarize[gridwalk.Board](nil))
}

func TestSeedFromString(t *testing.T) {
	assert.Equal(t, SeedFromString("FOO"), SeedFromString("FOO"))
	seen := map[uint64]string{}
	for _, s := range DefaultSeeds {
		seed := SeedFromString(s)
		_, dup := seen[seed]
		assert.False(t, dup, "seed %q collides", s)
		seen[seed] = s
	}
}
