package metrics

import (
	"testing"

	"github.com/IlikeChooros/statetree/pkg/gridwalk"
	"github.com/IlikeChooros/statetree/pkg/mcts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector(t *testing.T) (*PrometheusCollector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	return c, reg
}

func TestCollectorCounts(t *testing.T) {
	c, _ := newTestCollector(t)

	c.AddRollout(3, 10)
	c.AddRollout(1, 0)
	c.AddExpansion(8)
	c.AddChoice(false)
	c.AddChoice(true)
	c.AddChoice(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Rollouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Expansions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Choices.WithLabelValues(ChoiceBest)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Choices.WithLabelValues(ChoiceFallback)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.RolloutDepth))
}

func TestCollectorRegistration(t *testing.T) {
	c, reg := newTestCollector(t)

	// Second collector on the same registry shares the metrics
	other, err := NewPrometheusCollector(reg)
	require.NoError(t, err)
	other.AddRollout(1, 1)
	c.AddRollout(1, 1)
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Rollouts))

	count, err := testutil.GatherAndCount(reg,
		"statetree_mcts_rollouts_total",
		"statetree_mcts_expansions_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	unregistered, err := NewPrometheusCollector(nil)
	require.NoError(t, err)
	unregistered.AddExpansion(1)
	assert.Equal(t, 1.0, testutil.ToFloat64(unregistered.Expansions))
}

func TestCollectorWithTree(t *testing.T) {
	c, _ := newTestCollector(t)
	board, err := gridwalk.NewBoard(gridwalk.DefaultRules(), gridwalk.Point{X: 10, Y: 10}, gridwalk.Point{X: 15, Y: 15})
	require.NoError(t, err)

	tree := mcts.NewMCTS[gridwalk.Board](mcts.WithSeed(3), mcts.WithCollector(c))
	for range 25 {
		require.NoError(t, tree.Rollout(board))
	}
	_, err = tree.Choose(board)
	require.NoError(t, err)

	assert.Equal(t, 25.0, testutil.ToFloat64(c.Rollouts))
	assert.Equal(t, 25.0, testutil.ToFloat64(c.Expansions), "every rollout expands a new state on an open board")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Choices.WithLabelValues(ChoiceBest)))
}
