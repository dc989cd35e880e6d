package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/IlikeChooros/statetree/internal/config"
	"github.com/IlikeChooros/statetree/pkg/gridwalk"
	"github.com/IlikeChooros/statetree/pkg/mcts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const smallConfig = `
search:
  rollouts: 200
episodes:
  count: 2
  max_steps: 20
board:
  rules:
    width: 4
    height: 4
    max_hits: 6
  start: {x: 0, y: 0}
  target: {x: 4, y: 4}
observability:
  log_level: error
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gridwalk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigCommand(t *testing.T) {
	path := writeConfig(t, smallConfig)
	out, err := execute(t, "config", "--config", path)
	require.NoError(t, err)

	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, 200, cfg.Search.Rollouts)
	assert.Equal(t, 4, cfg.Board.Rules.Width)
}

func TestRunCommand(t *testing.T) {
	path := writeConfig(t, smallConfig)
	out, err := execute(t, "run", "--config", path, "--episodes", "3", "--trials", "2", "--workers", "2", "--seed", "5")
	require.NoError(t, err)

	assert.Equal(t, 6, strings.Count(out, "episode "), "one line per episode of every trial")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "trials:     2 (2 workers)")
}

func TestRunCommandInvalidFlags(t *testing.T) {
	path := writeConfig(t, smallConfig)
	_, err := execute(t, "run", "--config", path, "--backprop", "random")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, "run", "--config", path, "--log-level", "loud")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestArenaFactory(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, smallConfig))
	require.NoError(t, err)
	cfg.Search.Backprop = config.BackpropReference
	cfg.Search.Exploration = 0.7
	cfg.Episodes.Seeds = []string{"ONE"}

	factory, err := newArenaFactory(cfg, mcts.NoopCollector{}, zerolog.Nop())
	require.NoError(t, err)

	first, err := factory(0)
	require.NoError(t, err)
	second, err := factory(1)
	require.NoError(t, err)

	assert.NotSame(t, first.Tree, second.Tree, "trials must not share a tree")
	assert.Equal(t, mcts.ReferenceBackprop{}, first.Tree.Strategy())
	assert.Equal(t, 0.7, first.Tree.ExplorationParam())
	assert.Equal(t, 200, first.Rollouts)
	assert.Equal(t, 20, first.MaxSteps)
	assert.Equal(t, []string{"ONE"}, first.Seeds)
	assert.Equal(t, gridwalk.Point{X: 4, Y: 4}, first.Root.Target)

	cfg.Board.Start = gridwalk.Point{X: 4, Y: 4}
	factory, err = newArenaFactory(cfg, mcts.NoopCollector{}, zerolog.Nop())
	require.NoError(t, err)
	arena, err := factory(0)
	require.NoError(t, err)
	assert.True(t, arena.Root.Terminal())
}

func TestRunFlagsOverrideInvalidFile(t *testing.T) {
	path := writeConfig(t, strings.Replace(smallConfig, "rollouts: 200", "rollouts: 0", 1))

	_, err := execute(t, "config", "--config", path)
	assert.ErrorIs(t, err, config.ErrInvalidConfig, "file alone is invalid")

	out, err := execute(t, "run", "--config", path, "--rollouts", "100", "--episodes", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary")
}
