package bench

import (
	"hash/fnv"
	"sync/atomic"

	"github.com/IlikeChooros/statetree/pkg/mcts"
	"github.com/google/uuid"
)

// Seeds used when the arena has none configured, one per episode
var DefaultSeeds = []string{"FOO", "BAR", "BLAH", "STELA", "DOMENIK"}

// Hash the seed phrase into the tree's random seed
func SeedFromString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Counters shared by every episode of an arena, safe to read while it's running
type ArenaStats struct {
	episodes uint32
	wins     uint32
	steps    uint32
}

// Number of finished episodes
func (as *ArenaStats) Total() int {
	return int(atomic.LoadUint32(&as.episodes))
}

func (as *ArenaStats) Wins() int {
	return int(atomic.LoadUint32(&as.wins))
}

func (as *ArenaStats) Steps() int {
	return int(atomic.LoadUint32(&as.steps))
}

func (as *ArenaStats) record(won bool, steps int) {
	atomic.AddUint32(&as.episodes, 1)
	atomic.AddUint32(&as.steps, uint32(steps))
	if won {
		atomic.AddUint32(&as.wins, 1)
	}
}

// Outcome of a single episode
type EpisodeResult[S mcts.DecisionState[S]] struct {
	Trial       int       `json:"trial"`
	Episode     int       `json:"episode"`
	RunID       uuid.UUID `json:"run_id"`
	Seed        string    `json:"seed"`
	Exploration float64   `json:"exploration"`
	Steps       int       `json:"steps"`
	Reward      float64   `json:"reward"`
	// Episode was cut by the step limit, before reaching a terminal state
	Truncated bool `json:"truncated"`
	Final     S    `json:"-"`
}

// Whether the episode ended with the maximum reward
func (r EpisodeResult[S]) Won() bool {
	return !r.Truncated && r.Reward >= 1
}

// Progress of an episode, after a successor was chosen
type StepInfo[S mcts.DecisionState[S]] struct {
	Trial   int
	Episode int
	RunID   uuid.UUID
	Step    int
	State   S
	Cycles  int
	Size    int
	Cps     uint32
}

type SummaryInfo struct {
	Trials     int     `json:"trials" yaml:"trials"`
	Episodes   int     `json:"episodes" yaml:"episodes"`
	Wins       int     `json:"wins" yaml:"wins"`
	Truncated  int     `json:"truncated" yaml:"truncated"`
	WinRate    float64 `json:"win_rate" yaml:"win_rate"`
	MeanSteps  float64 `json:"mean_steps" yaml:"mean_steps"`
	StdSteps   float64 `json:"std_steps" yaml:"std_steps"`
	MeanReward float64 `json:"mean_reward" yaml:"mean_reward"`
	Workers    int     `json:"workers" yaml:"workers"`
}
