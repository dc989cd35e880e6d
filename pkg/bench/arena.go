package bench

import (
	"context"
	"errors"
	"fmt"

	"github.com/IlikeChooros/statetree/pkg/mcts"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

/*
Arena benchmark subpackage, plays a series of episodes from the same
starting state, committing to the tree's choice after every search.
*/

var ErrNoEpisodes = errors.New("arena has no episodes to play")

// Plays episodes with a single tree, statistics gathered in one episode
// are reused by the next ones
type Arena[S mcts.DecisionState[S]] struct {
	ArenaStats
	Tree *mcts.MCTS[S]
	Root S
	// Number of episodes to play
	Episodes int
	// Rollouts made before each choice
	Rollouts int
	// Maximum number of choices in an episode, 0 means no limit
	MaxSteps int
	// Seed phrases, episode i uses Seeds[i % len(Seeds)]
	Seeds []string
	// Exploration params, episode i uses Explorations[i % len(Explorations)],
	// if empty the tree's param is left unchanged
	Explorations []float64
	// Index of the trial this arena belongs to
	Trial int

	log zerolog.Logger
	ctx context.Context
}

func NewArena[S mcts.DecisionState[S]](tree *mcts.MCTS[S], root S) *Arena[S] {
	return &Arena[S]{
		Tree:     tree,
		Root:     root,
		Episodes: len(DefaultSeeds),
		Rollouts: 1000,
		Seeds:    DefaultSeeds,
		log:      zerolog.Nop(),
		ctx:      context.Background(),
	}
}

func (a *Arena[S]) WithContext(ctx context.Context) *Arena[S] {
	a.ctx = ctx
	return a
}

func (a *Arena[S]) WithLogger(log zerolog.Logger) *Arena[S] {
	a.log = log
	return a
}

func (a *Arena[S]) Setup(episodes, rollouts, maxSteps int) *Arena[S] {
	a.Episodes = episodes
	a.Rollouts = rollouts
	a.MaxSteps = maxSteps
	return a
}

func (a *Arena[S]) seed(episode int) string {
	seeds := a.Seeds
	if len(seeds) == 0 {
		seeds = DefaultSeeds
	}
	return seeds[episode%len(seeds)]
}

// Play all of the episodes, returns the results of the finished ones.
// Cancelling the arena's context stops it between steps
func (a *Arena[S]) Run(listener ListenerLike[S]) ([]EpisodeResult[S], error) {
	if a.Episodes <= 0 {
		return nil, ErrNoEpisodes
	}
	if listener == nil {
		listener = DefaultListener[S]{}
	}

	a.Tree.SetContext(a.ctx)
	a.Tree.SetLimits(mcts.DefaultLimits().SetCycles(uint32(max(1, a.Rollouts))))
	a.log.Debug().
		Int("episodes", a.Episodes).
		Int("rollouts", a.Rollouts).
		Int("max_steps", a.MaxSteps).
		Msg("arena started")

	results := make([]EpisodeResult[S], 0, a.Episodes)
	for i := range a.Episodes {
		result, err := a.playEpisode(i, listener)
		if err != nil {
			return results, fmt.Errorf("episode %d: %w", i, err)
		}
		results = append(results, result)
		a.record(result.Won(), result.Steps)
		listener.OnEpisode(result)
	}

	summary := Summarize(results)
	listener.OnFinish(summary)
	return results, nil
}

func (a *Arena[S]) playEpisode(episode int, listener ListenerLike[S]) (EpisodeResult[S], error) {
	result := EpisodeResult[S]{
		Trial:       a.Trial,
		Episode:     episode,
		RunID:       uuid.New(),
		Seed:        a.seed(episode),
		Exploration: a.Tree.ExplorationParam(),
	}

	a.Tree.Seed(SeedFromString(result.Seed))
	if len(a.Explorations) > 0 {
		a.Tree.SetExplorationParam(a.Explorations[episode%len(a.Explorations)])
		result.Exploration = a.Tree.ExplorationParam()
	}

	log := a.log.With().
		Str("run_id", result.RunID.String()).
		Int("episode", episode).
		Logger()
	log.Debug().Str("seed", result.Seed).Float64("exploration", result.Exploration).Msg("episode started")

	state := a.Root
	for !state.Terminal() {
		if a.MaxSteps > 0 && result.Steps >= a.MaxSteps {
			result.Truncated = true
			log.Warn().Int("steps", result.Steps).Msg("episode cut by the step limit")
			break
		}
		if err := a.ctx.Err(); err != nil {
			return result, err
		}

		next, err := a.Tree.Search(state)
		if err != nil {
			return result, err
		}
		// Search stops early on cancellation, don't commit to a half searched choice
		if err := a.ctx.Err(); err != nil {
			return result, err
		}

		state = next
		result.Steps++
		listener.OnStep(StepInfo[S]{
			Trial:   a.Trial,
			Episode: episode,
			RunID:   result.RunID,
			Step:    result.Steps,
			State:   state,
			Cycles:  a.Tree.Cycles(),
			Size:    a.Tree.Size(),
			Cps:     a.Tree.Cps(),
		})
	}

	result.Final = state
	if !result.Truncated {
		reward, err := state.Reward()
		if err != nil {
			return result, err
		}
		result.Reward = float64(reward)
	}
	return result, nil
}
