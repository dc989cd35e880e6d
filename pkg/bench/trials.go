package bench

import (
	"context"
	"fmt"

	"github.com/IlikeChooros/statetree/pkg/mcts"
	"golang.org/x/sync/errgroup"
)

// Builds the arena of a single trial, each trial must get its own tree
type ArenaFactory[S mcts.DecisionState[S]] func(trial int) (*Arena[S], error)

// Run independent arenas, at most 'workers' of them at once.
// The first failing trial cancels the others. Results are ordered by trial
func RunTrials[S mcts.DecisionState[S]](
	ctx context.Context, trials, workers int,
	factory ArenaFactory[S], listener ListenerLike[S],
) ([]EpisodeResult[S], SummaryInfo, error) {
	if trials <= 0 {
		return nil, SummaryInfo{}, ErrNoEpisodes
	}
	if workers <= 0 {
		workers = 1
	}
	if listener == nil {
		listener = DefaultListener[S]{}
	}

	shared := &syncListener[S]{listener: listener}
	perTrial := make([][]EpisodeResult[S], trials)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for trial := range trials {
		g.Go(func() error {
			arena, err := factory(trial)
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			arena.Trial = trial

			results, err := arena.WithContext(gCtx).Run(shared)
			perTrial[trial] = results
			if err != nil {
				return fmt.Errorf("trial %d: %w", trial, err)
			}
			return nil
		})
	}
	err := g.Wait()

	all := make([]EpisodeResult[S], 0)
	for _, results := range perTrial {
		all = append(all, results...)
	}
	summary := Summarize(all)
	summary.Trials = trials
	summary.Workers = workers
	if err == nil {
		listener.OnFinish(summary)
	}
	return all, summary, err
}
