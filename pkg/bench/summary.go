package bench

import (
	"github.com/IlikeChooros/statetree/pkg/mcts"
	"gonum.org/v1/gonum/stat"
)

// Aggregate the episode results, the standard deviation is 0 for less than 2 episodes
func Summarize[S mcts.DecisionState[S]](results []EpisodeResult[S]) SummaryInfo {
	summary := SummaryInfo{Episodes: len(results), Trials: 1}
	if len(results) == 0 {
		return summary
	}

	steps := make([]float64, len(results))
	rewards := make([]float64, len(results))
	trials := map[int]struct{}{}
	for i, r := range results {
		steps[i] = float64(r.Steps)
		rewards[i] = r.Reward
		trials[r.Trial] = struct{}{}
		if r.Won() {
			summary.Wins++
		}
		if r.Truncated {
			summary.Truncated++
		}
	}

	summary.Trials = len(trials)
	summary.WinRate = float64(summary.Wins) / float64(len(results))
	summary.MeanReward = stat.Mean(rewards, nil)
	if len(results) > 1 {
		summary.MeanSteps, summary.StdSteps = stat.MeanStdDev(steps, nil)
	} else {
		summary.MeanSteps = steps[0]
	}
	return summary
}
