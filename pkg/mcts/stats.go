package mcts

import "math"

// Visit count and cumulated rewards of a single state.
// The tree is searched by one goroutine, so the counters are plain values
type NodeStats struct {
	q float64
	n int32
}

// Get number of visits to this state
func (stats NodeStats) N() int32 {
	return stats.n
}

// Cumulated rewards for this state
func (stats NodeStats) Q() Result {
	return Result(stats.q)
}

// Average reward for this state, NaN if it was never visited
func (stats NodeStats) AvgQ() Result {
	if stats.n == 0 {
		return Result(math.NaN())
	}
	return Result(stats.q / float64(stats.n))
}

// Add one visit with given reward
func (stats *NodeStats) add(reward Result) {
	stats.n++
	stats.q += float64(reward)
}
