package mcts

import (
	"context"
	"fmt"
	"math"
)

// Adds custom context to the limiter, enabling cancellation through it.
// Cancellation is checked between rollouts, a started rollout always completes.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
//	defer cancel()
//
//	tree.SetContext(ctx)
//	next, err := tree.Search(root)
func (mcts *MCTS[S]) SetContext(ctx context.Context) {
	mcts.Limiter.SetContext(ctx)
}

// Stop the running search, safe to call from another goroutine
func (mcts *MCTS[S]) Stop() {
	mcts.Limiter.SetStop(true)
}

// This function only sets the limits, resets the counters, and the stop flag
// doesn't actually start the search
func (mcts *MCTS[S]) setupSearch(root S) {
	mcts.Limiter.Reset()
	mcts.root = root
	mcts.cps = 0
	mcts.cycles = 0
	mcts.maxdepth = 0
}

// Run rollouts from 'root' until one of the limits is reached, then choose
// its best successor. Statistics gathered by previous searches are kept.
//
// Simply calls:
//
// 1. selection - to choose the most promising unexplored state
//
// 2. simulation - to play random transitions until a terminal state is reached
//
// 3. expansion & backpropagation - to record successors and increment counters up to the root
func (mcts *MCTS[S]) Search(root S) (S, error) {
	var zero S
	if root.Terminal() {
		return zero, fmt.Errorf("search: %w", ErrTerminalState)
	}

	mcts.setupSearch(root)
	limits := mcts.Limiter.Limits()
	mcts.log.Debug().
		Int("size", mcts.Size()).
		Float64("exploration", mcts.ExplorationParam()).
		Bool("infinite", limits.Infinite).
		Uint32("cycles_limit", limits.Cycles).
		Msg("search started")

	for mcts.Limiter.Ok(uint32(mcts.Size()), uint32(mcts.MaxDepth()), uint32(mcts.Cycles())) {
		if err := mcts.Rollout(root); err != nil {
			mcts.Limiter.EvaluateStopReason(uint32(mcts.Size()), uint32(mcts.MaxDepth()), uint32(mcts.Cycles()))
			return zero, fmt.Errorf("search: %w", err)
		}

		mcts.cps = cyclesPerSecond(mcts.Cycles(), mcts.Limiter.Elapsed())
		mcts.listener.invokeCycle(mcts)
	}

	mcts.Limiter.EvaluateStopReason(uint32(mcts.Size()), uint32(mcts.MaxDepth()), uint32(mcts.Cycles()))
	mcts.invokeListener(mcts.listener.onStop)

	mcts.log.Debug().
		Int("cycles", mcts.Cycles()).
		Int("maxdepth", mcts.MaxDepth()).
		Uint32("cps", mcts.Cps()).
		Int("size", mcts.Size()).
		Stringer("reason", mcts.StopReason()).
		Msg("search stopped")

	return mcts.Choose(root)
}

// Rollouts per second, given the elapsed milliseconds
func cyclesPerSecond(cycles int, elapsedMs uint32) uint32 {
	if elapsedMs == 0 {
		elapsedMs = 1
	}
	return uint32(min(uint64(cycles)*1000/uint64(elapsedMs), math.MaxUint32))
}
