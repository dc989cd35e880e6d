package mcts

// Receives counters from the tree, implementations must be cheap,
// since they are called on every rollout
type Collector interface {
	// Called after a completed rollout, with the depth of the selected leaf
	// and the number of transitions made by the playout
	AddRollout(depth, plies int)
	// Called when a state is expanded, with the number of its distinct successors
	AddExpansion(successors int)
	// Called on every successful Choose, 'fallback' is true if the state was never expanded
	AddChoice(fallback bool)
}

type NoopCollector struct{}

func (NoopCollector) AddRollout(int, int) {}
func (NoopCollector) AddExpansion(int)    {}
func (NoopCollector) AddChoice(bool)      {}
