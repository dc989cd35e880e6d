package mcts

// Other types, which didn't fit to MCTS or Node files

// Reward of a terminal state, should range from [0, 1] - 0 being a loss
// and 1 being a win
type Result float64

// Will be called on an expanded state whose every successor has already been visited,
// must return one of the recorded successors of 'parent'
type SelectionPolicy[S DecisionState[S]] func(tree *MCTS[S], parent S) S

type SeedGeneratorFnType func() uint64
