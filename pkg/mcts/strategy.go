package mcts

// Decides how the reward of a single playout is credited to the states
// on the selected path
type StrategyLike interface {
	// Credit for the leaf, given the terminal reward and the number
	// of transitions the playout took from the leaf
	Leaf(result Result, plies int) Result
	// Credit for the predecessor of a state that received 'credit'
	Parent(credit Result) Result
}

// Every state on the path receives the playout's reward.
// This is the default strategy of the tree
type UniformBackprop struct{}

func (UniformBackprop) Leaf(result Result, _ int) Result { return result }
func (UniformBackprop) Parent(credit Result) Result      { return credit }

// Only the leaf receives the playout's reward, each of its ancestors
// is credited with 1, regardless of the outcome.
// Kept for parity with searches recorded by older versions of the library
type ReferenceBackprop struct{}

func (ReferenceBackprop) Leaf(result Result, _ int) Result { return result }
func (ReferenceBackprop) Parent(Result) Result              { return 1 }

// Assumes the game is 2 player and zero sum, and that the reward of a terminal
// state is given from the perspective of the player who moved into it.
// For a given result for one player, the value for the enemy is exactly 1 - result
type AlternatingBackprop struct{}

func (AlternatingBackprop) Leaf(result Result, plies int) Result {
	/*
		source: https://en.wikipedia.org/wiki/Monte_Carlo_tree_search
			If white loses the simulation, all nodes along the selection incremented their simulation count (the denominator),
			but among them only the black nodes were credited with wins (the numerator).
	*/
	if plies%2 == 1 {
		return 1 - result
	}
	return result
}

func (AlternatingBackprop) Parent(credit Result) Result { return 1 - credit }
