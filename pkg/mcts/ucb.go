package mcts

import (
	"fmt"
	"math"
)

type UCB1[S DecisionState[S]] struct {
	ExplorationParam float64
}

func NewUCB1[S DecisionState[S]](explorationParam float64) *UCB1[S] {
	return &UCB1[S]{ExplorationParam: max(0, explorationParam)}
}

func (u *UCB1[S]) SetExplorationParam(c float64) {
	u.ExplorationParam = max(0, c)
}

// Select the child of 'parent' with the highest upper confidence bound.
// Every child must already have at least 1 visit, calling it otherwise
// means the tree has been corrupted, so it panics
func (u *UCB1[S]) Select(tree *MCTS[S], parent S) S {
	children := tree.children[parent]
	parentStats := tree.stats[parent]
	if parentStats == nil || parentStats.n == 0 {
		panic(fmt.Sprintf("[MCTS] UCB1: parent %v has no visits", parent))
	}

	lnParentVisits := math.Log(float64(parentStats.n))
	maxScore := math.Inf(-1)
	index := 0

	for i, child := range children {
		stats := tree.stats[child]
		if stats == nil || stats.n == 0 {
			panic(fmt.Sprintf("[MCTS] UCB1: child %v has no visits", child))
		}

		// UCB 1 : rewards/visits + C * sqrt(ln(parent_visits)/visits)
		// ucb1 = exploitation + exploration
		visits := float64(stats.n)
		score := stats.q/visits + u.ExplorationParam*math.Sqrt(lnParentVisits/visits)

		if score > maxScore {
			maxScore = score
			index = i
		}
	}

	return children[index]
}
