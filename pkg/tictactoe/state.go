package tictactoe

import (
	"fmt"

	"github.com/IlikeChooros/statetree/pkg/mcts"
	"golang.org/x/exp/rand"
)

// Positions satisfy the search tree's state contract, rewards are given from the
// perspective of the player who made the last move, use mcts.AlternatingBackprop
var _ = mcts.NewMCTS[Position]

func (p Position) Successors() []Position {
	moves := p.GenerateMoves()
	successors := make([]Position, 0, moves.Size)
	for _, mv := range moves.Slice() {
		next, _ := p.MakeMove(mv)
		successors = append(successors, next)
	}
	return successors
}

func (p Position) RandomSuccessor(r *rand.Rand) (Position, error) {
	moves := p.GenerateMoves()
	if moves.Size == 0 {
		return p, fmt.Errorf("random successor of %v: %w", p, mcts.ErrTerminalState)
	}
	return p.MakeMove(moves.Moves[r.Intn(int(moves.Size))])
}

func (p Position) Terminal() bool {
	return p.IsTerminated()
}

// 1 if the player who moved last won, 0.5 for a draw
func (p Position) Reward() (mcts.Result, error) {
	switch p.Termination() {
	case TerminationNone:
		return 0, fmt.Errorf("reward of %v: %w", p, mcts.ErrNonTerminalState)
	case TerminationDraw:
		return 0.5, nil
	}
	// The winner is always the side that just moved
	return 1, nil
}
