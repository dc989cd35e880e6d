package mcts

import (
	"errors"

	"golang.org/x/exp/rand"
)

var (
	// Returned when an operation needs legal transitions, but the state is terminal
	ErrTerminalState = errors.New("state is terminal")
	// Returned when Reward is asked of a state that is not terminal
	ErrNonTerminalState = errors.New("state is not terminal")
	// Returned when an expanded, non-terminal state has no recorded successors
	ErrNoSuccessors = errors.New("non-terminal state has no successors")
	// Returned when a terminal state reports a reward outside of [0, 1]
	ErrInvalidReward = errors.New("reward out of [0, 1] range")
)

// DecisionState is the capability set a searchable state must provide.
//
// States are used as map keys by the tree, so the implementing type must be
// a value whose equality covers every semantically relevant field, usually a
// small struct of comparable fields. Transitions are computed on demand and
// are never stored on the state.
type DecisionState[S any] interface {
	comparable

	// All states reachable with one legal transition, empty iff Terminal() is true.
	// Duplicates are ignored by the tree.
	Successors() []S

	// One successor drawn from the legal transitions, using given source of randomness.
	// Must return ErrTerminalState if the state is terminal
	RandomSuccessor(r *rand.Rand) (S, error)

	// Whether no further transitions are legal
	Terminal() bool

	// Outcome in [0, 1], defined only for terminal states, must return
	// ErrNonTerminalState otherwise
	Reward() (Result, error)
}
