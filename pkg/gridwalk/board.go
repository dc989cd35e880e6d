package gridwalk

import (
	"fmt"
	"math"

	"github.com/IlikeChooros/statetree/pkg/mcts"
	"golang.org/x/exp/rand"
)

type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Distance returns the euclidean distance between the points
func (p Point) Distance(o Point) float64 {
	return math.Hypot(float64(p.X-o.X), float64(p.Y-o.Y))
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// A single state of the walk: where the walker is, where it should go,
// and how many moves it made so far. Boards are compared by value,
// so they can be used directly as search tree keys
type Board struct {
	Position Point
	Target   Point
	Hits     int
	terminal bool
	rules    Rules
}

// Boards satisfy the search tree's state contract
var _ = mcts.NewMCTS[Board]

// Create the starting board, it's terminal right away if the position is already
// within the win distance of the target
func NewBoard(rules Rules, position, target Point) (Board, error) {
	if err := rules.Validate(); err != nil {
		return Board{}, err
	}

	board := Board{Position: position, Target: target, rules: rules}
	board.terminal = board.won()
	return board, nil
}

func (b Board) Rules() Rules {
	return b.rules
}

func (b Board) Distance() float64 {
	return b.Position.Distance(b.Target)
}

func (b Board) won() bool {
	return b.Distance() <= b.rules.WinDistance
}

// Move the walker to 'position', counting one more hit
func (b Board) makeMove(position Point) Board {
	next := Board{
		Position: position,
		Target:   b.Target,
		Hits:     b.Hits + 1,
		rules:    b.rules,
	}
	next.terminal = next.won() || next.Hits >= next.rules.MaxHits
	return next
}

func (b Board) Successors() []Board {
	// If the game is finished then no moves can be made
	if b.terminal {
		return nil
	}

	moves := b.rules.validMoves(b.Position.X, b.Position.Y, make([][2]int, 0, len(_moveChoices)))
	successors := make([]Board, 0, len(moves))
	for _, m := range moves {
		successors = append(successors, b.makeMove(Point{b.Position.X + m[0], b.Position.Y + m[1]}))
	}
	return successors
}

func (b Board) RandomSuccessor(r *rand.Rand) (Board, error) {
	if b.terminal {
		return Board{}, fmt.Errorf("random successor of %v: %w", b, mcts.ErrTerminalState)
	}

	var buf [len(_moveChoices)][2]int
	moves := b.rules.validMoves(b.Position.X, b.Position.Y, buf[:0])
	if len(moves) == 0 {
		return Board{}, fmt.Errorf("random successor of %v: %w", b, mcts.ErrNoSuccessors)
	}
	m := moves[r.Intn(len(moves))]
	return b.makeMove(Point{b.Position.X + m[0], b.Position.Y + m[1]}), nil
}

func (b Board) Terminal() bool {
	return b.terminal
}

// 1 if the walker reached the target, 0 otherwise
func (b Board) Reward() (mcts.Result, error) {
	if !b.terminal {
		return 0, fmt.Errorf("reward of %v: %w", b, mcts.ErrNonTerminalState)
	}
	if b.won() {
		return 1, nil
	}
	return 0, nil
}

func (b Board) String() string {
	return fmt.Sprintf("Board{pos=%v, target=%v, hits=%d, terminal=%v}", b.Position, b.Target, b.Hits, b.terminal)
}
