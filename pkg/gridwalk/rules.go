package gridwalk

import (
	"errors"
	"fmt"
)

// Rules of the walk, shared by every board of one game.
// Kept as a value inside each Board, so boards of different
// games never compare equal
type Rules struct {
	Width       int     `json:"width" yaml:"width"`
	Height      int     `json:"height" yaml:"height"`
	Border      int     `json:"border" yaml:"border"`
	Step        int     `json:"step" yaml:"step"`
	MaxHits     int     `json:"max_hits" yaml:"max_hits"`
	WinDistance float64 `json:"win_distance" yaml:"win_distance"`
}

const (
	DefaultWidth       = 100
	DefaultHeight      = 100
	DefaultBorder      = 0
	DefaultStep        = 1
	DefaultMaxHits     = 50
	DefaultWinDistance = 1.0
)

func DefaultRules() Rules {
	return Rules{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Border:      DefaultBorder,
		Step:        DefaultStep,
		MaxHits:     DefaultMaxHits,
		WinDistance: DefaultWinDistance,
	}
}

var ErrInvalidRules = errors.New("invalid rules")

func (r Rules) Validate() error {
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: board size %dx%d", ErrInvalidRules, r.Width, r.Height)
	case r.Border < 0 || 2*r.Border >= min(r.Width, r.Height):
		return fmt.Errorf("%w: border %d on a %dx%d board", ErrInvalidRules, r.Border, r.Width, r.Height)
	case r.Step <= 0:
		return fmt.Errorf("%w: step %d", ErrInvalidRules, r.Step)
	case r.MaxHits <= 0:
		return fmt.Errorf("%w: max hits %d", ErrInvalidRules, r.MaxHits)
	case r.WinDistance < 0:
		return fmt.Errorf("%w: win distance %v", ErrInvalidRules, r.WinDistance)
	}
	return nil
}

// Motion vectors, before scaling by the step
var _moveChoices = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Append the motion vectors allowed from (x, y) to 'moves'
func (r Rules) validMoves(x, y int, moves [][2]int) [][2]int {
	for _, choice := range _moveChoices {
		// can not move left
		if x <= r.Border && choice[0] < 0 {
			continue
		}
		// can not move right
		if x >= r.Width-r.Border && choice[0] > 0 {
			continue
		}
		// can not move down
		if y <= r.Border && choice[1] < 0 {
			continue
		}
		// can not move up
		if y >= r.Height-r.Border && choice[1] > 0 {
			continue
		}
		moves = append(moves, [2]int{choice[0] * r.Step, choice[1] * r.Step})
	}
	return moves
}
