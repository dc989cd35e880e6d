package tictactoe

import (
	"fmt"
	"strings"
)

const (
	_bitboardCrossIdx  = 0
	_bitboardCircleIdx = 1
)

// Immutable tic tac toe position, cross moves first.
// Two positions are equal if the same squares are taken by the same players
type Position struct {
	bitboards [2]uint16
	turn      TurnType
}

func NewPosition() Position {
	return Position{turn: CrossTurn}
}

// Side to move
func (p Position) Turn() TurnType {
	return p.turn
}

func (p Position) At(sq PosType) PlayerType {
	switch {
	case p.bitboards[_bitboardCrossIdx]&(1<<sq) != 0:
		return Cross
	case p.bitboards[_bitboardCircleIdx]&(1<<sq) != 0:
		return Circle
	}
	return None
}

// Returns the position after the side to move takes 'mv'
func (p Position) MakeMove(mv PosType) (Position, error) {
	if mv > C1 || p.At(mv) != None {
		return p, fmt.Errorf("illegal move %v", mv)
	}
	if p.IsTerminated() {
		return p, fmt.Errorf("move %v in a terminated position", mv)
	}

	idx := _bitboardCrossIdx
	if p.turn == CircleTurn {
		idx = _bitboardCircleIdx
	}

	next := p
	next.bitboards[idx] |= 1 << mv
	next.turn = !p.turn
	return next, nil
}

// Find the move leading from 'p' to 'next', PosIllegal if they are not one move apart
func (p Position) MoveTo(next Position) PosType {
	if next.turn == p.turn {
		return PosIllegal
	}
	taken := (next.bitboards[0] | next.bitboards[1]) ^ (p.bitboards[0] | p.bitboards[1])
	for sq := A3; sq <= C1; sq++ {
		if taken == 1<<sq {
			return sq
		}
	}
	return PosIllegal
}

// Play a sequence of moves from the starting position
func FromMoves(moves ...PosType) (Position, error) {
	p := NewPosition()
	var err error
	for _, mv := range moves {
		if p, err = p.MakeMove(mv); err != nil {
			return p, err
		}
	}
	return p, nil
}

func (p Position) String() string {
	builder := strings.Builder{}
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			builder.WriteString(p.At(PosType(row*3 + col)).String())
		}
		if row < 2 {
			builder.WriteByte('/')
		}
	}
	return builder.String()
}
