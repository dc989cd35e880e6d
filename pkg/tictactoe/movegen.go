package tictactoe

import "math/bits"

// Free squares of the position, none if it's terminated
func (p Position) GenerateMoves() MoveList {
	var movelist MoveList
	if p.IsTerminated() {
		return movelist
	}

	free := uint(0b111111111 ^ (p.bitboards[0] | p.bitboards[1]))
	for free != 0 {
		movelist.AppendMove(PosType(bits.TrailingZeros(free)))
		free &= free - 1
	}

	return movelist
}
