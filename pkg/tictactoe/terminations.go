package tictactoe

type Termination int

const (
	TerminationNone      Termination = 0
	TerminationCircleWon Termination = 1
	TerminationCrossWon  Termination = 2
	TerminationDraw      Termination = 4
)

// horizontal, vertical and diagonal patterns as bitboards
var _winningBitboardPatterns = [8]uint16{
	0b111000000, 0b000111000, 0b000000111,
	0b100100100, 0b010010010, 0b001001001,
	0b100010001, 0b001010100,
}

// Evaluate the termination of the board
func (p Position) Termination() Termination {
	crossbb := p.bitboards[_bitboardCrossIdx]
	circlebb := p.bitboards[_bitboardCircleIdx]

	for _, pattern := range _winningBitboardPatterns {
		if crossbb&pattern == pattern {
			return TerminationCrossWon
		}
		if circlebb&pattern == pattern {
			return TerminationCircleWon
		}
	}

	// If not, check if that's a draw (the board is fully filled)
	if (crossbb | circlebb) == 0b111111111 {
		return TerminationDraw
	}
	return TerminationNone
}

func (p Position) IsTerminated() bool {
	return p.Termination() != TerminationNone
}
