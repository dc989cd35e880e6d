package tictactoe

// Enum for the squares
const (
	A3 PosType = iota
	B3
	C3
	A2
	B2
	C2
	A1
	B1
	C1
)

const (
	PosIllegal PosType = 255
)

var _squareNames = [9]string{"a3", "b3", "c3", "a2", "b2", "c2", "a1", "b1", "c1"}

func (p PosType) String() string {
	if p < 9 {
		return _squareNames[p]
	}
	return "-"
}

type MoveList struct {
	Moves [9]PosType
	Size  uint8
}

func (ml *MoveList) AppendMove(mv PosType) {
	ml.Moves[ml.Size] = mv
	ml.Size++
}

func (ml *MoveList) Slice() []PosType {
	return ml.Moves[:ml.Size]
}
