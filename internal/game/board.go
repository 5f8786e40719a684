package game

const (
	Size      = 15
	WinLength = 6
)

type Cell int8

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

// Board is the fixed Size x Size grid. It is a value type: assigning a Board copies every cell.
type Board [Size][Size]Cell

func (b *Board) At(row, col int) Cell {
	return b[row][col]
}

func (b *Board) Set(row, col int, value Cell) {
	b[row][col] = value
}

func (b *Board) Remove(row, col int) {
	b[row][col] = CellEmpty
}

func InBounds(row, col int) bool {
	return row >= 0 && col >= 0 && row < Size && col < Size
}

func (b *Board) IsEmpty(row, col int) bool {
	return InBounds(row, col) && b[row][col] == CellEmpty
}

func (b *Board) CountEmpty() int {
	count := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == CellEmpty {
				count++
			}
		}
	}
	return count
}

// EmptyCells lists the empty cells in row-major order.
func (b *Board) EmptyCells() []Move {
	moves := make([]Move, 0, Size*Size)
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if b[row][col] == CellEmpty {
				moves = append(moves, Move{Row: row, Col: col})
			}
		}
	}
	return moves
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "Black"
	case CellWhite:
		return "White"
	default:
		return "Empty"
	}
}

func CellFromPlayer(player Player) Cell {
	if player == PlayerBlack {
		return CellBlack
	}
	return CellWhite
}

// PlayerFromCell reports which player owns cell; ok is false for an empty cell.
func PlayerFromCell(cell Cell) (player Player, ok bool) {
	switch cell {
	case CellBlack:
		return PlayerBlack, true
	case CellWhite:
		return PlayerWhite, true
	default:
		return PlayerBlack, false
	}
}
