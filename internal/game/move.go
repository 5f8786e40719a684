package game

import "fmt"

type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoMove is returned when no legal move exists.
var NoMove = Move{Row: -1, Col: -1}

func NewMove(row, col int) Move {
	return Move{Row: row, Col: col}
}

func (m Move) IsValid() bool {
	return InBounds(m.Row, m.Col)
}

func (m Move) Equals(other Move) bool {
	return m.Row == other.Row && m.Col == other.Col
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}
