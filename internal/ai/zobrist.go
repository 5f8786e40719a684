package ai

import (
	"sync"

	"github.com/thekrainbow/connect6/internal/game"
)

type zobristTable struct {
	cells [game.Size * game.Size * 2]uint64
	side  uint64
}

var (
	zobristOnce  sync.Once
	zobristSeeds *zobristTable
)

func zobrist() *zobristTable {
	zobristOnce.Do(func() {
		rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(game.Size)}
		table := &zobristTable{}
		for i := range table.cells {
			table.cells[i] = rng.next()
		}
		table.side = rng.next()
		zobristSeeds = table
	})
	return zobristSeeds
}

func (z *zobristTable) stone(row, col int, cell game.Cell) uint64 {
	idx := (row*game.Size + col) * 2
	if cell == game.CellWhite {
		idx++
	}
	return z.cells[idx]
}

// HashState returns the Zobrist key of the stones on the board and the side to move.
func HashState(state *game.GameState) uint64 {
	z := zobrist()
	board := state.Board()
	var hash uint64
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			cell := board[row][col]
			if cell == game.CellEmpty {
				continue
			}
			hash ^= z.stone(row, col, cell)
		}
	}
	if state.CurrentPlayer() == game.PlayerWhite {
		hash ^= z.side
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
