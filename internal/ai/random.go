package ai

import (
	"math/rand"

	"github.com/thekrainbow/connect6/internal/game"
)

// RandomMove picks a uniformly random empty cell, or game.NoMove on a full board.
func RandomMove(state *game.GameState, rng *rand.Rand) game.Move {
	moves := state.ValidMoves()
	if len(moves) == 0 {
		return game.NoMove
	}
	return moves[rng.Intn(len(moves))]
}
