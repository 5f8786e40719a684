package ai

import (
	"math"

	"github.com/thekrainbow/connect6/internal/game"
)

// Search scores stay inside ±evalInf so negating a window bound never overflows.
const evalInf = math.MaxInt32

// Pattern scores, indexed by run length and open ends.
const (
	scoreSix         = 100000
	scoreFiveOpen    = 50000
	scoreOpenFour    = 10000
	scoreClosedFour  = 5000
	scoreOpenThree   = 1000
	scoreClosedThree = 500
	scoreOpenTwo     = 100
	scoreClosedTwo   = 50
)

// The eight half-directions, each geometric axis once per sign.
var halfDirections = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}

// ScoreAxis rates player's formation through (row, col) along (dRow, dCol). The cell itself is
// not inspected and always counts as one stone. Each side is walked until an opposing stone,
// the board edge, a same-colour stone after a gap, or a third empty cell; only stones before
// the first gap extend the run, and the first empty cell on a side counts as an open end.
func ScoreAxis(board *game.Board, row, col, dRow, dCol int, player game.Player) int {
	me := game.CellFromPlayer(player)
	count := 1
	openEnds := 0
	blocked := false

	for _, sign := range [2]int{1, -1} {
		spaces := 0
		r := row + sign*dRow
		c := col + sign*dCol
		for game.InBounds(r, c) && spaces <= 2 {
			cell := board[r][c]
			if cell == me {
				if spaces != 0 {
					break
				}
				count++
			} else if cell == game.CellEmpty {
				spaces++
				if spaces == 1 {
					openEnds++
				}
			} else {
				blocked = true
				break
			}
			r += sign * dRow
			c += sign * dCol
		}
	}

	if count >= 6 {
		return scoreSix
	}
	score := 0
	switch {
	case count == 5 && openEnds > 0:
		score = scoreFiveOpen
	case count == 4 && openEnds == 2:
		score = scoreOpenFour
	case count == 4 && openEnds == 1:
		score = scoreClosedFour
	case count == 3 && openEnds == 2:
		score = scoreOpenThree
	case count == 3 && openEnds == 1:
		score = scoreClosedThree
	case count == 2 && openEnds == 2:
		score = scoreOpenTwo
	case count == 2 && openEnds == 1:
		score = scoreClosedTwo
	}
	if blocked {
		score /= 2
	}
	return score
}

func sumHalfDirections(board *game.Board, row, col int, player game.Player) int {
	total := 0
	for _, d := range halfDirections {
		total += ScoreAxis(board, row, col, d[0], d[1], player)
	}
	return total
}

// EvaluateBoard scores the position from player's point of view: a bonus for stones in the
// 5x5 centre window, plus, through each of player's stones, player's patterns minus twice the
// opponent's patterns. Opponent stones are only seen through the cells player occupies.
func EvaluateBoard(board *game.Board, player game.Player) int {
	me := game.CellFromPlayer(player)
	opponent := game.OtherPlayer(player)
	center := game.Size / 2
	score := 0

	for i := -2; i <= 2; i++ {
		for j := -2; j <= 2; j++ {
			if board[center+i][center+j] == me {
				score += (3 - max(abs(i), abs(j))) * 10
			}
		}
	}

	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			if board[row][col] != me {
				continue
			}
			score += sumHalfDirections(board, row, col, player)
			score -= 2 * sumHalfDirections(board, row, col, opponent)
		}
	}
	return score
}

// EvaluateMove is the move-ordering heuristic. It temporarily places player's stone at
// (row, col), restoring the board before returning; an occupied cell scores -evalInf.
func EvaluateMove(board *game.Board, row, col int, player game.Player) int {
	if !board.IsEmpty(row, col) {
		return -evalInf
	}
	center := game.Size / 2
	distance := max(abs(row-center), abs(col-center))
	score := (center - distance) * 10

	opponent := game.OtherPlayer(player)
	board[row][col] = game.CellFromPlayer(player)
	for _, d := range halfDirections {
		score += ScoreAxis(board, row, col, d[0], d[1], player)
		score += ScoreAxis(board, row, col, d[0], d[1], opponent) / 2
	}
	board[row][col] = game.CellEmpty
	return score
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
