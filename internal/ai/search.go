package ai

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thekrainbow/connect6/internal/game"
)

// Engine picks moves with a fixed-depth alpha-beta minimax. An Engine holds no per-search
// state, so one value may serve several goroutines as long as SetDifficulty is not called
// concurrently with BestMove.
type Engine struct {
	difficulty Difficulty
	cache      *MoveCache
}

func NewEngine(difficulty Difficulty) *Engine {
	return &Engine{difficulty: difficulty}
}

func (e *Engine) SetDifficulty(difficulty Difficulty) {
	e.difficulty = difficulty
}

func (e *Engine) Difficulty() Difficulty {
	return e.difficulty
}

// SetCache attaches a root-result memo shared across searches; nil disables it.
func (e *Engine) SetCache(cache *MoveCache) {
	e.cache = cache
}

type scoredMove struct {
	move  game.Move
	score int
}

// BestMove searches state for player and returns the chosen move, or game.NoMove when the
// board has no empty cell. state is never modified.
func (e *Engine) BestMove(state *game.GameState, player game.Player) game.Move {
	start := time.Now()
	depth := e.difficulty.Depth()
	log.Debug().
		Str("player", player.String()).
		Str("difficulty", e.difficulty.String()).
		Int("depth", depth).
		Msg("engine search")

	var key uint64
	if e.cache != nil {
		key = HashState(state)
		if move, ok := e.cache.Probe(key, player, depth); ok {
			log.Debug().
				Str("player", player.String()).
				Str("difficulty", e.difficulty.String()).
				Stringer("move", move).
				Msg("engine cache hit")
			return move
		}
	}

	move, score, evaluated := searchRoot(state, player, depth)
	if e.cache != nil && move.IsValid() {
		e.cache.Store(key, player, depth, move)
	}

	log.Info().
		Str("player", player.String()).
		Str("difficulty", e.difficulty.String()).
		Stringer("move", move).
		Int("score", score).
		Int("candidates", evaluated).
		Int64("elapsed_ms", time.Since(start).Milliseconds()).
		Msg("engine move")
	return move
}

func searchRoot(state *game.GameState, player game.Player, depth int) (game.Move, int, int) {
	work := state.Clone()
	opponent := game.OtherPlayer(player)
	alpha, beta := -evalInf, evalInf
	bestMove := game.NoMove
	bestScore := math.MinInt
	evaluated := 0

	for _, candidate := range orderMoves(work, player) {
		if !work.AttemptMove(candidate.Row, candidate.Col, player) {
			continue
		}
		score := -minimax(work, depth-1, -beta, -alpha, false, opponent)
		work.UndoLastMove()
		evaluated++

		log.Debug().
			Str("player", player.String()).
			Stringer("move", candidate).
			Int("score", score).
			Msg("root candidate")

		if score > bestScore {
			bestScore = score
			bestMove = candidate
		}
		alpha = max(alpha, score)
		if alpha >= beta {
			break
		}
	}
	return bestMove, bestScore, evaluated
}

// minimax scores state from player's perspective, player being the side to place next.
// Each invocation works on its own copy of the position and undoes its trial moves on it.
func minimax(state *game.GameState, depth, alpha, beta int, maximizing bool, player game.Player) int {
	if depth == 0 || state.Status() != game.StatusInProgress {
		board := state.Board()
		return EvaluateBoard(&board, player)
	}

	work := state.Clone()
	opponent := game.OtherPlayer(player)
	moves := orderMoves(work, player)

	if maximizing {
		best := -evalInf
		for _, m := range moves {
			if !work.AttemptMove(m.Row, m.Col, player) {
				continue
			}
			score := minimax(work, depth-1, alpha, beta, false, opponent)
			work.UndoLastMove()
			best = max(best, score)
			alpha = max(alpha, score)
			if alpha >= beta {
				return best
			}
		}
		return best
	}

	best := evalInf
	for _, m := range moves {
		if !work.AttemptMove(m.Row, m.Col, player) {
			continue
		}
		score := minimax(work, depth-1, alpha, beta, true, opponent)
		work.UndoLastMove()
		best = min(best, score)
		beta = min(beta, score)
		if alpha >= beta {
			return best
		}
	}
	return best
}

// orderMoves returns the empty cells sorted by EvaluateMove for player, best first. Ties keep
// row-major order.
func orderMoves(state *game.GameState, player game.Player) []game.Move {
	board := state.Board()
	valid := state.ValidMoves()
	scored := make([]scoredMove, len(valid))
	for i, m := range valid {
		scored[i] = scoredMove{move: m, score: EvaluateMove(&board, m.Row, m.Col, player)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	ordered := make([]game.Move, len(scored))
	for i, s := range scored {
		ordered[i] = s.move
	}
	return ordered
}
