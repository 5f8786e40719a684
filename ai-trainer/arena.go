package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"

	"github.com/thekrainbow/connect6/internal/ai"
	"github.com/thekrainbow/connect6/internal/game"
)

const initialElo = 1500

type contender struct {
	ID         string
	Difficulty ai.Difficulty
	Elo        float64
	Wins       int
	Losses     int
	Draws      int
	engine     *ai.Engine
}

type arena struct {
	cfg        arenaConfig
	rng        *rand.Rand
	out        *termenv.Output
	contenders []*contender
	played     int
}

func newArena(cfg arenaConfig, out *termenv.Output) *arena {
	return &arena{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		out: out,
		contenders: []*contender{
			newContender("p0", cfg.Black),
			newContender("p1", cfg.White),
		},
	}
}

func newContender(id string, d ai.Difficulty) *contender {
	return &contender{
		ID:         fmt.Sprintf("%s-%s", id, d),
		Difficulty: d,
		Elo:        initialElo,
		engine:     ai.NewEngine(d),
	}
}

func (a *arena) run(ctx context.Context) error {
	if a.cfg.TranscriptDir != "" {
		if err := os.MkdirAll(a.cfg.TranscriptDir, 0o755); err != nil {
			return fmt.Errorf("create transcript dir: %w", err)
		}
	}
	for i := 0; i < a.cfg.Games; i++ {
		black, white := a.contenders[i%2], a.contenders[(i+1)%2]
		started := time.Now()
		state, err := a.playGame(ctx, black, white)
		if err != nil {
			return fmt.Errorf("game %d: %w", i+1, err)
		}
		a.recordResult(black, white, state.Status())
		a.played++

		log.Info().
			Int("game", i+1).
			Str("black", black.ID).
			Str("white", white.ID).
			Str("result", state.Status().String()).
			Int("moves", state.MoveCount()).
			Int64("elapsed_ms", time.Since(started).Milliseconds()).
			Msg("game finished")

		if a.cfg.ShowBoards {
			fmt.Fprintf(a.out, "game %d: %s (X) vs %s (O), %s\n", i+1, black.ID, white.ID, state.Status())
			fmt.Fprintln(a.out, renderBoard(a.out, state))
		}
		if a.cfg.TranscriptDir != "" {
			state.SaveFile(filepath.Join(a.cfg.TranscriptDir, fmt.Sprintf("game_%03d.game", i+1)))
		}
	}
	return nil
}

// playGame randomises the opening then lets both engines play until the game is decided.
func (a *arena) playGame(ctx context.Context, black, white *contender) (*game.GameState, error) {
	state := game.NewGameState()
	for ply := 0; ply < a.cfg.OpeningPlies && !state.Status().IsTerminal(); ply++ {
		move := ai.RandomMove(state, a.rng)
		if !state.AttemptMove(move.Row, move.Col, state.CurrentPlayer()) {
			return state, fmt.Errorf("opening move %s rejected", move)
		}
	}
	for !state.Status().IsTerminal() {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		side := state.CurrentPlayer()
		seat := black
		if side == game.PlayerWhite {
			seat = white
		}
		move := seat.engine.BestMove(state, side)
		if !move.IsValid() {
			break
		}
		if !state.AttemptMove(move.Row, move.Col, side) {
			return state, fmt.Errorf("%s played illegal move %s", seat.ID, move)
		}
	}
	return state, nil
}

func (a *arena) recordResult(black, white *contender, status game.GameStatus) {
	result := 0.5
	switch status {
	case game.StatusBlackWon:
		result = 1
		black.Wins++
		white.Losses++
	case game.StatusWhiteWon:
		result = 0
		white.Wins++
		black.Losses++
	default:
		black.Draws++
		white.Draws++
	}
	updateElo(black, white, result, a.cfg.EloK)
}

func (a *arena) logStandings() {
	standings := make([]*contender, len(a.contenders))
	copy(standings, a.contenders)
	sortContendersByElo(standings)
	for rank, c := range standings {
		log.Info().
			Int("rank", rank+1).
			Str("id", c.ID).
			Str("elo", fmt.Sprintf("%.1f", c.Elo)).
			Int("wins", c.Wins).
			Int("losses", c.Losses).
			Int("draws", c.Draws).
			Msg("standing")
	}
	log.Info().Int("games", a.played).Msg("arena finished")
}

func sortContendersByElo(list []*contender) {
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			if list[j].Elo > list[i].Elo {
				list[i], list[j] = list[j], list[i]
			}
		}
	}
}

func updateElo(a *contender, b *contender, resultForA float64, k float64) {
	expA := 1.0 / (1.0 + math.Pow(10, (b.Elo-a.Elo)/400.0))
	expB := 1.0 / (1.0 + math.Pow(10, (a.Elo-b.Elo)/400.0))
	a.Elo += k * (resultForA - expA)
	b.Elo += k * ((1.0 - resultForA) - expB)
}
