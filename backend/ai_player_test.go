package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/thekrainbow/connect6/internal/ai"
	"github.com/thekrainbow/connect6/internal/game"
)

func waitForMove(t *testing.T, player *AIPlayer) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !player.HasMoveReady() {
		if time.Now().After(deadline) {
			t.Fatalf("AI did not finish thinking")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAIPlayerThinksInBackground(t *testing.T) {
	state := game.NewGameState()
	state.AttemptMove(7, 7, game.PlayerBlack)
	player := NewAIPlayer(ai.DifficultyEasy, nil)

	player.StartThinking(state, game.PlayerWhite)
	waitForMove(t, player)
	if player.IsThinking() {
		t.Fatalf("player still thinking after result")
	}
	move, key := player.TakeMove()
	if key != ai.HashState(state) {
		t.Fatalf("result keyed to a different position")
	}
	if !state.IsValidMove(move.Row, move.Col) {
		t.Fatalf("AI chose occupied cell %v", move)
	}
	if player.HasMoveReady() {
		t.Fatalf("TakeMove must clear the ready flag")
	}
	if state.MoveCount() != 1 {
		t.Fatalf("search mutated the live game")
	}
}

func waitUntilIdle(t *testing.T, player *AIPlayer) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for player.IsThinking() {
		if time.Now().After(deadline) {
			t.Fatalf("search did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestAIPlayerStopDropsResult(t *testing.T) {
	state := game.NewGameState()
	player := NewAIPlayer(ai.DifficultyEasy, nil)

	player.StartThinking(state, game.PlayerBlack)
	player.StopThinking()
	waitUntilIdle(t, player)
	if player.HasMoveReady() {
		t.Fatalf("stopped search must not publish a move")
	}

	player.StartThinking(state, game.PlayerBlack)
	waitForMove(t, player)
	if move, _ := player.TakeMove(); move != (game.Move{Row: 7, Col: 7}) {
		t.Fatalf("expected centre opening, got %v", move)
	}
}

func TestAIPlayerRunsOneSearchAtATime(t *testing.T) {
	state := game.NewGameState()
	player := NewAIPlayer(ai.DifficultyHard, nil)
	release := make(chan struct{})
	var calls atomic.Int32
	player.bestMove = func(_ *ai.Engine, _ *game.GameState, _ game.Player) game.Move {
		calls.Add(1)
		<-release
		return game.NewMove(7, 7)
	}

	player.StartThinking(state, game.PlayerBlack)
	player.StopThinking()
	player.StartThinking(state, game.PlayerBlack)
	if !player.IsThinking() {
		t.Fatalf("stopped search must keep the player busy until it returns")
	}

	close(release)
	waitUntilIdle(t, player)
	if got := calls.Load(); got != 1 {
		t.Fatalf("searches started = %d, want 1", got)
	}
	if player.HasMoveReady() {
		t.Fatalf("stopped search must not publish a move")
	}

	player.StartThinking(state, game.PlayerBlack)
	waitForMove(t, player)
	if got := calls.Load(); got != 2 {
		t.Fatalf("searches started = %d, want 2", got)
	}
}

func TestResetKeepsAIPlayerAndUpdatesLevel(t *testing.T) {
	useTestConfig(t)
	g := NewGame(easyVsHuman(), nil)
	before, ok := g.whitePlayer.(*AIPlayer)
	if !ok {
		t.Fatalf("white should be an AI player")
	}

	settings := easyVsHuman()
	settings.WhiteDifficulty = ai.DifficultyMedium
	g.Reset(settings)
	after, ok := g.whitePlayer.(*AIPlayer)
	if !ok || after != before {
		t.Fatalf("reset must keep the AI seat's player")
	}
	if got := after.Difficulty(); got != ai.DifficultyMedium {
		t.Fatalf("difficulty = %v, want medium", got)
	}
}

func TestAIPlayerSharesCache(t *testing.T) {
	cache := ai.NewMoveCache(64)
	state := game.NewGameState()
	first := NewAIPlayer(ai.DifficultyEasy, cache)
	first.StartThinking(state, game.PlayerBlack)
	waitForMove(t, first)

	second := NewAIPlayer(ai.DifficultyEasy, cache)
	second.StartThinking(state, game.PlayerBlack)
	waitForMove(t, second)

	a, _ := first.TakeMove()
	b, _ := second.TakeMove()
	if a != b {
		t.Fatalf("cached move %v differs from searched %v", b, a)
	}
	if stats := cache.Stats(); stats.Hits != 1 {
		t.Fatalf("expected one cache hit, got %+v", stats)
	}
}
