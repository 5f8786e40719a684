package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/thekrainbow/connect6/internal/ai"
	"github.com/thekrainbow/connect6/internal/game"
)

func humanSettings() GameSettings {
	settings := DefaultGameSettings(ai.DifficultyMedium)
	settings.BlackType = PlayerHuman
	settings.WhiteType = PlayerHuman
	return settings
}

func easyVsHuman() GameSettings {
	settings := DefaultGameSettings(ai.DifficultyEasy)
	settings.BlackType = PlayerHuman
	settings.WhiteType = PlayerAI
	return settings
}

func tickUntil(t *testing.T, controller *GameController, timeout time.Duration, done func(StatusResponse) bool) StatusResponse {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		controller.Tick()
		if status := controller.Status(); done(status) {
			return status
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached within %v", timeout)
	return StatusResponse{}
}

func mustApply(t *testing.T, controller *GameController, row, col int) {
	t.Helper()
	if err := controller.ApplyHumanMove(game.NewMove(row, col)); err != nil {
		t.Fatalf("move (%d,%d) rejected: %v", row, col, err)
	}
}

func TestHumanVsHumanAlternatesAndRejectsIllegalMoves(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(humanSettings(), nil)

	mustApply(t, controller, 7, 7)
	status := controller.Status()
	if status.NextPlayer != 2 || status.MoveCount != 1 || status.Board[7][7] != 1 {
		t.Fatalf("unexpected status after first move: %+v", status)
	}
	if err := controller.ApplyHumanMove(game.NewMove(7, 7)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for occupied cell, got %v", err)
	}
	if err := controller.ApplyHumanMove(game.NewMove(15, 0)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for out-of-range cell, got %v", err)
	}
}

func TestHumanMoveRejectedOnAITurn(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(easyVsHuman(), nil)

	mustApply(t, controller, 7, 7)
	if err := controller.ApplyHumanMove(game.NewMove(0, 0)); !errors.Is(err, ErrNotHumanTurn) {
		t.Fatalf("expected ErrNotHumanTurn, got %v", err)
	}
}

func TestAIRespondsOnTick(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(easyVsHuman(), nil)

	mustApply(t, controller, 7, 7)
	status := tickUntil(t, controller, 5*time.Second, func(s StatusResponse) bool { return s.MoveCount == 2 })
	if status.NextPlayer != 1 {
		t.Fatalf("expected black to move after AI reply, got %d", status.NextPlayer)
	}
	if len(status.History) != 2 || status.History[1].Player != 2 {
		t.Fatalf("unexpected history %+v", status.History)
	}
}

func TestAIMoveWaitsForDelay(t *testing.T) {
	cfg := useTestConfig(t)
	cfg.AiMoveDelayMs = 60000
	configStore.Update(cfg)
	controller := NewGameController(easyVsHuman(), nil)

	mustApply(t, controller, 7, 7)
	deadline := time.Now().Add(300 * time.Millisecond)
	for time.Now().Before(deadline) {
		if controller.Tick() {
			t.Fatalf("AI moved before the configured delay")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPauseStopsAIVsAI(t *testing.T) {
	useTestConfig(t)
	settings := DefaultGameSettings(ai.DifficultyEasy)
	settings.BlackType = PlayerAI
	settings.WhiteType = PlayerAI
	controller := NewGameController(settings, nil)
	controller.SetPaused(true)

	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		controller.Tick()
		time.Sleep(5 * time.Millisecond)
	}
	if status := controller.Status(); status.MoveCount != 0 || !status.Paused {
		t.Fatalf("paused game advanced: %+v", status)
	}

	controller.SetPaused(false)
	tickUntil(t, controller, 5*time.Second, func(s StatusResponse) bool { return s.MoveCount >= 2 })
}

func TestUndoAgainstAIReturnsToHumanTurn(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(easyVsHuman(), nil)

	mustApply(t, controller, 7, 7)
	tickUntil(t, controller, 5*time.Second, func(s StatusResponse) bool { return s.MoveCount == 2 })

	if err := controller.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	status := controller.Status()
	if status.MoveCount != 0 || status.NextPlayer != 1 {
		t.Fatalf("expected empty board with black to move, got %+v", status)
	}
	if err := controller.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Fatalf("expected ErrNothingToUndo, got %v", err)
	}
}

func TestUndoHumanVsHumanTakesOneMove(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(humanSettings(), nil)
	mustApply(t, controller, 7, 7)
	mustApply(t, controller, 7, 8)

	if err := controller.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if status := controller.Status(); status.MoveCount != 1 || status.NextPlayer != 2 {
		t.Fatalf("expected one move left with white to move, got %+v", status)
	}
}

func TestLoadInvalidTextLeavesEmptyBoard(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(humanSettings(), nil)
	mustApply(t, controller, 7, 7)

	if err := controller.Load("B 0 0\nB 0 1\n"); !errors.Is(err, ErrInvalidGame) {
		t.Fatalf("expected ErrInvalidGame, got %v", err)
	}
	if _, count, status := controller.Snapshot(); count != 0 || status != game.StatusInProgress {
		t.Fatalf("expected empty in-progress board, got %d moves, %v", count, status)
	}
}

func TestSnapshotLoadRoundTrip(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(humanSettings(), nil)
	mustApply(t, controller, 7, 7)
	mustApply(t, controller, 3, 4)
	mustApply(t, controller, 8, 8)
	text, _, _ := controller.Snapshot()

	controller.Reset()
	if err := controller.Load(text); err != nil {
		t.Fatalf("load: %v", err)
	}
	if again, count, _ := controller.Snapshot(); again != text || count != 3 {
		t.Fatalf("round trip mismatch: %q (%d moves), want %q", again, count, text)
	}
}

func playFiveInRow(t *testing.T, controller *GameController) {
	t.Helper()
	black := []game.Move{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}, {Row: 0, Col: 4}}
	white := []game.Move{{Row: 0, Col: 6}, {Row: 14, Col: 14}, {Row: 14, Col: 0}, {Row: 8, Col: 14}, {Row: 14, Col: 8}}
	for i := range black {
		mustApply(t, controller, black[i].Row, black[i].Col)
		mustApply(t, controller, white[i].Row, white[i].Col)
	}
}

func TestStrongHintFindsWinAndRestoresLevel(t *testing.T) {
	cfg := useTestConfig(t)
	cfg.StrongHintDifficulty = ai.DifficultyEasy
	configStore.Update(cfg)
	controller := NewGameController(humanSettings(), nil)
	playFiveInRow(t, controller)

	move, err := controller.StrongHint(context.Background())
	if err != nil {
		t.Fatalf("strong hint: %v", err)
	}
	if move != (game.Move{Row: 0, Col: 5}) {
		t.Fatalf("strong hint = %v, want (0,5)", move)
	}
	if got := controller.hintEngine.Difficulty(); got != ai.DifficultyMedium {
		t.Fatalf("hint engine left at %v, want medium", got)
	}
	if _, count, _ := controller.Snapshot(); count != 10 {
		t.Fatalf("hint must not play a move, board has %d moves", count)
	}
}

func TestHintsUnavailableWhenAIToMove(t *testing.T) {
	useTestConfig(t)
	settings := DefaultGameSettings(ai.DifficultyEasy)
	settings.BlackType = PlayerAI
	settings.WhiteType = PlayerAI
	controller := NewGameController(settings, nil)

	if _, err := controller.StrongHint(context.Background()); !errors.Is(err, ErrHintUnavailable) {
		t.Fatalf("expected ErrHintUnavailable, got %v", err)
	}
	if _, err := controller.WeakHint(); !errors.Is(err, ErrNotHumanTurn) {
		t.Fatalf("expected ErrNotHumanTurn, got %v", err)
	}
}

func TestWeakHintPrefersCentre(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(humanSettings(), nil)
	move, err := controller.WeakHint()
	if err != nil || move != (game.Move{Row: 7, Col: 7}) {
		t.Fatalf("weak hint = %v, %v", move, err)
	}
	mustApply(t, controller, 7, 7)
	move, err = controller.WeakHint()
	if err != nil || move != (game.Move{Row: 0, Col: 0}) {
		t.Fatalf("weak hint after centre = %v, %v", move, err)
	}
}

func TestPublisherReceivesMoveBoardStatus(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(humanSettings(), nil)
	var kinds []string
	controller.SetPublisher(func(msg wsMessage) { kinds = append(kinds, msg.Type) })

	mustApply(t, controller, 7, 7)
	want := []string{"move", "board", "status"}
	if len(kinds) != len(want) {
		t.Fatalf("published %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("published %v, want %v", kinds, want)
		}
	}
}

func TestClickedMoveAppliedOnTick(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(humanSettings(), nil)
	if !controller.OnCellClicked(7, 7) {
		t.Fatalf("click rejected on human turn")
	}
	if controller.Status().MoveCount != 0 {
		t.Fatalf("click must wait for the next tick")
	}
	if !controller.Tick() {
		t.Fatalf("tick did not apply the clicked move")
	}
	if status := controller.Status(); status.MoveCount != 1 || status.Board[7][7] != 1 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestUpdateSettingsSwitchToAIVsAIKeepsBoardAndContinuesGame(t *testing.T) {
	useTestConfig(t)
	controller := NewGameController(humanSettings(), nil)
	mustApply(t, controller, 9, 9)
	mustApply(t, controller, 10, 9)

	updated := controller.Settings()
	updated.BlackType = PlayerAI
	updated.WhiteType = PlayerAI
	updated.BlackDifficulty = ai.DifficultyEasy
	updated.WhiteDifficulty = ai.DifficultyEasy
	controller.UpdateSettings(updated)

	status := controller.Status()
	if status.Board[9][9] != 1 || status.Board[10][9] != 2 || status.MoveCount != 2 {
		t.Fatalf("expected board to be preserved when switching player types")
	}
	if status.Settings.Mode != modeAIVsAI {
		t.Fatalf("expected ai_vs_ai, got %s", status.Settings.Mode)
	}
	tickUntil(t, controller, 5*time.Second, func(s StatusResponse) bool { return s.MoveCount > 2 })
}
