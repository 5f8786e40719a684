package main

import (
	"context"
	"sync"
	"time"

	"github.com/thekrainbow/connect6/internal/ai"
	"github.com/thekrainbow/connect6/internal/game"
)

type GameController struct {
	mu         sync.Mutex
	game       *Game
	hintMu     sync.Mutex
	hintEngine *ai.Engine
}

func NewGameController(settings GameSettings, cache *ai.MoveCache) *GameController {
	return &GameController{
		game:       NewGame(settings, cache),
		hintEngine: ai.NewEngine(settings.BlackDifficulty),
	}
}

// SetPublisher routes board, move and status notifications. publisher runs with the
// controller lock held and must not call back into the controller.
func (gc *GameController) SetPublisher(publisher func(wsMessage)) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.publish = publisher
}

func (gc *GameController) OnCellClicked(row, col int) bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.SubmitHumanMove(game.NewMove(row, col))
}

func (gc *GameController) ApplyHumanMove(move game.Move) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if gc.game.state.Status().IsTerminal() {
		return ErrGameOver
	}
	if !gc.game.CurrentPlayerIsHuman() {
		return ErrNotHumanTurn
	}
	return gc.game.TryApplyMove(move)
}

func (gc *GameController) Tick() bool {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Tick(time.Now())
}

func (gc *GameController) Status() StatusResponse {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.status()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.settings
}

func (gc *GameController) StartGame(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(settings)
}

func (gc *GameController) Reset() {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.Reset(gc.game.settings)
}

func (gc *GameController) UpdateSettings(settings GameSettings) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.UpdateSettings(settings)
}

func (gc *GameController) Undo() error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Undo()
}

func (gc *GameController) SetPaused(paused bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.game.SetPaused(paused)
}

func (gc *GameController) WeakHint() (game.Move, error) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.WeakHint()
}

// StrongHint searches the current position with the hint engine raised to the configured
// strong level, then restores its level. The search runs without the controller lock; if ctx
// ends first the hint is abandoned.
func (gc *GameController) StrongHint(ctx context.Context) (game.Move, error) {
	gc.mu.Lock()
	snapshot, player, err := gc.game.hintRequest()
	baseLevel := gc.game.hintLevel
	var cache *ai.MoveCache
	if GetConfig().UseMoveCache {
		cache = gc.game.cache
	}
	gc.mu.Unlock()
	if err != nil {
		return game.NoMove, err
	}

	level := GetConfig().StrongHintDifficulty
	result := make(chan game.Move, 1)
	go func() {
		gc.hintMu.Lock()
		defer gc.hintMu.Unlock()
		engine := gc.hintEngine
		engine.SetCache(cache)
		engine.SetDifficulty(level)
		move := engine.BestMove(snapshot, player)
		engine.SetDifficulty(baseLevel)
		result <- move
	}()

	select {
	case move := <-result:
		return move, nil
	case <-ctx.Done():
		return game.NoMove, ctx.Err()
	}
}

// Snapshot returns the serialized game with its move count and status.
func (gc *GameController) Snapshot() (string, int, game.GameStatus) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Serialize(), gc.game.state.MoveCount(), gc.game.state.Status()
}

func (gc *GameController) Load(text string) error {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Load(text)
}
