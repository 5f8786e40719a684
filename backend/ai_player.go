package main

import (
	"sync"

	"github.com/thekrainbow/connect6/internal/ai"
	"github.com/thekrainbow/connect6/internal/game"
)

// AIPlayer runs one search at a time in the background. A search cannot be interrupted; a
// stopped search keeps the player busy until it finishes, and its result is dropped.
type AIPlayer struct {
	mu         sync.Mutex
	difficulty ai.Difficulty
	cache      *ai.MoveCache
	generation uint64
	thinking   bool
	moveReady  bool
	readyMove  game.Move
	readyKey   uint64
	bestMove   func(*ai.Engine, *game.GameState, game.Player) game.Move
}

func NewAIPlayer(difficulty ai.Difficulty, cache *ai.MoveCache) *AIPlayer {
	return &AIPlayer{difficulty: difficulty, cache: cache, bestMove: (*ai.Engine).BestMove}
}

// Configure changes the level and cache used by the next search.
func (a *AIPlayer) Configure(difficulty ai.Difficulty, cache *ai.MoveCache) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.difficulty = difficulty
	a.cache = cache
}

func (a *AIPlayer) IsHuman() bool {
	return false
}

func (a *AIPlayer) Difficulty() ai.Difficulty {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.difficulty
}

// StartThinking searches a private copy of state for player. It is a no-op while a search,
// stopped or not, is still running or a result is waiting to be taken.
func (a *AIPlayer) StartThinking(state *game.GameState, player game.Player) {
	a.mu.Lock()
	if a.thinking || a.moveReady {
		a.mu.Unlock()
		return
	}
	a.generation++
	generation := a.generation
	a.thinking = true
	engine := ai.NewEngine(a.difficulty)
	engine.SetCache(a.cache)
	bestMove := a.bestMove
	a.mu.Unlock()

	snapshot := state.Clone()
	key := ai.HashState(snapshot)
	go func() {
		move := bestMove(engine, snapshot, player)
		a.mu.Lock()
		defer a.mu.Unlock()
		a.thinking = false
		if generation != a.generation {
			return
		}
		a.moveReady = true
		a.readyMove = move
		a.readyKey = key
	}()
}

func (a *AIPlayer) IsThinking() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.thinking
}

func (a *AIPlayer) HasMoveReady() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.moveReady
}

// TakeMove hands over the finished move and the hash of the position it was searched on.
func (a *AIPlayer) TakeMove() (game.Move, uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.moveReady = false
	return a.readyMove, a.readyKey
}

// StopThinking discards the running search's result and any move waiting to be taken.
func (a *AIPlayer) StopThinking() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.generation++
	a.moveReady = false
}
