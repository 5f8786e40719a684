package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thekrainbow/connect6/internal/ai"
	"github.com/thekrainbow/connect6/internal/game"
)

// Game is one session: the board, who plays each colour and the AI scheduling around it.
// It is not safe for concurrent use; GameController serialises access.
type Game struct {
	settings    GameSettings
	state       *game.GameState
	blackPlayer IPlayer
	whitePlayer IPlayer
	hintLevel   ai.Difficulty
	cache       *ai.MoveCache
	paused      bool
	turnStart   time.Time
	publish     func(wsMessage)
}

func NewGame(settings GameSettings, cache *ai.MoveCache) *Game {
	g := &Game{
		state: game.NewGameState(),
		cache: cache,
	}
	g.state.Subscribe(game.ObserverFuncs{
		OnBoardChanged:  g.onBoardChanged,
		OnStatusChanged: g.onStatusChanged,
		OnMoveMade:      g.onMoveMade,
	})
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.stopAI()
	g.settings = settings
	g.paused = false
	g.createPlayers()
	g.turnStart = time.Now()
	g.state.Reset()
	g.logMatchup()
}

// UpdateSettings swaps players and difficulties while keeping the position.
func (g *Game) UpdateSettings(settings GameSettings) {
	g.stopAI()
	g.settings = settings
	g.createPlayers()
	g.turnStart = time.Now()
	g.onStatusChanged(g.state.Status())
}

func (g *Game) TryApplyMove(move game.Move) error {
	if g.state.Status().IsTerminal() {
		return ErrGameOver
	}
	player := g.state.CurrentPlayer()
	isAi := !g.currentPlayer().IsHuman()
	previousStart := g.turnStart
	elapsed := time.Since(previousStart)
	g.turnStart = time.Now()
	if !g.state.AttemptMove(move.Row, move.Col, player) {
		g.turnStart = previousStart
		return fmt.Errorf("%w: %s at %v", ErrIllegalMove, player, move)
	}
	log.Info().
		Str("player", player.String()).
		Stringer("move", move).
		Bool("ai", isAi).
		Int64("elapsed_ms", elapsed.Milliseconds()).
		Str("status", g.state.Status().String()).
		Msg("move played")
	return nil
}

// Tick advances the session by at most one move: a buffered human click, or a finished AI
// search once the configured delay has passed. It starts a search when an AI is to move.
func (g *Game) Tick(now time.Time) bool {
	if g.state.Status().IsTerminal() {
		return false
	}
	switch player := g.currentPlayer().(type) {
	case *HumanPlayer:
		if !player.HasPendingMove() {
			return false
		}
		if err := g.TryApplyMove(player.TakePendingMove()); err != nil {
			log.Debug().Err(err).Msg("pending move rejected")
			return false
		}
		return true
	case *AIPlayer:
		if g.paused {
			return false
		}
		if !player.HasMoveReady() {
			player.StartThinking(g.state, g.state.CurrentPlayer())
			return false
		}
		if now.Sub(g.turnStart) < time.Duration(GetConfig().AiMoveDelayMs)*time.Millisecond {
			return false
		}
		move, key := player.TakeMove()
		if key != ai.HashState(g.state) {
			return false
		}
		if err := g.TryApplyMove(move); err != nil {
			log.Warn().Err(err).Msg("ai move rejected")
			return false
		}
		return true
	}
	return false
}

func (g *Game) SubmitHumanMove(move game.Move) bool {
	human, ok := g.currentPlayer().(*HumanPlayer)
	if !ok {
		return false
	}
	human.SetPendingMove(move)
	return true
}

// Undo takes back the last move. Against an AI it keeps undoing until a human is to move, so
// the AI does not immediately replay the move that was taken back.
func (g *Game) Undo() error {
	if g.state.MoveCount() == 0 {
		return ErrNothingToUndo
	}
	g.stopAI()
	g.state.UndoLastMove()
	if g.settings.Mode() == modeHumanVsAI && !g.CurrentPlayerIsHuman() && g.state.MoveCount() > 0 {
		g.state.UndoLastMove()
	}
	g.turnStart = time.Now()
	return nil
}

func (g *Game) SetPaused(paused bool) {
	if g.paused == paused {
		return
	}
	g.paused = paused
	if !paused {
		g.turnStart = time.Now()
	}
	g.onStatusChanged(g.state.Status())
}

// hintRequest validates that a hint may be given and returns a private copy of the position.
func (g *Game) hintRequest() (*game.GameState, game.Player, error) {
	if g.state.Status().IsTerminal() {
		return nil, 0, ErrGameOver
	}
	if g.settings.Mode() == modeAIVsAI || !g.CurrentPlayerIsHuman() {
		return nil, 0, fmt.Errorf("%w: %w", ErrHintUnavailable, ErrNotHumanTurn)
	}
	return g.state.Clone(), g.state.CurrentPlayer(), nil
}

func (g *Game) WeakHint() (game.Move, error) {
	if _, _, err := g.hintRequest(); err != nil {
		return game.NoMove, err
	}
	return g.state.Hint(), nil
}

// Load replaces the position with the replay of text. On failure the board is left empty.
func (g *Game) Load(text string) error {
	g.stopAI()
	g.turnStart = time.Now()
	if !g.state.Deserialize(text) {
		return ErrInvalidGame
	}
	return nil
}

func (g *Game) Serialize() string {
	return g.state.Serialize()
}

func (g *Game) CurrentPlayerIsHuman() bool {
	player := g.currentPlayer()
	return player != nil && player.IsHuman()
}

func (g *Game) AiThinking() bool {
	if player, ok := g.currentPlayer().(*AIPlayer); ok {
		return player.IsThinking()
	}
	return false
}

func (g *Game) currentPlayer() IPlayer {
	return g.playerForColor(g.state.CurrentPlayer())
}

func (g *Game) playerForColor(color game.Player) IPlayer {
	if color == game.PlayerBlack {
		return g.blackPlayer
	}
	return g.whitePlayer
}

func (g *Game) createPlayers() {
	var cache *ai.MoveCache
	if GetConfig().UseMoveCache {
		cache = g.cache
	}
	// An AI seat keeps its AIPlayer so a stopped search still blocks the next one.
	newPlayer := func(color game.Player, current IPlayer) IPlayer {
		if g.settings.typeFor(color) == PlayerHuman {
			return NewHumanPlayer()
		}
		if player, ok := current.(*AIPlayer); ok {
			player.Configure(g.settings.difficultyFor(color), cache)
			return player
		}
		return NewAIPlayer(g.settings.difficultyFor(color), cache)
	}
	g.blackPlayer = newPlayer(game.PlayerBlack, g.blackPlayer)
	g.whitePlayer = newPlayer(game.PlayerWhite, g.whitePlayer)

	// Hints play at the opponent AI's level, or Black's level without one.
	g.hintLevel = g.settings.BlackDifficulty
	if g.settings.WhiteType == PlayerAI && g.settings.BlackType == PlayerHuman {
		g.hintLevel = g.settings.WhiteDifficulty
	}
}

func (g *Game) stopAI() {
	for _, p := range []IPlayer{g.blackPlayer, g.whitePlayer} {
		if player, ok := p.(*AIPlayer); ok {
			player.StopThinking()
		}
	}
}

func (g *Game) logMatchup() {
	label := func(color game.Player) string {
		if g.settings.typeFor(color) == PlayerAI {
			return "ai:" + g.settings.difficultyFor(color).String()
		}
		return "human"
	}
	log.Info().
		Str("mode", g.settings.Mode()).
		Str("black", label(game.PlayerBlack)).
		Str("white", label(game.PlayerWhite)).
		Msg("new game")
}

func (g *Game) emit(kind string, payload any) {
	if g.publish == nil {
		return
	}
	g.publish(wsMessage{Type: kind, Payload: mustMarshal(payload)})
}

func (g *Game) onBoardChanged() {
	g.emit("board", boardPayload{
		Board:      boardToSlice(g.state),
		NextPlayer: playerToInt(g.state.CurrentPlayer()),
		MoveCount:  g.state.MoveCount(),
	})
}

func (g *Game) onStatusChanged(game.GameStatus) {
	g.emit("status", g.status())
}

func (g *Game) onMoveMade(move game.Move, player game.Player) {
	g.emit("move", movePayload{
		Row:       move.Row,
		Col:       move.Col,
		Player:    playerToInt(player),
		MoveCount: g.state.MoveCount(),
	})
}

func (g *Game) status() StatusResponse {
	history := g.state.History()
	entries := make([]historyEntryDTO, 0, len(history))
	for _, entry := range history {
		entries = append(entries, historyEntryToDTO(entry))
	}
	return StatusResponse{
		Settings:        controllerSettingsDTO(g.settings),
		Config:          GetConfig(),
		Board:           boardToSlice(g.state),
		NextPlayer:      playerToInt(g.state.CurrentPlayer()),
		Winner:          winnerFromStatus(g.state.Status()),
		Status:          g.state.Status().String(),
		MoveCount:       g.state.MoveCount(),
		History:         entries,
		WinningLine:     g.state.WinningLine(),
		Paused:          g.paused,
		AiThinking:      g.AiThinking(),
		TurnStartedAtMs: g.turnStart.UnixMilli(),
	}
}
