package main

import "github.com/thekrainbow/connect6/internal/game"

// HumanPlayer buffers a move clicked over the websocket until the next tick applies it.
type HumanPlayer struct {
	pending     bool
	pendingMove game.Move
}

func NewHumanPlayer() *HumanPlayer {
	return &HumanPlayer{}
}

func (h *HumanPlayer) IsHuman() bool {
	return true
}

func (h *HumanPlayer) SetPendingMove(move game.Move) {
	h.pendingMove = move
	h.pending = true
}

func (h *HumanPlayer) HasPendingMove() bool {
	return h.pending
}

func (h *HumanPlayer) TakePendingMove() game.Move {
	h.pending = false
	return h.pendingMove
}
