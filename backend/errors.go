package main

import "errors"

var (
	ErrNotHumanTurn    = errors.New("not human turn")
	ErrGameOver        = errors.New("game is over")
	ErrIllegalMove     = errors.New("illegal move")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrHintUnavailable = errors.New("hint unavailable")
	ErrInvalidGame     = errors.New("invalid game record")
)
