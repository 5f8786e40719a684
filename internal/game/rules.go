package game

// Axes scanned by win detection, in the order they are tried.
var winAxes = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// IsValidMove reports whether (row, col) is on the board and empty, regardless of whose turn it is.
func (s *GameState) IsValidMove(row, col int) bool {
	return s.board.IsEmpty(row, col)
}

// AttemptMove places player's stone at (row, col). It fails, leaving the state untouched, when
// the cell is off the board or occupied, the game is over, or it is not player's turn.
func (s *GameState) AttemptMove(row, col int, player Player) bool {
	if !s.IsValidMove(row, col) || s.status != StatusInProgress || player != s.toMove {
		return false
	}
	move := Move{Row: row, Col: col}
	s.board[row][col] = CellFromPlayer(player)
	s.history.Push(HistoryEntry{Move: move, Player: player})

	if line, ok := FindWinningLine(&s.board, move, player); ok {
		s.status = winStatusFor(player)
		s.winningLine = line
	} else {
		s.winningLine = nil
		if s.history.Size() == Size*Size {
			s.status = StatusDraw
		}
	}
	s.toMove = OtherPlayer(player)

	s.notifyMoveMade(move, player)
	s.notifyBoardChanged()
	s.notifyStatusChanged()
	return true
}

// UndoLastMove takes back the most recent move and hands the turn back to whoever made it.
// The status returns to in-progress even if the undone move had decided the game.
func (s *GameState) UndoLastMove() {
	if !s.undo() {
		return
	}
	s.notifyBoardChanged()
	s.notifyStatusChanged()
}

func (s *GameState) undo() bool {
	last, ok := s.history.Pop()
	if !ok {
		return false
	}
	s.board.Remove(last.Move.Row, last.Move.Col)
	s.toMove = last.Player
	s.status = StatusInProgress
	s.winningLine = nil
	return true
}

// FindWinningLine checks the four axes through the stone just placed at last. The first axis
// holding a run of at least WinLength stones wins; its cells are returned starting with last,
// then the forward cells, then the backward cells.
func FindWinningLine(board *Board, last Move, player Player) ([]Move, bool) {
	cell := CellFromPlayer(player)
	for _, axis := range winAxes {
		line := collectRun(board, last, axis[0], axis[1], cell)
		if len(line) >= WinLength {
			return line, true
		}
	}
	return nil, false
}

func collectRun(board *Board, from Move, dRow, dCol int, cell Cell) []Move {
	line := []Move{from}
	row, col := from.Row+dRow, from.Col+dCol
	for InBounds(row, col) && board[row][col] == cell {
		line = append(line, Move{Row: row, Col: col})
		row += dRow
		col += dCol
	}
	row, col = from.Row-dRow, from.Col-dCol
	for InBounds(row, col) && board[row][col] == cell {
		line = append(line, Move{Row: row, Col: col})
		row -= dRow
		col -= dCol
	}
	return line
}
