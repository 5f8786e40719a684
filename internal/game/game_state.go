package game

type Player int8

type GameStatus int8

const (
	PlayerBlack Player = iota
	PlayerWhite
)

const (
	StatusInProgress GameStatus = iota
	StatusBlackWon
	StatusWhiteWon
	StatusDraw
)

// GameState is the single source of truth for a game: grid, history, side to move, status and
// the winning line. It is mutated only through AttemptMove, UndoLastMove, Reset and Deserialize.
// A GameState is not safe for concurrent mutation; searches work on Clone()s.
type GameState struct {
	board       Board
	history     MoveHistory
	toMove      Player
	status      GameStatus
	winningLine []Move
	observers   observerList
	muted       bool
}

func NewGameState() *GameState {
	s := &GameState{}
	s.clear()
	return s
}

// Reset empties the board, Black to move.
func (s *GameState) Reset() {
	s.clear()
	s.notifyBoardChanged()
	s.notifyStatusChanged()
}

func (s *GameState) clear() {
	s.board = Board{}
	s.history.Clear()
	s.winningLine = nil
	s.toMove = PlayerBlack
	s.status = StatusInProgress
}

// Clone returns an independent copy. Observers are not carried over.
func (s *GameState) Clone() *GameState {
	return &GameState{
		board:       s.board,
		history:     s.history.clone(),
		toMove:      s.toMove,
		status:      s.status,
		winningLine: append([]Move(nil), s.winningLine...),
	}
}

func (s *GameState) Status() GameStatus {
	return s.status
}

func (s *GameState) CurrentPlayer() Player {
	return s.toMove
}

// Cell returns the content of (row, col); out-of-range coordinates read as empty.
func (s *GameState) Cell(row, col int) Cell {
	if !InBounds(row, col) {
		return CellEmpty
	}
	return s.board[row][col]
}

// Board returns a copy of the grid.
func (s *GameState) Board() Board {
	return s.board
}

func (s *GameState) History() []HistoryEntry {
	return s.history.All()
}

func (s *GameState) MoveCount() int {
	return s.history.Size()
}

func (s *GameState) LastMove() (HistoryEntry, bool) {
	return s.history.Last()
}

func (s *GameState) WinningLine() []Move {
	return append([]Move(nil), s.winningLine...)
}

// ValidMoves lists every empty cell in row-major order. Each call rescans the board.
func (s *GameState) ValidMoves() []Move {
	return s.board.EmptyCells()
}

// Hint is a cheap placeholder: the centre if it is free, otherwise the first empty cell.
// Strong hints come from the search engine.
func (s *GameState) Hint() Move {
	center := Size / 2
	if s.board[center][center] == CellEmpty {
		return Move{Row: center, Col: center}
	}
	moves := s.ValidMoves()
	if len(moves) == 0 {
		return NoMove
	}
	return moves[0]
}

func OtherPlayer(player Player) Player {
	if player == PlayerBlack {
		return PlayerWhite
	}
	return PlayerBlack
}

func (p Player) String() string {
	if p == PlayerBlack {
		return "Black"
	}
	return "White"
}

func (st GameStatus) String() string {
	switch st {
	case StatusBlackWon:
		return "black_won"
	case StatusWhiteWon:
		return "white_won"
	case StatusDraw:
		return "draw"
	default:
		return "in_progress"
	}
}

// IsTerminal reports whether the game has been decided.
func (st GameStatus) IsTerminal() bool {
	return st != StatusInProgress
}

func winStatusFor(player Player) GameStatus {
	if player == PlayerBlack {
		return StatusBlackWon
	}
	return StatusWhiteWon
}
