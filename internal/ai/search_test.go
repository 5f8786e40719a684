package ai

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"

	"github.com/thekrainbow/connect6/internal/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	m.Run()
}

func playAlternating(t *testing.T, s *game.GameState, black, white []game.Move) {
	t.Helper()
	for i := 0; i < len(black) || i < len(white); i++ {
		if i < len(black) {
			if !s.AttemptMove(black[i].Row, black[i].Col, game.PlayerBlack) {
				t.Fatalf("black move %v rejected", black[i])
			}
		}
		if i < len(white) {
			if !s.AttemptMove(white[i].Row, white[i].Col, game.PlayerWhite) {
				t.Fatalf("white move %v rejected", white[i])
			}
		}
	}
}

// fiveInRowPosition leaves Black to move with a single winning cell at (0,5).
func fiveInRowPosition(t *testing.T) *game.GameState {
	t.Helper()
	s := game.NewGameState()
	playAlternating(t, s,
		[]game.Move{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}, {Row: 0, Col: 4}},
		[]game.Move{{Row: 0, Col: 6}, {Row: 14, Col: 14}, {Row: 14, Col: 0}, {Row: 8, Col: 14}, {Row: 14, Col: 8}},
	)
	return s
}

func TestBestMoveTakesImmediateWinEasy(t *testing.T) {
	s := fiveInRowPosition(t)
	engine := NewEngine(DifficultyEasy)
	if got := engine.BestMove(s, game.PlayerBlack); got != (game.Move{Row: 0, Col: 5}) {
		t.Fatalf("BestMove = %v, want (0,5)", got)
	}
}

func TestBestMoveTakesImmediateWinMedium(t *testing.T) {
	if testing.Short() {
		t.Skip("medium search is slow")
	}
	s := fiveInRowPosition(t)
	engine := NewEngine(DifficultyMedium)
	if got := engine.BestMove(s, game.PlayerBlack); got != (game.Move{Row: 0, Col: 5}) {
		t.Fatalf("BestMove = %v, want (0,5)", got)
	}
}

func TestBestMoveLeavesStateUntouched(t *testing.T) {
	s := fiveInRowPosition(t)
	before := s.Serialize()
	calls := 0
	unsubscribe := s.Subscribe(game.ObserverFuncs{OnBoardChanged: func() { calls++ }})
	defer unsubscribe()

	NewEngine(DifficultyEasy).BestMove(s, game.PlayerBlack)

	if s.Serialize() != before {
		t.Fatalf("search mutated the game")
	}
	if calls != 0 {
		t.Fatalf("search notified observers %d times", calls)
	}
}

func TestBestMoveIsDeterministic(t *testing.T) {
	s := game.NewGameState()
	playAlternating(t, s,
		[]game.Move{{Row: 7, Col: 7}, {Row: 8, Col: 8}},
		[]game.Move{{Row: 7, Col: 8}, {Row: 6, Col: 6}},
	)
	engine := NewEngine(DifficultyEasy)
	first := engine.BestMove(s, game.PlayerBlack)
	for i := 0; i < 3; i++ {
		if got := engine.BestMove(s, game.PlayerBlack); got != first {
			t.Fatalf("run %d returned %v, first run %v", i, got, first)
		}
	}
	if !s.IsValidMove(first.Row, first.Col) {
		t.Fatalf("BestMove returned occupied cell %v", first)
	}
}

func TestBestMoveOnEmptyBoardPicksCentre(t *testing.T) {
	s := game.NewGameState()
	if got := NewEngine(DifficultyEasy).BestMove(s, game.PlayerBlack); got != (game.Move{Row: 7, Col: 7}) {
		t.Fatalf("BestMove = %v, want centre", got)
	}
}

func TestBestMoveOnFullBoardReturnsNoMove(t *testing.T) {
	var black, white []game.Move
	for row := 0; row < game.Size; row++ {
		for col := 0; col < game.Size; col++ {
			isBlack := (col+3*row)%6 < 3
			if row == 0 && col == 0 {
				isBlack = false
			}
			if isBlack {
				black = append(black, game.Move{Row: row, Col: col})
			} else {
				white = append(white, game.Move{Row: row, Col: col})
			}
		}
	}
	s := game.NewGameState()
	playAlternating(t, s, black, white)
	if s.Status() != game.StatusDraw {
		t.Fatalf("expected draw, got %v", s.Status())
	}
	if got := NewEngine(DifficultyHard).BestMove(s, game.PlayerWhite); got != game.NoMove {
		t.Fatalf("BestMove on full board = %v, want NoMove", got)
	}
}

func TestEngineUsesCache(t *testing.T) {
	s := fiveInRowPosition(t)
	cache := NewMoveCache(64)
	engine := NewEngine(DifficultyEasy)
	engine.SetCache(cache)

	first := engine.BestMove(s, game.PlayerBlack)
	second := engine.BestMove(s, game.PlayerBlack)
	if first != second {
		t.Fatalf("cached move %v differs from searched %v", second, first)
	}
	stats := cache.Stats()
	if stats.Hits != 1 || stats.Probes != 2 || stats.Entries != 1 {
		t.Fatalf("unexpected cache stats %+v", stats)
	}
}

func TestDifficultyDepthAndParse(t *testing.T) {
	depths := map[Difficulty]int{DifficultyEasy: 1, DifficultyMedium: 3, DifficultyHard: 5}
	for d, want := range depths {
		if d.Depth() != want {
			t.Fatalf("%v depth = %d, want %d", d, d.Depth(), want)
		}
		parsed, err := ParseDifficulty(d.String())
		if err != nil || parsed != d {
			t.Fatalf("ParseDifficulty(%q) = %v, %v", d.String(), parsed, err)
		}
	}
	if d, err := ParseDifficulty(" HARD "); err != nil || d != DifficultyHard {
		t.Fatalf("ParseDifficulty should be case-insensitive, got %v, %v", d, err)
	}
	if _, err := ParseDifficulty("impossible"); err == nil {
		t.Fatalf("expected error for unknown difficulty")
	}
	var d Difficulty
	if err := d.UnmarshalText([]byte("easy")); err != nil || d != DifficultyEasy {
		t.Fatalf("UnmarshalText = %v, %v", d, err)
	}
}

func TestRandomMove(t *testing.T) {
	s := game.NewGameState()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		m := RandomMove(s, rng)
		if !s.AttemptMove(m.Row, m.Col, s.CurrentPlayer()) {
			t.Fatalf("random move %v rejected", m)
		}
		if s.Status() != game.StatusInProgress {
			break
		}
	}
	a := RandomMove(game.NewGameState(), rand.New(rand.NewSource(7)))
	b := RandomMove(game.NewGameState(), rand.New(rand.NewSource(7)))
	if a != b {
		t.Fatalf("same seed produced %v and %v", a, b)
	}
}
