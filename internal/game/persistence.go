package game

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Serialize writes one "<P> <row> <col>" line per move in play order, P being B or W.
func (s *GameState) Serialize() string {
	var sb strings.Builder
	for _, entry := range s.history.entries {
		sb.WriteString(playerLetter(entry.Player))
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(entry.Move.Row))
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(entry.Move.Col))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Deserialize resets the board and replays text through AttemptMove. A malformed line or an
// illegal move leaves the board empty and returns false; partial replays are never kept.
// Blank lines are ignored, as is anything after the column on a move line.
func (s *GameState) Deserialize(text string) bool {
	s.muted = true
	s.clear()
	ok := s.replay(text)
	if !ok {
		s.clear()
	}
	s.muted = false
	s.notifyBoardChanged()
	s.notifyStatusChanged()
	return ok
}

func (s *GameState) replay(text string) bool {
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		player, row, col, ok := parseMoveLine(line)
		if !ok {
			return false
		}
		if !s.AttemptMove(row, col, player) {
			return false
		}
	}
	return scanner.Err() == nil
}

func parseMoveLine(line string) (Player, int, int, bool) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return PlayerBlack, 0, 0, false
	}
	var player Player
	switch fields[0] {
	case "B":
		player = PlayerBlack
	case "W":
		player = PlayerWhite
	default:
		return PlayerBlack, 0, 0, false
	}
	row, err := strconv.Atoi(fields[1])
	if err != nil {
		return PlayerBlack, 0, 0, false
	}
	col, err := strconv.Atoi(fields[2])
	if err != nil {
		return PlayerBlack, 0, 0, false
	}
	return player, row, col, true
}

func playerLetter(player Player) string {
	if player == PlayerBlack {
		return "B"
	}
	return "W"
}

// SaveFile writes Serialize() to path. Failures are logged and otherwise ignored.
func (s *GameState) SaveFile(path string) {
	if err := os.WriteFile(path, []byte(s.Serialize()), 0o644); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("save game skipped")
	}
}

// LoadFile reads path and replays it with Deserialize. An unreadable file returns false and
// leaves the current game as it was.
func (s *GameState) LoadFile(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return s.Deserialize(string(data))
}
