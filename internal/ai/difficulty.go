package ai

import (
	"fmt"
	"strings"
)

type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

// Depth is the number of plies searched at this level.
func (d Difficulty) Depth() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyHard:
		return 5
	default:
		return 3
	}
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

func ParseDifficulty(value string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "easy", "1":
		return DifficultyEasy, nil
	case "medium", "3", "":
		return DifficultyMedium, nil
	case "hard", "5":
		return DifficultyHard, nil
	}
	return DifficultyMedium, fmt.Errorf("unknown difficulty %q", value)
}

func (d Difficulty) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
