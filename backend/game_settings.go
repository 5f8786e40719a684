package main

import (
	"github.com/thekrainbow/connect6/internal/ai"
	"github.com/thekrainbow/connect6/internal/game"
)

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

const (
	modeHumanVsHuman = "human_vs_human"
	modeHumanVsAI    = "human_vs_ai"
	modeAIVsAI       = "ai_vs_ai"
)

type GameSettings struct {
	BlackType       PlayerType
	WhiteType       PlayerType
	BlackDifficulty ai.Difficulty
	WhiteDifficulty ai.Difficulty
}

type GameSettingsDTO struct {
	Mode            string `json:"mode"`
	HumanPlayer     int    `json:"human_player"`
	BlackDifficulty string `json:"black_difficulty,omitempty"`
	WhiteDifficulty string `json:"white_difficulty,omitempty"`
}

func DefaultGameSettings(difficulty ai.Difficulty) GameSettings {
	return GameSettings{
		BlackType:       PlayerHuman,
		WhiteType:       PlayerAI,
		BlackDifficulty: difficulty,
		WhiteDifficulty: difficulty,
	}
}

func (s GameSettings) typeFor(player game.Player) PlayerType {
	if player == game.PlayerBlack {
		return s.BlackType
	}
	return s.WhiteType
}

func (s GameSettings) difficultyFor(player game.Player) ai.Difficulty {
	if player == game.PlayerBlack {
		return s.BlackDifficulty
	}
	return s.WhiteDifficulty
}

func (s GameSettings) Mode() string {
	switch {
	case s.BlackType == PlayerAI && s.WhiteType == PlayerAI:
		return modeAIVsAI
	case s.BlackType == PlayerHuman && s.WhiteType == PlayerHuman:
		return modeHumanVsHuman
	default:
		return modeHumanVsAI
	}
}

// settingsFromDTO overlays dto on base. Unknown modes keep base player types and empty or
// invalid difficulties keep base difficulties.
func settingsFromDTO(dto GameSettingsDTO, base GameSettings) GameSettings {
	settings := base
	switch dto.Mode {
	case modeAIVsAI:
		settings.BlackType = PlayerAI
		settings.WhiteType = PlayerAI
	case modeHumanVsHuman:
		settings.BlackType = PlayerHuman
		settings.WhiteType = PlayerHuman
	case modeHumanVsAI:
		if dto.HumanPlayer == 2 {
			settings.BlackType = PlayerAI
			settings.WhiteType = PlayerHuman
		} else {
			settings.BlackType = PlayerHuman
			settings.WhiteType = PlayerAI
		}
	}
	if dto.BlackDifficulty != "" {
		if d, err := ai.ParseDifficulty(dto.BlackDifficulty); err == nil {
			settings.BlackDifficulty = d
		}
	}
	if dto.WhiteDifficulty != "" {
		if d, err := ai.ParseDifficulty(dto.WhiteDifficulty); err == nil {
			settings.WhiteDifficulty = d
		}
	}
	return settings
}

func controllerSettingsDTO(settings GameSettings) GameSettingsDTO {
	humanPlayer := 0
	switch settings.Mode() {
	case modeHumanVsHuman:
		humanPlayer = 1
	case modeHumanVsAI:
		humanPlayer = 1
		if settings.WhiteType == PlayerHuman {
			humanPlayer = 2
		}
	}
	return GameSettingsDTO{
		Mode:            settings.Mode(),
		HumanPlayer:     humanPlayer,
		BlackDifficulty: settings.BlackDifficulty.String(),
		WhiteDifficulty: settings.WhiteDifficulty.String(),
	}
}
