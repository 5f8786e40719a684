package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thekrainbow/connect6/internal/ai"
)

type arenaConfig struct {
	Games         int
	Black         ai.Difficulty
	White         ai.Difficulty
	OpeningPlies  int
	Seed          int64
	TranscriptDir string
	EloK          float64
	ShowBoards    bool
}

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if lvl, err := zerolog.ParseLevel(getenv("ARENA_LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg := loadArenaConfig()
	log.Info().
		Int("games", cfg.Games).
		Str("first", cfg.Black.String()).
		Str("second", cfg.White.String()).
		Int("opening_plies", cfg.OpeningPlies).
		Int64("seed", cfg.Seed).
		Msg("arena starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newArena(cfg, termenv.NewOutput(os.Stdout))
	if err := a.run(ctx); err != nil {
		log.Error().Err(err).Msg("arena stopped early")
	}
	a.logStandings()
}

func loadArenaConfig() arenaConfig {
	return arenaConfig{
		Games:         max(getenvInt("ARENA_GAMES", 10), 0),
		Black:         getenvDifficulty("ARENA_BLACK", ai.DifficultyEasy),
		White:         getenvDifficulty("ARENA_WHITE", ai.DifficultyMedium),
		OpeningPlies:  max(getenvInt("ARENA_OPENING_PLIES", 2), 0),
		Seed:          int64(getenvInt("ARENA_SEED", 1)),
		TranscriptDir: getenv("ARENA_TRANSCRIPTS", ""),
		EloK:          getenvFloat("ARENA_ELO_K", 24),
		ShowBoards:    getenv("ARENA_SHOW_BOARDS", "true") != "false",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid integer, using default")
		return fallback
	}
	return v
}

func getenvFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid float, using default")
		return fallback
	}
	return v
}

func getenvDifficulty(key string, fallback ai.Difficulty) ai.Difficulty {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := ai.ParseDifficulty(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("invalid difficulty, using default")
		return fallback
	}
	return d
}
