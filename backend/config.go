package main

import (
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/thekrainbow/connect6/internal/ai"
)

// Config holds the knobs that may change while the server runs.
type Config struct {
	AiMoveDelayMs        int           `json:"ai_move_delay_ms"`
	StrongHintDifficulty ai.Difficulty `json:"strong_hint_difficulty"`
	UseMoveCache         bool          `json:"use_move_cache"`
	ArchiveListLimit     int           `json:"archive_list_limit"`
}

// ServerEnv is read once at startup from the environment (and .env).
type ServerEnv struct {
	Port              string
	LogLevel          string
	DBPath            string
	MoveCachePath     string
	MoveCacheSize     int
	AiMoveDelayMs     int
	DefaultDifficulty ai.Difficulty
}

func DefaultConfig() Config {
	return Config{
		AiMoveDelayMs:        1000,
		StrongHintDifficulty: ai.DifficultyHard,
		UseMoveCache:         true,
		ArchiveListLimit:     50,
	}
}

func loadServerEnv() ServerEnv {
	env := ServerEnv{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBPath:        getEnv("DB_PATH", ""),
		MoveCachePath: getEnv("MOVE_CACHE_PATH", ""),
		MoveCacheSize: getEnvInt("MOVE_CACHE_SIZE", 1<<14),
		AiMoveDelayMs: getEnvInt("AI_MOVE_DELAY_MS", 1000),
	}
	difficulty, err := ai.ParseDifficulty(getEnv("DEFAULT_DIFFICULTY", "medium"))
	if err != nil {
		log.Warn().Err(err).Msg("invalid DEFAULT_DIFFICULTY, using medium")
	}
	env.DefaultDifficulty = difficulty
	if env.AiMoveDelayMs < 0 {
		env.AiMoveDelayMs = 0
	}
	return env
}

func configFromEnv(env ServerEnv) Config {
	cfg := DefaultConfig()
	cfg.AiMoveDelayMs = env.AiMoveDelayMs
	cfg.UseMoveCache = env.MoveCacheSize > 0
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("invalid integer env value, using default")
		return def
	}
	return v
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	if newConfig.AiMoveDelayMs < 0 {
		newConfig.AiMoveDelayMs = 0
	}
	if newConfig.ArchiveListLimit <= 0 {
		newConfig.ArchiveListLimit = DefaultConfig().ArchiveListLimit
	}
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
