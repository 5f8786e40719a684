package main

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/thekrainbow/connect6/internal/ai"
)

var dockerCacheDir = "/cache_logs"

// resolveCachePath places relative snapshot paths under the container cache volume when it
// is mounted.
func resolveCachePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if stat, err := os.Stat(dockerCacheDir); err == nil && stat.IsDir() {
		return filepath.Join(dockerCacheDir, path)
	}
	return path
}

func loadPersistedCache(env ServerEnv) *ai.MoveCache {
	if env.MoveCacheSize <= 0 {
		return nil
	}
	return ai.LoadMoveCache(resolveCachePath(env.MoveCachePath), env.MoveCacheSize)
}

func persistCache(env ServerEnv, cache *ai.MoveCache) {
	if cache == nil || env.MoveCachePath == "" {
		log.Info().Msg("move cache persistence disabled")
		return
	}
	if err := ai.PersistMoveCache(resolveCachePath(env.MoveCachePath), cache); err != nil {
		log.Error().Err(err).Msg("failed to persist move cache")
	}
}
