package ai

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

type cacheSnapshot struct {
	Size    int
	Entries []CacheEntry
}

// LoadMoveCache restores a snapshot written by PersistMoveCache into a cache of the given
// size. A missing file, a decode failure or a size mismatch yields an empty cache.
func LoadMoveCache(path string, size int) *MoveCache {
	cache := NewMoveCache(size)
	if path == "" {
		return cache
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("move cache snapshot not found")
		} else {
			log.Warn().Err(err).Str("path", path).Msg("failed to open move cache snapshot")
		}
		return cache
	}
	defer file.Close()

	var snapshot cacheSnapshot
	if err := gob.NewDecoder(file).Decode(&snapshot); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to decode move cache snapshot")
		return cache
	}
	if snapshot.Size != cache.Capacity() || len(snapshot.Entries) != cache.Capacity() {
		log.Warn().
			Int("snapshot_size", snapshot.Size).
			Int("cache_size", cache.Capacity()).
			Msg("move cache snapshot does not match configured size; skipping")
		return cache
	}
	cache.loadEntries(snapshot.Entries)
	log.Info().
		Str("path", path).
		Int("valid", countValidEntries(snapshot.Entries)).
		Int("size", snapshot.Size).
		Msg("restored move cache")
	return cache
}

func PersistMoveCache(path string, cache *MoveCache) error {
	if path == "" || cache == nil {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir %s: %w", dir, err)
		}
	}
	entries := cache.snapshotEntries()
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache snapshot %s: %w", path, err)
	}
	defer file.Close()
	snapshot := cacheSnapshot{Size: len(entries), Entries: entries}
	if err := gob.NewEncoder(file).Encode(&snapshot); err != nil {
		return fmt.Errorf("encode cache snapshot %s: %w", path, err)
	}
	log.Info().
		Str("path", path).
		Int("valid", countValidEntries(entries)).
		Int("size", len(entries)).
		Msg("stored move cache")
	return nil
}
