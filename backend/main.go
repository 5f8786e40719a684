package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thekrainbow/connect6/internal/archive"
)

func main() {
	_ = godotenv.Load()
	env := loadServerEnv()
	if lvl, err := zerolog.ParseLevel(env.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	configStore.Update(configFromEnv(env))

	cache := loadPersistedCache(env)
	var persistOnce sync.Once
	persistOnShutdown := func(reason string) {
		persistOnce.Do(func() {
			log.Info().Str("reason", reason).Msg("persisting move cache")
			persistCache(env, cache)
		})
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Error().Interface("panic", recovered).Msg("panic recovered in main")
			persistOnShutdown("panic")
		}
	}()

	store, err := openArchive(env.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open saved-game archive")
	}
	defer store.Close()

	controller := NewGameController(DefaultGameSettings(env.DefaultDifficulty), cache)
	hub := NewHub()
	controller.SetPublisher(hub.Publish)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx.Done())
	go runTicker(ctx, controller)

	server := &http.Server{
		Addr:    ":" + env.Port,
		Handler: newRouter(controller, hub, store, cache),
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Info().Str("port", env.Port).Msg("backend listening")
	select {
	case <-sigCtx.Done():
		log.Info().Msg("shutdown signal received")
	case err, ok := <-serverErrCh:
		if ok {
			log.Error().Err(err).Msg("server error")
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown failed")
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Error().Err(closeErr).Msg("forced close failed")
		}
	}

	cancel()
	persistOnShutdown("shutdown")
}

// runTicker drives AI turns and buffered clicks every 50ms until ctx ends.
func runTicker(ctx context.Context, controller *GameController) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			controller.Tick()
		}
	}
}

func openArchive(path string) (archive.Store, error) {
	if path == "" {
		log.Info().Msg("DB_PATH not set, saved games are kept in memory")
		return archive.NewMemoryStore(), nil
	}
	return archive.OpenSQLite(path)
}
