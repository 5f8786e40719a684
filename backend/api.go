package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/thekrainbow/connect6/internal/ai"
	"github.com/thekrainbow/connect6/internal/archive"
	"github.com/thekrainbow/connect6/internal/game"
)

const maxImportBytes = 64 << 10

type StatusResponse struct {
	Settings        GameSettingsDTO   `json:"settings"`
	Config          Config            `json:"config"`
	Board           [][]int           `json:"board"`
	NextPlayer      int               `json:"next_player"`
	Winner          int               `json:"winner"`
	Status          string            `json:"status"`
	MoveCount       int               `json:"move_count"`
	History         []historyEntryDTO `json:"history"`
	WinningLine     []game.Move       `json:"winning_line"`
	Paused          bool              `json:"paused"`
	AiThinking      bool              `json:"ai_thinking"`
	TurnStartedAtMs int64             `json:"turn_started_at_ms"`
}

type historyEntryDTO struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	Player int `json:"player"`
}

type boardPayload struct {
	Board      [][]int `json:"board"`
	NextPlayer int     `json:"next_player"`
	MoveCount  int     `json:"move_count"`
}

type movePayload struct {
	Row       int `json:"row"`
	Col       int `json:"col"`
	Player    int `json:"player"`
	MoveCount int `json:"move_count"`
}

type settingsPayload struct {
	Settings GameSettingsDTO `json:"settings"`
	Config   Config          `json:"config"`
}

type hintResponse struct {
	Mode string    `json:"mode"`
	Move game.Move `json:"move"`
}

type apiMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func newRouter(controller *GameController, hub *Hub, store archive.Store, cache *ai.MoveCache) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, controller.Status())
	})

	r.Post("/api/start", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings GameSettingsDTO `json:"settings"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		controller.StartGame(settingsFromDTO(payload.Settings, controller.Settings()))
		writeJSON(w, http.StatusOK, controller.Status())
	})

	r.Post("/api/move", func(w http.ResponseWriter, r *http.Request) {
		var payload apiMove
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if err := controller.ApplyHumanMove(game.NewMove(payload.Row, payload.Col)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, controller.Status())
	})

	r.Post("/api/undo", func(w http.ResponseWriter, r *http.Request) {
		if err := controller.Undo(); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, controller.Status())
	})

	r.Post("/api/reset", func(w http.ResponseWriter, r *http.Request) {
		controller.Reset()
		writeJSON(w, http.StatusOK, controller.Status())
	})

	r.Post("/api/pause", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Paused bool `json:"paused"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		controller.SetPaused(payload.Paused)
		writeJSON(w, http.StatusOK, controller.Status())
	})

	r.Get("/api/hint", func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("mode")
		var (
			move game.Move
			err  error
		)
		switch mode {
		case "", "strong":
			mode = "strong"
			move, err = controller.StrongHint(r.Context())
		case "weak":
			move, err = controller.WeakHint()
		default:
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "mode must be strong or weak"})
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, hintResponse{Mode: mode, Move: move})
	})

	r.Get("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, settingsPayload{
			Settings: controllerSettingsDTO(controller.Settings()),
			Config:   GetConfig(),
		})
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Settings *GameSettingsDTO `json:"settings"`
			Config   json.RawMessage  `json:"config"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		// Config fields missing from the payload keep their current values.
		if payload.Config != nil {
			cfg := GetConfig()
			if err := json.Unmarshal(payload.Config, &cfg); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid config"})
				return
			}
			configStore.Update(cfg)
		}
		if payload.Settings != nil || payload.Config != nil {
			controller.UpdateSettings(settingsFromDTO(derefSettings(payload.Settings), controller.Settings()))
		}
		writeJSON(w, http.StatusOK, settingsPayload{
			Settings: controllerSettingsDTO(controller.Settings()),
			Config:   GetConfig(),
		})
	})

	r.Get("/api/games", func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = GetConfig().ArchiveListLimit
		}
		records, err := store.List(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": records})
	})

	r.Post("/api/games", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		name := strings.TrimSpace(payload.Name)
		if name == "" {
			name = "game-" + time.Now().UTC().Format("20060102-150405")
		}
		text, moveCount, status := controller.Snapshot()
		record, err := store.Save(r.Context(), archive.Record{
			Name:      name,
			Moves:     text,
			MoveCount: moveCount,
			Status:    status.String(),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		log.Info().Str("id", record.ID).Str("name", record.Name).Int("moves", moveCount).Msg("game saved")
		writeJSON(w, http.StatusCreated, record)
	})

	r.Get("/api/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		record, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	})

	r.Delete("/api/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := store.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "id": id})
	})

	r.Post("/api/games/{id}/load", func(w http.ResponseWriter, r *http.Request) {
		record, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		if err := controller.Load(record.Moves); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, controller.Status())
	})

	r.Get("/api/games/{id}/export", func(w http.ResponseWriter, r *http.Request) {
		record, err := store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Name+".game"))
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, record.Moves)
	})

	r.Post("/api/import", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if err := controller.Load(string(body)); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, controller.Status())
	})

	r.Get("/api/cache", func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			writeJSON(w, http.StatusOK, ai.CacheStats{})
			return
		}
		writeJSON(w, http.StatusOK, cache.Stats())
	})

	r.Delete("/api/cache", func(w http.ResponseWriter, r *http.Request) {
		if cache != nil {
			cache.Clear()
		}
		writeJSON(w, http.StatusOK, map[string]any{"cleared": true})
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(hub, controller, w, r)
	})

	return r
}

func serveWS(hub *Hub, controller *GameController, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(client)

	client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controller.Status())})

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send); err != nil {
			log.Debug().Err(err).Msg("websocket writer stopped")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(controller.Status())})
		case "move":
			var move apiMove
			if err := json.Unmarshal(msg.Payload, &move); err != nil {
				continue
			}
			if !controller.OnCellClicked(move.Row, move.Col) {
				client.sendJSON(wsMessage{Type: "error", Payload: mustMarshal(map[string]string{"error": ErrNotHumanTurn.Error()})})
			}
		}
	}
}

func derefSettings(dto *GameSettingsDTO) GameSettingsDTO {
	if dto == nil {
		return GameSettingsDTO{}
	}
	return *dto
}

func boardToSlice(state *game.GameState) [][]int {
	rows := make([][]int, game.Size)
	for row := 0; row < game.Size; row++ {
		rows[row] = make([]int, game.Size)
		for col := 0; col < game.Size; col++ {
			rows[row][col] = cellToInt(state.Cell(row, col))
		}
	}
	return rows
}

func cellToInt(cell game.Cell) int {
	switch cell {
	case game.CellBlack:
		return 1
	case game.CellWhite:
		return 2
	default:
		return 0
	}
}

func playerToInt(player game.Player) int {
	if player == game.PlayerBlack {
		return 1
	}
	return 2
}

func winnerFromStatus(status game.GameStatus) int {
	switch status {
	case game.StatusBlackWon:
		return 1
	case game.StatusWhiteWon:
		return 2
	default:
		return 0
	}
}

func historyEntryToDTO(entry game.HistoryEntry) historyEntryDTO {
	return historyEntryDTO{
		Row:    entry.Move.Row,
		Col:    entry.Move.Col,
		Player: playerToInt(entry.Player),
	}
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, archive.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrNotHumanTurn), errors.Is(err, ErrGameOver), errors.Is(err, ErrHintUnavailable):
		status = http.StatusConflict
	case errors.Is(err, ErrIllegalMove), errors.Is(err, ErrNothingToUndo), errors.Is(err, ErrInvalidGame):
		status = http.StatusBadRequest
	default:
		log.Error().Err(err).Msg("request failed")
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
