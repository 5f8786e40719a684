// Package archive keeps named saved games. A saved game is the move-list text produced by
// game.GameState.Serialize, so anything stored here can be replayed with Deserialize.
package archive

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("saved game not found")

const defaultListLimit = 50

type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Moves     string    `json:"moves,omitempty"`
	MoveCount int       `json:"moveCount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists saved games. Save assigns an ID and creation time when the record has none
// and replaces an existing record with the same ID. List returns newest first.
type Store interface {
	Save(ctx context.Context, r Record) (Record, error)
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, limit int) ([]Record, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return limit
}
