package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS saved_games (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    moves      TEXT NOT NULL,
    move_count INTEGER NOT NULL,
    status     TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS saved_games_created_at ON saved_games(created_at DESC);
`

type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the schema.
func OpenSQLite(path string) (Store, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	log.Info().Str("path", path).Msg("opened saved-game archive")
	return &sqliteStore{db: db}, nil
}

func openDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	return db, nil
}

func (s *sqliteStore) Save(ctx context.Context, r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO saved_games (id, name, moves, move_count, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Moves, r.MoveCount, r.Status, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Record{}, fmt.Errorf("save game %s: %w", r.ID, err)
	}
	return r, nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (Record, error) {
	var r Record
	var created int64
	err := s.db.QueryRowContext(ctx, `
        SELECT id, name, moves, move_count, status, created_at
        FROM saved_games WHERE id = ?`, id,
	).Scan(&r.ID, &r.Name, &r.Moves, &r.MoveCount, &r.Status, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get game %s: %w", id, err)
	}
	r.CreatedAt = time.Unix(0, created).UTC()
	return r, nil
}

func (s *sqliteStore) List(ctx context.Context, limit int) ([]Record, error) {
	limit = normalizeLimit(limit)
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, move_count, status, created_at
        FROM saved_games
        ORDER BY created_at DESC, id ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0, min(limit, defaultListLimit))
	for rows.Next() {
		var r Record
		var created int64
		if err := rows.Scan(&r.ID, &r.Name, &r.MoveCount, &r.Status, &created); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		r.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
