package archive

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memory struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

// NewMemoryStore returns a Store that lives as long as the process.
func NewMemoryStore() Store {
	return &memory{records: make(map[string]Record), now: time.Now}
}

func (m *memory) Save(ctx context.Context, r Record) (Record, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
	return r, nil
}

func (m *memory) Get(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (m *memory) List(ctx context.Context, limit int) ([]Record, error) {
	m.mu.RLock()
	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		r.Moves = ""
		out = append(out, r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit = normalizeLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memory) Close() error {
	return nil
}
