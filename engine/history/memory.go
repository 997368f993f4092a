package history

import (
	"context"
	"sync"
	"time"

	"github.com/bankrag/bankrag/engine/domain"
)

// MemStore is an in-memory conversation store for tests and single-process
// runs.
type MemStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Turn
}

// NewMemStore creates an empty in-memory conversation store.
func NewMemStore() *MemStore {
	return &MemStore{sessions: make(map[string][]domain.Turn)}
}

// Append implements Store.
func (m *MemStore) Append(_ context.Context, turn domain.Turn) error {
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[turn.SessionID] = append(m.sessions[turn.SessionID], turn)
	return nil
}

// RecentBySession implements Store.
func (m *MemStore) RecentBySession(_ context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	turns := m.sessions[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}
