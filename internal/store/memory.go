// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// This is the case ledger used when no DB_PATH is configured, and in tests.
//
// Characteristics:
//   - Keeps verdicts in arrival order in a slice.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/blackwood-mystery/internal/game"
)

// DefaultLimit is used by Recent when limit is not positive.
const DefaultLimit = 20

// ErrEmptyID is returned when a verdict without an ID is recorded.
var ErrEmptyID = errors.New("verdict has no id")

// Store defines the persistence interface for closed cases.
// Implementations may be backed by memory (this package) or SQLite.
type Store interface {
	// Record persists a verdict. Recording the same ID twice keeps the first.
	Record(ctx context.Context, v game.Verdict) error

	// Recent returns up to limit verdicts, newest first.
	Recent(ctx context.Context, limit int) ([]game.Verdict, error)
}

// memory is an in-memory slice-based Store implementation.
type memory struct {
	mu       sync.RWMutex // guards verdicts and seen
	verdicts []game.Verdict
	seen     map[string]struct{}
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{seen: make(map[string]struct{})}
}

func (m *memory) Record(ctx context.Context, v game.Verdict) error {
	if v.ID == "" {
		return ErrEmptyID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[v.ID]; ok {
		return nil
	}
	m.seen[v.ID] = struct{}{}
	m.verdicts = append(m.verdicts, v)
	return nil
}

func (m *memory) Recent(ctx context.Context, limit int) ([]game.Verdict, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]game.Verdict, 0, min(limit, len(m.verdicts)))
	for i := len(m.verdicts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.verdicts[i])
	}
	return out, nil
}
