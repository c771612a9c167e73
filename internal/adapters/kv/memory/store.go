package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/punini-cli/internal/domain"
	"github.com/bnema/punini-cli/internal/ports"
)

// Store keeps entries in process memory. It backs tests and the "memory"
// backend, where nothing survives the process.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

var _ ports.KeyValueStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{entries: map[string]string{}}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.entries[key]
	if !ok {
		return "", fmt.Errorf("memory key %q: %w", key, domain.ErrKeyNotFound)
	}

	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = value
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Snapshot copies the current entries.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}

	return out
}
