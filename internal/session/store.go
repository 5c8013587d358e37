package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNoSession is returned by a Store when nothing is saved under a key.
var ErrNoSession = errors.New("no session")

// Store persists session identifiers under fixed keys.
// Writes are last-writer-wins; there is no expiry.
type Store interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, userID string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore keeps identifiers for the lifetime of the process.
type MemoryStore struct {
	mu  sync.RWMutex
	ids map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ids: make(map[string]string)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.ids[key]
	if !ok {
		return "", ErrNoSession
	}
	return id, nil
}

func (s *MemoryStore) Save(_ context.Context, key, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[key] = userID
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, key)
	return nil
}
