package session

import (
	"sync"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

// NewMemoryStore returns a store that keeps the credential pair in process
// memory only. Used by tests and one-shot commands.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

type MemoryStore struct {
	mu     sync.RWMutex
	tokens domain.Tokens
	held   bool
}

func (s *MemoryStore) Get() (domain.Tokens, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.held || !s.tokens.Valid() {
		return domain.Tokens{}, false
	}
	return s.tokens, true
}

func (s *MemoryStore) Set(tokens domain.Tokens) error {
	s.mu.Lock()
	s.tokens = tokens
	s.held = true
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.tokens = domain.Tokens{}
	s.held = false
	s.mu.Unlock()
	return nil
}
