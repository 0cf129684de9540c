package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ai4juris/juriscli/internal/core/domain"
)

// FileStore persists the credential pair between command invocations.
// Nothing else is ever written to disk by the client.
type FileStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	tokens domain.Tokens
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath places the session file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "juriscli", "session.json"), nil
}

func (s *FileStore) Get() (domain.Tokens, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.load()
	}
	if !s.tokens.Valid() {
		return domain.Tokens{}, false
	}
	return s.tokens, true
}

func (s *FileStore) Set(tokens domain.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	s.tokens = tokens
	s.loaded = true
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = domain.Tokens{}
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// load reads the session file lazily. A missing or corrupt file means no
// session; the caller ends up on the sign-in path either way.
func (s *FileStore) load() {
	s.loaded = true
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var tokens domain.Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return
	}
	s.tokens = tokens
}
