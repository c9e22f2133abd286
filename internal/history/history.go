// Package history persists conversations as a flat JSON file so a later
// invocation can resume with prior context. The file holds one Session: an
// id, the provider/model that served it, and the ordered messages exchanged
// so far. Appends rewrite the whole file; conversations are small and the
// format stays trivially inspectable.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/echoline-ai/echoline/providers/ai"
)

// Session is the persisted form of one conversation.
type Session struct {
	ID        string       `json:"id"`
	Provider  string       `json:"provider,omitempty"`
	Model     string       `json:"model,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
	Messages  []ai.Message `json:"messages"`
}

// Load reads the session stored at path. A missing file yields a fresh
// session with a new id.
func Load(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Session{ID: uuid.NewString()}, nil
		}
		return nil, fmt.Errorf("cannot read history file %s: %w", path, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("cannot parse history file %s: %w", path, err)
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	return &session, nil
}

// Append records an exchange and its serving provider/model on the session.
func (s *Session) Append(provider, model string, messages ...ai.Message) {
	s.Provider = provider
	s.Model = model
	s.Messages = append(s.Messages, messages...)
	s.UpdatedAt = time.Now().UTC()
}

// Save writes the session to path, creating parent directories as needed.
func (s *Session) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create history directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize history: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("cannot write history file %s: %w", path, err)
	}
	return nil
}
