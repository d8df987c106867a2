package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// SessionStore persists a session between runs.
type SessionStore interface {
	// Load returns nil, nil when no session is stored.
	Load() (*Session, error)
	Save(s Session) error
	Clear() error
}

// FileSessionStore keeps the session as a JSON file readable only by its owner.
type FileSessionStore struct {
	path string
}

// NewFileSessionStore stores the session at path.
func NewFileSessionStore(path string) *FileSessionStore {
	return &FileSessionStore{path: path}
}

// DefaultSessionPath is pointmap/session.json under the user config dir.
func DefaultSessionPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pointmap", "session.json"), nil
}

// Path returns the backing file.
func (f *FileSessionStore) Path() string {
	return f.path
}

// Load reads the session file. A missing file or an empty token is no session.
func (f *FileSessionStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

// Save writes the session through a temp file and rename, with mode 0600.
func (f *FileSessionStore) Save(s Session) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return os.Rename(tmp, f.path)
}

// Clear removes the session file. Clearing twice is not an error.
func (f *FileSessionStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemorySessionStore keeps the session for the life of the process.
type MemorySessionStore struct {
	session *Session
}

// Load returns a copy of the held session.
func (m *MemorySessionStore) Load() (*Session, error) {
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

// Save replaces the held session.
func (m *MemorySessionStore) Save(s Session) error {
	m.session = &s
	return nil
}

// Clear drops the held session.
func (m *MemorySessionStore) Clear() error {
	m.session = nil
	return nil
}
