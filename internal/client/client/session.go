package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/internportal/internal/client/models"
	"github.com/dmitrijs2005/internportal/internal/filex"
)

const sessionFile = "session.json"

// SessionStore keeps the current login in a file under the session
// directory, the CLI's counterpart of the browser's local storage.
type SessionStore struct {
	path string
}

// NewSessionStore creates dirName under the working directory if needed.
func NewSessionStore(dirName string) (*SessionStore, error) {
	dir, err := filex.EnsureSubdDir(dirName)
	if err != nil {
		return nil, err
	}
	return &SessionStore{path: filepath.Join(dir, sessionFile)}, nil
}

// Load returns the saved session or ErrNoSession.
func (s *SessionStore) Load() (*models.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("corrupt session file: %w", err)
	}
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &sess, nil
}

func (s *SessionStore) Save(sess *models.Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(s.path, data, 0o600)
}

// Clear removes the saved session. A missing file is not an error.
func (s *SessionStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
