package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SessionFile is the cached session file name under the state directory.
const SessionFile = "session.json"

// sessionPath returns the session cache path for a state directory.
func sessionPath(dir string) string {
	return filepath.Join(dir, SessionFile)
}

// CurrentSession loads the cached session from dir. Returns nil (not an
// error) when there is no session or the cached one has expired; an expired
// session file is removed.
func CurrentSession(dir string) (*Session, error) {
	data, err := os.ReadFile(sessionPath(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}
	if !s.Valid() {
		_ = ClearSession(dir)
		return nil, nil
	}
	return &s, nil
}

// SaveSession caches a session in dir with owner-only permissions.
func SaveSession(dir string, s *Session) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := os.WriteFile(sessionPath(dir), data, 0600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// ClearSession removes the cached session. Clearing an absent session is not
// an error.
func ClearSession(dir string) error {
	err := os.Remove(sessionPath(dir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
