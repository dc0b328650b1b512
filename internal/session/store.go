package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/golang-jwt/jwt/v5"

	"rationale/internal/api"
)

// ErrNotAuthenticated is returned when no session is stored.
var ErrNotAuthenticated = errors.New("not logged in")

// Session is the persisted authentication state.
type Session struct {
	User  api.User `json:"user"`
	Token string   `json:"token"`
}

// Store reads and writes session state under a state directory.
type Store struct {
	path     string
	lockPath string
}

// NewStore creates a session store rooted at the given state directory.
func NewStore(stateDir string) (*Store, error) {
	if stateDir == "" {
		return nil, errors.New("state directory required")
	}
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &Store{
		path:     filepath.Join(stateDir, "session.json"),
		lockPath: filepath.Join(stateDir, "session.lock"),
	}, nil
}

func (s *Store) withLock(fn func() error) error {
	lock := flock.New(s.lockPath)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire session lock: %w", err)
	}
	defer lock.Unlock()
	return fn()
}

// Save persists the session. Both the user and the token must be present.
func (s *Store) Save(session Session) error {
	if session.Token == "" {
		return errors.New("session token must not be empty")
	}
	if session.User.ID == "" {
		return errors.New("session user must not be empty")
	}
	return s.withLock(func() error {
		encoded, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		tmp := s.path + ".tmp"
		if err := os.WriteFile(tmp, encoded, 0o600); err != nil {
			return fmt.Errorf("write session: %w", err)
		}
		if err := os.Rename(tmp, s.path); err != nil {
			return fmt.Errorf("replace session: %w", err)
		}
		return nil
	})
}

// Load hydrates the stored session. A partial record (missing user or token)
// is treated as absent and cleared, so callers never observe half a login.
func (s *Store) Load() (*Session, error) {
	var session Session
	err := s.withLock(func() error {
		data, err := os.ReadFile(s.path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return ErrNotAuthenticated
			}
			return fmt.Errorf("read session: %w", err)
		}
		if err := json.Unmarshal(data, &session); err != nil {
			_ = os.Remove(s.path)
			return ErrNotAuthenticated
		}
		if session.Token == "" || session.User.ID == "" {
			_ = os.Remove(s.path)
			return ErrNotAuthenticated
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	return s.withLock(func() error {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove session: %w", err)
		}
		return nil
	})
}

// TokenExpiry returns the expiry claim of the stored token. The token is not
// verified; the backend remains the authority and this is display-only.
func TokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}
