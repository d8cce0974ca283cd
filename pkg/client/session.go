package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned when no session file exists.
var ErrNoSession = errors.New("not logged in")

// Session is the login state quizctl keeps between invocations.
type Session struct {
	Server   string `json:"server"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// DefaultSessionPath returns ~/.quizctl/session.json.
func DefaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".quizctl", "session.json")
	}
	return filepath.Join(home, ".quizctl", "session.json")
}

func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session %s: %w", path, err)
	}
	if s.Token == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Save writes the session readable by the owner only.
func (s *Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// DeleteSession removes the session file. A missing file is not an error.
func DeleteSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// ExpiresAt reads the exp claim from the stored token without verifying the
// signature. The server remains the authority on validity.
func (s *Session) ExpiresAt() (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to read token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}
