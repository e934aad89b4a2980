// SPDX-License-Identifier: MIT

// Package auth implements the admin login gate. A single configured
// username/password pair is exchanged for an opaque session token with a TTL.
// This is a shared-secret gate, not real multi-user authentication; that is
// an accepted property of the system, not an oversight.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rsvideo/console/internal/cache"
)

// ErrBadCredentials is returned by Login when the pair does not match.
var ErrBadCredentials = errors.New("invalid username or password")

const sessionPrefix = "session:"

// Manager issues and validates admin session tokens.
type Manager struct {
	username string
	password string
	ttl      time.Duration
	sessions cache.Cache
}

// NewManager creates a manager storing sessions in the given cache.
func NewManager(username, password string, ttl time.Duration, sessions cache.Cache) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{username: username, password: password, ttl: ttl, sessions: sessions}
}

// equal compares two secrets in constant time.
func equal(got, expected string) bool {
	if got == "" || expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}

// Login checks the credential pair and returns a fresh session token.
func (m *Manager) Login(username, password string) (string, error) {
	userOK := equal(username, m.username)
	passOK := equal(password, m.password)
	if !userOK || !passOK {
		return "", ErrBadCredentials
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("issue session token: %w", err)
	}
	m.sessions.Set(sessionPrefix+token, username, m.ttl)
	return token, nil
}

// Validate reports whether token belongs to a live session and returns the
// logged-in username.
func (m *Manager) Validate(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	return m.sessions.Get(sessionPrefix + token)
}

// Logout drops the session for token. Unknown tokens are a no-op.
func (m *Manager) Logout(token string) {
	if token == "" {
		return
	}
	m.sessions.Delete(sessionPrefix + token)
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
