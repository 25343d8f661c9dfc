// Package auth gates the vault behind a single master password and tracks
// authenticated browser sessions.
package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// DefaultSessionTTL keeps a login alive for a working day.
const DefaultSessionTTL = 12 * time.Hour

// SessionStore tracks issued session tokens.
type SessionStore interface {
	Put(token string, expires time.Time)
	Valid(token string, now time.Time) bool
	Delete(token string)
	Prune(now time.Time)
}

// Gate verifies the master password and issues session tokens.
type Gate struct {
	password string
	ttl      time.Duration
	sessions SessionStore
}

func NewGate(password string, ttl time.Duration, sessions SessionStore) *Gate {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if sessions == nil {
		sessions = NewMemorySessionStore()
	}
	return &Gate{password: password, ttl: ttl, sessions: sessions}
}

// Check compares the candidate against the master password in constant time.
func (g *Gate) Check(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(g.password)) == 1
}

// Login verifies the password and, on success, issues a session token.
func (g *Gate) Login(password string) (string, bool) {
	if !g.Check(password) {
		return "", false
	}
	token, err := newToken()
	if err != nil {
		return "", false
	}
	g.sessions.Put(token, time.Now().Add(g.ttl))
	return token, true
}

// Authenticated reports whether the token belongs to a live session.
func (g *Gate) Authenticated(token string) bool {
	if token == "" {
		return false
	}
	return g.sessions.Valid(token, time.Now())
}

// Logout invalidates the session token.
func (g *Gate) Logout(token string) {
	g.sessions.Delete(token)
}

// PruneLoop evicts expired sessions until the context is cancelled.
func (g *Gate) PruneLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			g.sessions.Prune(now)
		}
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// MemorySessionStore keeps sessions in process memory. Restarting the server
// logs everyone out, which is acceptable for a single-user vault.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]time.Time)}
}

func (s *MemorySessionStore) Put(token string, expires time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = expires
}

func (s *MemorySessionStore) Valid(token string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expires, ok := s.sessions[token]
	if !ok {
		return false
	}
	if now.After(expires) {
		delete(s.sessions, token)
		return false
	}
	return true
}

func (s *MemorySessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *MemorySessionStore) Prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, expires := range s.sessions {
		if now.After(expires) {
			delete(s.sessions, token)
		}
	}
}
