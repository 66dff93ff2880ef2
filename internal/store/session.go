package store

import (
	"sync"
	"time"

	"github.com/koriwi/nutriplan-cli/internal/auth"
)

// TokenStore persists tokens between runs.
type TokenStore interface {
	Save(auth.Tokens) error
	Load() (auth.Tokens, error)
	Clear() error
}

// Session holds the decoded access token and the identity it carries.
type Session struct {
	mu       sync.RWMutex
	store    TokenStore
	tokens   auth.Tokens
	identity auth.Identity
	now      func() time.Time
}

func NewSession(ts TokenStore) *Session {
	return &Session{store: ts, now: time.Now}
}

// Restore loads saved tokens. An expired access token is kept as long as a
// refresh token exists, since the API client can still refresh it.
func (s *Session) Restore() error {
	t, err := s.store.Load()
	if err != nil {
		return err
	}
	if t.AccessToken == "" {
		return nil
	}
	id, err := auth.Decode(t.AccessToken)
	if err != nil {
		return err
	}
	if id.Expired(s.now()) && t.RefreshToken == "" {
		return s.store.Clear()
	}
	s.mu.Lock()
	s.tokens, s.identity = t, id
	s.mu.Unlock()
	return nil
}

// Login stores a fresh token pair.
func (s *Session) Login(t auth.Tokens) error {
	id, err := auth.Decode(t.AccessToken)
	if err != nil {
		return err
	}
	if err := s.store.Save(t); err != nil {
		return err
	}
	s.mu.Lock()
	s.tokens, s.identity = t, id
	s.mu.Unlock()
	return nil
}

// UpdateTokens is the API client's refresh callback.
func (s *Session) UpdateTokens(accessToken, refreshToken string) error {
	return s.Login(auth.Tokens{AccessToken: accessToken, RefreshToken: refreshToken})
}

// Logout forgets the session and removes the token file.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.tokens, s.identity = auth.Tokens{}, auth.Identity{}
	s.mu.Unlock()
	return s.store.Clear()
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.AccessToken != ""
}

func (s *Session) Identity() auth.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Session) Tokens() auth.Tokens {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens
}
