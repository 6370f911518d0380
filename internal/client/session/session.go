// Package session holds the signed-in state of the client: the bearer
// credential and the current user record.
//
// A *Session is created once at startup and passed explicitly to everything
// that needs it. It has two observable states, with or without a
// credential, and one automatic transition: Teardown, triggered by logout or
// by the backend rejecting the credential.
//
// Session is safe for concurrent use.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/sanguischat/internal/client/models"
	"github.com/dmitrijs2005/sanguischat/internal/logging"
)

type Session struct {
	mu    sync.RWMutex
	store Store
	log   logging.Logger

	token string
	user  *models.User
}

func New(store Store, log logging.Logger) *Session {
	return &Session{store: store, log: log}
}

// Load reads the persisted credential. The user stays unknown until the
// caller fetches it.
func (s *Session) Load(ctx context.Context) error {
	token, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) HasCredential() bool {
	return s.Token() != ""
}

// User returns a copy of the current user, or nil when unknown.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetUser replaces the in-memory user record.
func (s *Session) SetUser(u *models.User) {
	var cp *models.User
	if u != nil {
		v := *u
		cp = &v
	}
	s.mu.Lock()
	s.user = cp
	s.mu.Unlock()
}

// Establish stores a freshly issued credential together with its user.
func (s *Session) Establish(ctx context.Context, token string, u *models.User) error {
	if err := s.store.Save(ctx, token); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.SetUser(u)
	return nil
}

// Teardown forgets the credential and the user. Memory is cleared first so
// the session is signed out even if the store fails.
func (s *Session) Teardown(ctx context.Context) error {
	s.mu.Lock()
	had := s.token != ""
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if had {
		s.log.Info(ctx, "session cleared")
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Expiry reads the exp claim of a JWT credential without verifying it.
// ok is false for opaque credentials or tokens without exp.
func (s *Session) Expiry() (exp time.Time, ok bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
