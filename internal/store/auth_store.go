// Package store holds the client-side session state: the authenticated
// identity and the task/developer collections, together with the
// operations that change them. Every mutation goes to the server first
// and ends with a full reload of the authoritative data; the stores
// never compute new server state locally.
package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/devtrack/taskboard/internal/client"
	"github.com/devtrack/taskboard/internal/models"
	"github.com/devtrack/taskboard/internal/notify"
	"github.com/devtrack/taskboard/internal/repository"
)

// AuthStore is the single source of truth for who is logged in.
//
// Lifecycle: NewAuthStore → Init → operations → Close. Init consults
// the durable session hint and only probes the profile endpoint when a
// previous session is likely to exist, so a never-logged-in client
// makes no unauthenticated request on startup.
//
// Transitions: loading → authenticated or anonymous after Init;
// anonymous → authenticated only via a successful Login;
// authenticated → anonymous via Logout or a failed FetchUser.
type AuthStore struct {
	api      *client.Client
	sessions *repository.SessionRepository
	notifier notify.Notifier
	logger   *log.Logger

	mu          sync.Mutex
	user        *models.User
	loading     bool
	closed      bool
	subscribers []func(*models.User)
}

func NewAuthStore(api *client.Client, sessions *repository.SessionRepository, notifier notify.Notifier, logger *log.Logger) *AuthStore {
	return &AuthStore{
		api:      api,
		sessions: sessions,
		notifier: notifier,
		logger:   logger,
		loading:  true,
	}
}

// Init resolves the startup state. With the hint present it fetches the
// profile; otherwise it settles into the anonymous state without a
// network call.
func (s *AuthStore) Init(ctx context.Context) {
	present, err := s.sessions.Present()
	if err != nil {
		s.logger.Printf("read session hint: %v", err)
	}
	if present {
		if err := s.FetchUser(ctx); err != nil {
			s.logger.Printf("startup profile fetch: %v", err)
		}
		return
	}

	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// Close stops identity-change delivery. Operations after Close still
// work but no longer notify subscribers.
func (s *AuthStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subscribers = nil
}

// Subscribe registers fn to run on every identity transition, including
// transitions to nil. Callbacks run outside the store's lock, on the
// goroutine performing the operation.
func (s *AuthStore) Subscribe(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.subscribers = append(s.subscribers, fn)
}

// User returns the current identity, or nil when anonymous.
func (s *AuthStore) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether the startup state is still being resolved.
func (s *AuthStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// FetchUser refreshes the identity from the profile endpoint. Any
// failure — transport, expired session, server error — resets to the
// anonymous state and removes the durable hint. Safe to call
// concurrently; the last response wins.
func (s *AuthStore) FetchUser(ctx context.Context) error {
	u, err := s.api.Profile(ctx)
	if err != nil {
		if cerr := s.sessions.Clear(); cerr != nil {
			s.logger.Printf("clear session hint: %v", cerr)
		}
		s.setUser(nil)
		return fmt.Errorf("fetch user: %w", err)
	}

	s.setUser(u)
	return nil
}

// Login establishes a server session and populates the identity. On
// failure the error is returned to the caller after a failure
// notification; the login form must not assume it was handled.
func (s *AuthStore) Login(ctx context.Context, creds client.Credentials) error {
	if err := s.api.Login(ctx, creds); err != nil {
		s.notifier.Failure("Login failed. Please check your credentials.")
		return err
	}

	if err := s.sessions.Set(); err != nil {
		s.logger.Printf("set session hint: %v", err)
	}

	// A profile failure here already reset the store to anonymous and
	// dropped the hint inside FetchUser.
	if err := s.FetchUser(ctx); err != nil {
		s.logger.Printf("post-login profile fetch: %v", err)
	}

	s.notifier.Success("Login successful!")
	return nil
}

// Logout ends the session. It is always locally effective: the hint and
// identity are cleared even when the server call fails.
func (s *AuthStore) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)

	if cerr := s.sessions.Clear(); cerr != nil {
		s.logger.Printf("clear session hint: %v", cerr)
	}
	s.setUser(nil)

	if err != nil {
		s.notifier.Failure("Logout failed.")
		return err
	}
	s.notifier.Success("Logged out successfully!")
	return nil
}

// Register creates an account. It does not log the new user in.
func (s *AuthStore) Register(ctx context.Context, req client.RegisterRequest) (*models.User, error) {
	u, err := s.api.Register(ctx, req)
	if err != nil {
		s.notifier.Failure("Registration failed.")
		return nil, err
	}
	s.notifier.Success("Account created. You can log in now.")
	return u, nil
}

func (s *AuthStore) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.loading = false
	subs := make([]func(*models.User), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(u)
	}
}
