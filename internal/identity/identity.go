// Package identity implements the mock identity store: plaintext credentials and a single process-wide session.
//
// Credentials and the session email live in a [repositories.Store] under [repositories.UsersKey] and
// [repositories.SessionKey]. Passwords are stored and compared in plaintext; this is a mock identity
// policy and must not be used for real accounts.
//
// Domain failures ([ErrDuplicateUser], [ErrUserNotFound], [ErrInvalidCredential]) are reported through
// [Result], never as the returned error. The error return is reserved for storage failures.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rmx/internal/events"
	"github.com/desertthunder/rmx/internal/models"
	"github.com/desertthunder/rmx/internal/repositories"
)

// sessionCommitted runs after a session change is persisted and applied, before subscribers are notified.
var sessionCommitted = func() {}

var (
	ErrDuplicateUser     = errors.New("duplicate user")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid credential")
)

// User-facing messages.
const (
	MsgDuplicateUser     = "User with this email already exists."
	MsgRegistered        = "Registration successful! You can now log in."
	MsgUserNotFound      = "User not found."
	MsgInvalidCredential = "Incorrect password."
	MsgLoggedIn          = "Login successful!"
)

// Result is the outcome of [Store.Register] and [Store.Login].
type Result struct {
	Success bool
	Message string
	Reason  error // nil on success, otherwise one of the package sentinels
}

func ok(msg string) Result { return Result{Success: true, Message: msg} }

func fail(reason error, msg string) Result { return Result{Message: msg, Reason: reason} }

// Session is the optional current user. Email is meaningful only when Active is true.
type Session struct {
	Email  string
	Active bool
}

// Store owns the credential list and the session value.
type Store struct {
	kv       repositories.Store
	logger   *log.Logger
	mu       sync.Mutex
	sessions *events.Subject[Session]
}

// New creates a [Store] and loads any previously persisted session.
//
// A present session key restores the session, even when the stored email is empty. A missing or
// unreadable key starts the store logged out.
func New(ctx context.Context, kv repositories.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Store{
		kv:       kv,
		logger:   logger.With("component", "identity"),
		sessions: events.NewSubject(Session{}),
	}

	raw, found, err := kv.Get(ctx, repositories.SessionKey)
	if err != nil {
		s.logger.Warn("failed to load persisted session", "err", err)
		return s
	}
	if found {
		s.sessions.Publish(Session{Email: string(raw), Active: true})
	}

	return s
}

// users loads the credential list, treating a missing or corrupted value as empty.
func (s *Store) users(ctx context.Context) ([]models.Credential, error) {
	var users []models.Credential
	found, err := repositories.LoadJSON(ctx, s.kv, repositories.UsersKey, &users)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return users, nil
}

func find(users []models.Credential, email string) (models.Credential, bool) {
	i := slices.IndexFunc(users, func(u models.Credential) bool { return u.Email == email })
	if i < 0 {
		return models.Credential{}, false
	}
	return users[i], true
}

// Register appends a new credential unless the email is already registered.
//
// No email-format or password-strength validation happens here.
func (s *Store) Register(ctx context.Context, email, password string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return Result{}, err
	}

	if _, exists := find(users, email); exists {
		return fail(ErrDuplicateUser, MsgDuplicateUser), nil
	}

	users = append(users, models.Credential{Email: email, Password: password})
	if err := repositories.SaveJSON(ctx, s.kv, repositories.UsersKey, users); err != nil {
		return Result{}, err
	}

	s.logger.Info("registered user", "email", email)
	return ok(MsgRegistered), nil
}

// Login checks the credential and, on an exact match, persists and publishes the session.
//
// The persisted key and the in-memory session change together under the store lock; subscribers are
// notified after it is released and always receive the session current at that moment.
func (s *Store) Login(ctx context.Context, email, password string) (Result, error) {
	s.mu.Lock()
	users, err := s.users(ctx)
	if err != nil {
		s.mu.Unlock()
		return Result{}, err
	}

	user, exists := find(users, email)
	if !exists {
		s.mu.Unlock()
		return fail(ErrUserNotFound, MsgUserNotFound), nil
	}
	if user.Password != password {
		s.mu.Unlock()
		return fail(ErrInvalidCredential, MsgInvalidCredential), nil
	}

	if err := s.kv.Set(ctx, repositories.SessionKey, []byte(user.Email)); err != nil {
		s.mu.Unlock()
		return Result{}, fmt.Errorf("failed to persist session: %w", err)
	}
	s.sessions.Set(Session{Email: user.Email, Active: true})
	s.mu.Unlock()

	s.logger.Info("logged in", "email", user.Email)
	sessionCommitted()
	s.sessions.Notify()
	return ok(MsgLoggedIn), nil
}

// Logout clears the persisted session and always publishes the logged-out state, even when clearing fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	err := s.kv.Delete(ctx, repositories.SessionKey)
	s.sessions.Set(Session{})
	s.mu.Unlock()

	sessionCommitted()
	s.sessions.Notify()
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.logger.Info("logged out")
	return nil
}

// IsLoggedIn reports whether a session is active.
func (s *Store) IsLoggedIn() bool {
	return s.sessions.Value().Active
}

// CurrentUser returns the session email, if any.
func (s *Store) CurrentUser() (string, bool) {
	sess := s.sessions.Value()
	return sess.Email, sess.Active
}

// Sessions returns the session-change subject. New subscribers receive the current session immediately.
func (s *Store) Sessions() *events.Subject[Session] {
	return s.sessions
}
