package client

import (
	"context"
	"errors"
	"fmt"

	apperrors "pointmap/internal/errors"
	"pointmap/internal/logging"
)

// ErrLoginAbandoned is returned by a Prompter when the user backs out.
var ErrLoginAbandoned = errors.New("login abandoned")

// Credentials are what a Prompter collects.
type Credentials struct {
	Username string
	Password string
}

// Prompter asks the user to log in. reason describes the action waiting on it.
type Prompter interface {
	PromptCredentials(ctx context.Context, reason string) (Credentials, error)
}

// Authenticator issues sessions. *API satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*Session, error)
}

// Action is an authenticated user action.
type Action func(ctx context.Context, session Session) error

// PendingAction is an action suspended until a login completes.
type PendingAction struct {
	Description string
	Resume      Action
}

// SessionCache holds the current session and runs actions under it,
// suspending them behind a login prompt when there is none.
type SessionCache struct {
	auth     Authenticator
	store    SessionStore
	prompter Prompter

	session *Session
	loaded  bool
	pending *PendingAction
}

// NewSessionCache creates a session cache backed by store.
func NewSessionCache(auth Authenticator, store SessionStore, prompter Prompter) *SessionCache {
	return &SessionCache{auth: auth, store: store, prompter: prompter}
}

// Current returns the cached session, loading it from the store on first use.
func (c *SessionCache) Current() (Session, bool) {
	if !c.loaded {
		c.loaded = true
		s, err := c.store.Load()
		if err != nil {
			logging.Warn().Err(err).Msg("discarding unreadable session")
			_ = c.store.Clear()
		}
		c.session = s
	}
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Pending returns the action waiting on a login, if any.
func (c *SessionCache) Pending() (PendingAction, bool) {
	if c.pending == nil {
		return PendingAction{}, false
	}
	return *c.pending, true
}

// Login authenticates and replaces the cached session.
func (c *SessionCache) Login(ctx context.Context, username, password string) (Session, error) {
	s, err := c.auth.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	if err := c.store.Save(*s); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	c.session = s
	c.loaded = true
	return *s, nil
}

// Logout forgets the local session. The token stays valid until it expires.
func (c *SessionCache) Logout() error {
	c.session = nil
	c.loaded = true
	c.pending = nil
	return c.store.Clear()
}

// Do runs action with the cached session. Without one, the action is parked
// as a PendingAction, the user is prompted, and the action resumes exactly
// once after a successful login. A failed or abandoned login discards it.
//
// An action failing with ErrUnauthenticated drops the cached session so the
// next action prompts again. Nothing is retried.
func (c *SessionCache) Do(ctx context.Context, description string, action Action) error {
	if s, ok := c.Current(); ok {
		return c.run(ctx, s, action)
	}

	c.pending = &PendingAction{Description: description, Resume: action}

	creds, err := c.prompter.PromptCredentials(ctx, description)
	if err != nil {
		c.pending = nil
		return err
	}

	s, err := c.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		c.pending = nil
		return err
	}

	pending := c.pending
	c.pending = nil
	if pending == nil {
		return nil
	}
	return c.run(ctx, s, pending.Resume)
}

func (c *SessionCache) run(ctx context.Context, s Session, action Action) error {
	err := action(ctx, s)
	if errors.Is(err, apperrors.ErrUnauthenticated) {
		logging.Info().Str("user", s.User.Username).Msg("session rejected by server, logging out")
		c.session = nil
		_ = c.store.Clear()
	}
	return err
}
