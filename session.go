package sdk

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pawwell/pawwell-go/auth"
)

// SessionState tracks how far session initialization has progressed.
type SessionState string

const (
	SessionUninitialized SessionState = "uninitialized"
	SessionLoading       SessionState = "loading"
	SessionReady         SessionState = "ready"
)

// SessionSnapshot is the UI-visible view of the session at one instant.
type SessionSnapshot struct {
	State    SessionState
	LoggedIn bool
	User     *User
}

// Session is the process-wide holder of the current user and auth status.
// It is constructed explicitly (once, at application start), never ambient;
// resetting it happens only through Logout or an irrecoverable refresh
// failure. The token store and refresh flag stay inside the client; the
// session only mirrors credential state into UI-visible fields.
type Session struct {
	client *Client

	mu    sync.Mutex
	state SessionState
	user  *User

	subMu sync.Mutex
	subs  []func(SessionSnapshot)
}

// NewSession binds a session to a client. The session subscribes to the
// client's expiry signal so a failed refresh flips it to logged-out.
func NewSession(client *Client) (*Session, error) {
	if client == nil {
		return nil, ConfigError{Reason: "client is required"}
	}
	s := &Session{client: client, state: SessionUninitialized}
	client.OnSessionExpired(s.handleExpired)
	return s, nil
}

// OnChange registers a subscriber invoked with a snapshot after every state
// transition. Subscribers run outside the session lock.
func (s *Session) OnChange(fn func(SessionSnapshot)) {
	if fn == nil {
		return
	}
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

// Snapshot returns the current UI-visible view.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() SessionSnapshot {
	snap := SessionSnapshot{State: s.state, LoggedIn: s.user != nil}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// CurrentUser returns a copy of the session user, or nil when logged out.
func (s *Session) CurrentUser() *User {
	return s.Snapshot().User
}

// LoggedIn reports whether a user is currently attached to the session.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// State returns the initialization state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) transition(state SessionState, user *User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Session) notify(snap SessionSnapshot) {
	s.subMu.Lock()
	subs := make([]func(SessionSnapshot), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// Initialize restores the session from the token store. With no stored
// credential it settles at ready/logged-out. Otherwise the cached user
// snapshot is published optimistically (state loading) while the profile
// endpoint confirms it; when the confirm fails but a snapshot existed, the
// snapshot is kept so a flaky backend does not log the user out.
func (s *Session) Initialize(ctx context.Context) error {
	s.transition(SessionLoading, nil)

	cred, ok, err := s.client.store.Load(ctx)
	if err != nil {
		s.transition(SessionReady, nil)
		return err
	}
	if !ok {
		s.transition(SessionReady, nil)
		return nil
	}

	cached := cred.User
	if cached != nil {
		u := *cached
		s.transition(SessionLoading, &u)
	}

	user, err := s.client.Accounts.Profile(ctx)
	if err != nil {
		// A failed refresh already cleared the store; the cached snapshot
		// is dead with it.
		if errors.Is(err, ErrSessionExpired) {
			s.transition(SessionReady, nil)
			return nil
		}
		if cached != nil {
			u := *cached
			s.transition(SessionReady, &u)
			return nil
		}
		//nolint:errcheck // a credential the server rejects is already dead
		_ = s.client.store.Clear(ctx)
		s.transition(SessionReady, nil)
		return nil
	}

	s.cacheUser(ctx, user)
	s.transition(SessionReady, &user)
	return nil
}

// Login authenticates and transitions to logged-in on success. On failure
// the session stays logged-out and the backend's message propagates to the
// caller; the UI is responsible for disabling re-submission while loading.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.transition(SessionLoading, nil)
	resp, err := s.client.Accounts.Login(ctx, email, password)
	if err != nil {
		s.transition(SessionReady, nil)
		return err
	}
	user := resp.User
	if user == nil {
		fetched, err := s.client.Accounts.Profile(ctx)
		if err != nil {
			s.transition(SessionReady, nil)
			return fmt.Errorf("sdk: login succeeded but profile fetch failed: %w", err)
		}
		user = &fetched
		s.cacheUser(ctx, fetched)
	}
	u := *user
	s.transition(SessionReady, &u)
	return nil
}

// Register creates an account. Registration does not imply login: email
// verification comes first, so session state is untouched on success.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (StatusResponse, error) {
	return s.client.Accounts.Register(ctx, req)
}

// Logout ends the session. The server-side blacklist call is best-effort;
// the local transition to logged-out is unconditional.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Accounts.Logout(ctx)
	s.transition(SessionReady, nil)
	return err
}

// RefreshProfile refetches and overwrites the session user. Transient
// failures propagate without clearing the session.
func (s *Session) RefreshProfile(ctx context.Context) error {
	user, err := s.client.Accounts.Profile(ctx)
	if err != nil {
		return err
	}
	s.cacheUser(ctx, user)
	s.transition(SessionReady, &user)
	return nil
}

// cacheUser stores the confirmed profile alongside the credential so the
// next Initialize can publish it before the network answers.
func (s *Session) cacheUser(ctx context.Context, user auth.User) {
	cred, ok, err := s.client.store.Load(ctx)
	if err != nil || !ok {
		return
	}
	cred.User = &user
	//nolint:errcheck // snapshot caching is best-effort
	_ = s.client.store.Save(ctx, cred)
}

func (s *Session) handleExpired() {
	s.transition(SessionReady, nil)
}
