package store

import (
	"context"
	"sync"

	"github.com/pawwell/pawwell-go/auth"
)

// Memory is an in-process TokenStore for tests and short-lived CLIs.
// The zero value is ready to use.
type Memory struct {
	mu      sync.Mutex
	cred    auth.Credential
	present bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

// Save replaces the stored credential.
func (m *Memory) Save(_ context.Context, cred auth.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = cred
	m.present = true
	return nil
}

// Load returns the stored credential, if any.
func (m *Memory) Load(_ context.Context) (auth.Credential, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.present || m.cred.Empty() {
		return auth.Credential{}, false, nil
	}
	return m.cred, true, nil
}

// Clear drops the stored credential.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = auth.Credential{}
	m.present = false
	return nil
}
