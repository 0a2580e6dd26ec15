package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/pawwell/pawwell-go/auth"
)

// File is a TokenStore backed by a JSON file in the user's profile, the
// durable per-profile storage a desktop or CLI client gets. Writes go through
// a temp file + rename so a crash never leaves a half-written credential.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile returns a file-backed store at path. The parent directory is
// created on first save.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("store: path required")
	}
	return &File{path: path}, nil
}

// DefaultFilePath places the credential file under the user config dir
// (e.g. ~/.config/pawwell/credentials.json).
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pawwell", "credentials.json"), nil
}

// Save writes the credential with 0600 permissions.
func (f *File) Save(_ context.Context, cred auth.Credential) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Load reads the stored credential. A missing, unreadable, or corrupt file
// reports absence rather than an error: the caller treats it as logged-out.
func (f *File) Load(_ context.Context) (auth.Credential, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path)
	if err != nil {
		return auth.Credential{}, false, nil
	}
	var cred auth.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return auth.Credential{}, false, nil
	}
	if cred.Empty() {
		return auth.Credential{}, false, nil
	}
	return cred, true, nil
}

// Clear removes the credential file. A file that is already gone is not an
// error.
func (f *File) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
