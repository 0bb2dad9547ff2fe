package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/budgetiq/budgetiq/internal/model"
)

// Keyring persists the two independent session entries. Token and user are
// stored separately so partial corruption of one can be detected.
type Keyring interface {
	SaveToken(token string) error
	LoadToken() (string, error)
	SaveUser(user model.User) error
	LoadUser() (model.User, bool, error)
	Clear() error
}

const (
	tokenFile = "token"
	userFile  = "user.json"
)

// FileKeyring stores the session entries as files in a data directory,
// mirroring the two localStorage keys the web client uses.
type FileKeyring struct {
	dir string
}

// NewFileKeyring creates a keyring rooted at dir, creating it if needed.
func NewFileKeyring(dir string) (*FileKeyring, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &FileKeyring{dir: dir}, nil
}

// SaveToken persists the bearer token.
func (k *FileKeyring) SaveToken(token string) error {
	if err := os.WriteFile(filepath.Join(k.dir, tokenFile), []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken returns the persisted token, or "" when absent.
func (k *FileKeyring) LoadToken() (string, error) {
	data, err := os.ReadFile(filepath.Join(k.dir, tokenFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return string(data), nil
}

// SaveUser persists the user profile as JSON.
func (k *FileKeyring) SaveUser(user model.User) error {
	data, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := os.WriteFile(filepath.Join(k.dir, userFile), data, 0600); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// LoadUser returns the persisted user and whether a well-formed entry exists.
func (k *FileKeyring) LoadUser() (model.User, bool, error) {
	data, err := os.ReadFile(filepath.Join(k.dir, userFile))
	if errors.Is(err, fs.ErrNotExist) {
		return model.User{}, false, nil
	}
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to load user: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		// A corrupt entry is treated as absent, not fatal.
		return model.User{}, false, nil
	}
	return user, true, nil
}

// Clear removes both entries. Missing files are not an error.
func (k *FileKeyring) Clear() error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(k.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to clear session entry %s: %w", name, err)
		}
	}
	return nil
}
