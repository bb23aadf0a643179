// Package session persists small user preferences between runs, most
// importantly which user is logged in.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// KeyUserID holds the logged-in user id. Keys are case-insensitive.
const KeyUserID = "userId"

// Store is a JSON preference file. A missing key means logged out.
type Store struct {
	mu   sync.Mutex
	path string
	v    *viper.Viper
}

// Open loads the preference file at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, v: newViper(path)}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err := s.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	return s, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigFile(path)
	return v
}

// Save records userID as the logged-in user.
func (s *Store) Save(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(KeyUserID, userID)
	return s.write()
}

// CurrentUserID returns the logged-in user id, if any.
func (s *Store) CurrentUserID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.v.IsSet(KeyUserID) {
		return 0, false
	}
	id := s.v.GetInt64(KeyUserID)
	return id, id > 0
}

// Clear logs the user out. Other preferences are kept.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// viper cannot unset a key, so rebuild without it.
	settings := s.v.AllSettings()
	delete(settings, strings.ToLower(KeyUserID))

	fresh := newViper(s.path)
	if err := fresh.MergeConfigMap(settings); err != nil {
		return fmt.Errorf("failed to rebuild session: %w", err)
	}
	s.v = fresh
	return s.write()
}

func (s *Store) write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}
