// Package store persists dashboard preferences (set-points and theme) in
// a small key-value table. Data lives in ~/.coldroom/.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	dirName  = ".coldroom"
	fileName = "prefs.db"
)

// Store is the key-value capability the dashboard persists through.
type Store interface {
	// Load returns the value for key and whether it was present.
	Load(ctx context.Context, key string) (string, bool, error)
	// Save writes value under key, replacing any previous value.
	Save(ctx context.Context, key, value string) error
}

// DataDir returns the path to the data directory.
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName)
}

// DefaultPath returns the default preference database path, creating the
// data directory if needed.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot find home dir: %w", err)
	}
	dir := filepath.Join(home, dirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("cannot create data dir: %w", err)
	}
	return filepath.Join(dir, fileName), nil
}

// Memory is an in-process Store, used when no database is configured.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
