// Package jsonstore implements flat JSON file storage. Each collection is a
// single JSON array file that is read and rewritten whole; there are no
// transactions or indexes.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Store reads and writes JSON array files under a base directory.
type Store struct {
	baseDir string
	logger  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a store rooted at baseDir.
func New(baseDir string, logger *slog.Logger) *Store {
	return &Store{
		baseDir: baseDir,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (s *Store) lockFor(name string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.locks[name]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.locks[name] = l
	return l
}

func (s *Store) path(name string) string {
	return filepath.Join(s.baseDir, name)
}

// EnsureFile creates an empty collection file if it does not exist yet.
func (s *Store) EnsureFile(name string) error {
	lock := s.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	path := s.path(name)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(path, []byte("[]"), 0644); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", name, err)
	}
	s.logger.Info("Initialized collection file", "file", name)
	return nil
}

// Read unmarshals the named collection into out. A missing file is
// initialized to an empty array and leaves out untouched.
func (s *Store) Read(name string, out any) error {
	lock := s.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	path := s.path(name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if mkErr := os.MkdirAll(filepath.Dir(path), 0755); mkErr != nil {
			return fmt.Errorf("failed to create data directory: %w", mkErr)
		}
		if wrErr := os.WriteFile(path, []byte("[]"), 0644); wrErr != nil {
			return fmt.Errorf("failed to initialize %s: %w", name, wrErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// Write rewrites the named collection with data, pretty-printed.
func (s *Store) Write(name string, data any) error {
	lock := s.lockFor(name)
	lock.Lock()
	defer lock.Unlock()

	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
