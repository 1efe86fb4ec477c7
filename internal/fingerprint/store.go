// Package fingerprint tracks content hashes of processed source files so
// repeated pipeline runs can skip files that have not changed. The store
// persists next to the output artifacts in msgpack form.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// StoreFileName is the store's file name inside an artifact directory.
const StoreFileName = ".ctg-fingerprints"

// Store maps root-relative file paths to content hashes. It is safe for
// concurrent use by pipeline workers.
type Store struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]string)}
}

// Sum returns the content hash used as a fingerprint.
func Sum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Unchanged reports whether the path was already processed with the same
// content hash.
func (s *Store) Unchanged(path, sum string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries[path] == sum
}

// Record stores the fingerprint for a successfully processed file.
func (s *Store) Record(path, sum string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[path] = sum
}

// Forget removes the fingerprint for a path.
func (s *Store) Forget(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, path)
}

// Len returns the number of tracked files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Save writes the store in msgpack form.
func (s *Store) Save(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := msgpack.NewEncoder(w).Encode(s.entries); err != nil {
		return fmt.Errorf("encoding fingerprint store: %w", err)
	}
	return nil
}

// Load replaces the store's contents from msgpack form.
func (s *Store) Load(r io.Reader) error {
	var entries map[string]string
	if err := msgpack.NewDecoder(r).Decode(&entries); err != nil {
		return fmt.Errorf("decoding fingerprint store: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	return nil
}

// LoadFromFile reads a store from disk. A missing file yields an empty
// store; a corrupt one is an error so the caller can decide to rebuild.
func LoadFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewStore(), nil
		}
		return nil, fmt.Errorf("opening fingerprint store: %w", err)
	}
	defer f.Close()

	s := NewStore()
	if err := s.Load(f); err != nil {
		return nil, err
	}
	return s, nil
}

// PersistToFile writes the store to disk.
func (s *Store) PersistToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating fingerprint store: %w", err)
	}
	defer f.Close()
	return s.Save(f)
}
