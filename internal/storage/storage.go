// Package storage implements the document store: every collection is one
// JSON document on disk, replaced in full on every write.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

// The top-level collection groups below the store root.
const (
	GroupConfig    = "config"
	GroupAccounts  = "accounts"
	GroupRecords   = "records"
	GroupBudget    = "budget"
	GroupSavings   = "savings"
	GroupReminders = "reminders"
)

// Groups lists every collection group as laid out on disk.
var Groups = []string{GroupConfig, GroupAccounts, GroupRecords, GroupBudget, GroupSavings, GroupReminders}

var ErrPartitionRequired = errors.New("this collection is partitioned by account book and needs a book ID")

// Store is a document store rooted at a directory. Writers on the same
// collection file are serialized with a per-file lock. The lost-update race
// between separate processes is documented as out of scope.
type Store struct {
	root string
	log  zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a store rooted at the given directory and makes sure all
// collection group directories exist.
func New(root string, log zerolog.Logger) (*Store, error) {
	for _, group := range Groups {
		if err := os.MkdirAll(filepath.Join(root, group), 0o755); err != nil {
			return nil, fmt.Errorf("creating collection directory: %w", err)
		}
	}

	return &Store{
		root:  root,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Root returns the root directory of the store.
func (s *Store) Root() string {
	return s.root
}

// Partitions returns the IDs of all account books that have a record
// subtree on disk.
func (s *Store) Partitions() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, GroupRecords))
	if err != nil {
		return nil, fmt.Errorf("listing record partitions: %w", err)
	}

	partitions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			partitions = append(partitions, entry.Name())
		}
	}

	return partitions, nil
}

// RemovePartition deletes the record subtree of an account book.
func (s *Store) RemovePartition(bookID string) error {
	if bookID == "" {
		return ErrPartitionRequired
	}

	err := os.RemoveAll(filepath.Join(s.root, GroupRecords, bookID))
	if err != nil {
		return fmt.Errorf("removing record partition: %w", err)
	}

	return nil
}

// lockFor returns the lock serializing writers of one collection file.
func (s *Store) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[path] = lock
	}

	return lock
}

// writeDocument writes the document to a temporary file next to its final
// location and renames it into place. An interrupted write can therefore
// never corrupt the previous version of the document.
func (s *Store) writeDocument(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating collection directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing document: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing document: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing document: %w", err)
	}

	documentWrites.WithLabelValues(filepath.Base(path)).Inc()
	return nil
}
