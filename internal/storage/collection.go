package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Record is anything a list collection can match by ID.
type Record interface {
	RecordID() string
}

// Normalizer lets records fix themselves up after decoding and before
// encoding, e.g. by trimming strings or filling defaulted fields.
type Normalizer interface {
	Normalize()
}

// Document describes a singleton collection holding exactly one record,
// e.g. the app settings.
type Document[T any] struct {
	Group   string
	Name    string
	Default func() T
}

func (d Document[T]) path(root string) string {
	return filepath.Join(root, d.Group, d.Name+".json")
}

// List describes a collection holding a list of records, stored as a
// single document with an "items" wrapper. Partitioned lists live in a
// subdirectory per account book.
type List[T Record] struct {
	Group       string
	Name        string
	Partitioned bool
}

func (l List[T]) path(root, bookID string) (string, error) {
	if !l.Partitioned {
		return filepath.Join(root, l.Group, l.Name+".json"), nil
	}

	if bookID == "" {
		return "", ErrPartitionRequired
	}

	return filepath.Join(root, l.Group, bookID, l.Name+".json"), nil
}

// documentList is the on-disk shape of a list collection.
type documentList[T any] struct {
	Items []T `json:"items"`
}

// normalize runs the record's Normalize hook if it has one.
func normalize(v any) {
	if n, ok := v.(Normalizer); ok {
		n.Normalize()
	}
}

// LoadDocument returns the current value of a singleton collection.
//
// An absent or empty file yields the declared default, which is persisted so
// the collection is self-healing and later reads are idempotent. A document
// that fails to decode is treated the same way. This deliberately favors
// availability over surfacing corruption. All other read errors degrade to
// the default without persisting anything.
func LoadDocument[T any](s *Store, d Document[T]) T {
	path := d.path(s.root)

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	documentReads.WithLabelValues(filepath.Base(path)).Inc()

	value := d.Default()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Str("collection", d.Name).Msg("reading collection failed, using default")
		return value
	}

	if err == nil && len(data) > 0 {
		// Unmarshalling into the default value keeps the declared defaults
		// for fields the document does not set. Unknown fields are ignored.
		if jsonErr := json.Unmarshal(data, &value); jsonErr == nil {
			normalize(&value)
			return value
		} else {
			s.log.Warn().Err(jsonErr).Str("collection", d.Name).Msg("collection is corrupt, replacing with default")
			value = d.Default()
		}
	}

	normalize(&value)
	if err := persistDocument(s, d.Name, path, value); err != nil {
		s.log.Warn().Err(err).Str("collection", d.Name).Msg("persisting default failed")
	}

	return value
}

// SaveDocument replaces the singleton collection with the given value.
func SaveDocument[T any](s *Store, d Document[T], value T) error {
	path := d.path(s.root)

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	return persistDocument(s, d.Name, path, value)
}

func persistDocument[T any](s *Store, name, path string, value T) error {
	normalize(&value)

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	return s.writeDocument(path, data)
}

// LoadList returns all records of a list collection. The default for an
// absent, empty or corrupt document is the empty list, with the same
// self-healing behavior as LoadDocument.
func LoadList[T Record](s *Store, l List[T], bookID string) ([]T, error) {
	path, err := l.path(s.root, bookID)
	if err != nil {
		return nil, err
	}

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	return loadListLocked(s, l, path), nil
}

// SaveList replaces the whole list collection with the given records.
func SaveList[T Record](s *Store, l List[T], bookID string, items []T) error {
	path, err := l.path(s.root, bookID)
	if err != nil {
		return err
	}

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	return saveListLocked(s, l, path, items)
}

// AddRecord appends a record to a list collection.
func AddRecord[T Record](s *Store, l List[T], bookID string, record T) error {
	path, err := l.path(s.root, bookID)
	if err != nil {
		return err
	}

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	items := loadListLocked(s, l, path)
	items = append(items, record)
	return saveListLocked(s, l, path, items)
}

// UpdateRecord replaces the record with the same ID. If no record with the
// ID exists, the update is a no-op, not an error.
func UpdateRecord[T Record](s *Store, l List[T], bookID string, record T) error {
	path, err := l.path(s.root, bookID)
	if err != nil {
		return err
	}

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	items := loadListLocked(s, l, path)
	for i := range items {
		if items[i].RecordID() == record.RecordID() {
			items[i] = record
			return saveListLocked(s, l, path, items)
		}
	}

	return nil
}

// RemoveRecord removes the record with the given ID. If no record with the
// ID exists, the removal is a no-op, not an error.
func RemoveRecord[T Record](s *Store, l List[T], bookID, id string) error {
	path, err := l.path(s.root, bookID)
	if err != nil {
		return err
	}

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	items := loadListLocked(s, l, path)
	for i := range items {
		if items[i].RecordID() == id {
			items = append(items[:i], items[i+1:]...)
			return saveListLocked(s, l, path, items)
		}
	}

	return nil
}

// FindRecord returns the record with the given ID from a loaded list.
func FindRecord[T Record](items []T, id string) (T, bool) {
	for _, item := range items {
		if item.RecordID() == id {
			return item, true
		}
	}

	var zero T
	return zero, false
}

func loadListLocked[T Record](s *Store, l List[T], path string) []T {
	documentReads.WithLabelValues(filepath.Base(path)).Inc()

	var doc documentList[T]
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn().Err(err).Str("collection", l.Name).Msg("reading collection failed, using empty list")
		return []T{}
	}

	if err == nil && len(data) > 0 {
		if jsonErr := json.Unmarshal(data, &doc); jsonErr == nil {
			if doc.Items == nil {
				doc.Items = []T{}
			}
			for i := range doc.Items {
				normalize(&doc.Items[i])
			}
			return doc.Items
		}

		s.log.Warn().Str("collection", l.Name).Msg("collection is corrupt, replacing with empty list")
	}

	doc.Items = []T{}
	if err := saveListLocked(s, l, path, doc.Items); err != nil {
		s.log.Warn().Err(err).Str("collection", l.Name).Msg("persisting default failed")
	}

	return doc.Items
}

func saveListLocked[T Record](s *Store, l List[T], path string, items []T) error {
	if items == nil {
		items = []T{}
	}

	for i := range items {
		normalize(&items[i])
	}

	data, err := json.MarshalIndent(documentList[T]{Items: items}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", l.Name, err)
	}

	return s.writeDocument(path, data)
}
