package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultModel is the base model for all records that carry their own identity.
type DefaultModel struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecordID returns the record's unique ID. It implements matching by ID
// for the document store's list operations.
func (m DefaultModel) RecordID() string {
	return m.ID
}

// SetRecordID overrides the record's ID, e.g. with the ID from a request
// path.
func (m *DefaultModel) SetRecordID(id string) {
	m.ID = id
}

// EnsureDefaults sets the ID and the creation timestamp for new records.
// Timestamps are always stored in UTC.
func (m *DefaultModel) EnsureDefaults() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().In(time.UTC)
	} else {
		m.CreatedAt = m.CreatedAt.In(time.UTC)
	}
}
