package models

import (
	"errors"
	"strings"
)

var (
	ErrBookNameMissing   = errors.New("account books must have a name")
	ErrBookDefaultDelete = errors.New("the default account book cannot be deleted")
)

// AccountBook is a named partition of transactions, templates and recurring
// rules. Exactly one book is the default book.
type AccountBook struct {
	DefaultModel
	Name      string `json:"name"`
	Note      string `json:"note"`
	IsDefault bool   `json:"isDefault"`
}

// Normalize trims whitespace from all strings.
func (b *AccountBook) Normalize() {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)
}

// Validate verifies the state of the account book before it is persisted.
func (b AccountBook) Validate() error {
	if b.Name == "" {
		return ErrBookNameMissing
	}

	return nil
}

// CurrentBook is the process-wide pointer to the book a client is working in.
// It is stored as a singleton document; all book-scoped operations still take
// the book ID explicitly.
type CurrentBook struct {
	BookID string `json:"bookId"`
}
