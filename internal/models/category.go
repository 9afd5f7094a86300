package models

import (
	"errors"
	"strings"
)

// CategoryKind describes whether a category applies to income or expenses.
type CategoryKind string

const (
	CategoryKindIncome  CategoryKind = "income"
	CategoryKindExpense CategoryKind = "expense"
)

// Valid reports whether the category kind is one of the known kinds.
func (k CategoryKind) Valid() bool {
	return k == CategoryKindIncome || k == CategoryKindExpense
}

var ErrCategoryKindInvalid = errors.New("the category kind is not valid")

// Category is a flat classification record for transactions.
type Category struct {
	DefaultModel
	Name      string       `json:"name"`
	Icon      string       `json:"icon"`
	Kind      CategoryKind `json:"kind"`
	SortOrder int          `json:"sortOrder"`
	Archived  bool         `json:"archived"`
}

// Normalize trims whitespace and defaults the kind to expense.
func (c *Category) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Icon = strings.TrimSpace(c.Icon)

	if c.Kind == "" {
		c.Kind = CategoryKindExpense
	}
}

// Validate verifies the state of the category before it is persisted.
func (c Category) Validate() error {
	if !c.Kind.Valid() {
		return ErrCategoryKindInvalid
	}

	return nil
}
