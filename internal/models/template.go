package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RecordTemplate is a prefilled transaction that clients can instantiate
// with one tap. Templates are partitioned per account book.
type RecordTemplate struct {
	DefaultModel
	Name       string          `json:"name"`
	Type       TransactionType `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID string          `json:"categoryId"`
	AccountID  string          `json:"accountId"`
	Note       string          `json:"note"`
}

// Normalize trims whitespace and defaults the type to expense.
func (t *RecordTemplate) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	t.Note = strings.TrimSpace(t.Note)

	if t.Type == "" {
		t.Type = TransactionTypeExpense
	}
}
