package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType describes the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// Valid reports whether the transaction type is one of the known types.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}

	return false
}

var (
	ErrTransactionTypeInvalid       = errors.New("the transaction type is not valid")
	ErrTransactionAmountNotPositive = errors.New("transaction amounts must be larger than zero")
	ErrTransferTargetMissing        = errors.New("transfer transactions must set a target account")
	ErrTransferTargetForbidden      = errors.New("only transfer transactions may set a target account")
)

// Transaction represents a single entry in an account book's ledger.
type Transaction struct {
	DefaultModel
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	CategoryID   string          `json:"categoryId"`
	AccountID    string          `json:"accountId"`
	ToAccountID  string          `json:"toAccountId"`
	BookID       string          `json:"bookId"`
	Date         time.Time       `json:"date"`
	Note         string          `json:"note"`
	RefundFromID string          `json:"refundFromId"`
}

// Normalize trims the note and stores the date in UTC, defaulting to now.
func (t *Transaction) Normalize() {
	t.Note = strings.TrimSpace(t.Note)

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}
}

// Validate verifies the state of the transaction before it is persisted.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	if !t.Amount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	if t.Type == TransactionTypeTransfer && t.ToAccountID == "" {
		return ErrTransferTargetMissing
	}

	if t.Type != TransactionTypeTransfer && t.ToAccountID != "" {
		return ErrTransferTargetForbidden
	}

	return nil
}
