package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency describes how often a recurring transaction fires.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Valid reports whether the frequency is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}

	return false
}

var ErrFrequencyInvalid = errors.New("the frequency is not valid")

// RecurringTransaction is a rule that produces a transaction on a schedule.
// Rules are partitioned per account book. Materialization is an explicit
// operation, there is no background scheduler.
type RecurringTransaction struct {
	DefaultModel
	Name        string          `json:"name"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  string          `json:"categoryId"`
	AccountID   string          `json:"accountId"`
	ToAccountID string          `json:"toAccountId"`
	Frequency   Frequency       `json:"frequency"`
	NextRun     time.Time       `json:"nextRun"`
	Enabled     bool            `json:"enabled"`
	Note        string          `json:"note"`
}

// Normalize trims whitespace and stores the next run time in UTC.
func (r *RecurringTransaction) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Note = strings.TrimSpace(r.Note)

	if !r.NextRun.IsZero() {
		r.NextRun = r.NextRun.In(time.UTC)
	}
}

// Validate verifies the state of the rule before it is persisted.
func (r RecurringTransaction) Validate() error {
	if !r.Frequency.Valid() {
		return ErrFrequencyInvalid
	}

	if !r.Type.Valid() {
		return ErrTransactionTypeInvalid
	}

	if !r.Amount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	return nil
}

// Advance returns the next run time after the given run.
func (r RecurringTransaction) Advance(run time.Time) time.Time {
	switch r.Frequency {
	case FrequencyDaily:
		return run.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return run.AddDate(0, 0, 7)
	default:
		return run.AddDate(0, 1, 0)
	}
}

// Transaction builds the transaction this rule produces for a single run.
func (r RecurringTransaction) Transaction(bookID string, run time.Time) Transaction {
	return Transaction{
		Type:       r.Type,
		Amount:     r.Amount,
		CategoryID: r.CategoryID,
		AccountID:  r.AccountID,
		// ToAccountID is only set for transfers, Validate enforces this
		ToAccountID: r.ToAccountID,
		BookID:      bookID,
		Date:        run,
		Note:        r.Note,
	}
}
