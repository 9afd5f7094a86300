package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// BudgetPeriod describes the cycle a budget amount applies to.
type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// Valid reports whether the budget period is one of the known periods.
func (p BudgetPeriod) Valid() bool {
	return p == BudgetPeriodMonthly || p == BudgetPeriodYearly
}

var (
	ErrBudgetAmountNotPositive = errors.New("budget amounts must be larger than zero")
	ErrBudgetPeriodInvalid     = errors.New("the budget period is not valid")
)

// Budget limits spending for a category. An empty CategoryID makes the
// budget apply to overall spending.
type Budget struct {
	DefaultModel
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Period     BudgetPeriod    `json:"period"`
	StartDay   int             `json:"startDay"`
}

// Normalize defaults the period to monthly and the start day to the first.
func (b *Budget) Normalize() {
	if b.Period == "" {
		b.Period = BudgetPeriodMonthly
	}

	if b.StartDay == 0 {
		b.StartDay = 1
	}
}

// Validate verifies the state of the budget before it is persisted.
func (b Budget) Validate() error {
	if !b.Amount.IsPositive() {
		return ErrBudgetAmountNotPositive
	}

	if !b.Period.Valid() {
		return ErrBudgetPeriodInvalid
	}

	return nil
}
