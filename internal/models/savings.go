package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrSavingsTargetNotPositive  = errors.New("savings plan targets must be larger than zero")
	ErrSavingsDepositNotPositive = errors.New("savings deposits must be larger than zero")
)

// SavingsDeposit is a single contribution towards a savings plan. Deposits
// are stored inside their plan, not as a separate collection.
type SavingsDeposit struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note"`
}

// SavingsPlan is a savings goal with a target amount and deadline.
type SavingsPlan struct {
	DefaultModel
	Name         string           `json:"name"`
	TargetAmount decimal.Decimal  `json:"targetAmount"`
	Deadline     time.Time        `json:"deadline"`
	Deposits     []SavingsDeposit `json:"deposits"`
}

// Normalize trims the name and makes sure deposits marshal as an empty
// list instead of null.
func (p *SavingsPlan) Normalize() {
	p.Name = strings.TrimSpace(p.Name)

	if p.Deposits == nil {
		p.Deposits = []SavingsDeposit{}
	}
}

// Validate verifies the state of the savings plan before it is persisted.
func (p SavingsPlan) Validate() error {
	if !p.TargetAmount.IsPositive() {
		return ErrSavingsTargetNotPositive
	}

	return nil
}

// Saved returns the sum of all deposits of the plan.
func (p SavingsPlan) Saved() decimal.Decimal {
	sum := decimal.Zero
	for _, deposit := range p.Deposits {
		sum = sum.Add(deposit.Amount)
	}

	return sum
}
