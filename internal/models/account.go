package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountType describes what kind of asset an account tracks.
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeDebit      AccountType = "debit"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeAlipay     AccountType = "alipay"
	AccountTypeWechat     AccountType = "wechat"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeReceivable AccountType = "receivable"
	AccountTypePayable    AccountType = "payable"
)

// Valid reports whether the account type is one of the known types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCash, AccountTypeDebit, AccountTypeCredit, AccountTypeAlipay,
		AccountTypeWechat, AccountTypeInvestment, AccountTypeReceivable, AccountTypePayable:
		return true
	}

	return false
}

var ErrAccountTypeInvalid = errors.New("the account type is not valid")

// Account represents an asset account, e.g. a bank account or a credit card.
//
// The balance is never written directly by callers adding or changing
// transactions. It is kept consistent with the transaction ledger by the
// ledger engine; the only exceptions are the explicit balance-set operation
// and a restore from backup.
type Account struct {
	DefaultModel
	Name           string          `json:"name"`
	Type           AccountType     `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	IncludeInTotal bool            `json:"includeInTotal"`
	Archived       bool            `json:"archived"`
	Note           string          `json:"note"`

	// Fields only meaningful for credit accounts.
	CreditLimit  decimal.Decimal `json:"creditLimit"`
	StatementDay int             `json:"statementDay"`
	DueDay       int             `json:"dueDay"`
	InterestRate decimal.Decimal `json:"interestRate"`
}

// Normalize trims whitespace from all strings and defaults the type to cash.
func (a *Account) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)

	if a.Type == "" {
		a.Type = AccountTypeCash
	}
}

// Validate verifies the state of the account before it is persisted.
func (a Account) Validate() error {
	if !a.Type.Valid() {
		return ErrAccountTypeInvalid
	}

	return nil
}
