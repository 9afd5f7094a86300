package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var ErrCurrencyCodeInvalid = errors.New("the currency code is not a valid ISO 4217 code")

// Currency is a currency known to the app with its exchange rate relative
// to the base currency from the settings.
type Currency struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Rate   decimal.Decimal `json:"rate"`
}

// RecordID returns the ISO code, which identifies a currency.
func (c Currency) RecordID() string {
	return c.Code
}

// SetRecordID overrides the currency's code, e.g. with the code from a
// request path.
func (c *Currency) SetRecordID(id string) {
	c.Code = id
}

// Normalize upper-cases the code and trims all strings.
func (c *Currency) Normalize() {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.Name = strings.TrimSpace(c.Name)
	c.Symbol = strings.TrimSpace(c.Symbol)

	if c.Rate.IsZero() {
		c.Rate = decimal.New(1, 0)
	}
}

// Validate verifies that the code is a well-formed ISO 4217 code.
func (c Currency) Validate() error {
	if _, err := currency.ParseISO(c.Code); err != nil {
		return ErrCurrencyCodeInvalid
	}

	return nil
}
