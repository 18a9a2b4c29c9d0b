package domain

import (
	"fmt"
	"regexp"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

const (
	// MoneyScale is the number of decimal places kept for monetary amounts.
	MoneyScale int32 = 2
	// RateScale is used for unit prices, quantities and valuation rates.
	RateScale int32 = 4
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrencyCode checks for a 3 letter upper-case ISO 4217 style code.
func ValidateCurrencyCode(code string) error {
	if !currencyCodePattern.MatchString(code) {
		return fmt.Errorf("%w: invalid currency code %q", apperrors.ErrValidation, code)
	}
	return nil
}

// RoundMoney rounds half away from zero to MoneyScale.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// RoundRate rounds half away from zero to RateScale.
func RoundRate(d decimal.Decimal) decimal.Decimal {
	return d.Round(RateScale)
}

// Money is an immutable amount in a single currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// NewMoney validates the currency and rounds the amount to MoneyScale.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := ValidateCurrencyCode(currency); err != nil {
		return Money{}, err
	}
	return Money{Amount: RoundMoney(amount), Currency: currency}, nil
}

// ZeroMoney returns a zero amount in currency.
func ZeroMoney(currency string) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// Add returns m + o. Both must share a currency.
func (m Money) Add(o Money) (Money, error) {
	if m.Currency != o.Currency {
		return Money{}, fmt.Errorf("%w: cannot add %s to %s", apperrors.ErrValidation, o.Currency, m.Currency)
	}
	return Money{Amount: m.Amount.Add(o.Amount), Currency: m.Currency}, nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) String() string {
	return m.Amount.StringFixed(MoneyScale) + " " + m.Currency
}
