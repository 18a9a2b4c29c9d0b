package domain

import (
	"fmt"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// ParseAccountType converts a raw value into an AccountType, rejecting unknown values.
func ParseAccountType(s string) (AccountType, error) {
	switch t := AccountType(s); t {
	case Asset, Liability, Equity, Revenue, Expense:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, s)
}

// NormalBalance returns the side that increases an account of this type.
func (t AccountType) NormalBalance() TransactionType {
	switch t {
	case Asset, Expense:
		return Debit
	default:
		return Credit
	}
}

// Account represents a ledger account in the chart of accounts.
type Account struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"` // unique, e.g. "1100"
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	NormalBalance   TransactionType `json:"normalBalance"`
	CurrencyCode    string          `json:"currencyCode"`
	ParentAccountID string          `json:"parentAccountID"` // empty for root accounts
	IsGroup         bool            `json:"isGroup"`
	Lifecycle       Lifecycle       `json:"lifecycle"`
	Balance         decimal.Decimal `json:"balance"`
	Version         int64           `json:"version"`
	AuditFields
}

// CanPost reports whether journal lines may be posted to the account.
func (a Account) CanPost() bool {
	return a.Lifecycle == LifecycleActive && !a.IsGroup
}
