package models

import (
	"github.com/shopspring/decimal"
)

// Account is the accounts row. Enum columns are kept as raw strings and parsed on the way out.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     string          `db:"account_type"`
	NormalBalance   string          `db:"normal_balance"`
	CurrencyCode    string          `db:"currency_code"`
	ParentAccountID *string         `db:"parent_account_id"` // Nullable
	IsGroup         bool            `db:"is_group"`
	Lifecycle       string          `db:"lifecycle"`
	Balance         decimal.Decimal `db:"balance"`
	Version         int64           `db:"version"`
	AuditFields
}
