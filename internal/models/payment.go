package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the payments row.
type Payment struct {
	PaymentID    string          `db:"payment_id"`
	Amount       decimal.Decimal `db:"amount"`
	CurrencyCode string          `db:"currency_code"`
	Method       string          `db:"method"`
	Status       string          `db:"status"`
	SourceType   string          `db:"source_type"`
	SourceID     string          `db:"source_id"`
	JournalID    *string         `db:"journal_id"`
	AuditFields
}

// CashbookEntry is the cashbook_entries row.
type CashbookEntry struct {
	EntryID      string          `db:"entry_id"`
	CashbookID   string          `db:"cashbook_id"`
	AccountID    string          `db:"account_id"`
	PaymentID    *string         `db:"payment_id"`
	Amount       decimal.Decimal `db:"amount"`
	EntryType    string          `db:"entry_type"`
	IsReconciled bool            `db:"is_reconciled"`
	EntryDate    time.Time       `db:"entry_date"`
	CreatedAt    time.Time       `db:"created_at"`
	CreatedBy    string          `db:"created_by"`
}
