package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is the journals row.
type Journal struct {
	JournalID          string    `db:"journal_id"`
	ReferenceNumber    string    `db:"reference_number"`
	EntryDate          time.Time `db:"entry_date"`
	Description        string    `db:"description"`
	CurrencyCode       string    `db:"currency_code"`
	Status             string    `db:"status"`
	OriginalJournalID  *string   `db:"original_journal_id"`
	ReversingJournalID *string   `db:"reversing_journal_id"`
	SourceType         string    `db:"source_type"`
	SourceID           string    `db:"source_id"`
	AuditFields
}

// JournalLine is the journal_lines row.
type JournalLine struct {
	LineID         string          `db:"line_id"`
	JournalID      string          `db:"journal_id"`
	LineNo         int             `db:"line_no"`
	AccountID      string          `db:"account_id"`
	Side           string          `db:"side"`
	Amount         decimal.Decimal `db:"amount"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	Notes          string          `db:"notes"`
}
