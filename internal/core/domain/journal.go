package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// ParseJournalStatus converts a raw value into a JournalStatus, rejecting unknown values.
func ParseJournalStatus(s string) (JournalStatus, error) {
	switch st := JournalStatus(s); st {
	case Draft, Posted, Reversed:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown journal status %q", apperrors.ErrValidation, s)
}

// Journal is a balanced financial event. Once POSTED it is immutable apart
// from the POSTED -> REVERSED flip made when a compensating entry is written.
type Journal struct {
	JournalID          string        `json:"journalID"`
	ReferenceNumber    string        `json:"referenceNumber"` // unique
	EntryDate          time.Time     `json:"entryDate"`
	Description        string        `json:"description"`
	CurrencyCode       string        `json:"currencyCode"`
	Status             JournalStatus `json:"status"`
	OriginalJournalID  string        `json:"originalJournalID,omitempty"`  // set on a reversal
	ReversingJournalID string        `json:"reversingJournalID,omitempty"` // set on a reversed original
	SourceType         string        `json:"sourceType,omitempty"`
	SourceID           string        `json:"sourceID,omitempty"`
	Lines              []JournalLine `json:"lines"`
	AuditFields
}

// JournalLine is a single debit or credit against one account.
type JournalLine struct {
	LineID         string          `json:"lineID"`
	JournalID      string          `json:"journalID"`
	LineNo         int             `json:"lineNo"`
	AccountID      string          `json:"accountID"`
	Side           TransactionType `json:"side"`
	Amount         decimal.Decimal `json:"amount"` // always > 0
	RunningBalance decimal.Decimal `json:"runningBalance"`
	Notes          string          `json:"notes,omitempty"`
}

// Totals returns the debit and credit sums.
func (j Journal) Totals() (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range j.Lines {
		if l.Side == Debit {
			debits = debits.Add(l.Amount)
		} else {
			credits = credits.Add(l.Amount)
		}
	}
	return debits, credits
}

// IsBalanced reports whether debits equal credits exactly.
func (j Journal) IsBalanced() bool {
	d, c := j.Totals()
	return d.Equal(c)
}
