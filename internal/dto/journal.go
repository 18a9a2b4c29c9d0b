package dto

import (
	"time"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingLineRequest is one debit or credit of a posting request.
type PostingLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Side      string          `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes"`
}

// PostJournalRequest defines the data needed to post a journal entry.
type PostJournalRequest struct {
	ReferenceNumber string               `json:"referenceNumber" binding:"required,max=64"`
	EntryDate       time.Time            `json:"entryDate"` // defaults to now
	Description     string               `json:"description"`
	CurrencyCode    string               `json:"currencyCode" binding:"required,iso4217"`
	SourceType      string               `json:"sourceType"`
	SourceID        string               `json:"sourceID"`
	Lines           []PostingLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID         string          `json:"lineID"`
	LineNo         int             `json:"lineNo"`
	AccountID      string          `json:"accountID"`
	Side           string          `json:"side"`
	Amount         decimal.Decimal `json:"amount"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
	Notes          string          `json:"notes,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID          string                `json:"journalID"`
	ReferenceNumber    string                `json:"referenceNumber"`
	EntryDate          time.Time             `json:"entryDate"`
	Description        string                `json:"description"`
	CurrencyCode       string                `json:"currencyCode"`
	Status             string                `json:"status"`
	OriginalJournalID  string                `json:"originalJournalID,omitempty"`
	ReversingJournalID string                `json:"reversingJournalID,omitempty"`
	SourceType         string                `json:"sourceType,omitempty"`
	SourceID           string                `json:"sourceID,omitempty"`
	Lines              []JournalLineResponse `json:"lines"`
	CreatedAt          time.Time             `json:"createdAt"`
	CreatedBy          string                `json:"createdBy"`
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	lines := make([]JournalLineResponse, len(j.Lines))
	for i, l := range j.Lines {
		lines[i] = JournalLineResponse{
			LineID:         l.LineID,
			LineNo:         l.LineNo,
			AccountID:      l.AccountID,
			Side:           string(l.Side),
			Amount:         l.Amount,
			RunningBalance: l.RunningBalance,
			Notes:          l.Notes,
		}
	}
	return JournalResponse{
		JournalID:          j.JournalID,
		ReferenceNumber:    j.ReferenceNumber,
		EntryDate:          j.EntryDate,
		Description:        j.Description,
		CurrencyCode:       j.CurrencyCode,
		Status:             string(j.Status),
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		SourceType:         j.SourceType,
		SourceID:           j.SourceID,
		Lines:              lines,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
	}
}
