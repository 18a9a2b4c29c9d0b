package mapping

import (
	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/models"
)

// ToModelJournal converts a domain Journal header to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID:          d.JournalID,
		ReferenceNumber:    d.ReferenceNumber,
		EntryDate:          d.EntryDate,
		Description:        d.Description,
		CurrencyCode:       d.CurrencyCode,
		Status:             string(d.Status),
		OriginalJournalID:  Nullable(d.OriginalJournalID),
		ReversingJournalID: Nullable(d.ReversingJournalID),
		SourceType:         d.SourceType,
		SourceID:           d.SourceID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournal converts a model Journal and its lines to a domain Journal
func ToDomainJournal(m models.Journal, lines []models.JournalLine) (domain.Journal, error) {
	status, err := domain.ParseJournalStatus(m.Status)
	if err != nil {
		return domain.Journal{}, integrityError("journal", m.JournalID, err)
	}
	j := domain.Journal{
		JournalID:          m.JournalID,
		ReferenceNumber:    m.ReferenceNumber,
		EntryDate:          m.EntryDate,
		Description:        m.Description,
		CurrencyCode:       m.CurrencyCode,
		Status:             status,
		OriginalJournalID:  Deref(m.OriginalJournalID),
		ReversingJournalID: Deref(m.ReversingJournalID),
		SourceType:         m.SourceType,
		SourceID:           m.SourceID,
		Lines:              make([]domain.JournalLine, 0, len(lines)),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
	for _, l := range lines {
		side, err := domain.ParseTransactionType(l.Side)
		if err != nil {
			return domain.Journal{}, integrityError("journal line", l.LineID, err)
		}
		j.Lines = append(j.Lines, domain.JournalLine{
			LineID:         l.LineID,
			JournalID:      l.JournalID,
			LineNo:         l.LineNo,
			AccountID:      l.AccountID,
			Side:           side,
			Amount:         l.Amount,
			RunningBalance: l.RunningBalance,
			Notes:          l.Notes,
		})
	}
	return j, nil
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:         d.LineID,
		JournalID:      d.JournalID,
		LineNo:         d.LineNo,
		AccountID:      d.AccountID,
		Side:           string(d.Side),
		Amount:         d.Amount,
		RunningBalance: d.RunningBalance,
		Notes:          d.Notes,
	}
}
