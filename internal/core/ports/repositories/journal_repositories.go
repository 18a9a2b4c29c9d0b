package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/settlement_app/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal together with its lines.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalByIDForUpdate retrieves a journal with its lines and locks the journal row.
	FindJournalByIDForUpdate(ctx context.Context, journalID string) (*domain.Journal, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveJournal inserts a journal header and all of its lines.
	SaveJournal(ctx context.Context, journal domain.Journal) error

	// UpdateJournalStatusAndLinks flips a POSTED journal to status and records the reversing entry.
	// Returns apperrors.ErrConcurrentModification if the journal is no longer POSTED.
	UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID string, updatedByUserID string, updatedAt time.Time) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
