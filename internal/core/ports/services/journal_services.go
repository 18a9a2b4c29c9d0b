package services

import (
	"context"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/settlement_app/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a journal with its lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)
}

// JournalWriterSvc defines the ledger posting operations
type JournalWriterSvc interface {
	// Post validates and posts a balanced journal entry, updating account balances.
	Post(ctx context.Context, req dto.PostJournalRequest, userID string) (*domain.Journal, error)

	// Reverse posts a compensating entry for a POSTED journal and marks the original REVERSED.
	Reverse(ctx context.Context, journalID string, userID string) (*domain.Journal, error)
}

// JournalTxSvc exposes the posting operations inside a caller-owned transaction.
type JournalTxSvc interface {
	PostInTx(ctx context.Context, tx portsrepo.Tx, req dto.PostJournalRequest, userID string) (*domain.Journal, error)
	ReverseInTx(ctx context.Context, tx portsrepo.Tx, journalID string, userID string) (*domain.Journal, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalTxSvc
}
