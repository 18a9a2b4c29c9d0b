package services

import (
	"context"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its chart code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new ACTIVE account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// DisableAccount moves an account to DISABLED; it stops accepting postings.
	DisableAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error)

	// DeleteAccount moves an account to DELETED. Accounts with postings are rejected.
	DeleteAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
