package services

import (
	"context"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/dto"
)

// SaleSvcFacade manages draft sales.
type SaleSvcFacade interface {
	// CreateSale opens a DRAFT sale with computed totals.
	CreateSale(ctx context.Context, req dto.CreateSaleRequest, userID string) (*domain.Sale, error)

	// GetSaleByID retrieves a sale with its items.
	GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)

	// DeleteDraftSale removes a DRAFT sale and its items.
	DeleteDraftSale(ctx context.Context, saleID string, userID string) error
}

// SettlementSvc drives the sale lifecycle across stock and ledger atomically.
type SettlementSvc interface {
	// CompleteSale issues stock, posts revenue, tax and COGS, and marks the sale COMPLETED.
	CompleteSale(ctx context.Context, saleID string, userID string) (*domain.Sale, error)

	// RefundSale returns stock, reverses the settlement and marks the sale REFUNDED.
	RefundSale(ctx context.Context, saleID string, userID string) (*domain.Sale, error)

	// CancelSale marks a DRAFT sale CANCELLED.
	CancelSale(ctx context.Context, saleID string, userID string) (*domain.Sale, error)
}

// Locker serialises work on a key across processes.
type Locker interface {
	// Obtain blocks until the key is held or ctx ends. The returned func releases it.
	Obtain(ctx context.Context, key string) (release func(), err error)
}
