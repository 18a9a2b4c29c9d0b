package repositories

import (
	"context"

	"github.com/SscSPs/settlement_app/internal/core/domain"
)

// SaleReader defines read operations for sales
type SaleReader interface {
	// FindSaleByID retrieves a sale and its items.
	FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)

	// FindSaleByIDForUpdate retrieves a sale and its items, locking the sale row.
	FindSaleByIDForUpdate(ctx context.Context, saleID string) (*domain.Sale, error)
}

// SaleWriter defines write operations for sales
type SaleWriter interface {
	// SaveSale inserts a sale with all of its items.
	SaveSale(ctx context.Context, sale domain.Sale) error

	// UpdateSale persists status, journal link, version, audit fields and item unit costs
	// if the stored version equals expectedVersion. Returns apperrors.ErrConcurrentModification otherwise.
	UpdateSale(ctx context.Context, sale domain.Sale, expectedVersion int64) error

	// DeleteSale removes a sale and its items.
	DeleteSale(ctx context.Context, saleID string) error
}

// SaleRepositoryFacade combines all sale-related repository interfaces
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
}
