package repositories

import (
	"context"

	"github.com/SscSPs/settlement_app/internal/core/domain"
)

// StockLedgerReader defines read operations over the append-only stock ledger.
type StockLedgerReader interface {
	// ListEntries returns every entry for the pair in sequence order.
	ListEntries(ctx context.Context, productID, warehouseID string) ([]domain.StockLedgerEntry, error)

	// LatestEntryID returns the id of the newest entry for the pair, or "" if there is none.
	LatestEntryID(ctx context.Context, productID, warehouseID string) (string, error)
}

// StockLedgerWriter appends movements. There is no update or delete.
type StockLedgerWriter interface {
	// AppendEntry inserts a new ledger entry.
	AppendEntry(ctx context.Context, entry domain.StockLedgerEntry) error
}

// StockLevelRepository manages the cached on-hand projection.
type StockLevelRepository interface {
	// FindStockLevel returns the cached projection, or apperrors.ErrNotFound.
	FindStockLevel(ctx context.Context, productID, warehouseID string) (*domain.StockLevel, error)

	// LockStockLevel locks the projection row for the pair, creating an empty one first if needed.
	LockStockLevel(ctx context.Context, productID, warehouseID string) (*domain.StockLevel, error)

	// SaveStockLevel writes the projection if the stored version equals expectedVersion.
	// Returns apperrors.ErrConcurrentModification otherwise.
	SaveStockLevel(ctx context.Context, level domain.StockLevel, expectedVersion int64) error
}

// StockRepositoryFacade combines all stock-related repository interfaces
type StockRepositoryFacade interface {
	StockLedgerReader
	StockLedgerWriter
	StockLevelRepository
}
