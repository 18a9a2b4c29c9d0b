package services

import (
	"context"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/shopspring/decimal"
)

// StockReaderSvc defines on-hand queries
type StockReaderSvc interface {
	// CurrentQuantity returns on-hand quantity for the pair, repairing a stale projection.
	CurrentQuantity(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)

	// CurrentStockLevel returns the repaired projection for the pair.
	CurrentStockLevel(ctx context.Context, productID, warehouseID string) (*domain.StockLevel, error)
}

// StockWriterSvc defines stock movement operations
type StockWriterSvc interface {
	// RecordMovement appends a movement and updates the projection.
	RecordMovement(ctx context.Context, req dto.RecordMovementRequest, userID string) (*domain.StockLedgerEntry, error)

	// RebuildStockLevel replays the ledger for the pair and overwrites the projection.
	RebuildStockLevel(ctx context.Context, productID, warehouseID string) (*domain.StockLevel, error)
}

// StockTxSvc exposes movements inside a caller-owned transaction.
type StockTxSvc interface {
	RecordMovementInTx(ctx context.Context, tx portsrepo.Tx, req dto.RecordMovementRequest, userID string) (*domain.StockLedgerEntry, error)
}

// StockSvcFacade combines all stock-related service interfaces
type StockSvcFacade interface {
	StockReaderSvc
	StockWriterSvc
	StockTxSvc
}
