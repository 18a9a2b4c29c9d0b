package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
)

// stockService maintains the append-only stock ledger and its StockLevel projection.
type stockService struct {
	BaseService
	txManager          portsrepo.TransactionManager
	allowNegativeStock bool
}

// NewStockService creates a new StockService. allowNegativeStock disables the
// on-hand check for every movement.
func NewStockService(txManager portsrepo.TransactionManager, allowNegativeStock bool, options ...ServiceOption) portssvc.StockSvcFacade {
	svc := &stockService{txManager: txManager, allowNegativeStock: allowNegativeStock}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

// RecordMovement appends a movement in its own transaction.
func (s *stockService) RecordMovement(ctx context.Context, req dto.RecordMovementRequest, userID string) (*domain.StockLedgerEntry, error) {
	var entry *domain.StockLedgerEntry
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		e, err := s.RecordMovementInTx(ctx, tx, req, userID)
		if err != nil {
			return err
		}
		entry = e
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record stock movement",
			slog.String("product_id", req.ProductID),
			slog.String("warehouse_id", req.WarehouseID),
			slog.String("qty_delta", req.QtyDelta.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Stock movement recorded",
		slog.String("entry_id", entry.EntryID),
		slog.String("product_id", entry.ProductID),
		slog.String("qty_after", entry.QtyAfter.String()))
	return entry, nil
}

// RecordMovementInTx appends a movement and updates the projection under a row lock.
func (s *stockService) RecordMovementInTx(ctx context.Context, tx portsrepo.Tx, req dto.RecordMovementRequest, userID string) (*domain.StockLedgerEntry, error) {
	voucherType, entryType, err := validateMovement(req)
	if err != nil {
		return nil, err
	}

	level, err := s.lockFreshLevel(ctx, tx, req.ProductID, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	qty := domain.RoundRate(req.QtyDelta)
	if qty.IsNegative() && !s.allowNegativeStock && !entryType.AllowNegativeStock {
		if level.Quantity.Add(qty).IsNegative() {
			return nil, &apperrors.InsufficientStockError{
				ProductID:   req.ProductID,
				WarehouseID: req.WarehouseID,
				Available:   level.Quantity,
				Requested:   qty.Neg(),
			}
		}
	}

	rate := domain.RoundRate(req.ValuationRate)
	if qty.IsNegative() {
		rate = level.AverageCost
	}
	newQty, newAvg := level.ApplyMovement(qty, rate)

	now := s.Now()
	entry := domain.StockLedgerEntry{
		EntryID:          uuid.NewString(),
		ProductID:        req.ProductID,
		WarehouseID:      req.WarehouseID,
		PostingDate:      now,
		VoucherType:      voucherType,
		VoucherNo:        req.VoucherNo,
		EntryType:        entryType.Code,
		Qty:              qty,
		ValuationRate:    rate,
		StockValue:       domain.RoundRate(qty.Mul(rate)),
		QtyAfter:         newQty,
		AverageCostAfter: newAvg,
		CreatedAt:        now,
		CreatedBy:        userID,
	}
	if err := tx.Stock().AppendEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append stock entry: %w", err)
	}

	expected := level.Version
	level.Quantity = newQty
	level.AverageCost = newAvg
	level.StockValue = domain.RoundRate(newQty.Mul(newAvg))
	level.LastEntryID = entry.EntryID
	level.Version = expected + 1
	level.UpdatedAt = now
	if err := tx.Stock().SaveStockLevel(ctx, *level, expected); err != nil {
		return nil, fmt.Errorf("failed to update stock level: %w", err)
	}
	return &entry, nil
}

func validateMovement(req dto.RecordMovementRequest) (domain.VoucherType, domain.StockEntryType, error) {
	if req.ProductID == "" || req.WarehouseID == "" {
		return "", domain.StockEntryType{}, fmt.Errorf("%w: product and warehouse are required", apperrors.ErrValidation)
	}
	if req.QtyDelta.IsZero() {
		return "", domain.StockEntryType{}, fmt.Errorf("%w: quantity delta must not be zero", apperrors.ErrValidation)
	}
	if req.ValuationRate.IsNegative() {
		return "", domain.StockEntryType{}, fmt.Errorf("%w: valuation rate must not be negative", apperrors.ErrValidation)
	}
	voucherType, err := domain.ParseVoucherType(req.VoucherType)
	if err != nil {
		return "", domain.StockEntryType{}, err
	}
	entryType, err := domain.ParseStockEntryType(req.EntryType)
	if err != nil {
		return "", domain.StockEntryType{}, err
	}
	return voucherType, entryType, nil
}

// lockFreshLevel locks the projection and replays the ledger into it first if it is stale.
func (s *stockService) lockFreshLevel(ctx context.Context, tx portsrepo.Tx, productID, warehouseID string) (*domain.StockLevel, error) {
	level, err := tx.Stock().LockStockLevel(ctx, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock level: %w", err)
	}
	latest, err := tx.Stock().LatestEntryID(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if !level.IsStale(latest) {
		return level, nil
	}

	s.LogInfo(ctx, "Stock level is stale, replaying ledger",
		slog.String("product_id", productID),
		slog.String("warehouse_id", warehouseID))
	entries, err := tx.Stock().ListEntries(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	rebuilt := domain.ReplayStockLevel(productID, warehouseID, entries)
	rebuilt.Version = level.Version
	return &rebuilt, nil
}

// CurrentQuantity returns on-hand quantity for the pair.
func (s *stockService) CurrentQuantity(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	level, err := s.CurrentStockLevel(ctx, productID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return level.Quantity, nil
}

// CurrentStockLevel reads the cached projection and repairs it by replay when
// it is missing or behind the ledger.
func (s *stockService) CurrentStockLevel(ctx context.Context, productID, warehouseID string) (*domain.StockLevel, error) {
	var result *domain.StockLevel
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		latest, err := tx.Stock().LatestEntryID(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		level, err := tx.Stock().FindStockLevel(ctx, productID, warehouseID)
		switch {
		case err == nil && !level.IsStale(latest):
			result = level
			return nil
		case err != nil && !errors.Is(err, apperrors.ErrNotFound):
			return err
		case err != nil && latest == "":
			empty := domain.ReplayStockLevel(productID, warehouseID, nil)
			result = &empty
			return nil
		}
		repaired, err := s.repair(ctx, tx, productID, warehouseID)
		if err != nil {
			return err
		}
		result = repaired
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to read stock level",
			slog.String("product_id", productID),
			slog.String("warehouse_id", warehouseID))
		return nil, err
	}
	return result, nil
}

// RebuildStockLevel replays the full ledger for the pair and overwrites the projection.
func (s *stockService) RebuildStockLevel(ctx context.Context, productID, warehouseID string) (*domain.StockLevel, error) {
	if productID == "" || warehouseID == "" {
		return nil, fmt.Errorf("%w: product and warehouse are required", apperrors.ErrValidation)
	}
	var result *domain.StockLevel
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		repaired, err := s.repair(ctx, tx, productID, warehouseID)
		if err != nil {
			return err
		}
		result = repaired
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to rebuild stock level",
			slog.String("product_id", productID),
			slog.String("warehouse_id", warehouseID))
		return nil, err
	}
	s.LogInfo(ctx, "Stock level rebuilt",
		slog.String("product_id", productID),
		slog.String("warehouse_id", warehouseID),
		slog.String("quantity", result.Quantity.String()))
	return result, nil
}

func (s *stockService) repair(ctx context.Context, tx portsrepo.Tx, productID, warehouseID string) (*domain.StockLevel, error) {
	current, err := tx.Stock().LockStockLevel(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	entries, err := tx.Stock().ListEntries(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	rebuilt := domain.ReplayStockLevel(productID, warehouseID, entries)
	rebuilt.Version = current.Version + 1
	rebuilt.UpdatedAt = s.Now()
	if err := tx.Stock().SaveStockLevel(ctx, rebuilt, current.Version); err != nil {
		return nil, fmt.Errorf("failed to save rebuilt stock level: %w", err)
	}
	return &rebuilt, nil
}
