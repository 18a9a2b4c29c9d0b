package dto

import (
	"time"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest defines a single stock movement.
type RecordMovementRequest struct {
	ProductID     string          `json:"productID" binding:"required"`
	WarehouseID   string          `json:"warehouseID" binding:"required"`
	QtyDelta      decimal.Decimal `json:"qtyDelta"`      // signed: receipts > 0, issues < 0
	ValuationRate decimal.Decimal `json:"valuationRate"` // used for receipts only
	VoucherType   string          `json:"voucherType" binding:"required,oneof=SALE SALE_RETURN PURCHASE ADJUSTMENT OPENING"`
	VoucherNo     string          `json:"voucherNo" binding:"required"`
	EntryType     string          `json:"entryType" binding:"required"`
}

// StockEntryResponse defines the data returned for a stock ledger entry.
type StockEntryResponse struct {
	EntryID          string          `json:"entryID"`
	ProductID        string          `json:"productID"`
	WarehouseID      string          `json:"warehouseID"`
	PostingDate      time.Time       `json:"postingDate"`
	VoucherType      string          `json:"voucherType"`
	VoucherNo        string          `json:"voucherNo"`
	EntryType        string          `json:"entryType"`
	Qty              decimal.Decimal `json:"qty"`
	ValuationRate    decimal.Decimal `json:"valuationRate"`
	StockValue       decimal.Decimal `json:"stockValue"`
	QtyAfter         decimal.Decimal `json:"qtyAfter"`
	AverageCostAfter decimal.Decimal `json:"averageCostAfter"`
}

// StockLevelResponse is returned for on-hand queries.
type StockLevelResponse struct {
	ProductID   string          `json:"productID"`
	WarehouseID string          `json:"warehouseID"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost,omitempty"`
	StockValue  decimal.Decimal `json:"stockValue,omitempty"`
}

// ToStockEntryResponse converts a domain.StockLedgerEntry to StockEntryResponse DTO.
func ToStockEntryResponse(e *domain.StockLedgerEntry) StockEntryResponse {
	return StockEntryResponse{
		EntryID:          e.EntryID,
		ProductID:        e.ProductID,
		WarehouseID:      e.WarehouseID,
		PostingDate:      e.PostingDate,
		VoucherType:      string(e.VoucherType),
		VoucherNo:        e.VoucherNo,
		EntryType:        e.EntryType,
		Qty:              e.Qty,
		ValuationRate:    e.ValuationRate,
		StockValue:       e.StockValue,
		QtyAfter:         e.QtyAfter,
		AverageCostAfter: e.AverageCostAfter,
	}
}

// ToStockLevelResponse converts a domain.StockLevel to StockLevelResponse DTO.
func ToStockLevelResponse(l *domain.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ProductID:   l.ProductID,
		WarehouseID: l.WarehouseID,
		Quantity:    l.Quantity,
		AverageCost: l.AverageCost,
		StockValue:  l.StockValue,
	}
}
