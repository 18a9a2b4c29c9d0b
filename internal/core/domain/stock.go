package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// VoucherType names the kind of document that caused a stock movement.
type VoucherType string

const (
	VoucherSale       VoucherType = "SALE"
	VoucherSaleReturn VoucherType = "SALE_RETURN"
	VoucherPurchase   VoucherType = "PURCHASE"
	VoucherAdjustment VoucherType = "ADJUSTMENT"
	VoucherOpening    VoucherType = "OPENING"
)

// ParseVoucherType converts a raw value into a VoucherType, rejecting unknown values.
func ParseVoucherType(s string) (VoucherType, error) {
	switch v := VoucherType(s); v {
	case VoucherSale, VoucherSaleReturn, VoucherPurchase, VoucherAdjustment, VoucherOpening:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown voucher type %q", apperrors.ErrValidation, s)
}

// StockEntryType classifies a movement. Types flagged AllowNegativeStock
// bypass the on-hand check even when negative stock is disabled globally.
type StockEntryType struct {
	Code               string
	AllowNegativeStock bool
}

var (
	EntryTypeMaterialReceipt     = StockEntryType{Code: "MATERIAL_RECEIPT"}
	EntryTypeMaterialIssue       = StockEntryType{Code: "MATERIAL_ISSUE"}
	EntryTypeSaleIssue           = StockEntryType{Code: "SALE_ISSUE"}
	EntryTypeSaleReturn          = StockEntryType{Code: "SALE_RETURN"}
	EntryTypeStockReconciliation = StockEntryType{Code: "STOCK_RECONCILIATION", AllowNegativeStock: true}
)

var stockEntryTypes = map[string]StockEntryType{
	EntryTypeMaterialReceipt.Code:     EntryTypeMaterialReceipt,
	EntryTypeMaterialIssue.Code:       EntryTypeMaterialIssue,
	EntryTypeSaleIssue.Code:           EntryTypeSaleIssue,
	EntryTypeSaleReturn.Code:          EntryTypeSaleReturn,
	EntryTypeStockReconciliation.Code: EntryTypeStockReconciliation,
}

// ParseStockEntryType looks up a known entry type by code.
func ParseStockEntryType(code string) (StockEntryType, error) {
	t, ok := stockEntryTypes[code]
	if !ok {
		return StockEntryType{}, fmt.Errorf("%w: unknown stock entry type %q", apperrors.ErrValidation, code)
	}
	return t, nil
}

// StockLedgerEntry is one append-only movement for a (product, warehouse) pair.
// Corrections are written as new offsetting entries.
type StockLedgerEntry struct {
	EntryID          string          `json:"entryID"`
	Sequence         int64           `json:"sequence"`
	ProductID        string          `json:"productID"`
	WarehouseID      string          `json:"warehouseID"`
	PostingDate      time.Time       `json:"postingDate"`
	VoucherType      VoucherType     `json:"voucherType"`
	VoucherNo        string          `json:"voucherNo"`
	EntryType        string          `json:"entryType"`
	Qty              decimal.Decimal `json:"qty"` // signed
	ValuationRate    decimal.Decimal `json:"valuationRate"`
	StockValue       decimal.Decimal `json:"stockValue"` // Qty * ValuationRate
	QtyAfter         decimal.Decimal `json:"qtyAfter"`
	AverageCostAfter decimal.Decimal `json:"averageCostAfter"`
	CreatedAt        time.Time       `json:"createdAt"`
	CreatedBy        string          `json:"createdBy"`
}

// StockLevel is the cached projection of the ledger for a (product, warehouse) pair.
type StockLevel struct {
	ProductID   string          `json:"productID"`
	WarehouseID string          `json:"warehouseID"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"averageCost"`
	StockValue  decimal.Decimal `json:"stockValue"`
	LastEntryID string          `json:"lastEntryID"`
	Version     int64           `json:"version"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// IsStale reports whether the projection has not seen the newest ledger entry.
func (l StockLevel) IsStale(latestEntryID string) bool {
	return l.LastEntryID != latestEntryID
}

// ApplyMovement returns the quantity and moving-average cost after a movement
// of qty at rate. Receipts re-average; issues keep the current average.
func (l StockLevel) ApplyMovement(qty, rate decimal.Decimal) (newQty, newAvg decimal.Decimal) {
	newQty = l.Quantity.Add(qty)
	if !qty.IsPositive() {
		return newQty, l.AverageCost
	}
	if !l.Quantity.IsPositive() || !newQty.IsPositive() {
		return newQty, RoundRate(rate)
	}
	total := l.Quantity.Mul(l.AverageCost).Add(qty.Mul(rate))
	return newQty, RoundRate(total.Div(newQty))
}

// ReplayStockLevel rebuilds a projection from ledger entries in sequence order.
func ReplayStockLevel(productID, warehouseID string, entries []StockLedgerEntry) StockLevel {
	level := StockLevel{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    decimal.Zero,
		AverageCost: decimal.Zero,
		StockValue:  decimal.Zero,
	}
	for _, e := range entries {
		level.Quantity, level.AverageCost = level.ApplyMovement(e.Qty, e.ValuationRate)
		level.LastEntryID = e.EntryID
	}
	level.StockValue = RoundRate(level.Quantity.Mul(level.AverageCost))
	return level
}
