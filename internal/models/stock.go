package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLedgerEntry is the stock_ledger_entries row. Rows are never updated.
type StockLedgerEntry struct {
	EntryID          string          `db:"entry_id"`
	Sequence         int64           `db:"seq"`
	ProductID        string          `db:"product_id"`
	WarehouseID      string          `db:"warehouse_id"`
	PostingDate      time.Time       `db:"posting_date"`
	VoucherType      string          `db:"voucher_type"`
	VoucherNo        string          `db:"voucher_no"`
	EntryType        string          `db:"entry_type"`
	Qty              decimal.Decimal `db:"qty"`
	ValuationRate    decimal.Decimal `db:"valuation_rate"`
	StockValue       decimal.Decimal `db:"stock_value"`
	QtyAfter         decimal.Decimal `db:"qty_after"`
	AverageCostAfter decimal.Decimal `db:"average_cost_after"`
	CreatedAt        time.Time       `db:"created_at"`
	CreatedBy        string          `db:"created_by"`
}

// StockLevel is the stock_levels row.
type StockLevel struct {
	ProductID   string          `db:"product_id"`
	WarehouseID string          `db:"warehouse_id"`
	Quantity    decimal.Decimal `db:"quantity"`
	AverageCost decimal.Decimal `db:"average_cost"`
	StockValue  decimal.Decimal `db:"stock_value"`
	LastEntryID *string         `db:"last_entry_id"`
	Version     int64           `db:"version"`
	UpdatedAt   time.Time       `db:"updated_at"`
}
