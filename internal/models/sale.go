package models

import (
	"github.com/shopspring/decimal"
)

// Sale is the sales row.
type Sale struct {
	SaleID       string          `db:"sale_id"`
	SaleNumber   string          `db:"sale_number"`
	WarehouseID  string          `db:"warehouse_id"`
	CurrencyCode string          `db:"currency_code"`
	PaymentMode  string          `db:"payment_mode"`
	Status       string          `db:"status"`
	Subtotal     decimal.Decimal `db:"subtotal"`
	TaxTotal     decimal.Decimal `db:"tax_total"`
	Total        decimal.Decimal `db:"total"`
	JournalID    *string         `db:"journal_id"`
	Version      int64           `db:"version"`
	AuditFields
}

// SaleItem is the sale_items row.
type SaleItem struct {
	ItemID    string          `db:"item_id"`
	SaleID    string          `db:"sale_id"`
	LineNo    int             `db:"line_no"`
	ProductID string          `db:"product_id"`
	Quantity  decimal.Decimal `db:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price"`
	TaxRate   decimal.Decimal `db:"tax_rate"`
	UnitCost  decimal.Decimal `db:"unit_cost"`
}
