package domain

import (
	"fmt"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// SaleStatus tracks the settlement lifecycle of a sale.
type SaleStatus string

const (
	SaleDraft     SaleStatus = "DRAFT"
	SaleCompleted SaleStatus = "COMPLETED"
	SaleCancelled SaleStatus = "CANCELLED"
	SaleRefunded  SaleStatus = "REFUNDED"
)

// ParseSaleStatus converts a raw value into a SaleStatus, rejecting unknown values.
func ParseSaleStatus(s string) (SaleStatus, error) {
	switch st := SaleStatus(s); st {
	case SaleDraft, SaleCompleted, SaleCancelled, SaleRefunded:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown sale status %q", apperrors.ErrValidation, s)
}

// PaymentMode decides whether completion debits cash or receivables.
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "CASH"
	PaymentModeCredit PaymentMode = "CREDIT"
)

// ParsePaymentMode converts a raw value into a PaymentMode, rejecting unknown values.
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch m := PaymentMode(s); m {
	case PaymentModeCash, PaymentModeCredit:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown payment mode %q", apperrors.ErrValidation, s)
}

// Sale owns its items; deleting a draft sale deletes them too.
type Sale struct {
	SaleID       string          `json:"saleID"`
	SaleNumber   string          `json:"saleNumber"` // unique
	WarehouseID  string          `json:"warehouseID"`
	CurrencyCode string          `json:"currencyCode"`
	PaymentMode  PaymentMode     `json:"paymentMode"`
	Status       SaleStatus      `json:"status"`
	Items        []SaleItem      `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	TaxTotal     decimal.Decimal `json:"taxTotal"`
	Total        decimal.Decimal `json:"total"`
	JournalID    string          `json:"journalID,omitempty"` // settlement journal, set on completion
	Version      int64           `json:"version"`
	AuditFields
}

// SaleItem is a single product line of a sale.
type SaleItem struct {
	ItemID    string          `json:"itemID"`
	SaleID    string          `json:"saleID"`
	LineNo    int             `json:"lineNo"`
	ProductID string          `json:"productID"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TaxRate   decimal.Decimal `json:"taxRate"`  // fraction, 0.10 == 10%
	UnitCost  decimal.Decimal `json:"unitCost"` // frozen moving-average cost at completion
}

// LineSubtotal is quantity * unit price rounded to MoneyScale.
func (i SaleItem) LineSubtotal() decimal.Decimal {
	return RoundMoney(i.Quantity.Mul(i.UnitPrice))
}

// LineTax is the line subtotal * tax rate rounded to MoneyScale.
func (i SaleItem) LineTax() decimal.Decimal {
	return RoundMoney(i.LineSubtotal().Mul(i.TaxRate))
}

// LineCost is quantity * frozen unit cost rounded to MoneyScale.
func (i SaleItem) LineCost() decimal.Decimal {
	return RoundMoney(i.Quantity.Mul(i.UnitCost))
}

// SaleTotals groups the aggregate amounts of a sale.
type SaleTotals struct {
	Subtotal Money
	Tax      Money
	Total    Money
}

// CalculateSaleTotals aggregates item lines. Total always equals Subtotal + Tax.
func CalculateSaleTotals(currency string, items []SaleItem) (SaleTotals, error) {
	subtotal, tax := ZeroMoney(currency), ZeroMoney(currency)
	var err error
	for _, item := range items {
		if subtotal, err = subtotal.Add(Money{Amount: item.LineSubtotal(), Currency: currency}); err != nil {
			return SaleTotals{}, err
		}
		if tax, err = tax.Add(Money{Amount: item.LineTax(), Currency: currency}); err != nil {
			return SaleTotals{}, err
		}
	}
	total, err := subtotal.Add(tax)
	if err != nil {
		return SaleTotals{}, err
	}
	return SaleTotals{Subtotal: subtotal, Tax: tax, Total: total}, nil
}

// CostOfGoodsSold sums the frozen line costs.
func (s Sale) CostOfGoodsSold() decimal.Decimal {
	cogs := decimal.Zero
	for _, item := range s.Items {
		cogs = cogs.Add(item.LineCost())
	}
	return cogs
}

// IsSettled reports whether the sale has been posted to the ledger.
func (s Sale) IsSettled() bool {
	return s.Status == SaleCompleted && s.JournalID != ""
}
