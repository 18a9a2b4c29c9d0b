package dto

import (
	"time"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one product line of a new sale.
type SaleItemRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TaxRate   decimal.Decimal `json:"taxRate"` // fraction, 0.10 == 10%
}

// CreateSaleRequest defines the data needed to open a draft sale.
type CreateSaleRequest struct {
	SaleNumber   string            `json:"saleNumber" binding:"omitempty,max=64"` // generated when empty
	WarehouseID  string            `json:"warehouseID" binding:"required"`
	CurrencyCode string            `json:"currencyCode" binding:"required,iso4217"`
	PaymentMode  string            `json:"paymentMode" binding:"required,oneof=CASH CREDIT"`
	Items        []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SaleItemResponse defines the data returned for a sale line.
type SaleItemResponse struct {
	ItemID       string          `json:"itemID"`
	LineNo       int             `json:"lineNo"`
	ProductID    string          `json:"productID"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	LineSubtotal decimal.Decimal `json:"lineSubtotal"`
	LineTax      decimal.Decimal `json:"lineTax"`
	UnitCost     decimal.Decimal `json:"unitCost"`
}

// SaleResponse defines the data returned for a sale.
type SaleResponse struct {
	SaleID        string             `json:"saleID"`
	SaleNumber    string             `json:"saleNumber"`
	WarehouseID   string             `json:"warehouseID"`
	CurrencyCode  string             `json:"currencyCode"`
	PaymentMode   string             `json:"paymentMode"`
	Status        string             `json:"status"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	TaxTotal      decimal.Decimal    `json:"taxTotal"`
	Total         decimal.Decimal    `json:"total"`
	JournalID     string             `json:"journalID,omitempty"`
	Version       int64              `json:"version"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToSaleResponse converts a domain.Sale to SaleResponse DTO.
func ToSaleResponse(s *domain.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, item := range s.Items {
		items[i] = SaleItemResponse{
			ItemID:       item.ItemID,
			LineNo:       item.LineNo,
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			TaxRate:      item.TaxRate,
			LineSubtotal: item.LineSubtotal(),
			LineTax:      item.LineTax(),
			UnitCost:     item.UnitCost,
		}
	}
	return SaleResponse{
		SaleID:        s.SaleID,
		SaleNumber:    s.SaleNumber,
		WarehouseID:   s.WarehouseID,
		CurrencyCode:  s.CurrencyCode,
		PaymentMode:   string(s.PaymentMode),
		Status:        string(s.Status),
		Items:         items,
		Subtotal:      s.Subtotal,
		TaxTotal:      s.TaxTotal,
		Total:         s.Total,
		JournalID:     s.JournalID,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		CreatedBy:     s.CreatedBy,
		LastUpdatedAt: s.LastUpdatedAt,
		LastUpdatedBy: s.LastUpdatedBy,
	}
}
