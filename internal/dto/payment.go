package dto

import (
	"time"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest defines a payment received against a source document.
type RecordPaymentRequest struct {
	SourceType string          `json:"sourceType" binding:"required,oneof=SALE INVOICE BILL"`
	SourceID   string          `json:"sourceID" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method" binding:"required,oneof=CASH BANK CARD"`
	CashbookID string          `json:"cashbookID"` // defaults to the configured cashbook
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID    string          `json:"paymentID"`
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
	Method       string          `json:"method"`
	Status       string          `json:"status"`
	SourceType   string          `json:"sourceType"`
	SourceID     string          `json:"sourceID"`
	JournalID    string          `json:"journalID,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	CreatedBy    string          `json:"createdBy"`
}

// ToPaymentResponse converts a domain.Payment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:    p.PaymentID,
		Amount:       p.Amount,
		CurrencyCode: p.CurrencyCode,
		Method:       string(p.Method),
		Status:       string(p.Status),
		SourceType:   string(p.SourceType),
		SourceID:     p.SourceID,
		JournalID:    p.JournalID,
		CreatedAt:    p.CreatedAt,
		CreatedBy:    p.CreatedBy,
	}
}
