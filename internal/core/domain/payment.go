package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// ParsePaymentStatus converts a raw value into a PaymentStatus, rejecting unknown values.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch st := PaymentStatus(s); st {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown payment status %q", apperrors.ErrValidation, s)
}

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodBank PaymentMethod = "BANK"
	PaymentMethodCard PaymentMethod = "CARD"
)

// ParsePaymentMethod converts a raw value into a PaymentMethod, rejecting unknown values.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodCash, PaymentMethodBank, PaymentMethodCard:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, s)
}

type PaymentSourceType string

const (
	PaymentSourceSale    PaymentSourceType = "SALE"
	PaymentSourceInvoice PaymentSourceType = "INVOICE"
	PaymentSourceBill    PaymentSourceType = "BILL"
)

// ParsePaymentSourceType converts a raw value into a PaymentSourceType, rejecting unknown values.
func ParsePaymentSourceType(s string) (PaymentSourceType, error) {
	switch t := PaymentSourceType(s); t {
	case PaymentSourceSale, PaymentSourceInvoice, PaymentSourceBill:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown payment source type %q", apperrors.ErrValidation, s)
}

// Payment is immutable once COMPLETED except for the move to REFUNDED.
type Payment struct {
	PaymentID    string            `json:"paymentID"`
	Amount       decimal.Decimal   `json:"amount"`
	CurrencyCode string            `json:"currencyCode"`
	Method       PaymentMethod     `json:"method"`
	Status       PaymentStatus     `json:"status"`
	SourceType   PaymentSourceType `json:"sourceType"`
	SourceID     string            `json:"sourceID"`
	JournalID    string            `json:"journalID,omitempty"`
	AuditFields
}

// CanTransitionTo enforces PENDING -> COMPLETED|FAILED and COMPLETED -> REFUNDED.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return next == PaymentCompleted || next == PaymentFailed
	case PaymentCompleted:
		return next == PaymentRefunded
	}
	return false
}

type CashbookEntryType string

const (
	CashIn       CashbookEntryType = "CASH_IN"
	CashOut      CashbookEntryType = "CASH_OUT"
	CashTransfer CashbookEntryType = "TRANSFER"
)

// ParseCashbookEntryType converts a raw value into a CashbookEntryType, rejecting unknown values.
func ParseCashbookEntryType(s string) (CashbookEntryType, error) {
	switch t := CashbookEntryType(s); t {
	case CashIn, CashOut, CashTransfer:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown cashbook entry type %q", apperrors.ErrValidation, s)
}

// CashbookEntry records cash moving in or out of a cashbook as a result of a payment.
type CashbookEntry struct {
	EntryID      string            `json:"entryID"`
	CashbookID   string            `json:"cashbookID"`
	AccountID    string            `json:"accountID"`
	PaymentID    string            `json:"paymentID,omitempty"`
	Amount       decimal.Decimal   `json:"amount"`
	EntryType    CashbookEntryType `json:"entryType"`
	IsReconciled bool              `json:"isReconciled"`
	EntryDate    time.Time         `json:"entryDate"`
	CreatedAt    time.Time         `json:"createdAt"`
	CreatedBy    string            `json:"createdBy"`
}
