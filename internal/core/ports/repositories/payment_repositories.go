package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/settlement_app/internal/core/domain"
)

// PaymentReader defines read operations for payments and cashbook entries
type PaymentReader interface {
	// FindPaymentByIDForUpdate retrieves and locks a payment.
	FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPaymentsBySource returns payments applied to a source document, oldest first.
	ListPaymentsBySource(ctx context.Context, sourceType domain.PaymentSourceType, sourceID string) ([]domain.Payment, error)

	// ListCashbookEntriesByPayment returns the cashbook entries written for a payment.
	ListCashbookEntriesByPayment(ctx context.Context, paymentID string) ([]domain.CashbookEntry, error)
}

// PaymentWriter defines write operations for payments and cashbook entries
type PaymentWriter interface {
	// SavePayment inserts a payment.
	SavePayment(ctx context.Context, payment domain.Payment) error

	// UpdatePaymentStatus moves a payment from one status to another.
	// Returns apperrors.ErrConcurrentModification if the stored status is not from.
	UpdatePaymentStatus(ctx context.Context, paymentID string, from, to domain.PaymentStatus, userID string, now time.Time) error

	// SaveCashbookEntry inserts a cashbook entry.
	SaveCashbookEntry(ctx context.Context, entry domain.CashbookEntry) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
