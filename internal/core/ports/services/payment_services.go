package services

import (
	"context"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/dto"
)

// PaymentSvcFacade records money received against completed sales.
type PaymentSvcFacade interface {
	// RecordPayment posts Dr Cash / Cr Receivable and writes a CASH_IN cashbook entry.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, error)

	// RefundPayment reverses a separately recorded payment and writes a CASH_OUT cashbook entry.
	RefundPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error)
}
