package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/SscSPs/settlement_app/internal/platform/config"
)

type paymentService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	ledger     portssvc.JournalTxSvc
	accounts   config.AccountCodes
	cashbookID string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	txManager portsrepo.TransactionManager,
	ledger portssvc.JournalTxSvc,
	accounts config.AccountCodes,
	cashbookID string,
	options ...ServiceOption,
) portssvc.PaymentSvcFacade {
	svc := &paymentService{
		txManager:  txManager,
		ledger:     ledger,
		accounts:   accounts,
		cashbookID: cashbookID,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// RecordPayment applies money received to a COMPLETED credit sale.
func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, error) {
	sourceType, err := domain.ParsePaymentSourceType(req.SourceType)
	if err != nil {
		return nil, err
	}
	if sourceType != domain.PaymentSourceSale {
		return nil, fmt.Errorf("%w: payments against %s are not supported", apperrors.ErrValidation, sourceType)
	}
	method, err := domain.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, err
	}
	amount := domain.RoundMoney(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	cashbookID := req.CashbookID
	if cashbookID == "" {
		cashbookID = s.cashbookID
	}

	var payment *domain.Payment
	err = s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		sale, err := tx.Sales().FindSaleByIDForUpdate(ctx, req.SourceID)
		if err != nil {
			return err
		}
		if sale.Status != domain.SaleCompleted {
			return fmt.Errorf("%w: sale %s is %s", apperrors.ErrSaleNotCompleted, sale.SaleNumber, sale.Status)
		}
		if sale.PaymentMode != domain.PaymentModeCredit {
			return fmt.Errorf("%w: sale %s was settled in cash", apperrors.ErrConflict, sale.SaleNumber)
		}

		outstanding, seq, err := outstandingAmount(ctx, tx, sale)
		if err != nil {
			return err
		}
		if amount.GreaterThan(outstanding) {
			return fmt.Errorf("%w: payment of %s exceeds outstanding %s", apperrors.ErrValidation, amount.StringFixed(domain.MoneyScale), outstanding.StringFixed(domain.MoneyScale))
		}

		cash, err := tx.Accounts().FindAccountByCode(ctx, s.accounts.Cash)
		if err != nil {
			return fmt.Errorf("settlement account %s: %w", s.accounts.Cash, err)
		}
		receivable, err := tx.Accounts().FindAccountByCode(ctx, s.accounts.Receivable)
		if err != nil {
			return fmt.Errorf("settlement account %s: %w", s.accounts.Receivable, err)
		}

		journal, err := s.ledger.PostInTx(ctx, tx, dto.PostJournalRequest{
			ReferenceNumber: fmt.Sprintf("PAY-%s-%d", sale.SaleNumber, seq),
			Description:     "Payment received for sale " + sale.SaleNumber,
			CurrencyCode:    sale.CurrencyCode,
			SourceType:      string(domain.PaymentSourceSale),
			SourceID:        sale.SaleID,
			Lines: []dto.PostingLineRequest{
				{AccountID: cash.AccountID, Side: string(domain.Debit), Amount: amount, Notes: "payment received"},
				{AccountID: receivable.AccountID, Side: string(domain.Credit), Amount: amount, Notes: "receivable settled"},
			},
		}, userID)
		if err != nil {
			return err
		}

		now := s.Now()
		p := domain.Payment{
			PaymentID:    uuid.NewString(),
			Amount:       amount,
			CurrencyCode: sale.CurrencyCode,
			Method:       method,
			Status:       domain.PaymentCompleted,
			SourceType:   sourceType,
			SourceID:     sale.SaleID,
			JournalID:    journal.JournalID,
			AuditFields:  domain.NewAuditFields(userID, now),
		}
		if err := tx.Payments().SavePayment(ctx, p); err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}
		if err := tx.Payments().SaveCashbookEntry(ctx, domain.CashbookEntry{
			EntryID:    uuid.NewString(),
			CashbookID: cashbookID,
			AccountID:  cash.AccountID,
			PaymentID:  p.PaymentID,
			Amount:     amount,
			EntryType:  domain.CashIn,
			EntryDate:  now,
			CreatedAt:  now,
			CreatedBy:  userID,
		}); err != nil {
			return fmt.Errorf("failed to save cashbook entry: %w", err)
		}
		payment = &p
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record payment",
			slog.String("source_id", req.SourceID),
			slog.String("amount", amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("source_id", payment.SourceID),
		slog.String("amount", payment.Amount.String()))
	return payment, nil
}

// outstandingAmount is the sale total less COMPLETED payments already applied.
// It also returns the sequence number the next payment of the sale gets.
func outstandingAmount(ctx context.Context, tx portsrepo.Tx, sale *domain.Sale) (decimal.Decimal, int, error) {
	payments, err := tx.Payments().ListPaymentsBySource(ctx, domain.PaymentSourceSale, sale.SaleID)
	if err != nil {
		return decimal.Zero, 0, err
	}
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == domain.PaymentCompleted {
			paid = paid.Add(p.Amount)
		}
	}
	return sale.Total.Sub(paid), len(payments) + 1, nil
}

// RefundPayment reverses a payment recorded through RecordPayment. Payments
// created by a cash settlement are refunded with the sale.
func (s *paymentService) RefundPayment(ctx context.Context, paymentID string, userID string) (*domain.Payment, error) {
	var payment *domain.Payment
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		p, err := tx.Payments().FindPaymentByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if !p.Status.CanTransitionTo(domain.PaymentRefunded) {
			return fmt.Errorf("%w: payment %s is %s", apperrors.ErrConflict, paymentID, p.Status)
		}
		if p.SourceType == domain.PaymentSourceSale {
			sale, err := tx.Sales().FindSaleByID(ctx, p.SourceID)
			if err != nil {
				return err
			}
			if sale.JournalID != "" && sale.JournalID == p.JournalID {
				return fmt.Errorf("%w: payment %s belongs to the settlement of sale %s, refund the sale instead", apperrors.ErrConflict, paymentID, sale.SaleNumber)
			}
		}
		if err := refundPaymentInTx(ctx, tx, s.ledger, p, p.JournalID != "", userID, s.Now()); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to refund payment", slog.String("payment_id", paymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment refunded", slog.String("payment_id", paymentID))
	return payment, nil
}

// refundPaymentInTx moves p to REFUNDED, optionally reverses its journal, and
// writes a CASH_OUT for every CASH_IN recorded against it.
func refundPaymentInTx(ctx context.Context, tx portsrepo.Tx, ledger portssvc.JournalTxSvc, p *domain.Payment, reverseJournal bool, userID string, now time.Time) error {
	if reverseJournal {
		if _, err := ledger.ReverseInTx(ctx, tx, p.JournalID, userID); err != nil {
			return err
		}
	}
	if err := tx.Payments().UpdatePaymentStatus(ctx, p.PaymentID, p.Status, domain.PaymentRefunded, userID, now); err != nil {
		return fmt.Errorf("failed to refund payment %s: %w", p.PaymentID, err)
	}

	entries, err := tx.Payments().ListCashbookEntriesByPayment(ctx, p.PaymentID)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.EntryType != domain.CashIn {
			continue
		}
		if err := tx.Payments().SaveCashbookEntry(ctx, domain.CashbookEntry{
			EntryID:    uuid.NewString(),
			CashbookID: e.CashbookID,
			AccountID:  e.AccountID,
			PaymentID:  p.PaymentID,
			Amount:     e.Amount,
			EntryType:  domain.CashOut,
			EntryDate:  now,
			CreatedAt:  now,
			CreatedBy:  userID,
		}); err != nil {
			return fmt.Errorf("failed to save cashbook entry: %w", err)
		}
	}

	p.Status = domain.PaymentRefunded
	p.Touch(userID, now)
	return nil
}
