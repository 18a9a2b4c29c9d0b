package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/SscSPs/settlement_app/internal/platform/config"
)

const tracerName = "github.com/SscSPs/settlement_app/settlement"

// settlementService completes, refunds and cancels sales. Each call runs in one
// transaction: stock movements, the ledger entry, payments and the status flip
// commit together or not at all.
type settlementService struct {
	BaseService
	txManager  portsrepo.TransactionManager
	ledger     portssvc.JournalTxSvc
	stock      portssvc.StockTxSvc
	accounts   config.AccountCodes
	cashbookID string
	locker     portssvc.Locker
	tracer     trace.Tracer
}

// SettlementOption configures optional settlement dependencies.
type SettlementOption func(*settlementService)

// WithLocker serialises settlement calls per sale through l before the transaction starts.
func WithLocker(l portssvc.Locker) SettlementOption {
	return func(s *settlementService) {
		s.locker = l
	}
}

// WithTracer overrides the global OpenTelemetry tracer.
func WithTracer(t trace.Tracer) SettlementOption {
	return func(s *settlementService) {
		s.tracer = t
	}
}

// NewSettlementService creates a new SettlementSvc.
func NewSettlementService(
	txManager portsrepo.TransactionManager,
	ledger portssvc.JournalTxSvc,
	stock portssvc.StockTxSvc,
	accounts config.AccountCodes,
	cashbookID string,
	options ...SettlementOption,
) portssvc.SettlementSvc {
	svc := &settlementService{
		txManager:  txManager,
		ledger:     ledger,
		stock:      stock,
		accounts:   accounts,
		cashbookID: cashbookID,
		tracer:     otel.Tracer(tracerName),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SettlementSvc = (*settlementService)(nil)

func saleLockKey(saleID string) string {
	return "settlement:sale:" + saleID
}

// run locks the sale, opens a transaction, re-reads the sale FOR UPDATE and hands it to step.
func (s *settlementService) run(ctx context.Context, op, saleID string, step func(ctx context.Context, tx portsrepo.Tx, sale *domain.Sale) error) (*domain.Sale, error) {
	ctx, span := s.tracer.Start(ctx, "settlement."+op, trace.WithAttributes(attribute.String("sale.id", saleID)))
	defer span.End()
	logger := s.GetLogger(ctx).With(slog.String("operation", op), slog.String("sale_id", saleID))

	if s.locker != nil {
		release, err := s.locker.Obtain(ctx, saleLockKey(saleID))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "lock not obtained")
			logger.Warn("Could not obtain settlement lock", slog.String("error", err.Error()))
			return nil, err
		}
		defer release()
	}

	var result *domain.Sale
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		sale, err := tx.Sales().FindSaleByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if err := step(ctx, tx, sale); err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, op+" failed")
		logger.Error("Settlement failed", slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(attribute.String("sale.status", string(result.Status)))
	logger.Info("Settlement succeeded",
		slog.String("sale_number", result.SaleNumber),
		slog.String("status", string(result.Status)))
	return result, nil
}

// CompleteSale issues stock, posts the settlement entry and marks the sale COMPLETED.
func (s *settlementService) CompleteSale(ctx context.Context, saleID string, userID string) (*domain.Sale, error) {
	return s.run(ctx, "CompleteSale", saleID, func(ctx context.Context, tx portsrepo.Tx, sale *domain.Sale) error {
		if sale.Status != domain.SaleDraft {
			return fmt.Errorf("%w: sale %s is %s", apperrors.ErrSaleNotDraft, sale.SaleNumber, sale.Status)
		}
		if len(sale.Items) == 0 {
			return fmt.Errorf("%w: sale %s has no items", apperrors.ErrValidation, sale.SaleNumber)
		}

		// COGS depends on the average cost frozen by these movements.
		for _, i := range itemsInLockOrder(sale.Items) {
			item := &sale.Items[i]
			entry, err := s.stock.RecordMovementInTx(ctx, tx, dto.RecordMovementRequest{
				ProductID:   item.ProductID,
				WarehouseID: sale.WarehouseID,
				QtyDelta:    item.Quantity.Neg(),
				VoucherType: string(domain.VoucherSale),
				VoucherNo:   sale.SaleNumber,
				EntryType:   domain.EntryTypeSaleIssue.Code,
			}, userID)
			if err != nil {
				return fmt.Errorf("stock issue for item %d: %w", item.LineNo, err)
			}
			item.UnitCost = entry.ValuationRate
		}

		accts, err := s.resolveAccounts(ctx, tx, sale)
		if err != nil {
			return err
		}

		lines := completionLines(sale, accts, sale.CostOfGoodsSold())
		if len(lines) > 0 {
			journal, err := s.ledger.PostInTx(ctx, tx, dto.PostJournalRequest{
				ReferenceNumber: "SALE-" + sale.SaleNumber,
				Description:     "Settlement of sale " + sale.SaleNumber,
				CurrencyCode:    sale.CurrencyCode,
				SourceType:      string(domain.PaymentSourceSale),
				SourceID:        sale.SaleID,
				Lines:           lines,
			}, userID)
			if err != nil {
				return err
			}
			sale.JournalID = journal.JournalID
		}

		if sale.PaymentMode == domain.PaymentModeCash && sale.Total.IsPositive() {
			if err := s.recordCashSalePayment(ctx, tx, sale, accts.debit, userID); err != nil {
				return err
			}
		}

		return s.transition(ctx, tx, sale, domain.SaleCompleted, userID)
	})
}

// RefundSale returns stock at the frozen cost, reverses the settlement and any
// separately recorded payments, and marks the sale REFUNDED.
func (s *settlementService) RefundSale(ctx context.Context, saleID string, userID string) (*domain.Sale, error) {
	return s.run(ctx, "RefundSale", saleID, func(ctx context.Context, tx portsrepo.Tx, sale *domain.Sale) error {
		if sale.Status != domain.SaleCompleted {
			return fmt.Errorf("%w: sale %s is %s", apperrors.ErrSaleNotCompleted, sale.SaleNumber, sale.Status)
		}

		for _, i := range itemsInLockOrder(sale.Items) {
			item := sale.Items[i]
			if _, err := s.stock.RecordMovementInTx(ctx, tx, dto.RecordMovementRequest{
				ProductID:     item.ProductID,
				WarehouseID:   sale.WarehouseID,
				QtyDelta:      item.Quantity,
				ValuationRate: item.UnitCost,
				VoucherType:   string(domain.VoucherSaleReturn),
				VoucherNo:     sale.SaleNumber,
				EntryType:     domain.EntryTypeSaleReturn.Code,
			}, userID); err != nil {
				return fmt.Errorf("stock return for item %d: %w", item.LineNo, err)
			}
		}

		if sale.JournalID != "" {
			if _, err := s.ledger.ReverseInTx(ctx, tx, sale.JournalID, userID); err != nil {
				return err
			}
		}

		payments, err := tx.Payments().ListPaymentsBySource(ctx, domain.PaymentSourceSale, sale.SaleID)
		if err != nil {
			return err
		}
		for i := range payments {
			p := &payments[i]
			if p.Status != domain.PaymentCompleted {
				continue
			}
			reverseJournal := p.JournalID != "" && p.JournalID != sale.JournalID
			if err := refundPaymentInTx(ctx, tx, s.ledger, p, reverseJournal, userID, s.Now()); err != nil {
				return err
			}
		}

		return s.transition(ctx, tx, sale, domain.SaleRefunded, userID)
	})
}

// CancelSale marks a DRAFT sale CANCELLED. Nothing else changes.
func (s *settlementService) CancelSale(ctx context.Context, saleID string, userID string) (*domain.Sale, error) {
	return s.run(ctx, "CancelSale", saleID, func(ctx context.Context, tx portsrepo.Tx, sale *domain.Sale) error {
		if sale.Status != domain.SaleDraft {
			return fmt.Errorf("%w: sale %s is %s", apperrors.ErrSaleNotDraft, sale.SaleNumber, sale.Status)
		}
		return s.transition(ctx, tx, sale, domain.SaleCancelled, userID)
	})
}

// transition flips the sale status behind an optimistic version check.
func (s *settlementService) transition(ctx context.Context, tx portsrepo.Tx, sale *domain.Sale, to domain.SaleStatus, userID string) error {
	expected := sale.Version
	sale.Status = to
	sale.Version = expected + 1
	sale.Touch(userID, s.Now())
	if err := tx.Sales().UpdateSale(ctx, *sale, expected); err != nil {
		return fmt.Errorf("failed to mark sale %s %s: %w", sale.SaleNumber, to, err)
	}
	return nil
}

type settlementAccounts struct {
	debit      domain.Account // cash or receivable
	revenue    domain.Account
	taxPayable domain.Account
	cogs       domain.Account
	inventory  domain.Account
}

func (s *settlementService) resolveAccounts(ctx context.Context, tx portsrepo.Tx, sale *domain.Sale) (settlementAccounts, error) {
	debitCode := s.accounts.Receivable
	if sale.PaymentMode == domain.PaymentModeCash {
		debitCode = s.accounts.Cash
	}

	var out settlementAccounts
	for _, target := range []struct {
		code string
		dst  *domain.Account
	}{
		{debitCode, &out.debit},
		{s.accounts.Revenue, &out.revenue},
		{s.accounts.TaxPayable, &out.taxPayable},
		{s.accounts.COGS, &out.cogs},
		{s.accounts.Inventory, &out.inventory},
	} {
		acc, err := tx.Accounts().FindAccountByCode(ctx, target.code)
		if err != nil {
			return settlementAccounts{}, fmt.Errorf("settlement account %s: %w", target.code, err)
		}
		*target.dst = *acc
	}
	return out, nil
}

// completionLines builds Dr Cash|AR total, Cr Revenue subtotal, Cr Tax tax,
// Dr COGS cost, Cr Inventory cost. Zero amounts are left out.
func completionLines(sale *domain.Sale, accts settlementAccounts, cogs decimal.Decimal) []dto.PostingLineRequest {
	var lines []dto.PostingLineRequest
	add := func(acc domain.Account, side domain.TransactionType, amount decimal.Decimal, notes string) {
		if amount.IsPositive() {
			lines = append(lines, dto.PostingLineRequest{
				AccountID: acc.AccountID,
				Side:      string(side),
				Amount:    amount,
				Notes:     notes,
			})
		}
	}
	add(accts.debit, domain.Debit, sale.Total, "sale total")
	add(accts.revenue, domain.Credit, sale.Subtotal, "revenue")
	add(accts.taxPayable, domain.Credit, sale.TaxTotal, "sales tax")
	add(accts.cogs, domain.Debit, cogs, "cost of goods sold")
	add(accts.inventory, domain.Credit, cogs, "inventory issue")
	return lines
}

func (s *settlementService) recordCashSalePayment(ctx context.Context, tx portsrepo.Tx, sale *domain.Sale, cash domain.Account, userID string) error {
	now := s.Now()
	payment := domain.Payment{
		PaymentID:    uuid.NewString(),
		Amount:       sale.Total,
		CurrencyCode: sale.CurrencyCode,
		Method:       domain.PaymentMethodCash,
		Status:       domain.PaymentCompleted,
		SourceType:   domain.PaymentSourceSale,
		SourceID:     sale.SaleID,
		JournalID:    sale.JournalID,
		AuditFields:  domain.NewAuditFields(userID, now),
	}
	if err := tx.Payments().SavePayment(ctx, payment); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return tx.Payments().SaveCashbookEntry(ctx, domain.CashbookEntry{
		EntryID:    uuid.NewString(),
		CashbookID: s.cashbookID,
		AccountID:  cash.AccountID,
		PaymentID:  payment.PaymentID,
		Amount:     payment.Amount,
		EntryType:  domain.CashIn,
		EntryDate:  now,
		CreatedAt:  now,
		CreatedBy:  userID,
	})
}

// itemsInLockOrder returns item indexes sorted by product so concurrent
// settlements lock stock rows in the same order.
func itemsInLockOrder(items []domain.SaleItem) []int {
	idx := make([]int, len(items))
	for i := range items {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return items[idx[a]].ProductID < items[idx[b]].ProductID
	})
	return idx
}
