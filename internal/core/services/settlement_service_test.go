package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
)

// stockedSuite starts with A: 10 @ 10 and B: 5 @ 25 on hand, inventory 225.
type stockedSuite struct {
	ledgerSuite
}

func (s *stockedSuite) SetupTest() {
	s.ledgerSuite.SetupTest()
	s.receive("A", "10", "10")
	s.receive("B", "5", "25")
}

func (s *stockedSuite) standardSale(mode domain.PaymentMode) *domain.Sale {
	return s.draftSale(mode,
		item("A", "3", "10", "0.10"),
		item("B", "1", "25", "0.10"))
}

func (s *stockedSuite) payments(saleID string) ([]domain.Payment, []domain.CashbookEntry) {
	var payments []domain.Payment
	var entries []domain.CashbookEntry
	err := s.store.RunInTx(s.ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		var err error
		payments, err = tx.Payments().ListPaymentsBySource(ctx, domain.PaymentSourceSale, saleID)
		if err != nil {
			return err
		}
		for _, p := range payments {
			e, err := tx.Payments().ListCashbookEntriesByPayment(ctx, p.PaymentID)
			if err != nil {
				return err
			}
			entries = append(entries, e...)
		}
		return nil
	})
	s.Require().NoError(err)
	return payments, entries
}

type SettlementServiceTestSuite struct {
	stockedSuite
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}

func (s *SettlementServiceTestSuite) TestCompleteSale_CreditSale() {
	sale := s.standardSale(domain.PaymentModeCredit)

	done, err := s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.SaleCompleted, done.Status)
	s.Equal(int64(2), done.Version)
	s.NotEmpty(done.JournalID)
	s.assertDecimal("10", done.Items[0].UnitCost)
	s.assertDecimal("25", done.Items[1].UnitCost)

	s.assertBalance(testCodes.Receivable, "60.50")
	s.assertBalance(testCodes.Revenue, "55.00")
	s.assertBalance(testCodes.TaxPayable, "5.50")
	s.assertBalance(testCodes.COGS, "55.00")
	s.assertBalance(testCodes.Inventory, "170.00")
	s.assertBalance(testCodes.Cash, "0")
	s.assertLedgerBalanced()

	s.assertDecimal("7", s.onHand("A"))
	s.assertDecimal("4", s.onHand("B"))

	journal, err := s.svc.Journal.GetJournalByID(s.ctx, done.JournalID)
	s.Require().NoError(err)
	s.Equal("SALE-"+sale.SaleNumber, journal.ReferenceNumber)
	s.Equal(sale.SaleID, journal.SourceID)
	s.Len(journal.Lines, 5)

	payments, _ := s.payments(sale.SaleID)
	s.Empty(payments)

	stored, err := s.svc.Sale.GetSaleByID(s.ctx, sale.SaleID)
	s.Require().NoError(err)
	s.Equal(domain.SaleCompleted, stored.Status)
	s.assertDecimal("10", stored.Items[0].UnitCost)
}

func (s *SettlementServiceTestSuite) TestCompleteSale_CashSaleRecordsPayment() {
	sale := s.standardSale(domain.PaymentModeCash)

	done, err := s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)

	s.assertBalance(testCodes.Cash, "60.50")
	s.assertBalance(testCodes.Receivable, "0")
	s.assertLedgerBalanced()

	payments, entries := s.payments(sale.SaleID)
	s.Require().Len(payments, 1)
	s.Equal(domain.PaymentCompleted, payments[0].Status)
	s.Equal(domain.PaymentMethodCash, payments[0].Method)
	s.Equal(done.JournalID, payments[0].JournalID)
	s.assertDecimal("60.50", payments[0].Amount)

	s.Require().Len(entries, 1)
	s.Equal(domain.CashIn, entries[0].EntryType)
	s.Equal("MAIN", entries[0].CashbookID)
	s.Equal(s.account(testCodes.Cash).AccountID, entries[0].AccountID)
}

func (s *SettlementServiceTestSuite) TestCompleteSale_InsufficientStockChangesNothing() {
	sale := s.draftSale(domain.PaymentModeCash,
		item("A", "3", "10", "0.10"),
		item("B", "6", "25", "0.10"))

	_, err := s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.Require().ErrorIs(err, apperrors.ErrInsufficientStock)

	s.assertDecimal("10", s.onHand("A"))
	s.assertDecimal("5", s.onHand("B"))
	s.assertBalance(testCodes.Inventory, "225")
	s.assertBalance(testCodes.Cash, "0")
	s.assertBalance(testCodes.Revenue, "0")

	stored, err := s.svc.Sale.GetSaleByID(s.ctx, sale.SaleID)
	s.Require().NoError(err)
	s.Equal(domain.SaleDraft, stored.Status)
	s.Equal(int64(1), stored.Version)
	s.Empty(stored.JournalID)

	payments, _ := s.payments(sale.SaleID)
	s.Empty(payments)
}

func (s *SettlementServiceTestSuite) TestCompleteSale_Twice() {
	sale := s.standardSale(domain.PaymentModeCredit)

	_, err := s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)

	_, err = s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.ErrorIs(err, apperrors.ErrSaleNotDraft)

	s.assertDecimal("7", s.onHand("A"))
	s.assertBalance(testCodes.Receivable, "60.50")
}

func (s *SettlementServiceTestSuite) TestCompleteSale_ConcurrentCallsSettleOnce() {
	sale := s.standardSale(domain.PaymentModeCash)

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.svc.Settlement.CompleteSale(context.Background(), sale.SaleID, testUser)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, apperrors.ErrSaleNotDraft)
	}
	s.Equal(1, succeeded)

	s.assertDecimal("7", s.onHand("A"))
	s.assertDecimal("4", s.onHand("B"))
	s.assertBalance(testCodes.Cash, "60.50")
	payments, _ := s.payments(sale.SaleID)
	s.Len(payments, 1)
}

func (s *SettlementServiceTestSuite) TestCompleteSale_MissingSale() {
	_, err := s.svc.Settlement.CompleteSale(s.ctx, "missing", testUser)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *SettlementServiceTestSuite) TestRefundSale_RestoresEverything() {
	sale := s.standardSale(domain.PaymentModeCash)
	done, err := s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)

	refunded, err := s.svc.Settlement.RefundSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.SaleRefunded, refunded.Status)
	s.Equal(int64(3), refunded.Version)

	s.assertDecimal("10", s.onHand("A"))
	s.assertDecimal("5", s.onHand("B"))
	for _, code := range []string{testCodes.Cash, testCodes.Receivable, testCodes.Revenue, testCodes.TaxPayable, testCodes.COGS} {
		s.assertBalance(code, "0")
	}
	s.assertBalance(testCodes.Inventory, "225")
	s.assertLedgerBalanced()

	journal, err := s.svc.Journal.GetJournalByID(s.ctx, done.JournalID)
	s.Require().NoError(err)
	s.Equal(domain.Reversed, journal.Status)
	s.Require().NotEmpty(journal.ReversingJournalID)

	reversal, err := s.svc.Journal.GetJournalByID(s.ctx, journal.ReversingJournalID)
	s.Require().NoError(err)
	s.Equal(journal.JournalID, reversal.OriginalJournalID)
	s.Equal(domain.Posted, reversal.Status)
	s.Require().Len(reversal.Lines, len(journal.Lines))
	for i, orig := range journal.Lines {
		rev := reversal.Lines[i]
		s.Equal(orig.AccountID, rev.AccountID, "line %d", i+1)
		s.Equal(orig.Side.Opposite(), rev.Side, "line %d", i+1)
		s.assertDecimal(orig.Amount.String(), rev.Amount)
	}

	payments, entries := s.payments(sale.SaleID)
	s.Require().Len(payments, 1)
	s.Equal(domain.PaymentRefunded, payments[0].Status)
	s.Require().Len(entries, 2)
	s.Equal(domain.CashOut, entries[1].EntryType)
	s.assertDecimal("60.50", entries[1].Amount)

	_, err = s.svc.Settlement.RefundSale(s.ctx, sale.SaleID, testUser)
	s.ErrorIs(err, apperrors.ErrSaleNotCompleted)
}

func (s *SettlementServiceTestSuite) TestRefundSale_ReturnsStockAtFrozenCost() {
	sale := s.standardSale(domain.PaymentModeCredit)
	_, err := s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)

	// average cost of A moves to 25 after the sale
	s.receive("A", "7", "40")

	_, err = s.svc.Settlement.RefundSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)

	var entries []domain.StockLedgerEntry
	s.Require().NoError(s.store.RunInTx(s.ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		var err error
		entries, err = tx.Stock().ListEntries(ctx, "A", testWarehouse)
		return err
	}))
	last := entries[len(entries)-1]
	s.Equal(domain.VoucherSaleReturn, last.VoucherType)
	s.Equal(sale.SaleNumber, last.VoucherNo)
	s.assertDecimal("3", last.Qty)
	s.assertDecimal("10", last.ValuationRate)
	s.assertDecimal("17", s.onHand("A"))
}

func (s *SettlementServiceTestSuite) TestRefundSale_DraftIsRejected() {
	sale := s.standardSale(domain.PaymentModeCredit)
	_, err := s.svc.Settlement.RefundSale(s.ctx, sale.SaleID, testUser)
	s.ErrorIs(err, apperrors.ErrSaleNotCompleted)
}

func (s *SettlementServiceTestSuite) TestCancelSale() {
	sale := s.standardSale(domain.PaymentModeCredit)

	cancelled, err := s.svc.Settlement.CancelSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.SaleCancelled, cancelled.Status)
	s.assertDecimal("10", s.onHand("A"))

	_, err = s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.ErrorIs(err, apperrors.ErrSaleNotDraft)
	_, err = s.svc.Settlement.CancelSale(s.ctx, sale.SaleID, testUser)
	s.ErrorIs(err, apperrors.ErrSaleNotDraft)
}

func (s *SettlementServiceTestSuite) TestCompleteSale_ZeroTaxOmitsTaxLine() {
	sale := s.draftSale(domain.PaymentModeCredit, item("A", "2", "15", "0"))

	done, err := s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)

	journal, err := s.svc.Journal.GetJournalByID(s.ctx, done.JournalID)
	s.Require().NoError(err)
	s.Len(journal.Lines, 4)
	s.assertBalance(testCodes.TaxPayable, "0")
	s.assertBalance(testCodes.Revenue, "30")
	s.assertBalance(testCodes.COGS, "20")
}
