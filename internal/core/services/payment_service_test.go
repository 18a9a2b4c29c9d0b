package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/dto"
)

type PaymentServiceTestSuite struct {
	stockedSuite
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (s *PaymentServiceTestSuite) completedSale(mode domain.PaymentMode) *domain.Sale {
	sale := s.standardSale(mode)
	done, err := s.svc.Settlement.CompleteSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)
	return done
}

func (s *PaymentServiceTestSuite) pay(saleID, amount string) (*domain.Payment, error) {
	return s.svc.Payment.RecordPayment(s.ctx, dto.RecordPaymentRequest{
		SourceType: string(domain.PaymentSourceSale),
		SourceID:   saleID,
		Amount:     d(amount),
		Method:     string(domain.PaymentMethodBank),
	}, testUser)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_SettlesReceivable() {
	sale := s.completedSale(domain.PaymentModeCredit)

	p, err := s.pay(sale.SaleID, "20")
	s.Require().NoError(err)
	s.Equal(domain.PaymentCompleted, p.Status)
	s.NotEmpty(p.JournalID)

	s.assertBalance(testCodes.Cash, "20")
	s.assertBalance(testCodes.Receivable, "40.50")
	s.assertLedgerBalanced()

	_, err = s.pay(sale.SaleID, "40.51")
	s.ErrorIs(err, apperrors.ErrValidation, "over-payment")

	_, err = s.pay(sale.SaleID, "40.50")
	s.Require().NoError(err)
	s.assertBalance(testCodes.Receivable, "0")

	_, entries := s.payments(sale.SaleID)
	s.Len(entries, 2)
}

func (s *PaymentServiceTestSuite) TestRecordPayment_Rejections() {
	draft := s.standardSale(domain.PaymentModeCredit)
	_, err := s.pay(draft.SaleID, "1")
	s.ErrorIs(err, apperrors.ErrSaleNotCompleted)

	cash := s.completedSale(domain.PaymentModeCash)
	_, err = s.pay(cash.SaleID, "1")
	s.ErrorIs(err, apperrors.ErrConflict)

	_, err = s.pay("missing", "1")
	s.ErrorIs(err, apperrors.ErrNotFound)

	_, err = s.pay(draft.SaleID, "0")
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Payment.RecordPayment(s.ctx, dto.RecordPaymentRequest{
		SourceType: string(domain.PaymentSourceInvoice),
		SourceID:   "INV-1",
		Amount:     d("1"),
		Method:     string(domain.PaymentMethodCash),
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PaymentServiceTestSuite) TestRefundPayment() {
	sale := s.completedSale(domain.PaymentModeCredit)
	p, err := s.pay(sale.SaleID, "20")
	s.Require().NoError(err)

	refunded, err := s.svc.Payment.RefundPayment(s.ctx, p.PaymentID, testUser)
	s.Require().NoError(err)
	s.Equal(domain.PaymentRefunded, refunded.Status)

	s.assertBalance(testCodes.Cash, "0")
	s.assertBalance(testCodes.Receivable, "60.50")

	_, entries := s.payments(sale.SaleID)
	s.Require().Len(entries, 2)
	s.Equal(domain.CashOut, entries[1].EntryType)

	_, err = s.svc.Payment.RefundPayment(s.ctx, p.PaymentID, testUser)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *PaymentServiceTestSuite) TestRefundPayment_SettlementPaymentGoesThroughSale() {
	sale := s.completedSale(domain.PaymentModeCash)
	payments, _ := s.payments(sale.SaleID)
	s.Require().Len(payments, 1)

	_, err := s.svc.Payment.RefundPayment(s.ctx, payments[0].PaymentID, testUser)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.assertBalance(testCodes.Cash, "60.50")
}

func (s *PaymentServiceTestSuite) TestRefundSale_ReversesRecordedPayments() {
	sale := s.completedSale(domain.PaymentModeCredit)
	_, err := s.pay(sale.SaleID, "20")
	s.Require().NoError(err)

	_, err = s.svc.Settlement.RefundSale(s.ctx, sale.SaleID, testUser)
	s.Require().NoError(err)

	s.assertBalance(testCodes.Cash, "0")
	s.assertBalance(testCodes.Receivable, "0")
	s.assertBalance(testCodes.Revenue, "0")
	s.assertLedgerBalanced()

	payments, _ := s.payments(sale.SaleID)
	s.Require().Len(payments, 1)
	s.Equal(domain.PaymentRefunded, payments[0].Status)
}
