package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/settlement_app/internal/dto"
)

type StockServiceTestSuite struct {
	ledgerSuite
}

func TestStockServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockServiceTestSuite))
}

func (s *StockServiceTestSuite) move(productID, qty, rate string, entryType domain.StockEntryType) (*domain.StockLedgerEntry, error) {
	return s.svc.Stock.RecordMovement(s.ctx, dto.RecordMovementRequest{
		ProductID:     productID,
		WarehouseID:   testWarehouse,
		QtyDelta:      d(qty),
		ValuationRate: d(rate),
		VoucherType:   string(domain.VoucherAdjustment),
		VoucherNo:     "ADJ-1",
		EntryType:     entryType.Code,
	}, testUser)
}

func (s *StockServiceTestSuite) TestMovingAverage() {
	_, err := s.move("P1", "10", "10", domain.EntryTypeMaterialReceipt)
	s.Require().NoError(err)
	_, err = s.move("P1", "10", "20", domain.EntryTypeMaterialReceipt)
	s.Require().NoError(err)

	issue, err := s.move("P1", "-5", "0", domain.EntryTypeMaterialIssue)
	s.Require().NoError(err)
	s.assertDecimal("15", issue.ValuationRate)
	s.assertDecimal("-75", issue.StockValue)
	s.assertDecimal("15", issue.QtyAfter)
	s.assertDecimal("15", issue.AverageCostAfter)

	level, err := s.svc.Stock.CurrentStockLevel(s.ctx, "P1", testWarehouse)
	s.Require().NoError(err)
	s.assertDecimal("15", level.Quantity)
	s.assertDecimal("15", level.AverageCost)
	s.assertDecimal("225", level.StockValue)
	s.Equal(issue.EntryID, level.LastEntryID)
}

func (s *StockServiceTestSuite) TestInsufficientStock() {
	_, err := s.move("P1", "2", "10", domain.EntryTypeMaterialReceipt)
	s.Require().NoError(err)

	_, err = s.move("P1", "-3", "0", domain.EntryTypeMaterialIssue)
	s.Require().ErrorIs(err, apperrors.ErrInsufficientStock)

	var stockErr *apperrors.InsufficientStockError
	s.Require().True(errors.As(err, &stockErr))
	s.Equal("P1", stockErr.ProductID)
	s.assertDecimal("2", stockErr.Available)
	s.assertDecimal("3", stockErr.Requested)

	s.assertDecimal("2", s.onHand("P1"))
}

func (s *StockServiceTestSuite) TestReconciliationMayGoNegative() {
	entry, err := s.move("P1", "-4", "0", domain.EntryTypeStockReconciliation)
	s.Require().NoError(err)
	s.assertDecimal("-4", entry.QtyAfter)
	s.assertDecimal("-4", s.onHand("P1"))
}

func (s *StockServiceTestSuite) TestRejectsInvalidMovement() {
	_, err := s.move("P1", "0", "1", domain.EntryTypeMaterialReceipt)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.move("P1", "1", "-1", domain.EntryTypeMaterialReceipt)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.move("P1", "1", "1", domain.StockEntryType{Code: "TELEPORT"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *StockServiceTestSuite) TestUnknownPairReadsAsZero() {
	s.assertDecimal("0", s.onHand("NOPE"))
}

func (s *StockServiceTestSuite) TestStaleProjectionIsRepairedOnRead() {
	_, err := s.move("P1", "5", "4", domain.EntryTypeMaterialReceipt)
	s.Require().NoError(err)
	_, err = s.move("P1", "-2", "0", domain.EntryTypeMaterialIssue)
	s.Require().NoError(err)

	s.corruptLevel("P1")

	s.assertDecimal("3", s.onHand("P1"))

	// the next movement starts from the repaired state
	entry, err := s.move("P1", "-3", "0", domain.EntryTypeMaterialIssue)
	s.Require().NoError(err)
	s.assertDecimal("0", entry.QtyAfter)
	s.assertDecimal("4", entry.ValuationRate)
}

func (s *StockServiceTestSuite) TestRebuildStockLevel() {
	_, err := s.move("P1", "4", "2.5", domain.EntryTypeMaterialReceipt)
	s.Require().NoError(err)
	s.corruptLevel("P1")

	level, err := s.svc.Stock.RebuildStockLevel(s.ctx, "P1", testWarehouse)
	s.Require().NoError(err)
	s.assertDecimal("4", level.Quantity)
	s.assertDecimal("2.5", level.AverageCost)
	s.assertDecimal("10", level.StockValue)

	_, err = s.svc.Stock.RebuildStockLevel(s.ctx, "", testWarehouse)
	s.ErrorIs(err, apperrors.ErrValidation)
}

// corruptLevel overwrites the cached projection so it no longer matches the ledger.
func (s *StockServiceTestSuite) corruptLevel(productID string) {
	err := s.store.RunInTx(context.Background(), func(ctx context.Context, tx portsrepo.Tx) error {
		level, err := tx.Stock().LockStockLevel(ctx, productID, testWarehouse)
		if err != nil {
			return err
		}
		expected := level.Version
		level.Quantity = d("999")
		level.LastEntryID = ""
		level.Version++
		return tx.Stock().SaveStockLevel(ctx, *level, expected)
	})
	s.Require().NoError(err)
}
