package services_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/dto"
)

type JournalServiceTestSuite struct {
	ledgerSuite
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}

func (s *JournalServiceTestSuite) TestPost_UpdatesBalancesAndRunningBalances() {
	j, err := s.post("J-1",
		s.line(testCodes.Cash, domain.Debit, "100.00"),
		s.line(testCodes.Revenue, domain.Credit, "100.00"))
	s.Require().NoError(err)

	s.Equal(domain.Posted, j.Status)
	s.Require().Len(j.Lines, 2)
	s.assertDecimal("100", j.Lines[0].RunningBalance)
	s.assertDecimal("100", j.Lines[1].RunningBalance)

	_, err = s.post("J-2",
		s.line(testCodes.Cash, domain.Credit, "30.00"),
		s.line(testCodes.Revenue, domain.Debit, "30.00"))
	s.Require().NoError(err)

	s.assertBalance(testCodes.Cash, "70")
	s.assertBalance(testCodes.Revenue, "70")
	s.assertLedgerBalanced()

	stored, err := s.svc.Journal.GetJournalByID(s.ctx, j.JournalID)
	s.Require().NoError(err)
	s.Equal("J-1", stored.ReferenceNumber)
	s.Len(stored.Lines, 2)
}

func (s *JournalServiceTestSuite) TestPost_RejectsUnbalancedEntry() {
	_, err := s.post("J-1",
		s.line(testCodes.Cash, domain.Debit, "100.00"),
		s.line(testCodes.Revenue, domain.Credit, "99.99"))
	s.ErrorIs(err, apperrors.ErrUnbalancedEntry)

	s.assertBalance(testCodes.Cash, "0")
	s.assertBalance(testCodes.Revenue, "0")
}

func (s *JournalServiceTestSuite) TestPost_RejectsDuplicateReference() {
	_, err := s.post("J-1",
		s.line(testCodes.Cash, domain.Debit, "10.00"),
		s.line(testCodes.Revenue, domain.Credit, "10.00"))
	s.Require().NoError(err)

	_, err = s.post("J-1",
		s.line(testCodes.Cash, domain.Debit, "5.00"),
		s.line(testCodes.Revenue, domain.Credit, "5.00"))
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.assertBalance(testCodes.Cash, "10")
}

func (s *JournalServiceTestSuite) TestPost_RejectsInvalidInput() {
	cases := map[string][]dto.PostingLineRequest{
		"single line": {s.line(testCodes.Cash, domain.Debit, "10")},
		"zero amount": {
			s.line(testCodes.Cash, domain.Debit, "0"),
			s.line(testCodes.Revenue, domain.Credit, "0"),
		},
		"unknown side": {
			{AccountID: s.account(testCodes.Cash).AccountID, Side: "LEFT", Amount: d("10")},
			s.line(testCodes.Revenue, domain.Credit, "10"),
		},
	}
	for name, lines := range cases {
		_, err := s.post("J-"+name, lines...)
		s.ErrorIs(err, apperrors.ErrValidation, name)
	}

	_, err := s.svc.Journal.Post(s.ctx, dto.PostJournalRequest{
		ReferenceNumber: "J-EUR",
		CurrencyCode:    "EUR",
		Lines: []dto.PostingLineRequest{
			s.line(testCodes.Cash, domain.Debit, "10"),
			s.line(testCodes.Revenue, domain.Credit, "10"),
		},
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation, "currency mismatch")
}

func (s *JournalServiceTestSuite) TestPost_UnknownAccount() {
	_, err := s.post("J-1",
		dto.PostingLineRequest{AccountID: "missing", Side: string(domain.Debit), Amount: d("5")},
		s.line(testCodes.Revenue, domain.Credit, "5"))
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *JournalServiceTestSuite) TestReverse_RestoresBalances() {
	j, err := s.post("J-1",
		s.line(testCodes.Receivable, domain.Debit, "60.50"),
		s.line(testCodes.Revenue, domain.Credit, "55.00"),
		s.line(testCodes.TaxPayable, domain.Credit, "5.50"))
	s.Require().NoError(err)

	reversal, err := s.svc.Journal.Reverse(s.ctx, j.JournalID, testUser)
	s.Require().NoError(err)
	s.Equal("REV-J-1", reversal.ReferenceNumber)
	s.Equal(j.JournalID, reversal.OriginalJournalID)
	s.Equal(domain.Credit, reversal.Lines[0].Side)

	for _, code := range []string{testCodes.Receivable, testCodes.Revenue, testCodes.TaxPayable} {
		s.assertBalance(code, "0")
	}

	original, err := s.svc.Journal.GetJournalByID(s.ctx, j.JournalID)
	s.Require().NoError(err)
	s.Equal(domain.Reversed, original.Status)
	s.Equal(reversal.JournalID, original.ReversingJournalID)

	_, err = s.svc.Journal.Reverse(s.ctx, j.JournalID, testUser)
	s.ErrorIs(err, apperrors.ErrNotPosted)
}

func (s *JournalServiceTestSuite) TestDisabledAccount_BlocksPostingButNotReversal() {
	j, err := s.post("J-1",
		s.line(testCodes.Cash, domain.Debit, "10"),
		s.line(testCodes.Revenue, domain.Credit, "10"))
	s.Require().NoError(err)

	_, err = s.svc.Account.DisableAccount(s.ctx, s.account(testCodes.Revenue).AccountID, testUser)
	s.Require().NoError(err)

	_, err = s.post("J-2",
		s.line(testCodes.Cash, domain.Debit, "10"),
		s.line(testCodes.Revenue, domain.Credit, "10"))
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.svc.Journal.Reverse(s.ctx, j.JournalID, testUser)
	s.Require().NoError(err)
	s.assertBalance(testCodes.Revenue, "0")
}
