package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/settlement_app/internal/core/services"
	"github.com/SscSPs/settlement_app/internal/dto"
)

// callRecorder wraps a TransactionManager and records the account lookups made through it.
type callRecorder struct {
	inner portsrepo.TransactionManager
	calls []string
}

func (r *callRecorder) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Tx) error) error {
	return r.inner.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		return fn(ctx, recordingTx{Tx: tx, rec: r})
	})
}

type recordingTx struct {
	portsrepo.Tx
	rec *callRecorder
}

func (t recordingTx) Accounts() portsrepo.AccountRepositoryFacade {
	return recordingAccounts{AccountRepositoryFacade: t.Tx.Accounts(), rec: t.rec}
}

type recordingAccounts struct {
	portsrepo.AccountRepositoryFacade
	rec *callRecorder
}

func (a recordingAccounts) HasPostings(ctx context.Context, accountID string) (bool, error) {
	a.rec.calls = append(a.rec.calls, "HasPostings")
	return a.AccountRepositoryFacade.HasPostings(ctx, accountID)
}

func (a recordingAccounts) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	a.rec.calls = append(a.rec.calls, "FindAccountsByIDsForUpdate")
	return a.AccountRepositoryFacade.FindAccountsByIDsForUpdate(ctx, accountIDs)
}

type AccountServiceTestSuite struct {
	ledgerSuite
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (s *AccountServiceTestSuite) TestCreateAccount_DefaultsNormalBalance() {
	s.Equal(domain.Debit, s.account(testCodes.Cash).NormalBalance)
	s.Equal(domain.Credit, s.account(testCodes.Revenue).NormalBalance)
	s.Equal(domain.Credit, s.account(testCodes.TaxPayable).NormalBalance)
	s.Equal(domain.Debit, s.account(testCodes.COGS).NormalBalance)

	acc := s.account(testCodes.Cash)
	s.Equal(domain.LifecycleActive, acc.Lifecycle)
	s.Equal(int64(1), acc.Version)
	s.Equal(testUser, acc.CreatedBy)
}

func (s *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	_, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code: testCodes.Cash, Name: "Petty Cash", AccountType: "ASSET", CurrencyCode: testCurrency,
	}, testUser)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentMustBeGroup() {
	_, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code: "1010", Name: "Till", AccountType: "ASSET", CurrencyCode: testCurrency,
		ParentAccountID: s.account(testCodes.Cash).AccountID,
	}, testUser)
	s.ErrorIs(err, apperrors.ErrValidation)

	group, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code: "1", Name: "Assets", AccountType: "ASSET", CurrencyCode: testCurrency, IsGroup: true,
	}, testUser)
	s.Require().NoError(err)

	child, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code: "1010", Name: "Till", AccountType: "ASSET", CurrencyCode: testCurrency,
		ParentAccountID: group.AccountID,
	}, testUser)
	s.Require().NoError(err)
	s.Equal(group.AccountID, child.ParentAccountID)

	_, err = s.post("J-GROUP",
		s.line("1", domain.Debit, "1"),
		s.line(testCodes.Revenue, domain.Credit, "1"))
	s.ErrorIs(err, apperrors.ErrValidation, "group accounts do not take postings")
}

func (s *AccountServiceTestSuite) TestCreateAccount_RejectsBadInput() {
	for name, req := range map[string]dto.CreateAccountRequest{
		"type":     {Code: "9", Name: "X", AccountType: "INCOME", CurrencyCode: testCurrency},
		"currency": {Code: "9", Name: "X", AccountType: "ASSET", CurrencyCode: "usd"},
		"side":     {Code: "9", Name: "X", AccountType: "ASSET", CurrencyCode: testCurrency, NormalBalance: "UP"},
		"code":     {Code: " ", Name: "X", AccountType: "ASSET", CurrencyCode: testCurrency},
	} {
		_, err := s.svc.Account.CreateAccount(s.ctx, req, testUser)
		s.ErrorIs(err, apperrors.ErrValidation, name)
	}
}

func (s *AccountServiceTestSuite) TestDeleteAccount_RestrictedWhenPosted() {
	_, err := s.post("J-1",
		s.line(testCodes.Cash, domain.Debit, "10"),
		s.line(testCodes.Revenue, domain.Credit, "10"))
	s.Require().NoError(err)

	err = s.svc.Account.DeleteAccount(s.ctx, s.account(testCodes.Cash).AccountID, testUser)
	s.ErrorIs(err, apperrors.ErrAccountInUse)
	s.Equal(domain.LifecycleActive, s.account(testCodes.Cash).Lifecycle)
}

func (s *AccountServiceTestSuite) TestLifecycle_DisableThenDelete() {
	id := s.account("3000").AccountID

	disabled, err := s.svc.Account.DisableAccount(s.ctx, id, testUser)
	s.Require().NoError(err)
	s.Equal(domain.LifecycleDisabled, disabled.Lifecycle)
	s.Equal(int64(2), disabled.Version)

	s.Require().NoError(s.svc.Account.DeleteAccount(s.ctx, id, testUser))
	s.Equal(domain.LifecycleDeleted, s.account("3000").Lifecycle)

	_, err = s.svc.Account.DisableAccount(s.ctx, id, testUser)
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	_, err := s.svc.Account.GetAccountByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)

	err = s.svc.Account.DeleteAccount(s.ctx, "missing", testUser)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *AccountServiceTestSuite) TestDeleteAccount_LocksBeforeCheckingPostings() {
	rec := &callRecorder{inner: s.store}
	svc := services.NewAccountService(rec)
	id := s.account("3000").AccountID

	s.Require().NoError(svc.DeleteAccount(s.ctx, id, testUser))
	s.Require().GreaterOrEqual(len(rec.calls), 2)
	s.Equal([]string{"FindAccountsByIDsForUpdate", "HasPostings"}, rec.calls[:2])
	s.Equal(domain.LifecycleDeleted, s.account("3000").Lifecycle)
}
