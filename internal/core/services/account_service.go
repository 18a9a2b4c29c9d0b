package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
)

// accountService manages the chart of accounts.
type accountService struct {
	BaseService
	txManager portsrepo.TransactionManager
}

// NewAccountService creates a new AccountService.
func NewAccountService(txManager portsrepo.TransactionManager, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{txManager: txManager}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	accountType, err := domain.ParseAccountType(req.AccountType)
	if err != nil {
		return nil, err
	}
	normalBalance := accountType.NormalBalance()
	if req.NormalBalance != "" {
		if normalBalance, err = domain.ParseTransactionType(req.NormalBalance); err != nil {
			return nil, err
		}
	}
	if err := domain.ValidateCurrencyCode(req.CurrencyCode); err != nil {
		return nil, err
	}

	now := s.Now()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            req.Name,
		AccountType:     accountType,
		NormalBalance:   normalBalance,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: req.ParentAccountID,
		IsGroup:         req.IsGroup,
		Lifecycle:       domain.LifecycleActive,
		Balance:         decimal.Zero,
		Version:         1,
		AuditFields:     domain.NewAuditFields(userID, now),
	}

	err = s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		if _, err := tx.Accounts().FindAccountByCode(ctx, code); err == nil {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, code)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		if account.ParentAccountID != "" {
			parent, err := tx.Accounts().FindAccountByID(ctx, account.ParentAccountID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, account.ParentAccountID)
				}
				return err
			}
			if !parent.IsGroup {
				return fmt.Errorf("%w: parent account %s is not a group account", apperrors.ErrValidation, parent.Code)
			}
			if parent.Lifecycle == domain.LifecycleDeleted {
				return fmt.Errorf("%w: parent account %s is deleted", apperrors.ErrValidation, parent.Code)
			}
		}
		return tx.Accounts().SaveAccount(ctx, account)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account", slog.String("code", code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("code", code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var account *domain.Account
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		found, err := tx.Accounts().FindAccountByID(ctx, accountID)
		account = found
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	var account *domain.Account
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		found, err := tx.Accounts().FindAccountByCode(ctx, code)
		account = found
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DisableAccount stops an account from accepting new postings. Reversals may still touch it.
func (s *accountService) DisableAccount(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	var account *domain.Account
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		acc, err := s.moveLifecycle(ctx, tx, accountID, domain.LifecycleDisabled, userID)
		account = acc
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to disable account", slog.String("account_id", accountID))
		return nil, err
	}
	s.LogInfo(ctx, "Account disabled", slog.String("account_id", accountID))
	return account, nil
}

// DeleteAccount is restricted: an account that any journal line references cannot be deleted.
// The row is locked before postings are checked.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		acc, err := lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}
		used, err := tx.Accounts().HasPostings(ctx, accountID)
		if err != nil {
			return err
		}
		if used {
			return fmt.Errorf("%w: account %s has journal lines", apperrors.ErrAccountInUse, accountID)
		}
		_, err = s.transition(ctx, tx, acc, domain.LifecycleDeleted, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

func (s *accountService) moveLifecycle(ctx context.Context, tx portsrepo.Tx, accountID string, next domain.Lifecycle, userID string) (*domain.Account, error) {
	acc, err := lockAccount(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, tx, acc, next, userID)
}

func lockAccount(ctx context.Context, tx portsrepo.Tx, accountID string) (domain.Account, error) {
	accounts, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, []string{accountID})
	if err != nil {
		return domain.Account{}, err
	}
	acc, ok := accounts[accountID]
	if !ok {
		return domain.Account{}, apperrors.NewNotFoundError("account", accountID)
	}
	return acc, nil
}

// transition applies next to an account already locked by the caller.
func (s *accountService) transition(ctx context.Context, tx portsrepo.Tx, acc domain.Account, next domain.Lifecycle, userID string) (*domain.Account, error) {
	if !acc.Lifecycle.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: account %s cannot move from %s to %s", apperrors.ErrConflict, acc.Code, acc.Lifecycle, next)
	}

	now := s.Now()
	if err := tx.Accounts().UpdateAccountLifecycle(ctx, acc.AccountID, next, acc.Version, userID, now); err != nil {
		return nil, err
	}
	acc.Lifecycle = next
	acc.Version++
	acc.Touch(userID, now)
	return &acc, nil
}
