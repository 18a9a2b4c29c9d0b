package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/SscSPs/settlement_app/internal/utils/accounting"
)

// journalService is the ledger posting service.
type journalService struct {
	BaseService
	txManager portsrepo.TransactionManager
}

// NewJournalService creates a new JournalService.
func NewJournalService(txManager portsrepo.TransactionManager, options ...ServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{txManager: txManager}
	applyOptions(&svc.BaseService, options)
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// Post validates and posts a journal in its own transaction.
func (s *journalService) Post(ctx context.Context, req dto.PostJournalRequest, userID string) (*domain.Journal, error) {
	var posted *domain.Journal
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		j, err := s.PostInTx(ctx, tx, req, userID)
		if err != nil {
			return err
		}
		posted = j
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post journal", slog.String("reference_number", req.ReferenceNumber))
		return nil, err
	}

	s.LogInfo(ctx, "Journal posted",
		slog.String("journal_id", posted.JournalID),
		slog.String("reference_number", posted.ReferenceNumber))
	return posted, nil
}

// PostInTx validates and posts a journal inside tx.
func (s *journalService) PostInTx(ctx context.Context, tx portsrepo.Tx, req dto.PostJournalRequest, userID string) (*domain.Journal, error) {
	journal, err := s.buildJournal(req, userID)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, tx, journal, false, userID); err != nil {
		return nil, err
	}
	return journal, nil
}

func (s *journalService) buildJournal(req dto.PostJournalRequest, userID string) (*domain.Journal, error) {
	ref := strings.TrimSpace(req.ReferenceNumber)
	if ref == "" {
		return nil, fmt.Errorf("%w: reference number is required", apperrors.ErrValidation)
	}
	if err := domain.ValidateCurrencyCode(req.CurrencyCode); err != nil {
		return nil, err
	}

	now := s.Now()
	entryDate := req.EntryDate
	if entryDate.IsZero() {
		entryDate = now
	}

	journal := &domain.Journal{
		JournalID:       uuid.NewString(),
		ReferenceNumber: ref,
		EntryDate:       entryDate,
		Description:     req.Description,
		CurrencyCode:    req.CurrencyCode,
		Status:          domain.Posted,
		SourceType:      req.SourceType,
		SourceID:        req.SourceID,
		Lines:           make([]domain.JournalLine, 0, len(req.Lines)),
		AuditFields:     domain.NewAuditFields(userID, now),
	}

	for i, l := range req.Lines {
		side, err := domain.ParseTransactionType(l.Side)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if l.AccountID == "" {
			return nil, fmt.Errorf("%w: line %d has no account", apperrors.ErrValidation, i+1)
		}
		journal.Lines = append(journal.Lines, domain.JournalLine{
			LineID:    uuid.NewString(),
			JournalID: journal.JournalID,
			LineNo:    i + 1,
			AccountID: l.AccountID,
			Side:      side,
			Amount:    l.Amount,
			Notes:     l.Notes,
		})
	}

	if err := accounting.ValidateJournalBalance(journal.Lines); err != nil {
		return nil, err
	}
	return journal, nil
}

// persist locks the touched accounts, fills running balances and writes the
// journal and the balance changes. Reversals may touch DISABLED accounts.
func (s *journalService) persist(ctx context.Context, tx portsrepo.Tx, journal *domain.Journal, allowDisabled bool, userID string) error {
	ids := uniqueAccountIDs(journal.Lines)
	accounts, err := tx.Accounts().FindAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}

	running := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return apperrors.NewNotFoundError("account", id)
		}
		if err := checkPostable(acc, journal.CurrencyCode, allowDisabled); err != nil {
			return err
		}
		running[id] = acc.Balance
	}

	for i := range journal.Lines {
		line := &journal.Lines[i]
		delta, err := accounting.SignedAmount(*line, accounts[line.AccountID].NormalBalance)
		if err != nil {
			return err
		}
		running[line.AccountID] = running[line.AccountID].Add(delta)
		line.RunningBalance = running[line.AccountID]
	}

	changes, err := accounting.BalanceChanges(journal.Lines, accounts)
	if err != nil {
		return err
	}

	if err := tx.Journals().SaveJournal(ctx, *journal); err != nil {
		return fmt.Errorf("failed to save journal %s: %w", journal.ReferenceNumber, err)
	}
	if err := tx.Accounts().UpdateAccountBalances(ctx, changes, userID, s.Now()); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

func checkPostable(acc domain.Account, currency string, allowDisabled bool) error {
	if acc.IsGroup {
		return fmt.Errorf("%w: account %s is a group account", apperrors.ErrValidation, acc.Code)
	}
	switch acc.Lifecycle {
	case domain.LifecycleActive:
	case domain.LifecycleDisabled:
		if !allowDisabled {
			return fmt.Errorf("%w: account %s is disabled", apperrors.ErrValidation, acc.Code)
		}
	default:
		return fmt.Errorf("%w: account %s is %s", apperrors.ErrValidation, acc.Code, acc.Lifecycle)
	}
	if acc.CurrencyCode != currency {
		return fmt.Errorf("%w: account %s is in %s, journal is in %s", apperrors.ErrValidation, acc.Code, acc.CurrencyCode, currency)
	}
	return nil
}

func uniqueAccountIDs(lines []domain.JournalLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	sort.Strings(ids)
	return ids
}

// Reverse posts a compensating entry in its own transaction.
func (s *journalService) Reverse(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	var reversal *domain.Journal
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		j, err := s.ReverseInTx(ctx, tx, journalID, userID)
		if err != nil {
			return err
		}
		reversal = j
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse journal", slog.String("journal_id", journalID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal reversed",
		slog.String("original_journal_id", journalID),
		slog.String("reversal_journal_id", reversal.JournalID))
	return reversal, nil
}

// ReverseInTx writes a POSTED entry with every side flipped and marks the original REVERSED.
func (s *journalService) ReverseInTx(ctx context.Context, tx portsrepo.Tx, journalID string, userID string) (*domain.Journal, error) {
	original, err := tx.Journals().FindJournalByIDForUpdate(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: journal %s is %s", apperrors.ErrNotPosted, journalID, original.Status)
	}

	now := s.Now()
	reversal := &domain.Journal{
		JournalID:         uuid.NewString(),
		ReferenceNumber:   "REV-" + original.ReferenceNumber,
		EntryDate:         now,
		Description:       "Reversal of " + original.ReferenceNumber,
		CurrencyCode:      original.CurrencyCode,
		Status:            domain.Posted,
		OriginalJournalID: original.JournalID,
		SourceType:        original.SourceType,
		SourceID:          original.SourceID,
		Lines:             make([]domain.JournalLine, 0, len(original.Lines)),
		AuditFields:       domain.NewAuditFields(userID, now),
	}
	for i, l := range original.Lines {
		reversal.Lines = append(reversal.Lines, domain.JournalLine{
			LineID:    uuid.NewString(),
			JournalID: reversal.JournalID,
			LineNo:    i + 1,
			AccountID: l.AccountID,
			Side:      l.Side.Opposite(),
			Amount:    l.Amount,
			Notes:     l.Notes,
		})
	}

	if err := s.persist(ctx, tx, reversal, true, userID); err != nil {
		return nil, err
	}
	if err := tx.Journals().UpdateJournalStatusAndLinks(ctx, original.JournalID, domain.Reversed, reversal.JournalID, userID, now); err != nil {
		return nil, fmt.Errorf("failed to mark journal %s reversed: %w", original.JournalID, err)
	}
	return reversal, nil
}

// GetJournalByID retrieves a journal with its lines.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	var journal *domain.Journal
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, tx portsrepo.Tx) error {
		j, err := tx.Journals().FindJournalByID(ctx, journalID)
		if err != nil {
			return err
		}
		journal = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return journal, nil
}
