package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/settlement_app/internal/models"
	"github.com/SscSPs/settlement_app/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, code, name, account_type, normal_balance, currency_code, parent_account_id,
	is_group, lifecycle, balance, version, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row scanner) (domain.Account, error) {
	var m models.Account
	if err := row.Scan(
		&m.AccountID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.NormalBalance,
		&m.CurrencyCode,
		&m.ParentAccountID,
		&m.IsGroup,
		&m.Lifecycle,
		&m.Balance,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	); err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m)
}

func (r *PgxAccountRepository) findOne(ctx context.Context, where string, arg string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where
	acc, err := scanAccount(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("account", arg)
		}
		return nil, mapPgError(err, "find account "+arg)
	}
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, `account_id = $1`, accountID)
}

// FindAccountByCode retrieves an account by its chart code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	return r.findOne(ctx, `code = $1`, code)
}

func (r *PgxAccountRepository) HasPostings(ctx context.Context, accountID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journal_lines WHERE account_id = $1)`, accountID).Scan(&exists)
	if err != nil {
		return false, mapPgError(err, "check postings for account "+accountID)
	}
	return exists, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.q.Exec(ctx, query,
		m.AccountID,
		m.Code,
		m.Name,
		m.AccountType,
		m.NormalBalance,
		m.CurrencyCode,
		m.ParentAccountID,
		m.IsGroup,
		m.Lifecycle,
		m.Balance,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save account "+m.Code)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateAccountLifecycle(ctx context.Context, accountID string, lifecycle domain.Lifecycle, expectedVersion int64, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET lifecycle = $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND version = $5;
	`
	tag, err := r.q.Exec(ctx, query, accountID, string(lifecycle), now, userID, expectedVersion)
	if err != nil {
		return mapPgError(err, "update account lifecycle "+accountID)
	}
	return expectOne(tag, "account "+accountID)
}

// FindAccountsByIDsForUpdate locks the rows in account_id order so concurrent
// postings touching overlapping accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE`
	rows, err := r.q.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, mapPgError(err, "lock accounts")
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "lock accounts")
	}
	return accounts, nil
}

func (r *PgxAccountRepository) UpdateAccountBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	ids := make([]string, 0, len(balanceChanges))
	for id := range balanceChanges {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		tag, err := r.q.Exec(ctx, `
			UPDATE accounts
			SET balance = balance + $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
			WHERE account_id = $1;
		`, id, balanceChanges[id], now, userID)
		if err != nil {
			return mapPgError(err, "update balance of account "+id)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("update balance: %w", apperrors.NewNotFoundError("account", id))
		}
	}
	return nil
}
