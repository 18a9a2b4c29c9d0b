package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/settlement_app/internal/middleware"
)

// querier is the subset of pgx.Tx the repositories use.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	q querier
}

// execBatch sends b and reports the first failing statement.
func (r *BaseRepository) execBatch(ctx context.Context, b *pgx.Batch, op string) error {
	br := r.q.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return mapPgError(err, op)
		}
	}
	if err := br.Close(); err != nil {
		return mapPgError(err, op)
	}
	return nil
}

// TxManager runs units of work on a pgx pool.
type TxManager struct {
	Pool *pgxpool.Pool
}

// NewTxManager creates a TxManager.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{Pool: pool}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// RunInTx begins a READ COMMITTED transaction; row locks taken by the
// repositories provide the isolation the services need.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Tx) error) error {
	tx, err := m.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer rollback(ctx, tx)

	if err := fn(ctx, &pgTx{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, "commit transaction")
	}
	return nil
}

// rollback is a no-op after a successful commit.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to roll back transaction", slog.String("error", err.Error()))
	}
}

type pgTx struct {
	q querier
}

func (t *pgTx) Accounts() portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{q: t.q}}
}

func (t *pgTx) Journals() portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository{q: t.q}}
}

func (t *pgTx) Stock() portsrepo.StockRepositoryFacade {
	return &PgxStockRepository{BaseRepository{q: t.q}}
}

func (t *pgTx) Sales() portsrepo.SaleRepositoryFacade {
	return &PgxSaleRepository{BaseRepository{q: t.q}}
}

func (t *pgTx) Payments() portsrepo.PaymentRepositoryFacade {
	return &PgxPaymentRepository{BaseRepository{q: t.q}}
}

// Postgres error codes the services care about.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
)

// mapPgError translates driver errors into apperrors sentinels.
func mapPgError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrDuplicate, op, pgErr.ConstraintName)
		case pgForeignKeyViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrValidation, op, pgErr.ConstraintName)
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return fmt.Errorf("%w: %s: %s", apperrors.ErrConcurrentModification, op, pgErr.Message)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// expectOne returns ErrConcurrentModification when an optimistic update touched no row.
func expectOne(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrConcurrentModification, what)
	}
	return nil
}
