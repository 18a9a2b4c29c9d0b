package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/settlement_app/internal/models"
	"github.com/SscSPs/settlement_app/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

var _ portsrepo.PaymentRepositoryFacade = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, amount, currency_code, method, status, source_type, source_id, journal_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row scanner) (domain.Payment, error) {
	var m models.Payment
	if err := row.Scan(
		&m.PaymentID,
		&m.Amount,
		&m.CurrencyCode,
		&m.Method,
		&m.Status,
		&m.SourceType,
		&m.SourceID,
		&m.JournalID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	); err != nil {
		return domain.Payment{}, err
	}
	return mapping.ToDomainPayment(m)
}

func (r *PgxPaymentRepository) FindPaymentByIDForUpdate(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1 FOR UPDATE`
	p, err := scanPayment(r.q.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("payment", paymentID)
		}
		return nil, mapPgError(err, "find payment "+paymentID)
	}
	return &p, nil
}

func (r *PgxPaymentRepository) ListPaymentsBySource(ctx context.Context, sourceType domain.PaymentSourceType, sourceID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE source_type = $1 AND source_id = $2 ORDER BY created_at, payment_id`
	rows, err := r.q.Query(ctx, query, string(sourceType), sourceID)
	if err != nil {
		return nil, mapPgError(err, "list payments")
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "list payments")
	}
	return payments, nil
}

func (r *PgxPaymentRepository) ListCashbookEntriesByPayment(ctx context.Context, paymentID string) ([]domain.CashbookEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT entry_id, cashbook_id, account_id, payment_id, amount, entry_type, is_reconciled, entry_date, created_at, created_by
		FROM cashbook_entries
		WHERE payment_id = $1
		ORDER BY created_at, entry_id;
	`, paymentID)
	if err != nil {
		return nil, mapPgError(err, "list cashbook entries")
	}
	defer rows.Close()

	var entries []domain.CashbookEntry
	for rows.Next() {
		var m models.CashbookEntry
		if err := rows.Scan(&m.EntryID, &m.CashbookID, &m.AccountID, &m.PaymentID, &m.Amount, &m.EntryType, &m.IsReconciled, &m.EntryDate, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, mapPgError(err, "scan cashbook entry")
		}
		e, err := mapping.ToDomainCashbookEntry(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "list cashbook entries")
	}
	return entries, nil
}

func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	_, err := r.q.Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`,
		m.PaymentID,
		m.Amount,
		m.CurrencyCode,
		m.Method,
		m.Status,
		m.SourceType,
		m.SourceID,
		m.JournalID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "insert payment "+m.PaymentID)
	}
	return nil
}

func (r *PgxPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, from, to domain.PaymentStatus, userID string, now time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE payments
		SET status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payment_id = $1 AND status = $2;
	`, paymentID, string(from), string(to), now, userID)
	if err != nil {
		return mapPgError(err, "update payment "+paymentID)
	}
	return expectOne(tag, fmt.Sprintf("payment %s is no longer %s", paymentID, from))
}

func (r *PgxPaymentRepository) SaveCashbookEntry(ctx context.Context, entry domain.CashbookEntry) error {
	m := mapping.ToModelCashbookEntry(entry)
	_, err := r.q.Exec(ctx, `
		INSERT INTO cashbook_entries (entry_id, cashbook_id, account_id, payment_id, amount, entry_type, is_reconciled, entry_date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, m.EntryID, m.CashbookID, m.AccountID, m.PaymentID, m.Amount, m.EntryType, m.IsReconciled, m.EntryDate, m.CreatedAt, m.CreatedBy)
	if err != nil {
		return mapPgError(err, "insert cashbook entry")
	}
	return nil
}
