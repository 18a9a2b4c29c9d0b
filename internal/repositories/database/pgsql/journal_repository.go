package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/settlement_app/internal/models"
	"github.com/SscSPs/settlement_app/internal/utils/mapping"
)

type PgxJournalRepository struct {
	BaseRepository
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, reference_number, entry_date, description, currency_code, status,
	original_journal_id, reversing_journal_id, source_type, source_id,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveJournal inserts the header and then every line in one batch.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	query := `
		INSERT INTO journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.q.Exec(ctx, query,
		m.JournalID,
		m.ReferenceNumber,
		m.EntryDate,
		m.Description,
		m.CurrencyCode,
		m.Status,
		m.OriginalJournalID,
		m.ReversingJournalID,
		m.SourceType,
		m.SourceID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "insert journal "+m.JournalID)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO journal_lines (line_id, journal_id, line_no, account_id, side, amount, running_balance, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	for _, line := range journal.Lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery, l.LineID, l.JournalID, l.LineNo, l.AccountID, l.Side, l.Amount, l.RunningBalance, l.Notes)
	}
	return r.execBatch(ctx, batch, "insert journal lines for "+m.JournalID)
}

func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	return r.find(ctx, journalID, false)
}

func (r *PgxJournalRepository) FindJournalByIDForUpdate(ctx context.Context, journalID string) (*domain.Journal, error) {
	return r.find(ctx, journalID, true)
}

func (r *PgxJournalRepository) find(ctx context.Context, journalID string, forUpdate bool) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var m models.Journal
	err := r.q.QueryRow(ctx, query, journalID).Scan(
		&m.JournalID,
		&m.ReferenceNumber,
		&m.EntryDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.OriginalJournalID,
		&m.ReversingJournalID,
		&m.SourceType,
		&m.SourceID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal", journalID)
		}
		return nil, mapPgError(err, "find journal "+journalID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT line_id, journal_id, line_no, account_id, side, amount, running_balance, notes
		FROM journal_lines
		WHERE journal_id = $1
		ORDER BY line_no;
	`, journalID)
	if err != nil {
		return nil, mapPgError(err, "list journal lines "+journalID)
	}
	defer rows.Close()

	var lines []models.JournalLine
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.LineID, &l.JournalID, &l.LineNo, &l.AccountID, &l.Side, &l.Amount, &l.RunningBalance, &l.Notes); err != nil {
			return nil, mapPgError(err, "scan journal line")
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "list journal lines "+journalID)
	}

	journal, err := mapping.ToDomainJournal(m, lines)
	if err != nil {
		return nil, err
	}
	return &journal, nil
}

// UpdateJournalStatusAndLinks only matches POSTED rows, so a lost race surfaces as ErrConcurrentModification.
func (r *PgxJournalRepository) UpdateJournalStatusAndLinks(ctx context.Context, journalID string, status domain.JournalStatus, reversingJournalID string, updatedByUserID string, updatedAt time.Time) error {
	query := `
		UPDATE journals
		SET status = $2, reversing_journal_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1 AND status = 'POSTED';
	`
	tag, err := r.q.Exec(ctx, query, journalID, string(status), mapping.Nullable(reversingJournalID), updatedAt, updatedByUserID)
	if err != nil {
		return mapPgError(err, "update journal status "+journalID)
	}
	return expectOne(tag, "journal "+journalID+" is no longer posted")
}
