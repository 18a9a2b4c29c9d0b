package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	"github.com/SscSPs/settlement_app/internal/models"
	"github.com/SscSPs/settlement_app/internal/utils/mapping"
)

type PgxStockRepository struct {
	BaseRepository
}

var _ portsrepo.StockRepositoryFacade = (*PgxStockRepository)(nil)

const stockEntryColumns = `entry_id, seq, product_id, warehouse_id, posting_date, voucher_type, voucher_no, entry_type,
	qty, valuation_rate, stock_value, qty_after, average_cost_after, created_at, created_by`

const stockLevelColumns = `product_id, warehouse_id, quantity, average_cost, stock_value, last_entry_id, version, updated_at`

func (r *PgxStockRepository) ListEntries(ctx context.Context, productID, warehouseID string) ([]domain.StockLedgerEntry, error) {
	query := `SELECT ` + stockEntryColumns + ` FROM stock_ledger_entries WHERE product_id = $1 AND warehouse_id = $2 ORDER BY seq`
	rows, err := r.q.Query(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, mapPgError(err, "list stock entries")
	}
	defer rows.Close()

	var entries []domain.StockLedgerEntry
	for rows.Next() {
		var m models.StockLedgerEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.Sequence,
			&m.ProductID,
			&m.WarehouseID,
			&m.PostingDate,
			&m.VoucherType,
			&m.VoucherNo,
			&m.EntryType,
			&m.Qty,
			&m.ValuationRate,
			&m.StockValue,
			&m.QtyAfter,
			&m.AverageCostAfter,
			&m.CreatedAt,
			&m.CreatedBy,
		); err != nil {
			return nil, mapPgError(err, "scan stock entry")
		}
		e, err := mapping.ToDomainStockLedgerEntry(m)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "list stock entries")
	}
	return entries, nil
}

func (r *PgxStockRepository) LatestEntryID(ctx context.Context, productID, warehouseID string) (string, error) {
	var id string
	err := r.q.QueryRow(ctx, `
		SELECT entry_id FROM stock_ledger_entries
		WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY seq DESC
		LIMIT 1;
	`, productID, warehouseID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", mapPgError(err, "find latest stock entry")
	}
	return id, nil
}

// AppendEntry inserts a ledger row. seq is assigned by the database.
func (r *PgxStockRepository) AppendEntry(ctx context.Context, entry domain.StockLedgerEntry) error {
	m := mapping.ToModelStockLedgerEntry(entry)
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_ledger_entries (entry_id, product_id, warehouse_id, posting_date, voucher_type, voucher_no, entry_type,
			qty, valuation_rate, stock_value, qty_after, average_cost_after, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`,
		m.EntryID,
		m.ProductID,
		m.WarehouseID,
		m.PostingDate,
		m.VoucherType,
		m.VoucherNo,
		m.EntryType,
		m.Qty,
		m.ValuationRate,
		m.StockValue,
		m.QtyAfter,
		m.AverageCostAfter,
		m.CreatedAt,
		m.CreatedBy,
	)
	if err != nil {
		return mapPgError(err, "append stock entry")
	}
	return nil
}

func scanStockLevel(row scanner) (domain.StockLevel, error) {
	var m models.StockLevel
	if err := row.Scan(&m.ProductID, &m.WarehouseID, &m.Quantity, &m.AverageCost, &m.StockValue, &m.LastEntryID, &m.Version, &m.UpdatedAt); err != nil {
		return domain.StockLevel{}, err
	}
	return mapping.ToDomainStockLevel(m), nil
}

func (r *PgxStockRepository) FindStockLevel(ctx context.Context, productID, warehouseID string) (*domain.StockLevel, error) {
	query := `SELECT ` + stockLevelColumns + ` FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2`
	level, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("stock level", productID+"/"+warehouseID)
		}
		return nil, mapPgError(err, "find stock level")
	}
	return &level, nil
}

// LockStockLevel creates an empty version-0 row when the pair is new, then locks it.
func (r *PgxStockRepository) LockStockLevel(ctx context.Context, productID, warehouseID string) (*domain.StockLevel, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_levels (product_id, warehouse_id, quantity, average_cost, stock_value, version, updated_at)
		VALUES ($1, $2, 0, 0, 0, 0, now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING;
	`, productID, warehouseID)
	if err != nil {
		return nil, mapPgError(err, "create stock level")
	}

	query := `SELECT ` + stockLevelColumns + ` FROM stock_levels WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`
	level, err := scanStockLevel(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		return nil, mapPgError(err, "lock stock level")
	}
	return &level, nil
}

func (r *PgxStockRepository) SaveStockLevel(ctx context.Context, level domain.StockLevel, expectedVersion int64) error {
	m := mapping.ToModelStockLevel(level)
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_levels
		SET quantity = $3, average_cost = $4, stock_value = $5, last_entry_id = $6, version = $7, updated_at = $8
		WHERE product_id = $1 AND warehouse_id = $2 AND version = $9;
	`, m.ProductID, m.WarehouseID, m.Quantity, m.AverageCost, m.StockValue, m.LastEntryID, m.Version, m.UpdatedAt, expectedVersion)
	if err != nil {
		return mapPgError(err, "save stock level")
	}
	return expectOne(tag, "stock level "+m.ProductID+"/"+m.WarehouseID)
}
