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

type PgxSaleRepository struct {
	BaseRepository
}

var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

const saleColumns = `sale_id, sale_number, warehouse_id, currency_code, payment_mode, status,
	subtotal, tax_total, total, journal_id, version, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	return r.find(ctx, saleID, false)
}

// FindSaleByIDForUpdate locks the sale header. Items are only written while it is held.
func (r *PgxSaleRepository) FindSaleByIDForUpdate(ctx context.Context, saleID string) (*domain.Sale, error) {
	return r.find(ctx, saleID, true)
}

func (r *PgxSaleRepository) find(ctx context.Context, saleID string, forUpdate bool) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var m models.Sale
	err := r.q.QueryRow(ctx, query, saleID).Scan(
		&m.SaleID,
		&m.SaleNumber,
		&m.WarehouseID,
		&m.CurrencyCode,
		&m.PaymentMode,
		&m.Status,
		&m.Subtotal,
		&m.TaxTotal,
		&m.Total,
		&m.JournalID,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("sale", saleID)
		}
		return nil, mapPgError(err, "find sale "+saleID)
	}

	rows, err := r.q.Query(ctx, `
		SELECT item_id, sale_id, line_no, product_id, quantity, unit_price, tax_rate, unit_cost
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY line_no;
	`, saleID)
	if err != nil {
		return nil, mapPgError(err, "list sale items "+saleID)
	}
	defer rows.Close()

	var items []models.SaleItem
	for rows.Next() {
		var it models.SaleItem
		if err := rows.Scan(&it.ItemID, &it.SaleID, &it.LineNo, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TaxRate, &it.UnitCost); err != nil {
			return nil, mapPgError(err, "scan sale item")
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "list sale items "+saleID)
	}

	sale, err := mapping.ToDomainSale(m, items)
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *PgxSaleRepository) SaveSale(ctx context.Context, sale domain.Sale) error {
	m := mapping.ToModelSale(sale)
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`,
		m.SaleID,
		m.SaleNumber,
		m.WarehouseID,
		m.CurrencyCode,
		m.PaymentMode,
		m.Status,
		m.Subtotal,
		m.TaxTotal,
		m.Total,
		m.JournalID,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "insert sale "+m.SaleNumber)
	}

	batch := &pgx.Batch{}
	for _, item := range sale.Items {
		it := mapping.ToModelSaleItem(item)
		batch.Queue(`
			INSERT INTO sale_items (item_id, sale_id, line_no, product_id, quantity, unit_price, tax_rate, unit_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
		`, it.ItemID, it.SaleID, it.LineNo, it.ProductID, it.Quantity, it.UnitPrice, it.TaxRate, it.UnitCost)
	}
	return r.execBatch(ctx, batch, "insert sale items for "+m.SaleNumber)
}

// UpdateSale writes the header behind a version check, then the frozen item costs.
func (r *PgxSaleRepository) UpdateSale(ctx context.Context, sale domain.Sale, expectedVersion int64) error {
	m := mapping.ToModelSale(sale)
	tag, err := r.q.Exec(ctx, `
		UPDATE sales
		SET status = $2, journal_id = $3, version = $4, last_updated_at = $5, last_updated_by = $6
		WHERE sale_id = $1 AND version = $7;
	`, m.SaleID, m.Status, m.JournalID, m.Version, m.LastUpdatedAt, m.LastUpdatedBy, expectedVersion)
	if err != nil {
		return mapPgError(err, "update sale "+m.SaleID)
	}
	if err := expectOne(tag, "sale "+m.SaleID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, item := range sale.Items {
		batch.Queue(`UPDATE sale_items SET unit_cost = $2 WHERE item_id = $1`, item.ItemID, item.UnitCost)
	}
	return r.execBatch(ctx, batch, "update sale item costs for "+m.SaleID)
}

// DeleteSale removes the header; items go with it through ON DELETE CASCADE.
func (r *PgxSaleRepository) DeleteSale(ctx context.Context, saleID string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE sale_id = $1`, saleID)
	if err != nil {
		return mapPgError(err, "delete sale "+saleID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("sale", saleID)
	}
	return nil
}
