package mapping

import (
	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/models"
)

func ToModelStockLedgerEntry(d domain.StockLedgerEntry) models.StockLedgerEntry {
	return models.StockLedgerEntry{
		EntryID:          d.EntryID,
		Sequence:         d.Sequence,
		ProductID:        d.ProductID,
		WarehouseID:      d.WarehouseID,
		PostingDate:      d.PostingDate,
		VoucherType:      string(d.VoucherType),
		VoucherNo:        d.VoucherNo,
		EntryType:        d.EntryType,
		Qty:              d.Qty,
		ValuationRate:    d.ValuationRate,
		StockValue:       d.StockValue,
		QtyAfter:         d.QtyAfter,
		AverageCostAfter: d.AverageCostAfter,
		CreatedAt:        d.CreatedAt,
		CreatedBy:        d.CreatedBy,
	}
}

func ToDomainStockLedgerEntry(m models.StockLedgerEntry) (domain.StockLedgerEntry, error) {
	voucherType, err := domain.ParseVoucherType(m.VoucherType)
	if err != nil {
		return domain.StockLedgerEntry{}, integrityError("stock entry", m.EntryID, err)
	}
	if _, err := domain.ParseStockEntryType(m.EntryType); err != nil {
		return domain.StockLedgerEntry{}, integrityError("stock entry", m.EntryID, err)
	}
	return domain.StockLedgerEntry{
		EntryID:          m.EntryID,
		Sequence:         m.Sequence,
		ProductID:        m.ProductID,
		WarehouseID:      m.WarehouseID,
		PostingDate:      m.PostingDate,
		VoucherType:      voucherType,
		VoucherNo:        m.VoucherNo,
		EntryType:        m.EntryType,
		Qty:              m.Qty,
		ValuationRate:    m.ValuationRate,
		StockValue:       m.StockValue,
		QtyAfter:         m.QtyAfter,
		AverageCostAfter: m.AverageCostAfter,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}, nil
}

func ToModelStockLevel(d domain.StockLevel) models.StockLevel {
	return models.StockLevel{
		ProductID:   d.ProductID,
		WarehouseID: d.WarehouseID,
		Quantity:    d.Quantity,
		AverageCost: d.AverageCost,
		StockValue:  d.StockValue,
		LastEntryID: Nullable(d.LastEntryID),
		Version:     d.Version,
		UpdatedAt:   d.UpdatedAt,
	}
}

func ToDomainStockLevel(m models.StockLevel) domain.StockLevel {
	return domain.StockLevel{
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		Quantity:    m.Quantity,
		AverageCost: m.AverageCost,
		StockValue:  m.StockValue,
		LastEntryID: Deref(m.LastEntryID),
		Version:     m.Version,
		UpdatedAt:   m.UpdatedAt,
	}
}
