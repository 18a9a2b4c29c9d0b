package mapping

import (
	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/models"
)

// ToModelSale converts a domain Sale header to a model Sale
func ToModelSale(d domain.Sale) models.Sale {
	return models.Sale{
		SaleID:       d.SaleID,
		SaleNumber:   d.SaleNumber,
		WarehouseID:  d.WarehouseID,
		CurrencyCode: d.CurrencyCode,
		PaymentMode:  string(d.PaymentMode),
		Status:       string(d.Status),
		Subtotal:     d.Subtotal,
		TaxTotal:     d.TaxTotal,
		Total:        d.Total,
		JournalID:    Nullable(d.JournalID),
		Version:      d.Version,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToModelSaleItem converts a domain SaleItem to a model SaleItem
func ToModelSaleItem(d domain.SaleItem) models.SaleItem {
	return models.SaleItem{
		ItemID:    d.ItemID,
		SaleID:    d.SaleID,
		LineNo:    d.LineNo,
		ProductID: d.ProductID,
		Quantity:  d.Quantity,
		UnitPrice: d.UnitPrice,
		TaxRate:   d.TaxRate,
		UnitCost:  d.UnitCost,
	}
}

// ToDomainSale converts a model Sale and its items to a domain Sale
func ToDomainSale(m models.Sale, items []models.SaleItem) (domain.Sale, error) {
	status, err := domain.ParseSaleStatus(m.Status)
	if err != nil {
		return domain.Sale{}, integrityError("sale", m.SaleID, err)
	}
	mode, err := domain.ParsePaymentMode(m.PaymentMode)
	if err != nil {
		return domain.Sale{}, integrityError("sale", m.SaleID, err)
	}
	s := domain.Sale{
		SaleID:       m.SaleID,
		SaleNumber:   m.SaleNumber,
		WarehouseID:  m.WarehouseID,
		CurrencyCode: m.CurrencyCode,
		PaymentMode:  mode,
		Status:       status,
		Items:        make([]domain.SaleItem, 0, len(items)),
		Subtotal:     m.Subtotal,
		TaxTotal:     m.TaxTotal,
		Total:        m.Total,
		JournalID:    Deref(m.JournalID),
		Version:      m.Version,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	for _, it := range items {
		s.Items = append(s.Items, domain.SaleItem{
			ItemID:    it.ItemID,
			SaleID:    it.SaleID,
			LineNo:    it.LineNo,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			TaxRate:   it.TaxRate,
			UnitCost:  it.UnitCost,
		})
	}
	return s, nil
}
