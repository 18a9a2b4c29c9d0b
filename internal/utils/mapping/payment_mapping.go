package mapping

import (
	"github.com/SscSPs/settlement_app/internal/core/domain"
	"github.com/SscSPs/settlement_app/internal/models"
)

func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:    d.PaymentID,
		Amount:       d.Amount,
		CurrencyCode: d.CurrencyCode,
		Method:       string(d.Method),
		Status:       string(d.Status),
		SourceType:   string(d.SourceType),
		SourceID:     d.SourceID,
		JournalID:    Nullable(d.JournalID),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainPayment(m models.Payment) (domain.Payment, error) {
	method, err := domain.ParsePaymentMethod(m.Method)
	if err != nil {
		return domain.Payment{}, integrityError("payment", m.PaymentID, err)
	}
	status, err := domain.ParsePaymentStatus(m.Status)
	if err != nil {
		return domain.Payment{}, integrityError("payment", m.PaymentID, err)
	}
	sourceType, err := domain.ParsePaymentSourceType(m.SourceType)
	if err != nil {
		return domain.Payment{}, integrityError("payment", m.PaymentID, err)
	}
	return domain.Payment{
		PaymentID:    m.PaymentID,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		Method:       method,
		Status:       status,
		SourceType:   sourceType,
		SourceID:     m.SourceID,
		JournalID:    Deref(m.JournalID),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}, nil
}

func ToModelCashbookEntry(d domain.CashbookEntry) models.CashbookEntry {
	return models.CashbookEntry{
		EntryID:      d.EntryID,
		CashbookID:   d.CashbookID,
		AccountID:    d.AccountID,
		PaymentID:    Nullable(d.PaymentID),
		Amount:       d.Amount,
		EntryType:    string(d.EntryType),
		IsReconciled: d.IsReconciled,
		EntryDate:    d.EntryDate,
		CreatedAt:    d.CreatedAt,
		CreatedBy:    d.CreatedBy,
	}
}

func ToDomainCashbookEntry(m models.CashbookEntry) (domain.CashbookEntry, error) {
	entryType, err := domain.ParseCashbookEntryType(m.EntryType)
	if err != nil {
		return domain.CashbookEntry{}, integrityError("cashbook entry", m.EntryID, err)
	}
	return domain.CashbookEntry{
		EntryID:      m.EntryID,
		CashbookID:   m.CashbookID,
		AccountID:    m.AccountID,
		PaymentID:    Deref(m.PaymentID),
		Amount:       m.Amount,
		EntryType:    entryType,
		IsReconciled: m.IsReconciled,
		EntryDate:    m.EntryDate,
		CreatedAt:    m.CreatedAt,
		CreatedBy:    m.CreatedBy,
	}, nil
}
