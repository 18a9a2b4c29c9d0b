package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/settlement_app/internal/apperrors"
	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
)

type accountRepo struct{ st *state }

var _ portsrepo.AccountRepositoryFacade = accountRepo{}

func (r accountRepo) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	acc, ok := r.st.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account", accountID)
	}
	return &acc, nil
}

func (r accountRepo) FindAccountByCode(_ context.Context, code string) (*domain.Account, error) {
	for _, acc := range r.st.accounts {
		if acc.Code == code {
			return &acc, nil
		}
	}
	return nil, apperrors.NewNotFoundError("account", code)
}

func (r accountRepo) HasPostings(_ context.Context, accountID string) (bool, error) {
	for _, j := range r.st.journals {
		for _, l := range j.Lines {
			if l.AccountID == accountID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r accountRepo) SaveAccount(_ context.Context, account domain.Account) error {
	if _, ok := r.st.accounts[account.AccountID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
	}
	for _, existing := range r.st.accounts {
		if existing.Code == account.Code {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.Code)
		}
	}
	r.st.accounts[account.AccountID] = account
	return nil
}

func (r accountRepo) UpdateAccountLifecycle(_ context.Context, accountID string, lifecycle domain.Lifecycle, expectedVersion int64, userID string, now time.Time) error {
	acc, ok := r.st.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account", accountID)
	}
	if acc.Version != expectedVersion {
		return fmt.Errorf("%w: account %s", apperrors.ErrConcurrentModification, accountID)
	}
	acc.Lifecycle = lifecycle
	acc.Version++
	acc.Touch(userID, now)
	r.st.accounts[accountID] = acc
	return nil
}

func (r accountRepo) FindAccountsByIDsForUpdate(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := r.st.accounts[id]; ok {
			out[id] = acc
		}
	}
	return out, nil
}

func (r accountRepo) UpdateAccountBalances(_ context.Context, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	for id, delta := range changes {
		acc, ok := r.st.accounts[id]
		if !ok {
			return apperrors.NewNotFoundError("account", id)
		}
		acc.Balance = acc.Balance.Add(delta)
		acc.Version++
		acc.Touch(userID, now)
		r.st.accounts[id] = acc
	}
	return nil
}

type journalRepo struct{ st *state }

var _ portsrepo.JournalRepositoryFacade = journalRepo{}

func (r journalRepo) FindJournalByID(_ context.Context, journalID string) (*domain.Journal, error) {
	j, ok := r.st.journals[journalID]
	if !ok {
		return nil, apperrors.NewNotFoundError("journal", journalID)
	}
	j.Lines = append([]domain.JournalLine(nil), j.Lines...)
	return &j, nil
}

func (r journalRepo) FindJournalByIDForUpdate(ctx context.Context, journalID string) (*domain.Journal, error) {
	return r.FindJournalByID(ctx, journalID)
}

func (r journalRepo) SaveJournal(_ context.Context, journal domain.Journal) error {
	for _, existing := range r.st.journals {
		if existing.JournalID == journal.JournalID || existing.ReferenceNumber == journal.ReferenceNumber {
			return fmt.Errorf("%w: journal %s", apperrors.ErrDuplicate, journal.ReferenceNumber)
		}
	}
	journal.Lines = append([]domain.JournalLine(nil), journal.Lines...)
	r.st.journals[journal.JournalID] = journal
	return nil
}

func (r journalRepo) UpdateJournalStatusAndLinks(_ context.Context, journalID string, status domain.JournalStatus, reversingJournalID string, updatedByUserID string, updatedAt time.Time) error {
	j, ok := r.st.journals[journalID]
	if !ok {
		return apperrors.NewNotFoundError("journal", journalID)
	}
	if j.Status != domain.Posted {
		return fmt.Errorf("%w: journal %s is %s", apperrors.ErrConcurrentModification, journalID, j.Status)
	}
	j.Status = status
	j.ReversingJournalID = reversingJournalID
	j.Touch(updatedByUserID, updatedAt)
	r.st.journals[journalID] = j
	return nil
}

type stockRepo struct{ st *state }

var _ portsrepo.StockRepositoryFacade = stockRepo{}

func (r stockRepo) ListEntries(_ context.Context, productID, warehouseID string) ([]domain.StockLedgerEntry, error) {
	return append([]domain.StockLedgerEntry(nil), r.st.entries[pairKey{productID, warehouseID}]...), nil
}

func (r stockRepo) LatestEntryID(_ context.Context, productID, warehouseID string) (string, error) {
	entries := r.st.entries[pairKey{productID, warehouseID}]
	if len(entries) == 0 {
		return "", nil
	}
	return entries[len(entries)-1].EntryID, nil
}

func (r stockRepo) AppendEntry(_ context.Context, entry domain.StockLedgerEntry) error {
	key := pairKey{entry.ProductID, entry.WarehouseID}
	r.st.sequence++
	entry.Sequence = r.st.sequence
	r.st.entries[key] = append(r.st.entries[key], entry)
	return nil
}

func (r stockRepo) FindStockLevel(_ context.Context, productID, warehouseID string) (*domain.StockLevel, error) {
	level, ok := r.st.levels[pairKey{productID, warehouseID}]
	if !ok {
		return nil, apperrors.NewNotFoundError("stock level", productID+"/"+warehouseID)
	}
	return &level, nil
}

func (r stockRepo) LockStockLevel(_ context.Context, productID, warehouseID string) (*domain.StockLevel, error) {
	key := pairKey{productID, warehouseID}
	level, ok := r.st.levels[key]
	if !ok {
		level = domain.StockLevel{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Quantity:    decimal.Zero,
			AverageCost: decimal.Zero,
			StockValue:  decimal.Zero,
		}
		r.st.levels[key] = level
	}
	return &level, nil
}

func (r stockRepo) SaveStockLevel(_ context.Context, level domain.StockLevel, expectedVersion int64) error {
	key := pairKey{level.ProductID, level.WarehouseID}
	current, ok := r.st.levels[key]
	if (ok && current.Version != expectedVersion) || (!ok && expectedVersion != 0) {
		return fmt.Errorf("%w: stock level %s/%s", apperrors.ErrConcurrentModification, level.ProductID, level.WarehouseID)
	}
	r.st.levels[key] = level
	return nil
}

type saleRepo struct{ st *state }

var _ portsrepo.SaleRepositoryFacade = saleRepo{}

func (r saleRepo) FindSaleByID(_ context.Context, saleID string) (*domain.Sale, error) {
	sale, ok := r.st.sales[saleID]
	if !ok {
		return nil, apperrors.NewNotFoundError("sale", saleID)
	}
	sale.Items = append([]domain.SaleItem(nil), sale.Items...)
	return &sale, nil
}

func (r saleRepo) FindSaleByIDForUpdate(ctx context.Context, saleID string) (*domain.Sale, error) {
	return r.FindSaleByID(ctx, saleID)
}

func (r saleRepo) SaveSale(_ context.Context, sale domain.Sale) error {
	for _, existing := range r.st.sales {
		if existing.SaleID == sale.SaleID || existing.SaleNumber == sale.SaleNumber {
			return fmt.Errorf("%w: sale %s", apperrors.ErrDuplicate, sale.SaleNumber)
		}
	}
	sale.Items = append([]domain.SaleItem(nil), sale.Items...)
	r.st.sales[sale.SaleID] = sale
	return nil
}

func (r saleRepo) UpdateSale(_ context.Context, sale domain.Sale, expectedVersion int64) error {
	current, ok := r.st.sales[sale.SaleID]
	if !ok {
		return apperrors.NewNotFoundError("sale", sale.SaleID)
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: sale %s", apperrors.ErrConcurrentModification, sale.SaleID)
	}
	sale.Items = append([]domain.SaleItem(nil), sale.Items...)
	r.st.sales[sale.SaleID] = sale
	return nil
}

func (r saleRepo) DeleteSale(_ context.Context, saleID string) error {
	if _, ok := r.st.sales[saleID]; !ok {
		return apperrors.NewNotFoundError("sale", saleID)
	}
	delete(r.st.sales, saleID)
	return nil
}

type paymentRepo struct{ st *state }

var _ portsrepo.PaymentRepositoryFacade = paymentRepo{}

func (r paymentRepo) FindPaymentByIDForUpdate(_ context.Context, paymentID string) (*domain.Payment, error) {
	p, ok := r.st.payments[paymentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("payment", paymentID)
	}
	return &p, nil
}

func (r paymentRepo) ListPaymentsBySource(_ context.Context, sourceType domain.PaymentSourceType, sourceID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, id := range r.st.paymentOrder {
		p := r.st.payments[id]
		if p.SourceType == sourceType && p.SourceID == sourceID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r paymentRepo) ListCashbookEntriesByPayment(_ context.Context, paymentID string) ([]domain.CashbookEntry, error) {
	var out []domain.CashbookEntry
	for _, e := range r.st.cashbook {
		if e.PaymentID == paymentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r paymentRepo) SavePayment(_ context.Context, payment domain.Payment) error {
	if _, ok := r.st.payments[payment.PaymentID]; ok {
		return fmt.Errorf("%w: payment %s", apperrors.ErrDuplicate, payment.PaymentID)
	}
	r.st.payments[payment.PaymentID] = payment
	r.st.paymentOrder = append(r.st.paymentOrder, payment.PaymentID)
	return nil
}

func (r paymentRepo) UpdatePaymentStatus(_ context.Context, paymentID string, from, to domain.PaymentStatus, userID string, now time.Time) error {
	p, ok := r.st.payments[paymentID]
	if !ok {
		return apperrors.NewNotFoundError("payment", paymentID)
	}
	if p.Status != from {
		return fmt.Errorf("%w: payment %s is %s", apperrors.ErrConcurrentModification, paymentID, p.Status)
	}
	p.Status = to
	p.Touch(userID, now)
	r.st.payments[paymentID] = p
	return nil
}

func (r paymentRepo) SaveCashbookEntry(_ context.Context, entry domain.CashbookEntry) error {
	r.st.cashbook = append(r.st.cashbook, entry)
	return nil
}
