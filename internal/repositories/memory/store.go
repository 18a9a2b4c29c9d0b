// Package memory is an in-process implementation of the repository ports.
// Transactions are serialised by a single mutex and work on a copy of the
// state that replaces the committed state only when fn succeeds.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
)

type pairKey struct {
	productID   string
	warehouseID string
}

type state struct {
	accounts     map[string]domain.Account
	journals     map[string]domain.Journal
	entries      map[pairKey][]domain.StockLedgerEntry
	levels       map[pairKey]domain.StockLevel
	sales        map[string]domain.Sale
	payments     map[string]domain.Payment
	paymentOrder []string
	cashbook     []domain.CashbookEntry
	sequence     int64
}

func newState() *state {
	return &state{
		accounts: make(map[string]domain.Account),
		journals: make(map[string]domain.Journal),
		entries:  make(map[pairKey][]domain.StockLedgerEntry),
		levels:   make(map[pairKey]domain.StockLevel),
		sales:    make(map[string]domain.Sale),
		payments: make(map[string]domain.Payment),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.journals {
		v.Lines = append([]domain.JournalLine(nil), v.Lines...)
		c.journals[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = append([]domain.StockLedgerEntry(nil), v...)
	}
	for k, v := range s.levels {
		c.levels[k] = v
	}
	for k, v := range s.sales {
		v.Items = append([]domain.SaleItem(nil), v.Items...)
		c.sales[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	c.paymentOrder = append([]string(nil), s.paymentOrder...)
	c.cashbook = append([]domain.CashbookEntry(nil), s.cashbook...)
	c.sequence = s.sequence
	return c
}

// Store holds committed state and hands out transactions over it.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{state: newState()}
}

var _ portsrepo.TransactionManager = (*Store)(nil)

// RunInTx runs fn against a private copy of the state and commits the copy if fn returns nil.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, &memTx{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

type memTx struct {
	st *state
}

func (t *memTx) Accounts() portsrepo.AccountRepositoryFacade { return accountRepo{t.st} }
func (t *memTx) Journals() portsrepo.JournalRepositoryFacade { return journalRepo{t.st} }
func (t *memTx) Stock() portsrepo.StockRepositoryFacade      { return stockRepo{t.st} }
func (t *memTx) Sales() portsrepo.SaleRepositoryFacade       { return saleRepo{t.st} }
func (t *memTx) Payments() portsrepo.PaymentRepositoryFacade { return paymentRepo{t.st} }
