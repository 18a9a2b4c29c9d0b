package repositories

import (
	"context"
)

// Tx exposes the repositories bound to a single unit of work. Everything done
// through one Tx commits or rolls back together.
type Tx interface {
	Accounts() AccountRepositoryFacade
	Journals() JournalRepositoryFacade
	Stock() StockRepositoryFacade
	Sales() SaleRepositoryFacade
	Payments() PaymentRepositoryFacade
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// RunInTx begins a transaction, calls fn and commits when fn returns nil.
	// Any error from fn rolls the transaction back and is returned unchanged.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
