package services

import (
	portsrepo "github.com/SscSPs/settlement_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// locker may be nil, in which case settlement relies on row locks alone.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, locker portssvc.Locker) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	journal := NewJournalService(repos.TxManager)
	stock := NewStockService(repos.TxManager, cfg.AllowNegativeStock)

	container.Account = NewAccountService(repos.TxManager)
	container.Journal = journal
	container.Stock = stock
	container.Sale = NewSaleService(repos.TxManager)
	container.Payment = NewPaymentService(repos.TxManager, journal, cfg.Accounts, cfg.DefaultCashbookID)

	var opts []SettlementOption
	if locker != nil {
		opts = append(opts, WithLocker(locker))
	}
	container.Settlement = NewSettlementService(repos.TxManager, journal, stock, cfg.Accounts, cfg.DefaultCashbookID, opts...)

	return container
}
