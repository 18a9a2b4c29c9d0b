package services

// ServiceContainer holds instances of all the application services.
// It is the entry point the handlers use.
type ServiceContainer struct {
	Account    AccountSvcFacade
	Journal    JournalSvcFacade
	Stock      StockSvcFacade
	Sale       SaleSvcFacade
	Settlement SettlementSvc
	Payment    PaymentSvcFacade
}
