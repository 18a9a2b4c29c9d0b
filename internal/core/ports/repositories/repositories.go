package repositories

// RepositoryProvider holds the persistence dependencies needed by services.
// All repositories are reached through the TransactionManager so that every
// service operation runs in exactly one unit of work.
type RepositoryProvider struct {
	TxManager TransactionManager
}
