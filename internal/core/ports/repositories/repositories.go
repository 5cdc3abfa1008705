package repositories

// RepositoryProvider bundles every repository implementation for service wiring.
type RepositoryProvider struct {
	ExchangeRateRepo ExchangeRateRepositoryFacade
}
