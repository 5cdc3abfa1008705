package pgsql

import (
	portsrepo "github.com/exchangehouse/exchange_house_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx-backed repository implementation.
func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		ExchangeRateRepo: NewPgxExchangeRateRepository(dbPool),
	}
}
