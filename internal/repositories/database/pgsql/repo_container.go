package pgsql

import (
	portsrepo "github.com/finbooks/bookkeeping_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:        NewAccountRepository(dbPool),
		JournalRepo:        NewJournalRepository(dbPool),
		ReconciliationRepo: NewReconciliationRepository(dbPool),
		UserRepo:           NewUserRepository(dbPool),
	}
}
