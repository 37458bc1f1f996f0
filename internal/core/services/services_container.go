package services

import (
	portsrepo "github.com/finbooks/bookkeeping_app/internal/core/ports/repositories"
	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/finbooks/bookkeeping_app/internal/utils/matching"
	"github.com/finbooks/bookkeeping_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Audit = NewSlogAuditNotifier()

	// Account service first since journal and reconciliation depend on it.
	container.Account = NewAccountService(repos.AccountRepo, container.Audit)

	container.User = NewUserService(repos.UserRepo)
	container.Journal = NewJournalService(repos.JournalRepo, container.Account, container.Audit)

	matcherCfg := matching.DefaultConfig()
	if cfg.DateToleranceDays > 0 {
		matcherCfg.DateToleranceDays = cfg.DateToleranceDays
	}
	container.Reconciliation = NewReconciliationService(
		repos.ReconciliationRepo,
		repos.JournalRepo,
		container.Account,
		container.Audit,
		matcherCfg,
	)

	return container
}
