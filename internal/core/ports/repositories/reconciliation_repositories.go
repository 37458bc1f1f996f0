package repositories

import (
	"context"

	"github.com/finbooks/bookkeeping_app/internal/core/domain"
)

// ReconciliationReader defines read operations for reconciliation sessions
type ReconciliationReader interface {
	// FindSessionByID retrieves a reconciliation session by its ID.
	FindSessionByID(ctx context.Context, sessionID string) (*domain.ReconciliationSession, error)

	// ListSessionsByAccount retrieves sessions for an account, newest first.
	ListSessionsByAccount(ctx context.Context, companyID, accountID string, limit int, offset int) ([]domain.ReconciliationSession, error)
}

// ReconciliationWriter defines write operations for reconciliation sessions
type ReconciliationWriter interface {
	// SaveSession persists a new reconciliation session.
	SaveSession(ctx context.Context, session domain.ReconciliationSession) error

	// UpdateSession replaces the stored state of a session. The update fails
	// with ErrNotReconcilable when the stored session is already COMPLETED.
	UpdateSession(ctx context.Context, session domain.ReconciliationSession) error
}

// ReconciliationRepositoryFacade combines the session repository interfaces.
type ReconciliationRepositoryFacade interface {
	ReconciliationReader
	ReconciliationWriter
}
