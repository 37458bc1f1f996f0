package services

import (
	"context"
	"log/slog"

	portssvc "github.com/finbooks/bookkeeping_app/internal/core/ports/services"
	"github.com/finbooks/bookkeeping_app/internal/middleware"
)

// slogAuditNotifier is the default AuditNotifier: it records entity changes to
// the structured log. The real audit-log writer is an external collaborator;
// ledger operations only require that notifications never block or fail them.
type slogAuditNotifier struct{}

// NewSlogAuditNotifier creates an AuditNotifier backed by the request logger.
func NewSlogAuditNotifier() portssvc.AuditNotifier {
	return &slogAuditNotifier{}
}

var _ portssvc.AuditNotifier = (*slogAuditNotifier)(nil)

func (n *slogAuditNotifier) OnEntityChange(ctx context.Context, entityType string, entityID string, before, after any) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Entity changed",
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID),
		slog.Bool("created", before == nil),
		slog.Bool("deleted", after == nil),
	)
}
