package services

import "context"

// AuditNotifier receives entity change events from ledger operations. It is
// fire-and-forget: implementations must not block the calling operation, and
// failures are logged rather than propagated.
type AuditNotifier interface {
	OnEntityChange(ctx context.Context, entityType string, entityID string, before, after any)
}
