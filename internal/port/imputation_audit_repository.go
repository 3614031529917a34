package port

import (
	"context"

	"hrdesk/internal/domain"
)

// ImputationAuditRepository persists the append-only imputation audit trail.
type ImputationAuditRepository interface {
	Record(ctx context.Context, entry *domain.ImputationAuditEntry) error
	List(ctx context.Context) ([]domain.ImputationAuditEntry, error)
}
