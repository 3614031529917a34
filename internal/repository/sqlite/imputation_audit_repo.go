package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type imputationAuditRepository struct {
	db *sqlx.DB
}

// NewImputationAuditRepository creates a SQLite-backed imputation audit repository.
func NewImputationAuditRepository(db *sqlx.DB) port.ImputationAuditRepository {
	return &imputationAuditRepository{db: db}
}

func (r *imputationAuditRepository) Record(ctx context.Context, entry *domain.ImputationAuditEntry) error {
	query := `INSERT INTO imputation_audit
		(row_index, field, old_value, new_value, source, actor_user_id, applied_at)
		VALUES
		(:row_index, :field, :old_value, :new_value, :source, :actor_user_id, :applied_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("imputationAuditRepo.Record: %w", err)
	}
	return nil
}

func (r *imputationAuditRepository) List(ctx context.Context) ([]domain.ImputationAuditEntry, error) {
	entries := []domain.ImputationAuditEntry{}
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM imputation_audit ORDER BY applied_at, id`)
	if err != nil {
		return nil, fmt.Errorf("imputationAuditRepo.List: %w", err)
	}
	return entries, nil
}
