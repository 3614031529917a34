package port

import (
	"context"

	"hrdesk/internal/domain"
)

// StatsRepository exposes store-wide summaries consumed by the import
// pipeline: known emails for collision avoidance and complete employee
// records for imputer training and context statistics.
type StatsRepository interface {
	KnownEmails(ctx context.Context) ([]string, error)
	// CompleteEmployeeRecords returns employees with a job title and a
	// start year, shaped as import records.
	CompleteEmployeeRecords(ctx context.Context) ([]domain.ImportRecord, error)
}
