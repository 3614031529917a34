package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type statsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a SQLite-backed stats repository.
func NewStatsRepository(db *sqlx.DB) port.StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) KnownEmails(ctx context.Context) ([]string, error) {
	emails := []string{}
	err := r.db.SelectContext(ctx, &emails, `SELECT email FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.KnownEmails: %w", err)
	}
	return emails, nil
}

type completeRow struct {
	Name         string         `db:"name"`
	Email        sql.NullString `db:"email"`
	DOB          string         `db:"dob"`
	JobTitle     string         `db:"job_title"`
	Role         string         `db:"role"`
	YearStart    int            `db:"year_start"`
	YearEnd      sql.NullInt64  `db:"year_end"`
	ContractType string         `db:"contract_type"`
}

func (r *statsRepository) CompleteEmployeeRecords(ctx context.Context) ([]domain.ImportRecord, error) {
	rows := []completeRow{}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT e.name, u.email AS email, e.dob, e.job_title, e.role,
		        e.year_start, e.year_end, e.contract_type
		 FROM employees e
		 LEFT JOIN users u ON u.id = e.user_id
		 WHERE e.job_title != '' AND e.year_start IS NOT NULL
		 ORDER BY e.created_at, e.id`)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.CompleteEmployeeRecords: %w", err)
	}
	records := make([]domain.ImportRecord, 0, len(rows))
	for _, row := range rows {
		rec := domain.ImportRecord{
			Name:      row.Name,
			Role:      row.Role,
			YearStart: domain.IntPtr(row.YearStart),
		}
		if row.Email.Valid && row.Email.String != "" {
			rec.Email = domain.StrPtr(row.Email.String)
		}
		if row.DOB != "" {
			rec.DOB = domain.StrPtr(row.DOB)
		}
		if row.JobTitle != "" {
			rec.JobTitle = domain.StrPtr(row.JobTitle)
		}
		if row.YearEnd.Valid {
			rec.YearEnd = domain.IntPtr(int(row.YearEnd.Int64))
		}
		if row.ContractType != "" {
			rec.ContractType = domain.StrPtr(row.ContractType)
		}
		records = append(records, rec)
	}
	return records, nil
}
