package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type employeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository creates a SQLite-backed employee repository.
func NewEmployeeRepository(db *sqlx.DB) port.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, emp *domain.Employee) error {
	query := `INSERT INTO employees
		(id, user_id, name, dob, job_title, role, year_start, year_end, profile_pic, contract_type, created_at)
		VALUES
		(:id, :user_id, :name, :dob, :job_title, :role, :year_start, :year_end, :profile_pic, :contract_type, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, emp); err != nil {
		return fmt.Errorf("employeeRepo.Create: %w", err)
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.GetContext(ctx, &emp, `SELECT * FROM employees WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("employeeRepo.GetByID: %w", err)
	}
	return &emp, nil
}

func (r *employeeRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.GetContext(ctx, &emp, `SELECT * FROM employees WHERE user_id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("employeeRepo.GetByUser: %w", err)
	}
	return &emp, nil
}

func (r *employeeRepository) Search(ctx context.Context, term string, limit int) ([]domain.Employee, error) {
	if limit <= 0 {
		limit = 50
	}
	emps := []domain.Employee{}
	pattern := "%" + term + "%"
	err := r.db.SelectContext(ctx, &emps,
		`SELECT * FROM employees
		 WHERE name LIKE ? OR job_title LIKE ? OR role LIKE ?
		 ORDER BY name LIMIT ?`,
		pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("employeeRepo.Search: %w", err)
	}
	return emps, nil
}

func (r *employeeRepository) Update(ctx context.Context, emp *domain.Employee) error {
	query := `UPDATE employees SET
		user_id = :user_id, name = :name, dob = :dob, job_title = :job_title,
		role = :role, year_start = :year_start, year_end = :year_end,
		profile_pic = :profile_pic, contract_type = :contract_type
		WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, emp)
	if err != nil {
		return fmt.Errorf("employeeRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
