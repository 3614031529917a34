package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type attendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository creates a SQLite-backed attendance repository.
func NewAttendanceRepository(db *sqlx.DB) port.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Open(ctx context.Context, employeeID uuid.UUID, checkIn time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance (employee_id, check_in) VALUES (?, ?)`,
		employeeID, checkIn)
	if err != nil {
		return fmt.Errorf("attendanceRepo.Open: %w", err)
	}
	return nil
}

func (r *attendanceRepository) CloseLatestOpen(ctx context.Context, employeeID uuid.UUID, checkOut time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE attendance SET check_out = ?
		 WHERE id = (
			SELECT id FROM attendance
			WHERE employee_id = ? AND check_out IS NULL
			ORDER BY check_in DESC LIMIT 1
		 )`,
		checkOut, employeeID)
	if err != nil {
		return false, fmt.Errorf("attendanceRepo.CloseLatestOpen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("attendanceRepo.CloseLatestOpen: %w", err)
	}
	return n > 0, nil
}

func (r *attendanceRepository) HasCheckinBetween(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM attendance
		 WHERE employee_id = ? AND check_in >= ? AND check_in < ?`,
		employeeID, start, end)
	if err != nil {
		return false, fmt.Errorf("attendanceRepo.HasCheckinBetween: %w", err)
	}
	return count > 0, nil
}

func (r *attendanceRepository) HasOpenSession(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM attendance
		 WHERE employee_id = ? AND check_out IS NULL`,
		employeeID)
	if err != nil {
		return false, fmt.Errorf("attendanceRepo.HasOpenSession: %w", err)
	}
	return count > 0, nil
}

func (r *attendanceRepository) ClosedOverlapping(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]domain.AttendanceSession, error) {
	sessions := []domain.AttendanceSession{}
	err := r.db.SelectContext(ctx, &sessions,
		`SELECT * FROM attendance
		 WHERE employee_id = ? AND check_out IS NOT NULL
		   AND check_out > ? AND check_in < ?
		 ORDER BY check_in`,
		employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("attendanceRepo.ClosedOverlapping: %w", err)
	}
	return sessions, nil
}
