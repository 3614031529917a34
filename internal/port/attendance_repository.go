package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
)

// AttendanceRepository defines attendance session persistence.
type AttendanceRepository interface {
	Open(ctx context.Context, employeeID uuid.UUID, checkIn time.Time) error
	// CloseLatestOpen sets check_out on the most recent open session.
	// Returns false when no open session exists.
	CloseLatestOpen(ctx context.Context, employeeID uuid.UUID, checkOut time.Time) (bool, error)
	HasCheckinBetween(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error)
	HasOpenSession(ctx context.Context, employeeID uuid.UUID) (bool, error)
	// ClosedOverlapping returns closed sessions overlapping [start, end].
	ClosedOverlapping(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]domain.AttendanceSession, error)
}
