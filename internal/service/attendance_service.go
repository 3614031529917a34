package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

// AttendanceService defines check-in/check-out tracking and the derived
// working-hour and salary figures.
type AttendanceService interface {
	// CheckIn opens a session. At most one check-in per calendar day.
	CheckIn(ctx context.Context, employeeID uuid.UUID, at time.Time) error
	// CheckOut closes the latest open session.
	CheckOut(ctx context.Context, employeeID uuid.UUID, at time.Time) error
	// WorkSeconds sums closed-session time overlapping [start, end),
	// clamping sessions that straddle the boundaries.
	WorkSeconds(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (int64, error)
	// MonthWorkSeconds is WorkSeconds over one calendar month.
	MonthWorkSeconds(ctx context.Context, employeeID uuid.UUID, year int, month time.Month) (int64, error)
	// Salary computes hours * hourlyWage for a month, rounded to 2 places.
	Salary(ctx context.Context, employeeID uuid.UUID, year int, month time.Month, hourlyWage float64) (float64, error)
}

type attendanceService struct {
	repo port.AttendanceRepository
}

// NewAttendanceService creates a new AttendanceService implementation.
func NewAttendanceService(repo port.AttendanceRepository) AttendanceService {
	return &attendanceService{repo: repo}
}

func (s *attendanceService) CheckIn(ctx context.Context, employeeID uuid.UUID, at time.Time) error {
	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	already, err := s.repo.HasCheckinBetween(ctx, employeeID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	if already {
		return domain.ErrAlreadyCheckedIn
	}
	return s.repo.Open(ctx, employeeID, at)
}

func (s *attendanceService) CheckOut(ctx context.Context, employeeID uuid.UUID, at time.Time) error {
	closed, err := s.repo.CloseLatestOpen(ctx, employeeID, at)
	if err != nil {
		return err
	}
	if !closed {
		return domain.ErrNoOpenSession
	}
	return nil
}

func (s *attendanceService) WorkSeconds(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (int64, error) {
	sessions, err := s.repo.ClosedOverlapping(ctx, employeeID, start, end)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, sess := range sessions {
		in := sess.CheckIn
		if in.Before(start) {
			in = start
		}
		out := *sess.CheckOut
		if out.After(end) {
			out = end
		}
		if out.After(in) {
			total += int64(out.Sub(in).Seconds())
		}
	}
	return total, nil
}

func (s *attendanceService) MonthWorkSeconds(ctx context.Context, employeeID uuid.UUID, year int, month time.Month) (int64, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.WorkSeconds(ctx, employeeID, start, start.AddDate(0, 1, 0))
}

func (s *attendanceService) Salary(ctx context.Context, employeeID uuid.UUID, year int, month time.Month, hourlyWage float64) (float64, error) {
	seconds, err := s.MonthWorkSeconds(ctx, employeeID, year, month)
	if err != nil {
		return 0, err
	}
	hours := float64(seconds) / 3600
	return math.Round(hours*hourlyWage*100) / 100, nil
}
