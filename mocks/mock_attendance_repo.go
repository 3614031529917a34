package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hrdesk/internal/domain"
)

// MockAttendanceRepo is a mock implementation of port.AttendanceRepository.
type MockAttendanceRepo struct {
	mock.Mock
}

func (m *MockAttendanceRepo) Open(ctx context.Context, employeeID uuid.UUID, checkIn time.Time) error {
	args := m.Called(ctx, employeeID, checkIn)
	return args.Error(0)
}

func (m *MockAttendanceRepo) CloseLatestOpen(ctx context.Context, employeeID uuid.UUID, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, employeeID, checkOut)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceRepo) HasCheckinBetween(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
	args := m.Called(ctx, employeeID, start, end)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceRepo) HasOpenSession(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, employeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceRepo) ClosedOverlapping(ctx context.Context, employeeID uuid.UUID, start, end time.Time) ([]domain.AttendanceSession, error) {
	args := m.Called(ctx, employeeID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AttendanceSession), args.Error(1)
}
