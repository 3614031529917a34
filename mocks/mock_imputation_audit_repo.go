package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"hrdesk/internal/domain"
)

// MockImputationAuditRepo is a mock implementation of port.ImputationAuditRepository.
type MockImputationAuditRepo struct {
	mock.Mock
}

func (m *MockImputationAuditRepo) Record(ctx context.Context, entry *domain.ImputationAuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockImputationAuditRepo) List(ctx context.Context) ([]domain.ImputationAuditEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ImputationAuditEntry), args.Error(1)
}
