package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"hrdesk/internal/domain"
)

// MockContractRepo is a mock implementation of port.ContractRepository.
type MockContractRepo struct {
	mock.Mock
}

func (m *MockContractRepo) Create(ctx context.Context, c *domain.Contract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContractRepo) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Contract, error) {
	args := m.Called(ctx, id, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contract), args.Error(1)
}

func (m *MockContractRepo) List(ctx context.Context, includeDeleted bool) ([]domain.Contract, error) {
	args := m.Called(ctx, includeDeleted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockContractRepo) Search(ctx context.Context, term string, includeDeleted bool, limit int) ([]domain.Contract, error) {
	args := m.Called(ctx, term, includeDeleted, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockContractRepo) DescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockContractRepo) SetDeleted(ctx context.Context, ids []uuid.UUID, deleted bool, at time.Time) error {
	args := m.Called(ctx, ids, deleted, at)
	return args.Error(0)
}

func (m *MockContractRepo) ListTrashed(ctx context.Context) ([]domain.Contract, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contract), args.Error(1)
}

func (m *MockContractRepo) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

func (m *MockContractRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContractRepo) CreateSubset(ctx context.Context, s *domain.ContractSubset) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockContractRepo) GetSubset(ctx context.Context, id uuid.UUID) (*domain.ContractSubset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContractSubset), args.Error(1)
}

func (m *MockContractRepo) ListSubsets(ctx context.Context, contractID uuid.UUID) ([]domain.ContractSubset, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContractSubset), args.Error(1)
}

func (m *MockContractRepo) CountSubsets(ctx context.Context, contractID uuid.UUID) (int, error) {
	args := m.Called(ctx, contractID)
	return args.Int(0), args.Error(1)
}

func (m *MockContractRepo) SetSubsetStatus(ctx context.Context, subsetID uuid.UUID, old, new domain.SubsetStatus, actorID *uuid.UUID, at time.Time) error {
	args := m.Called(ctx, subsetID, old, new, actorID, at)
	return args.Error(0)
}

func (m *MockContractRepo) SubsetHistory(ctx context.Context, subsetID uuid.UUID) ([]domain.SubsetStatusChange, error) {
	args := m.Called(ctx, subsetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubsetStatusChange), args.Error(1)
}
