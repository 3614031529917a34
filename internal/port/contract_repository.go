package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
)

// ContractRepository defines contract hierarchy persistence.
type ContractRepository interface {
	Create(ctx context.Context, c *domain.Contract) error
	GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Contract, error)
	List(ctx context.Context, includeDeleted bool) ([]domain.Contract, error)
	Search(ctx context.Context, term string, includeDeleted bool, limit int) ([]domain.Contract, error)
	// DescendantIDs returns id plus all transitive child contract ids.
	DescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// SetDeleted marks or unmarks the given contracts as soft-deleted.
	SetDeleted(ctx context.Context, ids []uuid.UUID, deleted bool, at time.Time) error
	ListTrashed(ctx context.Context) ([]domain.Contract, error)
	// PurgeDeletedBefore permanently removes soft-deleted contracts older
	// than cutoff. Returns the number of contracts removed.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error

	CreateSubset(ctx context.Context, s *domain.ContractSubset) error
	GetSubset(ctx context.Context, id uuid.UUID) (*domain.ContractSubset, error)
	ListSubsets(ctx context.Context, contractID uuid.UUID) ([]domain.ContractSubset, error)
	CountSubsets(ctx context.Context, contractID uuid.UUID) (int, error)
	// SetSubsetStatus updates the status and appends to the status history.
	SetSubsetStatus(ctx context.Context, subsetID uuid.UUID, old, new domain.SubsetStatus, actorID *uuid.UUID, at time.Time) error
	SubsetHistory(ctx context.Context, subsetID uuid.UUID) ([]domain.SubsetStatusChange, error)
}
