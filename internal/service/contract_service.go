package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

// TrashRetention is how long soft-deleted contracts stay restorable.
const TrashRetention = 30 * 24 * time.Hour

// CreateContractInput is the DTO for creating a contract.
type CreateContractInput struct {
	EmployeeID       *uuid.UUID `json:"employee_id"`
	ConstructionID   string     `json:"construction_id"`
	ParentContractID *uuid.UUID `json:"parent_contract_id"`
	StartDate        string     `json:"start_date"`
	EndDate          string     `json:"end_date"`
	Area             string     `json:"area"`
	Incharge         string     `json:"incharge"`
	Terms            string     `json:"terms"`
	FilePath         string     `json:"contract_file_path"`
}

// CreateSubsetInput is the DTO for adding a subset to a contract.
type CreateSubsetInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ContractService defines contract and subset management.
type ContractService interface {
	Create(ctx context.Context, input CreateContractInput) (*domain.Contract, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error)
	List(ctx context.Context) ([]domain.Contract, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Contract, error)
	// SoftDelete moves a contract and all of its descendants to trash.
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// Restore brings a trashed contract and its descendants back.
	Restore(ctx context.Context, id uuid.UUID) error
	ListTrashed(ctx context.Context) ([]domain.Contract, error)
	// PurgeExpiredTrash permanently removes trash older than the
	// retention window. Returns the number of contracts removed.
	PurgeExpiredTrash(ctx context.Context) (int, error)
	// DeleteForever permanently removes a contract subtree, bypassing trash.
	DeleteForever(ctx context.Context, id uuid.UUID) error

	AddSubset(ctx context.Context, contractID uuid.UUID, input CreateSubsetInput) (*domain.ContractSubset, error)
	ListSubsets(ctx context.Context, contractID uuid.UUID) ([]domain.ContractSubset, error)
	// ChangeSubsetStatus moves a subset to a new status, gated on the
	// actor's role, and appends to the status history.
	ChangeSubsetStatus(ctx context.Context, actorRole domain.UserRole, actorID *uuid.UUID, subsetID uuid.UUID, status domain.SubsetStatus) error
	SubsetHistory(ctx context.Context, subsetID uuid.UUID) ([]domain.SubsetStatusChange, error)
	// Progress returns the fraction of a contract's subsets in a
	// completed status, 0 when it has none.
	Progress(ctx context.Context, contractID uuid.UUID) (float64, error)
}

type contractService struct {
	repo port.ContractRepository
}

// NewContractService creates a new ContractService implementation.
func NewContractService(repo port.ContractRepository) ContractService {
	return &contractService{repo: repo}
}

func (s *contractService) Create(ctx context.Context, input CreateContractInput) (*domain.Contract, error) {
	if input.ParentContractID != nil {
		if _, err := s.repo.GetByID(ctx, *input.ParentContractID, false); err != nil {
			return nil, err
		}
	}
	c := &domain.Contract{
		ID:               uuid.New(),
		EmployeeID:       input.EmployeeID,
		ConstructionID:   input.ConstructionID,
		ParentContractID: input.ParentContractID,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		Area:             input.Area,
		Incharge:         input.Incharge,
		Terms:            input.Terms,
		FilePath:         input.FilePath,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contractService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	return s.repo.GetByID(ctx, id, false)
}

func (s *contractService) List(ctx context.Context) ([]domain.Contract, error) {
	return s.repo.List(ctx, false)
}

func (s *contractService) Search(ctx context.Context, term string, limit int) ([]domain.Contract, error) {
	return s.repo.Search(ctx, term, false, limit)
}

func (s *contractService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id, false); err != nil {
		return err
	}
	ids, err := s.repo.DescendantIDs(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.SetDeleted(ctx, ids, true, time.Now().UTC())
}

func (s *contractService) Restore(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return err
	}
	if !c.Deleted {
		return nil
	}
	ids, err := s.repo.DescendantIDs(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.SetDeleted(ctx, ids, false, time.Time{})
}

func (s *contractService) ListTrashed(ctx context.Context) ([]domain.Contract, error) {
	return s.repo.ListTrashed(ctx)
}

func (s *contractService) PurgeExpiredTrash(ctx context.Context) (int, error) {
	return s.repo.PurgeDeletedBefore(ctx, time.Now().UTC().Add(-TrashRetention))
}

func (s *contractService) DeleteForever(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id, true); err != nil {
		return err
	}
	return s.repo.DeleteCascade(ctx, id)
}

func (s *contractService) AddSubset(ctx context.Context, contractID uuid.UUID, input CreateSubsetInput) (*domain.ContractSubset, error) {
	if _, err := s.repo.GetByID(ctx, contractID, false); err != nil {
		return nil, err
	}
	count, err := s.repo.CountSubsets(ctx, contractID)
	if err != nil {
		return nil, err
	}
	sub := &domain.ContractSubset{
		ID:          uuid.New(),
		ContractID:  contractID,
		Title:       input.Title,
		Description: input.Description,
		Status:      domain.StatusStarting,
		OrderIndex:  count,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateSubset(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *contractService) ListSubsets(ctx context.Context, contractID uuid.UUID) ([]domain.ContractSubset, error) {
	return s.repo.ListSubsets(ctx, contractID)
}

func (s *contractService) ChangeSubsetStatus(ctx context.Context, actorRole domain.UserRole, actorID *uuid.UUID, subsetID uuid.UUID, status domain.SubsetStatus) error {
	if !domain.CanChangeSubsetStatus(actorRole) {
		return domain.ErrPermissionDenied
	}
	if !domain.ValidSubsetStatus(status) {
		return domain.ErrInvalidStatus
	}
	sub, err := s.repo.GetSubset(ctx, subsetID)
	if err != nil {
		return err
	}
	if sub.Status == status {
		return nil
	}
	return s.repo.SetSubsetStatus(ctx, subsetID, sub.Status, status, actorID, time.Now().UTC())
}

func (s *contractService) SubsetHistory(ctx context.Context, subsetID uuid.UUID) ([]domain.SubsetStatusChange, error) {
	return s.repo.SubsetHistory(ctx, subsetID)
}

func (s *contractService) Progress(ctx context.Context, contractID uuid.UUID) (float64, error) {
	subsets, err := s.repo.ListSubsets(ctx, contractID)
	if err != nil {
		return 0, err
	}
	if len(subsets) == 0 {
		return 0, nil
	}
	done := 0
	for _, sub := range subsets {
		if domain.CompletedStatuses[sub.Status] {
			done++
		}
	}
	return float64(done) / float64(len(subsets)), nil
}
