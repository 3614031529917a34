package port

import (
	"context"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
)

// EmployeeRepository defines employee persistence operations.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *domain.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Employee, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Employee, error)
	Update(ctx context.Context, emp *domain.Employee) error
}
