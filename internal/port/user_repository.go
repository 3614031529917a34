package port

import (
	"context"

	"github.com/google/uuid"

	"hrdesk/internal/domain"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// UpdateRole changes a user's role and appends a role audit entry.
	UpdateRole(ctx context.Context, userID uuid.UUID, newRole domain.UserRole, actorID *uuid.UUID) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateResetToken(ctx context.Context, token *domain.PasswordResetToken) error
	// ConsumeResetToken marks an unused, unexpired token as used and returns it.
	ConsumeResetToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
}
