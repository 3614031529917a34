package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

const resetTokenTTL = time.Hour

// CreateUserInput is the DTO for creating a user.
type CreateUserInput struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     domain.UserRole `json:"role"`
}

// UserService defines the user management contract.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	// UpdateRole changes target's role; actor must outrank both the
	// target's current role and the granted role.
	UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role domain.UserRole) error
	// Delete removes a user account. Admins only, and never another admin.
	Delete(ctx context.Context, actorID, targetID uuid.UUID) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type userService struct {
	repo   port.UserRepository
	sender port.EmailSender
}

// NewUserService creates a new UserService implementation.
func NewUserService(repo port.UserRepository, sender port.EmailSender) UserService {
	return &userService{repo: repo, sender: sender}
}

func (s *userService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.DefaultRole
	}
	if !domain.ValidUserRoles[role] {
		return nil, domain.ErrInvalidRole
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role domain.UserRole) error {
	if !domain.ValidUserRoles[role] {
		return domain.ErrInvalidRole
	}
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !domain.CanGrantRole(actor.Role, target.Role) || !domain.CanGrantRole(actor.Role, role) {
		return domain.ErrPermissionDenied
	}
	return s.repo.UpdateRole(ctx, targetID, role, &actorID)
}

func (s *userService) Delete(ctx context.Context, actorID, targetID uuid.UUID) error {
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !domain.CanDelete(actor.Role, target.Role) {
		return domain.ErrPermissionDenied
	}
	return s.repo.Delete(ctx, targetID)
}

func (s *userService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Do not reveal whether the address exists.
			return nil
		}
		return err
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generating reset token: %w", err)
	}
	token := &domain.PasswordResetToken{
		Token:     hex.EncodeToString(buf),
		UserID:    user.ID,
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := s.repo.CreateResetToken(ctx, token); err != nil {
		return err
	}
	body := fmt.Sprintf("A password reset was requested for your account.\n\nReset token: %s\n\nThe token expires in one hour. If you did not request this, ignore this message.", token.Token)
	if err := s.sender.Send(ctx, user.Email, "Password reset", body); err != nil {
		log.Printf("service.UserService: sending reset email: %v", err)
		return err
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	t, err := s.repo.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 12)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, t.UserID, string(hash))
}
