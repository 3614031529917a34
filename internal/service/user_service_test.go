package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hrdesk/internal/domain"
	"hrdesk/internal/service"
	"hrdesk/mocks"
)

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(hash)
}

func TestUserService_Create(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "maya@example.com",
		Password: "strong-password",
		Role:     domain.RoleManager,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("strong-password")))
	repo.AssertExpectations(t)
}

func TestUserService_Create_DefaultsRole(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	user, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "new@example.com",
		Password: "pw",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleEngineer, user.Role)
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	svc := service.NewUserService(new(mocks.MockUserRepo), new(mocks.MockEmailSender))

	_, err := svc.Create(context.Background(), service.CreateUserInput{
		Email:    "x@example.com",
		Password: "pw",
		Role:     "superuser",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestUserService_Authenticate(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))

	user := &domain.User{
		ID:           uuid.New(),
		Email:        "maya@example.com",
		PasswordHash: hashPassword("correct-password"),
		Role:         domain.RoleEngineer,
	}
	repo.On("GetByEmail", mock.Anything, "maya@example.com").Return(user, nil)

	got, err := svc.Authenticate(context.Background(), "maya@example.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Authenticate(context.Background(), "maya@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_Authenticate_UnknownEmail(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))
	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	_, err := svc.Authenticate(context.Background(), "ghost@example.com", "pw")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_UpdateRole_ActorMustOutrank(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))

	actorID, targetID := uuid.New(), uuid.New()
	repo.On("GetByID", mock.Anything, actorID).Return(&domain.User{ID: actorID, Role: domain.RoleManager}, nil)
	repo.On("GetByID", mock.Anything, targetID).Return(&domain.User{ID: targetID, Role: domain.RoleHighManager}, nil)

	err := svc.UpdateRole(context.Background(), actorID, targetID, domain.RoleEngineer)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	repo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_UpdateRole_CannotGrantAboveSelf(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))

	actorID, targetID := uuid.New(), uuid.New()
	repo.On("GetByID", mock.Anything, actorID).Return(&domain.User{ID: actorID, Role: domain.RoleManager}, nil)
	repo.On("GetByID", mock.Anything, targetID).Return(&domain.User{ID: targetID, Role: domain.RoleEngineer}, nil)

	err := svc.UpdateRole(context.Background(), actorID, targetID, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestUserService_UpdateRole_Allowed(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))

	actorID, targetID := uuid.New(), uuid.New()
	repo.On("GetByID", mock.Anything, actorID).Return(&domain.User{ID: actorID, Role: domain.RoleAdmin}, nil)
	repo.On("GetByID", mock.Anything, targetID).Return(&domain.User{ID: targetID, Role: domain.RoleEngineer}, nil)
	repo.On("UpdateRole", mock.Anything, targetID, domain.RoleManager, &actorID).Return(nil)

	err := svc.UpdateRole(context.Background(), actorID, targetID, domain.RoleManager)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUserService_Delete_AdminOnly(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))

	actorID, targetID := uuid.New(), uuid.New()
	repo.On("GetByID", mock.Anything, actorID).Return(&domain.User{ID: actorID, Role: domain.RoleHighManager}, nil)
	repo.On("GetByID", mock.Anything, targetID).Return(&domain.User{ID: targetID, Role: domain.RoleEngineer}, nil)

	err := svc.Delete(context.Background(), actorID, targetID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestUserService_Delete_NeverAnotherAdmin(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))

	actorID, targetID := uuid.New(), uuid.New()
	repo.On("GetByID", mock.Anything, actorID).Return(&domain.User{ID: actorID, Role: domain.RoleAdmin}, nil)
	repo.On("GetByID", mock.Anything, targetID).Return(&domain.User{ID: targetID, Role: domain.RoleAdmin}, nil)

	err := svc.Delete(context.Background(), actorID, targetID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestUserService_RequestPasswordReset(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewUserService(repo, sender)

	user := &domain.User{ID: uuid.New(), Email: "maya@example.com"}
	repo.On("GetByEmail", mock.Anything, "maya@example.com").Return(user, nil)
	repo.On("CreateResetToken", mock.Anything, mock.MatchedBy(func(tok *domain.PasswordResetToken) bool {
		return tok.UserID == user.ID && len(tok.Token) == 64 && tok.ExpiresAt.After(time.Now())
	})).Return(nil)
	sender.On("Send", mock.Anything, "maya@example.com", "Password reset", mock.Anything).Return(nil)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "maya@example.com"))
	repo.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestUserService_RequestPasswordReset_UnknownEmailSilent(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewUserService(repo, sender)
	repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ResetPassword(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))

	userID := uuid.New()
	repo.On("ConsumeResetToken", mock.Anything, "tok").Return(&domain.PasswordResetToken{
		Token: "tok", UserID: userID, Used: true,
	}, nil)
	repo.On("UpdatePassword", mock.Anything, userID, mock.MatchedBy(func(hash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-password")) == nil
	})).Return(nil)

	require.NoError(t, svc.ResetPassword(context.Background(), "tok", "new-password"))
	repo.AssertExpectations(t)
}

func TestUserService_ResetPassword_BadToken(t *testing.T) {
	repo := new(mocks.MockUserRepo)
	svc := service.NewUserService(repo, new(mocks.MockEmailSender))
	repo.On("ConsumeResetToken", mock.Anything, "bad").Return(nil, domain.ErrTokenInvalid)

	err := svc.ResetPassword(context.Background(), "bad", "pw")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}
