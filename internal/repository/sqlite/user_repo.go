package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a SQLite-backed user repository.
func NewUserRepository(db *sqlx.DB) port.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES (:id, :email, :password_hash, :role, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("userRepo.Create: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT * FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("userRepo.List: %w", err)
	}
	return users, nil
}

func (r *userRepository) UpdateRole(ctx context.Context, userID uuid.UUID, newRole domain.UserRole, actorID *uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("userRepo.UpdateRole: %w", err)
	}
	defer tx.Rollback()

	var oldRole domain.UserRole
	err = tx.GetContext(ctx, &oldRole, `SELECT role FROM users WHERE id = ?`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("userRepo.UpdateRole: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET role = ? WHERE id = ?`, newRole, userID); err != nil {
		return fmt.Errorf("userRepo.UpdateRole: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO role_audit (user_id, old_role, new_role, actor_user_id, changed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		userID, oldRole, newRole, actorID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("userRepo.UpdateRole: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("userRepo.UpdateRole: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("userRepo.UpdatePassword: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("userRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) CreateResetToken(ctx context.Context, token *domain.PasswordResetToken) error {
	query := `INSERT INTO password_reset_tokens (token, user_id, expires_at, used)
		VALUES (:token, :user_id, :expires_at, :used)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("userRepo.CreateResetToken: %w", err)
	}
	return nil
}

func (r *userRepository) ConsumeResetToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("userRepo.ConsumeResetToken: %w", err)
	}
	defer tx.Rollback()

	var t domain.PasswordResetToken
	err = tx.GetContext(ctx, &t,
		`SELECT * FROM password_reset_tokens WHERE token = ? AND used = 0 AND expires_at > ?`,
		token, time.Now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("userRepo.ConsumeResetToken: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used = 1 WHERE token = ?`, token); err != nil {
		return nil, fmt.Errorf("userRepo.ConsumeResetToken: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("userRepo.ConsumeResetToken: %w", err)
	}
	t.Used = true
	return &t, nil
}
