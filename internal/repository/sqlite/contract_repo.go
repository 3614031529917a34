package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hrdesk/internal/domain"
	"hrdesk/internal/port"
)

type contractRepository struct {
	db *sqlx.DB
}

// NewContractRepository creates a SQLite-backed contract repository.
func NewContractRepository(db *sqlx.DB) port.ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, c *domain.Contract) error {
	query := `INSERT INTO contracts
		(id, employee_id, construction_id, parent_contract_id, start_date, end_date,
		 area, incharge, terms, contract_file_path, deleted, deleted_at)
		VALUES
		(:id, :employee_id, :construction_id, :parent_contract_id, :start_date, :end_date,
		 :area, :incharge, :terms, :contract_file_path, :deleted, :deleted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("contractRepo.Create: %w", err)
	}
	return nil
}

func (r *contractRepository) GetByID(ctx context.Context, id uuid.UUID, includeDeleted bool) (*domain.Contract, error) {
	query := `SELECT * FROM contracts WHERE id = ?`
	if !includeDeleted {
		query += ` AND deleted = 0`
	}
	var c domain.Contract
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("contractRepo.GetByID: %w", err)
	}
	return &c, nil
}

func (r *contractRepository) List(ctx context.Context, includeDeleted bool) ([]domain.Contract, error) {
	query := `SELECT * FROM contracts`
	if !includeDeleted {
		query += ` WHERE deleted = 0`
	}
	query += ` ORDER BY start_date, id`
	contracts := []domain.Contract{}
	if err := r.db.SelectContext(ctx, &contracts, query); err != nil {
		return nil, fmt.Errorf("contractRepo.List: %w", err)
	}
	return contracts, nil
}

func (r *contractRepository) Search(ctx context.Context, term string, includeDeleted bool, limit int) ([]domain.Contract, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT * FROM contracts
		WHERE (construction_id LIKE ? OR area LIKE ? OR incharge LIKE ? OR terms LIKE ?)`
	if !includeDeleted {
		query += ` AND deleted = 0`
	}
	query += ` ORDER BY start_date, id LIMIT ?`
	pattern := "%" + term + "%"
	contracts := []domain.Contract{}
	err := r.db.SelectContext(ctx, &contracts, query, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("contractRepo.Search: %w", err)
	}
	return contracts, nil
}

// DescendantIDs walks the parent_contract_id tree breadth-first starting at id.
func (r *contractRepository) DescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	all := []uuid.UUID{id}
	frontier := []uuid.UUID{id}
	seen := map[uuid.UUID]bool{id: true}
	for len(frontier) > 0 {
		query, args, err := sqlx.In(
			`SELECT id FROM contracts WHERE parent_contract_id IN (?)`, frontier)
		if err != nil {
			return nil, fmt.Errorf("contractRepo.DescendantIDs: %w", err)
		}
		children := []uuid.UUID{}
		if err := r.db.SelectContext(ctx, &children, r.db.Rebind(query), args...); err != nil {
			return nil, fmt.Errorf("contractRepo.DescendantIDs: %w", err)
		}
		frontier = frontier[:0]
		for _, child := range children {
			if seen[child] {
				continue
			}
			seen[child] = true
			all = append(all, child)
			frontier = append(frontier, child)
		}
	}
	return all, nil
}

func (r *contractRepository) SetDeleted(ctx context.Context, ids []uuid.UUID, deleted bool, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	var deletedAt any
	if deleted {
		deletedAt = at
	}
	query, args, err := sqlx.In(
		`UPDATE contracts SET deleted = ?, deleted_at = ? WHERE id IN (?)`,
		deleted, deletedAt, ids)
	if err != nil {
		return fmt.Errorf("contractRepo.SetDeleted: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("contractRepo.SetDeleted: %w", err)
	}
	return nil
}

func (r *contractRepository) ListTrashed(ctx context.Context) ([]domain.Contract, error) {
	contracts := []domain.Contract{}
	err := r.db.SelectContext(ctx, &contracts,
		`SELECT * FROM contracts WHERE deleted = 1 ORDER BY deleted_at, id`)
	if err != nil {
		return nil, fmt.Errorf("contractRepo.ListTrashed: %w", err)
	}
	return contracts, nil
}

func (r *contractRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM contracts WHERE deleted = 1 AND deleted_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("contractRepo.PurgeDeletedBefore: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("contractRepo.PurgeDeletedBefore: %w", err)
	}
	return int(n), nil
}

func (r *contractRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	ids, err := r.DescendantIDs(ctx, id)
	if err != nil {
		return fmt.Errorf("contractRepo.DeleteCascade: %w", err)
	}
	// Children first so the parent foreign key never dangles.
	for i := len(ids) - 1; i >= 0; i-- {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = ?`, ids[i]); err != nil {
			return fmt.Errorf("contractRepo.DeleteCascade: %w", err)
		}
	}
	return nil
}

func (r *contractRepository) CreateSubset(ctx context.Context, s *domain.ContractSubset) error {
	query := `INSERT INTO contract_subsets
		(id, contract_id, title, description, status, order_index, created_at)
		VALUES
		(:id, :contract_id, :title, :description, :status, :order_index, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("contractRepo.CreateSubset: %w", err)
	}
	return nil
}

func (r *contractRepository) GetSubset(ctx context.Context, id uuid.UUID) (*domain.ContractSubset, error) {
	var s domain.ContractSubset
	err := r.db.GetContext(ctx, &s, `SELECT * FROM contract_subsets WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("contractRepo.GetSubset: %w", err)
	}
	return &s, nil
}

func (r *contractRepository) ListSubsets(ctx context.Context, contractID uuid.UUID) ([]domain.ContractSubset, error) {
	subsets := []domain.ContractSubset{}
	err := r.db.SelectContext(ctx, &subsets,
		`SELECT * FROM contract_subsets WHERE contract_id = ? ORDER BY order_index, created_at`,
		contractID)
	if err != nil {
		return nil, fmt.Errorf("contractRepo.ListSubsets: %w", err)
	}
	return subsets, nil
}

func (r *contractRepository) CountSubsets(ctx context.Context, contractID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM contract_subsets WHERE contract_id = ?`, contractID)
	if err != nil {
		return 0, fmt.Errorf("contractRepo.CountSubsets: %w", err)
	}
	return count, nil
}

func (r *contractRepository) SetSubsetStatus(ctx context.Context, subsetID uuid.UUID, old, new domain.SubsetStatus, actorID *uuid.UUID, at time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("contractRepo.SetSubsetStatus: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE contract_subsets SET status = ? WHERE id = ?`, new, subsetID)
	if err != nil {
		return fmt.Errorf("contractRepo.SetSubsetStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO subset_status_history (subset_id, old_status, new_status, actor_user_id, changed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		subsetID, old, new, actorID, at)
	if err != nil {
		return fmt.Errorf("contractRepo.SetSubsetStatus: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("contractRepo.SetSubsetStatus: %w", err)
	}
	return nil
}

func (r *contractRepository) SubsetHistory(ctx context.Context, subsetID uuid.UUID) ([]domain.SubsetStatusChange, error) {
	changes := []domain.SubsetStatusChange{}
	err := r.db.SelectContext(ctx, &changes,
		`SELECT * FROM subset_status_history WHERE subset_id = ? ORDER BY changed_at, id`,
		subsetID)
	if err != nil {
		return nil, fmt.Errorf("contractRepo.SubsetHistory: %w", err)
	}
	return changes, nil
}
