package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PasswordResetToken is a single-use token for the password reset flow.
type PasswordResetToken struct {
	Token     string    `db:"token" json:"token"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	Used      bool      `db:"used" json:"used"`
}

// Employee represents an employee record, optionally linked to a user account.
type Employee struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UserID       *uuid.UUID `db:"user_id" json:"user_id"`
	Name         string     `db:"name" json:"name"`
	DOB          string     `db:"dob" json:"dob"`
	JobTitle     string     `db:"job_title" json:"job_title"`
	Role         string     `db:"role" json:"role"`
	YearStart    *int       `db:"year_start" json:"year_start"`
	YearEnd      *int       `db:"year_end" json:"year_end"`
	ProfilePic   *string    `db:"profile_pic" json:"profile_pic"`
	ContractType string     `db:"contract_type" json:"contract_type"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// AttendanceSession is a single check-in/check-out pair.
type AttendanceSession struct {
	ID         int64      `db:"id" json:"id"`
	EmployeeID uuid.UUID  `db:"employee_id" json:"employee_id"`
	CheckIn    time.Time  `db:"check_in" json:"check_in"`
	CheckOut   *time.Time `db:"check_out" json:"check_out"`
}

// Contract represents a contract, possibly nested under a parent contract.
type Contract struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	EmployeeID       *uuid.UUID `db:"employee_id" json:"employee_id"`
	ConstructionID   string     `db:"construction_id" json:"construction_id"`
	ParentContractID *uuid.UUID `db:"parent_contract_id" json:"parent_contract_id"`
	StartDate        string     `db:"start_date" json:"start_date"`
	EndDate          string     `db:"end_date" json:"end_date"`
	Area             string     `db:"area" json:"area"`
	Incharge         string     `db:"incharge" json:"incharge"`
	Terms            string     `db:"terms" json:"terms"`
	FilePath         string     `db:"contract_file_path" json:"contract_file_path"`
	Deleted          bool       `db:"deleted" json:"deleted"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at"`
}

// ContractSubset is a unit of work under a contract with its own status.
type ContractSubset struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	ContractID  uuid.UUID    `db:"contract_id" json:"contract_id"`
	Title       string       `db:"title" json:"title"`
	Description string       `db:"description" json:"description"`
	Status      SubsetStatus `db:"status" json:"status"`
	OrderIndex  int          `db:"order_index" json:"order_index"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

// SubsetStatusChange is one entry of a subset's status history.
type SubsetStatusChange struct {
	ID          int64        `db:"id" json:"id"`
	SubsetID    uuid.UUID    `db:"subset_id" json:"subset_id"`
	OldStatus   SubsetStatus `db:"old_status" json:"old_status"`
	NewStatus   SubsetStatus `db:"new_status" json:"new_status"`
	ActorUserID *uuid.UUID   `db:"actor_user_id" json:"actor_user_id"`
	ChangedAt   time.Time    `db:"changed_at" json:"changed_at"`
}

// RoleAuditEntry records a user role change.
type RoleAuditEntry struct {
	ID          int64      `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	OldRole     UserRole   `db:"old_role" json:"old_role"`
	NewRole     UserRole   `db:"new_role" json:"new_role"`
	ActorUserID *uuid.UUID `db:"actor_user_id" json:"actor_user_id"`
	ChangedAt   time.Time  `db:"changed_at" json:"changed_at"`
}

// ImputationAuditEntry records one field filled in by the import pipeline.
// Entries are append-only; they are never mutated or deleted.
type ImputationAuditEntry struct {
	ID          int64            `db:"id" json:"id"`
	RowIndex    int              `db:"row_index" json:"row_index"`
	Field       string           `db:"field" json:"field"`
	OldValue    string           `db:"old_value" json:"old_value"`
	NewValue    string           `db:"new_value" json:"new_value"`
	Source      ImputationSource `db:"source" json:"source"`
	ActorUserID *uuid.UUID       `db:"actor_user_id" json:"actor_user_id"`
	AppliedAt   time.Time        `db:"applied_at" json:"applied_at"`
}
