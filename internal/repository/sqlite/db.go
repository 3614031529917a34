package sqlite

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"hrdesk/internal/config"
)

// schema is applied idempotently on every open; the store is a
// single-user file, not a fleet of versioned databases.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'engineer',
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS password_reset_tokens (
	token TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	expires_at TIMESTAMP NOT NULL,
	used BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	user_id TEXT UNIQUE REFERENCES users(id) ON DELETE SET NULL,
	name TEXT NOT NULL,
	dob TEXT NOT NULL DEFAULT '',
	job_title TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	year_start INTEGER,
	year_end INTEGER,
	profile_pic TEXT,
	contract_type TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS attendance (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE CASCADE,
	check_in TIMESTAMP NOT NULL,
	check_out TIMESTAMP
);

CREATE TABLE IF NOT EXISTS contracts (
	id TEXT PRIMARY KEY,
	employee_id TEXT REFERENCES employees(id) ON DELETE SET NULL,
	construction_id TEXT NOT NULL DEFAULT '',
	parent_contract_id TEXT REFERENCES contracts(id),
	start_date TEXT NOT NULL DEFAULT '',
	end_date TEXT NOT NULL DEFAULT '',
	area TEXT NOT NULL DEFAULT '',
	incharge TEXT NOT NULL DEFAULT '',
	terms TEXT NOT NULL DEFAULT '',
	contract_file_path TEXT NOT NULL DEFAULT '',
	deleted BOOLEAN NOT NULL DEFAULT 0,
	deleted_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS contract_subsets (
	id TEXT PRIMARY KEY,
	contract_id TEXT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'starting',
	order_index INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS subset_status_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	subset_id TEXT NOT NULL REFERENCES contract_subsets(id) ON DELETE CASCADE,
	old_status TEXT NOT NULL DEFAULT '',
	new_status TEXT NOT NULL,
	actor_user_id TEXT,
	changed_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS role_audit (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	old_role TEXT NOT NULL DEFAULT '',
	new_role TEXT NOT NULL,
	actor_user_id TEXT,
	changed_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS imputation_audit (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	row_index INTEGER NOT NULL,
	field TEXT NOT NULL,
	old_value TEXT NOT NULL DEFAULT '',
	new_value TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL,
	actor_user_id TEXT,
	applied_at TIMESTAMP NOT NULL
);
`

// NewDB opens (creating if needed) the SQLite store and ensures the schema.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}
	db, err := sqlx.Connect("sqlite3", cfg.Path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("connecting to sqlite: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return db, nil
}
