package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		username VARCHAR(64) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		role VARCHAR(16) NOT NULL DEFAULT 'viewer',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_users_username ON users (username);`,
	`CREATE TABLE IF NOT EXISTS projects (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		job_number VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		original_contract_amount NUMERIC(15,2) NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_projects_job_number ON projects (job_number);`,
	`CREATE TABLE IF NOT EXISTS wip_snapshots (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		period DATE NOT NULL,
		original_contract_amount NUMERIC(15,2) NOT NULL DEFAULT 0,
		change_order_amount NUMERIC(15,2) NOT NULL DEFAULT 0,
		cost_to_date NUMERIC(15,2) NOT NULL DEFAULT 0,
		estimated_cost_to_complete NUMERIC(15,2) NOT NULL DEFAULT 0,
		billed_to_date NUMERIC(15,2) NOT NULL DEFAULT 0,
		total_contract_amount NUMERIC(15,2) NOT NULL DEFAULT 0,
		estimated_final_cost NUMERIC(15,2) NOT NULL DEFAULT 0,
		percent_complete NUMERIC(9,4) NOT NULL DEFAULT 0,
		revenue_earned NUMERIC(15,2) NOT NULL DEFAULT 0,
		job_margin NUMERIC(15,2) NOT NULL DEFAULT 0,
		margin_percent NUMERIC(9,4) NOT NULL DEFAULT 0,
		wip_adjustment NUMERIC(15,2) NOT NULL DEFAULT 0,
		job_margin_to_date NUMERIC(15,2) NOT NULL DEFAULT 0,
		billing_posture VARCHAR(32) NOT NULL DEFAULT 'LEVEL',
		created_by UUID NOT NULL REFERENCES users(id),
		updated_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_wip_snapshots_project_period ON wip_snapshots (project_id, period);`,
	`CREATE INDEX IF NOT EXISTS idx_wip_snapshots_period ON wip_snapshots (period);`,
	`CREATE TABLE IF NOT EXISTS cell_explanations (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		snapshot_id UUID NOT NULL REFERENCES wip_snapshots(id) ON DELETE CASCADE,
		field_name VARCHAR(100) NOT NULL,
		explanation TEXT NOT NULL,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_cell_explanations_snapshot ON cell_explanations (snapshot_id, field_name);`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		entity_type VARCHAR(50) NOT NULL,
		entity_id UUID NOT NULL,
		action VARCHAR(20) NOT NULL,
		old_value TEXT,
		new_value TEXT,
		user_id UUID REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_entity ON audit_log (entity_type, entity_id);`,
	`CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log (created_at);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
