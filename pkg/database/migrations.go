package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Migration is a versioned schema change.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS behavioral_domains (
    id TEXT PRIMARY KEY,
    name VARCHAR(120) NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    expectations TEXT[] NOT NULL DEFAULT '{}',
    repair_actions TEXT[] NOT NULL DEFAULT '{}',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS audit_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT,
    action VARCHAR(60) NOT NULL,
    resource VARCHAR(60) NOT NULL,
    resource_id TEXT,
    old_values JSONB,
    new_values JSONB,
    ip_address VARCHAR(64) NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource, resource_id);
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS level_a_interventions (
    id TEXT PRIMARY KEY,
    student_id TEXT NOT NULL,
    staff_id TEXT NOT NULL,
    staff_name TEXT NOT NULL DEFAULT '',
    domain_id TEXT NOT NULL REFERENCES behavioral_domains(id),
    intervention_type VARCHAR(60) NOT NULL,
    notes TEXT,
    escalated_to_b BOOLEAN NOT NULL DEFAULT FALSE,
    outcome VARCHAR(30),
    version INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_level_a_student ON level_a_interventions(student_id, created_at DESC);

CREATE TABLE IF NOT EXISTS level_b_interventions (
    id TEXT PRIMARY KEY,
    student_id TEXT NOT NULL,
    staff_id TEXT NOT NULL,
    staff_name TEXT NOT NULL DEFAULT '',
    domain_id TEXT NOT NULL REFERENCES behavioral_domains(id),
    escalation_trigger TEXT NOT NULL,
    escalated_from_level_a_id TEXT UNIQUE REFERENCES level_a_interventions(id),
    status VARCHAR(30) NOT NULL DEFAULT 'in_progress',
    steps JSONB NOT NULL DEFAULT '{}'::jsonb,
    reset_goal_timeline_days INTEGER NOT NULL DEFAULT 3,
    monitoring_method TEXT,
    monitoring_start_date TIMESTAMP WITH TIME ZONE,
    monitoring_end_date TIMESTAMP WITH TIME ZONE,
    daily_success_rates JSONB NOT NULL DEFAULT '{}'::jsonb,
    final_success_rate DOUBLE PRECISION,
    escalated_to_c BOOLEAN NOT NULL DEFAULT FALSE,
    escalation_reason TEXT,
    escalated_case_id TEXT,
    consequence_type VARCHAR(30),
    reentry_protocol_id TEXT,
    completed_at TIMESTAMP WITH TIME ZONE,
    version INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_level_b_status CHECK (status IN ('in_progress', 'monitoring', 'completed_success', 'completed_escalated'))
);

CREATE INDEX IF NOT EXISTS idx_level_b_student ON level_b_interventions(student_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_level_b_monitoring ON level_b_interventions(monitoring_end_date) WHERE status = 'monitoring';
`

const migration003Up = `
CREATE TABLE IF NOT EXISTS level_c_cases (
    id TEXT PRIMARY KEY,
    student_id TEXT NOT NULL,
    case_manager_id TEXT,
    case_manager_name TEXT,
    trigger_type VARCHAR(40) NOT NULL,
    escalated_from_level_b_id TEXT UNIQUE REFERENCES level_b_interventions(id),
    status VARCHAR(30) NOT NULL DEFAULT 'open',
    context_packet JSONB NOT NULL DEFAULT '{}'::jsonb,
    admin_response JSONB,
    reentry_plan JSONB,
    daily_check_ins JSONB NOT NULL DEFAULT '[]'::jsonb,
    outcome_status VARCHAR(30),
    outcome_notes TEXT,
    closure_criteria TEXT,
    reentry_protocol_id TEXT,
    created_by TEXT NOT NULL DEFAULT '',
    closed_at TIMESTAMP WITH TIME ZONE,
    version INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_level_c_status CHECK (status IN ('open', 'active', 'pending_reentry', 'monitoring', 'closed'))
);

CREATE INDEX IF NOT EXISTS idx_level_c_student ON level_c_cases(student_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_level_c_manager ON level_c_cases(case_manager_id) WHERE status <> 'closed';

CREATE TABLE IF NOT EXISTS reentry_protocols (
    id TEXT PRIMARY KEY,
    student_id TEXT NOT NULL,
    source_type VARCHAR(20) NOT NULL,
    source_id TEXT,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    readiness_checklist JSONB NOT NULL DEFAULT '[]'::jsonb,
    reentry_date TIMESTAMP WITH TIME ZONE,
    receiving_teacher TEXT NOT NULL DEFAULT '',
    reset_goal_from_intervention TEXT NOT NULL DEFAULT '',
    first_behavioral_rep_completed BOOLEAN NOT NULL DEFAULT FALSE,
    first_rep_completed_at TIMESTAMP WITH TIME ZONE,
    monitoring_type VARCHAR(10),
    monitoring_start_date TIMESTAMP WITH TIME ZONE,
    monitoring_end_date TIMESTAMP WITH TIME ZONE,
    daily_logs JSONB NOT NULL DEFAULT '[]'::jsonb,
    outcome VARCHAR(20),
    outcome_notes TEXT,
    created_by TEXT NOT NULL DEFAULT '',
    completed_at TIMESTAMP WITH TIME ZONE,
    version INTEGER NOT NULL DEFAULT 1,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_reentry_status CHECK (status IN ('pending', 'ready', 'active', 'completed')),
    CONSTRAINT valid_reentry_source CHECK (source_type IN ('level_b', 'detention', 'iss', 'oss'))
);

CREATE INDEX IF NOT EXISTS idx_reentry_student ON reentry_protocols(student_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_reentry_source ON reentry_protocols(source_type, source_id);
`

// Migrations lists the schema in apply order.
var Migrations = []Migration{
	{Version: 1, Name: "create_domains_and_audit", UpSQL: migration001Up},
	{Version: 2, Name: "create_level_a_and_b", UpSQL: migration002Up},
	{Version: 3, Name: "create_level_c_and_reentry", UpSQL: migration003Up},
}

const migrationTable = "schema_migrations"

// Migrate applies every pending migration, each inside its own transaction, and
// returns the versions applied.
func Migrate(ctx context.Context, db *sqlx.DB, migrations []Migration) ([]int, error) {
	createTable := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
)`, migrationTable)
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create migration table: %w", err)
	}

	var versions []int
	if err := db.SelectContext(ctx, &versions, fmt.Sprintf("SELECT version FROM %s", migrationTable)); err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	applied := make(map[int]struct{}, len(versions))
	for _, v := range versions {
		applied[v] = struct{}{}
	}

	var done []int
	for _, mig := range migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}
		if err := applyMigration(ctx, db, mig); err != nil {
			return done, err
		}
		done = append(done, mig.Version)
	}
	return done, nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, mig Migration) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", mig.Version, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, mig.UpSQL); err != nil {
		return fmt.Errorf("apply migration %d (%s): %w", mig.Version, mig.Name, err)
	}
	insert := fmt.Sprintf("INSERT INTO %s (version, name, applied_at) VALUES ($1, $2, $3)", migrationTable)
	if _, err = tx.ExecContext(ctx, insert, mig.Version, mig.Name, time.Now().UTC()); err != nil {
		return fmt.Errorf("record migration %d: %w", mig.Version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", mig.Version, err)
	}
	return nil
}
