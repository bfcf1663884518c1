package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

const levelBColumns = `id, student_id, staff_id, staff_name, domain_id, escalation_trigger, escalated_from_level_a_id, status, steps,
reset_goal_timeline_days, monitoring_method, monitoring_start_date, monitoring_end_date, daily_success_rates, final_success_rate,
escalated_to_c, escalation_reason, escalated_case_id, consequence_type, reentry_protocol_id, completed_at, version, created_at, updated_at`

// LevelBRepository persists Tier-B reset conferences.
type LevelBRepository struct {
	db     *sqlx.DB
	levelA *LevelARepository
}

// NewLevelBRepository constructs the repository.
func NewLevelBRepository(db *sqlx.DB) *LevelBRepository {
	return &LevelBRepository{db: db, levelA: NewLevelARepository(db)}
}

// Create inserts a conference. When it references a Tier-A record, that record is
// escalated in the same transaction; nothing is written if either step fails.
func (r *LevelBRepository) Create(ctx context.Context, b *models.LevelBIntervention) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Version = 1

	return withTx(ctx, r.db, "level b create", func(tx *sqlx.Tx) error {
		if b.EscalatedFromLevelAID != nil {
			if err := r.levelA.EscalateToB(ctx, tx, *b.EscalatedFromLevelAID, b.StudentID); err != nil {
				return err
			}
		}
		const query = `INSERT INTO level_b_interventions (id, student_id, staff_id, staff_name, domain_id, escalation_trigger, escalated_from_level_a_id,
status, steps, reset_goal_timeline_days, daily_success_rates, escalated_to_c, version, created_at, updated_at)
VALUES (:id, :student_id, :staff_id, :staff_name, :domain_id, :escalation_trigger, :escalated_from_level_a_id,
:status, :steps, :reset_goal_timeline_days, :daily_success_rates, :escalated_to_c, :version, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, b); err != nil {
			return fmt.Errorf("create level b intervention: %w", err)
		}
		return nil
	})
}

// FindByID fetches a conference. A missing row surfaces as sql.ErrNoRows.
func (r *LevelBRepository) FindByID(ctx context.Context, id string) (*models.LevelBIntervention, error) {
	query := fmt.Sprintf("SELECT %s FROM level_b_interventions WHERE id = $1", levelBColumns)
	var b models.LevelBIntervention
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns conferences matching filter, newest first, with the total match count.
func (r *LevelBRepository) List(ctx context.Context, filter models.LevelBFilter) ([]models.LevelBIntervention, int, error) {
	var cond conditions
	if filter.StudentID != "" {
		cond.add("student_id = $%d", filter.StudentID)
	}
	if filter.DomainID != "" {
		cond.add("domain_id = $%d", filter.DomainID)
	}
	if filter.StaffID != "" {
		cond.add("staff_id = $%d", filter.StaffID)
	}
	if filter.Status != "" {
		cond.add("status = $%d", filter.Status)
	}
	if filter.ActiveMonitoring {
		cond.add("status = $%d", models.LevelBStatusMonitoring)
	}
	limit, offset := models.NormalizePage(filter.Limit, filter.Offset)

	query := fmt.Sprintf("SELECT %s FROM level_b_interventions%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		levelBColumns, cond.where(), limit, offset)
	var items []models.LevelBIntervention
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list level b interventions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM level_b_interventions"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count level b interventions: %w", err)
	}
	return items, total, nil
}

// Mutate locks the conference, applies fn and writes the result back under the
// version guard. Errors from fn abort the transaction unchanged.
func (r *LevelBRepository) Mutate(ctx context.Context, id string, fn func(b *models.LevelBIntervention) error) (*models.LevelBIntervention, error) {
	var out *models.LevelBIntervention
	err := withTx(ctx, r.db, "level b update", func(tx *sqlx.Tx) error {
		query := fmt.Sprintf("SELECT %s FROM level_b_interventions WHERE id = $1 FOR UPDATE", levelBColumns)
		var b models.LevelBIntervention
		if err := tx.GetContext(ctx, &b, query, id); err != nil {
			return err
		}
		if err := fn(&b); err != nil {
			return err
		}
		b.UpdatedAt = time.Now().UTC()
		const update = `UPDATE level_b_interventions SET status = :status, steps = :steps, reset_goal_timeline_days = :reset_goal_timeline_days,
monitoring_method = :monitoring_method, monitoring_start_date = :monitoring_start_date, monitoring_end_date = :monitoring_end_date,
daily_success_rates = :daily_success_rates, final_success_rate = :final_success_rate, escalated_to_c = :escalated_to_c,
escalation_reason = :escalation_reason, consequence_type = :consequence_type, completed_at = :completed_at,
version = version + 1, updated_at = :updated_at
WHERE id = :id AND version = :version`
		if err := versionedUpdate(ctx, tx, update, &b); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return err
			}
			return fmt.Errorf("update level b intervention: %w", err)
		}
		b.Version++
		out = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// linkCase records the Tier-C case opened from an escalated conference. Only a
// completed_escalated conference without a case may be linked.
func (r *LevelBRepository) linkCase(ctx context.Context, tx *sqlx.Tx, id, studentID, caseID string) error {
	var current struct {
		StudentID       string              `db:"student_id"`
		Status          models.LevelBStatus `db:"status"`
		EscalatedCaseID sql.NullString      `db:"escalated_case_id"`
	}
	const lockQuery = `SELECT student_id, status, escalated_case_id FROM level_b_interventions WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &current, lockQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSourceNotFound
		}
		return fmt.Errorf("lock level b intervention: %w", err)
	}
	if current.StudentID != studentID {
		return ErrSourceMismatch
	}
	if current.Status != models.LevelBStatusCompletedEscalated || current.EscalatedCaseID.Valid {
		return ErrSourceNotEscalatable
	}

	const update = `UPDATE level_b_interventions SET escalated_case_id = $2, version = version + 1, updated_at = $3
WHERE id = $1 AND status = 'completed_escalated' AND escalated_case_id IS NULL`
	res, err := tx.ExecContext(ctx, update, id, caseID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("link level b intervention: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("link level b intervention: %w", err)
	}
	if affected == 0 {
		return ErrSourceNotEscalatable
	}
	return nil
}
