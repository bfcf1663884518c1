package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

const levelCColumns = `id, student_id, case_manager_id, case_manager_name, trigger_type, escalated_from_level_b_id, status, context_packet,
admin_response, reentry_plan, daily_check_ins, outcome_status, outcome_notes, closure_criteria, reentry_protocol_id, created_by,
closed_at, version, created_at, updated_at`

// LevelCRepository persists Tier-C cases.
type LevelCRepository struct {
	db     *sqlx.DB
	levelB *LevelBRepository
}

// NewLevelCRepository constructs the repository.
func NewLevelCRepository(db *sqlx.DB) *LevelCRepository {
	return &LevelCRepository{db: db, levelB: NewLevelBRepository(db)}
}

// Create inserts a case. When it references an escalated Tier-B conference, the
// conference is linked to the case in the same transaction.
func (r *LevelCRepository) Create(ctx context.Context, c *models.LevelCCase) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Version = 1

	return withTx(ctx, r.db, "level c create", func(tx *sqlx.Tx) error {
		const query = `INSERT INTO level_c_cases (id, student_id, case_manager_id, case_manager_name, trigger_type, escalated_from_level_b_id, status,
context_packet, daily_check_ins, created_by, version, created_at, updated_at)
VALUES (:id, :student_id, :case_manager_id, :case_manager_name, :trigger_type, :escalated_from_level_b_id, :status,
:context_packet, :daily_check_ins, :created_by, :version, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, c); err != nil {
			return fmt.Errorf("create level c case: %w", err)
		}
		if c.EscalatedFromLevelBID != nil {
			if err := r.levelB.linkCase(ctx, tx, *c.EscalatedFromLevelBID, c.StudentID, c.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID fetches a case. A missing row surfaces as sql.ErrNoRows.
func (r *LevelCRepository) FindByID(ctx context.Context, id string) (*models.LevelCCase, error) {
	query := fmt.Sprintf("SELECT %s FROM level_c_cases WHERE id = $1", levelCColumns)
	var c models.LevelCCase
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns cases matching filter, newest first, with the total match count.
func (r *LevelCRepository) List(ctx context.Context, filter models.LevelCFilter) ([]models.LevelCCase, int, error) {
	var cond conditions
	if filter.StudentID != "" {
		cond.add("student_id = $%d", filter.StudentID)
	}
	if filter.CaseManagerID != "" {
		cond.add("case_manager_id = $%d", filter.CaseManagerID)
	}
	if filter.Status != "" {
		cond.add("status = $%d", filter.Status)
	}
	if filter.PendingReentries {
		cond.add("status = $%d", models.LevelCStatusPendingReentry)
	}
	limit, offset := models.NormalizePage(filter.Limit, filter.Offset)

	query := fmt.Sprintf("SELECT %s FROM level_c_cases%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		levelCColumns, cond.where(), limit, offset)
	var items []models.LevelCCase
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list level c cases: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM level_c_cases"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count level c cases: %w", err)
	}
	return items, total, nil
}

// Mutate locks the case, applies fn and writes the result back under the version
// guard. Errors from fn abort the transaction unchanged.
func (r *LevelCRepository) Mutate(ctx context.Context, id string, fn func(c *models.LevelCCase) error) (*models.LevelCCase, error) {
	var out *models.LevelCCase
	err := withTx(ctx, r.db, "level c update", func(tx *sqlx.Tx) error {
		query := fmt.Sprintf("SELECT %s FROM level_c_cases WHERE id = $1 FOR UPDATE", levelCColumns)
		var c models.LevelCCase
		if err := tx.GetContext(ctx, &c, query, id); err != nil {
			return err
		}
		if err := fn(&c); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()
		const update = `UPDATE level_c_cases SET case_manager_id = :case_manager_id, case_manager_name = :case_manager_name, status = :status,
context_packet = :context_packet, admin_response = :admin_response, reentry_plan = :reentry_plan, daily_check_ins = :daily_check_ins,
outcome_status = :outcome_status, outcome_notes = :outcome_notes, closure_criteria = :closure_criteria, closed_at = :closed_at,
version = version + 1, updated_at = :updated_at
WHERE id = :id AND version = :version`
		if err := versionedUpdate(ctx, tx, update, &c); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return err
			}
			return fmt.Errorf("update level c case: %w", err)
		}
		c.Version++
		out = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
