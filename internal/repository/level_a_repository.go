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

const levelAColumns = `id, student_id, staff_id, staff_name, domain_id, intervention_type, notes, escalated_to_b, outcome, version, created_at, updated_at`

// LevelARepository persists Tier-A coaching records.
type LevelARepository struct {
	db *sqlx.DB
}

// NewLevelARepository constructs the repository.
func NewLevelARepository(db *sqlx.DB) *LevelARepository {
	return &LevelARepository{db: db}
}

// Create inserts a new record.
func (r *LevelARepository) Create(ctx context.Context, a *models.LevelAIntervention) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	a.Version = 1
	const query = `INSERT INTO level_a_interventions (id, student_id, staff_id, staff_name, domain_id, intervention_type, notes, escalated_to_b, outcome, version, created_at, updated_at)
VALUES (:id, :student_id, :staff_id, :staff_name, :domain_id, :intervention_type, :notes, :escalated_to_b, :outcome, :version, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create level a intervention: %w", err)
	}
	return nil
}

// FindByID fetches a record. A missing row surfaces as sql.ErrNoRows.
func (r *LevelARepository) FindByID(ctx context.Context, id string) (*models.LevelAIntervention, error) {
	query := fmt.Sprintf("SELECT %s FROM level_a_interventions WHERE id = $1", levelAColumns)
	var a models.LevelAIntervention
	if err := r.db.GetContext(ctx, &a, query, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// List returns records matching filter, newest first, with the total match count.
func (r *LevelARepository) List(ctx context.Context, filter models.LevelAFilter) ([]models.LevelAIntervention, int, error) {
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
	if filter.DateFrom != nil {
		cond.add("created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		cond.add("created_at < $%d", *filter.DateTo)
	}
	limit, offset := models.NormalizePage(filter.Limit, filter.Offset)

	query := fmt.Sprintf("SELECT %s FROM level_a_interventions%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		levelAColumns, cond.where(), limit, offset)
	var items []models.LevelAIntervention
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list level a interventions: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM level_a_interventions"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count level a interventions: %w", err)
	}
	return items, total, nil
}

// EscalateToB marks the record superseded by a Tier-B conference. It runs on the
// caller's transaction so the Tier-B insert and this write commit together.
func (r *LevelARepository) EscalateToB(ctx context.Context, tx *sqlx.Tx, id, studentID string) error {
	var current struct {
		StudentID    string `db:"student_id"`
		EscalatedToB bool   `db:"escalated_to_b"`
	}
	const lockQuery = `SELECT student_id, escalated_to_b FROM level_a_interventions WHERE id = $1 FOR UPDATE`
	if err := tx.GetContext(ctx, &current, lockQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSourceNotFound
		}
		return fmt.Errorf("lock level a intervention: %w", err)
	}
	if current.StudentID != studentID {
		return ErrSourceMismatch
	}
	if current.EscalatedToB {
		return ErrSourceAlreadyEscalated
	}

	const updateQuery = `UPDATE level_a_interventions
SET escalated_to_b = TRUE, outcome = $2, version = version + 1, updated_at = $3
WHERE id = $1 AND escalated_to_b = FALSE`
	res, err := tx.ExecContext(ctx, updateQuery, id, models.LevelAOutcomeEscalated, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("escalate level a intervention: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("escalate level a intervention: %w", err)
	}
	if affected == 0 {
		return ErrSourceAlreadyEscalated
	}
	return nil
}
