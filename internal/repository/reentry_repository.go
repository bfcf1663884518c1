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

const reentryColumns = `id, student_id, source_type, source_id, status, readiness_checklist, reentry_date, receiving_teacher,
reset_goal_from_intervention, first_behavioral_rep_completed, first_rep_completed_at, monitoring_type, monitoring_start_date,
monitoring_end_date, daily_logs, outcome, outcome_notes, created_by, completed_at, version, created_at, updated_at`

// ReentrySource selects the table whose record spawned a protocol.
type ReentrySource string

const (
	SourceLevelB ReentrySource = "level_b_interventions"
	SourceLevelC ReentrySource = "level_c_cases"
)

// ReentryRepository persists re-entry protocols.
type ReentryRepository struct {
	db *sqlx.DB
}

// NewReentryRepository constructs the repository.
func NewReentryRepository(db *sqlx.DB) *ReentryRepository {
	return &ReentryRepository{db: db}
}

// Create inserts a protocol. When source is set, the source record's
// reentry_protocol_id is written in the same transaction.
func (r *ReentryRepository) Create(ctx context.Context, p *models.ReentryProtocol, source ReentrySource) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Version = 1

	return withTx(ctx, r.db, "reentry create", func(tx *sqlx.Tx) error {
		const query = `INSERT INTO reentry_protocols (id, student_id, source_type, source_id, status, readiness_checklist, reentry_date, receiving_teacher,
reset_goal_from_intervention, first_behavioral_rep_completed, daily_logs, created_by, version, created_at, updated_at)
VALUES (:id, :student_id, :source_type, :source_id, :status, :readiness_checklist, :reentry_date, :receiving_teacher,
:reset_goal_from_intervention, :first_behavioral_rep_completed, :daily_logs, :created_by, :version, :created_at, :updated_at)`
		if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
			return fmt.Errorf("create reentry protocol: %w", err)
		}
		if source == "" || p.SourceID == nil {
			return nil
		}
		return linkProtocol(ctx, tx, source, *p.SourceID, p.StudentID, p.ID)
	})
}

// linkableStatus restricts which source records may still take a protocol: a
// conference whose monitoring finished, or a case that is not closed.
var linkableStatus = map[ReentrySource]string{
	SourceLevelB: "status IN ('completed_success', 'completed_escalated')",
	SourceLevelC: "status <> 'closed'",
}

func linkProtocol(ctx context.Context, tx *sqlx.Tx, source ReentrySource, sourceID, studentID, protocolID string) error {
	statusCond, ok := linkableStatus[source]
	if !ok {
		return fmt.Errorf("unknown reentry source %q", source)
	}
	update := fmt.Sprintf(`UPDATE %s SET reentry_protocol_id = $2, version = version + 1, updated_at = $3
WHERE id = $1 AND student_id = $4 AND reentry_protocol_id IS NULL AND %s`, source, statusCond)
	res, err := tx.ExecContext(ctx, update, sourceID, protocolID, time.Now().UTC(), studentID)
	if err != nil {
		return fmt.Errorf("link reentry protocol: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("link reentry protocol: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var current struct {
		ReentryProtocolID sql.NullString `db:"reentry_protocol_id"`
		Status            string         `db:"status"`
	}
	lookup := fmt.Sprintf("SELECT reentry_protocol_id, status FROM %s WHERE id = $1 AND student_id = $2", source)
	if err := tx.GetContext(ctx, &current, lookup, sourceID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSourceNotFound
		}
		return fmt.Errorf("lookup reentry source: %w", err)
	}
	if current.ReentryProtocolID.Valid {
		return ErrAlreadyLinked
	}
	return ErrSourceNotEscalatable
}

// FindByID fetches a protocol. A missing row surfaces as sql.ErrNoRows.
func (r *ReentryRepository) FindByID(ctx context.Context, id string) (*models.ReentryProtocol, error) {
	query := fmt.Sprintf("SELECT %s FROM reentry_protocols WHERE id = $1", reentryColumns)
	var p models.ReentryProtocol
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns protocols matching filter, newest first, with the total match count.
func (r *ReentryRepository) List(ctx context.Context, filter models.ReentryFilter) ([]models.ReentryProtocol, int, error) {
	var cond conditions
	if filter.StudentID != "" {
		cond.add("student_id = $%d", filter.StudentID)
	}
	if filter.SourceType != "" {
		cond.add("source_type = $%d", filter.SourceType)
	}
	if filter.Status != "" {
		cond.add("status = $%d", filter.Status)
	}
	if filter.Pending {
		cond.raw("status IN ('pending', 'ready')")
	}
	if filter.Active {
		cond.add("status = $%d", models.ReentryStatusActive)
	}
	limit, offset := models.NormalizePage(filter.Limit, filter.Offset)

	query := fmt.Sprintf("SELECT %s FROM reentry_protocols%s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		reentryColumns, cond.where(), limit, offset)
	var items []models.ReentryProtocol
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list reentry protocols: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM reentry_protocols"+cond.where(), cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count reentry protocols: %w", err)
	}
	return items, total, nil
}

// Mutate locks the protocol, applies fn and writes the result back under the version
// guard. Errors from fn abort the transaction unchanged.
func (r *ReentryRepository) Mutate(ctx context.Context, id string, fn func(p *models.ReentryProtocol) error) (*models.ReentryProtocol, error) {
	var out *models.ReentryProtocol
	err := withTx(ctx, r.db, "reentry update", func(tx *sqlx.Tx) error {
		query := fmt.Sprintf("SELECT %s FROM reentry_protocols WHERE id = $1 FOR UPDATE", reentryColumns)
		var p models.ReentryProtocol
		if err := tx.GetContext(ctx, &p, query, id); err != nil {
			return err
		}
		if err := fn(&p); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		const update = `UPDATE reentry_protocols SET status = :status, readiness_checklist = :readiness_checklist, reentry_date = :reentry_date,
first_behavioral_rep_completed = :first_behavioral_rep_completed, first_rep_completed_at = :first_rep_completed_at,
monitoring_type = :monitoring_type, monitoring_start_date = :monitoring_start_date, monitoring_end_date = :monitoring_end_date,
daily_logs = :daily_logs, outcome = :outcome, outcome_notes = :outcome_notes, completed_at = :completed_at,
version = version + 1, updated_at = :updated_at
WHERE id = :id AND version = :version`
		if err := versionedUpdate(ctx, tx, update, &p); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return err
			}
			return fmt.Errorf("update reentry protocol: %w", err)
		}
		p.Version++
		out = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
