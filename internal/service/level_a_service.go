package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-intervention-api/internal/dto"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
)

type levelAStore interface {
	Create(ctx context.Context, a *models.LevelAIntervention) error
	FindByID(ctx context.Context, id string) (*models.LevelAIntervention, error)
	List(ctx context.Context, filter models.LevelAFilter) ([]models.LevelAIntervention, int, error)
}

// LevelAService records Tier-A coaching interventions. Records are append-only; the
// single follow-up write happens when a Tier-B conference escalates one.
type LevelAService struct {
	repo      levelAStore
	audit     *AuditService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewLevelAService constructs the service. loc defines "today" for list filters.
func NewLevelAService(repo levelAStore, audit *AuditService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *LevelAService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LevelAService{repo: repo, audit: audit, metrics: metrics, validator: validate, logger: logger, loc: loc, now: time.Now}
}

// Create stores a new Tier-A record attributed to actor.
func (s *LevelAService) Create(ctx context.Context, req dto.CreateLevelARequest, actor *models.Actor) (*models.LevelAIntervention, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := validatePayload(s.validator, req, "invalid level a payload"); err != nil {
		return nil, err
	}

	record := &models.LevelAIntervention{
		StudentID:        req.StudentID,
		StaffID:          actor.ID,
		StaffName:        actor.Name,
		DomainID:         req.DomainID,
		InterventionType: req.InterventionType,
		Notes:            req.Notes,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, mapError(err, "level a intervention", "create level a intervention")
	}

	s.logger.Info("level a intervention recorded",
		zap.String("student_id", record.StudentID),
		zap.String("level_a_id", record.ID),
		zap.String("domain_id", record.DomainID),
	)
	s.metrics.RecordTransition(recordLevelA, "created")
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionLevelACreate,
		Resource:   recordLevelA,
		ResourceID: record.ID,
		After:      record,
	})
	return record, nil
}

// Get returns one record.
func (s *LevelAService) Get(ctx context.Context, id string) (*models.LevelAIntervention, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "level a intervention", "load level a intervention")
	}
	return record, nil
}

// List returns records matching query. Dates are calendar days in the configured
// timezone; date_to is inclusive.
func (s *LevelAService) List(ctx context.Context, query dto.LevelAListQuery) ([]models.LevelAIntervention, *models.Pagination, error) {
	if err := validatePayload(s.validator, query, "invalid level a filter"); err != nil {
		return nil, nil, err
	}
	filter := models.LevelAFilter{
		StudentID: query.StudentID,
		DomainID:  query.DomainID,
		StaffID:   query.StaffID,
		Limit:     query.Limit,
		Offset:    query.Offset,
	}

	if query.TodayOnly {
		local := s.now().In(s.loc)
		start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
		end := start.AddDate(0, 0, 1)
		filter.DateFrom, filter.DateTo = &start, &end
	} else {
		if query.DateFrom != "" {
			from, err := s.localDay(query.DateFrom)
			if err != nil {
				return nil, nil, err
			}
			filter.DateFrom = &from
		}
		if query.DateTo != "" {
			to, err := s.localDay(query.DateTo)
			if err != nil {
				return nil, nil, err
			}
			to = to.AddDate(0, 0, 1)
			filter.DateTo = &to
		}
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, mapError(err, "level a intervention", "list level a interventions")
	}
	if items == nil {
		items = []models.LevelAIntervention{}
	}
	limit, offset := models.NormalizePage(query.Limit, query.Offset)
	return items, &models.Pagination{Limit: limit, Offset: offset, TotalCount: total}, nil
}

func (s *LevelAService) localDay(raw string) (time.Time, error) {
	d, err := parseOptionalDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc), nil
}
