package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-intervention-api/internal/core/intervention"
	"github.com/noah-isme/sma-intervention-api/internal/dto"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/internal/repository"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
	"github.com/noah-isme/sma-intervention-api/pkg/export"
)

type reentryStore interface {
	Create(ctx context.Context, p *models.ReentryProtocol, source repository.ReentrySource) error
	FindByID(ctx context.Context, id string) (*models.ReentryProtocol, error)
	List(ctx context.Context, filter models.ReentryFilter) ([]models.ReentryProtocol, int, error)
	Mutate(ctx context.Context, id string, fn func(p *models.ReentryProtocol) error) (*models.ReentryProtocol, error)
}

// ReentrySpawn describes a protocol created as the follow-up of a Tier-B completion
// or a Tier-C re-entry plan.
type ReentrySpawn struct {
	StudentID        string
	SourceType       models.ReentrySourceType
	SourceID         string
	Checklist        []string
	ReentryDate      *time.Time
	ReceivingTeacher string
	ResetGoal        string
	Actor            *models.Actor
}

// Document is a rendered export.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReentryService drives the re-entry protocol lifecycle.
type ReentryService struct {
	repo             reentryStore
	audit            *AuditService
	metrics          *MetricsService
	pdf              *export.PDFExporter
	validator        *validator.Validate
	logger           *zap.Logger
	defaultChecklist []string
	loc              *time.Location
	now              func() time.Time
}

// ReentryConfig carries the configured defaults.
type ReentryConfig struct {
	DefaultChecklist []string
	Location         *time.Location
}

// NewReentryService constructs the service.
func NewReentryService(repo reentryStore, audit *AuditService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ReentryConfig) *ReentryService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &ReentryService{
		repo:             repo,
		audit:            audit,
		metrics:          metrics,
		pdf:              export.NewPDFExporter(),
		validator:        validate,
		logger:           logger,
		defaultChecklist: cfg.DefaultChecklist,
		loc:              cfg.Location,
		now:              time.Now,
	}
}

// Create stores a protocol. When source_id is set the source record is linked in the
// same transaction, which is how a failed automatic spawn is repaired.
func (s *ReentryService) Create(ctx context.Context, req dto.CreateReentryRequest, actor *models.Actor) (*models.ReentryProtocol, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := validatePayload(s.validator, req, "invalid reentry payload"); err != nil {
		return nil, err
	}
	reentryDate, err := parseOptionalDate(req.ReentryDate)
	if err != nil {
		return nil, err
	}

	p, err := intervention.NewReentry(intervention.NewReentryInput{
		StudentID:                 req.StudentID,
		SourceType:                models.ReentrySourceType(req.SourceType),
		SourceID:                  req.SourceID,
		Checklist:                 req.ReadinessChecklist,
		DefaultChecklist:          s.defaultChecklist,
		ReentryDate:               reentryDate,
		ReceivingTeacher:          req.ReceivingTeacher,
		ResetGoalFromIntervention: req.ResetGoalFromIntervention,
		CreatedBy:                 actor.ID,
	})
	if err != nil {
		return nil, mapError(err, "reentry protocol", "create reentry protocol")
	}
	if err := s.persist(ctx, p, actor); err != nil {
		return nil, err
	}
	return p, nil
}

// Spawn creates the follow-up protocol for an escalation source and links it to the
// source record.
func (s *ReentryService) Spawn(ctx context.Context, spawn ReentrySpawn) (*models.ReentryProtocol, error) {
	sourceID := spawn.SourceID
	createdBy := ""
	if spawn.Actor != nil {
		createdBy = spawn.Actor.ID
	}
	p, err := intervention.NewReentry(intervention.NewReentryInput{
		StudentID:                 spawn.StudentID,
		SourceType:                spawn.SourceType,
		SourceID:                  &sourceID,
		Checklist:                 spawn.Checklist,
		DefaultChecklist:          s.defaultChecklist,
		ReentryDate:               spawn.ReentryDate,
		ReceivingTeacher:          spawn.ReceivingTeacher,
		ResetGoalFromIntervention: spawn.ResetGoal,
		CreatedBy:                 createdBy,
	})
	if err != nil {
		return nil, mapError(err, "reentry protocol", "spawn reentry protocol")
	}
	if err := s.persist(ctx, p, spawn.Actor); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ReentryService) persist(ctx context.Context, p *models.ReentryProtocol, actor *models.Actor) error {
	var source repository.ReentrySource
	if p.SourceID != nil {
		source = repository.SourceLevelC
		if p.SourceType == models.ReentrySourceLevelB {
			source = repository.SourceLevelB
		}
	}
	if err := s.repo.Create(ctx, p, source); err != nil {
		return mapError(err, "reentry source", "create reentry protocol")
	}

	s.logger.Info("reentry protocol created",
		zap.String("student_id", p.StudentID),
		zap.String("reentry_id", p.ID),
		zap.String("source_type", string(p.SourceType)),
	)
	s.metrics.RecordTransition(recordReentry, string(p.Status))
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionReentryCreate,
		Resource:   recordReentry,
		ResourceID: p.ID,
		After:      p,
	})
	return nil
}

// Get returns one protocol with its lazy expiry flag.
func (s *ReentryService) Get(ctx context.Context, id string) (*models.ReentryProtocol, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "reentry protocol", "load reentry protocol")
	}
	s.decorate(p)
	return p, nil
}

// List returns protocols matching query.
func (s *ReentryService) List(ctx context.Context, query dto.ReentryListQuery) ([]models.ReentryProtocol, *models.Pagination, error) {
	if err := validatePayload(s.validator, query, "invalid reentry filter"); err != nil {
		return nil, nil, err
	}
	items, total, err := s.repo.List(ctx, models.ReentryFilter{
		StudentID:  query.StudentID,
		SourceType: models.ReentrySourceType(query.SourceType),
		Status:     models.ReentryStatus(query.Status),
		Pending:    query.Pending,
		Active:     query.Active,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, nil, mapError(err, "reentry protocol", "list reentry protocols")
	}
	if items == nil {
		items = []models.ReentryProtocol{}
	}
	for i := range items {
		s.decorate(&items[i])
	}
	limit, offset := models.NormalizePage(query.Limit, query.Offset)
	return items, &models.Pagination{Limit: limit, Offset: offset, TotalCount: total}, nil
}

// UpdateChecklist toggles checklist items; the protocol becomes ready once all are done.
func (s *ReentryService) UpdateChecklist(ctx context.Context, id string, req dto.UpdateChecklistRequest, actor *models.Actor) (*models.ReentryProtocol, error) {
	if err := validatePayload(s.validator, req, "invalid checklist payload"); err != nil {
		return nil, err
	}
	toggles := make([]intervention.ChecklistToggle, 0, len(req.Items))
	for _, item := range req.Items {
		toggles = append(toggles, intervention.ChecklistToggle{Index: item.Index, Completed: item.Completed})
	}
	return s.transition(ctx, id, actor, "update checklist", func(p *models.ReentryProtocol, now time.Time) error {
		return intervention.UpdateChecklist(p, toggles, actorID(actor), now)
	})
}

// CompleteFirstRep records the first behavioral rep.
func (s *ReentryService) CompleteFirstRep(ctx context.Context, id string, actor *models.Actor) (*models.ReentryProtocol, error) {
	return s.transition(ctx, id, actor, "complete first rep", func(p *models.ReentryProtocol, now time.Time) error {
		return intervention.CompleteFirstRep(p, now)
	})
}

// Start moves a ready protocol into active monitoring.
func (s *ReentryService) Start(ctx context.Context, id string, req dto.StartReentryRequest, actor *models.Actor) (*models.ReentryProtocol, error) {
	if err := validatePayload(s.validator, req, "invalid start payload"); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, actor, "start reentry", func(p *models.ReentryProtocol, now time.Time) error {
		return intervention.StartReentry(p, models.MonitoringType(req.MonitoringType), now)
	})
}

// LogDaily appends a monitoring log entry.
func (s *ReentryService) LogDaily(ctx context.Context, id string, req dto.LogDailyEntryRequest, actor *models.Actor) (*models.ReentryProtocol, error) {
	if err := validatePayload(s.validator, req, "invalid daily log payload"); err != nil {
		return nil, err
	}
	entry := models.DailyLog{
		Date:              req.Date,
		Notes:             req.Notes,
		SuccessIndicators: req.SuccessIndicators,
		Concerns:          req.Concerns,
		LoggedBy:          actorID(actor),
	}
	return s.transition(ctx, id, actor, "log reentry day", func(p *models.ReentryProtocol, now time.Time) error {
		return intervention.LogDailyEntry(p, entry, now)
	})
}

// Complete closes an active protocol.
func (s *ReentryService) Complete(ctx context.Context, id string, req dto.CompleteReentryRequest, actor *models.Actor) (*models.ReentryProtocol, error) {
	if err := validatePayload(s.validator, req, "invalid completion payload"); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, actor, "complete reentry", func(p *models.ReentryProtocol, now time.Time) error {
		return intervention.CompleteReentry(p, models.ReentryOutcome(req.Outcome), req.Notes, now)
	})
}

// Script renders the re-entry script as text or pdf.
func (s *ReentryService) Script(ctx context.Context, id, format string) (*Document, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	body := intervention.ReentryScript(p)
	switch format {
	case "", "text":
		return &Document{
			Filename:    fmt.Sprintf("reentry-%s.txt", p.ID),
			ContentType: "text/plain; charset=utf-8",
			Body:        []byte(body),
		}, nil
	case "pdf":
		doc, err := s.pdf.RenderText("Re-entry Script", body)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render reentry script")
		}
		return &Document{
			Filename:    fmt.Sprintf("reentry-%s.pdf", p.ID),
			ContentType: "application/pdf",
			Body:        doc,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be text or pdf")
	}
}

func (s *ReentryService) transition(ctx context.Context, id string, actor *models.Actor, action string, apply func(p *models.ReentryProtocol, now time.Time) error) (*models.ReentryProtocol, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	var from models.ReentryStatus
	now := s.now().UTC()
	p, err := s.repo.Mutate(ctx, id, func(p *models.ReentryProtocol) error {
		from = p.Status
		return apply(p, now)
	})
	if err != nil {
		return nil, mapError(err, "reentry protocol", action)
	}
	s.decorate(p)

	if from != p.Status {
		s.logger.Info("reentry protocol transitioned",
			zap.String("student_id", p.StudentID),
			zap.String("reentry_id", p.ID),
			zap.String("from", string(from)),
			zap.String("to", string(p.Status)),
		)
		s.metrics.RecordTransition(recordReentry, string(p.Status))
	}
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionReentryTransition,
		Resource:   recordReentry,
		ResourceID: p.ID,
		Before:     map[string]interface{}{"status": from},
		After:      map[string]interface{}{"action": action, "status": p.Status},
	})
	return p, nil
}

func (s *ReentryService) decorate(p *models.ReentryProtocol) {
	p.MonitoringPeriodEnded = intervention.ReentryPeriodEnded(p, s.now(), s.loc)
}

func actorID(actor *models.Actor) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
