package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-intervention-api/internal/core/intervention"
	"github.com/noah-isme/sma-intervention-api/internal/dto"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
)

type levelBStore interface {
	Create(ctx context.Context, b *models.LevelBIntervention) error
	FindByID(ctx context.Context, id string) (*models.LevelBIntervention, error)
	List(ctx context.Context, filter models.LevelBFilter) ([]models.LevelBIntervention, int, error)
	Mutate(ctx context.Context, id string, fn func(b *models.LevelBIntervention) error) (*models.LevelBIntervention, error)
}

type reentrySpawner interface {
	Spawn(ctx context.Context, spawn ReentrySpawn) (*models.ReentryProtocol, error)
}

// LevelBConfig carries the tunables of the reset conference workflow.
type LevelBConfig struct {
	SuccessThreshold float64
	DefaultResetDays int
	Location         *time.Location
}

// LevelBService drives the Tier-B reset conference state machine.
type LevelBService struct {
	repo      levelBStore
	domains   domainLookup
	reentries reentrySpawner
	audit     *AuditService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       LevelBConfig
	now       func() time.Time
}

// NewLevelBService constructs the service. domains may be nil to skip the repair menu
// check on b4.
func NewLevelBService(repo levelBStore, domains domainLookup, reentries reentrySpawner, audit *AuditService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg LevelBConfig) *LevelBService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 80
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &LevelBService{
		repo:      repo,
		domains:   domains,
		reentries: reentries,
		audit:     audit,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create opens a conference. A referenced Tier-A record is escalated in the same
// transaction.
func (s *LevelBService) Create(ctx context.Context, req dto.CreateLevelBRequest, actor *models.Actor) (*models.LevelBIntervention, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := validatePayload(s.validator, req, "invalid level b payload"); err != nil {
		return nil, err
	}
	b, err := intervention.NewLevelB(intervention.NewLevelBInput{
		StudentID:             req.StudentID,
		StaffID:               actor.ID,
		StaffName:             actor.Name,
		DomainID:              req.DomainID,
		EscalationTrigger:     req.EscalationTrigger,
		EscalatedFromLevelAID: req.EscalatedFromLevelAID,
		DefaultTimelineDays:   s.cfg.DefaultResetDays,
	})
	if err != nil {
		return nil, mapError(err, "level b intervention", "create level b intervention")
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, mapError(err, "level a intervention", "create level b intervention")
	}

	fields := []zap.Field{
		zap.String("student_id", b.StudentID),
		zap.String("level_b_id", b.ID),
		zap.String("trigger", b.EscalationTrigger),
	}
	if b.EscalatedFromLevelAID != nil {
		fields = append(fields, zap.String("level_a_id", *b.EscalatedFromLevelAID))
		s.metrics.RecordEscalation(recordLevelA, recordLevelB)
	}
	s.logger.Info("level b conference opened", fields...)
	s.metrics.RecordTransition(recordLevelB, string(b.Status))
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionLevelBCreate,
		Resource:   recordLevelB,
		ResourceID: b.ID,
		After:      b,
	})
	s.decorate(b)
	return b, nil
}

// Get returns one conference with its lazy expiry flag.
func (s *LevelBService) Get(ctx context.Context, id string) (*models.LevelBIntervention, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "level b intervention", "load level b intervention")
	}
	s.decorate(b)
	return b, nil
}

// List returns conferences matching query.
func (s *LevelBService) List(ctx context.Context, query dto.LevelBListQuery) ([]models.LevelBIntervention, *models.Pagination, error) {
	if err := validatePayload(s.validator, query, "invalid level b filter"); err != nil {
		return nil, nil, err
	}
	items, total, err := s.repo.List(ctx, models.LevelBFilter{
		StudentID:        query.StudentID,
		DomainID:         query.DomainID,
		StaffID:          query.StaffID,
		Status:           models.LevelBStatus(query.Status),
		ActiveMonitoring: query.ActiveMonitoring,
		Limit:            query.Limit,
		Offset:           query.Offset,
	})
	if err != nil {
		return nil, nil, mapError(err, "level b intervention", "list level b interventions")
	}
	if items == nil {
		items = []models.LevelBIntervention{}
	}
	for i := range items {
		s.decorate(&items[i])
	}
	limit, offset := models.NormalizePage(query.Limit, query.Offset)
	return items, &models.Pagination{Limit: limit, Offset: offset, TotalCount: total}, nil
}

// UpdateStep stores one of b1..b7. A completed b4 must pick from the domain's repair menu
// when the domain defines one.
func (s *LevelBService) UpdateStep(ctx context.Context, id string, req dto.UpdateStepRequest, actor *models.Actor) (*models.LevelBIntervention, error) {
	if err := validatePayload(s.validator, req, "invalid step payload"); err != nil {
		return nil, err
	}
	step, err := models.DecodeLevelBStep(models.LevelBStepKey(req.Step), req.Data)
	if err != nil {
		return nil, appErrors.Validation(err, err.Error())
	}
	if repair, ok := step.(models.RepairStep); ok && repair.Completed && strings.TrimSpace(repair.RepairAction) != "" {
		if err := s.checkRepairAction(ctx, id, repair.RepairAction); err != nil {
			return nil, err
		}
	}

	return s.transition(ctx, id, actor, models.AuditActionLevelBStepUpdate, "update step", func(b *models.LevelBIntervention, _ time.Time) error {
		return intervention.UpdateStep(b, step, s.cfg.DefaultResetDays)
	})
}

func (s *LevelBService) checkRepairAction(ctx context.Context, id, action string) error {
	if s.domains == nil {
		return nil
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapError(err, "level b intervention", "load level b intervention")
	}
	domain, err := s.domains.Get(ctx, b.DomainID)
	if err != nil {
		return mapError(err, "behavioral domain", "load behavioral domain")
	}
	if len(domain.RepairActions) > 0 && !domain.HasRepairAction(action) {
		return appErrors.Clone(appErrors.ErrValidation, "repair_action is not on the "+domain.Name+" repair menu")
	}
	return nil
}

// StartMonitoring moves the conference into its monitoring period.
func (s *LevelBService) StartMonitoring(ctx context.Context, id string, req dto.StartLevelBMonitoringRequest, actor *models.Actor) (*models.LevelBIntervention, error) {
	if err := validatePayload(s.validator, req, "invalid monitoring payload"); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, actor, models.AuditActionLevelBStartMonitoring, "start monitoring", func(b *models.LevelBIntervention, now time.Time) error {
		return intervention.StartLevelBMonitoring(b, req.MonitoringMethod, now)
	})
}

// LogDailyRate upserts the success rate for one calendar date.
func (s *LevelBService) LogDailyRate(ctx context.Context, id string, req dto.LogDailyRateRequest, actor *models.Actor) (*models.LevelBIntervention, error) {
	if err := validatePayload(s.validator, req, "invalid daily rate payload"); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, actor, models.AuditActionLevelBStepUpdate, "log daily rate", func(b *models.LevelBIntervention, _ time.Time) error {
		return intervention.LogDailyRate(b, req.Date, req.SuccessRate)
	})
}

// CompleteMonitoring resolves the monitoring period against the configured threshold.
// With a removal consequence a re-entry protocol is spawned after the conference
// commits; if that fails the error is PARTIAL_ESCALATION and names the committed
// conference so the protocol can be created through the reentry endpoint.
func (s *LevelBService) CompleteMonitoring(ctx context.Context, id string, req dto.CompleteLevelBRequest, actor *models.Actor) (*models.LevelBIntervention, error) {
	if err := validatePayload(s.validator, req, "invalid completion payload"); err != nil {
		return nil, err
	}
	var consequence *models.AdminResponseType
	if req.ConsequenceType != nil {
		t := models.AdminResponseType(*req.ConsequenceType)
		consequence = &t
	}

	var completion intervention.LevelBCompletion
	b, err := s.transition(ctx, id, actor, models.AuditActionLevelBComplete, "complete monitoring", func(b *models.LevelBIntervention, now time.Time) error {
		var err error
		completion, err = intervention.CompleteLevelBMonitoring(b, s.cfg.SuccessThreshold, consequence, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("level b monitoring completed",
		zap.String("student_id", b.StudentID),
		zap.String("level_b_id", b.ID),
		zap.Float64("mean", completion.Mean),
		zap.Float64("threshold", s.cfg.SuccessThreshold),
		zap.Bool("escalated", completion.Escalated),
	)

	if !completion.SpawnReentry || s.reentries == nil {
		return b, nil
	}
	protocol, err := s.reentries.Spawn(ctx, ReentrySpawn{
		StudentID:        b.StudentID,
		SourceType:       models.ReentrySourceLevelB,
		SourceID:         b.ID,
		ReceivingTeacher: b.StaffName,
		ResetGoal:        b.Steps.ResetGoal.Goal,
		Actor:            actor,
	})
	if err != nil {
		s.logger.Error("reentry spawn failed after level b completion",
			zap.String("student_id", b.StudentID),
			zap.String("level_b_id", b.ID),
			zap.Error(err),
		)
		return nil, appErrors.PartialEscalation(err, "level b conference completed but the reentry protocol could not be created", map[string]interface{}{
			"committed":   map[string]interface{}{"record": recordLevelB, "id": b.ID, "status": b.Status},
			"failed":      map[string]interface{}{"record": recordReentry, "source_type": models.ReentrySourceLevelB, "source_id": b.ID},
			"repair_path": "POST /reentry with source_id",
		})
	}
	b.ReentryProtocolID = &protocol.ID
	return b, nil
}

func (s *LevelBService) transition(ctx context.Context, id string, actor *models.Actor, auditAction, action string, apply func(b *models.LevelBIntervention, now time.Time) error) (*models.LevelBIntervention, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	var from models.LevelBStatus
	now := s.now().UTC()
	b, err := s.repo.Mutate(ctx, id, func(b *models.LevelBIntervention) error {
		from = b.Status
		return apply(b, now)
	})
	if err != nil {
		return nil, mapError(err, "level b intervention", action)
	}
	s.decorate(b)

	if from != b.Status {
		s.logger.Info("level b conference transitioned",
			zap.String("student_id", b.StudentID),
			zap.String("level_b_id", b.ID),
			zap.String("from", string(from)),
			zap.String("to", string(b.Status)),
		)
		s.metrics.RecordTransition(recordLevelB, string(b.Status))
	}
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     auditAction,
		Resource:   recordLevelB,
		ResourceID: b.ID,
		Before:     map[string]interface{}{"status": from},
		After:      map[string]interface{}{"action": action, "status": b.Status},
	})
	return b, nil
}

func (s *LevelBService) decorate(b *models.LevelBIntervention) {
	b.MonitoringPeriodEnded = intervention.LevelBPeriodEnded(b, s.now(), s.cfg.Location)
}
