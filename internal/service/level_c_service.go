package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-intervention-api/internal/core/intervention"
	"github.com/noah-isme/sma-intervention-api/internal/dto"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
	"github.com/noah-isme/sma-intervention-api/pkg/export"
)

type levelCStore interface {
	Create(ctx context.Context, c *models.LevelCCase) error
	FindByID(ctx context.Context, id string) (*models.LevelCCase, error)
	List(ctx context.Context, filter models.LevelCFilter) ([]models.LevelCCase, int, error)
	Mutate(ctx context.Context, id string, fn func(c *models.LevelCCase) error) (*models.LevelCCase, error)
}

// LevelCService drives the Tier-C case state machine.
type LevelCService struct {
	repo      levelCStore
	reentries reentrySpawner
	audit     *AuditService
	metrics   *MetricsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewLevelCService constructs the service.
func NewLevelCService(repo levelCStore, reentries reentrySpawner, audit *AuditService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *LevelCService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LevelCService{
		repo:      repo,
		reentries: reentries,
		audit:     audit,
		metrics:   metrics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// Create opens a case. A referenced Tier-B conference must have escalated and is
// linked in the same transaction.
func (s *LevelCService) Create(ctx context.Context, req dto.CreateLevelCRequest, actor *models.Actor) (*models.LevelCCase, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := validatePayload(s.validator, req, "invalid level c payload"); err != nil {
		return nil, err
	}
	var packet models.ContextPacket
	if req.ContextPacket != nil {
		packet = models.ContextPacket{
			IncidentSummary:           req.ContextPacket.IncidentSummary,
			PatternReview:             req.ContextPacket.PatternReview,
			EnvironmentalFactors:      req.ContextPacket.EnvironmentalFactors,
			PriorInterventionsSummary: req.ContextPacket.PriorInterventionsSummary,
		}
	}
	c, err := intervention.NewLevelC(intervention.NewLevelCInput{
		StudentID:             req.StudentID,
		TriggerType:           models.LevelCTriggerType(req.TriggerType),
		EscalatedFromLevelBID: req.EscalatedFromLevelBID,
		ContextPacket:         packet,
		CreatedBy:             actor.ID,
	})
	if err != nil {
		return nil, mapError(err, "level c case", "create level c case")
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, mapError(err, "level b intervention", "create level c case")
	}

	fields := []zap.Field{
		zap.String("student_id", c.StudentID),
		zap.String("level_c_id", c.ID),
		zap.String("trigger", string(c.TriggerType)),
	}
	if c.EscalatedFromLevelBID != nil {
		fields = append(fields, zap.String("level_b_id", *c.EscalatedFromLevelBID))
		s.metrics.RecordEscalation(recordLevelB, recordLevelC)
	}
	s.logger.Info("level c case opened", fields...)
	s.metrics.RecordTransition(recordLevelC, string(c.Status))
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionLevelCCreate,
		Resource:   recordLevelC,
		ResourceID: c.ID,
		After:      c,
	})
	return c, nil
}

// Get returns one case.
func (s *LevelCService) Get(ctx context.Context, id string) (*models.LevelCCase, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "level c case", "load level c case")
	}
	return c, nil
}

// List returns cases matching query; my_caseload restricts to the caller's cases.
func (s *LevelCService) List(ctx context.Context, query dto.LevelCListQuery, actor *models.Actor) ([]models.LevelCCase, *models.Pagination, error) {
	if err := validatePayload(s.validator, query, "invalid level c filter"); err != nil {
		return nil, nil, err
	}
	filter := models.LevelCFilter{
		StudentID:        query.StudentID,
		CaseManagerID:    query.CaseManagerID,
		Status:           models.LevelCStatus(query.Status),
		PendingReentries: query.PendingReentries,
		Limit:            query.Limit,
		Offset:           query.Offset,
	}
	if query.MyCaseload {
		if actor == nil {
			return nil, nil, appErrors.ErrUnauthorized
		}
		filter.CaseManagerID = actor.ID
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, mapError(err, "level c case", "list level c cases")
	}
	if items == nil {
		items = []models.LevelCCase{}
	}
	limit, offset := models.NormalizePage(query.Limit, query.Offset)
	return items, &models.Pagination{Limit: limit, Offset: offset, TotalCount: total}, nil
}

// AssignCaseManager sets the owning case manager.
func (s *LevelCService) AssignCaseManager(ctx context.Context, id string, req dto.AssignCaseManagerRequest, actor *models.Actor) (*models.LevelCCase, error) {
	if err := validatePayload(s.validator, req, "invalid case manager payload"); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, actor, intervention.ActionAssignManager, func(c *models.LevelCCase, _ time.Time) error {
		return intervention.AssignCaseManager(c, req.CaseManagerID, req.CaseManagerName)
	})
}

// UpdateContextPacket merges the provided context packet fields.
func (s *LevelCService) UpdateContextPacket(ctx context.Context, id string, req dto.UpdateContextPacketRequest, actor *models.Actor) (*models.LevelCCase, error) {
	patch := intervention.ContextPacketPatch{
		IncidentSummary:           req.IncidentSummary,
		PatternReview:             req.PatternReview,
		EnvironmentalFactors:      req.EnvironmentalFactors,
		PriorInterventionsSummary: req.PriorInterventionsSummary,
	}
	return s.transition(ctx, id, actor, intervention.ActionUpdateContext, func(c *models.LevelCCase, _ time.Time) error {
		return intervention.UpdateContextPacket(c, patch)
	})
}

// RecordAdminResponse stores the administrative response.
func (s *LevelCService) RecordAdminResponse(ctx context.Context, id string, req dto.RecordAdminResponseRequest, actor *models.Actor) (*models.LevelCCase, error) {
	if err := validatePayload(s.validator, req, "invalid admin response payload"); err != nil {
		return nil, err
	}
	start, err := parseOptionalDate(req.ConsequenceStartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseOptionalDate(req.ConsequenceEndDate)
	if err != nil {
		return nil, err
	}
	resp := models.AdminResponse{
		Type:                 models.AdminResponseType(req.Type),
		Details:              req.Details,
		ConsequenceStartDate: start,
		ConsequenceEndDate:   end,
		RecordedBy:           actorID(actor),
	}
	return s.transition(ctx, id, actor, intervention.ActionRecordAdmin, func(c *models.LevelCCase, now time.Time) error {
		return intervention.RecordAdminResponse(c, resp, now)
	})
}

// CreateReentryPlan stores the plan. A removal admin response spawns a re-entry
// protocol after the case commits; a failed spawn returns PARTIAL_ESCALATION.
func (s *LevelCService) CreateReentryPlan(ctx context.Context, id string, req dto.CreateReentryPlanRequest, actor *models.Actor) (*models.LevelCCase, error) {
	if err := validatePayload(s.validator, req, "invalid reentry plan payload"); err != nil {
		return nil, err
	}
	date, err := parseOptionalDate(req.ReentryDate)
	if err != nil {
		return nil, err
	}
	plan := models.ReentryPlan{
		SupportPlanGoal:    req.SupportPlanGoal,
		Strategies:         req.Strategies,
		Mentor:             req.Mentor,
		RepairActions:      req.RepairActions,
		ReentryDate:        *date,
		ReentryType:        req.ReentryType,
		Restrictions:       req.Restrictions,
		ReadinessChecklist: models.NewChecklist(req.ReadinessChecklist),
	}

	var result intervention.ReentryPlanResult
	c, err := s.transition(ctx, id, actor, intervention.ActionCreateReentryPlan, func(c *models.LevelCCase, _ time.Time) error {
		var err error
		result, err = intervention.CreateReentryPlan(c, plan)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !result.SpawnReentry || s.reentries == nil {
		return c, nil
	}

	protocol, err := s.reentries.Spawn(ctx, ReentrySpawn{
		StudentID:        c.StudentID,
		SourceType:       result.SourceType,
		SourceID:         c.ID,
		Checklist:        req.ReadinessChecklist,
		ReentryDate:      date,
		ReceivingTeacher: req.ReceivingTeacher,
		ResetGoal:        plan.SupportPlanGoal,
		Actor:            actor,
	})
	if err != nil {
		s.logger.Error("reentry spawn failed after reentry plan",
			zap.String("student_id", c.StudentID),
			zap.String("level_c_id", c.ID),
			zap.Error(err),
		)
		return nil, appErrors.PartialEscalation(err, "reentry plan saved but the reentry protocol could not be created", map[string]interface{}{
			"committed":   map[string]interface{}{"record": recordLevelC, "id": c.ID, "status": c.Status},
			"failed":      map[string]interface{}{"record": recordReentry, "source_type": result.SourceType, "source_id": c.ID},
			"repair_path": "POST /reentry with source_id",
		})
	}
	c.ReentryProtocolID = &protocol.ID
	return c, nil
}

// StartMonitoring moves the case into monitoring.
func (s *LevelCService) StartMonitoring(ctx context.Context, id string, actor *models.Actor) (*models.LevelCCase, error) {
	return s.transition(ctx, id, actor, intervention.ActionStartMonitoring, func(c *models.LevelCCase, _ time.Time) error {
		return intervention.StartCaseMonitoring(c)
	})
}

// LogCheckIn appends a daily check-in.
func (s *LevelCService) LogCheckIn(ctx context.Context, id string, req dto.LogCheckInRequest, actor *models.Actor) (*models.LevelCCase, error) {
	if err := validatePayload(s.validator, req, "invalid check-in payload"); err != nil {
		return nil, err
	}
	in := models.CheckIn{
		Date:        req.Date,
		SuccessRate: req.SuccessRate,
		Notes:       req.Notes,
		Concerns:    req.Concerns,
		LoggedBy:    actorID(actor),
	}
	return s.transition(ctx, id, actor, intervention.ActionLogCheckIn, func(c *models.LevelCCase, now time.Time) error {
		return intervention.LogCheckIn(c, in, now)
	})
}

// Close closes the case. Closing requires an outcome and cannot be repeated.
func (s *LevelCService) Close(ctx context.Context, id string, req dto.CloseCaseRequest, actor *models.Actor) (*models.LevelCCase, error) {
	if err := validatePayload(s.validator, req, "invalid close payload"); err != nil {
		return nil, err
	}
	in := intervention.CloseCaseInput{
		OutcomeStatus:   models.LevelCOutcome(req.OutcomeStatus),
		OutcomeNotes:    req.OutcomeNotes,
		ClosureCriteria: req.ClosureCriteria,
	}
	return s.transition(ctx, id, actor, intervention.ActionCloseCase, func(c *models.LevelCCase, now time.Time) error {
		return intervention.CloseCase(c, in, now)
	})
}

// Export renders the case packet as pdf or csv.
func (s *LevelCService) Export(ctx context.Context, id, format string) (*Document, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sections := caseSections(c, s.loc)
	switch format {
	case "", "pdf":
		body, err := s.pdf.RenderSections("Tier-C Case Packet", sections)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render case packet")
		}
		return &Document{Filename: fmt.Sprintf("case-%s.pdf", c.ID), ContentType: "application/pdf", Body: body}, nil
	case "csv":
		body, err := s.csv.Render(export.SectionsToDataset(sections))
		if err != nil {
			return nil, appErrors.Internal(err, "failed to render case packet")
		}
		return &Document{Filename: fmt.Sprintf("case-%s.csv", c.ID), ContentType: "text/csv", Body: body}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv")
	}
}

func (s *LevelCService) transition(ctx context.Context, id string, actor *models.Actor, action intervention.CaseAction, apply func(c *models.LevelCCase, now time.Time) error) (*models.LevelCCase, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	var from models.LevelCStatus
	now := s.now().UTC()
	c, err := s.repo.Mutate(ctx, id, func(c *models.LevelCCase) error {
		from = c.Status
		return apply(c, now)
	})
	if err != nil {
		return nil, mapError(err, "level c case", strings.ReplaceAll(string(action), "_", " "))
	}

	if from != c.Status {
		s.logger.Info("level c case transitioned",
			zap.String("student_id", c.StudentID),
			zap.String("level_c_id", c.ID),
			zap.String("action", string(action)),
			zap.String("from", string(from)),
			zap.String("to", string(c.Status)),
		)
		s.metrics.RecordTransition(recordLevelC, string(c.Status))
	}
	auditAction := models.AuditActionLevelCTransition
	if action == intervention.ActionCloseCase {
		auditAction = models.AuditActionLevelCClose
	}
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     auditAction,
		Resource:   recordLevelC,
		ResourceID: c.ID,
		Before:     map[string]interface{}{"status": from},
		After:      map[string]interface{}{"action": action, "status": c.Status},
	})
	return c, nil
}

func caseSections(c *models.LevelCCase, loc *time.Location) []export.Section {
	optional := func(v *string) string {
		if v == nil {
			return ""
		}
		return *v
	}
	day := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return intervention.CalendarDate(*t, loc)
	}

	sections := []export.Section{
		{Title: "Case", Fields: []export.Field{
			{Label: "Case ID", Value: c.ID},
			{Label: "Student ID", Value: c.StudentID},
			{Label: "Status", Value: string(c.Status)},
			{Label: "Trigger", Value: string(c.TriggerType)},
			{Label: "Case manager", Value: optional(c.CaseManagerName)},
			{Label: "Opened", Value: intervention.CalendarDate(c.CreatedAt, loc)},
		}},
		{Title: "Context packet", Fields: []export.Field{
			{Label: "Incident summary", Value: c.ContextPacket.IncidentSummary},
			{Label: "Pattern review", Value: c.ContextPacket.PatternReview},
			{Label: "Environmental factors", Value: c.ContextPacket.EnvironmentalFactors},
			{Label: "Prior interventions", Value: c.ContextPacket.PriorInterventionsSummary},
		}},
	}
	if r := c.AdminResponse; r != nil {
		sections = append(sections, export.Section{Title: "Administrative response", Fields: []export.Field{
			{Label: "Type", Value: string(r.Type)},
			{Label: "Details", Value: r.Details},
			{Label: "Consequence start", Value: day(r.ConsequenceStartDate)},
			{Label: "Consequence end", Value: day(r.ConsequenceEndDate)},
		}})
	}
	if p := c.ReentryPlan; p != nil {
		fields := []export.Field{
			{Label: "Support plan goal", Value: p.SupportPlanGoal},
			{Label: "Strategies", Value: strings.Join(p.Strategies, "; ")},
			{Label: "Mentor", Value: p.Mentor},
			{Label: "Repair actions", Value: strings.Join(p.RepairActions, "; ")},
			{Label: "Re-entry date", Value: day(&p.ReentryDate)},
			{Label: "Re-entry type", Value: p.ReentryType},
			{Label: "Restrictions", Value: strings.Join(p.Restrictions, "; ")},
		}
		for _, item := range p.ReadinessChecklist {
			mark := "open"
			if item.Completed {
				mark = "done"
			}
			fields = append(fields, export.Field{Label: "Checklist", Value: fmt.Sprintf("%s (%s)", item.Item, mark)})
		}
		sections = append(sections, export.Section{Title: "Re-entry plan", Fields: fields})
	}
	if len(c.DailyCheckIns) > 0 {
		fields := make([]export.Field, 0, len(c.DailyCheckIns))
		for _, in := range c.DailyCheckIns {
			value := in.Notes
			if in.SuccessRate != nil {
				value = fmt.Sprintf("%.0f%% %s", *in.SuccessRate, in.Notes)
			}
			if in.Concerns != "" {
				value = strings.TrimSpace(value + " | concerns: " + in.Concerns)
			}
			fields = append(fields, export.Field{Label: in.Date, Value: strings.TrimSpace(value)})
		}
		sections = append(sections, export.Section{Title: "Daily check-ins", Fields: fields})
	}
	if c.OutcomeStatus != nil {
		sections = append(sections, export.Section{Title: "Outcome", Fields: []export.Field{
			{Label: "Outcome", Value: string(*c.OutcomeStatus)},
			{Label: "Notes", Value: optional(c.OutcomeNotes)},
			{Label: "Closure criteria", Value: optional(c.ClosureCriteria)},
			{Label: "Closed", Value: day(c.ClosedAt)},
		}})
	}
	return sections
}
