package intervention

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

// CaseAction names a Tier-C operation.
type CaseAction string

const (
	ActionAssignManager     CaseAction = "assign_case_manager"
	ActionUpdateContext     CaseAction = "update_context_packet"
	ActionRecordAdmin       CaseAction = "record_admin_response"
	ActionCreateReentryPlan CaseAction = "create_reentry_plan"
	ActionStartMonitoring   CaseAction = "start_monitoring"
	ActionLogCheckIn        CaseAction = "log_check_in"
	ActionCloseCase         CaseAction = "close_case"
)

type caseTransition struct {
	from []models.LevelCStatus
	// to is the status the action advances to; empty keeps the current status.
	to models.LevelCStatus
}

var (
	openStatuses = []models.LevelCStatus{
		models.LevelCStatusOpen, models.LevelCStatusActive, models.LevelCStatusPendingReentry, models.LevelCStatusMonitoring,
	}

	caseTransitions = map[CaseAction]caseTransition{
		ActionAssignManager: {from: openStatuses, to: models.LevelCStatusActive},
		ActionUpdateContext: {from: openStatuses, to: models.LevelCStatusActive},
		ActionRecordAdmin:   {from: openStatuses, to: models.LevelCStatusActive},
		ActionCreateReentryPlan: {
			from: []models.LevelCStatus{models.LevelCStatusOpen, models.LevelCStatusActive, models.LevelCStatusPendingReentry},
			to:   models.LevelCStatusPendingReentry,
		},
		ActionStartMonitoring: {
			from: []models.LevelCStatus{models.LevelCStatusOpen, models.LevelCStatusActive, models.LevelCStatusPendingReentry},
			to:   models.LevelCStatusMonitoring,
		},
		ActionLogCheckIn: {from: openStatuses},
		ActionCloseCase:  {from: openStatuses, to: models.LevelCStatusClosed},
	}
)

// CanApplyCaseAction evaluates whether action is legal from status.
func CanApplyCaseAction(action CaseAction, status models.LevelCStatus) GuardResult {
	t, ok := caseTransitions[action]
	if !ok {
		return GuardResult{Kind: KindValidation, Reason: fmt.Sprintf("unknown case action %s", action)}
	}
	for _, s := range t.from {
		if s == status {
			return allow()
		}
	}
	if status == models.LevelCStatusClosed {
		return GuardResult{Kind: KindConflict, Reason: "case is closed"}
	}
	return GuardResult{Kind: KindConflict, Reason: fmt.Sprintf("cannot %s from status %s", strings.ReplaceAll(string(action), "_", " "), status)}
}

// NextCaseStatus returns the status after action. Status never regresses.
func NextCaseStatus(action CaseAction, status models.LevelCStatus) models.LevelCStatus {
	t := caseTransitions[action]
	if t.to == "" || t.to.Rank() < status.Rank() {
		return status
	}
	return t.to
}

func applyCaseAction(c *models.LevelCCase, action CaseAction) error {
	if err := CanApplyCaseAction(action, c.Status).Error(); err != nil {
		return err
	}
	c.Status = NextCaseStatus(action, c.Status)
	return nil
}

// NewLevelCInput carries the fields required to open a case.
type NewLevelCInput struct {
	StudentID             string
	TriggerType           models.LevelCTriggerType
	EscalatedFromLevelBID *string
	ContextPacket         models.ContextPacket
	CreatedBy             string
}

// NewLevelC builds an open case.
func NewLevelC(in NewLevelCInput) (*models.LevelCCase, error) {
	if strings.TrimSpace(in.StudentID) == "" {
		return nil, invalid("student_id is required")
	}
	switch in.TriggerType {
	case models.TriggerSafetyOrMajorHarm, models.TriggerRepeatedLevelB, models.TriggerLevelBEscalation, models.TriggerAdminReferral:
	default:
		return nil, invalid("trigger_type %q is not recognised", in.TriggerType)
	}
	if in.EscalatedFromLevelBID != nil && in.TriggerType != models.TriggerLevelBEscalation && in.TriggerType != models.TriggerRepeatedLevelB {
		return nil, invalid("escalated_from_level_b_id requires a level_b_escalation or repeated_level_b trigger")
	}
	return &models.LevelCCase{
		StudentID:             in.StudentID,
		TriggerType:           in.TriggerType,
		EscalatedFromLevelBID: in.EscalatedFromLevelBID,
		Status:                models.LevelCStatusOpen,
		ContextPacket:         in.ContextPacket,
		DailyCheckIns:         models.CheckIns{},
		CreatedBy:             in.CreatedBy,
	}, nil
}

// AssignCaseManager sets the owning case manager.
func AssignCaseManager(c *models.LevelCCase, managerID, managerName string) error {
	if strings.TrimSpace(managerID) == "" {
		return invalid("case_manager_id is required")
	}
	if err := applyCaseAction(c, ActionAssignManager); err != nil {
		return err
	}
	c.CaseManagerID = &managerID
	c.CaseManagerName = &managerName
	return nil
}

// ContextPacketPatch holds the fields to merge into a context packet. Nil fields keep
// their current value.
type ContextPacketPatch struct {
	IncidentSummary           *string
	PatternReview             *string
	EnvironmentalFactors      *string
	PriorInterventionsSummary *string
}

// UpdateContextPacket merges partial fields into the packet.
func UpdateContextPacket(c *models.LevelCCase, patch ContextPacketPatch) error {
	if patch.IncidentSummary == nil && patch.PatternReview == nil && patch.EnvironmentalFactors == nil && patch.PriorInterventionsSummary == nil {
		return invalid("at least one context packet field is required")
	}
	if err := applyCaseAction(c, ActionUpdateContext); err != nil {
		return err
	}
	if patch.IncidentSummary != nil {
		c.ContextPacket.IncidentSummary = *patch.IncidentSummary
	}
	if patch.PatternReview != nil {
		c.ContextPacket.PatternReview = *patch.PatternReview
	}
	if patch.EnvironmentalFactors != nil {
		c.ContextPacket.EnvironmentalFactors = *patch.EnvironmentalFactors
	}
	if patch.PriorInterventionsSummary != nil {
		c.ContextPacket.PriorInterventionsSummary = *patch.PriorInterventionsSummary
	}
	return nil
}

// RecordAdminResponse stores the administrative response, replacing any earlier one.
func RecordAdminResponse(c *models.LevelCCase, resp models.AdminResponse, now time.Time) error {
	if !resp.Type.Valid() {
		return invalid("admin response type %q is not recognised", resp.Type)
	}
	if resp.ConsequenceStartDate != nil && resp.ConsequenceEndDate != nil && resp.ConsequenceEndDate.Before(*resp.ConsequenceStartDate) {
		return invalid("consequence_end_date must not be before consequence_start_date")
	}
	if err := applyCaseAction(c, ActionRecordAdmin); err != nil {
		return err
	}
	resp.RecordedAt = now
	c.AdminResponse = &resp
	return nil
}

// ReentryPlanResult reports whether a re-entry protocol must be spawned for the plan.
type ReentryPlanResult struct {
	SpawnReentry bool
	SourceType   models.ReentrySourceType
}

// CreateReentryPlan stores the plan. Removal-type re-entries require a recorded admin
// response; a removal response asks the caller to spawn a re-entry protocol once.
func CreateReentryPlan(c *models.LevelCCase, plan models.ReentryPlan) (ReentryPlanResult, error) {
	if strings.TrimSpace(plan.SupportPlanGoal) == "" {
		return ReentryPlanResult{}, invalid("support_plan_goal is required")
	}
	if plan.ReentryDate.IsZero() {
		return ReentryPlanResult{}, invalid("reentry_date is required")
	}
	if strings.TrimSpace(plan.ReentryType) == "" {
		return ReentryPlanResult{}, invalid("reentry_type is required")
	}
	if err := CanApplyCaseAction(ActionCreateReentryPlan, c.Status).Error(); err != nil {
		return ReentryPlanResult{}, err
	}
	if models.AdminResponseType(plan.ReentryType).ImpliesRemoval() && c.AdminResponse == nil {
		return ReentryPlanResult{}, invalid("an admin response must be recorded before a %s re-entry plan", plan.ReentryType)
	}

	c.Status = NextCaseStatus(ActionCreateReentryPlan, c.Status)
	c.ReentryPlan = &plan

	var result ReentryPlanResult
	if c.AdminResponse != nil && c.ReentryProtocolID == nil {
		if source, ok := c.AdminResponse.Type.ReentrySource(); ok {
			result = ReentryPlanResult{SpawnReentry: true, SourceType: source}
		}
	}
	return result, nil
}

// StartCaseMonitoring moves the case into monitoring.
func StartCaseMonitoring(c *models.LevelCCase) error {
	return applyCaseAction(c, ActionStartMonitoring)
}

// LogCheckIn appends a daily check-in.
func LogCheckIn(c *models.LevelCCase, in models.CheckIn, now time.Time) error {
	if _, err := ParseCalendarDate(in.Date); err != nil {
		return err
	}
	if in.SuccessRate != nil && (*in.SuccessRate < 0 || *in.SuccessRate > 100) {
		return invalid("success_rate must be between 0 and 100")
	}
	if err := applyCaseAction(c, ActionLogCheckIn); err != nil {
		return err
	}
	in.LoggedAt = now
	c.DailyCheckIns = append(c.DailyCheckIns, in)
	return nil
}

// CloseCaseInput carries the closure fields.
type CloseCaseInput struct {
	OutcomeStatus   models.LevelCOutcome
	OutcomeNotes    string
	ClosureCriteria string
}

// CloseCase closes the case. The closed state is terminal.
func CloseCase(c *models.LevelCCase, in CloseCaseInput, now time.Time) error {
	if err := CanApplyCaseAction(ActionCloseCase, c.Status).Error(); err != nil {
		return err
	}
	if in.OutcomeStatus == "" {
		return invalid("outcome_status is required")
	}
	if !in.OutcomeStatus.Valid() {
		return invalid("outcome_status %q is not recognised", in.OutcomeStatus)
	}
	if err := applyCaseAction(c, ActionCloseCase); err != nil {
		return err
	}
	outcome := in.OutcomeStatus
	c.OutcomeStatus = &outcome
	if in.OutcomeNotes != "" {
		notes := in.OutcomeNotes
		c.OutcomeNotes = &notes
	}
	if in.ClosureCriteria != "" {
		criteria := in.ClosureCriteria
		c.ClosureCriteria = &criteria
	}
	c.ClosedAt = &now
	return nil
}
