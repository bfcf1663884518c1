package dto

// ContextPacketRequest is the optional initial context packet.
type ContextPacketRequest struct {
	IncidentSummary           string `json:"incident_summary"`
	PatternReview             string `json:"pattern_review"`
	EnvironmentalFactors      string `json:"environmental_factors"`
	PriorInterventionsSummary string `json:"prior_interventions_summary"`
}

// CreateLevelCRequest opens a case.
type CreateLevelCRequest struct {
	StudentID             string                `json:"student_id" validate:"required"`
	TriggerType           string                `json:"trigger_type" validate:"required,oneof=safety_or_major_harm repeated_level_b level_b_escalation admin_referral"`
	EscalatedFromLevelBID *string               `json:"escalated_from_level_b_id"`
	ContextPacket         *ContextPacketRequest `json:"context_packet"`
}

// AssignCaseManagerRequest assigns the owning case manager.
type AssignCaseManagerRequest struct {
	CaseManagerID   string `json:"case_manager_id" validate:"required"`
	CaseManagerName string `json:"case_manager_name" validate:"required"`
}

// UpdateContextPacketRequest merges the provided fields.
type UpdateContextPacketRequest struct {
	IncidentSummary           *string `json:"incident_summary"`
	PatternReview             *string `json:"pattern_review"`
	EnvironmentalFactors      *string `json:"environmental_factors"`
	PriorInterventionsSummary *string `json:"prior_interventions_summary"`
}

// RecordAdminResponseRequest records the administrative response.
type RecordAdminResponseRequest struct {
	Type                 string `json:"type" validate:"required,oneof=parent_conference restorative_conference loss_of_privilege detention iss oss"`
	Details              string `json:"details"`
	ConsequenceStartDate string `json:"consequence_start_date" validate:"calendar_date"`
	ConsequenceEndDate   string `json:"consequence_end_date" validate:"calendar_date"`
}

// CreateReentryPlanRequest stores the support and re-entry plan.
type CreateReentryPlanRequest struct {
	SupportPlanGoal    string   `json:"support_plan_goal" validate:"required"`
	Strategies         []string `json:"strategies"`
	Mentor             string   `json:"mentor"`
	RepairActions      []string `json:"repair_actions"`
	ReentryDate        string   `json:"reentry_date" validate:"required,calendar_date"`
	ReentryType        string   `json:"reentry_type" validate:"required"`
	Restrictions       []string `json:"restrictions"`
	ReadinessChecklist []string `json:"readiness_checklist"`
	ReceivingTeacher   string   `json:"receiving_teacher"`
}

// LogCheckInRequest appends a daily check-in.
type LogCheckInRequest struct {
	Date        string   `json:"date" validate:"required,calendar_date"`
	SuccessRate *float64 `json:"success_rate" validate:"omitempty,rate_percent"`
	Notes       string   `json:"notes"`
	Concerns    string   `json:"concerns"`
}

// CloseCaseRequest closes the case.
type CloseCaseRequest struct {
	OutcomeStatus   string `json:"outcome_status" validate:"required,oneof=success partial unsuccessful referred"`
	OutcomeNotes    string `json:"outcome_notes"`
	ClosureCriteria string `json:"closure_criteria"`
}

// LevelCListQuery captures list filters from the query string.
type LevelCListQuery struct {
	StudentID        string `form:"student_id"`
	CaseManagerID    string `form:"case_manager_id"`
	Status           string `form:"status" validate:"omitempty,oneof=open active pending_reentry monitoring closed"`
	MyCaseload       bool   `form:"my_caseload"`
	PendingReentries bool   `form:"pending_reentries"`
	Limit            int    `form:"limit"`
	Offset           int    `form:"offset"`
}
