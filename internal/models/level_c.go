package models

import (
	"database/sql/driver"
	"time"
)

// LevelCStatus is the case-management lifecycle state.
type LevelCStatus string

const (
	LevelCStatusOpen           LevelCStatus = "open"
	LevelCStatusActive         LevelCStatus = "active"
	LevelCStatusPendingReentry LevelCStatus = "pending_reentry"
	LevelCStatusMonitoring     LevelCStatus = "monitoring"
	LevelCStatusClosed         LevelCStatus = "closed"
)

// Rank orders statuses so the case status only ever advances.
func (s LevelCStatus) Rank() int {
	switch s {
	case LevelCStatusOpen:
		return 0
	case LevelCStatusActive:
		return 1
	case LevelCStatusPendingReentry:
		return 2
	case LevelCStatusMonitoring:
		return 3
	case LevelCStatusClosed:
		return 4
	}
	return -1
}

// LevelCTriggerType records why the case was opened.
type LevelCTriggerType string

const (
	TriggerSafetyOrMajorHarm LevelCTriggerType = "safety_or_major_harm"
	TriggerRepeatedLevelB    LevelCTriggerType = "repeated_level_b"
	TriggerLevelBEscalation  LevelCTriggerType = "level_b_escalation"
	TriggerAdminReferral     LevelCTriggerType = "admin_referral"
)

// AdminResponseType enumerates administrative responses.
type AdminResponseType string

const (
	AdminResponseConference  AdminResponseType = "parent_conference"
	AdminResponseRestorative AdminResponseType = "restorative_conference"
	AdminResponseLossOfPriv  AdminResponseType = "loss_of_privilege"
	AdminResponseDetention   AdminResponseType = "detention"
	AdminResponseISS         AdminResponseType = "iss"
	AdminResponseOSS         AdminResponseType = "oss"
)

// ImpliesRemoval reports whether the response removes the student from class.
func (t AdminResponseType) ImpliesRemoval() bool {
	switch t {
	case AdminResponseDetention, AdminResponseISS, AdminResponseOSS:
		return true
	}
	return false
}

// ReentrySource maps a removal response onto a re-entry source type.
func (t AdminResponseType) ReentrySource() (ReentrySourceType, bool) {
	switch t {
	case AdminResponseDetention:
		return ReentrySourceDetention, true
	case AdminResponseISS:
		return ReentrySourceISS, true
	case AdminResponseOSS:
		return ReentrySourceOSS, true
	}
	return "", false
}

// Valid reports whether t is a known response type.
func (t AdminResponseType) Valid() bool {
	switch t {
	case AdminResponseConference, AdminResponseRestorative, AdminResponseLossOfPriv,
		AdminResponseDetention, AdminResponseISS, AdminResponseOSS:
		return true
	}
	return false
}

// LevelCOutcome is the recorded closure outcome.
type LevelCOutcome string

const (
	LevelCOutcomeSuccess      LevelCOutcome = "success"
	LevelCOutcomePartial      LevelCOutcome = "partial"
	LevelCOutcomeUnsuccessful LevelCOutcome = "unsuccessful"
	LevelCOutcomeReferred     LevelCOutcome = "referred"
)

// Valid reports whether o is a known outcome.
func (o LevelCOutcome) Valid() bool {
	switch o {
	case LevelCOutcomeSuccess, LevelCOutcomePartial, LevelCOutcomeUnsuccessful, LevelCOutcomeReferred:
		return true
	}
	return false
}

// ContextPacket is the structured incident summary reviewed by administrators.
type ContextPacket struct {
	IncidentSummary           string `json:"incident_summary,omitempty"`
	PatternReview             string `json:"pattern_review,omitempty"`
	EnvironmentalFactors      string `json:"environmental_factors,omitempty"`
	PriorInterventionsSummary string `json:"prior_interventions_summary,omitempty"`
}

// Value implements driver.Valuer.
func (p ContextPacket) Value() (driver.Value, error) { return marshalJSONB(p) }

// Scan implements sql.Scanner.
func (p *ContextPacket) Scan(src interface{}) error { return unmarshalJSONB(src, p) }

// AdminResponse is the recorded administrative action.
type AdminResponse struct {
	Type                 AdminResponseType `json:"type"`
	Details              string            `json:"details,omitempty"`
	ConsequenceStartDate *time.Time        `json:"consequence_start_date,omitempty"`
	ConsequenceEndDate   *time.Time        `json:"consequence_end_date,omitempty"`
	RecordedBy           string            `json:"recorded_by,omitempty"`
	RecordedAt           time.Time         `json:"recorded_at"`
}

// Value implements driver.Valuer.
func (r AdminResponse) Value() (driver.Value, error) { return marshalJSONB(r) }

// Scan implements sql.Scanner.
func (r *AdminResponse) Scan(src interface{}) error { return unmarshalJSONB(src, r) }

// ReentryPlan describes how the student returns to normal scheduling.
type ReentryPlan struct {
	SupportPlanGoal    string          `json:"support_plan_goal"`
	Strategies         []string        `json:"strategies,omitempty"`
	Mentor             string          `json:"mentor,omitempty"`
	RepairActions      []string        `json:"repair_actions,omitempty"`
	ReentryDate        time.Time       `json:"reentry_date"`
	ReentryType        string          `json:"reentry_type"`
	Restrictions       []string        `json:"restrictions,omitempty"`
	ReadinessChecklist []ChecklistItem `json:"readiness_checklist,omitempty"`
}

// Value implements driver.Valuer.
func (p ReentryPlan) Value() (driver.Value, error) { return marshalJSONB(p) }

// Scan implements sql.Scanner.
func (p *ReentryPlan) Scan(src interface{}) error { return unmarshalJSONB(src, p) }

// CheckIn is one daily case-manager check-in.
type CheckIn struct {
	Date        string    `json:"date"`
	SuccessRate *float64  `json:"success_rate,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Concerns    string    `json:"concerns,omitempty"`
	LoggedBy    string    `json:"logged_by"`
	LoggedAt    time.Time `json:"logged_at"`
}

// CheckIns is the ordered check-in list.
type CheckIns []CheckIn

// Value implements driver.Valuer.
func (c CheckIns) Value() (driver.Value, error) {
	if c == nil {
		return marshalJSONB([]CheckIn{})
	}
	return marshalJSONB([]CheckIn(c))
}

// Scan implements sql.Scanner.
func (c *CheckIns) Scan(src interface{}) error {
	list := []CheckIn{}
	if err := unmarshalJSONB(src, &list); err != nil {
		return err
	}
	*c = list
	return nil
}

// LevelCCase is a full case-management record.
type LevelCCase struct {
	ID                    string            `db:"id" json:"id"`
	StudentID             string            `db:"student_id" json:"student_id"`
	CaseManagerID         *string           `db:"case_manager_id" json:"case_manager_id,omitempty"`
	CaseManagerName       *string           `db:"case_manager_name" json:"case_manager_name,omitempty"`
	TriggerType           LevelCTriggerType `db:"trigger_type" json:"trigger_type"`
	EscalatedFromLevelBID *string           `db:"escalated_from_level_b_id" json:"escalated_from_level_b_id,omitempty"`
	Status                LevelCStatus      `db:"status" json:"status"`
	ContextPacket         ContextPacket     `db:"context_packet" json:"context_packet"`
	AdminResponse         *AdminResponse    `db:"admin_response" json:"admin_response,omitempty"`
	ReentryPlan           *ReentryPlan      `db:"reentry_plan" json:"reentry_plan,omitempty"`
	DailyCheckIns         CheckIns          `db:"daily_check_ins" json:"daily_check_ins"`
	OutcomeStatus         *LevelCOutcome    `db:"outcome_status" json:"outcome_status,omitempty"`
	OutcomeNotes          *string           `db:"outcome_notes" json:"outcome_notes,omitempty"`
	ClosureCriteria       *string           `db:"closure_criteria" json:"closure_criteria,omitempty"`
	ReentryProtocolID     *string           `db:"reentry_protocol_id" json:"reentry_protocol_id,omitempty"`
	CreatedBy             string            `db:"created_by" json:"created_by"`
	ClosedAt              *time.Time        `db:"closed_at" json:"closed_at,omitempty"`
	Version               int               `db:"version" json:"version"`
	CreatedAt             time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time         `db:"updated_at" json:"updated_at"`
}

// LevelCFilter constrains Tier-C listings.
type LevelCFilter struct {
	StudentID        string
	CaseManagerID    string
	Status           LevelCStatus
	PendingReentries bool
	Limit            int
	Offset           int
}
