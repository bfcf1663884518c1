package dto

// CreateReentryRequest creates a protocol directly, or repairs a failed spawn when
// SourceID names the Tier-B conference or Tier-C case it belongs to.
type CreateReentryRequest struct {
	StudentID                 string   `json:"student_id" validate:"required"`
	SourceType                string   `json:"source_type" validate:"required,oneof=level_b detention iss oss"`
	SourceID                  *string  `json:"source_id"`
	ReadinessChecklist        []string `json:"readiness_checklist"`
	ReentryDate               string   `json:"reentry_date" validate:"calendar_date"`
	ReceivingTeacher          string   `json:"receiving_teacher"`
	ResetGoalFromIntervention string   `json:"reset_goal_from_intervention"`
}

// ChecklistToggleRequest marks one checklist item.
type ChecklistToggleRequest struct {
	Index     int  `json:"index" validate:"gte=0"`
	Completed bool `json:"completed"`
}

// UpdateChecklistRequest toggles one or more checklist items.
type UpdateChecklistRequest struct {
	Items []ChecklistToggleRequest `json:"items" validate:"required,min=1,dive"`
}

// StartReentryRequest starts the re-entry monitoring window.
type StartReentryRequest struct {
	MonitoringType string `json:"monitoring_type" validate:"required,oneof=3_day 5_day 10_day"`
}

// LogDailyEntryRequest appends a monitoring log entry.
type LogDailyEntryRequest struct {
	Date              string   `json:"date" validate:"required,calendar_date"`
	Notes             string   `json:"notes"`
	SuccessIndicators []string `json:"success_indicators"`
	Concerns          []string `json:"concerns"`
}

// CompleteReentryRequest closes the protocol.
type CompleteReentryRequest struct {
	Outcome string `json:"outcome" validate:"required,oneof=success partial escalated"`
	Notes   string `json:"notes"`
}

// ReentryListQuery captures list filters from the query string.
type ReentryListQuery struct {
	StudentID  string `form:"student_id"`
	SourceType string `form:"source_type" validate:"omitempty,oneof=level_b detention iss oss"`
	Status     string `form:"status" validate:"omitempty,oneof=pending ready active completed"`
	Pending    bool   `form:"pending"`
	Active     bool   `form:"active"`
	Limit      int    `form:"limit"`
	Offset     int    `form:"offset"`
}
