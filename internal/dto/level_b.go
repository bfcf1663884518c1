package dto

import "encoding/json"

// CreateLevelBRequest opens a reset conference.
type CreateLevelBRequest struct {
	StudentID             string  `json:"student_id" validate:"required"`
	DomainID              string  `json:"domain_id" validate:"required"`
	EscalationTrigger     string  `json:"escalation_trigger" validate:"required"`
	EscalatedFromLevelAID *string `json:"escalated_from_level_a_id"`
}

// UpdateStepRequest carries one step payload; Data is decoded by step key.
type UpdateStepRequest struct {
	Step string          `json:"step" validate:"required,oneof=b1 b2 b3 b4 b5 b6 b7"`
	Data json.RawMessage `json:"data"`
}

// StartLevelBMonitoringRequest starts the monitoring period.
type StartLevelBMonitoringRequest struct {
	MonitoringMethod string `json:"monitoring_method" validate:"required"`
}

// LogDailyRateRequest records one day's success rate.
type LogDailyRateRequest struct {
	Date        string  `json:"date" validate:"required,calendar_date"`
	SuccessRate float64 `json:"success_rate" validate:"rate_percent"`
}

// CompleteLevelBRequest closes the monitoring period.
type CompleteLevelBRequest struct {
	ConsequenceType *string `json:"consequence_type" validate:"omitempty,oneof=detention iss oss"`
}

// LevelBListQuery captures list filters from the query string.
type LevelBListQuery struct {
	StudentID        string `form:"student_id"`
	DomainID         string `form:"domain_id"`
	StaffID          string `form:"staff_id"`
	Status           string `form:"status" validate:"omitempty,oneof=in_progress monitoring completed_success completed_escalated"`
	ActiveMonitoring bool   `form:"active_monitoring"`
	Limit            int    `form:"limit"`
	Offset           int    `form:"offset"`
}
