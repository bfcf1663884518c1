package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// LevelBStatus captures the reset conference lifecycle.
type LevelBStatus string

const (
	LevelBStatusInProgress         LevelBStatus = "in_progress"
	LevelBStatusMonitoring         LevelBStatus = "monitoring"
	LevelBStatusCompletedSuccess   LevelBStatus = "completed_success"
	LevelBStatusCompletedEscalated LevelBStatus = "completed_escalated"
)

// Terminal reports whether no further transition is possible.
func (s LevelBStatus) Terminal() bool {
	return s == LevelBStatusCompletedSuccess || s == LevelBStatusCompletedEscalated
}

// LevelBStepKey selects one of the seven conference steps.
type LevelBStepKey string

const (
	StepRegulate      LevelBStepKey = "b1"
	StepPatternNaming LevelBStepKey = "b2"
	StepReflection    LevelBStepKey = "b3"
	StepRepair        LevelBStepKey = "b4"
	StepReplacement   LevelBStepKey = "b5"
	StepResetGoal     LevelBStepKey = "b6"
	StepDocumentation LevelBStepKey = "b7"
)

// LevelBStepKeys lists the steps in nominal order.
var LevelBStepKeys = []LevelBStepKey{
	StepRegulate, StepPatternNaming, StepReflection, StepRepair, StepReplacement, StepResetGoal, StepDocumentation,
}

// Valid reports whether k names a known step.
func (k LevelBStepKey) Valid() bool {
	for _, known := range LevelBStepKeys {
		if k == known {
			return true
		}
	}
	return false
}

// LevelBStep is implemented by every step payload type.
type LevelBStep interface {
	StepKey() LevelBStepKey
	IsCompleted() bool
}

// RegulateStep (b1) records how the student was helped to regulate.
type RegulateStep struct {
	Completed bool   `json:"completed"`
	Strategy  string `json:"strategy,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// PatternNamingStep (b2) names the behavior pattern with the student.
type PatternNamingStep struct {
	Completed bool   `json:"completed"`
	Pattern   string `json:"pattern,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// ReflectionStep (b3) captures the student's reflection.
type ReflectionStep struct {
	Completed bool   `json:"completed"`
	Format    string `json:"format,omitempty"`
	Response  string `json:"response,omitempty"`
}

// RepairStep (b4) carries the repair action selected from the domain menu.
type RepairStep struct {
	Completed    bool   `json:"completed"`
	RepairAction string `json:"repair_action,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// ReplacementStep (b5) names the replacement behavior being taught.
type ReplacementStep struct {
	Completed           bool   `json:"completed"`
	ReplacementBehavior string `json:"replacement_behavior,omitempty"`
	Notes               string `json:"notes,omitempty"`
}

// ResetGoalStep (b6) sets the reset goal and its monitoring timeline.
type ResetGoalStep struct {
	Completed    bool   `json:"completed"`
	Goal         string `json:"goal,omitempty"`
	TimelineDays int    `json:"timeline_days,omitempty"`
}

// DocumentationStep (b7) is forced complete once monitoring begins.
type DocumentationStep struct {
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

func (RegulateStep) StepKey() LevelBStepKey      { return StepRegulate }
func (PatternNamingStep) StepKey() LevelBStepKey { return StepPatternNaming }
func (ReflectionStep) StepKey() LevelBStepKey    { return StepReflection }
func (RepairStep) StepKey() LevelBStepKey        { return StepRepair }
func (ReplacementStep) StepKey() LevelBStepKey   { return StepReplacement }
func (ResetGoalStep) StepKey() LevelBStepKey     { return StepResetGoal }
func (DocumentationStep) StepKey() LevelBStepKey { return StepDocumentation }

func (s RegulateStep) IsCompleted() bool      { return s.Completed }
func (s PatternNamingStep) IsCompleted() bool { return s.Completed }
func (s ReflectionStep) IsCompleted() bool    { return s.Completed }
func (s RepairStep) IsCompleted() bool        { return s.Completed }
func (s ReplacementStep) IsCompleted() bool   { return s.Completed }
func (s ResetGoalStep) IsCompleted() bool     { return s.Completed }
func (s DocumentationStep) IsCompleted() bool { return s.Completed }

// DecodeLevelBStep decodes raw into the payload type selected by key. Fields that
// belong to another step are rejected.
func DecodeLevelBStep(key LevelBStepKey, raw []byte) (LevelBStep, error) {
	var target LevelBStep
	switch key {
	case StepRegulate:
		target = &RegulateStep{}
	case StepPatternNaming:
		target = &PatternNamingStep{}
	case StepReflection:
		target = &ReflectionStep{}
	case StepRepair:
		target = &RepairStep{}
	case StepReplacement:
		target = &ReplacementStep{}
	case StepResetGoal:
		target = &ResetGoalStep{}
	case StepDocumentation:
		target = &DocumentationStep{}
	default:
		return nil, fmt.Errorf("unknown step %q", key)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return nil, fmt.Errorf("decode step %s: %w", key, err)
	}
	switch v := target.(type) {
	case *RegulateStep:
		return *v, nil
	case *PatternNamingStep:
		return *v, nil
	case *ReflectionStep:
		return *v, nil
	case *RepairStep:
		return *v, nil
	case *ReplacementStep:
		return *v, nil
	case *ResetGoalStep:
		return *v, nil
	default:
		return *target.(*DocumentationStep), nil
	}
}

// LevelBSteps holds the seven step payloads, persisted as one JSONB document.
type LevelBSteps struct {
	Regulate      RegulateStep      `json:"b1"`
	PatternNaming PatternNamingStep `json:"b2"`
	Reflection    ReflectionStep    `json:"b3"`
	Repair        RepairStep        `json:"b4"`
	Replacement   ReplacementStep   `json:"b5"`
	ResetGoal     ResetGoalStep     `json:"b6"`
	Documentation DocumentationStep `json:"b7"`
}

// Set replaces the payload for the step's own slot.
func (s *LevelBSteps) Set(step LevelBStep) {
	switch v := step.(type) {
	case RegulateStep:
		s.Regulate = v
	case PatternNamingStep:
		s.PatternNaming = v
	case ReflectionStep:
		s.Reflection = v
	case RepairStep:
		s.Repair = v
	case ReplacementStep:
		s.Replacement = v
	case ResetGoalStep:
		s.ResetGoal = v
	case DocumentationStep:
		s.Documentation = v
	}
}

// Get returns the payload stored for key.
func (s LevelBSteps) Get(key LevelBStepKey) LevelBStep {
	switch key {
	case StepRegulate:
		return s.Regulate
	case StepPatternNaming:
		return s.PatternNaming
	case StepReflection:
		return s.Reflection
	case StepRepair:
		return s.Repair
	case StepReplacement:
		return s.Replacement
	case StepResetGoal:
		return s.ResetGoal
	case StepDocumentation:
		return s.Documentation
	}
	return nil
}

// CompletedCount returns the number of completed steps.
func (s LevelBSteps) CompletedCount() int {
	n := 0
	for _, key := range LevelBStepKeys {
		if s.Get(key).IsCompleted() {
			n++
		}
	}
	return n
}

// Value implements driver.Valuer.
func (s LevelBSteps) Value() (driver.Value, error) { return marshalJSONB(s) }

// Scan implements sql.Scanner.
func (s *LevelBSteps) Scan(src interface{}) error { return unmarshalJSONB(src, s) }

// DailyRates maps a calendar date (YYYY-MM-DD) to a success percentage.
type DailyRates map[string]float64

// Dates returns the logged dates in ascending order.
func (r DailyRates) Dates() []string {
	dates := make([]string, 0, len(r))
	for d := range r {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Value implements driver.Valuer.
func (r DailyRates) Value() (driver.Value, error) {
	if r == nil {
		return marshalJSONB(map[string]float64{})
	}
	return marshalJSONB(map[string]float64(r))
}

// Scan implements sql.Scanner.
func (r *DailyRates) Scan(src interface{}) error {
	m := map[string]float64{}
	if err := unmarshalJSONB(src, &m); err != nil {
		return err
	}
	*r = m
	return nil
}

// LevelBIntervention is a structured reset conference.
type LevelBIntervention struct {
	ID                    string             `db:"id" json:"id"`
	StudentID             string             `db:"student_id" json:"student_id"`
	StaffID               string             `db:"staff_id" json:"staff_id"`
	StaffName             string             `db:"staff_name" json:"staff_name"`
	DomainID              string             `db:"domain_id" json:"domain_id"`
	EscalationTrigger     string             `db:"escalation_trigger" json:"escalation_trigger"`
	EscalatedFromLevelAID *string            `db:"escalated_from_level_a_id" json:"escalated_from_level_a_id,omitempty"`
	Status                LevelBStatus       `db:"status" json:"status"`
	Steps                 LevelBSteps        `db:"steps" json:"steps"`
	ResetGoalTimelineDays int                `db:"reset_goal_timeline_days" json:"reset_goal_timeline_days"`
	MonitoringMethod      *string            `db:"monitoring_method" json:"monitoring_method,omitempty"`
	MonitoringStartDate   *time.Time         `db:"monitoring_start_date" json:"monitoring_start_date,omitempty"`
	MonitoringEndDate     *time.Time         `db:"monitoring_end_date" json:"monitoring_end_date,omitempty"`
	DailySuccessRates     DailyRates         `db:"daily_success_rates" json:"daily_success_rates"`
	FinalSuccessRate      *float64           `db:"final_success_rate" json:"final_success_rate,omitempty"`
	EscalatedToC          bool               `db:"escalated_to_c" json:"escalated_to_c"`
	EscalationReason      *string            `db:"escalation_reason" json:"escalation_reason,omitempty"`
	EscalatedCaseID       *string            `db:"escalated_case_id" json:"escalated_case_id,omitempty"`
	ConsequenceType       *AdminResponseType `db:"consequence_type" json:"consequence_type,omitempty"`
	ReentryProtocolID     *string            `db:"reentry_protocol_id" json:"reentry_protocol_id,omitempty"`
	CompletedAt           *time.Time         `db:"completed_at" json:"completed_at,omitempty"`
	Version               int                `db:"version" json:"version"`
	CreatedAt             time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time          `db:"updated_at" json:"updated_at"`
	MonitoringPeriodEnded bool               `db:"-" json:"monitoring_period_ended"`
}

// LevelBFilter constrains Tier-B listings.
type LevelBFilter struct {
	StudentID        string
	DomainID         string
	StaffID          string
	Status           LevelBStatus
	ActiveMonitoring bool
	Limit            int
	Offset           int
}
