package models

import (
	"database/sql/driver"
	"time"
)

// ReentryStatus is the re-entry protocol lifecycle state.
type ReentryStatus string

const (
	ReentryStatusPending   ReentryStatus = "pending"
	ReentryStatusReady     ReentryStatus = "ready"
	ReentryStatusActive    ReentryStatus = "active"
	ReentryStatusCompleted ReentryStatus = "completed"
)

// ReentrySourceType identifies what the student is returning from.
type ReentrySourceType string

const (
	ReentrySourceLevelB    ReentrySourceType = "level_b"
	ReentrySourceDetention ReentrySourceType = "detention"
	ReentrySourceISS       ReentrySourceType = "iss"
	ReentrySourceOSS       ReentrySourceType = "oss"
)

// Valid reports whether t is a known source type.
func (t ReentrySourceType) Valid() bool {
	switch t {
	case ReentrySourceLevelB, ReentrySourceDetention, ReentrySourceISS, ReentrySourceOSS:
		return true
	}
	return false
}

// MonitoringType is the post re-entry monitoring window.
type MonitoringType string

const (
	Monitoring3Day  MonitoringType = "3_day"
	Monitoring5Day  MonitoringType = "5_day"
	Monitoring10Day MonitoringType = "10_day"
)

// Days returns the window length, or 0 for an unknown type.
func (t MonitoringType) Days() int {
	switch t {
	case Monitoring3Day:
		return 3
	case Monitoring5Day:
		return 5
	case Monitoring10Day:
		return 10
	}
	return 0
}

// ReentryOutcome is the recorded completion outcome.
type ReentryOutcome string

const (
	ReentryOutcomeSuccess   ReentryOutcome = "success"
	ReentryOutcomePartial   ReentryOutcome = "partial"
	ReentryOutcomeEscalated ReentryOutcome = "escalated"
)

// Valid reports whether o is a known outcome.
func (o ReentryOutcome) Valid() bool {
	switch o {
	case ReentryOutcomeSuccess, ReentryOutcomePartial, ReentryOutcomeEscalated:
		return true
	}
	return false
}

// ChecklistItem is one readiness gate.
type ChecklistItem struct {
	Item        string     `json:"item"`
	Completed   bool       `json:"completed"`
	CompletedBy string     `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Checklist is an ordered readiness checklist.
type Checklist []ChecklistItem

// NewChecklist builds an all-open checklist from item labels.
func NewChecklist(items []string) Checklist {
	list := make(Checklist, 0, len(items))
	for _, item := range items {
		list = append(list, ChecklistItem{Item: item})
	}
	return list
}

// AllCompleted reports whether every item is complete. An empty checklist is not.
func (c Checklist) AllCompleted() bool {
	if len(c) == 0 {
		return false
	}
	for _, item := range c {
		if !item.Completed {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer.
func (c Checklist) Value() (driver.Value, error) {
	if c == nil {
		return marshalJSONB([]ChecklistItem{})
	}
	return marshalJSONB([]ChecklistItem(c))
}

// Scan implements sql.Scanner.
func (c *Checklist) Scan(src interface{}) error {
	list := []ChecklistItem{}
	if err := unmarshalJSONB(src, &list); err != nil {
		return err
	}
	*c = list
	return nil
}

// DailyLog is one re-entry monitoring entry.
type DailyLog struct {
	Date              string    `json:"date"`
	Notes             string    `json:"notes,omitempty"`
	SuccessIndicators []string  `json:"success_indicators,omitempty"`
	Concerns          []string  `json:"concerns,omitempty"`
	LoggedBy          string    `json:"logged_by"`
	LoggedAt          time.Time `json:"logged_at"`
}

// DailyLogs is the ordered log list.
type DailyLogs []DailyLog

// Value implements driver.Valuer.
func (l DailyLogs) Value() (driver.Value, error) {
	if l == nil {
		return marshalJSONB([]DailyLog{})
	}
	return marshalJSONB([]DailyLog(l))
}

// Scan implements sql.Scanner.
func (l *DailyLogs) Scan(src interface{}) error {
	list := []DailyLog{}
	if err := unmarshalJSONB(src, &list); err != nil {
		return err
	}
	*l = list
	return nil
}

// ReentryProtocol tracks a student's return after a consequence.
type ReentryProtocol struct {
	ID                          string            `db:"id" json:"id"`
	StudentID                   string            `db:"student_id" json:"student_id"`
	SourceType                  ReentrySourceType `db:"source_type" json:"source_type"`
	SourceID                    *string           `db:"source_id" json:"source_id,omitempty"`
	Status                      ReentryStatus     `db:"status" json:"status"`
	ReadinessChecklist          Checklist         `db:"readiness_checklist" json:"readiness_checklist"`
	ReentryDate                 *time.Time        `db:"reentry_date" json:"reentry_date,omitempty"`
	ReceivingTeacher            string            `db:"receiving_teacher" json:"receiving_teacher"`
	ResetGoalFromIntervention   string            `db:"reset_goal_from_intervention" json:"reset_goal_from_intervention"`
	FirstBehavioralRepCompleted bool              `db:"first_behavioral_rep_completed" json:"first_behavioral_rep_completed"`
	FirstRepCompletedAt         *time.Time        `db:"first_rep_completed_at" json:"first_rep_completed_at,omitempty"`
	MonitoringType              *MonitoringType   `db:"monitoring_type" json:"monitoring_type,omitempty"`
	MonitoringStartDate         *time.Time        `db:"monitoring_start_date" json:"monitoring_start_date,omitempty"`
	MonitoringEndDate           *time.Time        `db:"monitoring_end_date" json:"monitoring_end_date,omitempty"`
	DailyLogs                   DailyLogs         `db:"daily_logs" json:"daily_logs"`
	Outcome                     *ReentryOutcome   `db:"outcome" json:"outcome,omitempty"`
	OutcomeNotes                *string           `db:"outcome_notes" json:"outcome_notes,omitempty"`
	CreatedBy                   string            `db:"created_by" json:"created_by"`
	CompletedAt                 *time.Time        `db:"completed_at" json:"completed_at,omitempty"`
	Version                     int               `db:"version" json:"version"`
	CreatedAt                   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt                   time.Time         `db:"updated_at" json:"updated_at"`
	MonitoringPeriodEnded       bool              `db:"-" json:"monitoring_period_ended"`
}

// ReentryFilter constrains protocol listings.
type ReentryFilter struct {
	StudentID  string
	SourceType ReentrySourceType
	Status     ReentryStatus
	Pending    bool
	Active     bool
	Limit      int
	Offset     int
}
