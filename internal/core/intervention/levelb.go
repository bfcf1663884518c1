package intervention

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

// NewLevelBInput carries the fields required to open a reset conference.
type NewLevelBInput struct {
	StudentID             string
	StaffID               string
	StaffName             string
	DomainID              string
	EscalationTrigger     string
	EscalatedFromLevelAID *string
	DefaultTimelineDays   int
}

// NewLevelB builds a conference in its initial in_progress state.
func NewLevelB(in NewLevelBInput) (*models.LevelBIntervention, error) {
	if strings.TrimSpace(in.StudentID) == "" {
		return nil, invalid("student_id is required")
	}
	if strings.TrimSpace(in.DomainID) == "" {
		return nil, invalid("domain_id is required")
	}
	if strings.TrimSpace(in.EscalationTrigger) == "" {
		return nil, invalid("escalation_trigger is required")
	}
	return &models.LevelBIntervention{
		StudentID:             in.StudentID,
		StaffID:               in.StaffID,
		StaffName:             in.StaffName,
		DomainID:              in.DomainID,
		EscalationTrigger:     in.EscalationTrigger,
		EscalatedFromLevelAID: in.EscalatedFromLevelAID,
		Status:                models.LevelBStatusInProgress,
		ResetGoalTimelineDays: defaultDays(in.DefaultTimelineDays),
		DailySuccessRates:     models.DailyRates{},
	}, nil
}

func defaultDays(days int) int {
	if days <= 0 {
		return 3
	}
	return days
}

// CanUpdateStep evaluates whether steps may still be edited.
// Rules:
// - Status must be in_progress
func CanUpdateStep(status models.LevelBStatus) GuardResult {
	if status != models.LevelBStatusInProgress {
		return GuardResult{Kind: KindConflict, Reason: fmt.Sprintf("steps can only be updated while in_progress (current status: %s)", status)}
	}
	return allow()
}

// UpdateStep stores step in its own slot. Steps may be completed in any order. A reset
// goal without a timeline falls back to defaultTimeline days.
func UpdateStep(b *models.LevelBIntervention, step models.LevelBStep, defaultTimeline int) error {
	if err := CanUpdateStep(b.Status).Error(); err != nil {
		return err
	}
	if step == nil {
		return invalid("step payload is required")
	}

	switch v := step.(type) {
	case models.RepairStep:
		if v.Completed && strings.TrimSpace(v.RepairAction) == "" {
			return invalid("b4 requires a repair_action when completed")
		}
	case models.ResetGoalStep:
		if v.TimelineDays < 0 {
			return invalid("b6 timeline_days must not be negative")
		}
		if v.TimelineDays == 0 {
			v.TimelineDays = defaultDays(defaultTimeline)
		}
		b.ResetGoalTimelineDays = v.TimelineDays
		step = v
	}

	b.Steps.Set(step)
	return nil
}

// StartLevelBMonitoring moves a conference into monitoring. Documentation (b7) is
// considered complete once monitoring begins.
func StartLevelBMonitoring(b *models.LevelBIntervention, method string, now time.Time) error {
	if b.Status != models.LevelBStatusInProgress {
		return conflict("monitoring can only start from in_progress (current status: %s)", b.Status)
	}
	if strings.TrimSpace(method) == "" {
		return invalid("monitoring_method is required")
	}

	days := defaultDays(b.ResetGoalTimelineDays)
	start := now
	end := start.AddDate(0, 0, days)

	doc := b.Steps.Documentation
	doc.Completed = true
	b.Steps.Set(doc)

	b.ResetGoalTimelineDays = days
	b.MonitoringMethod = &method
	b.MonitoringStartDate = &start
	b.MonitoringEndDate = &end
	b.Status = models.LevelBStatusMonitoring
	if b.DailySuccessRates == nil {
		b.DailySuccessRates = models.DailyRates{}
	}
	return nil
}

// LogDailyRate upserts one success percentage per calendar date.
func LogDailyRate(b *models.LevelBIntervention, date string, rate float64) error {
	if b.Status != models.LevelBStatusMonitoring {
		return conflict("daily rates can only be logged while monitoring (current status: %s)", b.Status)
	}
	if _, err := ParseCalendarDate(date); err != nil {
		return err
	}
	if rate < 0 || rate > 100 {
		return invalid("rate must be between 0 and 100")
	}
	if b.DailySuccessRates == nil {
		b.DailySuccessRates = models.DailyRates{}
	}
	b.DailySuccessRates[date] = rate
	return nil
}

// MeanRate returns the arithmetic mean of the logged rates, or 0 when none are logged.
func MeanRate(rates models.DailyRates) float64 {
	if len(rates) == 0 {
		return 0
	}
	var sum float64
	for _, date := range rates.Dates() {
		sum += rates[date]
	}
	return sum / float64(len(rates))
}

// LevelBCompletion describes the outcome of closing a monitoring period.
type LevelBCompletion struct {
	Mean      float64
	Escalated bool
	// SpawnReentry is set when a removal consequence was imposed and a re-entry
	// protocol must follow.
	SpawnReentry bool
}

// CompleteLevelBMonitoring resolves the monitoring period against threshold. A mean
// at or above the threshold succeeds; anything below escalates to Tier-C.
func CompleteLevelBMonitoring(b *models.LevelBIntervention, threshold float64, consequence *models.AdminResponseType, now time.Time) (LevelBCompletion, error) {
	if b.Status != models.LevelBStatusMonitoring {
		return LevelBCompletion{}, conflict("monitoring can only be completed from monitoring (current status: %s)", b.Status)
	}
	if consequence != nil && !consequence.ImpliesRemoval() {
		return LevelBCompletion{}, invalid("consequence_type must be one of detention, iss, oss")
	}

	mean := MeanRate(b.DailySuccessRates)
	result := LevelBCompletion{Mean: mean, SpawnReentry: consequence != nil}

	b.FinalSuccessRate = &mean
	b.CompletedAt = &now
	b.ConsequenceType = consequence
	if mean >= threshold {
		b.Status = models.LevelBStatusCompletedSuccess
		b.EscalatedToC = false
		b.EscalationReason = nil
		return result, nil
	}

	reason := fmt.Sprintf("Average daily success rate %.1f%% fell below the %.1f%% threshold over %d logged day(s)",
		mean, threshold, len(b.DailySuccessRates))
	b.Status = models.LevelBStatusCompletedEscalated
	b.EscalatedToC = true
	b.EscalationReason = &reason
	result.Escalated = true
	return result, nil
}

// LevelBPeriodEnded reports whether a monitoring conference has reached its end date.
func LevelBPeriodEnded(b *models.LevelBIntervention, now time.Time, loc *time.Location) bool {
	return b.Status == models.LevelBStatusMonitoring && periodEnded(b.MonitoringEndDate, now, loc)
}

// CanEscalateToLevelC evaluates whether a conference may open a Tier-C case.
// Rules:
// - Status must be completed_escalated
// - No case may already be linked
func CanEscalateToLevelC(b *models.LevelBIntervention) GuardResult {
	if b.Status != models.LevelBStatusCompletedEscalated {
		return GuardResult{Kind: KindConflict, Reason: fmt.Sprintf("conference %s has not escalated (current status: %s)", b.ID, b.Status)}
	}
	if b.EscalatedCaseID != nil {
		return GuardResult{Kind: KindConflict, Reason: fmt.Sprintf("conference %s already escalated to case %s", b.ID, *b.EscalatedCaseID)}
	}
	return allow()
}
