package intervention

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

// NewReentryInput carries the fields required to open a re-entry protocol.
type NewReentryInput struct {
	StudentID                 string
	SourceType                models.ReentrySourceType
	SourceID                  *string
	Checklist                 []string
	DefaultChecklist          []string
	ReentryDate               *time.Time
	ReceivingTeacher          string
	ResetGoalFromIntervention string
	CreatedBy                 string
}

// NewReentry builds a pending protocol. The checklist is never evaluated on creation,
// so a protocol always starts pending.
func NewReentry(in NewReentryInput) (*models.ReentryProtocol, error) {
	if strings.TrimSpace(in.StudentID) == "" {
		return nil, invalid("student_id is required")
	}
	if !in.SourceType.Valid() {
		return nil, invalid("source_type must be one of level_b, detention, iss, oss")
	}
	items := in.Checklist
	if len(items) == 0 {
		items = in.DefaultChecklist
	}
	if len(items) == 0 {
		return nil, invalid("readiness_checklist must contain at least one item")
	}
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return nil, invalid("readiness_checklist items must not be empty")
		}
	}
	return &models.ReentryProtocol{
		StudentID:                 in.StudentID,
		SourceType:                in.SourceType,
		SourceID:                  in.SourceID,
		Status:                    models.ReentryStatusPending,
		ReadinessChecklist:        models.NewChecklist(items),
		ReentryDate:               in.ReentryDate,
		ReceivingTeacher:          in.ReceivingTeacher,
		ResetGoalFromIntervention: in.ResetGoalFromIntervention,
		DailyLogs:                 models.DailyLogs{},
		CreatedBy:                 in.CreatedBy,
	}, nil
}

// ChecklistToggle sets the completion flag of the item at Index.
type ChecklistToggle struct {
	Index     int
	Completed bool
}

// UpdateChecklist toggles items, then evaluates readiness. A pending protocol becomes
// ready once every item is complete; a ready protocol with a reopened item returns to
// pending. Active protocols keep their status.
func UpdateChecklist(p *models.ReentryProtocol, toggles []ChecklistToggle, actor string, now time.Time) error {
	if p.Status == models.ReentryStatusCompleted {
		return conflict("checklist cannot change after the protocol is completed")
	}
	if len(toggles) == 0 {
		return invalid("at least one checklist item is required")
	}
	for _, t := range toggles {
		if t.Index < 0 || t.Index >= len(p.ReadinessChecklist) {
			return invalid("checklist index %d out of range", t.Index)
		}
	}

	for _, t := range toggles {
		item := &p.ReadinessChecklist[t.Index]
		if item.Completed == t.Completed {
			continue
		}
		item.Completed = t.Completed
		if t.Completed {
			at := now
			item.CompletedBy = actor
			item.CompletedAt = &at
		} else {
			item.CompletedBy = ""
			item.CompletedAt = nil
		}
	}

	switch {
	case p.Status == models.ReentryStatusPending && p.ReadinessChecklist.AllCompleted():
		p.Status = models.ReentryStatusReady
	case p.Status == models.ReentryStatusReady && !p.ReadinessChecklist.AllCompleted():
		p.Status = models.ReentryStatusPending
	}
	return nil
}

// CompleteFirstRep records the first behavioral rep. Status is unaffected.
func CompleteFirstRep(p *models.ReentryProtocol, now time.Time) error {
	if p.Status == models.ReentryStatusCompleted {
		return conflict("protocol is completed")
	}
	if p.FirstBehavioralRepCompleted {
		return nil
	}
	p.FirstBehavioralRepCompleted = true
	p.FirstRepCompletedAt = &now
	return nil
}

// StartReentry moves a ready protocol into active monitoring.
func StartReentry(p *models.ReentryProtocol, monitoring models.MonitoringType, now time.Time) error {
	if p.Status != models.ReentryStatusReady {
		return conflict("re-entry can only start from ready (current status: %s)", p.Status)
	}
	days := monitoring.Days()
	if days == 0 {
		return invalid("monitoring_type must be one of 3_day, 5_day, 10_day")
	}
	start := now
	end := start.AddDate(0, 0, days)
	p.MonitoringType = &monitoring
	p.MonitoringStartDate = &start
	p.MonitoringEndDate = &end
	if p.ReentryDate == nil {
		p.ReentryDate = &start
	}
	p.Status = models.ReentryStatusActive
	return nil
}

// LogDailyEntry appends a monitoring entry.
func LogDailyEntry(p *models.ReentryProtocol, entry models.DailyLog, now time.Time) error {
	if p.Status != models.ReentryStatusActive {
		return conflict("daily logs can only be added while active (current status: %s)", p.Status)
	}
	if _, err := ParseCalendarDate(entry.Date); err != nil {
		return err
	}
	entry.LoggedAt = now
	p.DailyLogs = append(p.DailyLogs, entry)
	return nil
}

// CompleteReentry closes an active protocol with an outcome.
func CompleteReentry(p *models.ReentryProtocol, outcome models.ReentryOutcome, notes string, now time.Time) error {
	if p.Status != models.ReentryStatusActive {
		return conflict("re-entry can only complete from active (current status: %s)", p.Status)
	}
	if !outcome.Valid() {
		return invalid("outcome must be one of success, partial, escalated")
	}
	p.Outcome = &outcome
	if notes != "" {
		p.OutcomeNotes = &notes
	}
	p.CompletedAt = &now
	p.Status = models.ReentryStatusCompleted
	return nil
}

// ReentryPeriodEnded reports whether an active protocol has reached its end date.
func ReentryPeriodEnded(p *models.ReentryProtocol, now time.Time, loc *time.Location) bool {
	return p.Status == models.ReentryStatusActive && periodEnded(p.MonitoringEndDate, now, loc)
}

// ReentryScript renders the talking points used when the student returns to class.
func ReentryScript(p *models.ReentryProtocol) string {
	var b strings.Builder
	teacher := p.ReceivingTeacher
	if teacher == "" {
		teacher = "the receiving teacher"
	}
	goal := p.ResetGoalFromIntervention
	if goal == "" {
		goal = "follow the classroom expectations"
	}

	fmt.Fprintf(&b, "Re-entry script (%s)\n\n", p.SourceType)
	fmt.Fprintf(&b, "1. Welcome: %s greets the student privately and states that today is a fresh start.\n", teacher)
	fmt.Fprintf(&b, "2. Reset goal: \"My goal is to %s.\"\n", strings.TrimSuffix(goal, "."))
	b.WriteString("3. First rep: the student practises the expected behavior once, with immediate feedback.\n")
	b.WriteString("4. Check for understanding: the student restates the goal and what support looks like.\n")
	if p.MonitoringType != nil {
		fmt.Fprintf(&b, "5. Monitoring: daily check-ins for %d days.\n", p.MonitoringType.Days())
	}
	b.WriteString("\nReadiness checklist:\n")
	for _, item := range p.ReadinessChecklist {
		mark := " "
		if item.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "[%s] %s\n", mark, item.Item)
	}
	return b.String()
}
