package intervention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

func newProtocol(t *testing.T, items ...string) *models.ReentryProtocol {
	t.Helper()
	p, err := NewReentry(NewReentryInput{
		StudentID:                 "student-1",
		SourceType:                models.ReentrySourceDetention,
		Checklist:                 items,
		DefaultChecklist:          []string{"default item"},
		ReceivingTeacher:          "Mr. Hadi",
		ResetGoalFromIntervention: "enter the classroom calmly",
	})
	require.NoError(t, err)
	return p
}

func TestNewReentry(t *testing.T) {
	_, err := NewReentry(NewReentryInput{StudentID: "s", SourceType: "suspension", DefaultChecklist: []string{"x"}})
	assert.True(t, IsValidation(err))

	_, err = NewReentry(NewReentryInput{StudentID: "s", SourceType: models.ReentrySourceOSS})
	assert.True(t, IsValidation(err))

	p := newProtocol(t)
	assert.Equal(t, models.ReentryStatusPending, p.Status)
	require.Len(t, p.ReadinessChecklist, 1)
	assert.Equal(t, "default item", p.ReadinessChecklist[0].Item)
}

func TestChecklistGatesReadiness(t *testing.T) {
	p := newProtocol(t, "conference held", "repair done", "teacher briefed")

	require.NoError(t, UpdateChecklist(p, []ChecklistToggle{{Index: 0, Completed: true}}, "staff-1", testNow))
	assert.Equal(t, models.ReentryStatusPending, p.Status)
	require.NoError(t, UpdateChecklist(p, []ChecklistToggle{{Index: 1, Completed: true}}, "staff-1", testNow))
	assert.Equal(t, models.ReentryStatusPending, p.Status)

	err := StartReentry(p, models.Monitoring5Day, testNow)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	require.NoError(t, UpdateChecklist(p, []ChecklistToggle{{Index: 2, Completed: true}}, "staff-2", testNow))
	assert.Equal(t, models.ReentryStatusReady, p.Status)
	assert.Equal(t, "staff-2", p.ReadinessChecklist[2].CompletedBy)

	require.NoError(t, UpdateChecklist(p, []ChecklistToggle{{Index: 2, Completed: false}}, "staff-2", testNow))
	assert.Equal(t, models.ReentryStatusPending, p.Status)
	assert.Nil(t, p.ReadinessChecklist[2].CompletedAt)

	err = UpdateChecklist(p, []ChecklistToggle{{Index: 3, Completed: true}}, "staff-2", testNow)
	assert.True(t, IsValidation(err))
}

func TestReentryLifecycle(t *testing.T) {
	p := newProtocol(t, "conference held")

	require.NoError(t, CompleteFirstRep(p, testNow))
	assert.True(t, p.FirstBehavioralRepCompleted)
	assert.Equal(t, models.ReentryStatusPending, p.Status)

	err := LogDailyEntry(p, models.DailyLog{Date: "2026-03-02"}, testNow)
	assert.True(t, IsConflict(err))

	require.NoError(t, UpdateChecklist(p, []ChecklistToggle{{Index: 0, Completed: true}}, "staff-1", testNow))

	err = StartReentry(p, "2_day", testNow)
	assert.True(t, IsValidation(err))

	require.NoError(t, StartReentry(p, models.Monitoring10Day, testNow))
	assert.Equal(t, models.ReentryStatusActive, p.Status)
	assert.Equal(t, testNow.AddDate(0, 0, 10), *p.MonitoringEndDate)
	assert.Equal(t, testNow, *p.ReentryDate)

	require.NoError(t, LogDailyEntry(p, models.DailyLog{Date: "2026-03-02", Notes: "settled", LoggedBy: "staff-1"}, testNow))
	require.NoError(t, LogDailyEntry(p, models.DailyLog{Date: "2026-03-03", LoggedBy: "staff-1"}, testNow))
	assert.Len(t, p.DailyLogs, 2)

	assert.False(t, ReentryPeriodEnded(p, testNow.AddDate(0, 0, 9), time.UTC))
	assert.True(t, ReentryPeriodEnded(p, testNow.AddDate(0, 0, 10), time.UTC))

	err = CompleteReentry(p, "great", "", testNow)
	assert.True(t, IsValidation(err))

	require.NoError(t, CompleteReentry(p, models.ReentryOutcomeSuccess, "back on track", testNow))
	assert.Equal(t, models.ReentryStatusCompleted, p.Status)

	err = CompleteReentry(p, models.ReentryOutcomeSuccess, "", testNow)
	assert.True(t, IsConflict(err))
	err = UpdateChecklist(p, []ChecklistToggle{{Index: 0, Completed: false}}, "staff-1", testNow)
	assert.True(t, IsConflict(err))
}

func TestReentryScript(t *testing.T) {
	p := newProtocol(t, "conference held", "teacher briefed")
	p.ReadinessChecklist[0].Completed = true

	script := ReentryScript(p)
	assert.Contains(t, script, "Mr. Hadi")
	assert.Contains(t, script, "enter the classroom calmly")
	assert.Contains(t, script, "[x] conference held")
	assert.Contains(t, script, "[ ] teacher briefed")
}
