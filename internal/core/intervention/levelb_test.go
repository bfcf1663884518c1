package intervention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

var testNow = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func newConference(t *testing.T) *models.LevelBIntervention {
	t.Helper()
	b, err := NewLevelB(NewLevelBInput{
		StudentID:         "student-1",
		StaffID:           "staff-1",
		StaffName:         "Ms. Rahma",
		DomainID:          "prayer-space",
		EscalationTrigger: "peer_impact",
	})
	require.NoError(t, err)
	return b
}

func completeAllSteps(t *testing.T, b *models.LevelBIntervention) {
	t.Helper()
	steps := []models.LevelBStep{
		models.RegulateStep{Completed: true, Strategy: "breathing"},
		models.PatternNamingStep{Completed: true, Pattern: "talking during prayer"},
		models.ReflectionStep{Completed: true, Format: "verbal"},
		models.RepairStep{Completed: true, RepairAction: "apologise to peers"},
		models.ReplacementStep{Completed: true, ReplacementBehavior: "silent signal"},
		models.ResetGoalStep{Completed: true, Goal: "stay quiet during prayer"},
		models.DocumentationStep{Completed: true},
	}
	for _, step := range steps {
		require.NoError(t, UpdateStep(b, step, 3))
	}
}

func monitorWithRates(t *testing.T, rates ...float64) *models.LevelBIntervention {
	t.Helper()
	b := newConference(t)
	completeAllSteps(t, b)
	require.NoError(t, StartLevelBMonitoring(b, "daily teacher check", testNow))
	for i, rate := range rates {
		require.NoError(t, LogDailyRate(b, testNow.AddDate(0, 0, i).Format(DateLayout), rate))
	}
	return b
}

func TestNewLevelBValidation(t *testing.T) {
	_, err := NewLevelB(NewLevelBInput{StudentID: "s", DomainID: "d"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	b := newConference(t)
	assert.Equal(t, models.LevelBStatusInProgress, b.Status)
	assert.Equal(t, 3, b.ResetGoalTimelineDays)
}

func TestUpdateStepOutOfOrder(t *testing.T) {
	b := newConference(t)

	require.NoError(t, UpdateStep(b, models.ResetGoalStep{Completed: true, Goal: "walk in hallways"}, 4))
	require.NoError(t, UpdateStep(b, models.RegulateStep{Completed: true}, 4))

	assert.Equal(t, 4, b.ResetGoalTimelineDays)
	assert.Equal(t, 4, b.Steps.ResetGoal.TimelineDays)
	assert.Equal(t, 2, b.Steps.CompletedCount())

	require.NoError(t, UpdateStep(b, models.ResetGoalStep{Completed: true, Goal: "walk", TimelineDays: 7}, 4))
	assert.Equal(t, 7, b.ResetGoalTimelineDays)

	err := UpdateStep(b, models.RepairStep{Completed: true}, 3)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestUpdateStepRejectedOutsideInProgress(t *testing.T) {
	b := monitorWithRates(t)
	err := UpdateStep(b, models.RegulateStep{Completed: true}, 3)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestStartLevelBMonitoring(t *testing.T) {
	b := newConference(t)
	require.NoError(t, UpdateStep(b, models.ResetGoalStep{Completed: true, Goal: "g", TimelineDays: 5}, 3))

	require.NoError(t, StartLevelBMonitoring(b, "check-in sheet", testNow))

	assert.Equal(t, models.LevelBStatusMonitoring, b.Status)
	assert.True(t, b.Steps.Documentation.Completed)
	require.NotNil(t, b.MonitoringStartDate)
	require.NotNil(t, b.MonitoringEndDate)
	assert.Equal(t, testNow.AddDate(0, 0, 5), *b.MonitoringEndDate)

	err := StartLevelBMonitoring(b, "check-in sheet", testNow)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestLogDailyRate(t *testing.T) {
	b := newConference(t)
	err := LogDailyRate(b, "2026-03-02", 90)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	b = monitorWithRates(t)
	require.NoError(t, LogDailyRate(b, "2026-03-02", 40))
	require.NoError(t, LogDailyRate(b, "2026-03-02", 70))
	assert.Len(t, b.DailySuccessRates, 1)
	assert.Equal(t, 70.0, b.DailySuccessRates["2026-03-02"])

	err = LogDailyRate(b, "03/02/2026", 70)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	err = LogDailyRate(b, "2026-03-03", 101)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCompleteLevelBMonitoringRoundTrip(t *testing.T) {
	b := monitorWithRates(t, 90, 85, 95)

	result, err := CompleteLevelBMonitoring(b, 80, nil, testNow)
	require.NoError(t, err)

	require.NotNil(t, b.FinalSuccessRate)
	assert.Equal(t, 90.0, *b.FinalSuccessRate)
	assert.Equal(t, models.LevelBStatusCompletedSuccess, b.Status)
	assert.False(t, b.EscalatedToC)
	assert.Nil(t, b.EscalationReason)
	assert.False(t, result.Escalated)

	_, err = CompleteLevelBMonitoring(b, 80, nil, testNow)
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestCompleteLevelBMonitoringEscalates(t *testing.T) {
	b := monitorWithRates(t, 60, 50, 55)

	result, err := CompleteLevelBMonitoring(b, 80, nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, 55.0, *b.FinalSuccessRate)
	assert.Equal(t, models.LevelBStatusCompletedEscalated, b.Status)
	assert.True(t, b.EscalatedToC)
	require.NotNil(t, b.EscalationReason)
	assert.Contains(t, *b.EscalationReason, "55.0%")
	assert.Contains(t, *b.EscalationReason, "80.0%")
	assert.True(t, result.Escalated)
	assert.True(t, CanEscalateToLevelC(b).Allowed)
}

func TestCompleteLevelBMonitoringNoRates(t *testing.T) {
	b := monitorWithRates(t)

	result, err := CompleteLevelBMonitoring(b, 80, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Mean)
	assert.Equal(t, models.LevelBStatusCompletedEscalated, b.Status)
}

func TestCompleteLevelBMonitoringThresholdBoundary(t *testing.T) {
	tests := []struct {
		rate       float64
		wantStatus models.LevelBStatus
	}{
		{rate: 79.9, wantStatus: models.LevelBStatusCompletedEscalated},
		{rate: 80.0, wantStatus: models.LevelBStatusCompletedSuccess},
		{rate: 80.1, wantStatus: models.LevelBStatusCompletedSuccess},
	}

	for _, tt := range tests {
		b := monitorWithRates(t, tt.rate)
		_, err := CompleteLevelBMonitoring(b, 80, nil, testNow)
		require.NoError(t, err)
		assert.Equal(t, tt.wantStatus, b.Status, "rate %.1f", tt.rate)
	}

	b := monitorWithRates(t, 85)
	_, err := CompleteLevelBMonitoring(b, 90, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.LevelBStatusCompletedEscalated, b.Status)
}

func TestCompleteLevelBMonitoringConsequence(t *testing.T) {
	b := monitorWithRates(t, 90)
	conference := models.AdminResponseConference
	_, err := CompleteLevelBMonitoring(b, 80, &conference, testNow)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, models.LevelBStatusMonitoring, b.Status)

	detention := models.AdminResponseDetention
	result, err := CompleteLevelBMonitoring(b, 80, &detention, testNow)
	require.NoError(t, err)
	assert.True(t, result.SpawnReentry)
	assert.Equal(t, &detention, b.ConsequenceType)
}

func TestLevelBPeriodEnded(t *testing.T) {
	b := monitorWithRates(t)

	assert.False(t, LevelBPeriodEnded(b, testNow.AddDate(0, 0, 2), time.UTC))
	assert.True(t, LevelBPeriodEnded(b, testNow.AddDate(0, 0, 3), time.UTC))
	assert.True(t, LevelBPeriodEnded(b, testNow.AddDate(0, 0, 10), time.UTC))
}

func TestCanEscalateToLevelC(t *testing.T) {
	b := monitorWithRates(t, 95)
	_, err := CompleteLevelBMonitoring(b, 80, nil, testNow)
	require.NoError(t, err)
	assert.False(t, CanEscalateToLevelC(b).Allowed)

	b = monitorWithRates(t, 10)
	_, err = CompleteLevelBMonitoring(b, 80, nil, testNow)
	require.NoError(t, err)
	caseID := "case-1"
	b.EscalatedCaseID = &caseID
	guard := CanEscalateToLevelC(b)
	assert.False(t, guard.Allowed)
	assert.True(t, IsConflict(guard.Error()))
}
