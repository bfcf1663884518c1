package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/dto"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
)

type levelBFixture struct {
	svc     *LevelBService
	repo    *levelBRepoStub
	spawner *spawnerStub
	audit   *auditWriterStub
}

func newLevelBFixture() *levelBFixture {
	repo := newLevelBRepoStub()
	spawner := &spawnerStub{}
	writer := &auditWriterStub{}
	domains := domainLookupStub{domains: map[string]*models.BehavioralDomain{
		"hallways": {ID: "hallways", Name: "Hallways", RepairActions: pq.StringArray{"apologize", "walk the route again"}},
	}}
	svc := NewLevelBService(repo, domains, spawner, NewAuditService(writer, nil), NewMetricsService(), nil, nil, LevelBConfig{SuccessThreshold: 80})
	svc.now = fixedClock
	return &levelBFixture{svc: svc, repo: repo, spawner: spawner, audit: writer}
}

func (f *levelBFixture) monitoring(t *testing.T, rates map[string]float64) *models.LevelBIntervention {
	t.Helper()
	ctx := context.Background()
	b, err := f.svc.Create(ctx, dto.CreateLevelBRequest{StudentID: "stu-1", DomainID: "hallways", EscalationTrigger: "ignored_prompts"}, teacherActor())
	require.NoError(t, err)
	_, err = f.svc.UpdateStep(ctx, b.ID, dto.UpdateStepRequest{Step: "b6", Data: json.RawMessage(`{"completed":true,"goal":"walk quietly between classes"}`)}, teacherActor())
	require.NoError(t, err)
	_, err = f.svc.StartMonitoring(ctx, b.ID, dto.StartLevelBMonitoringRequest{MonitoringMethod: "daily_checklist"}, teacherActor())
	require.NoError(t, err)
	for date, rate := range rates {
		_, err = f.svc.LogDailyRate(ctx, b.ID, dto.LogDailyRateRequest{Date: date, SuccessRate: rate}, teacherActor())
		require.NoError(t, err)
	}
	return b
}

func TestLevelBServiceCreateEscalatesLevelA(t *testing.T) {
	f := newLevelBFixture()
	levelA := "a-1"

	b, err := f.svc.Create(context.Background(), dto.CreateLevelBRequest{
		StudentID:             "stu-1",
		DomainID:              "hallways",
		EscalationTrigger:     "repeat_occurrence",
		EscalatedFromLevelAID: &levelA,
	}, teacherActor())
	require.NoError(t, err)

	assert.Equal(t, models.LevelBStatusInProgress, b.Status)
	assert.Equal(t, "staff-1", b.StaffID)
	assert.Equal(t, 3, b.ResetGoalTimelineDays)
	assert.Equal(t, []string{models.AuditActionLevelBCreate}, f.audit.actions())
}

func TestLevelBServiceCreateRequiresActor(t *testing.T) {
	f := newLevelBFixture()
	_, err := f.svc.Create(context.Background(), dto.CreateLevelBRequest{StudentID: "stu-1", DomainID: "hallways", EscalationTrigger: "x"}, nil)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestLevelBServiceCompleteSuccessAtThreshold(t *testing.T) {
	f := newLevelBFixture()
	b := f.monitoring(t, map[string]float64{"2024-03-04": 90, "2024-03-05": 70})

	done, err := f.svc.CompleteMonitoring(context.Background(), b.ID, dto.CompleteLevelBRequest{}, teacherActor())
	require.NoError(t, err)

	assert.Equal(t, models.LevelBStatusCompletedSuccess, done.Status)
	require.NotNil(t, done.FinalSuccessRate)
	assert.InDelta(t, 80, *done.FinalSuccessRate, 0.0001)
	assert.False(t, done.EscalatedToC)
	assert.True(t, done.Steps.Documentation.Completed)
	assert.Empty(t, f.spawner.spawns)
}

func TestLevelBServiceCompleteBelowThresholdEscalates(t *testing.T) {
	f := newLevelBFixture()
	b := f.monitoring(t, map[string]float64{"2024-03-04": 40, "2024-03-05": 60})

	done, err := f.svc.CompleteMonitoring(context.Background(), b.ID, dto.CompleteLevelBRequest{}, teacherActor())
	require.NoError(t, err)

	assert.Equal(t, models.LevelBStatusCompletedEscalated, done.Status)
	assert.True(t, done.EscalatedToC)
	require.NotNil(t, done.EscalationReason)
	assert.Contains(t, *done.EscalationReason, "50.0%")
}

func TestLevelBServiceCompleteWithRemovalSpawnsReentry(t *testing.T) {
	f := newLevelBFixture()
	b := f.monitoring(t, map[string]float64{"2024-03-04": 95})
	iss := "iss"

	done, err := f.svc.CompleteMonitoring(context.Background(), b.ID, dto.CompleteLevelBRequest{ConsequenceType: &iss}, teacherActor())
	require.NoError(t, err)

	require.Len(t, f.spawner.spawns, 1)
	spawn := f.spawner.spawns[0]
	assert.Equal(t, models.ReentrySourceLevelB, spawn.SourceType)
	assert.Equal(t, b.ID, spawn.SourceID)
	assert.Equal(t, "walk quietly between classes", spawn.ResetGoal)
	assert.Equal(t, "Ms. Rahma", spawn.ReceivingTeacher)
	assert.NotNil(t, done.ReentryProtocolID)
}

func TestLevelBServiceSpawnFailureIsPartialEscalation(t *testing.T) {
	f := newLevelBFixture()
	f.spawner.err = errStoreDown
	b := f.monitoring(t, map[string]float64{"2024-03-04": 95})
	oss := "oss"

	_, err := f.svc.CompleteMonitoring(context.Background(), b.ID, dto.CompleteLevelBRequest{ConsequenceType: &oss}, teacherActor())
	require.Error(t, err)

	appErr, ok := err.(*appErrors.Error)
	require.True(t, ok)
	assert.Equal(t, appErrors.ErrPartialEscalation.Code, appErr.Code)
	assert.Equal(t, "POST /reentry with source_id", appErr.Details["repair_path"])

	stored := f.repo.records[b.ID]
	assert.Equal(t, models.LevelBStatusCompletedSuccess, stored.Status, "conference stays committed")
}

func TestLevelBServiceUpdateStepRules(t *testing.T) {
	tests := []struct {
		name string
		req  dto.UpdateStepRequest
		code string
	}{
		{
			name: "repair action off menu",
			req:  dto.UpdateStepRequest{Step: "b4", Data: json.RawMessage(`{"completed":true,"repair_action":"write an essay"}`)},
			code: appErrors.ErrValidation.Code,
		},
		{
			name: "completed repair without action",
			req:  dto.UpdateStepRequest{Step: "b4", Data: json.RawMessage(`{"completed":true}`)},
			code: appErrors.ErrValidation.Code,
		},
		{
			name: "unknown step",
			req:  dto.UpdateStepRequest{Step: "b9", Data: json.RawMessage(`{}`)},
			code: appErrors.ErrValidation.Code,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newLevelBFixture()
			b, err := f.svc.Create(context.Background(), dto.CreateLevelBRequest{StudentID: "stu-1", DomainID: "hallways", EscalationTrigger: "peer_impact"}, teacherActor())
			require.NoError(t, err)

			_, err = f.svc.UpdateStep(context.Background(), b.ID, tc.req, teacherActor())
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
		})
	}
}

func TestLevelBServiceRepairActionOnMenu(t *testing.T) {
	f := newLevelBFixture()
	b, err := f.svc.Create(context.Background(), dto.CreateLevelBRequest{StudentID: "stu-1", DomainID: "hallways", EscalationTrigger: "peer_impact"}, teacherActor())
	require.NoError(t, err)

	updated, err := f.svc.UpdateStep(context.Background(), b.ID, dto.UpdateStepRequest{
		Step: "b4",
		Data: json.RawMessage(`{"completed":true,"repair_action":"apologize"}`),
	}, teacherActor())
	require.NoError(t, err)
	assert.Equal(t, "apologize", updated.Steps.Repair.RepairAction)
	assert.Equal(t, 1, updated.Steps.CompletedCount())
}

func TestLevelBServiceStepsLockedAfterMonitoring(t *testing.T) {
	f := newLevelBFixture()
	b := f.monitoring(t, nil)

	_, err := f.svc.UpdateStep(context.Background(), b.ID, dto.UpdateStepRequest{Step: "b1", Data: json.RawMessage(`{"completed":true}`)}, teacherActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = f.svc.StartMonitoring(context.Background(), b.ID, dto.StartLevelBMonitoringRequest{MonitoringMethod: "daily_checklist"}, teacherActor())
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestLevelBServiceRejectsOutOfRangeRate(t *testing.T) {
	f := newLevelBFixture()
	b := f.monitoring(t, nil)

	_, err := f.svc.LogDailyRate(context.Background(), b.ID, dto.LogDailyRateRequest{Date: "2024-03-04", SuccessRate: 120}, teacherActor())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLevelBServiceRateUpsertsPerDate(t *testing.T) {
	f := newLevelBFixture()
	b := f.monitoring(t, map[string]float64{"2024-03-04": 30})

	updated, err := f.svc.LogDailyRate(context.Background(), b.ID, dto.LogDailyRateRequest{Date: "2024-03-04", SuccessRate: 85}, teacherActor())
	require.NoError(t, err)
	assert.Len(t, updated.DailySuccessRates, 1)
	assert.Equal(t, 85.0, updated.DailySuccessRates["2024-03-04"])
}

func TestLevelBServiceMissingRecord(t *testing.T) {
	f := newLevelBFixture()
	_, err := f.svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
