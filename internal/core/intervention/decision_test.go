package intervention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

func baseAssessment() models.IncidentAssessment {
	return models.IncidentAssessment{StudentID: "student-1", DomainID: "hallways"}
}

func TestDetermineLevel(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(a *models.IncidentAssessment)
		wantLevel    models.InterventionLevel
		wantReasons  []models.EscalationReason
		wantOverride bool
		wantAdmin    bool
	}{
		{
			name:        "no flags recommends tier A",
			mutate:      func(a *models.IncidentAssessment) {},
			wantLevel:   models.LevelA,
			wantReasons: []models.EscalationReason{},
		},
		{
			name:        "single ignored prompt stays tier A",
			mutate:      func(a *models.IncidentAssessment) { a.IgnoredPromptsCount = 1 },
			wantLevel:   models.LevelA,
			wantReasons: []models.EscalationReason{},
		},
		{
			name:        "two ignored prompts recommends tier B",
			mutate:      func(a *models.IncidentAssessment) { a.IgnoredPromptsCount = 2 },
			wantLevel:   models.LevelB,
			wantReasons: []models.EscalationReason{models.ReasonIgnoredPrompts},
		},
		{
			name:        "second occurrence stays tier A",
			mutate:      func(a *models.IncidentAssessment) { a.OccurrencesInLast10Days = 2 },
			wantLevel:   models.LevelA,
			wantReasons: []models.EscalationReason{},
		},
		{
			name:        "third occurrence recommends tier B",
			mutate:      func(a *models.IncidentAssessment) { a.OccurrencesInLast10Days = 3 },
			wantLevel:   models.LevelB,
			wantReasons: []models.EscalationReason{models.ReasonRepeatOccurrence},
		},
		{
			name: "reasons keep rule order",
			mutate: func(a *models.IncidentAssessment) {
				a.SafetyRisk = true
				a.DemeritAssigned = true
				a.PeerImpact = true
				a.SpaceDisruption = true
			},
			wantLevel: models.LevelB,
			wantReasons: []models.EscalationReason{
				models.ReasonDemeritAssigned, models.ReasonPeerImpact, models.ReasonSpaceDisruption, models.ReasonSafetyRisk,
			},
		},
		{
			name: "major harm short-circuits everything",
			mutate: func(a *models.IncidentAssessment) {
				a.SafetyOrMajorHarm = true
				a.DemeritAssigned = true
				a.PriorLevelBAttemptsForPattern = 5
			},
			wantLevel:   models.LevelC,
			wantReasons: []models.EscalationReason{models.ReasonSafetyOrMajorHarm},
			wantAdmin:   true,
		},
		{
			name: "repeated tier B attempts override trigger result",
			mutate: func(a *models.IncidentAssessment) {
				a.PeerImpact = true
				a.PriorLevelBAttemptsForPattern = 2
			},
			wantLevel:    models.LevelC,
			wantReasons:  []models.EscalationReason{models.ReasonPeerImpact, models.ReasonRepeatedLevelB},
			wantOverride: true,
		},
		{
			name:        "repeated tier B attempts without triggers stay tier A",
			mutate:      func(a *models.IncidentAssessment) { a.PriorLevelBAttemptsForPattern = 3 },
			wantLevel:   models.LevelA,
			wantReasons: []models.EscalationReason{},
		},
		{
			name: "single prior attempt does not override",
			mutate: func(a *models.IncidentAssessment) {
				a.DemeritAssigned = true
				a.PriorLevelBAttemptsForPattern = 1
			},
			wantLevel:   models.LevelB,
			wantReasons: []models.EscalationReason{models.ReasonDemeritAssigned},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseAssessment()
			tt.mutate(&a)

			result, err := DetermineLevel(a)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, result.RecommendedLevel)
			assert.Equal(t, tt.wantReasons, result.MatchedReasons)
			assert.Equal(t, tt.wantOverride, result.IsOverride)
			assert.Equal(t, tt.wantAdmin, result.AdminConsequence)
		})
	}
}

func TestDetermineLevelRejectsMissingIdentifiers(t *testing.T) {
	_, err := DetermineLevel(models.IncidentAssessment{DomainID: "hallways", SafetyOrMajorHarm: true})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = DetermineLevel(models.IncidentAssessment{StudentID: "student-1", SafetyOrMajorHarm: true})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	_, err = DetermineLevel(models.IncidentAssessment{StudentID: "student-1", DomainID: "hallways", IgnoredPromptsCount: -1})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

// Exhaustive sweep over every flag combination.
func TestDetermineLevelProperties(t *testing.T) {
	for mask := 0; mask < 1<<8; mask++ {
		a := baseAssessment()
		a.SafetyOrMajorHarm = mask&1 != 0
		a.DemeritAssigned = mask&2 != 0
		if mask&4 != 0 {
			a.IgnoredPromptsCount = 2
		}
		if mask&8 != 0 {
			a.OccurrencesInLast10Days = 3
		}
		a.PeerImpact = mask&16 != 0
		a.SpaceDisruption = mask&32 != 0
		a.SafetyRisk = mask&64 != 0
		if mask&128 != 0 {
			a.PriorLevelBAttemptsForPattern = 2
		}

		result, err := DetermineLevel(a)
		require.NoError(t, err)

		triggers := mask&(2|4|8|16|32|64) != 0
		switch {
		case a.SafetyOrMajorHarm:
			assert.Equal(t, models.LevelC, result.RecommendedLevel, "mask %b", mask)
		case triggers && a.PriorLevelBAttemptsForPattern >= 2:
			assert.Equal(t, models.LevelC, result.RecommendedLevel, "mask %b", mask)
			assert.True(t, result.IsOverride, "mask %b", mask)
		case triggers:
			assert.Equal(t, models.LevelB, result.RecommendedLevel, "mask %b", mask)
		default:
			assert.Equal(t, models.LevelA, result.RecommendedLevel, "mask %b", mask)
			assert.False(t, result.IsOverride, "mask %b", mask)
		}
	}
}

func TestEscalationSummary(t *testing.T) {
	a := baseAssessment()
	a.DemeritAssigned = true
	a.PriorLevelBAttemptsForPattern = 2
	result, err := DetermineLevel(a)
	require.NoError(t, err)

	before := result
	summary := EscalationSummary(result)

	assert.Contains(t, summary, "Tier-C")
	assert.Contains(t, summary, "a demerit was assigned")
	assert.Contains(t, summary, "override")
	assert.Equal(t, before, result)

	summary = EscalationSummary(models.AssessmentResult{RecommendedLevel: models.LevelA})
	assert.Equal(t, "Recommended Tier-A (in-the-moment coaching): no escalation trigger matched.", summary)

	harm, err := DetermineLevel(models.IncidentAssessment{StudentID: "s", DomainID: "d", SafetyOrMajorHarm: true})
	require.NoError(t, err)
	assert.Contains(t, EscalationSummary(harm), "administrative consequence")
}
