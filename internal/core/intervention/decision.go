package intervention

import (
	"fmt"
	"strings"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

const (
	ignoredPromptsTrigger   = 2
	repeatOccurrenceTrigger = 3
	repeatedLevelBOverride  = 2
)

// DetermineLevel classifies an incident into a recommended tier.
//
// Rules, in order:
//   - safety or major harm recommends Tier-C with an administrative consequence and
//     short-circuits every other rule
//   - any escalation trigger recommends Tier-B, otherwise Tier-A
//   - a second or later Tier-B attempt for the same pattern overrides a Tier-B
//     recommendation to Tier-C
func DetermineLevel(a models.IncidentAssessment) (models.AssessmentResult, error) {
	if strings.TrimSpace(a.StudentID) == "" {
		return models.AssessmentResult{}, invalid("student_id is required")
	}
	if strings.TrimSpace(a.DomainID) == "" {
		return models.AssessmentResult{}, invalid("domain_id is required")
	}
	if a.IgnoredPromptsCount < 0 || a.OccurrencesInLast10Days < 0 || a.PriorLevelBAttemptsForPattern < 0 {
		return models.AssessmentResult{}, invalid("counts must not be negative")
	}

	if a.SafetyOrMajorHarm {
		return models.AssessmentResult{
			RecommendedLevel: models.LevelC,
			MatchedReasons:   []models.EscalationReason{models.ReasonSafetyOrMajorHarm},
			AdminConsequence: true,
		}, nil
	}

	reasons := make([]models.EscalationReason, 0, 7)
	if a.DemeritAssigned {
		reasons = append(reasons, models.ReasonDemeritAssigned)
	}
	if a.IgnoredPromptsCount >= ignoredPromptsTrigger {
		reasons = append(reasons, models.ReasonIgnoredPrompts)
	}
	if a.OccurrencesInLast10Days >= repeatOccurrenceTrigger {
		reasons = append(reasons, models.ReasonRepeatOccurrence)
	}
	if a.PeerImpact {
		reasons = append(reasons, models.ReasonPeerImpact)
	}
	if a.SpaceDisruption {
		reasons = append(reasons, models.ReasonSpaceDisruption)
	}
	if a.SafetyRisk {
		reasons = append(reasons, models.ReasonSafetyRisk)
	}

	result := models.AssessmentResult{RecommendedLevel: models.LevelA, MatchedReasons: reasons}
	if len(reasons) > 0 {
		result.RecommendedLevel = models.LevelB
	}

	if result.RecommendedLevel == models.LevelB && a.PriorLevelBAttemptsForPattern >= repeatedLevelBOverride {
		result.RecommendedLevel = models.LevelC
		result.IsOverride = true
		result.MatchedReasons = append(result.MatchedReasons, models.ReasonRepeatedLevelB)
	}

	return result, nil
}

var reasonText = map[models.EscalationReason]string{
	models.ReasonSafetyOrMajorHarm: "the incident involved a safety concern or major harm",
	models.ReasonDemeritAssigned:   "a demerit was assigned",
	models.ReasonIgnoredPrompts:    "the student ignored two or more prompts",
	models.ReasonRepeatOccurrence:  "this is at least the third occurrence in the last 10 days",
	models.ReasonPeerImpact:        "peers were impacted",
	models.ReasonSpaceDisruption:   "the shared space was disrupted",
	models.ReasonSafetyRisk:        "a safety risk was flagged",
	models.ReasonRepeatedLevelB:    "two or more reset conferences were already held for this pattern",
}

var levelText = map[models.InterventionLevel]string{
	models.LevelA: "Tier-A (in-the-moment coaching)",
	models.LevelB: "Tier-B (structured reset conference)",
	models.LevelC: "Tier-C (case management)",
}

// EscalationSummary renders a result as a human-readable explanation. It never
// changes the recommendation.
func EscalationSummary(r models.AssessmentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recommended %s", levelText[r.RecommendedLevel])
	if len(r.MatchedReasons) == 0 {
		b.WriteString(": no escalation trigger matched.")
		return b.String()
	}

	parts := make([]string, 0, len(r.MatchedReasons))
	for _, reason := range r.MatchedReasons {
		text, ok := reasonText[reason]
		if !ok {
			text = string(reason)
		}
		parts = append(parts, text)
	}
	fmt.Fprintf(&b, " because %s.", strings.Join(parts, "; "))

	if r.AdminConsequence {
		b.WriteString(" An administrative consequence is required.")
	}
	if r.IsOverride {
		b.WriteString(" Repeated Tier-B attempts override the trigger-based recommendation.")
	}
	return b.String()
}
