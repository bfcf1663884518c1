package models

// InterventionLevel is one of the three escalating tiers.
type InterventionLevel string

const (
	LevelA InterventionLevel = "A"
	LevelB InterventionLevel = "B"
	LevelC InterventionLevel = "C"
)

// EscalationReason identifies a rule that matched during assessment.
type EscalationReason string

const (
	ReasonSafetyOrMajorHarm EscalationReason = "safety_or_major_harm"
	ReasonDemeritAssigned   EscalationReason = "demerit_assigned"
	ReasonIgnoredPrompts    EscalationReason = "ignored_prompts"
	ReasonRepeatOccurrence  EscalationReason = "repeat_occurrence"
	ReasonPeerImpact        EscalationReason = "peer_impact"
	ReasonSpaceDisruption   EscalationReason = "space_disruption"
	ReasonSafetyRisk        EscalationReason = "safety_risk"
	ReasonRepeatedLevelB    EscalationReason = "repeated_level_b_for_pattern"
)

// IncidentAssessment is the transient classification input supplied by staff.
type IncidentAssessment struct {
	StudentID                     string `json:"student_id" validate:"required"`
	DomainID                      string `json:"domain_id" validate:"required"`
	SafetyOrMajorHarm             bool   `json:"safety_or_major_harm"`
	DemeritAssigned               bool   `json:"demerit_assigned"`
	IgnoredPromptsCount           int    `json:"ignored_prompts_count" validate:"gte=0"`
	OccurrencesInLast10Days       int    `json:"occurrences_in_last_10_days" validate:"gte=0"`
	PeerImpact                    bool   `json:"peer_impact"`
	SpaceDisruption               bool   `json:"space_disruption"`
	SafetyRisk                    bool   `json:"safety_risk"`
	PriorLevelBAttemptsForPattern int    `json:"prior_level_b_attempts_for_pattern" validate:"gte=0"`
}

// AssessmentResult is the decision tree output.
type AssessmentResult struct {
	RecommendedLevel InterventionLevel  `json:"recommended_level"`
	MatchedReasons   []EscalationReason `json:"reasons"`
	IsOverride       bool               `json:"is_override"`
	// AdminConsequence is set when the recommendation implies an administrative
	// consequence action (major harm).
	AdminConsequence bool   `json:"admin_consequence"`
	Summary          string `json:"summary,omitempty"`
}
