package models

import "time"

// LevelAOutcomeEscalated marks a Tier-A record superseded by a Tier-B conference.
const LevelAOutcomeEscalated = "escalated"

// LevelAIntervention is an in-the-moment coaching record. Append-only except for the
// single escalation write.
type LevelAIntervention struct {
	ID               string    `db:"id" json:"id"`
	StudentID        string    `db:"student_id" json:"student_id"`
	StaffID          string    `db:"staff_id" json:"staff_id"`
	StaffName        string    `db:"staff_name" json:"staff_name"`
	DomainID         string    `db:"domain_id" json:"domain_id"`
	InterventionType string    `db:"intervention_type" json:"intervention_type"`
	Notes            *string   `db:"notes" json:"notes,omitempty"`
	EscalatedToB     bool      `db:"escalated_to_b" json:"escalated_to_b"`
	Outcome          *string   `db:"outcome" json:"outcome,omitempty"`
	Version          int       `db:"version" json:"version"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// LevelAFilter constrains Tier-A listings.
type LevelAFilter struct {
	StudentID string
	DomainID  string
	StaffID   string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}
