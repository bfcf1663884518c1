package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLevelACreate          = "LEVEL_A_CREATE"
	AuditActionLevelBCreate          = "LEVEL_B_CREATE"
	AuditActionLevelBStepUpdate      = "LEVEL_B_STEP_UPDATE"
	AuditActionLevelBStartMonitoring = "LEVEL_B_START_MONITORING"
	AuditActionLevelBComplete        = "LEVEL_B_COMPLETE"
	AuditActionLevelCCreate          = "LEVEL_C_CREATE"
	AuditActionLevelCTransition      = "LEVEL_C_TRANSITION"
	AuditActionLevelCClose           = "LEVEL_C_CLOSE"
	AuditActionReentryCreate         = "REENTRY_CREATE"
	AuditActionReentryTransition     = "REENTRY_TRANSITION"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
