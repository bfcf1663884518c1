package models

import (
	"time"

	"github.com/lib/pq"
)

// BehavioralDomain is a catalog entry describing an expectation area (prayer space,
// hallways, ...) and its repair-action menu. Maintained by administrators elsewhere.
type BehavioralDomain struct {
	ID            string         `db:"id" json:"id"`
	Name          string         `db:"name" json:"name"`
	Description   string         `db:"description" json:"description"`
	Expectations  pq.StringArray `db:"expectations" json:"expectations"`
	RepairActions pq.StringArray `db:"repair_actions" json:"repair_actions"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// HasRepairAction reports whether action is on the domain's repair menu.
func (d *BehavioralDomain) HasRepairAction(action string) bool {
	for _, a := range d.RepairActions {
		if a == action {
			return true
		}
	}
	return false
}
