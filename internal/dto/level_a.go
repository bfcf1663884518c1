package dto

// CreateLevelARequest records an in-the-moment coaching intervention.
type CreateLevelARequest struct {
	StudentID        string  `json:"student_id" validate:"required"`
	DomainID         string  `json:"domain_id" validate:"required"`
	InterventionType string  `json:"intervention_type" validate:"required,max=60"`
	Notes            *string `json:"notes"`
}

// LevelAListQuery captures list filters from the query string.
type LevelAListQuery struct {
	StudentID string `form:"student_id"`
	DomainID  string `form:"domain_id"`
	StaffID   string `form:"staff_id"`
	DateFrom  string `form:"date_from" validate:"calendar_date"`
	DateTo    string `form:"date_to" validate:"calendar_date"`
	TodayOnly bool   `form:"today_only"`
	Limit     int    `form:"limit"`
	Offset    int    `form:"offset"`
}
