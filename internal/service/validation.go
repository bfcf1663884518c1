package service

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sma-intervention-api/internal/core/intervention"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
)

// NewValidator returns a validator with the intervention-specific tags registered:
// rate_percent (0..100) and calendar_date (YYYY-MM-DD).
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("rate_percent", func(fl validator.FieldLevel) bool {
		rate := fl.Field().Float()
		return rate >= 0 && rate <= 100
	})
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if raw == "" {
			return true
		}
		_, err := intervention.ParseCalendarDate(raw)
		return err == nil
	})
	return v
}

func validatePayload(v *validator.Validate, payload interface{}, message string) error {
	if err := v.Struct(payload); err != nil {
		return appErrors.Validation(err, message)
	}
	return nil
}

// parseOptionalDate parses a YYYY-MM-DD string into a UTC midnight time.
func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := intervention.ParseCalendarDate(raw)
	if err != nil {
		return nil, mapError(err, "", "parse date")
	}
	return &t, nil
}
