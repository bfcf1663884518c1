package service

import (
	"database/sql"
	"errors"

	"github.com/noah-isme/sma-intervention-api/internal/core/intervention"
	"github.com/noah-isme/sma-intervention-api/internal/repository"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
)

// mapError converts rule, repository and driver failures into application errors.
// notFound names the record for NOT_FOUND messages; action describes the attempted
// operation for internal failures.
func mapError(err error, notFound, action string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var rule *intervention.RuleError
	if errors.As(err, &rule) {
		if rule.Kind == intervention.KindConflict {
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, rule.Reason)
		}
		return appErrors.Validation(err, rule.Reason)
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, notFound+" not found")
	case errors.Is(err, repository.ErrSourceNotFound):
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, err.Error())
	case errors.Is(err, repository.ErrSourceMismatch):
		return appErrors.Validation(err, err.Error())
	case errors.Is(err, repository.ErrVersionConflict),
		errors.Is(err, repository.ErrSourceAlreadyEscalated),
		errors.Is(err, repository.ErrSourceNotEscalatable),
		errors.Is(err, repository.ErrAlreadyLinked):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, err.Error())
	}
	return appErrors.Internal(err, "failed to "+action)
}
