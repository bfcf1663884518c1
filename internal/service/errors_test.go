package service

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-intervention-api/internal/core/intervention"
	"github.com/noah-isme/sma-intervention-api/internal/repository"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{name: "rule conflict", err: &intervention.RuleError{Kind: intervention.KindConflict, Reason: "closed"}, code: appErrors.ErrConflict.Code},
		{name: "rule validation", err: &intervention.RuleError{Kind: intervention.KindValidation, Reason: "bad"}, code: appErrors.ErrValidation.Code},
		{name: "no rows", err: sql.ErrNoRows, code: appErrors.ErrNotFound.Code},
		{name: "source missing", err: repository.ErrSourceNotFound, code: appErrors.ErrNotFound.Code},
		{name: "student mismatch", err: repository.ErrSourceMismatch, code: appErrors.ErrValidation.Code},
		{name: "stale version", err: fmt.Errorf("update: %w", repository.ErrVersionConflict), code: appErrors.ErrConflict.Code},
		{name: "already escalated", err: repository.ErrSourceAlreadyEscalated, code: appErrors.ErrConflict.Code},
		{name: "already linked", err: repository.ErrAlreadyLinked, code: appErrors.ErrConflict.Code},
		{name: "driver failure", err: errStoreDown, code: appErrors.ErrInternal.Code},
		{name: "app error passes through", err: appErrors.ErrForbidden, code: appErrors.ErrForbidden.Code},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, appErrors.FromError(mapError(tc.err, "record", "do work")).Code)
		})
	}
	assert.NoError(t, mapError(nil, "record", "do work"))
}
