package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-intervention-api/internal/core/intervention"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
)

type domainLookup interface {
	Get(ctx context.Context, id string) (*models.BehavioralDomain, error)
}

// AssessmentService classifies incidents with the decision tree.
type AssessmentService struct {
	domains   domainLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssessmentService constructs the service. domains may be nil to skip the catalog
// check.
func NewAssessmentService(domains domainLookup, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{domains: domains, validator: validate, logger: logger}
}

// Assess validates the assessment, confirms the domain exists and returns the
// recommendation with its summary.
func (s *AssessmentService) Assess(ctx context.Context, a models.IncidentAssessment) (*models.AssessmentResult, error) {
	if err := validatePayload(s.validator, a, "invalid assessment payload"); err != nil {
		return nil, err
	}
	if s.domains != nil {
		if _, err := s.domains.Get(ctx, a.DomainID); err != nil {
			var appErr *appErrors.Error
			if errors.As(err, &appErr) {
				return nil, appErr
			}
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "behavioral domain not found")
			}
			return nil, appErrors.Internal(err, "failed to load behavioral domain")
		}
	}

	result, err := intervention.DetermineLevel(a)
	if err != nil {
		return nil, mapError(err, "assessment", "assess incident")
	}
	result.Summary = intervention.EscalationSummary(result)

	s.logger.Info("incident assessed",
		zap.String("student_id", a.StudentID),
		zap.String("domain_id", a.DomainID),
		zap.String("level", string(result.RecommendedLevel)),
		zap.Bool("override", result.IsOverride),
	)
	return &result, nil
}
