package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/pkg/response"
)

type assessmentService interface {
	Assess(ctx context.Context, a models.IncidentAssessment) (*models.AssessmentResult, error)
}

// AssessmentHandler exposes the decision tree.
type AssessmentHandler struct {
	service assessmentService
}

// NewAssessmentHandler builds a new handler.
func NewAssessmentHandler(service assessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// Assess godoc
// @Summary Recommend an intervention tier for an incident
// @Tags Assessments
// @Accept json
// @Produce json
// @Param payload body models.IncidentAssessment true "Incident assessment"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assessments [post]
func (h *AssessmentHandler) Assess(c *gin.Context) {
	var req models.IncidentAssessment
	if !bindJSON(c, &req, "invalid assessment payload") {
		return
	}
	result, err := h.service.Assess(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
