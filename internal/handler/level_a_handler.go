package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/dto"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/pkg/response"
)

type levelAService interface {
	Create(ctx context.Context, req dto.CreateLevelARequest, actor *models.Actor) (*models.LevelAIntervention, error)
	Get(ctx context.Context, id string) (*models.LevelAIntervention, error)
	List(ctx context.Context, query dto.LevelAListQuery) ([]models.LevelAIntervention, *models.Pagination, error)
}

// LevelAHandler exposes Tier-A coaching records.
type LevelAHandler struct {
	service levelAService
}

// NewLevelAHandler builds a new handler.
func NewLevelAHandler(service levelAService) *LevelAHandler {
	return &LevelAHandler{service: service}
}

// Create godoc
// @Summary Record a Tier-A intervention
// @Tags LevelA
// @Accept json
// @Produce json
// @Param payload body dto.CreateLevelARequest true "Tier-A payload"
// @Success 201 {object} response.Envelope
// @Router /level-a [post]
func (h *LevelAHandler) Create(c *gin.Context) {
	var req dto.CreateLevelARequest
	if !bindJSON(c, &req, "invalid level a payload") {
		return
	}
	record, err := h.service.Create(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// List godoc
// @Summary List Tier-A interventions
// @Tags LevelA
// @Produce json
// @Param student_id query string false "Student ID"
// @Param domain_id query string false "Domain ID"
// @Param staff_id query string false "Staff ID"
// @Param date_from query string false "First calendar day (YYYY-MM-DD)"
// @Param date_to query string false "Last calendar day, inclusive (YYYY-MM-DD)"
// @Param today_only query bool false "Only today's records"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /level-a [get]
func (h *LevelAHandler) List(c *gin.Context) {
	var query dto.LevelAListQuery
	if !bindQuery(c, &query, "invalid level a filter") {
		return
	}
	items, page, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, page)
}

// Get godoc
// @Summary Get a Tier-A intervention
// @Tags LevelA
// @Produce json
// @Param id path string true "Tier-A ID"
// @Success 200 {object} response.Envelope
// @Router /level-a/{id} [get]
func (h *LevelAHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
