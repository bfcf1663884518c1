package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/dto"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/pkg/response"
)

type levelBService interface {
	Create(ctx context.Context, req dto.CreateLevelBRequest, actor *models.Actor) (*models.LevelBIntervention, error)
	Get(ctx context.Context, id string) (*models.LevelBIntervention, error)
	List(ctx context.Context, query dto.LevelBListQuery) ([]models.LevelBIntervention, *models.Pagination, error)
	UpdateStep(ctx context.Context, id string, req dto.UpdateStepRequest, actor *models.Actor) (*models.LevelBIntervention, error)
	StartMonitoring(ctx context.Context, id string, req dto.StartLevelBMonitoringRequest, actor *models.Actor) (*models.LevelBIntervention, error)
	LogDailyRate(ctx context.Context, id string, req dto.LogDailyRateRequest, actor *models.Actor) (*models.LevelBIntervention, error)
	CompleteMonitoring(ctx context.Context, id string, req dto.CompleteLevelBRequest, actor *models.Actor) (*models.LevelBIntervention, error)
}

// LevelBHandler exposes Tier-B reset conferences.
type LevelBHandler struct {
	service levelBService
}

// NewLevelBHandler builds a new handler.
func NewLevelBHandler(service levelBService) *LevelBHandler {
	return &LevelBHandler{service: service}
}

// Create godoc
// @Summary Open a Tier-B reset conference
// @Tags LevelB
// @Accept json
// @Produce json
// @Param payload body dto.CreateLevelBRequest true "Tier-B payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /level-b [post]
func (h *LevelBHandler) Create(c *gin.Context) {
	var req dto.CreateLevelBRequest
	if !bindJSON(c, &req, "invalid level b payload") {
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
// @Summary List Tier-B reset conferences
// @Tags LevelB
// @Produce json
// @Param student_id query string false "Student ID"
// @Param domain_id query string false "Domain ID"
// @Param staff_id query string false "Staff ID"
// @Param status query string false "Status"
// @Param active_monitoring query bool false "Only conferences in monitoring"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /level-b [get]
func (h *LevelBHandler) List(c *gin.Context) {
	var query dto.LevelBListQuery
	if !bindQuery(c, &query, "invalid level b filter") {
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
// @Summary Get a Tier-B reset conference
// @Tags LevelB
// @Produce json
// @Param id path string true "Tier-B ID"
// @Success 200 {object} response.Envelope
// @Router /level-b/{id} [get]
func (h *LevelBHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// UpdateStep godoc
// @Summary Record one conference step
// @Tags LevelB
// @Accept json
// @Produce json
// @Param id path string true "Tier-B ID"
// @Param payload body dto.UpdateStepRequest true "Step payload"
// @Success 200 {object} response.Envelope
// @Router /level-b/{id}/steps [patch]
func (h *LevelBHandler) UpdateStep(c *gin.Context) {
	var req dto.UpdateStepRequest
	if !bindJSON(c, &req, "invalid step payload") {
		return
	}
	record, err := h.service.UpdateStep(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// StartMonitoring godoc
// @Summary Start the Tier-B monitoring period
// @Tags LevelB
// @Accept json
// @Produce json
// @Param id path string true "Tier-B ID"
// @Param payload body dto.StartLevelBMonitoringRequest true "Monitoring method"
// @Success 200 {object} response.Envelope
// @Router /level-b/{id}/monitoring [post]
func (h *LevelBHandler) StartMonitoring(c *gin.Context) {
	var req dto.StartLevelBMonitoringRequest
	if !bindJSON(c, &req, "invalid monitoring payload") {
		return
	}
	record, err := h.service.StartMonitoring(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// LogDailyRate godoc
// @Summary Record a daily success rate
// @Tags LevelB
// @Accept json
// @Produce json
// @Param id path string true "Tier-B ID"
// @Param payload body dto.LogDailyRateRequest true "Daily rate"
// @Success 200 {object} response.Envelope
// @Router /level-b/{id}/daily-rates [post]
func (h *LevelBHandler) LogDailyRate(c *gin.Context) {
	var req dto.LogDailyRateRequest
	if !bindJSON(c, &req, "invalid daily rate payload") {
		return
	}
	record, err := h.service.LogDailyRate(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Complete godoc
// @Summary Close the monitoring period and decide success or escalation
// @Tags LevelB
// @Accept json
// @Produce json
// @Param id path string true "Tier-B ID"
// @Param payload body dto.CompleteLevelBRequest false "Optional consequence"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope "PARTIAL_ESCALATION when the re-entry spawn failed"
// @Router /level-b/{id}/complete [post]
func (h *LevelBHandler) Complete(c *gin.Context) {
	var req dto.CompleteLevelBRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "invalid completion payload") {
		return
	}
	record, err := h.service.CompleteMonitoring(c.Request.Context(), c.Param("id"), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
