package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/dto"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/internal/service"
	"github.com/noah-isme/sma-intervention-api/pkg/response"
)

type levelCService interface {
	Create(ctx context.Context, req dto.CreateLevelCRequest, actor *models.Actor) (*models.LevelCCase, error)
	Get(ctx context.Context, id string) (*models.LevelCCase, error)
	List(ctx context.Context, query dto.LevelCListQuery, actor *models.Actor) ([]models.LevelCCase, *models.Pagination, error)
	AssignCaseManager(ctx context.Context, id string, req dto.AssignCaseManagerRequest, actor *models.Actor) (*models.LevelCCase, error)
	UpdateContextPacket(ctx context.Context, id string, req dto.UpdateContextPacketRequest, actor *models.Actor) (*models.LevelCCase, error)
	RecordAdminResponse(ctx context.Context, id string, req dto.RecordAdminResponseRequest, actor *models.Actor) (*models.LevelCCase, error)
	CreateReentryPlan(ctx context.Context, id string, req dto.CreateReentryPlanRequest, actor *models.Actor) (*models.LevelCCase, error)
	StartMonitoring(ctx context.Context, id string, actor *models.Actor) (*models.LevelCCase, error)
	LogCheckIn(ctx context.Context, id string, req dto.LogCheckInRequest, actor *models.Actor) (*models.LevelCCase, error)
	Close(ctx context.Context, id string, req dto.CloseCaseRequest, actor *models.Actor) (*models.LevelCCase, error)
	Export(ctx context.Context, id, format string) (*service.Document, error)
}

// LevelCHandler exposes Tier-C case management.
type LevelCHandler struct {
	service levelCService
}

// NewLevelCHandler builds a new handler.
func NewLevelCHandler(service levelCService) *LevelCHandler {
	return &LevelCHandler{service: service}
}

// Create godoc
// @Summary Open a Tier-C case
// @Tags LevelC
// @Accept json
// @Produce json
// @Param payload body dto.CreateLevelCRequest true "Tier-C payload"
// @Success 201 {object} response.Envelope
// @Router /level-c [post]
func (h *LevelCHandler) Create(c *gin.Context) {
	var req dto.CreateLevelCRequest
	if !bindJSON(c, &req, "invalid level c payload") {
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
// @Summary List Tier-C cases
// @Tags LevelC
// @Produce json
// @Param student_id query string false "Student ID"
// @Param case_manager_id query string false "Case manager ID"
// @Param status query string false "Status"
// @Param my_caseload query bool false "Only cases managed by the caller"
// @Param pending_reentries query bool false "Only cases awaiting re-entry"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /level-c [get]
func (h *LevelCHandler) List(c *gin.Context) {
	var query dto.LevelCListQuery
	if !bindQuery(c, &query, "invalid level c filter") {
		return
	}
	items, page, err := h.service.List(c.Request.Context(), query, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items, page)
}

// Get godoc
// @Summary Get a Tier-C case
// @Tags LevelC
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Router /level-c/{id} [get]
func (h *LevelCHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// AssignCaseManager godoc
// @Summary Assign the case manager
// @Tags LevelC
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body dto.AssignCaseManagerRequest true "Case manager"
// @Success 200 {object} response.Envelope
// @Router /level-c/{id}/case-manager [put]
func (h *LevelCHandler) AssignCaseManager(c *gin.Context) {
	var req dto.AssignCaseManagerRequest
	if !bindJSON(c, &req, "invalid case manager payload") {
		return
	}
	h.respond(c)(h.service.AssignCaseManager(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// UpdateContextPacket godoc
// @Summary Update the case context packet
// @Tags LevelC
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body dto.UpdateContextPacketRequest true "Context packet fields"
// @Success 200 {object} response.Envelope
// @Router /level-c/{id}/context-packet [patch]
func (h *LevelCHandler) UpdateContextPacket(c *gin.Context) {
	var req dto.UpdateContextPacketRequest
	if !bindJSON(c, &req, "invalid context packet payload") {
		return
	}
	h.respond(c)(h.service.UpdateContextPacket(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// RecordAdminResponse godoc
// @Summary Record the administrative response
// @Tags LevelC
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body dto.RecordAdminResponseRequest true "Administrative response"
// @Success 200 {object} response.Envelope
// @Router /level-c/{id}/admin-response [post]
func (h *LevelCHandler) RecordAdminResponse(c *gin.Context) {
	var req dto.RecordAdminResponseRequest
	if !bindJSON(c, &req, "invalid admin response payload") {
		return
	}
	h.respond(c)(h.service.RecordAdminResponse(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// CreateReentryPlan godoc
// @Summary Plan re-entry and spawn the re-entry protocol after a removal
// @Tags LevelC
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body dto.CreateReentryPlanRequest true "Re-entry plan"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope "PARTIAL_ESCALATION when the re-entry spawn failed"
// @Router /level-c/{id}/reentry-plan [post]
func (h *LevelCHandler) CreateReentryPlan(c *gin.Context) {
	var req dto.CreateReentryPlanRequest
	if !bindJSON(c, &req, "invalid reentry plan payload") {
		return
	}
	h.respond(c)(h.service.CreateReentryPlan(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// StartMonitoring godoc
// @Summary Start Tier-C monitoring
// @Tags LevelC
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} response.Envelope
// @Router /level-c/{id}/monitoring [post]
func (h *LevelCHandler) StartMonitoring(c *gin.Context) {
	h.respond(c)(h.service.StartMonitoring(c.Request.Context(), c.Param("id"), actorFromContext(c)))
}

// LogCheckIn godoc
// @Summary Record a daily check-in
// @Tags LevelC
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body dto.LogCheckInRequest true "Check-in"
// @Success 200 {object} response.Envelope
// @Router /level-c/{id}/check-ins [post]
func (h *LevelCHandler) LogCheckIn(c *gin.Context) {
	var req dto.LogCheckInRequest
	if !bindJSON(c, &req, "invalid check-in payload") {
		return
	}
	h.respond(c)(h.service.LogCheckIn(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// Close godoc
// @Summary Close the case with an outcome
// @Tags LevelC
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param payload body dto.CloseCaseRequest true "Outcome"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /level-c/{id}/close [post]
func (h *LevelCHandler) Close(c *gin.Context) {
	var req dto.CloseCaseRequest
	if !bindJSON(c, &req, "invalid close payload") {
		return
	}
	h.respond(c)(h.service.Close(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// Export godoc
// @Summary Export the case packet
// @Tags LevelC
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Case ID"
// @Param format query string false "pdf (default) or csv"
// @Success 200 {file} file
// @Router /level-c/{id}/export [get]
func (h *LevelCHandler) Export(c *gin.Context) {
	doc, err := h.service.Export(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendDocument(c, doc)
}

func (h *LevelCHandler) respond(c *gin.Context) func(*models.LevelCCase, error) {
	return func(record *models.LevelCCase, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, record, nil)
	}
}
