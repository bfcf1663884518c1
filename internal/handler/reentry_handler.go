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

type reentryService interface {
	Create(ctx context.Context, req dto.CreateReentryRequest, actor *models.Actor) (*models.ReentryProtocol, error)
	Get(ctx context.Context, id string) (*models.ReentryProtocol, error)
	List(ctx context.Context, query dto.ReentryListQuery) ([]models.ReentryProtocol, *models.Pagination, error)
	UpdateChecklist(ctx context.Context, id string, req dto.UpdateChecklistRequest, actor *models.Actor) (*models.ReentryProtocol, error)
	CompleteFirstRep(ctx context.Context, id string, actor *models.Actor) (*models.ReentryProtocol, error)
	Start(ctx context.Context, id string, req dto.StartReentryRequest, actor *models.Actor) (*models.ReentryProtocol, error)
	LogDaily(ctx context.Context, id string, req dto.LogDailyEntryRequest, actor *models.Actor) (*models.ReentryProtocol, error)
	Complete(ctx context.Context, id string, req dto.CompleteReentryRequest, actor *models.Actor) (*models.ReentryProtocol, error)
	Script(ctx context.Context, id, format string) (*service.Document, error)
}

// ReentryHandler exposes re-entry protocols.
type ReentryHandler struct {
	service reentryService
}

// NewReentryHandler builds a new handler.
func NewReentryHandler(service reentryService) *ReentryHandler {
	return &ReentryHandler{service: service}
}

// Create godoc
// @Summary Create a re-entry protocol
// @Description Standalone creation, or the repair path after a PARTIAL_ESCALATION when source_id is set.
// @Tags Reentry
// @Accept json
// @Produce json
// @Param payload body dto.CreateReentryRequest true "Re-entry payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reentry [post]
func (h *ReentryHandler) Create(c *gin.Context) {
	var req dto.CreateReentryRequest
	if !bindJSON(c, &req, "invalid reentry payload") {
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
// @Summary List re-entry protocols
// @Tags Reentry
// @Produce json
// @Param student_id query string false "Student ID"
// @Param source_type query string false "Source type"
// @Param status query string false "Status"
// @Param pending query bool false "Only pending or ready protocols"
// @Param active query bool false "Only active protocols"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /reentry [get]
func (h *ReentryHandler) List(c *gin.Context) {
	var query dto.ReentryListQuery
	if !bindQuery(c, &query, "invalid reentry filter") {
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
// @Summary Get a re-entry protocol
// @Tags Reentry
// @Produce json
// @Param id path string true "Protocol ID"
// @Success 200 {object} response.Envelope
// @Router /reentry/{id} [get]
func (h *ReentryHandler) Get(c *gin.Context) {
	h.respond(c)(h.service.Get(c.Request.Context(), c.Param("id")))
}

// UpdateChecklist godoc
// @Summary Toggle readiness checklist items
// @Tags Reentry
// @Accept json
// @Produce json
// @Param id path string true "Protocol ID"
// @Param payload body dto.UpdateChecklistRequest true "Checklist toggles"
// @Success 200 {object} response.Envelope
// @Router /reentry/{id}/checklist [patch]
func (h *ReentryHandler) UpdateChecklist(c *gin.Context) {
	var req dto.UpdateChecklistRequest
	if !bindJSON(c, &req, "invalid checklist payload") {
		return
	}
	h.respond(c)(h.service.UpdateChecklist(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// CompleteFirstRep godoc
// @Summary Mark the first behavioral rep completed
// @Tags Reentry
// @Produce json
// @Param id path string true "Protocol ID"
// @Success 200 {object} response.Envelope
// @Router /reentry/{id}/first-rep [post]
func (h *ReentryHandler) CompleteFirstRep(c *gin.Context) {
	h.respond(c)(h.service.CompleteFirstRep(c.Request.Context(), c.Param("id"), actorFromContext(c)))
}

// Start godoc
// @Summary Start re-entry monitoring
// @Tags Reentry
// @Accept json
// @Produce json
// @Param id path string true "Protocol ID"
// @Param payload body dto.StartReentryRequest true "Monitoring type"
// @Success 200 {object} response.Envelope
// @Router /reentry/{id}/start [post]
func (h *ReentryHandler) Start(c *gin.Context) {
	var req dto.StartReentryRequest
	if !bindJSON(c, &req, "invalid start payload") {
		return
	}
	h.respond(c)(h.service.Start(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// LogDaily godoc
// @Summary Record a daily re-entry log
// @Tags Reentry
// @Accept json
// @Produce json
// @Param id path string true "Protocol ID"
// @Param payload body dto.LogDailyEntryRequest true "Daily log"
// @Success 200 {object} response.Envelope
// @Router /reentry/{id}/daily-logs [post]
func (h *ReentryHandler) LogDaily(c *gin.Context) {
	var req dto.LogDailyEntryRequest
	if !bindJSON(c, &req, "invalid daily log payload") {
		return
	}
	h.respond(c)(h.service.LogDaily(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// Complete godoc
// @Summary Complete the protocol with an outcome
// @Tags Reentry
// @Accept json
// @Produce json
// @Param id path string true "Protocol ID"
// @Param payload body dto.CompleteReentryRequest true "Outcome"
// @Success 200 {object} response.Envelope
// @Router /reentry/{id}/complete [post]
func (h *ReentryHandler) Complete(c *gin.Context) {
	var req dto.CompleteReentryRequest
	if !bindJSON(c, &req, "invalid completion payload") {
		return
	}
	h.respond(c)(h.service.Complete(c.Request.Context(), c.Param("id"), req, actorFromContext(c)))
}

// Script godoc
// @Summary Render the re-entry conversation script
// @Tags Reentry
// @Produce plain
// @Produce application/pdf
// @Param id path string true "Protocol ID"
// @Param format query string false "text (default) or pdf"
// @Success 200 {file} file
// @Router /reentry/{id}/script [get]
func (h *ReentryHandler) Script(c *gin.Context) {
	doc, err := h.service.Script(c.Request.Context(), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendDocument(c, doc)
}

func (h *ReentryHandler) respond(c *gin.Context) func(*models.ReentryProtocol, error) {
	return func(record *models.ReentryProtocol, err error) {
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, record, nil)
	}
}
