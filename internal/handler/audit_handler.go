package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/pkg/response"
)

type auditHistoryService interface {
	History(ctx context.Context, resource, resourceID string) ([]models.AuditLog, error)
}

// AuditHandler exposes the transition trail of intervention records.
type AuditHandler struct {
	service auditHistoryService
}

// NewAuditHandler builds a new handler.
func NewAuditHandler(service auditHistoryService) *AuditHandler {
	return &AuditHandler{service: service}
}

// History godoc
// @Summary List the recorded transitions of one record
// @Tags Audit
// @Produce json
// @Param resource path string true "level_a, level_b, level_c or reentry"
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /audit-logs/{resource}/{id} [get]
func (h *AuditHandler) History(c *gin.Context) {
	logs, err := h.service.History(c.Request.Context(), c.Param("resource"), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
