package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/middleware"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/pkg/response"
)

type domainService interface {
	List(ctx context.Context) ([]models.BehavioralDomain, bool, error)
	GetCached(ctx context.Context, id string) (*models.BehavioralDomain, bool, error)
}

// DomainHandler exposes the read-only behavioral domain catalog.
type DomainHandler struct {
	service domainService
}

// NewDomainHandler builds a new handler.
func NewDomainHandler(service domainService) *DomainHandler {
	return &DomainHandler{service: service}
}

// List godoc
// @Summary List behavioral domains
// @Tags Domains
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /domains [get]
func (h *DomainHandler) List(c *gin.Context) {
	items, hit, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, items, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get a behavioral domain with its repair menu
// @Tags Domains
// @Produce json
// @Param id path string true "Domain ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /domains/{id} [get]
func (h *DomainHandler) Get(c *gin.Context) {
	item, hit, err := h.service.GetCached(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, item, nil, middleware.ExtractMeta(c))
}
