package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/middleware"
	"github.com/noah-isme/sma-intervention-api/internal/models"
	"github.com/noah-isme/sma-intervention-api/internal/service"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
	"github.com/noah-isme/sma-intervention-api/pkg/response"
)

func actorFromContext(c *gin.Context) *models.Actor {
	return middleware.ActorFromContext(c)
}

// bindJSON decodes the body into dest and writes a VALIDATION_ERROR response on failure.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func sendDocument(c *gin.Context, doc *service.Document) {
	c.Header("Content-Disposition", "attachment; filename=\""+doc.Filename+"\"")
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
