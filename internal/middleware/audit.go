package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/service"
)

// RequestMeta copies the caller's address and user agent onto the request context so
// audit entries written by services can attribute the transition.
func RequestMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := service.WithRequestMeta(c.Request.Context(), service.RequestMeta{
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
