package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-intervention-api/internal/models"
	appErrors "github.com/noah-isme/sma-intervention-api/pkg/errors"
	"github.com/noah-isme/sma-intervention-api/pkg/response"
)

// RequireRoles restricts a route to the given roles. SUPERADMIN is always allowed.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles)+1)
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	allowed[models.RoleSuperAdmin] = struct{}{}

	return func(c *gin.Context) {
		actor := ActorFromContext(c)
		if actor == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
