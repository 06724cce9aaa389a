package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/library-seat-api/pkg/errors"
	"github.com/noah-isme/library-seat-api/pkg/response"
)

// RequireRoles only lets through requests whose token carries one of roles.
// It must run after JWT.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := CurrentClaims(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Guard chains JWT and RequireRoles, or passes everything through when auth
// is disabled.
func Guard(enabled bool, validator TokenValidator, roles ...string) []gin.HandlerFunc {
	if !enabled || validator == nil {
		return nil
	}
	return []gin.HandlerFunc{JWT(validator), RequireRoles(roles...)}
}
