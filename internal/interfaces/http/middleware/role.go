package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/koifarm/backend/internal/interfaces/http/dto"
)

// RequireRole only lets callers whose token carries one of roles through.
// It must run after JWTAuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		if GetJWTClaims(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Authentication required"))
			return
		}
		if _, ok := allowed[GetJWTRoleID(c)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(http.StatusForbidden, "Insufficient role for this operation"))
			return
		}
		c.Next()
	}
}
