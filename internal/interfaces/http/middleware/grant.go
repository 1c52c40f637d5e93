package middleware

import (
	"net/http"

	"github.com/finboard/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireGrant aborts with 403 unless the authenticated user carries the
// given grant. The "admin" grant satisfies every check. Must run after
// JWTAuth.
func RequireGrant(grant string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if !claims.HasGrant(grant) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireAnyGrant aborts with 403 unless the user carries at least one of
// the given grants
func RequireAnyGrant(grants ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if !claims.HasAnyGrant(grants...) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}
