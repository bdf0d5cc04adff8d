package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bolx/internal/service"
)

const (
	ContextKeySubject = "subject"
	ContextKeyClaims  = "claims"
)

// AuthMiddleware returns Gin middleware that validates bearer API tokens and
// injects the token subject into the context.
func AuthMiddleware(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetSubject returns the authenticated token subject, or "anonymous" when
// the request was not authenticated.
func GetSubject(c *gin.Context) string {
	if s := c.GetString(ContextKeySubject); s != "" {
		return s
	}
	return "anonymous"
}
