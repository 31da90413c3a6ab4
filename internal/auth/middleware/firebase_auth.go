package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/uni-mart/unimart-backend/internal/auth"
)

// RequireIdentity validates bearer ID tokens and stores the reduced
// identity in the request context. Requests without a valid token get
// a 401 and never reach the handler.
func RequireIdentity(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing authorization token"})
			c.Abort()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(auth.CtxIdentity, identity)
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
