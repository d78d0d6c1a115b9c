package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mealwise/mealwise-backend/internal/types"
)

// TokenValidator authenticates a bearer token into the claims the chat
// pipeline runs under. Tokens are minted elsewhere; this service only
// verifies them.
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// Auth gates every chat route. Handlers downstream read the caller's
// identity from the "user_id" and "username" context keys.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bearer token required"})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// bearerToken pulls the credential out of an Authorization header.
func bearerToken(header string) (string, bool) {
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, found && token != ""
}
