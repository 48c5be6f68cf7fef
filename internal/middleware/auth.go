package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mealmancer/server/internal/messages"
	"github.com/mealmancer/server/internal/service"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "accessToken"

const claimsContextKey = "session-claims"

// TokenValidator verifies a session token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*service.SessionClaims, error)
}

// UsageCounter counts one request against a user, independent of the
// request's eventual outcome.
type UsageCounter interface {
	IncrementUsage(userID uuid.UUID)
}

// Auth authenticates the request from the accessToken cookie, with a
// bearer-header fallback for stateless clients. Missing or bad tokens
// abort with 401 before any downstream component runs. Every request
// that passes verification counts one usage for the user.
func Auth(validator TokenValidator, usage UsageCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": messages.InvalidToken})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": messages.InvalidToken})
			return
		}

		c.Set(claimsContextKey, claims)

		if usage != nil {
			go usage.IncrementUsage(claims.UserID)
		}

		c.Next()
	}
}

// RequireAdmin gates an operation on the admin role. Must run after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentClaims(c)
		if claims == nil || !claims.Role.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": messages.NotAuthorized})
			return
		}
		c.Next()
	}
}

// CurrentClaims returns the authenticated session claims, or nil when the
// request never passed the auth middleware.
func CurrentClaims(c *gin.Context) *service.SessionClaims {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*service.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
