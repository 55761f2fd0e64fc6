package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront/internal/domain"
)

const (
	// ContextAdminKey is where AuthRequired stores the resolved identity.
	ContextAdminKey = "admin"
	// ContextTokenKey is where AuthRequired stores the raw session token.
	ContextTokenKey = "session_token"
)

// AuthRequired gates admin routes behind a valid Bearer session token. The
// downstream handler never runs for an unauthenticated request.
func AuthRequired(auth domain.AuthUseCase, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Middleware: Missing or malformed Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		user, err := auth.CurrentUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				log.Warn("Middleware: Rejected invalid or expired session token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
				return
			}
			log.Errorf("Middleware: Session lookup failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Set(ContextAdminKey, user)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// AdminFromContext returns the identity set by AuthRequired.
func AdminFromContext(c *gin.Context) (*domain.AdminUser, bool) {
	value, exists := c.Get(ContextAdminKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.AdminUser)
	return user, ok
}

// TokenFromContext returns the session token set by AuthRequired.
func TokenFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextTokenKey)
	if !exists {
		return "", false
	}
	token, ok := value.(string)
	return token, ok
}
