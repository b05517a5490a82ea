package middleware

import (
	"context"
	"net/http"
	"strings"

	"artifact-catalog-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.GetHeader("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentUser returns the user stored by Authenticate, or nil.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}

// Authenticate resolves the bearer token when one is sent. Requests without
// a valid token continue anonymously; RequireGroup rejects them where needed.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := BearerToken(c); token != "" {
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(ctxUserKey, user)
				c.Set("user_id", user.ID)
			}
		}
		c.Next()
	}
}

// RequireGroup allows authenticated users that belong to any of groups.
func RequireGroup(groups ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": domain.ErrUnauthenticated.Error()})
			return
		}
		if !user.InGroup(groups...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domain.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}
