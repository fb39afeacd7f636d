package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nahashon-source/globalship-backend/internal/domain"
	"github.com/nahashon-source/globalship-backend/pkg/logger"
	"github.com/nahashon-source/globalship-backend/pkg/response"
)

const identityKey = "identity"

// Resolver turns a bearer token into the caller's identity
type Resolver interface {
	Resolve(ctx context.Context, accessToken string) (*domain.Identity, error)
}

// RequireAuth extracts the bearer token, resolves it and stores the
// identity on the context. Every failure is a 401 with the same body; the
// distinct causes go to the logs only.
func RequireAuth(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			logger.Get().Info("authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			response.Unauthorized(c, "Could not validate credentials")
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireSuperuser gates a route to superusers. It must run after
// RequireAuth.
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			response.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}
		if !identity.Superuser {
			response.Forbidden(c, "The user doesn't have enough privileges")
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*domain.Identity)
	return identity, ok
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
