package handlers

import (
	"context"
	"net/http"
	"strings"

	tt "task_tracker"
	"task_tracker/internal/models"

	"github.com/gin-gonic/gin"
)

// identityKey is where the verified caller is stored in the gin context.
const identityKey = "identity"

type identityCtxKey struct{}

// ContextWithIdentity returns a copy of ctx carrying id.
func ContextWithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey{}, id)
}

// IdentityFromContext returns the identity stored by the auth middleware.
func IdentityFromContext(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityCtxKey{}).(models.Identity)
	return id, ok
}

// identityMiddleware verifies the bearer token and attaches the caller's
// identity. No header or a malformed one is 401; a token that fails
// verification is 403.
func (h *Handler) identityMiddleware(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, tt.ErrorResponse{Error: msgMissingAuth})
		return
	}

	identity, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "err", err, "path", c.FullPath())
		}
		c.AbortWithStatusJSON(http.StatusForbidden, tt.ErrorResponse{Error: msgInvalidToken})
		return
	}

	// store in Gin context and in the request context
	c.Set(identityKey, identity)
	c.Request = c.Request.WithContext(ContextWithIdentity(c.Request.Context(), identity))
	c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// RequireRoles lets the request through only if the authenticated caller
// holds one of roles. It must run after the identity middleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := currentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, tt.ErrorResponse{Error: msgMissingAuth})
			return
		}
		if !identity.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, tt.ErrorResponse{Error: msgForbiddenRole})
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) (models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := v.(models.Identity)
	return id, ok
}

// mustIdentity writes a 401 and returns false when the route was reached
// without an identity.
func mustIdentity(c *gin.Context) (models.Identity, bool) {
	id, ok := currentIdentity(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, tt.ErrorResponse{Error: msgMissingAuth})
	}
	return id, ok
}
