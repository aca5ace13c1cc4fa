package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/authkit/server/internal/logger"
	"github.com/authkit/server/internal/model"
)

// TokenService resolves caller identity from bearer access tokens.
type TokenService interface {
	Identity(ctx context.Context, token string) (model.Identity, error)
}

// Authenticate validates bearer tokens and injects the caller identity into
// the request context. It never touches the session store: access tokens are
// stateless.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle parses the Authorization header, validates the token and attaches
// the decoded identity to the request context.
func (m *Authenticate) Handle(c *gin.Context) {
	identity, err := m.authenticate(c.Request.Context(), c.GetHeader("Authorization"))
	if err != nil {
		m.logger.Debug("Authenticate middleware: rejected request",
			"path", c.FullPath(),
			"error", err.Error())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.Request = c.Request.WithContext(m.contextManager.SetIdentityToContext(c.Request.Context(), identity))
	c.Next()
}

// RequireRole gates a route on the authenticated identity's role. Role
// mismatch is 403, distinct from the 401 of a failed authentication.
func (m *Authenticate) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := m.contextManager.GetIdentityFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": model.ErrMissingAuth.Error()})
			return
		}
		if identity.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": model.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func (m *Authenticate) authenticate(ctx context.Context, authHeader string) (model.Identity, error) {
	if authHeader == "" {
		return model.Identity{}, model.ErrMissingAuth
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || scheme != "Bearer" || token == "" {
		return model.Identity{}, model.ErrMalformedHeader
	}

	identity, err := m.tokenService.Identity(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			return model.Identity{}, model.ErrTokenExpired
		}
		return model.Identity{}, model.ErrInvalidToken
	}

	return identity, nil
}
