package context

import (
	"context"

	"github.com/authkit/server/internal/model"
)

type ctxKey int

const identityKey ctxKey = 0

// Manager stores and retrieves the authenticated identity on a request
// context. The identity is only ever set after successful token
// verification.
type Manager struct{}

// NewManager creates a new request context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext returns a child context carrying the identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentityFromContext retrieves the identity set by the authenticate
// middleware. The boolean reports whether the request was authenticated.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}
