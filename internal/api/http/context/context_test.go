package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authkit/server/internal/model"
)

func TestManager_SetAndGetIdentity(t *testing.T) {
	m := NewManager()
	want := model.Identity{UserID: uuid.New(), Role: "admin"}

	ctx := m.SetIdentityToContext(context.Background(), want)

	got, ok := m.GetIdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestManager_GetIdentity_Unset(t *testing.T) {
	m := NewManager()

	_, ok := m.GetIdentityFromContext(context.Background())
	assert.False(t, ok)
}
