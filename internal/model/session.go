package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore defines persistence operations for refresh sessions.
// The token hash carries a unique constraint: at most one live session row
// is keyed by any given refresh-token value.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	GetByTokenHash(ctx context.Context, tokenHash []byte) (Session, error)
	// Rotate replaces the session's token hash and expiry in place. The
	// update applies only while oldHash still matches the stored row, so two
	// rotations racing on the same token have at most one winner; the loser
	// gets ErrSessionNotFound.
	Rotate(ctx context.Context, id uuid.UUID, oldHash, newHash []byte, expiresAt time.Time) error
}

// Session anchors a refresh token's validity to a durable server-side record.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash []byte
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
