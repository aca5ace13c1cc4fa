package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/authkit/server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session model.Session) error {
	const query = `
        INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at, updated_at)
        VALUES ($1, $2, $3, $4, NOW(), NOW())
    `

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.TokenHash, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash []byte) (model.Session, error) {
	const query = `
        SELECT id, user_id, token_hash, expires_at, created_at, updated_at
        FROM sessions WHERE token_hash = $1
    `
	var s model.Session
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&s.ID, &s.UserID, &s.TokenHash, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Session{}, model.ErrNotFound
		}
		return model.Session{}, fmt.Errorf("failed to get session by token hash: %w", err)
	}
	return s, nil
}

// Rotate overwrites the session row in place. The oldHash predicate makes the
// update a single-row compare-and-swap: once a rotation commits, any
// concurrent rotation still holding the pre-rotation hash matches zero rows
// and fails with ErrSessionNotFound.
func (r *SessionRepository) Rotate(ctx context.Context, id uuid.UUID, oldHash, newHash []byte, expiresAt time.Time) error {
	const query = `
        UPDATE sessions SET token_hash = $3, expires_at = $4, updated_at = NOW()
        WHERE id = $1 AND token_hash = $2
    `
	tag, err := r.db.Exec(ctx, query, id, oldHash, newHash, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}
