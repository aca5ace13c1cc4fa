package service

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/authkit/server/internal/logger"
	"github.com/authkit/server/internal/model"
)

// SessionService owns the refresh-session lifecycle: issuing a token pair at
// login, validating and rotating the pair on refresh, and resolving access
// tokens for the auth gate. It composes the TokenManager and SessionStore.
type SessionService struct {
	manager    model.TokenManager
	store      model.SessionStore
	users      model.UserStore
	refreshTTL time.Duration
	logger     *logger.Logger
}

func NewSessionService(
	manager model.TokenManager,
	store model.SessionStore,
	users model.UserStore,
	refreshTTL time.Duration,
	logger *logger.Logger,
) *SessionService {
	return &SessionService{
		manager:    manager,
		store:      store,
		users:      users,
		refreshTTL: refreshTTL,
		logger:     logger,
	}
}

// Issue generates a fresh token pair for the user and anchors the refresh
// token in a new session row. Every successful login creates exactly one row;
// rows are never reused.
func (s *SessionService) Issue(ctx context.Context, user model.User) (accessToken string, refreshToken string, err error) {
	access, err := s.manager.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.manager.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}

	session := model.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refresh),
		ExpiresAt: time.Now().Add(s.refreshTTL),
	}

	if err := s.store.Create(ctx, session); err != nil {
		return "", "", fmt.Errorf("persist session: %w", err)
	}

	s.logger.Info("Session service: session created",
		"user_id", user.ID,
		"session_id", session.ID)

	return access, refresh, nil
}

// Refresh validates the presented refresh token, issues a new pair and
// rotates the anchoring session row in place. Signature and expiry are
// checked strictly before any store read; a token whose value was already
// rotated away fails with ErrSessionNotFound, which is what makes each
// refresh token single-use.
func (s *SessionService) Refresh(ctx context.Context, presentedRefresh string) (accessToken string, refreshToken string, err error) {
	if _, err := s.manager.ParseRefreshToken(presentedRefresh); err != nil {
		return "", "", err
	}

	oldHash := hashToken(presentedRefresh)
	session, err := s.store.GetByTokenHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", "", model.ErrSessionNotFound
		}
		return "", "", fmt.Errorf("lookup session: %w", err)
	}

	// Session expiry is advisory metadata; the refresh JWT carries its own
	// exp claim, which was already verified above.
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", "", model.ErrUserNotFound
		}
		return "", "", fmt.Errorf("lookup user: %w", err)
	}

	access, err := s.manager.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("issue new access: %w", err)
	}

	refresh, err := s.manager.GenerateRefreshToken(user.ID)
	if err != nil {
		return "", "", fmt.Errorf("issue new refresh: %w", err)
	}

	if err := s.store.Rotate(ctx, session.ID, oldHash, hashToken(refresh), time.Now().Add(s.refreshTTL)); err != nil {
		return "", "", err
	}

	s.logger.Info("Session service: session rotated",
		"user_id", user.ID,
		"session_id", session.ID)

	return access, refresh, nil
}

// Identity resolves an access token into the caller identity for the auth
// gate. Stateless: the session store is never consulted.
func (s *SessionService) Identity(ctx context.Context, accessToken string) (model.Identity, error) {
	return s.manager.ParseAccessToken(accessToken)
}

func hashToken(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}
