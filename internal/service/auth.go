package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/authkit/server/internal/logger"
	"github.com/authkit/server/internal/model"
)

// Auth handles user registration and credential verification. Token and
// session concerns are delegated to the SessionService.
type Auth struct {
	users      model.UserStore
	sessions   *SessionService
	bcryptCost int
	logger     *logger.Logger
}

func NewAuth(users model.UserStore, sessions *SessionService, bcryptCost int, logger *logger.Logger) *Auth {
	return &Auth{
		users:      users,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new user account with a bcrypt-hashed password.
func (a *Auth) Register(ctx context.Context, email, password, name string) (model.User, error) {
	a.logger.Debug("Auth service: registering user",
		"email", email)

	existing, err := a.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		return model.User{}, model.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         model.DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, err
	}

	a.logger.Info("Auth service: user registered",
		"email", email,
		"user_id", user.ID)

	return user, nil
}

// Login verifies credentials and issues a token pair with a new session.
// Unknown email and wrong password both surface as ErrInvalidCredentials so
// the caller cannot probe which one failed.
func (a *Auth) Login(ctx context.Context, email, password string) (accessToken string, refreshToken string, err error) {
	a.logger.Debug("Auth service: logging in user",
		"email", email)

	user, err := a.users.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return "", "", model.ErrInvalidCredentials
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", model.ErrInvalidCredentials
	}

	access, refresh, err := a.sessions.Issue(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token pair",
			"email", email,
			"error", err.Error())
		return "", "", fmt.Errorf("failed to issue token pair: %w", err)
	}

	a.logger.Info("Auth service: user logged in",
		"email", email,
		"user_id", user.ID)

	return access, refresh, nil
}
