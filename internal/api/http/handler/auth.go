package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authkit/server/internal/logger"
	"github.com/authkit/server/internal/model"
)

// AuthService defines user registration and login operations.
type AuthService interface {
	Register(ctx context.Context, email, password, name string) (model.User, error)
	Login(ctx context.Context, email, password string) (accessToken string, refreshToken string, err error)
}

// TokenService defines token refresh operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken string, newRefreshToken string, err error)
}

// Auth handles HTTP endpoints for authentication.
type Auth struct {
	authService    AuthService
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Register creates a new user account.
func (h *Auth) Register(c *gin.Context) {
	var input registerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), input.Email, input.Password, input.Name)
	if err != nil {
		h.logger.Error("Auth handler: registration failed",
			"email", input.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	h.logger.Info("Auth handler: registration completed",
		"email", user.Email,
		"user_id", user.ID)

	c.JSON(http.StatusCreated, registerResponse{
		ID:    user.ID.String(),
		Email: user.Email,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login verifies credentials and returns a fresh token pair.
func (h *Auth) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	access, refresh, err := h.authService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.logger.Error("Auth handler: login failed",
			"email", input.Email,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh rotates a refresh token and returns the new pair.
func (h *Auth) Refresh(c *gin.Context) {
	var input refreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}

	access, refresh, err := h.tokenService.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		h.logger.Error("Auth handler: refresh failed",
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

type meResponse struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Me returns the identity claims attached by the authenticate middleware.
func (h *Auth) Me(c *gin.Context) {
	identity, ok := h.contextManager.GetIdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrMissingAuth.Error()})
		return
	}

	c.JSON(http.StatusOK, meResponse{
		UserID: identity.UserID.String(),
		Role:   identity.Role,
	})
}
