package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/authkit/server/internal/model"
)

// AccessClaims is the claim set carried by access tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// RefreshClaims is the claim set carried by refresh tokens.
type RefreshClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
}

// JWT implements TokenManager backed by symmetric HMAC. Access and refresh
// tokens are signed with separate secrets so that neither namespace can
// forge the other.
type JWT struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWT creates a JWT token manager with the provided secrets and TTLs.
func NewJWT(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) model.TokenManager {
	return &JWT{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// GenerateAccessToken creates a short-lived access token carrying the user
// id and role.
func (j *JWT) GenerateAccessToken(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.accessTTL)),
		},
		UserID: userID,
		Role:   role,
	})

	tokenString, err := token.SignedString([]byte(j.accessSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates a long-lived refresh token carrying only the
// user id. The jti keeps two tokens minted within the same second distinct,
// which rotation depends on.
func (j *JWT) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTTL)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString([]byte(j.refreshSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates an access token against the access secret and
// extracts the caller identity.
func (j *JWT) ParseAccessToken(tokenString string) (model.Identity, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc(j.accessSecret))
	if err != nil {
		return model.Identity{}, mapParseError(err)
	}
	if !token.Valid {
		return model.Identity{}, model.ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return model.Identity{}, model.ErrInvalidToken
	}
	return model.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// ParseRefreshToken validates a refresh token against the refresh secret and
// extracts the user id.
func (j *JWT) ParseRefreshToken(tokenString string) (uuid.UUID, error) {
	claims := &RefreshClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, j.keyFunc(j.refreshSecret))
	if err != nil {
		return uuid.Nil, mapParseError(err)
	}
	if !token.Valid {
		return uuid.Nil, model.ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return uuid.Nil, model.ErrInvalidToken
	}
	return claims.UserID, nil
}

func (j *JWT) keyFunc(secret string) jwt.Keyfunc {
	return func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}
}

func mapParseError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fmt.Errorf("%w: %w", model.ErrTokenExpired, err)
	}
	return fmt.Errorf("%w: %w", model.ErrInvalidToken, err)
}
