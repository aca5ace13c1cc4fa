package model

import "github.com/google/uuid"

// TokenManager generates and validates access/refresh tokens.
// Access and refresh tokens are signed with distinct secrets, so a token of
// one kind can never verify as the other.
type TokenManager interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ParseAccessToken(token string) (Identity, error)
	ParseRefreshToken(token string) (uuid.UUID, error)
}
