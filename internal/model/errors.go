package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must not learn which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token fails signature or structural
	// verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token's embedded expiry has passed.
	ErrTokenExpired = errors.New("token expired")

	// ErrSessionNotFound is returned when a verified refresh token has no
	// matching live session row: never issued, already rotated away, or
	// administratively revoked.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUserNotFound is returned when a session's owning user no longer
	// exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingAuth is returned when no authorization header is present.
	ErrMissingAuth = errors.New("missing authorization")

	// ErrMalformedHeader is returned when the authorization header is not a
	// bearer scheme with a non-empty token.
	ErrMalformedHeader = errors.New("invalid auth header")

	// ErrForbidden is returned when the caller is authenticated but its role
	// does not satisfy the route's requirement.
	ErrForbidden = errors.New("forbidden")
)
