package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/authkit/server/internal/model"
)

// handleError maps a service error to exactly one HTTP status, so callers
// can distinguish "retry login" from "re-authenticate" from "contact
// support". Unknown errors surface as 500 without detail.
func handleError(c *gin.Context, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": errorMessage(err)})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidCredentials),
		errors.Is(err, model.ErrInvalidToken),
		errors.Is(err, model.ErrTokenExpired),
		errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrMissingAuth),
		errors.Is(err, model.ErrMalformedHeader):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage strips wrapping detail off known errors so responses never
// echo submitted credentials or parser internals.
func errorMessage(err error) string {
	for _, known := range []error{
		model.ErrEmailTaken,
		model.ErrInvalidCredentials,
		model.ErrInvalidToken,
		model.ErrTokenExpired,
		model.ErrSessionNotFound,
		model.ErrMissingAuth,
		model.ErrMalformedHeader,
		model.ErrForbidden,
		model.ErrUserNotFound,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
