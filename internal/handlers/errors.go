package handlers

import (
	"errors"
	"log"
	"net/http"

	"tasknest/internal/auth"
	"tasknest/internal/service"
	"tasknest/internal/validation"
)

// handleServiceError maps service sentinels onto HTTP status codes. Unknown
// errors are logged and surfaced as an opaque 500; devDetail controls whether
// the wrapped error text is included in the response.
func handleServiceError(w http.ResponseWriter, err error, devDetail bool) {
	var vErr validation.ValidationError
	switch {
	case errors.As(err, &vErr):
		respondError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid username or password")
	case errors.Is(err, service.ErrUsernameTaken):
		respondError(w, http.StatusConflict, "username already exists")
	case errors.Is(err, service.ErrWrongPassword):
		respondError(w, http.StatusBadRequest, "current password is incorrect")
	case errors.Is(err, service.ErrInvalidResetToken):
		respondError(w, http.StatusBadRequest, "invalid or expired password reset token")
	case errors.Is(err, auth.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "invalid or expired token")
	default:
		log.Printf("Internal error: %v", err)
		message := "internal server error"
		if devDetail {
			message = err.Error()
		}
		respondError(w, http.StatusInternalServerError, message)
	}
}
