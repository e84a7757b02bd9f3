package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesikahq/clinic-desk/internal/apperr"
	"github.com/mesikahq/clinic-desk/internal/auth"
)

func statusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	case apperr.IsStore(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders err as {"error": message}. Store and unexpected
// errors are logged with their cause and answered with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)

	message := err.Error()
	switch status {
	case http.StatusServiceUnavailable:
		message = "storage unavailable"
	case http.StatusInternalServerError:
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
