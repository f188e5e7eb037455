package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storefront/internal/domain"
	usersvc "storefront/internal/service/user"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

type fieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func writeError(c *gin.Context, status int, message string, details any) {
	c.JSON(status, errorResponse{Error: message, Details: details})
}

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(c, http.StatusBadRequest, reason(err, domain.ErrInvalidInput), nil)
	case errors.Is(err, usersvc.ErrInvalidCredentials), errors.Is(err, usersvc.ErrInvalidToken):
		writeError(c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(c, http.StatusConflict, err.Error(), nil)
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error", nil)
	}
}

// bindError reports a malformed or invalid request body.
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		writeError(c, http.StatusBadRequest, "validation failed", details)
		return
	}
	writeError(c, http.StatusBadRequest, "invalid request body", err.Error())
}

// reason strips the sentinel prefix from a wrapped validation error.
func reason(err, sentinel error) string {
	msg := err.Error()
	if trimmed, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return trimmed
	}
	return msg
}
