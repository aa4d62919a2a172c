package handlers

import (
	"net/http"

	"safareasy/internal/domain"
	"safareasy/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Every handler funnels
// failures through here so the taxonomy maps to status codes in one place.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	case domain.IsClassMismatch(err):
		respondError(c, http.StatusUnprocessableEntity, "class_mismatch", err.Error())
	case domain.IsTerminalTrip(err):
		respondError(c, http.StatusUnprocessableEntity, "terminal_trip", err.Error())
	case domain.IsImbalance(err):
		respondError(c, http.StatusInternalServerError, "imbalance", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
