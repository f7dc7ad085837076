package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
)

// respondError maps engine error kinds onto HTTP responses so every
// handler reports failures the same way
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Resource not found",
		})
	case engine.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
	case engine.IsWriteRejected(err):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "write_rejected",
			"message": err.Error(),
		})
	case engine.IsTransient(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "temporarily_unavailable",
			"message": "The operation could not be completed, please retry",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}

// parseUUIDParam reads a UUID path parameter, responding with a 400 on
// malformed input. The bool reports whether the handler should continue.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "Invalid " + name + " parameter: must be a UUID",
		})
		return uuid.Nil, false
	}
	return id, true
}
