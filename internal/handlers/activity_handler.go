package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
)

const maxActivityLimit = 200

// ActivityHandler handles activity feed HTTP requests
type ActivityHandler struct {
	engine *engine.Engine
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(eng *engine.Engine) *ActivityHandler {
	return &ActivityHandler{engine: eng}
}

// ListActivity returns the most recent activity records, newest first
// GET /api/v1/activity?limit=50
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation_error",
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	records, err := h.engine.ListActivity(limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": records,
		"count":    len(records),
	})
}
