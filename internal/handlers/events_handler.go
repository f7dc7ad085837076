package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
)

const keepAliveInterval = 25 * time.Second

// EventsHandler streams room snapshot updates to connected dashboards
// over server-sent events
type EventsHandler struct {
	engine *engine.Engine
}

// NewEventsHandler creates a new EventsHandler
func NewEventsHandler(eng *engine.Engine) *EventsHandler {
	return &EventsHandler{engine: eng}
}

// Stream pushes a "snapshot" event whenever the room registry changes.
// Clients re-render from the full snapshot, so missed intermediate
// updates are harmless.
// GET /api/v1/events
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	updates, unsubscribe := h.engine.Subscribe()
	defer unsubscribe()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	// Send the current state immediately so late joiners are not blank
	// until the next change.
	c.SSEvent("snapshot", h.engine.GetSnapshot())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case _, ok := <-updates:
			if !ok {
				return false
			}
			c.SSEvent("snapshot", h.engine.GetSnapshot())
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
