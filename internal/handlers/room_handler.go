package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/middleware"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// RoomHandler handles room lifecycle HTTP requests
type RoomHandler struct {
	engine *engine.Engine
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(eng *engine.Engine) *RoomHandler {
	return &RoomHandler{engine: eng}
}

// ListRooms returns the current room snapshot
// GET /api/v1/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms := h.engine.GetSnapshot()

	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// GetRoom returns a single room by id
// GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	room, err := h.engine.GetRoom(roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// Stats returns dashboard counts grouped by status
// GET /api/v1/rooms/stats
func (h *RoomHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.CountByStatus())
}

// Attention returns rooms flagged for welfare checks or manual priority
// GET /api/v1/rooms/attention
func (h *RoomHandler) Attention(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.RoomsNeedingAttention())
}

// MyQueue returns the rooms assigned to the calling staff member
// GET /api/v1/rooms/my-queue
func (h *RoomHandler) MyQueue(c *gin.Context) {
	actor := middleware.MustGetActor(c)
	rooms := h.engine.QueueFor(actor.ID)

	c.JSON(http.StatusOK, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// Advance moves a room one step along its default status path
// POST /api/v1/rooms/:id/advance
func (h *RoomHandler) Advance(c *gin.Context) {
	roomID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	actor := middleware.MustGetActor(c)
	room, err := h.engine.Advance(actor, roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// SetStatusRequest represents an explicit status change request
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus sets a room to an explicit status
// POST /api/v1/rooms/:id/status
func (h *RoomHandler) SetStatus(c *gin.Context) {
	roomID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	actor := middleware.MustGetActor(c)
	room, err := h.engine.SetStatus(actor, roomID, models.RoomStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// AssignRequest represents an assignment request. A null staff_id clears
// the assignment.
type AssignRequest struct {
	StaffID *uuid.UUID `json:"staff_id"`
}

// Assign assigns a room to a staff member, or unassigns it
// POST /api/v1/rooms/:id/assign
func (h *RoomHandler) Assign(c *gin.Context) {
	roomID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	actor := middleware.MustGetActor(c)
	room, err := h.engine.Assign(actor, roomID, req.StaffID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// SetEffortRequest represents a cleaning effort grade request
type SetEffortRequest struct {
	Effort string `json:"effort" binding:"required"`
}

// SetEffort grades how much cleaning work a room needs
// POST /api/v1/rooms/:id/effort
func (h *RoomHandler) SetEffort(c *gin.Context) {
	roomID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req SetEffortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	actor := middleware.MustGetActor(c)
	room, err := h.engine.SetEffort(actor, roomID, models.CleanEffort(req.Effort))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// SetPriorityRequest represents a priority flag request
type SetPriorityRequest struct {
	Priority *bool `json:"priority" binding:"required"`
}

// SetPriority toggles the manual priority flag on a room
// POST /api/v1/rooms/:id/priority
func (h *RoomHandler) SetPriority(c *gin.Context) {
	roomID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req SetPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	actor := middleware.MustGetActor(c)
	room, err := h.engine.SetPriority(actor, roomID, *req.Priority)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}
