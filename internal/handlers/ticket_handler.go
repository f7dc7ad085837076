package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/middleware"
)

// TicketHandler handles maintenance ticket HTTP requests
type TicketHandler struct {
	engine *engine.Engine
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(eng *engine.Engine) *TicketHandler {
	return &TicketHandler{engine: eng}
}

// ListRoomTickets returns the open tickets for a room
// GET /api/v1/rooms/:id/tickets
func (h *TicketHandler) ListRoomTickets(c *gin.Context) {
	roomID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tickets, err := h.engine.ListOpenTickets(roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tickets": tickets,
		"count":   len(tickets),
	})
}

// CreateTicketRequest represents a maintenance ticket creation request
type CreateTicketRequest struct {
	Note string `json:"note" binding:"required"`
}

// CreateTicket reports a maintenance issue against a room. The room is
// forced into maintenance status in the same operation.
// POST /api/v1/rooms/:id/tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	roomID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	actor := middleware.MustGetActor(c)
	ticket, err := h.engine.CreateTicket(actor, roomID, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ticket)
}

// ResolveTicket marks an open ticket as resolved. The room keeps its
// maintenance status until staff walks it through inspection.
// POST /api/v1/tickets/:id/resolve
func (h *TicketHandler) ResolveTicket(c *gin.Context) {
	ticketID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	actor := middleware.MustGetActor(c)
	ticket, err := h.engine.ResolveTicket(actor, ticketID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}
