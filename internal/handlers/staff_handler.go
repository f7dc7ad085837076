package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
)

// StaffHandler handles staff roster HTTP requests
type StaffHandler struct {
	engine *engine.Engine
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(eng *engine.Engine) *StaffHandler {
	return &StaffHandler{engine: eng}
}

// ListStaff returns the staff roster
// GET /api/v1/staff
func (h *StaffHandler) ListStaff(c *gin.Context) {
	staff := h.engine.ListStaff()

	c.JSON(http.StatusOK, gin.H{
		"staff": staff,
		"count": len(staff),
	})
}

// Workload returns derived workload counters for one staff member
// GET /api/v1/staff/:id/workload
func (h *StaffHandler) Workload(c *gin.Context) {
	staffID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.engine.WorkloadFor(staffID))
}
