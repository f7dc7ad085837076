package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grandmeridian/room-ops-backend/internal/database"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// HotelConfigHandler handles hotel-level settings HTTP requests
type HotelConfigHandler struct {
	configRepo *database.HotelConfigRepository
}

// NewHotelConfigHandler creates a new HotelConfigHandler
func NewHotelConfigHandler(configRepo *database.HotelConfigRepository) *HotelConfigHandler {
	return &HotelConfigHandler{configRepo: configRepo}
}

// GetConfig returns the hotel settings
// GET /api/v1/hotel-config
func (h *HotelConfigHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configRepo.GetConfig()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// UpdateConfigRequest represents a hotel settings update
type UpdateConfigRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// UpdateConfig replaces the hotel settings (supervisor only)
// PUT /api/v1/hotel-config
func (h *HotelConfigHandler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": err.Error(),
		})
		return
	}

	update := &models.HotelConfig{ID: 1, Name: req.Name}
	if req.Address != "" {
		update.Address = models.NewNullString(req.Address)
	}
	if req.Phone != "" {
		update.Phone = models.NewNullString(req.Phone)
	}

	cfg, err := h.configRepo.UpsertConfig(update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, cfg)
}
