package database

import (
	"database/sql"
	"errors"

	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// HotelConfigRepository handles the single-row hotel display configuration
type HotelConfigRepository struct {
	db DB
}

// NewHotelConfigRepository creates a new hotel config repository
func NewHotelConfigRepository(db DB) *HotelConfigRepository {
	return &HotelConfigRepository{
		db: db,
	}
}

// GetConfig returns the hotel configuration. A missing row yields a
// default rather than an error so fresh deployments render.
func (r *HotelConfigRepository) GetConfig() (*models.HotelConfig, error) {
	query := `SELECT id, name, address, phone FROM hotel_config WHERE id = 1`

	var cfg models.HotelConfig
	if err := r.db.Get(&cfg, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.HotelConfig{ID: 1, Name: "Grand Meridian Hotel"}, nil
		}
		return nil, &engine.TransientError{Op: "get hotel config", Err: err}
	}

	return &cfg, nil
}

// UpsertConfig saves the hotel configuration
func (r *HotelConfigRepository) UpsertConfig(cfg *models.HotelConfig) (*models.HotelConfig, error) {
	query := `
		INSERT INTO hotel_config (id, name, address, phone)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $1, address = $2, phone = $3
		RETURNING id, name, address, phone
	`

	var saved models.HotelConfig
	if err := r.db.Get(&saved, query, cfg.Name, cfg.Address, cfg.Phone); err != nil {
		return nil, classifyWriteError("save hotel config", err)
	}

	return &saved, nil
}
