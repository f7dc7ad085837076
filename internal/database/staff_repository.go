package database

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// StaffRepository reads staff profiles maintained by the identity
// provider. The engine never writes these.
type StaffRepository struct {
	db DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{
		db: db,
	}
}

// ListStaff returns every staff profile ordered by display name
func (r *StaffRepository) ListStaff() ([]models.StaffProfile, error) {
	query := `
		SELECT id, full_name, role, floors, avatar_initial, created_at
		FROM staff_profiles
		ORDER BY full_name
	`

	staff := []models.StaffProfile{}
	if err := r.db.Select(&staff, query); err != nil {
		return nil, &engine.TransientError{Op: "list staff", Err: err}
	}

	return staff, nil
}

// GetStaffByID returns a single staff profile
func (r *StaffRepository) GetStaffByID(id uuid.UUID) (*models.StaffProfile, error) {
	query := `
		SELECT id, full_name, role, floors, avatar_initial, created_at
		FROM staff_profiles
		WHERE id = $1
	`

	var profile models.StaffProfile
	if err := r.db.Get(&profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrNotFound
		}
		return nil, &engine.TransientError{Op: "get staff profile", Err: err}
	}

	return &profile, nil
}
