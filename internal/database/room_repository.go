package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// roomColumns is the full select/returning list for room rows
const roomColumns = `id, room_number, floor, status, assigned_to, clean_effort, priority, dnd_since, last_cleaned_at, guest_prefs, updated_at`

// roomUpdateColumns whitelists the fields a partial room update may touch.
// updated_at is always set by the store, never by the caller.
var roomUpdateColumns = map[string]bool{
	"status":          true,
	"assigned_to":     true,
	"clean_effort":    true,
	"priority":        true,
	"dnd_since":       true,
	"last_cleaned_at": true,
	"guest_prefs":     true,
}

// RoomRepository handles room database operations
type RoomRepository struct {
	db DB
}

// NewRoomRepository creates a new room repository
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{
		db: db,
	}
}

// ListRooms returns every room ordered by floor then room number
func (r *RoomRepository) ListRooms() ([]models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms ORDER BY floor, room_number`, roomColumns)

	rooms := []models.Room{}
	if err := r.db.Select(&rooms, query); err != nil {
		return nil, &engine.TransientError{Op: "list rooms", Err: err}
	}

	return rooms, nil
}

// GetRoomByID returns a single room
func (r *RoomRepository) GetRoomByID(id uuid.UUID) (*models.Room, error) {
	query := fmt.Sprintf(`SELECT %s FROM rooms WHERE id = $1`, roomColumns)

	var room models.Room
	if err := r.db.Get(&room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrNotFound
		}
		return nil, &engine.TransientError{Op: "get room", Err: err}
	}

	return &room, nil
}

// UpdateRoom applies a partial field update and returns the stored row.
// updated_at is stamped by the store on every mutation.
func (r *RoomRepository) UpdateRoom(id uuid.UUID, fields map[string]interface{}) (*models.Room, error) {
	if len(fields) == 0 {
		return nil, engine.NewValidationError("no fields to update")
	}

	// Deterministic column order keeps the statement stable for logging
	// and tests
	names := make([]string, 0, len(fields))
	for name := range fields {
		if !roomUpdateColumns[name] {
			return nil, engine.NewValidationError("unknown room field: %s", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	setClauses := make([]string, 0, len(names)+1)
	args := make([]interface{}, 0, len(names)+1)
	for i, name := range names {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", name, i+1))
		args = append(args, fields[name])
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(
		`UPDATE rooms SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), roomColumns,
	)

	var room models.Room
	if err := r.db.Get(&room, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrNotFound
		}
		return nil, classifyWriteError("update room", err)
	}

	return &room, nil
}
