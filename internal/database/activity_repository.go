package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// ActivityRepository handles the append-only audit trail. There is no
// update or delete path on purpose.
type ActivityRepository struct {
	db DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db DB) *ActivityRepository {
	return &ActivityRepository{
		db: db,
	}
}

// Append inserts one activity record and fills in its store-assigned id
// and timestamp
func (r *ActivityRepository) Append(record *models.ActivityRecord) error {
	query := `
		INSERT INTO activity_log (id, room_id, action, actor_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`

	row := r.db.QueryRow(query, uuid.New(), record.RoomID, record.Action, record.ActorID, record.Metadata)
	if err := row.Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("failed to append activity record: %w", err)
	}

	return nil
}

// ListRecent returns the most recent records, newest first, with actor
// display names resolved via staff_profiles at read time
func (r *ActivityRepository) ListRecent(limit int) ([]models.ActivityRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT a.id, a.room_id, a.action, a.actor_id, a.metadata, a.created_at,
		       p.full_name AS actor_name
		FROM activity_log a
		LEFT JOIN staff_profiles p ON p.id = a.actor_id
		ORDER BY a.created_at DESC
		LIMIT $1
	`

	records := []models.ActivityRecord{}
	if err := r.db.Select(&records, query, limit); err != nil {
		return nil, &engine.TransientError{Op: "list activity", Err: err}
	}

	return records, nil
}
