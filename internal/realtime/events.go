package realtime

import (
	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

// RoomChangeEvent carries the field set one committed write changed on a
// room. Only changed fields are present; absent fields were not touched by
// the write. Events are merged field-by-field (last write wins), so
// duplicate or re-ordered delivery of the same event is harmless.
type RoomChangeEvent struct {
	RoomID uuid.UUID              `json:"room_id"`
	Fields map[string]interface{} `json:"fields"`
}

// ActivityInsertEvent announces a freshly appended activity record
type ActivityInsertEvent struct {
	Record models.ActivityRecord `json:"record"`
}
