package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Metadata is an opaque key/value bag stored as JSONB
type Metadata map[string]interface{}

// Value implements driver.Valuer
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("unsupported metadata type %T", value)
	}
	return json.Unmarshal(b, m)
}

// ActivityRecord is one append-only audit trail entry. Records are never
// mutated or deleted.
type ActivityRecord struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	RoomID    uuid.NullUUID `json:"room_id,omitempty" db:"room_id"`
	Action    string        `json:"action" db:"action"`
	ActorID   uuid.UUID     `json:"actor_id" db:"actor_id"`
	Metadata  Metadata      `json:"metadata" db:"metadata"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`

	// ActorName is joined from staff_profiles on reads, never stored
	ActorName NullString `json:"actor_name,omitempty" db:"actor_name"`
}
