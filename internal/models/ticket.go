package models

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus enumerates lifecycle states for maintenance tickets
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketResolved TicketStatus = "resolved"
)

// MaintenanceTicket is a maintenance issue report tied to a room.
// Lifecycle is strictly open -> resolved; tickets are never reopened.
type MaintenanceTicket struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	RoomID     uuid.UUID    `json:"room_id" db:"room_id"`
	Note       string       `json:"note" db:"note"`
	CreatedBy  uuid.UUID    `json:"created_by" db:"created_by"`
	Status     TicketStatus `json:"status" db:"status"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	ResolvedAt NullTime     `json:"resolved_at,omitempty" db:"resolved_at"`

	// CreatorName is joined from staff_profiles on reads, never stored
	CreatorName NullString `json:"creator_name,omitempty" db:"creator_name"`
}
