package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/models"
	"github.com/grandmeridian/room-ops-backend/internal/realtime"
)

// Store is the narrow data-access interface the engine consumes. The
// backing store is the single source of truth and the single serialization
// point; the engine never attempts distributed locking or multi-step
// transactions across independent store calls.
type Store interface {
	// ListRooms returns every room ordered by floor then room number
	ListRooms() ([]models.Room, error)

	// UpdateRoom applies a partial field update and returns the stored row
	UpdateRoom(id uuid.UUID, fields map[string]interface{}) (*models.Room, error)

	// CreateTicket inserts an open ticket and forces the owning room to
	// maintenance as one logical write, returning both results
	CreateTicket(roomID uuid.UUID, note string, createdBy uuid.UUID) (*models.MaintenanceTicket, *models.Room, error)

	// ListOpenTickets returns a room's open tickets, newest first
	ListOpenTickets(roomID uuid.UUID) ([]models.MaintenanceTicket, error)

	// ResolveTicket closes an open ticket; resolving twice is rejected
	ResolveTicket(id uuid.UUID) (*models.MaintenanceTicket, error)

	// ListStaff returns every staff profile
	ListStaff() ([]models.StaffProfile, error)

	// AppendActivity appends one audit record
	AppendActivity(record *models.ActivityRecord) error

	// ListActivity returns the most recent records, newest first
	ListActivity(limit int) ([]models.ActivityRecord, error)

	// SubscribeRoomChanges delivers committed room writes in commit order;
	// the returned handle tears the subscription down
	SubscribeRoomChanges(ctx context.Context, callback func(realtime.RoomChangeEvent)) (func(), error)

	// SubscribeActivityInserts delivers freshly appended activity records
	SubscribeActivityInserts(ctx context.Context, callback func(realtime.ActivityInsertEvent)) (func(), error)
}
