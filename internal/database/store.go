package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/models"
	"github.com/grandmeridian/room-ops-backend/internal/realtime"
	"github.com/sirupsen/logrus"
)

// Store wires the Postgres repositories to the Redis push stream and
// implements the engine's data-access interface. Every committed write is
// published after the commit, so subscribers observe changes in commit
// order.
type Store struct {
	rooms      *RoomRepository
	tickets    *TicketRepository
	activity   *ActivityRepository
	staff      *StaffRepository
	publisher  *realtime.Publisher
	subscriber *realtime.Subscriber
	logger     *logrus.Logger
	pubCtx     context.Context
}

// compile-time check that Store satisfies the engine's interface
var _ engine.Store = (*Store)(nil)

// NewStore creates a Store over the given repositories and push stream
func NewStore(
	rooms *RoomRepository,
	tickets *TicketRepository,
	activity *ActivityRepository,
	staff *StaffRepository,
	publisher *realtime.Publisher,
	subscriber *realtime.Subscriber,
	logger *logrus.Logger,
) *Store {
	return &Store{
		rooms:      rooms,
		tickets:    tickets,
		activity:   activity,
		staff:      staff,
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
		pubCtx:     context.Background(),
	}
}

// ListRooms returns every room ordered by floor then room number
func (s *Store) ListRooms() ([]models.Room, error) {
	return s.rooms.ListRooms()
}

// UpdateRoom applies a partial update and publishes the committed field
// set
func (s *Store) UpdateRoom(id uuid.UUID, fields map[string]interface{}) (*models.Room, error) {
	room, err := s.rooms.UpdateRoom(id, fields)
	if err != nil {
		return nil, err
	}

	s.publishRoomChange(room, fieldNames(fields))
	return room, nil
}

// CreateTicket inserts an open ticket and forces the room to maintenance
// in one transaction, then publishes the status change
func (s *Store) CreateTicket(roomID uuid.UUID, note string, createdBy uuid.UUID) (*models.MaintenanceTicket, *models.Room, error) {
	ticket, room, err := s.tickets.CreateWithMaintenance(roomID, note, createdBy)
	if err != nil {
		return nil, nil, err
	}

	s.publishRoomChange(room, []string{"status"})
	return ticket, room, nil
}

// ListOpenTickets returns a room's open tickets, newest first
func (s *Store) ListOpenTickets(roomID uuid.UUID) ([]models.MaintenanceTicket, error) {
	return s.tickets.ListOpenTickets(roomID)
}

// ResolveTicket closes an open ticket
func (s *Store) ResolveTicket(id uuid.UUID) (*models.MaintenanceTicket, error) {
	return s.tickets.ResolveTicket(id)
}

// ListStaff returns every staff profile
func (s *Store) ListStaff() ([]models.StaffProfile, error) {
	return s.staff.ListStaff()
}

// AppendActivity appends one audit record and announces it on the push
// stream
func (s *Store) AppendActivity(record *models.ActivityRecord) error {
	if err := s.activity.Append(record); err != nil {
		return err
	}
	s.publisher.PublishActivityInsert(s.pubCtx, realtime.ActivityInsertEvent{Record: *record})
	return nil
}

// ListActivity returns the most recent audit records, newest first
func (s *Store) ListActivity(limit int) ([]models.ActivityRecord, error) {
	return s.activity.ListRecent(limit)
}

// SubscribeRoomChanges attaches a callback to the room change stream
func (s *Store) SubscribeRoomChanges(ctx context.Context, callback func(realtime.RoomChangeEvent)) (func(), error) {
	return s.subscriber.SubscribeRoomChanges(ctx, callback)
}

// SubscribeActivityInserts attaches a callback to the activity stream
func (s *Store) SubscribeActivityInserts(ctx context.Context, callback func(realtime.ActivityInsertEvent)) (func(), error) {
	return s.subscriber.SubscribeActivityInserts(ctx, callback)
}

// publishRoomChange announces the committed values of the touched columns
// plus the store-stamped updated_at. Values come from the returned row, so
// peers merge exactly what the store committed, not what the caller asked
// for.
func (s *Store) publishRoomChange(room *models.Room, touched []string) {
	fields := map[string]interface{}{
		"updated_at": room.UpdatedAt,
	}
	for _, name := range touched {
		switch name {
		case "status":
			fields["status"] = string(room.Status)
		case "assigned_to":
			if room.AssignedTo.Valid {
				fields["assigned_to"] = room.AssignedTo.UUID.String()
			} else {
				fields["assigned_to"] = nil
			}
		case "clean_effort":
			fields["clean_effort"] = string(room.CleanEffort)
		case "priority":
			fields["priority"] = room.Priority
		case "guest_prefs":
			if room.GuestPrefs.Valid {
				fields["guest_prefs"] = room.GuestPrefs.String
			} else {
				fields["guest_prefs"] = nil
			}
		case "dnd_since":
			if room.DNDSince.Valid {
				fields["dnd_since"] = room.DNDSince.Time
			} else {
				fields["dnd_since"] = nil
			}
		case "last_cleaned_at":
			if room.LastCleanedAt.Valid {
				fields["last_cleaned_at"] = room.LastCleanedAt.Time
			} else {
				fields["last_cleaned_at"] = nil
			}
		}
	}

	event := realtime.RoomChangeEvent{RoomID: room.ID, Fields: fields}
	if err := s.publisher.PublishRoomChange(s.pubCtx, event); err != nil {
		// The write is already durable; peers that miss the event catch
		// up on their next snapshot load
		s.logger.WithError(err).WithField("room_id", room.ID).Warn("Failed to publish room change")
	}
}

func fieldNames(fields map[string]interface{}) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
