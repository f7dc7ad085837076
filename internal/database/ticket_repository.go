package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/engine"
	"github.com/grandmeridian/room-ops-backend/internal/models"
)

const ticketColumns = `id, room_id, note, created_by, status, created_at, resolved_at`

// TicketRepository handles maintenance ticket database operations
type TicketRepository struct {
	db DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db DB) *TicketRepository {
	return &TicketRepository{
		db: db,
	}
}

// CreateWithMaintenance inserts an open ticket and forces the owning room
// into maintenance in one transaction. Either both writes land or neither
// does, so a ticket can never exist against a room that missed the status
// change.
func (r *TicketRepository) CreateWithMaintenance(roomID uuid.UUID, note string, createdBy uuid.UUID) (*models.MaintenanceTicket, *models.Room, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, nil, &engine.TransientError{Op: "begin ticket transaction", Err: err}
	}
	defer tx.Rollback()

	insertQuery := fmt.Sprintf(`
		INSERT INTO maintenance_tickets (id, room_id, note, created_by, status, created_at)
		VALUES ($1, $2, $3, $4, 'open', NOW())
		RETURNING %s
	`, ticketColumns)

	var ticket models.MaintenanceTicket
	if err := tx.Get(&ticket, insertQuery, uuid.New(), roomID, note, createdBy); err != nil {
		return nil, nil, classifyWriteError("create ticket", err)
	}

	updateQuery := fmt.Sprintf(`
		UPDATE rooms SET status = 'maintenance', updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, roomColumns)

	var room models.Room
	if err := tx.Get(&room, updateQuery, roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, engine.ErrNotFound
		}
		return nil, nil, classifyWriteError("set room to maintenance", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, &engine.TransientError{Op: "commit ticket transaction", Err: err}
	}

	return &ticket, &room, nil
}

// ListOpenTickets returns the open tickets for one room, newest first,
// with creator names resolved at read time.
func (r *TicketRepository) ListOpenTickets(roomID uuid.UUID) ([]models.MaintenanceTicket, error) {
	query := `
		SELECT t.id, t.room_id, t.note, t.created_by, t.status, t.created_at, t.resolved_at,
		       p.full_name AS creator_name
		FROM maintenance_tickets t
		LEFT JOIN staff_profiles p ON p.id = t.created_by
		WHERE t.room_id = $1 AND t.status = 'open'
		ORDER BY t.created_at DESC
	`

	tickets := []models.MaintenanceTicket{}
	if err := r.db.Select(&tickets, query, roomID); err != nil {
		return nil, &engine.TransientError{Op: "list open tickets", Err: err}
	}

	return tickets, nil
}

// ResolveTicket closes an open ticket. Resolving an already-resolved
// ticket is rejected and resolved_at never moves; the open-only guard in
// the statement makes concurrent resolvers race safely.
func (r *TicketRepository) ResolveTicket(id uuid.UUID) (*models.MaintenanceTicket, error) {
	query := fmt.Sprintf(`
		UPDATE maintenance_tickets SET status = 'resolved', resolved_at = NOW()
		WHERE id = $1 AND status = 'open'
		RETURNING %s
	`, ticketColumns)

	var ticket models.MaintenanceTicket
	err := r.db.Get(&ticket, query, id)
	if err == nil {
		return &ticket, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, classifyWriteError("resolve ticket", err)
	}

	// No open ticket matched: distinguish already-resolved from missing
	var status models.TicketStatus
	checkErr := r.db.Get(&status, `SELECT status FROM maintenance_tickets WHERE id = $1`, id)
	if checkErr != nil {
		if errors.Is(checkErr, sql.ErrNoRows) {
			return nil, engine.ErrNotFound
		}
		return nil, &engine.TransientError{Op: "resolve ticket", Err: checkErr}
	}

	return nil, &engine.WriteRejectedError{Reason: "ticket already resolved"}
}
