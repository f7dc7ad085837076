package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/models"
	"github.com/grandmeridian/room-ops-backend/internal/realtime"
	"github.com/sirupsen/logrus"
)

// Actor is the authenticated staff member performing an operation,
// resolved by the auth layer. Floors is advisory scoping for supervisors
// handing out work, not an enforced data filter.
type Actor struct {
	ID     uuid.UUID
	Name   string
	Role   string
	Floors []int
}

// IsSupervisor reports whether the actor may manage assignment and
// configuration
func (a Actor) IsSupervisor() bool {
	return a.Role == models.RoleSupervisor
}

// snapshotRetries bounds the initial-load retry loop; the backoff doubles
// from snapshotBackoff between attempts.
const (
	snapshotRetries = 5
	snapshotBackoff = 500 * time.Millisecond
)

// Engine is the room lifecycle and realtime reconciliation core. Each
// process owns one Engine; peers stay consistent only through the shared
// backing store and its push stream.
type Engine struct {
	store    Store
	registry *Registry
	logger   *logrus.Logger

	welfareThreshold time.Duration
	now              func() time.Time

	mu            sync.Mutex
	staff         map[uuid.UUID]models.StaffProfile
	subscribers   map[int]chan struct{}
	nextSubID     int
	closed        bool
	unsubRooms    func()
	unsubActivity func()
}

// NewEngine creates an Engine around the given store. Call Start before
// use.
func NewEngine(store Store, welfareThreshold time.Duration, logger *logrus.Logger) *Engine {
	return &Engine{
		store:            store,
		registry:         NewRegistry(),
		logger:           logger,
		welfareThreshold: welfareThreshold,
		now:              time.Now,
		staff:            make(map[uuid.UUID]models.StaffProfile),
		subscribers:      make(map[int]chan struct{}),
	}
}

// Start loads the initial snapshot and attaches to the push stream. The
// snapshot read retries with backoff on transient store failures;
// anything else fails fast.
func (e *Engine) Start(ctx context.Context) error {
	rooms, err := e.loadSnapshot(ctx)
	if err != nil {
		return err
	}
	e.registry.Load(rooms)
	e.logger.WithField("rooms", len(rooms)).Info("Room registry loaded")

	staff, err := e.store.ListStaff()
	if err != nil {
		return fmt.Errorf("failed to load staff profiles: %w", err)
	}
	e.mu.Lock()
	for _, profile := range staff {
		e.staff[profile.ID] = profile
	}
	e.mu.Unlock()

	unsubRooms, err := e.store.SubscribeRoomChanges(ctx, e.handleRoomChange)
	if err != nil {
		return fmt.Errorf("failed to subscribe to room changes: %w", err)
	}
	unsubActivity, err := e.store.SubscribeActivityInserts(ctx, e.handleActivityInsert)
	if err != nil {
		unsubRooms()
		return fmt.Errorf("failed to subscribe to activity inserts: %w", err)
	}

	e.mu.Lock()
	e.unsubRooms = unsubRooms
	e.unsubActivity = unsubActivity
	e.mu.Unlock()

	return nil
}

func (e *Engine) loadSnapshot(ctx context.Context) ([]models.Room, error) {
	backoff := snapshotBackoff
	var lastErr error

	for attempt := 1; attempt <= snapshotRetries; attempt++ {
		rooms, err := e.store.ListRooms()
		if err == nil {
			return rooms, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return nil, err
		}

		e.logger.WithError(err).WithField("attempt", attempt).Warn("Snapshot load failed, retrying")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	return nil, fmt.Errorf("failed to load room snapshot after %d attempts: %w", snapshotRetries, lastErr)
}

// Close detaches from the push stream and tears the engine down. Writes
// that complete after Close are discarded rather than applied.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	unsubRooms := e.unsubRooms
	unsubActivity := e.unsubActivity
	for id, ch := range e.subscribers {
		close(ch)
		delete(e.subscribers, id)
	}
	e.mu.Unlock()

	if unsubRooms != nil {
		unsubRooms()
	}
	if unsubActivity != nil {
		unsubActivity()
	}
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// GetSnapshot returns the current room list, floor then room number order
func (e *Engine) GetSnapshot() []models.Room {
	return e.registry.Snapshot()
}

// GetRoom returns one room from the registry
func (e *Engine) GetRoom(id uuid.UUID) (models.Room, error) {
	room, ok := e.registry.Get(id)
	if !ok {
		return models.Room{}, ErrNotFound
	}
	return room, nil
}

// Subscribe registers for snapshot-changed notifications. The channel
// coalesces bursts; receivers re-read the snapshot on every tick. The
// returned function deregisters.
func (e *Engine) Subscribe() (<-chan struct{}, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSubID
	e.nextSubID++
	ch := make(chan struct{}, 1)
	e.subscribers[id] = ch

	unsubscribe := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if existing, ok := e.subscribers[id]; ok {
			delete(e.subscribers, id)
			close(existing)
		}
	}
	return ch, unsubscribe
}

func (e *Engine) notify() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ch := range e.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SetStatus moves a room to any explicit target status. The default-advance
// graph is a suggestion for the one-click action; every explicit target is
// valid from every source. The timestamp side effect travels with the
// status in one logical write, and a rejected write leaves no partial
// state locally.
func (e *Engine) SetStatus(actor Actor, roomID uuid.UUID, target models.RoomStatus) (*models.Room, error) {
	if !target.Valid() {
		return nil, NewValidationError("invalid room status: %s", target)
	}

	current, ok := e.registry.Get(roomID)
	if !ok {
		return nil, ErrNotFound
	}
	from := current.Status

	fields := statusPatch(target, e.now())
	e.registry.ApplyLocal(roomID, fields)

	room, err := e.store.UpdateRoom(roomID, fields)
	if err != nil {
		e.registry.Revert(roomID)
		e.notify()
		return nil, err
	}
	e.registry.Confirm(roomID, *room)

	e.recordActivity(actor, roomID, fmt.Sprintf("Status changed to %s", target), models.Metadata{
		"from": string(from),
		"to":   string(target),
	})
	e.notify()

	return room, nil
}

// Advance moves a room to its default successor. While a save for the
// room is still in flight the action is disabled and Advance returns the
// current state unchanged.
func (e *Engine) Advance(actor Actor, roomID uuid.UUID) (*models.Room, error) {
	room, ok := e.registry.Get(roomID)
	if !ok {
		return nil, ErrNotFound
	}

	if state, _ := e.registry.State(roomID); state == SyncPendingWrite {
		e.logger.WithField("room", room.RoomNumber).Debug("Advance skipped, save in flight")
		return &room, nil
	}

	return e.SetStatus(actor, roomID, DefaultNext(room.Status))
}

// Assign sets or clears a room's staff assignment. Only supervisors may
// assign; a nil staffID unassigns. The staff display name is captured at
// call time so the audit trail stays meaningful if a name later changes.
func (e *Engine) Assign(actor Actor, roomID uuid.UUID, staffID *uuid.UUID) (*models.Room, error) {
	if !actor.IsSupervisor() {
		return nil, &WriteRejectedError{Reason: "assignment requires supervisor role"}
	}

	room, ok := e.registry.Get(roomID)
	if !ok {
		return nil, ErrNotFound
	}

	var fields map[string]interface{}
	var action string
	if staffID != nil {
		profile, ok := e.staffProfile(*staffID)
		if !ok {
			return nil, NewValidationError("unknown staff member: %s", staffID)
		}
		fields = map[string]interface{}{"assigned_to": *staffID}
		action = fmt.Sprintf("Assigned to %s", profile.FullName)
	} else {
		fields = map[string]interface{}{"assigned_to": nil}
		action = "Unassigned"
	}

	e.registry.ApplyLocal(roomID, fields)

	updated, err := e.store.UpdateRoom(roomID, fields)
	if err != nil {
		e.registry.Revert(roomID)
		e.notify()
		return nil, err
	}
	e.registry.Confirm(roomID, *updated)

	e.recordActivity(actor, roomID, action, models.Metadata{"room_number": room.RoomNumber})
	e.notify()

	return updated, nil
}

// SetEffort grades how much cleaning work a room needs
func (e *Engine) SetEffort(actor Actor, roomID uuid.UUID, effort models.CleanEffort) (*models.Room, error) {
	if !effort.Valid() {
		return nil, NewValidationError("invalid clean effort: %s", effort)
	}
	return e.updateField(roomID, map[string]interface{}{"clean_effort": string(effort)})
}

// SetPriority toggles the manual operator priority flag
func (e *Engine) SetPriority(actor Actor, roomID uuid.UUID, priority bool) (*models.Room, error) {
	return e.updateField(roomID, map[string]interface{}{"priority": priority})
}

// updateField runs the optimistic-apply / confirm-or-revert cycle for a
// simple field write with no activity record
func (e *Engine) updateField(roomID uuid.UUID, fields map[string]interface{}) (*models.Room, error) {
	if _, ok := e.registry.Get(roomID); !ok {
		return nil, ErrNotFound
	}

	e.registry.ApplyLocal(roomID, fields)

	room, err := e.store.UpdateRoom(roomID, fields)
	if err != nil {
		e.registry.Revert(roomID)
		e.notify()
		return nil, err
	}
	e.registry.Confirm(roomID, *room)
	e.notify()

	return room, nil
}

// CreateTicket reports a maintenance issue against a room. The ticket
// insert and the forced maintenance status are one logical operation: if
// either write fails, neither lands.
func (e *Engine) CreateTicket(actor Actor, roomID uuid.UUID, note string) (*models.MaintenanceTicket, error) {
	if strings.TrimSpace(note) == "" {
		return nil, NewValidationError("ticket note cannot be empty")
	}

	current, ok := e.registry.Get(roomID)
	if !ok {
		return nil, ErrNotFound
	}
	from := current.Status

	e.registry.ApplyLocal(roomID, map[string]interface{}{"status": string(models.StatusMaintenance)})

	ticket, room, err := e.store.CreateTicket(roomID, note, actor.ID)
	if err != nil {
		e.registry.Revert(roomID)
		e.notify()
		return nil, err
	}
	e.registry.Confirm(roomID, *room)

	e.recordActivity(actor, roomID, fmt.Sprintf("Status changed to %s", models.StatusMaintenance), models.Metadata{
		"from": string(from),
		"to":   string(models.StatusMaintenance),
	})
	e.recordActivity(actor, roomID, "Maintenance ticket created", models.Metadata{"note": note})
	e.notify()

	return ticket, nil
}

// ListOpenTickets returns a room's open tickets, newest first
func (e *Engine) ListOpenTickets(roomID uuid.UUID) ([]models.MaintenanceTicket, error) {
	if _, ok := e.registry.Get(roomID); !ok {
		return nil, ErrNotFound
	}
	return e.store.ListOpenTickets(roomID)
}

// ResolveTicket closes an open ticket. The room stays in maintenance
// until an operator explicitly advances it out.
func (e *Engine) ResolveTicket(actor Actor, ticketID uuid.UUID) (*models.MaintenanceTicket, error) {
	return e.store.ResolveTicket(ticketID)
}

// ListActivity returns the most recent audit records, newest first
func (e *Engine) ListActivity(limit int) ([]models.ActivityRecord, error) {
	return e.store.ListActivity(limit)
}

// ListStaff returns the cached staff profiles ordered by display name
func (e *Engine) ListStaff() []models.StaffProfile {
	e.mu.Lock()
	defer e.mu.Unlock()

	staff := make([]models.StaffProfile, 0, len(e.staff))
	for _, profile := range e.staff {
		staff = append(staff, profile)
	}
	sortStaff(staff)
	return staff
}

func (e *Engine) staffProfile(id uuid.UUID) (models.StaffProfile, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	profile, ok := e.staff[id]
	return profile, ok
}

// recordActivity appends one audit record. The append is fire-and-forget:
// a failure is logged and the operation that triggered it still succeeds.
func (e *Engine) recordActivity(actor Actor, roomID uuid.UUID, action string, metadata models.Metadata) {
	record := &models.ActivityRecord{
		RoomID:   uuid.NullUUID{UUID: roomID, Valid: true},
		Action:   action,
		ActorID:  actor.ID,
		Metadata: metadata,
	}
	if err := e.store.AppendActivity(record); err != nil {
		e.logger.WithError(err).WithField("action", action).Warn("Failed to append activity record")
	}
}

// handleRoomChange merges one push event into the registry. Events
// arriving after Close are discarded.
func (e *Engine) handleRoomChange(event realtime.RoomChangeEvent) {
	if e.isClosed() {
		return
	}
	if e.registry.Merge(event) {
		e.notify()
	}
}

// handleActivityInsert fans new audit records out to subscribed views
func (e *Engine) handleActivityInsert(event realtime.ActivityInsertEvent) {
	if e.isClosed() {
		return
	}
	e.notify()
}
