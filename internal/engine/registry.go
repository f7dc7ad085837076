package engine

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/grandmeridian/room-ops-backend/internal/models"
	"github.com/grandmeridian/room-ops-backend/internal/realtime"
)

// SyncState tracks where a registry entry stands relative to the backing
// store.
type SyncState string

const (
	// SyncClean matches the last confirmed store state
	SyncClean SyncState = "clean"

	// SyncPendingWrite has a local optimistic mutation awaiting store
	// confirmation
	SyncPendingWrite SyncState = "pending_write"

	// SyncReverted had its optimistic mutation rejected; the entry was
	// restored from the last known-good copy and waits for the next push
	// event to confirm
	SyncReverted SyncState = "reverted"
)

type roomEntry struct {
	room     models.Room
	state    SyncState
	lastGood models.Room
}

// Registry is the in-process owner of the authoritative room list. Entries
// persist for the registry's whole lifetime; rooms are never deleted.
type Registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*roomEntry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[uuid.UUID]*roomEntry),
	}
}

// Load replaces the registry contents with a fresh store snapshot
func (r *Registry) Load(rooms []models.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[uuid.UUID]*roomEntry, len(rooms))
	for _, room := range rooms {
		r.entries[room.ID] = &roomEntry{
			room:     room,
			state:    SyncClean,
			lastGood: room,
		}
	}
}

// Get returns a copy of one room
func (r *Registry) Get(id uuid.UUID) (models.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return models.Room{}, false
	}
	return entry.room, true
}

// State returns the sync state of one entry
func (r *Registry) State(id uuid.UUID) (SyncState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return "", false
	}
	return entry.state, true
}

// Snapshot returns a copy of every room ordered by floor then room number
func (r *Registry) Snapshot() []models.Room {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rooms := make([]models.Room, 0, len(r.entries))
	for _, entry := range r.entries {
		rooms = append(rooms, entry.room)
	}
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].Floor != rooms[j].Floor {
			return rooms[i].Floor < rooms[j].Floor
		}
		return rooms[i].RoomNumber < rooms[j].RoomNumber
	})
	return rooms
}

// ApplyLocal applies an optimistic local mutation ahead of store
// confirmation. The previous room state is kept for revert.
func (r *Registry) ApplyLocal(id uuid.UUID, fields map[string]interface{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return false
	}
	entry.lastGood = entry.room
	applyFields(&entry.room, fields)
	entry.state = SyncPendingWrite
	return true
}

// Confirm replaces an entry with the store's committed row
func (r *Registry) Confirm(id uuid.UUID, room models.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return
	}
	entry.room = room
	entry.lastGood = room
	entry.state = SyncClean
}

// Revert restores an entry from its last known-good copy after a write
// rejection
func (r *Registry) Revert(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return
	}
	entry.room = entry.lastGood
	entry.state = SyncReverted
}

// Merge folds a remote push event into the matching entry by shallow field
// overwrite. The currently focused room is merged exactly like any other
// entry, so a second actor's change shows up without a reopen. Events for
// unknown rooms are dropped; the next full snapshot load picks them up.
func (r *Registry) Merge(event realtime.RoomChangeEvent) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[event.RoomID]
	if !ok {
		return false
	}

	changed := applyFields(&entry.room, event.Fields)
	if entry.state == SyncReverted {
		// The push stream has caught the entry back up to store truth
		entry.lastGood = entry.room
		entry.state = SyncClean
	}
	return changed
}
